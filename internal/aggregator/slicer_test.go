package aggregator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// TestSlice_InsufficientSample: any season under 30 game dates is rejected with the count.
func TestSlice_InsufficientSample(t *testing.T) {
	for _, n := range []int{0, 1, 10, 29} {
		_, err := SliceByGameIndex(season(n, flat(90)))
		var ise *InsufficientSampleError
		if !errors.As(err, &ise) {
			t.Fatalf("n=%d: expected InsufficientSampleError, got %v", n, err)
		}
		if ise.Games != n || ise.Required != 30 {
			t.Errorf("n=%d: got Games=%d Required=%d", n, ise.Games, ise.Required)
		}
	}
}

// TestSlice_WindowBoundaries checks the exact date indices of each window.
func TestSlice_WindowBoundaries(t *testing.T) {
	cases := []struct {
		n            int
		midFrom, mid int
	}{
		{30, 10, 20},
		{31, 10, 20},
		{45, 17, 27},
		{162, 76, 86},
	}
	for _, tc := range cases {
		w, err := SliceByGameIndex(season(tc.n, flat(90)))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", tc.n, err)
		}
		if got, want := dateSet(w.Early), dayKeys(0, 10); !reflect.DeepEqual(got, want) {
			t.Errorf("n=%d: early dates = %v, want %v", tc.n, got, want)
		}
		if got, want := dateSet(w.Late), dayKeys(tc.n-10, tc.n); !reflect.DeepEqual(got, want) {
			t.Errorf("n=%d: late dates = %v, want %v", tc.n, got, want)
		}
		if got, want := dateSet(w.Mid), dayKeys(tc.midFrom, tc.mid); !reflect.DeepEqual(got, want) {
			t.Errorf("n=%d: mid dates = %v, want %v", tc.n, got, want)
		}
	}
}

// TestSlice_EarlyLateDisjoint: Early and Late never share a date once n >= 30.
func TestSlice_EarlyLateDisjoint(t *testing.T) {
	for n := 30; n <= 60; n++ {
		w, err := SliceByGameIndex(season(n, flat(90)))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		late := dateSet(w.Late)
		for d := range dateSet(w.Early) {
			if late[d] {
				t.Fatalf("n=%d: date %s in both early and late", n, d)
			}
		}
	}
}

// TestSlice_UnsortedInputAndSourceUntouched: input order is irrelevant and the
// caller's slice is not reordered.
func TestSlice_UnsortedInputAndSourceUntouched(t *testing.T) {
	events := season(35, flat(90))
	// reverse
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	before := append([]model.EventRecord(nil), events...)

	w, err := SliceByGameIndex(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := dateSet(w.Early), dayKeys(0, 10); !reflect.DeepEqual(got, want) {
		t.Errorf("early dates = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(events, before) {
		t.Error("source events were modified")
	}
}

// TestSlice_MultiplePitchesPerGame: every record on a window date is included.
func TestSlice_MultiplePitchesPerGame(t *testing.T) {
	w, err := SliceByGameIndex(season(30, flat(90)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Early) != 20 || len(w.Mid) != 20 || len(w.Late) != 20 {
		t.Errorf("expected 20 records per window, got %d/%d/%d", len(w.Early), len(w.Mid), len(w.Late))
	}
}

func TestGroupByDate(t *testing.T) {
	events := []model.EventRecord{
		pitch(gameDay(2), "", "ball", nil),
		pitch(gameDay(0), "walk", "ball", nil),
		pitch(gameDay(2), "single", "hit_into_play", f(99)),
	}
	dates, groups := GroupByDate(events)
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", dates)
	}
	if dates[0] != "2024-03-28" || dates[1] != "2024-03-30" {
		t.Errorf("unexpected dates %v", dates)
	}
	if len(groups[0]) != 1 || len(groups[1]) != 2 {
		t.Errorf("unexpected group sizes %d, %d", len(groups[0]), len(groups[1]))
	}
}
