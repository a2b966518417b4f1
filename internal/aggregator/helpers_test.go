package aggregator

import (
	"time"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// f returns a pointer to v, for nullable metric fields.
func f(v float64) *float64 { return &v }

var seasonStart = time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)

// gameDay returns the date of the i-th game of a synthetic season.
func gameDay(i int) time.Time {
	return seasonStart.AddDate(0, 0, i)
}

// pitch builds an EventRecord on the given date.
func pitch(d time.Time, event, desc string, launchSpeed *float64) model.EventRecord {
	return model.EventRecord{
		GameDate:    d,
		EventType:   event,
		Description: desc,
		LaunchSpeed: launchSpeed,
	}
}

// season builds n games with one ball-in-play single per game, launch speed
// given by speed(i).
func season(n int, speed func(i int) float64) []model.EventRecord {
	var events []model.EventRecord
	for i := 0; i < n; i++ {
		d := gameDay(i)
		events = append(events,
			pitch(d, "", "foul", nil),
			pitch(d, "single", "hit_into_play", f(speed(i))),
		)
	}
	return events
}

// dateSet returns the distinct date keys present in events.
func dateSet(events []model.EventRecord) map[string]bool {
	out := make(map[string]bool)
	for i := range events {
		out[events[i].DateKey()] = true
	}
	return out
}

// dayKeys returns the date keys of games [from, to).
func dayKeys(from, to int) map[string]bool {
	out := make(map[string]bool)
	for i := from; i < to; i++ {
		out[gameDay(i).Format(model.DateLayout)] = true
	}
	return out
}

// flat returns a constant launch speed for every game.
func flat(v float64) func(int) float64 {
	return func(int) float64 { return v }
}
