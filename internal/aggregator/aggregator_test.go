package aggregator

import (
	"testing"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// eqPtr reports whether got holds want (or both are nil when want is nil).
func eqPtr(got *float64, want *float64) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}

func fmtPtr(p *float64) any {
	if p == nil {
		return "nil"
	}
	return *p
}

// ---- Full window ----

// TestAggregateSegment_Mixed exercises every metric on a two-game window.
func TestAggregateSegment_Mixed(t *testing.T) {
	d1, d2 := gameDay(0), gameDay(1)
	events := []model.EventRecord{
		pitch(d1, "", "swinging_strike", nil),
		pitch(d1, "", "foul", nil),
		{GameDate: d1, EventType: "single", Description: "hit_into_play",
			LaunchSpeed: f(100), LaunchAngle: f(10), HitDistance: f(200), ReleaseSpinRate: f(2200)},
		{GameDate: d1, EventType: "home_run", Description: "hit_into_play",
			LaunchSpeed: f(105), LaunchAngle: f(28), HitDistance: f(410.5), ReleaseSpinRate: f(2300)},
		{GameDate: d1, EventType: "strikeout", Description: "swinging_strike_blocked", ReleaseSpinRate: f(2400)},
		pitch(d2, "walk", "ball", nil),
		{GameDate: d2, EventType: "field_out", Description: "hit_into_play",
			LaunchSpeed: f(80), LaunchAngle: f(-5), HitDistance: f(5)},
		{GameDate: d2, EventType: "sac_fly", Description: "hit_into_play",
			LaunchSpeed: f(90), LaunchAngle: f(40), HitDistance: f(300)},
	}

	m := AggregateSegment(events, model.SegmentEarly)

	if m.Segment != model.SegmentEarly {
		t.Errorf("segment label: got %q", m.Segment)
	}
	if m.Games != 2 {
		t.Errorf("games: expected 2, got %d", m.Games)
	}
	if m.PlateAppearances != 6 {
		t.Errorf("plate_appearances: expected 6, got %d", m.PlateAppearances)
	}
	if m.HomeRuns != 1 || m.Walks != 1 || m.Strikeouts != 1 {
		t.Errorf("counts: expected 1/1/1, got HR=%d BB=%d K=%d", m.HomeRuns, m.Walks, m.Strikeouts)
	}

	checks := []struct {
		name string
		got  *float64
		want *float64
	}{
		{"avg_launch_speed", m.AvgLaunchSpeed, f(93.75)},
		{"avg_launch_angle", m.AvgLaunchAngle, f(18.25)},
		{"hard_hit_rate", m.HardHitRate, f(50)},
		{"whiff_rate", m.WhiffRate, f(28.57)},
		{"max_hit_distance", m.MaxHitDistance, f(410.5)},
		{"avg_pitcher_spin", m.AvgPitcherSpin, f(2300)},
		{"bb_rate", m.BBRate, f(16.67)},
		{"k_rate", m.KRate, f(16.67)},
		{"babip", m.BABIP, f(0.333)},
		{"woba", m.WOBA, f(0.598)},
	}
	for _, c := range checks {
		if !eqPtr(c.got, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, fmtPtr(c.want), fmtPtr(c.got))
		}
	}
}

// ---- Null conditions ----

// TestAggregateSegment_NoMeasurements: a window of taken pitches has no rates.
func TestAggregateSegment_NoMeasurements(t *testing.T) {
	events := []model.EventRecord{
		pitch(gameDay(0), "", "ball", nil),
		pitch(gameDay(0), "", "called_strike", nil),
	}
	m := AggregateSegment(events, "x")

	if m.Games != 1 || m.PlateAppearances != 0 {
		t.Errorf("expected 1 game and 0 PA, got %d/%d", m.Games, m.PlateAppearances)
	}
	for _, name := range []string{
		model.MetricAvgLaunchSpeed, model.MetricAvgLaunchAngle, model.MetricHardHitRate,
		model.MetricWhiffRate, model.MetricMaxHitDistance, model.MetricAvgPitcherSpin,
		model.MetricBBRate, model.MetricKRate, model.MetricBABIP, model.MetricWOBA,
	} {
		v, ok := m.Value(name)
		if !ok {
			t.Fatalf("unknown metric %s", name)
		}
		if v != nil {
			t.Errorf("%s: expected nil, got %v", name, *v)
		}
	}
}

// TestAggregateSegment_Empty: an empty window aggregates to zero counts and nil rates.
func TestAggregateSegment_Empty(t *testing.T) {
	m := AggregateSegment(nil, "empty")
	if m.Games != 0 || m.PlateAppearances != 0 || m.HardHitRate != nil || m.WOBA != nil {
		t.Errorf("unexpected metrics for empty window: %+v", m)
	}
}

// TestHardHitRate_IgnoresMissingSpeeds: records without launch speed leave the denominator.
func TestHardHitRate_IgnoresMissingSpeeds(t *testing.T) {
	d := gameDay(0)
	events := []model.EventRecord{
		pitch(d, "field_out", "hit_into_play", f(96)),
		pitch(d, "field_out", "hit_into_play", f(95)), // not strictly above 95
		pitch(d, "strikeout", "swinging_strike", nil),
	}
	m := AggregateSegment(events, "x")
	if !eqPtr(m.HardHitRate, f(50)) {
		t.Errorf("hard_hit_rate: expected 50, got %v", fmtPtr(m.HardHitRate))
	}
}

// TestBABIP_ZeroDenominator: home-run-only and strikeout-only windows have no BABIP.
func TestBABIP_ZeroDenominator(t *testing.T) {
	hr := AggregateSegment([]model.EventRecord{pitch(gameDay(0), "home_run", "hit_into_play", f(110))}, "hr")
	if hr.BABIP != nil {
		t.Errorf("home run only: expected nil babip, got %v", *hr.BABIP)
	}
	if !eqPtr(hr.WOBA, f(2.015)) {
		t.Errorf("home run only: expected woba 2.015, got %v", fmtPtr(hr.WOBA))
	}

	k := AggregateSegment([]model.EventRecord{pitch(gameDay(0), "strikeout", "swinging_strike", nil)}, "k")
	if k.BABIP != nil {
		t.Errorf("strikeout only: expected nil babip, got %v", *k.BABIP)
	}
	if !eqPtr(k.WOBA, f(0)) {
		t.Errorf("strikeout only: expected woba 0, got %v", fmtPtr(k.WOBA))
	}
}

// TestBABIP_SingleOnly: a lone single is one at-bat, so the denominator is 1.
func TestBABIP_SingleOnly(t *testing.T) {
	m := AggregateSegment([]model.EventRecord{pitch(gameDay(0), "single", "hit_into_play", f(88))}, "1b")
	if !eqPtr(m.BABIP, f(1)) {
		t.Errorf("expected babip 1.000, got %v", fmtPtr(m.BABIP))
	}
	if !eqPtr(m.WOBA, f(0.883)) {
		t.Errorf("expected woba 0.883, got %v", fmtPtr(m.WOBA))
	}
}

// TestWOBA_WalkAndHBPOnly: non-at-bat events still form a wOBA denominator.
func TestWOBA_WalkAndHBPOnly(t *testing.T) {
	d := gameDay(0)
	m := AggregateSegment([]model.EventRecord{
		pitch(d, "walk", "ball", nil),
		pitch(d, "hit_by_pitch", "hit_by_pitch", nil),
	}, "x")
	if !eqPtr(m.WOBA, f(0.706)) {
		t.Errorf("expected woba 0.706, got %v", fmtPtr(m.WOBA))
	}
	if m.BABIP != nil {
		t.Errorf("expected nil babip, got %v", *m.BABIP)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		v      float64
		places int
		want   float64
	}{
		{28.5714, 2, 28.57},
		{0.3336, 3, 0.334},
		{-1.005, 1, -1.0},
		{93.755, 0, 94},
	}
	for _, c := range cases {
		if got := Round(c.v, c.places); got != c.want {
			t.Errorf("Round(%v, %d) = %v, want %v", c.v, c.places, got, c.want)
		}
	}
}

// ---- Game log ----

func TestGameLog(t *testing.T) {
	log := GameLog(season(3, func(i int) float64 { return 90 + float64(i) }))
	if len(log) != 3 {
		t.Fatalf("expected 3 games, got %d", len(log))
	}
	if log[0].Segment != "2024-03-28" || log[2].Segment != "2024-03-30" {
		t.Errorf("unexpected labels %q..%q", log[0].Segment, log[2].Segment)
	}
	if !eqPtr(log[2].AvgLaunchSpeed, f(92)) {
		t.Errorf("game 3 launch speed: got %v", fmtPtr(log[2].AvgLaunchSpeed))
	}
	if log[1].Games != 1 || log[1].PlateAppearances != 1 {
		t.Errorf("game 2: expected 1 game 1 PA, got %d/%d", log[1].Games, log[1].PlateAppearances)
	}
}
