package aggregator

import (
	"math"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// hardHitMPH is the exit velocity above which a batted ball counts as hard hit.
const hardHitMPH = 95.0

// Swing outcome sets, keyed by Statcast description.
var (
	whiffDescriptions = map[string]bool{
		"swinging_strike":         true,
		"swinging_strike_blocked": true,
	}
	swingDescriptions = map[string]bool{
		"swinging_strike":         true,
		"swinging_strike_blocked": true,
		"foul":                    true,
		"foul_tip":                true,
		"hit_into_play":           true,
	}
)

// Plate appearance outcome sets, keyed by Statcast event type.
var (
	hitEvents = map[string]bool{
		"single":   true,
		"double":   true,
		"triple":   true,
		"home_run": true,
	}
	atBatEvents = map[string]bool{
		"single":                    true,
		"double":                    true,
		"triple":                    true,
		"home_run":                  true,
		"field_out":                 true,
		"strikeout":                 true,
		"double_play":               true,
		"grounded_into_double_play": true,
		"force_out":                 true,
		"fielders_choice":           true,
		"fielders_choice_out":       true,
	}
)

// wOBA linear weights per event type.
var wobaWeights = map[string]float64{
	"walk":         0.690,
	"hit_by_pitch": 0.722,
	"single":       0.883,
	"double":       1.244,
	"triple":       1.569,
	"home_run":     2.015,
}

// mean accumulates a running sum over non-nil values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m *mean) value(places int) *float64 {
	if m.n == 0 {
		return nil
	}
	return roundPtr(m.sum/float64(m.n), places)
}

// AggregateSegment reduces one event window to its SegmentMetrics.
// It is pure: missing fields shrink the relevant denominator and a metric with
// no qualifying events is nil.
func AggregateSegment(events []model.EventRecord, label string) model.SegmentMetrics {
	out := model.SegmentMetrics{Segment: label}

	var speed, angle, spin mean
	var hardHits int
	var maxDist *float64
	var swings, whiffs int
	counts := make(map[string]int)
	terminal := 0
	dates := make(map[string]struct{})

	for i := range events {
		e := &events[i]
		dates[e.DateKey()] = struct{}{}

		speed.add(e.LaunchSpeed)
		angle.add(e.LaunchAngle)
		spin.add(e.ReleaseSpinRate)
		if e.LaunchSpeed != nil && *e.LaunchSpeed > hardHitMPH {
			hardHits++
		}
		if e.HitDistance != nil && (maxDist == nil || *e.HitDistance > *maxDist) {
			d := *e.HitDistance
			maxDist = &d
		}

		if swingDescriptions[e.Description] {
			swings++
			if whiffDescriptions[e.Description] {
				whiffs++
			}
		}

		if e.IsTerminal() {
			terminal++
			counts[e.EventType]++
		}
	}

	out.Games = len(dates)
	out.PlateAppearances = terminal

	out.AvgLaunchSpeed = speed.value(2)
	out.AvgLaunchAngle = angle.value(2)
	out.AvgPitcherSpin = spin.value(2)
	out.HardHitRate = ratePct(hardHits, speed.n)
	out.WhiffRate = ratePct(whiffs, swings)
	if maxDist != nil {
		out.MaxHitDistance = roundPtr(*maxDist, 2)
	}

	out.HomeRuns = counts["home_run"]
	out.Walks = counts["walk"]
	out.Strikeouts = counts["strikeout"]
	out.BBRate = ratePct(out.Walks, terminal)
	out.KRate = ratePct(out.Strikeouts, terminal)

	var hits, atBats int
	for ev, n := range counts {
		if hitEvents[ev] {
			hits += n
		}
		if atBatEvents[ev] {
			atBats += n
		}
	}
	sacFlies := counts["sac_fly"]
	hbp := counts["hit_by_pitch"]

	out.BABIP = ratio(hits-out.HomeRuns, atBats-out.Strikeouts-out.HomeRuns+sacFlies, 3)

	var wobaNum float64
	for ev, w := range wobaWeights {
		wobaNum += float64(counts[ev]) * w
	}
	wobaDen := atBats + out.Walks + hbp + sacFlies
	if wobaDen > 0 {
		out.WOBA = roundPtr(wobaNum/float64(wobaDen), 3)
	}

	return out
}

// ratePct returns 100*num/den rounded to 2 places, or nil when den is zero.
func ratePct(num, den int) *float64 {
	if den <= 0 {
		return nil
	}
	return roundPtr(float64(num)/float64(den)*100, 2)
}

// ratio returns num/den rounded to places, or nil when den <= 0.
func ratio(num, den, places int) *float64 {
	if den <= 0 {
		return nil
	}
	return roundPtr(float64(num)/float64(den), places)
}

func roundPtr(v float64, places int) *float64 {
	r := Round(v, places)
	return &r
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// GameLog aggregates each game date separately, oldest first. The segment label
// of each entry is the game date.
func GameLog(events []model.EventRecord) []model.SegmentMetrics {
	dates, groups := GroupByDate(events)
	out := make([]model.SegmentMetrics, len(dates))
	for i, d := range dates {
		out[i] = AggregateSegment(groups[i], d)
	}
	return out
}
