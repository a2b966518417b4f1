package aggregator

import (
	"strconv"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// Terminal events that do not count as an official at-bat for batting average.
var nonAtBatEvents = map[string]bool{
	"walk":           true,
	"hit_by_pitch":   true,
	"sac_fly":        true,
	"sac_bunt":       true,
	"catcher_interf": true,
}

// BuildBatterProfile summarises the pitches a batter saw in one game next to
// the batter's recent history. history may be empty.
func BuildBatterProfile(name string, game, history []model.EventRecord) model.BatterProfile {
	p := model.BatterProfile{
		Batter:           name,
		TodayPitchCounts: make(map[string]int),
		TodayZones:       make(map[int]int),
		HistPitchCounts:  make(map[string]int),
	}

	for i := range game {
		e := &game[i]
		if e.PitchType != "" {
			p.TodayPitchCounts[e.PitchType]++
		}
		if e.Zone != nil {
			p.TodayZones[*e.Zone]++
		}
		if e.IsTerminal() {
			p.TodayOutcomes = append(p.TodayOutcomes, e.EventType)
		}
	}

	var hits, atBats int
	for i := range history {
		e := &history[i]
		if e.PitchType != "" {
			p.HistPitchCounts[e.PitchType]++
		}
		if !e.IsTerminal() {
			continue
		}
		if hitEvents[e.EventType] {
			hits++
		}
		if !nonAtBatEvents[e.EventType] {
			atBats++
		}
		switch e.EventType {
		case "home_run":
			p.HistHomeRuns++
		case "strikeout":
			p.HistStrikeouts++
		}
	}
	p.RecentAvg = ratio(hits, atBats, 3)

	return p
}

// FilterBatter returns the events of one batter, preserving order.
func FilterBatter(events []model.EventRecord, batter int64) []model.EventRecord {
	var out []model.EventRecord
	for i := range events {
		if events[i].Batter == batter {
			out = append(out, events[i])
		}
	}
	return out
}

// GameBatters lists the distinct batters in a game in order of first
// appearance, with the name reported on their rows when present.
func GameBatters(events []model.EventRecord) ([]int64, map[int64]string) {
	var ids []int64
	names := make(map[int64]string)
	for i := range events {
		e := &events[i]
		if e.Batter == 0 {
			continue
		}
		if _, ok := names[e.Batter]; !ok {
			ids = append(ids, e.Batter)
			names[e.Batter] = ""
		}
		if names[e.Batter] == "" && e.PlayerName != "" {
			names[e.Batter] = e.PlayerName
		}
	}
	return ids, names
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
