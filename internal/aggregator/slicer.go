package aggregator

import (
	"sort"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// windowGames is the number of game dates in each season window.
const windowGames = 10

// Windows holds the event subsets for the three season segments.
// Each slice is a fresh view; the caller's input is never modified.
type Windows struct {
	Early []model.EventRecord
	Mid   []model.EventRecord
	Late  []model.EventRecord
}

// distinctDates returns the sorted distinct game dates in events.
func distinctDates(events []model.EventRecord) []string {
	seen := make(map[string]struct{})
	for i := range events {
		seen[events[i].DateKey()] = struct{}{}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	// ISO dates sort chronologically as strings.
	sort.Strings(dates)
	return dates
}

// SliceByGameIndex partitions a season of events into Early (first 10 game
// dates), Mid (10 dates starting at n/2-5) and Late (last 10 dates).
//
// Near the 30-game minimum the Mid window can touch its neighbours; that
// index arithmetic is kept as-is.
func SliceByGameIndex(events []model.EventRecord) (Windows, error) {
	dates := distinctDates(events)
	n := len(dates)
	if n < MinGames {
		return Windows{}, &InsufficientSampleError{Games: n, Required: MinGames}
	}

	c := n / 2
	return Windows{
		Early: filterDates(events, dates[:windowGames]),
		Mid:   filterDates(events, dates[c-windowGames/2:c+windowGames/2]),
		Late:  filterDates(events, dates[n-windowGames:]),
	}, nil
}

// filterDates returns the events whose game date is in dates.
func filterDates(events []model.EventRecord, dates []string) []model.EventRecord {
	keep := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		keep[d] = struct{}{}
	}
	var out []model.EventRecord
	for i := range events {
		if _, ok := keep[events[i].DateKey()]; ok {
			out = append(out, events[i])
		}
	}
	return out
}

// GroupByDate splits events into per-game-date slices in chronological order.
func GroupByDate(events []model.EventRecord) (dates []string, groups [][]model.EventRecord) {
	dates = distinctDates(events)
	idx := make(map[string]int, len(dates))
	for i, d := range dates {
		idx[d] = i
	}
	groups = make([][]model.EventRecord, len(dates))
	for i := range events {
		j := idx[events[i].DateKey()]
		groups[j] = append(groups[j], events[i])
	}
	return dates, groups
}
