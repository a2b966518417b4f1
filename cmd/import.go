package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
)

var (
	importSeason  string
	importRegular bool
)

var importCmd = &cobra.Command{
	Use:   "import <file> [<file>...]",
	Short: "Load Statcast CSV exports into the local cache",
	Long: `Read Baseball Savant CSV exports (.csv, .csv.gz, .csv.bz2 or .csv.zst) and
store their pitch events. With --season the season's range is marked as cached
for every batter in the files, so diagnose uses them without a network fetch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSeason, "season", "", "mark this configured season as cached for the imported batters")
	importCmd.Flags().BoolVar(&importRegular, "regular-only", true, "drop spring training and postseason rows")
}

func runImport(cmd *cobra.Command, args []string) error {
	var season config.Season
	if importSeason != "" {
		s, err := cfg.SeasonRange(importSeason)
		if err != nil {
			return err
		}
		season = s
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	perBatter := make(map[int64]int)
	for _, path := range args {
		fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
		events, err := statcast.ReadDataFile(path)
		if err != nil {
			return err
		}
		events, dropped := keyedEvents(events)
		if dropped > 0 {
			if len(events) == 0 {
				return fmt.Errorf("%s: no row has game_pk and batter; is it a Statcast search export?", path)
			}
			fmt.Fprintf(os.Stderr, "  [warn] %s: skipped %d row(s) without game_pk or batter\n", path, dropped)
		}
		if importRegular {
			events = statcast.RegularSeason(events)
		}
		if err := db.InsertEvents(events); err != nil {
			return fmt.Errorf("insert events from %s: %w", path, err)
		}
		first, last := dateSpan(events)
		fmt.Fprintf(os.Stdout, "  %d events  %s → %s\n", len(events), first, last)
		for _, e := range events {
			perBatter[e.Batter]++
		}
	}

	if season.Start != "" {
		ids := make([]int64, 0, len(perBatter))
		for id := range perBatter {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if err := db.RecordFetch(id, season.Start, season.End, perBatter[id]); err != nil {
				return fmt.Errorf("record coverage for %d: %w", id, err)
			}
		}
		fmt.Fprintf(os.Stdout, "Marked %s → %s cached for %d batter(s)\n", season.Start, season.End, len(ids))
	}
	return nil
}

// keyedEvents drops rows missing the game or batter id. Without them every
// row shares one primary key and the insert collapses the file.
func keyedEvents(events []model.EventRecord) (kept []model.EventRecord, dropped int) {
	kept = events[:0:0]
	for _, e := range events {
		if e.GamePK == 0 || e.Batter == 0 {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

// dateSpan returns the first and last game dates of events, or dashes.
func dateSpan(events []model.EventRecord) (first, last string) {
	if len(events) == 0 {
		return "—", "—"
	}
	first, last = events[0].DateKey(), events[0].DateKey()
	for i := range events {
		d := events[i].DateKey()
		if d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last
}
