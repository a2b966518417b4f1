package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var summaryTop int

// summaryCmd is the cobra command for displaying a high-level cache overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the local cache",
	Long: `Display aggregate counts for everything stored locally: cached players,
pitch events, games and date span, saved diagnoses, and the batters with the
most cached games.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of batters to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Events == 0 && ov.Diagnoses == 0 {
		fmt.Fprintln(os.Stdout, "Nothing cached yet. Run 'statdiag fetch \"<first> <last>\" --season <year>' to add a player.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Cache Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Players        : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Pitch events   : %d\n", ov.Events)
	fmt.Fprintf(os.Stdout, "  Plate appear.  : %d\n", ov.TerminalPlays)
	fmt.Fprintf(os.Stdout, "  Games          : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestDate, ov.LatestDate)
	fmt.Fprintf(os.Stdout, "  Diagnoses      : %d\n", ov.Diagnoses)

	top, err := db.GetTopBatters(summaryTop)
	if err != nil {
		return fmt.Errorf("get top batters: %w", err)
	}
	if len(top) == 0 {
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Cached Batters ---\n\n")
	bt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	bt.Header("NAME", "MLBAM ID", "GAMES", "EVENTS")
	for _, b := range top {
		name := b.Name
		if name == "" {
			name = "—"
		}
		bt.Append(name, strconv.FormatInt(b.ID, 10), strconv.Itoa(b.Games), strconv.Itoa(b.Events))
	}
	bt.Render()
	return nil
}
