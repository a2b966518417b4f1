package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/aggregator"
	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var gamesCmd = &cobra.Command{
	Use:   "games <first> <last>",
	Short: "Chronological per-game log for a batter",
	Long: `Aggregate each game date of a batter's range on its own and print one row
per game, oldest first. Uses the same selection flags as diagnose.`,
	Args: cobra.ArbitraryArgs,
	RunE: runGames,
}

func init() {
	addRangeFlags(gamesCmd)
}

func runGames(cmd *cobra.Command, args []string) error {
	req, err := diagnosisRequest(args)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, false)
	if err != nil {
		return err
	}
	pe, err := svc.LoadEvents(cmd.Context(), req)
	if err != nil {
		return err
	}

	log := aggregator.GameLog(pe.Events)
	fmt.Fprintf(os.Stdout, "\n%s  |  %s → %s  |  %d games\n\n", pe.Player.Name(), pe.Range.Start, pe.Range.End, len(log))
	report.PrintGameLog(os.Stdout, log)
	return nil
}
