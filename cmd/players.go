package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List cached players and their event coverage",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players cached yet. Run 'statdiag fetch \"<first> <last>\" --season <year>'.")
		return nil
	}
	report.PrintPlayers(os.Stdout, players)
	return nil
}
