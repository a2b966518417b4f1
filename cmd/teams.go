package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List MLB team codes accepted by recap and strategy",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var rows [][]string
		for _, t := range statcast.Teams() {
			rows = append(rows, []string{t.Code, t.Name})
		}
		report.PrintRows(os.Stdout, []string{"CODE", "TEAM"}, rows)
	},
}
