package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the configured season date ranges",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var rows [][]string
		for _, label := range cfg.SeasonLabels() {
			s := cfg.Seasons[label]
			rows = append(rows, []string{label, s.Start, s.End})
		}
		report.PrintRows(os.Stdout, []string{"SEASON", "START", "END"}, rows)
	},
}
