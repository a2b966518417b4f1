package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a saved diagnosis by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&diagJSON, "json", false, "print the diagnosis as JSON")
	showCmd.Flags().BoolVar(&diagCharts, "charts", false, "draw terminal charts")
	showCmd.Flags().BoolVar(&diagSummary, "summary", false, "print the quick markdown summary")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.GetDiagnosisByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query diagnosis: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No diagnosis found with id prefix %q\n", prefix)
		return nil
	}
	if !diagJSON {
		fmt.Fprintf(os.Stdout, "Diagnosis %s  |  saved %s  |  %s → %s\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.StartDate, rec.EndDate)
	}
	return printDiagnosis(rec.Result)
}
