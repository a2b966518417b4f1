package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var listPlayer int64

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved diagnoses",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int64Var(&listPlayer, "player", 0, "only this MLBAM player id")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.ListDiagnoses(listPlayer)
	if err != nil {
		return fmt.Errorf("list diagnoses: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No diagnoses saved yet. Run 'statdiag diagnose <first> <last> --save' to add one.")
		return nil
	}
	report.PrintDiagnosisList(os.Stdout, recs)
	return nil
}
