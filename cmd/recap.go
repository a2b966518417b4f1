package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/narrative"
	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var (
	recapTop     int
	recapNarrate bool
	recapJSON    bool
)

var recapCmd = &cobra.Command{
	Use:   "recap <YYYY-MM-DD> <team>",
	Short: "Key moments of a team's game",
	Long: `Fetch every pitch of the team's game on the date, rank the plate
appearances by run-expectancy swing and print the top moments. With --narrate
an LLM writes an English and Chinese recap from those moments.

Example:
  statdiag recap 2024-07-04 NYY --top 5 --narrate`,
	Args: cobra.ExactArgs(2),
	RunE: runRecap,
}

func init() {
	recapCmd.Flags().IntVar(&recapTop, "top", 5, "number of key moments")
	recapCmd.Flags().BoolVar(&recapNarrate, "narrate", false, "write a bilingual recap with the LLM")
	recapCmd.Flags().BoolVar(&recapJSON, "json", false, "print the recap as JSON")
	addLLMFlags(recapCmd)
}

func runRecap(cmd *cobra.Command, args []string) error {
	applyLLMFlags(llmProvider, llmModel, llmAPIKey)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, recapNarrate)
	if err != nil {
		return err
	}
	rc, err := svc.Recap(cmd.Context(), analysis.RecapRequest{
		Date:    args[0],
		Team:    args[1],
		TopN:    recapTop,
		Narrate: recapNarrate,
	})
	if err != nil {
		return err
	}

	if recapJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	}
	report.PrintMoments(os.Stdout, rc.Moments, rc.Metadata)
	fmt.Fprintln(os.Stdout)
	report.PrintBatters(os.Stdout, rc.Batters, rc.Names)
	printBilingual(rc.Narrative)
	return nil
}

// printBilingual prints both halves of an LLM answer, if there is one.
func printBilingual(b *narrative.Bilingual) {
	if b == nil {
		return
	}
	fmt.Fprintln(os.Stdout, "\n─── English ───")
	fmt.Fprintln(os.Stdout, b.English)
	fmt.Fprintln(os.Stdout, "\n─── 中文 ───")
	fmt.Fprintln(os.Stdout, b.Chinese)
}
