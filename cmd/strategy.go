package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var strategyNarrate bool

var strategyCmd = &cobra.Command{
	Use:   "strategy <YYYY-MM-DD> <team> <batter-id>",
	Short: "How a batter was pitched in a game against their recent history",
	Long: `Profile the pitch types, zones and outcomes a batter saw in the team's game
and compare them with the preceding weeks (statcast.history_days). Batter ids
are listed by "statdiag recap".`,
	Args: cobra.ExactArgs(3),
	RunE: runStrategy,
}

func init() {
	strategyCmd.Flags().BoolVar(&strategyNarrate, "narrate", false, "write a bilingual pitching analysis with the LLM")
	addLLMFlags(strategyCmd)
}

func runStrategy(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid batter id %q: %w", args[2], err)
	}
	applyLLMFlags(llmProvider, llmModel, llmAPIKey)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, strategyNarrate)
	if err != nil {
		return err
	}
	st, err := svc.Strategy(cmd.Context(), analysis.StrategyRequest{
		Date:     args[0],
		Team:     args[1],
		BatterID: id,
		Narrate:  strategyNarrate,
	})
	if err != nil {
		return err
	}
	report.PrintProfile(os.Stdout, st.Profile)
	printBilingual(st.Narrative)
	return nil
}
