package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var (
	llmProvider string
	llmModel    string
	llmAPIKey   string

	narrateRender bool
)

var narrateCmd = &cobra.Command{
	Use:   "narrate <first> <last>",
	Short: "Diagnose a batter and write a scouting narrative with an LLM",
	Long: `Run the season diagnosis and ask the configured LLM for a scouting report
built only from the three windows and their trends. The text streams to the
terminal as it is generated; --render waits for the full answer and renders it
as markdown.

Needs an API key: llm.api_key, $STATDIAG_LLM__API_KEY, the provider's own
variable ($ANTHROPIC_API_KEY or $OPENAI_API_KEY) or --api-key.`,
	Args: cobra.ArbitraryArgs,
	RunE: runNarrate,
}

func init() {
	addRangeFlags(narrateCmd)
	addLLMFlags(narrateCmd)
	narrateCmd.Flags().BoolVar(&narrateRender, "render", false, "render the finished narrative as markdown instead of streaming")
}

// addLLMFlags registers the provider override flags on c.
func addLLMFlags(c *cobra.Command) {
	c.Flags().StringVar(&llmProvider, "provider", "", "LLM provider: anthropic or openai")
	c.Flags().StringVar(&llmModel, "model", "", "model name (defaults to llm.model)")
	c.Flags().StringVar(&llmAPIKey, "api-key", "", "API key (defaults to llm.api_key)")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	req, err := diagnosisRequest(args)
	if err != nil {
		return err
	}
	applyLLMFlags(llmProvider, llmModel, llmAPIKey)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, true)
	if err != nil {
		return err
	}
	d, err := svc.Diagnose(cmd.Context(), req)
	if err != nil {
		return explain(err)
	}
	report.PrintDiagnosis(os.Stdout, d.Result)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ───────────────────────────────────────")
	var stream io.Writer = os.Stdout
	if narrateRender {
		stream = nil
	}
	text, err := svc.Narrate(cmd.Context(), d.Result, stream)
	if err != nil {
		return fmt.Errorf("narrate: %w", err)
	}
	if narrateRender {
		out, err := report.RenderMarkdown(text, "auto")
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
	}
	fmt.Fprintln(os.Stdout, "\n───────────────────────────────────────────────────────")
	return nil
}
