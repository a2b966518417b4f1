package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/report"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
)

// diagnose command flags, shared with games, compare, fetch and narrate.
var (
	diagSeason  string
	diagStart   string
	diagEnd     string
	diagID      int64
	diagSave    bool
	diagRefresh bool
	diagFile    string
	diagJSON    bool
	diagCharts  bool
	diagSummary bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [<first> <last>]",
	Short: "Compare a batter's early, mid and late season windows",
	Long: `Split a batter's regular season into the first, middle and last 10 games
and compare contact quality, plate discipline and run value across them.

Events come from the local cache when a previous fetch covers the range and
from Baseball Savant otherwise. --file diagnoses a local Statcast CSV export
(.csv, .csv.gz, .csv.bz2 or .csv.zst) without touching the network.

Examples:
  statdiag diagnose Aaron Judge --season 2024
  statdiag diagnose --id 660271 --start 2024-04-01 --end 2024-06-30 --save
  statdiag diagnose Juan Soto --file soto-2024.csv.zst --charts`,
	Args: cobra.ArbitraryArgs,
	RunE: runDiagnose,
}

func init() {
	addRangeFlags(diagnoseCmd)
	diagnoseCmd.Flags().BoolVar(&diagSave, "save", false, "store the diagnosis")
	diagnoseCmd.Flags().StringVar(&diagFile, "file", "", "diagnose a local Statcast CSV export instead of fetching")
	diagnoseCmd.Flags().BoolVar(&diagJSON, "json", false, "print the diagnosis as JSON")
	diagnoseCmd.Flags().BoolVar(&diagCharts, "charts", false, "draw terminal charts")
	diagnoseCmd.Flags().BoolVar(&diagSummary, "summary", false, "print the quick markdown summary")
}

// addRangeFlags registers the player/season selection flags on c.
func addRangeFlags(c *cobra.Command) {
	c.Flags().StringVar(&diagSeason, "season", "", "season label from config (e.g. 2024)")
	c.Flags().StringVar(&diagStart, "start", "", "start date YYYY-MM-DD (with --end, instead of --season)")
	c.Flags().StringVar(&diagEnd, "end", "", "end date YYYY-MM-DD")
	c.Flags().Int64Var(&diagID, "id", 0, "MLBAM player id (skips name lookup)")
	c.Flags().BoolVar(&diagRefresh, "refresh", false, "ignore cached events and fetch again")
}

// diagnosisRequest builds a request from the range flags and name args.
func diagnosisRequest(args []string) (analysis.DiagnosisRequest, error) {
	req := analysis.DiagnosisRequest{
		PlayerID: diagID,
		Season:   diagSeason,
		Start:    diagStart,
		End:      diagEnd,
		Refresh:  diagRefresh,
	}
	if len(args) > 0 {
		first, last, err := splitName(args)
		if err != nil {
			return req, err
		}
		req.FirstName, req.LastName = first, last
	} else if diagID == 0 {
		return req, fmt.Errorf("give a player name or --id")
	}
	return req, nil
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	if diagFile != "" {
		return diagnoseFile(cmd, args)
	}
	req, err := diagnosisRequest(args)
	if err != nil {
		return err
	}
	req.Save = diagSave

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, false)
	if err != nil {
		return err
	}
	d, err := svc.Diagnose(cmd.Context(), req)
	if err != nil {
		return explain(err)
	}
	if err := printDiagnosis(d.Result); err != nil {
		return err
	}
	if !diagJSON {
		src := "Baseball Savant"
		if d.Cached {
			src = "cache"
		}
		fmt.Fprintf(os.Stdout, "\nRange %s → %s (events from %s)\n", d.Range.Start, d.Range.End, src)
		if d.Record != nil {
			fmt.Fprintf(os.Stdout, "Saved as %s\n", d.Record.ID)
		}
	}
	return nil
}

// diagnoseFile runs the pipeline over a local CSV export.
func diagnoseFile(cmd *cobra.Command, args []string) error {
	events, err := statcast.ReadDataFile(diagFile)
	if err != nil {
		return err
	}
	player := model.Player{ID: diagID}
	if len(args) > 0 {
		first, last, err := splitName(args)
		if err != nil {
			return err
		}
		player.FirstName, player.LastName = first, last
	} else if len(events) > 0 {
		player.ID = events[0].Batter
		player.FullName = strconv.FormatInt(player.ID, 10)
	}

	svc, err := newService(nil, nil, false)
	if err != nil {
		return err
	}
	res, err := svc.DiagnoseEvents(cmd.Context(), player, diagSeason, events)
	if err != nil {
		return explain(err)
	}
	return printDiagnosis(res)
}

// printDiagnosis renders a result according to the output flags.
func printDiagnosis(res model.DiagnosisResult) error {
	if diagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	report.PrintDiagnosis(os.Stdout, res)
	if diagCharts {
		report.PrintCharts(os.Stdout, res)
	}
	if diagSummary {
		out, err := report.RenderMarkdown(report.QuickSummary(res), "auto")
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
	}
	return nil
}
