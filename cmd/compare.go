package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   `compare "<first> <last>"|<mlbam-id> [...]`,
	Short: "Compare the season windows of several batters",
	Long: `Diagnose each batter over the same season or range and print their early
and late windows side by side. Players are given as quoted full names or
MLBAM ids.

Example:
  statdiag compare "Aaron Judge" "Juan Soto" 660271 --season 2024`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&diagSeason, "season", "", "season label from config (e.g. 2024)")
	compareCmd.Flags().StringVar(&diagStart, "start", "", "start date YYYY-MM-DD")
	compareCmd.Flags().StringVar(&diagEnd, "end", "", "end date YYYY-MM-DD")
	compareCmd.Flags().BoolVar(&diagRefresh, "refresh", false, "ignore cached events and fetch again")
}

// playerArg turns one compare argument into a request.
func playerArg(arg string) (analysis.DiagnosisRequest, error) {
	req := analysis.DiagnosisRequest{Season: diagSeason, Start: diagStart, End: diagEnd, Refresh: diagRefresh}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		req.PlayerID = id
		return req, nil
	}
	first, last, err := splitName(strings.Fields(arg))
	if err != nil {
		return req, err
	}
	req.FirstName, req.LastName = first, last
	return req, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, false)
	if err != nil {
		return err
	}

	var results []model.DiagnosisResult
	for _, arg := range args {
		req, err := playerArg(arg)
		if err != nil {
			return err
		}
		d, err := svc.Diagnose(cmd.Context(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			continue
		}
		results = append(results, d.Result)
	}
	if len(results) == 0 {
		return fmt.Errorf("no player could be diagnosed")
	}

	fmt.Fprintln(os.Stdout)
	report.PrintCompare(os.Stdout, results)
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "\n%s\n", r.PlayerName)
		report.PrintTrends(os.Stdout, r)
	}
	return nil
}
