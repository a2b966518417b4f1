package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
)

var (
	fetchSeasons []string
	fetchWorkers int
)

var fetchCmd = &cobra.Command{
	Use:   `fetch "<first> <last>"|<mlbam-id> [...]`,
	Short: "Download batters' Statcast events into the local cache",
	Long: `Fetch each batter's pitch events for one or more seasons from Baseball
Savant and store them, so later diagnose, games and compare runs work offline.
Ranges already in the cache are refetched only with --refresh.

Examples:
  statdiag fetch "Aaron Judge" "Juan Soto" --season 2024 --season 2023
  statdiag fetch 660271 --start 2024-04-01 --end 2024-05-31`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchSeasons, "season", nil, "season label from config; repeatable")
	fetchCmd.Flags().StringVar(&diagStart, "start", "", "start date YYYY-MM-DD (with --end, instead of --season)")
	fetchCmd.Flags().StringVar(&diagEnd, "end", "", "end date YYYY-MM-DD")
	fetchCmd.Flags().BoolVar(&diagRefresh, "refresh", false, "fetch again even if the range is cached")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 2, "concurrent downloads")
}

// fetchRequests expands players × seasons into load requests.
func fetchRequests(args []string) ([]analysis.DiagnosisRequest, error) {
	seasons := fetchSeasons
	if len(seasons) == 0 {
		seasons = []string{""}
	}
	var reqs []analysis.DiagnosisRequest
	for _, arg := range args {
		for _, season := range seasons {
			diagSeason = season
			req, err := playerArg(arg)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	reqs, err := fetchRequests(args)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := newService(db, nil, false)
	if err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		failed int
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(fetchWorkers, 1))
	for i, req := range reqs {
		g.Go(func() error {
			pe, err := svc.LoadEvents(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "  [error] %s: %v\n", args[i/max(len(fetchSeasons), 1)], err)
				return nil
			}
			state := "fetched"
			if pe.Cached {
				state = "already cached"
			}
			events, games, err := db.CountBatterEvents(pe.Player.ID, pe.Range.Start, pe.Range.End)
			if err != nil {
				return fmt.Errorf("count cached events: %w", err)
			}
			fmt.Fprintf(os.Stdout, "[%d/%d] %-24s %s → %s  %6d events  %4d games  %s\n",
				i+1, len(reqs), pe.Player.Name(), pe.Range.Start, pe.Range.End, events, games, state)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", failed, len(reqs))
	}
	return nil
}
