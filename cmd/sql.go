package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the local cache",
	Long: `Run an arbitrary SQL query against the SQLite cache and print results as a table.

Schema overview:
  players(id, first_name, last_name, full_name, updated_at)
  events(game_pk, at_bat_number, pitch_number, batter, game_date, game_type,
    pitcher, player_name, event_type, description, launch_speed, launch_angle,
    hit_distance, release_spin_rate, home_team, away_team, home_score, away_score,
    inning, inning_topbot, outs_when_up, pitch_type, zone, release_speed,
    delta_run_exp, des)
  fetches(batter, start_date, end_date, rows, fetched_at)
  game_fetches(game_date, team, game_pk, rows, fetched_at)
  diagnoses(id, player_id, player_name, season, start_date, end_date, total_games,
    trend_launch_speed, trend_hard_hit_rate, trend_k_rate, result_json, created_at)

Example:
  statdiag sql "SELECT event_type, COUNT(*) FROM events WHERE batter = 592450 GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
