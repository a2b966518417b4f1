package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/storage"
)

var (
	exportPlayers string
	exportRoster  string
	exportFormat  string
	exportOut     string
)

// rosterFile is the schema for --roster JSON files.
type rosterFile struct {
	Name    string  `json:"name"`
	Players []int64 `json:"players"`
}

// exportRow is the JSON shape of one exported diagnosis.
type exportRow struct {
	ID         string            `json:"id"`
	PlayerID   int64             `json:"player_id"`
	PlayerName string            `json:"player_name"`
	Season     string            `json:"season,omitempty"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	TotalGames int               `json:"total_games"`
	Trends     map[string]string `json:"trends"`
	CreatedAt  string            `json:"created_at"`
}

var exportColumns = []string{
	"id", "player_id", "player_name", "season", "start_date", "end_date",
	"total_games", "trend_avg_launch_speed", "trend_hard_hit_rate", "trend_k_rate", "created_at",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved diagnoses as CSV or JSON",
	Long: `Write the trend summary of saved diagnoses, one row per diagnosis, oldest
first. Select players with --players (comma-separated MLBAM ids) or --roster
(a JSON file {"name":"...","players":[660271, ...]}); with neither, every
saved diagnosis is exported. --players takes precedence over --roster.

Example:
  statdiag export --players 592450,665742 --format csv --out trends.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPlayers, "players", "", "comma-separated MLBAM ids")
	exportCmd.Flags().StringVar(&exportRoster, "roster", "", `roster JSON file: {"name":"...","players":[...]}`)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q: use csv or json", exportFormat)
	}
	ids, err := resolveRoster()
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ExportDiagnoses(ids)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		exportHint(db, ids)
		return fmt.Errorf("no saved diagnoses to export")
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	if exportFormat == "json" {
		err = writeExportJSON(w, rows)
	} else {
		err = writeExportCSV(w, rows)
	}
	if err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d diagnoses to %s\n", len(rows), exportOut)
	}
	return nil
}

// exportHint explains an empty export: whether the players have cached events
// that were never diagnosed, or nothing at all.
func exportHint(db *storage.DB, ids []int64) {
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "hint: save a diagnosis first with 'statdiag diagnose <first> <last> --save'")
		return
	}
	coverage, err := db.BatterCoverage(ids, "0000-01-01", "9999-12-31")
	if err != nil {
		return
	}
	for _, id := range ids {
		if games, ok := coverage[id]; ok {
			fmt.Fprintf(os.Stderr, "  %-10d  %d cached game(s), no saved diagnosis\n", id, games)
		} else {
			fmt.Fprintf(os.Stderr, "  %-10d  no cached events; run 'statdiag fetch %d --season <year>'\n", id, id)
		}
	}
}

// resolveRoster returns the player ids from --players or --roster.
func resolveRoster() ([]int64, error) {
	if exportPlayers != "" {
		var ids []int64
		for _, raw := range strings.Split(exportPlayers, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid player id %q: %w", raw, err)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	if exportRoster != "" {
		data, err := os.ReadFile(exportRoster)
		if err != nil {
			return nil, fmt.Errorf("read roster file: %w", err)
		}
		var rf rosterFile
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse roster file: %w", err)
		}
		return rf.Players, nil
	}
	return nil, nil
}

func writeExportCSV(w io.Writer, rows []storage.DiagnosisRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.ID, strconv.FormatInt(r.PlayerID, 10), r.PlayerName, r.Season, r.StartDate, r.EndDate,
			strconv.Itoa(r.TotalGames), r.TrendLaunchSpeed, r.TrendHardHitRate, r.TrendKRate, r.CreatedAt,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeExportJSON(w io.Writer, rows []storage.DiagnosisRow) error {
	out := make([]exportRow, len(rows))
	for i, r := range rows {
		out[i] = exportRow{
			ID:         r.ID,
			PlayerID:   r.PlayerID,
			PlayerName: r.PlayerName,
			Season:     r.Season,
			StartDate:  r.StartDate,
			EndDate:    r.EndDate,
			TotalGames: r.TotalGames,
			Trends: map[string]string{
				"avg_launch_speed": r.TrendLaunchSpeed,
				"hard_hit_rate":    r.TrendHardHitRate,
				"k_rate":           r.TrendKRate,
			},
			CreatedAt: r.CreatedAt,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
