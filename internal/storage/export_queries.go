package storage

import (
	"fmt"
	"strings"
)

// DiagnosisRow is the flat, trend-only view of a saved diagnosis used by exports.
type DiagnosisRow struct {
	ID               string
	PlayerID         int64
	PlayerName       string
	Season           string
	StartDate        string
	EndDate          string
	TotalGames       int
	TrendLaunchSpeed string
	TrendHardHitRate string
	TrendKRate       string
	CreatedAt        string
}

// ExportDiagnoses returns the flat rows of saved diagnoses for the given
// players, oldest first. An empty playerIDs exports every diagnosis.
func (db *DB) ExportDiagnoses(playerIDs []int64) ([]DiagnosisRow, error) {
	q := `SELECT id, player_id, player_name, season, start_date, end_date,
	             total_games, trend_launch_speed, trend_hard_hit_rate, trend_k_rate, created_at
	      FROM diagnoses`
	args := make([]any, 0, len(playerIDs))
	if len(playerIDs) > 0 {
		q += ` WHERE player_id IN (` + placeholders(len(playerIDs)) + `)`
		for _, id := range playerIDs {
			args = append(args, id)
		}
	}
	q += ` ORDER BY created_at, id`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("export diagnoses: %w", err)
	}
	defer rows.Close()

	var out []DiagnosisRow
	for rows.Next() {
		var r DiagnosisRow
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.PlayerName, &r.Season, &r.StartDate, &r.EndDate,
			&r.TotalGames, &r.TrendLaunchSpeed, &r.TrendHardHitRate, &r.TrendKRate, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BatterCoverage returns, per batter, the number of distinct cached game
// dates between start and end inclusive. Batters with no rows are absent.
func (db *DB) BatterCoverage(batters []int64, start, end string) (map[int64]int, error) {
	out := make(map[int64]int, len(batters))
	if len(batters) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(batters)+2)
	for _, id := range batters {
		args = append(args, id)
	}
	args = append(args, start, end)

	rows, err := db.conn.Query(`
		SELECT batter, COUNT(DISTINCT game_date)
		FROM events
		WHERE batter IN (`+placeholders(len(batters))+`) AND game_date BETWEEN ? AND ?
		GROUP BY batter`, args...)
	if err != nil {
		return nil, fmt.Errorf("batter coverage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var games int
		if err := rows.Scan(&id, &games); err != nil {
			return nil, err
		}
		out[id] = games
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
