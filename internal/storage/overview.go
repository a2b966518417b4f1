package storage

import (
	"database/sql"
	"fmt"
)

// Overview holds database-wide counts for the summary command.
type Overview struct {
	Players       int
	Events        int
	Games         int
	Diagnoses     int
	EarliestDate  string
	LatestDate    string
	TerminalPlays int
}

// TopBatter is one row of the most-cached batters listing.
type TopBatter struct {
	ID     int64
	Name   string
	Games  int
	Events int
}

// GetOverview returns database-wide counts.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT game_pk),
		       COALESCE(MIN(game_date), ''), COALESCE(MAX(game_date), ''),
		       COALESCE(SUM(CASE WHEN event_type != '' THEN 1 ELSE 0 END), 0)
		FROM events`).
		Scan(&ov.Events, &ov.Games, &ov.EarliestDate, &ov.LatestDate, &ov.TerminalPlays)
	if err != nil {
		return ov, fmt.Errorf("count events: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM players`).Scan(&ov.Players); err != nil {
		return ov, fmt.Errorf("count players: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM diagnoses`).Scan(&ov.Diagnoses); err != nil {
		return ov, fmt.Errorf("count diagnoses: %w", err)
	}
	return ov, nil
}

// GetTopBatters returns the batters with the most cached game dates.
func (db *DB) GetTopBatters(limit int) ([]TopBatter, error) {
	rows, err := db.conn.Query(`
		SELECT e.batter,
		       COALESCE(NULLIF(p.full_name, ''), MAX(e.player_name), ''),
		       COUNT(DISTINCT e.game_date), COUNT(1)
		FROM events e
		LEFT JOIN players p ON p.id = e.batter
		GROUP BY e.batter
		ORDER BY COUNT(DISTINCT e.game_date) DESC, COUNT(1) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopBatter
	for rows.Next() {
		var b TopBatter
		if err := rows.Scan(&b.ID, &b.Name, &b.Games, &b.Events); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns its column names and rows as
// display strings. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.RawBytes, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v == nil {
				row[i] = "NULL"
			} else {
				row[i] = string(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
