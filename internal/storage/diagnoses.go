package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// InsertDiagnosis saves a diagnosis and returns the stored record with its
// generated id.
func (db *DB) InsertDiagnosis(res model.DiagnosisResult, start, end string) (*model.DiagnosisRecord, error) {
	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode diagnosis: %w", err)
	}
	rec := &model.DiagnosisRecord{
		ID:         uuid.NewString(),
		PlayerID:   res.PlayerID,
		PlayerName: res.PlayerName,
		Season:     res.Season,
		StartDate:  start,
		EndDate:    end,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Result:     res,
	}
	trend := func(name string) string { return string(res.Summary.Trends[name]) }

	_, err = db.conn.Exec(`
		INSERT INTO diagnoses(id, player_id, player_name, season, start_date, end_date,
			total_games, trend_launch_speed, trend_hard_hit_rate, trend_k_rate,
			result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PlayerID, rec.PlayerName, rec.Season, start, end,
		res.Summary.TotalGamesAnalyzed,
		trend(model.MetricAvgLaunchSpeed), trend(model.MetricHardHitRate), trend(model.MetricKRate),
		string(body), rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert diagnosis: %w", err)
	}
	return rec, nil
}

const diagnosisColumns = `id, player_id, player_name, season, start_date, end_date, result_json, created_at`

// ListDiagnoses returns saved diagnoses newest first. playerID 0 lists all players.
func (db *DB) ListDiagnoses(playerID int64) ([]model.DiagnosisRecord, error) {
	q := `SELECT ` + diagnosisColumns + ` FROM diagnoses`
	var args []any
	if playerID != 0 {
		q += ` WHERE player_id = ?`
		args = append(args, playerID)
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DiagnosisRecord
	for rows.Next() {
		rec, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetDiagnosisByPrefix finds the first diagnosis whose id starts with prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetDiagnosisByPrefix(prefix string) (*model.DiagnosisRecord, error) {
	row := db.conn.QueryRow(`SELECT `+diagnosisColumns+`
		FROM diagnoses WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	rec, err := scanDiagnosis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(s scanner) (*model.DiagnosisRecord, error) {
	var rec model.DiagnosisRecord
	var body, created string
	if err := s.Scan(&rec.ID, &rec.PlayerID, &rec.PlayerName, &rec.Season,
		&rec.StartDate, &rec.EndDate, &body, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &rec.Result); err != nil {
		return nil, fmt.Errorf("decode diagnosis %s: %w", rec.ID, err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
