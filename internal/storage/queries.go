package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// ---- Players ----

// UpsertPlayer inserts or refreshes a player identity.
func (db *DB) UpsertPlayer(p model.Player) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO players(id, first_name, last_name, full_name, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.FullName, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert player %d: %w", p.ID, err)
	}
	return nil
}

// FindPlayer looks a cached player up by name, case-insensitively.
// It returns nil, nil when the player is not cached.
func (db *DB) FindPlayer(first, last string) (*model.Player, error) {
	var p model.Player
	err := db.conn.QueryRow(`
		SELECT id, first_name, last_name, full_name
		FROM players
		WHERE last_name = ? COLLATE NOCASE AND first_name = ? COLLATE NOCASE
		ORDER BY updated_at DESC LIMIT 1`, last, first).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.FullName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayer returns a cached player by MLBAM id, or nil, nil.
func (db *DB) GetPlayer(id int64) (*model.Player, error) {
	var p model.Player
	err := db.conn.QueryRow(`
		SELECT id, first_name, last_name, full_name FROM players WHERE id = ?`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.FullName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns every cached player with event coverage, most events first.
func (db *DB) ListPlayers() ([]model.PlayerSummary, error) {
	rows, err := db.conn.Query(`
		SELECT p.id, p.first_name, p.last_name, p.full_name,
		       COUNT(e.batter), COUNT(DISTINCT e.game_date),
		       COALESCE(MIN(e.game_date), ''), COALESCE(MAX(e.game_date), '')
		FROM players p
		LEFT JOIN events e ON e.batter = p.id
		GROUP BY p.id
		ORDER BY COUNT(e.batter) DESC, p.last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSummary
	for rows.Next() {
		var s model.PlayerSummary
		if err := rows.Scan(&s.Player.ID, &s.Player.FirstName, &s.Player.LastName, &s.Player.FullName,
			&s.Events, &s.Games, &s.FirstDate, &s.LastDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- Events ----

const eventColumns = `
	game_pk, at_bat_number, pitch_number, batter, game_date, game_type,
	pitcher, player_name, event_type, description,
	launch_speed, launch_angle, hit_distance, release_spin_rate,
	home_team, away_team, home_score, away_score,
	inning, inning_topbot, outs_when_up,
	pitch_type, zone, release_speed, delta_run_exp, des`

// InsertEvents bulk-inserts events in a transaction. Rows are keyed by
// (game_pk, at_bat_number, pitch_number, batter); re-inserting replaces them.
func (db *DB) InsertEvents(events []model.EventRecord) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO events(` + eventColumns + `)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err = stmt.Exec(
			e.GamePK, e.AtBatNumber, e.PitchNumber, e.Batter, e.DateKey(), e.GameType,
			e.Pitcher, e.PlayerName, e.EventType, e.Description,
			e.LaunchSpeed, e.LaunchAngle, e.HitDistance, e.ReleaseSpinRate,
			e.HomeTeam, e.AwayTeam, e.HomeScore, e.AwayScore,
			e.Inning, e.InningTopBot, e.OutsWhenUp,
			e.PitchType, e.Zone, e.ReleaseSpeed, e.DeltaRunExp, e.PlayDescription,
		)
		if err != nil {
			return fmt.Errorf("insert event %d/%d/%d: %w", e.GamePK, e.AtBatNumber, e.PitchNumber, err)
		}
	}
	return tx.Commit()
}

// regularSeason matches rows from regular-season games. Rows with no game type
// come from exports that omit the column and are kept.
const regularSeason = `(game_type = '' OR game_type = 'R')`

// GetBatterEvents returns a batter's cached regular-season events between
// start and end inclusive, in game and pitch order. Recaps and imports may
// cache spring or postseason rows in the same table; they are skipped here.
func (db *DB) GetBatterEvents(batter int64, start, end string) ([]model.EventRecord, error) {
	rows, err := db.conn.Query(`SELECT `+eventColumns+`
		FROM events
		WHERE batter = ? AND game_date BETWEEN ? AND ? AND `+regularSeason+`
		ORDER BY game_date, game_pk, at_bat_number, pitch_number`, batter, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetGameEvents returns every cached event of one game in pitch order.
func (db *DB) GetGameEvents(gamePK int64) ([]model.EventRecord, error) {
	rows, err := db.conn.Query(`SELECT `+eventColumns+`
		FROM events WHERE game_pk = ?
		ORDER BY at_bat_number, pitch_number`, gamePK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// CountBatterEvents returns the number of cached regular-season events and
// distinct game dates for a batter between start and end inclusive.
func (db *DB) CountBatterEvents(batter int64, start, end string) (events, games int, err error) {
	err = db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT game_date)
		FROM events WHERE batter = ? AND game_date BETWEEN ? AND ? AND `+regularSeason, batter, start, end).
		Scan(&events, &games)
	return events, games, err
}

func scanEvents(rows *sql.Rows) ([]model.EventRecord, error) {
	var out []model.EventRecord
	for rows.Next() {
		var e model.EventRecord
		var date string
		var ls, la, hd, spin, rs, dre sql.NullFloat64
		var zone sql.NullInt64
		if err := rows.Scan(
			&e.GamePK, &e.AtBatNumber, &e.PitchNumber, &e.Batter, &date, &e.GameType,
			&e.Pitcher, &e.PlayerName, &e.EventType, &e.Description,
			&ls, &la, &hd, &spin,
			&e.HomeTeam, &e.AwayTeam, &e.HomeScore, &e.AwayScore,
			&e.Inning, &e.InningTopBot, &e.OutsWhenUp,
			&e.PitchType, &zone, &rs, &dre, &e.PlayDescription,
		); err != nil {
			return nil, err
		}
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse game_date %q: %w", date, err)
		}
		e.GameDate = d
		e.LaunchSpeed = nullFloat(ls)
		e.LaunchAngle = nullFloat(la)
		e.HitDistance = nullFloat(hd)
		e.ReleaseSpinRate = nullFloat(spin)
		e.ReleaseSpeed = nullFloat(rs)
		e.DeltaRunExp = nullFloat(dre)
		if zone.Valid {
			z := int(zone.Int64)
			e.Zone = &z
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// ---- Fetch log ----

// RecordFetch notes that the provider was queried for a batter over a range.
func (db *DB) RecordFetch(batter int64, start, end string, rows int) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO fetches(batter, start_date, end_date, rows, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		batter, start, end, rows, time.Now().UTC().Format(timeLayout))
	return err
}

// HasFetch reports whether a single recorded fetch covers [start, end] for a batter.
func (db *DB) HasFetch(batter int64, start, end string) (bool, error) {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(1) FROM fetches
		WHERE batter = ? AND start_date <= ? AND end_date >= ?`, batter, start, end).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---- Game log ----

// RecordGame notes that a team's complete game on date was cached.
func (db *DB) RecordGame(date, team string, gamePK int64, rows int) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO game_fetches(game_date, team, game_pk, rows, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		date, team, gamePK, rows, time.Now().UTC().Format(timeLayout))
	return err
}

// CachedGame returns the game_pk recorded for a team's game on date.
// ok is false when the game was never cached in full.
func (db *DB) CachedGame(date, team string) (gamePK int64, ok bool, err error) {
	err = db.conn.QueryRow(`
		SELECT game_pk FROM game_fetches WHERE game_date = ? AND team = ?`, date, team).Scan(&gamePK)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gamePK, true, nil
}
