package statcast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// Statcast CSV column names.
const (
	colGameDate        = "game_date"
	colEvents          = "events"
	colDescription     = "description"
	colLaunchSpeed     = "launch_speed"
	colLaunchAngle     = "launch_angle"
	colHitDistance     = "hit_distance_sc"
	colReleaseSpinRate = "release_spin_rate"
	colGamePK          = "game_pk"
	colGameType        = "game_type"
	colBatter          = "batter"
	colPitcher         = "pitcher"
	colPlayerName      = "player_name"
	colHomeTeam        = "home_team"
	colAwayTeam        = "away_team"
	colHomeScore       = "home_score"
	colAwayScore       = "away_score"
	colInning          = "inning"
	colInningTopBot    = "inning_topbot"
	colOutsWhenUp      = "outs_when_up"
	colAtBatNumber     = "at_bat_number"
	colPitchNumber     = "pitch_number"
	colPitchType       = "pitch_type"
	colZone            = "zone"
	colReleaseSpeed    = "release_speed"
	colDeltaRunExp     = "delta_run_exp"
	colDes             = "des"
)

// ErrMissingGameDate is returned when a CSV header has no game_date column.
var ErrMissingGameDate = errors.New("statcast csv: missing game_date column")

// header maps column names to their index in a row.
type header map[string]int

func (h header) getString(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if isNull(v) {
		return ""
	}
	return v
}

func (h header) getFloat(row []string, col string) *float64 {
	s := h.getString(row, col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// getInt tolerates "3" and "3.0"; unparseable values read as 0.
func (h header) getInt(row []string, col string) int {
	p := h.getFloat(row, col)
	if p == nil {
		return 0
	}
	return int(*p)
}

func (h header) getIntPtr(row []string, col string) *int {
	p := h.getFloat(row, col)
	if p == nil {
		return nil
	}
	v := int(*p)
	return &v
}

func isNull(v string) bool {
	switch v {
	case "", "null", "NULL", "NA", "NaN", "nan", "None":
		return true
	}
	return false
}

// ParseCSV reads a Statcast "details" CSV export into EventRecords. Every row
// must carry a parseable game_date; the first bad row aborts the parse with
// its 1-based line number. Missing numeric values become nil.
func ParseCSV(r io.Reader) ([]model.EventRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	names, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	h := make(header, len(names))
	for i, n := range names {
		n = strings.TrimPrefix(strings.TrimSpace(n), "\ufeff")
		n = strings.Trim(n, `"`)
		h[n] = i
	}
	if _, ok := h[colGameDate]; !ok {
		return nil, ErrMissingGameDate
	}

	var out []model.EventRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		e, err := parseRow(h, row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseRow(h header, row []string) (model.EventRecord, error) {
	raw := h.getString(row, colGameDate)
	if len(raw) < len(model.DateLayout) {
		return model.EventRecord{}, fmt.Errorf("invalid game_date %q", raw)
	}
	date, err := time.Parse(model.DateLayout, raw[:len(model.DateLayout)])
	if err != nil {
		return model.EventRecord{}, fmt.Errorf("invalid game_date %q", raw)
	}

	return model.EventRecord{
		GameDate:        date,
		EventType:       h.getString(row, colEvents),
		Description:     h.getString(row, colDescription),
		LaunchSpeed:     h.getFloat(row, colLaunchSpeed),
		LaunchAngle:     h.getFloat(row, colLaunchAngle),
		HitDistance:     h.getFloat(row, colHitDistance),
		ReleaseSpinRate: h.getFloat(row, colReleaseSpinRate),

		GamePK:          int64(h.getInt(row, colGamePK)),
		GameType:        h.getString(row, colGameType),
		Batter:          int64(h.getInt(row, colBatter)),
		Pitcher:         int64(h.getInt(row, colPitcher)),
		PlayerName:      h.getString(row, colPlayerName),
		HomeTeam:        h.getString(row, colHomeTeam),
		AwayTeam:        h.getString(row, colAwayTeam),
		HomeScore:       h.getInt(row, colHomeScore),
		AwayScore:       h.getInt(row, colAwayScore),
		Inning:          h.getInt(row, colInning),
		InningTopBot:    h.getString(row, colInningTopBot),
		OutsWhenUp:      h.getInt(row, colOutsWhenUp),
		AtBatNumber:     h.getInt(row, colAtBatNumber),
		PitchNumber:     h.getInt(row, colPitchNumber),
		PitchType:       h.getString(row, colPitchType),
		Zone:            h.getIntPtr(row, colZone),
		ReleaseSpeed:    h.getFloat(row, colReleaseSpeed),
		DeltaRunExp:     h.getFloat(row, colDeltaRunExp),
		PlayDescription: h.getString(row, colDes),
	}, nil
}

// RegularSeason keeps rows from regular-season games. Rows without a game
// type are kept.
func RegularSeason(events []model.EventRecord) []model.EventRecord {
	out := events[:0:0]
	for i := range events {
		if events[i].GameType == "" || events[i].GameType == "R" {
			out = append(out, events[i])
		}
	}
	return out
}
