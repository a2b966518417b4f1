package model

import "time"

// DateLayout is the calendar date format used by Statcast and throughout the tool.
const DateLayout = "2006-01-02"

// ---- Raw events read from the provider ----

// EventRecord is one pitch (or terminal play) as reported by Statcast.
// GameDate is always set; every pointer field is nil when the provider had no value.
type EventRecord struct {
	GameDate    time.Time
	EventType   string // "home_run", "walk", "strikeout", ...; "" on non-terminal pitches
	Description string // "swinging_strike", "foul", "hit_into_play", ...; "" if absent

	LaunchSpeed     *float64
	LaunchAngle     *float64
	HitDistance     *float64
	ReleaseSpinRate *float64

	// Game context, used by recaps and pitch profiles.
	GamePK          int64
	GameType        string // "R" regular season, "S" spring, "F"/"D"/"L"/"W" postseason
	Batter          int64
	Pitcher         int64
	PlayerName      string
	HomeTeam        string
	AwayTeam        string
	HomeScore       int
	AwayScore       int
	Inning          int
	InningTopBot    string
	OutsWhenUp      int
	AtBatNumber     int
	PitchNumber     int
	PitchType       string
	Zone            *int
	ReleaseSpeed    *float64
	DeltaRunExp     *float64
	PlayDescription string
}

// DateKey returns the record's game date as YYYY-MM-DD.
func (e *EventRecord) DateKey() string {
	return e.GameDate.Format(DateLayout)
}

// IsTerminal reports whether the pitch ended the plate appearance.
func (e *EventRecord) IsTerminal() bool {
	return e.EventType != ""
}

// Player identifies a batter by MLBAM id.
type Player struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// Name returns the display name, falling back to "First Last".
func (p Player) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.FirstName + " " + p.LastName
}

// ---- Aggregated metrics ----

// Segment labels used for the three season windows.
const (
	SegmentEarly = "Early (first 10 games)"
	SegmentMid   = "Mid (middle 10 games)"
	SegmentLate  = "Late (last 10 games)"
)

// Metric names. These are the JSON keys consumers rely on.
const (
	MetricGames            = "games"
	MetricPlateAppearances = "plate_appearances"
	MetricAvgLaunchSpeed   = "avg_launch_speed"
	MetricAvgLaunchAngle   = "avg_launch_angle"
	MetricHardHitRate      = "hard_hit_rate"
	MetricWhiffRate        = "whiff_rate"
	MetricMaxHitDistance   = "max_hit_distance"
	MetricAvgPitcherSpin   = "avg_pitcher_spin"
	MetricHomeRuns         = "home_runs"
	MetricWalks            = "walks"
	MetricStrikeouts       = "strikeouts"
	MetricBBRate           = "bb_rate"
	MetricKRate            = "k_rate"
	MetricBABIP            = "babip"
	MetricWOBA             = "woba"
)

// TrackedTrendMetrics are the metrics whose Early→Late direction is summarised.
var TrackedTrendMetrics = []string{MetricAvgLaunchSpeed, MetricHardHitRate, MetricKRate}

// SegmentMetrics is the aggregate of one event window. Nil pointers mean the
// metric is undefined for the window (no qualifying events).
type SegmentMetrics struct {
	Segment          string   `json:"segment"`
	Games            int      `json:"games"`
	PlateAppearances int      `json:"plate_appearances"`
	AvgLaunchSpeed   *float64 `json:"avg_launch_speed"`
	AvgLaunchAngle   *float64 `json:"avg_launch_angle"`
	HardHitRate      *float64 `json:"hard_hit_rate"`
	WhiffRate        *float64 `json:"whiff_rate"`
	MaxHitDistance   *float64 `json:"max_hit_distance"`
	AvgPitcherSpin   *float64 `json:"avg_pitcher_spin"`
	HomeRuns         int      `json:"home_runs"`
	Walks            int      `json:"walks"`
	Strikeouts       int      `json:"strikeouts"`
	BBRate           *float64 `json:"bb_rate"`
	KRate            *float64 `json:"k_rate"`
	BABIP            *float64 `json:"babip"`
	WOBA             *float64 `json:"woba"`
}

// Value looks a metric up by its JSON name. Count metrics are always defined.
// The second return is false for unknown names.
func (s *SegmentMetrics) Value(name string) (*float64, bool) {
	count := func(n int) *float64 {
		v := float64(n)
		return &v
	}
	switch name {
	case MetricGames:
		return count(s.Games), true
	case MetricPlateAppearances:
		return count(s.PlateAppearances), true
	case MetricAvgLaunchSpeed:
		return s.AvgLaunchSpeed, true
	case MetricAvgLaunchAngle:
		return s.AvgLaunchAngle, true
	case MetricHardHitRate:
		return s.HardHitRate, true
	case MetricWhiffRate:
		return s.WhiffRate, true
	case MetricMaxHitDistance:
		return s.MaxHitDistance, true
	case MetricAvgPitcherSpin:
		return s.AvgPitcherSpin, true
	case MetricHomeRuns:
		return count(s.HomeRuns), true
	case MetricWalks:
		return count(s.Walks), true
	case MetricStrikeouts:
		return count(s.Strikeouts), true
	case MetricBBRate:
		return s.BBRate, true
	case MetricKRate:
		return s.KRate, true
	case MetricBABIP:
		return s.BABIP, true
	case MetricWOBA:
		return s.WOBA, true
	}
	return nil, false
}

// Trend is the Early→Late direction of a metric.
type Trend string

const (
	TrendInsufficientData Trend = "insufficient_data"
	TrendStable           Trend = "stable"
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
)

// Segments holds the three window aggregates of a diagnosis.
type Segments struct {
	Early SegmentMetrics `json:"early"`
	Mid   SegmentMetrics `json:"mid"`
	Late  SegmentMetrics `json:"late"`
}

// Ordered returns the segments Early, Mid, Late.
func (s Segments) Ordered() []SegmentMetrics {
	return []SegmentMetrics{s.Early, s.Mid, s.Late}
}

// DiagnosisSummary carries the cross-segment totals and trend labels.
type DiagnosisSummary struct {
	TotalGamesAnalyzed int              `json:"total_games_analyzed"`
	Trends             map[string]Trend `json:"trends"`
}

// DiagnosisResult is the full season diagnosis for one player.
type DiagnosisResult struct {
	PlayerName string           `json:"player_name"`
	PlayerID   int64            `json:"player_id"`
	Season     string           `json:"season,omitempty"`
	Segments   Segments         `json:"analysis_segments"`
	Summary    DiagnosisSummary `json:"summary"`
}

// ---- Game recap ----

// MomentMetrics are the physical measurements attached to a key moment.
type MomentMetrics struct {
	ReleaseSpeed *float64 `json:"release_speed"`
	PitchType    string   `json:"pitch_type"`
	LaunchSpeed  *float64 `json:"launch_speed"`
	LaunchAngle  *float64 `json:"launch_angle"`
	HitDistance  *float64 `json:"hit_distance"`
}

// KeyMoment is one high-leverage play in a game.
type KeyMoment struct {
	GameDate     string        `json:"game_date"`
	Inning       int           `json:"inning"`
	InningTopBot string        `json:"inning_topbot"`
	Outs         int           `json:"outs"`
	HomeScore    int           `json:"home_score"`
	AwayScore    int           `json:"away_score"`
	Batter       string        `json:"batter"`
	Pitcher      int64         `json:"pitcher"`
	Event        string        `json:"event"`
	Description  string        `json:"description"`
	AtBatNumber  int           `json:"at_bat_number"`
	Importance   float64       `json:"importance"`
	Metrics      MomentMetrics `json:"metrics"`
}

// GameMetadata summarises the final state of a game.
type GameMetadata struct {
	GamePK    int64  `json:"game_pk"`
	GameDate  string `json:"game_date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Result    string `json:"result"`
}

// BatterProfile summarises how a batter was pitched in one game and recently.
type BatterProfile struct {
	Batter           string         `json:"batter"`
	TodayPitchCounts map[string]int `json:"today_pitch_counts"`
	TodayZones       map[int]int    `json:"today_zones"`
	TodayOutcomes    []string       `json:"today_outcomes"`
	HistPitchCounts  map[string]int `json:"history_pitch_counts"`
	RecentAvg        *float64       `json:"recent_avg"`
	HistHomeRuns     int            `json:"history_home_runs"`
	HistStrikeouts   int            `json:"history_strikeouts"`
}

// ---- Stored records ----

// DiagnosisRecord is a saved diagnosis row.
type DiagnosisRecord struct {
	ID         string
	PlayerID   int64
	PlayerName string
	Season     string
	StartDate  string
	EndDate    string
	CreatedAt  time.Time
	Result     DiagnosisResult
}

// PlayerSummary is a cached player with event coverage, for list commands.
type PlayerSummary struct {
	Player    Player
	Events    int
	Games     int
	FirstDate string
	LastDate  string
}
