// Package analysis wires the event source, the cache and the narrative
// generator around the aggregation core.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pable/go-statcast-diagnosis/internal/aggregator"
	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/metrics"
	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/narrative"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
)

// ErrInvalidRequest marks a request that is missing or has malformed input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNoGenerator is returned by narrative operations when no LLM is configured.
var ErrNoGenerator = errors.New("no narrative generator configured")

// Source fetches player identities and pitch events.
type Source interface {
	LookupPlayer(ctx context.Context, first, last string) (model.Player, error)
	LookupNames(ctx context.Context, ids []int64) (map[int64]string, error)
	BatterEvents(ctx context.Context, batterID int64, start, end string) ([]model.EventRecord, error)
	GameEvents(ctx context.Context, date, team string) ([]model.EventRecord, error)
	BatterHistory(ctx context.Context, batterID int64, date string, daysBack int) ([]model.EventRecord, error)
}

// Store caches players, events and diagnoses.
type Store interface {
	FindPlayer(first, last string) (*model.Player, error)
	GetPlayer(id int64) (*model.Player, error)
	UpsertPlayer(p model.Player) error
	HasFetch(batter int64, start, end string) (bool, error)
	GetBatterEvents(batter int64, start, end string) ([]model.EventRecord, error)
	InsertEvents(events []model.EventRecord) error
	RecordFetch(batter int64, start, end string, rows int) error
	CachedGame(date, team string) (gamePK int64, ok bool, err error)
	GetGameEvents(gamePK int64) ([]model.EventRecord, error)
	RecordGame(date, team string, gamePK int64, rows int) error
	InsertDiagnosis(res model.DiagnosisResult, start, end string) (*model.DiagnosisRecord, error)
	Ping() error
}

// Service is the single entry point used by the CLI and the HTTP API.
type Service struct {
	cfg     *config.Config
	source  Source
	store   Store
	writer  *narrative.Writer
	metrics *metrics.Manager
	log     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables the SQLite cache.
func WithStore(s Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithGenerator enables narratives.
func WithGenerator(g narrative.Generator) Option {
	return func(svc *Service) {
		if g != nil {
			svc.writer = narrative.NewWriter(g, narrative.OptionsFrom(svc.cfg.LLM))
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) { svc.log = l }
}

// New returns a Service reading events from source.
func New(cfg *config.Config, source Source, opts ...Option) *Service {
	svc := &Service{cfg: cfg, source: source, log: zap.NewNop()}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// Range is an inclusive date range (YYYY-MM-DD).
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DiagnosisRequest identifies a player and a period. Either PlayerID or both
// names must be set, and either Season or both dates.
type DiagnosisRequest struct {
	PlayerID  int64  `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Season    string `json:"season"`
	Start     string `json:"start_date"`
	End       string `json:"end_date"`
	// Refresh bypasses the event cache.
	Refresh bool `json:"refresh"`
	// Save stores the diagnosis.
	Save bool `json:"save"`
}

// resolveRange turns the request's season or explicit dates into a range.
func (s *Service) resolveRange(req DiagnosisRequest) (Range, error) {
	if req.Season != "" {
		season, err := s.cfg.SeasonRange(req.Season)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return Range{Start: season.Start, End: season.End}, nil
	}
	if req.Start == "" || req.End == "" {
		return Range{}, fmt.Errorf("%w: season or start and end dates required", ErrInvalidRequest)
	}
	start, err := time.Parse(model.DateLayout, req.Start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start date %q", ErrInvalidRequest, req.Start)
	}
	end, err := time.Parse(model.DateLayout, req.End)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end date %q", ErrInvalidRequest, req.End)
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: end date before start date", ErrInvalidRequest)
	}
	return Range{Start: req.Start, End: req.End}, nil
}

// ResolvePlayer finds a player by id or name: cache first, then the source.
func (s *Service) ResolvePlayer(ctx context.Context, req DiagnosisRequest) (model.Player, error) {
	first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if req.PlayerID != 0 {
		if s.store != nil {
			p, err := s.store.GetPlayer(req.PlayerID)
			if err != nil {
				return model.Player{}, fmt.Errorf("get cached player: %w", err)
			}
			if p != nil {
				return *p, nil
			}
		}
		full := strings.TrimSpace(first + " " + last)
		return model.Player{ID: req.PlayerID, FirstName: first, LastName: last, FullName: full}, nil
	}
	if first == "" || last == "" {
		return model.Player{}, fmt.Errorf("%w: first and last name required", ErrInvalidRequest)
	}

	if s.store != nil {
		p, err := s.store.FindPlayer(first, last)
		if err != nil {
			return model.Player{}, fmt.Errorf("find cached player: %w", err)
		}
		if p != nil {
			return *p, nil
		}
	}
	p, err := s.source.LookupPlayer(ctx, first, last)
	if err != nil {
		return model.Player{}, err
	}
	if s.store != nil {
		if err := s.store.UpsertPlayer(p); err != nil {
			s.log.Warn("cache player", zap.Int64("player", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

// PlayerEvents is a player's events over a range.
type PlayerEvents struct {
	Player model.Player
	Range  Range
	Events []model.EventRecord
	Cached bool
}

// LoadEvents resolves the player and loads their events, from the cache when a
// previous fetch covers the range and from the source otherwise.
func (s *Service) LoadEvents(ctx context.Context, req DiagnosisRequest) (*PlayerEvents, error) {
	rng, err := s.resolveRange(req)
	if err != nil {
		return nil, err
	}
	player, err := s.ResolvePlayer(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &PlayerEvents{Player: player, Range: rng}

	if s.store != nil && !req.Refresh {
		covered, err := s.store.HasFetch(player.ID, rng.Start, rng.End)
		if err != nil {
			return nil, fmt.Errorf("check fetch log: %w", err)
		}
		if covered {
			events, err := s.store.GetBatterEvents(player.ID, rng.Start, rng.End)
			if err != nil {
				return nil, fmt.Errorf("load cached events: %w", err)
			}
			// the events table also holds recap games of every type
			events = statcast.RegularSeason(events)
			if len(events) == 0 {
				return nil, &statcast.NoDataError{What: player.Name(), Start: rng.Start, End: rng.End}
			}
			out.Events, out.Cached = events, true
			s.log.Debug("events from cache", zap.Int64("player", player.ID), zap.Int("events", len(events)))
			return out, nil
		}
	}

	events, err := s.source.BatterEvents(ctx, player.ID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.InsertEvents(events); err != nil {
			return nil, fmt.Errorf("cache events: %w", err)
		}
		if err := s.store.RecordFetch(player.ID, rng.Start, rng.End, len(events)); err != nil {
			return nil, fmt.Errorf("record fetch: %w", err)
		}
	}
	out.Events = events
	return out, nil
}

// Diagnosis is the outcome of Diagnose.
type Diagnosis struct {
	Result model.DiagnosisResult
	Range  Range
	Cached bool
	// Record is set when the diagnosis was saved.
	Record *model.DiagnosisRecord
	// Events are the events the diagnosis was computed from.
	Events []model.EventRecord
}

// Diagnose runs the full season diagnosis for a request.
func (s *Service) Diagnose(ctx context.Context, req DiagnosisRequest) (*Diagnosis, error) {
	begin := time.Now()
	d, err := s.diagnose(ctx, req)
	s.metrics.Diagnosis(Outcome(err), time.Since(begin))
	return d, err
}

func (s *Service) diagnose(ctx context.Context, req DiagnosisRequest) (*Diagnosis, error) {
	pe, err := s.LoadEvents(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := aggregator.Diagnose(ctx, pe.Player, req.Season, pe.Events)
	if err != nil {
		return nil, err
	}
	out := &Diagnosis{Result: res, Range: pe.Range, Cached: pe.Cached, Events: pe.Events}

	if req.Save {
		if err := s.SaveDiagnosis(out); err != nil {
			return nil, err
		}
	}
	s.log.Info("diagnosis complete",
		zap.String("player", res.PlayerName),
		zap.String("season", req.Season),
		zap.Int("games", res.Summary.TotalGamesAnalyzed),
		zap.Bool("cached", pe.Cached))
	return out, nil
}

// SaveDiagnosis stores d and sets its Record. Without a store it does nothing.
func (s *Service) SaveDiagnosis(d *Diagnosis) error {
	if s.store == nil {
		return nil
	}
	rec, err := s.store.InsertDiagnosis(d.Result, d.Range.Start, d.Range.End)
	if err != nil {
		return fmt.Errorf("save diagnosis: %w", err)
	}
	d.Record = rec
	return nil
}

// Ping checks the cache is reachable. It is a no-op without a store.
func (s *Service) Ping() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Ping(); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

// DiagnoseEvents diagnoses events that were loaded elsewhere, such as a local
// CSV export. Only regular-season rows are used.
func (s *Service) DiagnoseEvents(ctx context.Context, player model.Player, season string, events []model.EventRecord) (model.DiagnosisResult, error) {
	begin := time.Now()
	res, err := aggregator.Diagnose(ctx, player, season, statcast.RegularSeason(events))
	s.metrics.Diagnosis(Outcome(err), time.Since(begin))
	return res, err
}

// Narrate writes the season narrative for a diagnosis, streaming to w when set.
func (s *Service) Narrate(ctx context.Context, res model.DiagnosisResult, w io.Writer) (string, error) {
	if s.writer == nil {
		return "", ErrNoGenerator
	}
	text, err := s.writer.Season(ctx, res, w)
	s.metrics.LLMCall(s.writer.Provider(), llmOutcome(err))
	return text, err
}

// RecapRequest selects a team's game on a date.
type RecapRequest struct {
	Date string `json:"date"`
	Team string `json:"team"`
	TopN int    `json:"top_n"`
	// Narrate asks for a bilingual recap in addition to the key moments.
	Narrate bool `json:"narrate"`
}

func (r RecapRequest) validate() error {
	if _, err := time.Parse(model.DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidRequest, r.Date)
	}
	if _, ok := statcast.LookupTeam(r.Team); !ok {
		return fmt.Errorf("%w: unknown team %q", ErrInvalidRequest, r.Team)
	}
	return nil
}

// Recap is a game's key moments and, optionally, its written recap.
type Recap struct {
	Metadata  model.GameMetadata   `json:"metadata"`
	Moments   []model.KeyMoment    `json:"moments"`
	Batters   []int64              `json:"batters"`
	Names     map[int64]string     `json:"names"`
	Narrative *narrative.Bilingual `json:"narrative,omitempty"`
}

// Game loads a game and labels its rows with batter names.
func (s *Service) Game(ctx context.Context, date, team string) ([]model.EventRecord, []int64, map[int64]string, error) {
	team = strings.ToUpper(team)
	events, err := s.gameEvents(ctx, date, team)
	if err != nil {
		return nil, nil, nil, err
	}

	// Savant's player_name column names the pitcher on team searches, so
	// batter names come from the people lookup.
	ids, _ := aggregator.GameBatters(events)
	names, err := s.source.LookupNames(ctx, ids)
	if err != nil {
		s.log.Warn("lookup batter names", zap.Error(err))
		names = make(map[int64]string)
	}
	for i := range events {
		events[i].PlayerName = names[events[i].Batter]
	}
	return events, ids, names, nil
}

// gameEvents serves a finished game from the cache, fetching and caching it
// on a miss. Games dated today or later may still be in progress and are
// always fetched.
func (s *Service) gameEvents(ctx context.Context, date, team string) ([]model.EventRecord, error) {
	if s.store == nil {
		return s.source.GameEvents(ctx, date, team)
	}
	pk, ok, err := s.store.CachedGame(date, team)
	if err != nil {
		s.log.Warn("check game cache", zap.Error(err))
	}
	if ok {
		events, err := s.store.GetGameEvents(pk)
		if err == nil && len(events) > 0 {
			s.log.Debug("game from cache", zap.Int64("game_pk", pk), zap.Int("events", len(events)))
			return events, nil
		}
		if err != nil {
			s.log.Warn("load cached game", zap.Error(err))
		}
	}

	events, err := s.source.GameEvents(ctx, date, team)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertEvents(events); err != nil {
		s.log.Warn("cache game events", zap.Error(err))
		return events, nil
	}
	if len(events) > 0 && date < time.Now().UTC().Format(model.DateLayout) {
		if err := s.store.RecordGame(date, team, events[0].GamePK, len(events)); err != nil {
			s.log.Warn("record cached game", zap.Error(err))
		}
	}
	return events, nil
}

// Recap extracts a game's key moments and optionally narrates them.
func (s *Service) Recap(ctx context.Context, req RecapRequest) (*Recap, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Narrate && s.writer == nil {
		return nil, ErrNoGenerator
	}
	events, ids, names, err := s.Game(ctx, req.Date, req.Team)
	if err != nil {
		return nil, err
	}
	moments, meta := aggregator.ExtractKeyMoments(events, req.TopN)
	out := &Recap{Metadata: meta, Moments: moments, Batters: ids, Names: names}

	if req.Narrate {
		text, err := s.writer.Recap(ctx, moments, meta)
		if len(moments) > 0 {
			s.metrics.LLMCall(s.writer.Provider(), llmOutcome(err))
		}
		if err != nil {
			return nil, err
		}
		out.Narrative = &text
	}
	return out, nil
}

// StrategyRequest selects one batter in a team's game.
type StrategyRequest struct {
	Date     string `json:"date"`
	Team     string `json:"team"`
	BatterID int64  `json:"batter_id"`
	Narrate  bool   `json:"narrate"`
}

// Strategy is a batter's pitch profile and, optionally, its analysis.
type Strategy struct {
	Profile   model.BatterProfile  `json:"profile"`
	Narrative *narrative.Bilingual `json:"narrative,omitempty"`
}

// Strategy profiles how a batter was pitched in a game against their recent
// history.
func (s *Service) Strategy(ctx context.Context, req StrategyRequest) (*Strategy, error) {
	if err := (RecapRequest{Date: req.Date, Team: req.Team}).validate(); err != nil {
		return nil, err
	}
	if req.BatterID == 0 {
		return nil, fmt.Errorf("%w: batter id required", ErrInvalidRequest)
	}
	if req.Narrate && s.writer == nil {
		return nil, ErrNoGenerator
	}
	events, _, names, err := s.Game(ctx, req.Date, req.Team)
	if err != nil {
		return nil, err
	}
	game := aggregator.FilterBatter(events, req.BatterID)
	if len(game) == 0 {
		return nil, &statcast.NoDataError{What: fmt.Sprintf("batter %d in %s game", req.BatterID, strings.ToUpper(req.Team)), Start: req.Date, End: req.Date}
	}
	history, err := s.source.BatterHistory(ctx, req.BatterID, req.Date, s.cfg.Statcast.HistoryDays)
	if err != nil {
		return nil, err
	}

	name := names[req.BatterID]
	if name == "" {
		name = fmt.Sprintf("%d", req.BatterID)
	}
	out := &Strategy{Profile: aggregator.BuildBatterProfile(name, game, history)}
	if req.Narrate {
		text, err := s.writer.Strategy(ctx, out.Profile)
		s.metrics.LLMCall(s.writer.Provider(), llmOutcome(err))
		if err != nil {
			return nil, err
		}
		out.Narrative = &text
	}
	return out, nil
}

// Outcome classifies an error for metrics.
func Outcome(err error) string {
	var insufficient *aggregator.InsufficientSampleError
	var notFound *statcast.PlayerNotFoundError
	var noData *statcast.NoDataError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &insufficient):
		return metrics.OutcomeInsufficientSample
	case errors.As(err, &notFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &noData):
		return metrics.OutcomeNoData
	}
	return metrics.OutcomeError
}

func llmOutcome(err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	return metrics.OutcomeOK
}
