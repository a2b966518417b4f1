// Package statcast fetches pitch-level Statcast data from Baseball Savant and
// player identities from the MLB Stats API.
package statcast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// Default provider endpoints.
const (
	DefaultSavantURL   = "https://baseballsavant.mlb.com"
	DefaultStatsAPIURL = "https://statsapi.mlb.com/api/v1"

	// DefaultHistoryDays is how far back BatterHistory looks when given 0.
	DefaultHistoryDays = 20
)

// Observer is told about every provider request. status is 0 when the request
// failed before a response arrived.
type Observer func(endpoint string, status int, elapsed time.Duration)

// Client talks to Baseball Savant and the MLB Stats API.
type Client struct {
	savantURL string
	statsURL  string
	http      *http.Client
	limiter   *rate.Limiter
	log       *zap.Logger
	observe   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the Savant and Stats API roots. Empty values keep the default.
func WithBaseURLs(savant, stats string) Option {
	return func(c *Client) {
		if savant != "" {
			c.savantURL = strings.TrimRight(savant, "/")
		}
		if stats != "" {
			c.statsURL = strings.TrimRight(stats, "/")
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithObserver registers a request observer, typically a metrics hook.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// NewClient returns a Client with a 30s timeout and a 2 req/s limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		savantURL: DefaultSavantURL,
		statsURL:  DefaultStatsAPIURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		log:       zap.NewNop(),
		observe:   func(string, int, time.Duration) {},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs a rate-limited GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "statdiag/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(endpoint, resp.StatusCode, time.Since(start))
	c.log.Debug("provider request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", endpoint, resp.StatusCode, snippet)
	}
	return body, nil
}

// ---- MLB Stats API ----

// LookupPlayer resolves a player's MLBAM id from first and last name.
// When several players share the name the first active match wins.
func (c *Client) LookupPlayer(ctx context.Context, first, last string) (model.Player, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	q := url.Values{}
	q.Set("names", first+" "+last)
	q.Set("sportIds", "1")
	q.Set("hydrate", "currentTeam")

	body, err := c.get(ctx, "people_search", c.statsURL+"/people/search?"+q.Encode())
	if err != nil {
		return model.Player{}, fmt.Errorf("lookup player: %w", err)
	}

	people := gjson.GetBytes(body, "people").Array()
	var match gjson.Result
	for _, p := range people {
		if !strings.EqualFold(p.Get("lastName").String(), last) {
			continue
		}
		if first != "" && !strings.EqualFold(p.Get("firstName").String(), first) &&
			!strings.EqualFold(p.Get("useName").String(), first) {
			continue
		}
		if !match.Exists() || (p.Get("active").Bool() && !match.Get("active").Bool()) {
			match = p
		}
	}
	if !match.Exists() {
		return model.Player{}, &PlayerNotFoundError{First: first, Last: last}
	}
	return playerFromJSON(match), nil
}

// LookupNames maps MLBAM ids to "First Last". Unknown ids are absent from the result.
func (c *Client) LookupNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	body, err := c.get(ctx, "people", c.statsURL+"/people?personIds="+strings.Join(parts, ","))
	if err != nil {
		return nil, fmt.Errorf("lookup names: %w", err)
	}
	gjson.GetBytes(body, "people").ForEach(func(_, p gjson.Result) bool {
		pl := playerFromJSON(p)
		out[pl.ID] = pl.FirstName + " " + pl.LastName
		return true
	})
	return out, nil
}

func playerFromJSON(p gjson.Result) model.Player {
	first := p.Get("useName").String()
	if first == "" {
		first = p.Get("firstName").String()
	}
	return model.Player{
		ID:        p.Get("id").Int(),
		FirstName: first,
		LastName:  p.Get("lastName").String(),
		FullName:  p.Get("fullName").String(),
	}
}

// ---- Baseball Savant ----

// savantSearch runs a Statcast search CSV query over [start, end].
func (c *Client) savantSearch(ctx context.Context, endpoint string, params url.Values, start, end string) ([]model.EventRecord, error) {
	params.Set("all", "true")
	params.Set("type", "details")
	params.Set("game_date_gt", start)
	params.Set("game_date_lt", end)
	body, err := c.get(ctx, endpoint, c.savantURL+"/statcast_search/csv?"+params.Encode())
	if err != nil {
		return nil, err
	}
	events, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse savant csv: %w", err)
	}
	return events, nil
}

// BatterEvents returns every regular-season pitch seen by a batter between
// start and end inclusive (YYYY-MM-DD).
func (c *Client) BatterEvents(ctx context.Context, batterID int64, start, end string) ([]model.EventRecord, error) {
	q := url.Values{}
	q.Set("player_type", "batter")
	q.Set("batters_lookup[]", strconv.FormatInt(batterID, 10))
	q.Set("hfGT", "R|")

	events, err := c.savantSearch(ctx, "savant_batter", q, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch batter %d: %w", batterID, err)
	}
	events = RegularSeason(events)
	if len(events) == 0 {
		return nil, &NoDataError{What: fmt.Sprintf("batter %d", batterID), Start: start, End: end}
	}
	c.log.Info("fetched batter events",
		zap.Int64("batter", batterID),
		zap.String("start", start),
		zap.String("end", end),
		zap.Int("events", len(events)))
	return events, nil
}

// GameEvents returns the pitches of the game the team played on date. On a
// doubleheader the first game listed by the provider is used.
func (c *Client) GameEvents(ctx context.Context, date, team string) ([]model.EventRecord, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	q := url.Values{}
	q.Set("player_type", "pitcher")
	q.Set("team", team)

	events, err := c.savantSearch(ctx, "savant_game", q, date, date)
	if err != nil {
		return nil, fmt.Errorf("fetch %s game on %s: %w", team, date, err)
	}
	game := FirstGame(events, team)
	if len(game) == 0 {
		return nil, &NoDataError{What: team + " game", Start: date, End: date}
	}
	return game, nil
}

// FirstGame keeps the rows of the first game_pk in which team played home or away.
func FirstGame(events []model.EventRecord, team string) []model.EventRecord {
	var pk int64
	found := false
	var out []model.EventRecord
	for i := range events {
		e := &events[i]
		if e.HomeTeam != team && e.AwayTeam != team {
			continue
		}
		if !found {
			pk, found = e.GamePK, true
		}
		if e.GamePK == pk {
			out = append(out, *e)
		}
	}
	return out
}

// BatterHistory returns the pitches a batter saw in the daysBack days up to
// date. It returns nil without error when there are none.
func (c *Client) BatterHistory(ctx context.Context, batterID int64, date string, daysBack int) ([]model.EventRecord, error) {
	if daysBack <= 0 {
		daysBack = DefaultHistoryDays
	}
	end, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	start := end.AddDate(0, 0, -daysBack)

	q := url.Values{}
	q.Set("player_type", "batter")
	q.Set("batters_lookup[]", strconv.FormatInt(batterID, 10))

	events, err := c.savantSearch(ctx, "savant_history", q, start.Format(model.DateLayout), date)
	if err != nil {
		return nil, fmt.Errorf("fetch history for batter %d: %w", batterID, err)
	}
	out := events[:0]
	for i := range events {
		if events[i].Batter == batterID {
			out = append(out, events[i])
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
