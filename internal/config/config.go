// Package config defines the statdiag configuration and its defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config is the full process configuration. It is built once by Load and
// passed explicitly to the components that need it.
type Config struct {
	// DBPath is the SQLite cache location.
	DBPath string `koanf:"db_path"`

	Log      LogConfig         `koanf:"log"`
	LLM      LLMConfig         `koanf:"llm"`
	Statcast StatcastConfig    `koanf:"statcast"`
	Server   ServerConfig      `koanf:"server"`
	Seasons  map[string]Season `koanf:"seasons"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// LLMConfig selects and tunes the narrative generator.
type LLMConfig struct {
	Provider string `koanf:"provider"`
	// Model is empty for the provider's default.
	Model  string `koanf:"model"`
	APIKey string `koanf:"api_key"`
	// BaseURL overrides the provider endpoint, e.g. for an OpenAI-compatible
	// gateway.
	BaseURL     string  `koanf:"base_url"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`
}

// StatcastConfig configures the data provider client.
type StatcastConfig struct {
	SavantURL         string        `koanf:"savant_url"`
	StatsAPIURL       string        `koanf:"stats_api_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	HistoryDays       int           `koanf:"history_days"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// Season is an inclusive regular-season date range (YYYY-MM-DD).
type Season struct {
	Start string `koanf:"start" json:"start"`
	End   string `koanf:"end" json:"end"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		DBPath: filepath.Join(userHome(), ".statdiag", "statcast.db"),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		LLM: LLMConfig{
			Provider:    ProviderAnthropic,
			Temperature: 0.7,
			MaxTokens:   6000,
		},
		Statcast: StatcastConfig{
			SavantURL:         "https://baseballsavant.mlb.com",
			StatsAPIURL:       "https://statsapi.mlb.com/api/v1",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			HistoryDays:       20,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Seasons: map[string]Season{
			"2024": {Start: "2024-03-20", End: "2024-10-31"},
			"2023": {Start: "2023-03-30", End: "2023-10-01"},
			"2022": {Start: "2022-04-07", End: "2022-10-05"},
			"2021": {Start: "2021-04-01", End: "2021-10-03"},
			"2020": {Start: "2020-07-23", End: "2020-09-27"},
		},
	}
}

// SeasonRange returns the date range configured for a season label.
func (c *Config) SeasonRange(label string) (Season, error) {
	s, ok := c.Seasons[label]
	if !ok {
		return Season{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownSeason, label, c.SeasonLabels())
	}
	return s, nil
}

// SeasonLabels returns the configured season labels, newest first.
func (c *Config) SeasonLabels() []string {
	out := make([]string, 0, len(c.Seasons))
	for k := range c.Seasons {
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Validate checks the configuration is usable. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: llm.provider %q", ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature %.2f out of range [0,2]", ErrInvalidConfig, c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%w: llm.max_tokens must be positive", ErrInvalidConfig)
	}
	if c.Statcast.Timeout <= 0 {
		return fmt.Errorf("%w: statcast.timeout must be positive", ErrInvalidConfig)
	}
	if c.Statcast.HistoryDays <= 0 {
		return fmt.Errorf("%w: statcast.history_days must be positive", ErrInvalidConfig)
	}
	for label, s := range c.Seasons {
		start, err := time.Parse("2006-01-02", s.Start)
		if err != nil {
			return fmt.Errorf("%w: season %s start %q", ErrInvalidConfig, label, s.Start)
		}
		end, err := time.Parse("2006-01-02", s.End)
		if err != nil {
			return fmt.Errorf("%w: season %s end %q", ErrInvalidConfig, label, s.End)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: season %s ends before it starts", ErrInvalidConfig, label)
		}
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
