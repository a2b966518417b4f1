package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pable/go-statcast-diagnosis/internal/analysis"
	"github.com/pable/go-statcast-diagnosis/internal/aggregator"
	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/logger"
	"github.com/pable/go-statcast-diagnosis/internal/metrics"
	"github.com/pable/go-statcast-diagnosis/internal/narrative"
	"github.com/pable/go-statcast-diagnosis/internal/statcast"
	"github.com/pable/go-statcast-diagnosis/internal/storage"
)

// openStore opens the configured database, creating its directory.
func openStore() (*storage.DB, error) {
	if err := ensureDBDir(); err != nil {
		return nil, err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newSource builds the Statcast client from config.
func newSource(m *metrics.Manager) *statcast.Client {
	sc := cfg.Statcast
	opts := []statcast.Option{
		statcast.WithBaseURLs(sc.SavantURL, sc.StatsAPIURL),
		statcast.WithTimeout(sc.Timeout),
		statcast.WithRateLimit(sc.RequestsPerSecond),
		statcast.WithLogger(logger.Named("statcast")),
	}
	if m != nil {
		opts = append(opts, statcast.WithObserver(m.ProviderRequest))
	}
	return statcast.NewClient(opts...)
}

// newService wires the service. With requireLLM the generator must be
// configurable; otherwise a missing API key only disables narratives.
func newService(db *storage.DB, m *metrics.Manager, requireLLM bool) (*analysis.Service, error) {
	opts := []analysis.Option{
		analysis.WithLogger(logger.Named("analysis")),
		analysis.WithMetrics(m),
	}
	if db != nil {
		opts = append(opts, analysis.WithStore(db))
	}
	gen, err := narrative.New(cfg.LLM)
	switch {
	case err == nil:
		opts = append(opts, analysis.WithGenerator(gen))
	case requireLLM:
		return nil, err
	case !errors.Is(err, narrative.ErrNoAPIKey):
		return nil, err
	}
	return analysis.New(cfg, newSource(m), opts...), nil
}

// providerKeyEnv names each provider's conventional key variable.
var providerKeyEnv = map[string]string{
	config.ProviderAnthropic: "ANTHROPIC_API_KEY",
	config.ProviderOpenAI:    "OPENAI_API_KEY",
}

// applyLLMFlags overrides the configured LLM settings from command flags.
func applyLLMFlags(provider, model, apiKey string) {
	if provider != "" && provider != cfg.LLM.Provider {
		cfg.LLM.Provider = provider
		if apiKey == "" {
			// The configured key belongs to the previous provider.
			cfg.LLM.APIKey = os.Getenv(providerKeyEnv[provider])
		}
		// So is the configured model; empty picks the new provider's default.
		cfg.LLM.Model = ""
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
}

// splitName turns "Aaron Judge" or ["Aaron", "Judge"] into first and last
// names. Everything after the first word is the last name.
func splitName(args []string) (first, last string, err error) {
	fields := strings.Fields(strings.Join(args, " "))
	if len(fields) < 2 {
		return "", "", fmt.Errorf("expected a first and last name, got %q", strings.Join(args, " "))
	}
	return fields[0], strings.Join(fields[1:], " "), nil
}

// explain prints a friendlier message for the errors users hit most.
func explain(err error) error {
	var ins *aggregator.InsufficientSampleError
	if errors.As(err, &ins) {
		fmt.Fprintf(os.Stderr, "Only %d games in range; a diagnosis needs at least %d. Try a wider range or another season.\n",
			ins.Games, ins.Required)
	}
	return err
}
