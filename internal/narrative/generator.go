// Package narrative turns diagnoses, key moments and batter profiles into
// prose through a pluggable LLM Generator.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pable/go-statcast-diagnosis/internal/config"
)

var (
	// ErrNoAPIKey is returned when a generator is requested without credentials.
	ErrNoAPIKey = errors.New("no API key: set llm.api_key, ANTHROPIC_API_KEY or OPENAI_API_KEY")
	// ErrAuth is returned when the provider rejects the API key.
	ErrAuth = errors.New("API authentication failed, check your API key")
)

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Stream receives text as it is generated. May be nil.
	Stream io.Writer
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Default models per provider, used when llm.model is empty.
const (
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	if provider == config.ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultAnthropicModel
}

// New builds the generator selected by cfg.Provider. An empty cfg.Model
// selects the provider's default and cfg.BaseURL, when set, replaces the
// provider endpoint.
func New(cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}
	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return NewAnthropic(cfg.APIKey, model, opts...), nil
	case config.ProviderOpenAI:
		if cfg.BaseURL != "" {
			return NewOpenAIWithBaseURL(cfg.APIKey, model, cfg.BaseURL), nil
		}
		return NewOpenAI(cfg.APIKey, model), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

// Options are the sampling parameters applied to every request a Writer sends.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// OptionsFrom copies the sampling parameters out of the LLM config.
func OptionsFrom(cfg config.LLMConfig) Options {
	return Options{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
}

func (o Options) request(system, prompt string, stream io.Writer) Request {
	return Request{
		System:      system,
		Prompt:      prompt,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
		Stream:      stream,
	}
}
