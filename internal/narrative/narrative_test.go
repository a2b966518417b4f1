package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/model"
)

type fakeGenerator struct {
	reply string
	err   error
	calls []Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	if req.Stream != nil {
		io.WriteString(req.Stream, f.reply)
	}
	return f.reply, nil
}

func (f *fakeGenerator) Provider() string { return "fake" }

func f64(v float64) *float64 { return &v }

func sampleDiagnosis() model.DiagnosisResult {
	return model.DiagnosisResult{
		PlayerName: "Aaron Judge",
		PlayerID:   592450,
		Season:     "2024",
		Segments: model.Segments{
			Early: model.SegmentMetrics{Segment: model.SegmentEarly, AvgLaunchSpeed: f64(91.2)},
			Mid:   model.SegmentMetrics{Segment: model.SegmentMid},
			Late:  model.SegmentMetrics{Segment: model.SegmentLate, AvgLaunchSpeed: f64(94.8)},
		},
		Summary: model.DiagnosisSummary{
			TotalGamesAnalyzed: 30,
			Trends: map[string]model.Trend{
				model.MetricAvgLaunchSpeed: model.TrendIncreasing,
				model.MetricHardHitRate:    model.TrendStable,
				model.MetricKRate:          model.TrendInsufficientData,
			},
		},
	}
}

func TestSeason(t *testing.T) {
	gen := &fakeGenerator{reply: "A fine season."}
	w := NewWriter(gen, Options{Temperature: 0.7, MaxTokens: 6000})

	var live bytes.Buffer
	text, err := w.Season(context.Background(), sampleDiagnosis(), &live)
	if err != nil {
		t.Fatalf("Season: %v", err)
	}
	if text != "A fine season." || live.String() != text {
		t.Errorf("text = %q, streamed = %q", text, live.String())
	}
	if len(gen.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(gen.calls))
	}
	req := gen.calls[0]
	if req.Temperature != 0.7 || req.MaxTokens != 6000 {
		t.Errorf("sampling = %v/%d", req.Temperature, req.MaxTokens)
	}
	if !strings.Contains(req.System, "88-89 mph") || !strings.Contains(req.System, ".320") {
		t.Error("system prompt missing league averages")
	}
	for _, want := range []string{"Aaron Judge", "2024 season", `"avg_launch_speed": 91.2`, `"babip": null`, "launch speed rising", "hard hit rate steady", "strikeout rate not enough data"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSeasonError(t *testing.T) {
	boom := errors.New("boom")
	w := NewWriter(&fakeGenerator{err: boom}, Options{})
	if _, err := w.Season(context.Background(), sampleDiagnosis(), nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestRecapNoMoments(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	out, err := NewWriter(gen, Options{}).Recap(context.Background(), nil, model.GameMetadata{})
	if err != nil {
		t.Fatalf("Recap: %v", err)
	}
	if out.English != NoMomentsText || out.Chinese != "" {
		t.Errorf("got %+v", out)
	}
	if len(gen.calls) != 0 {
		t.Errorf("generator called %d times", len(gen.calls))
	}
}

func TestRecap(t *testing.T) {
	gen := &fakeGenerator{reply: "Sure!\n```json\n{\"english\": \"Yankees win\", \"chinese\": \"洋基獲勝\"}\n```"}
	meta := model.GameMetadata{HomeTeam: "NYY", AwayTeam: "SF", HomeScore: 5, AwayScore: 3, Result: "NYY wins"}
	moments := []model.KeyMoment{{
		Inning: 8, InningTopBot: "Bot", Outs: 2, HomeScore: 3, AwayScore: 3,
		Batter: "Aaron Judge", Event: "home_run", Description: "Judge homers.",
		Metrics: model.MomentMetrics{ReleaseSpeed: f64(97.1), PitchType: "FF", LaunchSpeed: f64(110.4)},
	}}

	out, err := NewWriter(gen, Options{}).Recap(context.Background(), moments, meta)
	if err != nil {
		t.Fatalf("Recap: %v", err)
	}
	if out.English != "Yankees win" || out.Chinese != "洋基獲勝" {
		t.Errorf("got %+v", out)
	}
	req := gen.calls[0]
	if !strings.Contains(req.System, "SF (Away) vs NYY (Home)") {
		t.Errorf("system prompt = %q", req.System)
	}
	for _, want := range []string{"MATCHUP: SF (Visiting) @ NYY (Home)", "Score: SF 3 - NYY 5", "Bot of 8, 2 outs", "Pitch Speed 97.1mph", "Angle N/A"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStrategyPrompt(t *testing.T) {
	p := model.BatterProfile{
		Batter:           "Juan Soto",
		TodayPitchCounts: map[string]int{"SL": 2, "FF": 5},
		TodayZones:       map[int]int{14: 3},
		TodayOutcomes:    []string{"walk", "single"},
		RecentAvg:        f64(0.25),
		HistHomeRuns:     2,
	}
	got := StrategyPrompt(p)
	for _, want := range []string{"BATTER: Juan Soto", "Pitches Seen: FF: 5, SL: 2", "Zones Targeted: 14: 3", "Outcomes: walk, single", "Pitches Faced: none", "Batting Average: 0.250", "Home Runs: 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	p.RecentAvg = nil
	if !strings.Contains(StrategyPrompt(p), "Batting Average: N/A") {
		t.Error("nil average should render N/A")
	}
}

func TestParseBilingual(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Bilingual
	}{
		{"plain json", `{"english":"a","chinese":"b"}`, Bilingual{"a", "b"}},
		{"embedded", "Here you go: {\"english\":\"a\",\"chinese\":\"b\"} enjoy", Bilingual{"a", "b"}},
		{"fenced", "```json\n{\"english\":\"a\",\"chinese\":\"b\"}\n```", Bilingual{"a", "b"}},
		{"raw text", "  just prose  ", Bilingual{"just prose", unparsedChinese}},
		{"broken json", `{"english": "a"`, Bilingual{`{"english": "a"`, unparsedChinese}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBilingual(tt.in); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(config.LLMConfig{Provider: config.ProviderAnthropic}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing key: err = %v", err)
	}
	g, err := New(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"})
	if err != nil || g.Provider() != config.ProviderOpenAI {
		t.Errorf("openai: %v, %v", g, err)
	}
	g, err = New(config.LLMConfig{APIKey: "k"})
	if err != nil || g.Provider() != config.ProviderAnthropic {
		t.Errorf("default: %v, %v", g, err)
	}
	if _, err := New(config.LLMConfig{Provider: "gemini", APIKey: "k"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestNewDefaultModels(t *testing.T) {
	tests := []struct {
		cfg  config.LLMConfig
		want string
	}{
		{config.LLMConfig{APIKey: "k"}, DefaultAnthropicModel},
		{config.LLMConfig{Provider: config.ProviderAnthropic, APIKey: "k"}, DefaultAnthropicModel},
		{config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k"}, DefaultOpenAIModel},
		{config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", Model: "gpt-4.1"}, "gpt-4.1"},
	}
	for _, tt := range tests {
		g, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", tt.cfg, err)
		}
		var got string
		switch g := g.(type) {
		case *Anthropic:
			got = g.model
		case *OpenAI:
			got = g.model
		}
		if got != tt.want {
			t.Errorf("New(%+v) model = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestNewOpenAIBaseURL(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	g, err := New(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil || text != "ok" {
		t.Fatalf("Generate = %q, %v", text, err)
	}
	if model != DefaultOpenAIModel {
		t.Errorf("model sent = %q, want %q", model, DefaultOpenAIModel)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`)
	}))
	defer srv.Close()

	gen := NewOpenAIWithBaseURL("k", "gpt-4o-mini", srv.URL)
	var live bytes.Buffer
	text, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "hi", Temperature: 0.5, MaxTokens: 100, Stream: &live})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "hello there" || live.String() != text {
		t.Errorf("text = %q, streamed = %q", text, live.String())
	}
	if got.Model != "gpt-4o-mini" || got.MaxTokens != 100 || got.Temperature != 0.5 {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hi" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAIWithBaseURL("bad", "gpt-4o-mini", srv.URL).Generate(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}
}

func TestAnthropicGenerate(t *testing.T) {
	events := []struct{ name, data string }{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5","content":[],"stop_reason":null,"usage":{"input_tokens":5,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":", world"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":3}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, e := range events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.name, e.data)
		}
	}))
	defer srv.Close()

	gen := NewAnthropic("k", "claude-sonnet-4-5", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	var live bytes.Buffer
	text, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "hi", Temperature: 0.7, MaxTokens: 64, Stream: &live})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Hello, world" || live.String() != text {
		t.Errorf("text = %q, streamed = %q", text, live.String())
	}
	if body["model"] != "claude-sonnet-4-5" || body["max_tokens"] != float64(64) || body["stream"] != true {
		t.Errorf("request body = %v", body)
	}
}

func TestAnthropicUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	gen := NewAnthropic("bad", "claude-sonnet-4-5", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if _, err := gen.Generate(context.Background(), Request{Prompt: "hi", MaxTokens: 8}); !errors.Is(err, ErrAuth) {
		t.Errorf("err = %v, want ErrAuth", err)
	}
}

func TestTrendWord(t *testing.T) {
	if TrendWord(model.TrendDecreasing) != "falling 📉" || TrendWord("odd") != "odd" {
		t.Error("unexpected trend words")
	}
}
