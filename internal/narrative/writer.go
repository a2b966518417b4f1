package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// NoMomentsText is returned by Recap when the game has no terminal plays.
const NoMomentsText = "No key moments found for this game."

// unparsedChinese fills Bilingual.Chinese when the model reply was not JSON.
const unparsedChinese = "Could not parse Chinese translation from AI response."

// Bilingual is an English text with its Traditional Chinese translation.
type Bilingual struct {
	English string `json:"english"`
	Chinese string `json:"chinese"`
}

// Writer builds prompts and sends them to a Generator.
type Writer struct {
	gen  Generator
	opts Options
}

// NewWriter returns a Writer using gen with the given sampling options.
func NewWriter(gen Generator, opts Options) *Writer {
	return &Writer{gen: gen, opts: opts}
}

// Provider reports the underlying generator's provider name.
func (w *Writer) Provider() string { return w.gen.Provider() }

// Season writes the scout-style season narrative for a diagnosis. If stream is
// non-nil the text is copied to it as it arrives.
func (w *Writer) Season(ctx context.Context, res model.DiagnosisResult, stream io.Writer) (string, error) {
	prompt, err := SeasonPrompt(res)
	if err != nil {
		return "", err
	}
	text, err := w.gen.Generate(ctx, w.opts.request(scoutSystemPrompt, prompt, stream))
	if err != nil {
		return "", fmt.Errorf("generate season narrative: %w", err)
	}
	return text, nil
}

// SeasonPrompt renders the user prompt for a season narrative.
func SeasonPrompt(res model.DiagnosisResult) (string, error) {
	blocks := make([]string, 0, 3)
	for _, seg := range res.Segments.Ordered() {
		b, err := json.MarshalIndent(seg, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode segment: %w", err)
		}
		blocks = append(blocks, string(b))
	}
	season := res.Season
	if season == "" {
		season = "selected"
	}
	trends := res.Summary.Trends
	return fmt.Sprintf(seasonPromptTemplate,
		res.PlayerName, season,
		blocks[0], blocks[1], blocks[2],
		TrendWord(trends[model.MetricAvgLaunchSpeed]),
		TrendWord(trends[model.MetricHardHitRate]),
		TrendWord(trends[model.MetricKRate]),
	), nil
}

// Recap writes a bilingual game recap from its key moments. With no moments it
// returns NoMomentsText as the English text without calling the generator.
func (w *Writer) Recap(ctx context.Context, moments []model.KeyMoment, meta model.GameMetadata) (Bilingual, error) {
	if len(moments) == 0 {
		return Bilingual{English: NoMomentsText}, nil
	}
	system := fmt.Sprintf(recapSystemPromptTemplate, meta.AwayTeam, meta.HomeTeam)
	text, err := w.gen.Generate(ctx, w.opts.request(system, RecapPrompt(moments, meta), nil))
	if err != nil {
		return Bilingual{}, fmt.Errorf("generate recap: %w", err)
	}
	return ParseBilingual(text), nil
}

// RecapPrompt renders the matchup and each key moment.
func RecapPrompt(moments []model.KeyMoment, meta model.GameMetadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MATCHUP: %s (Visiting) @ %s (Home)\n", meta.AwayTeam, meta.HomeTeam)
	fmt.Fprintf(&b, "FINAL RESULT: %s. Score: %s %d - %s %d\n\n",
		meta.Result, meta.AwayTeam, meta.AwayScore, meta.HomeTeam, meta.HomeScore)
	b.WriteString("Here are the key moments from the game:\n\n")
	for i, m := range moments {
		fmt.Fprintf(&b, "Moment %d:\n", i+1)
		fmt.Fprintf(&b, "- Context: %s of %d, %d outs. Score: Home %d - Away %d.\n",
			m.InningTopBot, m.Inning, m.Outs, m.HomeScore, m.AwayScore)
		fmt.Fprintf(&b, "- Batter: %s\n", m.Batter)
		fmt.Fprintf(&b, "- Event: %s\n", m.Event)
		fmt.Fprintf(&b, "- Description: %s\n", m.Description)
		fmt.Fprintf(&b, "- Key Metrics: Pitch Speed %smph, Pitch %s, Exit Vel %smph, Angle %s, Dist %sft.\n\n",
			num(m.Metrics.ReleaseSpeed), orNA(m.Metrics.PitchType),
			num(m.Metrics.LaunchSpeed), num(m.Metrics.LaunchAngle), num(m.Metrics.HitDistance))
	}
	b.WriteString("Write the recap in strictly valid JSON.")
	return b.String()
}

// Strategy writes a bilingual analysis of how a batter was pitched.
func (w *Writer) Strategy(ctx context.Context, p model.BatterProfile) (Bilingual, error) {
	text, err := w.gen.Generate(ctx, w.opts.request(strategySystemPrompt, StrategyPrompt(p), nil))
	if err != nil {
		return Bilingual{}, fmt.Errorf("generate strategy: %w", err)
	}
	return ParseBilingual(text), nil
}

// StrategyPrompt renders a batter profile.
func StrategyPrompt(p model.BatterProfile) string {
	zones := make(map[string]int, len(p.TodayZones))
	for z, n := range p.TodayZones {
		zones[strconv.Itoa(z)] = n
	}
	avg := "N/A"
	if p.RecentAvg != nil {
		avg = strconv.FormatFloat(*p.RecentAvg, 'f', 3, 64)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "BATTER: %s\n\n", p.Batter)
	b.WriteString("TODAY'S PERFORMANCE:\n")
	fmt.Fprintf(&b, "- Pitches Seen: %s\n", counts(p.TodayPitchCounts))
	fmt.Fprintf(&b, "- Zones Targeted: %s\n", counts(zones))
	fmt.Fprintf(&b, "- Outcomes: %s\n\n", strings.Join(p.TodayOutcomes, ", "))
	b.WriteString("RECENT FORM:\n")
	fmt.Fprintf(&b, "- Pitches Faced: %s\n", counts(p.HistPitchCounts))
	fmt.Fprintf(&b, "- Batting Average: %s\n", avg)
	fmt.Fprintf(&b, "- Home Runs: %d\n", p.HistHomeRuns)
	fmt.Fprintf(&b, "- Strikeouts: %d\n\n", p.HistStrikeouts)
	b.WriteString("Analyze the strategy and provide the JSON output.")
	return b.String()
}

// ParseBilingual extracts the english/chinese pair from a model reply. It
// tries the outermost {...} object, then the text with code fences removed,
// and finally falls back to the raw text as the English version.
func ParseBilingual(text string) Bilingual {
	var out Bilingual
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		if err := json.Unmarshal([]byte(text[i:j+1]), &out); err == nil {
			return out
		}
	}

	cleaned := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = cleaned[len("```json"):]
	case strings.HasPrefix(cleaned, "```"):
		cleaned = cleaned[3:]
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &out); err == nil {
		return out
	}

	return Bilingual{English: strings.TrimSpace(text), Chinese: unparsedChinese}
}

// counts renders a count map as "k: n" pairs, most frequent first.
func counts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, m[k])
	}
	return strings.Join(parts, ", ")
}

func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
