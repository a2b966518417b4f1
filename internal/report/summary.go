package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/narrative"
)

// Quick summary thresholds.
const (
	speedChangeMPH  = 1.0
	fatigueHardHit  = 5.0
	summaryWrapCols = 100
)

var summaryTrendLabels = []struct {
	metric string
	label  string
}{
	{model.MetricAvgLaunchSpeed, "🔥 Launch speed trend"},
	{model.MetricHardHitRate, "💥 Hard hit trend"},
	{model.MetricKRate, "❌ Strikeout rate trend"},
}

// SpeedChange describes the Early→Late launch speed change, or "" when either
// window has no launch speed.
func SpeedChange(early, late *float64) string {
	if early == nil || late == nil {
		return ""
	}
	diff := *late - *early
	switch {
	case diff > speedChangeMPH:
		return fmt.Sprintf("Launch speed up %.1f mph ⬆️", diff)
	case diff < -speedChangeMPH:
		return fmt.Sprintf("Launch speed down %.1f mph ⬇️", math.Abs(diff))
	}
	return "Launch speed holding steady ➡️"
}

// FatigueIndicator flags a hard-hit rate swing of more than five points
// between Early and Late. It returns "" when there is no signal.
func FatigueIndicator(early, late *float64) string {
	if early == nil || late == nil {
		return ""
	}
	diff := *late - *early
	switch {
	case diff < -fatigueHardHit:
		return "⚠️ Possible late-season fatigue"
	case diff > fatigueHardHit:
		return "💪 Late-season surge"
	}
	return ""
}

func naValue(v *float64, unit string) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}

// QuickSummary renders a markdown digest of a diagnosis without calling an LLM.
func QuickSummary(res model.DiagnosisResult) string {
	early, late := res.Segments.Early, res.Segments.Late

	var b strings.Builder
	fmt.Fprintf(&b, "## 📊 %s quick summary\n\n", res.PlayerName)
	fmt.Fprintf(&b, "**Games analysed**: %d\n\n", res.Summary.TotalGamesAnalyzed)

	b.WriteString("### Trends\n")
	for _, t := range summaryTrendLabels {
		trend, ok := res.Summary.Trends[t.metric]
		if !ok {
			trend = model.TrendInsufficientData
		}
		fmt.Fprintf(&b, "- %s: %s\n", t.label, narrative.TrendWord(trend))
	}

	b.WriteString("\n### Findings\n")
	if s := SpeedChange(early.AvgLaunchSpeed, late.AvgLaunchSpeed); s != "" {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	if s := FatigueIndicator(early.HardHitRate, late.HardHitRate); s != "" {
		fmt.Fprintf(&b, "- %s\n", s)
	} else {
		b.WriteString("- Performance steady\n")
	}

	b.WriteString("\n### Key metrics\n")
	b.WriteString("| Metric | Early | Late |\n|------|------|------|\n")
	fmt.Fprintf(&b, "| Avg launch speed | %s | %s |\n", naValue(early.AvgLaunchSpeed, " mph"), naValue(late.AvgLaunchSpeed, " mph"))
	fmt.Fprintf(&b, "| Hard hit %% | %s | %s |\n", naValue(early.HardHitRate, "%"), naValue(late.HardHitRate, "%"))
	fmt.Fprintf(&b, "| wOBA | %s | %s |\n", naValue(early.WOBA, ""), naValue(late.WOBA, ""))
	fmt.Fprintf(&b, "| Home runs | %d | %d |\n", early.HomeRuns, late.HomeRuns)
	return b.String()
}

// RenderMarkdown renders md for the terminal. Style is a glamour style name
// ("auto", "dark", "light", "notty").
func RenderMarkdown(md, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(summaryWrapCols)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
