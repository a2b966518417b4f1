package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// Short window labels used on chart axes.
var windowLabels = [3]string{"Early", "Mid", "Late"}

// BarPoint is one bar of a per-window chart.
type BarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarSeries returns a metric's value in each window. Undefined values plot as 0.
func BarSeries(res model.DiagnosisResult, metric string) []BarPoint {
	out := make([]BarPoint, 0, 3)
	for i, seg := range res.Segments.Ordered() {
		p := BarPoint{Label: windowLabels[i]}
		if v, ok := seg.Value(metric); ok && v != nil {
			p.Value = *v
		}
		out = append(out, p)
	}
	return out
}

// TrendLineMetrics are the metrics drawn on the normalized trend chart.
var TrendLineMetrics = []string{model.MetricAvgLaunchSpeed, model.MetricHardHitRate, model.MetricWhiffRate}

// TrendLine is a metric's per-window values scaled so that the largest is 100.
type TrendLine struct {
	Metric string     `json:"metric"`
	Values [3]float64 `json:"values"`
}

// TrendLines normalizes each of TrendLineMetrics by its own maximum. A metric
// whose maximum is not positive is divided by 1 instead.
func TrendLines(res model.DiagnosisResult) []TrendLine {
	out := make([]TrendLine, 0, len(TrendLineMetrics))
	for _, m := range TrendLineMetrics {
		series := BarSeries(res, m)
		top := math.Inf(-1)
		for _, p := range series {
			top = math.Max(top, p.Value)
		}
		if top <= 0 {
			top = 1
		}
		line := TrendLine{Metric: m}
		for i, p := range series {
			line.Values[i] = p.Value / top * 100
		}
		out = append(out, line)
	}
	return out
}

// RadarAxis is one spoke of the skill radar, scored 0-100.
type RadarAxis struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// radarScale maps v from [lo, hi] onto [0, 100], clamped. Nil scores 50.
func radarScale(v *float64, lo, hi float64) float64 {
	if v == nil {
		return 50
	}
	s := (*v - lo) / (hi - lo) * 100
	return math.Min(100, math.Max(0, s))
}

// RadarScores scores one window on five axes. Strikeout avoidance is the
// inverted K-rate score.
func RadarScores(seg model.SegmentMetrics) []RadarAxis {
	return []RadarAxis{
		{"Exit velocity", radarScale(seg.AvgLaunchSpeed, 80, 100)},
		{"Hard hit", radarScale(seg.HardHitRate, 20, 60)},
		{"Plate discipline", radarScale(seg.BBRate, 0, 15)},
		{"K avoidance", 100 - radarScale(seg.KRate, 10, 35)},
		{"Power", radarScale(seg.MaxHitDistance, 350, 450)},
	}
}

// bar renders value/top as a block bar of at most width cells.
func bar(value, top float64, width int) string {
	if top <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / top * float64(width)))
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// PrintBarChart draws a horizontal bar chart of points.
func PrintBarChart(w io.Writer, title string, points []BarPoint, width int) {
	fmt.Fprintf(w, "\n%s\n", title)
	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Value)
	}
	for _, p := range points {
		fmt.Fprintf(w, "  %-6s %-*s %.2f\n", p.Label, width, bar(p.Value, top, width), p.Value)
	}
}

// PrintTrendLines draws the normalized trend values, one row per metric.
func PrintTrendLines(w io.Writer, lines []TrendLine) {
	fmt.Fprintln(w, "\nNormalized trend (max window = 100)")
	fmt.Fprintf(w, "  %-18s %7s %7s %7s\n", "", windowLabels[0], windowLabels[1], windowLabels[2])
	for _, l := range lines {
		fmt.Fprintf(w, "  %-18s %7.1f %7.1f %7.1f\n", l.Metric, l.Values[0], l.Values[1], l.Values[2])
	}
}

// PrintRadar draws each window's radar scores as bars on a 0-100 scale.
func PrintRadar(w io.Writer, res model.DiagnosisResult, width int) {
	fmt.Fprintln(w, "\nSkill profile (0-100)")
	for i, seg := range res.Segments.Ordered() {
		fmt.Fprintf(w, "  %s\n", windowLabels[i])
		for _, a := range RadarScores(seg) {
			fmt.Fprintf(w, "    %-17s %-*s %3.0f\n", a.Name, width, bar(a.Score, 100, width), a.Score)
		}
	}
}

// PrintCharts draws the headline bar charts, the trend lines and the radar.
func PrintCharts(w io.Writer, res model.DiagnosisResult) {
	const width = 30
	PrintBarChart(w, "Avg launch speed (mph)", BarSeries(res, model.MetricAvgLaunchSpeed), width)
	PrintBarChart(w, "Hard hit rate (%)", BarSeries(res, model.MetricHardHitRate), width)
	PrintBarChart(w, "wOBA", BarSeries(res, model.MetricWOBA), width)
	PrintTrendLines(w, TrendLines(res))
	PrintRadar(w, res, 20)
}
