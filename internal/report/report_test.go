package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

func init() {
	color.NoColor = true
}

func f64(v float64) *float64 { return &v }

func sampleResult() model.DiagnosisResult {
	return model.DiagnosisResult{
		PlayerName: "Shohei Ohtani",
		PlayerID:   660271,
		Season:     "2024",
		Segments: model.Segments{
			Early: model.SegmentMetrics{
				Segment: model.SegmentEarly, Games: 10, PlateAppearances: 44,
				AvgLaunchSpeed: f64(90), HardHitRate: f64(40), WhiffRate: f64(20),
				BBRate: f64(7.5), KRate: f64(22.5), MaxHitDistance: f64(420), WOBA: f64(0.35), HomeRuns: 2,
			},
			Mid: model.SegmentMetrics{
				Segment: model.SegmentMid, Games: 10, PlateAppearances: 12,
				AvgLaunchSpeed: f64(92), HardHitRate: f64(50),
			},
			Late: model.SegmentMetrics{
				Segment: model.SegmentLate, Games: 10, PlateAppearances: 45,
				AvgLaunchSpeed: f64(93.5), HardHitRate: f64(30), WhiffRate: f64(25), WOBA: f64(0.41), HomeRuns: 4,
			},
		},
		Summary: model.DiagnosisSummary{
			TotalGamesAnalyzed: 30,
			Trends: map[string]model.Trend{
				model.MetricAvgLaunchSpeed: model.TrendIncreasing,
				model.MetricHardHitRate:    model.TrendDecreasing,
				model.MetricKRate:          model.TrendInsufficientData,
			},
		},
	}
}

func TestPrintDiagnosis(t *testing.T) {
	var buf bytes.Buffer
	PrintDiagnosis(&buf, sampleResult())
	out := buf.String()
	for _, want := range []string{"Shohei Ohtani (660271)", "Games analysed: 30", "MID*", "Avg launch speed (mph)", "93.50", "0.410", "—", "▲ increasing", "▼ decreasing", "? insufficient data", "fewer than 30 plate appearances"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPrintMomentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintMoments(&buf, nil, model.GameMetadata{GamePK: 1, HomeTeam: "NYY", AwayTeam: "SF", Result: "Tie"})
	if !strings.Contains(buf.String(), "No key moments found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintDiagnosisList(t *testing.T) {
	var buf bytes.Buffer
	PrintDiagnosisList(&buf, []model.DiagnosisRecord{{
		ID: "0123456789abcdef", PlayerName: "Shohei Ohtani", Season: "2024",
		StartDate: "2024-03-28", EndDate: "2024-09-30",
		CreatedAt: time.Date(2024, 10, 1, 12, 30, 0, 0, time.UTC),
		Result:    sampleResult(),
	}})
	out := buf.String()
	for _, want := range []string{"01234567", "2024-03-28 → 2024-09-30", "increasing", "2024-10-01 12:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "89abcdef") {
		t.Error("id should be shortened")
	}
}

func TestBarSeries(t *testing.T) {
	got := BarSeries(sampleResult(), model.MetricWOBA)
	want := []BarPoint{{"Early", 0.35}, {"Mid", 0}, {"Late", 0.41}}
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTrendLines(t *testing.T) {
	lines := TrendLines(sampleResult())
	if len(lines) != 3 {
		t.Fatalf("len = %d", len(lines))
	}
	hh := lines[1]
	if hh.Metric != model.MetricHardHitRate || hh.Values != [3]float64{80, 100, 60} {
		t.Errorf("hard hit line = %+v", hh)
	}
	// Mid whiff is nil and plots as 0; max is Late.
	if lines[2].Values[1] != 0 || lines[2].Values[2] != 100 {
		t.Errorf("whiff line = %+v", lines[2])
	}

	empty := TrendLines(model.DiagnosisResult{})
	for _, l := range empty {
		if l.Values != [3]float64{} {
			t.Errorf("empty line %s = %v", l.Metric, l.Values)
		}
	}
}

func TestRadarScores(t *testing.T) {
	got := RadarScores(sampleResult().Segments.Early)
	want := []float64{50, 50, 50, 50, 70}
	for i, a := range got {
		if a.Score != want[i] {
			t.Errorf("%s = %v, want %v", a.Name, a.Score, want[i])
		}
	}

	clamped := RadarScores(model.SegmentMetrics{AvgLaunchSpeed: f64(120), KRate: f64(5)})
	if clamped[0].Score != 100 || clamped[3].Score != 100 {
		t.Errorf("clamp: %+v", clamped)
	}
	// Nil on every axis scores 50, including the inverted K axis.
	for _, a := range RadarScores(model.SegmentMetrics{}) {
		if a.Score != 50 {
			t.Errorf("%s = %v, want 50", a.Name, a.Score)
		}
	}
}

func TestPrintCharts(t *testing.T) {
	var buf bytes.Buffer
	PrintCharts(&buf, sampleResult())
	out := buf.String()
	for _, want := range []string{"Hard hit rate (%)", "██", "Normalized trend", "Skill profile", "K avoidance"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSpeedChangeAndFatigue(t *testing.T) {
	tests := []struct {
		early, late *float64
		speed       string
		fatigue     string
	}{
		{f64(90), f64(93.5), "Launch speed up 3.5 mph ⬆️", ""},
		{f64(90), f64(88), "Launch speed down 2.0 mph ⬇️", ""},
		{f64(90), f64(90.5), "Launch speed holding steady ➡️", ""},
		{f64(40), f64(30), "Launch speed down 10.0 mph ⬇️", "⚠️ Possible late-season fatigue"},
		{f64(30), f64(40), "Launch speed up 10.0 mph ⬆️", "💪 Late-season surge"},
		{nil, f64(40), "", ""},
	}
	for _, tt := range tests {
		if got := SpeedChange(tt.early, tt.late); got != tt.speed {
			t.Errorf("SpeedChange = %q, want %q", got, tt.speed)
		}
		if got := FatigueIndicator(tt.early, tt.late); got != tt.fatigue {
			t.Errorf("FatigueIndicator = %q, want %q", got, tt.fatigue)
		}
	}
}

func TestQuickSummary(t *testing.T) {
	md := QuickSummary(sampleResult())
	for _, want := range []string{
		"Shohei Ohtani quick summary",
		"**Games analysed**: 30",
		"Launch speed trend: rising",
		"Hard hit trend: falling",
		"Strikeout rate trend: not enough data",
		"Launch speed up 3.5 mph",
		"Possible late-season fatigue",
		"| Avg launch speed | 90 mph | 93.5 mph |",
		"| Hard hit % | 40% | 30% |",
		"| wOBA | 0.35 | 0.41 |",
		"| Home runs | 2 | 4 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q", want)
		}
	}

	res := sampleResult()
	res.Segments.Early = model.SegmentMetrics{}
	md = QuickSummary(res)
	if !strings.Contains(md, "| Avg launch speed | N/A |") || !strings.Contains(md, "- Performance steady") {
		t.Errorf("nil early window summary:\n%s", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Title\n\nSome *text*.", "notty")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "text") {
		t.Errorf("rendered = %q", out)
	}
}
