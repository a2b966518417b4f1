package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// lowSamplePA is the plate-appearance count under which a segment's rate
// metrics are flagged as noisy.
const lowSamplePA = 30

// metricRow describes one line of the segment table.
type metricRow struct {
	name   string
	label  string
	format string
}

var segmentRows = []metricRow{
	{model.MetricGames, "Games", "%.0f"},
	{model.MetricPlateAppearances, "PA", "%.0f"},
	{model.MetricAvgLaunchSpeed, "Avg launch speed (mph)", "%.2f"},
	{model.MetricAvgLaunchAngle, "Avg launch angle (°)", "%.2f"},
	{model.MetricHardHitRate, "Hard hit %", "%.2f%%"},
	{model.MetricWhiffRate, "Whiff %", "%.2f%%"},
	{model.MetricMaxHitDistance, "Max distance (ft)", "%.0f"},
	{model.MetricAvgPitcherSpin, "Avg pitcher spin (rpm)", "%.0f"},
	{model.MetricHomeRuns, "HR", "%.0f"},
	{model.MetricWalks, "BB", "%.0f"},
	{model.MetricStrikeouts, "K", "%.0f"},
	{model.MetricBBRate, "BB %", "%.2f%%"},
	{model.MetricKRate, "K %", "%.2f%%"},
	{model.MetricBABIP, "BABIP", "%.3f"},
	{model.MetricWOBA, "wOBA", "%.3f"},
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// fmtPtr formats v, or "—" when it is nil.
func fmtPtr(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

// sampleFlag returns "*" for segments with too few plate appearances.
func sampleFlag(pa int) string {
	if pa < lowSamplePA {
		return "*"
	}
	return ""
}

// PrintDiagnosisHeader prints the one-line heading of a diagnosis.
func PrintDiagnosisHeader(w io.Writer, res model.DiagnosisResult) {
	season := res.Season
	if season == "" {
		season = "custom range"
	}
	fmt.Fprintf(w, "\nPlayer: %s (%d)  |  Season: %s  |  Games analysed: %d\n\n",
		res.PlayerName, res.PlayerID, season, res.Summary.TotalGamesAnalyzed)
}

// PrintSegmentTable prints every metric across the Early, Mid and Late windows.
func PrintSegmentTable(w io.Writer, res model.DiagnosisResult) {
	table := newTable(w)
	segs := res.Segments.Ordered()
	table.Header("METRIC", "EARLY"+sampleFlag(segs[0].PlateAppearances), "MID"+sampleFlag(segs[1].PlateAppearances), "LATE"+sampleFlag(segs[2].PlateAppearances))

	for _, r := range segmentRows {
		row := []string{r.label}
		for i := range segs {
			v, _ := segs[i].Value(r.name)
			row = append(row, fmtPtr(v, r.format))
		}
		table.Append(toAny(row)...)
	}
	table.Render()

	for _, s := range segs {
		if s.PlateAppearances < lowSamplePA {
			fmt.Fprintf(w, "* fewer than %d plate appearances in a window; rates are noisy\n", lowSamplePA)
			break
		}
	}
}

// trendColor picks the display colour of a trend. For strikeout rate a rise is bad.
func trendColor(metric string, t model.Trend) *color.Color {
	good, bad := color.FgGreen, color.FgRed
	if metric == model.MetricKRate {
		good, bad = bad, good
	}
	switch t {
	case model.TrendIncreasing:
		return color.New(good)
	case model.TrendDecreasing:
		return color.New(bad)
	case model.TrendInsufficientData:
		return color.New(color.FgHiBlack)
	}
	return color.New(color.FgYellow)
}

// TrendArrow renders a trend as a short arrow label.
func TrendArrow(t model.Trend) string {
	switch t {
	case model.TrendIncreasing:
		return "▲ increasing"
	case model.TrendDecreasing:
		return "▼ decreasing"
	case model.TrendStable:
		return "► stable"
	}
	return "? insufficient data"
}

// PrintTrends prints the Early→Late trend of each tracked metric.
func PrintTrends(w io.Writer, res model.DiagnosisResult) {
	fmt.Fprintln(w, "\nTrends (early → late):")
	for _, m := range model.TrackedTrendMetrics {
		t, ok := res.Summary.Trends[m]
		if !ok {
			t = model.TrendInsufficientData
		}
		fmt.Fprintf(w, "  %-18s %s\n", m, trendColor(m, t).Sprint(TrendArrow(t)))
	}
}

// PrintDiagnosis prints header, segment table and trends.
func PrintDiagnosis(w io.Writer, res model.DiagnosisResult) {
	PrintDiagnosisHeader(w, res)
	PrintSegmentTable(w, res)
	PrintTrends(w, res)
}

// PrintGameLog prints one row per game date.
func PrintGameLog(w io.Writer, games []model.SegmentMetrics) {
	table := newTable(w)
	table.Header("DATE", "PA", "AVG_LS", "HH%", "WHIFF%", "MAX_DIST", "HR", "BB", "K", "wOBA")
	for _, g := range games {
		table.Append(
			g.Segment,
			strconv.Itoa(g.PlateAppearances),
			fmtPtr(g.AvgLaunchSpeed, "%.1f"),
			fmtPtr(g.HardHitRate, "%.0f%%"),
			fmtPtr(g.WhiffRate, "%.0f%%"),
			fmtPtr(g.MaxHitDistance, "%.0f"),
			strconv.Itoa(g.HomeRuns),
			strconv.Itoa(g.Walks),
			strconv.Itoa(g.Strikeouts),
			fmtPtr(g.WOBA, "%.3f"),
		)
	}
	table.Render()
}

// PrintCompare prints several diagnoses side by side, Early → Late for the
// headline metrics.
func PrintCompare(w io.Writer, results []model.DiagnosisResult) {
	table := newTable(w)
	table.Header("PLAYER", "GAMES", "LS EARLY", "LS LATE", "HH% EARLY", "HH% LATE", "K% EARLY", "K% LATE", "wOBA EARLY", "wOBA LATE")
	for _, r := range results {
		e, l := r.Segments.Early, r.Segments.Late
		table.Append(
			r.PlayerName,
			strconv.Itoa(r.Summary.TotalGamesAnalyzed),
			fmtPtr(e.AvgLaunchSpeed, "%.1f"),
			fmtPtr(l.AvgLaunchSpeed, "%.1f"),
			fmtPtr(e.HardHitRate, "%.1f"),
			fmtPtr(l.HardHitRate, "%.1f"),
			fmtPtr(e.KRate, "%.1f"),
			fmtPtr(l.KRate, "%.1f"),
			fmtPtr(e.WOBA, "%.3f"),
			fmtPtr(l.WOBA, "%.3f"),
		)
	}
	table.Render()
}

// PrintMoments prints a game's final line and its key moments.
func PrintMoments(w io.Writer, moments []model.KeyMoment, meta model.GameMetadata) {
	fmt.Fprintf(w, "\nGame %d  |  %s  |  %s %d @ %s %d  |  %s\n\n",
		meta.GamePK, meta.GameDate, meta.AwayTeam, meta.AwayScore, meta.HomeTeam, meta.HomeScore, meta.Result)
	if len(moments) == 0 {
		fmt.Fprintln(w, "No key moments found for this game.")
		return
	}

	table := newTable(w)
	table.Header("INN", "OUTS", "SCORE", "BATTER", "EVENT", "PITCH", "VELO", "EV", "LA", "DIST", "ΔRE")
	for _, m := range moments {
		table.Append(
			fmt.Sprintf("%s %d", m.InningTopBot, m.Inning),
			strconv.Itoa(m.Outs),
			fmt.Sprintf("%d-%d", m.AwayScore, m.HomeScore),
			m.Batter,
			m.Event,
			m.Metrics.PitchType,
			fmtPtr(m.Metrics.ReleaseSpeed, "%.1f"),
			fmtPtr(m.Metrics.LaunchSpeed, "%.1f"),
			fmtPtr(m.Metrics.LaunchAngle, "%.0f"),
			fmtPtr(m.Metrics.HitDistance, "%.0f"),
			fmt.Sprintf("%.3f", m.Importance),
		)
	}
	table.Render()
	for i, m := range moments {
		if m.Description != "" {
			fmt.Fprintf(w, "%d. %s\n", i+1, m.Description)
		}
	}
}

// PrintBatters lists the batters that appeared in a game.
func PrintBatters(w io.Writer, ids []int64, names map[int64]string) {
	table := newTable(w)
	table.Header("BATTER ID", "NAME")
	for _, id := range ids {
		name := names[id]
		if name == "" {
			name = "—"
		}
		table.Append(strconv.FormatInt(id, 10), name)
	}
	table.Render()
}

// PrintProfile prints a batter's pitch mix today and recently.
func PrintProfile(w io.Writer, p model.BatterProfile) {
	fmt.Fprintf(w, "\nBatter: %s\n", p.Batter)
	fmt.Fprintf(w, "Outcomes today: %s\n", orDash(strings.Join(p.TodayOutcomes, ", ")))
	fmt.Fprintf(w, "Recent AVG: %s  |  HR: %d  |  K: %d\n\n", fmtPtr(p.RecentAvg, "%.3f"), p.HistHomeRuns, p.HistStrikeouts)

	types := make(map[string]struct{})
	for k := range p.TodayPitchCounts {
		types[k] = struct{}{}
	}
	for k := range p.HistPitchCounts {
		types[k] = struct{}{}
	}
	table := newTable(w)
	table.Header("PITCH", "TODAY", "RECENT")
	for _, k := range sortedKeys(types) {
		table.Append(k, strconv.Itoa(p.TodayPitchCounts[k]), strconv.Itoa(p.HistPitchCounts[k]))
	}
	table.Render()
}

// PrintDiagnosisList prints saved diagnoses, newest first.
func PrintDiagnosisList(w io.Writer, recs []model.DiagnosisRecord) {
	table := newTable(w)
	table.Header("ID", "PLAYER", "SEASON", "RANGE", "GAMES", "LS", "HH%", "K%", "SAVED")
	for _, r := range recs {
		t := r.Result.Summary.Trends
		table.Append(
			shortID(r.ID),
			r.PlayerName,
			orDash(r.Season),
			r.StartDate+" → "+r.EndDate,
			strconv.Itoa(r.Result.Summary.TotalGamesAnalyzed),
			string(t[model.MetricAvgLaunchSpeed]),
			string(t[model.MetricHardHitRate]),
			string(t[model.MetricKRate]),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}

// PrintPlayers prints cached players with their event coverage.
func PrintPlayers(w io.Writer, players []model.PlayerSummary) {
	table := newTable(w)
	table.Header("ID", "NAME", "GAMES", "EVENTS", "FIRST", "LAST")
	for _, p := range players {
		table.Append(
			strconv.FormatInt(p.Player.ID, 10),
			p.Player.Name(),
			strconv.Itoa(p.Games),
			strconv.Itoa(p.Events),
			orDash(p.FirstDate),
			orDash(p.LastDate),
		)
	}
	table.Render()
}

// PrintRows prints an arbitrary result set, as returned by a raw query.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
