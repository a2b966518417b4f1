package aggregator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// BuildDiagnosis assembles three segment aggregates into a DiagnosisResult.
// total_games_analyzed sums the window game counts, so a date shared by two
// windows is counted twice.
func BuildDiagnosis(player model.Player, season string, early, mid, late model.SegmentMetrics) model.DiagnosisResult {
	trends := make(map[string]model.Trend, len(model.TrackedTrendMetrics))
	for _, name := range model.TrackedTrendMetrics {
		e, _ := early.Value(name)
		l, _ := late.Value(name)
		trends[name] = ClassifyTrend(e, l)
	}
	return model.DiagnosisResult{
		PlayerName: player.Name(),
		PlayerID:   player.ID,
		Season:     season,
		Segments: model.Segments{
			Early: early,
			Mid:   mid,
			Late:  late,
		},
		Summary: model.DiagnosisSummary{
			TotalGamesAnalyzed: early.Games + mid.Games + late.Games,
			Trends:             trends,
		},
	}
}

// Diagnose slices a season of events, aggregates the three windows and
// assembles the result. An *InsufficientSampleError from the slicer is
// returned unwrapped.
func Diagnose(ctx context.Context, player model.Player, season string, events []model.EventRecord) (model.DiagnosisResult, error) {
	w, err := SliceByGameIndex(events)
	if err != nil {
		return model.DiagnosisResult{}, err
	}

	var early, mid, late model.SegmentMetrics
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range []struct {
		events []model.EventRecord
		label  string
		dst    *model.SegmentMetrics
	}{
		{w.Early, model.SegmentEarly, &early},
		{w.Mid, model.SegmentMid, &mid},
		{w.Late, model.SegmentLate, &late},
	} {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*job.dst = AggregateSegment(job.events, job.label)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.DiagnosisResult{}, err
	}

	return BuildDiagnosis(player, season, early, mid, late), nil
}
