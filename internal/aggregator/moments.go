package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// DefaultKeyMoments is the number of moments a recap is built from.
const DefaultKeyMoments = 5

// ExtractKeyMoments picks the topN highest-leverage plays of a single game,
// ranked by |delta_run_exp| and returned in at-bat order. Metadata is empty
// when the game has no terminal plays.
func ExtractKeyMoments(events []model.EventRecord, topN int) ([]model.KeyMoment, model.GameMetadata) {
	if topN <= 0 {
		topN = DefaultKeyMoments
	}

	var plays []model.EventRecord
	for i := range events {
		if events[i].IsTerminal() {
			plays = append(plays, events[i])
		}
	}
	if len(plays) == 0 {
		return nil, model.GameMetadata{}
	}

	importance := func(e *model.EventRecord) float64 {
		if e.DeltaRunExp == nil {
			return 0
		}
		return math.Abs(*e.DeltaRunExp)
	}
	sort.SliceStable(plays, func(i, j int) bool {
		return importance(&plays[i]) > importance(&plays[j])
	})
	if len(plays) > topN {
		plays = plays[:topN]
	}
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].AtBatNumber < plays[j].AtBatNumber
	})

	moments := make([]model.KeyMoment, len(plays))
	for i := range plays {
		p := &plays[i]
		batter := p.PlayerName
		if batter == "" {
			batter = formatID(p.Batter)
		}
		moments[i] = model.KeyMoment{
			GameDate:     p.DateKey(),
			Inning:       p.Inning,
			InningTopBot: p.InningTopBot,
			Outs:         p.OutsWhenUp,
			HomeScore:    p.HomeScore,
			AwayScore:    p.AwayScore,
			Batter:       batter,
			Pitcher:      p.Pitcher,
			Event:        p.EventType,
			Description:  p.PlayDescription,
			AtBatNumber:  p.AtBatNumber,
			Importance:   Round(importance(p), 3),
			Metrics: model.MomentMetrics{
				ReleaseSpeed: p.ReleaseSpeed,
				PitchType:    p.PitchType,
				LaunchSpeed:  p.LaunchSpeed,
				LaunchAngle:  p.LaunchAngle,
				HitDistance:  p.HitDistance,
			},
		}
	}

	return moments, gameMetadata(events)
}

// gameMetadata reports the final score as the maximum of each score column.
func gameMetadata(events []model.EventRecord) model.GameMetadata {
	first := &events[0]
	md := model.GameMetadata{
		GamePK:   first.GamePK,
		GameDate: first.DateKey(),
		HomeTeam: first.HomeTeam,
		AwayTeam: first.AwayTeam,
	}
	if md.HomeTeam == "" {
		md.HomeTeam = "Home"
	}
	if md.AwayTeam == "" {
		md.AwayTeam = "Away"
	}
	for i := range events {
		if events[i].HomeScore > md.HomeScore {
			md.HomeScore = events[i].HomeScore
		}
		if events[i].AwayScore > md.AwayScore {
			md.AwayScore = events[i].AwayScore
		}
	}
	switch {
	case md.HomeScore > md.AwayScore:
		md.Result = md.HomeTeam + " wins"
	case md.AwayScore > md.HomeScore:
		md.Result = md.AwayTeam + " wins"
	default:
		md.Result = "Tie"
	}
	return md
}
