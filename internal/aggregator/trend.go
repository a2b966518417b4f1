package aggregator

import (
	"math"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// trendThreshold is the absolute Early→Late change treated as movement. It is
// shared by rate and count metrics alike.
const trendThreshold = 1.0

// ClassifyTrend labels the change from early to late.
func ClassifyTrend(early, late *float64) model.Trend {
	if early == nil || late == nil {
		return model.TrendInsufficientData
	}
	diff := *late - *early
	switch {
	case math.Abs(diff) < trendThreshold:
		return model.TrendStable
	case diff > 0:
		return model.TrendIncreasing
	default:
		return model.TrendDecreasing
	}
}
