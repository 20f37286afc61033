package engine

import "github.com/warroom-labs/draftboard/internal/models"

// DetectTrend compares a player's recent-window composite against the season
// baseline. The composite is the weighted fantasy-points rate under the given
// weights; a non-positive season composite yields STEADY because an undefined
// percent change must not read as a swing. The ±10% threshold is fixed
// (models.TrendThreshold).
func DetectTrend(sport models.Sport, snap models.StatSnapshot, weights map[string]float64) models.Trend {
	// No recent window at all is a degraded input, not a slump.
	if len(snap.RecentAvg) == 0 {
		return models.Trend{Direction: models.TrendSteady, DeltaPct: 0}
	}
	season := pointsValue(sport, snap.SeasonAvg, weights)
	if season <= 0 {
		return models.Trend{Direction: models.TrendSteady, DeltaPct: 0}
	}
	recent := pointsValue(sport, snap.RecentAvg, weights)
	delta := (recent - season) / season

	switch {
	case delta >= models.TrendThreshold:
		return models.Trend{Direction: models.TrendUp, DeltaPct: delta}
	case delta <= -models.TrendThreshold:
		return models.Trend{Direction: models.TrendDown, DeltaPct: delta}
	}
	return models.Trend{Direction: models.TrendSteady, DeltaPct: delta}
}

// trendRank orders trends for tie-breaking: UP before STEADY before DOWN.
func trendRank(d models.TrendDirection) int {
	switch d {
	case models.TrendUp:
		return 0
	case models.TrendSteady:
		return 1
	}
	return 2
}
