package engine

import (
	"sort"

	"github.com/warroom-labs/draftboard/internal/models"
)

// Quality tiering cutoffs: a position with five or fewer above-replacement
// players is SCARCE, six through ten is OK, more is DEEP. Fixed constants,
// recomputed fresh from the current pool on every call.
const (
	scarceMax = 5
	okMax     = 10
)

// tierFor maps a quality count to its scarcity tier.
func tierFor(qualityCount int) models.ScarcityTier {
	switch {
	case qualityCount <= scarceMax:
		return models.TierScarce
	case qualityCount <= okMax:
		return models.TierOK
	}
	return models.TierDeep
}

// ScarcitySummary counts, per position, the available players whose value
// beats that position's replacement baseline (VOR > 0) and tiers the result.
// Positions come out sorted for deterministic output.
func ScarcitySummary(pool []models.Player, values map[string]float64, baselines map[string]float64) []models.PositionScarcity {
	counts := make(map[string]int, len(baselines))
	for pos := range baselines {
		counts[pos] = 0
	}
	for _, p := range pool {
		v, ok := values[p.ID]
		if !ok {
			continue
		}
		for _, pos := range p.Positions {
			baseline, ok := baselines[pos]
			if !ok {
				continue
			}
			if v-baseline > 0 {
				counts[pos]++
			}
		}
	}

	positions := make([]string, 0, len(counts))
	for pos := range counts {
		positions = append(positions, pos)
	}
	sort.Strings(positions)

	out := make([]models.PositionScarcity, 0, len(positions))
	for _, pos := range positions {
		out = append(out, models.PositionScarcity{
			Position:     pos,
			QualityCount: counts[pos],
			Tier:         tierFor(counts[pos]),
		})
	}
	return out
}
