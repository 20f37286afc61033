package engine

import (
	"sort"

	"github.com/warroom-labs/draftboard/internal/models"
)

// PlayerValue is one player's scored line: fantasy value, value over
// replacement, and the eligible position that maximized the VOR (which is
// also the scarcity lookup key).
type PlayerValue struct {
	Player   models.Player
	Value    float64
	VOR      float64
	Position string
}

// ComputeVOR derives replacement baselines per position from the available
// pool and scores every pooled player against them.
//
// The replacement index for a position starts at ReplacementDepth when set,
// otherwise RosterSlots[pos] × LeagueSize, and moves down one for every
// player already drafted at the position: the baseline tracks the same
// replacement-caliber player as the pool shrinks from the top, so it can
// rise but never fall across picks. The index is clamped to the
// lowest-ranked available player; a thin position never indexes outside its
// pool. Multi-position players take the best VOR across their eligible
// positions.
func ComputeVOR(pool, drafted []models.Player, values map[string]float64, settings models.LeagueSettings) ([]PlayerValue, map[string]float64) {
	valuesAt := make(map[string][]float64)
	for _, p := range pool {
		v, ok := values[p.ID]
		if !ok {
			continue
		}
		for _, pos := range p.Positions {
			valuesAt[pos] = append(valuesAt[pos], v)
		}
	}

	draftedAt := make(map[string]int)
	for _, p := range drafted {
		for _, pos := range p.Positions {
			draftedAt[pos]++
		}
	}

	baselines := make(map[string]float64, len(valuesAt))
	for pos, vals := range valuesAt {
		sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
		idx := settings.ReplacementDepth
		if idx <= 0 {
			idx = settings.RosterSlots[pos] * settings.LeagueSize
		}
		idx -= draftedAt[pos]
		if idx < 0 {
			idx = 0
		}
		if idx >= len(vals) {
			idx = len(vals) - 1
		}
		baselines[pos] = vals[idx]
	}

	out := make([]PlayerValue, 0, len(pool))
	for _, p := range pool {
		v, ok := values[p.ID]
		if !ok {
			continue
		}
		pv := PlayerValue{Player: p, Value: v}
		first := true
		for _, pos := range p.Positions {
			baseline, ok := baselines[pos]
			if !ok {
				continue
			}
			vor := v - baseline
			if first || vor > pv.VOR {
				pv.VOR = vor
				pv.Position = pos
				first = false
			}
		}
		if pv.Position == "" {
			continue
		}
		out = append(out, pv)
	}
	return out, baselines
}
