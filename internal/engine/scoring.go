package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/warroom-labs/draftboard/internal/models"
)

// ScoringStrategy converts the pool's stat snapshots into one scalar fantasy
// value per player id. The format selects the strategy; every strategy
// implements the same contract so no format branching leaks elsewhere.
type ScoringStrategy interface {
	Name() string
	Values(pool []models.StatSnapshot) map[string]float64
}

// NewStrategy selects the scoring strategy for the league format.
func NewStrategy(settings models.LeagueSettings) (ScoringStrategy, error) {
	switch settings.Format {
	case models.FormatPoints:
		if len(settings.ScoringWeights) == 0 {
			return nil, fmt.Errorf("config: points format requires scoring weights")
		}
		return &pointsStrategy{
			sport:       settings.Sport,
			weights:     settings.ScoringWeights,
			blendRecent: settings.BlendRecent,
		}, nil
	case models.FormatCategories, models.FormatRoto, models.FormatH2H:
		return &categoryStrategy{
			sport:      settings.Sport,
			categories: models.DefaultCategories(settings.Sport),
		}, nil
	}
	return nil, fmt.Errorf("config: unknown format %q", settings.Format)
}

// pointsStrategy scores Σ(stat × weight) over a blend of season and recent
// rates. The recent window gets the lighter share so current form is rewarded
// without overreacting to small samples.
type pointsStrategy struct {
	sport       models.Sport
	weights     map[string]float64
	blendRecent float64
}

func (s *pointsStrategy) Name() string { return "points" }

func (s *pointsStrategy) Values(pool []models.StatSnapshot) map[string]float64 {
	values := make(map[string]float64, len(pool))
	for _, snap := range pool {
		blended := blendRates(snap.SeasonAvg, snap.RecentAvg, s.blendRecent)
		values[snap.PlayerID] = pointsValue(s.sport, blended, s.weights)
	}
	return values
}

// categoryStrategy scores a rank composite: rank each scored category across
// the pool, average the ranks, and invert so higher is always better. Roto
// and h2h leagues score the same way.
type categoryStrategy struct {
	sport      models.Sport
	categories []string
}

func (s *categoryStrategy) Name() string { return "categories" }

func (s *categoryStrategy) Values(pool []models.StatSnapshot) map[string]float64 {
	n := len(pool)
	if n == 0 {
		return map[string]float64{}
	}

	rankSums := make(map[string]float64, n)
	for _, cat := range s.categories {
		type entry struct {
			id   string
			rate float64
		}
		ranked := make([]entry, 0, n)
		for _, snap := range pool {
			rate, ok := snap.SeasonAvg[cat]
			if !ok {
				continue
			}
			ranked = append(ranked, entry{id: snap.PlayerID, rate: rate})
		}

		lower := models.LowerIsBetter(cat)
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].rate != ranked[j].rate {
				if lower {
					return ranked[i].rate < ranked[j].rate
				}
				return ranked[i].rate > ranked[j].rate
			}
			return ranked[i].id < ranked[j].id
		})

		for i, e := range ranked {
			rankSums[e.id] += float64(i + 1)
		}
		// Players without the category (MLB hitters on pitching stats and
		// vice versa) rank just past the participants.
		worst := float64(len(ranked) + 1)
		for _, snap := range pool {
			if _, ok := snap.SeasonAvg[cat]; !ok {
				rankSums[snap.PlayerID] += worst
			}
		}
	}

	numCats := float64(len(s.categories))
	values := make(map[string]float64, n)
	for _, snap := range pool {
		avgRank := rankSums[snap.PlayerID] / numCats
		values[snap.PlayerID] = float64(n) - avgRank + 1
	}
	return values
}

// blendRates mixes season and recent rates, recent weighted by blendRecent.
// A stat with no recent sample keeps its season rate unblended; an empty
// recent window degrades to pure season scoring rather than dragging the
// value toward zero.
func blendRates(season, recent map[string]float64, blendRecent float64) map[string]float64 {
	out := make(map[string]float64, len(season))
	for name, rate := range season {
		if r, ok := recent[name]; ok {
			out[name] = rate*(1-blendRecent) + r*blendRecent
		} else {
			out[name] = rate
		}
	}
	return out
}

// pointsValue applies the weighted sum plus, for MLB, the standard
// threshold adjustments for the rate stats: +5 per .010 of batting average
// above .270, −2 per 0.50 of ERA above 3.50, −3 per 0.10 of WHIP above 1.20.
// A league that weights one of those stats directly opts out of its
// adjustment.
func pointsValue(sport models.Sport, stats, weights map[string]float64) float64 {
	// Summing in sorted key order keeps repeated passes bit-identical;
	// ranging the map directly would let float rounding vary run to run.
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	v := 0.0
	for _, name := range names {
		v += stats[name] * weights[name]
	}
	if sport == models.SportMLB {
		v += mlbRateAdjustments(stats, weights)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func mlbRateAdjustments(stats, weights map[string]float64) float64 {
	adj := 0.0
	if avg, ok := stats[models.StatBattingAvg]; ok {
		if _, weighted := weights[models.StatBattingAvg]; !weighted && avg > 0.270 {
			adj += 5.0 * ((avg - 0.270) / 0.010)
		}
	}
	if era, ok := stats[models.StatERA]; ok {
		if _, weighted := weights[models.StatERA]; !weighted && era > 3.50 {
			adj -= 2.0 * ((era - 3.50) / 0.50)
		}
	}
	if whip, ok := stats[models.StatWHIP]; ok {
		if _, weighted := weights[models.StatWHIP]; !weighted && whip > 1.20 {
			adj -= 3.0 * ((whip - 1.20) / 0.10)
		}
	}
	return adj
}
