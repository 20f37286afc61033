package engine

import (
	"fmt"
	"sort"

	"github.com/warroom-labs/draftboard/internal/models"
)

// Engine turns stat snapshots and a draft state into a ranked board. It
// holds no draft state of its own; every recompute is a pure pass over its
// inputs, so two calls with the same inputs produce the same board.
type Engine struct {
	settings    models.LeagueSettings
	strategy    ScoringStrategy
	projections map[string]float64
}

// New applies defaults, validates the league settings, and picks the scoring
// strategy for the format. Bad settings fail here, before any computation.
func New(settings models.LeagueSettings) (*Engine, error) {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(settings)
	if err != nil {
		return nil, err
	}
	return &Engine{settings: settings, strategy: strategy}, nil
}

// Settings reports the effective settings after defaulting.
func (e *Engine) Settings() models.LeagueSettings { return e.settings }

// UseProjections supplies third-party projections keyed by player ID. When
// set and ProjectionWeight > 0, a player's fantasy value becomes a weighted
// blend of the computed value and the projection. Players missing from the
// map keep their computed value. Nil disables blending.
func (e *Engine) UseProjections(p map[string]float64) { e.projections = p }

// BoardOptions tunes one recompute. Top caps the top view (defaults to the
// league TopN); NeedFilter drops players that fill no open roster slot from
// the top view. Neither changes the full ranking.
type BoardOptions struct {
	Top        int
	NeedFilter bool
}

// Board runs the full pipeline: pool derivation, scoring, replacement
// baselines, scarcity tiers, per-player trends, and the adjusted-score
// ranking with sleeper flags. Drafted players never appear; pooled players
// without a snapshot are skipped.
func (e *Engine) Board(snapshots []models.StatSnapshot, state *models.DraftState, opts BoardOptions) models.Board {
	top := opts.Top
	if top <= 0 {
		top = e.settings.TopN
	}

	snapByID := make(map[string]models.StatSnapshot, len(snapshots))
	for _, s := range snapshots {
		snapByID[s.PlayerID] = s
	}

	drafted := state.DraftedIDs()
	pool := make([]models.Player, 0, len(state.AvailablePool))
	poolSnaps := make([]models.StatSnapshot, 0, len(state.AvailablePool))
	for _, p := range state.AvailablePool {
		if drafted[p.ID] {
			continue
		}
		snap, ok := snapByID[p.ID]
		if !ok {
			continue
		}
		pool = append(pool, p)
		poolSnaps = append(poolSnaps, snap)
	}

	values := e.strategy.Values(poolSnaps)
	e.blendProjections(values)

	playerValues, baselines := ComputeVOR(pool, state.Drafted, values, e.settings)
	scarcity := ScarcitySummary(pool, values, baselines)
	tierAt := make(map[string]models.ScarcityTier, len(scarcity))
	qualityAt := make(map[string]int, len(scarcity))
	for _, s := range scarcity {
		tierAt[s.Position] = s.Tier
		qualityAt[s.Position] = s.QualityCount
	}

	openSlots := state.OpenSlots()
	trendWeights := e.settings.TrendWeights()

	recs := make([]models.Recommendation, 0, len(playerValues))
	for _, pv := range playerValues {
		snap := snapByID[pv.Player.ID]
		trend := DetectTrend(e.settings.Sport, snap, trendWeights)
		tier := tierAt[pv.Position]
		recs = append(recs, models.Recommendation{
			Player:        pv.Player,
			FantasyValue:  pv.Value,
			VOR:           pv.VOR,
			AdjustedScore: pv.VOR + e.boost(tier),
			Trend:         trend,
			ScarcityTier:  tier,
			Position:      pv.Position,
			FillsNeed:     fillsNeed(e.settings.Sport, openSlots, pv.Player, len(state.UserRoster) == 0),
		})
	}

	// Raw VOR order defines the sleeper window before scarcity boosts move
	// anyone.
	vorRank := rankByVOR(recs)

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].AdjustedScore != recs[j].AdjustedScore {
			return recs[i].AdjustedScore > recs[j].AdjustedScore
		}
		ri, rj := trendRank(recs[i].Trend.Direction), trendRank(recs[j].Trend.Direction)
		if ri != rj {
			return ri < rj
		}
		return recs[i].Player.ID < recs[j].Player.ID
	})

	// The sleeper band is league policy: raw rank outside TopN, adjusted rank
	// within 2x TopN, whatever view size the caller asked for.
	n := e.settings.TopN
	for i := range recs {
		rec := &recs[i]
		if rec.Trend.Direction == models.TrendUp &&
			vorRank[rec.Player.ID] > n && i+1 <= 2*n {
			rec.Sleeper = true
		}
		rec.Rationale = e.rationale(rec, snapByID[rec.Player.ID], qualityAt[rec.Position], vorRank[rec.Player.ID])
	}

	topView := make([]models.Recommendation, 0, top)
	for _, rec := range recs {
		if opts.NeedFilter && !rec.FillsNeed {
			continue
		}
		topView = append(topView, rec)
		if len(topView) == top {
			break
		}
	}

	return models.Board{
		Recommendations: recs,
		Top:             topView,
		Scarcity:        scarcity,
		Round:           state.Round,
		Pick:            state.Pick,
	}
}

func (e *Engine) blendProjections(values map[string]float64) {
	w := e.settings.ProjectionWeight
	if len(e.projections) == 0 || w <= 0 {
		return
	}
	for id, v := range values {
		proj, ok := e.projections[id]
		if !ok {
			continue
		}
		values[id] = (1-w)*v + w*proj
	}
}

func (e *Engine) boost(tier models.ScarcityTier) float64 {
	switch tier {
	case models.TierScarce:
		return e.settings.ScarceBoost
	case models.TierDeep:
		return -e.settings.DeepPenalty
	default:
		return 0
	}
}

// fillsNeed reports whether any open roster slot can take the player. An
// empty roster config means the draft has no roster to fill, so nothing gets
// filtered.
func fillsNeed(sport models.Sport, openSlots map[string]int, p models.Player, noRoster bool) bool {
	if noRoster {
		return true
	}
	for slot := range openSlots {
		base := models.BaseSlot(slot)
		for _, pos := range p.Positions {
			if models.SlotAllows(sport, base, pos) {
				return true
			}
		}
	}
	return false
}

// rankByVOR assigns 1-based ranks by raw VOR descending, ties by player ID,
// mirroring the board's final tie order so the two rankings stay comparable.
func rankByVOR(recs []models.Recommendation) map[string]int {
	order := make([]int, len(recs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if recs[i].VOR != recs[j].VOR {
			return recs[i].VOR > recs[j].VOR
		}
		return recs[i].Player.ID < recs[j].Player.ID
	})
	ranks := make(map[string]int, len(recs))
	for rank, idx := range order {
		ranks[recs[idx].Player.ID] = rank + 1
	}
	return ranks
}

func (e *Engine) rationale(rec *models.Recommendation, snap models.StatSnapshot, quality, vorRank int) models.Rationale {
	r := models.Rationale{
		FantasyValue: rec.FantasyValue,
		VOR:          rec.VOR,
		TrendPct:     rec.Trend.DeltaPct,
		ScarcityTier: string(rec.ScarcityTier),
		Position:     rec.Position,
	}

	switch rec.Trend.Direction {
	case models.TrendUp:
		r.Notes = append(r.Notes, fmt.Sprintf("recent form +%.0f%% over season pace", rec.Trend.DeltaPct*100))
	case models.TrendDown:
		r.Notes = append(r.Notes, fmt.Sprintf("recent form %.0f%% off season pace", rec.Trend.DeltaPct*100))
	}

	if rec.ScarcityTier == models.TierScarce {
		r.Notes = append(r.Notes, fmt.Sprintf("only %d quality %s left on the board", quality, rec.Position))
	}
	if rec.Sleeper {
		r.Notes = append(r.Notes, fmt.Sprintf("sleeper: ranked %d on raw value but surging", vorRank))
	}
	if rec.FillsNeed {
		r.Notes = append(r.Notes, "fills an open roster slot")
	}
	if snap.HasLive() {
		if pts := pointsValue(e.settings.Sport, snap.Live, e.settings.TrendWeights()); pts != 0 {
			r.Notes = append(r.Notes, fmt.Sprintf("%.1f fantasy points in tonight's game so far", pts))
		}
	}
	r.Notes = append(r.Notes, e.specialistNotes(snap)...)
	return r
}

// specialistNotes surfaces category standouts that raw point totals bury.
func (e *Engine) specialistNotes(snap models.StatSnapshot) []string {
	var notes []string
	switch e.settings.Sport {
	case models.SportNBA:
		if snap.SeasonAvg[models.StatBlocks] >= 2.0 {
			notes = append(notes, fmt.Sprintf("elite rim protection (%.1f bpg)", snap.SeasonAvg[models.StatBlocks]))
		}
		if snap.SeasonAvg[models.StatSteals] >= 1.8 {
			notes = append(notes, fmt.Sprintf("elite perimeter defense (%.1f spg)", snap.SeasonAvg[models.StatSteals]))
		}
	case models.SportMLB:
		if avg := snap.RecentAvg[models.StatBattingAvg]; avg >= 0.350 {
			notes = append(notes, fmt.Sprintf("hot spring bat (.%03.0f)", avg*1000))
		}
	}
	return notes
}
