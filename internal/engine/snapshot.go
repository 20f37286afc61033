package engine

import (
	"sort"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
)

// BuildSnapshots normalizes raw season and live records into one StatSnapshot
// per player present in the season data. Live-only players are dropped: the
// board only ranks players with an established baseline. Stat keys outside
// the sport's schema are dropped here and logged once per build rather than
// propagated into rankings. Players with no season stats at all are excluded
// (a data-quality condition, not a fatal error).
func BuildSnapshots(sport models.Sport, season []models.SeasonRecord, live []models.LiveRecord) []models.StatSnapshot {
	liveByID := make(map[string]map[string]float64, len(live))
	for _, rec := range live {
		if len(rec.Deltas) > 0 {
			liveByID[rec.PlayerID] = rec.Deltas
		}
	}

	unknown := make(map[string]bool)
	excluded := 0

	snapshots := make([]models.StatSnapshot, 0, len(season))
	for _, rec := range season {
		seasonAvg := filterKnown(sport, rec.Season, unknown)
		if len(seasonAvg) == 0 {
			excluded++
			continue
		}
		recentAvg := filterKnown(sport, rec.Recent, unknown)

		// Every recent key must exist in the season view; a season rate the
		// provider omitted defaults to 0 instead of failing the merge.
		for name := range recentAvg {
			if _, ok := seasonAvg[name]; !ok {
				seasonAvg[name] = 0
			}
		}

		snap := models.StatSnapshot{
			PlayerID:    rec.Player.ID,
			SeasonAvg:   seasonAvg,
			RecentAvg:   recentAvg,
			GamesPlayed: rec.GamesPlayed,
		}
		if deltas, ok := liveByID[rec.Player.ID]; ok {
			snap.Live = filterKnown(sport, deltas, unknown)
		}
		snapshots = append(snapshots, snap)
	}

	if len(unknown) > 0 {
		keys := make([]string, 0, len(unknown))
		for k := range unknown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Warn("Dropped stat keys outside the sport schema", "sport", sport, "keys", keys)
	}
	if excluded > 0 {
		logger.Info("Excluded players without season stats", "count", excluded)
	}

	return snapshots
}

// AttachLive returns a copy of snapshots with live deltas merged in. The
// originals are untouched; rankings recompute from fresh inputs every pass.
func AttachLive(sport models.Sport, snapshots []models.StatSnapshot, live []models.LiveRecord) []models.StatSnapshot {
	if len(live) == 0 {
		return snapshots
	}
	liveByID := make(map[string]map[string]float64, len(live))
	for _, rec := range live {
		if len(rec.Deltas) > 0 {
			liveByID[rec.PlayerID] = rec.Deltas
		}
	}
	out := make([]models.StatSnapshot, len(snapshots))
	copy(out, snapshots)
	unknown := make(map[string]bool)
	for i := range out {
		if deltas, ok := liveByID[out[i].PlayerID]; ok {
			out[i].Live = filterKnown(sport, deltas, unknown)
		}
	}
	return out
}

// filterKnown copies the stats that belong to the sport's schema, recording
// rejected keys in unknown.
func filterKnown(sport models.Sport, stats map[string]float64, unknown map[string]bool) map[string]float64 {
	if len(stats) == 0 {
		return nil
	}
	out := make(map[string]float64, len(stats))
	for name, rate := range stats {
		if !models.KnownStat(sport, name) {
			unknown[name] = true
			continue
		}
		out[name] = rate
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
