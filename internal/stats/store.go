// Package stats holds the most recently fetched stat records for the draft
// pool. One Store per process: HTTP handlers and MCP tools read snapshots
// from it, the refresh loops and the warehouse sync write to it.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warroom-labs/draftboard/internal/engine"
	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
	"github.com/warroom-labs/draftboard/internal/providers"
)

// Store caches season and live records between provider refreshes.
// Snapshots are rebuilt from the held records on every read, so a pick never
// observes a half-updated pool.
type Store struct {
	provider providers.StatProvider
	window   int

	mu          sync.RWMutex
	records     []models.SeasonRecord
	live        []models.LiveRecord
	refreshedAt time.Time
	liveAt      time.Time
}

// NewStore creates an empty store reading through the given provider.
// Window is the trailing-game count requested on each season refresh.
func NewStore(provider providers.StatProvider, window int) *Store {
	if window <= 0 {
		window = models.DefaultTrendWindow
	}
	return &Store{
		provider: provider,
		window:   window,
	}
}

// Sport returns the sport the underlying provider serves.
func (s *Store) Sport() models.Sport {
	return s.provider.Sport()
}

// Refresh replaces the held season records with a fresh fetch. On error the
// previous records stay in place so the board keeps serving stale data
// rather than none.
func (s *Store) Refresh(ctx context.Context) error {
	records, err := s.provider.SeasonRecords(ctx, s.window)
	if err != nil {
		return fmt.Errorf("failed to refresh season records: %w", err)
	}

	s.mu.Lock()
	s.records = records
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	logger.Info("Season records refreshed", "sport", s.provider.Sport(), "players", len(records))
	return nil
}

// RefreshLive replaces the held live deltas. A fetch error clears them:
// stale live lines are worse than none once games move on.
func (s *Store) RefreshLive(ctx context.Context) error {
	live, err := s.provider.LiveRecords(ctx)
	if err != nil {
		s.mu.Lock()
		s.live = nil
		s.mu.Unlock()
		return fmt.Errorf("failed to refresh live records: %w", err)
	}

	s.mu.Lock()
	s.live = live
	s.liveAt = time.Now()
	s.mu.Unlock()

	return nil
}

// Ready reports whether at least one season refresh has succeeded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.refreshedAt.IsZero()
}

// RefreshedAt returns the time of the last successful season refresh.
func (s *Store) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// PlayerCount returns the number of players in the held pool.
func (s *Store) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Players returns the draft pool built from the held records.
func (s *Store) Players() []models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]models.Player, 0, len(s.records))
	for _, rec := range s.records {
		players = append(players, rec.Player)
	}
	return players
}

// Snapshots builds normalized snapshots from the held records with live
// deltas attached. The pool is small, so a full rebuild per read is cheaper
// than keeping derived state consistent. The records are copied under the
// lock because the warehouse sync rewrites elements in place; the rate maps
// inside are only ever replaced, never mutated, so sharing them is safe.
func (s *Store) Snapshots() []models.StatSnapshot {
	s.mu.RLock()
	records := make([]models.SeasonRecord, len(s.records))
	copy(records, s.records)
	live := s.live
	s.mu.RUnlock()

	return engine.BuildSnapshots(s.provider.Sport(), records, live)
}

// Snapshot returns one player's identity and normalized snapshot.
func (s *Store) Snapshot(playerID string) (models.Player, models.StatSnapshot, bool) {
	s.mu.RLock()
	var match *models.SeasonRecord
	for i := range s.records {
		if s.records[i].Player.ID == playerID {
			match = &s.records[i]
			break
		}
	}
	if match == nil {
		s.mu.RUnlock()
		return models.Player{}, models.StatSnapshot{}, false
	}
	record := *match
	live := s.live
	s.mu.RUnlock()

	snaps := engine.BuildSnapshots(s.provider.Sport(), []models.SeasonRecord{record}, live)
	if len(snaps) == 0 {
		// Season stats were all unknown keys; the player is excluded.
		return record.Player, models.StatSnapshot{}, false
	}
	return record.Player, snaps[0], true
}

// SetRecentRates replaces one player's trailing-window rates. The warehouse
// sync feeds this; when enabled, warehouse aggregates are authoritative for
// the recent view. Unknown players are an error so the sync can count skips.
func (s *Store) SetRecentRates(playerID string, rates map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Player.ID == playerID {
			s.records[i].Recent = rates
			return nil
		}
	}
	return fmt.Errorf("player %s not in pool", playerID)
}
