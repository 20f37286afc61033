package mocks

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/warroom-labs/draftboard/internal/logger"
)

// MockWarehouse stands in for the ClickHouse game-log reader in development.
// It serves static trailing-window rates with a little variance so repeated
// syncs look like fresh games landing.
type MockWarehouse struct {
	baseRates map[string]map[string]float64
}

// NewWarehouse creates the mock warehouse. Player ids match the canned NBA
// pool; id 99 has game logs but no pool entry, which exercises the sync skip
// path.
func NewWarehouse() *MockWarehouse {
	logger.Info("Using MOCK warehouse (static game logs)")

	return &MockWarehouse{
		baseRates: map[string]map[string]float64{
			"1":  {"pts": 27.5, "reb": 12.8, "ast": 9.4, "stl": 1.5, "blk": 0.8, "fg3m": 1.1, "tov": 2.8, "min": 34.0}, // Nikola Jokic
			"2":  {"pts": 34.5, "reb": 9.0, "ast": 10.1, "stl": 1.3, "blk": 0.4, "fg3m": 4.3, "tov": 4.1, "min": 37.0}, // Luka Doncic
			"3":  {"pts": 31.2, "reb": 5.7, "ast": 6.5, "stl": 2.1, "blk": 1.0, "fg3m": 1.4, "tov": 2.1, "min": 34.2},  // Shai Gilgeous-Alexander
			"6":  {"pts": 25.3, "reb": 11.2, "ast": 4.4, "stl": 1.3, "blk": 4.0, "fg3m": 2.1, "tov": 3.5, "min": 31.0}, // Victor Wembanyama
			"7":  {"pts": 18.3, "reb": 3.7, "ast": 10.1, "stl": 1.1, "blk": 0.6, "fg3m": 2.7, "tov": 2.4, "min": 31.5}, // Tyrese Haliburton
			"11": {"pts": 21.4, "reb": 4.2, "ast": 6.6, "stl": 0.9, "blk": 0.2, "fg3m": 2.6, "tov": 2.7, "min": 34.8},  // Damian Lillard
			"16": {"pts": 28.5, "reb": 4.8, "ast": 5.9, "stl": 2.2, "blk": 0.4, "fg3m": 3.2, "tov": 2.5, "min": 36.1},  // De'Aaron Fox
			"18": {"pts": 31.3, "reb": 3.9, "ast": 7.1, "stl": 0.9, "blk": 0.2, "fg3m": 2.9, "tov": 2.3, "min": 36.0},  // Jalen Brunson
			"20": {"pts": 19.1, "reb": 8.6, "ast": 2.8, "stl": 0.7, "blk": 2.6, "fg3m": 1.9, "tov": 1.8, "min": 30.5},  // Chet Holmgren
			"22": {"pts": 22.5, "reb": 8.9, "ast": 6.8, "stl": 1.4, "blk": 1.6, "fg3m": 1.9, "tov": 2.9, "min": 35.5},  // Scottie Barnes
			"26": {"pts": 22.4, "reb": 5.6, "ast": 4.1, "stl": 1.2, "blk": 0.4, "fg3m": 1.8, "tov": 2.2, "min": 33.0},  // Franz Wagner
			"27": {"pts": 26.1, "reb": 4.5, "ast": 8.2, "stl": 1.0, "blk": 0.5, "fg3m": 2.3, "tov": 3.3, "min": 34.5},  // Cade Cunningham
			"99": {"pts": 11.2, "reb": 3.1, "ast": 1.9, "stl": 0.5, "blk": 0.3, "fg3m": 1.2, "tov": 1.1, "min": 19.8},  // two-way callup, not in pool
		},
	}
}

// PlayerRecentRates returns one player's rates with slight variance.
func (m *MockWarehouse) PlayerRecentRates(ctx context.Context, playerID string, window int) (map[string]float64, error) {
	base, ok := m.baseRates[playerID]
	if !ok {
		return nil, fmt.Errorf("no game logs for player %s", playerID)
	}
	return jitter(base), nil
}

// RecentRates returns every player's rates with slight variance.
func (m *MockWarehouse) RecentRates(ctx context.Context, window int) (map[string]map[string]float64, error) {
	result := make(map[string]map[string]float64, len(m.baseRates))
	for id, base := range m.baseRates {
		result[id] = jitter(base)
	}
	return result, nil
}

// SyncRecentRates pushes the mock rates through updateFunc, skipping players
// the store rejects, same as the real client.
func (m *MockWarehouse) SyncRecentRates(ctx context.Context, window int, updateFunc func(playerID string, rates map[string]float64) error) error {
	all, err := m.RecentRates(ctx, window)
	if err != nil {
		return err
	}

	updated, skipped := 0, 0
	for playerID, rates := range all {
		if err := updateFunc(playerID, rates); err != nil {
			skipped++
			continue
		}
		updated++
	}

	logger.Debug("Mock warehouse: recent rates synced", "updated", updated, "skipped", skipped)
	return nil
}

// Close is a no-op for the mock.
func (m *MockWarehouse) Close() error {
	return nil
}

// jitter applies ±5% variance so repeated syncs drift like real box scores.
func jitter(base map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base))
	for name, rate := range base {
		v := rate * (0.95 + rand.Float64()*0.1)
		out[name] = math.Round(v*10) / 10
	}
	return out
}
