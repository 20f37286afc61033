// Package warehouse reads per-player trailing-game averages from a
// ClickHouse game-log mirror. It is an alternative recent-window source for
// deployments that land box scores in the warehouse faster than the public
// stat APIs expose them.
package warehouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/warroom-labs/draftboard/internal/logger"
)

// statColumns are the game_logs columns aggregated into recent rates, in
// select order. Names double as the stat keys handed to the engine.
var statColumns = []string{"pts", "reb", "ast", "stl", "blk", "fg3m", "tov", "fg_pct", "ft_pct", "min"}

// Client wraps a ClickHouse connection to the game_logs table.
type Client struct {
	conn driver.Conn
}

// NewClient connects to ClickHouse and verifies the connection.
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// PlayerRecentRates returns one player's per-game averages over their most
// recent window games.
func (c *Client) PlayerRecentRates(ctx context.Context, playerID string, window int) (map[string]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	// LIMIT BY keeps the newest window rows per player before aggregating.
	// The 60-day guard bounds the scan; a trailing window never reaches
	// further back than that.
	query := fmt.Sprintf(`
		SELECT
			avg(pts), avg(reb), avg(ast), avg(stl), avg(blk),
			avg(fg3m), avg(tov), avg(fg_pct), avg(ft_pct), avg(min)
		FROM (
			SELECT *
			FROM game_logs
			WHERE player_id = $1
			AND game_date >= today() - INTERVAL 60 DAY
			ORDER BY game_date DESC
			LIMIT %d
		)
	`, window)

	values := make([]float64, len(statColumns))
	dest := make([]interface{}, len(statColumns))
	for i := range values {
		dest[i] = &values[i]
	}

	row := c.conn.QueryRow(ctx, query, playerID)
	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to read recent rates for %s: %w", playerID, err)
	}

	rates := make(map[string]float64, len(statColumns))
	for i, name := range statColumns {
		rates[name] = values[i]
	}
	return rates, nil
}

// RecentRates returns trailing-window per-game averages for every player
// with game logs in the last 60 days, in one aggregate query.
func (c *Client) RecentRates(ctx context.Context, window int) (map[string]map[string]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	query := fmt.Sprintf(`
		SELECT
			player_id,
			avg(pts), avg(reb), avg(ast), avg(stl), avg(blk),
			avg(fg3m), avg(tov), avg(fg_pct), avg(ft_pct), avg(min)
		FROM (
			SELECT *
			FROM game_logs
			WHERE game_date >= today() - INTERVAL 60 DAY
			ORDER BY player_id, game_date DESC
			LIMIT %d BY player_id
		)
		GROUP BY player_id
	`, window)

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent rates: %w", err)
	}
	defer rows.Close()

	all := make(map[string]map[string]float64)
	for rows.Next() {
		var id string
		values := make([]float64, len(statColumns))
		dest := make([]interface{}, 0, len(statColumns)+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan recent rates row: %w", err)
		}

		rates := make(map[string]float64, len(statColumns))
		for i, name := range statColumns {
			rates[name] = values[i]
		}
		all[id] = rates
	}

	return all, nil
}

// SyncRecentRates pushes warehouse aggregates into the caller's store via
// updateFunc. Players the store rejects (outside the draft pool; the
// warehouse holds the whole league) are skipped, not fatal. Called
// periodically from the sync loop in main.
func (c *Client) SyncRecentRates(ctx context.Context, window int, updateFunc func(playerID string, rates map[string]float64) error) error {
	all, err := c.RecentRates(ctx, window)
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

	logger.Debug("warehouse: recent rates synced", "updated", updated, "skipped", skipped)
	return nil
}

// Close closes the ClickHouse connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
