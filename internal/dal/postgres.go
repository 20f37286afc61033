package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/warroom-labs/draftboard/internal/models"
)

// PostgresDAL implements SessionDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL session store optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG optimization: Configure connection pool settings
	// These settings are optimized for CloudNativePG high-availability clusters
	db.SetMaxOpenConns(25)                 // Limit max connections (CloudNativePG default max_connections is 100)
	db.SetMaxIdleConns(5)                  // Keep some idle connections for quick reuse
	db.SetConnMaxLifetime(5 * time.Minute) // Recycle connections to handle failovers gracefully
	db.SetConnMaxIdleTime(1 * time.Minute) // Close idle connections to reduce load

	// Test connection with retry logic for Kubernetes DNS resolution
	// Increased timeout to 60s to handle DNS propagation delays in Kubernetes
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		settings JSONB NOT NULL,
		pool JSONB NOT NULL,
		drafted JSONB NOT NULL DEFAULT '[]'::jsonb,
		roster JSONB NOT NULL DEFAULT '{}'::jsonb,
		round INTEGER NOT NULL DEFAULT 1,
		pick INTEGER NOT NULL DEFAULT 1,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to init sessions schema: %w", err)
	}
	return nil
}

func (p *PostgresDAL) CreateSession(settings models.LeagueSettings, pool []models.Player) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:       genID("sess"),
		Settings: settings,
		State: models.DraftState{
			AvailablePool: append([]models.Player(nil), pool...),
			UserRoster:    newRoster(settings.RosterSlots),
			Round:         1,
			Pick:          1,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.State.SessionID = sess.ID

	settingsJSON, err := json.Marshal(sess.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	poolJSON, draftedJSON, rosterJSON, err := encodeState(sess)
	if err != nil {
		return nil, err
	}

	_, err = p.db.Exec(`
		INSERT INTO sessions (id, settings, pool, drafted, roster, round, pick, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, sess.ID, string(settingsJSON), poolJSON, draftedJSON, rosterJSON,
		sess.State.Round, sess.State.Pick, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (p *PostgresDAL) GetSession(id string) (*Session, error) {
	row := p.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, err
}

func (p *PostgresDAL) ListSessions() ([]SessionInfo, error) {
	rows, err := p.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := []SessionInfo{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, sessionInfo(sess))
	}
	return infos, rows.Err()
}

func (p *PostgresDAL) RecordPick(sessionID, playerID, slot string) (*Session, error) {
	return p.update(sessionID, func(sess *Session) error {
		return applyPick(sess, playerID, slot)
	})
}

func (p *PostgresDAL) SetRoster(sessionID string, roster map[string]string) (*Session, error) {
	return p.update(sessionID, func(sess *Session) error {
		for slot := range roster {
			if !models.KnownSlot(sess.Settings.Sport, models.BaseSlot(slot)) {
				return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
			}
		}
		sess.State.UserRoster = make(map[string]string, len(roster))
		for slot, id := range roster {
			sess.State.UserRoster[slot] = id
		}
		return nil
	})
}

func (p *PostgresDAL) Reset(sessionID string) (*Session, error) {
	return p.update(sessionID, func(sess *Session) error {
		resetState(sess)
		return nil
	})
}

// update runs a read-modify-write transaction against one session row.
// FOR UPDATE keeps two concurrent picks from both draining the same player.
func (p *PostgresDAL) update(sessionID string, mutate func(*Session) error) (*Session, error) {
	tx, err := p.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, sessionID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}

	if err := mutate(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now()

	poolJSON, draftedJSON, rosterJSON, err := encodeState(sess)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE sessions SET pool = $1, drafted = $2, roster = $3, round = $4, pick = $5, updated_at = $6
		WHERE id = $7
	`, poolJSON, draftedJSON, rosterJSON, sess.State.Round, sess.State.Pick,
		sess.UpdatedAt.UnixMilli(), sess.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
