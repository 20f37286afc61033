package dal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warroom-labs/draftboard/internal/models"
)

// SQLiteDAL implements SessionDAL using SQLite. Draft state is stored as
// JSON in TEXT columns; SQLite serializes writers so picks never interleave.
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite session store at dbPath.
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	dal := &SQLiteDAL{db: db}
	if err := dal.initSchema(); err != nil {
		return nil, err
	}
	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		settings TEXT NOT NULL,
		pool TEXT NOT NULL,
		drafted TEXT NOT NULL DEFAULT '[]',
		roster TEXT NOT NULL DEFAULT '{}',
		round INTEGER NOT NULL DEFAULT 1,
		pick INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Add roster column to existing databases (migration)
	// SQLite doesn't support IF NOT EXISTS for ALTER TABLE, so we check first
	var rosterExists int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('sessions')
		WHERE name='roster'
	`).Scan(&rosterExists)
	if err != nil {
		return fmt.Errorf("failed to check roster column existence: %w", err)
	}

	if rosterExists == 0 {
		_, err = s.db.Exec(`ALTER TABLE sessions ADD COLUMN roster TEXT NOT NULL DEFAULT '{}'`)
		if err != nil {
			return fmt.Errorf("failed to add roster column: %w", err)
		}
	}

	return nil
}

const sessionColumns = `id, settings, pool, drafted, roster, round, pick, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess         Session
		settingsJSON string
		poolJSON     string
		draftedJSON  string
		rosterJSON   string
		createdAt    int64
		updatedAt    int64
	)
	err := row.Scan(&sess.ID, &settingsJSON, &poolJSON, &draftedJSON, &rosterJSON,
		&sess.State.Round, &sess.State.Pick, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(settingsJSON), &sess.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode session settings: %w", err)
	}
	if err := json.Unmarshal([]byte(poolJSON), &sess.State.AvailablePool); err != nil {
		return nil, fmt.Errorf("failed to decode session pool: %w", err)
	}
	if err := json.Unmarshal([]byte(draftedJSON), &sess.State.Drafted); err != nil {
		return nil, fmt.Errorf("failed to decode drafted players: %w", err)
	}
	if err := json.Unmarshal([]byte(rosterJSON), &sess.State.UserRoster); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	sess.State.SessionID = sess.ID
	sess.CreatedAt = time.UnixMilli(createdAt)
	sess.UpdatedAt = time.UnixMilli(updatedAt)
	return &sess, nil
}

func encodeState(sess *Session) (pool, drafted, roster string, err error) {
	poolJSON, err := json.Marshal(sess.State.AvailablePool)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal pool: %w", err)
	}
	draftedJSON, err := json.Marshal(sess.State.Drafted)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal drafted players: %w", err)
	}
	rosterJSON, err := json.Marshal(sess.State.UserRoster)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to marshal roster: %w", err)
	}
	return string(poolJSON), string(draftedJSON), string(rosterJSON), nil
}

func (s *SQLiteDAL) CreateSession(settings models.LeagueSettings, pool []models.Player) (*Session, error) {
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

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, settings, pool, drafted, roster, round, pick, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sess.ID, string(settingsJSON), poolJSON, draftedJSON, rosterJSON,
		sess.State.Round, sess.State.Pick, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *SQLiteDAL) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, err
}

func (s *SQLiteDAL) ListSessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at ASC, id ASC`)
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

func (s *SQLiteDAL) RecordPick(sessionID, playerID, slot string) (*Session, error) {
	return s.update(sessionID, func(sess *Session) error {
		return applyPick(sess, playerID, slot)
	})
}

func (s *SQLiteDAL) SetRoster(sessionID string, roster map[string]string) (*Session, error) {
	return s.update(sessionID, func(sess *Session) error {
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

func (s *SQLiteDAL) Reset(sessionID string) (*Session, error) {
	return s.update(sessionID, func(sess *Session) error {
		resetState(sess)
		return nil
	})
}

// update runs a read-modify-write transaction against one session row.
func (s *SQLiteDAL) update(sessionID string, mutate func(*Session) error) (*Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, sessionID)
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
		UPDATE sessions SET pool = ?, drafted = ?, roster = ?, round = ?, pick = ?, updated_at = ?
		WHERE id = ?
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

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
