package dal

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warroom-labs/draftboard/internal/models"
)

// MemoryDAL keeps sessions in a process-local map. It is the default driver
// and the one most tests run against.
type MemoryDAL struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryDAL creates an empty in-memory session store.
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{sessions: make(map[string]*Session)}
}

func (m *MemoryDAL) CreateSession(settings models.LeagueSettings, pool []models.Player) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

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

	m.sessions[sess.ID] = sess
	return copySession(sess), nil
}

func (m *MemoryDAL) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return copySession(sess), nil
}

func (m *MemoryDAL) ListSessions() ([]SessionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		infos = append(infos, sessionInfo(sess))
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

func (m *MemoryDAL) RecordPick(sessionID, playerID, slot string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err := applyPick(sess, playerID, slot); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now()
	return copySession(sess), nil
}

func (m *MemoryDAL) SetRoster(sessionID string, roster map[string]string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	for slot := range roster {
		if !models.KnownSlot(sess.Settings.Sport, models.BaseSlot(slot)) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
		}
	}
	sess.State.UserRoster = make(map[string]string, len(roster))
	for slot, id := range roster {
		sess.State.UserRoster[slot] = id
	}
	sess.UpdatedAt = time.Now()
	return copySession(sess), nil
}

func (m *MemoryDAL) Reset(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	resetState(sess)
	sess.UpdatedAt = time.Now()
	return copySession(sess), nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
