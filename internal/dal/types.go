package dal

import (
	"errors"
	"time"

	"github.com/warroom-labs/draftboard/internal/models"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not available")
	ErrAlreadyDrafted  = errors.New("player already drafted")
	ErrUnknownSlot     = errors.New("unknown roster slot")
	ErrSlotFilled      = errors.New("roster slot already filled")
	ErrSlotMismatch    = errors.New("player cannot fill roster slot")
)

// Session is one draft in progress: the league configuration it was created
// with plus the mutable draft state.
type Session struct {
	ID        string                `json:"id"`
	Settings  models.LeagueSettings `json:"settings"`
	State     models.DraftState     `json:"state"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// SessionInfo is the list-view summary of a session.
type SessionInfo struct {
	ID        string        `json:"id"`
	Sport     models.Sport  `json:"sport"`
	Format    models.Format `json:"format"`
	Round     int           `json:"round"`
	Pick      int           `json:"pick"`
	Drafted   int           `json:"drafted"`
	Available int           `json:"available"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SessionDAL persists draft sessions. Implementations are selected by
// DB_DRIVER and must serialize concurrent access per session.
type SessionDAL interface {
	CreateSession(settings models.LeagueSettings, pool []models.Player) (*Session, error)
	GetSession(id string) (*Session, error)
	ListSessions() ([]SessionInfo, error)
	RecordPick(sessionID, playerID, slot string) (*Session, error)
	SetRoster(sessionID string, roster map[string]string) (*Session, error)
	Reset(sessionID string) (*Session, error)
	Close() error
}
