package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/warroom-labs/draftboard/internal/dal"
	"github.com/warroom-labs/draftboard/internal/engine"
	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
	"github.com/warroom-labs/draftboard/internal/pubsub"
	"github.com/warroom-labs/draftboard/internal/render"
	"github.com/warroom-labs/draftboard/internal/stats"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	dal      dal.SessionDAL
	store    *stats.Store
	pubsub   *pubsub.PubSub
	defaults models.LeagueSettings

	// Set during startup, before the server accepts traffic.
	projections    map[string]float64
	defaultSession string
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(d dal.SessionDAL, store *stats.Store, ps *pubsub.PubSub, defaults models.LeagueSettings) *APIHandlers {
	return &APIHandlers{
		dal:      d,
		store:    store,
		pubsub:   ps,
		defaults: defaults,
	}
}

// UseProjections supplies projected values blended into every board recompute.
func (h *APIHandlers) UseProjections(p map[string]float64) {
	h.projections = p
}

// SetDefaultSession sets the session used when a request names none.
func (h *APIHandlers) SetDefaultSession(id string) {
	h.defaultSession = id
}

// sessionID resolves the session a request targets: explicit body value,
// then the session query parameter, then the server default.
func (h *APIHandlers) sessionID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if q := r.URL.Query().Get("session"); q != "" {
		return q
	}
	return h.defaultSession
}

// engine builds a recommendation engine for one session's settings. Settings
// were validated when the session was created, so a failure here is an
// internal inconsistency, not a caller error.
func (h *APIHandlers) engine(settings models.LeagueSettings) (*engine.Engine, error) {
	eng, err := engine.New(settings)
	if err != nil {
		return nil, err
	}
	eng.UseProjections(h.projections)
	return eng, nil
}

// statusFor maps store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dal.ErrSessionNotFound), errors.Is(err, dal.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, dal.ErrAlreadyDrafted), errors.Is(err, dal.ErrSlotFilled):
		return http.StatusConflict
	case errors.Is(err, dal.ErrUnknownSlot), errors.Is(err, dal.ErrSlotMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func copyMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	sess, err := h.dal.GetSession(h.sessionID(r, ""))
	if err != nil {
		logger.Error("Failed to get draft state", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, sess)
}

// DraftPick records a player selection
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string `json:"sessionId"`
		PlayerID  string `json:"playerId"`
		Slot      string `json:"slot"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "Missing playerId", http.StatusBadRequest)
		return
	}

	sid := h.sessionID(r, req.SessionID)
	logger.Info("Recording pick", "session_id", sid, "player_id", req.PlayerID, "slot", req.Slot)
	sess, err := h.dal.RecordPick(sid, req.PlayerID, req.Slot)
	if err != nil {
		logger.Error("Failed to record pick", "error", err, "session_id", sid, "player_id", req.PlayerID)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	// The returned state points at the next pick; the event describes the
	// pick just made.
	made := len(sess.State.Drafted)
	picked := sess.State.Drafted[made-1]
	round := (made-1)/sess.Settings.LeagueSize + 1
	h.pubsub.Publish(pubsub.PickEvent(sess.ID, picked.ID, picked.Name, req.Slot, round, made))
	h.pubsub.Publish(pubsub.BoardUpdateEvent(sess.ID, sess.State.Round, sess.State.Pick))

	writeJSON(w, sess)
}

// ResetDraft returns every drafted player to the pool
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sid := h.sessionID(r, "")
	logger.Info("Resetting draft", "session_id", sid)
	sess, err := h.dal.Reset(sid)
	if err != nil {
		logger.Error("Failed to reset draft", "error", err, "session_id", sid)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	h.pubsub.Publish(pubsub.ResetEvent(sess.ID))

	writeJSON(w, sess)
}

// SetRoster replaces the session's roster assignments
func (h *APIHandlers) SetRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string            `json:"sessionId"`
		Roster    map[string]string `json:"roster"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sid := h.sessionID(r, req.SessionID)
	sess, err := h.dal.SetRoster(sid, req.Roster)
	if err != nil {
		logger.Error("Failed to set roster", "error", err, "session_id", sid)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	// Open slots drive the need markers, so the board view changed.
	h.pubsub.Publish(pubsub.BoardUpdateEvent(sess.ID, sess.State.Round, sess.State.Pick))

	writeJSON(w, sess)
}

// ListSessions returns summaries of every stored session
func (h *APIHandlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := h.dal.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, infos)
}

// CreateSession starts a new draft over the current player pool. Body fields
// override the server's league settings; an empty body uses them as-is.
func (h *APIHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Decoding into non-nil maps merges, so the defaults' maps must be
	// copied or requests would mutate them.
	settings := h.defaults
	settings.ScoringWeights = copyMap(h.defaults.ScoringWeights)
	settings.RosterSlots = copyMap(h.defaults.RosterSlots)
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil && err != io.EOF {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if settings.Sport != h.store.Sport() {
		http.Error(w, fmt.Sprintf("server is configured for %s", h.store.Sport()), http.StatusBadRequest)
		return
	}

	sess, err := h.dal.CreateSession(settings, h.store.Players())
	if err != nil {
		logger.Error("Failed to create session", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Session created", "session_id", sess.ID, "sport", settings.Sport, "players", len(sess.State.AvailablePool))
	h.pubsub.Publish(pubsub.SessionCreateEvent(sess.ID, string(settings.Sport), string(settings.Format)))

	writeJSON(w, sess)
}

// boardOptions reads the top and need query parameters.
func boardOptions(r *http.Request) (engine.BoardOptions, error) {
	var opts engine.BoardOptions
	if v := r.URL.Query().Get("top"); v != "" {
		top, err := strconv.Atoi(v)
		if err != nil || top <= 0 {
			return opts, fmt.Errorf("invalid top parameter %q", v)
		}
		opts.Top = top
	}
	if v := r.URL.Query().Get("need"); v == "1" || v == "true" {
		opts.NeedFilter = true
	}
	return opts, nil
}

// board recomputes the full board for the request's session.
func (h *APIHandlers) board(r *http.Request, opts engine.BoardOptions) (models.Board, models.LeagueSettings, error) {
	sess, err := h.dal.GetSession(h.sessionID(r, ""))
	if err != nil {
		return models.Board{}, models.LeagueSettings{}, err
	}

	eng, err := h.engine(sess.Settings)
	if err != nil {
		return models.Board{}, models.LeagueSettings{}, err
	}

	return eng.Board(h.store.Snapshots(), &sess.State, opts), sess.Settings, nil
}

// GetBoard recomputes and returns the ranked recommendation board
func (h *APIHandlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	opts, err := boardOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	board, _, err := h.board(r, opts)
	if err != nil {
		logger.Error("Failed to build board", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, board)
}

// GetBoardText returns the board rendered in the console layout
func (h *APIHandlers) GetBoardText(w http.ResponseWriter, r *http.Request) {
	opts, err := boardOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	board, settings, err := h.board(r, opts)
	if err != nil {
		logger.Error("Failed to build board", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, render.FormatBoard(board, settings, render.Options{Top: opts.Top}))
}

// GetScarcity returns the per-position scarcity summary
func (h *APIHandlers) GetScarcity(w http.ResponseWriter, r *http.Request) {
	board, _, err := h.board(r, engine.BoardOptions{})
	if err != nil {
		logger.Error("Failed to build scarcity summary", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, board.Scarcity)
}

// ListPlayers returns the player pool held by the stat store
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Players())
}

// PlayerTrend returns one player's trend detail with the underlying snapshot
func (h *APIHandlers) PlayerTrend(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	sess, err := h.dal.GetSession(h.sessionID(r, ""))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	player, snap, ok := h.store.Snapshot(id)
	if !ok {
		http.Error(w, "Player not found", http.StatusNotFound)
		return
	}

	trend := engine.DetectTrend(sess.Settings.Sport, snap, sess.Settings.TrendWeights())

	writeJSON(w, struct {
		Player   models.Player       `json:"player"`
		Trend    models.Trend        `json:"trend"`
		Snapshot models.StatSnapshot `json:"snapshot"`
	}{player, trend, snap})
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Subscribe to events
	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	// Send initial connection message
	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	// Listen for events
	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Send keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
