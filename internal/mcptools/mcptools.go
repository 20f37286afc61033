// Package mcptools exposes the draft assistant as MCP tools so agent clients
// can drive a draft over the same store the HTTP API serves.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warroom-labs/draftboard/internal/dal"
	"github.com/warroom-labs/draftboard/internal/engine"
	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
	"github.com/warroom-labs/draftboard/internal/pubsub"
	"github.com/warroom-labs/draftboard/internal/render"
	"github.com/warroom-labs/draftboard/internal/stats"
)

const serverVersion = "0.3.0"

// Tools bundles the dependencies every tool handler needs. It mirrors the
// HTTP layer: both surfaces mutate through the same DAL and publish the same
// events, so SSE clients see agent picks too.
type Tools struct {
	dal      dal.SessionDAL
	store    *stats.Store
	pubsub   *pubsub.PubSub
	defaults models.LeagueSettings

	// Set during startup, before the server accepts traffic.
	projections    map[string]float64
	defaultSession string
}

// New creates the tool set.
func New(d dal.SessionDAL, store *stats.Store, ps *pubsub.PubSub, defaults models.LeagueSettings) *Tools {
	return &Tools{
		dal:      d,
		store:    store,
		pubsub:   ps,
		defaults: defaults,
	}
}

// UseProjections supplies projected values blended into every board recompute.
func (t *Tools) UseProjections(p map[string]float64) {
	t.projections = p
}

// SetDefaultSession sets the session used when a tool call names none.
func (t *Tools) SetDefaultSession(id string) {
	t.defaultSession = id
}

// Server builds the MCP server with every draft tool registered.
func (t *Tools) Server() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "draftboard",
			Version: serverVersion,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_board",
		Description: "Ranked best-available players for the draft, with value over replacement, recent-form trend, and positional scarcity context",
	}, t.draftBoard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_pick",
		Description: "Record a draft pick, removing the player from the available pool and optionally filling a roster slot",
	}, t.recordPick)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scarcity_report",
		Description: "Quality depth remaining at each position, tiered SCARCE/OK/DEEP",
	}, t.scarcityReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_trend",
		Description: "One player's recent form versus season baseline, with the underlying stat snapshot",
	}, t.playerTrend)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reset_draft",
		Description: "Return every drafted player to the pool and reopen the roster",
	}, t.resetDraft)

	return server
}

// Handler returns the streamable HTTP handler for mounting on the API mux.
func (t *Tools) Handler() http.Handler {
	server := t.Server()
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

// DraftBoardArgs selects and sizes one board recompute.
type DraftBoardArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Draft session id (default: the active session)"`
	Top       int    `json:"top,omitempty" jsonschema:"How many players to list (default: league top-n)"`
	NeedOnly  bool   `json:"need_only,omitempty" jsonschema:"Only list players that fill an open roster slot"`
	Text      bool   `json:"text,omitempty" jsonschema:"Return the rendered text board instead of JSON"`
}

// RecordPickArgs names the player to draft.
type RecordPickArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Draft session id (default: the active session)"`
	PlayerID  string `json:"player_id" jsonschema:"Player id to draft (required)"`
	Slot      string `json:"slot,omitempty" jsonschema:"Roster slot to fill (e.g. PG, UTIL2); empty records the pick without filling a slot"`
}

// ScarcityReportArgs selects the session to report on.
type ScarcityReportArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Draft session id (default: the active session)"`
}

// PlayerTrendArgs names the player to inspect.
type PlayerTrendArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Draft session id (default: the active session)"`
	PlayerID  string `json:"player_id" jsonschema:"Player id to inspect (required)"`
}

// ResetDraftArgs selects the session to reset.
type ResetDraftArgs struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Draft session id (default: the active session)"`
}

func (t *Tools) sessionID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return t.defaultSession
}

func (t *Tools) board(sess *dal.Session, opts engine.BoardOptions) (models.Board, error) {
	eng, err := engine.New(sess.Settings)
	if err != nil {
		return models.Board{}, err
	}
	eng.UseProjections(t.projections)
	return eng.Board(t.store.Snapshots(), &sess.State, opts), nil
}

func (t *Tools) draftBoard(ctx context.Context, req *mcp.CallToolRequest, args DraftBoardArgs) (*mcp.CallToolResult, any, error) {
	sess, err := t.dal.GetSession(t.sessionID(args.SessionID))
	if err != nil {
		return toolError(err), nil, nil
	}

	board, err := t.board(sess, engine.BoardOptions{Top: args.Top, NeedFilter: args.NeedOnly})
	if err != nil {
		return toolError(err), nil, nil
	}

	if args.Text {
		return toolText(render.FormatBoard(board, sess.Settings, render.Options{Top: args.Top})), nil, nil
	}
	return toolJSON(board), nil, nil
}

func (t *Tools) recordPick(ctx context.Context, req *mcp.CallToolRequest, args RecordPickArgs) (*mcp.CallToolResult, any, error) {
	if args.PlayerID == "" {
		return toolError(fmt.Errorf("player_id is required")), nil, nil
	}

	sid := t.sessionID(args.SessionID)
	logger.Info("Recording pick via MCP", "session_id", sid, "player_id", args.PlayerID, "slot", args.Slot)
	sess, err := t.dal.RecordPick(sid, args.PlayerID, args.Slot)
	if err != nil {
		return toolError(err), nil, nil
	}

	made := len(sess.State.Drafted)
	picked := sess.State.Drafted[made-1]
	round := (made-1)/sess.Settings.LeagueSize + 1
	t.pubsub.Publish(pubsub.PickEvent(sess.ID, picked.ID, picked.Name, args.Slot, round, made))
	t.pubsub.Publish(pubsub.BoardUpdateEvent(sess.ID, sess.State.Round, sess.State.Pick))

	return toolJSON(struct {
		SessionID string        `json:"sessionId"`
		Picked    models.Player `json:"picked"`
		Round     int           `json:"round"`
		Pick      int           `json:"pick"`
		Remaining int           `json:"remaining"`
	}{sess.ID, picked, sess.State.Round, sess.State.Pick, len(sess.State.AvailablePool)}), nil, nil
}

func (t *Tools) scarcityReport(ctx context.Context, req *mcp.CallToolRequest, args ScarcityReportArgs) (*mcp.CallToolResult, any, error) {
	sess, err := t.dal.GetSession(t.sessionID(args.SessionID))
	if err != nil {
		return toolError(err), nil, nil
	}

	board, err := t.board(sess, engine.BoardOptions{})
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(board.Scarcity), nil, nil
}

func (t *Tools) playerTrend(ctx context.Context, req *mcp.CallToolRequest, args PlayerTrendArgs) (*mcp.CallToolResult, any, error) {
	if args.PlayerID == "" {
		return toolError(fmt.Errorf("player_id is required")), nil, nil
	}

	sess, err := t.dal.GetSession(t.sessionID(args.SessionID))
	if err != nil {
		return toolError(err), nil, nil
	}

	player, snap, ok := t.store.Snapshot(args.PlayerID)
	if !ok {
		return toolError(fmt.Errorf("player %s not in pool", args.PlayerID)), nil, nil
	}

	trend := engine.DetectTrend(sess.Settings.Sport, snap, sess.Settings.TrendWeights())

	return toolJSON(struct {
		Player   models.Player       `json:"player"`
		Trend    models.Trend        `json:"trend"`
		Snapshot models.StatSnapshot `json:"snapshot"`
	}{player, trend, snap}), nil, nil
}

func (t *Tools) resetDraft(ctx context.Context, req *mcp.CallToolRequest, args ResetDraftArgs) (*mcp.CallToolResult, any, error) {
	sid := t.sessionID(args.SessionID)
	logger.Info("Resetting draft via MCP", "session_id", sid)
	sess, err := t.dal.Reset(sid)
	if err != nil {
		return toolError(err), nil, nil
	}

	t.pubsub.Publish(pubsub.ResetEvent(sess.ID))

	return toolJSON(struct {
		SessionID string `json:"sessionId"`
		Available int    `json:"available"`
		Round     int    `json:"round"`
		Pick      int    `json:"pick"`
	}{sess.ID, len(sess.State.AvailablePool), sess.State.Round, sess.State.Pick}), nil, nil
}

func toolText(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func toolJSON(v interface{}) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return toolError(err)
	}
	return toolText(string(b))
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
