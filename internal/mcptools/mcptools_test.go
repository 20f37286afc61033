package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warroom-labs/draftboard/internal/config"
	"github.com/warroom-labs/draftboard/internal/dal"
	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/mocks"
	"github.com/warroom-labs/draftboard/internal/models"
	"github.com/warroom-labs/draftboard/internal/pubsub"
	"github.com/warroom-labs/draftboard/internal/stats"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

type testTools struct {
	tools *Tools
	ps    *pubsub.PubSub
	sess  *dal.Session
}

func newTestTools(t *testing.T) *testTools {
	t.Helper()

	store := stats.NewStore(mocks.NewStatProvider(models.SportNBA), 0)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	settings := config.DefaultLeague(models.SportNBA)
	d := dal.NewMemoryDAL()
	sess, err := d.CreateSession(settings, store.Players())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	ps := pubsub.New()
	tools := New(d, store, ps, settings)
	tools.SetDefaultSession(sess.ID)
	return &testTools{tools: tools, ps: ps, sess: sess}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestDraftBoardJSON(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.draftBoard(context.Background(), nil, DraftBoardArgs{Top: 5})
	if err != nil {
		t.Fatalf("draftBoard() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("draftBoard() returned tool error: %s", resultText(t, res))
	}

	var board models.Board
	if err := json.Unmarshal([]byte(resultText(t, res)), &board); err != nil {
		t.Fatalf("failed to parse board JSON: %v", err)
	}
	if len(board.Top) != 5 {
		t.Errorf("top length = %d, want 5", len(board.Top))
	}
	if len(board.Recommendations) != 30 {
		t.Errorf("recommendations = %d, want 30", len(board.Recommendations))
	}
	if len(board.Scarcity) == 0 {
		t.Error("scarcity summary is empty")
	}
}

func TestDraftBoardText(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.draftBoard(context.Background(), nil, DraftBoardArgs{Top: 3, Text: true})
	if err != nil {
		t.Fatalf("draftBoard() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("draftBoard() returned tool error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{"FANTASY DRAFT ASSISTANT", "BEST AVAILABLE PLAYERS", "POSITIONAL SCARCITY"} {
		if !strings.Contains(text, want) {
			t.Errorf("board text missing %q", want)
		}
	}
}

func TestDraftBoardUnknownSession(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.draftBoard(context.Background(), nil, DraftBoardArgs{SessionID: "sess_nope"})
	if err != nil {
		t.Fatalf("draftBoard() error = %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown session")
	}
	if !strings.Contains(resultText(t, res), "session not found") {
		t.Errorf("error text = %q, want session not found", resultText(t, res))
	}
}

func TestRecordPick(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.recordPick(context.Background(), nil, RecordPickArgs{PlayerID: "1", Slot: "C"})
	if err != nil {
		t.Fatalf("recordPick() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("recordPick() returned tool error: %s", resultText(t, res))
	}

	var out struct {
		SessionID string        `json:"sessionId"`
		Picked    models.Player `json:"picked"`
		Round     int           `json:"round"`
		Pick      int           `json:"pick"`
		Remaining int           `json:"remaining"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("failed to parse pick result: %v", err)
	}
	if out.Picked.ID != "1" {
		t.Errorf("picked = %s, want 1", out.Picked.ID)
	}
	if out.Remaining != 29 {
		t.Errorf("remaining = %d, want 29", out.Remaining)
	}
	if out.Pick != 2 {
		t.Errorf("next pick = %d, want 2", out.Pick)
	}

	// Same player again is a conflict.
	res, _, err = tt.tools.recordPick(context.Background(), nil, RecordPickArgs{PlayerID: "1"})
	if err != nil {
		t.Fatalf("recordPick() error = %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for duplicate pick")
	}
}

func TestRecordPickRequiresPlayer(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.recordPick(context.Background(), nil, RecordPickArgs{})
	if err != nil {
		t.Fatalf("recordPick() error = %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for missing player_id")
	}
	if !strings.Contains(resultText(t, res), "player_id is required") {
		t.Errorf("error text = %q", resultText(t, res))
	}
}

func TestRecordPickPublishesEvents(t *testing.T) {
	tt := newTestTools(t)
	ch := tt.ps.Subscribe()
	defer tt.ps.Unsubscribe(ch)

	if res, _, _ := tt.tools.recordPick(context.Background(), nil, RecordPickArgs{PlayerID: "1"}); res.IsError {
		t.Fatalf("recordPick() returned tool error: %s", resultText(t, res))
	}

	var types []string
	for len(types) < 2 {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for events, got %v", types)
		}
	}
	if types[0] != pubsub.EventDraftPick || types[1] != pubsub.EventBoardUpdate {
		t.Errorf("event types = %v, want [%s %s]", types, pubsub.EventDraftPick, pubsub.EventBoardUpdate)
	}
}

func TestScarcityReport(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.scarcityReport(context.Background(), nil, ScarcityReportArgs{})
	if err != nil {
		t.Fatalf("scarcityReport() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("scarcityReport() returned tool error: %s", resultText(t, res))
	}

	var rows []models.PositionScarcity
	if err := json.Unmarshal([]byte(resultText(t, res)), &rows); err != nil {
		t.Fatalf("failed to parse scarcity JSON: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("no scarcity rows")
	}
}

func TestPlayerTrend(t *testing.T) {
	tt := newTestTools(t)

	res, _, err := tt.tools.playerTrend(context.Background(), nil, PlayerTrendArgs{PlayerID: "6"})
	if err != nil {
		t.Fatalf("playerTrend() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("playerTrend() returned tool error: %s", resultText(t, res))
	}

	var out struct {
		Player models.Player `json:"player"`
		Trend  models.Trend  `json:"trend"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("failed to parse trend JSON: %v", err)
	}
	if out.Trend.Direction != models.TrendUp {
		t.Errorf("direction = %s, want %s", out.Trend.Direction, models.TrendUp)
	}
}

func TestPlayerTrendErrors(t *testing.T) {
	tt := newTestTools(t)

	if res, _, _ := tt.tools.playerTrend(context.Background(), nil, PlayerTrendArgs{}); !res.IsError {
		t.Error("expected tool error for missing player_id")
	}
	if res, _, _ := tt.tools.playerTrend(context.Background(), nil, PlayerTrendArgs{PlayerID: "999"}); !res.IsError {
		t.Error("expected tool error for unknown player")
	}
}

func TestResetDraft(t *testing.T) {
	tt := newTestTools(t)

	if res, _, _ := tt.tools.recordPick(context.Background(), nil, RecordPickArgs{PlayerID: "1"}); res.IsError {
		t.Fatalf("recordPick() returned tool error: %s", resultText(t, res))
	}

	res, _, err := tt.tools.resetDraft(context.Background(), nil, ResetDraftArgs{})
	if err != nil {
		t.Fatalf("resetDraft() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("resetDraft() returned tool error: %s", resultText(t, res))
	}

	var out struct {
		Available int `json:"available"`
		Round     int `json:"round"`
		Pick      int `json:"pick"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("failed to parse reset result: %v", err)
	}
	if out.Available != 30 {
		t.Errorf("available = %d, want 30", out.Available)
	}
	if out.Round != 1 || out.Pick != 1 {
		t.Errorf("round/pick = %d/%d, want 1/1", out.Round, out.Pick)
	}
}

func TestServerAndHandler(t *testing.T) {
	tt := newTestTools(t)

	if tt.tools.Server() == nil {
		t.Fatal("Server() returned nil")
	}
	if tt.tools.Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
