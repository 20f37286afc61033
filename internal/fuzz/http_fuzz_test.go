package fuzz

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/warroom-labs/draftboard/internal/config"
	"github.com/warroom-labs/draftboard/internal/dal"
	"github.com/warroom-labs/draftboard/internal/handlers"
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

// newAPI builds handlers backed by the mock player pool with one default
// session, mirroring the serve-mode wiring.
func newAPI(t *testing.T) *handlers.APIHandlers {
	t.Helper()

	provider := mocks.NewStatProvider(models.SportNBA)
	store := stats.NewStore(provider, 0)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	sessions := dal.NewMemoryDAL()
	settings := config.DefaultLeague(models.SportNBA)
	sess, err := sessions.CreateSession(settings, store.Players())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	api := handlers.NewAPIHandlers(sessions, store, pubsub.New(), settings)
	api.SetDefaultSession(sess.ID)
	return api
}

// FuzzHTTPDraftPick fuzzes the HTTP draft pick endpoint
func FuzzHTTPDraftPick(f *testing.F) {
	// Seed corpus with valid examples
	f.Add(`{"playerId":"1","slot":"C"}`)
	f.Add(`{"playerId":"2"}`)
	f.Add(`{"playerId":"invalid","slot":"QB"}`)
	f.Add(`{"playerId":`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		req := httptest.NewRequest(http.MethodPost, "/api/draft/pick", bytes.NewBufferString(data))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		// Should not panic - that's the main goal of fuzzing.
		// We don't care if it returns an error, just that it doesn't crash
		api.DraftPick(w, req)
	})
}

// FuzzHTTPCreateSession fuzzes the HTTP session creation endpoint
func FuzzHTTPCreateSession(f *testing.F) {
	// Seed corpus
	f.Add(`{"sport":"nba","topN":5}`)
	f.Add(`{"scoringWeights":{"pts":2}}`)
	f.Add(`{"rosterSlots":{"UTIL":100}}`)
	f.Add(`{"leagueSize":-3}`)
	f.Add(`{}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(data))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		api.CreateSession(w, req)
	})
}

// FuzzHTTPSetRoster fuzzes the HTTP roster endpoint
func FuzzHTTPSetRoster(f *testing.F) {
	// Seed corpus
	f.Add(`{"roster":{"C":""}}`)
	f.Add(`{"roster":{"QB":"1"}}`)
	f.Add(`{"roster":{}}`)
	f.Add(`{"roster":null}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		req := httptest.NewRequest(http.MethodPost, "/api/draft/roster", bytes.NewBufferString(data))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		api.SetRoster(w, req)
	})
}

// FuzzHTTPBoardQuery fuzzes the board query parameters
func FuzzHTTPBoardQuery(f *testing.F) {
	// Seed corpus
	f.Add("5", "1")
	f.Add("abc", "true")
	f.Add("-1", "")
	f.Add("0", "0")

	f.Fuzz(func(t *testing.T, top, need string) {
		api := newAPI(t)

		target := "/api/board?top=" + url.QueryEscape(top) + "&need=" + url.QueryEscape(need)
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		api.GetBoard(w, req)
	})
}

// FuzzLeagueSettingsJSON fuzzes league settings parsing and validation
func FuzzLeagueSettingsJSON(f *testing.F) {
	// Seed various JSON structures
	f.Add(`{"sport":"nba","format":"points","leagueSize":12}`)
	f.Add(`{"scoringWeights":{"pts":1,"tov":-1}}`)
	f.Add(`null`)
	f.Add(`[1,2,3]`)
	f.Add(`"string"`)

	f.Fuzz(func(t *testing.T, data string) {
		var settings models.LeagueSettings
		// Should not panic on any input
		if err := json.Unmarshal([]byte(data), &settings); err != nil {
			return
		}
		settings.ApplyDefaults()
		settings.Validate()
	})
}
