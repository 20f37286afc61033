// Package nba fetches NBA player stats from the balldontlie API.
// Rate limit: 30 requests/minute on the free tier, so requests are
// serialized with a fixed delay and a 429 gets one retry after a cooldown.
package nba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
)

const (
	defaultBaseURL = "https://api.balldontlie.io/v1"
	requestDelay   = 2100 * time.Millisecond

	// Pages of 100 players fetched for the pool; capped to avoid burning the
	// rate budget on deep bench players.
	maxPlayerPages = 5
	maxStatPages   = 20

	seasonAvgBatch = 100
)

var errRateLimited = errors.New("balldontlie rate limited")

// Client is a balldontlie API client.
type Client struct {
	baseURL string
	apiKey  string
	season  int
	http    *http.Client

	delay    time.Duration
	cooldown time.Duration

	mu   sync.Mutex
	last time.Time
}

// New returns a client for the given base URL (empty = production API),
// API key (empty = unauthenticated), and season (0 = the season in progress).
func New(baseURL, apiKey string, season int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if season == 0 {
		season = CurrentSeason(time.Now())
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		season:   season,
		http:     &http.Client{Timeout: 15 * time.Second},
		delay:    requestDelay,
		cooldown: 60 * time.Second,
	}
}

// CurrentSeason returns the season year for a date: seasons are named for
// the year they tip off in, so before October the previous year is current.
func CurrentSeason(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

func (c *Client) Sport() models.Sport {
	return models.SportNBA
}

// SeasonRecords builds the raw stat records for the active player pool:
// identity from the players endpoint, season rates from season averages
// (falling back one season when the current one is empty), and recent rates
// aggregated from trailing game logs.
func (c *Client) SeasonRecords(ctx context.Context, window int) ([]models.SeasonRecord, error) {
	players, err := c.activePlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player pool: %w", err)
	}
	if len(players) == 0 {
		return nil, errors.New("player pool came back empty")
	}

	ids := make([]int, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.id)
	}

	averages, err := c.seasonAverages(ctx, c.season, ids)
	if err != nil {
		return nil, err
	}
	if len(averages) == 0 {
		logger.Info("No season averages yet, falling back to previous season", "season", c.season-1)
		averages, err = c.seasonAverages(ctx, c.season-1, ids)
		if err != nil {
			return nil, err
		}
	}

	recent, err := c.recentRates(ctx, ids, window)
	if err != nil {
		// Recent rates are an enrichment; season-only records still rank.
		logger.Warn("Failed to fetch recent game logs", "error", err)
		recent = nil
	}

	records := make([]models.SeasonRecord, 0, len(players))
	for _, p := range players {
		avg, ok := averages[p.id]
		if !ok {
			continue
		}
		records = append(records, models.SeasonRecord{
			Player:      p.player,
			Season:      avg.rates(),
			Recent:      recent[p.id],
			GamesPlayed: avg.GamesPlayed,
		})
	}

	logger.Info("Assembled NBA season records", "players", len(players), "records", len(records))
	return records, nil
}

// LiveRecords returns in-progress stat deltas from today's live box scores.
// Failures degrade to no live data.
func (c *Client) LiveRecords(ctx context.Context) ([]models.LiveRecord, error) {
	var page struct {
		Data []bdlBoxScore `json:"data"`
	}
	if err := c.get(ctx, "box_scores/live", nil, &page); err != nil {
		logger.Warn("Failed to fetch live box scores", "error", err)
		return nil, nil
	}

	var records []models.LiveRecord
	for _, game := range page.Data {
		if strings.HasPrefix(game.Status, "Final") {
			continue
		}
		for _, line := range append(game.HomeTeam.Players, game.VisitorTeam.Players...) {
			if parseMinutes(line.Min) <= 0 {
				continue
			}
			records = append(records, models.LiveRecord{
				PlayerID: strconv.Itoa(line.Player.ID),
				Deltas: map[string]float64{
					models.StatPoints:    line.Pts,
					models.StatRebounds:  line.Reb,
					models.StatAssists:   line.Ast,
					models.StatSteals:    line.Stl,
					models.StatBlocks:    line.Blk,
					models.StatTurnovers: line.Turnover,
				},
			})
		}
	}
	return records, nil
}

type poolPlayer struct {
	id     int
	player models.Player
}

func (c *Client) activePlayers(ctx context.Context) ([]poolPlayer, error) {
	var players []poolPlayer
	cursor := 0

	for page := 0; page < maxPlayerPages; page++ {
		params := url.Values{"per_page": {"100"}}
		if cursor > 0 {
			params.Set("cursor", strconv.Itoa(cursor))
		}

		var resp struct {
			Data []bdlPlayer `json:"data"`
			Meta struct {
				NextCursor int `json:"next_cursor"`
			} `json:"meta"`
		}
		if err := c.get(ctx, "players", params, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Data {
			positions := normalizePositions(p.Position)
			if len(positions) == 0 {
				continue
			}
			players = append(players, poolPlayer{
				id: p.ID,
				player: models.Player{
					ID:        strconv.Itoa(p.ID),
					Name:      strings.TrimSpace(p.FirstName + " " + p.LastName),
					Positions: positions,
					Team:      p.Team.Abbreviation,
				},
			})
		}

		if resp.Meta.NextCursor == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
	}

	return players, nil
}

func (c *Client) seasonAverages(ctx context.Context, season int, ids []int) (map[int]bdlSeasonAverage, error) {
	out := make(map[int]bdlSeasonAverage)

	for start := 0; start < len(ids); start += seasonAvgBatch {
		end := start + seasonAvgBatch
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{"season": {strconv.Itoa(season)}}
		for _, id := range ids[start:end] {
			params.Add("player_ids[]", strconv.Itoa(id))
		}

		var resp struct {
			Data []bdlSeasonAverage `json:"data"`
		}
		if err := c.get(ctx, "season_averages", params, &resp); err != nil {
			return nil, err
		}
		for _, avg := range resp.Data {
			out[avg.PlayerID] = avg
		}
	}

	return out, nil
}

// recentRates pages through game logs newest-first and averages each
// player's most recent `window` games into per-game rates.
func (c *Client) recentRates(ctx context.Context, ids []int, window int) (map[int]map[string]float64, error) {
	if window <= 0 {
		window = models.DefaultTrendWindow
	}

	lines := make(map[int][]bdlStatLine, len(ids))
	cursor := 0

	for page := 0; page < maxStatPages; page++ {
		params := url.Values{
			"per_page": {"100"},
			"sort":     {"-game.date"},
		}
		for _, id := range ids {
			params.Add("player_ids[]", strconv.Itoa(id))
		}
		if cursor > 0 {
			params.Set("cursor", strconv.Itoa(cursor))
		}

		var resp struct {
			Data []bdlStatLine `json:"data"`
			Meta struct {
				NextCursor int `json:"next_cursor"`
			} `json:"meta"`
		}
		if err := c.get(ctx, "stats", params, &resp); err != nil {
			return nil, err
		}

		for _, line := range resp.Data {
			id := line.Player.ID
			if len(lines[id]) < window {
				lines[id] = append(lines[id], line)
			}
		}

		if resp.Meta.NextCursor == 0 || len(resp.Data) == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
	}

	rates := make(map[int]map[string]float64, len(lines))
	for id, games := range lines {
		if len(games) == 0 {
			continue
		}
		n := float64(len(games))
		sum := map[string]float64{}
		for _, g := range games {
			sum[models.StatPoints] += g.Pts
			sum[models.StatRebounds] += g.Reb
			sum[models.StatAssists] += g.Ast
			sum[models.StatSteals] += g.Stl
			sum[models.StatBlocks] += g.Blk
			sum[models.StatTurnovers] += g.Turnover
			sum[models.StatThrees] += g.Fg3m
			sum[models.StatFGPct] += g.FgPct
			sum[models.StatMinutes] += parseMinutes(g.Min)
		}
		avg := make(map[string]float64, len(sum))
		for name, total := range sum {
			avg[name] = total / n
		}
		rates[id] = avg
	}

	return rates, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.pace(ctx); err != nil {
		return err
	}

	err := c.do(ctx, endpoint, params, out)
	if errors.Is(err, errRateLimited) {
		logger.Warn("balldontlie rate limit hit, backing off", "cooldown", c.cooldown)
		select {
		case <-time.After(c.cooldown):
		case <-ctx.Done():
			return ctx.Err()
		}
		err = c.do(ctx, endpoint, params, out)
	}
	return err
}

func (c *Client) pace(ctx context.Context) error {
	if wait := c.delay - time.Since(c.last); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.last = time.Now()
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("balldontlie request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("balldontlie %s returned %d: %s", endpoint, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type bdlPlayer struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type bdlSeasonAverage struct {
	PlayerID    int     `json:"player_id"`
	GamesPlayed int     `json:"games_played"`
	Pts         float64 `json:"pts"`
	Reb         float64 `json:"reb"`
	Ast         float64 `json:"ast"`
	Stl         float64 `json:"stl"`
	Blk         float64 `json:"blk"`
	Fg3m        float64 `json:"fg3m"`
	Turnover    float64 `json:"turnover"`
	FgPct       float64 `json:"fg_pct"`
	FtPct       float64 `json:"ft_pct"`
	Min         string  `json:"min"`
}

func (a bdlSeasonAverage) rates() map[string]float64 {
	return map[string]float64{
		models.StatPoints:    a.Pts,
		models.StatRebounds:  a.Reb,
		models.StatAssists:   a.Ast,
		models.StatSteals:    a.Stl,
		models.StatBlocks:    a.Blk,
		models.StatThrees:    a.Fg3m,
		models.StatTurnovers: a.Turnover,
		models.StatFGPct:     a.FgPct,
		models.StatFTPct:     a.FtPct,
		models.StatMinutes:   parseMinutes(a.Min),
	}
}

type bdlStatLine struct {
	Pts      float64 `json:"pts"`
	Reb      float64 `json:"reb"`
	Ast      float64 `json:"ast"`
	Stl      float64 `json:"stl"`
	Blk      float64 `json:"blk"`
	Turnover float64 `json:"turnover"`
	Fg3m     float64 `json:"fg3m"`
	FgPct    float64 `json:"fg_pct"`
	Min      string  `json:"min"`
	Player   struct {
		ID int `json:"id"`
	} `json:"player"`
	Game struct {
		Date string `json:"date"`
	} `json:"game"`
}

type bdlBoxScore struct {
	Status      string     `json:"status"`
	Period      int        `json:"period"`
	HomeTeam    bdlBoxTeam `json:"home_team"`
	VisitorTeam bdlBoxTeam `json:"visitor_team"`
}

type bdlBoxTeam struct {
	Players []bdlStatLine `json:"players"`
}

// normalizePositions expands balldontlie's coarse position strings (G, F,
// G-F) into the five classic positions the board works in.
func normalizePositions(raw string) []string {
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(positions ...string) {
		for _, pos := range positions {
			if !seen[pos] {
				seen[pos] = true
				out = append(out, pos)
			}
		}
	}
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '/' }) {
		switch part {
		case "PG", "SG", "SF", "PF", "C":
			add(part)
		case "G":
			add("PG", "SG")
		case "F":
			add("SF", "PF")
		}
	}
	return out
}

// parseMinutes converts balldontlie minute strings ("34:20" or "34") to
// fractional minutes.
func parseMinutes(raw string) float64 {
	if raw == "" {
		return 0
	}
	if mins, secs, ok := strings.Cut(raw, ":"); ok {
		m, err1 := strconv.ParseFloat(mins, 64)
		s, err2 := strconv.ParseFloat(secs, 64)
		if err1 != nil || err2 != nil {
			return 0
		}
		return m + s/60
	}
	m, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return m
}
