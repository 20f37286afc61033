// Package mlb fetches MLB player stats from the MLB Stats API. The API has
// no strict rate limit but requests are paced with a fixed delay anyway.
package mlb

import (
	"context"
	"encoding/json"
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
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"
	requestDelay   = 500 * time.Millisecond

	peopleBatch = 100
)

// Client is an MLB Stats API client. Season stats come from the hydrated
// people endpoint; the recent window comes from the spring-training split of
// the draft year, which is the freshest signal available before opening day.
type Client struct {
	baseURL string
	season  int
	http    *http.Client

	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// New returns a client for the given base URL (empty = production API) and
// stats season (0 = the most recent completed season). Spring stats always
// come from the year after the stats season.
func New(baseURL string, season int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if season == 0 {
		season = time.Now().Year() - 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		season:  season,
		http:    &http.Client{Timeout: 15 * time.Second},
		delay:   requestDelay,
	}
}

func (c *Client) Sport() models.Sport {
	return models.SportMLB
}

// SeasonRecords assembles the pool from every team's 40-man roster, season
// stats from the hydrated people endpoint, and spring-training stats as the
// recent window. The window parameter is ignored: spring is however long
// spring has been.
func (c *Client) SeasonRecords(ctx context.Context, window int) ([]models.SeasonRecord, error) {
	pool, err := c.rosterPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble roster pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("roster pool came back empty for season %d", c.season)
	}

	ids := make([]int, 0, len(pool))
	for _, p := range pool {
		ids = append(ids, p.id)
	}

	season, err := c.statSplits(ctx, ids, c.season, "")
	if err != nil {
		return nil, err
	}
	spring, err := c.statSplits(ctx, ids, c.season+1, "S")
	if err != nil {
		// Spring stats only exist for a few weeks a year.
		logger.Info("No spring training stats available", "error", err)
		spring = nil
	}

	records := make([]models.SeasonRecord, 0, len(pool))
	for _, p := range pool {
		line, ok := season[p.id]
		if !ok {
			continue
		}
		rec := models.SeasonRecord{
			Player:      p.player,
			Season:      line.rates(),
			GamesPlayed: line.GamesPlayed,
		}
		if s, ok := spring[p.id]; ok && s.GamesPlayed > 0 {
			rec.Recent = s.rates()
		}
		records = append(records, rec)
	}

	logger.Info("Assembled MLB season records", "pool", len(pool), "records", len(records))
	return records, nil
}

// LiveRecords is a no-op for MLB: drafts happen in spring training and the
// upstream carries no in-game baseball context.
func (c *Client) LiveRecords(ctx context.Context) ([]models.LiveRecord, error) {
	return nil, nil
}

type poolPlayer struct {
	id     int
	player models.Player
}

func (c *Client) rosterPool(ctx context.Context) ([]poolPlayer, error) {
	var teamsResp struct {
		Teams []struct {
			ID           int    `json:"id"`
			Abbreviation string `json:"abbreviation"`
		} `json:"teams"`
	}
	params := url.Values{
		"sportId": {"1"},
		"season":  {strconv.Itoa(c.season + 1)},
	}
	if err := c.get(ctx, "teams", params, &teamsResp); err != nil {
		return nil, err
	}

	var pool []poolPlayer
	for _, team := range teamsResp.Teams {
		var rosterResp struct {
			Roster []struct {
				Person struct {
					ID       int    `json:"id"`
					FullName string `json:"fullName"`
				} `json:"person"`
				Position struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"position"`
			} `json:"roster"`
		}
		params := url.Values{
			"rosterType": {"40Man"},
			"season":     {strconv.Itoa(c.season + 1)},
		}
		endpoint := fmt.Sprintf("teams/%d/roster", team.ID)
		if err := c.get(ctx, endpoint, params, &rosterResp); err != nil {
			logger.Warn("Failed to fetch team roster", "team", team.Abbreviation, "error", err)
			continue
		}

		for _, entry := range rosterResp.Roster {
			positions := normalizePositions(entry.Position.Abbreviation)
			if len(positions) == 0 {
				continue
			}
			pool = append(pool, poolPlayer{
				id: entry.Person.ID,
				player: models.Player{
					ID:        strconv.Itoa(entry.Person.ID),
					Name:      entry.Person.FullName,
					Positions: positions,
					Team:      team.Abbreviation,
				},
			})
		}
	}

	return pool, nil
}

// statSplits fetches one stat line per player via the hydrated people
// endpoint. gameType "S" selects the spring-training split; empty selects
// the regular season. Hitting splits win over pitching when both exist.
func (c *Client) statSplits(ctx context.Context, ids []int, season int, gameType string) (map[int]mlbStatLine, error) {
	out := make(map[int]mlbStatLine)

	hydrate := fmt.Sprintf("stats(group=[hitting,pitching],type=[season],season=%d", season)
	if gameType != "" {
		hydrate += fmt.Sprintf(",gameType=[%s]", gameType)
	}
	hydrate += ")"

	for start := 0; start < len(ids); start += peopleBatch {
		end := start + peopleBatch
		if end > len(ids) {
			end = len(ids)
		}

		joined := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			joined = append(joined, strconv.Itoa(id))
		}
		params := url.Values{
			"personIds": {strings.Join(joined, ",")},
			"hydrate":   {hydrate},
		}

		var resp struct {
			People []mlbPerson `json:"people"`
		}
		if err := c.get(ctx, "people", params, &resp); err != nil {
			return nil, err
		}

		for _, person := range resp.People {
			if line, ok := person.statLine(); ok {
				out[person.ID] = line
			}
		}
	}

	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.delay - time.Since(c.last); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.last = time.Now()

	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mlb api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("mlb api %s returned %d: %s", endpoint, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type mlbPerson struct {
	ID              int    `json:"id"`
	FullName        string `json:"fullName"`
	PrimaryPosition struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"primaryPosition"`
	Stats []mlbStatGroup `json:"stats"`
}

type mlbStatGroup struct {
	Group struct {
		DisplayName string `json:"displayName"`
	} `json:"group"`
	Splits []struct {
		Stat mlbStatLine `json:"stat"`
	} `json:"splits"`
}

// statLine picks the person's stat split: hitting when present, pitching
// otherwise. Pure pitchers have no hitting split since the universal DH.
func (p mlbPerson) statLine() (mlbStatLine, bool) {
	var pitching *mlbStatLine
	for _, group := range p.Stats {
		if len(group.Splits) == 0 {
			continue
		}
		line := group.Splits[0].Stat
		switch group.Group.DisplayName {
		case "hitting":
			line.group = "hitting"
			return line, true
		case "pitching":
			line.group = "pitching"
			pitching = &line
		}
	}
	if pitching != nil {
		return *pitching, true
	}
	return mlbStatLine{}, false
}

type mlbStatLine struct {
	group string

	GamesPlayed int `json:"gamesPlayed"`

	// hitting
	Runs        int    `json:"runs"`
	HomeRuns    int    `json:"homeRuns"`
	RBI         int    `json:"rbi"`
	StolenBases int    `json:"stolenBases"`
	Avg         string `json:"avg"`

	// pitching
	Wins       int    `json:"wins"`
	StrikeOuts int    `json:"strikeOuts"`
	Saves      int    `json:"saves"`
	ERA        string `json:"era"`
	WHIP       string `json:"whip"`
}

// rates converts the line to the engine's stat map of per-game rates.
// Counting totals divide by the split's games so a 150-game season and an
// 8-game spring compare on the same scale; avg, ERA, and WHIP are already
// ratios and pass through. Hitters and pitchers carry disjoint keys so a
// league's weights only ever touch the right group.
func (l mlbStatLine) rates() map[string]float64 {
	perGame := func(total int) float64 {
		if l.GamesPlayed == 0 {
			return 0
		}
		return float64(total) / float64(l.GamesPlayed)
	}
	if l.group == "pitching" {
		return map[string]float64{
			models.StatWins:       perGame(l.Wins),
			models.StatStrikeouts: perGame(l.StrikeOuts),
			models.StatSaves:      perGame(l.Saves),
			models.StatERA:        parseDecimal(l.ERA),
			models.StatWHIP:       parseDecimal(l.WHIP),
		}
	}
	return map[string]float64{
		models.StatRuns:       perGame(l.Runs),
		models.StatHomeRuns:   perGame(l.HomeRuns),
		models.StatRBI:        perGame(l.RBI),
		models.StatStolenBase: perGame(l.StolenBases),
		models.StatBattingAvg: parseDecimal(l.Avg),
	}
}

// normalizePositions maps Stats API position abbreviations to the board's
// lineup positions. Outfield corners collapse to OF; a bare P is eligible
// for either pitching slot; two-way players hit and start.
func normalizePositions(raw string) []string {
	switch raw {
	case "LF", "CF", "RF", "OF":
		return []string{"OF"}
	case "P":
		return []string{"SP", "RP"}
	case "TWP":
		return []string{"DH", "SP"}
	case "C", "1B", "2B", "3B", "SS", "DH", "SP", "RP":
		return []string{raw}
	}
	return nil
}

// parseDecimal parses Stats API decimal strings (".271", "3.42"). Malformed
// or empty values read as 0.
func parseDecimal(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
