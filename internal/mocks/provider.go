package mocks

import (
	"context"
	"math"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
)

// MockStatProvider serves a canned 30-player pool so every surface works
// with no network access (OFFLINE=1, or providers left unconfigured in dev).
// Data is deterministic: the same board comes back on every run.
type MockStatProvider struct {
	sport models.Sport
}

// NewStatProvider creates the offline provider for a sport.
func NewStatProvider(sport models.Sport) *MockStatProvider {
	logger.Info("Using MOCK stat provider (offline pool)", "sport", sport)
	return &MockStatProvider{sport: sport}
}

func (m *MockStatProvider) Sport() models.Sport {
	return m.sport
}

// SeasonRecords returns the canned pool. NBA recent rates are the season
// line scaled by each player's trend; MLB lines are stored as split totals
// and served as per-game rates, with the spring split as the recent window,
// matching how the real providers shape theirs.
func (m *MockStatProvider) SeasonRecords(ctx context.Context, window int) ([]models.SeasonRecord, error) {
	pool := nbaPool
	if m.sport == models.SportMLB {
		pool = mlbPool
	}

	records := make([]models.SeasonRecord, 0, len(pool))
	for _, p := range pool {
		rec := models.SeasonRecord{
			Player: models.Player{
				ID:        p.id,
				Name:      p.name,
				Team:      p.team,
				Positions: append([]string(nil), p.positions...),
			},
			GamesPlayed: p.games,
		}
		switch m.sport {
		case models.SportNBA:
			rec.Season = copyRates(p.season)
			rec.Recent = scaledRecent(p.season, p.trendPct)
		case models.SportMLB:
			rec.Season = perGame(p.season, p.games)
			rec.Recent = perGame(p.spring, p.springGames)
		}
		records = append(records, rec)
	}

	logger.Debug("Mock provider: served season records", "sport", m.sport, "players", len(records))
	return records, nil
}

// LiveRecords returns tonight's canned box-score deltas for a few NBA
// players. MLB drafts happen in spring; there is nothing live.
func (m *MockStatProvider) LiveRecords(ctx context.Context) ([]models.LiveRecord, error) {
	if m.sport != models.SportNBA {
		return nil, nil
	}
	return []models.LiveRecord{
		{PlayerID: "1", Deltas: map[string]float64{"pts": 25, "reb": 10, "ast": 8, "min": 28}},  // Nikola Jokic
		{PlayerID: "6", Deltas: map[string]float64{"pts": 30, "reb": 12, "blk": 5, "min": 30}},  // Victor Wembanyama
		{PlayerID: "16", Deltas: map[string]float64{"pts": 28, "ast": 6, "stl": 3, "min": 31}}, // De'Aaron Fox
	}, nil
}

// nbaCountingStats are the keys a hot or cold streak moves; rate stats and
// minutes stay put when the trend scales the recent window.
var nbaCountingStats = []string{"pts", "reb", "ast", "stl", "blk", "fg3m", "tov"}

// scaledRecent derives a trailing-window line from a season line and a
// trend percentage.
func scaledRecent(season map[string]float64, trendPct float64) map[string]float64 {
	scale := 1 + trendPct/100
	recent := make(map[string]float64, len(season))
	for name, rate := range season {
		recent[name] = rate
	}
	for _, name := range nbaCountingStats {
		if rate, ok := season[name]; ok {
			recent[name] = math.Round(rate*scale*10) / 10
		}
	}
	return recent
}

func copyRates(rates map[string]float64) map[string]float64 {
	if rates == nil {
		return nil
	}
	out := make(map[string]float64, len(rates))
	for name, rate := range rates {
		out[name] = rate
	}
	return out
}

// mlbRatioStats are already ratios; every other MLB stat in a mock line is a
// counting total that divides by the split's games.
var mlbRatioStats = map[string]bool{
	models.StatBattingAvg: true,
	models.StatERA:        true,
	models.StatWHIP:       true,
}

// perGame converts an MLB totals line to per-game rates. Ratio stats pass
// through untouched; a nil line stays nil.
func perGame(totals map[string]float64, games int) map[string]float64 {
	if totals == nil {
		return nil
	}
	rates := make(map[string]float64, len(totals))
	for name, total := range totals {
		switch {
		case mlbRatioStats[name]:
			rates[name] = total
		case games <= 0:
			rates[name] = 0
		default:
			rates[name] = total / float64(games)
		}
	}
	return rates
}

// mockPlayer is one canned pool entry. NBA lines are per-game rates with a
// trend percentage; MLB lines are split totals with per-split game counts,
// divided to rates when served.
type mockPlayer struct {
	id          string
	name        string
	team        string
	positions   []string
	season      map[string]float64
	trendPct    float64
	spring      map[string]float64
	games       int
	springGames int
}

func nbaLine(pts, reb, ast, stl, blk, fg3m, tov, fgPct, ftPct, min float64) map[string]float64 {
	return map[string]float64{
		"pts": pts, "reb": reb, "ast": ast, "stl": stl, "blk": blk,
		"fg3m": fg3m, "tov": tov, "fg_pct": fgPct, "ft_pct": ftPct, "min": min,
	}
}

func hitterLine(r, hr, rbi, sb, avg float64) map[string]float64 {
	return map[string]float64{"r": r, "hr": hr, "rbi": rbi, "sb": sb, "avg": avg}
}

func pitcherLine(w, so, sv, era, whip float64) map[string]float64 {
	return map[string]float64{"w": w, "so": so, "sv": sv, "era": era, "whip": whip}
}

// nbaPool mirrors the default demonstration pool the assistant shipped with.
var nbaPool = []mockPlayer{
	{id: "1", name: "Nikola Jokic", team: "DEN", positions: []string{"C"}, season: nbaLine(26.4, 12.4, 9.0, 1.4, 0.9, 1.0, 3.0, 0.583, 0.817, 34.6), trendPct: 3, games: 79},
	{id: "2", name: "Luka Doncic", team: "DAL", positions: []string{"PG", "SG"}, season: nbaLine(33.9, 9.2, 9.8, 1.4, 0.5, 4.1, 4.0, 0.487, 0.786, 37.5), trendPct: 1, games: 70},
	{id: "3", name: "Shai Gilgeous-Alexander", team: "OKC", positions: []string{"PG", "SG"}, season: nbaLine(30.1, 5.5, 6.2, 2.0, 0.9, 1.3, 2.2, 0.535, 0.874, 34.0), trendPct: 4, games: 75},
	{id: "4", name: "Jayson Tatum", team: "BOS", positions: []string{"SF", "PF"}, season: nbaLine(26.9, 8.1, 4.9, 1.0, 0.6, 3.1, 2.5, 0.471, 0.833, 35.7), trendPct: -2, games: 74},
	{id: "5", name: "Anthony Edwards", team: "MIN", positions: []string{"SG", "SF"}, season: nbaLine(25.9, 5.4, 5.1, 1.3, 0.5, 2.8, 3.1, 0.461, 0.836, 35.1), trendPct: 6, games: 79},
	{id: "6", name: "Victor Wembanyama", team: "SAS", positions: []string{"C", "PF"}, season: nbaLine(21.4, 10.6, 3.9, 1.2, 3.6, 1.8, 3.7, 0.465, 0.796, 29.7), trendPct: 18, games: 71},
	{id: "7", name: "Tyrese Haliburton", team: "IND", positions: []string{"PG"}, season: nbaLine(20.1, 3.9, 10.9, 1.2, 0.7, 3.0, 2.3, 0.477, 0.855, 32.2), trendPct: -9, games: 69},
	{id: "8", name: "Domantas Sabonis", team: "SAC", positions: []string{"C", "PF"}, season: nbaLine(19.4, 13.7, 8.2, 0.9, 0.6, 0.4, 3.4, 0.594, 0.704, 35.7), trendPct: 2, games: 82},
	{id: "9", name: "LeBron James", team: "LAL", positions: []string{"SF", "PF"}, season: nbaLine(25.7, 7.3, 8.3, 1.3, 0.5, 2.1, 3.5, 0.540, 0.750, 35.3), trendPct: -6, games: 71},
	{id: "10", name: "Kevin Durant", team: "PHX", positions: []string{"SF", "PF"}, season: nbaLine(27.1, 6.6, 5.0, 0.9, 1.2, 2.2, 3.3, 0.523, 0.856, 37.2), trendPct: -4, games: 75},
	{id: "11", name: "Damian Lillard", team: "MIL", positions: []string{"PG"}, season: nbaLine(24.3, 4.4, 7.0, 1.0, 0.2, 3.0, 2.6, 0.424, 0.920, 35.3), trendPct: -12, games: 73},
	{id: "12", name: "Devin Booker", team: "PHX", positions: []string{"PG", "SG"}, season: nbaLine(27.1, 4.5, 6.9, 0.9, 0.4, 2.0, 2.6, 0.492, 0.886, 36.0), trendPct: 2, games: 68},
	{id: "13", name: "Anthony Davis", team: "LAL", positions: []string{"C", "PF"}, season: nbaLine(24.7, 12.6, 3.5, 1.2, 2.3, 0.5, 2.1, 0.556, 0.816, 35.5), trendPct: 5, games: 76},
	{id: "14", name: "Trae Young", team: "ATL", positions: []string{"PG"}, season: nbaLine(25.7, 2.8, 10.8, 1.3, 0.2, 3.0, 4.4, 0.430, 0.858, 36.0), trendPct: -8, games: 54},
	{id: "15", name: "Bam Adebayo", team: "MIA", positions: []string{"C"}, season: nbaLine(19.3, 10.4, 3.9, 1.1, 0.9, 0.1, 2.3, 0.521, 0.755, 34.0), trendPct: 1, games: 71},
	{id: "16", name: "De'Aaron Fox", team: "SAC", positions: []string{"PG"}, season: nbaLine(26.6, 4.6, 5.6, 2.0, 0.4, 3.0, 2.6, 0.465, 0.738, 35.9), trendPct: 7, games: 74},
	{id: "17", name: "Donovan Mitchell", team: "CLE", positions: []string{"SG"}, season: nbaLine(26.6, 5.1, 6.1, 1.8, 0.5, 3.4, 2.8, 0.462, 0.865, 35.3), trendPct: 0, games: 55},
	{id: "18", name: "Jalen Brunson", team: "NYK", positions: []string{"PG"}, season: nbaLine(28.7, 3.6, 6.7, 0.9, 0.2, 2.7, 2.4, 0.479, 0.847, 35.4), trendPct: 9, games: 77},
	{id: "19", name: "Jaren Jackson Jr", team: "MEM", positions: []string{"PF", "C"}, season: nbaLine(22.5, 5.5, 2.3, 1.2, 1.6, 1.9, 2.4, 0.444, 0.814, 32.7), trendPct: 4, games: 66},
	{id: "20", name: "Chet Holmgren", team: "OKC", positions: []string{"C", "PF"}, season: nbaLine(16.5, 7.9, 2.4, 0.6, 2.3, 1.6, 1.7, 0.530, 0.793, 29.4), trendPct: 16, games: 82},
	{id: "21", name: "Paolo Banchero", team: "ORL", positions: []string{"PF", "SF"}, season: nbaLine(22.6, 6.9, 5.4, 0.9, 0.6, 1.5, 3.1, 0.455, 0.725, 35.0), trendPct: 11, games: 80},
	{id: "22", name: "Scottie Barnes", team: "TOR", positions: []string{"SF", "PF"}, season: nbaLine(19.9, 8.2, 6.1, 1.3, 1.5, 1.7, 2.8, 0.475, 0.781, 34.9), trendPct: 13, games: 60},
	{id: "23", name: "Darius Garland", team: "CLE", positions: []string{"PG"}, season: nbaLine(18.0, 2.7, 6.5, 1.3, 0.1, 2.4, 2.7, 0.446, 0.833, 33.4), trendPct: -3, games: 57},
	{id: "24", name: "Tyler Herro", team: "MIA", positions: []string{"SG", "PG"}, season: nbaLine(20.8, 5.3, 4.5, 0.8, 0.2, 3.0, 2.1, 0.439, 0.852, 33.0), trendPct: 2, games: 42},
	{id: "25", name: "Lauri Markkanen", team: "UTA", positions: []string{"PF", "SF"}, season: nbaLine(23.2, 8.2, 2.0, 0.9, 0.5, 3.0, 1.9, 0.480, 0.899, 33.3), trendPct: -1, games: 55},
	{id: "26", name: "Franz Wagner", team: "ORL", positions: []string{"SF", "SG"}, season: nbaLine(19.7, 5.3, 3.7, 1.1, 0.4, 1.5, 2.1, 0.481, 0.842, 32.5), trendPct: 14, games: 72},
	{id: "27", name: "Cade Cunningham", team: "DET", positions: []string{"PG", "SG"}, season: nbaLine(22.7, 4.3, 7.5, 0.9, 0.4, 2.0, 3.4, 0.449, 0.869, 33.5), trendPct: 15, games: 62},
	{id: "28", name: "Tyrese Maxey", team: "PHI", positions: []string{"PG", "SG"}, season: nbaLine(25.9, 3.7, 6.2, 1.0, 0.5, 3.0, 1.7, 0.450, 0.868, 37.5), trendPct: 5, games: 70},
	{id: "29", name: "Desmond Bane", team: "MEM", positions: []string{"SG", "SF"}, season: nbaLine(23.7, 4.4, 5.5, 1.0, 0.4, 3.0, 2.7, 0.466, 0.881, 33.5), trendPct: 3, games: 42},
	{id: "30", name: "Dejounte Murray", team: "ATL", positions: []string{"PG", "SG"}, season: nbaLine(22.5, 5.3, 6.4, 1.4, 0.3, 2.5, 2.4, 0.459, 0.790, 35.7), trendPct: -5, games: 78},
}

// mlbPool mirrors the default demonstration pool; lines are split totals
// divided by the split's games when served, so the spring window and the
// season compare per game. Gerrit Cole has no spring line, which exercises
// the season-only path.
var mlbPool = []mockPlayer{
	{id: "1", name: "Shohei Ohtani", team: "LAD", positions: []string{"DH", "SP"}, season: hitterLine(134, 54, 130, 59, 0.310), spring: hitterLine(8, 3, 9, 2, 0.364), games: 159, springGames: 9},
	{id: "2", name: "Aaron Judge", team: "NYY", positions: []string{"OF"}, season: hitterLine(122, 58, 144, 10, 0.322), spring: hitterLine(6, 2, 8, 0, 0.290), games: 158, springGames: 7},
	{id: "3", name: "Ronald Acuna Jr", team: "ATL", positions: []string{"OF"}, season: hitterLine(149, 41, 106, 73, 0.337), spring: hitterLine(7, 1, 5, 4, 0.310), games: 159, springGames: 7},
	{id: "4", name: "Mookie Betts", team: "LAD", positions: []string{"OF", "2B"}, season: hitterLine(126, 39, 107, 14, 0.307), spring: hitterLine(6, 2, 7, 1, 0.320), games: 152, springGames: 8},
	{id: "5", name: "Freddie Freeman", team: "LAD", positions: []string{"1B"}, season: hitterLine(131, 29, 102, 23, 0.331), spring: hitterLine(5, 1, 6, 1, 0.305), games: 161, springGames: 7},
	{id: "6", name: "Trea Turner", team: "PHI", positions: []string{"SS"}, season: hitterLine(102, 26, 76, 30, 0.266), spring: hitterLine(7, 2, 6, 3, 0.330), games: 155, springGames: 10},
	{id: "7", name: "Juan Soto", team: "NYY", positions: []string{"OF"}, season: hitterLine(97, 35, 109, 12, 0.275), spring: hitterLine(8, 3, 8, 1, 0.358), games: 162, springGames: 11},
	{id: "8", name: "Corey Seager", team: "TEX", positions: []string{"SS"}, season: hitterLine(88, 33, 96, 2, 0.327), spring: hitterLine(4, 1, 5, 0, 0.285), games: 119, springGames: 6},
	{id: "9", name: "Bobby Witt Jr", team: "KC", positions: []string{"SS"}, season: hitterLine(97, 30, 96, 49, 0.276), spring: hitterLine(9, 2, 7, 5, 0.370), games: 158, springGames: 11},
	{id: "10", name: "Julio Rodriguez", team: "SEA", positions: []string{"OF"}, season: hitterLine(102, 32, 103, 37, 0.275), spring: hitterLine(6, 1, 4, 2, 0.295), games: 155, springGames: 7},
	{id: "11", name: "Corbin Carroll", team: "ARI", positions: []string{"OF"}, season: hitterLine(116, 25, 76, 54, 0.285), spring: hitterLine(7, 1, 4, 4, 0.315), games: 155, springGames: 9},
	{id: "12", name: "Gunnar Henderson", team: "BAL", positions: []string{"SS", "3B"}, season: hitterLine(100, 28, 82, 10, 0.255), spring: hitterLine(9, 3, 9, 2, 0.365), games: 150, springGames: 12},
	{id: "13", name: "Elly De La Cruz", team: "CIN", positions: []string{"SS"}, season: hitterLine(67, 13, 44, 35, 0.235), spring: hitterLine(10, 2, 6, 6, 0.360), games: 98, springGames: 12},
	{id: "14", name: "Marcus Semien", team: "TEX", positions: []string{"2B"}, season: hitterLine(122, 29, 100, 14, 0.276), spring: hitterLine(5, 1, 5, 1, 0.280), games: 162, springGames: 7},
	{id: "15", name: "Vladimir Guerrero Jr", team: "TOR", positions: []string{"1B"}, season: hitterLine(78, 26, 94, 5, 0.264), spring: hitterLine(7, 3, 10, 0, 0.355), games: 156, springGames: 12},
	{id: "16", name: "Spencer Strider", team: "ATL", positions: []string{"SP"}, season: pitcherLine(20, 281, 0, 3.86, 1.09), spring: pitcherLine(2, 25, 0, 2.10, 0.90), games: 32, springGames: 3},
	{id: "17", name: "Zack Wheeler", team: "PHI", positions: []string{"SP"}, season: pitcherLine(13, 212, 0, 3.61, 1.08), spring: pitcherLine(1, 14, 0, 3.00, 1.05), games: 32, springGames: 2},
	{id: "18", name: "Gerrit Cole", team: "NYY", positions: []string{"SP"}, season: pitcherLine(15, 222, 0, 2.63, 0.98), games: 33},
	{id: "19", name: "Corbin Burnes", team: "BAL", positions: []string{"SP"}, season: pitcherLine(10, 200, 0, 3.39, 1.07), spring: pitcherLine(2, 16, 0, 2.70, 1.00), games: 32, springGames: 3},
	{id: "20", name: "Yoshinobu Yamamoto", team: "LAD", positions: []string{"SP"}, season: pitcherLine(8, 120, 0, 3.20, 1.05), spring: pitcherLine(2, 18, 0, 1.80, 0.85), games: 23, springGames: 3},
	{id: "21", name: "Dylan Cease", team: "SD", positions: []string{"SP"}, season: pitcherLine(7, 214, 0, 4.58, 1.42), spring: pitcherLine(2, 19, 0, 2.40, 1.00), games: 33, springGames: 4},
	{id: "22", name: "Logan Webb", team: "SF", positions: []string{"SP"}, season: pitcherLine(11, 194, 0, 3.25, 1.07), spring: pitcherLine(1, 17, 0, 3.10, 1.10), games: 33, springGames: 3},
	{id: "23", name: "Bryce Harper", team: "PHI", positions: []string{"1B", "DH"}, season: hitterLine(84, 21, 72, 11, 0.293), spring: hitterLine(5, 2, 7, 1, 0.325), games: 126, springGames: 10},
	{id: "24", name: "Matt Olson", team: "ATL", positions: []string{"1B"}, season: hitterLine(127, 54, 139, 1, 0.283), spring: hitterLine(4, 2, 7, 0, 0.270), games: 162, springGames: 8},
	{id: "25", name: "Pete Alonso", team: "NYM", positions: []string{"1B"}, season: hitterLine(92, 46, 118, 4, 0.217), spring: hitterLine(5, 3, 8, 0, 0.265), games: 154, springGames: 10},
	{id: "26", name: "Bo Bichette", team: "TOR", positions: []string{"SS"}, season: hitterLine(69, 20, 73, 5, 0.306), spring: hitterLine(6, 1, 5, 1, 0.340), games: 135, springGames: 8},
	{id: "27", name: "Jose Ramirez", team: "CLE", positions: []string{"3B"}, season: hitterLine(87, 24, 80, 28, 0.282), spring: hitterLine(6, 1, 6, 2, 0.300), games: 156, springGames: 9},
	{id: "28", name: "Kyle Tucker", team: "HOU", positions: []string{"OF"}, season: hitterLine(97, 29, 112, 30, 0.284), spring: hitterLine(7, 2, 8, 2, 0.335), games: 157, springGames: 11},
	{id: "29", name: "Adley Rutschman", team: "BAL", positions: []string{"C"}, season: hitterLine(84, 20, 80, 1, 0.277), spring: hitterLine(5, 1, 6, 0, 0.290), games: 154, springGames: 9},
	{id: "30", name: "Jackson Chourio", team: "MIL", positions: []string{"OF"}, season: hitterLine(10, 2, 8, 4, 0.247), spring: hitterLine(11, 3, 9, 5, 0.390), games: 20, springGames: 16},
}
