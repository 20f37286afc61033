package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/warroom-labs/draftboard/internal/models"
)

func TestCannedPoolsAreWellFormed(t *testing.T) {
	for _, sport := range []models.Sport{models.SportNBA, models.SportMLB} {
		t.Run(string(sport), func(t *testing.T) {
			provider := NewStatProvider(sport)

			records, err := provider.SeasonRecords(context.Background(), 10)
			if err != nil {
				t.Fatalf("SeasonRecords: %v", err)
			}
			if len(records) != 30 {
				t.Fatalf("expected 30 pool players, got %d", len(records))
			}

			seen := make(map[string]bool)
			for _, rec := range records {
				if seen[rec.Player.ID] {
					t.Errorf("duplicate player id %s", rec.Player.ID)
				}
				seen[rec.Player.ID] = true

				if rec.Player.Name == "" || rec.Player.Team == "" {
					t.Errorf("player %s missing identity fields", rec.Player.ID)
				}
				if len(rec.Player.Positions) == 0 {
					t.Errorf("player %s has no positions", rec.Player.ID)
				}
				for _, pos := range rec.Player.Positions {
					if !models.KnownPlayerPosition(sport, pos) {
						t.Errorf("player %s has unknown position %s", rec.Player.Name, pos)
					}
				}
				if rec.GamesPlayed <= 0 {
					t.Errorf("player %s has no games played", rec.Player.Name)
				}

				for name := range rec.Season {
					if !models.KnownStat(sport, name) {
						t.Errorf("player %s season stat %s outside %s schema", rec.Player.Name, name, sport)
					}
				}
				for name := range rec.Recent {
					if !models.KnownStat(sport, name) {
						t.Errorf("player %s recent stat %s outside %s schema", rec.Player.Name, name, sport)
					}
				}
			}
		})
	}
}

func TestNBARecentScalesWithTrend(t *testing.T) {
	provider := NewStatProvider(models.SportNBA)

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}

	byName := make(map[string]models.SeasonRecord)
	for _, rec := range records {
		byName[rec.Player.Name] = rec
	}

	// Wembanyama trends up 18%; his recent points must sit well above season.
	wemby := byName["Victor Wembanyama"]
	if wemby.Recent["pts"] <= wemby.Season["pts"] {
		t.Errorf("expected Wembanyama recent pts above season, got %v vs %v", wemby.Recent["pts"], wemby.Season["pts"])
	}

	// Lillard trends down 12%.
	dame := byName["Damian Lillard"]
	if dame.Recent["pts"] >= dame.Season["pts"] {
		t.Errorf("expected Lillard recent pts below season, got %v vs %v", dame.Recent["pts"], dame.Season["pts"])
	}

	// Percentages don't ride the trend.
	if wemby.Recent["fg_pct"] != wemby.Season["fg_pct"] {
		t.Errorf("fg_pct should not scale with trend: %v vs %v", wemby.Recent["fg_pct"], wemby.Season["fg_pct"])
	}
}

func TestMLBHittersAndPitchersCarryDisjointKeys(t *testing.T) {
	provider := NewStatProvider(models.SportMLB)

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}

	for _, rec := range records {
		_, hits := rec.Season["hr"]
		_, pitches := rec.Season["era"]
		if hits && pitches {
			t.Errorf("player %s carries both hitting and pitching keys", rec.Player.Name)
		}
		if !hits && !pitches {
			t.Errorf("player %s carries neither stat group", rec.Player.Name)
		}
	}
}

func TestMLBRecordsArePerGameRates(t *testing.T) {
	provider := NewStatProvider(models.SportMLB)

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}

	byName := make(map[string]models.SeasonRecord)
	for _, rec := range records {
		byName[rec.Player.Name] = rec
	}

	// Judge's 58 home runs over 158 games serve as a per-game rate, not the
	// raw total.
	judge := byName["Aaron Judge"]
	if judge.Season["hr"] != 58.0/158 {
		t.Errorf("expected Judge hr rate %v, got %v", 58.0/158, judge.Season["hr"])
	}
	if judge.Season["avg"] != 0.322 {
		t.Errorf("avg is a ratio and must not divide, got %v", judge.Season["avg"])
	}

	// The spring split divides by its own game count, not the season's.
	witt := byName["Bobby Witt Jr"]
	if witt.Recent["hr"] != 2.0/11 {
		t.Errorf("expected Witt spring hr rate %v, got %v", 2.0/11, witt.Recent["hr"])
	}
	if witt.Recent["avg"] != 0.370 {
		t.Errorf("spring avg must pass through, got %v", witt.Recent["avg"])
	}

	// Pitchers divide by starts.
	cole := byName["Gerrit Cole"]
	if cole.Season["so"] != 222.0/33 {
		t.Errorf("expected Cole strikeout rate %v, got %v", 222.0/33, cole.Season["so"])
	}
	if cole.Season["era"] != 2.63 {
		t.Errorf("era is a ratio and must not divide, got %v", cole.Season["era"])
	}
}

// The spring window and the season line compare per game, so the pool's
// trends read as a realistic mix: most veterans steady, a band of spring
// surgers up, a couple of slow camps down. Totals-scale lines would read
// DOWN across the board and no sleeper could ever surface.
func TestMLBSpringTrendsAreMixed(t *testing.T) {
	provider := NewStatProvider(models.SportMLB)

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}

	weights := models.DefaultPointsWeights(models.SportMLB)
	composite := func(rates map[string]float64) float64 {
		var total float64
		for name, w := range weights {
			total += w * rates[name]
		}
		return total
	}

	var ups, steadies, downs int
	deltas := make(map[string]float64)
	for _, rec := range records {
		if len(rec.Recent) == 0 {
			continue
		}
		season := composite(rec.Season)
		if season <= 0 {
			t.Fatalf("player %s has a non-positive season composite", rec.Player.Name)
		}
		delta := (composite(rec.Recent) - season) / season
		deltas[rec.Player.Name] = delta
		switch {
		case delta >= models.TrendThreshold:
			ups++
		case delta <= -models.TrendThreshold:
			downs++
		default:
			steadies++
		}
	}

	if ups < 3 {
		t.Errorf("expected at least 3 players trending up, got %d (%v)", ups, deltas)
	}
	if steadies < 5 {
		t.Errorf("expected at least 5 steady players, got %d (%v)", steadies, deltas)
	}
	if downs < 1 {
		t.Errorf("expected at least one player trending down, got %d", downs)
	}
	if active := ups + steadies + downs; downs > active/2 {
		t.Errorf("spring-active players skew down: %d of %d (%v)", downs, active, deltas)
	}

	// Witt's hot spring reads as a surge.
	if delta := deltas["Bobby Witt Jr"]; delta < models.TrendThreshold {
		t.Errorf("expected Witt trending up, got delta %.3f", delta)
	}
	// Olson's slow camp reads as a slump.
	if delta := deltas["Matt Olson"]; delta > -models.TrendThreshold {
		t.Errorf("expected Olson trending down, got delta %.3f", delta)
	}
}

func TestMLBSeasonOnlyPlayerHasNoRecent(t *testing.T) {
	provider := NewStatProvider(models.SportMLB)

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}

	for _, rec := range records {
		if rec.Player.Name == "Gerrit Cole" {
			if len(rec.Recent) != 0 {
				t.Errorf("expected no spring line for Gerrit Cole, got %v", rec.Recent)
			}
			return
		}
	}
	t.Fatal("Gerrit Cole missing from pool")
}

func TestLiveRecordsMatchPool(t *testing.T) {
	provider := NewStatProvider(models.SportNBA)

	live, err := provider.LiveRecords(context.Background())
	if err != nil {
		t.Fatalf("LiveRecords: %v", err)
	}
	if len(live) == 0 {
		t.Fatal("expected live records for the NBA pool")
	}

	records, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}
	pool := make(map[string]bool)
	for _, rec := range records {
		pool[rec.Player.ID] = true
	}

	for _, rec := range live {
		if !pool[rec.PlayerID] {
			t.Errorf("live record for %s has no pool player", rec.PlayerID)
		}
		if len(rec.Deltas) == 0 {
			t.Errorf("live record for %s has no deltas", rec.PlayerID)
		}
	}

	mlb := NewStatProvider(models.SportMLB)
	mlbLive, err := mlb.LiveRecords(context.Background())
	if err != nil {
		t.Fatalf("MLB LiveRecords: %v", err)
	}
	if mlbLive != nil {
		t.Errorf("expected no MLB live records, got %d", len(mlbLive))
	}
}

func TestSeasonRecordsReturnFreshCopies(t *testing.T) {
	provider := NewStatProvider(models.SportNBA)

	first, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}
	first[0].Season["pts"] = -1

	second, err := provider.SeasonRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("SeasonRecords: %v", err)
	}
	if second[0].Season["pts"] == -1 {
		t.Error("mutating a returned record leaked into the canned pool")
	}
}

func TestWarehouseSyncSkipsUnknownPlayers(t *testing.T) {
	wh := NewWarehouse()

	pool := map[string]bool{"1": true, "2": true, "16": true}
	updated := make(map[string]map[string]float64)

	err := wh.SyncRecentRates(context.Background(), 10, func(playerID string, rates map[string]float64) error {
		if !pool[playerID] {
			return errors.New("player not in pool")
		}
		updated[playerID] = rates
		return nil
	})
	if err != nil {
		t.Fatalf("SyncRecentRates: %v", err)
	}

	if len(updated) != 3 {
		t.Errorf("expected 3 pool players updated, got %d", len(updated))
	}
	if rates, ok := updated["1"]; ok {
		if rates["pts"] <= 0 {
			t.Errorf("expected positive pts rate, got %v", rates["pts"])
		}
	} else {
		t.Error("player 1 missing from sync updates")
	}
}

func TestWarehousePlayerRecentRates(t *testing.T) {
	wh := NewWarehouse()

	rates, err := wh.PlayerRecentRates(context.Background(), "1", 10)
	if err != nil {
		t.Fatalf("PlayerRecentRates: %v", err)
	}
	// Variance is ±5% around 27.5.
	if rates["pts"] < 26.0 || rates["pts"] > 29.0 {
		t.Errorf("pts rate %v outside variance band", rates["pts"])
	}

	if _, err := wh.PlayerRecentRates(context.Background(), "nope", 10); err == nil {
		t.Error("expected error for player without game logs")
	}
}
