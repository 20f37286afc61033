package engine

import (
	"fmt"
	"testing"

	"github.com/warroom-labs/draftboard/internal/models"
)

func vorSettings(slots map[string]int, leagueSize, depth int) models.LeagueSettings {
	return models.LeagueSettings{
		Sport:            models.SportNBA,
		Format:           models.FormatPoints,
		RosterSlots:      slots,
		LeagueSize:       leagueSize,
		ReplacementDepth: depth,
	}
}

func TestComputeVORBaselineFromRosterSlots(t *testing.T) {
	pool := make([]models.Player, 5)
	values := make(map[string]float64, 5)
	for i := range pool {
		id := fmt.Sprintf("pg%d", i)
		pool[i] = models.Player{ID: id, Positions: []string{"PG"}}
		values[id] = 100.0 - float64(i)*10.0 // 100, 90, 80, 70, 60
	}
	settings := vorSettings(map[string]int{"PG": 1}, 3, 0)

	playerValues, baselines := ComputeVOR(pool, nil, values, settings)

	// 1 slot x 3 teams puts the baseline at the 4th-ranked player.
	if !almostEqual(baselines["PG"], 70.0) {
		t.Fatalf("expected baseline 70, got %f", baselines["PG"])
	}
	wantVOR := []float64{30, 20, 10, 0, -10}
	for i, pv := range playerValues {
		if !almostEqual(pv.VOR, wantVOR[i]) {
			t.Errorf("player %s: expected VOR %f, got %f", pv.Player.ID, wantVOR[i], pv.VOR)
		}
	}
}

// A replacement depth past the end of a thin pool clamps to the
// lowest-ranked available player, never extrapolating below the pool.
func TestComputeVORBaselineClampedToThinPool(t *testing.T) {
	pool := []models.Player{
		{ID: "c1", Positions: []string{"C"}},
		{ID: "c2", Positions: []string{"C"}},
		{ID: "c3", Positions: []string{"C"}},
	}
	values := map[string]float64{"c1": 50, "c2": 40, "c3": 30}
	settings := vorSettings(map[string]int{"C": 1}, 12, 5)

	playerValues, baselines := ComputeVOR(pool, nil, values, settings)

	if !almostEqual(baselines["C"], 30.0) {
		t.Fatalf("expected clamped baseline 30, got %f", baselines["C"])
	}
	wantVOR := map[string]float64{"c1": 20, "c2": 10, "c3": 0}
	for _, pv := range playerValues {
		if !almostEqual(pv.VOR, wantVOR[pv.Player.ID]) {
			t.Errorf("player %s: expected VOR %f, got %f", pv.Player.ID, wantVOR[pv.Player.ID], pv.VOR)
		}
	}
}

// Drafting any player must never raise a remaining player's VOR at that
// position: the baseline can only rise or hold as the pool shrinks.
func TestComputeVORMonotonicUnderDrafting(t *testing.T) {
	pool := make([]models.Player, 5)
	values := make(map[string]float64, 5)
	for i := range pool {
		id := fmt.Sprintf("pg%d", i)
		pool[i] = models.Player{ID: id, Positions: []string{"PG"}}
		values[id] = 100.0 - float64(i)*10.0
	}
	settings := vorSettings(map[string]int{"PG": 1}, 3, 0)

	before, beforeBase := ComputeVOR(pool, nil, values, settings)
	beforeVOR := make(map[string]float64, len(before))
	for _, pv := range before {
		beforeVOR[pv.Player.ID] = pv.VOR
	}

	for i := range pool {
		t.Run(fmt.Sprintf("draft %s", pool[i].ID), func(t *testing.T) {
			remaining := make([]models.Player, 0, len(pool)-1)
			remaining = append(remaining, pool[:i]...)
			remaining = append(remaining, pool[i+1:]...)
			drafted := []models.Player{pool[i]}

			after, afterBase := ComputeVOR(remaining, drafted, values, settings)
			if afterBase["PG"] < beforeBase["PG"]-1e-9 {
				t.Errorf("baseline fell from %f to %f", beforeBase["PG"], afterBase["PG"])
			}
			for _, pv := range after {
				if pv.VOR > beforeVOR[pv.Player.ID]+1e-9 {
					t.Errorf("player %s: VOR rose from %f to %f after a draft",
						pv.Player.ID, beforeVOR[pv.Player.ID], pv.VOR)
				}
			}
		})
	}
}

func TestComputeVORMultiPositionTakesBestPosition(t *testing.T) {
	pool := []models.Player{
		{ID: "pg1", Positions: []string{"PG"}},
		{ID: "pg2", Positions: []string{"PG"}},
		{ID: "combo", Positions: []string{"PG", "SG"}},
		{ID: "sg1", Positions: []string{"SG"}},
		{ID: "sg2", Positions: []string{"SG"}},
	}
	values := map[string]float64{"pg1": 50, "pg2": 45, "combo": 40, "sg1": 30, "sg2": 20}
	settings := vorSettings(map[string]int{"PG": 1, "SG": 1}, 1, 0)

	playerValues, baselines := ComputeVOR(pool, nil, values, settings)

	// PG baseline 45, SG baseline 30: the combo guard is worth -5 at PG but
	// +10 at SG, so SG wins and becomes his scarcity key.
	if !almostEqual(baselines["PG"], 45.0) || !almostEqual(baselines["SG"], 30.0) {
		t.Fatalf("unexpected baselines: PG=%f SG=%f", baselines["PG"], baselines["SG"])
	}
	for _, pv := range playerValues {
		if pv.Player.ID != "combo" {
			continue
		}
		if pv.Position != "SG" {
			t.Errorf("expected combo guard keyed to SG, got %s", pv.Position)
		}
		if !almostEqual(pv.VOR, 10.0) {
			t.Errorf("expected combo VOR 10, got %f", pv.VOR)
		}
	}
}

func TestComputeVORMultiPositionTiePrefersFirstListed(t *testing.T) {
	pool := []models.Player{{ID: "solo", Positions: []string{"PG", "SG"}}}
	values := map[string]float64{"solo": 40}
	settings := vorSettings(map[string]int{"PG": 1, "SG": 1}, 2, 0)

	playerValues, _ := ComputeVOR(pool, nil, values, settings)
	if len(playerValues) != 1 {
		t.Fatalf("expected 1 scored player, got %d", len(playerValues))
	}
	if playerValues[0].Position != "PG" {
		t.Errorf("VOR tie should keep the first listed position, got %s", playerValues[0].Position)
	}
	if !almostEqual(playerValues[0].VOR, 0.0) {
		t.Errorf("lone player is his own baseline, expected VOR 0, got %f", playerValues[0].VOR)
	}
}

func TestComputeVORSkipsPlayersWithoutValues(t *testing.T) {
	pool := []models.Player{
		{ID: "scored", Positions: []string{"PG"}},
		{ID: "unscored", Positions: []string{"PG"}},
	}
	values := map[string]float64{"scored": 30}
	settings := vorSettings(map[string]int{"PG": 1}, 1, 0)

	playerValues, _ := ComputeVOR(pool, nil, values, settings)
	if len(playerValues) != 1 {
		t.Fatalf("expected 1 scored player, got %d", len(playerValues))
	}
	if playerValues[0].Player.ID != "scored" {
		t.Errorf("unexpected player %s", playerValues[0].Player.ID)
	}
}
