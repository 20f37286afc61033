package engine

import (
	"testing"

	"github.com/warroom-labs/draftboard/internal/models"
)

func TestDetectTrendThresholds(t *testing.T) {
	weights := map[string]float64{models.StatPoints: 1.0}

	testCases := []struct {
		name   string
		season float64
		recent float64
		want   models.TrendDirection
	}{
		{"up at exactly +10%", 30.0, 33.0, models.TrendUp},
		{"steady just under +10%", 30.0, 32.9, models.TrendSteady},
		{"down at exactly -10%", 30.0, 27.0, models.TrendDown},
		{"steady just inside -10%", 30.0, 27.1, models.TrendSteady},
		{"flat is steady", 25.0, 25.0, models.TrendSteady},
		{"big surge", 20.0, 40.0, models.TrendUp},
		{"big slump", 20.0, 5.0, models.TrendDown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap := models.StatSnapshot{
				PlayerID:  "p1",
				SeasonAvg: map[string]float64{models.StatPoints: tc.season},
				RecentAvg: map[string]float64{models.StatPoints: tc.recent},
			}
			trend := DetectTrend(models.SportNBA, snap, weights)
			if trend.Direction != tc.want {
				t.Errorf("season %.1f recent %.1f: expected %s, got %s",
					tc.season, tc.recent, tc.want, trend.Direction)
			}
		})
	}
}

func TestDetectTrendReportsDeltaPct(t *testing.T) {
	weights := map[string]float64{models.StatPoints: 1.0}
	snap := models.StatSnapshot{
		PlayerID:  "p1",
		SeasonAvg: map[string]float64{models.StatPoints: 40.0},
		RecentAvg: map[string]float64{models.StatPoints: 48.0},
	}

	trend := DetectTrend(models.SportNBA, snap, weights)
	if trend.Direction != models.TrendUp {
		t.Fatalf("expected UP, got %s", trend.Direction)
	}
	if !almostEqual(trend.DeltaPct, 0.20) {
		t.Errorf("expected delta 0.20, got %f", trend.DeltaPct)
	}
}

// A zero season baseline must never read as a swing, no matter how loud the
// recent window is.
func TestDetectTrendZeroSeasonGuard(t *testing.T) {
	weights := map[string]float64{models.StatPoints: 1.0}
	snap := models.StatSnapshot{
		PlayerID:  "rookie",
		SeasonAvg: map[string]float64{models.StatPoints: 0},
		RecentAvg: map[string]float64{models.StatPoints: 25.0},
	}

	trend := DetectTrend(models.SportNBA, snap, weights)
	if trend.Direction != models.TrendSteady {
		t.Errorf("zero season baseline should be STEADY, got %s", trend.Direction)
	}
	if trend.DeltaPct != 0 {
		t.Errorf("zero season baseline should report 0 delta, got %f", trend.DeltaPct)
	}
}

func TestDetectTrendNegativeCompositeGuard(t *testing.T) {
	weights := map[string]float64{
		models.StatPoints:    1.0,
		models.StatTurnovers: -1.0,
	}
	snap := models.StatSnapshot{
		PlayerID: "p1",
		SeasonAvg: map[string]float64{
			models.StatPoints:    2.0,
			models.StatTurnovers: 5.0,
		},
		RecentAvg: map[string]float64{models.StatPoints: 30.0},
	}

	trend := DetectTrend(models.SportNBA, snap, weights)
	if trend.Direction != models.TrendSteady {
		t.Errorf("negative season composite should be STEADY, got %s", trend.Direction)
	}
}

func TestDetectTrendEmptyRecentWindow(t *testing.T) {
	weights := map[string]float64{models.StatPoints: 1.0}
	snap := models.StatSnapshot{
		PlayerID:  "p1",
		SeasonAvg: map[string]float64{models.StatPoints: 22.0},
	}

	trend := DetectTrend(models.SportNBA, snap, weights)
	if trend.Direction != models.TrendSteady {
		t.Errorf("missing recent window should be STEADY, got %s", trend.Direction)
	}
}
