package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/warroom-labs/draftboard/internal/models"
)

// StatProvider supplies raw stat records for one sport's draft pool. Partial
// results are acceptable; players the upstream cannot serve are skipped and
// the run continues degraded.
type StatProvider interface {
	Sport() models.Sport
	// SeasonRecords returns identity, season rates, and trailing-window rates
	// for every pool player the provider can serve.
	SeasonRecords(ctx context.Context, window int) ([]models.SeasonRecord, error)
	// LiveRecords returns in-progress stat deltas for players in games right
	// now. Nil when nothing is live.
	LiveRecords(ctx context.Context) ([]models.LiveRecord, error)
}

// ProjectionProvider supplies pre-computed projected fantasy values keyed by
// player id. Optional; a nil provider disables projection blending.
type ProjectionProvider interface {
	Projections(ctx context.Context) (map[string]float64, error)
}

// FileProjections reads a JSON object of player id to projected value.
type FileProjections struct {
	Path string
}

func (f FileProjections) Projections(ctx context.Context) (map[string]float64, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projections file: %w", err)
	}
	out := make(map[string]float64)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse projections file %s: %w", f.Path, err)
	}
	return out, nil
}
