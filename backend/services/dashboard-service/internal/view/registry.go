package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

const seedLimit = 50

// HistoryLoader fetches recent rows used to seed a boat's state.
type HistoryLoader interface {
	LatestByBoat(ctx context.Context, boatID string, limit int) ([]models.TelemetryRecord, error)
}

// Registry hands out per-boat view state, seeding it from storage on first
// access. A failed load degrades to empty "no data" state instead of failing
// the caller.
type Registry struct {
	mu     sync.Mutex
	states map[string]*BoatState
	loader HistoryLoader
	logger *zap.Logger
}

// NewRegistry returns registry.
func NewRegistry(loader HistoryLoader, logger *zap.Logger) *Registry {
	return &Registry{
		states: make(map[string]*BoatState),
		loader: loader,
		logger: logger,
	}
}

// Get returns the state for a boat, creating and seeding it if needed.
func (r *Registry) Get(ctx context.Context, boatID string) *BoatState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[boatID]; ok {
		return state
	}

	state := NewBoatState()
	if r.loader != nil {
		records, err := r.loader.LatestByBoat(ctx, boatID, seedLimit)
		if err != nil {
			r.logger.Warn("failed to seed boat state", zap.String("boat_id", boatID), zap.Error(err))
		} else {
			// Rows arrive newest first; fold oldest to newest so the latest
			// record per sensor wins.
			for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
				records[i], records[j] = records[j], records[i]
			}
			state.Seed(records)
		}
	}

	r.states[boatID] = state
	return state
}
