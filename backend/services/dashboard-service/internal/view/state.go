package view

import (
	"sync"
	"time"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

// historyCap bounds the trailing chart window.
const historyCap = 24

// HistoryPoint is one chart sample.
type HistoryPoint struct {
	Time    time.Time `json:"time"`
	Voltage float64   `json:"voltage"`
	Solar   float64   `json:"solar"`
}

// BoatState holds the live view state for one boat: the latest record per
// sensor hardware address plus a bounded trailing window for charting. Updates
// are last-write-wins per address; a record arriving late simply overwrites,
// even if older than what it replaces.
type BoatState struct {
	mu      sync.RWMutex
	devices map[string]models.TelemetryRecord
	history []HistoryPoint
}

// NewBoatState returns empty state.
func NewBoatState() *BoatState {
	return &BoatState{
		devices: make(map[string]models.TelemetryRecord),
	}
}

// Seed folds an initial batch of rows, oldest first, so the map ends on the
// most recent record per sensor. Rows without a hardware address are skipped.
func (s *BoatState) Seed(records []models.TelemetryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if record.MACAddress == nil {
			continue
		}
		s.devices[*record.MACAddress] = record
	}
}

// Apply updates the device map with one incoming record and returns the
// recomputed snapshot. Records with a voltage reading also extend the chart
// window, dropping the oldest sample beyond the cap.
func (s *BoatState) Apply(record models.TelemetryRecord) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.MACAddress != nil {
		s.devices[*record.MACAddress] = record

		if record.Voltage != nil {
			point := HistoryPoint{
				Time:    record.CreatedAt,
				Voltage: *record.Voltage,
			}
			if record.PVPower != nil {
				point.Solar = *record.PVPower
			}
			s.history = append(s.history, point)
			if len(s.history) > historyCap {
				s.history = s.history[len(s.history)-historyCap:]
			}
		}
	}

	return ComputeSnapshot(s.devices)
}

// Snapshot recomputes the derived view from the current map.
func (s *BoatState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeSnapshot(s.devices)
}

// History returns a copy of the chart window in arrival order.
func (s *BoatState) History() []HistoryPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryPoint, len(s.history))
	copy(out, s.history)
	return out
}

// Devices returns a copy of the latest-per-sensor map.
func (s *BoatState) Devices() map[string]models.TelemetryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.TelemetryRecord, len(s.devices))
	for mac, record := range s.devices {
		out[mac] = record
	}
	return out
}
