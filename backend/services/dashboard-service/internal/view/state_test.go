package view

import (
	"fmt"
	"testing"
	"time"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

func sptr(s string) *string { return &s }

func TestStateLastWriteWinsPerDevice(t *testing.T) {
	state := NewBoatState()
	newer := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	first := batteryRecord(newer, 12.8, 1.0, 95)
	first.MACAddress = sptr("bmv-1")
	state.Apply(first)

	// A late arrival overwrites even though its timestamp is older.
	late := batteryRecord(older, 11.9, -2.0, 60)
	late.MACAddress = sptr("bmv-1")
	snap := state.Apply(late)

	if snap.SOC != 60 {
		t.Fatalf("soc = %v, want late arrival's 60", snap.SOC)
	}
	devices := state.Devices()
	if len(devices) != 1 {
		t.Fatalf("expected one device entry, got %d", len(devices))
	}
	if got := devices["bmv-1"]; !got.CreatedAt.Equal(older) {
		t.Fatalf("retained record timestamp = %s, want %s", got.CreatedAt, older)
	}
}

func TestStateIgnoresRecordsWithoutAddress(t *testing.T) {
	state := NewBoatState()

	record := batteryRecord(time.Now(), 12.0, 0, 80)
	state.Apply(record)

	if len(state.Devices()) != 0 {
		t.Fatal("records without a hardware address must not enter the map")
	}
	if len(state.History()) != 0 {
		t.Fatal("records without a hardware address must not chart")
	}
}

func TestStateHistoryBounded(t *testing.T) {
	state := NewBoatState()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	const updates = 60
	for i := 0; i < updates; i++ {
		record := batteryRecord(start.Add(time.Duration(i)*time.Minute), 12.0+float64(i)/100, 1.0, 80)
		record.MACAddress = sptr("bmv-1")
		state.Apply(record)
	}

	history := state.History()
	if len(history) != historyCap {
		t.Fatalf("history length = %d, want %d", len(history), historyCap)
	}
	for i, point := range history {
		wantTime := start.Add(time.Duration(updates-historyCap+i) * time.Minute)
		if !point.Time.Equal(wantTime) {
			t.Fatalf("point %d time = %s, want %s", i, point.Time, wantTime)
		}
	}
}

func TestStateHistorySkipsVoltagelessRecords(t *testing.T) {
	state := NewBoatState()

	charger := chargerRecord(150)
	charger.MACAddress = sptr("mppt-1")
	state.Apply(charger)

	if len(state.History()) != 0 {
		t.Fatal("records without voltage must not chart")
	}

	withVoltage := batteryRecord(time.Now(), 12.4, 1.0, 85)
	withVoltage.MACAddress = sptr("bmv-1")
	state.Apply(withVoltage)

	history := state.History()
	if len(history) != 1 || history[0].Voltage != 12.4 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestStateSeedKeepsNewestPerDevice(t *testing.T) {
	state := NewBoatState()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Oldest-first rows, several per device: the last row per address wins.
	var rows []models.TelemetryRecord
	for i := 0; i < 4; i++ {
		record := batteryRecord(start.Add(time.Duration(i)*time.Minute), 12.0, 1.0, float64(50+i*10))
		record.MACAddress = sptr("bmv-1")
		rows = append(rows, record)
	}
	noAddr := chargerRecord(100)
	rows = append(rows, noAddr)

	state.Seed(rows)

	devices := state.Devices()
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	if got := devices["bmv-1"]; got.SOC == nil || *got.SOC != 80 {
		t.Fatalf("seed must keep the newest row, got soc %v", got.SOC)
	}
}

func TestStateCopiesAreIndependent(t *testing.T) {
	state := NewBoatState()
	record := batteryRecord(time.Now(), 12.0, 1.0, 80)
	record.MACAddress = sptr("bmv-1")
	state.Apply(record)

	devices := state.Devices()
	delete(devices, "bmv-1")
	if len(state.Devices()) != 1 {
		t.Fatal("mutating the returned map must not affect state")
	}

	history := state.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 history point, got %d", len(history))
	}
	history[0].Voltage = 0
	if state.History()[0].Voltage != 12.0 {
		t.Fatal("mutating the returned slice must not affect state")
	}
}

func TestStateConcurrentApply(t *testing.T) {
	state := NewBoatState()
	done := make(chan struct{})

	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				record := batteryRecord(time.Now(), 12.0, 1.0, 80)
				record.MACAddress = sptr(fmt.Sprintf("bmv-%d", g))
				state.Apply(record)
				state.Snapshot()
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	if len(state.Devices()) != 4 {
		t.Fatalf("expected 4 devices, got %d", len(state.Devices()))
	}
	if len(state.History()) > historyCap {
		t.Fatalf("history exceeded cap: %d", len(state.History()))
	}
}
