package view

import (
	"testing"
	"time"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func chargerRecord(pvPower float64) models.TelemetryRecord {
	return models.TelemetryRecord{
		DeviceType: iptr(models.DeviceTypeSolarCharger),
		PVPower:    fptr(pvPower),
	}
}

func batteryRecord(ts time.Time, voltage, current, soc float64) models.TelemetryRecord {
	return models.TelemetryRecord{
		DeviceType: iptr(models.DeviceTypeBatteryMonitor),
		CreatedAt:  ts,
		Voltage:    fptr(voltage),
		Current:    fptr(current),
		SOC:        fptr(soc),
	}
}

func TestComputeSnapshotSumsSolarAcrossChargers(t *testing.T) {
	devices := map[string]models.TelemetryRecord{
		"mppt-1": chargerRecord(120),
		"mppt-2": chargerRecord(80.5),
		"bmv-1":  batteryRecord(time.Now(), 12.8, 4.0, 90),
	}

	snap := ComputeSnapshot(devices)
	if snap.PVPower != 200.5 {
		t.Fatalf("pv_power = %v, want 200.5", snap.PVPower)
	}
}

func TestComputeSnapshotBatteryFigures(t *testing.T) {
	devices := map[string]models.TelemetryRecord{
		"bmv-1": batteryRecord(time.Now(), 12.5, -3.0, 87),
	}

	snap := ComputeSnapshot(devices)
	if snap.Voltage != 12.5 {
		t.Fatalf("voltage = %v, want 12.5", snap.Voltage)
	}
	if snap.SOC != 87 {
		t.Fatalf("soc = %v, want 87", snap.SOC)
	}
	if snap.BatteryPower != 12.5*-3.0 {
		t.Fatalf("battery_power = %v, want %v", snap.BatteryPower, 12.5*-3.0)
	}
}

func TestComputeSnapshotBatteryTieBreakIsDeterministic(t *testing.T) {
	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)

	devices := map[string]models.TelemetryRecord{
		"bmv-old": batteryRecord(older, 11.0, 1.0, 50),
		"bmv-new": batteryRecord(newer, 12.8, 2.0, 95),
	}

	for i := 0; i < 50; i++ {
		snap := ComputeSnapshot(devices)
		if snap.Voltage != 12.8 || snap.SOC != 95 {
			t.Fatalf("iteration %d: picked stale battery monitor: %+v", i, snap)
		}
	}

	// Equal timestamps fall back to the hardware address ordering.
	devices = map[string]models.TelemetryRecord{
		"bmv-a": batteryRecord(older, 11.0, 1.0, 50),
		"bmv-b": batteryRecord(older, 12.8, 2.0, 95),
	}
	for i := 0; i < 50; i++ {
		snap := ComputeSnapshot(devices)
		if snap.SOC != 95 {
			t.Fatalf("iteration %d: tie-break not deterministic: %+v", i, snap)
		}
	}
}

func TestComputeSnapshotLoadDrawNeverNegative(t *testing.T) {
	cases := []struct {
		name    string
		devices map[string]models.TelemetryRecord
		want    float64
	}{
		{
			name: "charging exceeds generation",
			devices: map[string]models.TelemetryRecord{
				"mppt-1": chargerRecord(50),
				"bmv-1":  batteryRecord(time.Now(), 12.0, 10.0, 80), // 120W into battery
			},
			want: 0,
		},
		{
			name: "discharge adds to load",
			devices: map[string]models.TelemetryRecord{
				"mppt-1": chargerRecord(100),
				"bmv-1":  batteryRecord(time.Now(), 12.0, -5.0, 80), // -60W
			},
			want: 160,
		},
		{
			name:    "no devices",
			devices: map[string]models.TelemetryRecord{},
			want:    0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := ComputeSnapshot(tc.devices)
			if snap.LoadPower < 0 {
				t.Fatalf("load_power negative: %v", snap.LoadPower)
			}
			if snap.LoadPower != tc.want {
				t.Fatalf("load_power = %v, want %v", snap.LoadPower, tc.want)
			}
		})
	}
}

func TestComputeSnapshotIsPure(t *testing.T) {
	devices := map[string]models.TelemetryRecord{
		"mppt-1": chargerRecord(75),
		"bmv-1":  batteryRecord(time.Now(), 13.1, 2.5, 92),
	}

	first := ComputeSnapshot(devices)
	second := ComputeSnapshot(devices)
	if first != second {
		t.Fatalf("recompute differs: %+v vs %+v", first, second)
	}
}

func TestComputeSnapshotIgnoresUntypedRecords(t *testing.T) {
	devices := map[string]models.TelemetryRecord{
		"unknown": {Voltage: fptr(12.0), PVPower: fptr(500)},
	}

	snap := ComputeSnapshot(devices)
	if snap.PVPower != 0 || snap.Voltage != 0 {
		t.Fatalf("records without device_type must be ignored: %+v", snap)
	}
}
