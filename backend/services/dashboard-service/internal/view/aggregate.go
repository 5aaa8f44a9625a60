package view

import "boatwatch/backend/services/dashboard-service/internal/models"

// Snapshot is the derived power-flow state shown on the dashboard. It is a pure
// projection of the latest-per-sensor map and carries no state of its own.
type Snapshot struct {
	// PVPower is total solar generation in watts, summed across every
	// charge-controller sensor.
	PVPower float64 `json:"pv_power"`
	// BatteryPower is the battery net power in watts: positive while charging,
	// negative while discharging.
	BatteryPower float64 `json:"battery_power"`
	// LoadPower is the estimated load draw: a clamped residual of generation
	// minus battery net power, never negative. It is not a direct measurement
	// and absorbs any metering error.
	LoadPower     float64 `json:"load_power"`
	Voltage       float64 `json:"voltage"`
	SOC           float64 `json:"soc"`
	RemainingMins int     `json:"remaining_mins"`
}

// ComputeSnapshot folds the latest-per-sensor map into a Snapshot. Battery
// figures come from the battery monitor with the most recent timestamp, with
// the hardware address as a final tie-break so the result does not depend on
// map iteration order.
func ComputeSnapshot(devices map[string]models.TelemetryRecord) Snapshot {
	var snap Snapshot

	var battery *models.TelemetryRecord
	var batteryMAC string
	for mac, record := range devices {
		if record.DeviceType == nil {
			continue
		}
		switch *record.DeviceType {
		case models.DeviceTypeSolarCharger:
			if record.PVPower != nil {
				snap.PVPower += *record.PVPower
			}
		case models.DeviceTypeBatteryMonitor:
			if battery == nil || record.CreatedAt.After(battery.CreatedAt) ||
				(record.CreatedAt.Equal(battery.CreatedAt) && mac > batteryMAC) {
				r := record
				battery = &r
				batteryMAC = mac
			}
		}
	}

	if battery != nil {
		if battery.Voltage != nil {
			snap.Voltage = *battery.Voltage
		}
		if battery.SOC != nil {
			snap.SOC = *battery.SOC
		}
		var current float64
		if battery.Current != nil {
			current = *battery.Current
		}
		snap.BatteryPower = snap.Voltage * current
		if battery.RemainingMins != nil {
			snap.RemainingMins = *battery.RemainingMins
		}
	}

	snap.LoadPower = snap.PVPower - snap.BatteryPower
	if snap.LoadPower < 0 {
		snap.LoadPower = 0
	}
	return snap
}
