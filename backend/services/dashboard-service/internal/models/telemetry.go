package models

import "time"

// TelemetryRecord mirrors the rows the ingest service publishes. JSON tags must
// stay aligned with the ingest service so pub/sub payloads decode cleanly.
type TelemetryRecord struct {
	ID            int64     `db:"id" json:"id"`
	BoatID        string    `db:"boat_id" json:"boat_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Voltage       *float64  `db:"voltage" json:"voltage"`
	Current       *float64  `db:"current" json:"current"`
	SOC           *float64  `db:"soc" json:"soc"`
	Power         *float64  `db:"power" json:"power"`
	Temperature   *float64  `db:"temperature" json:"temperature"`
	Alarm         int       `db:"alarm" json:"alarm"`
	MACAddress    *string   `db:"mac_address" json:"mac_address"`
	DeviceType    *int      `db:"device_type" json:"device_type"`
	PVVoltage     *float64  `db:"pv_voltage" json:"pv_voltage"`
	PVCurrent     *float64  `db:"pv_current" json:"pv_current"`
	PVPower       *float64  `db:"pv_power" json:"pv_power"`
	LoadCurrent   *float64  `db:"load_current" json:"load_current"`
	LoadState     *int      `db:"load_state" json:"load_state"`
	DeviceState   *int      `db:"device_state" json:"device_state"`
	ConsumedAh    *float64  `db:"consumed_ah" json:"consumed_ah"`
	RemainingMins *int      `db:"remaining_mins" json:"remaining_mins"`
	AuxVoltage    *float64  `db:"aux_voltage" json:"aux_voltage"`
	YieldToday    *float64  `db:"yield_today" json:"yield_today"`
	Efficiency    *float64  `db:"efficiency" json:"efficiency"`
}

// Sensor hardware roles carried in device_type.
const (
	DeviceTypeSolarCharger   = 1
	DeviceTypeBatteryMonitor = 2
)
