package models

import "time"

// Boat is a registered vessel in the fleet registry.
type Boat struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DeviceSecret string    `db:"device_secret" json:"-"`
	UserID       *int64    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DeviceDailyMax holds per-sensor maxima since local midnight, used for the
// Pmax/Vmax panel on the device detail view.
type DeviceDailyMax struct {
	MACAddress   string   `db:"mac_address" json:"mac_address"`
	MaxPVPower   *float64 `db:"max_pv_power" json:"max_pv_power"`
	MaxPVVoltage *float64 `db:"max_pv_voltage" json:"max_pv_voltage"`
}
