package models

import "time"

// Boat represents one registered vessel/installation reporting telemetry.
type Boat struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DeviceSecret string    `db:"device_secret" json:"-"`
	UserID       *int64    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
