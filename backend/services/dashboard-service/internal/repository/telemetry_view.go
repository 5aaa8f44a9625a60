package repository

import (
	"context"
	"database/sql"

	"boatwatch/backend/services/dashboard-service/internal/models"
)

// TelemetryView exposes read-only projections over the append-only telemetry log.
type TelemetryView struct {
	db *sql.DB
}

// NewTelemetryView returns view.
func NewTelemetryView(db *sql.DB) *TelemetryView {
	return &TelemetryView{db: db}
}

// LatestByBoat returns the most recent rows for a boat, newest first.
func (v *TelemetryView) LatestByBoat(ctx context.Context, boatID string, limit int) ([]models.TelemetryRecord, error) {
	const query = `
		SELECT id, boat_id, created_at, voltage, current, soc, power, temperature,
		       alarm, mac_address, device_type, pv_voltage, pv_current, pv_power,
		       load_current, load_state, device_state, consumed_ah, remaining_mins,
		       aux_voltage, yield_today, efficiency
		FROM telemetry
		WHERE boat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := v.db.QueryContext(ctx, query, boatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TelemetryRecord
	for rows.Next() {
		var r models.TelemetryRecord
		if err := rows.Scan(
			&r.ID, &r.BoatID, &r.CreatedAt, &r.Voltage, &r.Current, &r.SOC, &r.Power,
			&r.Temperature, &r.Alarm, &r.MACAddress, &r.DeviceType, &r.PVVoltage,
			&r.PVCurrent, &r.PVPower, &r.LoadCurrent, &r.LoadState, &r.DeviceState,
			&r.ConsumedAh, &r.RemainingMins, &r.AuxVoltage, &r.YieldToday, &r.Efficiency,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DailyMax returns per-sensor maxima of PV power and PV voltage since midnight.
func (v *TelemetryView) DailyMax(ctx context.Context, boatID string) ([]models.DeviceDailyMax, error) {
	const query = `
		SELECT mac_address, MAX(pv_power), MAX(pv_voltage)
		FROM telemetry
		WHERE boat_id = $1
		  AND created_at >= date_trunc('day', NOW())
		  AND mac_address IS NOT NULL
		GROUP BY mac_address
	`
	rows, err := v.db.QueryContext(ctx, query, boatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maxima []models.DeviceDailyMax
	for rows.Next() {
		var m models.DeviceDailyMax
		if err := rows.Scan(&m.MACAddress, &m.MaxPVPower, &m.MaxPVVoltage); err != nil {
			return nil, err
		}
		maxima = append(maxima, m)
	}
	return maxima, rows.Err()
}
