package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// telemetryColumns lists the insertable columns in statement order.
var telemetryColumns = []string{
	"boat_id", "created_at", "voltage", "current", "soc", "power", "temperature",
	"alarm", "mac_address", "device_type", "pv_voltage", "pv_current", "pv_power",
	"load_current", "load_state", "device_state", "consumed_ah", "remaining_mins",
	"aux_voltage", "yield_today", "efficiency",
}

// TelemetryRepository appends telemetry rows. Rows are never updated or deleted
// from this path.
type TelemetryRepository struct {
	db *sql.DB
}

// NewTelemetryRepository returns repository.
func NewTelemetryRepository(db *sql.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// InsertBatch writes the whole batch as a single multi-row INSERT. Postgres
// runs the statement atomically: a constraint violation on any row leaves
// nothing visible. Returned records carry their assigned ids.
func (r *TelemetryRepository) InsertBatch(ctx context.Context, records []models.TelemetryRecord) ([]models.TelemetryRecord, error) {
	if len(records) == 0 {
		return nil, errors.New("telemetry: empty batch")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO telemetry (")
	sb.WriteString(strings.Join(telemetryColumns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(records)*len(telemetryColumns))
	for i, record := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		placeholders := make([]string, len(telemetryColumns))
		for j := range telemetryColumns {
			placeholders[j] = fmt.Sprintf("$%d", i*len(telemetryColumns)+j+1)
		}
		sb.WriteString("(")
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")

		args = append(args,
			record.BoatID,
			record.CreatedAt,
			record.Voltage,
			record.Current,
			record.SOC,
			record.Power,
			record.Temperature,
			record.Alarm,
			record.MACAddress,
			record.DeviceType,
			record.PVVoltage,
			record.PVCurrent,
			record.PVPower,
			record.LoadCurrent,
			record.LoadState,
			record.DeviceState,
			record.ConsumedAh,
			record.RemainingMins,
			record.AuxVoltage,
			record.YieldToday,
			record.Efficiency,
		)
	}
	sb.WriteString(" RETURNING id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inserted := make([]models.TelemetryRecord, 0, len(records))
	for i := 0; rows.Next(); i++ {
		record := records[i]
		if err := rows.Scan(&record.ID); err != nil {
			return nil, err
		}
		inserted = append(inserted, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return inserted, nil
}
