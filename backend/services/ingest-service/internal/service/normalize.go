package service

import (
	"time"

	"boatwatch/backend/services/ingest-service/internal/models"
)

// Measurement is one raw JSON object from a device batch. Devices send a mix of
// short firmware keys ("v", "pv_p") and full column names ("voltage", "pv_power")
// depending on firmware generation, so values are resolved through alias chains.
type Measurement map[string]interface{}

// numericAliases maps each canonical float field to its accepted source keys in
// priority order. The short firmware key always comes first; when a payload
// carries both forms the short one wins. This tie-break is relied on by deployed
// firmware and must not change.
var numericAliases = []struct {
	canonical string
	aliases   []string
}{
	{"voltage", []string{"v", "voltage"}},
	{"current", []string{"i", "current"}},
	{"soc", []string{"soc"}},
	{"power", []string{"p", "power", "pv_power"}},
	{"temperature", []string{"t", "temperature"}},
	{"pv_voltage", []string{"pv_v", "pv_voltage"}},
	{"pv_current", []string{"pv_i", "pv_current"}},
	{"pv_power", []string{"pv_p", "pv_power"}},
	{"load_current", []string{"l_i", "load_current"}},
	{"consumed_ah", []string{"c_ah", "consumed_ah"}},
	{"aux_voltage", []string{"aux", "aux_voltage"}},
	{"yield_today", []string{"yt", "yield_today"}},
	{"efficiency", []string{"eff", "efficiency"}},
}

var intAliases = []struct {
	canonical string
	aliases   []string
}{
	{"alarm", []string{"a", "alarm", "alarm_status"}},
	{"device_type", []string{"dt", "device_type"}},
	{"load_state", []string{"l_s", "load_state"}},
	{"device_state", []string{"d_s", "device_state"}},
	{"remaining_mins", []string{"rem", "remaining_mins"}},
}

// Normalizer converts raw measurements into canonical telemetry records.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a normalizer using the wall clock for records without
// a device timestamp.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock allows injecting the clock.
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize maps one raw measurement onto a canonical record for the given boat.
// Fields absent from the payload stay nil; the alarm field defaults to 0.
func (n *Normalizer) Normalize(boatID string, m Measurement) models.TelemetryRecord {
	record := models.TelemetryRecord{
		BoatID:    boatID,
		CreatedAt: n.timestamp(m),
	}

	floats := make(map[string]*float64, len(numericAliases))
	for _, f := range numericAliases {
		floats[f.canonical] = firstFloat(m, f.aliases)
	}
	ints := make(map[string]*int, len(intAliases))
	for _, f := range intAliases {
		ints[f.canonical] = firstInt(m, f.aliases)
	}

	record.Voltage = floats["voltage"]
	record.Current = floats["current"]
	record.SOC = floats["soc"]
	record.Power = floats["power"]
	record.Temperature = floats["temperature"]
	record.PVVoltage = floats["pv_voltage"]
	record.PVCurrent = floats["pv_current"]
	record.PVPower = floats["pv_power"]
	record.LoadCurrent = floats["load_current"]
	record.ConsumedAh = floats["consumed_ah"]
	record.AuxVoltage = floats["aux_voltage"]
	record.YieldToday = floats["yield_today"]
	record.Efficiency = floats["efficiency"]

	if alarm := ints["alarm"]; alarm != nil {
		record.Alarm = *alarm
	}
	record.DeviceType = ints["device_type"]
	record.LoadState = ints["load_state"]
	record.DeviceState = ints["device_state"]
	record.RemainingMins = ints["remaining_mins"]

	if mac, ok := m["mac"].(string); ok && mac != "" {
		record.MACAddress = &mac
	}

	return record
}

// NormalizeBatch maps every measurement in arrival order.
func (n *Normalizer) NormalizeBatch(boatID string, measurements []Measurement) []models.TelemetryRecord {
	records := make([]models.TelemetryRecord, 0, len(measurements))
	for _, m := range measurements {
		records = append(records, n.Normalize(boatID, m))
	}
	return records
}

// timestamp interprets "ts" as whole seconds since the epoch. Devices that omit
// it get the server clock, which means batch ordering is not preserved for them.
func (n *Normalizer) timestamp(m Measurement) time.Time {
	if raw, ok := m["ts"]; ok {
		if secs, ok := asFloat(raw); ok {
			return time.Unix(int64(secs), 0).UTC()
		}
	}
	return n.now().UTC()
}

func firstFloat(m Measurement, aliases []string) *float64 {
	for _, key := range aliases {
		if raw, ok := m[key]; ok {
			if v, ok := asFloat(raw); ok {
				return &v
			}
		}
	}
	return nil
}

func firstInt(m Measurement, aliases []string) *int {
	for _, key := range aliases {
		if raw, ok := m[key]; ok {
			if v, ok := asFloat(raw); ok {
				i := int(v)
				return &i
			}
		}
	}
	return nil
}

func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
