package service

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNormalizeShortKeyWinsOverLongKey(t *testing.T) {
	n := NewNormalizer()

	record := n.Normalize("boat-1", Measurement{
		"p":       120.0,
		"power":   999.0,
		"v":       12.5,
		"voltage": 999.0,
		"i":       -3.0,
		"current": 999.0,
		"t":       21.0,
	})

	if record.Power == nil || *record.Power != 120.0 {
		t.Fatalf("expected short-form power 120, got %v", record.Power)
	}
	if record.Voltage == nil || *record.Voltage != 12.5 {
		t.Fatalf("expected short-form voltage 12.5, got %v", record.Voltage)
	}
	if record.Current == nil || *record.Current != -3.0 {
		t.Fatalf("expected short-form current -3, got %v", record.Current)
	}
	if record.Temperature == nil || *record.Temperature != 21.0 {
		t.Fatalf("expected temperature 21, got %v", record.Temperature)
	}
}

func TestNormalizeLongFormFallback(t *testing.T) {
	n := NewNormalizer()

	record := n.Normalize("boat-1", Measurement{
		"voltage":  13.8,
		"pv_power": 340.0,
	})

	if record.Voltage == nil || *record.Voltage != 13.8 {
		t.Fatalf("expected voltage 13.8, got %v", record.Voltage)
	}
	// pv_power is an accepted fallback for both power and pv_power.
	if record.Power == nil || *record.Power != 340.0 {
		t.Fatalf("expected power 340, got %v", record.Power)
	}
	if record.PVPower == nil || *record.PVPower != 340.0 {
		t.Fatalf("expected pv_power 340, got %v", record.PVPower)
	}
}

func TestNormalizeAbsentFieldsStayNil(t *testing.T) {
	n := NewNormalizer()

	record := n.Normalize("boat-1", Measurement{"v": 12.0})

	if record.Current != nil {
		t.Fatalf("current should stay nil, got %v", *record.Current)
	}
	if record.SOC != nil {
		t.Fatalf("soc should stay nil, got %v", *record.SOC)
	}
	if record.PVPower != nil {
		t.Fatalf("pv_power should stay nil, got %v", *record.PVPower)
	}
	if record.MACAddress != nil {
		t.Fatalf("mac_address should stay nil, got %v", *record.MACAddress)
	}
	if record.DeviceType != nil {
		t.Fatalf("device_type should stay nil, got %v", *record.DeviceType)
	}
	if record.Alarm != 0 {
		t.Fatalf("alarm should default to quiescent 0, got %d", record.Alarm)
	}
}

func TestNormalizeAlarmAliases(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		name        string
		measurement Measurement
		want        int
	}{
		{"short key", Measurement{"a": 2.0}, 2},
		{"long key", Measurement{"alarm": 1.0}, 1},
		{"legacy key", Measurement{"alarm_status": 3.0}, 3},
		{"short wins", Measurement{"a": 2.0, "alarm_status": 9.0}, 2},
		{"absent defaults to zero", Measurement{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := n.Normalize("boat-1", tc.measurement)
			if record.Alarm != tc.want {
				t.Fatalf("alarm = %d, want %d", record.Alarm, tc.want)
			}
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	serverNow := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := NewNormalizerWithClock(fixedClock(serverNow))

	record := n.Normalize("boat-1", Measurement{"ts": 1700000000.0})
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	if !record.CreatedAt.Equal(want) {
		t.Fatalf("created_at = %s, want %s", record.CreatedAt, want)
	}

	record = n.Normalize("boat-1", Measurement{})
	if !record.CreatedAt.Equal(serverNow) {
		t.Fatalf("created_at = %s, want server time %s", record.CreatedAt, serverNow)
	}
}

func TestNormalizeChargerFields(t *testing.T) {
	n := NewNormalizer()

	record := n.Normalize("boat-1", Measurement{
		"dt":   1.0,
		"pv_v": 38.4,
		"pv_i": 5.2,
		"pv_p": 199.7,
		"l_i":  1.5,
		"l_s":  1.0,
		"d_s":  3.0,
		"yt":   1.2,
		"eff":  97.5,
		"mac":  "aa:bb:cc:dd:ee:ff",
	})

	if record.DeviceType == nil || *record.DeviceType != 1 {
		t.Fatalf("device_type = %v, want 1", record.DeviceType)
	}
	if record.PVVoltage == nil || *record.PVVoltage != 38.4 {
		t.Fatalf("pv_voltage = %v, want 38.4", record.PVVoltage)
	}
	if record.PVCurrent == nil || *record.PVCurrent != 5.2 {
		t.Fatalf("pv_current = %v, want 5.2", record.PVCurrent)
	}
	if record.PVPower == nil || *record.PVPower != 199.7 {
		t.Fatalf("pv_power = %v, want 199.7", record.PVPower)
	}
	if record.LoadCurrent == nil || *record.LoadCurrent != 1.5 {
		t.Fatalf("load_current = %v, want 1.5", record.LoadCurrent)
	}
	if record.LoadState == nil || *record.LoadState != 1 {
		t.Fatalf("load_state = %v, want 1", record.LoadState)
	}
	if record.DeviceState == nil || *record.DeviceState != 3 {
		t.Fatalf("device_state = %v, want 3", record.DeviceState)
	}
	if record.YieldToday == nil || *record.YieldToday != 1.2 {
		t.Fatalf("yield_today = %v, want 1.2", record.YieldToday)
	}
	if record.Efficiency == nil || *record.Efficiency != 97.5 {
		t.Fatalf("efficiency = %v, want 97.5", record.Efficiency)
	}
	if record.MACAddress == nil || *record.MACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("mac_address = %v, want aa:bb:cc:dd:ee:ff", record.MACAddress)
	}
}

func TestNormalizeBatteryMonitorFields(t *testing.T) {
	n := NewNormalizer()

	record := n.Normalize("boat-1", Measurement{
		"dt":   2.0,
		"soc":  87.0,
		"c_ah": -12.4,
		"rem":  540.0,
		"aux":  12.1,
	})

	if record.DeviceType == nil || *record.DeviceType != 2 {
		t.Fatalf("device_type = %v, want 2", record.DeviceType)
	}
	if record.SOC == nil || *record.SOC != 87.0 {
		t.Fatalf("soc = %v, want 87", record.SOC)
	}
	if record.ConsumedAh == nil || *record.ConsumedAh != -12.4 {
		t.Fatalf("consumed_ah = %v, want -12.4", record.ConsumedAh)
	}
	if record.RemainingMins == nil || *record.RemainingMins != 540 {
		t.Fatalf("remaining_mins = %v, want 540", record.RemainingMins)
	}
	if record.AuxVoltage == nil || *record.AuxVoltage != 12.1 {
		t.Fatalf("aux_voltage = %v, want 12.1", record.AuxVoltage)
	}
}

func TestNormalizeBatchPreservesOrderAndBoatID(t *testing.T) {
	n := NewNormalizer()

	records := n.NormalizeBatch("boat-7", []Measurement{
		{"v": 12.1},
		{"v": 12.2},
		{"v": 12.3},
	})

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []float64{12.1, 12.2, 12.3} {
		if records[i].BoatID != "boat-7" {
			t.Fatalf("record %d boat_id = %s", i, records[i].BoatID)
		}
		if records[i].Voltage == nil || *records[i].Voltage != want {
			t.Fatalf("record %d voltage = %v, want %v", i, records[i].Voltage, want)
		}
	}
}
