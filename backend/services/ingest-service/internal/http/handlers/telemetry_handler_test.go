package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"boatwatch/backend/services/ingest-service/internal/models"
	"boatwatch/backend/services/ingest-service/internal/service"
)

const boatID = "a3f1c5d2-7b4e-4f7a-9c1d-2e8b6a4f0c3d"

type stubDirectory struct {
	boat *models.Boat
}

func (s *stubDirectory) GetByID(_ context.Context, id string) (*models.Boat, error) {
	if s.boat != nil && s.boat.ID == id {
		return s.boat, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubDirectory) FindByName(_ context.Context, name string) (*models.Boat, error) {
	if s.boat != nil && strings.EqualFold(s.boat.Name, name) {
		return s.boat, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubDirectory) First(_ context.Context) (*models.Boat, error) {
	if s.boat != nil {
		return s.boat, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubDirectory) Create(_ context.Context, _ *models.Boat) error {
	return nil
}

type stubWriter struct {
	batches [][]models.TelemetryRecord
}

func (s *stubWriter) InsertBatch(_ context.Context, records []models.TelemetryRecord) ([]models.TelemetryRecord, error) {
	out := make([]models.TelemetryRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	s.batches = append(s.batches, out)
	return out, nil
}

func newTestHandler(writer *stubWriter) *TelemetryHandler {
	dir := &stubDirectory{boat: &models.Boat{ID: boatID, Name: "Albatross"}}
	resolver := service.NewResolver(dir, service.ResolverConfig{Policy: service.PolicyStrict}, zap.NewNop())
	normalizer := service.NewNormalizerWithClock(func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	svc := service.NewIngestService(resolver, normalizer, writer, nil, false, zap.NewNop())
	return NewTelemetryHandler(svc, zap.NewNop())
}

func postTelemetry(t *testing.T, h http.Handler, identity, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/telemetry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		req.Header.Set("X-Boat-Id", identity)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTelemetryHandlerSuccess(t *testing.T) {
	writer := &stubWriter{}
	h := newTestHandler(writer)

	rec := postTelemetry(t, h, boatID, `{"measurements":[{"ts":1700000000,"v":12.6,"i":-2.0,"soc":87}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                     `json:"success"`
		Data    []models.TelemetryRecord `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	record := resp.Data[0]
	if record.BoatID != boatID {
		t.Fatalf("boat_id = %s, want %s", record.BoatID, boatID)
	}
	if record.Voltage == nil || *record.Voltage != 12.6 {
		t.Fatalf("voltage = %v, want 12.6", record.Voltage)
	}
	if record.Current == nil || *record.Current != -2.0 {
		t.Fatalf("current = %v, want -2.0", record.Current)
	}
	if record.SOC == nil || *record.SOC != 87 {
		t.Fatalf("soc = %v, want 87", record.SOC)
	}
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	if !record.CreatedAt.Equal(want) {
		t.Fatalf("created_at = %s, want %s", record.CreatedAt, want)
	}
}

func TestTelemetryHandlerMalformedBody(t *testing.T) {
	writer := &stubWriter{}
	h := newTestHandler(writer)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"measurements not a list", `{"measurements":{"v":12}}`},
		{"missing measurements", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postTelemetry(t, h, boatID, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error json: %v", err)
			}
			if resp["error"] == "" {
				t.Fatal("expected error message in body")
			}
			if len(writer.batches) != 0 {
				t.Fatal("nothing should be persisted")
			}
		})
	}
}

func TestTelemetryHandlerUnknownDeviceStrict(t *testing.T) {
	writer := &stubWriter{}
	h := newTestHandler(writer)

	rec := postTelemetry(t, h, "Stormbird", `{"measurements":[{"v":12.0}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error json: %v", err)
	}
	if !strings.Contains(resp["error"], "Stormbird") {
		t.Fatalf("error should name the unknown boat, got %q", resp["error"])
	}
	if len(writer.batches) != 0 {
		t.Fatal("zero rows must be persisted")
	}
}
