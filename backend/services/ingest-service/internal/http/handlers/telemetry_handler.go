package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"boatwatch/backend/services/ingest-service/internal/service"
)

const (
	boatIDHeader       = "X-Boat-Id"
	deviceSecretHeader = "X-Device-Secret"
)

// TelemetryHandler accepts measurement batches from reporting hardware.
type TelemetryHandler struct {
	service *service.IngestService
	logger  *zap.Logger
}

// NewTelemetryHandler returns handler.
func NewTelemetryHandler(service *service.IngestService, logger *zap.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		service: service,
		logger:  logger,
	}
}

type telemetryRequest struct {
	Measurements []service.Measurement `json:"measurements"`
}

// ServeHTTP handles POST /api/telemetry. Every ingestion failure is reported to
// the caller as an explicit JSON error body; nothing is swallowed or retried.
func (h *TelemetryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req telemetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	records, err := h.service.Ingest(
		r.Context(),
		r.Header.Get(boatIDHeader),
		r.Header.Get(deviceSecretHeader),
		req.Measurements,
	)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUnauthorizedDevice) {
			status = http.StatusUnauthorized
		}
		h.logger.Warn("telemetry batch rejected", zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    records,
	})
}
