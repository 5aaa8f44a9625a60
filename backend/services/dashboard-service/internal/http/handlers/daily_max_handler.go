package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/http/middleware"
	"boatwatch/backend/services/dashboard-service/internal/models"
	"boatwatch/backend/services/dashboard-service/internal/service"
)

// DailyMaxSource computes per-sensor maxima since midnight.
type DailyMaxSource interface {
	DailyMax(ctx context.Context, boatID string) ([]models.DeviceDailyMax, error)
}

// DailyMaxHandler serves the Pmax/Vmax figures for the device detail panel.
type DailyMaxHandler struct {
	fleet  *service.FleetService
	source DailyMaxSource
	logger *zap.Logger
}

// NewDailyMaxHandler returns handler.
func NewDailyMaxHandler(fleet *service.FleetService, source DailyMaxSource, logger *zap.Logger) *DailyMaxHandler {
	return &DailyMaxHandler{fleet: fleet, source: source, logger: logger}
}

// ServeHTTP handles GET /api/telemetry/daily-max.
func (h *DailyMaxHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	boatID := r.URL.Query().Get("boat_id")
	if boatID == "" {
		writeError(w, http.StatusBadRequest, "boat_id is required")
		return
	}

	if err := h.fleet.VerifyOwnership(r.Context(), boatID, userID); err != nil {
		if errors.Is(err, service.ErrBoatNotOwned) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("ownership check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	maxima, err := h.source.DailyMax(r.Context(), boatID)
	if err != nil {
		h.logger.Error("daily max query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute daily maxima")
		return
	}
	writeJSON(w, http.StatusOK, maxima)
}
