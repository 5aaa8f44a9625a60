package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/http/middleware"
	"boatwatch/backend/services/dashboard-service/internal/service"
	"boatwatch/backend/services/dashboard-service/internal/view"
)

// DashboardHandler serves the current derived view for a boat: snapshot,
// chart history, and the latest record per sensor.
type DashboardHandler struct {
	fleet    *service.FleetService
	registry *view.Registry
	logger   *zap.Logger
}

// NewDashboardHandler returns handler.
func NewDashboardHandler(fleet *service.FleetService, registry *view.Registry, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		fleet:    fleet,
		registry: registry,
		logger:   logger,
	}
}

// ServeHTTP handles GET /api/dashboard.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	state := h.registry.Get(r.Context(), boatID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": state.Snapshot(),
		"history":  state.History(),
		"devices":  state.Devices(),
	})
}
