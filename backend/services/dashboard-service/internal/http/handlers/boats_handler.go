package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"boatwatch/backend/services/dashboard-service/internal/http/middleware"
	"boatwatch/backend/services/dashboard-service/internal/service"
)

// BoatsHandler covers fleet onboarding: listing, creating and claiming boats.
type BoatsHandler struct {
	fleet  *service.FleetService
	logger *zap.Logger
}

// NewBoatsHandler returns handler.
func NewBoatsHandler(fleet *service.FleetService, logger *zap.Logger) *BoatsHandler {
	return &BoatsHandler{fleet: fleet, logger: logger}
}

// List handles GET /api/boats.
func (h *BoatsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	boats, err := h.fleet.ListBoats(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list boats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list boats")
		return
	}
	writeJSON(w, http.StatusOK, boats)
}

type createBoatRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/boats. The response carries the generated device
// secret exactly once.
func (h *BoatsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createBoatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.fleet.CreateBoat(r.Context(), req.Name, userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type claimRequest struct {
	BoatID string `json:"boat_id"`
	Secret string `json:"secret"`
}

// Claim handles POST /api/boats/claim.
func (h *BoatsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.BoatID == "" || req.Secret == "" {
		writeError(w, http.StatusBadRequest, "boat_id and secret are required")
		return
	}

	claimed, err := h.fleet.Claim(r.Context(), req.BoatID, req.Secret, userID)
	if err != nil {
		h.logger.Error("claim failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "claim failed")
		return
	}
	if !claimed {
		writeError(w, http.StatusNotFound, "boat not found, already owned, or secret mismatch")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"claimed": true})
}
