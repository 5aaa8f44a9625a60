package handlers

import (
	"errors"
	"net/http"
	"strings"

	"boatwatch/backend/services/auth-service/internal/service"
)

// NewMeHandler handles GET /api/auth/me: current-session lookup.
func NewMeHandler(authService *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := authService.Session(r.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, service.ErrInvalidSession) {
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
