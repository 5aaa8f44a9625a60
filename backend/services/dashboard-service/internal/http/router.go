package httpserver

import (
	"net/http"

	"github.com/rs/cors"

	"boatwatch/backend/services/dashboard-service/internal/http/handlers"
	"boatwatch/backend/services/dashboard-service/internal/http/middleware"
)

// Routes defines HTTP endpoints.
type Routes struct {
	Dashboard *handlers.DashboardHandler
	Boats     *handlers.BoatsHandler
	DailyMax  *handlers.DailyMaxHandler
	Health    *handlers.HealthHandler
	WS        http.HandlerFunc
	Validator *middleware.TokenValidator
}

// NewRouter sets up HTTP routing with JWT auth on the API surface and a
// permissive CORS layer for the browser dashboard.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(routes.Validator)

	if routes.Dashboard != nil {
		mux.Handle("/api/dashboard", auth(method(http.MethodGet, routes.Dashboard.ServeHTTP)))
	}
	if routes.Boats != nil {
		mux.Handle("/api/boats", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				routes.Boats.List(w, r)
			case http.MethodPost:
				routes.Boats.Create(w, r)
			default:
				w.Header().Set("Allow", "GET, POST")
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		})))
		mux.Handle("/api/boats/claim", auth(method(http.MethodPost, routes.Boats.Claim)))
	}
	if routes.DailyMax != nil {
		mux.Handle("/api/telemetry/daily-max", auth(method(http.MethodGet, routes.DailyMax.ServeHTTP)))
	}
	if routes.WS != nil {
		mux.Handle("/ws", method(http.MethodGet, routes.WS))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(mux)
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
