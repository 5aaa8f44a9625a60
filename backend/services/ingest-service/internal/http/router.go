package httpserver

import (
	"net/http"

	"github.com/rs/cors"
)

// Routes defines HTTP endpoints.
type Routes struct {
	Telemetry http.Handler
	Health    http.Handler
}

// NewRouter sets up HTTP routing. The whole mux is wrapped in a permissive CORS
// layer so that OPTIONS preflights from any origin are answered unconditionally,
// which browser-hosted tooling and the dashboard rely on.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Telemetry != nil {
		mux.Handle("/api/telemetry", method(http.MethodPost, routes.Telemetry.ServeHTTP))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health.ServeHTTP))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Boat-Id", "X-Device-Secret"},
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
