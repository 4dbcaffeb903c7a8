package handler

import (
	"net/http"

	"flashdeck/internal/config"
)

// statusHandler returns an HTTP handler that has access to the config.
// This pattern allows handlers to access service configuration without
// reading environment variables directly in request handling code.
func statusHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     "flashdeck",
			"version":     "0.1.0",
			"status":      "operational",
			"environment": cfg.Environment,
		})
	}
}
