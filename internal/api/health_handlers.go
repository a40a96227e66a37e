package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Adetisola/Rater/internal/catalog"
)

// HealthHandlers provides the liveness check endpoint.
type HealthHandlers struct {
	repo *catalog.Repository
}

// NewHealthHandlers creates a new health check handler.
func NewHealthHandlers(repo *catalog.Repository) *HealthHandlers {
	return &HealthHandlers{repo: repo}
}

// HealthResponse represents the JSON response for health checks.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// Health handles GET /health (liveness probe).
// Returns 200 if the application is running and the catalog is loaded.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"runtime": "ok",
	}

	snap := h.repo.Snapshot()
	if len(snap.Posts) == 0 {
		checks["catalog"] = "empty"
	} else {
		checks["catalog"] = fmt.Sprintf("%d posts", len(snap.Posts))
	}

	writeJSON(w, r, HealthResponse{
		Status:    "healthy",
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
