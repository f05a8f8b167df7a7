package handlers

import (
	"net/http"
	"time"

	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// HealthCheck reports the control plane's liveness, including whether its
// backing store is reachable.
type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store"`
}

// HealthHandler serves liveness and readiness checks for the control plane.
type HealthHandler struct {
	cpStore *store.GORMStore
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cpStore *store.GORMStore) *HealthHandler {
	return &HealthHandler{cpStore: cpStore}
}

// Liveness reports whether the control plane process and its store are up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.cpStore.DB().DB()
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, &HealthCheck{
			Status:    "unhealthy",
			Timestamp: time.Now(),
			Store:     "unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(r.Context()); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, &HealthCheck{
			Status:    "unhealthy",
			Timestamp: time.Now(),
			Store:     "unreachable",
		})
		return
	}

	WriteJSONOK(w, &HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Store:     "reachable",
	})
}
