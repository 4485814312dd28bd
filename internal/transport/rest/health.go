package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/calong-tick/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is the part of the database handle the readiness check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

type HealthHandler struct {
	*transport.BaseHandler
	db Pinger
}

func NewHealthHandler(baseHandler *transport.BaseHandler, db Pinger) *HealthHandler {
	return &HealthHandler{BaseHandler: baseHandler, db: db}
}

// Ping only says the process is serving.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, http.StatusOK, "pong", nil)
}

// Health checks the database connection.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy}
	if h.db == nil {
		entry.Status = HealthUnhealthy
		entry.Message = "database not configured"
	} else if err := h.db.PingContext(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
		h.Logger.Warn("database health check failed", "error", err)
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()

	resp := HealthResponse{
		Status:     entry.Status,
		CheckedAt:  entry.CheckedAt,
		Components: map[string]CheckEntry{"database": entry},
	}

	if entry.Status == HealthUnhealthy {
		h.WriteJSON(w, http.StatusServiceUnavailable, transport.Envelope{
			Success: false,
			Message: "Service unavailable",
			Data:    resp,
		})
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", resp)
}
