package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/vetted-api/internal/logger"
)

// StorageCheck reports whether the storage backend is reachable
type StorageCheck func(ctx context.Context) error

// HealthHandler reports service health
type HealthHandler struct {
	backend string
	check   StorageCheck
	log     logger.Logger
	started time.Time
}

// NewHealthHandler creates a health handler. check may be nil for backends
// that cannot become unreachable.
func NewHealthHandler(backend string, check StorageCheck, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		check:   check,
		log:     log,
		started: time.Now(),
	}
}

// GetHealth returns 200 when storage answers and 503 otherwise
func (h *HealthHandler) GetHealth(c *gin.Context) {
	storage := gin.H{"backend": h.backend, "healthy": true}
	healthy := true

	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			h.log.Error("storage health check failed", err, "backend", h.backend)
			storage["healthy"] = false
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"healthy":   healthy,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"storage":   storage,
	})
}
