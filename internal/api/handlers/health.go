package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitfield/fpl-projector/internal/snapshot"
)

type HealthHandler struct {
	store *snapshot.Store
}

func NewHealthHandler(store *snapshot.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth is the liveness probe; it returns 200 whenever the server
// is up.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "fpl-projector",
		"time":    time.Now().UTC(),
	})
}

// GetReady is the readiness probe; it returns 200 only once a snapshot
// has been published.
func (h *HealthHandler) GetReady(c *gin.Context) {
	if h.store.Ready() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
}
