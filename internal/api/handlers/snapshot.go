package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/services"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/utils"
)

// SnapshotHandler exposes the refresher: on-demand rebuilds and
// scheduling status.
type SnapshotHandler struct {
	refresher *services.RefresherService
	store     *snapshot.Store
	logger    *logrus.Logger
}

func NewSnapshotHandler(refresher *services.RefresherService, store *snapshot.Store, logger *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		refresher: refresher,
		store:     store,
		logger:    logger,
	}
}

// TriggerRebuild starts a snapshot rebuild in the background. Requests
// keep being served from the previous snapshot until the new one is
// published.
func (h *SnapshotHandler) TriggerRebuild(c *gin.Context) {
	go func() {
		if err := h.refresher.Refresh(); err != nil {
			h.logger.Errorf("On-demand snapshot rebuild failed: %v", err)
		}
	}()

	utils.SendSuccess(c, gin.H{"message": "Snapshot rebuild started"})
}

// GetStatus reports the refresher schedule and the current snapshot's
// contents.
func (h *SnapshotHandler) GetStatus(c *gin.Context) {
	status := h.refresher.Status()

	if snap, err := h.store.Current(); err == nil {
		status["built_at"] = snap.BuiltAt
		status["teams"] = len(snap.Teams)
		status["players"] = len(snap.Players)
		status["fixtures"] = len(snap.Fixtures)
	}

	utils.SendSuccess(c, status)
}
