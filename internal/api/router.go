package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/api/handlers"
	"github.com/mwhitfield/fpl-projector/internal/engine"
	"github.com/mwhitfield/fpl-projector/internal/services"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/internal/transfers"
	"github.com/mwhitfield/fpl-projector/pkg/config"
	"github.com/mwhitfield/fpl-projector/pkg/database"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	store *snapshot.Store,
	projector *engine.Engine,
	transferEngine *transfers.Engine,
	ttlCache *services.TTLCache,
	cache *services.CacheService,
	refresher *services.RefresherService,
	cfg *config.Config,
	logger *logrus.Logger,
) {
	projectionHandler := handlers.NewProjectionHandler(store, projector, ttlCache, cache, cfg, logger)
	transferHandler := handlers.NewTransferHandler(projectionHandler, transferEngine, db, logger)
	snapshotHandler := handlers.NewSnapshotHandler(refresher, store, logger)

	// Projection endpoints
	group.GET("/fixtures/:id/projection", projectionHandler.GetFixtureProjection)
	group.GET("/players/:id/projection", projectionHandler.GetPlayerProjection)
	group.GET("/teams/:id/outlook", projectionHandler.GetTeamOutlook)

	// Transfer endpoints
	group.POST("/transfers/recommend", transferHandler.RecommendTransfers)
	group.GET("/transfers/history", transferHandler.GetHistory)

	// Snapshot admin endpoints
	group.POST("/snapshot/rebuild", snapshotHandler.TriggerRebuild)
	group.GET("/snapshot/status", snapshotHandler.GetStatus)
}
