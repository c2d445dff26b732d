package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/engine"
	"github.com/mwhitfield/fpl-projector/internal/services"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/pkg/config"
	"github.com/mwhitfield/fpl-projector/pkg/utils"
)

// ProjectionHandler serves fixture, player and team projections. All
// reads go through the current snapshot; the engine context derived
// from a snapshot is cached in-process and rebuilt only when a new
// snapshot is published.
type ProjectionHandler struct {
	store     *snapshot.Store
	projector *engine.Engine
	ttlCache  *services.TTLCache
	cache     *services.CacheService
	cfg       *config.Config
	logger    *logrus.Logger
}

func NewProjectionHandler(
	store *snapshot.Store,
	projector *engine.Engine,
	ttlCache *services.TTLCache,
	cache *services.CacheService,
	cfg *config.Config,
	logger *logrus.Logger,
) *ProjectionHandler {
	return &ProjectionHandler{
		store:     store,
		projector: projector,
		ttlCache:  ttlCache,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
	}
}

// engineContext returns the cached engine context for the current
// snapshot, computing it at most once per snapshot per TTL window.
func (h *ProjectionHandler) engineContext() (*engine.Context, error) {
	snap, err := h.store.Current()
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("engine-context:%d", snap.BuiltAt.UnixNano())
	value, err := h.ttlCache.GetOrCompute(key, h.cfg.ProjectionCacheTTL, func() (interface{}, error) {
		return h.projector.NewContext(snap), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*engine.Context), nil
}

// GetFixtureProjection returns implied goals and clean-sheet odds for
// one fixture.
func (h *ProjectionHandler) GetFixtureProjection(c *gin.Context) {
	fixtureID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid fixture ID", err.Error())
		return
	}

	cacheKey := services.FixtureProjectionCacheKey(fixtureID)
	var cached engine.FixtureProjection
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	ctx, err := h.engineContext()
	if err != nil {
		h.sendContextError(c, err)
		return
	}

	projection, err := h.projector.ProjectFixtureByID(ctx, fixtureID)
	if err != nil {
		utils.SendNotFound(c, "Fixture not found")
		return
	}

	h.storeResponse(cacheKey, projection)
	utils.SendSuccess(c, projection)
}

// GetPlayerProjection returns the full multi-gameweek projection for a
// player. Horizon is clamped to the supported window.
func (h *ProjectionHandler) GetPlayerProjection(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}
	horizon := parseHorizon(c)

	cacheKey := services.PlayerProjectionCacheKey(playerID, horizon)
	var cached engine.PlayerProjection
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	ctx, err := h.engineContext()
	if err != nil {
		h.sendContextError(c, err)
		return
	}

	projection, err := h.projector.ProjectPlayer(ctx, playerID, horizon)
	if err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	h.storeResponse(cacheKey, projection)
	utils.SendSuccess(c, projection)
}

// GetTeamOutlook returns aggregate projections for a team's upcoming
// fixtures and key players.
func (h *ProjectionHandler) GetTeamOutlook(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
		return
	}
	horizon := parseHorizon(c)

	cacheKey := services.TeamOutlookCacheKey(teamID, horizon)
	var cached engine.TeamOutlook
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	ctx, err := h.engineContext()
	if err != nil {
		h.sendContextError(c, err)
		return
	}

	outlook, err := h.projector.ProjectTeam(ctx, teamID, horizon)
	if err != nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	h.storeResponse(cacheKey, outlook)
	utils.SendSuccess(c, outlook)
}

func (h *ProjectionHandler) sendContextError(c *gin.Context, err error) {
	if errors.Is(err, snapshot.ErrNotReady) {
		utils.SendUnavailable(c, "Projection data is still loading")
		return
	}
	h.logger.Errorf("Failed to build projection context: %v", err)
	utils.SendInternalError(c, "Failed to build projection context")
}

// storeResponse caches a computed response off the request path.
func (h *ProjectionHandler) storeResponse(key string, value interface{}) {
	go func() {
		if err := h.cache.Set(context.Background(), key, value, h.cfg.ResponseCacheTTL); err != nil {
			h.logger.Warnf("Failed to cache response %s: %v", key, err)
		}
	}()
}

func parseHorizon(c *gin.Context) int {
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", strconv.Itoa(engine.DefaultHorizon)))
	if err != nil || horizon <= 0 {
		return engine.DefaultHorizon
	}
	if horizon > engine.DefaultHorizon {
		return engine.DefaultHorizon
	}
	return horizon
}
