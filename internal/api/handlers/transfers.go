package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/models"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/internal/transfers"
	"github.com/mwhitfield/fpl-projector/pkg/database"
	"github.com/mwhitfield/fpl-projector/pkg/utils"
)

const defaultHistoryLimit = 20

// TransferHandler runs transfer recommendations and serves their audit
// trail.
type TransferHandler struct {
	projections *ProjectionHandler
	engine      *transfers.Engine
	db          *database.DB
	logger      *logrus.Logger
}

func NewTransferHandler(projections *ProjectionHandler, engine *transfers.Engine, db *database.DB, logger *logrus.Logger) *TransferHandler {
	return &TransferHandler{
		projections: projections,
		engine:      engine,
		db:          db,
		logger:      logger,
	}
}

// RecommendTransfers scans the candidate pool for upgrades over the
// posted squad. Every run is recorded for later inspection.
func (h *TransferHandler) RecommendTransfers(c *gin.Context) {
	var req transfers.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(req.Squad) == 0 {
		utils.SendValidationError(c, "Squad is required", "provide at least one squad player")
		return
	}

	ctx, err := h.projections.engineContext()
	if err != nil {
		if errors.Is(err, snapshot.ErrNotReady) {
			utils.SendUnavailable(c, "Projection data is still loading")
			return
		}
		h.logger.Errorf("Failed to build projection context: %v", err)
		utils.SendInternalError(c, "Failed to build projection context")
		return
	}

	result, err := h.engine.Recommend(ctx, req)
	if err != nil {
		utils.SendValidationError(c, "Could not evaluate squad", err.Error())
		return
	}

	h.recordRun(req, result)
	utils.SendSuccess(c, result)
}

// GetHistory returns recent recommendation runs, newest first.
func (h *TransferHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > 100 {
		limit = 100
	}

	query := h.db.Model(&models.RecommendationLog{}).Order("created_at DESC").Limit(limit)
	if strategy := c.Query("strategy"); strategy != "" {
		query = query.Where("strategy = ?", strategy)
	}

	var logs []models.RecommendationLog
	if err := query.Find(&logs).Error; err != nil {
		h.logger.Errorf("Failed to load recommendation history: %v", err)
		utils.SendInternalError(c, "Failed to load recommendation history")
		return
	}

	utils.SendSuccess(c, logs)
}

// recordRun persists the run as JSON off the request path. Audit
// failures are logged, never surfaced.
func (h *TransferHandler) recordRun(req transfers.Request, result *transfers.Result) {
	go func() {
		requestJSON, err := json.Marshal(req)
		if err != nil {
			h.logger.Warnf("Failed to marshal recommendation request: %v", err)
			return
		}
		responseJSON, err := json.Marshal(result)
		if err != nil {
			h.logger.Warnf("Failed to marshal recommendation result: %v", err)
			return
		}

		log := models.RecommendationLog{
			Strategy: string(result.Strategy),
			Request:  requestJSON,
			Response: responseJSON,
		}
		if result.Best != nil {
			log.NetGain = result.Best.NetGain
		}
		if err := h.db.Create(&log).Error; err != nil {
			h.logger.Warnf("Failed to record recommendation run: %v", err)
		}
	}()
}
