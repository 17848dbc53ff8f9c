package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rollbackHandler handles HTTP requests that undo approvals.
type rollbackHandler struct {
	rollbackService portssvc.RollbackSvc
}

// newRollbackHandler creates a new rollbackHandler.
func newRollbackHandler(rollbackService portssvc.RollbackSvc) *rollbackHandler {
	return &rollbackHandler{rollbackService: rollbackService}
}

// RegisterRollbackRoutes registers the rollback endpoints under a station group.
// limit guards the mutating routes and may be nil.
func RegisterRollbackRoutes(rg *gin.RouterGroup, rollbackService portssvc.RollbackSvc, limit gin.HandlerFunc) {
	h := newRollbackHandler(rollbackService)

	mutating := rg.Group("")
	if limit != nil {
		mutating.Use(limit)
	}
	mutating.POST("/unloads/:id/rollback", h.rollbackUnload)
	mutating.POST("/deposits/:id/rollback", h.rollbackDeposit)
	mutating.POST("/tank-readings/:id/rollback", h.rollbackTankReading)
	mutating.POST("/purchases/:id/rollback", h.rollbackPurchase)

	rg.GET("/rollback-check/:kind/:id", h.checkRollback)
}

// writeResult responds with the rollback result, using its error kind for the status.
func writeResult(c *gin.Context, logger *slog.Logger, result dto.RollbackResult) {
	if result.Success {
		logger.Info("Rollback completed", slog.Int("warnings", len(result.Warnings)))
		c.JSON(http.StatusOK, result)
		return
	}
	logger.Warn("Rollback failed", slog.String("error_kind", string(result.ErrorKind)), slog.String("message", result.Message))
	c.JSON(statusForKind(result.ErrorKind), result)
}

// rollbackUnload godoc
// @Summary Roll back an approved unload
// @Description Reverses the unload's inventory posting, restores the purchase's remaining volume and marks the unload REJECTED.
// @Tags rollback
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Unload ID"
// @Success 200 {object} dto.RollbackResult
// @Failure 403 {object} dto.RollbackResult "Role not allowed"
// @Failure 404 {object} dto.RollbackResult "Unload not found"
// @Failure 409 {object} dto.RollbackResult "Unload is not approved"
// @Failure 422 {object} dto.RollbackResult "Originating transaction not found"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} dto.RollbackResult "Store failure"
// @Security BearerAuth
// @Router /stations/{stationID}/unloads/{id}/rollback [post]
func (h *rollbackHandler) rollbackUnload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, unloadID := c.Param("stationID"), c.Param("id")
	logger = logger.With(slog.String("station_id", stationID), slog.String("unload_id", unloadID))

	result := h.rollbackService.RollbackUnload(c.Request.Context(), stationID, unloadID, userID)
	writeResult(c, logger, result)
}

// rollbackDeposit godoc
// @Summary Roll back an approved deposit
// @Description Reverses the deposit posting and unverifies its shift. Later verified shifts block the rollback unless cascadeUnverify is set.
// @Tags rollback
// @Accept  json
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Deposit ID"
// @Param   options body dto.DepositRollbackRequest false "Rollback options"
// @Success 200 {object} dto.RollbackResult
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} dto.RollbackResult "Role not allowed"
// @Failure 404 {object} dto.RollbackResult "Deposit not found"
// @Failure 409 {object} dto.RollbackResult "Deposit is not approved or later shifts are verified"
// @Failure 422 {object} dto.RollbackResult "Originating transaction not found"
// @Failure 500 {object} dto.RollbackResult "Store failure"
// @Security BearerAuth
// @Router /stations/{stationID}/deposits/{id}/rollback [post]
func (h *rollbackHandler) rollbackDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, depositID := c.Param("stationID"), c.Param("id")
	logger = logger.With(slog.String("station_id", stationID), slog.String("deposit_id", depositID))

	var req dto.DepositRollbackRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for RollbackDeposit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	opts := domain.RollbackOptions{CascadeUnverify: req.CascadeUnverify, Force: req.Force}
	result := h.rollbackService.RollbackDeposit(c.Request.Context(), stationID, depositID, userID, opts)
	writeResult(c, logger, result)
}

// rollbackTankReading godoc
// @Summary Roll back an approved tank reading
// @Description Reverses the variance posting of the reading. Later approved readings on the tank must be rolled back first.
// @Tags rollback
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Tank reading ID"
// @Success 200 {object} dto.RollbackResult
// @Failure 403 {object} dto.RollbackResult "Role not allowed"
// @Failure 404 {object} dto.RollbackResult "Reading not found"
// @Failure 409 {object} dto.RollbackResult "Reading is not approved or later readings exist"
// @Failure 500 {object} dto.RollbackResult "Store failure"
// @Security BearerAuth
// @Router /stations/{stationID}/tank-readings/{id}/rollback [post]
func (h *rollbackHandler) rollbackTankReading(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, readingID := c.Param("stationID"), c.Param("id")
	logger = logger.With(slog.String("station_id", stationID), slog.String("reading_id", readingID))

	result := h.rollbackService.RollbackTankReading(c.Request.Context(), stationID, readingID, userID)
	writeResult(c, logger, result)
}

// rollbackPurchase godoc
// @Summary Roll back an approved purchase
// @Description Reverses the purchase posting. Fails while any unload references the purchase.
// @Tags rollback
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Purchase transaction ID"
// @Success 200 {object} dto.RollbackResult
// @Failure 403 {object} dto.RollbackResult "Role not allowed"
// @Failure 404 {object} dto.RollbackResult "Purchase not found"
// @Failure 409 {object} dto.RollbackResult "Purchase is not approved or has unloads"
// @Failure 500 {object} dto.RollbackResult "Store failure"
// @Security BearerAuth
// @Router /stations/{stationID}/purchases/{id}/rollback [post]
func (h *rollbackHandler) rollbackPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, purchaseID := c.Param("stationID"), c.Param("id")
	logger = logger.With(slog.String("station_id", stationID), slog.String("purchase_id", purchaseID))

	result := h.rollbackService.RollbackPurchase(c.Request.Context(), stationID, purchaseID, userID)
	writeResult(c, logger, result)
}

// checkRollback godoc
// @Summary Preview a rollback
// @Description Runs the guards and chain validation without changing anything.
// @Tags rollback
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   kind path string true "unloads, deposits, tank-readings or purchases"
// @Param   id path string true "Record ID"
// @Success 200 {object} dto.RollbackCheckResponse
// @Failure 400 {object} map[string]string "Unknown kind"
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 409 {object} map[string]string "Record is not approved"
// @Failure 500 {object} map[string]string "Store failure"
// @Security BearerAuth
// @Router /stations/{stationID}/rollback-check/{kind}/{id} [get]
func (h *rollbackHandler) checkRollback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, entityID := c.Param("stationID"), c.Param("id")
	kind, ok := kindFromPath(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown kind: " + c.Param("kind")})
		return
	}

	report, err := h.rollbackService.CheckRollback(c.Request.Context(), stationID, kind, entityID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to check rollback")
		return
	}
	c.JSON(http.StatusOK, dto.ToRollbackCheckResponse(kind, entityID, *report))
}
