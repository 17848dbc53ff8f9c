package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// approvalHandler handles approve and reject requests for every approvable kind.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvc
}

func newApprovalHandler(approvalService portssvc.ApprovalSvc) *approvalHandler {
	return &approvalHandler{approvalService: approvalService}
}

// RegisterApprovalRoutes registers approve/reject for unloads, deposits, tank readings and purchases.
func RegisterApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvc) {
	h := newApprovalHandler(approvalService)
	for segment, kind := range kindSegments {
		rg.POST("/"+segment+"/:id/approve", h.approve(kind))
		rg.POST("/"+segment+"/:id/reject", h.reject(kind))
	}
}

// approve godoc
// @Summary Approve a pending record
// @Description Approves an unload, deposit, tank reading or purchase and posts its ledger transaction.
// @Tags approvals
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Record ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 409 {object} map[string]string "Record is not pending"
// @Failure 500 {object} map[string]string "Failed to approve"
// @Security BearerAuth
// @Router /stations/{stationID}/unloads/{id}/approve [post]
// @Router /stations/{stationID}/deposits/{id}/approve [post]
// @Router /stations/{stationID}/tank-readings/{id}/approve [post]
// @Router /stations/{stationID}/purchases/{id}/approve [post]
func (h *approvalHandler) approve(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := requireUser(c, logger)
		if !ok {
			return
		}
		stationID, entityID := c.Param("stationID"), c.Param("id")
		logger = logger.With(slog.String("station_id", stationID), slog.String("kind", string(kind)), slog.String("entity_id", entityID))

		resp, err := h.approvalService.Approve(c.Request.Context(), stationID, kind, entityID, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to approve record")
			return
		}

		logger.Info("Record approved")
		c.JSON(http.StatusOK, resp)
	}
}

// reject godoc
// @Summary Reject a pending record
// @Description Rejects a pending record. Rejecting an already rejected record fails with 409.
// @Tags approvals
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   id path string true "Record ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 409 {object} map[string]string "Record is not pending"
// @Failure 500 {object} map[string]string "Failed to reject"
// @Security BearerAuth
// @Router /stations/{stationID}/unloads/{id}/reject [post]
// @Router /stations/{stationID}/deposits/{id}/reject [post]
// @Router /stations/{stationID}/tank-readings/{id}/reject [post]
// @Router /stations/{stationID}/purchases/{id}/reject [post]
func (h *approvalHandler) reject(kind domain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := requireUser(c, logger)
		if !ok {
			return
		}
		stationID, entityID := c.Param("stationID"), c.Param("id")
		logger = logger.With(slog.String("station_id", stationID), slog.String("kind", string(kind)), slog.String("entity_id", entityID))

		resp, err := h.approvalService.Reject(c.Request.Context(), stationID, kind, entityID, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to reject record")
			return
		}

		logger.Info("Record rejected")
		c.JSON(http.StatusOK, resp)
	}
}
