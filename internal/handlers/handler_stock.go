package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type stockHandler struct {
	stockService portssvc.StockSvc
}

// RegisterStockRoutes registers the tank stock route under a station group.
func RegisterStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvc) {
	h := &stockHandler{stockService: stockService}
	rg.GET("/tanks/:tankID/stock", h.getTankStock)
}

// getTankStock godoc
// @Summary Get computed tank stock
// @Description Returns the tank volume with the rule used to compute it.
// @Tags stock
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   tankID path string true "Tank ID"
// @Success 200 {object} dto.StockResponse
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 404 {object} map[string]string "Tank not found"
// @Failure 500 {object} map[string]string "Failed to compute stock"
// @Security BearerAuth
// @Router /stations/{stationID}/tanks/{tankID}/stock [get]
func (h *stockHandler) getTankStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	snapshot, err := h.stockService.GetTankStock(c.Request.Context(), c.Param("stationID"), c.Param("tankID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(snapshot))
}
