package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves read access to a station's ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newLedgerHandler(ledgerService portssvc.LedgerReaderSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// RegisterLedgerRoutes registers ledger routes under a station group.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	registerValidations()
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
	}
}

// listTransactions godoc
// @Summary List ledger transactions
// @Description Pages through the station's transactions oldest first, or lists the postings of one source record when sourceKind and sourceID are given.
// @Tags ledger
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   sourceKind query string false "UNLOAD, DEPOSIT, TANK_READING or PURCHASE"
// @Param   sourceID query string false "Source record ID"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /stations/{stationID}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID := c.Param("stationID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), stationID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a ledger transaction
// @Description Retrieves a transaction with its journal lines.
// @Tags ledger
// @Produce  json
// @Param   stationID path string true "Station ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Role not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /stations/{stationID}/transactions/{transactionID} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}
	stationID, transactionID := c.Param("stationID"), c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), stationID, transactionID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
