package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForKind maps an error classification onto an HTTP status.
func statusForKind(kind dto.ErrorKind) int {
	switch kind {
	case dto.KindUnauthorized:
		return http.StatusForbidden
	case dto.KindNotFound:
		return http.StatusNotFound
	case dto.KindInvalidState, dto.KindChainViolation:
		return http.StatusConflict
	case dto.KindOriginatingTransactionNotFound, dto.KindUnbalancedEntry:
		return http.StatusUnprocessableEntity
	case dto.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status of its classification.
// Store failures never leak their cause to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	kind := dto.ClassifyError(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": internalMsg, "errorKind": kind})
		return
	}
	logger.Warn(internalMsg, slog.String("error", err.Error()), slog.String("error_kind", string(kind)))
	c.JSON(status, gin.H{"error": err.Error(), "errorKind": kind})
}

// requireUser reads the authenticated user id and aborts with 401 when it is missing.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// kindSegments are the URL segments of the approvable records.
var kindSegments = map[string]domain.EntityKind{
	"unloads":       domain.KindUnload,
	"deposits":      domain.KindDeposit,
	"tank-readings": domain.KindTankReading,
	"purchases":     domain.KindPurchase,
}

// kindFromPath accepts a URL segment ("tank-readings") or the kind itself ("TANK_READING").
func kindFromPath(raw string) (domain.EntityKind, bool) {
	if kind, ok := kindSegments[strings.ToLower(raw)]; ok {
		return kind, true
	}
	kind := domain.EntityKind(strings.ToUpper(raw))
	return kind, kind.Valid()
}
