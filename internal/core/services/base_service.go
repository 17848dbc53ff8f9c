package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.StationAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks the station policy table for the caller.
// Without an authorizer every action is refused.
func (s *BaseService) Authorize(ctx context.Context, userID, stationID string, action domain.Action, kind domain.EntityKind) error {
	if s.Authorizer == nil {
		s.LogWarn(ctx, "No station authorizer configured, refusing action",
			slog.String("user_id", userID),
			slog.String("station_id", stationID),
			slog.String("action", string(action)))
		return fmt.Errorf("%w: no authorizer configured", apperrors.ErrForbidden)
	}
	return s.Authorizer.AuthorizeAction(ctx, userID, stationID, action, kind)
}

// storeFailure marks unexpected repository errors as store failures and leaves domain errors untouched.
func storeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrForbidden, apperrors.ErrInvalidState,
		apperrors.ErrChainViolation, apperrors.ErrOriginatingTransactionNotFound, apperrors.ErrUnbalancedEntry,
		apperrors.ErrDuplicate, apperrors.ErrConflict, apperrors.ErrStoreFailure,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return apperrors.NewAppError(500, op, err)
}
