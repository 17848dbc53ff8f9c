package services

import (
	"context"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/dto"
)

// RollbackSvc reverses approved records. Failures are reported in the result, never as errors.
type RollbackSvc interface {
	RollbackUnload(ctx context.Context, stationID, unloadID, userID string) dto.RollbackResult
	RollbackDeposit(ctx context.Context, stationID, depositID, userID string, opts domain.RollbackOptions) dto.RollbackResult
	RollbackTankReading(ctx context.Context, stationID, readingID, userID string) dto.RollbackResult
	RollbackPurchase(ctx context.Context, stationID, purchaseTransactionID, userID string) dto.RollbackResult

	// CheckRollback runs the guards and chain validation without writing anything.
	CheckRollback(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*domain.ChainReport, error)
}

// ApprovalSvc moves pending records to APPROVED or REJECTED.
type ApprovalSvc interface {
	Approve(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error)
	Reject(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error)
}
