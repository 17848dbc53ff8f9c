package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
)

// UnloadReader defines read operations for unloads
type UnloadReader interface {
	FindUnloadByID(ctx context.Context, unloadID string) (*domain.Unload, error)

	// ListUnloadsByPurchase returns every unload referencing the purchase, whatever its status.
	ListUnloadsByPurchase(ctx context.Context, purchaseTransactionID string) ([]domain.Unload, error)

	// ListApprovedUnloadsByTank returns approved unloads created strictly after since (all when nil).
	ListApprovedUnloadsByTank(ctx context.Context, tankID string, since *time.Time) ([]domain.Unload, error)
}

// UnloadWriter defines write operations for unloads
type UnloadWriter interface {
	LockUnload(ctx context.Context, unloadID string) (*domain.Unload, error)

	// UpdateUnloadApproval writes the approval fields and delivered volume.
	UpdateUnloadApproval(ctx context.Context, unload domain.Unload) error
}

type UnloadRepositoryFacade interface {
	UnloadReader
	UnloadWriter
}

// DepositReader defines read operations for deposits
type DepositReader interface {
	FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error)
}

// DepositWriter defines write operations for deposits
type DepositWriter interface {
	LockDeposit(ctx context.Context, depositID string) (*domain.Deposit, error)
	UpdateDepositApproval(ctx context.Context, deposit domain.Deposit) error
}

type DepositRepositoryFacade interface {
	DepositReader
	DepositWriter
}
