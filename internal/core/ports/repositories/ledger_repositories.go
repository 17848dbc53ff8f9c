package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger transactions
type LedgerReader interface {
	// FindTransactionByID retrieves a transaction and its journal lines.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactions returns transactions matching the criteria ordered by (transaction date, created at).
	FindTransactions(ctx context.Context, criteria domain.TransactionCriteria) ([]domain.Transaction, error)

	// ListTransactions retrieves a page of a station's transactions using token-based pagination.
	ListTransactions(ctx context.Context, stationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines write operations for ledger transactions.
// Journal lines are never updated or deleted once saved.
type LedgerWriter interface {
	// SaveTransaction persists a transaction and its journal lines.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// LockTransaction loads a transaction and locks it for the rest of the unit of work.
	LockTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// UpdateTransactionApproval writes the approval fields of a purchase transaction.
	UpdateTransactionApproval(ctx context.Context, transactionID string, approval domain.Approval, updatedBy string, at time.Time) error

	// UpdateDeliveredVolume sets a purchase's delivered volume.
	UpdateDeliveredVolume(ctx context.Context, transactionID string, delivered decimal.Decimal, updatedBy string, at time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
