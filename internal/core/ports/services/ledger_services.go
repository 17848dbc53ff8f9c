package services

import (
	"context"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	// GetTransaction retrieves a transaction of the station.
	GetTransaction(ctx context.Context, stationID, transactionID, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of the station's transactions, or searches by source reference.
	ListTransactions(ctx context.Context, stationID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// Find runs a read-only criteria query.
	Find(ctx context.Context, criteria domain.TransactionCriteria) ([]domain.Transaction, error)
}

// LedgerWriterSvc defines write operations for ledger data
type LedgerWriterSvc interface {
	// Record validates and persists a balanced transaction.
	Record(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// StockSvc exposes the stock calculator.
type StockSvc interface {
	GetTankStock(ctx context.Context, stationID, tankID, userID string) (*domain.StockSnapshot, error)
}
