package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// ledgerService records and reads ledger transactions.
type ledgerService struct {
	BaseService
	uow   portsrepo.UnitOfWork
	clock clock.Clock
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(uow portsrepo.UnitOfWork, c clock.Clock, authorizer portssvc.StationAuthorizerSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: BaseService{Authorizer: authorizer},
		uow:         uow,
		clock:       c,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// recordTransaction validates and saves txn through the given repositories.
// Ids, line numbers and timestamps are filled in place.
func recordTransaction(ctx context.Context, repos portsrepo.RepositoryProvider, txn *domain.Transaction) error {
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	if !txn.TransactionType.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txn.TransactionType)
	}
	if txn.StationID == "" {
		return fmt.Errorf("%w: transaction %s has no station", apperrors.ErrValidation, txn.TransactionID)
	}
	accounting.PrepareEntries(txn)
	if err := accounting.ValidateBalance(*txn); err != nil {
		return err
	}

	ids := make([]string, 0, len(txn.Entries))
	for _, e := range txn.Entries {
		ids = append(ids, e.AccountID)
	}
	found, err := repos.AccountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: unknown account(s) %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}

	if err := repos.LedgerRepo.SaveTransaction(ctx, *txn); err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (s *ledgerService) Record(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	now := s.clock.Now()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
		txn.LastUpdatedAt = now
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = now
	}

	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		return recordTransaction(ctx, repos, &txn)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, storeFailure("failed to record transaction", err)
	}
	s.LogInfo(ctx, "Transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("type", string(txn.TransactionType)))
	return &txn, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, stationID, transactionID, userID string) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, userID, stationID, domain.ActionView, ""); err != nil {
		return nil, err
	}
	txn, err := s.uow.Repositories().LedgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, storeFailure("failed to load transaction", err)
	}
	if txn.StationID != stationID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, stationID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.Authorize(ctx, userID, stationID, domain.ActionView, ""); err != nil {
		return nil, err
	}
	repo := s.uow.Repositories().LedgerRepo

	if params.SourceKind != "" && params.SourceID != "" {
		kind := domain.EntityKind(params.SourceKind)
		txns, err := repo.FindTransactions(ctx, domain.TransactionCriteria{
			StationID:  stationID,
			SourceKind: &kind,
			SourceID:   &params.SourceID,
			Limit:      params.Limit,
		})
		if err != nil {
			return nil, storeFailure("failed to search transactions", err)
		}
		return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns)}, nil
	}

	txns, next, err := repo.ListTransactions(ctx, stationID, params.Limit, params.NextToken)
	if err != nil {
		return nil, storeFailure("failed to list transactions", err)
	}
	return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns), NextToken: next}, nil
}

func (s *ledgerService) Find(ctx context.Context, criteria domain.TransactionCriteria) ([]domain.Transaction, error) {
	txns, err := s.uow.Repositories().LedgerRepo.FindTransactions(ctx, criteria)
	if err != nil {
		return nil, storeFailure("failed to find transactions", err)
	}
	return txns, nil
}
