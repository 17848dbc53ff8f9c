package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/utils/accounting"
	"github.com/SscSPs/fuel_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func cloneTxn(t domain.Transaction) domain.Transaction {
	t.Entries = append([]domain.JournalEntry(nil), t.Entries...)
	t.ReversalOf = append([]string(nil), t.ReversalOf...)
	return t
}

func sortLedger(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.TransactionID < b.TransactionID
	})
}

func txnNotFound(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
}

func (r *repos) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	// Mirrors the deferred balance trigger of the Postgres schema.
	if err := accounting.ValidateBalance(txn); err != nil {
		return err
	}
	return r.do(func(st *state) error {
		if _, exists := st.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		st.transactions[txn.TransactionID] = cloneTxn(txn)
		return nil
	})
}

func (r *repos) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	var out domain.Transaction
	err := r.do(func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok {
			return txnNotFound(transactionID)
		}
		out = cloneTxn(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) LockTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.FindTransactionByID(ctx, transactionID)
}

func (r *repos) FindTransactions(_ context.Context, c domain.TransactionCriteria) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.do(func(st *state) error {
		reversed := make(map[string]struct{})
		if c.ExcludeReversed {
			for _, t := range st.transactions {
				for _, id := range t.ReversalOf {
					reversed[id] = struct{}{}
				}
			}
		}
		for _, t := range st.transactions {
			if !matches(t, c) {
				continue
			}
			if _, ok := reversed[t.TransactionID]; ok {
				continue
			}
			out = append(out, cloneTxn(t))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortLedger(out)
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func matches(t domain.Transaction, c domain.TransactionCriteria) bool {
	if c.StationID != "" && t.StationID != c.StationID {
		return false
	}
	if len(c.Types) > 0 && !contains(c.Types, t.TransactionType) {
		return false
	}
	if len(c.Statuses) > 0 && !contains(c.Statuses, t.Status) {
		return false
	}
	if c.From != nil && t.TransactionDate.Before(*c.From) {
		return false
	}
	if c.To != nil && t.TransactionDate.After(*c.To) {
		return false
	}
	if c.SourceKind != nil && (t.SourceKind == nil || *t.SourceKind != *c.SourceKind) {
		return false
	}
	if c.SourceID != nil && (t.SourceID == nil || *t.SourceID != *c.SourceID) {
		return false
	}
	if c.Unreferenced && t.SourceID != nil {
		return false
	}
	if c.ExcludeReversal && t.IsReversal() {
		return false
	}
	if c.ProductID != nil && (t.ProductID == nil || *t.ProductID != *c.ProductID) {
		return false
	}
	return true
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (r *repos) ListTransactions(_ context.Context, stationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var all []domain.Transaction
	if err := r.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.StationID == stationID {
				all = append(all, cloneTxn(t))
			}
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	sortLedger(all)

	page := make([]domain.Transaction, 0, limit)
	for _, t := range all {
		if cursor != nil && !cursor.After(t.TransactionDate, t.CreatedAt, t.TransactionID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(pagination.Cursor{
				TransactionDate: last.TransactionDate,
				CreatedAt:       last.CreatedAt,
				TransactionID:   last.TransactionID,
			})
			return page, &token, nil
		}
		page = append(page, t)
	}
	return page, nil, nil
}

func (r *repos) UpdateTransactionApproval(_ context.Context, transactionID string, approval domain.Approval, updatedBy string, at time.Time) error {
	return r.do(func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok {
			return txnNotFound(transactionID)
		}
		t.Approval = approval
		t.LastUpdatedBy = updatedBy
		t.LastUpdatedAt = at
		st.transactions[transactionID] = t
		return nil
	})
}

func (r *repos) UpdateDeliveredVolume(_ context.Context, transactionID string, delivered decimal.Decimal, updatedBy string, at time.Time) error {
	return r.do(func(st *state) error {
		t, ok := st.transactions[transactionID]
		if !ok {
			return txnNotFound(transactionID)
		}
		t.DeliveredVolume = &delivered
		t.LastUpdatedBy = updatedBy
		t.LastUpdatedAt = at
		st.transactions[transactionID] = t
		return nil
	})
}

func (r *repos) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out domain.Account
	err := r.do(func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if err := r.do(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
