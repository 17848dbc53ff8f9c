package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RollbackPrefix tags every description written by a reversal.
const RollbackPrefix = "ROLLBACK: "

// DebitLine builds a debit journal line.
func DebitLine(accountID string, amount decimal.Decimal, description string) domain.JournalEntry {
	return domain.JournalEntry{AccountID: accountID, Debit: amount, Credit: decimal.Zero, Description: description}
}

// CreditLine builds a credit journal line.
func CreditLine(accountID string, amount decimal.Decimal, description string) domain.JournalEntry {
	return domain.JournalEntry{AccountID: accountID, Debit: decimal.Zero, Credit: amount, Description: description}
}

// ValidateBalance checks the double-entry invariants of a transaction.
// It returns an *apperrors.UnbalancedEntryError on any violation.
func ValidateBalance(txn domain.Transaction) error {
	unbalanced := func(reason string) error {
		return &apperrors.UnbalancedEntryError{
			TransactionID: txn.TransactionID,
			Debit:         txn.TotalDebit().String(),
			Credit:        txn.TotalCredit().String(),
			Reason:        reason,
		}
	}

	if len(txn.Entries) < 2 {
		return unbalanced("a transaction needs at least two journal lines")
	}

	for i, e := range txn.Entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return unbalanced(fmt.Sprintf("line %d has a negative amount", i+1))
		}
		if !e.Debit.IsZero() && !e.Credit.IsZero() {
			return unbalanced(fmt.Sprintf("line %d has both debit and credit", i+1))
		}
		if e.Debit.IsZero() && e.Credit.IsZero() {
			return unbalanced(fmt.Sprintf("line %d is zero", i+1))
		}
		if e.AccountID == "" {
			return unbalanced(fmt.Sprintf("line %d has no account", i+1))
		}
	}

	if !txn.TotalDebit().Equal(txn.TotalCredit()) {
		return unbalanced("")
	}
	return nil
}

// PrepareEntries assigns entry ids, the owning transaction id, line numbers and timestamps in place.
func PrepareEntries(txn *domain.Transaction) {
	for i := range txn.Entries {
		e := &txn.Entries[i]
		if e.EntryID == "" {
			e.EntryID = uuid.NewString()
		}
		e.TransactionID = txn.TransactionID
		e.LineNo = i + 1
		if e.CreatedAt.IsZero() {
			e.CreatedAt = txn.CreatedAt
		}
	}
}

// ReversalRequest describes the compensating transaction to build.
type ReversalRequest struct {
	StationID  string
	SourceKind domain.EntityKind
	SourceID   string
	At         time.Time
	By         string
}

// ReferenceNumber is the reference stamped on a reversal of the given entity.
func ReferenceNumber(kind domain.EntityKind, id string) string {
	return fmt.Sprintf("RB-%s-%s", kind, id)
}

// BuildReversal mirrors every line of the originals with debit and credit swapped
// into a single approved ADJUSTMENT transaction dated at req.At.
func BuildReversal(req ReversalRequest, originals []domain.Transaction) domain.Transaction {
	kind := req.SourceKind
	source := req.SourceID
	ref := ReferenceNumber(req.SourceKind, req.SourceID)
	at := req.At
	by := req.By

	origIDs := make([]string, 0, len(originals))
	var entries []domain.JournalEntry
	for _, orig := range originals {
		origIDs = append(origIDs, orig.TransactionID)
		for _, e := range orig.Entries {
			m := e.Swapped()
			m.EntryID = ""
			m.CreatedAt = time.Time{}
			m.Description = tag(e.Description)
			entries = append(entries, m)
		}
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		StationID:       req.StationID,
		TransactionDate: at,
		Description:     tag(fmt.Sprintf("%s %s reversed", kind, source)),
		Notes:           fmt.Sprintf("Reverses %s", strings.Join(origIDs, ", ")),
		TransactionType: domain.TxAdjustment,
		Approval: domain.Approval{
			Status:     domain.StatusApproved,
			ApprovedBy: &by,
			ApprovedAt: &at,
		},
		ReferenceNumber: &ref,
		SourceKind:      &kind,
		SourceID:        &source,
		ReversalOf:      origIDs,
		Entries:         entries,
		AuditFields:     domain.NewAuditFields(by, at),
	}
	PrepareEntries(&txn)
	return txn
}

func tag(s string) string {
	if strings.HasPrefix(s, RollbackPrefix) {
		return s
	}
	return RollbackPrefix + s
}
