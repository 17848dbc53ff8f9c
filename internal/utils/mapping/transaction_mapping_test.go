package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToModelTransaction_NullableColumns(t *testing.T) {
	d := domain.Transaction{
		TransactionID:   "t1",
		TransactionType: domain.TxDeposit,
		Approval:        domain.Approval{Status: domain.StatusApproved},
	}

	m := ToModelTransaction(d)

	assert.Equal(t, "DEPOSIT", m.TransactionType)
	assert.Equal(t, "APPROVED", m.ApprovalStatus)
	assert.Nil(t, m.SourceKind)
	require.NotNil(t, m.ReversalOf, "reversal_of is NOT NULL")
	assert.Empty(t, m.ReversalOf)
}

func TestToDomainTransaction(t *testing.T) {
	kind := "UNLOAD"
	src := "un-1"
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	m := models.Transaction{
		TransactionID:   "rev-1",
		TransactionType: "UNLOAD",
		ApprovalStatus:  "APPROVED",
		SourceKind:      &kind,
		SourceID:        &src,
		ReversalOf:      []string{"t1"},
		AuditFields:     models.AuditFields{CreatedAt: at, CreatedBy: "u1"},
	}
	rows := []models.JournalEntry{
		{EntryID: "e1", TransactionID: "rev-1", AccountID: "1310", LineNo: 1, Debit: decimal.NewFromInt(50)},
		{EntryID: "e2", TransactionID: "rev-1", AccountID: "1300", LineNo: 2, Credit: decimal.NewFromInt(50)},
	}

	d := ToDomainTransaction(m, rows)

	assert.Equal(t, domain.TxUnload, d.TransactionType)
	assert.Equal(t, domain.StatusApproved, d.Status)
	require.NotNil(t, d.SourceKind)
	assert.Equal(t, domain.KindUnload, *d.SourceKind)
	assert.True(t, d.IsReversal())
	assert.Len(t, d.Entries, 2)
	assert.True(t, decimal.NewFromInt(50).Equal(d.Amount()))
	assert.Equal(t, at, d.CreatedAt)
}

func TestToDomainTransaction_EmptyReversalOf(t *testing.T) {
	d := ToDomainTransaction(models.Transaction{ReversalOf: []string{}}, nil)

	assert.Nil(t, d.ReversalOf)
	assert.False(t, d.IsReversal())
	assert.NotNil(t, d.Entries)
}

func TestModelJournalEntry_RoundTrip(t *testing.T) {
	e := domain.JournalEntry{EntryID: "e1", AccountID: "1100", LineNo: 1, Debit: decimal.NewFromInt(10)}

	m := ToModelJournalEntry("t1", e)
	back := ToDomainJournalEntries([]models.JournalEntry{m})

	assert.Equal(t, "t1", m.TransactionID)
	require.Len(t, back, 1)
	assert.Equal(t, "t1", back[0].TransactionID)
	assert.True(t, e.Debit.Equal(back[0].Debit))
}
