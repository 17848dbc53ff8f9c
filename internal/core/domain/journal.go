package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one debit or credit line of a Transaction.
// Only one side is non-zero; both exist so a reversal is a field swap.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	LineNo        int             `json:"lineNo"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Swapped returns the entry with debit and credit exchanged.
func (e JournalEntry) Swapped() JournalEntry {
	e.Debit, e.Credit = e.Credit, e.Debit
	return e
}
