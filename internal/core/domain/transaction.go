package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger transaction kinds.
type TransactionType string

const (
	TxRevenue     TransactionType = "REVENUE"
	TxCOGS        TransactionType = "COGS"
	TxUnload      TransactionType = "UNLOAD"
	TxPurchase    TransactionType = "PURCHASE"
	TxTankReading TransactionType = "TANK_READING"
	TxDeposit     TransactionType = "DEPOSIT"
	TxAdjustment  TransactionType = "ADJUSTMENT"
)

// Valid reports whether t belongs to the closed set.
func (t TransactionType) Valid() bool {
	switch t {
	case TxRevenue, TxCOGS, TxUnload, TxPurchase, TxTankReading, TxDeposit, TxAdjustment:
		return true
	}
	return false
}

// Transaction is one balanced accounting event composed of JournalEntry lines.
// A PURCHASE transaction doubles as the purchase record itself and carries
// the purchased and delivered volumes.
type Transaction struct {
	TransactionID   string           `json:"transactionID"`
	StationID       string           `json:"stationID"`
	TransactionDate time.Time        `json:"transactionDate"`
	Description     string           `json:"description"`
	Notes           string           `json:"notes"`
	TransactionType TransactionType  `json:"transactionType"`
	Approval                         // approvalStatus + approver
	ReferenceNumber *string          `json:"referenceNumber,omitempty"`
	ProductID       *string          `json:"productID,omitempty"`
	PurchaseVolume  *decimal.Decimal `json:"purchaseVolume,omitempty"`
	DeliveredVolume *decimal.Decimal `json:"deliveredVolume,omitempty"`
	SourceKind      *EntityKind      `json:"sourceKind,omitempty"` // entity whose approval produced this transaction
	SourceID        *string          `json:"sourceID,omitempty"`
	ReversalOf      []string         `json:"reversalOf,omitempty"` // transactions this one compensates
	Entries         []JournalEntry   `json:"entries"`
	AuditFields
}

// Kind implements Approvable. Only purchase transactions go through the approval state machine.
func (t *Transaction) Kind() EntityKind { return KindPurchase }

// EntityID implements Approvable.
func (t *Transaction) EntityID() string { return t.TransactionID }

// ApprovalState implements Approvable.
func (t *Transaction) ApprovalState() *Approval { return &t.Approval }

// TotalDebit sums the debit side.
func (t Transaction) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		sum = sum.Add(e.Debit)
	}
	return sum
}

// TotalCredit sums the credit side.
func (t Transaction) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		sum = sum.Add(e.Credit)
	}
	return sum
}

// Amount is the economic value of the transaction, i.e. one side of a balanced entry.
func (t Transaction) Amount() decimal.Decimal {
	return t.TotalDebit()
}

// IsReversal reports whether this transaction compensates others.
func (t Transaction) IsReversal() bool {
	return len(t.ReversalOf) > 0
}

// RemainingVolume is the purchased volume not yet attributed to approved unloads.
func (t Transaction) RemainingVolume() decimal.Decimal {
	if t.PurchaseVolume == nil {
		return decimal.Zero
	}
	delivered := decimal.Zero
	if t.DeliveredVolume != nil {
		delivered = *t.DeliveredVolume
	}
	return t.PurchaseVolume.Sub(delivered)
}

// TransactionCriteria filters ledger queries. Zero values mean "any".
type TransactionCriteria struct {
	StationID       string
	Types           []TransactionType
	Statuses        []ApprovalStatus
	From            *time.Time // inclusive, on TransactionDate
	To              *time.Time // inclusive, on TransactionDate
	SourceKind      *EntityKind
	SourceID        *string
	Unreferenced    bool // only transactions without a source reference
	ExcludeReversed bool // skip transactions already compensated by a reversal
	ExcludeReversal bool // skip reversal transactions themselves
	ProductID       *string
	Limit           int
}
