package dto

import (
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryResponse defines the data returned for one journal line.
type JournalEntryResponse struct {
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	StationID       string                 `json:"stationID"`
	TransactionDate time.Time              `json:"transactionDate"`
	TransactionType domain.TransactionType `json:"transactionType"`
	Description     string                 `json:"description"`
	Notes           string                 `json:"notes"`
	Status          domain.ApprovalStatus  `json:"status"`
	ApprovedBy      *string                `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time             `json:"approvedAt,omitempty"`
	ReferenceNumber *string                `json:"referenceNumber,omitempty"`
	ProductID       *string                `json:"productID,omitempty"`
	PurchaseVolume  *decimal.Decimal       `json:"purchaseVolume,omitempty"`
	DeliveredVolume *decimal.Decimal       `json:"deliveredVolume,omitempty"`
	SourceKind      *domain.EntityKind     `json:"sourceKind,omitempty"`
	SourceID        *string                `json:"sourceID,omitempty"`
	ReversalOf      []string               `json:"reversalOf,omitempty"`
	Amount          decimal.Decimal        `json:"amount"`
	Entries         []JournalEntryResponse `json:"entries"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]JournalEntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = JournalEntryResponse{
			EntryID:     e.EntryID,
			LineNo:      e.LineNo,
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
	}
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		StationID:       txn.StationID,
		TransactionDate: txn.TransactionDate,
		TransactionType: txn.TransactionType,
		Description:     txn.Description,
		Notes:           txn.Notes,
		Status:          txn.Status,
		ApprovedBy:      txn.ApprovedBy,
		ApprovedAt:      txn.ApprovedAt,
		ReferenceNumber: txn.ReferenceNumber,
		ProductID:       txn.ProductID,
		PurchaseVolume:  txn.PurchaseVolume,
		DeliveredVolume: txn.DeliveredVolume,
		SourceKind:      txn.SourceKind,
		SourceID:        txn.SourceID,
		ReversalOf:      txn.ReversalOf,
		Amount:          txn.Amount(),
		Entries:         entries,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing transactions.
// When SourceKind and SourceID are both set, the ledger is searched by source reference instead of paged.
type ListTransactionsParams struct {
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
	SourceKind string  `form:"sourceKind" binding:"omitempty,entitykind"`
	SourceID   string  `form:"sourceID" binding:"required_with=SourceKind"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
