package mapping

import (
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a row. Entries are mapped separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	var sourceKind *string
	if d.SourceKind != nil {
		k := string(*d.SourceKind)
		sourceKind = &k
	}
	reversalOf := d.ReversalOf
	if reversalOf == nil {
		reversalOf = []string{}
	}
	return models.Transaction{
		TransactionID:   d.TransactionID,
		StationID:       d.StationID,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Notes:           d.Notes,
		TransactionType: string(d.TransactionType),
		ApprovalStatus:  string(d.Status),
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		RejectedBy:      d.RejectedBy,
		RejectedAt:      d.RejectedAt,
		ReferenceNumber: d.ReferenceNumber,
		ProductID:       d.ProductID,
		PurchaseVolume:  d.PurchaseVolume,
		DeliveredVolume: d.DeliveredVolume,
		SourceKind:      sourceKind,
		SourceID:        d.SourceID,
		ReversalOf:      reversalOf,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a row and its journal lines to a domain Transaction.
func ToDomainTransaction(m models.Transaction, entries []models.JournalEntry) domain.Transaction {
	var sourceKind *domain.EntityKind
	if m.SourceKind != nil {
		k := domain.EntityKind(*m.SourceKind)
		sourceKind = &k
	}
	var reversalOf []string
	if len(m.ReversalOf) > 0 {
		reversalOf = m.ReversalOf
	}
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		StationID:       m.StationID,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Notes:           m.Notes,
		TransactionType: domain.TransactionType(m.TransactionType),
		Approval: domain.Approval{
			Status:     domain.ApprovalStatus(m.ApprovalStatus),
			ApprovedBy: m.ApprovedBy,
			ApprovedAt: m.ApprovedAt,
			RejectedBy: m.RejectedBy,
			RejectedAt: m.RejectedAt,
		},
		ReferenceNumber: m.ReferenceNumber,
		ProductID:       m.ProductID,
		PurchaseVolume:  m.PurchaseVolume,
		DeliveredVolume: m.DeliveredVolume,
		SourceKind:      sourceKind,
		SourceID:        m.SourceID,
		ReversalOf:      reversalOf,
		Entries:         ToDomainJournalEntries(entries),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to a row of the given transaction.
func ToModelJournalEntry(transactionID string, d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: transactionID,
		AccountID:     d.AccountID,
		LineNo:        d.LineNo,
		Debit:         d.Debit,
		Credit:        d.Credit,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainJournalEntries converts rows to domain entries, never returning nil.
func ToDomainJournalEntries(rows []models.JournalEntry) []domain.JournalEntry {
	out := make([]domain.JournalEntry, len(rows))
	for i, m := range rows {
		out[i] = domain.JournalEntry{
			EntryID:       m.EntryID,
			TransactionID: m.TransactionID,
			AccountID:     m.AccountID,
			LineNo:        m.LineNo,
			Debit:         m.Debit,
			Credit:        m.Credit,
			Description:   m.Description,
			CreatedAt:     m.CreatedAt,
		}
	}
	return out
}
