package dto

import (
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApprovalResponse is returned by approve and reject.
type ApprovalResponse struct {
	Kind          domain.EntityKind     `json:"kind"`
	EntityID      string                `json:"entityID"`
	Status        domain.ApprovalStatus `json:"status"`
	ApprovedBy    *string               `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time            `json:"approvedAt,omitempty"`
	RejectedBy    *string               `json:"rejectedBy,omitempty"`
	RejectedAt    *time.Time            `json:"rejectedAt,omitempty"`
	TransactionID *string               `json:"transactionID,omitempty"` // ledger transaction posted by the approval
}

// ToApprovalResponse converts any approvable record.
func ToApprovalResponse(e domain.Approvable, transactionID *string) ApprovalResponse {
	a := e.ApprovalState()
	return ApprovalResponse{
		Kind:          e.Kind(),
		EntityID:      e.EntityID(),
		Status:        a.Status,
		ApprovedBy:    a.ApprovedBy,
		ApprovedAt:    a.ApprovedAt,
		RejectedBy:    a.RejectedBy,
		RejectedAt:    a.RejectedAt,
		TransactionID: transactionID,
	}
}

// StockResponse defines the data returned for a tank stock query.
type StockResponse struct {
	TankID       string             `json:"tankID"`
	Liters       decimal.Decimal    `json:"liters"`
	Source       domain.StockSource `json:"source"`
	ReadingID    *string            `json:"readingID,omitempty"`
	BaseValue    decimal.Decimal    `json:"baseValue"`
	UnloadsSince decimal.Decimal    `json:"unloadsSince"`
	SalesSince   decimal.Decimal    `json:"salesSince"`
	AsOf         time.Time          `json:"asOf"`
}

// ToStockResponse converts a domain.StockSnapshot.
func ToStockResponse(s *domain.StockSnapshot) StockResponse {
	return StockResponse{
		TankID:       s.TankID,
		Liters:       s.Liters,
		Source:       s.Source,
		ReadingID:    s.ReadingID,
		BaseValue:    s.BaseValue,
		UnloadsSince: s.UnloadsSince,
		SalesSince:   s.SalesSince,
		AsOf:         s.AsOf,
	}
}
