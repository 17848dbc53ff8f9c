package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Enum columns are plain
// strings here; conversion to domain types happens in the mapping package.
type Transaction struct {
	TransactionID   string           `db:"transaction_id"`
	StationID       string           `db:"station_id"`
	TransactionDate time.Time        `db:"transaction_date"`
	Description     string           `db:"description"`
	Notes           string           `db:"notes"`
	TransactionType string           `db:"transaction_type"`
	ApprovalStatus  string           `db:"approval_status"`
	ApprovedBy      *string          `db:"approved_by"`
	ApprovedAt      *time.Time       `db:"approved_at"`
	RejectedBy      *string          `db:"rejected_by"`
	RejectedAt      *time.Time       `db:"rejected_at"`
	ReferenceNumber *string          `db:"reference_number"`
	ProductID       *string          `db:"product_id"`
	PurchaseVolume  *decimal.Decimal `db:"purchase_volume"`
	DeliveredVolume *decimal.Decimal `db:"delivered_volume"`
	SourceKind      *string          `db:"source_kind"`
	SourceID        *string          `db:"source_id"`
	ReversalOf      []string         `db:"reversal_of"` // NOT NULL, '{}' when empty
	AuditFields
}
