package domain

import (
	"github.com/shopspring/decimal"
)

// Unload is a fuel delivery into a tank against a purchase.
type Unload struct {
	UnloadID              string          `json:"unloadID"`
	StationID             string          `json:"stationID"`
	TankID                string          `json:"tankID"`
	PurchaseTransactionID string          `json:"purchaseTransactionID"`
	LiterAmount           decimal.Decimal `json:"literAmount"`     // physically received
	DeliveredVolume       decimal.Decimal `json:"deliveredVolume"` // attributed against the purchase on approval
	Approval
	UnloaderID    string  `json:"unloaderID"`
	InvoiceNumber *string `json:"invoiceNumber,omitempty"`
	AuditFields
}

func (u *Unload) Kind() EntityKind         { return KindUnload }
func (u *Unload) EntityID() string         { return u.UnloadID }
func (u *Unload) ApprovalState() *Approval { return &u.Approval }

// DeclaredAmount is the value the unload moves into inventory at the given unit cost.
func (u Unload) DeclaredAmount(unitCost decimal.Decimal) decimal.Decimal {
	return u.DeliveredVolume.Mul(unitCost)
}

// Deposit is an operator's end-of-shift cash reconciliation.
type Deposit struct {
	DepositID      string          `json:"depositID"`
	StationID      string          `json:"stationID"`
	ShiftID        string          `json:"shiftID"`
	OperatorID     string          `json:"operatorID"`
	DeclaredAmount decimal.Decimal `json:"declaredAmount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	PaymentDetails []PaymentDetail `json:"paymentDetails"`
	Approval
	AuditFields
}

func (d *Deposit) Kind() EntityKind         { return KindDeposit }
func (d *Deposit) EntityID() string         { return d.DepositID }
func (d *Deposit) ApprovalState() *Approval { return &d.Approval }

// PaymentMethod is how part of a deposit was paid in.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCard     PaymentMethod = "CARD"
	PaymentVoucher  PaymentMethod = "VOUCHER"
)

// PaymentDetail is one payment line of a deposit. AccountID overrides the cash account.
type PaymentDetail struct {
	Method    PaymentMethod   `json:"method"`
	AccountID *string         `json:"accountID,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentTotal sums the payment lines.
func (d Deposit) PaymentTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range d.PaymentDetails {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Difference is received minus declared; negative is a shortage.
func (d Deposit) Difference() decimal.Decimal {
	return d.ReceivedAmount.Sub(d.DeclaredAmount)
}
