package domain

import (
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
)

// ApprovalStatus is the lifecycle state shared by every approvable record.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// EntityKind names the operational records the ledger tracks.
type EntityKind string

const (
	KindUnload      EntityKind = "UNLOAD"
	KindDeposit     EntityKind = "DEPOSIT"
	KindTankReading EntityKind = "TANK_READING"
	KindPurchase    EntityKind = "PURCHASE"
	KindShift       EntityKind = "SHIFT" // not approvable, only appears as a chain dependent
)

// Valid reports whether k is one of the approvable kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindUnload, KindDeposit, KindTankReading, KindPurchase:
		return true
	}
	return false
}

// Approval holds the approval state of a record.
// Transitions: PENDING -> APPROVED | REJECTED, APPROVED -> REJECTED (rollback only).
type Approval struct {
	Status     ApprovalStatus `json:"status"`
	ApprovedBy *string        `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time     `json:"approvedAt,omitempty"`
	RejectedBy *string        `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time     `json:"rejectedAt,omitempty"`
	// SourceTagged marks an approval whose ledger posting, if any, carries the
	// record as its source reference. Records approved before tagging lack it.
	SourceTagged bool `json:"sourceTagged,omitempty"`
}

// IsApproved reports whether the record is currently approved.
func (a Approval) IsApproved() bool {
	return a.Status == StatusApproved
}

// Approvable is implemented by every record driven through the approval state machine.
type Approvable interface {
	Kind() EntityKind
	EntityID() string
	ApprovalState() *Approval
}

// Approve moves a PENDING record to APPROVED.
func Approve(e Approvable, approverID string, at time.Time) error {
	a := e.ApprovalState()
	if err := requireStatus(e, StatusPending); err != nil {
		return err
	}
	a.Status = StatusApproved
	a.ApprovedBy = &approverID
	a.ApprovedAt = &at
	return nil
}

// Reject moves a PENDING record to REJECTED.
func Reject(e Approvable, userID string, at time.Time) error {
	a := e.ApprovalState()
	if err := requireStatus(e, StatusPending); err != nil {
		return err
	}
	a.Status = StatusRejected
	a.RejectedBy = &userID
	a.RejectedAt = &at
	return nil
}

// RollbackApproval moves an APPROVED record to REJECTED and clears the approver:
// the record is treated as never having been approved.
func RollbackApproval(e Approvable, userID string, at time.Time) error {
	a := e.ApprovalState()
	if err := requireStatus(e, StatusApproved); err != nil {
		return err
	}
	a.Status = StatusRejected
	a.ApprovedBy = nil
	a.ApprovedAt = nil
	a.RejectedBy = &userID
	a.RejectedAt = &at
	return nil
}

// RequireApproved fails with an InvalidStateError unless the record is APPROVED.
func RequireApproved(e Approvable) error {
	return requireStatus(e, StatusApproved)
}

func requireStatus(e Approvable, want ApprovalStatus) error {
	current := e.ApprovalState().Status
	if current != want {
		return apperrors.NewInvalidStateError(string(e.Kind()), e.EntityID(), string(current), string(want))
	}
	return nil
}
