package dto

import (
	"errors"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrorKind classifies a failed operation for API consumers.
type ErrorKind string

const (
	KindUnauthorized                   ErrorKind = "Unauthorized"
	KindNotFound                       ErrorKind = "NotFound"
	KindInvalidState                   ErrorKind = "InvalidState"
	KindChainViolation                 ErrorKind = "ChainViolation"
	KindOriginatingTransactionNotFound ErrorKind = "OriginatingTransactionNotFound"
	KindUnbalancedEntry                ErrorKind = "UnbalancedEntry"
	KindValidation                     ErrorKind = "Validation"
	KindStoreFailure                   ErrorKind = "StoreFailure"
)

// ClassifyError maps an error to its ErrorKind. Unknown errors are store failures.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		return KindUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return KindNotFound
	case errors.Is(err, apperrors.ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, apperrors.ErrChainViolation):
		return KindChainViolation
	case errors.Is(err, apperrors.ErrOriginatingTransactionNotFound):
		return KindOriginatingTransactionNotFound
	case errors.Is(err, apperrors.ErrUnbalancedEntry):
		return KindUnbalancedEntry
	case errors.Is(err, apperrors.ErrValidation):
		return KindValidation
	}
	return KindStoreFailure
}

// RollbackResult is the uniform outcome of every rollback operation.
type RollbackResult struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Data      *RollbackData `json:"data,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
	ErrorKind ErrorKind     `json:"errorKind,omitempty"`
}

// RollbackData describes what a successful rollback changed.
type RollbackData struct {
	Kind                    domain.EntityKind     `json:"kind"`
	EntityID                string                `json:"entityID"`
	Status                  domain.ApprovalStatus `json:"status"`
	ReversalTransactionID   *string               `json:"reversalTransactionID,omitempty"`
	ReversedTransactionIDs  []string              `json:"reversedTransactionIDs,omitempty"`
	PurchaseTransactionID   *string               `json:"purchaseTransactionID,omitempty"`
	PurchaseDeliveredVolume *decimal.Decimal      `json:"purchaseDeliveredVolume,omitempty"`
	UnverifiedShiftIDs      []string              `json:"unverifiedShiftIDs,omitempty"`
}

// DepositRollbackRequest is the optional body of a deposit rollback.
type DepositRollbackRequest struct {
	CascadeUnverify bool `json:"cascadeUnverify"`
	Force           bool `json:"force"`
}

// RollbackCheckResponse is a read-only preview of a rollback.
type RollbackCheckResponse struct {
	Kind        domain.EntityKind  `json:"kind"`
	EntityID    string             `json:"entityID"`
	CanRollback bool               `json:"canRollback"`
	Blocking    []domain.Dependent `json:"blocking"`
	Remediation string             `json:"remediation,omitempty"`
	Warnings    []string           `json:"warnings"`
}

// ToRollbackCheckResponse converts a chain report.
func ToRollbackCheckResponse(kind domain.EntityKind, id string, r domain.ChainReport) RollbackCheckResponse {
	blocking := r.Blocking
	if blocking == nil {
		blocking = []domain.Dependent{}
	}
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return RollbackCheckResponse{
		Kind:        kind,
		EntityID:    id,
		CanRollback: !r.Blocked(),
		Blocking:    blocking,
		Remediation: r.Remediation,
		Warnings:    warnings,
	}
}
