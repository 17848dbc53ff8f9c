package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller does not hold a role allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState indicates an entity is not in the approval state an operation requires.
var ErrInvalidState = errors.New("invalid state")

// ErrChainViolation indicates a later approved record depends on the one being rolled back.
var ErrChainViolation = errors.New("chain violation")

// ErrOriginatingTransactionNotFound indicates the ledger transaction created at approval could not be located.
var ErrOriginatingTransactionNotFound = errors.New("originating transaction not found")

// ErrUnbalancedEntry indicates a transaction whose debits and credits differ.
var ErrUnbalancedEntry = errors.New("unbalanced journal entries")

// ErrStoreFailure indicates the backing store failed. Never shown verbatim to users.
var ErrStoreFailure = errors.New("store failure")

// AppError carries an HTTP-ish status code and a message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports 5xx app errors as store failures so callers can test with errors.Is.
func (e *AppError) Is(target error) bool {
	return target == ErrStoreFailure && e.Code >= 500
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// InvalidStateError describes a rejected approval state transition.
type InvalidStateError struct {
	Kind     string
	EntityID string
	Current  string
	Required string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected %s", strings.ToLower(e.Kind), e.EntityID, e.Current, e.Required)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(kind, entityID, current, required string) *InvalidStateError {
	return &InvalidStateError{Kind: kind, EntityID: entityID, Current: current, Required: required}
}

// ChainViolationError lists the dependent records that block a rollback and how to clear them.
type ChainViolationError struct {
	Kind        string
	EntityID    string
	Dependents  []string
	Remediation string
}

func (e *ChainViolationError) Error() string {
	msg := fmt.Sprintf("cannot roll back %s %s: blocked by %d dependent record(s) (%s)",
		strings.ToLower(e.Kind), e.EntityID, len(e.Dependents), strings.Join(e.Dependents, ", "))
	if e.Remediation != "" {
		msg += ". " + e.Remediation
	}
	return msg
}

func (e *ChainViolationError) Unwrap() error {
	return ErrChainViolation
}

// OriginatingTransactionError explains why the approval-time ledger transaction could not be resolved.
type OriginatingTransactionError struct {
	Kind       string
	EntityID   string
	Reason     string
	Candidates []string
}

func (e *OriginatingTransactionError) Error() string {
	msg := fmt.Sprintf("no originating ledger transaction for %s %s", strings.ToLower(e.Kind), e.EntityID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Candidates) > 0 {
		msg += " (candidates: " + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

func (e *OriginatingTransactionError) Unwrap() error {
	return ErrOriginatingTransactionNotFound
}

// UnbalancedEntryError reports the two sides of an unbalanced transaction.
type UnbalancedEntryError struct {
	TransactionID string
	Debit         string
	Credit        string
	Reason        string
}

func (e *UnbalancedEntryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transaction %s rejected: %s", e.TransactionID, e.Reason)
	}
	return fmt.Sprintf("transaction %s is unbalanced: debits %s, credits %s", e.TransactionID, e.Debit, e.Credit)
}

func (e *UnbalancedEntryError) Unwrap() error {
	return ErrUnbalancedEntry
}
