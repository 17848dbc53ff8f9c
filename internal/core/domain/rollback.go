package domain

import "time"

// RollbackOptions tune a deposit rollback.
type RollbackOptions struct {
	// CascadeUnverify also unverifies every later shift at the station.
	CascadeUnverify bool `json:"cascadeUnverify"`
	// Force allows rolling back without a ledger reversal when no originating transaction is found.
	Force bool `json:"force"`
}

// Dependent is a causally later approved record.
type Dependent struct {
	Kind        EntityKind `json:"kind"`
	ID          string     `json:"id"`
	Description string     `json:"description"`
}

// ChainReport is the outcome of chain validation.
type ChainReport struct {
	Blocking    []Dependent `json:"blocking"`
	Remediation string      `json:"remediation,omitempty"`
	Warnings    []string    `json:"warnings"`
}

// Blocked reports whether any dependent prevents the rollback.
func (r ChainReport) Blocked() bool {
	return len(r.Blocking) > 0
}

// Warn appends an advisory message.
func (r *ChainReport) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// RollbackEvent is published after a rollback commits.
type RollbackEvent struct {
	StationID             string     `json:"stationID"`
	Kind                  EntityKind `json:"kind"`
	EntityID              string     `json:"entityID"`
	ReversalTransactionID *string    `json:"reversalTransactionID,omitempty"`
	UnverifiedShiftIDs    []string   `json:"unverifiedShiftIDs,omitempty"`
	By                    string     `json:"by"`
	At                    time.Time  `json:"at"`
	Warnings              []string   `json:"warnings,omitempty"`
}
