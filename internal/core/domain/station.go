package domain

import "time"

// StationRole is a user's role within a station.
type StationRole string

const (
	RoleOwner    StationRole = "OWNER"
	RoleAdmin    StationRole = "ADMIN"
	RoleFinance  StationRole = "FINANCE"
	RoleManager  StationRole = "MANAGER"
	RoleOperator StationRole = "OPERATOR"
)

// StationMember is the membership of a user in a station.
type StationMember struct {
	UserID    string      `json:"userID"`
	StationID string      `json:"stationID"`
	Role      StationRole `json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`
}

// Action is an operation gated by the station policy table.
type Action string

const (
	ActionView     Action = "VIEW"
	ActionApprove  Action = "APPROVE"
	ActionReject   Action = "REJECT"
	ActionRollback Action = "ROLLBACK"
)
