package services

import "github.com/SscSPs/fuel_ledger/internal/core/domain"

type policyKey struct {
	action domain.Action
	kind   domain.EntityKind
}

var (
	allRoles      = []domain.StationRole{domain.RoleOwner, domain.RoleAdmin, domain.RoleFinance, domain.RoleManager, domain.RoleOperator}
	approvers     = []domain.StationRole{domain.RoleOwner, domain.RoleAdmin, domain.RoleManager}
	cashApprovers = []domain.StationRole{domain.RoleOwner, domain.RoleAdmin, domain.RoleManager, domain.RoleFinance}
)

// stationPolicy maps (action, kind) to the roles allowed to perform it.
// An empty kind applies to every kind without a specific entry.
var stationPolicy = map[policyKey][]domain.StationRole{
	{domain.ActionRollback, domain.KindPurchase}:    {domain.RoleOwner},
	{domain.ActionRollback, domain.KindDeposit}:     {domain.RoleOwner, domain.RoleAdmin, domain.RoleFinance},
	{domain.ActionRollback, domain.KindUnload}:      approvers,
	{domain.ActionRollback, domain.KindTankReading}: approvers,

	{domain.ActionApprove, domain.KindPurchase}:    cashApprovers,
	{domain.ActionApprove, domain.KindDeposit}:     cashApprovers,
	{domain.ActionApprove, domain.KindUnload}:      approvers,
	{domain.ActionApprove, domain.KindTankReading}: approvers,

	{domain.ActionReject, domain.KindPurchase}:    cashApprovers,
	{domain.ActionReject, domain.KindDeposit}:     cashApprovers,
	{domain.ActionReject, domain.KindUnload}:      approvers,
	{domain.ActionReject, domain.KindTankReading}: approvers,

	{domain.ActionView, ""}: allRoles,
}

// AllowedRoles returns the roles permitted to perform action on kind, or nil when nobody may.
func AllowedRoles(action domain.Action, kind domain.EntityKind) []domain.StationRole {
	if roles, ok := stationPolicy[policyKey{action, kind}]; ok {
		return roles
	}
	return stationPolicy[policyKey{action, ""}]
}
