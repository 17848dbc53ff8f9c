package services

import (
	"context"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
)

// RoleChecker answers whether a user holds a role at a station.
type RoleChecker interface {
	HasRole(ctx context.Context, userID, stationID string, role domain.StationRole) (bool, error)
}

// StationAuthorizerSvc applies the station policy table.
type StationAuthorizerSvc interface {
	// AuthorizeAction returns apperrors.ErrForbidden unless the user holds a role allowed for (action, kind).
	AuthorizeAction(ctx context.Context, userID, stationID string, action domain.Action, kind domain.EntityKind) error
}

// RollbackNotifier is invoked after a rollback commits so dependent views refresh.
type RollbackNotifier interface {
	RollbackCompleted(ctx context.Context, event domain.RollbackEvent) error
}

// StockCache holds computed stock snapshots per station so reads skip the calculator.
type StockCache interface {
	GetStock(ctx context.Context, stationID, tankID string) (*domain.StockSnapshot, bool, error)
	SetStock(ctx context.Context, stationID string, snapshot *domain.StockSnapshot) error
	// InvalidateStation drops every cached view of the station.
	InvalidateStation(ctx context.Context, stationID string) error
}
