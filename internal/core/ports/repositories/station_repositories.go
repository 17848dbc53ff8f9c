package repositories

import (
	"context"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
)

// StationMemberReader defines read operations for station membership
type StationMemberReader interface {
	// FindMember returns the user's membership, or a not-found error when the user does not belong to the station.
	FindMember(ctx context.Context, stationID, userID string) (*domain.StationMember, error)
}
