package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
)

// TankRepositoryFacade defines read operations for tanks and their nozzles
type TankRepositoryFacade interface {
	FindTankByID(ctx context.Context, tankID string) (*domain.Tank, error)
	ListNozzlesByTank(ctx context.Context, tankID string) ([]domain.Nozzle, error)

	// LockTank loads the tank and holds it until the surrounding transaction
	// ends. Approvals and rollbacks touching the tank's readings or unloads
	// take it before looking at their neighbours.
	LockTank(ctx context.Context, tankID string) (*domain.Tank, error)
}

// TankReadingReader defines read operations for dip readings
type TankReadingReader interface {
	FindReadingByID(ctx context.Context, readingID string) (*domain.TankReading, error)

	// LatestApprovedReading returns the most recent approved reading, or nil when the tank has none.
	LatestApprovedReading(ctx context.Context, tankID string) (*domain.TankReading, error)

	// ListApprovedReadingsAfter returns approved readings on the tank created strictly after the given time.
	ListApprovedReadingsAfter(ctx context.Context, tankID string, after time.Time) ([]domain.TankReading, error)
}

// TankReadingWriter defines write operations for dip readings
type TankReadingWriter interface {
	LockReading(ctx context.Context, readingID string) (*domain.TankReading, error)

	// UpdateReadingApproval writes the approval fields and recorded variance.
	UpdateReadingApproval(ctx context.Context, reading domain.TankReading) error
}

type TankReadingRepositoryFacade interface {
	TankReadingReader
	TankReadingWriter
}

// ShiftReader defines read operations for operator shifts
type ShiftReader interface {
	FindShiftByID(ctx context.Context, shiftID string) (*domain.OperatorShift, error)

	// ListShiftsByStation returns every shift at the station with its nozzle readings.
	ListShiftsByStation(ctx context.Context, stationID string) ([]domain.OperatorShift, error)

	// ListCompletedShifts returns completed shifts at the station with completedAt >= since (all when nil).
	ListCompletedShifts(ctx context.Context, stationID string, since *time.Time) ([]domain.OperatorShift, error)
}

// ShiftWriter defines write operations for operator shifts
type ShiftWriter interface {
	// SetShiftsVerified sets the verification flag on the given shifts. A nil verifiedBy clears the verifier.
	SetShiftsVerified(ctx context.Context, shiftIDs []string, verified bool, verifiedBy *string, at time.Time) error

	// LockStationShifts serializes shift verification changes at one station
	// for the rest of the transaction.
	LockStationShifts(ctx context.Context, stationID string) error
}

type ShiftRepositoryFacade interface {
	ShiftReader
	ShiftWriter
}
