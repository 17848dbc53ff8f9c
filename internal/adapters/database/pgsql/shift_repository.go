package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// PgxShiftRepository stores operator shifts and their nozzle readings.
type PgxShiftRepository struct {
	BaseRepository
}

var _ portsrepo.ShiftRepositoryFacade = (*PgxShiftRepository)(nil)

const shiftColumns = `shift_id, station_id, operator_id, shift_date, slot, status, completed_at, is_verified, verified_by`

func (r *PgxShiftRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.OperatorShift, error) {
	shifts, err := r.list(ctx, `SELECT `+shiftColumns+` FROM operator_shifts WHERE shift_id = $1`, shiftID)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("shift %s not found", shiftID))
	}
	return &shifts[0], nil
}

func (r *PgxShiftRepository) ListShiftsByStation(ctx context.Context, stationID string) ([]domain.OperatorShift, error) {
	shifts, err := r.list(ctx, `SELECT `+shiftColumns+` FROM operator_shifts WHERE station_id = $1`, stationID)
	if err != nil {
		return nil, err
	}
	// Slot order is not lexical, so the sequence sorts in Go.
	return domain.NewShiftSequence(shifts), nil
}

func (r *PgxShiftRepository) ListCompletedShifts(ctx context.Context, stationID string, since *time.Time) ([]domain.OperatorShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM operator_shifts
		WHERE station_id = $1 AND status = 'COMPLETED' AND completed_at IS NOT NULL`
	args := []any{stationID}
	if since != nil {
		args = append(args, *since)
		query += " AND completed_at >= $2"
	}
	query += " ORDER BY completed_at, shift_id"
	return r.list(ctx, query, args...)
}

// SetShiftsVerified fails without writing anything when one of the shifts is missing.
func (r *PgxShiftRepository) SetShiftsVerified(ctx context.Context, shiftIDs []string, verified bool, verifiedBy *string, at time.Time) error {
	if len(shiftIDs) == 0 {
		return nil
	}
	var verifiedAt *time.Time
	if verified {
		verifiedAt = &at
	}
	tag, err := r.DB.Exec(ctx, `
		UPDATE operator_shifts
		SET is_verified = $2, verified_by = $3, verified_at = $4
		WHERE shift_id = ANY($1);
	`, shiftIDs, verified, verifiedBy, verifiedAt)
	if err != nil {
		return translate("failed to update shift verification", err)
	}
	if int(tag.RowsAffected()) != len(uniqueStrings(shiftIDs)) {
		// The unit of work rolls the partial update back.
		return apperrors.NewNotFoundError(fmt.Sprintf("one of shifts %v not found", shiftIDs))
	}
	return nil
}

// LockStationShifts takes a transaction-scoped advisory lock; there is no
// stations table to lock a row in.
func (r *PgxShiftRepository) LockStationShifts(ctx context.Context, stationID string) error {
	if _, err := r.DB.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('station-shifts:' || $1));`, stationID); err != nil {
		return translate("failed to lock station shifts", err)
	}
	return nil
}

func (r *PgxShiftRepository) list(ctx context.Context, query string, args ...any) ([]domain.OperatorShift, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("failed to query shifts", err)
	}
	defer rows.Close()

	var shifts []domain.OperatorShift
	for rows.Next() {
		var s domain.OperatorShift
		if err := rows.Scan(&s.ShiftID, &s.StationID, &s.OperatorID, &s.ShiftDate, &s.Slot, &s.Status, &s.CompletedAt, &s.IsVerified, &s.VerifiedBy); err != nil {
			return nil, translate("failed to scan shift", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating shifts", err)
	}
	rows.Close()

	if err := r.attachReadings(ctx, shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *PgxShiftRepository) attachReadings(ctx context.Context, shifts []domain.OperatorShift) error {
	if len(shifts) == 0 {
		return nil
	}
	index := make(map[string]int, len(shifts))
	ids := make([]string, len(shifts))
	for i, s := range shifts {
		index[s.ShiftID] = i
		ids[i] = s.ShiftID
	}

	rows, err := r.DB.Query(ctx, `
		SELECT shift_id, nozzle_id, reading_type, totalizer, pump_test
		FROM nozzle_readings
		WHERE shift_id = ANY($1)
		ORDER BY shift_id, nozzle_id, reading_type;
	`, ids)
	if err != nil {
		return translate("failed to query nozzle readings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shiftID string
			nr      domain.NozzleReading
		)
		if err := rows.Scan(&shiftID, &nr.NozzleID, &nr.ReadingType, &nr.Totalizer, &nr.PumpTest); err != nil {
			return translate("failed to scan nozzle reading", err)
		}
		i := index[shiftID]
		shifts[i].Readings = append(shifts[i].Readings, nr)
	}
	if err := rows.Err(); err != nil {
		return translate("error iterating nozzle readings", err)
	}
	return nil
}

func uniqueStrings(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
