package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxTankRepository reads tanks and nozzles.
type PgxTankRepository struct {
	BaseRepository
}

var _ portsrepo.TankRepositoryFacade = (*PgxTankRepository)(nil)

func (r *PgxTankRepository) FindTankByID(ctx context.Context, tankID string) (*domain.Tank, error) {
	return r.findTank(ctx, tankID, "")
}

func (r *PgxTankRepository) LockTank(ctx context.Context, tankID string) (*domain.Tank, error) {
	return r.findTank(ctx, tankID, " FOR UPDATE")
}

func (r *PgxTankRepository) findTank(ctx context.Context, tankID, suffix string) (*domain.Tank, error) {
	var t domain.Tank
	err := r.DB.QueryRow(ctx, `
		SELECT tank_id, station_id, product_id, code, capacity, initial_stock, unit_cost
		FROM tanks
		WHERE tank_id = $1`+suffix, tankID).Scan(&t.TankID, &t.StationID, &t.ProductID, &t.Code, &t.Capacity, &t.InitialStock, &t.UnitCost)
	if err != nil {
		return nil, translate(fmt.Sprintf("tank %s", tankID), err)
	}
	return &t, nil
}

func (r *PgxTankRepository) ListNozzlesByTank(ctx context.Context, tankID string) ([]domain.Nozzle, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT nozzle_id, station_id, tank_id, code
		FROM nozzles
		WHERE tank_id = $1
		ORDER BY code;
	`, tankID)
	if err != nil {
		return nil, translate("failed to query nozzles", err)
	}
	defer rows.Close()

	var out []domain.Nozzle
	for rows.Next() {
		var n domain.Nozzle
		if err := rows.Scan(&n.NozzleID, &n.StationID, &n.TankID, &n.Code); err != nil {
			return nil, translate("failed to scan nozzle", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating nozzles", err)
	}
	return out, nil
}

// PgxReadingRepository stores manual dip readings.
type PgxReadingRepository struct {
	BaseRepository
}

var _ portsrepo.TankReadingRepositoryFacade = (*PgxReadingRepository)(nil)

const readingColumns = `reading_id, station_id, tank_id, liter_value, variance_liters,
	approval_status, approved_by, approved_at, rejected_by, rejected_at, source_tagged, loader_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanReading(row scanner) (domain.TankReading, error) {
	var rd domain.TankReading
	err := row.Scan(
		&rd.ReadingID, &rd.StationID, &rd.TankID, &rd.LiterValue, &rd.VarianceLiters,
		&rd.Status, &rd.ApprovedBy, &rd.ApprovedAt, &rd.RejectedBy, &rd.RejectedAt, &rd.SourceTagged, &rd.LoaderID,
		&rd.CreatedAt, &rd.CreatedBy, &rd.LastUpdatedAt, &rd.LastUpdatedBy,
	)
	return rd, err
}

func (r *PgxReadingRepository) FindReadingByID(ctx context.Context, readingID string) (*domain.TankReading, error) {
	return r.findOne(ctx, readingID, "")
}

func (r *PgxReadingRepository) LockReading(ctx context.Context, readingID string) (*domain.TankReading, error) {
	return r.findOne(ctx, readingID, " FOR UPDATE")
}

func (r *PgxReadingRepository) findOne(ctx context.Context, readingID, suffix string) (*domain.TankReading, error) {
	rd, err := scanReading(r.DB.QueryRow(ctx, `SELECT `+readingColumns+` FROM tank_readings WHERE reading_id = $1`+suffix, readingID))
	if err != nil {
		return nil, translate(fmt.Sprintf("tank reading %s", readingID), err)
	}
	return &rd, nil
}

// LatestApprovedReading returns nil, nil when the tank has never been dipped.
func (r *PgxReadingRepository) LatestApprovedReading(ctx context.Context, tankID string) (*domain.TankReading, error) {
	rd, err := scanReading(r.DB.QueryRow(ctx, `
		SELECT `+readingColumns+` FROM tank_readings
		WHERE tank_id = $1 AND approval_status = 'APPROVED'
		ORDER BY created_at DESC, reading_id DESC
		LIMIT 1`, tankID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("failed to query latest reading", err)
	}
	return &rd, nil
}

func (r *PgxReadingRepository) ListApprovedReadingsAfter(ctx context.Context, tankID string, after time.Time) ([]domain.TankReading, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+readingColumns+` FROM tank_readings
		WHERE tank_id = $1 AND approval_status = 'APPROVED' AND created_at > $2
		ORDER BY created_at, reading_id`, tankID, after)
	if err != nil {
		return nil, translate("failed to query readings", err)
	}
	defer rows.Close()

	var out []domain.TankReading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, translate("failed to scan reading", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating readings", err)
	}
	return out, nil
}

func (r *PgxReadingRepository) UpdateReadingApproval(ctx context.Context, rd domain.TankReading) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE tank_readings
		SET approval_status = $2, approved_by = $3, approved_at = $4, rejected_by = $5, rejected_at = $6,
			variance_liters = $7, last_updated_at = $8, last_updated_by = $9, source_tagged = $10
		WHERE reading_id = $1;
	`, rd.ReadingID, rd.Status, rd.ApprovedBy, rd.ApprovedAt, rd.RejectedBy, rd.RejectedAt, rd.VarianceLiters, rd.LastUpdatedAt, rd.LastUpdatedBy, rd.SourceTagged)
	if err != nil {
		return translate(fmt.Sprintf("failed to update tank reading %s", rd.ReadingID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tank reading %s not found", rd.ReadingID))
	}
	return nil
}
