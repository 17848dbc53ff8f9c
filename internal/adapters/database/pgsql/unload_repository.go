package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// PgxUnloadRepository stores fuel unloads.
type PgxUnloadRepository struct {
	BaseRepository
}

var _ portsrepo.UnloadRepositoryFacade = (*PgxUnloadRepository)(nil)

const unloadColumns = `unload_id, station_id, tank_id, purchase_transaction_id, liter_amount, delivered_volume,
	approval_status, approved_by, approved_at, rejected_by, rejected_at, source_tagged, unloader_id, invoice_number,
	created_at, created_by, last_updated_at, last_updated_by`

func scanUnload(row scanner) (domain.Unload, error) {
	var u domain.Unload
	err := row.Scan(
		&u.UnloadID, &u.StationID, &u.TankID, &u.PurchaseTransactionID, &u.LiterAmount, &u.DeliveredVolume,
		&u.Status, &u.ApprovedBy, &u.ApprovedAt, &u.RejectedBy, &u.RejectedAt, &u.SourceTagged, &u.UnloaderID, &u.InvoiceNumber,
		&u.CreatedAt, &u.CreatedBy, &u.LastUpdatedAt, &u.LastUpdatedBy,
	)
	return u, err
}

func (r *PgxUnloadRepository) FindUnloadByID(ctx context.Context, unloadID string) (*domain.Unload, error) {
	return r.findOne(ctx, unloadID, "")
}

func (r *PgxUnloadRepository) LockUnload(ctx context.Context, unloadID string) (*domain.Unload, error) {
	return r.findOne(ctx, unloadID, " FOR UPDATE")
}

func (r *PgxUnloadRepository) findOne(ctx context.Context, unloadID, suffix string) (*domain.Unload, error) {
	u, err := scanUnload(r.DB.QueryRow(ctx, `SELECT `+unloadColumns+` FROM unloads WHERE unload_id = $1`+suffix, unloadID))
	if err != nil {
		return nil, translate(fmt.Sprintf("unload %s", unloadID), err)
	}
	return &u, nil
}

func (r *PgxUnloadRepository) ListUnloadsByPurchase(ctx context.Context, purchaseTransactionID string) ([]domain.Unload, error) {
	return r.list(ctx, `SELECT `+unloadColumns+` FROM unloads
		WHERE purchase_transaction_id = $1
		ORDER BY created_at, unload_id`, purchaseTransactionID)
}

func (r *PgxUnloadRepository) ListApprovedUnloadsByTank(ctx context.Context, tankID string, since *time.Time) ([]domain.Unload, error) {
	query := `SELECT ` + unloadColumns + ` FROM unloads WHERE tank_id = $1 AND approval_status = 'APPROVED'`
	args := []any{tankID}
	if since != nil {
		args = append(args, *since)
		query += " AND created_at > $2"
	}
	query += " ORDER BY created_at, unload_id"
	return r.list(ctx, query, args...)
}

func (r *PgxUnloadRepository) list(ctx context.Context, query string, args ...any) ([]domain.Unload, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("failed to query unloads", err)
	}
	defer rows.Close()

	var out []domain.Unload
	for rows.Next() {
		u, err := scanUnload(rows)
		if err != nil {
			return nil, translate("failed to scan unload", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating unloads", err)
	}
	return out, nil
}

func (r *PgxUnloadRepository) UpdateUnloadApproval(ctx context.Context, u domain.Unload) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE unloads
		SET approval_status = $2, approved_by = $3, approved_at = $4, rejected_by = $5, rejected_at = $6,
			delivered_volume = $7, last_updated_at = $8, last_updated_by = $9, source_tagged = $10
		WHERE unload_id = $1;
	`, u.UnloadID, u.Status, u.ApprovedBy, u.ApprovedAt, u.RejectedBy, u.RejectedAt, u.DeliveredVolume, u.LastUpdatedAt, u.LastUpdatedBy, u.SourceTagged)
	if err != nil {
		return translate(fmt.Sprintf("failed to update unload %s", u.UnloadID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("unload %s not found", u.UnloadID))
	}
	return nil
}

// PgxDepositRepository stores shift deposits. Payment lines live in a JSONB column.
type PgxDepositRepository struct {
	BaseRepository
}

var _ portsrepo.DepositRepositoryFacade = (*PgxDepositRepository)(nil)

const depositColumns = `deposit_id, station_id, shift_id, operator_id, declared_amount, received_amount, payment_details,
	approval_status, approved_by, approved_at, rejected_by, rejected_at, source_tagged,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxDepositRepository) FindDepositByID(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return r.findOne(ctx, depositID, "")
}

func (r *PgxDepositRepository) LockDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return r.findOne(ctx, depositID, " FOR UPDATE")
}

func (r *PgxDepositRepository) findOne(ctx context.Context, depositID, suffix string) (*domain.Deposit, error) {
	var d domain.Deposit
	err := r.DB.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE deposit_id = $1`+suffix, depositID).Scan(
		&d.DepositID, &d.StationID, &d.ShiftID, &d.OperatorID, &d.DeclaredAmount, &d.ReceivedAmount, &d.PaymentDetails,
		&d.Status, &d.ApprovedBy, &d.ApprovedAt, &d.RejectedBy, &d.RejectedAt, &d.SourceTagged,
		&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
	)
	if err != nil {
		return nil, translate(fmt.Sprintf("deposit %s", depositID), err)
	}
	return &d, nil
}

func (r *PgxDepositRepository) UpdateDepositApproval(ctx context.Context, d domain.Deposit) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE deposits
		SET approval_status = $2, approved_by = $3, approved_at = $4, rejected_by = $5, rejected_at = $6,
			last_updated_at = $7, last_updated_by = $8, source_tagged = $9
		WHERE deposit_id = $1;
	`, d.DepositID, d.Status, d.ApprovedBy, d.ApprovedAt, d.RejectedBy, d.RejectedAt, d.LastUpdatedAt, d.LastUpdatedBy, d.SourceTagged)
	if err != nil {
		return translate(fmt.Sprintf("failed to update deposit %s", d.DepositID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("deposit %s not found", d.DepositID))
	}
	return nil
}
