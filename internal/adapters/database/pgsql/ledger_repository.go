package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_ledger/internal/models"
	"github.com/SscSPs/fuel_ledger/internal/utils/mapping"
	"github.com/SscSPs/fuel_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository stores transactions and their journal lines.
type PgxLedgerRepository struct {
	BaseRepository
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const txnColumns = `t.transaction_id, t.station_id, t.transaction_date, t.description, t.notes, t.transaction_type,
	t.approval_status, t.approved_by, t.approved_at, t.rejected_by, t.rejected_at,
	t.reference_number, t.product_id, t.purchase_volume, t.delivered_volume,
	t.source_kind, t.source_id, t.reversal_of,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

const defaultPageSize = 20

func scanTransaction(row scanner) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.TransactionID, &t.StationID, &t.TransactionDate, &t.Description, &t.Notes, &t.TransactionType,
		&t.ApprovalStatus, &t.ApprovedBy, &t.ApprovedAt, &t.RejectedBy, &t.RejectedAt,
		&t.ReferenceNumber, &t.ProductID, &t.PurchaseVolume, &t.DeliveredVolume,
		&t.SourceKind, &t.SourceID, &t.ReversalOf,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	return t, err
}

// SaveTransaction inserts the header and queues every journal line in one batch.
// The balance trigger is deferred, so an unbalanced set fails at commit.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	row := mapping.ToModelTransaction(txn)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO transactions (transaction_id, station_id, transaction_date, description, notes, transaction_type,
			approval_status, approved_by, approved_at, rejected_by, rejected_at,
			reference_number, product_id, purchase_volume, delivered_volume,
			source_kind, source_id, reversal_of,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`,
		row.TransactionID, row.StationID, row.TransactionDate, row.Description, row.Notes, row.TransactionType,
		row.ApprovalStatus, row.ApprovedBy, row.ApprovedAt, row.RejectedBy, row.RejectedAt,
		row.ReferenceNumber, row.ProductID, row.PurchaseVolume, row.DeliveredVolume,
		row.SourceKind, row.SourceID, row.ReversalOf,
		row.CreatedAt, row.CreatedBy, row.LastUpdatedAt, row.LastUpdatedBy,
	)

	for _, entry := range txn.Entries {
		e := mapping.ToModelJournalEntry(txn.TransactionID, entry)
		batch.Queue(`
			INSERT INTO journal_entries (entry_id, transaction_id, account_id, line_no, debit, credit, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, e.EntryID, e.TransactionID, e.AccountID, e.LineNo, e.Debit, e.Credit, e.Description, e.CreatedAt)
	}

	results := r.DB.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return translate(fmt.Sprintf("failed to save transaction %s", txn.TransactionID), err)
		}
	}
	if err := results.Close(); err != nil {
		return translate(fmt.Sprintf("failed to save transaction %s", txn.TransactionID), err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, transactionID, "")
}

// LockTransaction holds a row lock on the transaction until the unit of work ends.
func (r *PgxLedgerRepository) LockTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, transactionID, " FOR UPDATE")
}

func (r *PgxLedgerRepository) findOne(ctx context.Context, transactionID, suffix string) (*domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions t WHERE t.transaction_id = $1` + suffix
	row, err := scanTransaction(r.DB.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, translate(fmt.Sprintf("transaction %s", transactionID), err)
	}
	txns, err := r.withEntries(ctx, []models.Transaction{row})
	if err != nil {
		return nil, err
	}
	return &txns[0], nil
}

// FindTransactions builds the WHERE clause from the non-zero criteria fields.
func (r *PgxLedgerRepository) FindTransactions(ctx context.Context, c domain.TransactionCriteria) ([]domain.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", placeholder(args)))
	}

	if c.StationID != "" {
		add("t.station_id = ?", c.StationID)
	}
	if len(c.Types) > 0 {
		add("t.transaction_type = ANY(?)", enumStrings(c.Types))
	}
	if len(c.Statuses) > 0 {
		add("t.approval_status = ANY(?)", enumStrings(c.Statuses))
	}
	if c.From != nil {
		add("t.transaction_date >= ?", *c.From)
	}
	if c.To != nil {
		add("t.transaction_date <= ?", *c.To)
	}
	if c.SourceKind != nil {
		add("t.source_kind = ?", string(*c.SourceKind))
	}
	if c.SourceID != nil {
		add("t.source_id = ?", *c.SourceID)
	}
	if c.ProductID != nil {
		add("t.product_id = ?", *c.ProductID)
	}
	if c.Unreferenced {
		conds = append(conds, "t.source_id IS NULL")
	}
	if c.ExcludeReversal {
		conds = append(conds, "cardinality(t.reversal_of) = 0")
	}
	if c.ExcludeReversed {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM transactions r WHERE t.transaction_id = ANY(r.reversal_of))")
	}

	query := `SELECT ` + txnColumns + ` FROM transactions t`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.transaction_date, t.created_at, t.transaction_id"
	if c.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(c.Limit)
	}

	return r.query(ctx, query, args...)
}

// ListTransactions pages through a station's ledger in (date, created, id) order.
// It fetches one extra row to decide whether a next token is needed.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, stationID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	args := []any{stationID}
	query := `SELECT ` + txnColumns + ` FROM transactions t WHERE t.station_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.TransactionDate, cursor.CreatedAt, cursor.TransactionID)
		query += " AND (t.transaction_date, t.created_at, t.transaction_id) > ($2, $3, $4)"
	}
	query += " ORDER BY t.transaction_date, t.created_at, t.transaction_id LIMIT " + strconv.Itoa(limit+1)

	txns, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{
			TransactionDate: last.TransactionDate,
			CreatedAt:       last.CreatedAt,
			TransactionID:   last.TransactionID,
		})
		next = &token
	}
	return txns, next, nil
}

func (r *PgxLedgerRepository) UpdateTransactionApproval(ctx context.Context, transactionID string, approval domain.Approval, updatedBy string, at time.Time) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE transactions
		SET approval_status = $2, approved_by = $3, approved_at = $4, rejected_by = $5, rejected_at = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`, transactionID, approval.Status, approval.ApprovedBy, approval.ApprovedAt, approval.RejectedBy, approval.RejectedAt, at, updatedBy)
	if err != nil {
		return translate(fmt.Sprintf("failed to update approval of transaction %s", transactionID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return nil
}

func (r *PgxLedgerRepository) UpdateDeliveredVolume(ctx context.Context, transactionID string, delivered decimal.Decimal, updatedBy string, at time.Time) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE transactions
		SET delivered_volume = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`, transactionID, delivered, at, updatedBy)
	if err != nil {
		return translate(fmt.Sprintf("failed to update delivered volume of transaction %s", transactionID), err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return nil
}

func (r *PgxLedgerRepository) query(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("failed to query transactions", err)
	}
	defer rows.Close()

	var headers []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, translate("failed to scan transaction", err)
		}
		headers = append(headers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating transactions", err)
	}
	rows.Close()

	return r.withEntries(ctx, headers)
}

// withEntries loads the journal lines for all headers with a single query and maps them to the domain.
func (r *PgxLedgerRepository) withEntries(ctx context.Context, headers []models.Transaction) ([]domain.Transaction, error) {
	txns := make([]domain.Transaction, 0, len(headers))
	if len(headers) == 0 {
		return txns, nil
	}
	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}

	rows, err := r.DB.Query(ctx, `
		SELECT entry_id, transaction_id, account_id, line_no, debit, credit, description, created_at
		FROM journal_entries
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no;
	`, ids)
	if err != nil {
		return nil, translate("failed to query journal entries", err)
	}
	defer rows.Close()

	entries := make(map[string][]models.JournalEntry, len(headers))
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.AccountID, &e.LineNo, &e.Debit, &e.Credit, &e.Description, &e.CreatedAt); err != nil {
			return nil, translate("failed to scan journal entry", err)
		}
		entries[e.TransactionID] = append(entries[e.TransactionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("error iterating journal entries", err)
	}

	for _, h := range headers {
		txns = append(txns, mapping.ToDomainTransaction(h, entries[h.TransactionID]))
	}
	return txns, nil
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
