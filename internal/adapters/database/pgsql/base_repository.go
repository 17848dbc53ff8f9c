package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so every repository
// runs unchanged inside or outside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB DBTX
}

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
	pgSerialization   = "40001"
	pgDeadlock        = "40P01"
)

// translate maps driver errors onto application errors.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(op + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, op, pgErr.Message)
		case pgErr.Code == pgCheckViolation && strings.Contains(pgErr.Message, "unbalanced"):
			return fmt.Errorf("%w: %s", apperrors.ErrUnbalancedEntry, pgErr.Message)
		case pgErr.Code == pgFKViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, op, pgErr.Detail)
		case pgErr.Code == pgSerialization || pgErr.Code == pgDeadlock:
			// retryable; still a store failure to callers
			return apperrors.NewAppError(503, op, fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.Message))
		}
	}
	return apperrors.NewAppError(500, op, err)
}

// UnitOfWork runs repository calls inside one database transaction.
// Rows are locked with SELECT ... FOR UPDATE under READ COMMITTED, so a
// second writer on the same record waits and then sees the committed state.
type UnitOfWork struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a unit of work over the pool. A zero timeout means none.
func NewUnitOfWork(pool *pgxpool.Pool, timeout time.Duration) *UnitOfWork {
	return &UnitOfWork{pool: pool, timeout: timeout}
}

func (u *UnitOfWork) Repositories() portsrepo.RepositoryProvider {
	return NewRepositoryProvider(u.pool)
}

func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer u.Rollback(ctx, tx)

	if err := fn(ctx, NewRepositoryProvider(tx)); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// Begin starts a new database transaction
func (u *UnitOfWork) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction. Deferred balance checks fire here.
func (u *UnitOfWork) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return translate("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (u *UnitOfWork) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// placeholder returns "$n" for the next argument.
func placeholder(args []any) string {
	return fmt.Sprintf("$%d", len(args))
}
