package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key"}, apperrors.ErrDuplicate},
		{"unbalanced trigger", &pgconn.PgError{Code: pgCheckViolation, Message: "transaction t1 is unbalanced: debit 10, credit 5"}, apperrors.ErrUnbalancedEntry},
		{"foreign key", &pgconn.PgError{Code: pgFKViolation, Detail: "account 9999 missing"}, apperrors.ErrValidation},
		{"other", errors.New("connection reset"), apperrors.ErrStoreFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate("op", tt.err), tt.want)
		})
	}
	assert.NoError(t, translate("op", nil))
}

func TestTranslate_OtherCheckViolationIsStoreFailure(t *testing.T) {
	err := translate("op", &pgconn.PgError{Code: pgCheckViolation, Message: "new row violates check constraint"})
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
	assert.NotErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestTranslate_DeadlockIsRetryableStoreFailure(t *testing.T) {
	err := translate("op", &pgconn.PgError{Code: pgDeadlock, Message: "deadlock detected"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
}

func TestPlaceholder(t *testing.T) {
	args := []any{"a"}
	assert.Equal(t, "$1", placeholder(args))
	args = append(args, "b", "c")
	assert.Equal(t, "$3", placeholder(args))
}

func TestEnumStrings(t *testing.T) {
	got := enumStrings([]domain.TransactionType{domain.TxUnload, domain.TxDeposit})
	assert.Equal(t, []string{"UNLOAD", "DEPOSIT"}, got)
}

func TestUniqueStrings(t *testing.T) {
	assert.Len(t, uniqueStrings([]string{"s1", "s2", "s1"}), 2)
}
