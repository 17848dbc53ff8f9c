package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprove(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	u := &domain.Unload{UnloadID: "u-1", Approval: domain.Approval{Status: domain.StatusPending}}

	require.NoError(t, domain.Approve(u, "mgr", at))
	assert.Equal(t, domain.StatusApproved, u.Status)
	require.NotNil(t, u.ApprovedBy)
	assert.Equal(t, "mgr", *u.ApprovedBy)
	assert.Equal(t, at, *u.ApprovedAt)

	err := domain.Approve(u, "mgr", at)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
}

func TestReject(t *testing.T) {
	d := &domain.Deposit{DepositID: "d-1", Approval: domain.Approval{Status: domain.StatusPending}}

	require.NoError(t, domain.Reject(d, "mgr", time.Now()))
	assert.Equal(t, domain.StatusRejected, d.Status)
	assert.Nil(t, d.ApprovedBy)

	var stateErr *apperrors.InvalidStateError
	err := domain.Reject(d, "mgr", time.Now())
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "REJECTED", stateErr.Current)
	assert.Equal(t, "PENDING", stateErr.Required)
}

func TestRollbackApproval(t *testing.T) {
	approver := "mgr"
	approvedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	r := &domain.TankReading{
		ReadingID: "r-1",
		Approval:  domain.Approval{Status: domain.StatusApproved, ApprovedBy: &approver, ApprovedAt: &approvedAt},
	}

	require.NoError(t, domain.RollbackApproval(r, "owner", approvedAt.Add(time.Hour)))
	assert.Equal(t, domain.StatusRejected, r.Status)
	assert.Nil(t, r.ApprovedBy)
	assert.Nil(t, r.ApprovedAt)
	require.NotNil(t, r.RejectedBy)
	assert.Equal(t, "owner", *r.RejectedBy)
}

func TestStateMonotonicity(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ApprovalStatus
		op     func(domain.Approvable) error
	}{
		{"approve rejected", domain.StatusRejected, func(e domain.Approvable) error { return domain.Approve(e, "x", time.Now()) }},
		{"approve approved", domain.StatusApproved, func(e domain.Approvable) error { return domain.Approve(e, "x", time.Now()) }},
		{"reject approved", domain.StatusApproved, func(e domain.Approvable) error { return domain.Reject(e, "x", time.Now()) }},
		{"rollback pending", domain.StatusPending, func(e domain.Approvable) error { return domain.RollbackApproval(e, "x", time.Now()) }},
		{"rollback rejected", domain.StatusRejected, func(e domain.Approvable) error { return domain.RollbackApproval(e, "x", time.Now()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &domain.Transaction{TransactionID: "p-1", Approval: domain.Approval{Status: tt.status}}
			err := tt.op(p)
			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
			assert.Equal(t, tt.status, p.Status, "status must not change on a refused transition")
		})
	}
}

func TestEntityKind_Valid(t *testing.T) {
	assert.True(t, domain.KindPurchase.Valid())
	assert.False(t, domain.KindShift.Valid())
}

func TestAuditFields(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := domain.NewAuditFields("op", created)
	assert.Equal(t, created, a.LastChanged())

	a.Touch("mgr", created.Add(time.Hour))
	assert.Equal(t, "op", a.CreatedBy)
	assert.Equal(t, "mgr", a.LastUpdatedBy)
	assert.Equal(t, created.Add(time.Hour), a.LastChanged())

	assert.Equal(t, created, domain.AuditFields{CreatedAt: created}.LastChanged())
}
