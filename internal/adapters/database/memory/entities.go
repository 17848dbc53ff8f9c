package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
)

func notFound(kind, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
}

// Unloads

func (r *repos) FindUnloadByID(_ context.Context, unloadID string) (*domain.Unload, error) {
	var out domain.Unload
	err := r.do(func(st *state) error {
		u, ok := st.unloads[unloadID]
		if !ok {
			return notFound("unload", unloadID)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) LockUnload(ctx context.Context, unloadID string) (*domain.Unload, error) {
	return r.FindUnloadByID(ctx, unloadID)
}

func (r *repos) ListUnloadsByPurchase(_ context.Context, purchaseTransactionID string) ([]domain.Unload, error) {
	var out []domain.Unload
	if err := r.do(func(st *state) error {
		for _, u := range st.unloads {
			if u.PurchaseTransactionID == purchaseTransactionID {
				out = append(out, u)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *repos) ListApprovedUnloadsByTank(_ context.Context, tankID string, since *time.Time) ([]domain.Unload, error) {
	var out []domain.Unload
	if err := r.do(func(st *state) error {
		for _, u := range st.unloads {
			if u.TankID != tankID || !u.IsApproved() {
				continue
			}
			if since != nil && !u.CreatedAt.After(*since) {
				continue
			}
			out = append(out, u)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *repos) UpdateUnloadApproval(_ context.Context, unload domain.Unload) error {
	return r.do(func(st *state) error {
		u, ok := st.unloads[unload.UnloadID]
		if !ok {
			return notFound("unload", unload.UnloadID)
		}
		u.Approval = unload.Approval
		u.DeliveredVolume = unload.DeliveredVolume
		u.LastUpdatedAt = unload.LastUpdatedAt
		u.LastUpdatedBy = unload.LastUpdatedBy
		st.unloads[u.UnloadID] = u
		return nil
	})
}

// Deposits

func (r *repos) FindDepositByID(_ context.Context, depositID string) (*domain.Deposit, error) {
	var out domain.Deposit
	err := r.do(func(st *state) error {
		d, ok := st.deposits[depositID]
		if !ok {
			return notFound("deposit", depositID)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) LockDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return r.FindDepositByID(ctx, depositID)
}

func (r *repos) UpdateDepositApproval(_ context.Context, deposit domain.Deposit) error {
	return r.do(func(st *state) error {
		d, ok := st.deposits[deposit.DepositID]
		if !ok {
			return notFound("deposit", deposit.DepositID)
		}
		d.Approval = deposit.Approval
		d.LastUpdatedAt = deposit.LastUpdatedAt
		d.LastUpdatedBy = deposit.LastUpdatedBy
		st.deposits[d.DepositID] = d
		return nil
	})
}

// Tanks and readings

func (r *repos) FindTankByID(_ context.Context, tankID string) (*domain.Tank, error) {
	var out domain.Tank
	err := r.do(func(st *state) error {
		t, ok := st.tanks[tankID]
		if !ok {
			return notFound("tank", tankID)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LockTank needs no row lock: a unit of work already holds the store mutex.
func (r *repos) LockTank(ctx context.Context, tankID string) (*domain.Tank, error) {
	return r.FindTankByID(ctx, tankID)
}

func (r *repos) ListNozzlesByTank(_ context.Context, tankID string) ([]domain.Nozzle, error) {
	var out []domain.Nozzle
	if err := r.do(func(st *state) error {
		for _, n := range st.nozzles {
			if n.TankID == tankID {
				out = append(out, n)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NozzleID < out[j].NozzleID })
	return out, nil
}

func (r *repos) FindReadingByID(_ context.Context, readingID string) (*domain.TankReading, error) {
	var out domain.TankReading
	err := r.do(func(st *state) error {
		rd, ok := st.readings[readingID]
		if !ok {
			return notFound("tank reading", readingID)
		}
		out = rd
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) LockReading(ctx context.Context, readingID string) (*domain.TankReading, error) {
	return r.FindReadingByID(ctx, readingID)
}

func approvedReadings(st *state, tankID string, after *time.Time) []domain.TankReading {
	var out []domain.TankReading
	for _, rd := range st.readings {
		if rd.TankID != tankID || !rd.IsApproved() {
			continue
		}
		if after != nil && !rd.CreatedAt.After(*after) {
			continue
		}
		out = append(out, rd)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ReadingID < out[j].ReadingID
	})
	return out
}

func (r *repos) LatestApprovedReading(_ context.Context, tankID string) (*domain.TankReading, error) {
	var out *domain.TankReading
	if err := r.do(func(st *state) error {
		all := approvedReadings(st, tankID, nil)
		if len(all) > 0 {
			latest := all[len(all)-1]
			out = &latest
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repos) ListApprovedReadingsAfter(_ context.Context, tankID string, after time.Time) ([]domain.TankReading, error) {
	var out []domain.TankReading
	if err := r.do(func(st *state) error {
		out = approvedReadings(st, tankID, &after)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repos) UpdateReadingApproval(_ context.Context, reading domain.TankReading) error {
	return r.do(func(st *state) error {
		rd, ok := st.readings[reading.ReadingID]
		if !ok {
			return notFound("tank reading", reading.ReadingID)
		}
		rd.Approval = reading.Approval
		rd.VarianceLiters = reading.VarianceLiters
		rd.LastUpdatedAt = reading.LastUpdatedAt
		rd.LastUpdatedBy = reading.LastUpdatedBy
		st.readings[rd.ReadingID] = rd
		return nil
	})
}

// Shifts

func (r *repos) FindShiftByID(_ context.Context, shiftID string) (*domain.OperatorShift, error) {
	var out domain.OperatorShift
	err := r.do(func(st *state) error {
		sh, ok := st.shifts[shiftID]
		if !ok {
			return notFound("shift", shiftID)
		}
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repos) ListShiftsByStation(_ context.Context, stationID string) ([]domain.OperatorShift, error) {
	var out []domain.OperatorShift
	if err := r.do(func(st *state) error {
		for _, sh := range st.shifts {
			if sh.StationID == stationID {
				out = append(out, sh)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return domain.NewShiftSequence(out), nil
}

func (r *repos) ListCompletedShifts(_ context.Context, stationID string, since *time.Time) ([]domain.OperatorShift, error) {
	var out []domain.OperatorShift
	if err := r.do(func(st *state) error {
		for _, sh := range st.shifts {
			if sh.StationID != stationID || sh.Status != domain.ShiftCompleted || sh.CompletedAt == nil {
				continue
			}
			if since != nil && sh.CompletedAt.Before(*since) {
				continue
			}
			out = append(out, sh)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(*out[j].CompletedAt) })
	return out, nil
}

func (r *repos) SetShiftsVerified(_ context.Context, shiftIDs []string, verified bool, verifiedBy *string, _ time.Time) error {
	return r.do(func(st *state) error {
		for _, id := range shiftIDs {
			if _, ok := st.shifts[id]; !ok {
				return notFound("shift", id)
			}
		}
		for _, id := range shiftIDs {
			sh := st.shifts[id]
			sh.IsVerified = verified
			sh.VerifiedBy = verifiedBy
			st.shifts[id] = sh
		}
		return nil
	})
}

func (r *repos) LockStationShifts(_ context.Context, stationID string) error {
	return nil
}

// Members

func (r *repos) FindMember(_ context.Context, stationID, userID string) (*domain.StationMember, error) {
	var out domain.StationMember
	err := r.do(func(st *state) error {
		m, ok := st.members[memberKey{stationID, userID}]
		if !ok {
			return notFound("station member", userID)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
