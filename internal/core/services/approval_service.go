package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// approvalService drives records from PENDING and posts the ledger
// transaction each approval implies, tagged with its source.
type approvalService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	clock    clock.Clock
	stock    *StockCalculator
	accounts domain.AccountMap
	cache    portssvc.StockCache
}

// NewApprovalService creates a new approval service.
func NewApprovalService(uow portsrepo.UnitOfWork, c clock.Clock, stock *StockCalculator, accounts domain.AccountMap, cache portssvc.StockCache, authorizer portssvc.StationAuthorizerSvc) portssvc.ApprovalSvc {
	return &approvalService{
		BaseService: BaseService{Authorizer: authorizer},
		uow:         uow,
		clock:       c,
		stock:       stock,
		accounts:    accounts,
		cache:       cache,
	}
}

var _ portssvc.ApprovalSvc = (*approvalService)(nil)

func (s *approvalService) Approve(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q cannot be approved", apperrors.ErrValidation, kind)
	}
	if err := s.Authorize(ctx, userID, stationID, domain.ActionApprove, kind); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var resp dto.ApprovalResponse
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		var (
			entity domain.Approvable
			posted *string
			err    error
		)
		switch kind {
		case domain.KindUnload:
			entity, posted, err = s.approveUnload(ctx, repos, stationID, entityID, userID, now)
		case domain.KindDeposit:
			entity, posted, err = s.approveDeposit(ctx, repos, stationID, entityID, userID, now)
		case domain.KindTankReading:
			entity, posted, err = s.approveReading(ctx, repos, stationID, entityID, userID, now)
		case domain.KindPurchase:
			entity, posted, err = s.approvePurchase(ctx, repos, stationID, entityID, userID, now)
		}
		if err != nil {
			return err
		}
		resp = dto.ToApprovalResponse(entity, posted)
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Approval failed",
			slog.String("kind", string(kind)),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
		return nil, storeFailure("failed to approve "+string(kind), err)
	}

	s.invalidate(ctx, stationID)
	s.LogInfo(ctx, "Record approved",
		slog.String("kind", string(kind)),
		slog.String("entity_id", entityID),
		slog.String("user_id", userID))
	return &resp, nil
}

func (s *approvalService) Reject(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*dto.ApprovalResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q cannot be rejected", apperrors.ErrValidation, kind)
	}
	if err := s.Authorize(ctx, userID, stationID, domain.ActionReject, kind); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var resp dto.ApprovalResponse
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		entity, err := lockApprovable(ctx, repos, stationID, kind, entityID)
		if err != nil {
			return err
		}
		if err := domain.Reject(entity, userID, now); err != nil {
			return err
		}
		if err := saveApproval(ctx, repos, entity, userID, now); err != nil {
			return err
		}
		resp = dto.ToApprovalResponse(entity, nil)
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Rejection failed",
			slog.String("kind", string(kind)),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()))
		return nil, storeFailure("failed to reject "+string(kind), err)
	}
	s.LogInfo(ctx, "Record rejected", slog.String("kind", string(kind)), slog.String("entity_id", entityID))
	return &resp, nil
}

func (s *approvalService) invalidate(ctx context.Context, stationID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateStation(ctx, stationID); err != nil {
		s.LogWarn(ctx, "Failed to invalidate stock cache", slog.String("station_id", stationID), slog.String("error", err.Error()))
	}
}

// lockApprovable loads and locks a record of the station. Records of another
// station are reported as not found.
func lockApprovable(ctx context.Context, repos portsrepo.RepositoryProvider, stationID string, kind domain.EntityKind, id string) (domain.Approvable, error) {
	var (
		entity  domain.Approvable
		station string
	)
	switch kind {
	case domain.KindUnload:
		u, err := repos.UnloadRepo.LockUnload(ctx, id)
		if err != nil {
			return nil, err
		}
		entity, station = u, u.StationID
	case domain.KindDeposit:
		d, err := repos.DepositRepo.LockDeposit(ctx, id)
		if err != nil {
			return nil, err
		}
		entity, station = d, d.StationID
	case domain.KindTankReading:
		r, err := repos.ReadingRepo.LockReading(ctx, id)
		if err != nil {
			return nil, err
		}
		entity, station = r, r.StationID
	case domain.KindPurchase:
		t, err := repos.LedgerRepo.LockTransaction(ctx, id)
		if err != nil {
			return nil, err
		}
		if t.TransactionType != domain.TxPurchase {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("purchase %s not found", id))
		}
		entity, station = t, t.StationID
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", apperrors.ErrValidation, kind)
	}
	if station != stationID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
	}
	return entity, nil
}

// saveApproval persists the approval state (and kind-specific fields) of a locked record.
func saveApproval(ctx context.Context, repos portsrepo.RepositoryProvider, entity domain.Approvable, by string, at time.Time) error {
	switch e := entity.(type) {
	case *domain.Unload:
		e.Touch(by, at)
		return repos.UnloadRepo.UpdateUnloadApproval(ctx, *e)
	case *domain.Deposit:
		e.Touch(by, at)
		return repos.DepositRepo.UpdateDepositApproval(ctx, *e)
	case *domain.TankReading:
		e.Touch(by, at)
		return repos.ReadingRepo.UpdateReadingApproval(ctx, *e)
	case *domain.Transaction:
		return repos.LedgerRepo.UpdateTransactionApproval(ctx, e.TransactionID, e.Approval, by, at)
	}
	return fmt.Errorf("%w: unsupported record %T", apperrors.ErrValidation, entity)
}

// posting builds an approved transaction tagged with its source record.
func posting(e domain.Approvable, stationID string, txnType domain.TransactionType, description string, by string, at time.Time, entries ...domain.JournalEntry) domain.Transaction {
	kind, id := e.Kind(), e.EntityID()
	return domain.Transaction{
		StationID:       stationID,
		TransactionDate: at,
		Description:     description,
		TransactionType: txnType,
		Approval: domain.Approval{
			Status:     domain.StatusApproved,
			ApprovedBy: &by,
			ApprovedAt: &at,
		},
		SourceKind:  &kind,
		SourceID:    &id,
		Entries:     entries,
		AuditFields: domain.NewAuditFields(by, at),
	}
}

func (s *approvalService) approveUnload(ctx context.Context, repos portsrepo.RepositoryProvider, stationID, id, userID string, now time.Time) (domain.Approvable, *string, error) {
	entity, err := lockApprovable(ctx, repos, stationID, domain.KindUnload, id)
	if err != nil {
		return nil, nil, err
	}
	u := entity.(*domain.Unload)
	if err := domain.Approve(u, userID, now); err != nil {
		return nil, nil, err
	}

	// Tank before purchase, the same order rollbacks take them in.
	tank, err := repos.TankRepo.LockTank(ctx, u.TankID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock tank %s: %w", u.TankID, err)
	}
	purchase, err := repos.LedgerRepo.LockTransaction(ctx, u.PurchaseTransactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load purchase %s: %w", u.PurchaseTransactionID, err)
	}
	if err := domain.RequireApproved(purchase); err != nil {
		return nil, nil, err
	}

	remaining := purchase.RemainingVolume()
	if !remaining.IsPositive() {
		return nil, nil, fmt.Errorf("%w: purchase %s has no undelivered volume", apperrors.ErrValidation, purchase.TransactionID)
	}
	u.DeliveredVolume = decimal.Min(u.LiterAmount, remaining)

	delivered := u.DeliveredVolume
	if purchase.DeliveredVolume != nil {
		delivered = delivered.Add(*purchase.DeliveredVolume)
	}
	if err := repos.LedgerRepo.UpdateDeliveredVolume(ctx, purchase.TransactionID, delivered, userID, now); err != nil {
		return nil, nil, err
	}

	var posted *string
	if amount := u.DeclaredAmount(tank.UnitCost); amount.IsPositive() {
		desc := fmt.Sprintf("Unload %s into tank %s", u.UnloadID, tank.Code)
		txn := posting(u, stationID, domain.TxUnload, desc, userID, now,
			accounting.DebitLine(s.accounts.FuelInventory, amount, "Fuel received"),
			accounting.CreditLine(s.accounts.InventoryInTransit, amount, "Purchase "+purchase.TransactionID+" delivered"),
		)
		txn.ProductID = &tank.ProductID
		txn.ReferenceNumber = u.InvoiceNumber
		if err := recordTransaction(ctx, repos, &txn); err != nil {
			return nil, nil, err
		}
		posted = &txn.TransactionID
	}

	u.SourceTagged = true
	if err := saveApproval(ctx, repos, u, userID, now); err != nil {
		return nil, nil, err
	}
	return u, posted, nil
}

func (s *approvalService) approveDeposit(ctx context.Context, repos portsrepo.RepositoryProvider, stationID, id, userID string, now time.Time) (domain.Approvable, *string, error) {
	entity, err := lockApprovable(ctx, repos, stationID, domain.KindDeposit, id)
	if err != nil {
		return nil, nil, err
	}
	d := entity.(*domain.Deposit)
	if err := domain.Approve(d, userID, now); err != nil {
		return nil, nil, err
	}
	if err := repos.ShiftRepo.LockStationShifts(ctx, stationID); err != nil {
		return nil, nil, err
	}
	if len(d.PaymentDetails) > 0 && !d.PaymentTotal().Equal(d.ReceivedAmount) {
		return nil, nil, fmt.Errorf("%w: payments of deposit %s total %s but %s was received",
			apperrors.ErrValidation, d.DepositID, d.PaymentTotal().String(), d.ReceivedAmount.String())
	}

	var lines []domain.JournalEntry
	if len(d.PaymentDetails) == 0 && d.ReceivedAmount.IsPositive() {
		lines = append(lines, accounting.DebitLine(s.accounts.Cash, d.ReceivedAmount, "Cash received"))
	}
	for _, p := range d.PaymentDetails {
		if p.Amount.IsZero() {
			continue
		}
		account := s.accounts.Cash
		if p.AccountID != nil {
			account = *p.AccountID
		}
		lines = append(lines, accounting.DebitLine(account, p.Amount, string(p.Method)+" payment"))
	}
	if d.DeclaredAmount.IsPositive() {
		lines = append(lines, accounting.CreditLine(s.accounts.SalesClearing, d.DeclaredAmount, "Shift sales"))
	}
	switch diff := d.Difference(); {
	case diff.IsNegative():
		lines = append(lines, accounting.DebitLine(s.accounts.OperatorShortage, diff.Neg(), "Operator shortage"))
	case diff.IsPositive():
		lines = append(lines, accounting.CreditLine(s.accounts.OtherIncome, diff, "Deposit surplus"))
	}

	var posted *string
	if len(lines) > 0 {
		txn := posting(d, stationID, domain.TxDeposit, fmt.Sprintf("Deposit %s for shift %s", d.DepositID, d.ShiftID), userID, now, lines...)
		if err := recordTransaction(ctx, repos, &txn); err != nil {
			return nil, nil, err
		}
		posted = &txn.TransactionID
	}

	if err := repos.ShiftRepo.SetShiftsVerified(ctx, []string{d.ShiftID}, true, &userID, now); err != nil {
		return nil, nil, fmt.Errorf("failed to verify shift %s: %w", d.ShiftID, err)
	}
	d.SourceTagged = true
	if err := saveApproval(ctx, repos, d, userID, now); err != nil {
		return nil, nil, err
	}
	return d, posted, nil
}

func (s *approvalService) approveReading(ctx context.Context, repos portsrepo.RepositoryProvider, stationID, id, userID string, now time.Time) (domain.Approvable, *string, error) {
	entity, err := lockApprovable(ctx, repos, stationID, domain.KindTankReading, id)
	if err != nil {
		return nil, nil, err
	}
	r := entity.(*domain.TankReading)
	if err := domain.Approve(r, userID, now); err != nil {
		return nil, nil, err
	}
	tank, err := repos.TankRepo.LockTank(ctx, r.TankID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock tank %s: %w", r.TankID, err)
	}

	// The reading is still pending in the store, so the computed stock excludes it.
	current, err := s.stock.CurrentStock(ctx, repos, r.TankID)
	if err != nil {
		return nil, nil, err
	}
	r.VarianceLiters = r.LiterValue.Sub(current.Liters)

	var posted *string
	if amount := r.VarianceLiters.Abs().Mul(tank.UnitCost); amount.IsPositive() {
		var lines []domain.JournalEntry
		if r.VarianceLiters.IsNegative() {
			lines = []domain.JournalEntry{
				accounting.DebitLine(s.accounts.ShrinkageExpense, amount, "Tank shrinkage"),
				accounting.CreditLine(s.accounts.FuelInventory, amount, "Inventory adjusted to dip"),
			}
		} else {
			lines = []domain.JournalEntry{
				accounting.DebitLine(s.accounts.FuelInventory, amount, "Inventory adjusted to dip"),
				accounting.CreditLine(s.accounts.InventoryGain, amount, "Tank gain"),
			}
		}
		desc := fmt.Sprintf("Tank reading %s on tank %s, variance %s L", r.ReadingID, tank.Code, r.VarianceLiters.String())
		txn := posting(r, stationID, domain.TxTankReading, desc, userID, now, lines...)
		txn.ProductID = &tank.ProductID
		if err := recordTransaction(ctx, repos, &txn); err != nil {
			return nil, nil, err
		}
		posted = &txn.TransactionID
	}

	r.SourceTagged = true
	if err := saveApproval(ctx, repos, r, userID, now); err != nil {
		return nil, nil, err
	}
	return r, posted, nil
}

// approvePurchase only flips status: the purchase transaction is its own posting.
func (s *approvalService) approvePurchase(ctx context.Context, repos portsrepo.RepositoryProvider, stationID, id, userID string, now time.Time) (domain.Approvable, *string, error) {
	entity, err := lockApprovable(ctx, repos, stationID, domain.KindPurchase, id)
	if err != nil {
		return nil, nil, err
	}
	p := entity.(*domain.Transaction)
	if err := domain.Approve(p, userID, now); err != nil {
		return nil, nil, err
	}
	if err := saveApproval(ctx, repos, p, userID, now); err != nil {
		return nil, nil, err
	}
	return p, &p.TransactionID, nil
}
