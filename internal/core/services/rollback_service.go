package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/dto"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const internalFailureMessage = "Rollback failed due to an internal error. No changes were made; please try again."

// rollbackService reverts approved records. Every rollback runs inside one
// unit of work: guard, chain validation, locate, reverse, revert state.
type rollbackService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	clock    clock.Clock
	chain    *ChainValidator
	locator  *TransactionLocator
	notifier portssvc.RollbackNotifier
	tracer   trace.Tracer
	timeout  time.Duration
}

// RollbackDeps bundles the collaborators of the rollback service.
type RollbackDeps struct {
	UnitOfWork portsrepo.UnitOfWork
	Clock      clock.Clock
	Chain      *ChainValidator
	Locator    *TransactionLocator
	Notifier   portssvc.RollbackNotifier
	Authorizer portssvc.StationAuthorizerSvc
	Tracer     trace.Tracer // global tracer when nil
	Timeout    time.Duration
}

// NewRollbackService creates a new rollback service.
func NewRollbackService(deps RollbackDeps) portssvc.RollbackSvc {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/SscSPs/fuel_ledger/rollback")
	}
	return &rollbackService{
		BaseService: BaseService{Authorizer: deps.Authorizer},
		uow:         deps.UnitOfWork,
		clock:       deps.Clock,
		chain:       deps.Chain,
		locator:     deps.Locator,
		notifier:    deps.Notifier,
		tracer:      tracer,
		timeout:     deps.Timeout,
	}
}

var _ portssvc.RollbackSvc = (*rollbackService)(nil)

// rollbackRun is one rollback's work inside the unit of work.
type rollbackRun struct {
	stationID string
	kind      domain.EntityKind
	entityID  string
	userID    string
	opts      domain.RollbackOptions
	now       time.Time

	data     dto.RollbackData
	warnings []string
}

func (r *rollbackRun) warn(msgs ...string) {
	r.warnings = append(r.warnings, msgs...)
}

func (r *rollbackRun) reversalRequest() accounting.ReversalRequest {
	return accounting.ReversalRequest{
		StationID:  r.stationID,
		SourceKind: r.kind,
		SourceID:   r.entityID,
		At:         r.now,
		By:         r.userID,
	}
}

// reverse posts one compensating transaction for all originals.
func (r *rollbackRun) reverse(ctx context.Context, repos portsrepo.RepositoryProvider, originals []domain.Transaction) error {
	if len(originals) == 0 {
		return nil
	}
	reversal := accounting.BuildReversal(r.reversalRequest(), originals)
	if err := recordTransaction(ctx, repos, &reversal); err != nil {
		return err
	}
	r.data.ReversalTransactionID = &reversal.TransactionID
	r.data.ReversedTransactionIDs = reversal.ReversalOf
	return nil
}

func (s *rollbackService) RollbackUnload(ctx context.Context, stationID, unloadID, userID string) dto.RollbackResult {
	return s.execute(ctx, &rollbackRun{stationID: stationID, kind: domain.KindUnload, entityID: unloadID, userID: userID}, s.runUnload)
}

func (s *rollbackService) RollbackDeposit(ctx context.Context, stationID, depositID, userID string, opts domain.RollbackOptions) dto.RollbackResult {
	return s.execute(ctx, &rollbackRun{stationID: stationID, kind: domain.KindDeposit, entityID: depositID, userID: userID, opts: opts}, s.runDeposit)
}

func (s *rollbackService) RollbackTankReading(ctx context.Context, stationID, readingID, userID string) dto.RollbackResult {
	return s.execute(ctx, &rollbackRun{stationID: stationID, kind: domain.KindTankReading, entityID: readingID, userID: userID}, s.runTankReading)
}

func (s *rollbackService) RollbackPurchase(ctx context.Context, stationID, purchaseTransactionID, userID string) dto.RollbackResult {
	return s.execute(ctx, &rollbackRun{stationID: stationID, kind: domain.KindPurchase, entityID: purchaseTransactionID, userID: userID}, s.runPurchase)
}

func (s *rollbackService) execute(ctx context.Context, run *rollbackRun, fn func(context.Context, portsrepo.RepositoryProvider, *rollbackRun) error) dto.RollbackResult {
	ctx, span := s.tracer.Start(ctx, "rollback."+strings.ToLower(string(run.kind)), trace.WithAttributes(
		attribute.String("station.id", run.stationID),
		attribute.String("entity.id", run.entityID),
	))
	defer span.End()

	logger := s.GetLogger(ctx).With(
		slog.String("kind", string(run.kind)),
		slog.String("entity_id", run.entityID),
		slog.String("station_id", run.stationID),
		slog.String("user_id", run.userID))

	if err := s.Authorize(ctx, run.userID, run.stationID, domain.ActionRollback, run.kind); err != nil {
		logger.Warn("Rollback refused", slog.String("error", err.Error()))
		span.SetStatus(codes.Error, "unauthorized")
		return failure(err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run.now = s.clock.Now()
	run.data = dto.RollbackData{Kind: run.kind, EntityID: run.entityID}
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		run.data = dto.RollbackData{Kind: run.kind, EntityID: run.entityID}
		run.warnings = nil
		return fn(ctx, repos, run)
	})
	if err != nil {
		switch dto.ClassifyError(err) {
		case dto.KindStoreFailure, dto.KindUnbalancedEntry:
			logger.Error("Rollback failed", slog.String("error", err.Error()))
		default:
			logger.Warn("Rollback rejected", slog.String("error", err.Error()))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dto.ClassifyError(err)))
		return failure(err)
	}
	run.data.Status = domain.StatusRejected

	span.SetAttributes(attribute.Int("rollback.warnings", len(run.warnings)))
	logger.Info("Rollback committed",
		slog.Any("reversal_transaction_id", run.data.ReversalTransactionID),
		slog.Int("warnings", len(run.warnings)))

	if s.notifier != nil {
		event := domain.RollbackEvent{
			StationID:             run.stationID,
			Kind:                  run.kind,
			EntityID:              run.entityID,
			ReversalTransactionID: run.data.ReversalTransactionID,
			UnverifiedShiftIDs:    run.data.UnverifiedShiftIDs,
			By:                    run.userID,
			At:                    run.now,
			Warnings:              run.warnings,
		}
		// The rollback is committed; a failed notification only delays dependent views.
		if err := s.notifier.RollbackCompleted(context.WithoutCancel(ctx), event); err != nil {
			logger.Warn("Rollback notification failed", slog.String("error", err.Error()))
		}
	}

	data := run.data
	return dto.RollbackResult{
		Success:  true,
		Message:  fmt.Sprintf("%s %s rolled back", run.kind, run.entityID),
		Data:     &data,
		Warnings: run.warnings,
	}
}

// failure turns an error into an unsuccessful result. Store failures get a
// generic message; every other kind carries the error text.
func failure(err error) dto.RollbackResult {
	kind := dto.ClassifyError(err)
	msg := err.Error()
	if kind == dto.KindStoreFailure {
		msg = internalFailureMessage
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "Rollback timed out. No changes were made; please try again."
		}
	}
	return dto.RollbackResult{Success: false, Message: msg, ErrorKind: kind}
}

// approvedAt is the instant the record was approved, falling back to its
// last update for rows that predate approval timestamps.
func approvedAt(a domain.Approval, audit domain.AuditFields) time.Time {
	if a.ApprovedAt != nil {
		return *a.ApprovedAt
	}
	return audit.LastChanged()
}

func (s *rollbackService) runUnload(ctx context.Context, repos portsrepo.RepositoryProvider, run *rollbackRun) error {
	entity, err := lockApprovable(ctx, repos, run.stationID, domain.KindUnload, run.entityID)
	if err != nil {
		return err
	}
	u := entity.(*domain.Unload)
	if err := domain.RequireApproved(u); err != nil {
		return err
	}
	at := approvedAt(u.Approval, u.AuditFields)

	tank, err := repos.TankRepo.LockTank(ctx, u.TankID)
	if err != nil {
		return fmt.Errorf("failed to lock tank %s: %w", u.TankID, err)
	}
	report, err := s.chain.CheckUnload(ctx, repos, u, at)
	if err != nil {
		return err
	}
	run.warn(report.Warnings...)

	purchase, err := repos.LedgerRepo.LockTransaction(ctx, u.PurchaseTransactionID)
	if err != nil {
		return fmt.Errorf("failed to load purchase %s: %w", u.PurchaseTransactionID, err)
	}

	keywords := []string{u.UnloadID}
	if u.InvoiceNumber != nil {
		keywords = append(keywords, *u.InvoiceNumber)
	}
	// Unit cost may have changed since approval; it only ranks legacy candidates.
	originals, err := s.locator.Locate(ctx, repos, locateTarget{
		Kind:       domain.KindUnload,
		EntityID:   u.UnloadID,
		StationID:  run.stationID,
		TxnType:    domain.TxUnload,
		ApprovedAt: at,
		Amount:     u.DeclaredAmount(tank.UnitCost),
		Keywords:   keywords,
		Tagged:     u.SourceTagged,
	})
	if err != nil {
		return err
	}
	if err := run.reverse(ctx, repos, originals); err != nil {
		return err
	}

	delivered := decimal.Zero
	if purchase.DeliveredVolume != nil {
		delivered = purchase.DeliveredVolume.Sub(u.DeliveredVolume)
	}
	if delivered.IsNegative() {
		run.warn(fmt.Sprintf("Purchase %s delivered volume would drop below zero (%s L); clamped to 0.", purchase.TransactionID, delivered.String()))
		delivered = decimal.Zero
	}
	if err := repos.LedgerRepo.UpdateDeliveredVolume(ctx, purchase.TransactionID, delivered, run.userID, run.now); err != nil {
		return err
	}

	if err := domain.RollbackApproval(u, run.userID, run.now); err != nil {
		return err
	}
	u.DeliveredVolume = decimal.Zero
	if err := saveApproval(ctx, repos, u, run.userID, run.now); err != nil {
		return err
	}

	run.data.PurchaseTransactionID = &purchase.TransactionID
	run.data.PurchaseDeliveredVolume = &delivered
	return nil
}

func (s *rollbackService) runDeposit(ctx context.Context, repos portsrepo.RepositoryProvider, run *rollbackRun) error {
	entity, err := lockApprovable(ctx, repos, run.stationID, domain.KindDeposit, run.entityID)
	if err != nil {
		return err
	}
	d := entity.(*domain.Deposit)
	if err := domain.RequireApproved(d); err != nil {
		return err
	}
	if err := repos.ShiftRepo.LockStationShifts(ctx, run.stationID); err != nil {
		return err
	}

	report, unverify, err := s.chain.CheckDeposit(ctx, repos, d, run.opts)
	if err != nil {
		return err
	}
	if report.Blocked() {
		return chainError(domain.KindDeposit, d.DepositID, report)
	}
	run.warn(report.Warnings...)

	originals, err := s.locator.Locate(ctx, repos, depositTarget(d))
	var notFound *apperrors.OriginatingTransactionError
	switch {
	case err == nil:
		if err := run.reverse(ctx, repos, originals); err != nil {
			return err
		}
	case run.opts.Force && errors.As(err, &notFound) && len(notFound.Candidates) == 0:
		run.warn("No originating ledger transaction was found; the deposit was rolled back without a ledger reversal.")
	default:
		return err
	}

	if len(unverify) > 0 {
		if err := repos.ShiftRepo.SetShiftsVerified(ctx, unverify, false, nil, run.now); err != nil {
			return fmt.Errorf("failed to unverify shifts: %w", err)
		}
	}
	if err := domain.RollbackApproval(d, run.userID, run.now); err != nil {
		return err
	}
	if err := saveApproval(ctx, repos, d, run.userID, run.now); err != nil {
		return err
	}
	run.data.UnverifiedShiftIDs = unverify
	return nil
}

func (s *rollbackService) runTankReading(ctx context.Context, repos portsrepo.RepositoryProvider, run *rollbackRun) error {
	entity, err := lockApprovable(ctx, repos, run.stationID, domain.KindTankReading, run.entityID)
	if err != nil {
		return err
	}
	r := entity.(*domain.TankReading)
	if err := domain.RequireApproved(r); err != nil {
		return err
	}

	// Held until commit so no later reading can be approved behind the check.
	tank, err := repos.TankRepo.LockTank(ctx, r.TankID)
	if err != nil {
		return fmt.Errorf("failed to lock tank %s: %w", r.TankID, err)
	}
	report, err := s.chain.CheckTankReading(ctx, repos, r)
	if err != nil {
		return err
	}
	if report.Blocked() {
		return chainError(domain.KindTankReading, r.ReadingID, report)
	}
	originals, err := s.locator.Locate(ctx, repos, locateTarget{
		Kind:       domain.KindTankReading,
		EntityID:   r.ReadingID,
		StationID:  run.stationID,
		TxnType:    domain.TxTankReading,
		ApprovedAt: approvedAt(r.Approval, r.AuditFields),
		Amount:     r.VarianceLiters.Abs().Mul(tank.UnitCost),
		Keywords:   []string{r.ReadingID},
		Tagged:     r.SourceTagged,
	})
	if err != nil {
		return err
	}
	if err := run.reverse(ctx, repos, originals); err != nil {
		return err
	}

	if err := domain.RollbackApproval(r, run.userID, run.now); err != nil {
		return err
	}
	return saveApproval(ctx, repos, r, run.userID, run.now)
}

func (s *rollbackService) runPurchase(ctx context.Context, repos portsrepo.RepositoryProvider, run *rollbackRun) error {
	entity, err := lockApprovable(ctx, repos, run.stationID, domain.KindPurchase, run.entityID)
	if err != nil {
		return err
	}
	p := entity.(*domain.Transaction)
	if err := domain.RequireApproved(p); err != nil {
		return err
	}

	report, err := s.chain.CheckPurchase(ctx, repos, p)
	if err != nil {
		return err
	}
	if report.Blocked() {
		return chainError(domain.KindPurchase, p.TransactionID, report)
	}

	if err := run.reverse(ctx, repos, []domain.Transaction{*p}); err != nil {
		return err
	}
	if err := domain.RollbackApproval(p, run.userID, run.now); err != nil {
		return err
	}
	return saveApproval(ctx, repos, p, run.userID, run.now)
}

func (s *rollbackService) CheckRollback(ctx context.Context, stationID string, kind domain.EntityKind, entityID, userID string) (*domain.ChainReport, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q cannot be rolled back", apperrors.ErrValidation, kind)
	}
	if err := s.Authorize(ctx, userID, stationID, domain.ActionRollback, kind); err != nil {
		return nil, err
	}

	repos := s.uow.Repositories()
	entity, err := lockApprovable(ctx, repos, stationID, kind, entityID)
	if err != nil {
		return nil, storeFailure("failed to load "+string(kind), err)
	}
	if err := domain.RequireApproved(entity); err != nil {
		return nil, err
	}

	var report domain.ChainReport
	switch e := entity.(type) {
	case *domain.Unload:
		report, err = s.chain.CheckUnload(ctx, repos, e, approvedAt(e.Approval, e.AuditFields))
	case *domain.Deposit:
		report, _, err = s.chain.CheckDeposit(ctx, repos, e, domain.RollbackOptions{})
		if err == nil {
			s.previewLocate(ctx, repos, &report, depositTarget(e))
		}
	case *domain.TankReading:
		report, err = s.chain.CheckTankReading(ctx, repos, e)
	case *domain.Transaction:
		report, err = s.chain.CheckPurchase(ctx, repos, e)
	}
	if err != nil {
		return nil, storeFailure("failed to check rollback", err)
	}
	return &report, nil
}

func depositTarget(d *domain.Deposit) locateTarget {
	return locateTarget{
		Kind:       domain.KindDeposit,
		EntityID:   d.DepositID,
		StationID:  d.StationID,
		TxnType:    domain.TxDeposit,
		ApprovedAt: approvedAt(d.Approval, d.AuditFields),
		Amount:     decimal.Max(d.DeclaredAmount, d.ReceivedAmount),
		Keywords:   []string{d.DepositID, d.ShiftID},
		Tagged:     d.SourceTagged,
	}
}

// previewLocate reports a missing originating transaction as a warning.
func (s *rollbackService) previewLocate(ctx context.Context, repos portsrepo.RepositoryProvider, report *domain.ChainReport, t locateTarget) {
	if _, err := s.locator.Locate(ctx, repos, t); err != nil {
		report.Warn(fmt.Sprintf("%s; rollback will fail unless forced.", err.Error()))
	}
}
