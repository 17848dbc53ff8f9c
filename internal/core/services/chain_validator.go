package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

// ChainValidator finds causally later records that a rollback would leave inconsistent.
type ChainValidator struct {
	stock *StockCalculator
}

func NewChainValidator(stock *StockCalculator) *ChainValidator {
	return &ChainValidator{stock: stock}
}

// CheckTankReading blocks on any later approved reading of the same tank.
func (v *ChainValidator) CheckTankReading(ctx context.Context, repos portsrepo.RepositoryProvider, r *domain.TankReading) (domain.ChainReport, error) {
	var report domain.ChainReport
	later, err := repos.ReadingRepo.ListApprovedReadingsAfter(ctx, r.TankID, r.MeasuredAt())
	if err != nil {
		return report, fmt.Errorf("failed to list later readings: %w", err)
	}
	for _, l := range later {
		report.Blocking = append(report.Blocking, domain.Dependent{
			Kind:        domain.KindTankReading,
			ID:          l.ReadingID,
			Description: fmt.Sprintf("reading of %s L taken %s", l.LiterValue.String(), l.MeasuredAt().Format(time.RFC3339)),
		})
	}
	if report.Blocked() {
		report.Remediation = "Roll back the later tank readings first, newest first."
	}
	return report, nil
}

// CheckDeposit walks the station's shift sequence after the deposit's shift.
// It returns the report and the shifts the rollback must unverify.
func (v *ChainValidator) CheckDeposit(ctx context.Context, repos portsrepo.RepositoryProvider, d *domain.Deposit, opts domain.RollbackOptions) (domain.ChainReport, []string, error) {
	var report domain.ChainReport
	owning, err := repos.ShiftRepo.FindShiftByID(ctx, d.ShiftID)
	if err != nil {
		return report, nil, fmt.Errorf("failed to load shift %s: %w", d.ShiftID, err)
	}
	shifts, err := repos.ShiftRepo.ListShiftsByStation(ctx, d.StationID)
	if err != nil {
		return report, nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	var unverify []string
	if owning.IsVerified {
		unverify = append(unverify, owning.ShiftID)
	}

	later := domain.NewShiftSequence(shifts).VerifiedAfter(owning.Position())
	if len(later) == 0 {
		return report, unverify, nil
	}

	if !opts.CascadeUnverify {
		for _, s := range later {
			report.Blocking = append(report.Blocking, domain.Dependent{
				Kind:        domain.KindShift,
				ID:          s.ShiftID,
				Description: fmt.Sprintf("verified %s shift of %s", s.Slot, s.ShiftDate.Format(time.DateOnly)),
			})
		}
		report.Remediation = "Roll back the deposits of the later shifts first, or retry with cascadeUnverify to unverify them."
		return report, unverify, nil
	}

	for _, s := range later {
		unverify = append(unverify, s.ShiftID)
	}
	report.Warn(fmt.Sprintf("%d later verified shift(s) will be unverified and must be verified again.", len(later)))
	return report, unverify, nil
}

// CheckUnload never blocks: sales since approval and negative projected stock are warnings.
func (v *ChainValidator) CheckUnload(ctx context.Context, repos portsrepo.RepositoryProvider, u *domain.Unload, approvedAt time.Time) (domain.ChainReport, error) {
	var report domain.ChainReport
	tank, err := repos.TankRepo.FindTankByID(ctx, u.TankID)
	if err != nil {
		return report, fmt.Errorf("failed to load tank %s: %w", u.TankID, err)
	}

	sold, err := v.stock.SalesSince(ctx, repos, tank, &approvedAt)
	if err != nil {
		return report, err
	}
	if sold.IsPositive() {
		report.Warn(fmt.Sprintf("%s L has been sold from tank %s since this unload was approved.", sold.String(), tank.Code))
	}

	current, err := v.stock.CurrentStock(ctx, repos, tank.TankID)
	if err != nil {
		return report, err
	}
	projected := current.Liters.Sub(u.LiterAmount)
	if projected.IsNegative() {
		report.Warn(fmt.Sprintf("Tank %s would show %s L after this rollback (current %s L).", tank.Code, projected.String(), current.Liters.String()))
	}
	return report, nil
}

// CheckPurchase blocks while any unload, whatever its status, references the purchase.
func (v *ChainValidator) CheckPurchase(ctx context.Context, repos portsrepo.RepositoryProvider, p *domain.Transaction) (domain.ChainReport, error) {
	var report domain.ChainReport
	unloads, err := repos.UnloadRepo.ListUnloadsByPurchase(ctx, p.TransactionID)
	if err != nil {
		return report, fmt.Errorf("failed to list unloads of purchase: %w", err)
	}
	for _, u := range unloads {
		report.Blocking = append(report.Blocking, domain.Dependent{
			Kind:        domain.KindUnload,
			ID:          u.UnloadID,
			Description: fmt.Sprintf("%s unload of %s L", u.Status, u.LiterAmount.String()),
		})
	}
	if report.Blocked() {
		report.Remediation = "A purchase referenced by unloads cannot be rolled back; delivered volume would no longer reconcile."
	}
	return report, nil
}

// chainError converts a blocking report into a ChainViolationError.
func chainError(kind domain.EntityKind, id string, report domain.ChainReport) error {
	deps := make([]string, len(report.Blocking))
	for i, d := range report.Blocking {
		deps[i] = fmt.Sprintf("%s %s: %s", d.Kind, d.ID, d.Description)
	}
	return &apperrors.ChainViolationError{
		Kind:        string(kind),
		EntityID:    id,
		Dependents:  deps,
		Remediation: report.Remediation,
	}
}
