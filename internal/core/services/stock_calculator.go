package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/shopspring/decimal"
)

// StockCalculator derives a tank's volume from readings, unloads and shift sales.
// It reads through the repositories it is given so it can run inside a unit of work.
type StockCalculator struct {
	clock clock.Clock
	loc   *time.Location
}

// NewStockCalculator creates a calculator that decides "today" in loc.
func NewStockCalculator(c clock.Clock, loc *time.Location) *StockCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &StockCalculator{clock: c, loc: loc}
}

func (c *StockCalculator) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	return ay == by && am == bm && ad == bd
}

// Fresh reports whether a snapshot was computed on the current station-local
// day. Sources like TODAY_READING are only meaningful on the day they were taken.
func (c *StockCalculator) Fresh(snap *domain.StockSnapshot) bool {
	return c.sameDay(snap.AsOf, c.clock.Now())
}

// CurrentStock applies the cascade: today's reading as-is, today's reading
// adjusted for later events, the latest reading adjusted, then initial stock.
func (c *StockCalculator) CurrentStock(ctx context.Context, repos portsrepo.RepositoryProvider, tankID string) (*domain.StockSnapshot, error) {
	tank, err := repos.TankRepo.FindTankByID(ctx, tankID)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()

	reading, err := repos.ReadingRepo.LatestApprovedReading(ctx, tankID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest reading for tank %s: %w", tankID, err)
	}

	var since *time.Time
	snap := &domain.StockSnapshot{TankID: tankID, AsOf: now, Source: domain.StockFromInitial, BaseValue: tank.InitialStock}
	if reading != nil {
		at := reading.MeasuredAt()
		since = &at
		id := reading.ReadingID
		snap.ReadingID = &id
		snap.BaseValue = reading.LiterValue
	}

	unloaded, err := c.UnloadsSince(ctx, repos, tankID, since)
	if err != nil {
		return nil, err
	}
	sold, err := c.SalesSince(ctx, repos, tank, since)
	if err != nil {
		return nil, err
	}
	snap.UnloadsSince = unloaded
	snap.SalesSince = sold
	snap.Liters = snap.BaseValue.Add(unloaded).Sub(sold)

	if reading != nil {
		hasEvents := !unloaded.IsZero() || !sold.IsZero()
		switch {
		case c.sameDay(reading.MeasuredAt(), now) && !hasEvents:
			snap.Source = domain.StockFromTodayReading
			snap.Liters = reading.LiterValue
		case c.sameDay(reading.MeasuredAt(), now):
			snap.Source = domain.StockFromTodayReadingAdjusted
		default:
			snap.Source = domain.StockFromLastReading
		}
	}
	return snap, nil
}

// UnloadsSince sums literAmount of approved unloads created after since, or all time when since is nil.
func (c *StockCalculator) UnloadsSince(ctx context.Context, repos portsrepo.RepositoryProvider, tankID string, since *time.Time) (decimal.Decimal, error) {
	unloads, err := repos.UnloadRepo.ListApprovedUnloadsByTank(ctx, tankID, since)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list unloads for tank %s: %w", tankID, err)
	}
	total := decimal.Zero
	for _, u := range unloads {
		total = total.Add(u.LiterAmount)
	}
	return total, nil
}

// SalesSince sums nozzle sales of completed shifts at the tank's station
// completed at or after since, restricted to nozzles feeding the tank.
func (c *StockCalculator) SalesSince(ctx context.Context, repos portsrepo.RepositoryProvider, tank *domain.Tank, since *time.Time) (decimal.Decimal, error) {
	nozzles, err := repos.TankRepo.ListNozzlesByTank(ctx, tank.TankID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list nozzles for tank %s: %w", tank.TankID, err)
	}
	if len(nozzles) == 0 {
		return decimal.Zero, nil
	}
	feeding := make(map[string]struct{}, len(nozzles))
	for _, n := range nozzles {
		feeding[n.NozzleID] = struct{}{}
	}

	shifts, err := repos.ShiftRepo.ListCompletedShifts(ctx, tank.StationID, since)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list shifts for station %s: %w", tank.StationID, err)
	}
	total := decimal.Zero
	for _, s := range shifts {
		total = total.Add(s.SalesForNozzles(feeding))
	}
	return total, nil
}
