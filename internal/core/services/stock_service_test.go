package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTankStock_Cascade(t *testing.T) {
	midnight := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	dipAt := yesterday.Add(6 * time.Hour)
	unloadAt := midnight.Add(7 * time.Hour)

	tests := []struct {
		name       string
		seed       func(f *fixture)
		wantLiters int64
		wantSource domain.StockSource
	}{
		{
			name:       "initial stock without readings",
			seed:       func(f *fixture) {},
			wantLiters: 10000,
			wantSource: domain.StockFromInitial,
		},
		{
			name: "yesterday's reading adjusted by unloads and sales",
			seed: func(f *fixture) {
				f.store.AddReading(domain.TankReading{
					ReadingID: "r-1", StationID: station, TankID: tankID, LiterValue: dec(9000),
					Approval:    domain.Approval{Status: domain.StatusApproved},
					AuditFields: domain.AuditFields{CreatedAt: dipAt},
				})
				f.store.AddUnload(domain.Unload{
					UnloadID: "u-1", StationID: station, TankID: tankID, LiterAmount: dec(5000),
					Approval:    domain.Approval{Status: domain.StatusApproved},
					AuditFields: domain.AuditFields{CreatedAt: unloadAt},
				})
				f.addShift("s-1", midnight, domain.SlotMorning, false, 700)
				f.addShift("s-2", midnight, domain.SlotAfternoon, false, 500)
			},
			wantLiters: 12800,
			wantSource: domain.StockFromLastReading,
		},
		{
			name: "today's reading without later events",
			seed: func(f *fixture) {
				f.store.AddReading(domain.TankReading{
					ReadingID: "r-1", StationID: station, TankID: tankID, LiterValue: dec(8700),
					Approval:    domain.Approval{Status: domain.StatusApproved},
					AuditFields: domain.AuditFields{CreatedAt: today.Add(-time.Hour)},
				})
			},
			wantLiters: 8700,
			wantSource: domain.StockFromTodayReading,
		},
		{
			name: "today's reading adjusted by a later unload",
			seed: func(f *fixture) {
				f.store.AddReading(domain.TankReading{
					ReadingID: "r-1", StationID: station, TankID: tankID, LiterValue: dec(8700),
					Approval:    domain.Approval{Status: domain.StatusApproved},
					AuditFields: domain.AuditFields{CreatedAt: today.Add(-2 * time.Hour)},
				})
				f.store.AddUnload(domain.Unload{
					UnloadID: "u-1", StationID: station, TankID: tankID, LiterAmount: dec(1000),
					Approval:    domain.Approval{Status: domain.StatusApproved},
					AuditFields: domain.AuditFields{CreatedAt: today.Add(-time.Hour)},
				})
			},
			wantLiters: 9700,
			wantSource: domain.StockFromTodayReadingAdjusted,
		},
		{
			name: "pending and rejected records are ignored",
			seed: func(f *fixture) {
				f.addPendingReading("r-1", 1, today.Add(-time.Hour))
				f.store.AddUnload(domain.Unload{
					UnloadID: "u-1", StationID: station, TankID: tankID, LiterAmount: dec(1000),
					Approval:    domain.Approval{Status: domain.StatusRejected},
					AuditFields: domain.AuditFields{CreatedAt: today.Add(-time.Hour)},
				})
			},
			wantLiters: 10000,
			wantSource: domain.StockFromInitial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.seed(f)

			snap, err := f.svc.Stock.GetTankStock(context.Background(), station, tankID, operator)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, snap.Source)
			assert.True(t, snap.Liters.Equal(dec(tt.wantLiters)), "got %s", snap.Liters)
		})
	}
}

func TestGetTankStock_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Stock.GetTankStock(ctx, station, tankID, "u-stranger")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.Stock.GetTankStock(ctx, station, "tk-404", owner)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	f.store.AddTank(domain.Tank{TankID: "tk-9", StationID: "st-9"})
	_, err = f.svc.Stock.GetTankStock(ctx, station, "tk-9", owner)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// mapStockCache keeps snapshots in memory.
type mapStockCache struct {
	snaps map[string]domain.StockSnapshot
	sets  int
}

func (c *mapStockCache) GetStock(_ context.Context, stationID, tankID string) (*domain.StockSnapshot, bool, error) {
	snap, ok := c.snaps[stationID+"/"+tankID]
	if !ok {
		return nil, false, nil
	}
	return &snap, true, nil
}

func (c *mapStockCache) SetStock(_ context.Context, stationID string, snap *domain.StockSnapshot) error {
	c.snaps[stationID+"/"+snap.TankID] = *snap
	c.sets++
	return nil
}

func (c *mapStockCache) InvalidateStation(context.Context, string) error {
	c.snaps = map[string]domain.StockSnapshot{}
	return nil
}

func TestGetTankStock_CachedSnapshotFromEarlierDay(t *testing.T) {
	f := newFixture(t)
	c := &mapStockCache{snaps: map[string]domain.StockSnapshot{
		station + "/" + tankID: {
			TankID: tankID, Liters: dec(8700), Source: domain.StockFromTodayReading,
			AsOf: yesterday.Add(13 * time.Hour), // 23:00 the day before
		},
	}}
	f.svc = services.NewServiceContainer(testConfig(), f.store, f.clock, c, f.notifier)

	snap, err := f.svc.Stock.GetTankStock(context.Background(), station, tankID, operator)

	require.NoError(t, err)
	assert.Equal(t, domain.StockFromInitial, snap.Source)
	assert.True(t, snap.Liters.Equal(dec(10000)))
	assert.Equal(t, 1, c.sets)
	assert.True(t, c.snaps[station+"/"+tankID].AsOf.Equal(today))
}

func TestGetTankStock_CachedSnapshotFromToday(t *testing.T) {
	f := newFixture(t)
	c := &mapStockCache{snaps: map[string]domain.StockSnapshot{
		station + "/" + tankID: {TankID: tankID, Liters: dec(8700), Source: domain.StockFromTodayReading, AsOf: today.Add(-time.Minute)},
	}}
	f.svc = services.NewServiceContainer(testConfig(), f.store, f.clock, c, f.notifier)

	snap, err := f.svc.Stock.GetTankStock(context.Background(), station, tankID, operator)

	require.NoError(t, err)
	assert.Equal(t, domain.StockFromTodayReading, snap.Source)
	assert.True(t, snap.Liters.Equal(dec(8700)))
	assert.Zero(t, c.sets)
}
