package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/core/services"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/platform/config"
	"github.com/SscSPs/fuel_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	station  = "st-1"
	tankID   = "tk-1"
	nozzleID = "nz-1"
	owner    = "u-owner"
	manager  = "u-manager"
	finance  = "u-finance"
	operator = "u-operator"
)

var (
	today     = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	yesterday = today.AddDate(0, 0, -1)

	testAccounts = domain.AccountMap{
		Cash:               "1100",
		FuelInventory:      "1300",
		InventoryInTransit: "1310",
		AccountsPayable:    "2100",
		SalesClearing:      "2900",
		OperatorShortage:   "1400",
		OtherIncome:        "4900",
		ShrinkageExpense:   "6100",
		InventoryGain:      "4910",
	}
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr[T any](v T) *T { return &v }

// recordingNotifier captures rollback events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.RollbackEvent
	err    error
}

func (n *recordingNotifier) RollbackCompleted(_ context.Context, e domain.RollbackEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

func (n *recordingNotifier) Events() []domain.RollbackEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.RollbackEvent(nil), n.events...)
}

type fixture struct {
	store    *memory.Store
	clock    *clock.Fixed
	notifier *recordingNotifier
	svc      *portssvc.ServiceContainer
}

func testConfig() *config.Config {
	return &config.Config{
		StationTimezone: time.UTC,
		RollbackTimeout: 30 * time.Second,
		MatchWindow:     5 * time.Minute,
		Accounts:        testAccounts,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, id := range []string{"1100", "1300", "1310", "2100", "2900", "1400", "4900", "6100", "4910", "1200"} {
		store.AddAccount(domain.Account{AccountID: id, Code: id, Name: "acct " + id, Category: domain.Asset})
	}
	for user, role := range map[string]domain.StationRole{
		owner:    domain.RoleOwner,
		manager:  domain.RoleManager,
		finance:  domain.RoleFinance,
		operator: domain.RoleOperator,
	} {
		store.AddMember(domain.StationMember{UserID: user, StationID: station, Role: role})
	}
	store.AddTank(domain.Tank{
		TankID:       tankID,
		StationID:    station,
		ProductID:    "p-diesel",
		Code:         "T1",
		Capacity:     dec(30000),
		InitialStock: dec(10000),
		UnitCost:     dec(10),
	})
	store.AddNozzle(domain.Nozzle{NozzleID: nozzleID, StationID: station, TankID: tankID, Code: "N1"})

	c := clock.NewFixed(today)
	n := &recordingNotifier{}
	return &fixture{
		store:    store,
		clock:    c,
		notifier: n,
		svc:      services.NewServiceContainer(testConfig(), store, c, nil, n),
	}
}

// addPurchase stores an approved purchase of volume liters at the tank's unit cost.
func (f *fixture) addPurchase(id string, volume, delivered int64, at time.Time) {
	amount := dec(volume * 10)
	f.store.AddTransaction(domain.Transaction{
		TransactionID:   id,
		StationID:       station,
		TransactionDate: at,
		Description:     "Diesel purchase " + id,
		TransactionType: domain.TxPurchase,
		Approval:        domain.Approval{Status: domain.StatusApproved, ApprovedBy: ptr(owner), ApprovedAt: &at},
		PurchaseVolume:  ptr(dec(volume)),
		DeliveredVolume: ptr(dec(delivered)),
		ProductID:       ptr("p-diesel"),
		Entries: []domain.JournalEntry{
			accounting.DebitLine(testAccounts.InventoryInTransit, amount, "Fuel ordered"),
			accounting.CreditLine(testAccounts.AccountsPayable, amount, "Supplier payable"),
		},
		AuditFields: domain.AuditFields{CreatedAt: at, CreatedBy: owner},
	})
}

func (f *fixture) addPendingUnload(id, purchaseID string, liters int64, at time.Time) {
	f.store.AddUnload(domain.Unload{
		UnloadID:              id,
		StationID:             station,
		TankID:                tankID,
		PurchaseTransactionID: purchaseID,
		LiterAmount:           dec(liters),
		Approval:              domain.Approval{Status: domain.StatusPending},
		UnloaderID:            operator,
		InvoiceNumber:         ptr("INV-" + id),
		AuditFields:           domain.AuditFields{CreatedAt: at, CreatedBy: operator},
	})
}

func (f *fixture) addShift(id string, date time.Time, slot domain.ShiftSlot, verified bool, sold int64) {
	completed := date.Add(time.Duration(slot.Order()+1) * 4 * time.Hour)
	f.store.AddShift(domain.OperatorShift{
		ShiftID:     id,
		StationID:   station,
		OperatorID:  operator,
		ShiftDate:   date,
		Slot:        slot,
		Status:      domain.ShiftCompleted,
		CompletedAt: &completed,
		IsVerified:  verified,
		Readings: []domain.NozzleReading{
			{NozzleID: nozzleID, ReadingType: domain.ReadingOpen, Totalizer: dec(100000)},
			{NozzleID: nozzleID, ReadingType: domain.ReadingClose, Totalizer: dec(100000 + sold)},
		},
	})
}

func (f *fixture) addPendingDeposit(id, shiftID string, declared, received int64) {
	f.store.AddDeposit(domain.Deposit{
		DepositID:      id,
		StationID:      station,
		ShiftID:        shiftID,
		OperatorID:     operator,
		DeclaredAmount: dec(declared),
		ReceivedAmount: dec(received),
		Approval:       domain.Approval{Status: domain.StatusPending},
		AuditFields:    domain.AuditFields{CreatedAt: today, CreatedBy: operator},
	})
}

func (f *fixture) addPendingReading(id string, liters int64, at time.Time) {
	f.store.AddReading(domain.TankReading{
		ReadingID:   id,
		StationID:   station,
		TankID:      tankID,
		LiterValue:  dec(liters),
		Approval:    domain.Approval{Status: domain.StatusPending},
		LoaderID:    operator,
		AuditFields: domain.AuditFields{CreatedAt: at, CreatedBy: operator},
	})
}

func (f *fixture) approve(t *testing.T, kind domain.EntityKind, id string) {
	t.Helper()
	_, err := f.svc.Approval.Approve(context.Background(), station, kind, id, owner)
	require.NoError(t, err)
}

func (f *fixture) unload(t *testing.T, id string) *domain.Unload {
	t.Helper()
	u, err := f.store.Repositories().UnloadRepo.FindUnloadByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) deposit(t *testing.T, id string) *domain.Deposit {
	t.Helper()
	d, err := f.store.Repositories().DepositRepo.FindDepositByID(context.Background(), id)
	require.NoError(t, err)
	return d
}

func (f *fixture) reading(t *testing.T, id string) *domain.TankReading {
	t.Helper()
	r, err := f.store.Repositories().ReadingRepo.FindReadingByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

func (f *fixture) shift(t *testing.T, id string) *domain.OperatorShift {
	t.Helper()
	s, err := f.store.Repositories().ShiftRepo.FindShiftByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

func (f *fixture) txn(t *testing.T, id string) *domain.Transaction {
	t.Helper()
	txn, err := f.store.Repositories().LedgerRepo.FindTransactionByID(context.Background(), id)
	require.NoError(t, err)
	return txn
}

// requireMirrored asserts every line of original appears in reversal with sides swapped.
func requireMirrored(t *testing.T, original, reversal domain.Transaction) {
	t.Helper()
	require.Contains(t, reversal.ReversalOf, original.TransactionID)
	for _, e := range original.Entries {
		found := false
		for _, r := range reversal.Entries {
			if r.AccountID == e.AccountID && r.Debit.Equal(e.Credit) && r.Credit.Equal(e.Debit) {
				found = true
				break
			}
		}
		require.True(t, found, "line %d on %s has no mirror", e.LineNo, e.AccountID)
	}
}

// requireLedgerBalanced checks every stored transaction.
func requireLedgerBalanced(t *testing.T, store *memory.Store) {
	t.Helper()
	for _, txn := range store.AllTransactions() {
		require.True(t, txn.TotalDebit().Equal(txn.TotalCredit()), "transaction %s is unbalanced", txn.TransactionID)
	}
}

var errStoreDown = errors.New("connection reset by peer")
