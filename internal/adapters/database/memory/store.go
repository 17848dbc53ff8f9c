// Package memory is an in-process implementation of every repository, for tests and local runs.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	"github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
)

type memberKey struct {
	stationID string
	userID    string
}

type state struct {
	transactions map[string]domain.Transaction
	accounts     map[string]domain.Account
	unloads      map[string]domain.Unload
	deposits     map[string]domain.Deposit
	tanks        map[string]domain.Tank
	nozzles      map[string]domain.Nozzle
	readings     map[string]domain.TankReading
	shifts       map[string]domain.OperatorShift
	members      map[memberKey]domain.StationMember
}

func newState() *state {
	return &state{
		transactions: make(map[string]domain.Transaction),
		accounts:     make(map[string]domain.Account),
		unloads:      make(map[string]domain.Unload),
		deposits:     make(map[string]domain.Deposit),
		tanks:        make(map[string]domain.Tank),
		nozzles:      make(map[string]domain.Nozzle),
		readings:     make(map[string]domain.TankReading),
		shifts:       make(map[string]domain.OperatorShift),
		members:      make(map[memberKey]domain.StationMember),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// snapshot copies every table. Stored values are replaced, never mutated, so a shallow copy suffices.
func (s *state) snapshot() *state {
	return &state{
		transactions: copyMap(s.transactions),
		accounts:     copyMap(s.accounts),
		unloads:      copyMap(s.unloads),
		deposits:     copyMap(s.deposits),
		tanks:        copyMap(s.tanks),
		nozzles:      copyMap(s.nozzles),
		readings:     copyMap(s.readings),
		shifts:       copyMap(s.shifts),
		members:      copyMap(s.members),
	}
}

// Store holds all tables behind one mutex. A unit of work holds the mutex for
// its whole duration and restores a snapshot when it fails.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ repositories.UnitOfWork = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState()}
}

// WithinTransaction executes fn with exclusive access to the store.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repositories.RepositoryProvider) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.snapshot()
	if err := fn(ctx, s.provider(true)); err != nil {
		s.st = snap
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snap
		return err
	}
	return nil
}

// Repositories returns repositories that lock per call.
func (s *Store) Repositories() repositories.RepositoryProvider {
	return s.provider(false)
}

func (s *Store) provider(inTx bool) repositories.RepositoryProvider {
	r := &repos{store: s, inTx: inTx}
	return repositories.RepositoryProvider{
		LedgerRepo:  r,
		AccountRepo: r,
		UnloadRepo:  r,
		DepositRepo: r,
		TankRepo:    r,
		ReadingRepo: r,
		ShiftRepo:   r,
		MemberRepo:  r,
	}
}

// repos implements every repository interface over the store.
type repos struct {
	store *Store
	inTx  bool
}

// do runs fn against the live tables, taking the mutex unless a unit of work already holds it.
func (r *repos) do(fn func(st *state) error) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn(r.store.st)
}

// Seed helpers, used by tests and the dev server.

func (s *Store) AddAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[a.AccountID] = a
}

func (s *Store) AddTank(t domain.Tank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.tanks[t.TankID] = t
}

func (s *Store) AddNozzle(n domain.Nozzle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.nozzles[n.NozzleID] = n
}

func (s *Store) AddUnload(u domain.Unload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.unloads[u.UnloadID] = u
}

func (s *Store) AddDeposit(d domain.Deposit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.deposits[d.DepositID] = d
}

func (s *Store) AddReading(rd domain.TankReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.readings[rd.ReadingID] = rd
}

func (s *Store) AddShift(sh domain.OperatorShift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.shifts[sh.ShiftID] = sh
}

func (s *Store) AddMember(m domain.StationMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.members[memberKey{m.StationID, m.UserID}] = m
}

// AddTransaction stores a transaction as-is, bypassing balance checks.
func (s *Store) AddTransaction(t domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.transactions[t.TransactionID] = cloneTxn(t)
}

// AllTransactions returns every stored transaction in ledger order.
func (s *Store) AllTransactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, 0, len(s.st.transactions))
	for _, t := range s.st.transactions {
		out = append(out, cloneTxn(t))
	}
	sortLedger(out)
	return out
}
