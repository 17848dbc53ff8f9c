package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// locateTarget describes the approval whose ledger transaction is sought.
type locateTarget struct {
	Kind       domain.EntityKind
	EntityID   string
	StationID  string
	TxnType    domain.TransactionType
	ApprovedAt time.Time
	Amount     decimal.Decimal
	Keywords   []string // matched against description, notes and reference number
	Tagged     bool     // approval recorded its posting by source reference
}

// TransactionLocator finds the transaction(s) an approval posted.
// Transactions tagged with a source reference are matched exactly; untagged
// ones fall back to a window, same-day and closest-amount search.
type TransactionLocator struct {
	window time.Duration
	loc    *time.Location
}

func NewTransactionLocator(window time.Duration, loc *time.Location) *TransactionLocator {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionLocator{window: window, loc: loc}
}

// Locate resolves what an approval posted. For a tagged approval the ledger
// alone decides: no tagged posting means the approval posted nothing. Untagged
// approvals fall back to Search unless the record is worth nothing today.
func (l *TransactionLocator) Locate(ctx context.Context, repos portsrepo.RepositoryProvider, t locateTarget) ([]domain.Transaction, error) {
	direct, err := l.Direct(ctx, repos, t)
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 || t.Tagged {
		return direct, nil
	}
	if !t.Amount.IsPositive() {
		return nil, nil
	}
	return l.Search(ctx, repos, t)
}

// Direct returns the unreversed transactions carrying the record as their source.
func (l *TransactionLocator) Direct(ctx context.Context, repos portsrepo.RepositoryProvider, t locateTarget) ([]domain.Transaction, error) {
	kind, id := t.Kind, t.EntityID
	direct, err := repos.LedgerRepo.FindTransactions(ctx, domain.TransactionCriteria{
		StationID:       t.StationID,
		SourceKind:      &kind,
		SourceID:        &id,
		ExcludeReversed: true,
		ExcludeReversal: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search by source reference: %w", err)
	}
	return direct, nil
}

// Search looks for an untagged posting: a window around the approval with a
// text match, the same day with a text match, then the same day by amount.
func (l *TransactionLocator) Search(ctx context.Context, repos portsrepo.RepositoryProvider, t locateTarget) ([]domain.Transaction, error) {
	from, to := t.ApprovedAt.Add(-l.window), t.ApprovedAt.Add(l.window)
	near, err := l.candidates(ctx, repos, t, from, to)
	if err != nil {
		return nil, err
	}
	if hit, err := pickClosest(t, textMatches(near, t.Keywords)); hit != nil || err != nil {
		return hit, err
	}

	local := t.ApprovedAt.In(l.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	sameDay, err := l.candidates(ctx, repos, t, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if hit, err := pickClosest(t, textMatches(sameDay, t.Keywords)); hit != nil || err != nil {
		return hit, err
	}
	if hit, err := pickClosest(t, sameDay); hit != nil || err != nil {
		return hit, err
	}

	return nil, &apperrors.OriginatingTransactionError{
		Kind:     string(t.Kind),
		EntityID: t.EntityID,
		Reason:   fmt.Sprintf("no unreversed %s transaction near %s", t.TxnType, t.ApprovedAt.Format(time.RFC3339)),
	}
}

func (l *TransactionLocator) candidates(ctx context.Context, repos portsrepo.RepositoryProvider, t locateTarget, from, to time.Time) ([]domain.Transaction, error) {
	txns, err := repos.LedgerRepo.FindTransactions(ctx, domain.TransactionCriteria{
		StationID:       t.StationID,
		Types:           []domain.TransactionType{t.TxnType},
		Statuses:        []domain.ApprovalStatus{domain.StatusApproved},
		From:            &from,
		To:              &to,
		Unreferenced:    true,
		ExcludeReversed: true,
		ExcludeReversal: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search ledger window: %w", err)
	}
	return txns, nil
}

func textMatches(txns []domain.Transaction, keywords []string) []domain.Transaction {
	var out []domain.Transaction
	for _, txn := range txns {
		hay := strings.ToLower(txn.Description + " " + txn.Notes)
		if txn.ReferenceNumber != nil {
			hay += " " + strings.ToLower(*txn.ReferenceNumber)
		}
		for _, k := range keywords {
			if k != "" && strings.Contains(hay, strings.ToLower(k)) {
				out = append(out, txn)
				break
			}
		}
	}
	return out
}

// pickClosest returns the single candidate whose amount is closest to the target.
// A tie for closest is ambiguous and fails rather than guessing.
func pickClosest(t locateTarget, cands []domain.Transaction) ([]domain.Transaction, error) {
	switch len(cands) {
	case 0:
		return nil, nil
	case 1:
		return cands, nil
	}

	type scored struct {
		txn  domain.Transaction
		diff decimal.Decimal
	}
	ranked := make([]scored, len(cands))
	for i, c := range cands {
		ranked[i] = scored{txn: c, diff: c.Amount().Sub(t.Amount).Abs()}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].diff.LessThan(ranked[j].diff) })

	if ranked[0].diff.Equal(ranked[1].diff) {
		var tied []string
		for _, r := range ranked {
			if r.diff.Equal(ranked[0].diff) {
				tied = append(tied, r.txn.TransactionID)
			}
		}
		return nil, &apperrors.OriginatingTransactionError{
			Kind:       string(t.Kind),
			EntityID:   t.EntityID,
			Reason:     "several transactions match equally well; manual review required",
			Candidates: tied,
		}
	}
	return []domain.Transaction{ranked[0].txn}, nil
}
