// Package cache holds the stock snapshot cache and the rollback notifier.
package cache

import (
	"context"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
)

// Noop caches nothing and publishes nothing. Used when Redis is not configured.
type Noop struct{}

var (
	_ portssvc.StockCache       = Noop{}
	_ portssvc.RollbackNotifier = Noop{}
)

func (Noop) GetStock(_ context.Context, _, _ string) (*domain.StockSnapshot, bool, error) {
	return nil, false, nil
}

func (Noop) SetStock(_ context.Context, _ string, _ *domain.StockSnapshot) error {
	return nil
}

func (Noop) InvalidateStation(_ context.Context, _ string) error {
	return nil
}

func (Noop) RollbackCompleted(_ context.Context, _ domain.RollbackEvent) error {
	return nil
}
