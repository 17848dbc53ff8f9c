package services

import (
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
	"github.com/SscSPs/fuel_ledger/internal/platform/clock"
	"github.com/SscSPs/fuel_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache and notifier may be nil.
func NewServiceContainer(cfg *config.Config, uow portsrepo.UnitOfWork, c clock.Clock, cache portssvc.StockCache, notifier portssvc.RollbackNotifier) *portssvc.ServiceContainer {
	repos := uow.Repositories()

	// Station authorization first since every other service depends on it
	authorizer := NewAuthorizationService(NewMemberRoleChecker(repos.MemberRepo))

	stock := NewStockCalculator(c, cfg.StationTimezone)

	container := &portssvc.ServiceContainer{}
	container.Ledger = NewLedgerService(uow, c, authorizer)
	container.Stock = NewStockService(uow, stock, cache, authorizer)
	container.Approval = NewApprovalService(uow, c, stock, cfg.Accounts, cache, authorizer)
	container.Rollback = NewRollbackService(RollbackDeps{
		UnitOfWork: uow,
		Clock:      c,
		Chain:      NewChainValidator(stock),
		Locator:    NewTransactionLocator(cfg.MatchWindow, cfg.StationTimezone),
		Notifier:   notifier,
		Authorizer: authorizer,
		Timeout:    cfg.RollbackTimeout,
	})

	return container
}
