package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fuel_ledger/internal/apperrors"
	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
)

type stockService struct {
	BaseService
	uow   portsrepo.UnitOfWork
	calc  *StockCalculator
	cache portssvc.StockCache
}

// NewStockService creates the tank stock read service. cache may be nil.
func NewStockService(uow portsrepo.UnitOfWork, calc *StockCalculator, cache portssvc.StockCache, authorizer portssvc.StationAuthorizerSvc) portssvc.StockSvc {
	return &stockService{
		BaseService: BaseService{Authorizer: authorizer},
		uow:         uow,
		calc:        calc,
		cache:       cache,
	}
}

var _ portssvc.StockSvc = (*stockService)(nil)

func (s *stockService) GetTankStock(ctx context.Context, stationID, tankID, userID string) (*domain.StockSnapshot, error) {
	if err := s.Authorize(ctx, userID, stationID, domain.ActionView, ""); err != nil {
		return nil, err
	}

	// Approvals and rollbacks invalidate the station. Shift completions are
	// written elsewhere, so their sales show up once the entry's TTL runs out.
	if s.cache != nil {
		if snap, ok, err := s.cache.GetStock(ctx, stationID, tankID); err != nil {
			s.LogWarn(ctx, "Stock cache read failed", slog.String("tank_id", tankID), slog.String("error", err.Error()))
		} else if ok && s.calc.Fresh(snap) {
			return snap, nil
		}
	}

	repos := s.uow.Repositories()
	tank, err := repos.TankRepo.FindTankByID(ctx, tankID)
	if err != nil {
		return nil, storeFailure("failed to load tank", err)
	}
	if tank.StationID != stationID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tank %s not found", tankID))
	}

	snap, err := s.calc.CurrentStock(ctx, repos, tankID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute stock", slog.String("tank_id", tankID))
		return nil, storeFailure("failed to compute stock", err)
	}

	if s.cache != nil {
		if err := s.cache.SetStock(ctx, stationID, snap); err != nil {
			s.LogWarn(ctx, "Stock cache write failed", slog.String("tank_id", tankID), slog.String("error", err.Error()))
		}
	}
	return snap, nil
}
