package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

const (
	defaultForecastHorizonDays = 30
	maxForecastHorizonDays     = 365
	demandHistoryDays          = 90
	historyPageSize            = 200
	// Safety factor applied on top of lead-time demand when suggesting a
	// reorder quantity.
	reorderSafetyFactor = 1.5
)

// forecastService glues the movement ledger to a pluggable demand model and
// turns the resulting series into reorder advice.
type forecastService struct {
	BaseService
	stockRepo     portsrepo.StockReader
	movementRepo  portsrepo.MovementReader
	reportingRepo portsrepo.ReportingRepository
	provider      portssvc.ForecastProvider
	now           func() time.Time
}

// ForecastServiceOption configures optional dependencies of the forecast service.
type ForecastServiceOption func(*forecastService)

// WithForecastClock overrides the time source, mainly for tests.
func WithForecastClock(now func() time.Time) ForecastServiceOption {
	return func(s *forecastService) {
		s.now = now
	}
}

// NewForecastService creates a new forecast service.
func NewForecastService(stockRepo portsrepo.StockReader, movementRepo portsrepo.MovementReader, reportingRepo portsrepo.ReportingRepository, provider portssvc.ForecastProvider, options ...ForecastServiceOption) portssvc.ForecastSvcFacade {
	svc := &forecastService{
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		reportingRepo: reportingRepo,
		provider:      provider,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure forecastService implements the portssvc.ForecastSvcFacade interface
var _ portssvc.ForecastSvcFacade = (*forecastService)(nil)

func (s *forecastService) ForecastStock(ctx context.Context, sku string, horizonDays int) (*dto.ForecastResponse, error) {
	if horizonDays <= 0 {
		horizonDays = defaultForecastHorizonDays
	}
	if horizonDays > maxForecastHorizonDays {
		return nil, fmt.Errorf("%w: forecast horizon cannot exceed %d days", apperrors.ErrValidation, maxForecastHorizonDays)
	}

	if _, err := s.stockRepo.FindStockBySKU(ctx, sku); err != nil {
		return nil, fmt.Errorf("failed to find stock %s for forecast: %w", sku, err)
	}

	history, err := s.loadHistory(ctx, sku, demandHistoryDays)
	if err != nil {
		return nil, err
	}

	points, err := s.provider.ForecastDemand(ctx, sku, history, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast demand for %s: %w", sku, err)
	}

	var total float64
	for _, point := range points {
		total += point.PredictedQty
	}
	avgDaily := 0.0
	if horizonDays > 0 {
		avgDaily = total / float64(horizonDays)
	}

	return dto.ToForecastResponse(sku, horizonDays, avgDaily, points), nil
}

func (s *forecastService) ReorderRecommendations(ctx context.Context, limit int) ([]domain.ReorderRecommendation, error) {
	if limit <= 0 {
		limit = 20
	}

	stocks, err := s.reportingRepo.FindStocksBelowReorderPoint(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find stocks below reorder point: %w", err)
	}

	recommendations := make([]domain.ReorderRecommendation, 0, len(stocks))
	for i := range stocks {
		stock := &stocks[i]

		history, err := s.loadHistory(ctx, stock.SKU, demandHistoryDays)
		if err != nil {
			return nil, err
		}
		avgDaily := averageDailyOutflow(history, demandHistoryDays)

		leadTime := stock.LeadTimeDays
		if leadTime <= 0 {
			leadTime = 1
		}
		demandDriven := int64(math.Ceil(avgDaily * float64(leadTime) * reorderSafetyFactor))
		recommended := stock.ReorderQuantity
		if demandDriven > recommended {
			recommended = demandDriven
		}
		if recommended <= 0 {
			continue
		}

		recommendations = append(recommendations, domain.ReorderRecommendation{
			StockSKU:            stock.SKU,
			Name:                stock.Name,
			AvailableStock:      stock.AvailableStock,
			ReorderPoint:        stock.ReorderPoint,
			MinimumStock:        stock.MinimumStock,
			AvgDailyDemand:      avgDaily,
			RecommendedQuantity: recommended,
			UrgencyScore:        urgencyScore(stock),
			EstimatedCost:       stock.UnitCost.Mul(decimal.NewFromInt(recommended)),
		})
	}
	return recommendations, nil
}

// loadHistory pages through a SKU's ledger for the trailing window.
func (s *forecastService) loadHistory(ctx context.Context, sku string, days int) ([]domain.MovementEntry, error) {
	since := s.now().AddDate(0, 0, -days)

	var history []domain.MovementEntry
	var token *string
	for {
		entries, nextToken, err := s.movementRepo.ListMovementsBySKU(ctx, sku, since, time.Time{}, historyPageSize, token)
		if err != nil {
			return nil, fmt.Errorf("failed to load movement history for %s: %w", sku, err)
		}
		history = append(history, entries...)
		if nextToken == nil {
			break
		}
		token = nextToken
	}
	return history, nil
}

// averageDailyOutflow averages the quantity leaving stock over the window.
// Only negative deltas count; receipts and reservations are not demand.
func averageDailyOutflow(history []domain.MovementEntry, days int) float64 {
	if days <= 0 {
		return 0
	}
	var outflow int64
	for _, entry := range history {
		if entry.QuantityDelta < 0 {
			outflow += -entry.QuantityDelta
		}
	}
	return float64(outflow) / float64(days)
}

// urgencyScore grades how far below its reorder point a stock has fallen,
// from 0 (at the point) to 1 (nothing available).
func urgencyScore(stock *domain.StockAccount) float64 {
	if stock.AvailableStock <= 0 {
		return 1
	}
	if stock.ReorderPoint <= 0 {
		return 0
	}
	score := 1 - float64(stock.AvailableStock)/float64(stock.ReorderPoint)
	if score < 0 {
		return 0
	}
	return score
}
