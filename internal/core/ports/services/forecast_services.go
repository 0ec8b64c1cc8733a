package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// ForecastProvider produces a demand forecast for one SKU from its movement
// history. Implementations decide the model; the service only consumes the
// resulting daily series.
type ForecastProvider interface {
	ForecastDemand(ctx context.Context, sku string, history []domain.MovementEntry, horizonDays int) ([]domain.DemandPoint, error)
}

// ForecastSvcFacade exposes demand forecasting and reorder recommendations.
type ForecastSvcFacade interface {
	// ForecastStock returns the predicted daily demand series for one SKU.
	ForecastStock(ctx context.Context, sku string, horizonDays int) (*dto.ForecastResponse, error)

	// ReorderRecommendations lists stocks at or below their reorder point
	// with a suggested order quantity, most urgent first.
	ReorderRecommendations(ctx context.Context, limit int) ([]domain.ReorderRecommendation, error)
}
