package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DemandPointResponse is one day of the predicted demand series.
type DemandPointResponse struct {
	Date         time.Time `json:"date"`
	PredictedQty float64   `json:"predictedQty"`
	Confidence   float64   `json:"confidence"`
}

// ForecastResponse defines the data returned for a demand forecast.
type ForecastResponse struct {
	StockSKU       string                `json:"stockSKU"`
	HorizonDays    int                   `json:"horizonDays"`
	AvgDailyDemand float64               `json:"avgDailyDemand"`
	Points         []DemandPointResponse `json:"points"`
}

// ToForecastResponse builds a ForecastResponse from a demand series.
func ToForecastResponse(sku string, horizonDays int, avgDaily float64, points []domain.DemandPoint) *ForecastResponse {
	res := &ForecastResponse{
		StockSKU:       sku,
		HorizonDays:    horizonDays,
		AvgDailyDemand: avgDaily,
		Points:         make([]DemandPointResponse, len(points)),
	}
	for i, p := range points {
		res.Points[i] = DemandPointResponse{
			Date:         p.Date,
			PredictedQty: p.PredictedQty,
			Confidence:   p.Confidence,
		}
	}
	return res
}

// ReorderRecommendationResponse defines one reorder suggestion row.
type ReorderRecommendationResponse struct {
	StockSKU            string          `json:"stockSKU"`
	Name                string          `json:"name"`
	AvailableStock      int64           `json:"availableStock"`
	ReorderPoint        int64           `json:"reorderPoint"`
	MinimumStock        int64           `json:"minimumStock"`
	AvgDailyDemand      float64         `json:"avgDailyDemand"`
	RecommendedQuantity int64           `json:"recommendedQuantity"`
	UrgencyScore        float64         `json:"urgencyScore"`
	EstimatedCost       decimal.Decimal `json:"estimatedCost"`
}

// ToReorderRecommendationResponses converts domain recommendations to DTOs.
func ToReorderRecommendationResponses(recs []domain.ReorderRecommendation) []ReorderRecommendationResponse {
	res := make([]ReorderRecommendationResponse, len(recs))
	for i, r := range recs {
		res[i] = ReorderRecommendationResponse{
			StockSKU:            r.StockSKU,
			Name:                r.Name,
			AvailableStock:      r.AvailableStock,
			ReorderPoint:        r.ReorderPoint,
			MinimumStock:        r.MinimumStock,
			AvgDailyDemand:      r.AvgDailyDemand,
			RecommendedQuantity: r.RecommendedQuantity,
			UrgencyScore:        r.UrgencyScore,
			EstimatedCost:       r.EstimatedCost,
		}
	}
	return res
}
