package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandPoint is one day of a demand forecast produced by a ForecastProvider.
// The provider's internal technique is opaque to the core.
type DemandPoint struct {
	Date         time.Time `json:"date"`
	PredictedQty float64   `json:"predictedQty"`
	Confidence   float64   `json:"confidence"` // 0.0 to 1.0
}

// ReorderRecommendation is the forecast-informed restocking suggestion for one SKU.
type ReorderRecommendation struct {
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
