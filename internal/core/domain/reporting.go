package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummary is the dashboard headline aggregate. Built from a snapshot
// read; tolerates eventual consistency with respect to in-flight writers.
type InventorySummary struct {
	TotalSKUs       int64           `json:"totalSKUs"`
	ActiveSKUs      int64           `json:"activeSKUs"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	TotalUnits      int64           `json:"totalUnits"`
	ReservedUnits   int64           `json:"reservedUnits"`
	LowStockCount   int64           `json:"lowStockCount"`
	OutOfStockCount int64           `json:"outOfStockCount"`
	AsOf            time.Time       `json:"asOf"`
}

// TransferStats counts transfers per lifecycle state.
type TransferStats struct {
	DraftCount     int64 `json:"draftCount"`
	PendingCount   int64 `json:"pendingCount"`
	InTransitCount int64 `json:"inTransitCount"`
	CompletedCount int64 `json:"completedCount"`
	CancelledCount int64 `json:"cancelledCount"`
	FailedCount    int64 `json:"failedCount"`
}

// CategoryValueRow is one row of the per-category stock value breakdown.
type CategoryValueRow struct {
	Category   StockCategory   `json:"category"`
	SKUCount   int64           `json:"skuCount"`
	TotalUnits int64           `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}
