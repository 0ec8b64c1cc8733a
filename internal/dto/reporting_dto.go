package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventorySummaryResponse represents the dashboard headline aggregate response.
type InventorySummaryResponse struct {
	TotalSKUs       int64           `json:"totalSKUs"`
	ActiveSKUs      int64           `json:"activeSKUs"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	TotalUnits      int64           `json:"totalUnits"`
	ReservedUnits   int64           `json:"reservedUnits"`
	LowStockCount   int64           `json:"lowStockCount"`
	OutOfStockCount int64           `json:"outOfStockCount"`
	AsOf            string          `json:"asOf"`
}

// CategoryValueRowResponse represents one row of the per-category breakdown response.
type CategoryValueRowResponse struct {
	Category   string          `json:"category"`
	SKUCount   int64           `json:"skuCount"`
	TotalUnits int64           `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// CategoryBreakdownResponse represents the per-category stock value report response.
type CategoryBreakdownResponse struct {
	Rows   []CategoryValueRowResponse `json:"rows"`
	Totals struct {
		SKUCount   int64           `json:"skuCount"`
		TotalUnits int64           `json:"totalUnits"`
		TotalValue decimal.Decimal `json:"totalValue"`
	} `json:"totals"`
}

// TransferStatsResponse represents the transfer lifecycle counters response.
type TransferStatsResponse struct {
	DraftCount     int64 `json:"draftCount"`
	PendingCount   int64 `json:"pendingCount"`
	InTransitCount int64 `json:"inTransitCount"`
	CompletedCount int64 `json:"completedCount"`
	CancelledCount int64 `json:"cancelledCount"`
	FailedCount    int64 `json:"failedCount"`
}

// ToInventorySummaryResponse converts a domain inventory summary to a DTO response.
func ToInventorySummaryResponse(s *domain.InventorySummary) InventorySummaryResponse {
	return InventorySummaryResponse{
		TotalSKUs:       s.TotalSKUs,
		ActiveSKUs:      s.ActiveSKUs,
		TotalStockValue: s.TotalStockValue,
		TotalUnits:      s.TotalUnits,
		ReservedUnits:   s.ReservedUnits,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		AsOf:            s.AsOf.Format(time.RFC3339),
	}
}

// ToCategoryBreakdownResponse converts domain category rows to a DTO response.
func ToCategoryBreakdownResponse(rows []domain.CategoryValueRow) CategoryBreakdownResponse {
	response := CategoryBreakdownResponse{
		Rows: make([]CategoryValueRowResponse, len(rows)),
	}

	totalValue := decimal.Zero
	for i, row := range rows {
		response.Rows[i] = CategoryValueRowResponse{
			Category:   string(row.Category),
			SKUCount:   row.SKUCount,
			TotalUnits: row.TotalUnits,
			TotalValue: row.TotalValue,
		}
		response.Totals.SKUCount += row.SKUCount
		response.Totals.TotalUnits += row.TotalUnits
		totalValue = totalValue.Add(row.TotalValue)
	}
	response.Totals.TotalValue = totalValue

	return response
}

// ToTransferStatsResponse converts domain transfer stats to a DTO response.
func ToTransferStatsResponse(s *domain.TransferStats) TransferStatsResponse {
	return TransferStatsResponse{
		DraftCount:     s.DraftCount,
		PendingCount:   s.PendingCount,
		InTransitCount: s.InTransitCount,
		CompletedCount: s.CompletedCount,
		CancelledCount: s.CancelledCount,
		FailedCount:    s.FailedCount,
	}
}
