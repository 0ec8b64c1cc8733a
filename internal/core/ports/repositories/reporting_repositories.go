package repositories

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
)

// ReportingRepository defines snapshot-read aggregate queries for dashboards.
// None of these take row locks; they tolerate eventual consistency with
// respect to concurrent writers.
type ReportingRepository interface {
	// GetInventorySummary retrieves the headline stock aggregates.
	GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error)

	// GetCategoryBreakdown retrieves per-category unit and value totals.
	GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryValueRow, error)

	// FindStocksBelowReorderPoint retrieves active stocks needing replenishment.
	FindStocksBelowReorderPoint(ctx context.Context, limit int) ([]domain.StockAccount, error)
}
