package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
)

// ReportingSvcFacade exposes aggregated inventory views for dashboards.
type ReportingSvcFacade interface {
	GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error)
	GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryValueRow, error)
	GetLowStockReport(ctx context.Context, limit int) ([]domain.StockAccount, error)
}
