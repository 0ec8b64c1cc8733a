package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
)

// reportingService exposes snapshot-read aggregates for dashboards.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	summary, err := s.reportingRepo.GetInventorySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryValueRow, error) {
	rows, err := s.reportingRepo.GetCategoryBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category breakdown: %w", err)
	}
	return rows, nil
}

func (s *reportingService) GetLowStockReport(ctx context.Context, limit int) ([]domain.StockAccount, error) {
	if limit <= 0 {
		limit = 50
	}
	stocks, err := s.reportingRepo.FindStocksBelowReorderPoint(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock report: %w", err)
	}
	return stocks, nil
}
