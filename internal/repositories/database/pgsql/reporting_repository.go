package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newReportingRepository creates a new repository for dashboard aggregates.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetInventorySummary retrieves the headline stock aggregates in one scan.
func (r *PgxReportingRepository) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COALESCE(SUM(unit_cost * current_stock), 0),
			COALESCE(SUM(current_stock), 0),
			COALESCE(SUM(reserved_stock), 0),
			COUNT(*) FILTER (WHERE status = 'active' AND available_stock <= minimum_stock),
			COUNT(*) FILTER (WHERE status = 'active' AND available_stock <= 0)
		FROM stocks;
	`
	summary := domain.InventorySummary{AsOf: time.Now().UTC()}
	err := r.pool.QueryRow(ctx, query).Scan(
		&summary.TotalSKUs,
		&summary.ActiveSKUs,
		&summary.TotalStockValue,
		&summary.TotalUnits,
		&summary.ReservedUnits,
		&summary.LowStockCount,
		&summary.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory summary: %w", err)
	}
	return &summary, nil
}

// GetCategoryBreakdown retrieves per-category unit and value totals.
func (r *PgxReportingRepository) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryValueRow, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(current_stock), 0), COALESCE(SUM(unit_cost * current_stock), 0)
		FROM stocks
		GROUP BY category
		ORDER BY category;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	result := []domain.CategoryValueRow{}
	for rows.Next() {
		var row domain.CategoryValueRow
		if err := rows.Scan(&row.Category, &row.SKUCount, &row.TotalUnits, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result = append(result, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}
	return result, nil
}

// FindStocksBelowReorderPoint retrieves active stocks needing replenishment,
// most depleted relative to their reorder point first.
func (r *PgxReportingRepository) FindStocksBelowReorderPoint(ctx context.Context, limit int) ([]domain.StockAccount, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + stockColumns + `
		FROM stocks
		WHERE status = 'active' AND available_stock <= reorder_point
		ORDER BY (reorder_point - available_stock) DESC, sku
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks below reorder point: %w", err)
	}
	defer rows.Close()

	stocks := []domain.StockAccount{}
	for rows.Next() {
		m, err := scanStockRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stocks = append(stocks, toDomainStock(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating stock rows: %w", rows.Err())
	}
	return stocks, nil
}
