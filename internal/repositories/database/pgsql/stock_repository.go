package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/inventory_management_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stockColumns = `sku, name, description, category, status, unit_of_measure, unit_cost,
	current_stock, reserved_stock, available_stock,
	minimum_stock, maximum_stock, reorder_point, reorder_quantity, lead_time_days,
	supplier_name, location_code, last_movement_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxStockRepository struct {
	BaseRepository
}

// newPgxStockRepository creates a new repository for stock account data.
func newPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryWithTx {
	return &PgxStockRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxStockRepository implements portsrepo.StockRepositoryWithTx
var _ portsrepo.StockRepositoryWithTx = (*PgxStockRepository)(nil)

// Helper to convert domain.StockAccount to models.StockAccount for DB storage
func toModelStock(d domain.StockAccount) models.StockAccount {
	var lastMovement sql.NullTime
	if d.LastMovementAt != nil {
		lastMovement = sql.NullTime{Time: *d.LastMovementAt, Valid: true}
	}
	return models.StockAccount{
		SKU:             d.SKU,
		Name:            d.Name,
		Description:     d.Description,
		Category:        string(d.Category),
		Status:          string(d.Status),
		UnitOfMeasure:   d.UnitOfMeasure,
		UnitCost:        d.UnitCost,
		CurrentStock:    d.CurrentStock,
		ReservedStock:   d.ReservedStock,
		AvailableStock:  d.AvailableStock,
		MinimumStock:    d.MinimumStock,
		MaximumStock:    d.MaximumStock,
		ReorderPoint:    d.ReorderPoint,
		ReorderQuantity: d.ReorderQuantity,
		LeadTimeDays:    d.LeadTimeDays,
		SupplierName:    d.SupplierName,
		LocationCode:    d.LocationCode,
		LastMovementAt:  lastMovement,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.StockAccount from DB to domain.StockAccount
func toDomainStock(m models.StockAccount) domain.StockAccount {
	var lastMovement *time.Time
	if m.LastMovementAt.Valid {
		t := m.LastMovementAt.Time
		lastMovement = &t
	}
	return domain.StockAccount{
		SKU:             m.SKU,
		Name:            m.Name,
		Description:     m.Description,
		Category:        domain.StockCategory(m.Category),
		Status:          domain.StockStatus(m.Status),
		UnitOfMeasure:   m.UnitOfMeasure,
		UnitCost:        m.UnitCost,
		CurrentStock:    m.CurrentStock,
		ReservedStock:   m.ReservedStock,
		AvailableStock:  m.AvailableStock,
		MinimumStock:    m.MinimumStock,
		MaximumStock:    m.MaximumStock,
		ReorderPoint:    m.ReorderPoint,
		ReorderQuantity: m.ReorderQuantity,
		LeadTimeDays:    m.LeadTimeDays,
		SupplierName:    m.SupplierName,
		LocationCode:    m.LocationCode,
		LastMovementAt:  lastMovement,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanStockRow(row pgx.Row) (models.StockAccount, error) {
	var m models.StockAccount
	err := row.Scan(
		&m.SKU,
		&m.Name,
		&m.Description,
		&m.Category,
		&m.Status,
		&m.UnitOfMeasure,
		&m.UnitCost,
		&m.CurrentStock,
		&m.ReservedStock,
		&m.AvailableStock,
		&m.MinimumStock,
		&m.MaximumStock,
		&m.ReorderPoint,
		&m.ReorderQuantity,
		&m.LeadTimeDays,
		&m.SupplierName,
		&m.LocationCode,
		&m.LastMovementAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveStock inserts a new stock account. Quantities start at their initial
// values; all later changes go through UpdateStockLevelsInTx.
func (r *PgxStockRepository) SaveStock(ctx context.Context, stock domain.StockAccount) error {
	m := toModelStock(stock)

	query := `
		INSERT INTO stocks (sku, name, description, category, status, unit_of_measure, unit_cost,
			current_stock, reserved_stock,
			minimum_stock, maximum_stock, reorder_point, reorder_quantity, lead_time_days,
			supplier_name, location_code, last_movement_at,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SKU,
		m.Name,
		m.Description,
		m.Category,
		m.Status,
		m.UnitOfMeasure,
		m.UnitCost,
		m.CurrentStock,
		m.ReservedStock,
		m.MinimumStock,
		m.MaximumStock,
		m.ReorderPoint,
		m.ReorderQuantity,
		m.LeadTimeDays,
		m.SupplierName,
		m.LocationCode,
		m.LastMovementAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: stock with SKU %s already exists", apperrors.ErrDuplicate, m.SKU)
		}
		return fmt.Errorf("failed to save stock %s: %w", m.SKU, err)
	}
	return nil
}

// FindStockBySKU retrieves a stock account by its SKU.
func (r *PgxStockRepository) FindStockBySKU(ctx context.Context, sku string) (*domain.StockAccount, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE sku = $1;`

	m, err := scanStockRow(r.Pool.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock by SKU %s: %w", sku, err)
	}

	d := toDomainStock(m)
	return &d, nil
}

// FindStocksBySKUs retrieves multiple stock accounts keyed by SKU.
// Missing SKUs are simply absent from the map; the caller decides whether
// that is an error.
func (r *PgxStockRepository) FindStocksBySKUs(ctx context.Context, skus []string) (map[string]domain.StockAccount, error) {
	if len(skus) == 0 {
		return map[string]domain.StockAccount{}, nil
	}

	query := `SELECT ` + stockColumns + ` FROM stocks WHERE sku = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks by SKUs: %w", err)
	}
	defer rows.Close()

	stocksMap := make(map[string]domain.StockAccount)
	for rows.Next() {
		m, err := scanStockRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row during batch fetch: %w", err)
		}
		stocksMap[m.SKU] = toDomainStock(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock rows during batch fetch: %w", err)
	}

	return stocksMap, nil
}

// ListStocks retrieves a filtered, paginated list of stock accounts together
// with the total match count.
func (r *PgxStockRepository) ListStocks(ctx context.Context, filter portsrepo.StockListFilter, limit int, offset int) ([]domain.StockAccount, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(` AND (sku ILIKE $%d OR name ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.Category != "" {
		where += fmt.Sprintf(` AND category = $%d`, argPos)
		args = append(args, string(filter.Category))
		argPos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, string(filter.Status))
		argPos++
	}
	if filter.LowStockOnly {
		where += ` AND available_stock <= minimum_stock`
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM stocks`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stocks: %w", err)
	}

	query := `SELECT ` + stockColumns + ` FROM stocks` + where +
		fmt.Sprintf(` ORDER BY sku LIMIT $%d OFFSET $%d;`, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks := []domain.StockAccount{}
	for rows.Next() {
		m, err := scanStockRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stocks = append(stocks, toDomainStock(m))
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating stock rows: %w", rows.Err())
	}

	return stocks, total, nil
}

// UpdateStock updates metadata and thresholds of an existing account.
// Quantity columns are deliberately absent from the SET list.
func (r *PgxStockRepository) UpdateStock(ctx context.Context, stock domain.StockAccount) error {
	m := toModelStock(stock)

	query := `
		UPDATE stocks
		SET name = $2, description = $3, category = $4, status = $5, unit_cost = $6,
			minimum_stock = $7, maximum_stock = $8, reorder_point = $9, reorder_quantity = $10,
			lead_time_days = $11, supplier_name = $12, location_code = $13,
			last_updated_at = $14, last_updated_by = $15
		WHERE sku = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.SKU,
		m.Name,
		m.Description,
		m.Category,
		m.Status,
		m.UnitCost,
		m.MinimumStock,
		m.MaximumStock,
		m.ReorderPoint,
		m.ReorderQuantity,
		m.LeadTimeDays,
		m.SupplierName,
		m.LocationCode,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update stock %s: %w", m.SKU, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateStock marks a stock account inactive.
func (r *PgxStockRepository) DeactivateStock(ctx context.Context, sku string, userID string, now time.Time) error {
	query := `
		UPDATE stocks
		SET status = 'inactive', last_updated_at = $2, last_updated_by = $3
		WHERE sku = $1 AND status = 'active';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, sku, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate stock %s: %w", sku, err)
	}
	if cmdTag.RowsAffected() == 0 {
		_, findErr := r.FindStockBySKU(ctx, sku)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check stock status after deactivation attempt for %s: %w", sku, findErr)
		}
		// Exists but was not active.
		return apperrors.ErrValidation
	}
	return nil
}

// FindStockBySKUForUpdate selects one stock row and locks it for the duration
// of the transaction. The tight lock_timeout turns lock contention into
// ErrBusy instead of an open-ended wait.
func (r *PgxStockRepository) FindStockBySKUForUpdate(ctx context.Context, tx pgx.Tx, sku string) (*domain.StockAccount, error) {
	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	query := `SELECT ` + stockColumns + ` FROM stocks WHERE sku = $1 FOR UPDATE;`

	m, err := scanStockRow(tx.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrBusy) {
			return nil, fmt.Errorf("%w: stock %s is locked by a concurrent operation", apperrors.ErrBusy, sku)
		}
		return nil, fmt.Errorf("failed to lock stock %s: %w", sku, err)
	}

	d := toDomainStock(m)
	return &d, nil
}

// FindStocksBySKUsForUpdate locks multiple stock rows. SKUs are locked in
// ascending order so concurrent multi-SKU transactions acquire locks in the
// same sequence and cannot deadlock.
func (r *PgxStockRepository) FindStocksBySKUsForUpdate(ctx context.Context, tx pgx.Tx, skus []string) (map[string]domain.StockAccount, error) {
	if len(skus) == 0 {
		return map[string]domain.StockAccount{}, nil
	}

	sorted := make([]string, len(skus))
	copy(sorted, skus)
	sort.Strings(sorted)

	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	stocksMap := make(map[string]domain.StockAccount, len(sorted))
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE sku = $1 FOR UPDATE;`
	for _, sku := range sorted {
		m, err := scanStockRow(tx.QueryRow(ctx, query, sku))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // caller decides whether a missing SKU is fatal
			}
			if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrBusy) {
				return nil, fmt.Errorf("%w: stock %s is locked by a concurrent operation", apperrors.ErrBusy, sku)
			}
			return nil, fmt.Errorf("failed to lock stock %s: %w", sku, err)
		}
		stocksMap[m.SKU] = toDomainStock(m)
	}

	return stocksMap, nil
}

// UpdateStockLevelsInTx applies the given deltas to a locked row. The
// available_stock generated column recomputes automatically; schema CHECK
// constraints reject any combination that would break the quantity invariants.
func (r *PgxStockRepository) UpdateStockLevelsInTx(ctx context.Context, tx pgx.Tx, sku string, currentDelta, reservedDelta int64, userID string, now time.Time) error {
	query := `
		UPDATE stocks
		SET current_stock = current_stock + $2,
			reserved_stock = reserved_stock + $3,
			last_movement_at = CASE WHEN $2::bigint <> 0 THEN $4 ELSE last_movement_at END,
			last_updated_at = $4,
			last_updated_by = $5
		WHERE sku = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, sku, currentDelta, reservedDelta, now, userID)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrIntegrity) {
			return fmt.Errorf("%w: stock level update for %s violates quantity constraints", apperrors.ErrIntegrity, sku)
		}
		return fmt.Errorf("failed to update stock levels for %s: %w", sku, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
