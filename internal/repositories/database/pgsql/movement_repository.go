package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/inventory_management_app/internal/models"
	"github.com/SscSPs/inventory_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movementColumns = `movement_id, stock_sku, movement_type, quantity, quantity_delta, unit_cost,
	from_location, to_location, reference, reference_type, corrects_movement_id,
	reason, occurred_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for the movement ledger.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryWithTx {
	return &PgxMovementRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxMovementRepository implements portsrepo.MovementRepositoryWithTx
var _ portsrepo.MovementRepositoryWithTx = (*PgxMovementRepository)(nil)

// Helper to convert models.StockMovement from DB to domain.MovementEntry
func toDomainMovement(m models.StockMovement) domain.MovementEntry {
	var corrects *int64
	if m.CorrectsMovementID.Valid {
		v := m.CorrectsMovementID.Int64
		corrects = &v
	}
	return domain.MovementEntry{
		MovementID:         m.MovementID,
		StockSKU:           m.StockSKU,
		MovementType:       domain.MovementType(m.MovementType),
		Quantity:           m.Quantity,
		QuantityDelta:      m.QuantityDelta,
		UnitCost:           m.UnitCost,
		FromLocation:       m.FromLocation,
		ToLocation:         m.ToLocation,
		Reference:          m.Reference,
		ReferenceType:      m.ReferenceType,
		CorrectsMovementID: corrects,
		Reason:             m.Reason,
		OccurredAt:         m.OccurredAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanMovementRow(row pgx.Row) (models.StockMovement, error) {
	var m models.StockMovement
	err := row.Scan(
		&m.MovementID,
		&m.StockSKU,
		&m.MovementType,
		&m.Quantity,
		&m.QuantityDelta,
		&m.UnitCost,
		&m.FromLocation,
		&m.ToLocation,
		&m.Reference,
		&m.ReferenceType,
		&m.CorrectsMovementID,
		&m.Reason,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// AppendMovementInTx inserts one ledger entry and returns the assigned
// sequence id. The ledger has no update path; this INSERT is the only write.
func (r *PgxMovementRepository) AppendMovementInTx(ctx context.Context, tx pgx.Tx, entry domain.MovementEntry) (int64, error) {
	var corrects sql.NullInt64
	if entry.CorrectsMovementID != nil {
		corrects = sql.NullInt64{Int64: *entry.CorrectsMovementID, Valid: true}
	}

	query := `
		INSERT INTO stock_movements (stock_sku, movement_type, quantity, quantity_delta, unit_cost,
			from_location, to_location, reference, reference_type, corrects_movement_id,
			reason, occurred_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING movement_id;
	`
	var movementID int64
	err := tx.QueryRow(ctx, query,
		entry.StockSKU,
		string(entry.MovementType),
		entry.Quantity,
		entry.QuantityDelta,
		entry.UnitCost,
		entry.FromLocation,
		entry.ToLocation,
		entry.Reference,
		entry.ReferenceType,
		corrects,
		entry.Reason,
		entry.OccurredAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	).Scan(&movementID)
	if err != nil {
		return 0, fmt.Errorf("failed to append movement for %s: %w", entry.StockSKU, err)
	}
	return movementID, nil
}

// FindMovementByID retrieves a single ledger entry by sequence id.
func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, movementID int64) (*domain.MovementEntry, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE movement_id = $1;`

	m, err := scanMovementRow(r.Pool.QueryRow(ctx, query, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movement %d: %w", movementID, err)
	}

	d := toDomainMovement(m)
	return &d, nil
}

// ListMovementsBySKU retrieves a page of a SKU's history ordered by
// occurred_at with sequence id as tiebreaker. The returned token resumes the
// scan after the last entry of this page.
func (r *PgxMovementRepository) ListMovementsBySKU(ctx context.Context, sku string, since, until time.Time, limit int, nextToken *string) ([]domain.MovementEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	where := ` WHERE stock_sku = $1`
	args := []interface{}{sku}
	argPos := 2

	if !since.IsZero() {
		where += fmt.Sprintf(` AND occurred_at >= $%d`, argPos)
		args = append(args, since)
		argPos++
	}
	if !until.IsZero() {
		where += fmt.Sprintf(` AND occurred_at <= $%d`, argPos)
		args = append(args, until)
		argPos++
	}
	if nextToken != nil && *nextToken != "" {
		tokenTime, tokenID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		where += fmt.Sprintf(` AND (occurred_at, movement_id) > ($%d, $%d)`, argPos, argPos+1)
		args = append(args, tokenTime, tokenID)
		argPos += 2
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(` ORDER BY occurred_at, movement_id LIMIT $%d;`, argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query movements for %s: %w", sku, err)
	}
	defer rows.Close()

	entries := []domain.MovementEntry{}
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		entries = append(entries, toDomainMovement(m))
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows: %w", rows.Err())
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.OccurredAt, last.MovementID)
		newToken = &token
	}

	return entries, newToken, nil
}

// ListRecentMovements retrieves the latest entries across all SKUs, newest first.
func (r *PgxMovementRepository) ListRecentMovements(ctx context.Context, limit int) ([]domain.MovementEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements ORDER BY movement_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent movements: %w", err)
	}
	defer rows.Close()

	entries := []domain.MovementEntry{}
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		entries = append(entries, toDomainMovement(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", rows.Err())
	}

	return entries, nil
}

// SumDeltasBySKU replays a SKU's full ledger and returns the summed signed
// effect, which must equal the account's current stock.
func (r *PgxMovementRepository) SumDeltasBySKU(ctx context.Context, sku string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity_delta), 0) FROM stock_movements WHERE stock_sku = $1;`

	var total int64
	if err := r.Pool.QueryRow(ctx, query, sku).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum movement deltas for %s: %w", sku, err)
	}
	return total, nil
}
