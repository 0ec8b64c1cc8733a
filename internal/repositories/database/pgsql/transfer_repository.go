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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transferColumns = `transfer_number, status, priority, from_location, to_location,
	reason, notes, tracking_number, carrier, estimated_cost, actual_cost, requires_approval,
	requested_by, approved_by, completed_by,
	requested_date, scheduled_date, started_date, completed_date,
	created_at, created_by, last_updated_at, last_updated_by`

const transferItemColumns = `transfer_number, stock_sku, quantity_requested, quantity_shipped,
	quantity_received, quantity_damaged, unit_cost, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransferRepository struct {
	BaseRepository
}

// newPgxTransferRepository creates a new repository for transfer data.
func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepositoryWithTx {
	return &PgxTransferRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepositoryWithTx
var _ portsrepo.TransferRepositoryWithTx = (*PgxTransferRepository)(nil)

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Helper to convert domain.Transfer to models.Transfer for DB storage
func toModelTransfer(d domain.Transfer) models.Transfer {
	return models.Transfer{
		TransferNumber:   d.TransferNumber,
		Status:           string(d.Status),
		Priority:         string(d.Priority),
		FromLocation:     d.FromLocation,
		ToLocation:       d.ToLocation,
		Reason:           d.Reason,
		Notes:            d.Notes,
		TrackingNumber:   d.TrackingNumber,
		Carrier:          d.Carrier,
		EstimatedCost:    d.EstimatedCost,
		ActualCost:       d.ActualCost,
		RequiresApproval: d.RequiresApproval,
		RequestedBy:      d.RequestedBy,
		ApprovedBy:       nullString(d.ApprovedBy),
		CompletedBy:      nullString(d.CompletedBy),
		RequestedDate:    nullTime(d.RequestedDate),
		ScheduledDate:    nullTime(d.ScheduledDate),
		StartedDate:      nullTime(d.StartedDate),
		CompletedDate:    nullTime(d.CompletedDate),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Transfer from DB to domain.Transfer
func toDomainTransfer(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		TransferNumber:   m.TransferNumber,
		Status:           domain.TransferStatus(m.Status),
		Priority:         domain.TransferPriority(m.Priority),
		FromLocation:     m.FromLocation,
		ToLocation:       m.ToLocation,
		Reason:           m.Reason,
		Notes:            m.Notes,
		TrackingNumber:   m.TrackingNumber,
		Carrier:          m.Carrier,
		EstimatedCost:    m.EstimatedCost,
		ActualCost:       m.ActualCost,
		RequiresApproval: m.RequiresApproval,
		RequestedBy:      m.RequestedBy,
		ApprovedBy:       m.ApprovedBy.String,
		CompletedBy:      m.CompletedBy.String,
		RequestedDate:    timePtr(m.RequestedDate),
		ScheduledDate:    timePtr(m.ScheduledDate),
		StartedDate:      timePtr(m.StartedDate),
		CompletedDate:    timePtr(m.CompletedDate),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainTransferItem(m models.TransferItem) domain.TransferItem {
	return domain.TransferItem{
		TransferNumber:    m.TransferNumber,
		StockSKU:          m.StockSKU,
		QuantityRequested: m.QuantityRequested,
		QuantityShipped:   m.QuantityShipped,
		QuantityReceived:  m.QuantityReceived,
		QuantityDamaged:   m.QuantityDamaged,
		UnitCost:          m.UnitCost,
		Notes:             m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTransferRow(row pgx.Row) (models.Transfer, error) {
	var m models.Transfer
	err := row.Scan(
		&m.TransferNumber,
		&m.Status,
		&m.Priority,
		&m.FromLocation,
		&m.ToLocation,
		&m.Reason,
		&m.Notes,
		&m.TrackingNumber,
		&m.Carrier,
		&m.EstimatedCost,
		&m.ActualCost,
		&m.RequiresApproval,
		&m.RequestedBy,
		&m.ApprovedBy,
		&m.CompletedBy,
		&m.RequestedDate,
		&m.ScheduledDate,
		&m.StartedDate,
		&m.CompletedDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransferItemRow(row pgx.Row) (models.TransferItem, error) {
	var m models.TransferItem
	err := row.Scan(
		&m.TransferNumber,
		&m.StockSKU,
		&m.QuantityRequested,
		&m.QuantityShipped,
		&m.QuantityReceived,
		&m.QuantityDamaged,
		&m.UnitCost,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// NextTransferNumberInTx allocates the next sequential transfer number.
// Sequence allocation is gap-tolerant: a rolled-back creation burns a number.
func (r *PgxTransferRepository) NextTransferNumberInTx(ctx context.Context, tx pgx.Tx) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('transfer_number_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate transfer number: %w", err)
	}
	return fmt.Sprintf("TRF-%06d", seq), nil
}

// SaveTransferInTx persists a transfer header and all of its items using a
// single batch round trip.
func (r *PgxTransferRepository) SaveTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error {
	m := toModelTransfer(transfer)

	headerQuery := `
		INSERT INTO transfers (transfer_number, status, priority, from_location, to_location,
			reason, notes, tracking_number, carrier, estimated_cost, actual_cost, requires_approval,
			requested_by, approved_by, completed_by,
			requested_date, scheduled_date, started_date, completed_date,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	itemQuery := `
		INSERT INTO transfer_items (transfer_number, stock_sku, quantity_requested, quantity_shipped,
			quantity_received, quantity_damaged, unit_cost, notes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	batch := &pgx.Batch{}
	batch.Queue(headerQuery,
		m.TransferNumber, m.Status, m.Priority, m.FromLocation, m.ToLocation,
		m.Reason, m.Notes, m.TrackingNumber, m.Carrier, m.EstimatedCost, m.ActualCost, m.RequiresApproval,
		m.RequestedBy, m.ApprovedBy, m.CompletedBy,
		m.RequestedDate, m.ScheduledDate, m.StartedDate, m.CompletedDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	for _, item := range transfer.Items {
		batch.Queue(itemQuery,
			m.TransferNumber, item.StockSKU, item.QuantityRequested, item.QuantityShipped,
			item.QuantityReceived, item.QuantityDamaged, item.UnitCost, item.Notes,
			item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
				batchErr = fmt.Errorf("%w: transfer %s already exists", apperrors.ErrDuplicate, m.TransferNumber)
			} else {
				batchErr = fmt.Errorf("failed to save transfer %s: %w", m.TransferNumber, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close transfer save batch: %w", err)
	}
	return batchErr
}

func (r *PgxTransferRepository) loadItems(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, transferNumber string) ([]domain.TransferItem, error) {
	query := `SELECT ` + transferItemColumns + ` FROM transfer_items WHERE transfer_number = $1 ORDER BY stock_sku;`

	rows, err := q.Query(ctx, query, transferNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for transfer %s: %w", transferNumber, err)
	}
	defer rows.Close()

	items := []domain.TransferItem{}
	for rows.Next() {
		m, err := scanTransferItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer item row: %w", err)
		}
		items = append(items, toDomainTransferItem(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transfer item rows: %w", rows.Err())
	}
	return items, nil
}

// FindTransferByNumber retrieves a transfer with its items.
func (r *PgxTransferRepository) FindTransferByNumber(ctx context.Context, transferNumber string) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_number = $1;`

	m, err := scanTransferRow(r.Pool.QueryRow(ctx, query, transferNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transfer %s: %w", transferNumber, err)
	}

	d := toDomainTransfer(m)
	items, err := r.loadItems(ctx, r.Pool, transferNumber)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return &d, nil
}

// FindTransferByNumberForUpdate retrieves a transfer with items and locks the
// header row against concurrent lifecycle transitions.
func (r *PgxTransferRepository) FindTransferByNumberForUpdate(ctx context.Context, tx pgx.Tx, transferNumber string) (*domain.Transfer, error) {
	if _, err := tx.Exec(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_number = $1 FOR UPDATE;`

	m, err := scanTransferRow(tx.QueryRow(ctx, query, transferNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrBusy) {
			return nil, fmt.Errorf("%w: transfer %s is locked by a concurrent operation", apperrors.ErrBusy, transferNumber)
		}
		return nil, fmt.Errorf("failed to lock transfer %s: %w", transferNumber, err)
	}

	d := toDomainTransfer(m)
	items, err := r.loadItems(ctx, tx, transferNumber)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return &d, nil
}

// ListTransfers retrieves a filtered, paginated list of transfer headers,
// newest first. Items are not populated.
func (r *PgxTransferRepository) ListTransfers(ctx context.Context, filter portsrepo.TransferListFilter, limit int, offset int) ([]domain.Transfer, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, string(filter.Status))
		argPos++
	}
	if filter.Priority != "" {
		where += fmt.Sprintf(` AND priority = $%d`, argPos)
		args = append(args, string(filter.Priority))
		argPos++
	}
	if filter.FromLocation != "" {
		where += fmt.Sprintf(` AND from_location = $%d`, argPos)
		args = append(args, filter.FromLocation)
		argPos++
	}
	if filter.ToLocation != "" {
		where += fmt.Sprintf(` AND to_location = $%d`, argPos)
		args = append(args, filter.ToLocation)
		argPos++
	}
	if filter.RequestedBy != "" {
		where += fmt.Sprintf(` AND requested_by = $%d`, argPos)
		args = append(args, filter.RequestedBy)
		argPos++
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transfers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	query := `SELECT ` + transferColumns + ` FROM transfers` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, transfer_number DESC LIMIT $%d OFFSET $%d;`, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	transfers := []domain.Transfer{}
	for rows.Next() {
		m, err := scanTransferRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, toDomainTransfer(m))
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating transfer rows: %w", rows.Err())
	}

	return transfers, total, nil
}

// UpdateTransferStatusInTx applies a lifecycle transition and its stamps.
func (r *PgxTransferRepository) UpdateTransferStatusInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error {
	m := toModelTransfer(transfer)

	query := `
		UPDATE transfers
		SET status = $2, notes = $3, tracking_number = $4, carrier = $5, actual_cost = $6,
			approved_by = $7, completed_by = $8,
			started_date = $9, completed_date = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE transfer_number = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransferNumber,
		m.Status,
		m.Notes,
		m.TrackingNumber,
		m.Carrier,
		m.ActualCost,
		m.ApprovedBy,
		m.CompletedBy,
		m.StartedDate,
		m.CompletedDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transfer %s status: %w", m.TransferNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateTransferItemInTx persists shipped/received/damaged counts of one item.
func (r *PgxTransferRepository) UpdateTransferItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransferItem) error {
	query := `
		UPDATE transfer_items
		SET quantity_shipped = $3, quantity_received = $4, quantity_damaged = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE transfer_number = $1 AND stock_sku = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		item.TransferNumber,
		item.StockSKU,
		item.QuantityShipped,
		item.QuantityReceived,
		item.QuantityDamaged,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %s of transfer %s: %w", item.StockSKU, item.TransferNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetTransferStats counts transfers per lifecycle state.
func (r *PgxTransferRepository) GetTransferStats(ctx context.Context) (*domain.TransferStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_transit'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM transfers;
	`
	var stats domain.TransferStats
	err := r.Pool.QueryRow(ctx, query).Scan(
		&stats.DraftCount,
		&stats.PendingCount,
		&stats.InTransitCount,
		&stats.CompletedCount,
		&stats.CancelledCount,
		&stats.FailedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer stats: %w", err)
	}
	return &stats, nil
}
