package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MovementWriter appends entries to the stock ledger. The ledger is
// append-only: there is no update or delete, corrections are new entries.
type MovementWriter interface {
	// AppendMovementInTx inserts one ledger entry within the transaction that
	// carries the matching stock mutation, and returns the assigned
	// monotonically increasing sequence id. It never fails for well-formed
	// input; validation happens before entry construction.
	AppendMovementInTx(ctx context.Context, tx pgx.Tx, entry domain.MovementEntry) (int64, error)
}

// MovementReader defines read operations over the ledger.
type MovementReader interface {
	// FindMovementByID retrieves a single entry by sequence id.
	FindMovementByID(ctx context.Context, movementID int64) (*domain.MovementEntry, error)

	// ListMovementsBySKU retrieves a page of a SKU's history between since and
	// until (zero values mean unbounded), ordered by occurred_at ascending with
	// ties broken by sequence id. The returned token restarts the scan at the
	// next entry, making history consumption lazy and restartable.
	ListMovementsBySKU(ctx context.Context, sku string, since, until time.Time, limit int, nextToken *string) ([]domain.MovementEntry, *string, error)

	// ListRecentMovements retrieves the latest entries across all SKUs,
	// newest first, for dashboard display.
	ListRecentMovements(ctx context.Context, limit int) ([]domain.MovementEntry, error)

	// SumDeltasBySKU replays a SKU's full ledger, returning the summed signed
	// effect. Used by integrity checks: the result must equal current stock.
	SumDeltasBySKU(ctx context.Context, sku string) (int64, error)
}

// MovementRepositoryFacade combines ledger repository interfaces.
type MovementRepositoryFacade interface {
	MovementWriter
	MovementReader
}

// MovementRepositoryWithTx extends MovementRepositoryFacade with transaction capabilities.
type MovementRepositoryWithTx interface {
	MovementRepositoryFacade
	TransactionManager
}
