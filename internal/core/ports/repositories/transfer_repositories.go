package repositories

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransferListFilter narrows ListTransfers results.
type TransferListFilter struct {
	Status       domain.TransferStatus
	Priority     domain.TransferPriority
	FromLocation string
	ToLocation   string
	RequestedBy  string
}

// TransferReader defines read operations for transfer data.
type TransferReader interface {
	// FindTransferByNumber retrieves a transfer with its items.
	FindTransferByNumber(ctx context.Context, transferNumber string) (*domain.Transfer, error)

	// ListTransfers retrieves a filtered, paginated list (items not populated),
	// newest first.
	ListTransfers(ctx context.Context, filter TransferListFilter, limit int, offset int) ([]domain.Transfer, int64, error)

	// GetTransferStats counts transfers per status.
	GetTransferStats(ctx context.Context) (*domain.TransferStats, error)
}

// TransferWriter defines write operations for transfer data. All of them run
// inside the caller's transaction so transfer rows, item rows, stock levels
// and ledger entries commit atomically.
type TransferWriter interface {
	// NextTransferNumberInTx allocates the next sequential TRF-%06d number.
	NextTransferNumberInTx(ctx context.Context, tx pgx.Tx) (string, error)

	// SaveTransferInTx persists a transfer and all of its items.
	SaveTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error

	// FindTransferByNumberForUpdate retrieves a transfer with items and locks
	// the transfer row against concurrent lifecycle transitions.
	FindTransferByNumberForUpdate(ctx context.Context, tx pgx.Tx, transferNumber string) (*domain.Transfer, error)

	// UpdateTransferStatusInTx applies a lifecycle transition and its stamps.
	UpdateTransferStatusInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error

	// UpdateTransferItemInTx persists shipped/received/damaged counts of one item.
	UpdateTransferItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransferItem) error
}

// TransferRepositoryFacade combines all transfer-related repository interfaces.
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}

// TransferRepositoryWithTx extends TransferRepositoryFacade with transaction capabilities.
type TransferRepositoryWithTx interface {
	TransferRepositoryFacade
	TransactionManager
}
