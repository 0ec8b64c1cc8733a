package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// StockListFilter narrows ListStocks results.
type StockListFilter struct {
	Search       string
	Category     domain.StockCategory
	Status       domain.StockStatus
	LowStockOnly bool
}

// StockReader defines read operations for stock account data.
type StockReader interface {
	// FindStockBySKU retrieves a specific stock account by SKU.
	FindStockBySKU(ctx context.Context, sku string) (*domain.StockAccount, error)

	// FindStocksBySKUs retrieves multiple stock accounts keyed by SKU.
	FindStocksBySKUs(ctx context.Context, skus []string) (map[string]domain.StockAccount, error)

	// ListStocks retrieves a filtered, paginated list of stock accounts.
	ListStocks(ctx context.Context, filter StockListFilter, limit int, offset int) ([]domain.StockAccount, int64, error)
}

// StockWriter defines write operations for stock account metadata. Quantity
// fields are out of bounds here; they change only through
// StockTransactionSupport inside a unit of work.
type StockWriter interface {
	// SaveStock persists a new stock account.
	SaveStock(ctx context.Context, stock domain.StockAccount) error

	// UpdateStock updates metadata and thresholds of an existing account.
	UpdateStock(ctx context.Context, stock domain.StockAccount) error

	// DeactivateStock marks an account inactive. Accounts with ledger history
	// are never hard-deleted.
	DeactivateStock(ctx context.Context, sku string, userID string, now time.Time) error
}

// StockTransactionSupport defines the operations that mutate quantities.
// All of them require a transaction started by the TransactionManager.
type StockTransactionSupport interface {
	// FindStockBySKUForUpdate selects one stock row and locks it for the
	// duration of the transaction. A lock wait beyond the configured timeout
	// returns apperrors.ErrBusy.
	FindStockBySKUForUpdate(ctx context.Context, tx pgx.Tx, sku string) (*domain.StockAccount, error)

	// FindStocksBySKUsForUpdate locks multiple stock rows in ascending SKU
	// order so concurrent multi-SKU transactions cannot deadlock.
	FindStocksBySKUsForUpdate(ctx context.Context, tx pgx.Tx, skus []string) (map[string]domain.StockAccount, error)

	// UpdateStockLevelsInTx applies the given deltas to a locked row and
	// recomputes available stock. Schema CHECK constraints back-stop the
	// non-negativity invariants; a violation maps to apperrors.ErrIntegrity.
	UpdateStockLevelsInTx(ctx context.Context, tx pgx.Tx, sku string, currentDelta, reservedDelta int64, userID string, now time.Time) error
}

// StockRepositoryFacade combines all stock-related repository interfaces.
type StockRepositoryFacade interface {
	StockReader
	StockWriter
	StockTransactionSupport
}

// StockRepositoryWithTx extends StockRepositoryFacade with transaction capabilities.
type StockRepositoryWithTx interface {
	StockRepositoryFacade
	TransactionManager
}
