package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// StockReaderSvc defines read operations for stock accounts.
type StockReaderSvc interface {
	// GetStock retrieves a stock account by SKU.
	GetStock(ctx context.Context, sku string) (*domain.StockAccount, error)

	// GetStocksBySKUs retrieves multiple stock accounts keyed by SKU.
	GetStocksBySKUs(ctx context.Context, skus []string) (map[string]domain.StockAccount, error)

	// ListStocks retrieves a filtered, paginated list of stock accounts.
	ListStocks(ctx context.Context, params dto.ListStocksParams) (*dto.ListStocksResponse, error)
}

// StockWriterSvc defines registration and metadata maintenance.
type StockWriterSvc interface {
	// CreateStock registers a new stock item. An opening quantity appends an
	// initial inbound ledger entry.
	CreateStock(ctx context.Context, req dto.CreateStockRequest, creatorUserID string) (*domain.StockAccount, error)

	// UpdateStock updates metadata and thresholds; quantity fields are
	// untouchable here.
	UpdateStock(ctx context.Context, sku string, req dto.UpdateStockRequest, userID string) (*domain.StockAccount, error)

	// DeactivateStock soft-deactivates an account.
	DeactivateStock(ctx context.Context, sku string, userID string) error
}

// StockOperationsSvc is the accounting chokepoint: the only path that mutates
// quantities. Every call is one atomic unit of work under per-SKU mutual
// exclusion.
type StockOperationsSvc interface {
	// Receive books physical quantity in (inbound or return) and appends the
	// matching ledger entry.
	Receive(ctx context.Context, sku string, req dto.ReceiveStockRequest, userID string) (*domain.MovementEntry, error)

	// Consume books physical quantity out (outbound, damaged or expired) and
	// appends the matching ledger entry.
	Consume(ctx context.Context, sku string, req dto.ConsumeStockRequest, userID string) (*domain.MovementEntry, error)

	// Adjust applies a signed correction and appends an adjustment entry,
	// optionally referencing the entry it corrects.
	Adjust(ctx context.Context, sku string, req dto.AdjustStockRequest, userID string) (*domain.MovementEntry, error)

	// Reserve earmarks available quantity without moving physical stock.
	// No ledger entry is appended.
	Reserve(ctx context.Context, sku string, quantity int64, userID string) (*domain.StockAccount, error)

	// Release returns reserved quantity to availability.
	Release(ctx context.Context, sku string, quantity int64, userID string) (*domain.StockAccount, error)
}

// StockSvcFacade combines all stock-related service interfaces.
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
	StockOperationsSvc
}
