package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStockRequest defines the data needed to create a new stock account.
type CreateStockRequest struct {
	SKU             string               `json:"sku" binding:"required,min=3,max=64"`
	Name            string               `json:"name" binding:"required"`
	Description     string               `json:"description"` // Optional
	Category        domain.StockCategory `json:"category" binding:"required,oneof=raw_materials finished_goods work_in_progress supplies equipment other"`
	UnitOfMeasure   string               `json:"unitOfMeasure" binding:"required"`
	UnitCost        decimal.Decimal      `json:"unitCost"`
	InitialStock    int64                `json:"initialStock" binding:"min=0"`
	MinimumStock    int64                `json:"minimumStock" binding:"min=0"`
	MaximumStock    int64                `json:"maximumStock" binding:"min=0"`
	ReorderPoint    int64                `json:"reorderPoint" binding:"min=0"`
	ReorderQuantity int64                `json:"reorderQuantity" binding:"min=0"`
	LeadTimeDays    int                  `json:"leadTimeDays" binding:"min=0"`
	SupplierName    string               `json:"supplierName"`
	LocationCode    string               `json:"locationCode"`
}

// UpdateStockRequest defines the data allowed for updating a stock account.
// Stock levels are never updated here; they only change through movements.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateStockRequest struct {
	Name            *string               `json:"name"`
	Description     *string               `json:"description"`
	Status          *domain.StockStatus   `json:"status" binding:"omitempty,oneof=active inactive discontinued quarantine"`
	Category        *domain.StockCategory `json:"category" binding:"omitempty,oneof=raw_materials finished_goods work_in_progress supplies equipment other"`
	UnitCost        *decimal.Decimal      `json:"unitCost"`
	MinimumStock    *int64                `json:"minimumStock"`
	MaximumStock    *int64                `json:"maximumStock"`
	ReorderPoint    *int64                `json:"reorderPoint"`
	ReorderQuantity *int64                `json:"reorderQuantity"`
	LeadTimeDays    *int                  `json:"leadTimeDays"`
	SupplierName    *string               `json:"supplierName"`
	LocationCode    *string               `json:"locationCode"`
}

// ReceiveStockRequest records an inbound receipt against a stock account.
type ReceiveStockRequest struct {
	Quantity     int64               `json:"quantity" binding:"required,gt=0"`
	MovementType domain.MovementType `json:"movementType" binding:"omitempty,oneof=inbound return"` // Defaults to inbound
	UnitCost     *decimal.Decimal    `json:"unitCost"` // Optional, defaults to the account's unit cost
	FromLocation string              `json:"fromLocation"`
	Reference    string              `json:"reference"`
	Reason       string              `json:"reason"`
}

// ConsumeStockRequest records an outbound consumption from available stock.
type ConsumeStockRequest struct {
	Quantity     int64               `json:"quantity" binding:"required,gt=0"`
	MovementType domain.MovementType `json:"movementType" binding:"omitempty,oneof=outbound damaged expired"` // Defaults to outbound
	ToLocation   string              `json:"toLocation"`
	Reference    string              `json:"reference"`
	Reason       string              `json:"reason"`
}

// AdjustStockRequest records a manual correction. Delta may be negative but a
// reason is always required.
type AdjustStockRequest struct {
	Delta     int64  `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Reference string `json:"reference"`
}

// ReserveStockRequest earmarks a quantity of available stock.
type ReserveStockRequest struct {
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Reference string `json:"reference"`
}

// ReleaseStockRequest returns a previously reserved quantity to available.
type ReleaseStockRequest struct {
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	Reference string `json:"reference"`
}

// StockResponse defines the data returned for a stock account.
// Mirrors domain.StockAccount.
type StockResponse struct {
	SKU             string               `json:"sku"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Category        domain.StockCategory `json:"category"`
	Status          domain.StockStatus   `json:"status"`
	UnitOfMeasure   string               `json:"unitOfMeasure"`
	UnitCost        decimal.Decimal      `json:"unitCost"`
	CurrentStock    int64                `json:"currentStock"`
	ReservedStock   int64                `json:"reservedStock"`
	AvailableStock  int64                `json:"availableStock"`
	MinimumStock    int64                `json:"minimumStock"`
	MaximumStock    int64                `json:"maximumStock"`
	ReorderPoint    int64                `json:"reorderPoint"`
	ReorderQuantity int64                `json:"reorderQuantity"`
	LeadTimeDays    int                  `json:"leadTimeDays"`
	SupplierName    string               `json:"supplierName"`
	LocationCode    string               `json:"locationCode"`
	IsLowStock      bool                 `json:"isLowStock"`
	StockValue      decimal.Decimal      `json:"stockValue"`
	LastMovementAt  *time.Time           `json:"lastMovementAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ToStockResponse converts a domain.StockAccount to StockResponse DTO
func ToStockResponse(s *domain.StockAccount) StockResponse {
	return StockResponse{
		SKU:             s.SKU,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		Status:          s.Status,
		UnitOfMeasure:   s.UnitOfMeasure,
		UnitCost:        s.UnitCost,
		CurrentStock:    s.CurrentStock,
		ReservedStock:   s.ReservedStock,
		AvailableStock:  s.AvailableStock,
		MinimumStock:    s.MinimumStock,
		MaximumStock:    s.MaximumStock,
		ReorderPoint:    s.ReorderPoint,
		ReorderQuantity: s.ReorderQuantity,
		LeadTimeDays:    s.LeadTimeDays,
		SupplierName:    s.SupplierName,
		LocationCode:    s.LocationCode,
		IsLowStock:      s.IsLowStock(),
		StockValue:      s.StockValue(),
		LastMovementAt:  s.LastMovementAt,
		CreatedAt:       s.CreatedAt,
		CreatedBy:       s.CreatedBy,
		LastUpdatedAt:   s.LastUpdatedAt,
		LastUpdatedBy:   s.LastUpdatedBy,
	}
}

// ToListStockResponse converts a slice of domain.StockAccount to a slice of StockResponse DTOs
func ToListStockResponse(stocks []domain.StockAccount) []StockResponse {
	res := make([]StockResponse, len(stocks))
	for i, s := range stocks {
		res[i] = ToStockResponse(&s)
	}
	return res
}

// ListStocksParams defines query parameters for listing stock accounts.
type ListStocksParams struct {
	Limit        int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"offset,default=0" binding:"omitempty,min=0"`
	Search       string `form:"search"`
	Category     string `form:"category"`
	Status       string `form:"status"`
	LowStockOnly bool   `form:"lowStockOnly"`
}

// ListStocksResponse wraps the list of stock accounts with the total match count.
type ListStocksResponse struct {
	Stocks []StockResponse `json:"stocks"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
