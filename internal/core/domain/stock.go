package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCategory groups stock items for reporting and alert rule scoping.
type StockCategory string

const (
	CategoryRawMaterials   StockCategory = "raw_materials"
	CategoryFinishedGoods  StockCategory = "finished_goods"
	CategoryWorkInProgress StockCategory = "work_in_progress"
	CategorySupplies       StockCategory = "supplies"
	CategoryEquipment      StockCategory = "equipment"
	CategoryOther          StockCategory = "other"
)

// StockStatus is the lifecycle flag of a stock item. Items with movement history
// are never hard-deleted; they are deactivated instead.
type StockStatus string

const (
	StockActive       StockStatus = "active"
	StockInactive     StockStatus = "inactive"
	StockDiscontinued StockStatus = "discontinued"
	StockQuarantine   StockStatus = "quarantine"
)

// StockAccount is the per-SKU quantity aggregate. It is the primary
// representation used by services.
//
// Invariants, enforced at the service chokepoint and back-stopped by schema
// CHECK constraints:
//
//	AvailableStock == CurrentStock - ReservedStock
//	CurrentStock >= 0, ReservedStock >= 0, ReservedStock <= CurrentStock
//
// Quantity fields are mutated only through the named StockService operations,
// never by direct assignment in calling code.
type StockAccount struct {
	SKU         string        `json:"sku"` // Primary key
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    StockCategory `json:"category"`
	Status      StockStatus   `json:"status"`

	UnitOfMeasure string          `json:"unitOfMeasure"`
	UnitCost      decimal.Decimal `json:"unitCost"`

	CurrentStock   int64 `json:"currentStock"`
	ReservedStock  int64 `json:"reservedStock"`
	AvailableStock int64 `json:"availableStock"`

	MinimumStock    int64 `json:"minimumStock"`
	MaximumStock    int64 `json:"maximumStock"`
	ReorderPoint    int64 `json:"reorderPoint"`
	ReorderQuantity int64 `json:"reorderQuantity"`
	LeadTimeDays    int   `json:"leadTimeDays"`

	SupplierName string `json:"supplierName"`
	LocationCode string `json:"locationCode"`

	LastMovementAt *time.Time `json:"lastMovementAt,omitempty"`
	AuditFields
}

// IsLowStock reports whether available stock has fallen to or below the minimum threshold.
func (s *StockAccount) IsLowStock() bool {
	return s.AvailableStock <= s.MinimumStock
}

// IsOutOfStock reports whether nothing is left to commit to new demand.
func (s *StockAccount) IsOutOfStock() bool {
	return s.AvailableStock <= 0
}

// StockValue is the value of the physical quantity on hand at unit cost.
func (s *StockAccount) StockValue() decimal.Decimal {
	return s.UnitCost.Mul(decimal.NewFromInt(s.CurrentStock))
}
