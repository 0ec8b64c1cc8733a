package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// StockAccount is the persisted per-SKU quantity aggregate.
// available_stock is a generated column (current_stock - reserved_stock);
// it is read back but never written.
type StockAccount struct {
	SKU         string `db:"sku"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Status      string `db:"status"`

	UnitOfMeasure string          `db:"unit_of_measure"`
	UnitCost      decimal.Decimal `db:"unit_cost"`

	CurrentStock   int64 `db:"current_stock"`
	ReservedStock  int64 `db:"reserved_stock"`
	AvailableStock int64 `db:"available_stock"`

	MinimumStock    int64 `db:"minimum_stock"`
	MaximumStock    int64 `db:"maximum_stock"`
	ReorderPoint    int64 `db:"reorder_point"`
	ReorderQuantity int64 `db:"reorder_quantity"`
	LeadTimeDays    int   `db:"lead_time_days"`

	SupplierName string `db:"supplier_name"`
	LocationCode string `db:"location_code"`

	LastMovementAt sql.NullTime `db:"last_movement_at"`
	AuditFields
}
