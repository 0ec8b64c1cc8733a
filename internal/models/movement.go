package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement is one persisted row of the append-only movement ledger.
// movement_id is a bigserial; rows are insert-only.
type StockMovement struct {
	MovementID    int64           `db:"movement_id"`
	StockSKU      string          `db:"stock_sku"`
	MovementType  string          `db:"movement_type"`
	Quantity      int64           `db:"quantity"`
	QuantityDelta int64           `db:"quantity_delta"`
	UnitCost      decimal.Decimal `db:"unit_cost"`

	FromLocation string `db:"from_location"`
	ToLocation   string `db:"to_location"`

	Reference          string        `db:"reference"`
	ReferenceType      string        `db:"reference_type"`
	CorrectsMovementID sql.NullInt64 `db:"corrects_movement_id"`

	Reason     string    `db:"reason"`
	OccurredAt time.Time `db:"occurred_at"`
	AuditFields
}
