package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a ledger entry. The signed effect a type has on
// current stock is not implied by the type alone; the applied effect is
// persisted on the entry itself (see MovementEntry.QuantityDelta).
type MovementType string

const (
	MovementInbound    MovementType = "inbound"
	MovementOutbound   MovementType = "outbound"
	MovementTransfer   MovementType = "transfer"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
	MovementDamaged    MovementType = "damaged"
	MovementExpired    MovementType = "expired"
)

// MovementEntry is one immutable record in the append-only stock ledger.
// Entries are created exactly once per accepted mutation and never updated or
// deleted; corrections are new adjustment entries referencing the corrected
// entry via CorrectsMovementID.
//
// Quantity is always positive. QuantityDelta is the signed effect this entry
// applied to the SKU's current stock, so that replaying a SKU's full history
// from zero reproduces its current stock exactly:
//
//	sum(QuantityDelta) == CurrentStock
//
// A damaged entry recorded against a transfer carries a zero delta because the
// damaged units are already counted in the transfer's outbound entry.
type MovementEntry struct {
	MovementID    int64           `json:"movementID"` // Monotonic sequence id assigned on append
	StockSKU      string          `json:"stockSKU"`
	MovementType  MovementType    `json:"movementType"`
	Quantity      int64           `json:"quantity"`
	QuantityDelta int64           `json:"quantityDelta"`
	UnitCost      decimal.Decimal `json:"unitCost"`

	FromLocation string `json:"fromLocation,omitempty"`
	ToLocation   string `json:"toLocation,omitempty"`

	Reference          string `json:"reference,omitempty"`     // Transfer number, order id, ...
	ReferenceType      string `json:"referenceType,omitempty"` // "Transfer", "PO", "SO", ...
	CorrectsMovementID *int64 `json:"correctsMovementID,omitempty"`

	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	AuditFields
}
