package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the state of a transfer in its lifecycle.
//
// Legal transitions:
//
//	draft   -> pending | in_transit | cancelled
//	pending -> in_transit | cancelled
//	in_transit -> completed | failed
//
// completed, cancelled and failed are terminal.
type TransferStatus string

const (
	TransferDraft     TransferStatus = "draft"
	TransferPending   TransferStatus = "pending"
	TransferInTransit TransferStatus = "in_transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
	TransferFailed    TransferStatus = "failed"
)

// TransferPriority orders transfers for fulfilment.
type TransferPriority string

const (
	PriorityLow    TransferPriority = "low"
	PriorityNormal TransferPriority = "normal"
	PriorityHigh   TransferPriority = "high"
	PriorityUrgent TransferPriority = "urgent"
)

// Transfer is a multi-item request to move stock between two locations.
// It owns its items; items reference stock accounts by SKU only.
type Transfer struct {
	TransferNumber string           `json:"transferNumber"` // Primary key, format TRF-%06d
	Status         TransferStatus   `json:"status"`
	Priority       TransferPriority `json:"priority"`

	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`

	Reason         string `json:"reason,omitempty"`
	Notes          string `json:"notes,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty"`

	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	ActualCost    decimal.Decimal `json:"actualCost"`

	RequiresApproval bool `json:"requiresApproval"`

	RequestedBy string `json:"requestedBy"`
	ApprovedBy  string `json:"approvedBy,omitempty"`
	CompletedBy string `json:"completedBy,omitempty"`

	RequestedDate *time.Time `json:"requestedDate,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	StartedDate   *time.Time `json:"startedDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`

	Items []TransferItem `json:"items"`
	AuditFields
}

// CanBeCancelled reports whether cancel is a legal transition from the current state.
func (t *Transfer) CanBeCancelled() bool {
	return t.Status == TransferDraft || t.Status == TransferPending
}

// IsTerminal reports whether the transfer has reached a final state.
func (t *Transfer) IsTerminal() bool {
	switch t.Status {
	case TransferCompleted, TransferCancelled, TransferFailed:
		return true
	}
	return false
}

// TotalRequestedQuantity sums quantity requested across all items.
func (t *Transfer) TotalRequestedQuantity() int64 {
	var total int64
	for _, item := range t.Items {
		total += item.QuantityRequested
	}
	return total
}

// TransferItem is one line of a transfer. QuantityRequested is reserved on the
// item's stock account for the whole in-flight window; shipped/received/damaged
// are filled in on completion.
//
// Invariants after completion:
//
//	QuantityShipped <= QuantityRequested
//	QuantityReceived + QuantityDamaged <= QuantityShipped
type TransferItem struct {
	TransferNumber    string          `json:"transferNumber"`
	StockSKU          string          `json:"stockSKU"`
	QuantityRequested int64           `json:"quantityRequested"`
	QuantityShipped   int64           `json:"quantityShipped"`
	QuantityReceived  int64           `json:"quantityReceived"`
	QuantityDamaged   int64           `json:"quantityDamaged"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	Notes             string          `json:"notes,omitempty"`
	AuditFields
}

// ShortageQuantity is the quantity requested but never shipped. It is absorbed
// without a compensating ledger entry: only shipped units leave current stock,
// so unshipped units simply remain on hand.
func (i *TransferItem) ShortageQuantity() int64 {
	if short := i.QuantityRequested - i.QuantityShipped; short > 0 {
		return short
	}
	return 0
}

// IsFullyShipped reports whether the whole requested quantity went out.
func (i *TransferItem) IsFullyShipped() bool {
	return i.QuantityShipped >= i.QuantityRequested
}
