package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transfer is the persisted transfer header. transfer_number is the primary
// key, allocated from the transfer_number_seq sequence as TRF-%06d.
type Transfer struct {
	TransferNumber string `db:"transfer_number"`
	Status         string `db:"status"`
	Priority       string `db:"priority"`

	FromLocation string `db:"from_location"`
	ToLocation   string `db:"to_location"`

	Reason         string `db:"reason"`
	Notes          string `db:"notes"`
	TrackingNumber string `db:"tracking_number"`
	Carrier        string `db:"carrier"`

	EstimatedCost decimal.Decimal `db:"estimated_cost"`
	ActualCost    decimal.Decimal `db:"actual_cost"`

	RequiresApproval bool `db:"requires_approval"`

	RequestedBy string         `db:"requested_by"`
	ApprovedBy  sql.NullString `db:"approved_by"`
	CompletedBy sql.NullString `db:"completed_by"`

	RequestedDate sql.NullTime `db:"requested_date"`
	ScheduledDate sql.NullTime `db:"scheduled_date"`
	StartedDate   sql.NullTime `db:"started_date"`
	CompletedDate sql.NullTime `db:"completed_date"`

	AuditFields
}

// TransferItem is one persisted line of a transfer, keyed on
// (transfer_number, stock_sku).
type TransferItem struct {
	TransferNumber    string          `db:"transfer_number"`
	StockSKU          string          `db:"stock_sku"`
	QuantityRequested int64           `db:"quantity_requested"`
	QuantityShipped   int64           `db:"quantity_shipped"`
	QuantityReceived  int64           `db:"quantity_received"`
	QuantityDamaged   int64           `db:"quantity_damaged"`
	UnitCost          decimal.Decimal `db:"unit_cost"`
	Notes             string          `db:"notes"`
	AuditFields
}
