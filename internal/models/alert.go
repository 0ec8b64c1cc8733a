package models

import (
	"database/sql"
	"time"
)

// AlertRule is the persisted evaluator configuration. Conditions and scoping
// lists are stored as jsonb documents.
type AlertRule struct {
	RuleID      string `db:"rule_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	AlertType   string `db:"alert_type"`
	Severity    string `db:"severity"`
	IsActive    bool   `db:"is_active"`

	Conditions      []byte `db:"conditions"`       // jsonb
	StockCategories []byte `db:"stock_categories"` // jsonb
	SpecificSKUs    []byte `db:"specific_skus"`    // jsonb

	AppliesToAllStocks bool `db:"applies_to_all_stocks"`
	MaxAlertsPerHour   int  `db:"max_alerts_per_hour"`
	CooldownMinutes    int  `db:"cooldown_minutes"`

	LastTriggered sql.NullTime `db:"last_triggered"`
	AuditFields
}

// Alert is one persisted fired alert.
type Alert struct {
	AlertID  string `db:"alert_id"`
	RuleID   string `db:"rule_id"`
	StockSKU string `db:"stock_sku"`
	Type     string `db:"alert_type"`
	Severity string `db:"severity"`
	Title    string `db:"title"`
	Message  string `db:"message"`

	IsAcknowledged bool           `db:"is_acknowledged"`
	IsResolved     bool           `db:"is_resolved"`
	AcknowledgedBy sql.NullString `db:"acknowledged_by"`
	ResolvedBy     sql.NullString `db:"resolved_by"`
	AcknowledgedAt sql.NullTime   `db:"acknowledged_at"`
	ResolvedAt     sql.NullTime   `db:"resolved_at"`

	SnapshotCurrent   int64 `db:"snapshot_current"`
	SnapshotReserved  int64 `db:"snapshot_reserved"`
	SnapshotAvailable int64 `db:"snapshot_available"`

	CreatedAt time.Time `db:"created_at"`
}
