package domain

import "time"

// AlertType classifies what condition an alert rule watches for.
type AlertType string

const (
	AlertLowStock      AlertType = "low_stock"
	AlertOutOfStock    AlertType = "out_of_stock"
	AlertOverstock     AlertType = "overstock"
	AlertExpiringStock AlertType = "expiring_stock"
	AlertSlowMoving    AlertType = "slow_moving"
	AlertCostVariance  AlertType = "cost_variance"
)

// AlertSeverity levels, lowest to highest.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
	SeverityUrgent   AlertSeverity = "urgent"
)

// RuleCondition is one predicate of a rule's custom condition set, evaluated
// against a stock account snapshot. Field names match the snapshot's quantity
// fields ("available_stock", "current_stock", "reserved_stock",
// "minimum_stock", "reorder_point").
type RuleCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"` // "lt", "lte", "gt", "gte", "eq"
	Value    int64  `json:"value"`
}

// AlertRule is evaluator configuration. Rules are stateless with respect to
// stock; the only mutable rule state is LastTriggered, used for cooldown.
type AlertRule struct {
	RuleID      string        `json:"ruleID"` // UUID
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	AlertType   AlertType     `json:"alertType"`
	Severity    AlertSeverity `json:"severity"`
	IsActive    bool          `json:"isActive"`

	Conditions []RuleCondition `json:"conditions,omitempty"`

	AppliesToAllStocks bool            `json:"appliesToAllStocks"`
	StockCategories    []StockCategory `json:"stockCategories,omitempty"`
	SpecificSKUs       []string        `json:"specificSKUs,omitempty"`

	MaxAlertsPerHour int `json:"maxAlertsPerHour"`
	CooldownMinutes  int `json:"cooldownMinutes"`

	LastTriggered *time.Time `json:"lastTriggered,omitempty"`
	AuditFields
}

// Alert is one fired event. Created by the evaluator; only acknowledge and
// resolve actions mutate it afterwards, never the accounting core.
type Alert struct {
	AlertID  string        `json:"alertID"` // UUID
	RuleID   string        `json:"ruleID"`
	StockSKU string        `json:"stockSKU"`
	Type     AlertType     `json:"alertType"`
	Severity AlertSeverity `json:"severity"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`

	IsAcknowledged bool       `json:"isAcknowledged"`
	IsResolved     bool       `json:"isResolved"`
	AcknowledgedBy string     `json:"acknowledgedBy,omitempty"`
	ResolvedBy     string     `json:"resolvedBy,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`

	// Snapshot of the triggering quantities, for rendering without re-query.
	SnapshotCurrent   int64 `json:"snapshotCurrent"`
	SnapshotReserved  int64 `json:"snapshotReserved"`
	SnapshotAvailable int64 `json:"snapshotAvailable"`

	CreatedAt time.Time `json:"createdAt"`
}

// AgeHours is how long the alert has been open.
func (a *Alert) AgeHours(now time.Time) float64 {
	return now.Sub(a.CreatedAt).Hours()
}

// EffectiveSeverity escalates the stored severity as an unresolved alert ages.
// A warning older than a day renders as critical, older than three days as urgent.
func (a *Alert) EffectiveSeverity(now time.Time) AlertSeverity {
	if a.IsResolved {
		return a.Severity
	}
	age := a.AgeHours(now)
	switch {
	case age >= 72 && a.Severity != SeverityUrgent:
		return SeverityUrgent
	case age >= 24 && (a.Severity == SeverityInfo || a.Severity == SeverityWarning):
		return SeverityCritical
	}
	return a.Severity
}
