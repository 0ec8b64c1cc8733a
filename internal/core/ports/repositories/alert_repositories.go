package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
)

// AlertRuleRepository defines storage for evaluator configuration.
type AlertRuleRepository interface {
	// SaveRule persists a new alert rule.
	SaveRule(ctx context.Context, rule domain.AlertRule) error

	// UpdateRule updates an existing rule's configuration.
	UpdateRule(ctx context.Context, rule domain.AlertRule) error

	// FindRuleByID retrieves a rule by id.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.AlertRule, error)

	// ListRules retrieves all rules, active and inactive.
	ListRules(ctx context.Context) ([]domain.AlertRule, error)

	// ListActiveRules retrieves all active rules.
	ListActiveRules(ctx context.Context) ([]domain.AlertRule, error)

	// TouchRuleTriggered records that a rule fired at the given time.
	TouchRuleTriggered(ctx context.Context, ruleID string, triggeredAt time.Time) error
}

// AlertRepository defines storage for fired alerts.
type AlertRepository interface {
	// SaveAlert persists a new alert event.
	SaveAlert(ctx context.Context, alert domain.Alert) error

	// FindAlertByID retrieves an alert by id.
	FindAlertByID(ctx context.Context, alertID string) (*domain.Alert, error)

	// ListAlerts retrieves a paginated list, unresolved first, newest first.
	ListAlerts(ctx context.Context, includeResolved bool, limit int, offset int) ([]domain.Alert, int64, error)

	// CountRecentAlerts counts alerts created for a (rule, sku) pair since the
	// given time. Used to enforce max_alerts_per_hour.
	CountRecentAlerts(ctx context.Context, ruleID string, sku string, since time.Time) (int64, error)

	// FindLastAlertTime returns when the (rule, sku) pair last fired, or nil.
	FindLastAlertTime(ctx context.Context, ruleID string, sku string) (*time.Time, error)

	// SetAcknowledged marks an alert acknowledged by a user.
	SetAcknowledged(ctx context.Context, alertID string, userID string, at time.Time) error

	// SetResolved marks an alert resolved by a user.
	SetResolved(ctx context.Context, alertID string, userID string, at time.Time, notes string) error
}

// AlertRepositoryFacade combines rule and alert storage.
type AlertRepositoryFacade interface {
	AlertRuleRepository
	AlertRepository
}
