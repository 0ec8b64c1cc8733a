package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// NotificationSink receives alerts the evaluator decided to raise. Delivery
// failures must not block or roll back alert persistence.
type NotificationSink interface {
	Publish(ctx context.Context, alert domain.Alert)
}

// AlertRuleSvc manages alert rule configuration.
type AlertRuleSvc interface {
	CreateRule(ctx context.Context, req dto.CreateAlertRuleRequest, creatorUserID string) (*domain.AlertRule, error)
	GetRule(ctx context.Context, ruleID string) (*domain.AlertRule, error)
	ListRules(ctx context.Context) ([]domain.AlertRule, error)
	UpdateRule(ctx context.Context, ruleID string, req dto.UpdateAlertRuleRequest, userID string) (*domain.AlertRule, error)
}

// AlertEvaluatorSvc evaluates rules against stock accounts, subject to each
// rule's cooldown and hourly rate limit.
type AlertEvaluatorSvc interface {
	// EvaluateSKU evaluates all active applicable rules against one stock
	// account, returning the alerts raised.
	EvaluateSKU(ctx context.Context, sku string) ([]domain.Alert, error)

	// EvaluateAll sweeps every active stock account.
	EvaluateAll(ctx context.Context) ([]domain.Alert, error)
}

// AlertLifecycleSvc covers the acknowledge/resolve workflow on raised alerts.
type AlertLifecycleSvc interface {
	GetAlert(ctx context.Context, alertID string) (*domain.Alert, error)
	ListAlerts(ctx context.Context, params dto.ListAlertsParams) (*dto.ListAlertsResponse, error)
	AcknowledgeAlert(ctx context.Context, alertID string, userID string) (*domain.Alert, error)
	ResolveAlert(ctx context.Context, alertID string, userID string) (*domain.Alert, error)
}

// AlertSvcFacade combines all alert-related service interfaces.
type AlertSvcFacade interface {
	AlertRuleSvc
	AlertEvaluatorSvc
	AlertLifecycleSvc
}
