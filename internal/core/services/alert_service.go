package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

const (
	defaultMaxAlertsPerHour = 4
	evaluateAllPageSize     = 200
)

// alertService owns rule configuration, the evaluator and the
// acknowledge/resolve workflow. The evaluator only reads stock accounts; it
// never touches the accounting core.
type alertService struct {
	BaseService
	alertRepo portsrepo.AlertRepositoryFacade
	stockRepo portsrepo.StockReader
	sink      portssvc.NotificationSink
	now       func() time.Time
}

// AlertServiceOption configures optional dependencies of the alert service.
type AlertServiceOption func(*alertService)

// WithNotificationSink routes raised alerts to the given sink.
func WithNotificationSink(sink portssvc.NotificationSink) AlertServiceOption {
	return func(s *alertService) {
		s.sink = sink
	}
}

// WithAlertClock overrides the time source, mainly for tests.
func WithAlertClock(now func() time.Time) AlertServiceOption {
	return func(s *alertService) {
		s.now = now
	}
}

// NewAlertService creates a new alert service.
func NewAlertService(alertRepo portsrepo.AlertRepositoryFacade, stockRepo portsrepo.StockReader, options ...AlertServiceOption) portssvc.AlertSvcFacade {
	svc := &alertService{
		alertRepo: alertRepo,
		stockRepo: stockRepo,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure alertService implements the portssvc.AlertSvcFacade interface
var _ portssvc.AlertSvcFacade = (*alertService)(nil)

func (s *alertService) CreateRule(ctx context.Context, req dto.CreateAlertRuleRequest, creatorUserID string) (*domain.AlertRule, error) {
	if !req.AppliesToAllStocks && len(req.StockCategories) == 0 && len(req.SpecificSKUs) == 0 {
		return nil, fmt.Errorf("%w: rule must apply to all stocks, or name categories or SKUs", apperrors.ErrValidation)
	}

	maxPerHour := req.MaxAlertsPerHour
	if maxPerHour <= 0 {
		maxPerHour = defaultMaxAlertsPerHour
	}

	conditions := make([]domain.RuleCondition, len(req.Conditions))
	for i, c := range req.Conditions {
		conditions[i] = domain.RuleCondition{Field: c.Field, Operator: c.Operator, Value: c.Value}
	}

	now := s.now()
	rule := domain.AlertRule{
		RuleID:             uuid.NewString(),
		Name:               req.Name,
		Description:        req.Description,
		AlertType:          req.AlertType,
		Severity:           req.Severity,
		IsActive:           true,
		Conditions:         conditions,
		AppliesToAllStocks: req.AppliesToAllStocks,
		StockCategories:    req.StockCategories,
		SpecificSKUs:       req.SpecificSKUs,
		MaxAlertsPerHour:   maxPerHour,
		CooldownMinutes:    req.CooldownMinutes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.alertRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "failed to save alert rule", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create alert rule: %w", err)
	}

	s.LogInfo(ctx, "alert rule created", slog.String("rule_id", rule.RuleID), slog.String("alert_type", string(rule.AlertType)))
	return &rule, nil
}

func (s *alertService) GetRule(ctx context.Context, ruleID string) (*domain.AlertRule, error) {
	rule, err := s.alertRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert rule %s: %w", ruleID, err)
	}
	return rule, nil
}

func (s *alertService) ListRules(ctx context.Context) ([]domain.AlertRule, error) {
	rules, err := s.alertRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert rules: %w", err)
	}
	return rules, nil
}

func (s *alertService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateAlertRuleRequest, userID string) (*domain.AlertRule, error) {
	rule, err := s.alertRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find alert rule %s for update: %w", ruleID, err)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Severity != nil {
		rule.Severity = *req.Severity
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Conditions != nil {
		conditions := make([]domain.RuleCondition, len(req.Conditions))
		for i, c := range req.Conditions {
			conditions[i] = domain.RuleCondition{Field: c.Field, Operator: c.Operator, Value: c.Value}
		}
		rule.Conditions = conditions
	}
	if req.MaxAlertsPerHour != nil {
		rule.MaxAlertsPerHour = *req.MaxAlertsPerHour
	}
	if req.CooldownMinutes != nil {
		rule.CooldownMinutes = *req.CooldownMinutes
	}

	rule.LastUpdatedAt = s.now()
	rule.LastUpdatedBy = userID

	if err := s.alertRepo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "failed to update alert rule", slog.String("rule_id", ruleID))
		return nil, fmt.Errorf("failed to update alert rule %s: %w", ruleID, err)
	}
	return rule, nil
}

func (s *alertService) EvaluateSKU(ctx context.Context, sku string) ([]domain.Alert, error) {
	stock, err := s.stockRepo.FindStockBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s for evaluation: %w", sku, err)
	}
	rules, err := s.alertRepo.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}
	return s.evaluateStock(ctx, rules, stock), nil
}

func (s *alertService) EvaluateAll(ctx context.Context) ([]domain.Alert, error) {
	rules, err := s.alertRepo.ListActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	var raised []domain.Alert
	filter := portsrepo.StockListFilter{Status: domain.StockActive}
	for offset := 0; ; offset += evaluateAllPageSize {
		stocks, _, err := s.stockRepo.ListStocks(ctx, filter, evaluateAllPageSize, offset)
		if err != nil {
			return raised, fmt.Errorf("failed to list stocks for evaluation: %w", err)
		}
		for i := range stocks {
			raised = append(raised, s.evaluateStock(ctx, rules, &stocks[i])...)
		}
		if len(stocks) < evaluateAllPageSize {
			break
		}
	}

	s.LogInfo(ctx, "alert sweep finished", slog.Int("rules", len(rules)), slog.Int("alerts_raised", len(raised)))
	return raised, nil
}

// evaluateStock runs every rule against one stock snapshot. Persistence or
// throttle failures on one rule are logged and never stop the other rules.
func (s *alertService) evaluateStock(ctx context.Context, rules []domain.AlertRule, stock *domain.StockAccount) []domain.Alert {
	var raised []domain.Alert
	for i := range rules {
		rule := &rules[i]
		if !s.ruleAppliesTo(rule, stock) {
			continue
		}
		if !s.ruleTriggered(rule, stock) {
			continue
		}

		allowed, err := s.throttleAllows(ctx, rule, stock.SKU)
		if err != nil {
			s.LogError(ctx, err, "failed to check alert throttle", slog.String("rule_id", rule.RuleID), slog.String("sku", stock.SKU))
			continue
		}
		if !allowed {
			continue
		}

		alert := s.buildAlert(rule, stock)
		if err := s.alertRepo.SaveAlert(ctx, alert); err != nil {
			s.LogError(ctx, err, "failed to save alert", slog.String("rule_id", rule.RuleID), slog.String("sku", stock.SKU))
			continue
		}
		if err := s.alertRepo.TouchRuleTriggered(ctx, rule.RuleID, alert.CreatedAt); err != nil {
			s.LogError(ctx, err, "failed to record rule trigger time", slog.String("rule_id", rule.RuleID))
		}
		if s.sink != nil {
			s.sink.Publish(ctx, alert)
		}
		raised = append(raised, alert)
	}
	return raised
}

func (s *alertService) ruleAppliesTo(rule *domain.AlertRule, stock *domain.StockAccount) bool {
	if rule.AppliesToAllStocks {
		return true
	}
	for _, sku := range rule.SpecificSKUs {
		if sku == stock.SKU {
			return true
		}
	}
	for _, category := range rule.StockCategories {
		if category == stock.Category {
			return true
		}
	}
	return false
}

// ruleTriggered evaluates the rule's condition set (AND semantics). Rules
// without custom conditions fall back to the built-in predicate of their type.
func (s *alertService) ruleTriggered(rule *domain.AlertRule, stock *domain.StockAccount) bool {
	if len(rule.Conditions) > 0 {
		for _, condition := range rule.Conditions {
			if !s.conditionHolds(condition, stock) {
				return false
			}
		}
		return true
	}

	switch rule.AlertType {
	case domain.AlertLowStock:
		return stock.IsLowStock()
	case domain.AlertOutOfStock:
		return stock.IsOutOfStock()
	case domain.AlertOverstock:
		return stock.MaximumStock > 0 && stock.CurrentStock >= stock.MaximumStock
	default:
		// The remaining types have no built-in predicate; they only fire
		// through explicit conditions.
		return false
	}
}

func (s *alertService) conditionHolds(condition domain.RuleCondition, stock *domain.StockAccount) bool {
	var fieldValue int64
	switch condition.Field {
	case "current_stock":
		fieldValue = stock.CurrentStock
	case "reserved_stock":
		fieldValue = stock.ReservedStock
	case "available_stock":
		fieldValue = stock.AvailableStock
	case "minimum_stock":
		fieldValue = stock.MinimumStock
	case "reorder_point":
		fieldValue = stock.ReorderPoint
	default:
		return false
	}

	switch condition.Operator {
	case "lt":
		return fieldValue < condition.Value
	case "lte":
		return fieldValue <= condition.Value
	case "gt":
		return fieldValue > condition.Value
	case "gte":
		return fieldValue >= condition.Value
	case "eq":
		return fieldValue == condition.Value
	default:
		return false
	}
}

// throttleAllows enforces the per-(rule, SKU) cooldown and hourly rate limit.
func (s *alertService) throttleAllows(ctx context.Context, rule *domain.AlertRule, sku string) (bool, error) {
	now := s.now()
	if rule.CooldownMinutes > 0 {
		lastFired, err := s.alertRepo.FindLastAlertTime(ctx, rule.RuleID, sku)
		if err != nil {
			return false, err
		}
		if lastFired != nil && now.Sub(*lastFired) < time.Duration(rule.CooldownMinutes)*time.Minute {
			return false, nil
		}
	}
	if rule.MaxAlertsPerHour > 0 {
		recent, err := s.alertRepo.CountRecentAlerts(ctx, rule.RuleID, sku, now.Add(-time.Hour))
		if err != nil {
			return false, err
		}
		if recent >= int64(rule.MaxAlertsPerHour) {
			return false, nil
		}
	}
	return true, nil
}

func (s *alertService) buildAlert(rule *domain.AlertRule, stock *domain.StockAccount) domain.Alert {
	return domain.Alert{
		AlertID:  uuid.NewString(),
		RuleID:   rule.RuleID,
		StockSKU: stock.SKU,
		Type:     rule.AlertType,
		Severity: rule.Severity,
		Title:    fmt.Sprintf("%s: %s", rule.Name, stock.SKU),
		Message: fmt.Sprintf("%s (%s) triggered %s: current %d, reserved %d, available %d",
			stock.Name, stock.SKU, rule.AlertType, stock.CurrentStock, stock.ReservedStock, stock.AvailableStock),
		SnapshotCurrent:   stock.CurrentStock,
		SnapshotReserved:  stock.ReservedStock,
		SnapshotAvailable: stock.AvailableStock,
		CreatedAt:         s.now(),
	}
}

func (s *alertService) GetAlert(ctx context.Context, alertID string) (*domain.Alert, error) {
	alert, err := s.alertRepo.FindAlertByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert %s: %w", alertID, err)
	}
	return alert, nil
}

func (s *alertService) ListAlerts(ctx context.Context, params dto.ListAlertsParams) (*dto.ListAlertsResponse, error) {
	alerts, total, err := s.alertRepo.ListAlerts(ctx, params.IncludeResolved, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	now := s.now()
	responses := make([]dto.AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = dto.ToAlertResponse(&alerts[i], now)
	}
	return &dto.ListAlertsResponse{
		Alerts: responses,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

func (s *alertService) AcknowledgeAlert(ctx context.Context, alertID string, userID string) (*domain.Alert, error) {
	if err := s.alertRepo.SetAcknowledged(ctx, alertID, userID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert %s: %w", alertID, err)
	}
	s.LogInfo(ctx, "alert acknowledged", slog.String("alert_id", alertID), slog.String("user_id", userID))
	return s.alertRepo.FindAlertByID(ctx, alertID)
}

func (s *alertService) ResolveAlert(ctx context.Context, alertID string, userID string) (*domain.Alert, error) {
	if err := s.alertRepo.SetResolved(ctx, alertID, userID, s.now(), ""); err != nil {
		return nil, fmt.Errorf("failed to resolve alert %s: %w", alertID, err)
	}
	s.LogInfo(ctx, "alert resolved", slog.String("alert_id", alertID), slog.String("user_id", userID))
	return s.alertRepo.FindAlertByID(ctx, alertID)
}
