package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
)

// RuleConditionRequest is one threshold clause of an alert rule.
type RuleConditionRequest struct {
	Field    string `json:"field" binding:"required,oneof=current_stock reserved_stock available_stock minimum_stock reorder_point"`
	Operator string `json:"operator" binding:"required,oneof=lt lte gt gte eq"`
	Value    int64  `json:"value"`
}

// CreateAlertRuleRequest defines the data needed to create an alert rule.
type CreateAlertRuleRequest struct {
	Name               string                 `json:"name" binding:"required"`
	Description        string                 `json:"description"`
	AlertType          domain.AlertType       `json:"alertType" binding:"required,oneof=low_stock out_of_stock overstock expiring_stock slow_moving cost_variance"`
	Severity           domain.AlertSeverity   `json:"severity" binding:"required,oneof=info warning critical urgent"`
	Conditions         []RuleConditionRequest `json:"conditions" binding:"omitempty,dive"`
	AppliesToAllStocks bool                   `json:"appliesToAllStocks"`
	StockCategories    []domain.StockCategory `json:"stockCategories" binding:"omitempty,dive,oneof=raw_materials finished_goods work_in_progress supplies equipment other"`
	SpecificSKUs       []string               `json:"specificSKUs"`
	MaxAlertsPerHour   int                    `json:"maxAlertsPerHour" binding:"omitempty,min=1"`
	CooldownMinutes    int                    `json:"cooldownMinutes" binding:"omitempty,min=0"`
}

// UpdateAlertRuleRequest defines the data allowed for updating an alert rule.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAlertRuleRequest struct {
	Name             *string                `json:"name"`
	Description      *string                `json:"description"`
	Severity         *domain.AlertSeverity  `json:"severity" binding:"omitempty,oneof=info warning critical urgent"`
	IsActive         *bool                  `json:"isActive"`
	Conditions       []RuleConditionRequest `json:"conditions" binding:"omitempty,dive"`
	MaxAlertsPerHour *int                   `json:"maxAlertsPerHour" binding:"omitempty,min=1"`
	CooldownMinutes  *int                   `json:"cooldownMinutes" binding:"omitempty,min=0"`
}

// AlertRuleResponse defines the data returned for an alert rule.
type AlertRuleResponse struct {
	RuleID             string                 `json:"ruleID"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description,omitempty"`
	AlertType          domain.AlertType       `json:"alertType"`
	Severity           domain.AlertSeverity   `json:"severity"`
	IsActive           bool                   `json:"isActive"`
	Conditions         []domain.RuleCondition `json:"conditions"`
	AppliesToAllStocks bool                   `json:"appliesToAllStocks"`
	StockCategories    []domain.StockCategory `json:"stockCategories,omitempty"`
	SpecificSKUs       []string               `json:"specificSKUs,omitempty"`
	MaxAlertsPerHour   int                    `json:"maxAlertsPerHour"`
	CooldownMinutes    int                    `json:"cooldownMinutes"`
	LastTriggered      *time.Time             `json:"lastTriggered,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
	CreatedBy          string                 `json:"createdBy"`
}

// ToAlertRuleResponse converts a domain.AlertRule to AlertRuleResponse DTO.
func ToAlertRuleResponse(r *domain.AlertRule) AlertRuleResponse {
	return AlertRuleResponse{
		RuleID:             r.RuleID,
		Name:               r.Name,
		Description:        r.Description,
		AlertType:          r.AlertType,
		Severity:           r.Severity,
		IsActive:           r.IsActive,
		Conditions:         r.Conditions,
		AppliesToAllStocks: r.AppliesToAllStocks,
		StockCategories:    r.StockCategories,
		SpecificSKUs:       r.SpecificSKUs,
		MaxAlertsPerHour:   r.MaxAlertsPerHour,
		CooldownMinutes:    r.CooldownMinutes,
		LastTriggered:      r.LastTriggered,
		CreatedAt:          r.CreatedAt,
		CreatedBy:          r.CreatedBy,
	}
}

// ToListAlertRuleResponse converts a slice of domain.AlertRule to []AlertRuleResponse.
func ToListAlertRuleResponse(rules []domain.AlertRule) []AlertRuleResponse {
	res := make([]AlertRuleResponse, len(rules))
	for i, r := range rules {
		res[i] = ToAlertRuleResponse(&r)
	}
	return res
}

// AlertResponse defines the data returned for a raised alert.
type AlertResponse struct {
	AlertID           string               `json:"alertID"`
	RuleID            string               `json:"ruleID"`
	StockSKU          string               `json:"stockSKU"`
	Type              domain.AlertType     `json:"type"`
	Severity          domain.AlertSeverity `json:"severity"`
	EffectiveSeverity domain.AlertSeverity `json:"effectiveSeverity"`
	Title             string               `json:"title"`
	Message           string               `json:"message"`
	IsAcknowledged    bool                 `json:"isAcknowledged"`
	IsResolved        bool                 `json:"isResolved"`
	AcknowledgedBy    string               `json:"acknowledgedBy,omitempty"`
	ResolvedBy        string               `json:"resolvedBy,omitempty"`
	AcknowledgedAt    *time.Time           `json:"acknowledgedAt,omitempty"`
	ResolvedAt        *time.Time           `json:"resolvedAt,omitempty"`
	SnapshotCurrent   int64                `json:"snapshotCurrent"`
	SnapshotReserved  int64                `json:"snapshotReserved"`
	SnapshotAvailable int64                `json:"snapshotAvailable"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// ToAlertResponse converts a domain.Alert to AlertResponse DTO. The effective
// severity is computed against now so stale unresolved alerts surface as
// escalated.
func ToAlertResponse(a *domain.Alert, now time.Time) AlertResponse {
	return AlertResponse{
		AlertID:           a.AlertID,
		RuleID:            a.RuleID,
		StockSKU:          a.StockSKU,
		Type:              a.Type,
		Severity:          a.Severity,
		EffectiveSeverity: a.EffectiveSeverity(now),
		Title:             a.Title,
		Message:           a.Message,
		IsAcknowledged:    a.IsAcknowledged,
		IsResolved:        a.IsResolved,
		AcknowledgedBy:    a.AcknowledgedBy,
		ResolvedBy:        a.ResolvedBy,
		AcknowledgedAt:    a.AcknowledgedAt,
		ResolvedAt:        a.ResolvedAt,
		SnapshotCurrent:   a.SnapshotCurrent,
		SnapshotReserved:  a.SnapshotReserved,
		SnapshotAvailable: a.SnapshotAvailable,
		CreatedAt:         a.CreatedAt,
	}
}

// ListAlertsParams defines query parameters for listing alerts.
type ListAlertsParams struct {
	Limit           int  `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset          int  `form:"offset,default=0" binding:"omitempty,min=0"`
	IncludeResolved bool `form:"includeResolved"`
}

// ListAlertsResponse wraps the list of alerts with the total match count.
type ListAlertsResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
