package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// alertHandler handles HTTP requests for alert rules and raised alerts.
type alertHandler struct {
	alertService portssvc.AlertSvcFacade
}

func newAlertHandler(alertService portssvc.AlertSvcFacade) *alertHandler {
	return &alertHandler{alertService: alertService}
}

// registerAlertRoutes registers routes related to alert rules and alerts.
func registerAlertRoutes(rg *gin.RouterGroup, alertService portssvc.AlertSvcFacade, userService portssvc.UserSvcFacade) {
	h := newAlertHandler(alertService)
	manage := middleware.RequireCapability(userService, domain.CapAlertManage)
	read := middleware.RequireCapability(userService, domain.CapStockRead)

	rules := rg.Group("/alert-rules")
	{
		rules.POST("", manage, h.createRule)
		rules.GET("", read, h.listRules)
		rules.GET("/:id", read, h.getRule)
		rules.PUT("/:id", manage, h.updateRule)
	}

	alerts := rg.Group("/alerts")
	{
		alerts.GET("", read, h.listAlerts)
		alerts.GET("/:id", read, h.getAlert)
		alerts.POST("/evaluate", manage, h.evaluateAll)
		alerts.POST("/:id/acknowledge", manage, h.acknowledgeAlert)
		alerts.POST("/:id/resolve", manage, h.resolveAlert)
	}
}

func respondAlertError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Alert operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createRule godoc
// @Summary Create an alert rule
// @Tags alerts
// @Accept json
// @Produce json
// @Param rule body dto.CreateAlertRuleRequest true "Rule details"
// @Success 201 {object} dto.AlertRuleResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /alert-rules [post]
func (h *alertHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rule, err := h.alertService.CreateRule(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondAlertError(c, logger, err, "create alert rule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAlertRuleResponse(rule))
}

// getRule godoc
// @Summary Get an alert rule by id
// @Tags alerts
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} dto.AlertRuleResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /alert-rules/{id} [get]
func (h *alertHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rule, err := h.alertService.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAlertError(c, logger, err, "retrieve alert rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertRuleResponse(rule))
}

// listRules godoc
// @Summary List alert rules
// @Tags alerts
// @Produce json
// @Success 200 {array} dto.AlertRuleResponse
// @Security BearerAuth
// @Router /alert-rules [get]
func (h *alertHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rules, err := h.alertService.ListRules(c.Request.Context())
	if err != nil {
		respondAlertError(c, logger, err, "list alert rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAlertRuleResponse(rules))
}

// updateRule godoc
// @Summary Update an alert rule
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body dto.UpdateAlertRuleRequest true "Fields to update"
// @Success 200 {object} dto.AlertRuleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /alert-rules/{id} [put]
func (h *alertHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateAlertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rule, err := h.alertService.UpdateRule(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondAlertError(c, logger, err, "update alert rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertRuleResponse(rule))
}

// listAlerts godoc
// @Summary List raised alerts
// @Description Unresolved first, newest first. Effective severity escalates with age.
// @Tags alerts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param includeResolved query bool false "Include resolved alerts"
// @Success 200 {object} dto.ListAlertsResponse
// @Security BearerAuth
// @Router /alerts [get]
func (h *alertHandler) listAlerts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAlertsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.alertService.ListAlerts(c.Request.Context(), params)
	if err != nil {
		respondAlertError(c, logger, err, "list alerts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getAlert godoc
// @Summary Get an alert by id
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} dto.AlertResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts/{id} [get]
func (h *alertHandler) getAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	alert, err := h.alertService.GetAlert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAlertError(c, logger, err, "retrieve alert")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertResponse(alert, time.Now()))
}

// evaluateAll godoc
// @Summary Evaluate all active rules against all active stocks
// @Description Manual trigger for the evaluation sweep; returns the alerts raised.
// @Tags alerts
// @Produce json
// @Success 200 {array} dto.AlertResponse
// @Security BearerAuth
// @Router /alerts/evaluate [post]
func (h *alertHandler) evaluateAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	raised, err := h.alertService.EvaluateAll(c.Request.Context())
	if err != nil {
		respondAlertError(c, logger, err, "evaluate alerts")
		return
	}

	now := time.Now()
	responses := make([]dto.AlertResponse, len(raised))
	for i := range raised {
		responses[i] = dto.ToAlertResponse(&raised[i], now)
	}
	c.JSON(http.StatusOK, responses)
}

// acknowledgeAlert godoc
// @Summary Acknowledge an alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} dto.AlertResponse
// @Failure 400 {object} ErrorResponse "Already acknowledged"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts/{id}/acknowledge [post]
func (h *alertHandler) acknowledgeAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	alert, err := h.alertService.AcknowledgeAlert(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondAlertError(c, logger, err, "acknowledge alert")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertResponse(alert, time.Now()))
}

// resolveAlert godoc
// @Summary Resolve an alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} dto.AlertResponse
// @Failure 400 {object} ErrorResponse "Already resolved"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts/{id}/resolve [post]
func (h *alertHandler) resolveAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	alert, err := h.alertService.ResolveAlert(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondAlertError(c, logger, err, "resolve alert")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertResponse(alert, time.Now()))
}
