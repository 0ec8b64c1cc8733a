package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/core/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// capturingSink records every alert published to it.
type capturingSink struct {
	published []domain.Alert
}

func (c *capturingSink) Publish(_ context.Context, alert domain.Alert) {
	c.published = append(c.published, alert)
}

// --- Test Suite Setup ---

type AlertServiceTestSuite struct {
	suite.Suite
	mockAlertRepo *MockAlertRepository
	mockStockRepo *MockStockRepository
	sink          *capturingSink
	service       portssvc.AlertSvcFacade
	now           time.Time
}

func (suite *AlertServiceTestSuite) SetupTest() {
	suite.mockAlertRepo = new(MockAlertRepository)
	suite.mockStockRepo = new(MockStockRepository)
	suite.sink = &capturingSink{}
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewAlertService(
		suite.mockAlertRepo,
		suite.mockStockRepo,
		services.WithNotificationSink(suite.sink),
		services.WithAlertClock(func() time.Time { return suite.now }),
	)
}

func (suite *AlertServiceTestSuite) lowStockRule() domain.AlertRule {
	return domain.AlertRule{
		RuleID:             "rule-1",
		Name:               "Low stock",
		AlertType:          domain.AlertLowStock,
		Severity:           domain.SeverityWarning,
		IsActive:           true,
		AppliesToAllStocks: true,
		MaxAlertsPerHour:   4,
	}
}

func (suite *AlertServiceTestSuite) expectThrottleOpen(ruleID, sku string) {
	suite.mockAlertRepo.On("CountRecentAlerts", mock.Anything, ruleID, sku, suite.now.Add(-time.Hour)).Return(int64(0), nil).Once()
}

// --- Rule Configuration Tests ---

func (suite *AlertServiceTestSuite) TestCreateRule_RequiresScoping() {
	ctx := context.Background()
	req := dto.CreateAlertRuleRequest{
		Name:      "Orphan rule",
		AlertType: domain.AlertLowStock,
		Severity:  domain.SeverityWarning,
	}

	rule, err := suite.service.CreateRule(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(rule)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestCreateRule_DefaultsRateLimit() {
	ctx := context.Background()
	req := dto.CreateAlertRuleRequest{
		Name:               "Low stock everywhere",
		AlertType:          domain.AlertLowStock,
		Severity:           domain.SeverityWarning,
		AppliesToAllStocks: true,
	}
	suite.mockAlertRepo.On("SaveRule", ctx, mock.AnythingOfType("domain.AlertRule")).Return(nil).Once()

	rule, err := suite.service.CreateRule(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(rule.RuleID)
	suite.True(rule.IsActive)
	suite.Equal(4, rule.MaxAlertsPerHour)
	suite.Equal("user-1", rule.CreatedBy)
}

func (suite *AlertServiceTestSuite) TestUpdateRule_Deactivate() {
	ctx := context.Background()
	existing := suite.lowStockRule()
	inactive := false
	suite.mockAlertRepo.On("FindRuleByID", ctx, "rule-1").Return(&existing, nil).Once()
	suite.mockAlertRepo.On("UpdateRule", ctx, mock.MatchedBy(func(r domain.AlertRule) bool {
		return !r.IsActive && r.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	rule, err := suite.service.UpdateRule(ctx, "rule-1", dto.UpdateAlertRuleRequest{IsActive: &inactive}, "user-2")

	suite.Require().NoError(err)
	suite.False(rule.IsActive)
}

// --- Evaluator Tests ---

func (suite *AlertServiceTestSuite) TestEvaluateSKU_LowStockFires() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 5, 2)
	stock.MinimumStock = 10 // available 3 <= 10

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{suite.lowStockRule()}, nil).Once()
	suite.expectThrottleOpen("rule-1", "SKU-001")
	suite.mockAlertRepo.On("SaveAlert", ctx, mock.AnythingOfType("domain.Alert")).Return(nil).Once()
	suite.mockAlertRepo.On("TouchRuleTriggered", ctx, "rule-1", suite.now).Return(nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 1)
	suite.Equal("SKU-001", alerts[0].StockSKU)
	suite.Equal(domain.AlertLowStock, alerts[0].Type)
	suite.Equal(int64(5), alerts[0].SnapshotCurrent)
	suite.Equal(int64(2), alerts[0].SnapshotReserved)
	suite.Equal(int64(3), alerts[0].SnapshotAvailable)
	suite.Require().Len(suite.sink.published, 1)
	suite.Equal(alerts[0].AlertID, suite.sink.published[0].AlertID)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_HealthyStockDoesNotFire() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 100, 10)
	stock.MinimumStock = 10

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{suite.lowStockRule()}, nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.Empty(suite.sink.published)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "SaveAlert", mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_CategoryScopeMismatch() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0) // out of stock, but rule scoped elsewhere
	rule := suite.lowStockRule()
	rule.AppliesToAllStocks = false
	rule.StockCategories = []domain.StockCategory{domain.CategoryRawMaterials}

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_ConditionsAreConjunctive() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 8, 0)
	rule := suite.lowStockRule()
	rule.Conditions = []domain.RuleCondition{
		{Field: "current_stock", Operator: "lt", Value: 10},   // holds: 8 < 10
		{Field: "reserved_stock", Operator: "gt", Value: 100}, // fails: 0 > 100
	}

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "SaveAlert", mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_CooldownSuppresses() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0)
	rule := suite.lowStockRule()
	rule.CooldownMinutes = 30
	fired := suite.now.Add(-10 * time.Minute)

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()
	suite.mockAlertRepo.On("FindLastAlertTime", ctx, "rule-1", "SKU-001").Return(&fired, nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "CountRecentAlerts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "SaveAlert", mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_CooldownElapsedFires() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0)
	rule := suite.lowStockRule()
	rule.CooldownMinutes = 30
	fired := suite.now.Add(-45 * time.Minute)

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()
	suite.mockAlertRepo.On("FindLastAlertTime", ctx, "rule-1", "SKU-001").Return(&fired, nil).Once()
	suite.mockAlertRepo.On("CountRecentAlerts", ctx, "rule-1", "SKU-001", suite.now.Add(-time.Hour)).Return(int64(1), nil).Once()
	suite.mockAlertRepo.On("SaveAlert", ctx, mock.AnythingOfType("domain.Alert")).Return(nil).Once()
	suite.mockAlertRepo.On("TouchRuleTriggered", ctx, "rule-1", suite.now).Return(nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Len(alerts, 1)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_HourlyRateLimit() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0)
	rule := suite.lowStockRule()

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()
	suite.mockAlertRepo.On("CountRecentAlerts", ctx, "rule-1", "SKU-001", suite.now.Add(-time.Hour)).Return(int64(4), nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.mockAlertRepo.AssertNotCalled(suite.T(), "SaveAlert", mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_TypeWithoutPredicateNeedsConditions() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0)
	rule := suite.lowStockRule()
	rule.AlertType = domain.AlertSlowMoving

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{rule}, nil).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
}

func (suite *AlertServiceTestSuite) TestEvaluateSKU_SaveFailureSkipsSink() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 0, 0)

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(stock, nil).Once()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{suite.lowStockRule()}, nil).Once()
	suite.expectThrottleOpen("rule-1", "SKU-001")
	suite.mockAlertRepo.On("SaveAlert", ctx, mock.AnythingOfType("domain.Alert")).Return(errors.New("connection reset")).Once()

	alerts, err := suite.service.EvaluateSKU(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.Empty(suite.sink.published)
}

func (suite *AlertServiceTestSuite) TestEvaluateAll_SweepsActiveStocks() {
	ctx := context.Background()
	low := activeStock("SKU-001", 0, 0)
	healthy := activeStock("SKU-002", 100, 0)

	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{suite.lowStockRule()}, nil).Once()
	suite.mockStockRepo.On("ListStocks", ctx, mock.Anything, 200, 0).Return([]domain.StockAccount{*low, *healthy}, int64(2), nil).Once()
	suite.expectThrottleOpen("rule-1", "SKU-001")
	suite.mockAlertRepo.On("SaveAlert", ctx, mock.AnythingOfType("domain.Alert")).Return(nil).Once()
	suite.mockAlertRepo.On("TouchRuleTriggered", ctx, "rule-1", suite.now).Return(nil).Once()

	alerts, err := suite.service.EvaluateAll(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 1)
	suite.Equal("SKU-001", alerts[0].StockSKU)
}

func (suite *AlertServiceTestSuite) TestEvaluateAll_NoActiveRules() {
	ctx := context.Background()
	suite.mockAlertRepo.On("ListActiveRules", ctx).Return([]domain.AlertRule{}, nil).Once()

	alerts, err := suite.service.EvaluateAll(ctx)

	suite.Require().NoError(err)
	suite.Empty(alerts)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "ListStocks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Lifecycle Tests ---

func (suite *AlertServiceTestSuite) TestAcknowledgeAlert() {
	ctx := context.Background()
	acked := &domain.Alert{AlertID: "alert-1", IsAcknowledged: true, AcknowledgedBy: "user-1"}
	suite.mockAlertRepo.On("SetAcknowledged", ctx, "alert-1", "user-1", suite.now).Return(nil).Once()
	suite.mockAlertRepo.On("FindAlertByID", ctx, "alert-1").Return(acked, nil).Once()

	alert, err := suite.service.AcknowledgeAlert(ctx, "alert-1", "user-1")

	suite.Require().NoError(err)
	suite.True(alert.IsAcknowledged)
}

func (suite *AlertServiceTestSuite) TestResolveAlert_NotFound() {
	ctx := context.Background()
	suite.mockAlertRepo.On("SetResolved", ctx, "alert-404", "user-1", suite.now, "").Return(apperrors.ErrNotFound).Once()

	alert, err := suite.service.ResolveAlert(ctx, "alert-404", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(alert)
}

func TestAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AlertServiceTestSuite))
}
