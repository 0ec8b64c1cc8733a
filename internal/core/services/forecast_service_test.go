package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/core/services"
)

// stubProvider returns a canned daily series and records what it was asked for.
type stubProvider struct {
	points      []domain.DemandPoint
	err         error
	lastSKU     string
	lastHorizon int
	lastHistory []domain.MovementEntry
}

func (p *stubProvider) ForecastDemand(_ context.Context, sku string, history []domain.MovementEntry, horizonDays int) ([]domain.DemandPoint, error) {
	p.lastSKU = sku
	p.lastHorizon = horizonDays
	p.lastHistory = history
	return p.points, p.err
}

// --- Test Suite Setup ---

type ForecastServiceTestSuite struct {
	suite.Suite
	mockStockRepo     *MockStockRepository
	mockMovementRepo  *MockMovementRepository
	mockReportingRepo *MockReportingRepository
	provider          *stubProvider
	service           portssvc.ForecastSvcFacade
	now               time.Time
}

func (suite *ForecastServiceTestSuite) SetupTest() {
	suite.mockStockRepo = new(MockStockRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.provider = &stubProvider{}
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewForecastService(
		suite.mockStockRepo,
		suite.mockMovementRepo,
		suite.mockReportingRepo,
		suite.provider,
		services.WithForecastClock(func() time.Time { return suite.now }),
	)
}

func (suite *ForecastServiceTestSuite) historySince() time.Time {
	return suite.now.AddDate(0, 0, -90)
}

func outboundEntry(sku string, delta int64) domain.MovementEntry {
	return domain.MovementEntry{
		StockSKU:      sku,
		MovementType:  domain.MovementOutbound,
		Quantity:      -delta,
		QuantityDelta: delta,
	}
}

// --- Forecast Tests ---

func (suite *ForecastServiceTestSuite) TestForecastStock_DefaultHorizon() {
	ctx := context.Background()
	suite.provider.points = []domain.DemandPoint{
		{Date: suite.now, PredictedQty: 3, Confidence: 0.8},
		{Date: suite.now.AddDate(0, 0, 1), PredictedQty: 6, Confidence: 0.8},
	}
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(activeStock("SKU-001", 50, 0), nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -9)}, (*string)(nil), nil).Once()

	res, err := suite.service.ForecastStock(ctx, "SKU-001", 0)

	suite.Require().NoError(err)
	suite.Equal(30, res.HorizonDays)
	suite.Equal(30, suite.provider.lastHorizon)
	suite.Len(suite.provider.lastHistory, 1)
	suite.InDelta(9.0/30.0, res.AvgDailyDemand, 1e-9)
	suite.Len(res.Points, 2)
}

func (suite *ForecastServiceTestSuite) TestForecastStock_HorizonTooLong() {
	ctx := context.Background()

	res, err := suite.service.ForecastStock(ctx, "SKU-001", 400)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(res)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "FindStockBySKU", mock.Anything, mock.Anything)
}

func (suite *ForecastServiceTestSuite) TestForecastStock_UnknownSKU() {
	ctx := context.Background()
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-404").Return(nil, apperrors.ErrNotFound).Once()

	res, err := suite.service.ForecastStock(ctx, "SKU-404", 30)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(res)
}

func (suite *ForecastServiceTestSuite) TestForecastStock_PagesThroughHistory() {
	ctx := context.Background()
	token := "page-2"
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(activeStock("SKU-001", 50, 0), nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -5)}, &token, nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, &token).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -7)}, (*string)(nil), nil).Once()

	_, err := suite.service.ForecastStock(ctx, "SKU-001", 30)

	suite.Require().NoError(err)
	suite.Len(suite.provider.lastHistory, 2)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

// --- Reorder Recommendation Tests ---

func (suite *ForecastServiceTestSuite) TestReorderRecommendations_DemandDrivenQuantity() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 5, 0)
	stock.ReorderPoint = 20
	stock.ReorderQuantity = 10
	stock.LeadTimeDays = 7
	stock.UnitCost = decimal.NewFromInt(5)

	suite.mockReportingRepo.On("FindStocksBelowReorderPoint", ctx, 20).Return([]domain.StockAccount{*stock}, nil).Once()
	// 180 units out over 90 days: 2/day. 2 * 7 * 1.5 = 21 > reorder quantity 10.
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -180)}, (*string)(nil), nil).Once()

	recs, err := suite.service.ReorderRecommendations(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(recs, 1)
	suite.Equal(int64(21), recs[0].RecommendedQuantity)
	suite.InDelta(2.0, recs[0].AvgDailyDemand, 1e-9)
	suite.InDelta(0.75, recs[0].UrgencyScore, 1e-9) // 1 - 5/20
	suite.True(recs[0].EstimatedCost.Equal(decimal.NewFromInt(105)))
}

func (suite *ForecastServiceTestSuite) TestReorderRecommendations_ConfiguredQuantityWins() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 5, 0)
	stock.ReorderPoint = 20
	stock.ReorderQuantity = 50
	stock.LeadTimeDays = 7

	suite.mockReportingRepo.On("FindStocksBelowReorderPoint", ctx, 20).Return([]domain.StockAccount{*stock}, nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -90)}, (*string)(nil), nil).Once()

	recs, err := suite.service.ReorderRecommendations(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(recs, 1)
	suite.Equal(int64(50), recs[0].RecommendedQuantity)
}

func (suite *ForecastServiceTestSuite) TestReorderRecommendations_MissingLeadTimeTreatedAsOneDay() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 5, 0)
	stock.ReorderPoint = 20
	stock.LeadTimeDays = 0

	suite.mockReportingRepo.On("FindStocksBelowReorderPoint", ctx, 20).Return([]domain.StockAccount{*stock}, nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{outboundEntry("SKU-001", -180)}, (*string)(nil), nil).Once()

	recs, err := suite.service.ReorderRecommendations(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(recs, 1)
	// 2/day * 1 day * 1.5 = 3.
	suite.Equal(int64(3), recs[0].RecommendedQuantity)
}

func (suite *ForecastServiceTestSuite) TestReorderRecommendations_NoDemandNoQuantitySkipped() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 5, 0)
	stock.ReorderPoint = 20
	stock.ReorderQuantity = 0

	suite.mockReportingRepo.On("FindStocksBelowReorderPoint", ctx, 20).Return([]domain.StockAccount{*stock}, nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{}, (*string)(nil), nil).Once()

	recs, err := suite.service.ReorderRecommendations(ctx, 0)

	suite.Require().NoError(err)
	suite.Empty(recs)
}

func (suite *ForecastServiceTestSuite) TestReorderRecommendations_NothingAvailableIsMostUrgent() {
	ctx := context.Background()
	stock := activeStock("SKU-001", 10, 10)
	stock.ReorderPoint = 20
	stock.ReorderQuantity = 30

	suite.mockReportingRepo.On("FindStocksBelowReorderPoint", ctx, 20).Return([]domain.StockAccount{*stock}, nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", suite.historySince(), time.Time{}, 200, (*string)(nil)).
		Return([]domain.MovementEntry{}, (*string)(nil), nil).Once()

	recs, err := suite.service.ReorderRecommendations(ctx, 0)

	suite.Require().NoError(err)
	suite.Require().Len(recs, 1)
	suite.Equal(1.0, recs[0].UrgencyScore)
}

func TestForecastServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ForecastServiceTestSuite))
}
