package services_test

import (
	"context"
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

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockMovementRepo *MockMovementRepository
	mockStockRepo    *MockStockRepository
	service          portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockStockRepo = new(MockStockRepository)
	suite.service = services.NewLedgerService(suite.mockMovementRepo, suite.mockStockRepo)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestGetMovement_Success() {
	ctx := context.Background()
	entry := &domain.MovementEntry{
		MovementID:    42,
		StockSKU:      "SKU-001",
		MovementType:  domain.MovementInbound,
		Quantity:      10,
		QuantityDelta: 10,
	}
	suite.mockMovementRepo.On("FindMovementByID", ctx, int64(42)).Return(entry, nil).Once()

	resp, err := suite.service.GetMovement(ctx, 42)

	suite.Require().NoError(err)
	suite.Equal(int64(42), resp.MovementID)
	suite.Equal("SKU-001", resp.StockSKU)
	suite.Equal(domain.MovementInbound, resp.MovementType)
}

func (suite *LedgerServiceTestSuite) TestGetMovement_NotFound() {
	ctx := context.Background()
	suite.mockMovementRepo.On("FindMovementByID", ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetMovement(ctx, 404)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(resp)
}

func (suite *LedgerServiceTestSuite) TestListMovements_UnknownSKU() {
	ctx := context.Background()
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-404").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ListMovements(ctx, "SKU-404", dto.ListMovementsParams{Limit: 50})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(resp)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "ListMovementsBySKU",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListMovements_PassesWindowAndToken() {
	ctx := context.Background()
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	token := "after-17"
	next := "after-31"
	entries := []domain.MovementEntry{
		{MovementID: 18, StockSKU: "SKU-001", MovementType: domain.MovementOutbound, Quantity: 3, QuantityDelta: -3},
	}

	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(activeStock("SKU-001", 10, 0), nil).Once()
	suite.mockMovementRepo.On("ListMovementsBySKU", ctx, "SKU-001", since, time.Time{}, 50, &token).
		Return(entries, &next, nil).Once()

	resp, err := suite.service.ListMovements(ctx, "SKU-001", dto.ListMovementsParams{
		Limit:     50,
		Since:     &since,
		NextToken: &token,
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Movements, 1)
	suite.Equal(int64(18), resp.Movements[0].MovementID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("after-31", *resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestListRecent_ClampsLimit() {
	ctx := context.Background()
	entries := []domain.MovementEntry{
		{MovementID: 2, StockSKU: "SKU-002", MovementType: domain.MovementOutbound, Quantity: 3, QuantityDelta: -3},
		{MovementID: 1, StockSKU: "SKU-001", MovementType: domain.MovementInbound, Quantity: 10, QuantityDelta: 10},
	}
	// Out-of-range limits fall back to the default page size.
	suite.mockMovementRepo.On("ListRecentMovements", ctx, 50).Return(entries, nil).Once()

	resp, err := suite.service.ListRecent(ctx, 5000)

	suite.Require().NoError(err)
	suite.Require().Len(resp, 2)
	suite.Equal(int64(2), resp[0].MovementID)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVerifyReplay_Consistent() {
	ctx := context.Background()
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(activeStock("SKU-001", 37, 5), nil).Once()
	suite.mockMovementRepo.On("SumDeltasBySKU", ctx, "SKU-001").Return(int64(37), nil).Once()

	result, err := suite.service.VerifyReplay(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.True(result.Consistent)
	suite.Equal(int64(37), result.CurrentStock)
	suite.Equal(int64(37), result.ReplayedStock)
}

func (suite *LedgerServiceTestSuite) TestVerifyReplay_Mismatch() {
	ctx := context.Background()
	suite.mockStockRepo.On("FindStockBySKU", ctx, "SKU-001").Return(activeStock("SKU-001", 37, 5), nil).Once()
	suite.mockMovementRepo.On("SumDeltasBySKU", ctx, "SKU-001").Return(int64(35), nil).Once()

	result, err := suite.service.VerifyReplay(ctx, "SKU-001")

	suite.Require().NoError(err)
	suite.False(result.Consistent)
	suite.Equal(int64(35), result.ReplayedStock)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
