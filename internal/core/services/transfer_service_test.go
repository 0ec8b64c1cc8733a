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

type TransferServiceTestSuite struct {
	suite.Suite
	mockTransferRepo *MockTransferRepository
	mockStockRepo    *MockStockRepository
	mockMovementRepo *MockMovementRepository
	service          portssvc.TransferSvcFacade
	now              time.Time
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockStockRepo = new(MockStockRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewTransferService(
		suite.mockTransferRepo,
		suite.mockStockRepo,
		suite.mockMovementRepo,
		services.WithTransferClock(func() time.Time { return suite.now }),
	)
}

func (suite *TransferServiceTestSuite) expectTransferTx() {
	suite.mockTransferRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTransferRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockTransferRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func inTransitTransfer(number string, items ...domain.TransferItem) *domain.Transfer {
	return &domain.Transfer{
		TransferNumber: number,
		Status:         domain.TransferInTransit,
		Priority:       domain.PriorityNormal,
		FromLocation:   "WH-1",
		ToLocation:     "WH-2",
		Items:          items,
	}
}

// --- Test Cases ---

func (suite *TransferServiceTestSuite) TestCreateTransfer_ReservesAllLines() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		FromLocation: "WH-1",
		ToLocation:   "WH-2",
		Items: []dto.CreateTransferItemRequest{
			{StockSKU: "SKU-001", Quantity: 30},
			{StockSKU: "SKU-002", Quantity: 10},
		},
	}

	suite.expectTransferTx()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001", "SKU-002"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 0),
		"SKU-002": *activeStock("SKU-002", 50, 0),
	}, nil).Once()
	suite.mockTransferRepo.On("NextTransferNumberInTx", ctx, mock.Anything).Return("TRF-000042", nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(0), int64(30), "user-1", suite.now).Return(nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-002", int64(0), int64(10), "user-1", suite.now).Return(nil).Once()
	suite.mockTransferRepo.On("SaveTransferInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("TRF-000042", transfer.TransferNumber)
	suite.Equal(domain.TransferInTransit, transfer.Status)
	suite.Require().NotNil(transfer.StartedDate)
	suite.Equal(int64(40), transfer.TotalRequestedQuantity())
	suite.mockStockRepo.AssertExpectations(suite.T())
	suite.mockTransferRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_RequiresApprovalStartsPending() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		FromLocation:     "WH-1",
		ToLocation:       "WH-2",
		RequiresApproval: true,
		Items:            []dto.CreateTransferItemRequest{{StockSKU: "SKU-001", Quantity: 5}},
	}

	suite.expectTransferTx()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 0),
	}, nil).Once()
	suite.mockTransferRepo.On("NextTransferNumberInTx", ctx, mock.Anything).Return("TRF-000001", nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(0), int64(5), "user-1", suite.now).Return(nil).Once()
	suite.mockTransferRepo.On("SaveTransferInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferPending, transfer.Status)
	suite.Nil(transfer.StartedDate)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_DuplicateLine() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		FromLocation: "WH-1",
		ToLocation:   "WH-2",
		Items: []dto.CreateTransferItemRequest{
			{StockSKU: "SKU-001", Quantity: 5},
			{StockSKU: "SKU-001", Quantity: 3},
		},
	}

	transfer, err := suite.service.CreateTransfer(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(transfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_InsufficientAvailableRollsBack() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		FromLocation: "WH-1",
		ToLocation:   "WH-2",
		Items: []dto.CreateTransferItemRequest{
			{StockSKU: "SKU-001", Quantity: 30},
			{StockSKU: "SKU-002", Quantity: 60},
		},
	}

	suite.expectTransferTx()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001", "SKU-002"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 0),
		"SKU-002": *activeStock("SKU-002", 50, 0), // only 50 available, 60 requested
	}, nil).Once()
	suite.mockTransferRepo.On("NextTransferNumberInTx", ctx, mock.Anything).Return("TRF-000002", nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(0), int64(30), "user-1", suite.now).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientAvailable)
	suite.Nil(transfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SaveTransferInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_UnknownSKU() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		FromLocation: "WH-1",
		ToLocation:   "WH-2",
		Items:        []dto.CreateTransferItemRequest{{StockSKU: "SKU-404", Quantity: 5}},
	}

	suite.expectTransferTx()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-404"}).Return(map[string]domain.StockAccount{}, nil).Once()
	suite.mockTransferRepo.On("NextTransferNumberInTx", ctx, mock.Anything).Return("TRF-000003", nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(transfer)
}

func (suite *TransferServiceTestSuite) TestApproveTransfer_Pending() {
	ctx := context.Background()
	pending := inTransitTransfer("TRF-000010")
	pending.Status = domain.TransferPending

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000010").Return(pending, nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	transfer, err := suite.service.ApproveTransfer(ctx, "TRF-000010", "approver-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferInTransit, transfer.Status)
	suite.Equal("approver-1", transfer.ApprovedBy)
	suite.Require().NotNil(transfer.StartedDate)
	suite.Equal(suite.now, *transfer.StartedDate)
}

func (suite *TransferServiceTestSuite) TestApproveTransfer_NotPending() {
	ctx := context.Background()
	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000011").Return(inTransitTransfer("TRF-000011"), nil).Once()

	transfer, err := suite.service.ApproveTransfer(ctx, "TRF-000011", "approver-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(transfer)
}

func (suite *TransferServiceTestSuite) TestCompleteTransfer_OmittedLinesFullyShipped() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000020", domain.TransferItem{
		TransferNumber:    "TRF-000020",
		StockSKU:          "SKU-001",
		QuantityRequested: 30,
	})

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000020").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 30),
	}, nil).Once()
	// Full reservation released, full shipment removed from current stock.
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(-30), int64(-30), "user-1", suite.now).Return(nil).Once()
	suite.mockMovementRepo.On("AppendMovementInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.MovementEntry) bool {
		return e.MovementType == domain.MovementOutbound &&
			e.QuantityDelta == -30 &&
			e.Reference == "TRF-000020" && e.ReferenceType == "Transfer"
	})).Return(int64(11), nil).Once()
	suite.mockTransferRepo.On("UpdateTransferItemInTx", ctx, mock.Anything, mock.AnythingOfType("domain.TransferItem")).Return(nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	completed, err := suite.service.CompleteTransfer(ctx, "TRF-000020", dto.CompleteTransferRequest{}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferCompleted, completed.Status)
	suite.Equal(int64(30), completed.Items[0].QuantityShipped)
	suite.Equal(int64(30), completed.Items[0].QuantityReceived)
	suite.Equal(int64(0), completed.Items[0].QuantityDamaged)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCompleteTransfer_DamagedGetsZeroDeltaEntry() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000021", domain.TransferItem{
		TransferNumber:    "TRF-000021",
		StockSKU:          "SKU-001",
		QuantityRequested: 30,
	})
	req := dto.CompleteTransferRequest{
		Items: []dto.CompleteTransferItemRequest{
			{StockSKU: "SKU-001", QuantityShipped: 30, QuantityReceived: 28, QuantityDamaged: 2},
		},
	}

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000021").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 30),
	}, nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(-30), int64(-30), "user-1", suite.now).Return(nil).Once()
	suite.mockMovementRepo.On("AppendMovementInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.MovementEntry) bool {
		return e.MovementType == domain.MovementOutbound && e.QuantityDelta == -30
	})).Return(int64(12), nil).Once()
	// Damaged units are already counted in the outbound entry, so this one
	// records them with no further stock effect.
	suite.mockMovementRepo.On("AppendMovementInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.MovementEntry) bool {
		return e.MovementType == domain.MovementDamaged &&
			e.Quantity == 2 && e.QuantityDelta == 0 &&
			e.Reason == "damaged in transit"
	})).Return(int64(13), nil).Once()
	suite.mockTransferRepo.On("UpdateTransferItemInTx", ctx, mock.Anything, mock.AnythingOfType("domain.TransferItem")).Return(nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	completed, err := suite.service.CompleteTransfer(ctx, "TRF-000021", req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(int64(2), completed.Items[0].QuantityDamaged)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCompleteTransfer_ShippedExceedsRequested() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000022", domain.TransferItem{
		TransferNumber:    "TRF-000022",
		StockSKU:          "SKU-001",
		QuantityRequested: 10,
	})
	req := dto.CompleteTransferRequest{
		Items: []dto.CompleteTransferItemRequest{
			{StockSKU: "SKU-001", QuantityShipped: 12, QuantityReceived: 12},
		},
	}

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000022").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 10),
	}, nil).Once()

	completed, err := suite.service.CompleteTransfer(ctx, "TRF-000022", req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(completed)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCompleteTransfer_UnknownOutcomeLineSkipped() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000023", domain.TransferItem{
		TransferNumber:    "TRF-000023",
		StockSKU:          "SKU-001",
		QuantityRequested: 10,
	})
	req := dto.CompleteTransferRequest{
		Items: []dto.CompleteTransferItemRequest{
			{StockSKU: "SKU-999", QuantityShipped: 1, QuantityReceived: 1},
		},
	}

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000023").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 10),
	}, nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(-10), int64(-10), "user-1", suite.now).Return(nil).Once()
	suite.mockMovementRepo.On("AppendMovementInTx", ctx, mock.Anything, mock.AnythingOfType("domain.MovementEntry")).Return(int64(14), nil).Once()
	suite.mockTransferRepo.On("UpdateTransferItemInTx", ctx, mock.Anything, mock.AnythingOfType("domain.TransferItem")).Return(nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	completed, err := suite.service.CompleteTransfer(ctx, "TRF-000023", req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferCompleted, completed.Status)
	// The known line falls back to fully shipped and received.
	suite.Equal(int64(10), completed.Items[0].QuantityShipped)
}

func (suite *TransferServiceTestSuite) TestCompleteTransfer_NotInTransit() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000024")
	transfer.Status = domain.TransferCompleted

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000024").Return(transfer, nil).Once()

	completed, err := suite.service.CompleteTransfer(ctx, "TRF-000024", dto.CompleteTransferRequest{}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(completed)
}

func (suite *TransferServiceTestSuite) TestCancelTransfer_ReleasesReservations() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000030", domain.TransferItem{
		TransferNumber:    "TRF-000030",
		StockSKU:          "SKU-001",
		QuantityRequested: 12,
	})
	transfer.Status = domain.TransferPending

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000030").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 12),
	}, nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(0), int64(-12), "user-1", suite.now).Return(nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	cancelled, err := suite.service.CancelTransfer(ctx, "TRF-000030", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferCancelled, cancelled.Status)
	suite.mockStockRepo.AssertExpectations(suite.T())
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "AppendMovementInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCancelTransfer_InTransitRejected() {
	ctx := context.Background()
	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000031").Return(inTransitTransfer("TRF-000031"), nil).Once()

	cancelled, err := suite.service.CancelTransfer(ctx, "TRF-000031", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(cancelled)
}

func (suite *TransferServiceTestSuite) TestFailTransfer_ReasonRequired() {
	ctx := context.Background()

	failed, err := suite.service.FailTransfer(ctx, "TRF-000032", "", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(failed)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestFailTransfer_AppendsReasonToNotes() {
	ctx := context.Background()
	transfer := inTransitTransfer("TRF-000033", domain.TransferItem{
		TransferNumber:    "TRF-000033",
		StockSKU:          "SKU-001",
		QuantityRequested: 4,
	})
	transfer.Notes = "fragile"

	suite.expectTransferTx()
	suite.mockTransferRepo.On("FindTransferByNumberForUpdate", ctx, mock.Anything, "TRF-000033").Return(transfer, nil).Once()
	suite.mockStockRepo.On("FindStocksBySKUsForUpdate", ctx, mock.Anything, []string{"SKU-001"}).Return(map[string]domain.StockAccount{
		"SKU-001": *activeStock("SKU-001", 100, 4),
	}, nil).Once()
	suite.mockStockRepo.On("UpdateStockLevelsInTx", ctx, mock.Anything, "SKU-001", int64(0), int64(-4), "user-1", suite.now).Return(nil).Once()
	suite.mockTransferRepo.On("UpdateTransferStatusInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Transfer")).Return(nil).Once()

	failed, err := suite.service.FailTransfer(ctx, "TRF-000033", "truck accident", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.TransferFailed, failed.Status)
	suite.Equal("fragile\ntruck accident", failed.Notes)
}

func (suite *TransferServiceTestSuite) TestGetTransferStats() {
	ctx := context.Background()
	suite.mockTransferRepo.On("GetTransferStats", ctx).Return(&domain.TransferStats{InTransitCount: 3, CompletedCount: 7}, nil).Once()

	stats, err := suite.service.GetTransferStats(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), stats.InTransitCount)
	suite.Equal(int64(7), stats.CompletedCount)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
