package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
)

// MockStockRepository is a mock type for the StockRepositoryWithTx interface
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindStockBySKU(ctx context.Context, sku string) (*domain.StockAccount, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAccount), args.Error(1)
}

func (m *MockStockRepository) FindStocksBySKUs(ctx context.Context, skus []string) (map[string]domain.StockAccount, error) {
	args := m.Called(ctx, skus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.StockAccount), args.Error(1)
}

func (m *MockStockRepository) ListStocks(ctx context.Context, filter portsrepo.StockListFilter, limit int, offset int) ([]domain.StockAccount, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.StockAccount), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) SaveStock(ctx context.Context, stock domain.StockAccount) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateStock(ctx context.Context, stock domain.StockAccount) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) DeactivateStock(ctx context.Context, sku string, userID string, now time.Time) error {
	args := m.Called(ctx, sku, userID, now)
	return args.Error(0)
}

func (m *MockStockRepository) FindStockBySKUForUpdate(ctx context.Context, tx pgx.Tx, sku string) (*domain.StockAccount, error) {
	args := m.Called(ctx, tx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockAccount), args.Error(1)
}

func (m *MockStockRepository) FindStocksBySKUsForUpdate(ctx context.Context, tx pgx.Tx, skus []string) (map[string]domain.StockAccount, error) {
	args := m.Called(ctx, tx, skus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.StockAccount), args.Error(1)
}

func (m *MockStockRepository) UpdateStockLevelsInTx(ctx context.Context, tx pgx.Tx, sku string, currentDelta, reservedDelta int64, userID string, now time.Time) error {
	args := m.Called(ctx, tx, sku, currentDelta, reservedDelta, userID, now)
	return args.Error(0)
}

func (m *MockStockRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockStockRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStockRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockMovementRepository is a mock type for the MovementRepositoryWithTx interface
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) AppendMovementInTx(ctx context.Context, tx pgx.Tx, entry domain.MovementEntry) (int64, error) {
	args := m.Called(ctx, tx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) FindMovementByID(ctx context.Context, movementID int64) (*domain.MovementEntry, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MovementEntry), args.Error(1)
}

func (m *MockMovementRepository) ListMovementsBySKU(ctx context.Context, sku string, since, until time.Time, limit int, nextToken *string) ([]domain.MovementEntry, *string, error) {
	args := m.Called(ctx, sku, since, until, limit, nextToken)
	var entries []domain.MovementEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.MovementEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockMovementRepository) ListRecentMovements(ctx context.Context, limit int) ([]domain.MovementEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MovementEntry), args.Error(1)
}

func (m *MockMovementRepository) SumDeltasBySKU(ctx context.Context, sku string) (int64, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockMovementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMovementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockTransferRepository is a mock type for the TransferRepositoryWithTx interface
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) FindTransferByNumber(ctx context.Context, transferNumber string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, filter portsrepo.TransferListFilter, limit int, offset int) ([]domain.Transfer, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transfer), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferRepository) GetTransferStats(ctx context.Context) (*domain.TransferStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferStats), args.Error(1)
}

func (m *MockTransferRepository) NextTransferNumberInTx(ctx context.Context, tx pgx.Tx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *MockTransferRepository) SaveTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error {
	args := m.Called(ctx, tx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) FindTransferByNumberForUpdate(ctx context.Context, tx pgx.Tx, transferNumber string) (*domain.Transfer, error) {
	args := m.Called(ctx, tx, transferNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateTransferStatusInTx(ctx context.Context, tx pgx.Tx, transfer domain.Transfer) error {
	args := m.Called(ctx, tx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) UpdateTransferItemInTx(ctx context.Context, tx pgx.Tx, item domain.TransferItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockTransferRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransferRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransferRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockAlertRepository is a mock type for the AlertRepositoryFacade interface
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) SaveRule(ctx context.Context, rule domain.AlertRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAlertRepository) UpdateRule(ctx context.Context, rule domain.AlertRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAlertRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.AlertRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AlertRule), args.Error(1)
}

func (m *MockAlertRepository) ListRules(ctx context.Context) ([]domain.AlertRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AlertRule), args.Error(1)
}

func (m *MockAlertRepository) ListActiveRules(ctx context.Context) ([]domain.AlertRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AlertRule), args.Error(1)
}

func (m *MockAlertRepository) TouchRuleTriggered(ctx context.Context, ruleID string, triggeredAt time.Time) error {
	args := m.Called(ctx, ruleID, triggeredAt)
	return args.Error(0)
}

func (m *MockAlertRepository) SaveAlert(ctx context.Context, alert domain.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) FindAlertByID(ctx context.Context, alertID string) (*domain.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListAlerts(ctx context.Context, includeResolved bool, limit int, offset int) ([]domain.Alert, int64, error) {
	args := m.Called(ctx, includeResolved, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *MockAlertRepository) CountRecentAlerts(ctx context.Context, ruleID string, sku string, since time.Time) (int64, error) {
	args := m.Called(ctx, ruleID, sku, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) FindLastAlertTime(ctx context.Context, ruleID string, sku string) (*time.Time, error) {
	args := m.Called(ctx, ruleID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockAlertRepository) SetAcknowledged(ctx context.Context, alertID string, userID string, at time.Time) error {
	args := m.Called(ctx, alertID, userID, at)
	return args.Error(0)
}

func (m *MockAlertRepository) SetResolved(ctx context.Context, alertID string, userID string, at time.Time, notes string) error {
	args := m.Called(ctx, alertID, userID, at, notes)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySummary), args.Error(1)
}

func (m *MockReportingRepository) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryValueRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryValueRow), args.Error(1)
}

func (m *MockReportingRepository) FindStocksBelowReorderPoint(ctx context.Context, limit int) ([]domain.StockAccount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockAccount), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) GetRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}
