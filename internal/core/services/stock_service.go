package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// stockService implements the stock facade. Every quantity mutation runs as
// one transaction holding the row lock of the affected SKU, so concurrent
// operations on the same SKU serialize and the availability check and the
// update cannot be split by another writer.
type stockService struct {
	BaseService
	stockRepo    portsrepo.StockRepositoryWithTx
	movementRepo portsrepo.MovementRepositoryWithTx
	now          func() time.Time
}

// StockServiceOption configures optional dependencies of the stock service.
type StockServiceOption func(*stockService)

// WithStockClock overrides the time source, mainly for tests.
func WithStockClock(now func() time.Time) StockServiceOption {
	return func(s *stockService) {
		s.now = now
	}
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo portsrepo.StockRepositoryWithTx, movementRepo portsrepo.MovementRepositoryWithTx, options ...StockServiceOption) portssvc.StockSvcFacade {
	svc := &stockService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure stockService implements the portssvc.StockSvcFacade interface
var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) GetStock(ctx context.Context, sku string) (*domain.StockAccount, error) {
	stock, err := s.stockRepo.FindStockBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock %s: %w", sku, err)
	}
	return stock, nil
}

func (s *stockService) GetStocksBySKUs(ctx context.Context, skus []string) (map[string]domain.StockAccount, error) {
	stocks, err := s.stockRepo.FindStocksBySKUs(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to get stocks by SKUs: %w", err)
	}
	return stocks, nil
}

func (s *stockService) ListStocks(ctx context.Context, params dto.ListStocksParams) (*dto.ListStocksResponse, error) {
	filter := portsrepo.StockListFilter{
		Search:       params.Search,
		Category:     domain.StockCategory(params.Category),
		Status:       domain.StockStatus(params.Status),
		LowStockOnly: params.LowStockOnly,
	}
	stocks, total, err := s.stockRepo.ListStocks(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return &dto.ListStocksResponse{
		Stocks: dto.ToListStockResponse(stocks),
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

func (s *stockService) CreateStock(ctx context.Context, req dto.CreateStockRequest, creatorUserID string) (*domain.StockAccount, error) {
	if req.MaximumStock > 0 && req.MinimumStock > req.MaximumStock {
		return nil, fmt.Errorf("%w: minimum stock cannot exceed maximum stock", apperrors.ErrValidation)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost cannot be negative", apperrors.ErrValidation)
	}

	now := s.now()
	stock := domain.StockAccount{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Status:          domain.StockActive,
		UnitOfMeasure:   req.UnitOfMeasure,
		UnitCost:        req.UnitCost,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		LeadTimeDays:    req.LeadTimeDays,
		SupplierName:    req.SupplierName,
		LocationCode:    req.LocationCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.stockRepo.SaveStock(ctx, stock); err != nil {
		s.LogError(ctx, err, "failed to save stock", slog.String("sku", req.SKU))
		return nil, fmt.Errorf("failed to create stock %s: %w", req.SKU, err)
	}

	// Book the opening quantity through the regular receive path so it leaves
	// a ledger entry like every other quantity change.
	if req.InitialStock > 0 {
		if _, err := s.Receive(ctx, req.SKU, dto.ReceiveStockRequest{
			Quantity: req.InitialStock,
			Reason:   "initial stock",
		}, creatorUserID); err != nil {
			return nil, fmt.Errorf("failed to book initial stock for %s: %w", req.SKU, err)
		}
		return s.stockRepo.FindStockBySKU(ctx, req.SKU)
	}

	s.LogInfo(ctx, "stock created", slog.String("sku", stock.SKU), slog.String("category", string(stock.Category)))
	return &stock, nil
}

func (s *stockService) UpdateStock(ctx context.Context, sku string, req dto.UpdateStockRequest, userID string) (*domain.StockAccount, error) {
	stock, err := s.stockRepo.FindStockBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s for update: %w", sku, err)
	}

	if req.Name != nil {
		stock.Name = *req.Name
	}
	if req.Description != nil {
		stock.Description = *req.Description
	}
	if req.Status != nil {
		stock.Status = *req.Status
	}
	if req.Category != nil {
		stock.Category = *req.Category
	}
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost cannot be negative", apperrors.ErrValidation)
		}
		stock.UnitCost = *req.UnitCost
	}
	if req.MinimumStock != nil {
		stock.MinimumStock = *req.MinimumStock
	}
	if req.MaximumStock != nil {
		stock.MaximumStock = *req.MaximumStock
	}
	if req.ReorderPoint != nil {
		stock.ReorderPoint = *req.ReorderPoint
	}
	if req.ReorderQuantity != nil {
		stock.ReorderQuantity = *req.ReorderQuantity
	}
	if req.LeadTimeDays != nil {
		stock.LeadTimeDays = *req.LeadTimeDays
	}
	if req.SupplierName != nil {
		stock.SupplierName = *req.SupplierName
	}
	if req.LocationCode != nil {
		stock.LocationCode = *req.LocationCode
	}
	if stock.MaximumStock > 0 && stock.MinimumStock > stock.MaximumStock {
		return nil, fmt.Errorf("%w: minimum stock cannot exceed maximum stock", apperrors.ErrValidation)
	}

	stock.LastUpdatedAt = s.now()
	stock.LastUpdatedBy = userID

	if err := s.stockRepo.UpdateStock(ctx, *stock); err != nil {
		s.LogError(ctx, err, "failed to update stock", slog.String("sku", sku))
		return nil, fmt.Errorf("failed to update stock %s: %w", sku, err)
	}
	return stock, nil
}

func (s *stockService) DeactivateStock(ctx context.Context, sku string, userID string) error {
	if err := s.stockRepo.DeactivateStock(ctx, sku, userID, s.now()); err != nil {
		return fmt.Errorf("failed to deactivate stock %s: %w", sku, err)
	}
	s.LogInfo(ctx, "stock deactivated", slog.String("sku", sku))
	return nil
}

// withStockLock runs fn inside a transaction holding the row lock for sku.
// fn mutates through the repository InTx methods; any error rolls everything back.
func (s *stockService) withStockLock(ctx context.Context, sku string, fn func(tx pgx.Tx, stock *domain.StockAccount) error) error {
	tx, err := s.stockRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.stockRepo.Rollback(ctx, tx)
	}()

	stock, err := s.stockRepo.FindStockBySKUForUpdate(ctx, tx, sku)
	if err != nil {
		return err
	}

	if err := fn(tx, stock); err != nil {
		return err
	}

	if err := s.stockRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *stockService) Receive(ctx context.Context, sku string, req dto.ReceiveStockRequest, userID string) (*domain.MovementEntry, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: receive quantity must be positive", apperrors.ErrInvalidQuantity)
	}
	movementType := req.MovementType
	switch movementType {
	case "":
		movementType = domain.MovementInbound
	case domain.MovementInbound, domain.MovementReturn:
	default:
		return nil, fmt.Errorf("%w: movement type %q cannot book stock in", apperrors.ErrValidation, movementType)
	}

	var entry *domain.MovementEntry
	err := s.withStockLock(ctx, sku, func(tx pgx.Tx, stock *domain.StockAccount) error {
		if stock.Status != domain.StockActive {
			return fmt.Errorf("%w: stock %s is %s", apperrors.ErrValidation, sku, stock.Status)
		}

		now := s.now()
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, sku, req.Quantity, 0, userID, now); err != nil {
			return err
		}

		unitCost := stock.UnitCost
		if req.UnitCost != nil {
			unitCost = *req.UnitCost
		}
		entry = &domain.MovementEntry{
			StockSKU:      sku,
			MovementType:  movementType,
			Quantity:      req.Quantity,
			QuantityDelta: req.Quantity,
			UnitCost:      unitCost,
			FromLocation:  req.FromLocation,
			ToLocation:    stock.LocationCode,
			Reference:     req.Reference,
			Reason:        req.Reason,
			OccurredAt:    now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		movementID, err := s.movementRepo.AppendMovementInTx(ctx, tx, *entry)
		if err != nil {
			return err
		}
		entry.MovementID = movementID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "stock received", slog.String("sku", sku), slog.String("movement_type", string(movementType)), slog.Int64("quantity", req.Quantity), slog.Int64("movement_id", entry.MovementID))
	return entry, nil
}

func (s *stockService) Consume(ctx context.Context, sku string, req dto.ConsumeStockRequest, userID string) (*domain.MovementEntry, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: consume quantity must be positive", apperrors.ErrInvalidQuantity)
	}
	movementType := req.MovementType
	switch movementType {
	case "":
		movementType = domain.MovementOutbound
	case domain.MovementOutbound, domain.MovementDamaged, domain.MovementExpired:
	default:
		return nil, fmt.Errorf("%w: movement type %q cannot book stock out", apperrors.ErrValidation, movementType)
	}

	var entry *domain.MovementEntry
	err := s.withStockLock(ctx, sku, func(tx pgx.Tx, stock *domain.StockAccount) error {
		if stock.Status != domain.StockActive {
			return fmt.Errorf("%w: stock %s is %s", apperrors.ErrValidation, sku, stock.Status)
		}
		if req.Quantity > stock.CurrentStock {
			return fmt.Errorf("%w: requested %d, current %d for %s", apperrors.ErrInsufficientStock, req.Quantity, stock.CurrentStock, sku)
		}
		// Reserved quantity stays untouchable: consuming past the available
		// portion would leave reserved above current.
		if req.Quantity > stock.AvailableStock {
			return fmt.Errorf("%w: requested %d, available %d for %s (%d reserved)", apperrors.ErrInsufficientStock, req.Quantity, stock.AvailableStock, sku, stock.ReservedStock)
		}

		now := s.now()
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, sku, -req.Quantity, 0, userID, now); err != nil {
			return err
		}

		entry = &domain.MovementEntry{
			StockSKU:      sku,
			MovementType:  movementType,
			Quantity:      req.Quantity,
			QuantityDelta: -req.Quantity,
			UnitCost:      stock.UnitCost,
			FromLocation:  stock.LocationCode,
			ToLocation:    req.ToLocation,
			Reference:     req.Reference,
			Reason:        req.Reason,
			OccurredAt:    now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		movementID, err := s.movementRepo.AppendMovementInTx(ctx, tx, *entry)
		if err != nil {
			return err
		}
		entry.MovementID = movementID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "stock consumed", slog.String("sku", sku), slog.String("movement_type", string(movementType)), slog.Int64("quantity", req.Quantity), slog.Int64("movement_id", entry.MovementID))
	return entry, nil
}

func (s *stockService) Adjust(ctx context.Context, sku string, req dto.AdjustStockRequest, userID string) (*domain.MovementEntry, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: adjustment delta cannot be zero", apperrors.ErrInvalidQuantity)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", apperrors.ErrValidation)
	}

	var entry *domain.MovementEntry
	err := s.withStockLock(ctx, sku, func(tx pgx.Tx, stock *domain.StockAccount) error {
		newCurrent := stock.CurrentStock + req.Delta
		if newCurrent < 0 {
			return fmt.Errorf("%w: adjustment of %d would drop %s below zero (current %d)", apperrors.ErrInvalidQuantity, req.Delta, sku, stock.CurrentStock)
		}
		if newCurrent < stock.ReservedStock {
			return fmt.Errorf("%w: adjustment of %d would drop %s below its reserved quantity %d", apperrors.ErrInsufficientAvailable, req.Delta, sku, stock.ReservedStock)
		}

		now := s.now()
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, sku, req.Delta, 0, userID, now); err != nil {
			return err
		}

		quantity := req.Delta
		if quantity < 0 {
			quantity = -quantity
		}
		entry = &domain.MovementEntry{
			StockSKU:      sku,
			MovementType:  domain.MovementAdjustment,
			Quantity:      quantity,
			QuantityDelta: req.Delta,
			UnitCost:      stock.UnitCost,
			Reference:     req.Reference,
			Reason:        req.Reason,
			OccurredAt:    now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		movementID, err := s.movementRepo.AppendMovementInTx(ctx, tx, *entry)
		if err != nil {
			return err
		}
		entry.MovementID = movementID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "stock adjusted", slog.String("sku", sku), slog.Int64("delta", req.Delta), slog.Int64("movement_id", entry.MovementID))
	return entry, nil
}

// Reserve earmarks available quantity. It moves nothing physically, so no
// ledger entry is appended and last movement time is untouched.
func (s *stockService) Reserve(ctx context.Context, sku string, quantity int64, userID string) (*domain.StockAccount, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: reserve quantity must be positive", apperrors.ErrInvalidQuantity)
	}

	var result *domain.StockAccount
	err := s.withStockLock(ctx, sku, func(tx pgx.Tx, stock *domain.StockAccount) error {
		if stock.Status != domain.StockActive {
			return fmt.Errorf("%w: stock %s is %s", apperrors.ErrValidation, sku, stock.Status)
		}
		if quantity > stock.AvailableStock {
			return fmt.Errorf("%w: requested %d, available %d for %s", apperrors.ErrInsufficientAvailable, quantity, stock.AvailableStock, sku)
		}

		now := s.now()
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, sku, 0, quantity, userID, now); err != nil {
			return err
		}

		stock.ReservedStock += quantity
		stock.AvailableStock -= quantity
		stock.LastUpdatedAt = now
		stock.LastUpdatedBy = userID
		result = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "stock reserved", slog.String("sku", sku), slog.Int64("quantity", quantity))
	return result, nil
}

func (s *stockService) Release(ctx context.Context, sku string, quantity int64, userID string) (*domain.StockAccount, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: release quantity must be positive", apperrors.ErrInvalidQuantity)
	}

	var result *domain.StockAccount
	err := s.withStockLock(ctx, sku, func(tx pgx.Tx, stock *domain.StockAccount) error {
		if quantity > stock.ReservedStock {
			return fmt.Errorf("%w: requested %d, reserved %d for %s", apperrors.ErrOverRelease, quantity, stock.ReservedStock, sku)
		}

		now := s.now()
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, sku, 0, -quantity, userID, now); err != nil {
			return err
		}

		stock.ReservedStock -= quantity
		stock.AvailableStock += quantity
		stock.LastUpdatedAt = now
		stock.LastUpdatedBy = userID
		result = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "reservation released", slog.String("sku", sku), slog.Int64("quantity", quantity))
	return result, nil
}
