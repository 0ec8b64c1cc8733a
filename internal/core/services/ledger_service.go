package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// ledgerService provides read access to the movement ledger.
type ledgerService struct {
	BaseService
	movementRepo portsrepo.MovementRepositoryFacade
	stockRepo    portsrepo.StockReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(movementRepo portsrepo.MovementRepositoryFacade, stockRepo portsrepo.StockReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		movementRepo: movementRepo,
		stockRepo:    stockRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetMovement(ctx context.Context, movementID int64) (*dto.MovementResponse, error) {
	entry, err := s.movementRepo.FindMovementByID(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movement %d: %w", movementID, err)
	}
	resp := dto.ToMovementResponse(entry)
	return &resp, nil
}

func (s *ledgerService) ListMovements(ctx context.Context, sku string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	// Existence check so an unknown SKU reads as not found rather than an
	// empty history.
	if _, err := s.stockRepo.FindStockBySKU(ctx, sku); err != nil {
		return nil, fmt.Errorf("failed to find stock %s for movement listing: %w", sku, err)
	}

	var since, until time.Time
	if params.Since != nil {
		since = *params.Since
	}
	if params.Until != nil {
		until = *params.Until
	}

	entries, nextToken, err := s.movementRepo.ListMovementsBySKU(ctx, sku, since, until, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for %s: %w", sku, err)
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *ledgerService) ListRecent(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.movementRepo.ListRecentMovements(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent movements: %w", err)
	}
	return dto.ToMovementResponses(entries), nil
}

// VerifyReplay replays a SKU's full ledger and compares the summed signed
// effects against the account's current stock. A mismatch is reported, never
// repaired.
func (s *ledgerService) VerifyReplay(ctx context.Context, sku string) (*dto.LedgerReplayResult, error) {
	stock, err := s.stockRepo.FindStockBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock %s for replay: %w", sku, err)
	}

	replayed, err := s.movementRepo.SumDeltasBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to replay ledger for %s: %w", sku, err)
	}

	result := &dto.LedgerReplayResult{
		StockSKU:      sku,
		CurrentStock:  stock.CurrentStock,
		ReplayedStock: replayed,
		Consistent:    replayed == stock.CurrentStock,
	}
	if !result.Consistent {
		s.LogWarn(ctx, "ledger replay mismatch",
			slog.String("sku", sku),
			slog.Int64("current_stock", stock.CurrentStock),
			slog.Int64("replayed_stock", replayed))
	}
	return result, nil
}
