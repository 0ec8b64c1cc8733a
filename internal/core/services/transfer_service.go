package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/inventory_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// transferService drives the transfer state machine. Every transition runs as
// one transaction covering the transfer row, its items, the affected stock
// accounts and any appended ledger entries.
type transferService struct {
	BaseService
	transferRepo portsrepo.TransferRepositoryWithTx
	stockRepo    portsrepo.StockRepositoryWithTx
	movementRepo portsrepo.MovementRepositoryWithTx
	now          func() time.Time
}

// TransferServiceOption configures optional dependencies of the transfer service.
type TransferServiceOption func(*transferService)

// WithTransferClock overrides the time source, mainly for tests.
func WithTransferClock(now func() time.Time) TransferServiceOption {
	return func(s *transferService) {
		s.now = now
	}
}

// NewTransferService creates a new transfer service.
func NewTransferService(transferRepo portsrepo.TransferRepositoryWithTx, stockRepo portsrepo.StockRepositoryWithTx, movementRepo portsrepo.MovementRepositoryWithTx, options ...TransferServiceOption) portssvc.TransferSvcFacade {
	svc := &transferService{
		transferRepo: transferRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transferService implements the portssvc.TransferSvcFacade interface
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

func (s *transferService) GetTransfer(ctx context.Context, transferNumber string) (*domain.Transfer, error) {
	transfer, err := s.transferRepo.FindTransferByNumber(ctx, transferNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer %s: %w", transferNumber, err)
	}
	return transfer, nil
}

func (s *transferService) ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error) {
	filter := portsrepo.TransferListFilter{
		Status:       domain.TransferStatus(params.Status),
		Priority:     domain.TransferPriority(params.Priority),
		FromLocation: params.FromLocation,
		ToLocation:   params.ToLocation,
		RequestedBy:  params.RequestedBy,
	}
	transfers, total, err := s.transferRepo.ListTransfers(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return &dto.ListTransfersResponse{
		Transfers: dto.ToListTransferResponse(transfers),
		Total:     total,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}, nil
}

func (s *transferService) GetTransferStats(ctx context.Context) (*domain.TransferStats, error) {
	stats, err := s.transferRepo.GetTransferStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer stats: %w", err)
	}
	return stats, nil
}

// CreateTransfer reserves every line's quantity all-or-nothing. A single line
// failing availability rolls the whole creation back, leaving no partial
// reservations behind.
func (s *transferService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, requesterUserID string) (*domain.Transfer, error) {
	skus := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if seen[item.StockSKU] {
			return nil, fmt.Errorf("%w: duplicate transfer line for %s", apperrors.ErrValidation, item.StockSKU)
		}
		seen[item.StockSKU] = true
		skus = append(skus, item.StockSKU)
	}

	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.transferRepo.Rollback(ctx, tx)
	}()

	stocks, err := s.stockRepo.FindStocksBySKUsForUpdate(ctx, tx, skus)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transferNumber, err := s.transferRepo.NextTransferNumberInTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.TransferItem, 0, len(req.Items))
	for _, line := range req.Items {
		stock, ok := stocks[line.StockSKU]
		if !ok {
			return nil, fmt.Errorf("%w: stock %s", apperrors.ErrNotFound, line.StockSKU)
		}
		if stock.Status != domain.StockActive {
			return nil, fmt.Errorf("%w: stock %s is %s", apperrors.ErrValidation, line.StockSKU, stock.Status)
		}
		if line.Quantity > stock.AvailableStock {
			return nil, fmt.Errorf("%w: requested %d, available %d for %s", apperrors.ErrInsufficientAvailable, line.Quantity, stock.AvailableStock, line.StockSKU)
		}

		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, line.StockSKU, 0, line.Quantity, requesterUserID, now); err != nil {
			return nil, err
		}

		items = append(items, domain.TransferItem{
			TransferNumber:    transferNumber,
			StockSKU:          line.StockSKU,
			QuantityRequested: line.Quantity,
			UnitCost:          stock.UnitCost,
			Notes:             line.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requesterUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requesterUserID,
			},
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	estimatedCost := decimal.Zero
	if req.EstimatedCost != nil {
		estimatedCost = *req.EstimatedCost
	}

	status := domain.TransferInTransit
	var startedDate *time.Time
	if req.RequiresApproval {
		status = domain.TransferPending
	} else {
		started := now
		startedDate = &started
	}

	requestedDate := now
	transfer := domain.Transfer{
		TransferNumber:   transferNumber,
		Status:           status,
		Priority:         priority,
		FromLocation:     req.FromLocation,
		ToLocation:       req.ToLocation,
		Reason:           req.Reason,
		Notes:            req.Notes,
		EstimatedCost:    estimatedCost,
		ActualCost:       decimal.Zero,
		RequiresApproval: req.RequiresApproval,
		RequestedBy:      requesterUserID,
		RequestedDate:    &requestedDate,
		ScheduledDate:    req.ScheduledDate,
		StartedDate:      startedDate,
		Items:            items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterUserID,
		},
	}

	if err := s.transferRepo.SaveTransferInTx(ctx, tx, transfer); err != nil {
		return nil, fmt.Errorf("failed to save transfer %s: %w", transferNumber, err)
	}

	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "transfer created",
		slog.String("transfer_number", transferNumber),
		slog.String("status", string(transfer.Status)),
		slog.Int("items", len(items)),
		slog.Int64("total_quantity", transfer.TotalRequestedQuantity()))
	return &transfer, nil
}

func (s *transferService) ApproveTransfer(ctx context.Context, transferNumber string, approverUserID string) (*domain.Transfer, error) {
	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.transferRepo.Rollback(ctx, tx)
	}()

	transfer, err := s.transferRepo.FindTransferByNumberForUpdate(ctx, tx, transferNumber)
	if err != nil {
		return nil, err
	}
	if transfer.Status != domain.TransferPending {
		return nil, fmt.Errorf("%w: cannot approve transfer %s in status %s", apperrors.ErrInvalidTransition, transferNumber, transfer.Status)
	}

	now := s.now()
	transfer.Status = domain.TransferInTransit
	transfer.ApprovedBy = approverUserID
	transfer.StartedDate = &now
	transfer.LastUpdatedAt = now
	transfer.LastUpdatedBy = approverUserID

	if err := s.transferRepo.UpdateTransferStatusInTx(ctx, tx, *transfer); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "transfer approved", slog.String("transfer_number", transferNumber), slog.String("approved_by", approverUserID))
	return transfer, nil
}

// CompleteTransfer settles every line: the full requested reservation is
// released, shipped units leave current stock through an outbound ledger
// entry, and damaged units get their own zero-delta entry since they are
// already counted in the outbound one. Requested-but-unshipped units simply
// stay on hand; no compensating entry is written for them.
func (s *transferService) CompleteTransfer(ctx context.Context, transferNumber string, req dto.CompleteTransferRequest, completerUserID string) (*domain.Transfer, error) {
	outcomes := make(map[string]dto.CompleteTransferItemRequest, len(req.Items))
	for _, line := range req.Items {
		outcomes[line.StockSKU] = line
	}

	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.transferRepo.Rollback(ctx, tx)
	}()

	transfer, err := s.transferRepo.FindTransferByNumberForUpdate(ctx, tx, transferNumber)
	if err != nil {
		return nil, err
	}
	if transfer.Status != domain.TransferInTransit {
		return nil, fmt.Errorf("%w: cannot complete transfer %s in status %s", apperrors.ErrInvalidTransition, transferNumber, transfer.Status)
	}

	itemSKUs := make(map[string]bool, len(transfer.Items))
	skus := make([]string, 0, len(transfer.Items))
	for _, item := range transfer.Items {
		itemSKUs[item.StockSKU] = true
		skus = append(skus, item.StockSKU)
	}
	for sku := range outcomes {
		if !itemSKUs[sku] {
			// Reported outcome for a line the transfer never had; ignore it
			// rather than failing the whole completion.
			s.LogWarn(ctx, "completion outcome for unknown transfer line, skipping",
				slog.String("transfer_number", transferNumber),
				slog.String("sku", sku))
			delete(outcomes, sku)
		}
	}

	stocks, err := s.stockRepo.FindStocksBySKUsForUpdate(ctx, tx, skus)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range transfer.Items {
		item := &transfer.Items[i]

		// Lines omitted from the request are treated as fully shipped and received.
		shipped := item.QuantityRequested
		received := item.QuantityRequested
		var damaged int64
		if outcome, ok := outcomes[item.StockSKU]; ok {
			shipped = outcome.QuantityShipped
			received = outcome.QuantityReceived
			damaged = outcome.QuantityDamaged
		}
		if shipped > item.QuantityRequested {
			return nil, fmt.Errorf("%w: shipped %d exceeds requested %d for %s", apperrors.ErrValidation, shipped, item.QuantityRequested, item.StockSKU)
		}
		if received+damaged > shipped {
			return nil, fmt.Errorf("%w: received %d plus damaged %d exceeds shipped %d for %s", apperrors.ErrValidation, received, damaged, shipped, item.StockSKU)
		}

		stock, ok := stocks[item.StockSKU]
		if !ok {
			return nil, fmt.Errorf("%w: stock %s", apperrors.ErrNotFound, item.StockSKU)
		}

		// Release the full reservation and remove only what actually shipped.
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, item.StockSKU, -shipped, -item.QuantityRequested, completerUserID, now); err != nil {
			return nil, err
		}

		if shipped > 0 {
			outbound := domain.MovementEntry{
				StockSKU:      item.StockSKU,
				MovementType:  domain.MovementOutbound,
				Quantity:      shipped,
				QuantityDelta: -shipped,
				UnitCost:      stock.UnitCost,
				FromLocation:  transfer.FromLocation,
				ToLocation:    transfer.ToLocation,
				Reference:     transferNumber,
				ReferenceType: "Transfer",
				OccurredAt:    now,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     completerUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: completerUserID,
				},
			}
			if _, err := s.movementRepo.AppendMovementInTx(ctx, tx, outbound); err != nil {
				return nil, err
			}
		}
		if damaged > 0 {
			// Zero delta: the damaged units already left current stock with
			// the outbound entry above.
			damagedEntry := domain.MovementEntry{
				StockSKU:      item.StockSKU,
				MovementType:  domain.MovementDamaged,
				Quantity:      damaged,
				QuantityDelta: 0,
				UnitCost:      stock.UnitCost,
				FromLocation:  transfer.FromLocation,
				ToLocation:    transfer.ToLocation,
				Reference:     transferNumber,
				ReferenceType: "Transfer",
				Reason:        "damaged in transit",
				OccurredAt:    now,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     completerUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: completerUserID,
				},
			}
			if _, err := s.movementRepo.AppendMovementInTx(ctx, tx, damagedEntry); err != nil {
				return nil, err
			}
		}

		item.QuantityShipped = shipped
		item.QuantityReceived = received
		item.QuantityDamaged = damaged
		item.LastUpdatedAt = now
		item.LastUpdatedBy = completerUserID
		if err := s.transferRepo.UpdateTransferItemInTx(ctx, tx, *item); err != nil {
			return nil, err
		}
	}

	transfer.Status = domain.TransferCompleted
	transfer.CompletedBy = completerUserID
	transfer.CompletedDate = &now
	if req.TrackingNumber != "" {
		transfer.TrackingNumber = req.TrackingNumber
	}
	if req.Carrier != "" {
		transfer.Carrier = req.Carrier
	}
	if req.ActualCost != nil {
		transfer.ActualCost = *req.ActualCost
	}
	if req.Notes != "" {
		transfer.Notes = req.Notes
	}
	transfer.LastUpdatedAt = now
	transfer.LastUpdatedBy = completerUserID

	if err := s.transferRepo.UpdateTransferStatusInTx(ctx, tx, *transfer); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.LogInfo(ctx, "transfer completed", slog.String("transfer_number", transferNumber), slog.String("completed_by", completerUserID))
	return transfer, nil
}

func (s *transferService) CancelTransfer(ctx context.Context, transferNumber string, userID string) (*domain.Transfer, error) {
	transfer, err := s.releaseAndTransition(ctx, transferNumber, userID, func(t *domain.Transfer) error {
		if !t.CanBeCancelled() {
			return fmt.Errorf("%w: cannot cancel transfer %s in status %s", apperrors.ErrInvalidTransition, transferNumber, t.Status)
		}
		t.Status = domain.TransferCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "transfer cancelled", slog.String("transfer_number", transferNumber), slog.String("cancelled_by", userID))
	return transfer, nil
}

func (s *transferService) FailTransfer(ctx context.Context, transferNumber string, reason string, userID string) (*domain.Transfer, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: failure reason is required", apperrors.ErrValidation)
	}
	transfer, err := s.releaseAndTransition(ctx, transferNumber, userID, func(t *domain.Transfer) error {
		if t.Status != domain.TransferInTransit {
			return fmt.Errorf("%w: cannot fail transfer %s in status %s", apperrors.ErrInvalidTransition, transferNumber, t.Status)
		}
		t.Status = domain.TransferFailed
		if t.Notes == "" {
			t.Notes = reason
		} else {
			t.Notes = t.Notes + "\n" + reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogWarn(ctx, "transfer failed", slog.String("transfer_number", transferNumber), slog.String("reason", reason))
	return transfer, nil
}

// releaseAndTransition locks the transfer, applies the transition, releases
// every item's reservation in full and commits. Cancel and fail share this
// path since both return the transfer to a state with nothing reserved.
func (s *transferService) releaseAndTransition(ctx context.Context, transferNumber string, userID string, transition func(*domain.Transfer) error) (*domain.Transfer, error) {
	tx, err := s.transferRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.transferRepo.Rollback(ctx, tx)
	}()

	transfer, err := s.transferRepo.FindTransferByNumberForUpdate(ctx, tx, transferNumber)
	if err != nil {
		return nil, err
	}
	if err := transition(transfer); err != nil {
		return nil, err
	}

	if err := s.releaseItemReservations(ctx, tx, transfer, userID); err != nil {
		return nil, err
	}

	now := s.now()
	transfer.LastUpdatedAt = now
	transfer.LastUpdatedBy = userID
	if err := s.transferRepo.UpdateTransferStatusInTx(ctx, tx, *transfer); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return transfer, nil
}

func (s *transferService) releaseItemReservations(ctx context.Context, tx pgx.Tx, transfer *domain.Transfer, userID string) error {
	skus := make([]string, 0, len(transfer.Items))
	for _, item := range transfer.Items {
		skus = append(skus, item.StockSKU)
	}
	if _, err := s.stockRepo.FindStocksBySKUsForUpdate(ctx, tx, skus); err != nil {
		return err
	}
	now := s.now()
	for _, item := range transfer.Items {
		if item.QuantityRequested == 0 {
			continue
		}
		if err := s.stockRepo.UpdateStockLevelsInTx(ctx, tx, item.StockSKU, 0, -item.QuantityRequested, userID, now); err != nil {
			return err
		}
	}
	return nil
}
