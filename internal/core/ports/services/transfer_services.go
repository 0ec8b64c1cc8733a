package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// TransferReaderSvc defines read operations for transfers. Reads are never
// state-changing and are legal from any status.
type TransferReaderSvc interface {
	// GetTransfer retrieves a transfer with its items.
	GetTransfer(ctx context.Context, transferNumber string) (*domain.Transfer, error)

	// ListTransfers retrieves a filtered, paginated list of transfers.
	ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error)

	// GetTransferStats counts transfers per lifecycle state.
	GetTransferStats(ctx context.Context) (*domain.TransferStats, error)
}

// TransferLifecycleSvc drives the transfer state machine. Every transition is
// one atomic unit of work covering the transfer, its items, the affected
// stock accounts and the appended ledger entries.
type TransferLifecycleSvc interface {
	// CreateTransfer validates and reserves every line's quantity
	// all-or-nothing; any line failing availability rolls the whole creation
	// back. The new transfer starts pending when approval is required,
	// in_transit otherwise.
	CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, requesterUserID string) (*domain.Transfer, error)

	// ApproveTransfer moves pending -> in_transit, stamping the approver.
	ApproveTransfer(ctx context.Context, transferNumber string, approverUserID string) (*domain.Transfer, error)

	// CompleteTransfer moves in_transit -> completed, releasing each item's
	// reservation and appending outbound (and damaged, if any) entries.
	CompleteTransfer(ctx context.Context, transferNumber string, req dto.CompleteTransferRequest, completerUserID string) (*domain.Transfer, error)

	// CancelTransfer moves draft|pending -> cancelled, releasing every
	// reservation in full.
	CancelTransfer(ctx context.Context, transferNumber string, userID string) (*domain.Transfer, error)

	// FailTransfer moves in_transit -> failed, releasing reservations.
	FailTransfer(ctx context.Context, transferNumber string, reason string, userID string) (*domain.Transfer, error)
}

// TransferSvcFacade combines all transfer-related service interfaces.
type TransferSvcFacade interface {
	TransferReaderSvc
	TransferLifecycleSvc
}
