package services

import (
	"context"

	"github.com/SscSPs/inventory_management_app/internal/dto"
)

// LedgerSvcFacade exposes read access to the movement ledger.
type LedgerSvcFacade interface {
	// GetMovement retrieves one ledger entry by sequence id.
	GetMovement(ctx context.Context, movementID int64) (*dto.MovementResponse, error)

	// ListMovements retrieves a token-paginated slice of a SKU's history,
	// ordered by occurred_at ascending with ties broken by sequence id.
	ListMovements(ctx context.Context, sku string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// ListRecent retrieves the latest entries across all SKUs, newest first.
	ListRecent(ctx context.Context, limit int) ([]dto.MovementResponse, error)

	// VerifyReplay replays a SKU's full ledger and compares the summed signed
	// effects against the account's current stock. A mismatch is reported as
	// an integrity failure, never repaired silently.
	VerifyReplay(ctx context.Context, sku string) (*dto.LedgerReplayResult, error)
}
