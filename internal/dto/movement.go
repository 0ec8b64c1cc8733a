package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementResponse defines the data returned for a single ledger entry.
type MovementResponse struct {
	MovementID         int64               `json:"movementID"`
	StockSKU           string              `json:"stockSKU"`
	MovementType       domain.MovementType `json:"movementType"`
	Quantity           int64               `json:"quantity"`
	QuantityDelta      int64               `json:"quantityDelta"`
	UnitCost           decimal.Decimal     `json:"unitCost"`
	FromLocation       string              `json:"fromLocation,omitempty"`
	ToLocation         string              `json:"toLocation,omitempty"`
	Reference          string              `json:"reference,omitempty"`
	ReferenceType      string              `json:"referenceType,omitempty"`
	CorrectsMovementID *int64              `json:"correctsMovementID,omitempty"`
	Reason             string              `json:"reason,omitempty"`
	OccurredAt         time.Time           `json:"occurredAt"`
	CreatedAt          time.Time           `json:"createdAt"`
	CreatedBy          string              `json:"createdBy"`
}

// ToMovementResponse converts a domain.MovementEntry to MovementResponse DTO.
func ToMovementResponse(m *domain.MovementEntry) MovementResponse {
	return MovementResponse{
		MovementID:         m.MovementID,
		StockSKU:           m.StockSKU,
		MovementType:       m.MovementType,
		Quantity:           m.Quantity,
		QuantityDelta:      m.QuantityDelta,
		UnitCost:           m.UnitCost,
		FromLocation:       m.FromLocation,
		ToLocation:         m.ToLocation,
		Reference:          m.Reference,
		ReferenceType:      m.ReferenceType,
		CorrectsMovementID: m.CorrectsMovementID,
		Reason:             m.Reason,
		OccurredAt:         m.OccurredAt,
		CreatedAt:          m.CreatedAt,
		CreatedBy:          m.CreatedBy,
	}
}

// ToMovementResponses converts a slice of domain.MovementEntry to []MovementResponse.
func ToMovementResponses(entries []domain.MovementEntry) []MovementResponse {
	responses := make([]MovementResponse, len(entries))
	for i, m := range entries {
		responses[i] = ToMovementResponse(&m)
	}
	return responses
}

// ListMovementsParams defines query parameters for listing a SKU's movement history.
// Pagination is token-based so the history stays stable while new entries append.
type ListMovementsParams struct {
	Limit     int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Since     *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until     *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	NextToken *string    `form:"nextToken"`
}

// ListMovementsResponse wraps a page of movement entries.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// LedgerReplayResult reports whether replaying a SKU's ledger reproduces its
// current stock level.
type LedgerReplayResult struct {
	StockSKU      string `json:"stockSKU"`
	CurrentStock  int64  `json:"currentStock"`
	ReplayedStock int64  `json:"replayedStock"`
	Consistent    bool   `json:"consistent"`
}
