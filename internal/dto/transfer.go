package dto

import (
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferItemRequest is one requested line of a new transfer.
type CreateTransferItemRequest struct {
	StockSKU string `json:"stockSKU" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Notes    string `json:"notes"`
}

// CreateTransferRequest defines the data needed to create a transfer.
type CreateTransferRequest struct {
	FromLocation     string                      `json:"fromLocation" binding:"required"`
	ToLocation       string                      `json:"toLocation" binding:"required,nefield=FromLocation"`
	Priority         domain.TransferPriority     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Reason           string                      `json:"reason"`
	Notes            string                      `json:"notes"`
	RequiresApproval bool                        `json:"requiresApproval"`
	ScheduledDate    *time.Time                  `json:"scheduledDate"`
	EstimatedCost    *decimal.Decimal            `json:"estimatedCost"`
	Items            []CreateTransferItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CompleteTransferItemRequest reports the outcome of one line on completion.
// Lines omitted from the request are treated as fully received.
type CompleteTransferItemRequest struct {
	StockSKU         string `json:"stockSKU" binding:"required"`
	QuantityShipped  int64  `json:"quantityShipped" binding:"min=0"`
	QuantityReceived int64  `json:"quantityReceived" binding:"min=0"`
	QuantityDamaged  int64  `json:"quantityDamaged" binding:"min=0"`
}

// CompleteTransferRequest defines the data accepted when completing a transfer.
type CompleteTransferRequest struct {
	Items          []CompleteTransferItemRequest `json:"items" binding:"omitempty,dive"`
	TrackingNumber string                        `json:"trackingNumber"`
	Carrier        string                        `json:"carrier"`
	ActualCost     *decimal.Decimal              `json:"actualCost"`
	Notes          string                        `json:"notes"`
}

// FailTransferRequest defines the data accepted when marking a transfer failed.
type FailTransferRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransferItemResponse defines the data returned for one transfer line.
type TransferItemResponse struct {
	StockSKU          string          `json:"stockSKU"`
	QuantityRequested int64           `json:"quantityRequested"`
	QuantityShipped   int64           `json:"quantityShipped"`
	QuantityReceived  int64           `json:"quantityReceived"`
	QuantityDamaged   int64           `json:"quantityDamaged"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	Notes             string          `json:"notes,omitempty"`
}

// TransferResponse defines the data returned for a transfer.
type TransferResponse struct {
	TransferNumber   string                  `json:"transferNumber"`
	Status           domain.TransferStatus   `json:"status"`
	Priority         domain.TransferPriority `json:"priority"`
	FromLocation     string                  `json:"fromLocation"`
	ToLocation       string                  `json:"toLocation"`
	Reason           string                  `json:"reason,omitempty"`
	Notes            string                  `json:"notes,omitempty"`
	TrackingNumber   string                  `json:"trackingNumber,omitempty"`
	Carrier          string                  `json:"carrier,omitempty"`
	EstimatedCost    decimal.Decimal         `json:"estimatedCost"`
	ActualCost       decimal.Decimal         `json:"actualCost"`
	RequiresApproval bool                    `json:"requiresApproval"`
	RequestedBy      string                  `json:"requestedBy"`
	ApprovedBy       string                  `json:"approvedBy,omitempty"`
	CompletedBy      string                  `json:"completedBy,omitempty"`
	RequestedDate    *time.Time              `json:"requestedDate,omitempty"`
	ScheduledDate    *time.Time              `json:"scheduledDate,omitempty"`
	StartedDate      *time.Time              `json:"startedDate,omitempty"`
	CompletedDate    *time.Time              `json:"completedDate,omitempty"`
	Items            []TransferItemResponse  `json:"items"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
	LastUpdatedAt    time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy    string                  `json:"lastUpdatedBy"`
}

// ToTransferItemResponse converts a domain.TransferItem to TransferItemResponse DTO.
func ToTransferItemResponse(item *domain.TransferItem) TransferItemResponse {
	return TransferItemResponse{
		StockSKU:          item.StockSKU,
		QuantityRequested: item.QuantityRequested,
		QuantityShipped:   item.QuantityShipped,
		QuantityReceived:  item.QuantityReceived,
		QuantityDamaged:   item.QuantityDamaged,
		UnitCost:          item.UnitCost,
		Notes:             item.Notes,
	}
}

// ToTransferResponse converts a domain.Transfer to TransferResponse DTO.
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	items := make([]TransferItemResponse, len(t.Items))
	for i, item := range t.Items {
		items[i] = ToTransferItemResponse(&item)
	}
	return TransferResponse{
		TransferNumber:   t.TransferNumber,
		Status:           t.Status,
		Priority:         t.Priority,
		FromLocation:     t.FromLocation,
		ToLocation:       t.ToLocation,
		Reason:           t.Reason,
		Notes:            t.Notes,
		TrackingNumber:   t.TrackingNumber,
		Carrier:          t.Carrier,
		EstimatedCost:    t.EstimatedCost,
		ActualCost:       t.ActualCost,
		RequiresApproval: t.RequiresApproval,
		RequestedBy:      t.RequestedBy,
		ApprovedBy:       t.ApprovedBy,
		CompletedBy:      t.CompletedBy,
		RequestedDate:    t.RequestedDate,
		ScheduledDate:    t.ScheduledDate,
		StartedDate:      t.StartedDate,
		CompletedDate:    t.CompletedDate,
		Items:            items,
		CreatedAt:        t.CreatedAt,
		CreatedBy:        t.CreatedBy,
		LastUpdatedAt:    t.LastUpdatedAt,
		LastUpdatedBy:    t.LastUpdatedBy,
	}
}

// ToListTransferResponse converts a slice of domain.Transfer to []TransferResponse.
func ToListTransferResponse(transfers []domain.Transfer) []TransferResponse {
	res := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		res[i] = ToTransferResponse(&t)
	}
	return res
}

// ListTransfersParams defines query parameters for listing transfers.
type ListTransfersParams struct {
	Limit        int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"offset,default=0" binding:"omitempty,min=0"`
	Status       string `form:"status" binding:"omitempty,oneof=draft pending in_transit completed cancelled failed"`
	Priority     string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	FromLocation string `form:"fromLocation"`
	ToLocation   string `form:"toLocation"`
	RequestedBy  string `form:"requestedBy"`
}

// ListTransfersResponse wraps the list of transfers with the total match count.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}
