package domain_test

import (
	"testing"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransfer_CanBeCancelled(t *testing.T) {
	tests := []struct {
		status domain.TransferStatus
		want   bool
	}{
		{domain.TransferDraft, true},
		{domain.TransferPending, true},
		{domain.TransferInTransit, false},
		{domain.TransferCompleted, false},
		{domain.TransferCancelled, false},
		{domain.TransferFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			transfer := domain.Transfer{Status: tt.status}
			assert.Equal(t, tt.want, transfer.CanBeCancelled())
		})
	}
}

func TestTransfer_IsTerminal(t *testing.T) {
	tests := []struct {
		status domain.TransferStatus
		want   bool
	}{
		{domain.TransferDraft, false},
		{domain.TransferPending, false},
		{domain.TransferInTransit, false},
		{domain.TransferCompleted, true},
		{domain.TransferCancelled, true},
		{domain.TransferFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			transfer := domain.Transfer{Status: tt.status}
			assert.Equal(t, tt.want, transfer.IsTerminal())
		})
	}
}

func TestTransfer_TotalRequestedQuantity(t *testing.T) {
	transfer := domain.Transfer{
		Items: []domain.TransferItem{
			{StockSKU: "SKU-001", QuantityRequested: 10},
			{StockSKU: "SKU-002", QuantityRequested: 25},
		},
	}
	assert.Equal(t, int64(35), transfer.TotalRequestedQuantity())

	empty := domain.Transfer{}
	assert.Equal(t, int64(0), empty.TotalRequestedQuantity())
}

func TestTransferItem_ShortageQuantity(t *testing.T) {
	tests := []struct {
		name string
		item domain.TransferItem
		want int64
	}{
		{
			name: "fully shipped",
			item: domain.TransferItem{QuantityRequested: 10, QuantityShipped: 10},
			want: 0,
		},
		{
			name: "partial shipment",
			item: domain.TransferItem{QuantityRequested: 10, QuantityShipped: 7},
			want: 3,
		},
		{
			name: "nothing shipped",
			item: domain.TransferItem{QuantityRequested: 10, QuantityShipped: 0},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.ShortageQuantity())
		})
	}
}

func TestTransferItem_IsFullyShipped(t *testing.T) {
	shipped := domain.TransferItem{QuantityRequested: 5, QuantityShipped: 5}
	assert.True(t, shipped.IsFullyShipped())

	short := domain.TransferItem{QuantityRequested: 5, QuantityShipped: 4}
	assert.False(t, short.IsFullyShipped())
}
