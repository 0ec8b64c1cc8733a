package forecasting_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/forecasting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outflow(daysAgo int, quantity int64) domain.MovementEntry {
	return domain.MovementEntry{
		MovementType:  domain.MovementOutbound,
		Quantity:      quantity,
		QuantityDelta: -quantity,
		OccurredAt:    time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestMovingAverageProvider_FlatSeries(t *testing.T) {
	provider := forecasting.NewMovingAverageProvider(30)
	history := []domain.MovementEntry{
		outflow(5, 30),
		outflow(10, 30),
		// Receipts are not demand.
		{MovementType: domain.MovementInbound, Quantity: 100, QuantityDelta: 100, OccurredAt: time.Now().AddDate(0, 0, -3)},
	}

	points, err := provider.ForecastDemand(context.Background(), "SKU-001", history, 14)

	require.NoError(t, err)
	require.Len(t, points, 14)
	for _, point := range points {
		assert.InDelta(t, 2.0, point.PredictedQty, 1e-9) // 60 units over 30 days
	}
}

func TestMovingAverageProvider_IgnoresHistoryOutsideWindow(t *testing.T) {
	provider := forecasting.NewMovingAverageProvider(30)
	history := []domain.MovementEntry{
		outflow(5, 30),
		outflow(60, 300), // outside the 30-day window
	}

	points, err := provider.ForecastDemand(context.Background(), "SKU-001", history, 7)

	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.InDelta(t, 1.0, points[0].PredictedQty, 1e-9)
}

func TestMovingAverageProvider_ConfidenceDecays(t *testing.T) {
	provider := forecasting.NewMovingAverageProvider(30)

	points, err := provider.ForecastDemand(context.Background(), "SKU-001", nil, 10)

	require.NoError(t, err)
	require.Len(t, points, 10)
	assert.InDelta(t, 0.8, points[0].Confidence, 1e-9)
	assert.InDelta(t, 0.4, points[len(points)-1].Confidence, 1e-9)
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i].Confidence, points[i-1].Confidence)
	}
}

func TestMovingAverageProvider_ZeroHorizon(t *testing.T) {
	provider := forecasting.NewMovingAverageProvider(30)

	points, err := provider.ForecastDemand(context.Background(), "SKU-001", nil, 0)

	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestMovingAverageProvider_DatesAreSequentialDays(t *testing.T) {
	provider := forecasting.NewMovingAverageProvider(30)

	points, err := provider.ForecastDemand(context.Background(), "SKU-001", nil, 3)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, points[0].Date.AddDate(0, 0, 1), points[1].Date)
	assert.Equal(t, points[1].Date.AddDate(0, 0, 1), points[2].Date)
}
