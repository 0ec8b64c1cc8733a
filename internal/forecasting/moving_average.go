package forecasting

import (
	"context"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
)

const (
	// Confidence decays linearly across the horizon from start to end.
	startConfidence = 0.8
	endConfidence   = 0.4
)

// MovingAverageProvider predicts demand as the average daily outflow observed
// in the supplied history, flat across the horizon. Deliberately simple; it
// exists so reorder advice works out of the box and a real model can replace
// it behind the same interface.
type MovingAverageProvider struct {
	windowDays int
	now        func() time.Time
}

// NewMovingAverageProvider creates a provider averaging over windowDays of history.
func NewMovingAverageProvider(windowDays int) *MovingAverageProvider {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &MovingAverageProvider{
		windowDays: windowDays,
		now:        time.Now,
	}
}

// ForecastDemand returns one flat demand point per day of the horizon.
func (p *MovingAverageProvider) ForecastDemand(ctx context.Context, sku string, history []domain.MovementEntry, horizonDays int) ([]domain.DemandPoint, error) {
	if horizonDays <= 0 {
		return nil, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.windowDays)
	var outflow int64
	for _, entry := range history {
		if entry.OccurredAt.Before(cutoff) {
			continue
		}
		if entry.QuantityDelta < 0 {
			outflow += -entry.QuantityDelta
		}
	}
	dailyDemand := float64(outflow) / float64(p.windowDays)

	today := p.now().Truncate(24 * time.Hour)
	points := make([]domain.DemandPoint, horizonDays)
	for i := 0; i < horizonDays; i++ {
		confidence := startConfidence
		if horizonDays > 1 {
			confidence = startConfidence - (startConfidence-endConfidence)*float64(i)/float64(horizonDays-1)
		}
		points[i] = domain.DemandPoint{
			Date:         today.AddDate(0, 0, i+1),
			PredictedQty: dailyDemand,
			Confidence:   confidence,
		}
	}
	return points, nil
}
