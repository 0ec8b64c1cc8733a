package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAlert_EffectiveSeverity(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		severity domain.AlertSeverity
		ageHours int
		resolved bool
		want     domain.AlertSeverity
	}{
		{
			name:     "fresh warning stays warning",
			severity: domain.SeverityWarning,
			ageHours: 2,
			want:     domain.SeverityWarning,
		},
		{
			name:     "warning older than a day escalates to critical",
			severity: domain.SeverityWarning,
			ageHours: 30,
			want:     domain.SeverityCritical,
		},
		{
			name:     "info older than a day escalates to critical",
			severity: domain.SeverityInfo,
			ageHours: 25,
			want:     domain.SeverityCritical,
		},
		{
			name:     "anything older than three days escalates to urgent",
			severity: domain.SeverityWarning,
			ageHours: 80,
			want:     domain.SeverityUrgent,
		},
		{
			name:     "critical under three days stays critical",
			severity: domain.SeverityCritical,
			ageHours: 30,
			want:     domain.SeverityCritical,
		},
		{
			name:     "urgent never changes",
			severity: domain.SeverityUrgent,
			ageHours: 100,
			want:     domain.SeverityUrgent,
		},
		{
			name:     "resolved alerts never escalate",
			severity: domain.SeverityWarning,
			ageHours: 100,
			resolved: true,
			want:     domain.SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := domain.Alert{
				Severity:   tt.severity,
				IsResolved: tt.resolved,
				CreatedAt:  now.Add(-time.Duration(tt.ageHours) * time.Hour),
			}
			assert.Equal(t, tt.want, alert.EffectiveSeverity(now))
		})
	}
}

func TestAlert_AgeHours(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	alert := domain.Alert{CreatedAt: now.Add(-90 * time.Minute)}
	assert.InDelta(t, 1.5, alert.AgeHours(now), 1e-9)
}
