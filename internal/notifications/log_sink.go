package notifications

import (
	"context"
	"log/slog"

	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// LogSink publishes raised alerts to the structured log. It is the default
// sink; deployments wanting email or chat delivery swap in their own
// implementation of the same interface.
type LogSink struct{}

// NewLogSink creates a new log-backed notification sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Publish writes one log line per alert. It never fails and never blocks the
// evaluator.
func (s *LogSink) Publish(ctx context.Context, alert domain.Alert) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("alert raised",
		slog.String("alert_id", alert.AlertID),
		slog.String("rule_id", alert.RuleID),
		slog.String("sku", alert.StockSKU),
		slog.String("alert_type", string(alert.Type)),
		slog.String("severity", string(alert.Severity)),
		slog.String("title", alert.Title),
		slog.Int64("available_stock", alert.SnapshotAvailable))
}
