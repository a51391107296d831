// Package alerting provides infrastructure sinks for domain alerts.
package alerting

import (
	"context"

	"petrolog/internal/domain/alerting"
	"petrolog/pkg/logger"
)

// LogSink emits low-stock alerts as structured warnings. It is the
// default sink; deployments with a notification channel can swap in
// their own alerting.Sink.
type LogSink struct{}

// NewLogSink creates a log-backed alert sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// RaiseLowStock implements alerting.Sink.
func (s *LogSink) RaiseLowStock(ctx context.Context, alert alerting.LowStockAlert) error {
	fields := []any{
		"product_id", alert.ProductID,
		"quantity", alert.Quantity.String(),
		"threshold", alert.Threshold.String(),
		"at", alert.At,
	}
	if alert.DepotID != nil {
		fields = append(fields, "depot_id", *alert.DepotID)
	}
	logger.Warn(ctx, "low stock level", fields...)
	return nil
}

var _ alerting.Sink = (*LogSink)(nil)
