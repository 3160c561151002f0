package publish

import (
	"context"
	"log/slog"

	"github.com/star/issview/internal/metrics"
)

var _ Publisher = (*Log)(nil)

// Log writes fixes to a logger. It is the default when no broker is set.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log publisher.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "publish", "backend", "log")}
}

// Publish logs fix at INFO.
func (l *Log) Publish(ctx context.Context, fix Fix) error {
	body, err := Encode(fix)
	metrics.RecordPublish("log", err)
	if err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "iss fix", "geojson", string(body))
	return nil
}

// Close is a no-op.
func (l *Log) Close() error { return nil }
