package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
)

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

// publishEvent fires ev after a successful write. The write already
// happened, so failures are only logged.
func publishEvent(ctx context.Context, pub EventPublisher, logger *slog.Logger, ev queue.LeadEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishLeadEvent(ctx, ev); err != nil {
		logger.Warn("failed to publish lead event", "type", ev.Type, "lead_id", ev.LeadID, "error", err)
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
