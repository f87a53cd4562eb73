package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/middleware"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

const (
	defaultTickInterval = time.Minute
	defaultBatchSize    = 100
)

// FollowUpWorker turns due follow-up dates into lead.follow_up_due events.
// Each lead is reminded once per nextFollowUp value.
type FollowUpWorker struct {
	leads        entity.LeadRepositoryInterface
	events       usecase.EventPublisher
	logger       *slog.Logger
	tickInterval time.Duration
	batchSize    int
	now          func() time.Time
}

func NewFollowUpWorker(leads entity.LeadRepositoryInterface, events usecase.EventPublisher, logger *slog.Logger, tick time.Duration) *FollowUpWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if tick <= 0 {
		tick = defaultTickInterval
	}
	return &FollowUpWorker{
		leads:        leads,
		events:       events,
		logger:       logger.With("component", "follow-up-worker"),
		tickInterval: tick,
		batchSize:    defaultBatchSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	w.logger.Info("follow-up worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.remindDue(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("follow-up worker stopped")
			return
		case <-ticker.C:
			w.remindDue(ctx)
		}
	}
}

// remindDue processes one batch and returns how many reminders were published.
func (w *FollowUpWorker) remindDue(ctx context.Context) int {
	now := w.now()

	leads, err := w.leads.FindDueFollowUps(ctx, now, w.batchSize)
	if err != nil {
		w.logger.Error("failed to load due follow-ups", "error", err)
		return 0
	}

	sent := 0
	for i := range leads {
		lead := &leads[i]
		log := w.logger.With("lead_id", lead.ID)

		if !lead.IsAssigned() || lead.AssignedTo.Email == "" {
			// Nobody to remind; mark it so it is not picked up every tick.
			if err := w.leads.MarkFollowUpNotified(ctx, lead.ID, now); err != nil {
				log.Warn("failed to mark follow-up", "error", err)
			}
			middleware.RecordFollowUpReminder("skipped")
			continue
		}

		ev := queue.NewLeadEvent(queue.EventLeadFollowUpDue, lead.ID, lead.Name)
		ev.Company = lead.Company
		ev.Value = lead.Value
		ev.DueAt = lead.NextFollowUp
		ev.AssigneeID = lead.AssignedTo.ID
		ev.AssigneeName = lead.AssignedTo.Name
		ev.AssigneeEmail = lead.AssignedTo.Email

		if err := w.events.PublishLeadEvent(ctx, ev); err != nil {
			// Left unmarked, so the next tick retries it.
			log.Warn("failed to publish follow-up reminder", "error", err)
			middleware.RecordFollowUpReminder("failed")
			continue
		}

		if err := w.leads.MarkFollowUpNotified(ctx, lead.ID, now); err != nil {
			log.Warn("failed to mark follow-up", "error", err)
		}
		middleware.RecordFollowUpReminder("sent")
		sent++
	}

	if sent > 0 {
		w.logger.Info("follow-up reminders published", "count", sent)
	}
	return sent
}
