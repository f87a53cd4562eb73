package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers the human-facing side of a lead event.
type Notifier interface {
	SendLeadAssigned(to, assigneeName, leadName, leadID string) error
	SendFollowUpReminder(to, assigneeName, leadName, leadID string) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier Notifier
	Logger   *slog.Logger
}

func NewWorker(ch Consumer, notifier Notifier, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger.With("component", "lead-event-worker"),
	}
}

var errNoRecipient = errors.New("event has no assignee email")

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for messages", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed")
				return nil
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	var event LeadEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("malformed message, dead-lettering", "error", err)
		d.Nack(false, false)
		return
	}

	log := w.Logger.With("event_id", event.ID, "type", event.Type, "lead_id", event.LeadID)

	err := w.process(event)
	switch {
	case errors.Is(err, errNoRecipient):
		log.Warn("no recipient for notification, skipping")
		d.Ack(false)
	case err != nil:
		log.Error("notification failed", "error", err)
		d.Nack(false, false)
	default:
		log.Info("notification sent")
		d.Ack(false)
	}
}

func (w *Worker) process(event LeadEvent) error {
	switch event.Type {
	case EventLeadAssigned:
		if event.AssigneeEmail == "" {
			return errNoRecipient
		}
		return w.Notifier.SendLeadAssigned(event.AssigneeEmail, event.AssigneeName, event.LeadName, event.LeadID)
	case EventLeadFollowUpDue:
		if event.AssigneeEmail == "" {
			return errNoRecipient
		}
		return w.Notifier.SendFollowUpReminder(event.AssigneeEmail, event.AssigneeName, event.LeadName, event.LeadID)
	default:
		// Not a notification; nothing to do but drop it from the queue.
		return nil
	}
}
