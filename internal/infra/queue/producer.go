package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/middleware"
)

// LeadEvent is the message put on the lead exchange. Type is also the routing key.
type LeadEvent struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	LeadID     string     `json:"lead_id"`
	LeadName   string     `json:"lead_name"`
	LeadEmail  string     `json:"lead_email,omitempty"`
	Company    string     `json:"company,omitempty"`
	FromStatus string     `json:"from_status,omitempty"`
	ToStatus   string     `json:"to_status,omitempty"`
	Value      float64    `json:"value,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`

	AssigneeID    string `json:"assignee_id,omitempty"`
	AssigneeName  string `json:"assignee_name,omitempty"`
	AssigneeEmail string `json:"assignee_email,omitempty"`

	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLeadEvent stamps a fresh id and time.
func NewLeadEvent(eventType, leadID, leadName string) LeadEvent {
	return LeadEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		LeadID:     leadID,
		LeadName:   leadName,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		middleware.RecordLeadEvent(event.Type, "failed")
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		event.Type,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		middleware.RecordLeadEvent(event.Type, "failed")
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	middleware.RecordLeadEvent(event.Type, "published")
	return nil
}
