package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"rentnest/internal/domain/shared/events"
)

// Notifier publishes booking lifecycle events to a Kafka topic, keyed by
// aggregate id so events for one booking stay ordered within a partition.
// Publish failures are logged and dropped: notification delivery is
// best-effort and must never fail a booking operation.
type Notifier struct {
	Producer *Producer
	Topic    string
	Logger   *slog.Logger
}

type envelope struct {
	Name       string    `json:"name"`
	Aggregate  string    `json:"aggregate_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func (n Notifier) Notify(ctx context.Context, event events.DomainEvent) {
	payload, err := json.Marshal(envelope{
		Name:       event.EventName(),
		Aggregate:  event.AggregateID(),
		OccurredAt: event.OccurredAt(),
		Data:       event,
	})
	if err != nil {
		n.logError("notification encode failed", event, err)
		return
	}
	headers := map[string]string{"event": event.EventName()}
	if err := n.Producer.Publish(ctx, n.Topic, event.AggregateID(), payload, headers); err != nil {
		n.logError("notification publish failed", event, err)
	}
}

func (n Notifier) logError(msg string, event events.DomainEvent, err error) {
	if n.Logger != nil {
		n.Logger.Error(msg, "event", event.EventName(), "aggregate_id", event.AggregateID(), "error", err)
	}
}
