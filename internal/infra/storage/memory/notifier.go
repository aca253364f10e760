package memory

import (
	"context"
	"log/slog"
	"sync"

	"rentnest/internal/domain/shared/events"
)

// Notifier records delivered events in memory; it stands in for the
// notification collaborator in dev mode and in tests.
type Notifier struct {
	Logger *slog.Logger

	mu        sync.Mutex
	delivered []events.DomainEvent
}

func (n *Notifier) Notify(ctx context.Context, event events.DomainEvent) {
	n.mu.Lock()
	n.delivered = append(n.delivered, event)
	n.mu.Unlock()
	if n.Logger != nil {
		n.Logger.Info("notification", "event", event.EventName(), "aggregate_id", event.AggregateID())
	}
}

// Delivered returns a snapshot of everything notified so far.
func (n *Notifier) Delivered() []events.DomainEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]events.DomainEvent, len(n.delivered))
	copy(out, n.delivered)
	return out
}
