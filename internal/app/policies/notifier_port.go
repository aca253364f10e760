package policies

import (
	"context"

	"rentnest/internal/domain/shared/events"
)

// Notifier delivers booking lifecycle events to the notification
// collaborator. Delivery is best-effort: implementations must never block
// the calling operation and have no failure to report back.
type Notifier interface {
	Notify(ctx context.Context, event events.DomainEvent)
}
