package ports

import (
	"context"
	"time"
)

// ProductEventType names a committed change to the catalog.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductRemoved ProductEventType = "product.removed"
)

// ProductEvent is emitted after a catalog transaction commits.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  string           `json:"product_id"`
	Slug       string           `json:"slug"`
	ActorID    string           `json:"actor_id,omitempty"`
	Images     int              `json:"images"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventSink accepts committed events for asynchronous delivery.
type EventSink interface {
	Enqueue(event ProductEvent)
}

// EventPublisher delivers one event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event ProductEvent) error
}
