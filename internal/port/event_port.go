package port

import "context"

const (
	TopicOrderCreated       = "orders.created"
	TopicOrderStatusChanged = "orders.status_changed"
)

// EventPublisher publishes events to a message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}
