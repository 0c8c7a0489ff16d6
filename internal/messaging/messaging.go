package messaging

import (
	"context"

	"github.com/nikolayk812/storefront/internal/port"
)

type nopPublisher struct{}

// NewNop returns a publisher that drops every event. Used when no broker is configured.
func NewNop() port.EventPublisher {
	return nopPublisher{}
}

func (nopPublisher) PublishEvent(context.Context, string, string, any) error {
	return nil
}
