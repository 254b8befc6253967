package behavior

import (
	"context"

	"github.com/sabq/behavior-service/internal/domain"
)

// NoopPublisher is the default when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishInteraction(ctx context.Context, e domain.InteractionEvent) error {
	return nil
}
