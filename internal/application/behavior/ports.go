package behavior

import (
	"context"
	"time"

	"github.com/sabq/behavior-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// EventStore is the append-only interaction log.
type EventStore interface {
	Append(ctx context.Context, e domain.InteractionEvent) error
	// RecentByUser returns up to limit events, most recent first.
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.InteractionEvent, error)
}

// ProfileStore holds the per (user, category) interest aggregates plus the
// denormalized per-user summary the aggregator overwrites wholesale.
type ProfileStore interface {
	// GetInterest returns nil (no error) when the pair has no entry yet.
	GetInterest(ctx context.Context, userID, category string) (*domain.InterestEntry, error)
	UpsertInterest(ctx context.Context, e domain.InterestEntry) error
	// ListInterests returns all entries for the user, score descending.
	ListInterests(ctx context.Context, userID string) ([]domain.InterestEntry, error)
	SaveInterestSummary(ctx context.Context, userID string, entries []domain.InterestEntry) error
}

type SessionStore interface {
	// Upsert creates the session on first sight and bumps LastActivityAt on
	// subsequent calls; StartedAt is kept from the first write.
	Upsert(ctx context.Context, s domain.Session) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Session, error)
}

// ContentStore is the read-only content catalog.
type ContentStore interface {
	// ByCategory returns published content, newest first, views as tie-break.
	ByCategory(ctx context.Context, category string, limit int) ([]domain.ContentItem, error)
	// Popular returns published content by views, recency as tie-break.
	Popular(ctx context.Context, limit int) ([]domain.ContentItem, error)
}

// InteractionPublisher fans accepted events out to downstream consumers.
// Publishing is best-effort; failures never reject the tracked event.
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, e domain.InteractionEvent) error
}
