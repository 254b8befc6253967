package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sabq/behavior-service/internal/domain"
)

// EventRepo is the append-only interaction log.
type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Append(ctx context.Context, e domain.InteractionEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_interactions
			(id, user_id, session_id, event_type, content_id, content_category,
			 time_spent, scroll_depth, click_count, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.UserID, e.SessionID, string(e.EventType), e.ContentID, e.ContentCategory,
		e.TimeSpentSec, e.ScrollDepth, e.ClickCount, e.Metadata, e.OccurredAt)
	return err
}

// RecentByUser returns up to limit events, most recent first.
func (r *EventRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.InteractionEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, session_id, event_type, content_id, content_category,
		       time_spent, scroll_depth, click_count, metadata, occurred_at
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.InteractionEvent
	for rows.Next() {
		var e domain.InteractionEvent
		var eventType string
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &eventType, &e.ContentID,
			&e.ContentCategory, &e.TimeSpentSec, &e.ScrollDepth, &e.ClickCount,
			&e.Metadata, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.EventType = domain.EventType(eventType)
		events = append(events, e)
	}
	return events, rows.Err()
}
