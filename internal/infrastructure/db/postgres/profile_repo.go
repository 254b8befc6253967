package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sabq/behavior-service/internal/domain"
)

// ProfileRepo holds interest aggregates keyed by (user_id, category) plus the
// denormalized per-user summary snapshot.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) GetInterest(ctx context.Context, userID, category string) (*domain.InterestEntry, error) {
	var e domain.InterestEntry
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, category, score, interaction_count, last_interaction
		FROM interest_profiles
		WHERE user_id = $1 AND category = $2
	`, userID, category).Scan(&e.UserID, &e.Category, &e.Score, &e.InteractionCount, &e.LastInteraction)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ProfileRepo) UpsertInterest(ctx context.Context, e domain.InterestEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO interest_profiles (user_id, category, score, interaction_count, last_interaction)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category) DO UPDATE SET
			score = EXCLUDED.score,
			interaction_count = EXCLUDED.interaction_count,
			last_interaction = EXCLUDED.last_interaction
	`, e.UserID, e.Category, e.Score, e.InteractionCount, e.LastInteraction)
	return err
}

func (r *ProfileRepo) ListInterests(ctx context.Context, userID string) ([]domain.InterestEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, category, score, interaction_count, last_interaction
		FROM interest_profiles
		WHERE user_id = $1
		ORDER BY score DESC, category ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.InterestEntry
	for rows.Next() {
		var e domain.InterestEntry
		if err := rows.Scan(&e.UserID, &e.Category, &e.Score, &e.InteractionCount, &e.LastInteraction); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveInterestSummary overwrites the user's ranked interest snapshot wholesale.
func (r *ProfileRepo) SaveInterestSummary(ctx context.Context, userID string, entries []domain.InterestEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO interest_summaries (user_id, interests, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			interests = EXCLUDED.interests,
			updated_at = NOW()
	`, userID, entries)
	return err
}
