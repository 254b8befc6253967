package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sabq/behavior-service/internal/domain"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Upsert creates the session on first sight; later writes only bump
// last_activity_at and refresh the connection metadata.
func (r *SessionRepo) Upsert(ctx context.Context, s domain.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_sessions
			(user_id, session_token, started_at, last_activity_at,
			 ip_address, user_agent, device_type, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, session_token) DO UPDATE SET
			last_activity_at = EXCLUDED.last_activity_at,
			ip_address = EXCLUDED.ip_address,
			user_agent = EXCLUDED.user_agent,
			device_type = EXCLUDED.device_type,
			location = EXCLUDED.location
	`, s.UserID, s.Token, s.StartedAt, s.LastActivityAt,
		s.IPAddress, s.UserAgent, s.DeviceType, s.Location)
	return err
}

func (r *SessionRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, session_token, started_at, last_activity_at,
		       ip_address, user_agent, device_type, location
		FROM user_sessions
		WHERE user_id = $1
		ORDER BY last_activity_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.UserID, &s.Token, &s.StartedAt, &s.LastActivityAt,
			&s.IPAddress, &s.UserAgent, &s.DeviceType, &s.Location); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
