package behavior

import (
	"context"
	"slices"

	"github.com/sabq/behavior-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Track records one interaction: appends it to the log, keeps the session
// alive, and folds the engagement score into the user's interest profile.
// Returns false when any store write failed. Nothing propagates to the
// caller; tracking must never block the action that triggered it.
func (s *Service) Track(ctx context.Context, e *domain.InteractionEvent) bool {
	if e == nil {
		return false
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.clock.Now()
	}

	if err := s.events.Append(ctx, *e); err != nil {
		zlog.Warn().Err(err).Str("user_id", e.UserID).Msg("interaction append failed")
		return false
	}

	if e.SessionID != "" {
		if err := s.touchSession(ctx, e); err != nil {
			zlog.Warn().Err(err).Str("user_id", e.UserID).Str("session", e.SessionID).Msg("session upsert failed")
			return false
		}
	}

	if e.ContentCategory != "" {
		if err := s.updateInterest(ctx, e.UserID, e.ContentCategory, e.EngagementScore(), e); err != nil {
			zlog.Warn().Err(err).Str("user_id", e.UserID).Str("category", e.ContentCategory).Msg("interest update failed")
			return false
		}
	}

	if err := s.pub.PublishInteraction(ctx, *e); err != nil {
		zlog.Warn().Err(err).Str("user_id", e.UserID).Msg("interaction publish failed")
	}

	return true
}

func (s *Service) touchSession(ctx context.Context, e *domain.InteractionEvent) error {
	now := s.clock.Now()
	return s.sessions.Upsert(ctx, domain.Session{
		Token:          e.SessionID,
		UserID:         e.UserID,
		StartedAt:      now,
		LastActivityAt: now,
		IPAddress:      e.Metadata[domain.MetaIPAddress],
		UserAgent:      e.Metadata[domain.MetaUserAgent],
		DeviceType:     e.Metadata[domain.MetaDeviceType],
		Location:       e.Metadata[domain.MetaLocation],
	})
}

// updateInterest folds one engagement score into the (user, category) entry
// and rewrites the user's denormalized interest summary, score descending.
// Read-modify-write; concurrent updates for the same pair are last-write-wins
// at the store (accepted, tracking is best-effort).
func (s *Service) updateInterest(ctx context.Context, userID, category string, engagement float64, e *domain.InteractionEvent) error {
	cur, err := s.profiles.GetInterest(ctx, userID, category)
	if err != nil {
		return err
	}

	entry := domain.InterestEntry{
		UserID:           userID,
		Category:         category,
		Score:            engagement,
		InteractionCount: 1,
		LastInteraction:  e.OccurredAt,
	}
	if cur != nil {
		entry = *cur
		entry.Fold(engagement, e.OccurredAt)
	}

	if err := s.profiles.UpsertInterest(ctx, entry); err != nil {
		return err
	}

	all, err := s.profiles.ListInterests(ctx, userID)
	if err != nil {
		return err
	}
	slices.SortStableFunc(all, func(a, b domain.InterestEntry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return s.profiles.SaveInterestSummary(ctx, userID, all)
}
