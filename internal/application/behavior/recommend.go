package behavior

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sabq/behavior-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

const popularReason = "popular content"

// Recommend returns up to limit content suggestions ranked for the user.
// A user with no interest history gets the global popularity fallback.
// Any store failure is logged and yields an empty list; the caller is
// expected to fall back to curated content on its own.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) []domain.Recommendation {
	if limit <= 0 {
		return nil
	}

	interests, err := s.profiles.ListInterests(ctx, userID)
	if err != nil {
		zlog.Warn().Err(err).Str("user_id", userID).Msg("interest lookup failed")
		return nil
	}
	if len(interests) == 0 {
		return s.popularFallback(ctx, limit)
	}

	top := interests
	if len(top) > topInterestCount {
		top = top[:topInterestCount]
	}

	now := s.clock.Now()
	var candidates []domain.Recommendation
	for _, interest := range top {
		items, err := s.content.ByCategory(ctx, interest.Category, limit)
		if err != nil {
			zlog.Warn().Err(err).Str("category", interest.Category).Msg("candidate fetch failed")
			return nil
		}
		for _, item := range items {
			candidates = append(candidates, domain.Recommendation{
				ContentID: item.ID,
				Title:     item.Title,
				Category:  item.Category,
				Score:     s.compositeScore(interest.Score, item, now),
				Reason:    fmt.Sprintf("based on your interest in %s", interest.Category),
			})
		}
	}

	sortByScore(candidates)
	return truncate(dedupe(candidates), limit)
}

// compositeScore combines interest weight, recency, popularity and a
// diversity jitter, each contributing a fixed share. Rounded to 2dp so
// rankings are stable to serialize.
func (s *Service) compositeScore(interestScore float64, item domain.ContentItem, now time.Time) float64 {
	days := now.Sub(item.PublishedAt).Hours() / 24
	recency := math.Max(0, 10-days*recencyDecayPerDay)
	popularity := math.Min(float64(item.Views)/1000, 10)

	total := interestScore*interestWeight +
		recency*recencyWeight +
		popularity*popularityWeight +
		s.jitter()*diversityWeight

	return math.Round(total*100) / 100
}

func (s *Service) popularFallback(ctx context.Context, limit int) []domain.Recommendation {
	items, err := s.content.Popular(ctx, limit)
	if err != nil {
		zlog.Warn().Err(err).Msg("popular content fetch failed")
		return nil
	}

	out := make([]domain.Recommendation, 0, len(items))
	for i, item := range items {
		out = append(out, domain.Recommendation{
			ContentID: item.ID,
			Title:     item.Title,
			Category:  item.Category,
			Score:     fallbackBaseScore - fallbackScoreStep*float64(i),
			Reason:    popularReason,
		})
	}
	return out
}

// sortByScore orders score descending with contentID ascending as a
// deterministic tie-break.
func sortByScore(recs []domain.Recommendation) {
	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.ContentID, b.ContentID)
		}
	})
}

// dedupe keeps the first (highest-scored, list is pre-sorted) occurrence of
// each content ID.
func dedupe(recs []domain.Recommendation) []domain.Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0]
	for _, r := range recs {
		if _, ok := seen[r.ContentID]; ok {
			continue
		}
		seen[r.ContentID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func truncate(recs []domain.Recommendation, limit int) []domain.Recommendation {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
