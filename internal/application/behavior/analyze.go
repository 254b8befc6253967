package behavior

import (
	"context"
	"slices"
	"strings"

	"github.com/sabq/behavior-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Analyze summarizes the user's recent behavior: peak activity hours,
// preferred content types and average session length. Returns nil when the
// stores are unreachable; an empty history is a valid (zeroed) summary.
func (s *Service) Analyze(ctx context.Context, userID string) *domain.PatternSummary {
	events, err := s.events.RecentByUser(ctx, userID, recentEventWindow)
	if err != nil {
		zlog.Warn().Err(err).Str("user_id", userID).Msg("interaction history fetch failed")
		return nil
	}
	sessions, err := s.sessions.RecentByUser(ctx, userID, recentSessionWindow)
	if err != nil {
		zlog.Warn().Err(err).Str("user_id", userID).Msg("session history fetch failed")
		return nil
	}

	summary := &domain.PatternSummary{
		PeakActivityHours:     peakHours(events),
		PreferredContentTypes: preferredContentTypes(events),
		AvgSessionMinutes:     averageSessionMinutes(sessions),
		TotalInteractions:     len(events),
	}
	if len(events) > 0 {
		// Events arrive most recent first.
		last := events[0].OccurredAt
		summary.LastInteraction = &last
	}
	return summary
}

func peakHours(events []domain.InteractionEvent) []int {
	counts := make(map[int]int)
	for _, e := range events {
		counts[e.HourOfDay()]++
	}
	return topKeys(counts, peakHourCount, func(a, b int) int { return a - b })
}

func preferredContentTypes(events []domain.InteractionEvent) []string {
	counts := make(map[string]int)
	for _, e := range events {
		if t := e.Metadata[domain.MetaContentType]; t != "" {
			counts[t]++
		}
	}
	return topKeys(counts, topContentTypeCount, strings.Compare)
}

// topKeys returns the n most frequent keys, count descending, with the key
// order itself as a deterministic tie-break.
func topKeys[K comparable](counts map[K]int, n int, cmp func(a, b K) int) []K {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		if d := counts[b] - counts[a]; d != 0 {
			return d
		}
		return cmp(a, b)
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func averageSessionMinutes(sessions []domain.Session) float64 {
	var total float64
	var valid int
	for _, s := range sessions {
		if d, ok := s.Duration(); ok {
			total += d.Minutes()
			valid++
		}
	}
	if valid == 0 {
		return 0
	}
	return total / float64(valid)
}
