package behavior

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sabq/behavior-service/internal/domain"
)

// --- Fakes & Helpers ---

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// memStore implements every port in memory; individual failures can be armed
// per method to exercise the safe-default paths.
type memStore struct {
	events    []domain.InteractionEvent
	interests map[string]map[string]domain.InterestEntry // userID -> category -> entry
	summaries map[string][]domain.InterestEntry
	sessions  map[string]domain.Session // userID|token
	byCat     map[string][]domain.ContentItem
	popular   []domain.ContentItem

	failAppend    error
	failGet       error
	failUpsert    error
	failList      error
	failSummary   error
	failSessions  error
	failByCat     error
	failPopular   error
	failRecent    error
	publishedCnt  int
	failPublished error
}

func newMemStore() *memStore {
	return &memStore{
		interests: map[string]map[string]domain.InterestEntry{},
		summaries: map[string][]domain.InterestEntry{},
		sessions:  map[string]domain.Session{},
		byCat:     map[string][]domain.ContentItem{},
	}
}

func (m *memStore) Append(ctx context.Context, e domain.InteractionEvent) error {
	if m.failAppend != nil {
		return m.failAppend
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.InteractionEvent, error) {
	if m.failRecent != nil {
		return nil, m.failRecent
	}
	var out []domain.InteractionEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].UserID == userID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *memStore) GetInterest(ctx context.Context, userID, category string) (*domain.InterestEntry, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	e, ok := m.interests[userID][category]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memStore) UpsertInterest(ctx context.Context, e domain.InterestEntry) error {
	if m.failUpsert != nil {
		return m.failUpsert
	}
	if m.interests[e.UserID] == nil {
		m.interests[e.UserID] = map[string]domain.InterestEntry{}
	}
	m.interests[e.UserID][e.Category] = e
	return nil
}

func (m *memStore) ListInterests(ctx context.Context, userID string) ([]domain.InterestEntry, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	var out []domain.InterestEntry
	for _, e := range m.interests[userID] {
		out = append(out, e)
	}
	// port contract: score descending
	slices.SortStableFunc(out, func(a, b domain.InterestEntry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.Category, b.Category)
		}
	})
	return out, nil
}

func (m *memStore) SaveInterestSummary(ctx context.Context, userID string, entries []domain.InterestEntry) error {
	if m.failSummary != nil {
		return m.failSummary
	}
	m.summaries[userID] = entries
	return nil
}

func (m *memStore) Upsert(ctx context.Context, s domain.Session) error {
	if m.failSessions != nil {
		return m.failSessions
	}
	key := s.UserID + "|" + s.Token
	if prev, ok := m.sessions[key]; ok {
		s.StartedAt = prev.StartedAt
	}
	m.sessions[key] = s
	return nil
}

func (m *memStore) sessionList(userID string) []domain.Session {
	var out []domain.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

func (m *memStore) RecentSessions(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	if m.failSessions != nil {
		return nil, m.failSessions
	}
	out := m.sessionList(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ByCategory(ctx context.Context, category string, limit int) ([]domain.ContentItem, error) {
	if m.failByCat != nil {
		return nil, m.failByCat
	}
	items := m.byCat[category]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memStore) Popular(ctx context.Context, limit int) ([]domain.ContentItem, error) {
	if m.failPopular != nil {
		return nil, m.failPopular
	}
	items := m.popular
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memStore) PublishInteraction(ctx context.Context, e domain.InteractionEvent) error {
	if m.failPublished != nil {
		return m.failPublished
	}
	m.publishedCnt++
	return nil
}

// sessionStore adapts memStore to the SessionStore port (distinct method set).
type sessionStore struct{ *memStore }

func (s sessionStore) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	return s.RecentSessions(ctx, userID, limit)
}

func newTestService(m *memStore, now time.Time, jitter JitterFunc) *Service {
	return New(m, m, sessionStore{m}, m, m, fakeClock{t: now}, jitter)
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
