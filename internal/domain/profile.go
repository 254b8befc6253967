package domain

import "time"

// InterestEntry is the per (user, category) aggregate. There is at most one
// entry per pair; updates fold new engagement in via exponential smoothing,
// the entry is never overwritten wholesale.
type InterestEntry struct {
	UserID           string    `json:"user_id"`
	Category         string    `json:"category"`
	Score            float64   `json:"score"`
	InteractionCount int       `json:"interaction_count"`
	LastInteraction  time.Time `json:"last_interaction"`
}

// SmoothingFactor is the fixed weight given to a new observation when folding
// it into an existing interest score. Recent behavior shifts the profile
// gradually without one isolated action dominating.
const SmoothingFactor = 0.2

// Fold blends a new engagement score into the entry and bumps the counters.
func (e *InterestEntry) Fold(engagement float64, at time.Time) {
	e.Score = e.Score*(1-SmoothingFactor) + engagement*SmoothingFactor
	e.InteractionCount++
	e.LastInteraction = at.UTC()
}

// Session is one browsing session. Created on the first event carrying the
// token; LastActivityAt bumps on every subsequent event.
type Session struct {
	Token          string
	UserID         string
	StartedAt      time.Time
	LastActivityAt time.Time
	IPAddress      string
	UserAgent      string
	DeviceType     string
	Location       string
}

// Duration returns the session length, or false when either timestamp is
// missing (such sessions are excluded from averages entirely).
func (s Session) Duration() (time.Duration, bool) {
	if s.StartedAt.IsZero() || s.LastActivityAt.IsZero() {
		return 0, false
	}
	d := s.LastActivityAt.Sub(s.StartedAt)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// ContentItem is a published article as the content catalog exposes it.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Slug        string    `json:"slug"`
	Views       int       `json:"views"`
	PublishedAt time.Time `json:"published_at"`
}
