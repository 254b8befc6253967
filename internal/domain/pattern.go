package domain

import "time"

// Recommendation is a scored, not-yet-persisted suggestion of one content
// item for one user.
type Recommendation struct {
	ContentID string  `json:"content_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// PatternSummary describes a user's historical behavior over the recent
// interaction window.
type PatternSummary struct {
	PeakActivityHours     []int      `json:"peak_activity_hours"`
	PreferredContentTypes []string   `json:"preferred_content_types"`
	AvgSessionMinutes     float64    `json:"avg_session_minutes"`
	TotalInteractions     int        `json:"total_interactions"`
	LastInteraction       *time.Time `json:"last_interaction,omitempty"`
}
