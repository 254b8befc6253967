package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventView           EventType = "view"
	EventLike           EventType = "like"
	EventShare          EventType = "share"
	EventComment        EventType = "comment"
	EventBookmark       EventType = "bookmark"
	EventSearch         EventType = "search"
	EventCategoryBrowse EventType = "category_browse"
)

// eventTypeBonus is the fixed engagement bonus per event type.
// Types not listed contribute 0; the base point still applies.
var eventTypeBonus = map[EventType]float64{
	EventLike:           3,
	EventShare:          5,
	EventComment:        4,
	EventBookmark:       2,
	EventSearch:         1,
	EventCategoryBrowse: 2,
}

// Metadata keys read by the pattern analyzer and session tracking.
const (
	MetaContentType = "content_type"
	MetaDeviceType  = "device_type"
	MetaIPAddress   = "ip_address"
	MetaUserAgent   = "user_agent"
	MetaLocation    = "location"
)

// InteractionEvent is one observed user action. Immutable once persisted.
// TimeSpentSec, ScrollDepth and ClickCount are optional; zero means "not observed".
type InteractionEvent struct {
	ID              uuid.UUID
	UserID          string
	SessionID       string
	EventType       EventType
	ContentID       string
	ContentCategory string
	TimeSpentSec    int
	ScrollDepth     float64 // percent, 0-100
	ClickCount      int
	Metadata        map[string]string
	OccurredAt      time.Time
}

func NewInteraction(userID, sessionID string, eventType EventType, contentID, category string, now time.Time) (*InteractionEvent, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation("user_id is required")
	}
	if strings.TrimSpace(string(eventType)) == "" {
		return nil, ErrValidation("event_type is required")
	}

	return &InteractionEvent{
		ID:              uuid.New(),
		UserID:          userID,
		SessionID:       strings.TrimSpace(sessionID),
		EventType:       eventType,
		ContentID:       strings.TrimSpace(contentID),
		ContentCategory: strings.TrimSpace(category),
		Metadata:        map[string]string{},
		OccurredAt:      now.UTC(),
	}, nil
}

// WithEngagement attaches the optional engagement signals. Negative values and
// out-of-range scroll depths are rejected rather than silently clamped.
func (e *InteractionEvent) WithEngagement(timeSpentSec int, scrollDepth float64, clickCount int) error {
	if timeSpentSec < 0 {
		return ErrValidation("time_spent must be >= 0")
	}
	if scrollDepth < 0 || scrollDepth > 100 {
		return ErrValidation("scroll_depth must be between 0 and 100")
	}
	if clickCount < 0 {
		return ErrValidation("click_count must be >= 0")
	}
	e.TimeSpentSec = timeSpentSec
	e.ScrollDepth = scrollDepth
	e.ClickCount = clickCount
	return nil
}

const (
	baseEngagement = 1.0
	maxEngagement  = 20.0

	clickBonusStep = 0.5
	clickBonusCap  = 3.0
)

// EngagementScore converts the event into a bounded scalar in [1, 20].
// Each rule is optional and triggers independently; missing signals add 0.
func (e InteractionEvent) EngagementScore() float64 {
	score := baseEngagement

	switch {
	case e.TimeSpentSec > 180:
		score += 5
	case e.TimeSpentSec > 60:
		score += 3
	case e.TimeSpentSec > 30:
		score += 1
	}

	switch {
	case e.ScrollDepth > 90:
		score += 4
	case e.ScrollDepth > 70:
		score += 3
	case e.ScrollDepth > 50:
		score += 2
	case e.ScrollDepth > 25:
		score += 1
	}

	if e.ClickCount > 0 {
		score += math.Min(float64(e.ClickCount)*clickBonusStep, clickBonusCap)
	}

	score += eventTypeBonus[e.EventType]

	return math.Min(score, maxEngagement)
}

// HourOfDay returns the UTC hour bucket (0-23) the event falls into.
func (e InteractionEvent) HourOfDay() int {
	return e.OccurredAt.UTC().Hour()
}
