package behavior

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sabq/behavior-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func eventAtHour(t *testing.T, hour int, seq int) domain.InteractionEvent {
	t.Helper()
	e, err := domain.NewInteraction("u1", "", domain.EventView, "", "", time.Date(2026, 8, 30, hour, seq, 0, 0, time.UTC))
	assert.NoError(t, err)
	return *e
}

func TestAnalyze_PeakHoursOrderedByFrequency(t *testing.T) {
	m := newMemStore()
	for seq, hour := range []int{10, 10, 10, 14, 14, 20} {
		m.events = append(m.events, eventAtHour(t, hour, seq))
	}
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")

	assert.NotNil(t, summary)
	assert.Equal(t, []int{10, 14, 20}, summary.PeakActivityHours)
	assert.Equal(t, 6, summary.TotalInteractions)
}

func TestAnalyze_PeakHoursCappedAtThree(t *testing.T) {
	m := newMemStore()
	for seq, hour := range []int{8, 9, 10, 11, 12} {
		m.events = append(m.events, eventAtHour(t, hour, seq))
	}
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")
	assert.NotNil(t, summary)
	assert.Len(t, summary.PeakActivityHours, 3)
}

func TestAnalyze_PreferredContentTypes(t *testing.T) {
	m := newMemStore()
	types := []string{"article", "article", "article", "video", "video", "gallery", "", "podcast", "quiz", "poll", "opinion"}
	for seq, ct := range types {
		e := eventAtHour(t, 10, seq)
		if ct != "" {
			e.Metadata = map[string]string{domain.MetaContentType: ct}
		}
		m.events = append(m.events, e)
	}
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")

	assert.NotNil(t, summary)
	assert.Len(t, summary.PreferredContentTypes, 5)
	assert.Equal(t, "article", summary.PreferredContentTypes[0])
	assert.Equal(t, "video", summary.PreferredContentTypes[1])
	assert.NotContains(t, summary.PreferredContentTypes, "")
}

func TestAnalyze_AverageSessionMinutes(t *testing.T) {
	m := newMemStore()
	start := mustTime("2026-08-30T10:00:00Z")
	m.sessions["u1|a"] = domain.Session{
		UserID: "u1", Token: "a",
		StartedAt: start, LastActivityAt: start.Add(10 * time.Minute),
	}
	m.sessions["u1|b"] = domain.Session{
		UserID: "u1", Token: "b",
		StartedAt: start, LastActivityAt: start.Add(20 * time.Minute),
	}
	// missing last activity: excluded from numerator and denominator
	m.sessions["u1|c"] = domain.Session{UserID: "u1", Token: "c", StartedAt: start}
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")

	assert.NotNil(t, summary)
	assert.InDelta(t, 15.0, summary.AvgSessionMinutes, 1e-9)
}

func TestAnalyze_NoSessionsMeansZeroAverage(t *testing.T) {
	m := newMemStore()
	m.events = append(m.events, eventAtHour(t, 10, 0))
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")

	assert.NotNil(t, summary)
	assert.Equal(t, 0.0, summary.AvgSessionMinutes)
}

func TestAnalyze_LastInteractionIsMostRecent(t *testing.T) {
	m := newMemStore()
	m.events = append(m.events, eventAtHour(t, 9, 0), eventAtHour(t, 11, 0))
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")

	assert.NotNil(t, summary)
	assert.NotNil(t, summary.LastInteraction)
	assert.Equal(t, 11, summary.LastInteraction.UTC().Hour())
}

func TestAnalyze_EmptyHistoryIsValid(t *testing.T) {
	m := newMemStore()
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "ghost")

	assert.NotNil(t, summary)
	assert.Zero(t, summary.TotalInteractions)
	assert.Nil(t, summary.LastInteraction)
	assert.Empty(t, summary.PeakActivityHours)
	assert.Empty(t, summary.PreferredContentTypes)
}

func TestAnalyze_WindowCappedAtHundredEvents(t *testing.T) {
	m := newMemStore()
	for i := 0; i < 130; i++ {
		m.events = append(m.events, eventAtHour(t, i%24, i%60))
	}
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")
	assert.NotNil(t, summary)
	assert.Equal(t, 100, summary.TotalInteractions)
}

func TestAnalyze_StoreFailuresReturnNil(t *testing.T) {
	boom := errors.New("store down")

	t.Run("event_fetch_failure", func(t *testing.T) {
		m := newMemStore()
		m.failRecent = boom
		svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)
		assert.Nil(t, svc.Analyze(context.Background(), "u1"))
	})

	t.Run("session_fetch_failure", func(t *testing.T) {
		m := newMemStore()
		m.failSessions = boom
		svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)
		assert.Nil(t, svc.Analyze(context.Background(), "u1"))
	})
}

func TestAnalyze_OnlyRequestedUserCounted(t *testing.T) {
	m := newMemStore()
	m.events = append(m.events, eventAtHour(t, 10, 0))
	other, err := domain.NewInteraction("u2", "", domain.EventView, "", "", mustTime("2026-08-30T10:00:00Z"))
	assert.NoError(t, err)
	m.events = append(m.events, *other)
	svc := newTestService(m, mustTime("2026-08-30T21:00:00Z"), nil)

	summary := svc.Analyze(context.Background(), "u1")
	assert.NotNil(t, summary)
	assert.Equal(t, 1, summary.TotalInteractions, fmt.Sprintf("events: %d", len(m.events)))
}
