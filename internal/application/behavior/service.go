package behavior

import (
	"math/rand"
	"time"
)

const (
	// Recommendation scoring weights; the four components sum with these.
	interestWeight   = 0.4
	recencyWeight    = 0.2
	popularityWeight = 0.2
	diversityWeight  = 0.2

	maxDiversityJitter = 5.0

	// Freshness decays by half a point per day since publication.
	recencyDecayPerDay = 0.5

	// Popularity fallback for users with no history.
	fallbackBaseScore = 10.0
	fallbackScoreStep = 0.5

	// How many of the user's strongest interests seed candidate retrieval.
	topInterestCount = 5

	// Analyzer windows.
	recentEventWindow   = 100
	recentSessionWindow = 20
	peakHourCount       = 3
	topContentTypeCount = 5
)

// JitterFunc supplies the diversity component in [0, maxDiversityJitter).
// Injected so tests can pin it; defaults to the shared math/rand source.
type JitterFunc func() float64

func defaultJitter() float64 { return rand.Float64() * maxDiversityJitter }

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// Service is the behavior-tracking core: engagement scoring, interest
// aggregation, recommendation ranking and pattern analysis. All public
// operations are best-effort and never propagate store failures; callers get
// the documented safe default instead.
type Service struct {
	events   EventStore
	profiles ProfileStore
	sessions SessionStore
	content  ContentStore
	pub      InteractionPublisher
	clock    Clock
	jitter   JitterFunc
}

func New(
	events EventStore,
	profiles ProfileStore,
	sessions SessionStore,
	content ContentStore,
	pub InteractionPublisher,
	clock Clock,
	jitter JitterFunc,
) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if clock == nil {
		clock = sysClock{}
	}
	if jitter == nil {
		jitter = defaultJitter
	}
	return &Service{
		events:   events,
		profiles: profiles,
		sessions: sessions,
		content:  content,
		pub:      pub,
		clock:    clock,
		jitter:   jitter,
	}
}
