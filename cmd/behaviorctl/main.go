package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	zlog "github.com/rs/zerolog/log"

	"github.com/sabq/behavior-service/internal/application/behavior"
	"github.com/sabq/behavior-service/internal/config"
	"github.com/sabq/behavior-service/internal/domain"
	"github.com/sabq/behavior-service/internal/infrastructure/db/postgres"
	"github.com/sabq/behavior-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/sabq/behavior-service/internal/logger"
)

// behaviorctl inspects and exercises the behavior-tracking core against the
// live store: print a user's recommendations, interest profile or behavior
// summary, or record a single interaction.
//
//	behaviorctl -user u123 -op recommend -limit 10
//	behaviorctl -user u123 -op analyze
//	behaviorctl -user u123 -op interests
//	behaviorctl -user u123 -op track -event view -content a-99 -category tech
func main() {
	var (
		userID   = flag.String("user", "", "user id (required)")
		op       = flag.String("op", "recommend", "one of: recommend, analyze, interests, track")
		limit    = flag.Int("limit", 0, "recommendation list size (default from config)")
		event    = flag.String("event", "view", "event type for -op track")
		content  = flag.String("content", "", "content id for -op track")
		category = flag.String("category", "", "content category for -op track")
		session  = flag.String("session", "", "session token for -op track")
	)
	flag.Parse()

	logger.Init()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	var pub behavior.InteractionPublisher = behavior.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbitmq connect failed")
		}
		defer p.Close()
		pub = p
	}

	svc := behavior.New(
		postgres.NewEventRepo(pool),
		postgres.NewProfileRepo(pool),
		postgres.NewSessionRepo(pool),
		postgres.NewContentRepo(pool),
		pub,
		nil,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()

	if *limit <= 0 {
		*limit = cfg.RecommendLimit
	}

	switch *op {
	case "recommend":
		printJSON(svc.Recommend(ctx, *userID, *limit))
	case "analyze":
		summary := svc.Analyze(ctx, *userID)
		if summary == nil {
			zlog.Fatal().Msg("analysis unavailable")
		}
		printJSON(summary)
	case "interests":
		repo := postgres.NewProfileRepo(pool)
		entries, err := repo.ListInterests(ctx, *userID)
		if err != nil {
			zlog.Fatal().Err(err).Msg("interest lookup failed")
		}
		printJSON(entries)
	case "track":
		ev, err := domain.NewInteraction(*userID, *session, domain.EventType(*event), *content, *category, time.Now())
		if err != nil {
			zlog.Fatal().Err(err).Msg("invalid interaction")
		}
		if ok := svc.Track(ctx, ev); !ok {
			zlog.Fatal().Msg("interaction rejected")
		}
		zlog.Info().Str("event_id", ev.ID.String()).Msg("interaction recorded")
	default:
		fmt.Fprintf(os.Stderr, "unknown op %q\n", *op)
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		zlog.Fatal().Err(err).Msg("encode failed")
	}
}
