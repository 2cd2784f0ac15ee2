package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/quizmasters/rupee-rumble/internal/cues"
	"github.com/quizmasters/rupee-rumble/internal/dbconfig"
	"github.com/quizmasters/rupee-rumble/internal/gateway"
	"github.com/quizmasters/rupee-rumble/internal/leaderboard"
	"github.com/quizmasters/rupee-rumble/internal/questions"
)

// Services bundles everything the server needs, plus the closers to
// run at shutdown.
type Services struct {
	Gateway *gateway.Service
	closers []func()
}

// Close releases external resources (database pool, NATS connection).
func (s *Services) Close() {
	for _, fn := range s.closers {
		fn()
	}
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Wire up dependency injection chain:
	// question bank + leaderboard repo + cue sinks → gateway service.

	bank, err := questions.NewBank(questions.Seed())
	if err != nil {
		return nil, fmt.Errorf("failed to build question bank: %w", err)
	}

	services := &Services{}

	repo, closer, err := setupLeaderboardRepo(ctx, config)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		services.closers = append(services.closers, closer)
	}
	board := leaderboard.NewApp(repo, clockwork.NewRealClock())

	sink, closer, err := setupCueSink()
	if err != nil {
		return nil, err
	}
	if closer != nil {
		services.closers = append(services.closers, closer)
	}

	services.Gateway = gateway.NewService(
		gateway.GameConfig{
			TimerDurationSec: config.Game.TimerDurationSec,
			StartingBalance:  config.Game.StartingBalance,
		},
		bank,
		board,
		clockwork.NewRealClock(),
		sink,
		gateway.DefaultConnectionConfig(),
	)
	return services, nil
}

// setupLeaderboardRepo picks Postgres when DB_HOST is set, otherwise
// the JSON file store. Venue laptops run without a database.
func setupLeaderboardRepo(ctx context.Context, config *Config) (leaderboard.Repository, func(), error) {
	if os.Getenv("DB_HOST") == "" {
		log.Info().Str("path", config.Leaderboard.FilePath).Msg("using file leaderboard store")
		return leaderboard.NewFileRepository(config.Leaderboard.FilePath), nil, nil
	}

	dbCfg := dbconfig.NewConfigFromEnv()
	pool, err := dbCfg.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := leaderboard.NewPGRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ensure leaderboard schema: %w", err)
	}
	log.Info().Str("host", dbCfg.Host).Str("database", dbCfg.Database).Msg("using Postgres leaderboard store")
	return repo, pool.Close, nil
}

// setupCueSink builds the base cue sink: structured logs always, NATS
// fan-out when NATS_URL is set (lighting and sound rigs subscribe).
func setupCueSink() (cues.Sink, func(), error) {
	logSink := cues.LogSink{}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		return logSink, nil, nil
	}

	natsSink, err := cues.NewNATSSink(natsURL, getEnv("NATS_SUBJECT_PREFIX", "rumble.cues"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info().Str("url", natsURL).Msg("publishing cues to NATS")
	return cues.Fanout(logSink, natsSink), natsSink.Close, nil
}
