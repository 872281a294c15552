// Package deps contains the dependencies for the backend, exporter and admin-cli.
package deps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algebra-practice/backend/internal/config"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/render"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidisotel"
	"go.uber.org/fx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Config loads the environment variables from the .env file and returns a config.Config.
func Config() (config.Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("error creating config", "error", err)
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("error validating config", "error", err)
		return config.Config{}, err
	}

	return cfg, nil
}

// Store opens the database described by cfg.
func Store(cfg config.DatabaseConfig) (*store.Store, error) {
	st, err := store.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		slog.Error("error opening database", "driver", cfg.Driver, "error", err)
		return nil, err
	}

	return st, nil
}

// FxStore opens the database of the backend and closes it on stop.
func FxStore(lifecycle fx.Lifecycle, cfg config.Config) (*store.Store, error) {
	st, err := Store(cfg.Database)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := st.Ping(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})

	return st, nil
}

// RedisClient creates a rueidis.Client. It returns nil when Redis is not configured.
func RedisClient(lifecycle fx.Lifecycle, cfg config.Config) (rueidis.Client, error) {
	if !cfg.Redis.Enabled() {
		slog.Info("redis is not configured, render cache disabled")
		return nil, nil
	}

	// rueidisotel records a span per command on the global tracer provider
	client, err := rueidisotel.NewClient(rueidis.ClientOption{
		InitAddress: []string{
			fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		},
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		slog.Error("error creating redis client", "error", err)
		return nil, err
	}

	lifecycle.Append(fx.StopHook(client.Close))

	return client, nil
}

// RenderCache creates the render cache: Redis when a client exists, nothing otherwise.
func RenderCache(redisClient rueidis.Client, cfg config.Config) render.Cache {
	if redisClient == nil {
		return render.NopCache{}
	}

	return render.NewRedisCache(redisClient, cfg.Redis.TTL)
}

// Codec creates the formula codec.
func Codec(cfg config.Config) *formula.Codec {
	return formula.NewCodec(
		formula.WithClassName(cfg.Formula.ClassName),
		formula.WithCacheSize(cfg.Formula.CacheSize),
	)
}

// Renderer creates the question renderer.
func Renderer(codec *formula.Codec, cache render.Cache, cfg config.Config) *render.Renderer {
	return render.NewRenderer(codec, cache, cfg.Grading.MaxAttempts)
}

// PosthogClient creates a posthog.Client. It returns nil when PostHog is not configured.
func PosthogClient(lifecycle fx.Lifecycle, cfg config.Config) (posthog.Client, error) {
	if !cfg.PostHog.Enabled() {
		return nil, nil
	}

	client, err := posthog.NewWithConfig(cfg.PostHog.APIKey, posthog.Config{
		Endpoint: cfg.PostHog.Host,
	})
	if err != nil {
		slog.Error("error creating posthog client", "error", err)
		return nil, err
	}

	lifecycle.Append(fx.StopHook(client.Close))

	return client, nil
}

// EventService creates the event service with the metrics handler and, when
// configured, the PostHog handler.
func EventService(posthogClient posthog.Client) *events.EventService {
	handlers := []events.EventHandler{events.NewMetricsHandler()}
	if posthogClient != nil {
		handlers = append(handlers, events.NewPosthogHandler(posthogClient))
	}

	return events.NewEventService(handlers...)
}

// SubmissionService creates the submission service.
func SubmissionService(st *store.Store, eventService *events.EventService, cfg config.Config) *submission.SubmissionService {
	return submission.NewSubmissionService(st, st, eventService, submission.Policy{
		MaxAttempts: cfg.Grading.MaxAttempts,
	})
}

var FxCommonModule = fx.Module("common",
	fx.Provide(Config),
	fx.Provide(FxStore),
	fx.Provide(RedisClient),
	fx.Provide(RenderCache),
	fx.Provide(Codec),
	fx.Provide(Renderer),
	fx.Provide(PosthogClient),
	fx.Provide(EventService),
	fx.Provide(SubmissionService),
)
