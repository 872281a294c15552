package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/algebra-practice/backend/httpapi"
	categoryservice "github.com/algebra-practice/backend/httpapi/category"
	formulaservice "github.com/algebra-practice/backend/httpapi/formula"
	questionservice "github.com/algebra-practice/backend/httpapi/question"
	"github.com/algebra-practice/backend/internal/config"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/httputils"
	"github.com/algebra-practice/backend/internal/render"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
	"github.com/algebra-practice/backend/internal/workers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"

	_ "github.com/algebra-practice/backend/internal/deps/logger"
)

const serviceName = "algebra-backend"

// RequestIDMiddleware creates a request id middleware that can be injected into gin.
func RequestIDMiddleware() Middleware {
	return Middleware{
		Handler: httputils.RequestIDMiddleware(),
	}
}

// ClientMiddleware creates a client middleware that can be injected into gin.
func ClientMiddleware() Middleware {
	return Middleware{
		Handler: httputils.ClientMiddleware(),
	}
}

// CorsMiddleware creates a cors middleware that can be injected into gin.
func CorsMiddleware(cfg config.Config) Middleware {
	return Middleware{
		Handler: cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "User-Agent", "Referer", httputils.ClientHeader, httputils.RequestIDHeader},
			ExposeHeaders:    []string{httputils.RequestIDHeader},
			AllowCredentials: true,
		}),
	}
}

// QuestionService creates the question service.
func QuestionService(st *store.Store, renderer *render.Renderer, submissionService *submission.SubmissionService, eventService *events.EventService) httpapi.Service {
	return questionservice.NewQuestionService(st, renderer, submissionService, eventService)
}

// CategoryService creates the category service.
func CategoryService(st *store.Store) httpapi.Service {
	return categoryservice.NewCategoryService(st)
}

// FormulaService creates the formula service.
func FormulaService(codec *formula.Codec) httpapi.Service {
	return formulaservice.NewFormulaService(codec)
}

// GinEngine creates a gin engine.
func GinEngine(services []httpapi.Service, middlewares []Middleware, st *store.Store, cfg config.Config) *gin.Engine {
	engine := gin.New()

	if err := engine.SetTrustedProxies(cfg.TrustProxies); err != nil {
		slog.Error("error setting trusted proxies", "error", err)
	}

	// registers GET /metrics on the engine
	prom := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Namespace("algebra"),
		ginprom.Subsystem("http"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/metrics", "/healthz"),
	)

	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(sloggin.NewWithConfig(slog.Default(), sloggin.Config{
		WithSpanID:  true,
		WithTraceID: true,
		Filters:     []sloggin.Filter{sloggin.IgnorePath("/metrics", "/healthz")},
	}))
	engine.Use(prom.Instrument())

	for _, middleware := range middlewares {
		engine.Use(middleware.Handler)
	}

	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(ctx *gin.Context) {
		if err := st.Ping(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"error":  "Database is unavailable.",
				"detail": err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	httpapi.Register(api, services...)

	return engine
}

// GinLifecycle starts the gin engine.
func GinLifecycle(lifecycle fx.Lifecycle, engine *gin.Engine, cfg config.Config) {
	httpCtx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				slog.Info("gin engine starting", "address", srv.Addr, "proto", cfg.Server.GetProto())

				if cfg.Server.CertFile != nil && cfg.Server.KeyFile != nil {
					if err := srv.ListenAndServeTLS(*cfg.Server.CertFile, *cfg.Server.KeyFile); err != nil {
						if errors.Is(err, http.ErrServerClosed) {
							return
						}

						slog.Error("error running gin engine with TLS", "error", err)
					}
				} else {
					if err := srv.ListenAndServe(); err != nil {
						if errors.Is(err, http.ErrServerClosed) {
							return
						}

						slog.Error("error running gin engine", "error", err)
					}
				}
			}()

			go func() {
				<-httpCtx.Done()
				if err := srv.Shutdown(context.Background()); err != nil {
					slog.Error("error shutting down gin engine", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return nil
			default:
				cancel()
			}

			// events still in flight
			if !workers.Global.WaitTimeout(5 * time.Second) {
				slog.Warn("event handlers did not finish before shutdown")
			}

			return nil
		},
	})
}

// Middleware is a middleware that can be injected into gin.
type Middleware struct {
	Handler gin.HandlerFunc
}

// AnnotateMiddleware annotates a middleware function to be injected into gin.
func AnnotateMiddleware(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"middlewares"`),
	)
}

// AnnotateService annotates a service function to be injected into gin.
func AnnotateService(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(httpapi.Service)),
		fx.ResultTags(`group:"services"`),
	)
}
