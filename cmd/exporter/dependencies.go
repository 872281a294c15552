package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/algebra-practice/backend/internal/config"
	"github.com/algebra-practice/backend/internal/deps"
	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	_ "github.com/algebra-practice/backend/internal/deps/logger"
)

func ExporterConfig() (config.ExporterConfig, error) {
	return config.LoadExporterConfig()
}

func Store(lifecycle fx.Lifecycle, cfg config.ExporterConfig) (*store.Store, error) {
	st, err := deps.Store(cfg.Database)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.StopHook(st.Close))

	return st, nil
}

func PrometheusMetrics(st *store.Store) prometheus.Gatherer {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		metrics.NewQuestionCollector(st),
		metrics.NewSubmissionCollector(st),
	)

	return registry
}

func PrometheusHTTPHandler(cfg config.ExporterConfig, gatherer prometheus.Gatherer, lifecycle fx.Lifecycle) {
	httpCtx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			mux := http.NewServeMux()

			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("OK"))
			})

			mux.Handle("GET /metrics", promhttp.HandlerFor(
				gatherer,
				promhttp.HandlerOpts{
					MaxRequestsInFlight:                 100,
					Timeout:                             10 * time.Second,
					EnableOpenMetrics:                   true,
					EnableOpenMetricsTextCreatedSamples: true,
				},
			))

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			workers.Global.Go(func() {
				slog.Info("prometheus http handler starting", "address", srv.Addr)
				if err := srv.ListenAndServe(); err != nil {
					if errors.Is(err, http.ErrServerClosed) {
						return
					}

					slog.Error("error starting prometheus http handler", "error", err)
				}
			})

			workers.Global.Go(func() {
				<-httpCtx.Done()

				slog.Info("prometheus http handler shutting down")
				if err := srv.Shutdown(context.Background()); err != nil {
					slog.Error("error shutting down prometheus http handler", "error", err)
				}
			})

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			workers.Global.Wait()

			return nil
		},
	})
}
