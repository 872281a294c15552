package main

import (
	"github.com/algebra-practice/backend/internal/deps"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			ExporterConfig,
			Store,
			PrometheusMetrics,
		),
		fx.Invoke(deps.OTelSDK),
		fx.Invoke(PrometheusHTTPHandler),
	)

	app.Run()
}
