package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/algebra-practice/backend/internal/deps"
	"go.uber.org/fx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := fx.New(
		deps.FxCommonModule,
		fx.Provide(
			AnnotateMiddleware(RequestIDMiddleware),
			AnnotateMiddleware(ClientMiddleware),
			AnnotateMiddleware(CorsMiddleware),
			AnnotateService(QuestionService),
			AnnotateService(CategoryService),
			AnnotateService(FormulaService),
			fx.Annotate(
				GinEngine,
				fx.ParamTags(`group:"services"`, `group:"middlewares"`),
			),
		),
		fx.Invoke(deps.OTelSDK),
		fx.Invoke(GinLifecycle),
	)

	if err := app.Start(ctx); err != nil {
		slog.Error("error starting server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Gracefully shutting down server (Ctrl+C again to force stop)...")
	cancel()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("error stopping server", "error", err)
	}

	slog.Info("Server stopped")
}
