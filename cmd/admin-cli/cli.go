package main

import (
	"context"
	"log"
	"os"

	apcli "github.com/algebra-practice/backend/cli"
	"github.com/algebra-practice/backend/internal/deps"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/submission"

	_ "github.com/algebra-practice/backend/internal/deps/logger"
)

func main() {
	cfg, err := deps.Config()
	if err != nil {
		log.Fatal(err)
	}

	st, err := deps.Store(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = st.Close()
	}()

	// regrading is an administrative action, not a learner event
	submissionService := submission.NewSubmissionService(st, st, events.NewEventService(), submission.Policy{
		MaxAttempts: cfg.Grading.MaxAttempts,
	})

	c := apcli.NewContext(st, submissionService)

	setupCommand := newSetupCommand(c)
	migrateCommand := newMigrateCommand(c)
	seedQuestionsCommand := newSeedQuestionsCommand(c)
	regradeCommand := newRegradeCommand(c)
	sanitizeCommand := newSanitizeCommand(c)

	rootCommand := newRootCommand(setupCommand, migrateCommand, seedQuestionsCommand, regradeCommand, sanitizeCommand)

	if err := rootCommand.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
