package cli_test

import (
	"context"
	"testing"

	"github.com/algebra-practice/backend/cli"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
	"github.com/algebra-practice/backend/internal/testhelper"
)

func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	st := testhelper.NewSqliteStore(t)
	eventService := events.NewEventService()
	submissionService := submission.NewSubmissionService(st, st, eventService, submission.DefaultPolicy())

	return &TestContext{
		store:             st,
		submissionService: submissionService,
	}
}

type TestContext struct {
	store             *store.Store
	submissionService *submission.SubmissionService
}

func (tc *TestContext) Setup(t *testing.T) {
	t.Helper()

	cliContext := tc.GetContext(t)

	_, err := cliContext.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
}

func (tc *TestContext) GetContext(t *testing.T) *cli.Context {
	t.Helper()

	return cli.NewContext(tc.store, tc.submissionService)
}

func (tc *TestContext) GetStore(t *testing.T) *store.Store {
	t.Helper()

	return tc.store
}
