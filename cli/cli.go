// Package cli provides the CLI service for the backend.
package cli

import (
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
)

// Context is the context for the CLI.
type Context struct {
	store             *store.Store
	submissionService *submission.SubmissionService
}

// NewContext creates a new Context.
func NewContext(st *store.Store, submissionService *submission.SubmissionService) *Context {
	return &Context{
		store:             st,
		submissionService: submissionService,
	}
}
