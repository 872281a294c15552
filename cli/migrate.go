package cli

import (
	"context"

	"github.com/algebra-practice/backend/internal/setup"
)

// Migrate the database to the latest version.
func (c *Context) Migrate(ctx context.Context) error {
	return setup.Migrate(ctx, c.store)
}
