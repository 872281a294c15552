package cli

import (
	"context"

	"github.com/algebra-practice/backend/internal/setup"
)

// Setup setups the algebra practice instance.
func (c *Context) Setup(ctx context.Context) (*setup.SetupResult, error) {
	return setup.Setup(ctx, c.store)
}
