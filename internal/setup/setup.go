// Package setup prepares a fresh algebra practice instance.
package setup

import (
	"context"
	"log"

	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/models"
)

// SetupResult is the result of the setup process.
type SetupResult struct {
	DefaultCategory *models.Category
}

// Migrate migrates the database to the latest version.
func Migrate(ctx context.Context, st *store.Store) error {
	return st.Migrate(ctx)
}

// Setup migrates the database and creates the default category. It can be
// run again on an existing instance.
func Setup(ctx context.Context, st *store.Store) (*SetupResult, error) {
	// migrate first
	if err := Migrate(ctx, st); err != nil {
		return nil, err
	}

	defaultCategory, err := st.GetCategoryByName(ctx, question.DefaultCategory)
	if err == nil {
		log.Println("[*] Default category already exists, skipping creation")
		return &SetupResult{DefaultCategory: defaultCategory}, nil
	}

	log.Printf("[*] Creating the %q category…", question.DefaultCategory)
	defaultCategory, err = st.EnsureCategory(ctx, question.DefaultCategory, "Questions without a topic")
	if err != nil {
		return nil, err
	}

	return &SetupResult{DefaultCategory: defaultCategory}, nil
}
