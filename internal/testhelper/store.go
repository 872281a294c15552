package testhelper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/workers"

	_ "github.com/mattn/go-sqlite3"
)

var databaseCounter atomic.Int64

// NewSqliteStore creates a migrated in-memory SQLite store for testing.
func NewSqliteStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:algebra-test-%d?mode=memory&cache=shared&_fk=1", databaseCounter.Add(1))
	st, err := store.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate store: %v", err)
	}

	// one connection keeps the in-memory database alive and serializes writers
	st.DB().SetMaxOpenConns(1)

	t.Cleanup(func() {
		// must wait the workers to finish
		workers.Global.Wait()

		if err := st.Close(); err != nil {
			t.Fatalf("Failed to close store: %v", err)
		}
	})

	return st
}
