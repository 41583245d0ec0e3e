package sqlite

import (
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB creates a named shared in-memory database, unique per test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	safeName := url.PathEscape(t.Name())
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		safeName,
	)

	db, err := open(dsn, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
