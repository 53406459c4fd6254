// store_test.go provides the shared database helpers of the store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"blockpress/internal/database"
)

// testDB connects to the database named by the POSTGRES_* variables and
// applies migrations. Tests skip when the server is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		env("POSTGRES_USER", "blockpress"), env("POSTGRES_PASSWORD", "changeme"),
		env("POSTGRES_HOST", "localhost"), env("POSTGRES_PORT", "5432"),
		env("POSTGRES_DB", "blockpress"))

	ctx := context.Background()
	db, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanTemplates removes every customization stored for theme. Call in t.Cleanup().
func cleanTemplates(t *testing.T, db *sql.DB, theme string) {
	t.Helper()
	db.Exec("DELETE FROM block_templates WHERE theme = $1", theme)
}

// cleanSettings removes test settings by key. Call in t.Cleanup().
func cleanSettings(t *testing.T, db *sql.DB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		db.Exec("DELETE FROM site_settings WHERE key = $1", key)
	}
}
