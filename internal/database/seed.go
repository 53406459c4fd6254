package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SeedAuthorEmail is the email of the default template author.
const SeedAuthorEmail = "admin@blockpress.local"

// Seed inserts the development author and the site name setting inside a
// single transaction. Rows that already exist are left untouched.
func Seed(ctx context.Context, db *sql.DB, siteName string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, display_name)
		VALUES ($1, 'Admin')
		ON CONFLICT (email) DO NOTHING
	`, SeedAuthorEmail)
	if err != nil {
		return fmt.Errorf("seed author: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("seeded default author", "email", SeedAuthorEmail)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO site_settings (key, value)
		VALUES ('site_name', $1)
		ON CONFLICT (key) DO NOTHING
	`, siteName); err != nil {
		return fmt.Errorf("seed site name: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}
