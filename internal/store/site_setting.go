// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SiteSettingStore reads and writes the site_settings key/value table.
type SiteSettingStore struct {
	db *sql.DB
}

// NewSiteSettingStore returns a SiteSettingStore backed by db.
func NewSiteSettingStore(db *sql.DB) *SiteSettingStore {
	return &SiteSettingStore{db: db}
}

// Get returns the value stored under key. Missing and empty values yield
// fallback.
func (s *SiteSettingStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&val)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fallback, nil
	case err != nil:
		return fallback, fmt.Errorf("get site setting %s: %w", key, err)
	case val == "":
		return fallback, nil
	}
	return val, nil
}

// Set stores value under key, replacing any previous value.
func (s *SiteSettingStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set site setting %s: %w", key, err)
	}
	return nil
}
