// Package sqlitemigrate applies embedded SQL migrations to SQLite databases.
//
// Migrations are .sql files read from an fs.FS in lexical order. Only the
// section after "-- +migrate Up" (and before "-- +migrate Down") runs. Each
// file is recorded in schema_migrations by its key so it runs at most once.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	migrationTable = "schema_migrations"

	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ErrNoMigrations is returned by RequireMigrations for an empty root.
var ErrNoMigrations = errors.New("no migrations found")

// Migration is one embedded migration file.
type Migration struct {
	// Key is the bookkeeping name: the file path relative to the FS root.
	Key string
	// UpSQL is the statement text to execute.
	UpSQL string
}

// LoadMigrations reads every .sql file directly under root in lexical order.
// Files without Up statements are skipped.
func LoadMigrations(migrationFS fs.FS, root string) ([]Migration, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		key := path.Join(root, name)
		content, err := fs.ReadFile(migrationFS, key)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}
		migrations = append(migrations, Migration{Key: key, UpSQL: upSQL})
	}
	return migrations, nil
}

// ApplyMigrations loads the migrations under migrationRoot and applies the
// ones not yet recorded. A root without migrations is an error.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) error {
	migrations, err := RequireMigrations(migrationFS, migrationRoot)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	_, err = Apply(ctx, sqlDB, migrations)
	return err
}

// Apply runs each pending migration in its own transaction together with its
// bookkeeping row and returns how many ran.
func Apply(ctx context.Context, sqlDB *sql.DB, migrations []Migration) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if sqlDB == nil {
		return 0, fmt.Errorf("sql db is required")
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return 0, err
	}

	applied, err := appliedSet(ctx, sqlDB)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, m := range migrations {
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		if _, ok := applied[m.Key]; ok {
			continue
		}
		if err := applyOne(ctx, sqlDB, m); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// Applied returns the keys of every recorded migration in application order.
func Applied(ctx context.Context, sqlDB *sql.DB) ([]string, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, "SELECT name FROM "+migrationTable+" ORDER BY applied_at, name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	return keys, nil
}

func ensureTable(ctx context.Context, sqlDB *sql.DB) error {
	_, err := sqlDB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func appliedSet(ctx context.Context, sqlDB *sql.DB) (map[string]struct{}, error) {
	keys, err := Applied(ctx, sqlDB)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set, nil
}

func applyOne(ctx context.Context, sqlDB *sql.DB, m Migration) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Key, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil && !IsAlreadyExistsError(err) {
		return fmt.Errorf("exec migration %s: %w", m.Key, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		m.Key,
		time.Now().UTC().UnixNano(),
	); err != nil {
		return fmt.Errorf("record migration %s: %w", m.Key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.Key, err)
	}
	return nil
}

// ExtractUpMigration returns the SQL in the Up section. Content without an Up
// marker is returned whole.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		return body[:downIdx]
	}
	return body
}

// IsAlreadyExistsError reports whether err comes from DDL that already took
// effect.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

// RequireMigrations is LoadMigrations that fails when root holds none.
func RequireMigrations(migrationFS fs.FS, root string) ([]Migration, error) {
	migrations, err := LoadMigrations(migrationFS, root)
	if err != nil {
		return nil, err
	}
	if len(migrations) == 0 {
		return nil, fmt.Errorf("%s: %w", root, ErrNoMigrations)
	}
	return migrations, nil
}
