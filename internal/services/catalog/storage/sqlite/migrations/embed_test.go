package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestCatalogMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(CatalogFS, "catalog")
	if err != nil {
		t.Fatalf("read catalog migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected catalog migrations to be embedded")
	}
	if entries[0].Name() != "001_catalog.sql" {
		t.Fatalf("expected first catalog migration 001_catalog.sql, got %s", entries[0].Name())
	}

	content, err := fs.ReadFile(CatalogFS, "catalog/001_catalog.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(content), "-- +migrate Up") {
		t.Fatal("expected migration to declare an Up section")
	}
}
