package catalog

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("blueprint-catalog", flag.ContinueOnError)
	t.Setenv("BLUEPRINT_CATALOG_DIR", "/srv/packs")
	t.Setenv("BLUEPRINT_CATALOG_STRICT", "true")

	cfg, err := ParseConfig(fs, []string{"-export-db", "catalog.db", "-dry-run"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Dir != "/srv/packs" {
		t.Fatalf("dir = %q, want %q", cfg.Dir, "/srv/packs")
	}
	if !cfg.Strict {
		t.Fatal("expected strict from env")
	}
	if cfg.ExportDB != "catalog.db" {
		t.Fatalf("export db = %q, want %q", cfg.ExportDB, "catalog.db")
	}
	if !cfg.DryRun {
		t.Fatal("expected dry run from flag")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("blueprint-catalog", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Dir != "data/blueprints" {
		t.Fatalf("dir = %q, want %q", cfg.Dir, "data/blueprints")
	}
	if cfg.Strict || cfg.DryRun || cfg.ExportDB != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfig_FlagOverridesEnv(t *testing.T) {
	fs := flag.NewFlagSet("blueprint-catalog", flag.ContinueOnError)
	t.Setenv("BLUEPRINT_CATALOG_DIR", "/srv/packs")

	cfg, err := ParseConfig(fs, []string{"-dir", "local"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Dir != "local" {
		t.Fatalf("dir = %q, want %q", cfg.Dir, "local")
	}
}

func TestParseConfig_RejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("blueprint-catalog", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})

	if _, err := ParseConfig(fs, []string{"-port", "8080"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestRun_DryRunValidatesPacks(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "")
	dir := t.TempDir()
	packDir := filepath.Join(dir, "base")
	if err := os.MkdirAll(packDir, 0o755); err != nil {
		t.Fatalf("mkdir pack: %v", err)
	}
	payload := `{"system_id":"pathfinder-wotr","system_version":"v1","source":"base","locale":"en-US","items":[]}`
	if err := os.WriteFile(filepath.Join(packDir, "abilities.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), Config{Dir: dir, DryRun: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "validated 1 pack(s)") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRun_PropagatesImporterError(t *testing.T) {
	t.Setenv("BLUEPRINT_CATALOG_OTEL_ENDPOINT", "")

	if err := Run(context.Background(), Config{Dir: t.TempDir()}, nil); err == nil {
		t.Fatal("expected error for directory without packs")
	}
}
