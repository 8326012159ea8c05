// Package catalog parses blueprint catalog command flags and runs the
// importer under the shared telemetry entrypoint.
package catalog

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/louisbranch/blueprintcatalog/internal/platform/cmd"
	blueprintimporter "github.com/louisbranch/blueprintcatalog/internal/tools/importer/blueprints/v1"
)

// Config holds blueprint catalog command configuration.
type Config struct {
	Dir      string `env:"BLUEPRINT_CATALOG_DIR" envDefault:"data/blueprints"`
	ExportDB string `env:"BLUEPRINT_CATALOG_EXPORT_DB"`
	Strict   bool   `env:"BLUEPRINT_CATALOG_STRICT"`
	DryRun   bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "Directory holding one sub-directory per blueprint pack")
	fs.StringVar(&cfg.ExportDB, "export-db", cfg.ExportDB, "Optional SQLite path the catalog is exported into")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Reject blueprints that match more than one variant")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate packs without registering blueprints")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run replays the configured packs and writes the summary to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCatalog, func(ctx context.Context) error {
		return blueprintimporter.Run(ctx, blueprintimporter.Config{
			Dir:      cfg.Dir,
			ExportDB: cfg.ExportDB,
			Strict:   cfg.Strict,
			DryRun:   cfg.DryRun,
		}, out)
	})
}
