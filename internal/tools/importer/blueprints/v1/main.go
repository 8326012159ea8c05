// Package blueprintimporter replays blueprint packs from disk through the
// blueprint cache and reports what the catalog collected.
package blueprintimporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/cache"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/sink"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/storage"
	storagesqlite "github.com/louisbranch/blueprintcatalog/internal/services/catalog/storage/sqlite"
)

const (
	defaultSystemID  = "pathfinder-wotr"
	defaultSystemVer = "v1"

	tracerName  = "github.com/louisbranch/blueprintcatalog/internal/tools/importer/blueprints/v1"
	catalogHook = "catalog"

	maxConcurrentReads = 4
)

// Config holds configuration for the blueprint importer.
type Config struct {
	Dir      string
	ExportDB string
	Strict   bool
	DryRun   bool
}

// LoadOptions control how packs are replayed.
type LoadOptions struct {
	Strict   bool
	DryRun   bool
	Reporter sink.Reporter
}

// Catalog is the state built by replaying every pack.
type Catalog struct {
	Cache        *cache.BlueprintsCache
	Sink         *sink.Sink
	Packs        []string
	Registered   int
	InvalidGUIDs int
}

// Run loads every pack under cfg.Dir, prints a summary to out, and writes the
// export database when one is configured.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	catalog, err := Load(ctx, cfg.Dir, LoadOptions{Strict: cfg.Strict, DryRun: cfg.DryRun})
	if err != nil {
		return err
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d pack(s)\n", len(catalog.Packs))
		return err
	}

	if err := writeSummary(out, catalog); err != nil {
		return err
	}

	exportPath := strings.TrimSpace(cfg.ExportDB)
	if exportPath == "" {
		return nil
	}
	store, err := storagesqlite.OpenExport(ctx, exportPath)
	if err != nil {
		return fmt.Errorf("open export store: %w", err)
	}
	defer store.Close()

	return exportCatalog(ctx, store, catalog.Sink, exportPath, out)
}

// exportCatalog writes the catalog into store unless the latest export
// already has the same fingerprint.
func exportCatalog(ctx context.Context, store storage.CatalogStore, s *sink.Sink, exportPath string, out io.Writer) error {
	entries := CatalogEntries(s, time.Now().UTC())
	fingerprint := storage.Fingerprint(entries)

	latest, err := store.LatestExport(ctx)
	switch {
	case err == nil && latest.Fingerprint == fingerprint:
		_, err = fmt.Fprintf(out, "catalog unchanged (fingerprint %s), export skipped\n", fingerprint)
		return err
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("read latest export: %w", err)
	}

	if err := store.ReplaceCatalog(ctx, entries); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	_, err = fmt.Fprintf(out, "exported %d catalog entries into %s (fingerprint %s)\n", len(entries), exportPath, fingerprint)
	return err
}

// Load validates every pack under dir and replays it into a fresh cache with
// the catalog sink attached as a postfix hook. Pack files are read
// concurrently; registration happens in lexical pack order.
func Load(ctx context.Context, dir string, opts LoadOptions) (*Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("dir is required")
	}

	packs, err := listPackDirs(dir)
	if err != nil {
		return nil, err
	}
	if len(packs) == 0 {
		return nil, errors.New("no pack directories found")
	}

	sinkOpts := []sink.Option{}
	if opts.Reporter != nil {
		sinkOpts = append(sinkOpts, sink.WithReporter(opts.Reporter))
	}
	if opts.Strict {
		sinkOpts = append(sinkOpts, sink.WithStrictExclusivity())
	}
	catalog := &Catalog{
		Cache: cache.New(),
		Sink:  sink.New(sinkOpts...),
		Packs: packs,
	}
	if err := catalog.Cache.AddHook(cache.Hook{Name: catalogHook, F: catalog.Sink.OnRegister}); err != nil {
		return nil, err
	}

	payloads, err := readPacks(ctx, dir, packs)
	if err != nil {
		return nil, err
	}

	tracer := otel.Tracer(tracerName)
	for i, pack := range packs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := loadPack(ctx, tracer, catalog, pack, payloads[i], opts.DryRun); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// readPacks reads the payloads of every pack. The result is indexed like
// packs.
func readPacks(ctx context.Context, dir string, packs []string) ([]packPayloads, error) {
	payloads := make([]packPayloads, len(packs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, pack := range packs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := readPackPayloads(filepath.Join(dir, pack))
			if err != nil {
				return fmt.Errorf("read %s: %w", pack, err)
			}
			payloads[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return payloads, nil
}

func loadPack(ctx context.Context, tracer trace.Tracer, catalog *Catalog, pack string, payloads packPayloads, dryRun bool) error {
	_, span := tracer.Start(ctx, "blueprintimporter.loadPack", trace.WithAttributes(
		attribute.String("pack", pack),
		attribute.Bool("dry_run", dryRun),
	))
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := validatePackPayloads(payloads); err != nil {
		return fail(fmt.Errorf("validate %s: %w", pack, err))
	}
	if dryRun {
		return nil
	}

	r := &registrar{cache: catalog.Cache}
	r.registerPack(payloads)
	catalog.Registered += r.registered
	catalog.InvalidGUIDs += r.invalidGUIDs
	span.SetAttributes(
		attribute.Int("registered", r.registered),
		attribute.Int("invalid_guids", r.invalidGUIDs),
	)
	if r.invalidGUIDs > 0 {
		log.Printf("pack %s: %d blueprint(s) with invalid guid", pack, r.invalidGUIDs)
	}
	return nil
}

func listPackDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var packs []string
	for _, entry := range entries {
		if entry.IsDir() {
			packs = append(packs, entry.Name())
		}
	}
	sort.Strings(packs)
	return packs, nil
}

func readPackPayloads(dir string) (packPayloads, error) {
	var payloads packPayloads
	var err error
	payloads.Abilities, err = readJSON[payload[abilityRecord]](dir, fileAbilities)
	if err != nil {
		return payloads, err
	}
	payloads.Activatables, err = readJSON[payload[activatableRecord]](dir, fileActivatables)
	if err != nil {
		return payloads, err
	}
	payloads.Items, err = readJSON[payload[itemRecord]](dir, fileItems)
	if err != nil {
		return payloads, err
	}
	payloads.Enchantments, err = readJSON[payload[enchantmentRecord]](dir, fileEnchantments)
	if err != nil {
		return payloads, err
	}
	payloads.Features, err = readJSON[payload[featureRecord]](dir, fileFeatures)
	if err != nil {
		return payloads, err
	}
	payloads.Units, err = readJSON[payload[unitRecord]](dir, fileUnits)
	if err != nil {
		return payloads, err
	}
	return payloads, nil
}

func readJSON[T any](dir string, name string) (*T, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &value, nil
}

// validatePackPayloads checks every envelope. All files of a pack must share
// one locale.
func validatePackPayloads(payloads packPayloads) error {
	var packLocale language.Tag
	for i, h := range payloads.headers() {
		if h.systemID != defaultSystemID {
			return fmt.Errorf("%s: unsupported system id %s", h.file, h.systemID)
		}
		if h.systemVersion != defaultSystemVer {
			return fmt.Errorf("%s: unsupported system version %s", h.file, h.systemVersion)
		}
		if strings.TrimSpace(h.source) == "" {
			return fmt.Errorf("%s: source is required", h.file)
		}
		tag, err := language.Parse(strings.TrimSpace(h.locale))
		if err != nil {
			return fmt.Errorf("%s: invalid locale %q: %w", h.file, h.locale, err)
		}
		if i == 0 {
			packLocale = tag
			continue
		}
		if tag != packLocale {
			return fmt.Errorf("%s: locale mismatch: %s", h.file, tag)
		}
	}
	return nil
}

func writeSummary(out io.Writer, catalog *Catalog) error {
	stats := catalog.Sink.Stats()
	if _, err := fmt.Fprintf(out, "imported %d pack(s), %d registration(s)\n", len(catalog.Packs), catalog.Registered); err != nil {
		return err
	}
	for _, v := range blueprint.Variants() {
		if _, err := fmt.Fprintf(out, "  %-20s %d\n", v, catalog.Sink.Len(v)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "  duplicates=%d ignored=%d faults=%d invalid_guids=%d\n",
		stats.Duplicates, stats.Ignored, stats.Faults, catalog.InvalidGUIDs)
	return err
}

// CatalogEntries flattens the sink's collections into export rows. Positions
// follow insertion order within each variant.
func CatalogEntries(s *sink.Sink, now time.Time) []storage.CatalogEntry {
	var entries []storage.CatalogEntry
	entries = appendEntries(entries, blueprint.VariantAbility, s.Abilities(), now)
	entries = appendEntries(entries, blueprint.VariantActivatableAbility, s.ActivatableAbilities(), now)
	entries = appendEntries(entries, blueprint.VariantItem, s.Items(), now)
	entries = appendEntries(entries, blueprint.VariantEnchantment, s.Enchantments(), now)
	return entries
}

func appendEntries[T blueprint.Blueprint](entries []storage.CatalogEntry, variant blueprint.Variant, view sink.View[T], now time.Time) []storage.CatalogEntry {
	for i, bp := range view.All() {
		entries = append(entries, storage.CatalogEntry{
			GUID:       bp.BlueprintGUID().String(),
			Variant:    variant,
			Name:       bp.BlueprintName(),
			Position:   i,
			ExportedAt: now,
		})
	}
	return entries
}
