package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/blueprintcatalog/internal/platform/errors"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
)

// ErrNotFound indicates a requested export record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// CatalogEntry is one exported blueprint.
type CatalogEntry struct {
	GUID       string
	Variant    blueprint.Variant
	Name       string
	Position   int
	ExportedAt time.Time
}

// ExportRecord describes one completed catalog export.
type ExportRecord struct {
	Fingerprint string
	EntryCount  int
	ExportedAt  time.Time
}

// CatalogStore persists catalog snapshots.
type CatalogStore interface {
	// ReplaceCatalog atomically swaps the exported rows for entries and
	// records the export.
	ReplaceCatalog(ctx context.Context, entries []CatalogEntry) error
	// LatestExport returns the most recent export record.
	LatestExport(ctx context.Context) (ExportRecord, error)
	// ListCatalog returns entries of one variant ordered by position.
	ListCatalog(ctx context.Context, variant blueprint.Variant) ([]CatalogEntry, error)
	// GetCatalogEntry returns a single entry by guid.
	GetCatalogEntry(ctx context.Context, guid string) (CatalogEntry, error)
}
