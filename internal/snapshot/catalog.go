package snapshot

import (
	"context"
	"log/slog"
	"os"
	"slices"
)

// ExternalDeleter removes the public copies of a snapshot. The export
// bridge implements it; deletion failures there are best-effort and never
// propagate to catalog callers.
type ExternalDeleter interface {
	DeleteExports(ctx context.Context, folderName string) error
}

// Catalog enumerates, orders, and deletes snapshots.
type Catalog struct {
	store    *Store
	external ExternalDeleter
	log      *slog.Logger
}

// NewCatalog creates a Catalog over store. external may be nil when the
// platform has no public export concept.
func NewCatalog(store *Store, external ExternalDeleter, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{store: store, external: external, log: log}
}

// List returns all snapshots sorted by manifest date, most recent first.
// Directories without a parseable manifest are skipped; they never fail
// the listing. Equal dates keep the underlying scan order.
func (c *Catalog) List() ([]Record, error) {
	if err := c.store.EnsureRoot(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.store.Root())
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifest, err := c.store.ReadManifest(entry.Name())
		if err != nil {
			c.log.Debug("skipping snapshot with unreadable manifest",
				"folder", entry.Name(), "error", err)
			continue
		}

		records = append(records, Record{Manifest: *manifest, FolderName: entry.Name()})
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		if a.Date.After(b.Date) {
			return -1
		}
		if a.Date.Before(b.Date) {
			return 1
		}
		return 0
	})

	return records, nil
}

// Get loads a single snapshot record by folder name.
func (c *Catalog) Get(folderName string) (*Record, error) {
	manifest, err := c.store.ReadManifest(folderName)
	if err != nil {
		return nil, err
	}
	return &Record{Manifest: *manifest, FolderName: folderName}, nil
}

// Delete removes the local snapshot directory and best-effort deletes any
// external export copies. Deleting twice is not an error; external-delete
// failures are logged, never surfaced.
func (c *Catalog) Delete(ctx context.Context, folderName string) error {
	if err := c.store.Remove(folderName); err != nil {
		return err
	}

	if c.external != nil {
		if err := c.external.DeleteExports(ctx, folderName); err != nil {
			c.log.Warn("public backup delete failed", "folder", folderName, "error", err)
		}
	}

	return nil
}
