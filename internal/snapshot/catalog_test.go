package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/logging"
)

func writeSnapshot(t *testing.T, store *Store, folder string, date time.Time) {
	t.Helper()
	_, err := store.CreateDir(folder)
	require.NoError(t, err)

	for _, d := range Domains() {
		require.NoError(t, store.WritePayload(folder, d, []byte("[]")))
	}

	require.NoError(t, store.WriteManifest(folder, &Manifest{
		ID:        folder,
		Date:      date,
		Types:     []Domain{DomainContacts},
		Counts:    Counts{Contacts: 1},
		SizeBytes: 6,
	}))
}

func TestCatalog_ListSortedDescending(t *testing.T) {
	store := NewStore(t.TempDir())
	cat := NewCatalog(store, nil, logging.ForTest(t))

	writeSnapshot(t, store, "2024-01-01_00-00-00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	writeSnapshot(t, store, "2024-03-01_00-00-00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	writeSnapshot(t, store, "2024-02-01_00-00-00", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	records, err := cat.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "2024-03-01_00-00-00", records[0].FolderName)
	assert.Equal(t, "2024-02-01_00-00-00", records[1].FolderName)
	assert.Equal(t, "2024-01-01_00-00-00", records[2].FolderName)
}

func TestCatalog_SkipsCorruptManifest(t *testing.T) {
	store := NewStore(t.TempDir())
	cat := NewCatalog(store, nil, logging.ForTest(t))

	writeSnapshot(t, store, "2024-01-01_00-00-00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	// Folder with unparsable manifest
	badDir, err := store.CreateDir("2024-01-02_00-00-00")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(badDir, ManifestFile), []byte("{not json"), 0644))

	// Folder with no manifest at all
	_, err = store.CreateDir("2024-01-03_00-00-00")
	require.NoError(t, err)

	records, err := cat.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-01_00-00-00", records[0].FolderName)
}

func TestCatalog_ListEmptyRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist-yet")
	cat := NewCatalog(NewStore(root), nil, logging.ForTest(t))

	records, err := cat.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

type recordingDeleter struct {
	calls []string
	err   error
}

func (d *recordingDeleter) DeleteExports(_ context.Context, folderName string) error {
	d.calls = append(d.calls, folderName)
	return d.err
}

func TestCatalog_DeleteRemovesLocalAndExternal(t *testing.T) {
	store := NewStore(t.TempDir())
	deleter := &recordingDeleter{}
	cat := NewCatalog(store, deleter, logging.ForTest(t))

	writeSnapshot(t, store, "2024-01-01_00-00-00", time.Now())

	require.NoError(t, cat.Delete(context.Background(), "2024-01-01_00-00-00"))

	_, err := os.Stat(store.Dir("2024-01-01_00-00-00"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, []string{"2024-01-01_00-00-00"}, deleter.calls)
}

func TestCatalog_DeleteIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())
	cat := NewCatalog(store, nil, logging.ForTest(t))

	require.NoError(t, cat.Delete(context.Background(), "never-existed"))
}

func TestCatalog_DeleteSwallowsExternalFailure(t *testing.T) {
	store := NewStore(t.TempDir())
	deleter := &recordingDeleter{err: errors.New("saf unavailable")}
	cat := NewCatalog(store, deleter, logging.ForTest(t))

	writeSnapshot(t, store, "2024-01-01_00-00-00", time.Now())

	assert.NoError(t, cat.Delete(context.Background(), "2024-01-01_00-00-00"))
}

func TestCatalog_Get(t *testing.T) {
	store := NewStore(t.TempDir())
	cat := NewCatalog(store, nil, logging.ForTest(t))

	writeSnapshot(t, store, "2024-01-01_00-00-00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	rec, err := cat.Get("2024-01-01_00-00-00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01_00-00-00", rec.FolderName)
	assert.True(t, rec.Has(DomainContacts))
	assert.Equal(t, 1, rec.Counts.For(DomainContacts))

	_, err = cat.Get("missing")
	assert.True(t, errors.Is(err, dgerrors.ErrSnapshotNotFound))
}
