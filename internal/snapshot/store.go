package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

// Store reads and writes snapshot folders under a root directory.
// It is the system of record for what a snapshot contains: the catalog
// never infers types or counts by re-reading raw payload files.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the snapshot root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory of a snapshot folder.
func (s *Store) Dir(folderName string) string {
	return filepath.Join(s.root, folderName)
}

// EnsureRoot creates the snapshot root if it does not exist.
func (s *Store) EnsureRoot() error {
	return errors.Wrap(os.MkdirAll(s.root, 0o755), "creating snapshot root")
}

// CreateDir creates a fresh snapshot directory for folderName.
func (s *Store) CreateDir(folderName string) (string, error) {
	if err := s.EnsureRoot(); err != nil {
		return "", err
	}
	dir := s.Dir(folderName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating snapshot directory")
	}
	return dir, nil
}

// WritePayload writes one domain payload file into a snapshot directory.
func (s *Store) WritePayload(folderName string, domain Domain, data []byte) error {
	path := filepath.Join(s.Dir(folderName), domain.PayloadFile())
	return errors.Wrapf(fileutil.AtomicWriteFile(path, data, 0o644), "writing %s", domain.PayloadFile())
}

// ReadPayload reads one domain payload file from a snapshot directory.
// A missing file maps to ErrDomainMissing so restore flows can tell
// "snapshot has no contacts" apart from I/O failures.
func (s *Store) ReadPayload(folderName string, domain Domain) ([]byte, error) {
	path := filepath.Join(s.Dir(folderName), domain.PayloadFile())
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrDomainMissing, "%s in %s", domain, folderName)
		}
		return nil, err
	}
	return data, nil
}

// WriteManifest writes the manifest file for a snapshot.
func (s *Store) WriteManifest(folderName string, m *Manifest) error {
	path := filepath.Join(s.Dir(folderName), ManifestFile)
	return errors.Wrap(fileutil.AtomicWriteJSON(path, m), "writing manifest")
}

// ReadManifest loads and parses the manifest of a snapshot folder.
// Returns ErrSnapshotNotFound when the folder or manifest is absent and
// ErrInvalidSnapshotFormat when it cannot be parsed.
func (s *Store) ReadManifest(folderName string) (*Manifest, error) {
	path := filepath.Join(s.Dir(folderName), ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(dgerrors.ErrSnapshotNotFound, "%s", folderName)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(dgerrors.ErrInvalidSnapshotFormat, "manifest in %s: %v", folderName, err)
	}

	return &m, nil
}

// Remove deletes the snapshot directory. Deleting a folder that does not
// exist is not an error.
func (s *Store) Remove(folderName string) error {
	return errors.Wrap(os.RemoveAll(s.Dir(folderName)), "removing snapshot directory")
}
