package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
)

// Grant is an opaque handle on a directory the user has allowed the
// tool to write into. Handles survive restarts through the bridge's
// state file, so they carry a stable ID rather than an open descriptor.
type Grant struct {
	ID   string `toml:"id" json:"id"`
	Path string `toml:"path" json:"path"`
	Name string `toml:"name" json:"name"`
}

// Authority hands out and services directory grants. The production
// implementation is backed by the local filesystem; tests substitute a
// fake that can deny access or go stale.
type Authority interface {
	// RequestAccess asks the user for a writable directory. A refusal
	// surfaces as ErrExportPermissionDenied.
	RequestAccess(ctx context.Context) (Grant, error)

	// List enumerates entry names under the grant. It is the liveness
	// probe for persisted grants: an error means the grant is stale.
	List(ctx context.Context, g Grant) ([]string, error)

	// EnsureDir creates (or finds) a child directory and grants it.
	EnsureDir(ctx context.Context, g Grant, name string) (Grant, error)

	// FindDir grants an existing child directory without creating it.
	// A missing directory reports false with no error.
	FindDir(ctx context.Context, g Grant, name string) (Grant, bool, error)

	// WriteFile creates or replaces name under the grant and returns a
	// user-presentable location for the written file.
	WriteFile(ctx context.Context, g Grant, name, mimeType string, data []byte) (string, error)

	// DeleteFile removes name under the grant. Missing files are not an
	// error.
	DeleteFile(ctx context.Context, g Grant, name string) error
}

// fsAuthority serves grants out of a base directory on the local
// filesystem. An empty base means the user never pointed the tool at an
// export location, which reads as a denied request.
type fsAuthority struct {
	base string
}

// NewFilesystemAuthority returns an Authority rooted at base.
func NewFilesystemAuthority(base string) Authority {
	return &fsAuthority{base: base}
}

func (a *fsAuthority) RequestAccess(_ context.Context) (Grant, error) {
	if a.base == "" {
		return Grant{}, dgerrors.ErrExportPermissionDenied
	}
	if err := os.MkdirAll(a.base, 0o755); err != nil {
		return Grant{}, errors.Wrap(dgerrors.ErrExportPermissionDenied, err.Error())
	}
	return Grant{
		ID:   uuid.NewString(),
		Path: a.base,
		Name: filepath.Base(a.base),
	}, nil
}

func (a *fsAuthority) List(_ context.Context, g Grant) ([]string, error) {
	entries, err := os.ReadDir(g.Path)
	if err != nil {
		return nil, errors.Wrap(err, "listing export directory")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (a *fsAuthority) EnsureDir(_ context.Context, g Grant, name string) (Grant, error) {
	path := filepath.Join(g.Path, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Grant{}, errors.Wrapf(err, "creating %s", name)
	}
	return Grant{ID: uuid.NewString(), Path: path, Name: name}, nil
}

func (a *fsAuthority) FindDir(_ context.Context, g Grant, name string) (Grant, bool, error) {
	path := filepath.Join(g.Path, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Grant{}, false, nil
		}
		return Grant{}, false, errors.Wrapf(err, "looking up %s", name)
	}
	if !info.IsDir() {
		return Grant{}, false, nil
	}
	return Grant{ID: uuid.NewString(), Path: path, Name: name}, true, nil
}

func (a *fsAuthority) WriteFile(_ context.Context, g Grant, name, _ string, data []byte) (string, error) {
	path := filepath.Join(g.Path, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	return path, nil
}

func (a *fsAuthority) DeleteFile(_ context.Context, g Grant, name string) error {
	err := os.Remove(filepath.Join(g.Path, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "deleting %s", name)
	}
	return nil
}
