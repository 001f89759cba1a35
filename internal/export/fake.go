package export

import (
	"context"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
)

// FakeAuthority is an in-memory Authority for tests. It tracks grants
// and files by path and can be flipped into denial or staleness.
type FakeAuthority struct {
	// Deny makes RequestAccess fail with ErrExportPermissionDenied.
	Deny bool
	// GrantName names the directory handed out on access requests.
	GrantName string
	// Stale invalidates every held grant, failing List.
	Stale bool
	// WriteErr, when set, fails every WriteFile call.
	WriteErr error

	Files    map[string][]byte
	Dirs     map[string]bool
	Requests int
}

// NewFakeAuthority returns a fake granting a directory called name.
func NewFakeAuthority(name string) *FakeAuthority {
	return &FakeAuthority{GrantName: name, Files: map[string][]byte{}, Dirs: map[string]bool{}}
}

func (f *FakeAuthority) RequestAccess(_ context.Context) (Grant, error) {
	f.Requests++
	if f.Deny {
		return Grant{}, dgerrors.ErrExportPermissionDenied
	}
	return Grant{ID: uuid.NewString(), Path: "/" + f.GrantName, Name: f.GrantName}, nil
}

func (f *FakeAuthority) List(_ context.Context, g Grant) ([]string, error) {
	if f.Stale {
		return nil, errors.Newf("grant %s revoked", g.ID)
	}
	var names []string
	for p := range f.Files {
		if path.Dir(p) == g.Path {
			names = append(names, path.Base(p))
		}
	}
	return names, nil
}

func (f *FakeAuthority) EnsureDir(_ context.Context, g Grant, name string) (Grant, error) {
	if f.Stale {
		return Grant{}, errors.Newf("grant %s revoked", g.ID)
	}
	p := path.Join(g.Path, name)
	f.Dirs[p] = true
	return Grant{ID: uuid.NewString(), Path: p, Name: name}, nil
}

func (f *FakeAuthority) FindDir(_ context.Context, g Grant, name string) (Grant, bool, error) {
	if f.Stale {
		return Grant{}, false, errors.Newf("grant %s revoked", g.ID)
	}
	p := path.Join(g.Path, name)
	if !f.Dirs[p] {
		return Grant{}, false, nil
	}
	return Grant{ID: uuid.NewString(), Path: p, Name: name}, true, nil
}

func (f *FakeAuthority) WriteFile(_ context.Context, g Grant, name, _ string, data []byte) (string, error) {
	if f.WriteErr != nil {
		return "", f.WriteErr
	}
	p := path.Join(g.Path, name)
	f.Files[p] = append([]byte(nil), data...)
	return p, nil
}

func (f *FakeAuthority) DeleteFile(_ context.Context, g Grant, name string) error {
	delete(f.Files, path.Join(g.Path, name))
	return nil
}
