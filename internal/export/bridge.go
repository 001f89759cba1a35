// Package export mirrors finished snapshots into a user-visible
// directory outside the tool's private data home. Access to that
// directory goes through grants handed out by an Authority, and the
// active grant is persisted so the user is only asked once.
package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/AmanDhiman07/dataguard/internal/snapshot"
	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

// RootFolderName is the directory created under a granted location when
// the user grants something broader than a dedicated export folder.
const RootFolderName = "Data Guard"

type domainLayout struct {
	dir    string
	prefix string
	ext    string
	mime   string
}

var layouts = map[snapshot.Domain]domainLayout{
	snapshot.DomainContacts: {dir: "Contacts", prefix: "contacts_", ext: ".vcf", mime: "text/vcard"},
	snapshot.DomainMessages: {dir: "SMS", prefix: "sms_", ext: ".json", mime: "application/json"},
	snapshot.DomainCallLogs: {dir: "Calls", prefix: "calls_", ext: ".json", mime: "application/json"},
}

// FileName returns the export file name for a domain and snapshot
// folder, e.g. "contacts_2024-01-01_10-00-00.vcf".
func FileName(domain snapshot.Domain, folderName string) string {
	l := layouts[domain]
	return l.prefix + folderName + l.ext
}

type bridgeState struct {
	Root Grant `toml:"root"`
}

// Bridge owns the export root grant and the copies written under it.
type Bridge struct {
	auth      Authority
	statePath string
	log       *slog.Logger

	mu     sync.Mutex
	root   *Grant
	loaded bool
}

// New builds a Bridge persisting its grant at statePath.
func New(auth Authority, statePath string, log *slog.Logger) *Bridge {
	return &Bridge{auth: auth, statePath: statePath, log: log}
}

// Root reports the validated export root, if one is held. A persisted
// grant that no longer lists cleanly is discarded rather than surfaced
// as an error.
func (b *Bridge) Root(ctx context.Context) (Grant, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rootLocked(ctx)
}

func (b *Bridge) rootLocked(ctx context.Context) (Grant, bool) {
	if !b.loaded {
		b.loaded = true
		b.root = b.loadState()
	}
	if b.root == nil {
		return Grant{}, false
	}
	if _, err := b.auth.List(ctx, *b.root); err != nil {
		b.log.Debug("discarding stale export grant", "path", b.root.Path, "error", err)
		b.root = nil
		b.clearState()
		return Grant{}, false
	}
	return *b.root, true
}

// EnsureRoot returns the export root, requesting access from the
// authority when none is held. A grant on anything other than the
// dedicated export folder gets that folder created beneath it.
func (b *Bridge) EnsureRoot(ctx context.Context) (Grant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if g, ok := b.rootLocked(ctx); ok {
		return g, nil
	}

	granted, err := b.auth.RequestAccess(ctx)
	if err != nil {
		return Grant{}, err
	}
	if granted.Name != RootFolderName {
		granted, err = b.auth.EnsureDir(ctx, granted, RootFolderName)
		if err != nil {
			return Grant{}, err
		}
	}

	b.root = &granted
	if err := b.saveState(granted); err != nil {
		b.log.Warn("could not persist export grant", "error", err)
	}
	return granted, nil
}

// Export writes one domain payload for a snapshot folder and returns
// the domain folder the copy landed in. Failures are logged and
// reported as an empty path so the caller can decide whether the copy
// was mandatory.
func (b *Bridge) Export(ctx context.Context, domain snapshot.Domain, folderName string, payload []byte) string {
	root, err := b.EnsureRoot(ctx)
	if err != nil {
		b.log.Warn("export root unavailable", "domain", domain, "error", err)
		return ""
	}

	l := layouts[domain]
	dir, err := b.auth.EnsureDir(ctx, root, l.dir)
	if err != nil {
		b.log.Warn("export folder unavailable", "domain", domain, "error", err)
		return ""
	}

	if _, err := b.auth.WriteFile(ctx, dir, FileName(domain, folderName), l.mime, payload); err != nil {
		b.log.Warn("export write failed", "domain", domain, "error", err)
		return ""
	}
	return dir.Path
}

// DeleteExports removes the exported copies for a snapshot folder. It
// is best effort: a missing root or individual delete failure does not
// abort the caller's local delete.
func (b *Bridge) DeleteExports(ctx context.Context, folderName string) error {
	root, ok := b.Root(ctx)
	if !ok {
		return nil
	}

	for _, domain := range snapshot.Domains() {
		l := layouts[domain]
		dir, ok, err := b.auth.FindDir(ctx, root, l.dir)
		if err != nil {
			b.log.Debug("skipping export cleanup", "domain", domain, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := b.auth.DeleteFile(ctx, dir, FileName(domain, folderName)); err != nil {
			b.log.Debug("export cleanup failed", "domain", domain, "error", err)
		}
	}
	return nil
}

// Forget drops the persisted grant so the next export prompts again.
func (b *Bridge) Forget() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = nil
	b.loaded = true
	return b.clearState()
}

func (b *Bridge) loadState() *Grant {
	data, err := os.ReadFile(b.statePath)
	if err != nil {
		return nil
	}
	var state bridgeState
	if err := toml.Unmarshal(data, &state); err != nil {
		b.log.Debug("unreadable export state", "path", b.statePath, "error", err)
		return nil
	}
	if state.Root.Path == "" {
		return nil
	}
	return &state.Root
}

func (b *Bridge) saveState(g Grant) error {
	data, err := toml.Marshal(bridgeState{Root: g})
	if err != nil {
		return errors.Wrap(err, "encoding export state")
	}
	if err := os.MkdirAll(filepath.Dir(b.statePath), 0o700); err != nil {
		return errors.Wrap(err, "creating state directory")
	}
	return fileutil.AtomicWriteFile(b.statePath, data, 0o600)
}

func (b *Bridge) clearState() error {
	err := os.Remove(b.statePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "clearing export state")
	}
	return nil
}
