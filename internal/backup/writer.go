// Package backup produces snapshots. Each run captures one record
// domain into a fresh timestamped folder under the snapshot root and
// mirrors the captured payload to the export bridge.
package backup

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/export"
	"github.com/AmanDhiman07/dataguard/internal/provider"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
	"github.com/AmanDhiman07/dataguard/internal/vcard"
)

// Result describes a completed backup. Path points at the export
// folder the copy landed in, otherwise at the local snapshot folder.
type Result struct {
	Folder string
	Path   string
	Count  int
}

// Options tune writer behavior.
type Options struct {
	// SMSLimit caps how many messages a single snapshot captures.
	SMSLimit int
	// MandatoryExport rolls the snapshot back when the exported copy
	// cannot be written.
	MandatoryExport bool
	// Now stamps snapshots; defaults to time.Now.
	Now func() time.Time
}

// Writer captures device records into snapshots.
type Writer struct {
	store *snapshot.Store
	stack *provider.Stack
	exp   *export.Bridge
	opts  Options
	log   *slog.Logger
}

// NewWriter builds a Writer.
func NewWriter(store *snapshot.Store, stack *provider.Stack, exp *export.Bridge, opts Options, log *slog.Logger) *Writer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Writer{store: store, stack: stack, exp: exp, opts: opts, log: log}
}

// ensureExportRoot gates every backup. The export destination must be
// settled before any local state is written so a refusal leaves no
// half-made snapshot behind.
func (w *Writer) ensureExportRoot(ctx context.Context) error {
	if _, err := w.exp.EnsureRoot(ctx); err != nil {
		if errors.Is(err, dgerrors.ErrExportPermissionDenied) {
			return err
		}
		return errors.Wrap(dgerrors.ErrExportPermissionDenied, err.Error())
	}
	return nil
}

// Contacts captures the contact list. The local snapshot keeps the raw
// records as JSON; the exported copy is a vCard file importable by any
// contacts app.
func (w *Writer) Contacts(ctx context.Context) (*Result, error) {
	if err := w.ensureExportRoot(ctx); err != nil {
		return nil, err
	}

	contacts := w.stack.Contacts()
	granted, err := contacts.RequestPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting contacts permission")
	}
	if !granted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "contacts read")
	}

	records, err := contacts.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading contacts")
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "serializing contacts")
	}

	return w.commit(ctx, snapshot.DomainContacts, payload, []byte(vcard.Encode(records)), len(records))
}

// Messages captures the SMS store, newest first, up to the configured
// limit.
func (w *Writer) Messages(ctx context.Context) (*Result, error) {
	if err := w.ensureExportRoot(ctx); err != nil {
		return nil, err
	}

	messages, ok := w.stack.Messages()
	if !ok {
		return nil, errors.Wrap(dgerrors.ErrNativeUnavailable, "sms module")
	}

	granted, err := messages.RequestPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting sms permission")
	}
	if !granted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "sms read")
	}

	records, err := messages.List(ctx, w.opts.SMSLimit)
	if err != nil {
		return nil, errors.Wrap(err, "reading messages")
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "serializing messages")
	}

	return w.commit(ctx, snapshot.DomainMessages, payload, payload, len(records))
}

// CallLogs captures the call history.
func (w *Writer) CallLogs(ctx context.Context) (*Result, error) {
	if err := w.ensureExportRoot(ctx); err != nil {
		return nil, err
	}

	callLogs, ok := w.stack.CallLogs()
	if !ok {
		return nil, errors.Wrap(dgerrors.ErrNativeUnavailable, "call log module")
	}

	granted, err := callLogs.RequestReadPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting call log permission")
	}
	if !granted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "call log read")
	}

	records, err := callLogs.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading call logs")
	}
	if records == nil {
		records = []json.RawMessage{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, errors.Wrap(err, "serializing call logs")
	}

	return w.commit(ctx, snapshot.DomainCallLogs, payload, payload, len(records))
}

var emptyArray = []byte("[]")

// commit writes the snapshot folder and its manifest, then mirrors the
// export payload through the bridge. Sibling domains are written as
// empty arrays so every snapshot carries the full payload set.
func (w *Writer) commit(ctx context.Context, domain snapshot.Domain, payload, exportPayload []byte, count int) (*Result, error) {
	now := w.opts.Now()
	folder := snapshot.FolderName(now)

	if _, err := w.store.CreateDir(folder); err != nil {
		return nil, errors.Wrap(err, "creating snapshot folder")
	}

	var size int64
	for _, d := range snapshot.Domains() {
		data := emptyArray
		if d == domain {
			data = payload
		}
		if err := w.store.WritePayload(folder, d, data); err != nil {
			w.rollback(folder)
			return nil, errors.Wrapf(err, "writing %s payload", d)
		}
		size += int64(len(data))
	}

	counts := snapshot.Counts{}
	switch domain {
	case snapshot.DomainContacts:
		counts.Contacts = count
	case snapshot.DomainMessages:
		counts.Messages = count
	case snapshot.DomainCallLogs:
		counts.CallLogs = count
	}

	manifest := &snapshot.Manifest{
		ID:        folder,
		Date:      now,
		Types:     []snapshot.Domain{domain},
		Counts:    counts,
		SizeBytes: size,
	}
	if err := w.store.WriteManifest(folder, manifest); err != nil {
		w.rollback(folder)
		return nil, errors.Wrap(err, "writing manifest")
	}

	exported := w.exp.Export(ctx, domain, folder, exportPayload)
	if exported == "" && w.opts.MandatoryExport {
		w.rollback(folder)
		return nil, errors.Wrap(dgerrors.ErrExportPermissionDenied, "exported copy required")
	}

	path := exported
	if path == "" {
		path = w.store.Dir(folder)
	}

	w.log.Info("backup complete", "domain", domain, "folder", folder, "count", count, "path", path)
	return &Result{Folder: folder, Path: path, Count: count}, nil
}

func (w *Writer) rollback(folder string) {
	if err := w.store.Remove(folder); err != nil {
		w.log.Warn("snapshot rollback failed", "folder", folder, "error", err)
	}
}
