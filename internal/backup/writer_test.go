package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/export"
	"github.com/AmanDhiman07/dataguard/internal/logging"
	"github.com/AmanDhiman07/dataguard/internal/provider"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

var fixedTime = time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)

const fixedFolder = "2024-03-15_09-30-00"

type writerFixture struct {
	store *snapshot.Store
	auth  *export.FakeAuthority
	exp   *export.Bridge
}

func newWriter(t *testing.T, stack *provider.Stack, opts Options) (*Writer, *writerFixture) {
	t.Helper()
	dir := t.TempDir()
	store := snapshot.NewStore(filepath.Join(dir, "backups"))
	auth := export.NewFakeAuthority(export.RootFolderName)
	exp := export.New(auth, filepath.Join(dir, "export-root.toml"), logging.NewDiscard())
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedTime }
	}
	w := NewWriter(store, stack, exp, opts, logging.NewDiscard())
	return w, &writerFixture{store: store, auth: auth, exp: exp}
}

func contactStack(contacts *provider.FakeContacts) *provider.Stack {
	return provider.NewStack(contacts, &provider.FakeMessages{}, &provider.FakeCallLogs{})
}

func TestContactsBackup(t *testing.T) {
	contacts := provider.NewFakeContacts(
		provider.Contact{
			Name:         "Ada Lovelace",
			FirstName:    "Ada",
			LastName:     "Lovelace",
			PhoneNumbers: []provider.PhoneNumber{{Number: "+1 555 0100", Label: "mobile"}},
		},
	)
	w, fx := newWriter(t, contactStack(contacts), Options{MandatoryExport: true})

	res, err := w.Contacts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixedFolder, res.Folder)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "/Data Guard/Contacts", res.Path, "the result points at the export folder")

	manifest, err := fx.store.ReadManifest(fixedFolder)
	require.NoError(t, err)
	assert.Equal(t, fixedFolder, manifest.ID)
	assert.Equal(t, []snapshot.Domain{snapshot.DomainContacts}, manifest.Types)
	assert.Equal(t, 1, manifest.Counts.Contacts)
	assert.Positive(t, manifest.SizeBytes)

	payload, err := fx.store.ReadPayload(fixedFolder, snapshot.DomainContacts)
	require.NoError(t, err)
	var got []provider.Contact
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "Ada Lovelace", got[0].Name)

	// Sibling domains are written as empty arrays.
	for _, d := range []snapshot.Domain{snapshot.DomainMessages, snapshot.DomainCallLogs} {
		data, err := fx.store.ReadPayload(fixedFolder, d)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}

	vcf := fx.auth.Files["/Data Guard/Contacts/contacts_"+fixedFolder+".vcf"]
	assert.Contains(t, string(vcf), "TEL;TYPE=MOBILE:+1 555 0100")
}

func TestContactsPermissionDenied(t *testing.T) {
	contacts := provider.NewFakeContacts()
	contacts.DenyRead = true
	w, fx := newWriter(t, contactStack(contacts), Options{})

	_, err := w.Contacts(context.Background())

	assert.ErrorIs(t, err, dgerrors.ErrPermissionDenied)
	records, listErr := snapshot.NewCatalog(fx.store, fx.exp, logging.NewDiscard()).List()
	require.NoError(t, listErr)
	assert.Empty(t, records, "no snapshot folder on denied permission")
}

func TestBackupDeniedExportRootLeavesNoState(t *testing.T) {
	w, fx := newWriter(t, contactStack(provider.NewFakeContacts()), Options{MandatoryExport: true})
	fx.auth.Deny = true

	_, err := w.Contacts(context.Background())

	require.ErrorIs(t, err, dgerrors.ErrExportPermissionDenied)
	_, statErr := os.Stat(fx.store.Root())
	assert.True(t, os.IsNotExist(statErr))
}

func TestMandatoryExportRollsBackSnapshot(t *testing.T) {
	w, fx := newWriter(t, contactStack(provider.NewFakeContacts(provider.Contact{Name: "A"})), Options{MandatoryExport: true})

	// Root settles fine, then the write itself fails.
	_, err := fx.exp.EnsureRoot(context.Background())
	require.NoError(t, err)
	fx.auth.WriteErr = os.ErrPermission

	_, err = w.Contacts(context.Background())

	require.ErrorIs(t, err, dgerrors.ErrExportPermissionDenied)
	_, err = fx.store.ReadManifest(fixedFolder)
	assert.ErrorIs(t, err, dgerrors.ErrSnapshotNotFound)
}

func TestOptionalExportKeepsLocalSnapshot(t *testing.T) {
	w, fx := newWriter(t, contactStack(provider.NewFakeContacts(provider.Contact{Name: "A"})), Options{MandatoryExport: false})

	_, err := fx.exp.EnsureRoot(context.Background())
	require.NoError(t, err)
	fx.auth.WriteErr = os.ErrPermission

	res, err := w.Contacts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fx.store.Dir(fixedFolder), res.Path)
	_, err = fx.store.ReadManifest(fixedFolder)
	assert.NoError(t, err)
}

func TestMessagesBackupAppliesLimit(t *testing.T) {
	var records []json.RawMessage
	for i := 0; i < 5; i++ {
		records = append(records, json.RawMessage(`{"address":"+15550100","body":"hi"}`))
	}
	stack := provider.NewStack(provider.NewFakeContacts(), &provider.FakeMessages{Records: records}, &provider.FakeCallLogs{})
	w, fx := newWriter(t, stack, Options{SMSLimit: 3})

	res, err := w.Messages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	manifest, err := fx.store.ReadManifest(fixedFolder)
	require.NoError(t, err)
	assert.Equal(t, []snapshot.Domain{snapshot.DomainMessages}, manifest.Types)
	assert.Equal(t, 3, manifest.Counts.Messages)
	assert.Equal(t, 0, manifest.Counts.Contacts)
}

func TestMessagesBackupWithoutModule(t *testing.T) {
	stack := provider.NewStack(provider.NewFakeContacts(), nil, nil)
	w, _ := newWriter(t, stack, Options{})

	_, err := w.Messages(context.Background())

	assert.ErrorIs(t, err, dgerrors.ErrNativeUnavailable)
}

func TestCallLogsBackup(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"number":"+15550100","type":"INCOMING","duration":42}`),
	}
	stack := provider.NewStack(provider.NewFakeContacts(), &provider.FakeMessages{}, &provider.FakeCallLogs{Records: records})
	w, fx := newWriter(t, stack, Options{})

	res, err := w.CallLogs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "/Data Guard/Calls", res.Path)

	payload, err := fx.store.ReadPayload(fixedFolder, snapshot.DomainCallLogs)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"number":"+15550100","type":"INCOMING","duration":42}]`, string(payload))
}

func TestCallLogsPermissionDenied(t *testing.T) {
	stack := provider.NewStack(provider.NewFakeContacts(), &provider.FakeMessages{}, &provider.FakeCallLogs{DenyRead: true})
	w, _ := newWriter(t, stack, Options{})

	_, err := w.CallLogs(context.Background())

	assert.ErrorIs(t, err, dgerrors.ErrPermissionDenied)
}

func TestEmptyCaptureWritesEmptyArray(t *testing.T) {
	stack := provider.NewStack(provider.NewFakeContacts(), &provider.FakeMessages{}, &provider.FakeCallLogs{})
	w, fx := newWriter(t, stack, Options{})

	res, err := w.Messages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	payload, err := fx.store.ReadPayload(fixedFolder, snapshot.DomainMessages)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}
