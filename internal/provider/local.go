package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

// Device feed file names. A device feed is a directory of record dumps
// pulled from a phone; it is the CLI's stand-in for the on-device
// providers.
const (
	feedContacts = "contacts.json"
	feedMessages = "messages.json"
	feedCallLogs = "callLogs.json"
)

// NewLocalStack builds a provider stack over a device feed directory.
// The contact feed is always wired; the SMS and call log providers are
// treated as optional native modules and resolved only when their feed
// file exists at startup.
func NewLocalStack(deviceDir string) *Stack {
	var messages Messages
	if _, err := os.Stat(filepath.Join(deviceDir, feedMessages)); err == nil {
		messages = &localMessages{path: filepath.Join(deviceDir, feedMessages)}
	}

	var callLogs CallLogs
	if _, err := os.Stat(filepath.Join(deviceDir, feedCallLogs)); err == nil {
		callLogs = &localCallLogs{path: filepath.Join(deviceDir, feedCallLogs)}
	}

	return NewStack(
		&localContacts{path: filepath.Join(deviceDir, feedContacts)},
		messages,
		callLogs,
	)
}

func readFeedArray(path string) ([]json.RawMessage, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}
	return records, nil
}

func appendFeedRecord(path string, record any) error {
	records, err := readFeedArray(path)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshaling record")
	}
	records = append(records, raw)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(dgerrors.ErrProviderWrite, err.Error())
	}
	if err := fileutil.AtomicWriteJSON(path, records); err != nil {
		return errors.Wrap(dgerrors.ErrProviderWrite, err.Error())
	}
	return nil
}

// localContacts reads and writes the contact feed file.
type localContacts struct {
	path string
}

func (l *localContacts) RequestPermission(_ context.Context) (bool, error) {
	// The feed belongs to the invoking user; there is no OS prompt to lose.
	return true, nil
}

func (l *localContacts) List(_ context.Context) ([]Contact, error) {
	raw, err := readFeedArray(l.path)
	if err != nil {
		return nil, err
	}

	contacts := make([]Contact, 0, len(raw))
	for _, r := range raw {
		var c Contact
		if err := json.Unmarshal(r, &c); err != nil {
			return nil, errors.Wrap(err, "parsing contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (l *localContacts) CanAdd() bool {
	return true
}

func (l *localContacts) Add(_ context.Context, c Contact) (string, error) {
	if err := appendFeedRecord(l.path, c); err != nil {
		return "", err
	}
	records, err := readFeedArray(l.path)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(len(records)), nil
}

// localMessages reads and writes the SMS feed file.
type localMessages struct {
	path string
}

func (l *localMessages) RequestPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (l *localMessages) List(_ context.Context, max int) ([]json.RawMessage, error) {
	records, err := readFeedArray(l.path)
	if err != nil {
		return nil, err
	}
	if max > 0 && len(records) > max {
		records = records[:max]
	}
	return records, nil
}

func (l *localMessages) Insert(_ context.Context, box Box, msg MessageRecord) error {
	// The feed keeps the box alongside the record; a device-side importer
	// maps it back to the provider's content tables.
	return appendFeedRecord(l.path, struct {
		MessageRecord
		Box Box `json:"box"`
	}{MessageRecord: msg, Box: box})
}

// localCallLogs reads and writes the call log feed file.
type localCallLogs struct {
	path string
}

func (l *localCallLogs) RequestReadPermission(_ context.Context) (bool, error) {
	return true, nil
}

func (l *localCallLogs) RequestWritePermission(_ context.Context) (bool, error) {
	return true, nil
}

func (l *localCallLogs) List(_ context.Context) ([]json.RawMessage, error) {
	return readFeedArray(l.path)
}

func (l *localCallLogs) Insert(_ context.Context, rec CallRecord) error {
	return appendFeedRecord(l.path, rec)
}
