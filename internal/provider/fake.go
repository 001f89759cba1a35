package provider

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// FakeContacts is an in-memory contact provider for unit tests.
type FakeContacts struct {
	Records    []Contact
	DenyRead   bool
	AddMissing bool
	AddErr     error

	added []Contact
}

// NewFakeContacts creates a FakeContacts seeded with records.
func NewFakeContacts(records ...Contact) *FakeContacts {
	return &FakeContacts{Records: records}
}

func (f *FakeContacts) RequestPermission(_ context.Context) (bool, error) {
	return !f.DenyRead, nil
}

func (f *FakeContacts) List(_ context.Context) ([]Contact, error) {
	out := make([]Contact, len(f.Records))
	copy(out, f.Records)
	return out, nil
}

func (f *FakeContacts) CanAdd() bool {
	return !f.AddMissing
}

func (f *FakeContacts) Add(_ context.Context, c Contact) (string, error) {
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.Records = append(f.Records, c)
	f.added = append(f.added, c)
	return strconv.Itoa(len(f.Records)), nil
}

// Added returns the contacts written through Add, in order.
func (f *FakeContacts) Added() []Contact {
	return f.added
}

// FakeMessages is an in-memory SMS provider for unit tests.
type FakeMessages struct {
	Records   []json.RawMessage
	DenyRead  bool
	InsertErr error

	inserted []insertedMessage
}

type insertedMessage struct {
	Box Box
	Msg MessageRecord
}

func (f *FakeMessages) RequestPermission(_ context.Context) (bool, error) {
	return !f.DenyRead, nil
}

func (f *FakeMessages) List(_ context.Context, max int) ([]json.RawMessage, error) {
	if max > 0 && len(f.Records) > max {
		return f.Records[:max], nil
	}
	return f.Records, nil
}

func (f *FakeMessages) Insert(_ context.Context, box Box, msg MessageRecord) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshaling message")
	}
	f.Records = append(f.Records, raw)
	f.inserted = append(f.inserted, insertedMessage{Box: box, Msg: msg})
	return nil
}

// InsertedBoxes returns the target box of every insert, in order.
func (f *FakeMessages) InsertedBoxes() []Box {
	boxes := make([]Box, len(f.inserted))
	for i, m := range f.inserted {
		boxes[i] = m.Box
	}
	return boxes
}

// Inserted returns the messages written through Insert, in order.
func (f *FakeMessages) Inserted() []MessageRecord {
	msgs := make([]MessageRecord, len(f.inserted))
	for i, m := range f.inserted {
		msgs[i] = m.Msg
	}
	return msgs
}

// FakeCallLogs is an in-memory call log provider for unit tests.
type FakeCallLogs struct {
	Records   []json.RawMessage
	DenyRead  bool
	DenyWrite bool
	InsertErr error

	inserted []CallRecord
}

func (f *FakeCallLogs) RequestReadPermission(_ context.Context) (bool, error) {
	return !f.DenyRead, nil
}

func (f *FakeCallLogs) RequestWritePermission(_ context.Context) (bool, error) {
	return !f.DenyWrite, nil
}

func (f *FakeCallLogs) List(_ context.Context) ([]json.RawMessage, error) {
	return f.Records, nil
}

func (f *FakeCallLogs) Insert(_ context.Context, rec CallRecord) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshaling call record")
	}
	f.Records = append(f.Records, raw)
	f.inserted = append(f.inserted, rec)
	return nil
}

// Inserted returns the call records written through Insert, in order.
func (f *FakeCallLogs) Inserted() []CallRecord {
	return f.inserted
}
