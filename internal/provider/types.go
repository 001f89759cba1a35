package provider

import (
	"context"
	"encoding/json"
)

// PhoneNumber is one phone entry of a contact.
type PhoneNumber struct {
	Number string `json:"number"`
	Label  string `json:"label,omitempty"`
}

// Email is one email entry of a contact.
type Email struct {
	Email string `json:"email"`
	Label string `json:"label,omitempty"`
}

// Contact is the shape the contact provider reads and writes.
type Contact struct {
	Name         string        `json:"name,omitempty"`
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers,omitempty"`
	Emails       []Email       `json:"emails,omitempty"`
}

// Box names the message collection a restored SMS lands in.
type Box string

// Message collections, mirroring the provider's content tables.
const (
	BoxInbox  Box = "inbox"
	BoxSent   Box = "sent"
	BoxDraft  Box = "draft"
	BoxOutbox Box = "outbox"
)

// MessageRecord is the normalized shape the message write bridge accepts.
type MessageRecord struct {
	Address  string `json:"address"`
	Body     string `json:"body"`
	Date     int64  `json:"date"`
	DateSent int64  `json:"date_sent,omitempty"`
	Type     int    `json:"type"`
	Read     int    `json:"read"`
	Seen     int    `json:"seen"`
	ThreadID int64  `json:"thread_id,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// CallRecord is the normalized shape the call log write bridge accepts.
type CallRecord struct {
	Number   string `json:"number"`
	Date     int64  `json:"date"`
	Duration int64  `json:"duration"`
	Type     int    `json:"type"`
	Name     string `json:"name,omitempty"`
}

// Contacts is the contact provider surface the engine depends on.
// Add may be unavailable in some builds; callers must check CanAdd before
// invoking it and fail with a capability error rather than a panic.
type Contacts interface {
	// RequestPermission asks the OS for contact read/write access.
	// False means the user (or policy) denied it.
	RequestPermission(ctx context.Context) (bool, error)

	// List reads all contacts.
	List(ctx context.Context) ([]Contact, error)

	// CanAdd reports whether this build can write contacts.
	CanAdd() bool

	// Add inserts a contact and returns its provider-assigned ID.
	Add(ctx context.Context, c Contact) (string, error)
}

// Messages is the optional SMS provider surface. Records flow through
// backup untouched as raw JSON; only the restore boundary interprets them.
type Messages interface {
	// RequestPermission asks the OS for SMS read access.
	RequestPermission(ctx context.Context) (bool, error)

	// List reads up to max messages.
	List(ctx context.Context, max int) ([]json.RawMessage, error)

	// Insert writes one normalized message into the given box. The OS only
	// permits this for the default SMS app; role gating happens upstream.
	Insert(ctx context.Context, box Box, msg MessageRecord) error
}

// CallLogs is the optional call log provider surface.
type CallLogs interface {
	// RequestReadPermission asks the OS for call log read access.
	RequestReadPermission(ctx context.Context) (bool, error)

	// RequestWritePermission asks the OS for call log write access.
	RequestWritePermission(ctx context.Context) (bool, error)

	// List reads all call log entries.
	List(ctx context.Context) ([]json.RawMessage, error)

	// Insert writes one normalized call log entry. The OS only permits
	// this for the default dialer; role gating happens upstream.
	Insert(ctx context.Context, rec CallRecord) error
}

// Stack aggregates the providers available in the current build.
// Messages and CallLogs are optional native capabilities: they are
// resolved once at startup, and call sites check availability instead of
// assuming presence.
type Stack struct {
	contacts Contacts
	messages Messages
	callLogs CallLogs
}

// NewStack builds a Stack. messages and callLogs may be nil when their
// native modules are absent.
func NewStack(contacts Contacts, messages Messages, callLogs CallLogs) *Stack {
	return &Stack{contacts: contacts, messages: messages, callLogs: callLogs}
}

// Contacts returns the contact provider, which is always present.
func (s *Stack) Contacts() Contacts {
	return s.contacts
}

// Messages returns the SMS provider and whether it is available.
func (s *Stack) Messages() (Messages, bool) {
	return s.messages, s.messages != nil
}

// CallLogs returns the call log provider and whether it is available.
func (s *Stack) CallLogs() (CallLogs, bool) {
	return s.callLogs, s.callLogs != nil
}
