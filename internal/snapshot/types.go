package snapshot

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Domain identifies one of the backed-up data domains.
type Domain string

// The three data domains a snapshot can carry.
const (
	DomainContacts Domain = "contacts"
	DomainMessages Domain = "messages"
	DomainCallLogs Domain = "callLogs"
)

// Domains returns all domains in their canonical order.
func Domains() []Domain {
	return []Domain{DomainContacts, DomainMessages, DomainCallLogs}
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	switch d {
	case DomainContacts, DomainMessages, DomainCallLogs:
		return true
	}
	return false
}

// PayloadFile returns the snapshot-local file name carrying d's records.
func (d Domain) PayloadFile() string {
	switch d {
	case DomainContacts:
		return ContactsFile
	case DomainMessages:
		return MessagesFile
	default:
		return CallLogsFile
	}
}

// File names inside every snapshot folder.
const (
	ManifestFile = "manifest.json"
	ContactsFile = "contacts.json"
	MessagesFile = "messages.json"
	CallLogsFile = "callLogs.json"
)

// Sentinel errors for catalog operations.
var (
	// ErrDomainMissing indicates the snapshot has no payload for the
	// requested domain.
	ErrDomainMissing = errors.New("snapshot does not include this domain")
)

// Counts holds the per-domain record counts of a snapshot.
type Counts struct {
	Contacts int `json:"contacts"`
	Messages int `json:"messages"`
	CallLogs int `json:"callLogs"`
}

// For returns the count for a domain.
func (c Counts) For(d Domain) int {
	switch d {
	case DomainContacts:
		return c.Contacts
	case DomainMessages:
		return c.Messages
	default:
		return c.CallLogs
	}
}

// Manifest describes one snapshot. It is written as manifest.json at
// snapshot creation and never modified afterwards; deleting the snapshot
// destroys it. Counts.For(d) is zero for every domain not in Types; a
// listed domain may still count zero when the capture was empty.
type Manifest struct {
	// ID equals the snapshot folder name.
	ID string `json:"id"`

	// Date is when the snapshot was created.
	Date time.Time `json:"date"`

	// Types lists the domains this snapshot carries. The writer populates
	// exactly one per snapshot.
	Types []Domain `json:"types"`

	// Counts holds per-domain record counts.
	Counts Counts `json:"counts"`

	// SizeBytes is the combined size of the three payload files.
	SizeBytes int64 `json:"sizeBytes"`
}

// Has reports whether the manifest lists domain d.
func (m *Manifest) Has(d Domain) bool {
	for _, t := range m.Types {
		if t == d {
			return true
		}
	}
	return false
}

// Record is a manifest plus its storage-layer identity. The catalog
// discovers snapshots by directory name rather than trusting the
// manifest's ID field, so the folder name is carried separately.
type Record struct {
	Manifest

	// FolderName is the directory the manifest was found in.
	FolderName string `json:"folderName"`
}
