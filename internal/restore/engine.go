// Package restore writes snapshot payloads back onto a device. Each
// domain restore walks the stored record array element by element, so a
// single malformed or rejected record is counted as failed instead of
// aborting the run.
package restore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/provider"
	"github.com/AmanDhiman07/dataguard/internal/role"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

// Result tallies one restore run. Restored, Skipped and Failed always
// sum to Total.
type Result struct {
	Restored int `json:"restored"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// Engine restores snapshot payloads through the device providers.
type Engine struct {
	store *snapshot.Store
	stack *provider.Stack
	roles *role.Manager
	now   func() time.Time
	log   *slog.Logger
}

// NewEngine builds an Engine.
func NewEngine(store *snapshot.Store, stack *provider.Stack, roles *role.Manager, log *slog.Logger) *Engine {
	return &Engine{store: store, stack: stack, roles: roles, now: time.Now, log: log}
}

// loadRecords reads one domain payload and parses it as a record array.
func (e *Engine) loadRecords(folder string, domain snapshot.Domain) ([]json.RawMessage, error) {
	data, err := e.store.ReadPayload(folder, domain)
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(dgerrors.ErrInvalidSnapshotFormat, "%s payload: %v", domain, err)
	}
	return records, nil
}

// Contacts restores the contact payload of a snapshot. Records already
// present on the device (same name, first phone and first email) are
// skipped, and each restored record extends the dedup set so the
// payload cannot re-add itself.
func (e *Engine) Contacts(ctx context.Context, folder string) (*Result, error) {
	records, err := e.loadRecords(folder, snapshot.DomainContacts)
	if err != nil {
		return nil, err
	}

	contacts := e.stack.Contacts()
	granted, err := contacts.RequestPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting contacts permission")
	}
	if !granted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "contacts write")
	}
	if !contacts.CanAdd() {
		return nil, errors.Wrap(dgerrors.ErrNativeUnavailable, "contact writes")
	}

	existing, err := contacts.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading device contacts")
	}
	seen := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		seen[identityKey(normalizeContact(c))] = struct{}{}
	}

	res := &Result{Total: len(records)}
	for _, raw := range records {
		var c provider.Contact
		if err := json.Unmarshal(raw, &c); err != nil {
			res.Failed++
			continue
		}
		normalized := normalizeContact(c)
		if !hasIdentity(normalized) {
			res.Skipped++
			continue
		}
		key := identityKey(normalized)
		if _, dup := seen[key]; dup {
			res.Skipped++
			continue
		}
		if _, err := contacts.Add(ctx, normalized); err != nil {
			e.log.Debug("contact restore failed", "name", normalized.Name, "error", err)
			res.Failed++
			continue
		}
		seen[key] = struct{}{}
		res.Restored++
	}

	e.log.Info("contacts restored", "folder", folder,
		"restored", res.Restored, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// storedMessage is the loose shape messages take in a snapshot. The
// capturing module decides the spellings: the address may arrive as
// phoneNumber, timestamps as date or timestamp (number or numeric
// string), and read and seen flags as anything.
type storedMessage struct {
	Address     string     `json:"address"`
	PhoneNumber string     `json:"phoneNumber"`
	Body        string     `json:"body"`
	Date        looseInt64 `json:"date"`
	Timestamp   looseInt64 `json:"timestamp"`
	DateSent    looseInt64 `json:"date_sent"`
	DateSentAlt looseInt64 `json:"dateSent"`
	Type        looseInt64 `json:"type"`
	RawType     looseInt64 `json:"rawType"`
	Read        any        `json:"read"`
	Seen        any        `json:"seen"`
	ThreadID    looseInt64 `json:"thread_id"`
	ThreadIDAlt looseInt64 `json:"threadId"`
	Subject     string     `json:"subject"`
}

// firstNonZero returns the first non-zero value, letting the alternate
// field spellings fall through in capture order.
func firstNonZero(values ...looseInt64) int64 {
	for _, v := range values {
		if v != 0 {
			return int64(v)
		}
	}
	return 0
}

// Messages restores the SMS payload of a snapshot. The tool must hold
// the SMS role before the provider accepts writes.
func (e *Engine) Messages(ctx context.Context, folder string) (*Result, error) {
	records, err := e.loadRecords(folder, snapshot.DomainMessages)
	if err != nil {
		return nil, err
	}

	messages, ok := e.stack.Messages()
	if !ok {
		return nil, errors.Wrap(dgerrors.ErrNativeUnavailable, "sms module")
	}
	if err := e.roles.Ensure(ctx, role.SMS); err != nil {
		return nil, err
	}
	granted, err := messages.RequestPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting sms permission")
	}
	if !granted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "sms write")
	}

	res := &Result{Total: len(records)}
	for _, raw := range records {
		var m storedMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			res.Failed++
			continue
		}
		address := strings.TrimSpace(m.Address)
		if address == "" {
			address = strings.TrimSpace(m.PhoneNumber)
		}
		if address == "" && m.Body == "" {
			res.Skipped++
			continue
		}

		date := firstNonZero(m.Date, m.Timestamp)
		if date == 0 {
			date = e.now().UnixMilli()
		}
		typ := int(firstNonZero(m.Type, m.RawType))
		if typ == 0 {
			typ = 1
		}
		readDefault := 1
		if typ == 1 {
			readDefault = 0
		}
		read := flagValue(m.Read, readDefault)
		rec := provider.MessageRecord{
			Address:  address,
			Body:     m.Body,
			Date:     date,
			DateSent: firstNonZero(m.DateSent, m.DateSentAlt),
			Type:     typ,
			Read:     read,
			Seen:     flagValue(m.Seen, read),
			ThreadID: firstNonZero(m.ThreadID, m.ThreadIDAlt),
			Subject:  m.Subject,
		}
		if err := messages.Insert(ctx, boxForType(typ), rec); err != nil {
			e.log.Debug("message restore failed", "address", address, "error", err)
			res.Failed++
			continue
		}
		res.Restored++
	}

	e.log.Info("messages restored", "folder", folder,
		"restored", res.Restored, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// storedCall is the loose shape call log entries take in a snapshot.
// The device call log module emits phoneNumber and a string timestamp;
// number and date are the normalized equivalents.
type storedCall struct {
	Number      string     `json:"number"`
	PhoneNumber string     `json:"phoneNumber"`
	Date        looseInt64 `json:"date"`
	Timestamp   looseInt64 `json:"timestamp"`
	Duration    looseInt64 `json:"duration"`
	Type        string     `json:"type"`
	RawType     *int       `json:"rawType"`
	Name        string     `json:"name"`
}

// CallLogs restores the call log payload of a snapshot. The tool must
// hold the dialer role before the provider accepts writes.
func (e *Engine) CallLogs(ctx context.Context, folder string) (*Result, error) {
	records, err := e.loadRecords(folder, snapshot.DomainCallLogs)
	if err != nil {
		return nil, err
	}

	callLogs, ok := e.stack.CallLogs()
	if !ok {
		return nil, errors.Wrap(dgerrors.ErrNativeUnavailable, "call log module")
	}
	if err := e.roles.Ensure(ctx, role.Dialer); err != nil {
		return nil, err
	}
	readGranted, err := callLogs.RequestReadPermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting call log read permission")
	}
	writeGranted, err := callLogs.RequestWritePermission(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "requesting call log write permission")
	}
	if !readGranted || !writeGranted {
		return nil, errors.Wrap(dgerrors.ErrPermissionDenied, "call log write")
	}

	res := &Result{Total: len(records)}
	for _, raw := range records {
		var c storedCall
		if err := json.Unmarshal(raw, &c); err != nil {
			res.Failed++
			continue
		}
		number := strings.TrimSpace(c.PhoneNumber)
		if number == "" {
			number = strings.TrimSpace(c.Number)
		}
		if number == "" {
			res.Skipped++
			continue
		}

		date := firstNonZero(c.Timestamp, c.Date)
		if date == 0 {
			date = e.now().UnixMilli()
		}
		rec := provider.CallRecord{
			Number:   number,
			Date:     date,
			Duration: int64(c.Duration),
			Type:     callTypeCode(c.Type, c.RawType),
			Name:     c.Name,
		}
		if err := callLogs.Insert(ctx, rec); err != nil {
			e.log.Debug("call log restore failed", "number", number, "error", err)
			res.Failed++
			continue
		}
		res.Restored++
	}

	e.log.Info("call logs restored", "folder", folder,
		"restored", res.Restored, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}
