package restore

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/AmanDhiman07/dataguard/internal/provider"
)

const (
	unknownName       = "Unknown"
	defaultPhoneLabel = "mobile"
	defaultEmailLabel = "work"
)

// normalizeContact fills the defaults the device provider expects and
// drops blank phone and email entries.
func normalizeContact(c provider.Contact) provider.Contact {
	out := provider.Contact{
		Name:      strings.TrimSpace(c.Name),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
	}
	if out.Name == "" {
		out.Name = strings.TrimSpace(out.FirstName + " " + out.LastName)
	}
	if out.Name == "" {
		out.Name = unknownName
	}

	for _, p := range c.PhoneNumbers {
		number := strings.TrimSpace(p.Number)
		if number == "" {
			continue
		}
		label := strings.TrimSpace(p.Label)
		if label == "" {
			label = defaultPhoneLabel
		}
		out.PhoneNumbers = append(out.PhoneNumbers, provider.PhoneNumber{Number: number, Label: label})
	}
	for _, e := range c.Emails {
		address := strings.TrimSpace(e.Email)
		if address == "" {
			continue
		}
		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = defaultEmailLabel
		}
		out.Emails = append(out.Emails, provider.Email{Email: address, Label: label})
	}
	return out
}

// identityKey builds the dedup key for a normalized contact: lowercased
// name, first phone number and lowercased first email. Two contacts
// with the same key are treated as the same person.
func identityKey(c provider.Contact) string {
	var phone, email string
	if len(c.PhoneNumbers) > 0 {
		phone = c.PhoneNumbers[0].Number
	}
	if len(c.Emails) > 0 {
		email = strings.ToLower(c.Emails[0].Email)
	}
	return strings.ToLower(c.Name) + "|" + phone + "|" + email
}

// hasIdentity reports whether a normalized contact carries anything
// worth restoring. A nameless contact with no reachable detail does not.
func hasIdentity(c provider.Contact) bool {
	return len(c.PhoneNumbers) > 0 || len(c.Emails) > 0 || c.Name != unknownName
}

// boxForType maps a stored SMS type code onto the destination box.
// Unknown codes land in the inbox.
func boxForType(code int) provider.Box {
	switch code {
	case 2:
		return provider.BoxSent
	case 3:
		return provider.BoxDraft
	case 4:
		return provider.BoxOutbox
	default:
		return provider.BoxInbox
	}
}

// looseInt64 accepts JSON numbers and numeric strings. Snapshot
// payloads carry timestamps in either form depending on the module
// that captured them; anything unparseable reads as zero so the
// caller's default applies.
type looseInt64 int64

func (n *looseInt64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseInt64(v)
	return nil
}

// flagValue coerces a loosely typed read/seen flag (bool, number, or
// string) into the 0/1 the provider wants. A missing flag or a string
// that is not a recognizable boolean falls back to def.
func flagValue(v any, def int) int {
	switch t := v.(type) {
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		if t != 0 {
			return 1
		}
		return 0
	case json.Number:
		if n, err := t.Float64(); err == nil {
			if n != 0 {
				return 1
			}
			return 0
		}
		return def
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		switch s {
		case "true", "1":
			return 1
		case "false", "0":
			return 0
		}
		return def
	}
	return def
}

// Call type codes as the call log provider stores them.
const (
	callIncoming  = 1
	callOutgoing  = 2
	callMissed    = 3
	callVoicemail = 4
	callRejected  = 5
	callBlocked   = 6
	callExternal  = 7
)

// callTypeCode maps a stored call type name onto the provider's numeric
// code. A positive raw numeric override wins over the name.
func callTypeCode(name string, rawType *int) int {
	if rawType != nil && *rawType > 0 {
		return *rawType
	}
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INCOMING", "WIFI_INCOMING":
		return callIncoming
	case "OUTGOING", "WIFI_OUTGOING":
		return callOutgoing
	case "MISSED":
		return callMissed
	case "VOICEMAIL":
		return callVoicemail
	case "REJECTED":
		return callRejected
	case "BLOCKED":
		return callBlocked
	case "ANSWERED_EXTERNALLY":
		return callExternal
	default:
		return callIncoming
	}
}
