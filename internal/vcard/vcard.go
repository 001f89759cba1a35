// Package vcard encodes contact records as vCard 3.0 and parses them
// back. The encoding mirrors what phone contact apps accept on import:
// one card per contact with FN, N, TEL and EMAIL properties.
package vcard

import (
	"strings"

	"github.com/AmanDhiman07/dataguard/internal/provider"
)

const (
	defaultPhoneType = "CELL"
	defaultEmailType = "INTERNET"
)

// Encode renders contacts as a single vCard 3.0 document with CRLF
// line endings. Contacts without a usable display name fall back to
// "Unknown".
func Encode(contacts []provider.Contact) string {
	var lines []string
	for _, c := range contacts {
		lines = append(lines, "BEGIN:VCARD", "VERSION:3.0")
		lines = append(lines, "FN:"+escapeValue(displayName(c)))
		lines = append(lines, "N:"+escapeValue(c.LastName)+";"+escapeValue(c.FirstName)+";;;")
		for _, p := range c.PhoneNumbers {
			if strings.TrimSpace(p.Number) == "" {
				continue
			}
			lines = append(lines, "TEL;TYPE="+normalizeTypeLabel(p.Label, defaultPhoneType)+":"+escapeValue(p.Number))
		}
		for _, e := range c.Emails {
			if strings.TrimSpace(e.Email) == "" {
				continue
			}
			lines = append(lines, "EMAIL;TYPE="+normalizeTypeLabel(e.Label, defaultEmailType)+":"+escapeValue(e.Email))
		}
		lines = append(lines, "END:VCARD")
	}
	return strings.Join(lines, "\r\n")
}

func displayName(c provider.Contact) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name != "" {
		return name
	}
	return "Unknown"
}

// normalizeTypeLabel maps a free-form label ("Mobile", "work phone") to
// a vCard TYPE parameter value. Anything outside [A-Z0-9_-] after
// uppercasing is stripped; an empty result takes the fallback.
func normalizeTypeLabel(label, fallback string) string {
	upper := strings.ToUpper(strings.TrimSpace(label))
	var b strings.Builder
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func escapeValue(v string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		"\n", "\\n",
		";", "\\;",
		",", "\\,",
	)
	return r.Replace(v)
}

func unescapeValue(v string) string {
	var b strings.Builder
	escaped := false
	for _, r := range v {
		if escaped {
			switch r {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitUnescaped splits v on sep, honoring backslash escapes.
func splitUnescaped(v string, sep byte) []string {
	var parts []string
	var b strings.Builder
	escaped := false
	for i := 0; i < len(v); i++ {
		c := v[i]
		if escaped {
			b.WriteByte('\\')
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == sep {
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	if escaped {
		b.WriteByte('\\')
	}
	parts = append(parts, b.String())
	return parts
}

// Decode parses a vCard document back into contact records. Properties
// other than FN, N, TEL and EMAIL are ignored. Cards with no FN keep
// whatever N provided.
func Decode(data string) []provider.Contact {
	var contacts []provider.Contact
	var current *provider.Contact

	for _, line := range strings.Split(data, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			continue
		}
		name, params, value := splitProperty(line)
		switch name {
		case "BEGIN":
			if strings.EqualFold(value, "VCARD") {
				current = &provider.Contact{}
			}
		case "END":
			if current != nil && strings.EqualFold(value, "VCARD") {
				contacts = append(contacts, *current)
				current = nil
			}
		case "FN":
			if current != nil {
				current.Name = unescapeValue(value)
			}
		case "N":
			if current != nil {
				parts := splitUnescaped(value, ';')
				if len(parts) > 0 {
					current.LastName = unescapeValue(parts[0])
				}
				if len(parts) > 1 {
					current.FirstName = unescapeValue(parts[1])
				}
			}
		case "TEL":
			if current != nil {
				current.PhoneNumbers = append(current.PhoneNumbers, provider.PhoneNumber{
					Number: unescapeValue(value),
					Label:  params["TYPE"],
				})
			}
		case "EMAIL":
			if current != nil {
				current.Emails = append(current.Emails, provider.Email{
					Email: unescapeValue(value),
					Label: params["TYPE"],
				})
			}
		}
	}
	return contacts
}

func splitProperty(line string) (name string, params map[string]string, value string) {
	params = map[string]string{}

	colon := -1
	escaped := false
	for i := 0; i < len(line); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch line[i] {
		case '\\':
			escaped = true
		case ':':
			colon = i
		}
		if colon >= 0 {
			break
		}
	}
	if colon < 0 {
		return "", params, ""
	}
	value = line[colon+1:]

	head := strings.Split(line[:colon], ";")
	name = strings.ToUpper(head[0])
	for _, p := range head[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		params[strings.ToUpper(k)] = v
	}
	return name, params, value
}
