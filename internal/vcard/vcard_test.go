package vcard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanDhiman07/dataguard/internal/provider"
)

func TestEncode(t *testing.T) {
	contacts := []provider.Contact{
		{
			Name:      "Ada Lovelace",
			FirstName: "Ada",
			LastName:  "Lovelace",
			PhoneNumbers: []provider.PhoneNumber{
				{Number: "+1 555 0100", Label: "mobile"},
				{Number: "+1 555 0101", Label: "Work Phone"},
			},
			Emails: []provider.Email{
				{Email: "ada@example.com", Label: "work"},
			},
		},
	}

	out := Encode(contacts)

	assert.Contains(t, out, "BEGIN:VCARD\r\nVERSION:3.0")
	assert.Contains(t, out, "FN:Ada Lovelace")
	assert.Contains(t, out, "N:Lovelace;Ada;;;")
	assert.Contains(t, out, "TEL;TYPE=MOBILE:+1 555 0100")
	assert.Contains(t, out, "TEL;TYPE=WORKPHONE:+1 555 0101")
	assert.Contains(t, out, "EMAIL;TYPE=WORK:ada@example.com")
	assert.True(t, strings.HasSuffix(out, "END:VCARD"))
}

func TestEncodeFallbacks(t *testing.T) {
	out := Encode([]provider.Contact{
		{
			PhoneNumbers: []provider.PhoneNumber{{Number: "12345", Label: "  "}},
			Emails:       []provider.Email{{Email: "x@y.z", Label: "###"}},
		},
	})

	assert.Contains(t, out, "FN:Unknown")
	assert.Contains(t, out, "TEL;TYPE=CELL:12345")
	assert.Contains(t, out, "EMAIL;TYPE=INTERNET:x@y.z")
}

func TestEncodeNameFromParts(t *testing.T) {
	out := Encode([]provider.Contact{{FirstName: "Grace", LastName: "Hopper"}})

	assert.Contains(t, out, "FN:Grace Hopper")
}

func TestEncodeEscaping(t *testing.T) {
	out := Encode([]provider.Contact{{Name: "Smith; Jones, Ltd\\Co"}})

	assert.Contains(t, out, `FN:Smith\; Jones\, Ltd\\Co`)
}

func TestEncodeSkipsBlankEntries(t *testing.T) {
	out := Encode([]provider.Contact{
		{
			Name:         "Solo",
			PhoneNumbers: []provider.PhoneNumber{{Number: "  "}},
			Emails:       []provider.Email{{Email: ""}},
		},
	})

	assert.NotContains(t, out, "TEL")
	assert.NotContains(t, out, "EMAIL")
}

func TestRoundTrip(t *testing.T) {
	contacts := []provider.Contact{
		{
			Name:      "Smith; Jones, Co",
			FirstName: "Sam",
			LastName:  "Smith",
			PhoneNumbers: []provider.PhoneNumber{
				{Number: "+44 20 0000", Label: "HOME"},
			},
			Emails: []provider.Email{
				{Email: "sam@example.com", Label: "WORK"},
			},
		},
		{
			Name: "Second Card",
		},
	}

	decoded := Decode(Encode(contacts))

	require.Len(t, decoded, 2)
	assert.Equal(t, "Smith; Jones, Co", decoded[0].Name)
	assert.Equal(t, "Sam", decoded[0].FirstName)
	assert.Equal(t, "Smith", decoded[0].LastName)
	require.Len(t, decoded[0].PhoneNumbers, 1)
	assert.Equal(t, "+44 20 0000", decoded[0].PhoneNumbers[0].Number)
	assert.Equal(t, "HOME", decoded[0].PhoneNumbers[0].Label)
	require.Len(t, decoded[0].Emails, 1)
	assert.Equal(t, "sam@example.com", decoded[0].Emails[0].Email)
	assert.Equal(t, "Second Card", decoded[1].Name)
}

func TestNormalizeTypeLabel(t *testing.T) {
	tests := []struct {
		label    string
		fallback string
		want     string
	}{
		{"mobile", "CELL", "MOBILE"},
		{"work phone", "CELL", "WORKPHONE"},
		{"", "CELL", "CELL"},
		{"!!!", "INTERNET", "INTERNET"},
		{"e-mail_2", "INTERNET", "E-MAIL_2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTypeLabel(tt.label, tt.fallback), "label %q", tt.label)
	}
}
