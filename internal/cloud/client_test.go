package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanDhiman07/dataguard/internal/logging"
)

func TestLoginRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login-request", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	require.NoError(t, c.LoginRequest(context.Background(), "+15550100"))
	assert.Equal(t, map[string]string{"mobileNumber": "+15550100"}, got)
}

func TestLoginRequestEmptyMobile(t *testing.T) {
	c := NewClient("http://localhost:0", logging.NewDiscard())

	err := c.LoginRequest(context.Background(), "  ")

	assert.ErrorContains(t, err, "mobile number")
}

func TestLoginRequestServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"message": "otp already sent"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	err := c.LoginRequest(context.Background(), "+15550100")

	assert.ErrorContains(t, err, "otp already sent")
}

func TestVerifyOTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-otp", r.URL.Path)
		json.NewEncoder(w).Encode(Session{
			Token: "tok-123",
			User:  User{Name: "Aman", MobileNumber: "+15550100", Role: "user", Active: true},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	session, err := c.VerifyOTP(context.Background(), "+15550100", "123456")
	require.NoError(t, err)

	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, "Aman", session.User.Name)
	assert.True(t, session.User.Active)
}

func TestVerifyOTPMalformedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": ""})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	_, err := c.VerifyOTP(context.Background(), "+15550100", "123456")

	assert.ErrorContains(t, err, "malformed session")
}

func TestVerifyOTPBadCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid otp"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	_, err := c.VerifyOTP(context.Background(), "+15550100", "000000")

	assert.ErrorContains(t, err, "invalid otp")
}

func TestUploadVCF(t *testing.T) {
	vcf := filepath.Join(t.TempDir(), "contacts_2024-01-01_10-00-00.vcf")
	content := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ada\r\nEND:VCARD"
	require.NoError(t, os.WriteFile(vcf, []byte(content), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/backups/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "contacts_2024-01-01_10-00-00.vcf", header.Filename)
		assert.Contains(t, header.Header.Get("Content-Type"), "vcard")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logging.NewDiscard())
	assert.NoError(t, c.UploadVCF(context.Background(), "tok-123", vcf))
}

func TestUploadVCFMissingFile(t *testing.T) {
	c := NewClient("http://localhost:0", logging.NewDiscard())

	err := c.UploadVCF(context.Background(), "tok", filepath.Join(t.TempDir(), "nope.vcf"))

	assert.ErrorContains(t, err, "reading vcf file")
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := &Session{Token: "tok", User: User{MobileNumber: "+15550100", Name: "Aman"}}

	require.NoError(t, SaveSession(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadSessionMissing(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "session.json"))

	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoadSessionInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":""}`), 0o600))

	_, err := LoadSession(path)

	assert.Error(t, err)
}

func TestClearSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	require.NoError(t, ClearSession(path))
	require.NoError(t, ClearSession(path))
}
