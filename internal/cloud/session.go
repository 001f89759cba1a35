package cloud

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

// User is the account profile the service returns on login.
type User struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}

// Session is an authenticated session with the backup service.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Validate checks the fields a usable session must carry. Sessions from
// older app versions or a misbehaving service fail here instead of
// surfacing as 401s later.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return errors.New("session has no token")
	}
	if strings.TrimSpace(s.User.MobileNumber) == "" {
		return errors.New("session has no account")
	}
	return nil
}

// SaveSession persists a session at path, readable only by the owner.
func SaveSession(path string, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	return fileutil.AtomicWriteJSONWithPerm(path, s, 0o600)
}

// LoadSession reads the persisted session at path. A missing file
// returns (nil, nil); a malformed or incomplete one is an error so the
// caller can tell "not signed in" from "broken state".
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading session")
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parsing session")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ClearSession removes the persisted session. Missing files are fine.
func ClearSession(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "clearing session")
	}
	return nil
}
