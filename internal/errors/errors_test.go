package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Unwrap(t *testing.T) {
	wrapped := errors.Wrap(ErrPermissionDenied, "reading contacts")
	exitErr := NewUserError(wrapped, "grant the permission")

	assert.True(t, errors.Is(exitErr, ErrPermissionDenied))
	assert.Equal(t, ExitUser, exitErr.Code)
	assert.Equal(t, "grant the permission", exitErr.Suggestion)
}

func TestExitError_NilErr(t *testing.T) {
	exitErr := NewExitError(nil, ExitSystem)
	assert.Equal(t, "exit code 2", exitErr.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrPermissionDenied,
		ErrRoleRequired,
		ErrRoleRequestInProgress,
		ErrRoleRequestCancelled,
		ErrExportPermissionDenied,
		ErrInvalidSnapshotFormat,
		ErrNativeUnavailable,
		ErrProviderWrite,
		ErrSnapshotNotFound,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"role required", errors.Wrap(ErrRoleRequired, "restoring call logs"), true},
		{"permission denied", ErrPermissionDenied, true},
		{"export grant refused", ErrExportPermissionDenied, true},
		{"corrupt snapshot", ErrInvalidSnapshotFormat, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.err)
			if tt.want {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
