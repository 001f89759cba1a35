package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, denied permission, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, provider failures, etc.).
	ExitSystem = 2
)

// Sentinel errors for the failure conditions the engine distinguishes.
// Callers check these with errors.Is; failure sites wrap them with context.
var (
	// ErrPermissionDenied indicates a domain read or write permission was refused.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRoleRequired indicates the app does not hold the default-dialer or
	// default-SMS role needed to write into a protected provider.
	ErrRoleRequired = errors.New("default app role required")

	// ErrRoleRequestInProgress indicates a default-app role request is already
	// pending for the same role.
	ErrRoleRequestInProgress = errors.New("role request already in progress")

	// ErrRoleRequestCancelled indicates a pending role request was abandoned
	// because its host surface was torn down.
	ErrRoleRequestCancelled = errors.New("role request cancelled")

	// ErrExportPermissionDenied indicates the public export folder grant was
	// refused or has been revoked.
	ErrExportPermissionDenied = errors.New("backup folder permission denied")

	// ErrInvalidSnapshotFormat indicates a manifest or domain payload file is
	// missing, corrupt, or not a JSON array.
	ErrInvalidSnapshotFormat = errors.New("invalid snapshot format")

	// ErrNativeUnavailable indicates an optional provider capability is not
	// present in the current build.
	ErrNativeUnavailable = errors.New("native module unavailable")

	// ErrProviderWrite indicates a per-record provider write failed during restore.
	ErrProviderWrite = errors.New("provider write failed")

	// ErrSnapshotNotFound indicates the requested snapshot folder does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI use.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Suggest returns the remedy the CLI should show for err, if the failure is
// one the user can act on. Permission and role failures get a guided retry
// hint; data corruption and missing capabilities get none.
func Suggest(err error) string {
	switch {
	case errors.Is(err, ErrRoleRequired):
		return "Grant the default app role and run the restore again"
	case errors.Is(err, ErrPermissionDenied):
		return "Grant the permission in system settings and retry"
	case errors.Is(err, ErrExportPermissionDenied):
		return "Approve the backup folder when prompted, or re-select it with a new grant"
	default:
		return ""
	}
}
