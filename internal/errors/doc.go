// Package errors provides error handling conventions for dataguard.
//
// This package defines sentinel errors for the engine's failure taxonomy,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, dgerrors.ErrRoleRequired) {
//	    // prompt for the default app role, then retry
//	}
//
// The taxonomy separates failures the user can remedy (denied permissions,
// missing default-app roles, a refused folder grant) from fatal ones
// (corrupt snapshots, provider modules absent from the build). The CLI uses
// [Suggest] to decide which kind it is showing.
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports error unwrapping via [errors.Unwrap] and
// [errors.As].
package errors
