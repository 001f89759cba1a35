// Package logging configures structured logging for dataguard.
//
// It builds on log/slog with a TTY-optimized text handler (colorized when
// the terminal supports it), a JSON handler for log files, and a
// multi-handler that fans records out to both. Values for sensitive
// attribute keys (session tokens, OTP codes) are masked before printing.
//
// Best-effort failures in the engine (external export deletes, state file
// persistence) are logged at Warn rather than propagated, so the logger a
// component is constructed with decides whether those are visible.
package logging
