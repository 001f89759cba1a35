// Package role negotiates system roles with the platform. Restoring
// messages or call logs requires the tool to temporarily hold the
// default SMS or dialer role, which only the user can grant, so the
// negotiation is split into launching a request and resolving it when
// control returns.
package role

import "context"

// Role identifies a system role the tool can request.
type Role string

const (
	// Dialer is required to write call log entries.
	Dialer Role = "dialer"
	// SMS is required to write message entries.
	SMS Role = "sms"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	return r == Dialer || r == SMS
}

// Host is the platform side of role negotiation. Implementations wrap
// the OS role manager; tests use a fake.
type Host interface {
	// Held reports whether this tool currently holds role. Platforms
	// without a role manager fall back to comparing the default
	// handler package.
	Held(ctx context.Context, role Role) (bool, error)

	// CurrentHolder returns the package currently holding role, or
	// empty when unknown.
	CurrentHolder(ctx context.Context, role Role) (string, error)

	// SetHolder hands role to pkg. Used to give a prior default back
	// after a restore.
	SetHolder(ctx context.Context, role Role, pkg string) error

	// Begin launches the user-facing role request and returns once it
	// has been handed off. The outcome arrives later via the manager's
	// Resolve.
	Begin(ctx context.Context, role Role) error
}
