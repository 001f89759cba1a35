package role

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"

	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
)

// Ticket is an in-flight role request. Exactly one resolution is
// delivered per ticket, either from Resolve or from CancelAll.
type Ticket struct {
	role Role
	ch   chan outcome
}

type outcome struct {
	granted bool
	err     error
}

// Role reports which role the ticket was opened for.
func (t *Ticket) Role() Role {
	return t.role
}

// Wait blocks until the request resolves. A cancelled request returns
// ErrRoleRequestCancelled.
func (t *Ticket) Wait(ctx context.Context) (bool, error) {
	select {
	case o := <-t.ch:
		return o.granted, o.err
	case <-ctx.Done():
		return false, errors.Wrap(ctx.Err(), "waiting for role request")
	}
}

// Manager tracks role state and at most one pending request per role.
type Manager struct {
	host Host
	log  *slog.Logger

	mu      sync.Mutex
	pending map[Role]*Ticket
	prior   map[Role]string
}

// NewManager builds a Manager over host.
func NewManager(host Host, log *slog.Logger) *Manager {
	return &Manager{
		host:    host,
		log:     log,
		pending: map[Role]*Ticket{},
		prior:   map[Role]string{},
	}
}

// Held reports whether the tool currently holds role.
func (m *Manager) Held(ctx context.Context, role Role) (bool, error) {
	return m.host.Held(ctx, role)
}

// Ensure fails with ErrRoleRequired when role is not held.
func (m *Manager) Ensure(ctx context.Context, role Role) error {
	held, err := m.host.Held(ctx, role)
	if err != nil {
		return errors.Wrapf(err, "checking %s role", role)
	}
	if !held {
		return errors.Wrapf(dgerrors.ErrRoleRequired, "%s role not held", role)
	}
	return nil
}

// Acquire opens a role request. The current holder is remembered so it
// can be restored later, and a second request while one is pending
// fails with ErrRoleRequestInProgress.
func (m *Manager) Acquire(ctx context.Context, role Role) (*Ticket, error) {
	if !role.Valid() {
		return nil, errors.Newf("unknown role %q", role)
	}

	held, err := m.host.Held(ctx, role)
	if err != nil {
		return nil, errors.Wrapf(err, "checking %s role", role)
	}
	if held {
		t := &Ticket{role: role, ch: make(chan outcome, 1)}
		t.ch <- outcome{granted: true}
		return t, nil
	}

	m.mu.Lock()
	if _, ok := m.pending[role]; ok {
		m.mu.Unlock()
		return nil, errors.Wrapf(dgerrors.ErrRoleRequestInProgress, "%s role", role)
	}
	t := &Ticket{role: role, ch: make(chan outcome, 1)}
	m.pending[role] = t
	m.mu.Unlock()

	if holder, err := m.host.CurrentHolder(ctx, role); err == nil && holder != "" {
		m.mu.Lock()
		if _, recorded := m.prior[role]; !recorded {
			m.prior[role] = holder
		}
		m.mu.Unlock()
	}

	if err := m.host.Begin(ctx, role); err != nil {
		m.mu.Lock()
		delete(m.pending, role)
		m.mu.Unlock()
		return nil, errors.Wrapf(err, "requesting %s role", role)
	}
	return t, nil
}

// Resolve completes the pending request for role. A positive outcome
// from the platform is taken at face value; anything else is settled by
// re-checking whether the role ended up held anyway.
func (m *Manager) Resolve(ctx context.Context, role Role, platformGranted bool) (bool, error) {
	granted := platformGranted
	if !granted {
		held, err := m.host.Held(ctx, role)
		if err != nil {
			m.log.Debug("role re-check failed", "role", role, "error", err)
		} else {
			granted = held
		}
	}

	m.mu.Lock()
	t, ok := m.pending[role]
	delete(m.pending, role)
	m.mu.Unlock()

	if ok {
		t.ch <- outcome{granted: granted}
	}
	return granted, nil
}

// CancelAll rejects every pending request with ErrRoleRequestCancelled.
// Called on teardown so no waiter hangs forever.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = map[Role]*Ticket{}
	m.mu.Unlock()

	for role, t := range pending {
		t.ch <- outcome{err: errors.Wrapf(dgerrors.ErrRoleRequestCancelled, "%s role", role)}
	}
}

// PriorHolder returns the package that held role before it was
// acquired, if one was recorded.
func (m *Manager) PriorHolder(role Role) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pkg, ok := m.prior[role]
	return pkg, ok
}

// ReleaseToPrior hands role back to whoever held it before Acquire.
// No-op when nothing was recorded.
func (m *Manager) ReleaseToPrior(ctx context.Context, role Role) error {
	m.mu.Lock()
	pkg, ok := m.prior[role]
	delete(m.prior, role)
	m.mu.Unlock()

	if !ok || pkg == "" {
		return nil
	}
	if err := m.host.SetHolder(ctx, role, pkg); err != nil {
		return errors.Wrapf(err, "restoring %s role to %s", role, pkg)
	}
	m.log.Info("restored role to prior holder", "role", role, "package", pkg)
	return nil
}
