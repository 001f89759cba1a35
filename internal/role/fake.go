package role

import (
	"context"
	"sync"
)

// FakeHost is an in-memory Host for tests. Begin does not grant
// anything on its own, so tests control the outcome through Grant or
// the manager's Resolve re-check.
type FakeHost struct {
	// HeldErr, when set, fails every Held call.
	HeldErr error
	// BeginErr, when set, fails Begin.
	BeginErr error

	mu      sync.Mutex
	holders map[Role]string
	begun   []Role
	self    string
}

// NewFakeHost returns a FakeHost with no roles held.
func NewFakeHost() *FakeHost {
	return &FakeHost{holders: map[Role]string{}, self: SelfPackage}
}

// Grant marks role as held by the tool.
func (h *FakeHost) Grant(role Role) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holders[role] = h.self
}

// SeedHolder records pkg as the current holder of role.
func (h *FakeHost) SeedHolder(role Role, pkg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holders[role] = pkg
}

// Begun returns the roles Begin was called for, in order.
func (h *FakeHost) Begun() []Role {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Role(nil), h.begun...)
}

func (h *FakeHost) Held(_ context.Context, role Role) (bool, error) {
	if h.HeldErr != nil {
		return false, h.HeldErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.holders[role] == h.self, nil
}

func (h *FakeHost) CurrentHolder(_ context.Context, role Role) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.holders[role], nil
}

func (h *FakeHost) SetHolder(_ context.Context, role Role, pkg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holders[role] = pkg
	return nil
}

func (h *FakeHost) Begin(_ context.Context, role Role) error {
	if h.BeginErr != nil {
		return h.BeginErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.begun = append(h.begun, role)
	return nil
}
