package role

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

// SelfPackage is how this tool identifies itself as a role holder.
const SelfPackage = "dev.dataguard.cli"

type hostState struct {
	Holders map[Role]string `toml:"holders"`
}

// FileHost keeps role assignments in a local TOML file. It stands in
// for the platform role manager on systems that have none; Begin
// self-grants, which models a user who approves the prompt.
type FileHost struct {
	path string

	mu sync.Mutex
}

// NewFileHost returns a FileHost persisting at path.
func NewFileHost(path string) *FileHost {
	return &FileHost{path: path}
}

func (h *FileHost) load() (hostState, error) {
	state := hostState{Holders: map[Role]string{}}
	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, errors.Wrap(err, "reading role state")
	}
	if err := toml.Unmarshal(data, &state); err != nil {
		return state, errors.Wrap(err, "parsing role state")
	}
	if state.Holders == nil {
		state.Holders = map[Role]string{}
	}
	return state, nil
}

func (h *FileHost) save(state hostState) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encoding role state")
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return errors.Wrap(err, "creating state directory")
	}
	return fileutil.AtomicWriteFile(h.path, data, 0o600)
}

func (h *FileHost) Held(_ context.Context, role Role) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.load()
	if err != nil {
		return false, err
	}
	return state.Holders[role] == SelfPackage, nil
}

func (h *FileHost) CurrentHolder(_ context.Context, role Role) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.load()
	if err != nil {
		return "", err
	}
	return state.Holders[role], nil
}

func (h *FileHost) SetHolder(_ context.Context, role Role, pkg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.load()
	if err != nil {
		return err
	}
	state.Holders[role] = pkg
	return h.save(state)
}

func (h *FileHost) Begin(ctx context.Context, role Role) error {
	return h.SetHolder(ctx, role, SelfPackage)
}
