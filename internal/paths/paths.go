package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "dataguard"

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
func DataHome() string {
	return xdg.DataHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the dataguard config directory.
// Returns: <ConfigHome>/dataguard/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the path of the dataguard config file.
// Returns: <ConfigHome>/dataguard/config.yaml
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SnapshotRoot returns the root directory holding local backup snapshots.
// Returns: <DataHome>/dataguard/backups/
func SnapshotRoot() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// ExportStateFile returns the path of the persisted public-export-root state.
// Returns: <StateHome>/dataguard/export-root.toml
func ExportStateFile() string {
	return filepath.Join(StateHome(), AppName, "export-root.toml")
}

// RoleStateFile returns the path of the persisted default-app role state
// used by the local role host.
// Returns: <StateHome>/dataguard/roles.toml
func RoleStateFile() string {
	return filepath.Join(StateHome(), AppName, "roles.toml")
}

// SessionFile returns the path of the persisted cloud auth session.
// Returns: <StateHome>/dataguard/session.json
func SessionFile() string {
	return filepath.Join(StateHome(), AppName, "session.json")
}
