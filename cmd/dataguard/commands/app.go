package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/backup"
	"github.com/AmanDhiman07/dataguard/internal/cloud"
	"github.com/AmanDhiman07/dataguard/internal/config"
	"github.com/AmanDhiman07/dataguard/internal/export"
	"github.com/AmanDhiman07/dataguard/internal/logging"
	"github.com/AmanDhiman07/dataguard/internal/paths"
	"github.com/AmanDhiman07/dataguard/internal/provider"
	"github.com/AmanDhiman07/dataguard/internal/restore"
	"github.com/AmanDhiman07/dataguard/internal/role"
	"github.com/AmanDhiman07/dataguard/internal/snapshot"
)

// app bundles the collaborators a command needs. Commands receive an
// app instead of building their own dependencies so tests can hand in
// one wired to temp directories and fakes.
type app struct {
	cfg         *config.Config
	store       *snapshot.Store
	exp         *export.Bridge
	catalog     *snapshot.Catalog
	stack       *provider.Stack
	roles       *role.Manager
	writer      *backup.Writer
	engine      *restore.Engine
	client      *cloud.Client
	sessionPath string
	log         *slog.Logger
}

// appPaths resolves the state locations an app uses, honoring config
// overrides.
type appPaths struct {
	snapshotRoot string
	exportState  string
	roleState    string
	session      string
}

func defaultAppPaths(cfg *config.Config) appPaths {
	p := appPaths{
		snapshotRoot: paths.SnapshotRoot(),
		exportState:  paths.ExportStateFile(),
		roleState:    paths.RoleStateFile(),
		session:      paths.SessionFile(),
	}
	if cfg.BackupDir != "" {
		p.snapshotRoot = cfg.BackupDir
	}
	return p
}

// buildApp wires an app from config and explicit state locations.
func buildApp(cfg *config.Config, ap appPaths, stack *provider.Stack, host role.Host, log *slog.Logger) *app {
	store := snapshot.NewStore(ap.snapshotRoot)
	exp := export.New(export.NewFilesystemAuthority(cfg.ExportDir), ap.exportState, log)
	roles := role.NewManager(host, log)

	return &app{
		cfg:     cfg,
		store:   store,
		exp:     exp,
		catalog: snapshot.NewCatalog(store, exp, log),
		stack:   stack,
		roles:   roles,
		writer: backup.NewWriter(store, stack, exp, backup.Options{
			SMSLimit:        cfg.SMSListCap,
			MandatoryExport: true,
		}, log),
		engine:      restore.NewEngine(store, stack, roles, log),
		client:      cloud.NewClient(cfg.APIBaseURL, log),
		sessionPath: ap.session,
		log:         log,
	}
}

// newApp builds the app for a live command invocation.
func newApp(cmd *cobra.Command) *app {
	cfg := loadedConfig
	ap := defaultAppPaths(cfg)
	log := logging.FromContext(cmd.Context())
	return buildApp(cfg, ap, provider.NewLocalStack(cfg.DeviceDir), role.NewFileHost(ap.roleState), log)
}
