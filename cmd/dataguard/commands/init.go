package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/config"
	"github.com/AmanDhiman07/dataguard/internal/paths"
	"github.com/AmanDhiman07/dataguard/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dataguard configuration",
	Long: `Create the dataguard configuration file with defaults.

Writes ~/.config/dataguard/config.yaml. Edit it afterwards to point
device_dir at your record feed and export_dir at the folder backups
should be mirrored into.`,
	Example: `  # Initialize configuration
  dataguard init

  # Force overwrite existing configuration
  dataguard init --force

  See Also: dataguard status`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := paths.ConfigFile()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Configuration already exists at %s\n", configPath)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	cfg := config.Config{
		Version:    1,
		APIBaseURL: config.DefaultAPIBaseURL,
		SMSListCap: config.DefaultSMSListCap,
	}

	if err := fileutil.AtomicWriteYAML(configPath, &cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
