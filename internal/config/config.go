// Package config provides configuration management for dataguard using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/AmanDhiman07/dataguard/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "dataguard"

// DefaultAPIBaseURL is the companion backend used when no override is set.
const DefaultAPIBaseURL = "http://192.168.68.122:3000/api"

// DefaultSMSListCap bounds a single SMS provider read.
const DefaultSMSListCap = 50000

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// BackupDir overrides the local snapshot root. Empty means the
	// XDG default (paths.SnapshotRoot).
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir"`

	// ExportDir is the directory offered as the initial location when the
	// public export folder grant is requested. Empty means the platform's
	// downloads folder.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`

	// DeviceDir points at the device record feed (contacts/messages/call
	// log dumps) the local provider stack reads from.
	DeviceDir string `mapstructure:"device_dir" yaml:"device_dir"`

	// APIBaseURL is the companion cloud API for OTP login and VCF upload.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// SMSListCap bounds how many messages a single backup reads.
	SMSListCap int `mapstructure:"sms_list_cap" yaml:"sms_list_cap"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("DATAGUARD")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("api_base_url", DefaultAPIBaseURL)
	viper.SetDefault("sms_list_cap", DefaultSMSListCap)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
