package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetInt("sms_list_cap") != DefaultSMSListCap {
		t.Errorf("expected sms_list_cap default %d, got %d", DefaultSMSListCap, viper.GetInt("sms_list_cap"))
	}
	if viper.GetString("api_base_url") == "" {
		t.Error("expected api_base_url default to be set")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Errorf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config to be returned")
	}
	if cfg.SMSListCap != DefaultSMSListCap {
		t.Errorf("expected default SMS cap, got %d", cfg.SMSListCap)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("backup_dir: /tmp/backups\nsms_list_cap: 100\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BackupDir != "/tmp/backups" {
		t.Errorf("expected backup_dir override, got %q", cfg.BackupDir)
	}
	if cfg.SMSListCap != 100 {
		t.Errorf("expected sms_list_cap 100, got %d", cfg.SMSListCap)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", &Config{SMSListCap: DefaultSMSListCap, APIBaseURL: DefaultAPIBaseURL}, false},
		{"nil", nil, true},
		{"zero cap", &Config{SMSListCap: 0}, true},
		{"relative url", &Config{SMSListCap: 1, APIBaseURL: "/api"}, true},
		{"empty url ok", &Config{SMSListCap: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
