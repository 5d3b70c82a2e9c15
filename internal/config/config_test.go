package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	// Reset viper state
	viper.Reset()

	Init()

	// Check defaults are set
	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if got := viper.GetInt("verbosity"); got != 0 {
		t.Errorf("expected verbosity default 0, got %d", got)
	}
	if got := viper.GetString("keep_for"); got != DefaultKeepFor {
		t.Errorf("expected keep_for default %q, got %q", DefaultKeepFor, got)
	}
	if got := viper.GetString("lock_name"); got != "backup.lock" {
		t.Errorf("expected lock_name default backup.lock, got %q", got)
	}
	if got := viper.GetString("rsync_path"); got != "rsync" {
		t.Errorf("expected rsync_path default rsync, got %q", got)
	}
	if viper.GetBool("prune_on_failure") {
		t.Error("expected prune_on_failure to default to false")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()

	// Set SNAPBACK_CONFIG_DIR to a temp dir to avoid loading system config
	tempDir := t.TempDir()
	t.Setenv("SNAPBACK_CONFIG_DIR", tempDir)

	Init()

	// Load with no config file should not error
	cfg, err := Load("")
	if err != nil {
		t.Errorf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config to be returned")
	}
	if cfg.KeepFor != DefaultKeepFor {
		t.Errorf("expected default keep_for %q, got %q", DefaultKeepFor, cfg.KeepFor)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	// Create temp config file
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("verbosity: 1\nkeep_for: 90d\nprune_on_failure: true\nexclude:\n  - /home/*/Downloads\n  - \"*.iso\"\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Verbosity != 1 {
		t.Errorf("expected verbosity 1, got %d", cfg.Verbosity)
	}
	if cfg.KeepFor != "90d" {
		t.Errorf("expected keep_for 90d, got %q", cfg.KeepFor)
	}
	if !cfg.PruneOnFailure {
		t.Error("expected prune_on_failure true")
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("expected 2 exclude patterns, got %d", len(cfg.Exclude))
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()

	tempDir := t.TempDir()
	t.Setenv("SNAPBACK_CONFIG_DIR", tempDir)
	t.Setenv("SNAPBACK_KEEP_FOR", "30d")
	t.Setenv("SNAPBACK_VERBOSITY", "2")

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.KeepFor != "30d" {
		t.Errorf("expected env keep_for 30d, got %q", cfg.KeepFor)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("expected env verbosity 2, got %d", cfg.Verbosity)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	// Load with non-existent config file should error
	_, err := Load("/non/existent/path/config.yaml")
	if err == nil {
		t.Error("Load() with non-existent explicit path should error")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid version",
			content: "version: 2\n",
			wantErr: "unsupported config version: 2",
		},
		{
			name:    "invalid keep_for",
			content: "keep_for: nonsense\n",
			wantErr: "keep_for: invalid retention threshold: nonsense",
		},
		{
			name:    "invalid exclude pattern",
			content: "exclude:\n  - \"[unclosed\"\n",
			wantErr: "exclude: bad exclude pattern: [unclosed",
		},
		{
			name:    "lock name with separator",
			content: "lock_name: a/b\n",
			wantErr: "lock_name: invalid lock name: a/b",
		},
		{
			name:    "negative verbosity",
			content: "verbosity: -1\n",
			wantErr: "verbosity: negative verbosity: -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			Init()

			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Error("Load() expected error, got nil")
			} else if err.Error() != "validating config: "+tt.wantErr {
				t.Errorf("Load() error = %v, want %v", err, "validating config: "+tt.wantErr)
			}
		})
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	// 1. Setup a specific config file
	dir := t.TempDir()
	fileA := filepath.Join(dir, "config_a.yaml")
	if err := os.WriteFile(fileA, []byte("version: 1\nkeep_for: 30d\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// 2. Initialize and Load specific file
	viper.Reset()
	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("First Load failed: %v", err)
	}

	// 3. Setup a default config file in a different directory
	dirB := t.TempDir()
	t.Setenv("SNAPBACK_CONFIG_DIR", dirB)
	fileB := filepath.Join(dirB, "config.yaml")
	if err := os.WriteFile(fileB, []byte("version: 1\nkeep_for: 7d\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// 4. Re-Initialize. This SHOULD clear the specific file from step 2.
	Init()

	// 5. Load with empty path. Should pick up fileB from SNAPBACK_CONFIG_DIR.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}

	// 6. Verify we got config B
	if cfg.KeepFor != "7d" {
		t.Errorf("Expected config from default path (fileB), got keep_for %q", cfg.KeepFor)
		if viper.ConfigFileUsed() == fileA {
			t.Errorf("Still using fileA: %s", viper.ConfigFileUsed())
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != CurrentVersion {
		t.Errorf("Default() version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if errs := Validate(cfg); len(errs) > 0 {
		t.Errorf("Default() does not validate: %v", errs)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.KeepFor = "90d"
	cfg.Exclude = []string{"/home/*/Downloads"}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	viper.Reset()
	Init()
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save error: %v", err)
	}
	if loaded.KeepFor != "90d" {
		t.Errorf("round-tripped keep_for = %q, want 90d", loaded.KeepFor)
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "/home/*/Downloads" {
		t.Errorf("round-tripped exclude = %v", loaded.Exclude)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Version = 99
	if err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Error("Save() accepted an invalid config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErrs int
	}{
		{name: "default config", mutate: func(c *Config) {}},
		{
			name:   "empty lock name means default",
			mutate: func(c *Config) { c.LockName = "" },
		},
		{
			name:     "dot lock name",
			mutate:   func(c *Config) { c.LockName = ".." },
			wantErrs: 1,
		},
		{
			name:     "negative verbosity",
			mutate:   func(c *Config) { c.Verbosity = -2 },
			wantErrs: 1,
		},
		{
			name: "multiple errors accumulate",
			mutate: func(c *Config) {
				c.Version = 2
				c.KeepFor = "bogus"
			},
			wantErrs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if errs := Validate(cfg); len(errs) != tt.wantErrs {
				t.Errorf("Validate() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) returned %d errors, want 1", len(errs))
	}
}
