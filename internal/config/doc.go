// Package config provides configuration management for the snapback CLI.
//
// This package handles loading, saving, and validating the tool's own
// configuration file. Everything in it has a working default, so a
// missing file is never an error; the file only overrides behavior.
//
// # Configuration File
//
// The default configuration file location is ~/.config/snapback/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	keep_for: 365d           # retention threshold for old snapshots
//	lock_name: backup.lock   # marker directory created in the destination
//	prune_on_failure: false  # prune even when the backup phase failed
//	rsync_path: rsync        # engine binary, resolved on PATH
//	exclude:                 # extra exclude globs, appended after the baseline
//	  - /home/*/Downloads
//
// Every value can also be supplied through the environment with the
// SNAPBACK_ prefix, e.g. SNAPBACK_KEEP_FOR=90d. The config directory
// itself can be redirected with SNAPBACK_CONFIG_DIR.
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// Load with an explicit path fails if that file does not exist; Load
// with an empty path falls back to defaults.
//
// # Validation
//
// All loaded configurations are validated automatically. You can also
// validate a configuration manually:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
//
// # Default Values
//
// The [Default] function returns the configuration used when no file
// exists; `snapback init` writes it out as a starting point.
package config
