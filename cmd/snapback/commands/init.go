package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/internal/config"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/paths"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration",
	Long: `Create the snapback configuration file with default settings.

The file lands in the XDG config directory (usually
~/.config/snapback/config.yaml) and carries the retention threshold,
lock marker name, engine binary and exclusion patterns a run picks up.`,
	Example: `  # Create the config
  snapback init

  # Start over from the defaults
  snapback init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithWriter(os.Stdout)
}

func runInitWithWriter(w io.Writer) error {
	configPath := paths.ConfigFile()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if err := config.Save(config.Default(), configPath); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	return nil
}
