package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/cmd"
	"github.com/thoreinstein/snapback/internal/engine/rsync"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of snapback, plus the detected backup engine.`,
	RunE: func(c *cobra.Command, _ []string) error {
		return runVersionWithWriter(c.Context(), os.Stdout)
	},
}

func runVersionWithWriter(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(w, "snapback version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit:    %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:     %s\n", cmd.Date)
	fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
	fmt.Fprintln(w, "  engine:")

	status := "not found"
	if info, err := rsync.Detect(ctx, rsyncPath()); err == nil {
		status = fmt.Sprintf("%s (%s)", info.Version, info.Path)
	}
	fmt.Fprintf(w, "    rsync:   %s\n", status)
	return nil
}
