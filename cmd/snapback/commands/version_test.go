package commands

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/thoreinstein/snapback/cmd"
)

// captureStdout captures stdout during function execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	var buf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&buf, r)
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	wg.Wait()

	return buf.String()
}

// executeVersionCommand runs the version command and captures its output.
func executeVersionCommand(t *testing.T) string {
	t.Helper()

	resetFlags(t)
	t.Setenv("SNAPBACK_CONFIG_DIR", t.TempDir())

	return captureStdout(t, func() {
		rootCmd.SetArgs([]string{"version"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("version command failed: %v", err)
		}
	})
}

func TestVersionCommand_OutputFormat(t *testing.T) {
	output := executeVersionCommand(t)

	tests := []struct {
		name     string
		contains string
	}{
		{
			name:     "contains version header",
			contains: "snapback version",
		},
		{
			name:     "contains commit field",
			contains: "commit:",
		},
		{
			name:     "contains built field",
			contains: "built:",
		},
		{
			name:     "contains go field",
			contains: "go:",
		},
		{
			name:     "contains engine section",
			contains: "engine:",
		},
		{
			name:     "contains rsync line",
			contains: "rsync:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output missing %q\nGot:\n%s", tt.contains, output)
			}
		})
	}
}

func TestVersionCommand_GoVersion(t *testing.T) {
	output := executeVersionCommand(t)

	// The output should contain the actual Go runtime version
	goVersion := runtime.Version()
	if !strings.Contains(output, goVersion) {
		t.Errorf("version output should contain Go version %q\nGot:\n%s", goVersion, output)
	}
}

func TestVersionCommand_DefaultValues(t *testing.T) {
	output := executeVersionCommand(t)

	tests := []struct {
		name     string
		contains string
	}{
		{
			name:     "version shows current value",
			contains: "snapback version " + cmd.Version,
		},
		{
			name:     "commit shows current value",
			contains: "commit:    " + cmd.Commit,
		},
		{
			name:     "date shows current value",
			contains: "built:     " + cmd.Date,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output should contain %q\nGot:\n%s", tt.contains, output)
			}
		})
	}
}

// The engine line reports whatever rsync the host carries, so the test
// only pins the shape: a version number or the not-found text.
func TestVersionCommand_EngineStatus(t *testing.T) {
	output := executeVersionCommand(t)

	lines := strings.Split(output, "\n")
	found := false
	for _, line := range lines {
		if !strings.Contains(line, "rsync:") {
			continue
		}
		found = true
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("engine line should have 4-space indent: %q", line)
		}
		if !strings.Contains(line, "not found") && !strings.ContainsAny(line, "0123456789") {
			t.Errorf("engine line should carry a version or 'not found': %q", line)
		}
	}
	if !found {
		t.Errorf("rsync not listed in version output:\n%s", output)
	}
}

// TestVersionCommand_CommandMetadata verifies the command's metadata is set correctly.
func TestVersionCommand_CommandMetadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}

	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}

	if versionCmd.Long == "" {
		t.Error("versionCmd.Long should not be empty")
	}
}
