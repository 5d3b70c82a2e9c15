package logging

import (
	"bytes"
	"os"
	"testing"
)

func TestColorAllowed(t *testing.T) {
	tests := []struct {
		name    string
		noColor bool
		term    string
		isTTY   bool
		want    bool
	}{
		{name: "plain terminal", term: "xterm-256color", isTTY: true, want: true},
		{name: "not a terminal", term: "xterm-256color", isTTY: false, want: false},
		{name: "NO_COLOR set", noColor: true, term: "xterm-256color", isTTY: true, want: false},
		{name: "dumb terminal", term: "dumb", isTTY: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// t.Setenv registers the restore; it cannot unset, so clear
			// through os afterwards and re-set only when the case wants
			// the variable present.
			t.Setenv("NO_COLOR", "")
			os.Unsetenv("NO_COLOR")
			if tt.noColor {
				t.Setenv("NO_COLOR", "1")
			}
			t.Setenv("TERM", tt.term)

			if got := colorAllowed(tt.isTTY); got != tt.want {
				t.Errorf("colorAllowed(%v) = %v, want %v", tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("a bytes.Buffer is not a terminal")
	}
}

func TestSupportsColor_NonFileWriter(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	var buf bytes.Buffer
	if SupportsColor(&buf) {
		t.Error("color must stay off for non-terminal writers")
	}
}
