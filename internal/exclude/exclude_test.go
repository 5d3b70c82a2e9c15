package exclude

import (
	"reflect"
	"testing"

	"github.com/thoreinstein/snapback/internal/errors"
)

func TestRule_Matches(t *testing.T) {
	tests := []struct {
		name   string
		rule   Rule
		target string
		want   bool
	}{
		{
			name:   "anchored exact match",
			rule:   Rule{Pattern: "/tmp/*"},
			target: "/tmp/scratch",
			want:   true,
		},
		{
			name:   "anchored matches descendants through ancestor",
			rule:   Rule{Pattern: "/tmp/*"},
			target: "/tmp/scratch/deep/file",
			want:   true,
		},
		{
			name:   "anchored does not match the parent itself",
			rule:   Rule{Pattern: "/tmp/*"},
			target: "/tmp",
			want:   false,
		},
		{
			name:   "star does not cross separators",
			rule:   Rule{Pattern: "/mnt/*/*"},
			target: "/mnt/disk",
			want:   false,
		},
		{
			name:   "two level wildcard",
			rule:   Rule{Pattern: "/mnt/*/*"},
			target: "/mnt/external/data",
			want:   true,
		},
		{
			name:   "directory pattern matches itself",
			rule:   Rule{Pattern: "/home"},
			target: "/home",
			want:   true,
		},
		{
			name:   "directory pattern matches subtree",
			rule:   Rule{Pattern: "/home"},
			target: "/home/alice/documents",
			want:   true,
		},
		{
			name:   "wildcard in middle component",
			rule:   Rule{Pattern: "/home/*/.cache"},
			target: "/home/alice/.cache/mozilla",
			want:   true,
		},
		{
			name:   "floating pattern matches basename at any depth",
			rule:   Rule{Pattern: "*.tmp"},
			target: "/var/spool/job.tmp",
			want:   true,
		},
		{
			name:   "floating pattern matches a directory component",
			rule:   Rule{Pattern: "node_modules"},
			target: "/srv/app/node_modules/left-pad/index.js",
			want:   true,
		},
		{
			name:   "floating pattern misses",
			rule:   Rule{Pattern: "*.tmp"},
			target: "/var/spool/job.log",
			want:   false,
		},
		{
			name:   "unclean target is cleaned first",
			rule:   Rule{Pattern: "/tmp/*"},
			target: "/tmp//scratch/",
			want:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.target); got != tt.want {
				t.Errorf("Rule{%q}.Matches(%q) = %v, want %v", tt.rule.Pattern, tt.target, got, tt.want)
			}
		})
	}
}

func TestSystemPolicy_Match(t *testing.T) {
	p := SystemPolicy()

	tests := []struct {
		path string
		want bool
	}{
		{"/home/alice/.cache", false},
		{"/home/alice/.cache/mozilla/profile", false},
		{"/home/alice/documents", true},
		{"/home/alice/documents/report.txt", true},
		{"/home/bob", true},
		{"/mnt/external/data", false},
		{"/mnt/external", true},
		{"/tmp/scratch", false},
		{"/tmp", true},
		{"/var/tmp/build", false},
		{"/proc/1234", false},
		{"/sys/devices", false},
		{"/etc/fstab", true},
		{"/data/projects", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := p.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSystemPolicy_Toggles(t *testing.T) {
	p := SystemPolicy()
	if !p.ExcludeSpecialFiles {
		t.Error("system policy should exclude special files")
	}
	if !p.OneFileSystem {
		t.Error("system policy should stop at filesystem boundaries")
	}
}

func TestBasePolicy(t *testing.T) {
	p := BasePolicy()
	if len(p.Rules) != 0 {
		t.Errorf("base policy should carry no rules, got %d", len(p.Rules))
	}
	if p.ExcludeSpecialFiles || p.OneFileSystem {
		t.Error("base policy should keep full fidelity")
	}
	if !p.Match("/anything/at/all") {
		t.Error("base policy should include everything")
	}
}

func TestForSource(t *testing.T) {
	if got := ForSource("/"); len(got.Rules) == 0 {
		t.Error("ForSource(/) should select the system baseline")
	}
	if got := ForSource("/data"); len(got.Rules) != 0 {
		t.Error("ForSource(/data) should select the plain policy")
	}
}

func TestPolicy_Args(t *testing.T) {
	p := SystemPolicy()
	want := []string{
		"--exclude=/home/*/.cache",
		"--include=/home",
		"--exclude=/tmp/*",
		"--exclude=/var/tmp/*",
		"--exclude=/proc/*",
		"--exclude=/sys/*",
		"--exclude=/mnt/*/*",
	}
	if got := p.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestPolicy_WithExcludes(t *testing.T) {
	base := SystemPolicy()
	before := len(base.Rules)

	extended := base.WithExcludes("/srv/scratch/*", "*.iso")

	if len(base.Rules) != before {
		t.Error("WithExcludes should not mutate the receiver")
	}
	if got := len(extended.Rules); got != before+2 {
		t.Fatalf("extended rules = %d, want %d", got, before+2)
	}

	last := extended.Rules[len(extended.Rules)-1]
	if last.Pattern != "*.iso" || last.Action != Exclude {
		t.Errorf("appended rule = %+v, want exclude *.iso", last)
	}
	if extended.Match("/srv/scratch/tmpfile") {
		t.Error("extended policy should exclude /srv/scratch/*")
	}

	same := base.WithExcludes()
	if len(same.Rules) != before {
		t.Error("WithExcludes() without patterns should be a no-op")
	}
}

func TestValidatePattern(t *testing.T) {
	if err := ValidatePattern("/home/*/.cache"); err != nil {
		t.Errorf("valid pattern rejected: %v", err)
	}
	if err := ValidatePattern(""); err == nil {
		t.Error("empty pattern should be rejected")
	} else if !errors.Is(err, ErrBadPattern) {
		t.Errorf("unexpected error type: %v", err)
	}
	if err := ValidatePattern("[unclosed"); err == nil {
		t.Error("malformed pattern should be rejected")
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := SystemPolicy().Validate(); err != nil {
		t.Errorf("system policy should validate: %v", err)
	}
	bad := BasePolicy().WithExcludes("[broken")
	if err := bad.Validate(); err == nil {
		t.Error("policy with a malformed pattern should fail validation")
	}
}

func TestAction_String(t *testing.T) {
	if got := Exclude.String(); got != "exclude" {
		t.Errorf("Exclude.String() = %q", got)
	}
	if got := Include.String(); got != "include" {
		t.Errorf("Include.String() = %q", got)
	}
}

func TestRule_Arg(t *testing.T) {
	r := Rule{Pattern: "/home", Action: Include}
	if got := r.Arg(); got != "--include=/home" {
		t.Errorf("Arg() = %q", got)
	}
}
