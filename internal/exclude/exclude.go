// Package exclude models the ordered include/exclude policy applied to
// a backup run. Rules are evaluated first match wins, in declaration
// order, so narrow overrides are placed before the broad rules they
// carve into. The ordered rule list is handed to the engine verbatim.
package exclude

import (
	"path"
	"strings"

	"github.com/thoreinstein/snapback/internal/errors"
)

// Action says whether a matching path is kept or skipped.
type Action uint8

const (
	// Exclude drops matching paths from the transfer.
	Exclude Action = iota
	// Include keeps matching paths, overriding broader exclusions
	// that follow it in the rule order.
	Include
)

// String returns the action name as it appears in engine arguments.
func (a Action) String() string {
	if a == Include {
		return "include"
	}
	return "exclude"
}

// Rule pairs a glob pattern with an action. Patterns starting with a
// slash are anchored to the transfer root; bare patterns float and
// match a name at any depth.
type Rule struct {
	Pattern string
	Action  Action
}

// Arg renders the rule as a single engine argument.
func (r Rule) Arg() string {
	return "--" + r.Action.String() + "=" + r.Pattern
}

// Matches reports whether target, or any ancestor of target, matches
// the rule's pattern. Ancestors count because excluding a directory
// excludes everything below it.
func (r Rule) Matches(target string) bool {
	target = path.Clean(target)
	anchored := strings.HasPrefix(r.Pattern, "/")
	for cur := target; ; cur = path.Dir(cur) {
		if anchored {
			if ok, _ := path.Match(r.Pattern, cur); ok {
				return true
			}
		} else {
			if ok, _ := path.Match(r.Pattern, path.Base(cur)); ok {
				return true
			}
		}
		if cur == "/" || cur == "." {
			return false
		}
	}
}

// ErrBadPattern indicates a malformed glob pattern.
var ErrBadPattern = errors.New("bad exclude pattern")

// ValidatePattern rejects glob patterns the matcher cannot evaluate.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return errors.Wrap(ErrBadPattern, "empty pattern")
	}
	if _, err := path.Match(pattern, "probe"); err != nil {
		return errors.Wrapf(ErrBadPattern, "%q", pattern)
	}
	return nil
}

// Policy is the full exclusion surface of a run: the ordered glob
// rules plus two engine-level toggles that globs cannot express.
type Policy struct {
	Rules []Rule

	// ExcludeSpecialFiles skips sockets, device nodes and pipes.
	ExcludeSpecialFiles bool

	// OneFileSystem stops the engine at filesystem boundaries. An
	// Include rule re-adds a mount the boundary would drop.
	OneFileSystem bool
}

// BasePolicy returns the policy for backing up a regular directory:
// no glob rules and full fidelity, special files included.
func BasePolicy() Policy {
	return Policy{}
}

// SystemPolicy returns the whole-system baseline. Volatile trees and
// foreign mounts are skipped; /home survives the filesystem-boundary
// rule through its explicit include, while per-user cache directories
// stay out.
func SystemPolicy() Policy {
	return Policy{
		Rules: []Rule{
			{Pattern: "/home/*/.cache", Action: Exclude},
			{Pattern: "/home", Action: Include},
			{Pattern: "/tmp/*", Action: Exclude},
			{Pattern: "/var/tmp/*", Action: Exclude},
			{Pattern: "/proc/*", Action: Exclude},
			{Pattern: "/sys/*", Action: Exclude},
			{Pattern: "/mnt/*/*", Action: Exclude},
		},
		ExcludeSpecialFiles: true,
		OneFileSystem:       true,
	}
}

// ForSource selects the policy matching a normalized source path: the
// whole-system baseline for /, the plain one for anything else.
func ForSource(source string) Policy {
	if source == "/" {
		return SystemPolicy()
	}
	return BasePolicy()
}

// WithExcludes returns a copy of the policy with extra exclude rules
// appended after the existing ones.
func (p Policy) WithExcludes(patterns ...string) Policy {
	if len(patterns) == 0 {
		return p
	}
	rules := make([]Rule, 0, len(p.Rules)+len(patterns))
	rules = append(rules, p.Rules...)
	for _, pattern := range patterns {
		rules = append(rules, Rule{Pattern: pattern, Action: Exclude})
	}
	p.Rules = rules
	return p
}

// Args renders the glob rules as engine filter arguments, preserving
// declaration order. The toggles are not rendered here; the engine
// translates them into its own flags.
func (p Policy) Args() []string {
	args := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		args = append(args, r.Arg())
	}
	return args
}

// Match reports whether a path would be transferred under the glob
// rules: the first matching rule decides, and paths no rule covers
// are included. The toggles need filesystem context and are not
// consulted here.
func (p Policy) Match(target string) bool {
	for _, r := range p.Rules {
		if r.Matches(target) {
			return r.Action == Include
		}
	}
	return true
}

// Validate checks every pattern in the policy.
func (p Policy) Validate() error {
	for _, r := range p.Rules {
		if err := ValidatePattern(r.Pattern); err != nil {
			return err
		}
	}
	return nil
}
