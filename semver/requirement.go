package semver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequirement is returned when a requirement string violates the
// requirement grammar.
var ErrInvalidRequirement = errors.New("invalid version requirement")

// Requirement is a syntactically validated version requirement such as
// "^1.0", "~0.2.3", ">=1, <2" or "1.2.*". It is an opaque pass-through
// value: whether a concrete version satisfies it is decided by the
// resolver, not here.
type Requirement struct {
	raw string
}

// ParseRequirement validates s as a version requirement.
//
// The accepted grammar is a comma-separated list of comparators, each an
// optional operator (^, ~, =, >, <, >=, <=) followed by a full or partial
// version (1, 1.2, 1.2.3, 1.2.3-pre). Wildcard requirements (*, 1.*,
// 1.2.*) carry no operator.
func ParseRequirement(s string) (Requirement, error) {
	if strings.TrimSpace(s) == "" {
		return Requirement{}, fmt.Errorf("%w: empty string", ErrInvalidRequirement)
	}
	for _, comp := range strings.Split(s, ",") {
		if err := checkComparator(strings.TrimSpace(comp)); err != nil {
			return Requirement{}, fmt.Errorf("%w: %q: %v", ErrInvalidRequirement, s, err)
		}
	}
	return Requirement{raw: s}, nil
}

// String returns the requirement exactly as written in the index record.
func (r Requirement) String() string {
	return r.raw
}

var operators = []string{">=", "<=", "^", "~", "=", ">", "<"}

func checkComparator(s string) error {
	if s == "" {
		return errors.New("empty comparator")
	}

	var op string
	for _, o := range operators {
		if strings.HasPrefix(s, o) {
			op = o
			s = strings.TrimSpace(s[len(o):])
			break
		}
	}
	if s == "" {
		return fmt.Errorf("operator %q without version", op)
	}

	return checkPartial(s, op == "")
}

// checkPartial validates a full or partial version, optionally with trailing
// wildcard components. Wildcards are only legal in bare comparators.
func checkPartial(s string, allowWildcard bool) error {
	if isWildcard(s) {
		if !allowWildcard {
			return errors.New("wildcard cannot follow an operator")
		}
		return nil
	}

	parts := strings.SplitN(s, ".", 3)
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		return errors.New("trailing dot")
	}

	if _, err := parseNumeric(parts[0]); err != nil {
		return err
	}
	if len(parts) == 1 {
		return nil
	}

	if isWildcard(parts[1]) {
		if !allowWildcard {
			return errors.New("wildcard cannot follow an operator")
		}
		if len(parts) > 2 {
			return errors.New("component after wildcard")
		}
		return nil
	}
	if _, err := parseNumeric(parts[1]); err != nil {
		return err
	}
	if len(parts) == 2 {
		return nil
	}

	patch := parts[2]
	if isWildcard(patch) {
		if !allowWildcard {
			return errors.New("wildcard cannot follow an operator")
		}
		return nil
	}

	// The patch component may carry pre-release and build suffixes.
	if i := strings.IndexByte(patch, '+'); i >= 0 {
		if _, err := parseIdentifiers(patch[i+1:], true); err != nil {
			return fmt.Errorf("build metadata: %v", err)
		}
		patch = patch[:i]
	}
	if i := strings.IndexByte(patch, '-'); i >= 0 {
		if _, err := parseIdentifiers(patch[i+1:], false); err != nil {
			return fmt.Errorf("pre-release: %v", err)
		}
		patch = patch[:i]
	}
	_, err := parseNumeric(patch)
	return err
}

func isWildcard(s string) bool {
	return s == "*" || s == "x" || s == "X"
}
