// Package semver implements strict Semantic Versioning 2.0.0 parsing and
// comparison, plus syntax validation for cargo-style version requirements.
//
// The parser accepts exactly the canonical grammar
// MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] with no "v" prefix and no leading
// zeros in numeric components. Requirement matching is left to the resolver;
// this package only validates requirement syntax.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a version string violates the semver grammar.
var ErrMalformed = errors.New("malformed version")

// Version is a parsed semantic version.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64

	// Prerelease holds the dot-separated pre-release identifiers,
	// e.g. ["alpha", "1"] for "1.0.0-alpha.1". Empty for release versions.
	Prerelease []string

	// Build holds the dot-separated build metadata identifiers.
	// Build metadata never participates in ordering.
	Build []string
}

// Parse parses s as a semantic version.
func Parse(s string) (Version, error) {
	var v Version

	if s == "" {
		return v, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	rest := s
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		build, err := parseIdentifiers(rest[i+1:], true)
		if err != nil {
			return v, fmt.Errorf("%w: %q: build metadata: %v", ErrMalformed, s, err)
		}
		v.Build = build
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		pre, err := parseIdentifiers(rest[i+1:], false)
		if err != nil {
			return v, fmt.Errorf("%w: %q: pre-release: %v", ErrMalformed, s, err)
		}
		v.Prerelease = pre
		rest = rest[:i]
	}

	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q: expected MAJOR.MINOR.PATCH", ErrMalformed, s)
	}
	var err error
	if v.Major, err = parseNumeric(parts[0]); err != nil {
		return Version{}, fmt.Errorf("%w: %q: major: %v", ErrMalformed, s, err)
	}
	if v.Minor, err = parseNumeric(parts[1]); err != nil {
		return Version{}, fmt.Errorf("%w: %q: minor: %v", ErrMalformed, s, err)
	}
	if v.Patch, err = parseNumeric(parts[2]); err != nil {
		return Version{}, fmt.Errorf("%w: %q: patch: %v", ErrMalformed, s, err)
	}

	return v, nil
}

// parseNumeric parses a version core number: digits only, no leading zeros.
func parseNumeric(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("leading zero in %q", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number out of range: %q", s)
	}
	return n, nil
}

// parseIdentifiers validates a dot-separated identifier sequence.
// Build metadata permits leading zeros in numeric identifiers; pre-release
// identifiers do not.
func parseIdentifiers(s string, allowLeadingZeros bool) ([]string, error) {
	if s == "" {
		return nil, errors.New("empty identifier sequence")
	}
	ids := strings.Split(s, ".")
	for _, id := range ids {
		if id == "" {
			return nil, errors.New("empty identifier")
		}
		numeric := true
		for i := 0; i < len(id); i++ {
			c := id[i]
			switch {
			case c >= '0' && c <= '9':
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-':
				numeric = false
			default:
				return nil, fmt.Errorf("invalid character %q in identifier %q", c, id)
			}
		}
		if numeric && !allowLeadingZeros && len(id) > 1 && id[0] == '0' {
			return nil, fmt.Errorf("leading zero in numeric identifier %q", id)
		}
	}
	return ids, nil
}

// String renders the version in canonical form.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// IsPrerelease reports whether the version carries pre-release identifiers.
func (v Version) IsPrerelease() bool {
	return len(v.Prerelease) > 0
}

// Compare returns -1, 0, or 1 when v orders before, equal to, or after o.
// Precedence follows SemVer 2.0.0: numeric core first, then pre-release
// identifiers (a pre-release orders before its release; numeric identifiers
// compare numerically and order before alphanumeric ones). Build metadata
// is ignored.
func (v Version) Compare(o Version) int {
	if c := compareUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Patch, o.Patch); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

// Compare orders two versions; see Version.Compare.
func Compare(a, b Version) int {
	return a.Compare(b)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func comparePrerelease(a, b []string) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return 1
	case len(b) == 0:
		return -1
	}

	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareIdentifier(a[i], b[i]); c != 0 {
			return c
		}
	}

	// All shared identifiers equal: the longer sequence orders after.
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareIdentifier(a, b string) int {
	na, aNum := parseIdentifierNumber(a)
	nb, bNum := parseIdentifierNumber(b)

	switch {
	case aNum && bNum:
		return compareUint(na, nb)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

func parseIdentifierNumber(s string) (uint64, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
