package semver

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"0.0.0", Version{}},
		{"1.2.3", Version{Major: 1, Minor: 2, Patch: 3}},
		{"10.20.30", Version{Major: 10, Minor: 20, Patch: 30}},
		{"1.0.0-alpha", Version{Major: 1, Prerelease: []string{"alpha"}}},
		{"1.0.0-alpha.1", Version{Major: 1, Prerelease: []string{"alpha", "1"}}},
		{"1.0.0-0.3.7", Version{Major: 1, Prerelease: []string{"0", "3", "7"}}},
		{"1.0.0-x-y-z.--", Version{Major: 1, Prerelease: []string{"x-y-z", "--"}}},
		{"1.0.0+20130313144700", Version{Major: 1, Build: []string{"20130313144700"}}},
		{"1.0.0-beta+exp.sha.5114f85", Version{Major: 1, Prerelease: []string{"beta"}, Build: []string{"exp", "sha", "5114f85"}}},
		{"1.0.0+01", Version{Major: 1, Build: []string{"01"}}},
		{"18446744073709551615.0.0", Version{Major: 18446744073709551615}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"1.2",
		"1.2.3.4",
		"v1.2.3",
		"01.2.3",
		"1.02.3",
		"1.2.03",
		"1.2.-3",
		"-1.2.3",
		"1.2.3-",
		"1.2.3-01",
		"1.2.3-alpha..1",
		"1.2.3-alpha_beta",
		"1.2.3+",
		"1.2.3+exp..sha",
		"1.2.3 ",
		" 1.2.3",
		"a.b.c",
		"1,2,3",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformed", input, err)
			}
		})
	}
}

func TestString(t *testing.T) {
	inputs := []string{
		"0.0.0",
		"1.2.3",
		"1.0.0-alpha.1",
		"1.0.0-beta+exp.sha.5114f85",
		"2.0.0+build.42",
	}

	for _, input := range inputs {
		v, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if v.String() != input {
			t.Errorf("String() = %q, want %q", v.String(), input)
		}
	}
}

func TestCompare(t *testing.T) {
	// Each version orders strictly before the next.
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0",
	}

	versions := make([]Version, len(ordered))
	for i, s := range ordered {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", s, err)
		}
		versions[i] = v
	}

	for i := 0; i < len(versions)-1; i++ {
		if c := versions[i].Compare(versions[i+1]); c != -1 {
			t.Errorf("Compare(%q, %q) = %d, want -1", ordered[i], ordered[i+1], c)
		}
		if c := versions[i+1].Compare(versions[i]); c != 1 {
			t.Errorf("Compare(%q, %q) = %d, want 1", ordered[i+1], ordered[i], c)
		}
	}
	for i, v := range versions {
		if c := v.Compare(v); c != 0 {
			t.Errorf("Compare(%q, %q) = %d, want 0", ordered[i], ordered[i], c)
		}
	}
}

func TestCompareIgnoresBuild(t *testing.T) {
	a, _ := Parse("1.0.0+build.1")
	b, _ := Parse("1.0.0+build.2")
	c, _ := Parse("1.0.0")

	if Compare(a, b) != 0 {
		t.Error("build metadata must not affect ordering")
	}
	if Compare(a, c) != 0 {
		t.Error("build metadata must not affect ordering against a bare version")
	}
}

func TestIsPrerelease(t *testing.T) {
	pre, _ := Parse("1.0.0-rc.1")
	rel, _ := Parse("1.0.0")

	if !pre.IsPrerelease() {
		t.Error("expected 1.0.0-rc.1 to be a pre-release")
	}
	if rel.IsPrerelease() {
		t.Error("expected 1.0.0 not to be a pre-release")
	}
}
