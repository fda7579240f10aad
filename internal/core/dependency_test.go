package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/git-pkgs/cratesindex/semver"
)

func TestNormalizeDependency(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}
	v3 := GateSchema(3)

	d, err := normalizeDependency(rawDependency{Name: "bar", Req: "^1.0"}, v3, rec)
	if err != nil {
		t.Fatalf("normalizeDependency failed: %v", err)
	}

	if d.Name != "bar" {
		t.Errorf("expected name 'bar', got %q", d.Name)
	}
	if d.Package != "bar" {
		t.Errorf("expected package to default to the name, got %q", d.Package)
	}
	if d.Renamed() {
		t.Error("expected dependency not to be renamed")
	}
	if d.Requirement.String() != "^1.0" {
		t.Errorf("unexpected requirement: %q", d.Requirement)
	}
	if !d.DefaultFeatures {
		t.Error("expected default_features to default to true")
	}
	if d.Optional {
		t.Error("expected optional to default to false")
	}
	if d.Kind != KindNormal {
		t.Errorf("expected normal kind, got %q", d.Kind)
	}
	if d.Features == nil || len(d.Features) != 0 {
		t.Errorf("expected empty feature list, got %v", d.Features)
	}
	if d.Public != nil {
		t.Error("expected public to stay undeclared")
	}
}

func TestNormalizeDependencyMissingFields(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}

	if _, err := normalizeDependency(rawDependency{Req: "^1.0"}, GateSchema(1), rec); !errors.Is(err, ErrMissingField) {
		t.Errorf("missing name: error = %v, want ErrMissingField", err)
	}
	if _, err := normalizeDependency(rawDependency{Name: "bar"}, GateSchema(1), rec); !errors.Is(err, ErrMissingField) {
		t.Errorf("missing req: error = %v, want ErrMissingField", err)
	}
}

func TestNormalizeDependencyInvalidRequirement(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}

	_, err := normalizeDependency(rawDependency{Name: "bar", Req: "not-a-req"}, GateSchema(1), rec)
	if !errors.Is(err, semver.ErrInvalidRequirement) {
		t.Fatalf("error = %v, want ErrInvalidRequirement", err)
	}

	var reqErr *InvalidRequirementError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected InvalidRequirementError, got %T", err)
	}
	if reqErr.Dependency != "bar" || reqErr.Req != "not-a-req" {
		t.Errorf("unexpected error context: %+v", reqErr)
	}
}

func TestNormalizeDependencyKinds(t *testing.T) {
	tests := []struct {
		kind string
		want DependencyKind
	}{
		{"", KindNormal},
		{"normal", KindNormal},
		{"dev", KindDev},
		{"build", KindBuild},
		{"proc-macro", KindNormal}, // unknown kinds degrade, never fail
		{"DEV", KindNormal},
	}

	rec := RecordID{Name: "foo", Version: "1.0.0"}
	for _, tt := range tests {
		d, err := normalizeDependency(rawDependency{Name: "bar", Req: "*", Kind: tt.kind}, GateSchema(1), rec)
		if err != nil {
			t.Fatalf("kind %q: %v", tt.kind, err)
		}
		if d.Kind != tt.want {
			t.Errorf("kind %q mapped to %q, want %q", tt.kind, d.Kind, tt.want)
		}
	}
}

func TestNormalizeDependencyRename(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}

	d, err := normalizeDependency(rawDependency{Name: "my-serde", Req: "^1.0", Package: "serde"}, GateSchema(1), rec)
	if err != nil {
		t.Fatalf("normalizeDependency failed: %v", err)
	}

	if d.Name != "my-serde" {
		t.Errorf("expected alias 'my-serde', got %q", d.Name)
	}
	if d.Package != "serde" {
		t.Errorf("expected package 'serde', got %q", d.Package)
	}
	if !d.Renamed() {
		t.Error("expected dependency to report renamed")
	}
}

func TestNormalizeDependencyExplicitDefaults(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}
	f := false
	tr := true

	d, err := normalizeDependency(rawDependency{
		Name:            "bar",
		Req:             "^1.0",
		Optional:        true,
		DefaultFeatures: &f,
		Features:        []string{"std", "alloc"},
		Target:          `cfg(target_os = "linux")`,
		Registry:        "https://example.com/index",
		Public:          &tr,
	}, GateSchema(1), rec)
	if err != nil {
		t.Fatalf("normalizeDependency failed: %v", err)
	}

	if !d.Optional {
		t.Error("expected optional to be true")
	}
	if d.DefaultFeatures {
		t.Error("expected default_features false to be preserved")
	}
	if !reflect.DeepEqual(d.Features, []string{"std", "alloc"}) {
		t.Errorf("unexpected features: %v", d.Features)
	}
	if d.Target != `cfg(target_os = "linux")` {
		t.Errorf("unexpected target: %q", d.Target)
	}
	if d.Registry != "https://example.com/index" {
		t.Errorf("unexpected registry: %q", d.Registry)
	}
	if d.Public == nil || !*d.Public {
		t.Error("expected public true to be preserved verbatim")
	}
}

func TestNormalizeDependencyArtifactGating(t *testing.T) {
	rec := RecordID{Name: "foo", Version: "1.0.0"}
	raw := rawDependency{
		Name:         "tool",
		Req:          "^1.0",
		Artifact:     []string{"bin"},
		BindepTarget: "x86_64-unknown-linux-gnu",
		Lib:          true,
	}

	// Schemas below V3 drop artifact fields silently.
	d, err := normalizeDependency(raw, GateSchema(2), rec)
	if err != nil {
		t.Fatalf("normalizeDependency failed: %v", err)
	}
	if d.ArtifactKinds != nil || d.BindepTarget != "" || d.Lib {
		t.Errorf("expected artifact fields dropped below V3, got %+v", d)
	}

	d, err = normalizeDependency(raw, GateSchema(3), rec)
	if err != nil {
		t.Fatalf("normalizeDependency failed: %v", err)
	}
	if !reflect.DeepEqual(d.ArtifactKinds, []string{"bin"}) {
		t.Errorf("expected artifact kinds at V3, got %v", d.ArtifactKinds)
	}
	if d.BindepTarget != "x86_64-unknown-linux-gnu" {
		t.Errorf("unexpected bindep target: %q", d.BindepTarget)
	}
	if !d.Lib {
		t.Error("expected lib flag at V3")
	}
}
