// Package core implements decoding of registry index entries: schema
// gating, dependency normalization, feature table merging, and assembly of
// the final descriptor.
package core

import (
	"fmt"

	"github.com/git-pkgs/cratesindex/semver"
)

// Entry is one decoded line of the registry index: a single published
// version of a single package, validated and normalized for consumption by
// a resolver. An Entry is built in one pass by DecodeEntry and must be
// treated as read-only afterwards.
type Entry struct {
	// Name is the package name. Together with Version it identifies the
	// entry within one index.
	Name string

	// Version is the published version.
	Version semver.Version

	// Dependencies preserves the order of the raw record. Duplicates by
	// (name, kind, target) are retained; disambiguation is resolver work.
	Dependencies []Dependency

	// Features is the merged feature activation table.
	Features *FeatureTable

	// Checksum is the expected SHA-256 of the packaged artifact, as 64 hex
	// characters. Verification against artifact bytes happens after
	// download, outside this package.
	Checksum string

	// Yanked marks versions excluded from default resolution. Absent and
	// null both decode to false.
	Yanked bool

	// YankMessage is the explanation recorded when the version was
	// yanked, if any. Carried verbatim.
	YankMessage string

	// Links is the native library this package links against, if any.
	Links string

	// RustVersion is the minimum toolchain version declared by the
	// package, if any. Carried verbatim.
	RustVersion string

	// Schema is the gated index schema version the record declared.
	Schema Schema
}

// PURL renders the package URL for this entry, e.g. "pkg:cargo/serde@1.0.0".
func (e *Entry) PURL() string {
	return fmt.Sprintf("pkg:cargo/%s@%s", e.Name, e.Version)
}

// DependencyKind indicates when a dependency is required.
type DependencyKind string

const (
	KindNormal DependencyKind = "normal"
	KindDev    DependencyKind = "dev"
	KindBuild  DependencyKind = "build"
)

// Dependency is one normalized dependency of an index entry.
type Dependency struct {
	// Name is the name the dependency goes by inside this package: the key
	// feature activators reference, and the import alias when renamed.
	Name string

	// Package is the registry package the requirement resolves against.
	// Equal to Name unless the dependency was declared with a rename.
	Package string

	// Requirement is the syntax-validated version requirement.
	Requirement semver.Requirement

	// Features are the dependency features to enable.
	Features []string

	// Optional dependencies are only pulled in when activated by a
	// feature.
	Optional bool

	// DefaultFeatures controls whether the dependency's default feature
	// set is enabled. Defaults to true when the record omits it.
	DefaultFeatures bool

	// Target restricts the dependency to a platform cfg expression.
	Target string

	// Kind is normal, dev, or build. Unrecognized kinds degrade to normal.
	Kind DependencyKind

	// Registry is the external index URL for cross-registry dependencies.
	Registry string

	// Public is an unstable tri-state flag, preserved verbatim without
	// enforcement. nil means the record did not declare it.
	Public *bool

	// ArtifactKinds lists the artifact types for binary dependencies.
	// Only populated for schema V3+ records.
	ArtifactKinds []string

	// BindepTarget is the build target of a binary artifact dependency.
	// Only populated for schema V3+ records.
	BindepTarget string

	// Lib reports whether an artifact dependency also links its library
	// target. Only populated for schema V3+ records.
	Lib bool
}

// Renamed reports whether the dependency was declared under an alias.
func (d Dependency) Renamed() bool {
	return d.Name != d.Package
}
