// Package cratesindex decodes entries from the crates.io registry index
// into validated descriptors a dependency resolver can consume.
//
// Every line of an index file is one self-contained JSON record describing
// a single published version of a single package: identity, dependency
// list, feature tables, integrity checksum, and optional metadata. The
// decoder applies schema-version-aware parsing so that records written by
// newer tooling degrade gracefully instead of failing, unifies the legacy
// and extended feature syntaxes into one ordered activation table, and
// rejects records a resolver must not be handed (bad version strings,
// malformed checksums, feature activators referencing dependencies the
// record does not declare).
//
// Basic usage:
//
//	entry, err := cratesindex.Decode([]byte(line))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(entry.Name, entry.Version, len(entry.Dependencies))
//
// Decoding is pure and deterministic, so callers may shard index lines
// across goroutines freely; the scan subpackage does exactly that for
// whole index files.
package cratesindex

import (
	"github.com/git-pkgs/purl"

	"github.com/git-pkgs/cratesindex/internal/core"
	"github.com/git-pkgs/cratesindex/semver"
)

// Re-export types from internal/core
type (
	// Entry is one decoded index line: a single published package version.
	Entry = core.Entry

	// Dependency is one normalized dependency of an entry.
	Dependency = core.Dependency

	// DependencyKind indicates when a dependency is required.
	DependencyKind = core.DependencyKind

	// FeatureTable is the merged, insertion-ordered feature activation
	// table of an entry.
	FeatureTable = core.FeatureTable

	// FeatureValue is a classified feature activation string.
	FeatureValue = core.FeatureValue

	// FeatureValueKind classifies a feature activation string's shape.
	FeatureValueKind = core.FeatureValueKind

	// Schema is a gated index schema version with its capability set.
	Schema = core.Schema

	// Capabilities is the optional record syntax a schema version permits.
	Capabilities = core.Capabilities

	// Options configures entry decoding.
	Options = core.Options

	// RecordID identifies the index record an error came from.
	RecordID = core.RecordID
)

// Re-export types from semver
type (
	// Version is a parsed semantic version.
	Version = semver.Version

	// Requirement is a syntax-validated version requirement.
	Requirement = semver.Requirement
)

// Re-export constants
const (
	KindNormal = core.KindNormal
	KindDev    = core.KindDev
	KindBuild  = core.KindBuild

	FeatureRef     = core.FeatureRef
	DepActivation  = core.DepActivation
	DepFeature     = core.DepFeature
	WeakDepFeature = core.WeakDepFeature

	// MaxSchemaVersion is the newest index schema version this decoder
	// fully understands.
	MaxSchemaVersion = core.MaxSchemaVersion
)

// Re-export errors
var (
	ErrMissingField       = core.ErrMissingField
	ErrTypeMismatch       = core.ErrTypeMismatch
	ErrDanglingFeature    = core.ErrDanglingFeature
	ErrUnsupportedSchema  = core.ErrUnsupportedSchema
	ErrMalformed          = semver.ErrMalformed
	ErrInvalidRequirement = semver.ErrInvalidRequirement
)

// Error types
type (
	MissingFieldError       = core.MissingFieldError
	TypeMismatchError       = core.TypeMismatchError
	InvalidRequirementError = core.InvalidRequirementError
	DanglingFeatureError    = core.DanglingFeatureError
	UnsupportedSchemaError  = core.UnsupportedSchemaError
)

// Decode decodes one index line with default options: unknown future
// schema versions degrade to the newest known capabilities instead of
// failing.
func Decode(data []byte) (*Entry, error) {
	return core.DecodeEntry(data, core.Options{})
}

// DecodeWithOptions decodes one index line with explicit options.
func DecodeWithOptions(data []byte, opts Options) (*Entry, error) {
	return core.DecodeEntry(data, opts)
}

// GateSchema maps a record's declared schema version to its capability
// set. Zero maps to version 1; versions newer than MaxSchemaVersion expose
// the newest known capabilities.
func GateSchema(v uint32) Schema {
	return core.GateSchema(v)
}

// ParseFeatureValue classifies one feature activation string by shape.
func ParseFeatureValue(s string) FeatureValue {
	return core.ParseFeatureValue(s)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:cargo/serde) and version PURLs
// (pkg:cargo/serde@1.0.0).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}

// MatchesPURL reports whether an entry matches a Package URL. A PURL
// without a version matches every version of the named package; a
// non-cargo PURL matches nothing.
func MatchesPURL(e *Entry, purlStr string) (bool, error) {
	p, err := purl.Parse(purlStr)
	if err != nil {
		return false, err
	}
	if p.Type != "cargo" {
		return false, nil
	}
	// cargo PURLs carry no namespace, so the name alone identifies the
	// package.
	if p.Name != e.Name {
		return false, nil
	}
	if p.Version != "" && p.Version != e.Version.String() {
		return false, nil
	}
	return true, nil
}
