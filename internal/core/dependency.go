package core

import (
	"fmt"

	"github.com/git-pkgs/cratesindex/semver"
)

// normalizeDependency maps one raw dependency record into a Dependency,
// applying rename semantics and schema capability gating.
func normalizeDependency(raw rawDependency, schema Schema, rec RecordID) (Dependency, error) {
	if raw.Name == "" {
		return Dependency{}, &MissingFieldError{Record: rec, Field: "deps.name"}
	}
	if raw.Req == "" {
		return Dependency{}, &MissingFieldError{Record: rec, Field: fmt.Sprintf("deps.%s.req", raw.Name)}
	}

	req, err := semver.ParseRequirement(raw.Req)
	if err != nil {
		return Dependency{}, &InvalidRequirementError{
			Record:     rec,
			Dependency: raw.Name,
			Req:        raw.Req,
			Err:        err,
		}
	}

	d := Dependency{
		Name:            raw.Name,
		Package:         raw.Package,
		Requirement:     req,
		Features:        raw.Features,
		Optional:        raw.Optional,
		DefaultFeatures: true,
		Target:          raw.Target,
		Kind:            mapKind(raw.Kind),
		Registry:        raw.Registry,
		Public:          raw.Public,
	}
	if d.Features == nil {
		d.Features = []string{}
	}
	if d.Package == "" {
		d.Package = raw.Name
	}
	if raw.DefaultFeatures != nil {
		d.DefaultFeatures = *raw.DefaultFeatures
	}

	// Artifact fields are only trusted on schemas that define them; older
	// schemas drop them silently rather than failing, so that records
	// published by newer tooling stay readable.
	if schema.Capabilities.ArtifactDependencies {
		d.ArtifactKinds = raw.Artifact
		d.BindepTarget = raw.BindepTarget
		d.Lib = raw.Lib
	}

	return d, nil
}

// mapKind maps a raw kind string to a DependencyKind. Unrecognized kinds
// degrade to normal: early records only ever used three kind names, and
// future kinds must not break old readers.
func mapKind(kind string) DependencyKind {
	switch kind {
	case "dev":
		return KindDev
	case "build":
		return KindBuild
	default:
		return KindNormal
	}
}
