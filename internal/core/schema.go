package core

// MaxSchemaVersion is the newest index schema version this decoder fully
// understands.
const MaxSchemaVersion = 3

// Capabilities is the set of optional record syntax a schema version
// permits. Modeling the schema as capabilities keeps version policy in one
// place; the normalizer and merger never inspect the raw integer.
type Capabilities struct {
	// NamespacedFeatures permits the extended feature map with dep: and
	// weak activator syntax (schema V2+).
	NamespacedFeatures bool

	// ArtifactDependencies permits artifact, bindep_target, and lib fields
	// on dependencies (schema V3+).
	ArtifactDependencies bool
}

// Schema is a gated index schema version.
type Schema struct {
	Version      uint32
	Capabilities Capabilities
}

// GateSchema maps a record's declared schema version to its capability set.
// Zero (absent/null) maps to version 1. Versions newer than
// MaxSchemaVersion are not rejected here: they expose the newest known
// capabilities so that readers degrade instead of failing on records they
// can still mostly use. GateSchema never fails.
func GateSchema(v uint32) Schema {
	if v == 0 {
		v = 1
	}
	return Schema{
		Version: v,
		Capabilities: Capabilities{
			NamespacedFeatures:   v >= 2,
			ArtifactDependencies: v >= 3,
		},
	}
}

// Known reports whether the schema version is one this decoder fully
// understands.
func (s Schema) Known() bool {
	return s.Version <= MaxSchemaVersion
}
