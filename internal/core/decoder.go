package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/git-pkgs/cratesindex/semver"
)

// Options configures entry decoding.
type Options struct {
	// RejectUnknownSchema fails entries whose schema version is newer than
	// MaxSchemaVersion instead of degrading to the newest known
	// capabilities. Off by default; intended for strict validation modes.
	RejectUnknownSchema bool
}

// checksumLength is the length of a hex-encoded SHA-256 digest.
const checksumLength = 64

// DecodeEntry decodes one raw index line into an Entry.
//
// DecodeEntry is a pure function of its input: it performs no I/O, keeps no
// state, and decoding the same bytes always yields an equal Entry. Errors
// unwrap to the sentinel errors in this package; failures across multiple
// dependencies of one record are aggregated with errors.Join so one pass
// reports every problem.
func DecodeEntry(data []byte, opts Options) (*Entry, error) {
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, jsonError(err)
	}
	rec := RecordID{Name: raw.Name, Version: raw.Vers}

	// Identity and integrity fields fail fast, before any sub-component
	// runs.
	switch {
	case raw.Name == "":
		return nil, &MissingFieldError{Record: rec, Field: "name"}
	case raw.Vers == "":
		return nil, &MissingFieldError{Record: rec, Field: "vers"}
	case raw.Deps == nil:
		return nil, &MissingFieldError{Record: rec, Field: "deps"}
	case raw.Cksum == "":
		return nil, &MissingFieldError{Record: rec, Field: "cksum"}
	}

	version, err := semver.Parse(raw.Vers)
	if err != nil {
		return nil, fmt.Errorf("%s: field %q: %w", rec, "vers", err)
	}

	if !validChecksum(raw.Cksum) {
		return nil, &TypeMismatchError{Record: rec, Field: "cksum", Value: truncate(raw.Cksum)}
	}

	yanked, err := parseYanked(raw.Yanked, rec)
	if err != nil {
		return nil, err
	}

	schemaVersion, err := parseSchemaVersion(raw.V, rec)
	if err != nil {
		return nil, err
	}
	schema := GateSchema(schemaVersion)
	if opts.RejectUnknownSchema && !schema.Known() {
		return nil, &UnsupportedSchemaError{Record: rec, Version: schema.Version}
	}

	deps := make([]Dependency, 0, len(*raw.Deps))
	var depErrs []error
	for _, rd := range *raw.Deps {
		d, err := normalizeDependency(rd, schema, rec)
		if err != nil {
			depErrs = append(depErrs, err)
			continue
		}
		deps = append(deps, d)
	}
	if len(depErrs) > 0 {
		return nil, errors.Join(depErrs...)
	}

	// Dangling-reference validation needs the final alias set, so the
	// merge runs strictly after normalization.
	depNames := make(map[string]bool, len(deps))
	for _, d := range deps {
		depNames[d.Name] = true
	}

	features, err := parseFeatureMap(raw.Features, "features", rec)
	if err != nil {
		return nil, err
	}
	features2, err := parseFeatureMap(raw.Features2, "features2", rec)
	if err != nil {
		return nil, err
	}
	table, err := mergeFeatures(features, features2, schema, depNames, rec)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Name:         raw.Name,
		Version:      version,
		Dependencies: deps,
		Features:     table,
		Checksum:     raw.Cksum,
		Yanked:       yanked,
		YankMessage:  raw.YankMessage,
		Links:        raw.Links,
		RustVersion:  raw.RustVersion,
		Schema:       schema,
	}, nil
}

// jsonError maps encoding/json failures onto the decode taxonomy where a
// field can be blamed.
func jsonError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return &TypeMismatchError{Field: ute.Field, Value: ute.Value}
	}
	return fmt.Errorf("parse index entry: %w", err)
}

func validChecksum(s string) bool {
	if len(s) != checksumLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// parseYanked interprets the tri-state yanked field: absent and null are
// false, booleans are taken as-is, everything else is a type mismatch.
func parseYanked(raw json.RawMessage, rec RecordID) (bool, error) {
	if raw == nil {
		return false, nil
	}
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false":
		return false, nil
	case "true":
		return true, nil
	}
	return false, &TypeMismatchError{Record: rec, Field: "yanked", Value: truncate(string(raw))}
}

// parseSchemaVersion interprets the optional "v" field. Absent and null map
// to zero; GateSchema treats zero as version 1.
func parseSchemaVersion(raw json.RawMessage, rec RecordID) (uint32, error) {
	if raw == nil || isJSONNull(raw) {
		return 0, nil
	}
	n, err := strconv.ParseUint(string(bytes.TrimSpace(raw)), 10, 32)
	if err != nil {
		return 0, &TypeMismatchError{Record: rec, Field: "v", Value: truncate(string(raw))}
	}
	return uint32(n), nil
}
