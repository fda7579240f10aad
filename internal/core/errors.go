package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode failure taxonomy. Context-carrying error
// types below unwrap to these so callers can classify with errors.Is.
var (
	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrTypeMismatch is returned when a field carries a value of the
	// wrong type or shape.
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrDanglingFeature is returned when a feature activator references a
	// dependency the record does not declare.
	ErrDanglingFeature = errors.New("feature references unknown dependency")

	// ErrUnsupportedSchema is returned in strict mode for schema versions
	// newer than this decoder understands.
	ErrUnsupportedSchema = errors.New("unsupported index schema version")
)

// RecordID identifies the index record an error came from. Fields may be
// empty when the record is too malformed to carry them.
type RecordID struct {
	Name    string
	Version string
}

func (r RecordID) String() string {
	switch {
	case r.Name == "":
		return "index entry"
	case r.Version == "":
		return r.Name
	}
	return r.Name + "@" + r.Version
}

// MissingFieldError reports a required field absent from a record.
type MissingFieldError struct {
	Record RecordID
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// TypeMismatchError reports a field whose value has the wrong type or shape.
type TypeMismatchError struct {
	Record RecordID
	Field  string
	Value  string // offending value as it appeared in the record
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: field %q: unexpected value %s", e.Record, e.Field, e.Value)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// InvalidRequirementError reports a dependency whose version requirement
// failed syntax validation. It unwraps to the underlying semver error, so
// errors.Is(err, semver.ErrInvalidRequirement) holds.
type InvalidRequirementError struct {
	Record     RecordID
	Dependency string
	Req        string
	Err        error
}

func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("%s: dependency %q: requirement %q: %v", e.Record, e.Dependency, e.Req, e.Err)
}

func (e *InvalidRequirementError) Unwrap() error {
	return e.Err
}

// DanglingFeatureError reports a feature activator referencing a dependency
// name absent from the record's dependency list.
type DanglingFeatureError struct {
	Record     RecordID
	Feature    string
	Value      string
	Dependency string
}

func (e *DanglingFeatureError) Error() string {
	return fmt.Sprintf("%s: feature %q value %q references unknown dependency %q",
		e.Record, e.Feature, e.Value, e.Dependency)
}

func (e *DanglingFeatureError) Unwrap() error {
	return ErrDanglingFeature
}

// UnsupportedSchemaError reports a schema version newer than the decoder
// understands, in strict mode.
type UnsupportedSchemaError struct {
	Record  RecordID
	Version uint32
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("%s: schema version %d is newer than the newest supported version %d",
		e.Record, e.Version, MaxSchemaVersion)
}

func (e *UnsupportedSchemaError) Unwrap() error {
	return ErrUnsupportedSchema
}
