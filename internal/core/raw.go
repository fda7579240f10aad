package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// rawEntry is the wire shape of one index line. Fields that need
// absent/null/type discrimination stay as json.RawMessage and are
// interpreted by the decoder.
type rawEntry struct {
	Name        string           `json:"name"`
	Vers        string           `json:"vers"`
	Deps        *[]rawDependency `json:"deps"`
	Features    json.RawMessage  `json:"features"`
	Features2   json.RawMessage  `json:"features2"`
	Cksum       string           `json:"cksum"`
	Yanked      json.RawMessage  `json:"yanked"`
	YankMessage string           `json:"yank_message"`
	Links       string           `json:"links"`
	RustVersion string           `json:"rust_version"`
	V           json.RawMessage  `json:"v"`
}

// rawDependency is the wire shape of one entry in "deps".
type rawDependency struct {
	Name            string   `json:"name"`
	Req             string   `json:"req"`
	Features        []string `json:"features"`
	Optional        bool     `json:"optional"`
	DefaultFeatures *bool    `json:"default_features"`
	Target          string   `json:"target"`
	Kind            string   `json:"kind"`
	Registry        string   `json:"registry"`
	Package         string   `json:"package"`
	Public          *bool    `json:"public"`
	Artifact        []string `json:"artifact"`
	BindepTarget    string   `json:"bindep_target"`
	Lib             bool     `json:"lib"`
}

// featureMap is a feature object in record key order. encoding/json maps
// lose object order, and the merged feature table must preserve it, so the
// object is walked token by token.
type featureMap struct {
	keys   []string
	values map[string][]string
}

// parseFeatureMap interprets a raw features object. Absent and null both
// return nil. field names the record field for diagnostics.
func parseFeatureMap(raw json.RawMessage, field string, rec RecordID) (*featureMap, error) {
	if raw == nil || isJSONNull(raw) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, &TypeMismatchError{Record: rec, Field: field, Value: truncate(string(raw))}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &TypeMismatchError{Record: rec, Field: field, Value: truncate(string(raw))}
	}

	m := &featureMap{values: make(map[string][]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &TypeMismatchError{Record: rec, Field: field, Value: truncate(string(raw))}
		}
		key := keyTok.(string)

		var vals []string
		if err := dec.Decode(&vals); err != nil {
			return nil, &TypeMismatchError{Record: rec, Field: field + "." + key, Value: truncate(string(raw))}
		}

		if _, dup := m.values[key]; !dup {
			m.keys = append(m.keys, key)
		}
		// Duplicate keys: last value wins, first position kept.
		m.values[key] = vals
	}

	return m, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

const maxDiagnosticValue = 80

// truncate bounds offending values quoted in diagnostics.
func truncate(s string) string {
	if len(s) > maxDiagnosticValue {
		return s[:maxDiagnosticValue] + "..."
	}
	return s
}

// wireEntry mirrors rawEntry for re-serialization.
type wireEntry struct {
	Name        string           `json:"name"`
	Vers        string           `json:"vers"`
	Deps        []wireDependency `json:"deps"`
	Cksum       string           `json:"cksum"`
	Features    *FeatureTable    `json:"features"`
	Yanked      bool             `json:"yanked"`
	YankMessage string           `json:"yank_message,omitempty"`
	Links       string           `json:"links,omitempty"`
	RustVersion string           `json:"rust_version,omitempty"`
	V           uint32           `json:"v,omitempty"`
}

type wireDependency struct {
	Name            string   `json:"name"`
	Req             string   `json:"req"`
	Features        []string `json:"features"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Target          string   `json:"target,omitempty"`
	Kind            string   `json:"kind"`
	Registry        string   `json:"registry,omitempty"`
	Package         string   `json:"package,omitempty"`
	Public          *bool    `json:"public,omitempty"`
	Artifact        []string `json:"artifact,omitempty"`
	BindepTarget    string   `json:"bindep_target,omitempty"`
	Lib             bool     `json:"lib,omitempty"`
}

// MarshalJSON re-serializes the entry as an index line. Dependency order
// and feature table key order are preserved, so decoding the output yields
// an entry equal to e.
func (e *Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		Name:        e.Name,
		Vers:        e.Version.String(),
		Deps:        make([]wireDependency, len(e.Dependencies)),
		Cksum:       e.Checksum,
		Features:    e.Features,
		Yanked:      e.Yanked,
		YankMessage: e.YankMessage,
		Links:       e.Links,
		RustVersion: e.RustVersion,
	}
	if e.Features == nil {
		w.Features = newFeatureTable()
	}
	// Schema version 1 is the implied default and is omitted, matching
	// how publishers write index lines.
	if e.Schema.Version > 1 {
		w.V = e.Schema.Version
	}
	for i, d := range e.Dependencies {
		w.Deps[i] = wireDep(d)
	}
	return json.Marshal(w)
}

func wireDep(d Dependency) wireDependency {
	w := wireDependency{
		Name:            d.Name,
		Req:             d.Requirement.String(),
		Features:        d.Features,
		Optional:        d.Optional,
		DefaultFeatures: d.DefaultFeatures,
		Target:          d.Target,
		Kind:            string(d.Kind),
		Registry:        d.Registry,
		Public:          d.Public,
		Artifact:        d.ArtifactKinds,
		BindepTarget:    d.BindepTarget,
		Lib:             d.Lib,
	}
	if w.Features == nil {
		w.Features = []string{}
	}
	if d.Renamed() {
		w.Package = d.Package
	}
	return w
}

// MarshalJSON emits the feature table as a JSON object in table key order.
func (t *FeatureTable) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range t.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		vals, err := json.Marshal(t.values[name])
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", name, err)
		}
		b.Write(vals)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
