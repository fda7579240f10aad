package core

import "strings"

// FeatureTable is the merged feature activation table of an entry: an
// insertion-ordered mapping from feature name to its activation list.
// Values may repeat; the resolver treats the table as an activation set and
// deduplicates there.
type FeatureTable struct {
	keys   []string
	values map[string][]string
}

func newFeatureTable() *FeatureTable {
	return &FeatureTable{values: make(map[string][]string)}
}

func (t *FeatureTable) append(name string, vals []string) {
	if _, ok := t.values[name]; !ok {
		t.keys = append(t.keys, name)
		t.values[name] = []string{}
	}
	t.values[name] = append(t.values[name], vals...)
}

// Len returns the number of features in the table.
func (t *FeatureTable) Len() int {
	return len(t.keys)
}

// Names returns the feature names in table order. Callers must not modify
// the returned slice.
func (t *FeatureTable) Names() []string {
	return t.keys
}

// Has reports whether the table contains the named feature.
func (t *FeatureTable) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Values returns the activation list for a feature in table order. Callers
// must not modify the returned slice.
func (t *FeatureTable) Values(name string) []string {
	return t.values[name]
}

// FeatureValueKind classifies one feature activation string.
type FeatureValueKind int

const (
	// FeatureRef activates another feature of the same package.
	FeatureRef FeatureValueKind = iota

	// DepActivation ("dep:name") enables an optional dependency without
	// enabling a same-named feature.
	DepActivation

	// DepFeature ("name/feat") enables a dependency and one of its
	// features.
	DepFeature

	// WeakDepFeature ("name?/feat") enables a feature on a dependency only
	// if the dependency is already enabled by other means.
	WeakDepFeature
)

// FeatureValue is a classified feature activation string.
type FeatureValue struct {
	Kind    FeatureValueKind
	Dep     string // dependency name, empty for FeatureRef
	Feature string // feature name, empty for DepActivation
}

// ParseFeatureValue classifies one feature activation string by shape. It
// never fails; existence of the referenced dependency is checked during the
// merge.
func ParseFeatureValue(s string) FeatureValue {
	if rest, ok := strings.CutPrefix(s, "dep:"); ok {
		return FeatureValue{Kind: DepActivation, Dep: rest}
	}
	if dep, feat, ok := strings.Cut(s, "/"); ok {
		if weak := strings.TrimSuffix(dep, "?"); weak != dep {
			return FeatureValue{Kind: WeakDepFeature, Dep: weak, Feature: feat}
		}
		return FeatureValue{Kind: DepFeature, Dep: dep, Feature: feat}
	}
	return FeatureValue{Kind: FeatureRef, Feature: s}
}

// mergeFeatures unifies the legacy and extended feature maps into one
// ordered table and validates every dependency reference against the
// normalized dependency names.
//
// The extended map only contributes when the schema permits namespaced
// features; older readers must be able to skip syntax they cannot
// interpret, which is the reason the two maps exist separately. For a key
// in both maps the extended values follow the legacy values.
func mergeFeatures(features, features2 *featureMap, schema Schema, depNames map[string]bool, rec RecordID) (*FeatureTable, error) {
	table := newFeatureTable()

	if features != nil {
		for _, key := range features.keys {
			table.append(key, features.values[key])
		}
	}
	if features2 != nil && schema.Capabilities.NamespacedFeatures {
		for _, key := range features2.keys {
			table.append(key, features2.values[key])
		}
	}

	for _, key := range table.keys {
		for _, val := range table.values[key] {
			fv := ParseFeatureValue(val)
			if fv.Kind == FeatureRef {
				continue
			}
			if !depNames[fv.Dep] {
				return nil, &DanglingFeatureError{
					Record:     rec,
					Feature:    key,
					Value:      val,
					Dependency: fv.Dep,
				}
			}
		}
	}

	return table, nil
}
