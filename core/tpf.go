package core

import "encoding/json"

// evaluateTPF implements the Triple Pattern Fragment query (spec.md §4.7),
// grounded on original_source/lib/src/storelike.rs's `tpf` method.
func evaluateTPF(store Storelike, qSubject, qProperty, qValue *string, includeExternal bool) ([]Atom, error) {
	var atoms []Atom

	if qSubject == nil && qProperty == nil && qValue == nil {
		for _, r := range store.AllResources(includeExternal) {
			atoms = append(atoms, r.ToAtoms()...)
		}
		return atoms, nil
	}

	matchResource := func(r *Resource) {
		for _, atom := range r.ToAtoms() {
			if qProperty != nil && *qProperty != atom.Property {
				continue
			}
			if qValue != nil && !valueMatches(atom.Value, *qValue) {
				continue
			}
			atoms = append(atoms, atom)
		}
	}

	if qSubject != nil {
		r, err := store.GetResource(*qSubject)
		if err != nil {
			// Not found: empty result, no error (spec.md §4.7).
			return atoms, nil
		}
		if qProperty != nil || qValue != nil {
			matchResource(r)
		} else {
			atoms = r.ToAtoms()
		}
		return atoms, nil
	}

	for _, r := range store.AllResources(includeExternal) {
		matchResource(r)
	}
	return atoms, nil
}

// valueMatches reports whether val's canonical string equals query, or —
// when val is a ResourceArray — whether query is one of its elements.
func valueMatches(val Value, query string) bool {
	s := val.String()
	if s == query {
		return true
	}
	if val.Datatype().kind == "resourceArray" {
		elems, err := val.ResourceArray()
		if err == nil {
			for _, e := range elems {
				if e == query {
					return true
				}
			}
		}
		return false
	}
	// Mirror the original's fallback: any bracketed value, even one that
	// didn't parse as a ResourceArray datatype, is still probed as a raw
	// JSON array before giving up.
	if len(s) > 0 && s[0] == '[' {
		var arr []string
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			for _, e := range arr {
				if e == query {
					return true
				}
			}
		}
	}
	return false
}
