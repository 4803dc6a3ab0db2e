package core

import "sort"

// Resource is a mapping from property URL to Value, plus its subject
// (spec.md §3). Insertion order is irrelevant; a property appears at most
// once. A Resource whose subject begins with "_:" is locally-scoped and
// must be rewritten to a real URL before export.
type Resource struct {
	subject  string
	propvals map[string]Value
}

// NewResource constructs an empty Resource for subject.
func NewResource(subject string) *Resource {
	return &Resource{subject: subject, propvals: make(map[string]Value)}
}

// Subject returns the resource's subject URL.
func (r *Resource) Subject() string { return r.subject }

// SetSubject rewrites the resource's subject, used when promoting a
// locally-scoped ("_:...") resource to a real URL.
func (r *Resource) SetSubject(subject string) { r.subject = subject }

// IsLocallyScoped reports whether the resource's subject begins with "_:".
func (r *Resource) IsLocallyScoped() bool {
	return len(r.subject) >= 2 && r.subject[:2] == "_:"
}

// Get returns the Value stored for prop, or a *NotFoundError.
func (r *Resource) Get(prop string) (Value, error) {
	v, ok := r.propvals[prop]
	if !ok {
		return Value{}, &NotFoundError{Subject: r.subject + "#" + prop}
	}
	return v, nil
}

// Has reports whether prop is set on the resource.
func (r *Resource) Has(prop string) bool {
	_, ok := r.propvals[prop]
	return ok
}

// SetPropval sets prop to an already-constructed, already-typed Value.
func (r *Resource) SetPropval(prop string, v Value) error {
	if r.propvals == nil {
		r.propvals = make(map[string]Value)
	}
	r.propvals[prop] = v
	return nil
}

// SetPropvalString looks up prop's datatype through store and parses text
// against it, setting the result. Returns *UnknownPropertyError if prop
// doesn't resolve to a Property resource, or *InvalidValueError if text
// doesn't parse.
func (r *Resource) SetPropvalString(prop, text string, store Storelike) error {
	property, err := store.GetProperty(prop)
	if err != nil {
		return &UnknownPropertyError{URL: prop}
	}
	v, err := ParseValue(text, property.DataType)
	if err != nil {
		return err
	}
	return r.SetPropval(prop, v)
}

// RemovePropval unsets prop. A no-op if prop wasn't set.
func (r *Resource) RemovePropval(prop string) {
	delete(r.propvals, prop)
}

// PropVals returns a defensive copy of the property→value map.
func (r *Resource) PropVals() map[string]Value {
	out := make(map[string]Value, len(r.propvals))
	for k, v := range r.propvals {
		out[k] = v
	}
	return out
}

// ToAtoms decomposes the resource into its constituent Atoms, ordered by
// property URL for stability across calls on the same snapshot.
func (r *Resource) ToAtoms() []Atom {
	keys := make([]string, 0, len(r.propvals))
	for k := range r.propvals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	atoms := make([]Atom, 0, len(keys))
	for _, k := range keys {
		atoms = append(atoms, NewAtom(r.subject, k, r.propvals[k]))
	}
	return atoms
}

// GetClasses resolves the resource's `isA` property into Class schemas,
// skipping (not erroring on) class URLs that don't resolve.
func (r *Resource) GetClasses(store Storelike) ([]Class, error) {
	v, ok := r.propvals[PropIsA]
	if !ok {
		return nil, nil
	}
	urls, err := v.ResourceArray()
	if err != nil {
		return nil, err
	}
	classes := make([]Class, 0, len(urls))
	for _, u := range urls {
		c, err := store.GetClass(u)
		if err != nil {
			continue
		}
		classes = append(classes, c)
	}
	return classes, nil
}

// ResolveShortname resolves a shortname or URL to the Property it names,
// first by treating short as a property URL directly, then by searching
// the resource's own classes' requires/recommends lists for a matching
// shortname. Returns a *PathError{Kind: PathUnresolved} if nothing matches.
func (r *Resource) ResolveShortname(short string, store Storelike) (Property, error) {
	if isValidURL(short) {
		if prop, err := store.GetProperty(short); err == nil {
			return prop, nil
		}
	}
	classes, err := r.GetClasses(store)
	if err != nil {
		return Property{}, err
	}
	for _, class := range classes {
		for _, propURL := range append(append([]string{}, class.Requires...), class.Recommends...) {
			prop, err := store.GetProperty(propURL)
			if err != nil {
				continue
			}
			if prop.Shortname == short {
				return prop, nil
			}
		}
	}
	return Property{}, &PathError{Kind: PathUnresolved, Detail: short}
}
