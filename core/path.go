package core

import (
	"strconv"
	"strings"
)

// evaluatePath implements the path selector grammar ROOT (SP SELECTOR)*
// (spec.md §4.8), grounded on original_source/lib/src/storelike.rs's
// `get_path` method. The first item resolves through mapping (if given);
// each following item is either an array index into the current Atom's
// ResourceArray, or a property shortname/URL selector against the current
// Subject.
func evaluatePath(store Storelike, path string, mapping *Mapping) (PathResult, error) {
	items := strings.Split(path, " ")
	subject := mapping.TryMappingOrURL(items[0])

	if len(items) == 1 {
		return PathResult{Subject: subject}, nil
	}

	resource, err := store.GetResource(subject)
	if err != nil {
		return PathResult{}, err
	}

	current := PathResult{Subject: subject}

	for _, item := range items[1:] {
		if item == "" {
			continue
		}

		if isDigits(item) {
			index, _ := strconv.Atoi(item)
			if current.Atom == nil {
				return PathResult{}, &PathError{Kind: PathNotAnArray, Detail: "cannot index a resource, only an array"}
			}
			arr, err := current.Atom.Value.ResourceArray()
			if err != nil {
				return PathResult{}, &PathError{Kind: PathNotAnArray, Detail: current.Atom.Property}
			}
			if index < 0 || index >= len(arr) {
				return PathResult{}, &PathError{Kind: PathIndexOutOfRange, Detail: item}
			}
			subject = arr[index]
			resource, err = store.GetResource(subject)
			if err != nil {
				return PathResult{}, err
			}
			current = PathResult{Subject: subject}
			continue
		}

		if current.Atom != nil {
			return PathResult{}, &PathError{Kind: PathExhausted, Detail: "no more linked resources down this path"}
		}

		property, err := resource.ResolveShortname(item, store)
		if err != nil {
			return PathResult{}, err
		}
		val, err := resource.Get(property.Subject)
		if err != nil {
			return PathResult{}, &PathError{Kind: PathUnresolved, Detail: property.Subject}
		}
		atom := NewAtom(subject, property.Subject, val)
		current = PathResult{Atom: &atom}
	}

	return current, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
