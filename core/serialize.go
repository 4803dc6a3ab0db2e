package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// resourcesToJSONAD encodes resources as a JSON-AD array: one object per
// resource, "@id" carrying the subject plus one member per propval keyed
// by property URL (spec.md §4.9). encoding/json sorts map[string]any keys
// alphabetically, which gives a stable, deterministic member order without
// extra bookkeeping ("@id" sorts first, since '@' < any URL's leading
// scheme letter).
func resourcesToJSONAD(resources ResourceCollection) (string, error) {
	docs := make([]map[string]interface{}, 0, len(resources))
	for _, r := range resources {
		doc := map[string]interface{}{"@id": r.Subject()}
		for prop, val := range r.PropVals() {
			encoded, err := encodeJSONADValue(val)
			if err != nil {
				return "", err
			}
			doc[prop] = encoded
		}
		docs = append(docs, doc)
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", &SerializationError{Op: "encode JSON-AD", Err: err}
	}
	return string(b), nil
}

func encodeJSONADValue(v Value) (interface{}, error) {
	switch v.Datatype().kind {
	case "integer", "timestamp":
		n, _ := v.Int()
		return n, nil
	case "float":
		f, _ := v.Float()
		return f, nil
	case "boolean":
		b, _ := v.Bool()
		return b, nil
	case "resourceArray":
		arr, _ := v.ResourceArray()
		return arr, nil
	default:
		// string, markdown, slug, atomicURL, date, unsupported all carry
		// their canonical form as a bare JSON string.
		return v.String(), nil
	}
}

// parseJSONADArray decodes a JSON-AD array into ResourceCollection,
// resolving each propval's datatype through resolver where the property is
// known, and falling back to a generic guess from the JSON shape otherwise
// (spec.md §4.9). Duplicate keys within one resource object are rejected.
func parseJSONADArray(jsonAD string, resolver propertyResolver) (ResourceCollection, error) {
	var rawDocs []json.RawMessage
	if err := json.Unmarshal([]byte(jsonAD), &rawDocs); err != nil {
		return nil, &SerializationError{Op: "decode JSON-AD array", Err: err}
	}

	var out ResourceCollection
	localCounter := 0
	for _, raw := range rawDocs {
		r, nested, err := parseJSONADObject(raw, resolver, &localCounter)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		out = append(out, nested...)
	}
	return out, nil
}

// parseJSONADObject decodes a single JSON-AD resource object, returning the
// resource itself plus any nested (anonymous) resources it contained.
func parseJSONADObject(raw json.RawMessage, resolver propertyResolver, localCounter *int) (*Resource, ResourceCollection, error) {
	keys, vals, err := decodeObjectOrdered(raw)
	if err != nil {
		return nil, nil, err
	}

	var subject string
	members := make([]struct {
		key string
		val json.RawMessage
	}, 0, len(keys))
	for i, k := range keys {
		if k == "@id" {
			if err := json.Unmarshal(vals[i], &subject); err != nil {
				return nil, nil, &SerializationError{Op: "decode @id", Err: err}
			}
			continue
		}
		members = append(members, struct {
			key string
			val json.RawMessage
		}{k, vals[i]})
	}
	if subject == "" {
		*localCounter++
		subject = fmt.Sprintf("_:nested-%d", *localCounter)
	}

	r := NewResource(subject)
	var nested ResourceCollection

	for _, m := range members {
		val, childResources, err := decodeJSONADMember(m.key, m.val, resolver, localCounter)
		if err != nil {
			return nil, nil, err
		}
		r.SetPropval(m.key, val)
		nested = append(nested, childResources...)
	}
	return r, nested, nil
}

func decodeJSONADMember(prop string, raw json.RawMessage, resolver propertyResolver, localCounter *int) (Value, ResourceCollection, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, nil, &SerializationError{Op: "decode member " + prop, Err: fmt.Errorf("empty value")}
	}

	property, propErr := resolver.GetProperty(prop)
	dt := property.DataType

	switch trimmed[0] {
	case '{':
		child, childNested, err := parseJSONADObject(raw, resolver, localCounter)
		if err != nil {
			return Value{}, nil, err
		}
		return NewAtomicURLValue(child.Subject()), append(ResourceCollection{child}, childNested...), nil
	case '[':
		var arr []string
		if err := json.Unmarshal(raw, &arr); err != nil {
			return Value{}, nil, &SerializationError{Op: "decode array member " + prop, Err: err}
		}
		return NewResourceArrayValue(arr), nil, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, nil, &SerializationError{Op: "decode boolean member " + prop, Err: err}
		}
		return NewBooleanValue(b), nil, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, nil, &SerializationError{Op: "decode string member " + prop, Err: err}
		}
		if propErr == nil {
			v, err := ParseValue(s, dt)
			if err == nil {
				return v, nil, nil
			}
		}
		return NewStringValue(s), nil, nil
	default:
		raw := trimmed
		if bytes.ContainsRune(raw, '.') || bytes.ContainsAny(raw, "eE") {
			var f float64
			if err := json.Unmarshal(raw, &f); err != nil {
				return Value{}, nil, &SerializationError{Op: "decode float member " + prop, Err: err}
			}
			return Value{datatype: DatatypeTagFloat, f: f}, nil, nil
		}
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, nil, &SerializationError{Op: "decode integer member " + prop, Err: err}
		}
		if propErr == nil && dt.kind == "timestamp" {
			return NewTimestampValue(n), nil, nil
		}
		if propErr == nil && dt.kind == "float" {
			return Value{datatype: DatatypeTagFloat, f: float64(n)}, nil, nil
		}
		return Value{datatype: DatatypeTagInteger, i: n}, nil, nil
	}
}

// decodeObjectOrdered walks a JSON object token-by-token, preserving key
// order and rejecting duplicate keys (spec.md §4.9).
func decodeObjectOrdered(raw json.RawMessage) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, &SerializationError{Op: "decode JSON-AD object", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, &SerializationError{Op: "decode JSON-AD object", Err: fmt.Errorf("expected object")}
	}

	var keys []string
	var vals []json.RawMessage
	seen := make(map[string]bool)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, &SerializationError{Op: "decode JSON-AD key", Err: err}
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, &SerializationError{Op: "decode JSON-AD key", Err: fmt.Errorf("non-string key")}
		}
		if seen[key] {
			return nil, nil, &SerializationError{Op: "decode JSON-AD object", Err: fmt.Errorf("duplicate key %q", key)}
		}
		seen[key] = true

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, nil, &SerializationError{Op: "decode JSON-AD value", Err: err}
		}
		keys = append(keys, key)
		vals = append(vals, val)
	}
	return keys, vals, nil
}
