package core

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Datatype is a closed tagged enumeration over the value kinds the store
// understands (spec.md §3). Unsupported carries the opaque datatype URL so
// forward-compatible data round-trips instead of being destroyed on import.
type Datatype struct {
	kind string
	url  string // only set when kind == "unsupported"
}

var (
	DatatypeTagString        = Datatype{kind: "string"}
	DatatypeTagMarkdown      = Datatype{kind: "markdown"}
	DatatypeTagSlug          = Datatype{kind: "slug"}
	DatatypeTagAtomicURL     = Datatype{kind: "atomicURL"}
	DatatypeTagInteger       = Datatype{kind: "integer"}
	DatatypeTagFloat         = Datatype{kind: "float"}
	DatatypeTagResourceArray = Datatype{kind: "resourceArray"}
	DatatypeTagBoolean       = Datatype{kind: "boolean"}
	DatatypeTagDate          = Datatype{kind: "date"}
	DatatypeTagTimestamp     = Datatype{kind: "timestamp"}
)

// UnsupportedDatatype returns the explicit Unsupported variant for a
// datatype URL the store doesn't natively understand.
func UnsupportedDatatype(u string) Datatype { return Datatype{kind: "unsupported", url: u} }

// URL returns the canonical datatype URL for d.
func (d Datatype) URL() string {
	switch d.kind {
	case "string":
		return DatatypeString
	case "markdown":
		return DatatypeMarkdown
	case "slug":
		return DatatypeSlug
	case "atomicURL":
		return DatatypeAtomicURL
	case "integer":
		return DatatypeInteger
	case "float":
		return DatatypeFloat
	case "resourceArray":
		return DatatypeResourceArray
	case "boolean":
		return DatatypeBoolean
	case "date":
		return DatatypeDate
	case "timestamp":
		return DatatypeTimestamp
	case "unsupported":
		return d.url
	default:
		return ""
	}
}

func (d Datatype) IsUnsupported() bool { return d.kind == "unsupported" }

// DatatypeFromURL maps a datatype URL to its tag, returning the
// Unsupported variant (never an error) for unrecognized URLs.
func DatatypeFromURL(u string) Datatype {
	switch u {
	case DatatypeString:
		return DatatypeTagString
	case DatatypeMarkdown:
		return DatatypeTagMarkdown
	case DatatypeSlug:
		return DatatypeTagSlug
	case DatatypeAtomicURL:
		return DatatypeTagAtomicURL
	case DatatypeInteger:
		return DatatypeTagInteger
	case DatatypeFloat:
		return DatatypeTagFloat
	case DatatypeResourceArray:
		return DatatypeTagResourceArray
	case DatatypeBoolean:
		return DatatypeTagBoolean
	case DatatypeDate:
		return DatatypeTagDate
	case DatatypeTimestamp:
		return DatatypeTagTimestamp
	default:
		return UnsupportedDatatype(u)
	}
}

var (
	slugRegexp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Value is a tagged union over Datatype carrying the parsed native
// payload (spec.md §3). The zero Value is invalid; always construct via
// ParseValue or one of the NewXValue helpers.
type Value struct {
	datatype Datatype

	str     string   // String, Markdown, Slug, AtomicUrl, Date, Unsupported
	i       int64    // Integer, Timestamp
	f       float64  // Float
	b       bool     // Boolean
	arr     []string // ResourceArray
}

// Datatype returns the tag carried by v.
func (v Value) Datatype() Datatype { return v.datatype }

// ParseValue parses text against dt, returning an *InvalidValueError on
// failure (spec.md §4.1). Validation never mutates the store.
func ParseValue(text string, dt Datatype) (Value, error) {
	switch dt.kind {
	case "string", "markdown":
		return Value{datatype: dt, str: text}, nil
	case "slug":
		if !slugRegexp.MatchString(text) {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, str: text}, nil
	case "atomicURL":
		if !isValidURL(text) {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, str: text}, nil
	case "integer":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, i: n}, nil
	case "float":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, f: f}, nil
	case "boolean":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, b: b}, nil
	case "date":
		if !dateRegexp.MatchString(text) {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, str: text}, nil
	case "timestamp":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		return Value{datatype: dt, i: n}, nil
	case "resourceArray":
		var urls []string
		if err := json.Unmarshal([]byte(text), &urls); err != nil {
			return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
		}
		for _, u := range urls {
			if !isValidURL(u) {
				return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
			}
		}
		return Value{datatype: dt, arr: append([]string(nil), urls...)}, nil
	case "unsupported":
		// Opaque round-trip: store the raw text untouched.
		return Value{datatype: dt, str: text}, nil
	default:
		return Value{}, &InvalidValueError{Datatype: dt.URL(), Text: text}
	}
}

func isValidURL(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "_:") {
		// Locally-scoped subjects are a valid AtomicUrl target (spec.md §3).
		return true
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return true
}

// String returns the canonical string form of v (spec.md §4.1 "Stored as").
func (v Value) String() string {
	switch v.datatype.kind {
	case "string", "markdown", "slug", "atomicURL", "date", "unsupported":
		return v.str
	case "integer", "timestamp":
		return strconv.FormatInt(v.i, 10)
	case "float":
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case "boolean":
		return strconv.FormatBool(v.b)
	case "resourceArray":
		b, _ := json.Marshal(v.arr)
		return string(b)
	default:
		return ""
	}
}

// Bool returns the boolean payload of v. Only valid for Boolean values.
func (v Value) Bool() (bool, error) {
	if v.datatype.kind != "boolean" {
		return false, fmt.Errorf("value is not boolean: %s", v.datatype.URL())
	}
	return v.b, nil
}

// Int returns the integer payload of v. Valid for Integer and Timestamp.
func (v Value) Int() (int64, error) {
	if v.datatype.kind != "integer" && v.datatype.kind != "timestamp" {
		return 0, fmt.Errorf("value is not integer/timestamp: %s", v.datatype.URL())
	}
	return v.i, nil
}

// Float returns the float payload of v. Only valid for Float values.
func (v Value) Float() (float64, error) {
	if v.datatype.kind != "float" {
		return 0, fmt.Errorf("value is not float: %s", v.datatype.URL())
	}
	return v.f, nil
}

// ResourceArray returns a copy of the URL sequence carried by v. Only
// valid for ResourceArray values.
func (v Value) ResourceArray() ([]string, error) {
	if v.datatype.kind != "resourceArray" {
		return nil, fmt.Errorf("value is not a resourceArray: %s", v.datatype.URL())
	}
	out := make([]string, len(v.arr))
	copy(out, v.arr)
	return out, nil
}

// NewStringValue builds a raw String value without validation — used by
// internal construction where the text is already known-good (e.g.
// building a Commit resource's own propvals).
func NewStringValue(s string) Value { return Value{datatype: DatatypeTagString, str: s} }

// NewAtomicURLValue builds an AtomicUrl value without re-validating u.
func NewAtomicURLValue(u string) Value { return Value{datatype: DatatypeTagAtomicURL, str: u} }

// NewTimestampValue builds a Timestamp value from milliseconds since epoch.
func NewTimestampValue(ms int64) Value { return Value{datatype: DatatypeTagTimestamp, i: ms} }

// NewIntegerValue builds an Integer value.
func NewIntegerValue(n int64) Value { return Value{datatype: DatatypeTagInteger, i: n} }

// NewBooleanValue builds a Boolean value.
func NewBooleanValue(b bool) Value { return Value{datatype: DatatypeTagBoolean, b: b} }

// NewResourceArrayValue builds a ResourceArray value from a URL slice.
func NewResourceArrayValue(urls []string) Value {
	return Value{datatype: DatatypeTagResourceArray, arr: append([]string(nil), urls...)}
}

// Equal reports whether v and other carry the same datatype and payload.
func (v Value) Equal(other Value) bool {
	return v.datatype == other.datatype && v.String() == other.String()
}
