package core

import "testing"

func TestParseValueRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		dt   Datatype
		text string
	}{
		{"string", DatatypeTagString, "hello world"},
		{"markdown", DatatypeTagMarkdown, "# heading"},
		{"slug", DatatypeTagSlug, "some-slug-123"},
		{"atomicURL", DatatypeTagAtomicURL, "https://example.com/thing"},
		{"integer", DatatypeTagInteger, "42"},
		{"float", DatatypeTagFloat, "3.14"},
		{"boolean", DatatypeTagBoolean, "true"},
		{"date", DatatypeTagDate, "2021-01-01"},
		{"timestamp", DatatypeTagTimestamp, "1234567890"},
		{"resourceArray", DatatypeTagResourceArray, `["https://example.com/a","https://example.com/b"]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := ParseValue(c.text, c.dt)
			if err != nil {
				t.Fatalf("ParseValue(%q, %v) failed: %v", c.text, c.dt, err)
			}
			if v.String() != c.text {
				t.Fatalf("ParseValue(%q).String() = %q, want %q", c.text, v.String(), c.text)
			}
		})
	}
}

// TestSlugRejection covers spec scenario S6.
func TestSlugRejection(t *testing.T) {
	_, err := ParseValue("Has Spaces", DatatypeTagSlug)
	if err == nil {
		t.Fatal("expected InvalidValueError for slug with spaces")
	}
	if _, ok := err.(*InvalidValueError); !ok {
		t.Fatalf("expected *InvalidValueError, got %T", err)
	}
}

func TestParseValueInvalid(t *testing.T) {
	cases := []struct {
		name string
		dt   Datatype
		text string
	}{
		{"integer", DatatypeTagInteger, "not-a-number"},
		{"float", DatatypeTagFloat, "not-a-float"},
		{"boolean", DatatypeTagBoolean, "yes"},
		{"date", DatatypeTagDate, "Jan 1 2021"},
		{"atomicURL", DatatypeTagAtomicURL, "not a url"},
		{"resourceArray", DatatypeTagResourceArray, "not json"},
		{"resourceArray element", DatatypeTagResourceArray, `["not a url"]`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseValue(c.text, c.dt); err == nil {
				t.Fatalf("expected error parsing %q as %v", c.text, c.dt)
			}
		})
	}
}

func TestLocallyScopedURLValid(t *testing.T) {
	if _, err := ParseValue("_:blank1", DatatypeTagAtomicURL); err != nil {
		t.Fatalf("locally-scoped subject should be a valid AtomicUrl target: %v", err)
	}
}

func TestDatatypeFromURLUnsupported(t *testing.T) {
	dt := DatatypeFromURL("https://example.com/datatypes/exotic")
	if !dt.IsUnsupported() {
		t.Fatal("expected unrecognized datatype URL to map to Unsupported")
	}
	if dt.URL() != "https://example.com/datatypes/exotic" {
		t.Fatalf("Unsupported datatype should preserve its opaque URL, got %q", dt.URL())
	}
}

func TestValueEqual(t *testing.T) {
	a, _ := ParseValue("hello", DatatypeTagString)
	b, _ := ParseValue("hello", DatatypeTagString)
	c, _ := ParseValue("world", DatatypeTagString)
	if !a.Equal(b) {
		t.Fatal("expected equal values to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different values to compare unequal")
	}
}
