package core

import "testing"

func TestDecodeObjectOrderedRejectsDuplicateKeys(t *testing.T) {
	raw := []byte(`{"@id":"https://ex/a","https://atomicdata.dev/properties/description":"one","https://atomicdata.dev/properties/description":"two"}`)
	_, _, err := decodeObjectOrdered(raw)
	if err == nil {
		t.Fatal("expected duplicate-key rejection")
	}
}

func TestParseJSONADArrayNestedResource(t *testing.T) {
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	doc := `[{"@id":"https://ex/parent","https://atomicdata.dev/properties/parent":{"@id":"_:child","https://atomicdata.dev/properties/description":"nested"}}]`
	resources, err := parseJSONADArray(doc, storePropertyResolver{s})
	if err != nil {
		t.Fatalf("parseJSONADArray failed: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected parent + nested child, got %d resources", len(resources))
	}
	parentVal, err := resources[0].Get(PropParent)
	if err != nil {
		t.Fatalf("expected parent propval: %v", err)
	}
	if parentVal.String() != "_:child" {
		t.Fatalf("expected parent to point at _:child, got %q", parentVal.String())
	}
}

func TestResourcesToJSONADEncodesResourceArray(t *testing.T) {
	r := NewResource("https://ex/thing")
	r.SetPropval(PropRequires, NewResourceArrayValue([]string{PropDescription, PropShortname}))
	out, err := resourcesToJSONAD(ResourceCollection{r})
	if err != nil {
		t.Fatalf("resourcesToJSONAD failed: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty JSON-AD output")
	}
}
