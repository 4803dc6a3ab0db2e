package core

import "testing"

func TestResourceToAtomsOrdered(t *testing.T) {
	r := NewResource("https://ex/thing")
	r.SetPropval(PropDescription, NewStringValue("b"))
	r.SetPropval(PropShortname, mustParse(DatatypeTagSlug, "a-slug"))
	atoms := r.ToAtoms()
	if len(atoms) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(atoms))
	}
	if atoms[0].Property >= atoms[1].Property {
		t.Fatalf("expected atoms sorted by property URL, got %q then %q", atoms[0].Property, atoms[1].Property)
	}
}

func TestResourceGetMissingReturnsNotFound(t *testing.T) {
	r := NewResource("https://ex/thing")
	_, err := r.Get(PropDescription)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}

func TestResourceIsLocallyScoped(t *testing.T) {
	r := NewResource("_:blank1")
	if !r.IsLocallyScoped() {
		t.Fatal("expected _:-prefixed subject to be locally scoped")
	}
	r2 := NewResource("https://ex/thing")
	if r2.IsLocallyScoped() {
		t.Fatal("expected real URL subject to not be locally scoped")
	}
}
