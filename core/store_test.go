package core

import (
	"sort"
	"testing"
)

// TestAgentCommitScenario covers spec scenario S2.
func TestAgentCommitScenario(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)

	b := NewCommitBuilder("https://localhost/new_thing", agent.Subject)
	b.Set(PropDescription, "Some value")
	b.Set(PropShortname, "someval")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 3000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	commitResource, err := s.Commit(commit)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	r, err := s.GetResource("https://localhost/new_thing")
	if err != nil {
		t.Fatalf("GetResource failed: %v", err)
	}
	desc, err := r.Get(PropDescription)
	if err != nil || desc.String() != "Some value" {
		t.Fatalf("expected description 'Some value', got %v (err %v)", desc, err)
	}

	commitDesc, err := commitResource.Get(PropDescription)
	if err != nil || commitDesc.String() != "Some value" {
		t.Fatalf("expected commit resource description 'Some value', got %v (err %v)", commitDesc, err)
	}
}

// TestTPFClassCount covers spec scenario S3.
func TestTPFClassCount(t *testing.T) {
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	prop := PropIsA
	val := `["` + ClassClass + `"]`
	atoms, err := s.TPF(nil, &prop, &val, true)
	if err != nil {
		t.Fatalf("TPF failed: %v", err)
	}
	if len(atoms) != 11 {
		t.Fatalf("expected 11 atoms (one per built-in class), got %d", len(atoms))
	}
}

// TestTPFAllAtomsIsUnionOfResourceAtoms covers spec property 5.
func TestTPFAllAtomsIsUnionOfResourceAtoms(t *testing.T) {
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	atoms, err := s.TPF(nil, nil, nil, true)
	if err != nil {
		t.Fatalf("TPF failed: %v", err)
	}

	var want []Atom
	for _, r := range s.AllResources(true) {
		want = append(want, r.ToAtoms()...)
	}

	if len(atoms) != len(want) {
		t.Fatalf("expected %d atoms, got %d", len(want), len(atoms))
	}
	sortAtoms(atoms)
	sortAtoms(want)
	for i := range want {
		if atoms[i] != want[i] {
			t.Fatalf("atom mismatch at %d: got %+v want %+v", i, atoms[i], want[i])
		}
	}
}

func sortAtoms(atoms []Atom) {
	sort.Slice(atoms, func(i, j int) bool {
		if atoms[i].Subject != atoms[j].Subject {
			return atoms[i].Subject < atoms[j].Subject
		}
		return atoms[i].Property < atoms[j].Property
	})
}

// TestTPFSinglePropertyLookup covers spec property 6.
func TestTPFSinglePropertyLookup(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)
	b := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	b.Set(PropDescription, "hello")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 4000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := s.Commit(commit); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	subj := "https://localhost/thing1"
	prop := PropDescription
	atoms, err := s.TPF(&subj, &prop, nil, true)
	if err != nil {
		t.Fatalf("TPF failed: %v", err)
	}
	if len(atoms) != 1 {
		t.Fatalf("expected exactly one atom, got %d", len(atoms))
	}
	if atoms[0].Subject != subj || atoms[0].Property != prop || atoms[0].Value.String() != "hello" {
		t.Fatalf("unexpected atom: %+v", atoms[0])
	}
}

// TestDestroyRejectsFurtherCommits covers spec property 8.
func TestDestroyRejectsFurtherCommits(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)

	b := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	b.Set(PropDescription, "hello")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 5000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := s.Commit(commit); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	destroyB := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	destroyB.SetDestroy(true)
	destroyCommit, err := destroyB.Sign(agent.PrivateKey, fixedClock{ms: 6000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := s.Commit(destroyCommit); err != nil {
		t.Fatalf("destroy commit failed: %v", err)
	}

	again := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	again.Set(PropDescription, "should fail")
	againCommit, err := again.Sign(agent.PrivateKey, fixedClock{ms: 7000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	_, err = s.Commit(againCommit)
	if err == nil {
		t.Fatal("expected commit against a destroyed subject to fail")
	}
	if _, ok := err.(*ResourceDestroyedError); !ok {
		t.Fatalf("expected *ResourceDestroyedError, got %T: %v", err, err)
	}
}

// TestPathIndex covers spec scenario S5.
func TestPathIndex(t *testing.T) {
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	a := NewResource("https://ex/a")
	if err := s.AddResourceUnsafe(a); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}
	bRes := NewResource("https://ex/b")
	if err := s.AddResourceUnsafe(bRes); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}

	root := NewResource("https://ex/root")
	root.SetPropval(PropChildren, NewResourceArrayValue([]string{"https://ex/a", "https://ex/b"}))
	if err := s.AddResourceUnsafe(root); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}

	mapping := NewMapping()
	if err := mapping.Set("root", "https://ex/root"); err != nil {
		t.Fatalf("mapping.Set failed: %v", err)
	}

	propRes := NewResource(PropChildren)
	propRes.SetPropval(PropShortname, mustParse(DatatypeTagSlug, "children"))
	propRes.SetPropval(PropDatatype, NewAtomicURLValue(DatatypeResourceArray))
	if err := s.AddResourceUnsafe(propRes); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}
	classRes := NewResource("https://ex/classes/HasChildren")
	classRes.SetPropval(PropShortname, mustParse(DatatypeTagSlug, "haschildren"))
	classRes.SetPropval(PropRequires, NewResourceArrayValue(nil))
	classRes.SetPropval(PropRecommends, NewResourceArrayValue([]string{PropChildren}))
	if err := s.AddResourceUnsafe(classRes); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}
	root.SetPropval(PropIsA, NewResourceArrayValue([]string{"https://ex/classes/HasChildren"}))
	if err := s.AddResourceUnsafe(root); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}

	result, err := s.GetPath("root children 1", mapping)
	if err != nil {
		t.Fatalf("GetPath failed: %v", err)
	}
	if result.Subject != "https://ex/b" {
		t.Fatalf("expected Subject(https://ex/b), got %+v", result)
	}

	_, err = s.GetPath("root children 2", mapping)
	if err == nil {
		t.Fatal("expected IndexOutOfRange for index 2")
	}
	pathErr, ok := err.(*PathError)
	if !ok || pathErr.Kind != PathIndexOutOfRange {
		t.Fatalf("expected PathIndexOutOfRange, got %v", err)
	}
}

// TestJSONADRoundTrip covers spec property 7.
func TestJSONADRoundTrip(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)

	const propScore = "https://localhost/properties/score"
	scoreProp := NewResource(propScore)
	scoreProp.SetPropval(PropIsA, NewResourceArrayValue([]string{ClassProperty}))
	slugVal, err := ParseValue("score", DatatypeTagSlug)
	if err != nil {
		t.Fatalf("ParseValue(slug) failed: %v", err)
	}
	scoreProp.SetPropval(PropShortname, slugVal)
	scoreProp.SetPropval(PropDatatype, NewAtomicURLValue(DatatypeFloat))
	if err := s.AddResource(scoreProp); err != nil {
		t.Fatalf("AddResource(score property) failed: %v", err)
	}

	b := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	b.Set(PropDescription, "hello world")
	b.Set(PropShortname, "thing-one")
	// A whole-number Float value serializes to JSON-AD as a bare integer
	// literal ("42", no "."/"e") — this exercises the decoder's schema-
	// aware fallback for that ambiguous case (spec property 7).
	b.Set(propScore, "42")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 8000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := s.Commit(commit); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	exported, err := s.Export(true)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	s2 := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	// s2 already knows the "score" property's schema independently of this
	// import (e.g. synced from elsewhere), the normal case Store.Import's
	// AddResource datatype-invariant check runs against.
	if err := s2.AddResource(scoreProp); err != nil {
		t.Fatalf("AddResource(score property) on s2 failed: %v", err)
	}
	if _, err := s2.Import(exported); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	scoreBack, err := s2.GetResource("https://localhost/thing1")
	if err != nil {
		t.Fatalf("GetResource(thing1) after import failed: %v", err)
	}
	scoreVal, err := scoreBack.Get(propScore)
	if err != nil {
		t.Fatalf("reimported thing1 missing propval %s", propScore)
	}
	if scoreVal.Datatype().URL() != DatatypeFloat {
		t.Fatalf("reimported score propval has datatype %s, want %s", scoreVal.Datatype().URL(), DatatypeFloat)
	}

	orig := s.AllResources(true)
	reimported := s2.AllResources(true)
	if len(orig) != len(reimported) {
		t.Fatalf("expected %d resources after round trip, got %d", len(orig), len(reimported))
	}
	for _, r := range orig {
		other, err := s2.GetResource(r.Subject())
		if err != nil {
			t.Fatalf("resource %s missing after round trip: %v", r.Subject(), err)
		}
		for prop, val := range r.PropVals() {
			otherVal, err := other.Get(prop)
			if err != nil {
				t.Fatalf("resource %s missing propval %s after round trip", r.Subject(), prop)
			}
			if otherVal.String() != val.String() {
				t.Fatalf("resource %s propval %s mismatch: got %q want %q", r.Subject(), prop, otherVal.String(), val.String())
			}
		}
	}
}

func TestValidateReportsUnresolvedLink(t *testing.T) {
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	r := NewResource("https://localhost/dangling")
	r.SetPropval(PropParent, NewAtomicURLValue("https://localhost/does-not-exist"))
	if err := s.AddResourceUnsafe(r); err != nil {
		t.Fatalf("AddResourceUnsafe failed: %v", err)
	}

	report, err := s.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Valid() {
		t.Fatal("expected validation to report the dangling parent link")
	}
}
