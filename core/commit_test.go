package core

import "testing"

func newTestStoreWithAgent(t *testing.T) (*Store, Agent) {
	t.Helper()
	s := NewStore("https://localhost", nil, fixedClock{ms: 1000}, CryptoRNG)
	if err := s.Populate(); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	agent, err := s.CreateAgent("test_actor")
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	return s, agent
}

func TestCommitSignAndVerify(t *testing.T) {
	s, agent := newTestStoreWithAgent(t)

	b := NewCommitBuilder("https://localhost/thing1", agent.Subject)
	b.Set(PropDescription, "Some value")
	b.Set(PropShortname, "someval")
	commit, err := b.Sign(agent.PrivateKey, fixedClock{ms: 2000})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := VerifyCommit(commit, s); err != nil {
		t.Fatalf("VerifyCommit failed on freshly signed commit: %v", err)
	}

	tampered := commit
	tampered.Set = copyStringMap(commit.Set)
	tampered.Set[PropDescription] = "Some other value"
	if err := VerifyCommit(tampered, s); err == nil {
		t.Fatal("expected VerifyCommit to fail after mutating set")
	}
}

// TestCanonicalOrderIndependence covers spec property 4 and scenario S4.
func TestCanonicalOrderIndependence(t *testing.T) {
	clock := fixedClock{ms: 42}

	b1 := NewCommitBuilder("https://localhost/thing1", "https://localhost/agents/x")
	b1.Set(PropDescription, "a")
	b1.Set(PropShortname, "b")
	c1, err := b1.Sign("CapMWIhFUT+w7ANv9oCPqrHrwZpkP2JhzF9JnyT6WcI=", clock)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	b2 := NewCommitBuilder("https://localhost/thing1", "https://localhost/agents/x")
	b2.Set(PropShortname, "b")
	b2.Set(PropDescription, "a")
	c2, err := b2.Sign("CapMWIhFUT+w7ANv9oCPqrHrwZpkP2JhzF9JnyT6WcI=", clock)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if c1.Signature != c2.Signature {
		t.Fatalf("expected identical signatures regardless of set insertion order, got %q vs %q", c1.Signature, c2.Signature)
	}

	s1, err := c1.SerializeDeterministically()
	if err != nil {
		t.Fatalf("SerializeDeterministically failed: %v", err)
	}
	s2, err := c2.SerializeDeterministically()
	if err != nil {
		t.Fatalf("SerializeDeterministically failed: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected identical canonical strings, got %q vs %q", s1, s2)
	}
}

func TestCommitValidateRequiresSignature(t *testing.T) {
	b := NewCommitBuilder("https://localhost/thing1", "https://localhost/agents/x")
	b.Set(PropDescription, "a")
	c := Commit{Subject: "https://localhost/thing1", Signer: "https://localhost/agents/x", Set: map[string]string{PropDescription: "a"}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected Validate to reject a commit with no signature")
	}
}

func TestCommitValidateRejectsEmptyMutation(t *testing.T) {
	c := Commit{Subject: "https://localhost/thing1", Signer: "https://localhost/agents/x", Signature: "sig"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected Validate to reject a commit with no set/remove/destroy")
	}
}
