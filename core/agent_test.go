package core

import "testing"

// TestDerivePublicRegen covers spec scenario S1.
func TestDerivePublicRegen(t *testing.T) {
	const priv = "CapMWIhFUT+w7ANv9oCPqrHrwZpkP2JhzF9JnyT6WcI="
	const wantPub = "7LsjMW5gOfDdJzK/atgjQ1t20J/rw8MjVg6xwqm+h8U="

	got, err := DerivePublic(priv)
	if err != nil {
		t.Fatalf("DerivePublic failed: %v", err)
	}
	if got != wantPub {
		t.Fatalf("DerivePublic(%q) = %q, want %q", priv, got, wantPub)
	}
}

// TestDerivePublicMatchesGeneratedKeypair covers spec property 2: for every
// generated keypair, DerivePublic(priv) == pub.
func TestDerivePublicMatchesGeneratedKeypair(t *testing.T) {
	for i := 0; i < 20; i++ {
		kp, err := GenerateKeypair(CryptoRNG)
		if err != nil {
			t.Fatalf("GenerateKeypair failed: %v", err)
		}
		got, err := DerivePublic(kp.PrivateKey)
		if err != nil {
			t.Fatalf("DerivePublic failed: %v", err)
		}
		if got != kp.PublicKey {
			t.Fatalf("DerivePublic(%q) = %q, want %q", kp.PrivateKey, got, kp.PublicKey)
		}
	}
}

func TestAgentToResourceOmitsPrivateKey(t *testing.T) {
	clock := fixedClock{ms: 1000}
	a, err := NewAgent("test_actor", "https://localhost", CryptoRNG, clock)
	if err != nil {
		t.Fatalf("NewAgent failed: %v", err)
	}
	r := a.ToResource()
	if r.Has(PropPublicKey) == false {
		t.Fatal("expected resource to carry publicKey")
	}
	for prop := range r.PropVals() {
		if prop != PropIsA && prop != PropName && prop != PropPublicKey && prop != PropCreatedAt {
			t.Fatalf("unexpected propval on agent resource: %s", prop)
		}
	}

	back, err := AgentFromResource(r)
	if err != nil {
		t.Fatalf("AgentFromResource failed: %v", err)
	}
	if back.PrivateKey != "" {
		t.Fatal("AgentFromResource must never recover a private key")
	}
	if back.PublicKey != a.PublicKey {
		t.Fatalf("round-tripped public key mismatch: got %q want %q", back.PublicKey, a.PublicKey)
	}
}

type fixedClock struct{ ms int64 }

func (f fixedClock) NowMS() int64 { return f.ms }
