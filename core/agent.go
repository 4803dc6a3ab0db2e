package core

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Keypair is an Ed25519 keypair, serialized as base64. PrivateKey is the
// base64 encoding of the raw 32-byte seed (never PKCS#8) — this is the
// canonical on-disk form (spec.md §9, Open Question 3).
type Keypair struct {
	PrivateKey string
	PublicKey  string
}

// GenerateKeypair draws 32 bytes of entropy from rng and derives the
// matching Ed25519 public key.
func GenerateKeypair(rng RNG) (Keypair, error) {
	seed, err := rng.Bytes(ed25519.SeedSize)
	if err != nil {
		return Keypair{}, err
	}
	return KeypairFromSeed(seed), nil
}

// KeypairFromSeed deterministically derives a Keypair from a raw 32-byte
// seed.
func KeypairFromSeed(seed []byte) Keypair {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return Keypair{
		PrivateKey: base64.StdEncoding.EncodeToString(seed),
		PublicKey:  base64.StdEncoding.EncodeToString(pub),
	}
}

// DerivePublic regenerates the public key for a base64-encoded seed.
// For any seed s, DerivePublic(s) == KeypairFromSeed(s).PublicKey
// (spec.md §8, property 2).
func DerivePublic(privateKeyB64 string) (string, error) {
	seed, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return "", &InvalidValueError{Datatype: "ed25519-seed", Text: privateKeyB64}
	}
	if len(seed) != ed25519.SeedSize {
		return "", &InvalidValueError{Datatype: "ed25519-seed", Text: privateKeyB64}
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return base64.StdEncoding.EncodeToString(pub), nil
}

// Agent is a named actor identified by a public key, authorized to sign
// Commits (spec.md §3). Subject is a pure function of base_url and
// public_key — rotating keys creates a new identity.
type Agent struct {
	Subject    string
	Name       string
	PublicKey  string
	PrivateKey string // base64 seed; local only, never exported
	CreatedAt  int64  // ms since epoch
}

// NewAgent generates a fresh keypair and assigns subject
// {base_url}/agents/{public_key_b64}.
func NewAgent(name, baseURL string, rng RNG, clock Clock) (Agent, error) {
	kp, err := GenerateKeypair(rng)
	if err != nil {
		return Agent{}, err
	}
	a := Agent{
		Subject:    fmt.Sprintf("%s/agents/%s", baseURL, kp.PublicKey),
		Name:       name,
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
		CreatedAt:  clock.NowMS(),
	}
	storeLogger.WithFields(log.Fields{"subject": a.Subject, "name": name}).Info("agent created")
	return a, nil
}

// AgentFromPublicKey constructs an Agent known only by its public key
// (no private key available locally) — used when importing an Agent a
// remote party controls.
func AgentFromPublicKey(name, baseURL, publicKeyB64 string, clock Clock) Agent {
	return Agent{
		Subject:   fmt.Sprintf("%s/agents/%s", baseURL, publicKeyB64),
		Name:      name,
		PublicKey: publicKeyB64,
		CreatedAt: clock.NowMS(),
	}
}

// ToResource emits a Resource carrying name, publicKey and createdAt —
// never the private key.
func (a Agent) ToResource() *Resource {
	r := NewResource(a.Subject)
	r.SetPropval(PropIsA, NewResourceArrayValue([]string{ClassAgent}))
	r.SetPropval(PropName, NewStringValue(a.Name))
	r.SetPropval(PropPublicKey, NewStringValue(a.PublicKey))
	r.SetPropval(PropCreatedAt, NewTimestampValue(a.CreatedAt))
	return r
}

// AgentFromResource projects a Resource back into an Agent (no
// PrivateKey — it was never serialized).
func AgentFromResource(r *Resource) (Agent, error) {
	pub, err := r.Get(PropPublicKey)
	if err != nil {
		return Agent{}, &SchemaIncompleteError{Subject: r.Subject(), MissingProp: PropPublicKey}
	}
	a := Agent{Subject: r.Subject(), PublicKey: pub.String()}
	if name, err := r.Get(PropName); err == nil {
		a.Name = name.String()
	}
	if createdAt, err := r.Get(PropCreatedAt); err == nil {
		a.CreatedAt, _ = createdAt.Int()
	}
	return a, nil
}

// PublicKeyBytes decodes the agent's base64 public key into raw bytes.
func (a Agent) PublicKeyBytes() (ed25519.PublicKey, error) {
	b, err := base64.StdEncoding.DecodeString(a.PublicKey)
	if err != nil || len(b) != ed25519.PublicKeySize {
		return nil, &InvalidValueError{Datatype: "ed25519-public-key", Text: a.PublicKey}
	}
	return ed25519.PublicKey(b), nil
}
