package core

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Commit is a signed, canonicalized mutation record (spec.md §3, §4.5).
type Commit struct {
	Subject   string
	CreatedAt int64 // ms since epoch (unified across Commit and Agent; spec.md Open Question 2)
	Signer    string
	Set       map[string]string // propURL -> canonical string value
	Remove    []string           // propURLs
	Destroy   bool
	Signature string // base64 ed25519 signature; empty until signed
}

// CommitBuilder accumulates set/remove/destroy mutations against a fixed
// (subject, signer) pair, for later signing (spec.md §4.5). Duplicate Set
// calls for the same property override; Remove is a set.
type CommitBuilder struct {
	subject string
	signer  string
	set     map[string]string
	remove  map[string]struct{}
	destroy bool
}

// NewCommitBuilder starts building a Commit against subject, to be signed
// by signer's key.
func NewCommitBuilder(subject, signer string) *CommitBuilder {
	return &CommitBuilder{
		subject: subject,
		signer:  signer,
		set:     make(map[string]string),
		remove:  make(map[string]struct{}),
	}
}

// Set overrides the pending mutation for prop.
func (b *CommitBuilder) Set(prop, value string) {
	b.set[prop] = value
	delete(b.remove, prop)
}

// Remove marks prop for removal.
func (b *CommitBuilder) Remove(prop string) {
	b.remove[prop] = struct{}{}
	delete(b.set, prop)
}

// SetDestroy marks the subject for full destruction.
func (b *CommitBuilder) SetDestroy(destroy bool) {
	b.destroy = destroy
}

// Sign stamps created_at = clock.NowMS(), canonically serializes the
// commit, and signs the canonical bytes with privateKeyB64 (a base64
// Ed25519 seed).
func (b *CommitBuilder) Sign(privateKeyB64 string, clock Clock) (Commit, error) {
	seed, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil || len(seed) != ed25519.SeedSize {
		return Commit{}, &InvalidValueError{Datatype: "ed25519-seed", Text: privateKeyB64}
	}
	priv := ed25519.NewKeyFromSeed(seed)

	remove := make([]string, 0, len(b.remove))
	for p := range b.remove {
		remove = append(remove, p)
	}
	commit := Commit{
		Subject:   b.subject,
		Signer:    b.signer,
		Set:       copyStringMap(b.set),
		Remove:    remove,
		Destroy:   b.destroy,
		CreatedAt: clock.NowMS(),
	}
	canonical, err := commit.SerializeDeterministically()
	if err != nil {
		return Commit{}, err
	}
	sig := ed25519.Sign(priv, []byte(canonical))
	commit.Signature = base64.StdEncoding.EncodeToString(sig)
	storeLogger.WithFields(log.Fields{"subject": commit.Subject, "signer": commit.Signer}).Info("commit signed")
	return commit, nil
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SerializeDeterministically produces the canonical, byte-for-byte JSON
// form used for both signing and verification (spec.md §4.5). Keys are
// included/ordered as: subject, createdAt, signer, set?, remove?, destroy?.
// `signature` is never included. Output has no extra whitespace and is a
// pure function of the Commit's fields (independent of Go map iteration
// order, since set/remove keys are sorted before emission).
func (c Commit) SerializeDeterministically() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	jsonString(&buf, "subject")
	buf.WriteByte(':')
	jsonString(&buf, c.Subject)

	buf.WriteByte(',')
	jsonString(&buf, "createdAt")
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatInt(c.CreatedAt, 10))

	buf.WriteByte(',')
	jsonString(&buf, "signer")
	buf.WriteByte(':')
	jsonString(&buf, c.Signer)

	if len(c.Set) > 0 {
		keys := make([]string, 0, len(c.Set))
		for k := range c.Set {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte(',')
		jsonString(&buf, "set")
		buf.WriteByte(':')
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			jsonString(&buf, k)
			buf.WriteByte(':')
			jsonString(&buf, c.Set[k])
		}
		buf.WriteByte('}')
	}

	if len(c.Remove) > 0 {
		remove := append([]string(nil), c.Remove...)
		sort.Strings(remove)

		buf.WriteByte(',')
		jsonString(&buf, "remove")
		buf.WriteByte(':')
		buf.WriteByte('[')
		for i, p := range remove {
			if i > 0 {
				buf.WriteByte(',')
			}
			jsonString(&buf, p)
		}
		buf.WriteByte(']')
	}

	if c.Destroy {
		buf.WriteByte(',')
		jsonString(&buf, "destroy")
		buf.WriteByte(':')
		buf.WriteString("true")
	}

	buf.WriteByte('}')
	return buf.String(), nil
}

// jsonString writes the JSON-escaped, double-quoted form of s into buf.
func jsonString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// Validate checks the structural requirements spec.md §3 places on a
// Commit before it can be accepted: a non-empty subject/signer, at least
// one meaningful mutation, and a present signature.
func (c Commit) Validate() error {
	if c.Subject == "" {
		return &MalformedCommitError{Field: "subject", Reason: "empty"}
	}
	if c.Signer == "" {
		return &MalformedCommitError{Field: "signer", Reason: "empty"}
	}
	if c.Signature == "" {
		return &MalformedCommitError{Field: "signature", Reason: "missing"}
	}
	if len(c.Set) == 0 && len(c.Remove) == 0 && !c.Destroy {
		return &MalformedCommitError{Field: "set/remove/destroy", Reason: "no meaningful mutation"}
	}
	return nil
}

// VerifyCommit recomputes the canonical serialization and checks the
// Ed25519 signature against the signer's known public key, fetched from
// store.
func VerifyCommit(c Commit, store Storelike) error {
	if err := c.Validate(); err != nil {
		return err
	}
	signerResource, err := store.GetResource(c.Signer)
	if err != nil {
		return &UnknownSignerError{Signer: c.Signer}
	}
	agent, err := AgentFromResource(signerResource)
	if err != nil {
		return &UnknownSignerError{Signer: c.Signer}
	}
	pub, err := agent.PublicKeyBytes()
	if err != nil {
		return &UnknownSignerError{Signer: c.Signer}
	}
	sig, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return &InvalidSignatureError{}
	}
	canonical, err := c.SerializeDeterministically()
	if err != nil {
		return &MalformedCommitError{Field: "canonical form", Reason: err.Error()}
	}
	if !ed25519.Verify(pub, []byte(canonical), sig) {
		return &InvalidSignatureError{}
	}
	return nil
}

// propertyResolver is the minimal capability IntoResource needs: looking
// up a property's datatype by URL. Kept narrow (rather than taking the
// full Storelike) so it can be satisfied by a lock-free view while a
// caller already holds the store's write lock (see lockedPropertyResolver
// in store.go).
type propertyResolver interface {
	GetProperty(subject string) (Property, error)
}

// IntoResource builds the persisted Resource for an already-signed commit
// at {base_url}/commits/{signature}, with datatypes resolved through
// resolver. `signer` is written once (spec.md Open Question 1 resolves the
// ambiguity in the original source, which wrote it twice).
func (c Commit) IntoResource(baseURL string, resolver propertyResolver) (*Resource, error) {
	if c.Signature == "" {
		return nil, &MalformedCommitError{Field: "signature", Reason: "missing"}
	}
	subject := fmt.Sprintf("%scommits/%s", ensureTrailingSlash(baseURL), c.Signature)
	r := NewResource(subject)
	r.SetPropval(PropIsA, NewResourceArrayValue([]string{ClassCommit}))
	r.SetPropval(PropSubject, NewAtomicURLValue(c.Subject))
	r.SetPropval(PropCreatedAt, NewTimestampValue(c.CreatedAt))
	r.SetPropval(PropSigner, NewAtomicURLValue(c.Signer))

	if len(c.Set) > 0 {
		keys := make([]string, 0, len(c.Set))
		for k := range c.Set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, prop := range keys {
			property, err := resolver.GetProperty(prop)
			if err != nil {
				return nil, &UnknownPropertyError{URL: prop}
			}
			val, err := ParseValue(c.Set[prop], property.DataType)
			if err != nil {
				return nil, err
			}
			r.SetPropval(prop, val)
		}
	}
	if len(c.Remove) > 0 {
		remove := append([]string(nil), c.Remove...)
		sort.Strings(remove)
		r.SetPropval(PropRemove, NewResourceArrayValue(remove))
	}
	if c.Destroy {
		r.SetPropval(PropDestroy, NewBooleanValue(true))
	}
	r.SetPropval(PropSignature, NewStringValue(c.Signature))
	return r, nil
}

func ensureTrailingSlash(s string) string {
	if len(s) == 0 || s[len(s)-1] == '/' {
		return s
	}
	return s + "/"
}
