package core

import (
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ResourceCollection is a plain slice of owned Resource snapshots — no
// resource returned by Storelike methods carries a back-reference to the
// store (spec.md §9 Design Notes: "return owned resource snapshots").
type ResourceCollection = []*Resource

// PathResult is the outcome of GetPath: either a bare Subject or a
// resolved Atom (spec.md §4.8).
type PathResult struct {
	Subject string // set when Atom is nil
	Atom    *Atom  // set when the path terminated on a propval
}

// Storelike is the abstract contract every store implementation must
// satisfy (spec.md §4.6): a capability set, not a base class to inherit
// from (spec.md §9 Design Notes).
type Storelike interface {
	// Required operations.
	AddAtoms(atoms []Atom) error
	AddResource(r *Resource) error
	AddResourceUnsafe(r *Resource) error
	RemoveResource(subject string) error
	GetResource(subject string) (*Resource, error)
	AllResources(includeExternal bool) ResourceCollection
	GetBaseURL() string
	SetDefaultAgent(a Agent)
	GetDefaultAgent() (Agent, error)

	// Provided operations, built atop the above.
	GetClass(subject string) (Class, error)
	GetProperty(subject string) (Property, error)
	CreateAgent(name string) (Agent, error)
	TPF(subject, property, value *string, includeExternal bool) ([]Atom, error)
	GetPath(path string, mapping *Mapping) (PathResult, error)
	Commit(c Commit) (*Resource, error)
	FetchResource(subject string) (*Resource, error)
	Populate() error
	Export(includeExternal bool) (string, error)
	Import(jsonAD string) (int, error)
	Validate() (*ValidationReport, error)
}

// Store is the in-memory Storelike implementation (spec.md §9 Design
// Notes: "prefer composition... a struct holding an atom-backed map").
// All mutating operations are serialized by an internal mutex; readers
// clone Values on the way out, giving snapshot semantics without the
// caller needing to add its own locking (spec.md §5).
type Store struct {
	mu sync.RWMutex

	baseURL      string
	resources    map[string]*Resource
	destroyed    map[string]bool
	defaultAgent *Agent

	fetcher Fetcher
	clock   Clock
	rng     RNG
}

// NewStore constructs an empty Store rooted at baseURL. A nil fetcher,
// clock or rng falls back to a no-op fetcher, SystemClock and CryptoRNG
// respectively.
func NewStore(baseURL string, fetcher Fetcher, clock Clock, rng RNG) *Store {
	if clock == nil {
		clock = SystemClock
	}
	if rng == nil {
		rng = CryptoRNG
	}
	if fetcher == nil {
		fetcher = noopFetcher{}
	}
	return &Store{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		resources: make(map[string]*Resource),
		destroyed: make(map[string]bool),
		fetcher:   fetcher,
		clock:     clock,
		rng:       rng,
	}
}

type noopFetcher struct{}

func (noopFetcher) Fetch(subject string) (*Resource, error) {
	return nil, &NotFoundError{Subject: subject}
}

func cloneValue(v Value) Value {
	out := v
	if v.datatype.kind == "resourceArray" {
		out.arr = append([]string(nil), v.arr...)
	}
	return out
}

func cloneResource(r *Resource) *Resource {
	clone := NewResource(r.subject)
	for k, v := range r.propvals {
		clone.propvals[k] = cloneValue(v)
	}
	return clone
}

// --- Required operations ---------------------------------------------

// AddAtoms validates and inserts atoms, replacing any existing value for
// the same (subject, property) pair.
func (s *Store) AddAtoms(atoms []Atom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]Atom)
	order := make([]string, 0)
	for _, a := range atoms {
		if _, ok := grouped[a.Subject]; !ok {
			order = append(order, a.Subject)
		}
		grouped[a.Subject] = append(grouped[a.Subject], a)
	}

	// Validate everything first so the whole call fails atomically.
	for _, a := range atoms {
		if err := s.validateAtomLocked(a); err != nil {
			return err
		}
	}

	for _, subject := range order {
		r, ok := s.resources[subject]
		if !ok {
			r = NewResource(subject)
		}
		for _, a := range grouped[subject] {
			r.SetPropval(a.Property, a.Value)
		}
		s.resources[subject] = r
	}
	return nil
}

func (s *Store) validateAtomLocked(a Atom) error {
	property, err := s.getPropertyLocked(a.Property)
	if err != nil {
		// Property isn't resolvable: nothing to validate against
		// (spec.md §4.2 invariant, "when resolvable").
		return nil
	}
	if a.Value.Datatype().URL() != property.DataType.URL() {
		return &InvalidValueError{Datatype: property.DataType.URL(), Text: a.Value.String()}
	}
	return nil
}

func (s *Store) getPropertyLocked(subject string) (Property, error) {
	r, ok := s.resources[subject]
	if !ok {
		return Property{}, &UnknownPropertyError{URL: subject}
	}
	return PropertyFromResource(r)
}

func (s *Store) getClassLocked(subject string) (Class, error) {
	r, ok := s.resources[subject]
	if !ok {
		return Class{}, &NotFoundError{Subject: subject}
	}
	return ClassFromResource(r)
}

// AddResource validates every propval's datatype against the store's
// schema (where resolvable) and upserts the resource as a whole.
func (s *Store) AddResource(r *Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for prop, val := range r.propvals {
		if err := s.validateAtomLocked(Atom{Subject: r.subject, Property: prop, Value: val}); err != nil {
			return err
		}
	}
	s.resources[r.subject] = cloneResource(r)
	return nil
}

// AddResourceUnsafe upserts r without validating datatypes (used by
// FetchResource and Populate).
func (s *Store) AddResourceUnsafe(r *Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.subject] = cloneResource(r)
	return nil
}

// RemoveResource deletes subject's resource. Fails if absent.
func (s *Store) RemoveResource(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[subject]; !ok {
		return &NotFoundError{Subject: subject}
	}
	delete(s.resources, subject)
	return nil
}

// GetResource returns an owned snapshot of subject's resource.
func (s *Store) GetResource(subject string) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[subject]
	if !ok {
		return nil, &NotFoundError{Subject: subject}
	}
	return cloneResource(r), nil
}

// AllResources returns owned snapshots of every resource, optionally
// restricted to those whose subject is prefixed by the store's base URL.
// Results are sorted by subject for a stable order within a snapshot.
func (s *Store) AllResources(includeExternal bool) ResourceCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make([]string, 0, len(s.resources))
	for subject := range s.resources {
		if !includeExternal && !strings.HasPrefix(subject, s.baseURL) {
			continue
		}
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	out := make(ResourceCollection, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, cloneResource(s.resources[subject]))
	}
	return out
}

// GetBaseURL returns the root URL under which this store mints subjects.
func (s *Store) GetBaseURL() string { return s.baseURL }

// SetDefaultAgent installs the Agent used to sign commits when no other
// signer is specified by the caller.
func (s *Store) SetDefaultAgent(a Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agent := a
	s.defaultAgent = &agent
}

// GetDefaultAgent returns the store's default Agent, if set.
func (s *Store) GetDefaultAgent() (Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.defaultAgent == nil {
		return Agent{}, &NotFoundError{Subject: "default agent"}
	}
	return *s.defaultAgent, nil
}

// --- Provided operations ----------------------------------------------

// GetClass resolves subject into a Class schema.
func (s *Store) GetClass(subject string) (Class, error) {
	r, err := s.GetResource(subject)
	if err != nil {
		return Class{}, err
	}
	return ClassFromResource(r)
}

// GetProperty resolves subject into a Property schema.
func (s *Store) GetProperty(subject string) (Property, error) {
	r, err := s.GetResource(subject)
	if err != nil {
		return Property{}, &UnknownPropertyError{URL: subject}
	}
	return PropertyFromResource(r)
}

// CreateAgent generates an Agent and persists its public resource. The
// returned Agent carries the private key — callers must store it
// themselves; it is never written to the store.
func (s *Store) CreateAgent(name string) (Agent, error) {
	agent, err := NewAgent(name, s.GetBaseURL(), s.rng, s.clock)
	if err != nil {
		return Agent{}, err
	}
	if err := s.AddResource(agent.ToResource()); err != nil {
		return Agent{}, err
	}
	return agent, nil
}

// TPF evaluates a Triple Pattern Fragment query (spec.md §4.7).
func (s *Store) TPF(subject, property, value *string, includeExternal bool) ([]Atom, error) {
	return evaluateTPF(s, subject, property, value, includeExternal)
}

// GetPath navigates subject→property→index chains (spec.md §4.8).
func (s *Store) GetPath(path string, mapping *Mapping) (PathResult, error) {
	return evaluatePath(s, path, mapping)
}

// FetchResource delegates to the store's Fetcher collaborator and caches
// the result unsafely (no local datatype validation — the fetched
// resource was presumably already validated by its origin store).
func (s *Store) FetchResource(subject string) (*Resource, error) {
	r, err := s.fetcher.Fetch(subject)
	if err != nil {
		return nil, err
	}
	if err := s.AddResourceUnsafe(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Populate seeds the built-in classes and the built-in properties. No
// Datatype resources are seeded.
func (s *Store) Populate() error {
	return populateBaseModels(s)
}

// Export serializes the store to a JSON-AD array (spec.md §4.9).
func (s *Store) Export(includeExternal bool) (string, error) {
	return resourcesToJSONAD(s.AllResources(includeExternal))
}

// Import parses a JSON-AD array and upserts every resource (validated).
// Before each resource is added, its propvals are re-typed against the
// property resources already in the store, including those this import
// added earlier in the document.
func (s *Store) Import(jsonAD string) (int, error) {
	resources, err := parseJSONADArray(jsonAD, storePropertyResolver{s})
	if err != nil {
		return 0, err
	}
	for _, r := range resources {
		for prop, val := range r.propvals {
			if property, err := s.GetProperty(prop); err == nil && val.Datatype() != property.DataType {
				if typed, err := ParseValue(val.String(), property.DataType); err == nil {
					r.propvals[prop] = typed
				}
			}
		}
		if err := s.AddResource(r); err != nil {
			return 0, err
		}
	}
	return len(resources), nil
}

// Validate performs a light, local cross-resource schema check.
func (s *Store) Validate() (*ValidationReport, error) {
	return validateStore(s)
}

// Commit verifies, applies and persists a signed Commit (spec.md §4.5).
// The transition is atomic: either the whole commit applies and its
// resource is persisted, or nothing changes.
func (s *Store) Commit(c Commit) (*Resource, error) {
	if err := VerifyCommit(c, s); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed[c.Subject] {
		return nil, &ResourceDestroyedError{Subject: c.Subject}
	}

	if c.Destroy {
		delete(s.resources, c.Subject)
		s.destroyed[c.Subject] = true
	} else {
		existing, exists := s.resources[c.Subject]
		draft := NewResource(c.Subject)
		if exists {
			for k, v := range existing.propvals {
				draft.propvals[k] = v
			}
		}
		for prop, text := range c.Set {
			property, err := s.getPropertyLocked(prop)
			if err != nil {
				return nil, &UnknownPropertyError{URL: prop}
			}
			val, err := ParseValue(text, property.DataType)
			if err != nil {
				return nil, err
			}
			draft.propvals[prop] = val
		}
		for _, prop := range c.Remove {
			// Removing a non-existent propval on a not-yet-created
			// resource is ignored, per spec.md §4.5's Absent→Present row.
			delete(draft.propvals, prop)
		}
		s.resources[c.Subject] = draft
	}

	commitResource, err := c.IntoResource(s.baseURL, lockedPropertyResolver{s})
	if err != nil {
		return nil, err
	}
	s.resources[commitResource.Subject()] = commitResource

	storeLogger.WithFields(log.Fields{
		"subject": c.Subject, "signer": c.Signer, "destroy": c.Destroy,
	}).Info("commit applied")

	return cloneResource(commitResource), nil
}

// lockedPropertyResolver resolves property datatypes directly against the
// store's internal map, for use while s.mu is already held — it must not
// call any method that re-acquires the mutex.
type lockedPropertyResolver struct{ s *Store }

func (v lockedPropertyResolver) GetProperty(subject string) (Property, error) {
	return v.s.getPropertyLocked(subject)
}

// storePropertyResolver resolves properties through the store's normal,
// lock-acquiring path — for use when the caller holds no lock of its own
// (e.g. Import, which runs before any mutation begins).
type storePropertyResolver struct{ s *Store }

func (v storePropertyResolver) GetProperty(subject string) (Property, error) {
	return v.s.GetProperty(subject)
}

var _ Storelike = (*Store)(nil)
