package core

// builtinClassInfo carries the shortname/description seeded for each
// built-in class. Order mirrors builtinClasses.
type builtinClassInfo struct {
	shortname   string
	description string
}

var builtinClassDetails = map[string]builtinClassInfo{
	ClassClass:      {"class", "A class describes a kind of resource, and the properties it requires or recommends."},
	ClassProperty:   {"property", "A single field of a resource; carries a datatype and optional class restriction."},
	ClassDatatype:   {"datatype", "A value type, such as string, integer or resourceArray."},
	ClassCommit:     {"commit", "A signed, atomic mutation of a single resource."},
	ClassAgent:      {"agent", "A named actor identified by a public key, authorized to sign commits."},
	ClassCollection: {"collection", "A paginated view over a set of resources matching some property/value."},
	ClassEndpoint:   {"endpoint", "A server-side operation reachable at a URL, with documented parameters."},
	ClassDrive:      {"drive", "The root resource of a hierarchy of owned resources."},
	ClassInvite:     {"invite", "A token granting rights to a resource hierarchy, consumable a limited number of times."},
	ClassRedirect:   {"redirect", "The outcome of successfully using an Invite."},
	ClassAtom:       {"atom", "A single (subject, property, value) triple, reified as a resource."},
}

// builtinProperty describes a Property resource seeded by populateBaseModels.
type builtinProperty struct {
	subject     string
	shortname   string
	description string
	datatype    Datatype
}

var builtinProperties = []builtinProperty{
	{PropShortname, "shortname", "A short, human-friendly name.", DatatypeTagSlug},
	{PropDescription, "description", "A textual description of a resource.", DatatypeTagMarkdown},
	{PropIsA, "isA", "The classes this resource is an instance of.", DatatypeTagResourceArray},
	{PropDatatype, "datatype", "The datatype of a Property.", DatatypeTagAtomicURL},
	{PropClasstype, "classtype", "The class a Property's values must be instances of.", DatatypeTagAtomicURL},
	{PropRequires, "requires", "Properties a resource of this class must set.", DatatypeTagResourceArray},
	{PropRecommends, "recommends", "Properties a resource of this class should set.", DatatypeTagResourceArray},
	{PropSubject, "subject", "The subject a Commit applies to.", DatatypeTagAtomicURL},
	{PropSet, "set", "Property/value pairs a Commit sets.", DatatypeTagString},
	{PropRemove, "remove", "Properties a Commit removes.", DatatypeTagResourceArray},
	{PropDestroy, "destroy", "Whether a Commit destroys its subject.", DatatypeTagBoolean},
	{PropSigner, "signer", "The Agent that signed a Commit.", DatatypeTagAtomicURL},
	{PropCreatedAt, "createdAt", "Milliseconds since epoch.", DatatypeTagTimestamp},
	{PropSignature, "signature", "The base64 Ed25519 signature of a Commit.", DatatypeTagString},
	{PropPublicKey, "publicKey", "An Agent's base64 Ed25519 public key.", DatatypeTagString},
	{PropName, "name", "A display name.", DatatypeTagString},
}

// populateBaseModels seeds the store with a Class resource for every
// built-in class (each carrying isA=[ClassClass], satisfying the §8
// scenario that a TPF query for isA=[Class] returns one atom per built-in
// class) plus Property resources for the schema fields those classes use.
// Populate does not sign commits — it writes resources directly, mirroring
// the bootstrap nature of a freshly provisioned store.
func populateBaseModels(s Storelike) error {
	for _, subject := range builtinClasses {
		info := builtinClassDetails[subject]
		r := NewResource(subject)
		r.SetPropval(PropIsA, NewResourceArrayValue([]string{ClassClass}))
		if err := r.SetPropval(PropShortname, mustParse(DatatypeTagSlug, info.shortname)); err != nil {
			return err
		}
		r.SetPropval(PropDescription, NewStringValue(info.description))
		if err := s.AddResourceUnsafe(r); err != nil {
			return err
		}
	}

	for _, p := range builtinProperties {
		r := NewResource(p.subject)
		r.SetPropval(PropIsA, NewResourceArrayValue([]string{ClassProperty}))
		if err := r.SetPropval(PropShortname, mustParse(DatatypeTagSlug, p.shortname)); err != nil {
			return err
		}
		r.SetPropval(PropDescription, NewStringValue(p.description))
		r.SetPropval(PropDatatype, NewAtomicURLValue(p.datatype.URL()))
		if err := s.AddResourceUnsafe(r); err != nil {
			return err
		}
	}

	return nil
}

// mustParse parses a known-good literal against dt; used only for populate's
// own static table, where a parse failure would be a populate.go bug.
func mustParse(dt Datatype, text string) Value {
	v, err := ParseValue(text, dt)
	if err != nil {
		panic("populate: invalid built-in literal " + text)
	}
	return v
}
