// Package core implements the store kernel: typed values, resources,
// schema, signed commits, the Storelike contract, and the TPF / path
// query evaluators.
package core

// Canonical URLs for the built-in classes, properties, datatypes and
// methods. These strings are signed over (they appear inside Commit
// payloads) and must never change once published.
const (
	// Classes
	ClassClass      = "https://atomicdata.dev/classes/Class"
	ClassProperty   = "https://atomicdata.dev/classes/Property"
	ClassDatatype   = "https://atomicdata.dev/classes/Datatype"
	ClassCommit     = "https://atomicdata.dev/classes/Commit"
	ClassAgent      = "https://atomicdata.dev/classes/Agent"
	ClassCollection = "https://atomicdata.dev/classes/Collection"
	ClassEndpoint   = "https://atomicdata.dev/classes/Endpoint"
	ClassDrive      = "https://atomicdata.dev/classes/Drive"
	ClassInvite     = "https://atomicdata.dev/classes/Invite"
	ClassRedirect   = "https://atomicdata.dev/classes/Redirect"
	ClassAtom       = "https://atomicdata.dev/classes/Atom"

	// Properties - Property schema
	PropShortname   = "https://atomicdata.dev/properties/shortname"
	PropDescription = "https://atomicdata.dev/properties/description"
	PropIsA         = "https://atomicdata.dev/properties/isA"
	PropDatatype    = "https://atomicdata.dev/properties/datatype"
	PropClasstype   = "https://atomicdata.dev/properties/classtype"

	// Properties - Class schema
	PropRequires   = "https://atomicdata.dev/properties/requires"
	PropRecommends = "https://atomicdata.dev/properties/recommends"

	// Properties - Commit
	PropSubject   = "https://atomicdata.dev/properties/subject"
	PropSet       = "https://atomicdata.dev/properties/set"
	PropRemove    = "https://atomicdata.dev/properties/remove"
	PropDestroy   = "https://atomicdata.dev/properties/destroy"
	PropSigner    = "https://atomicdata.dev/properties/signer"
	PropCreatedAt = "https://atomicdata.dev/properties/createdAt"
	PropSignature = "https://atomicdata.dev/properties/signature"

	// Properties - Agent
	PropPublicKey = "https://atomicdata.dev/properties/publicKey"
	PropName      = "https://atomicdata.dev/properties/name"

	// Properties - Collection
	PropCollectionProperty    = "https://atomicdata.dev/properties/collection/property"
	PropCollectionValue       = "https://atomicdata.dev/properties/collection/value"
	PropCollectionMemberCount = "https://atomicdata.dev/properties/collection/totalMembers"
	PropCollectionTotalPages  = "https://atomicdata.dev/properties/collection/totalPages"
	PropCollectionCurrentPage = "https://atomicdata.dev/properties/collection/currentPage"
	PropCollectionMembers     = "https://atomicdata.dev/properties/collection/members"
	PropCollectionPageSize    = "https://atomicdata.dev/properties/collection/pageSize"
	PropCollectionSortBy      = "https://atomicdata.dev/properties/collection/sortBy"
	PropCollectionSortDesc    = "https://atomicdata.dev/properties/collection/sortDesc"

	// Properties - Endpoint
	PropEndpointParameters = "https://atomicdata.dev/properties/endpoint/parameters"
	PropPath               = "https://atomicdata.dev/properties/path"

	// Properties - Hierarchy / Drive
	PropParent   = "https://atomicdata.dev/properties/parent"
	PropRead     = "https://atomicdata.dev/properties/read"
	PropWrite    = "https://atomicdata.dev/properties/write"
	PropChildren = "https://atomicdata.dev/properties/children"

	// Properties - Invite
	PropDestination    = "https://atomicdata.dev/properties/destination"
	PropInviteTarget   = "https://atomicdata.dev/properties/invite/target"
	PropUsagesLeft     = "https://atomicdata.dev/properties/invite/usagesLeft"
	PropUsedBy         = "https://atomicdata.dev/properties/invite/usedBy"
	PropInviteWrite    = "https://atomicdata.dev/properties/invite/write"
	PropInvitePubKey   = "https://atomicdata.dev/properties/invite/publicKey"
	PropInviteAgent    = "https://atomicdata.dev/properties/invite/agent"
	PropRedirectAgent  = "https://atomicdata.dev/properties/invite/redirectAgent"

	// Properties - Atom
	PropAtomSubject  = "https://atomicdata.dev/properties/atom/subject"
	PropAtomProperty = "https://atomicdata.dev/properties/atom/property"
	PropAtomValue    = "https://atomicdata.dev/properties/atom/value"

	// Datatypes
	DatatypeString        = "https://atomicdata.dev/datatypes/string"
	DatatypeMarkdown      = "https://atomicdata.dev/datatypes/markdown"
	DatatypeSlug          = "https://atomicdata.dev/datatypes/slug"
	DatatypeAtomicURL     = "https://atomicdata.dev/datatypes/atomicURL"
	DatatypeInteger       = "https://atomicdata.dev/datatypes/integer"
	DatatypeFloat         = "https://atomicdata.dev/datatypes/float"
	DatatypeResourceArray = "https://atomicdata.dev/datatypes/resourceArray"
	DatatypeBoolean       = "https://atomicdata.dev/datatypes/boolean"
	DatatypeDate          = "https://atomicdata.dev/datatypes/date"
	DatatypeTimestamp     = "https://atomicdata.dev/datatypes/timestamp"

	// Methods
	MethodInsert = "https://atomicdata.dev/methods/insert"
	MethodDelete = "https://atomicdata.dev/methods/delete"
)

// builtinClasses is the minimal required set populated into a fresh store
// (spec.md §6). Order is preserved for deterministic populate().
var builtinClasses = []string{
	ClassClass,
	ClassProperty,
	ClassDatatype,
	ClassCommit,
	ClassAgent,
	ClassCollection,
	ClassEndpoint,
	ClassDrive,
	ClassInvite,
	ClassRedirect,
	ClassAtom,
}
