package core

// Property projects a generic Resource into the schema struct spec.md §3
// describes. ClassType is empty when the property carries no class
// restriction.
type Property struct {
	Subject     string
	Shortname   string
	Description string
	DataType    Datatype
	ClassType   string // optional; only meaningful for AtomicUrl / ResourceArray
}

// PropertyFromResource projects r into a Property, failing with
// *SchemaIncompleteError if a required field (shortname, datatype) is
// absent.
func PropertyFromResource(r *Resource) (Property, error) {
	shortname, err := r.Get(PropShortname)
	if err != nil {
		return Property{}, &SchemaIncompleteError{Subject: r.Subject(), MissingProp: PropShortname}
	}
	datatypeVal, err := r.Get(PropDatatype)
	if err != nil {
		return Property{}, &SchemaIncompleteError{Subject: r.Subject(), MissingProp: PropDatatype}
	}
	p := Property{
		Subject:   r.Subject(),
		Shortname: shortname.String(),
		DataType:  DatatypeFromURL(datatypeVal.String()),
	}
	if desc, err := r.Get(PropDescription); err == nil {
		p.Description = desc.String()
	}
	if ct, err := r.Get(PropClasstype); err == nil {
		p.ClassType = ct.String()
	}
	return p, nil
}

// Class projects a generic Resource into the schema struct spec.md §3
// describes. Requires and Recommends are ordered property-URL lists.
type Class struct {
	Subject     string
	Shortname   string
	Description string
	Requires    []string
	Recommends  []string
}

// ClassFromResource projects r into a Class, failing with
// *SchemaIncompleteError if shortname is absent.
func ClassFromResource(r *Resource) (Class, error) {
	shortname, err := r.Get(PropShortname)
	if err != nil {
		return Class{}, &SchemaIncompleteError{Subject: r.Subject(), MissingProp: PropShortname}
	}
	c := Class{Subject: r.Subject(), Shortname: shortname.String()}
	if desc, err := r.Get(PropDescription); err == nil {
		c.Description = desc.String()
	}
	if requires, err := r.Get(PropRequires); err == nil {
		c.Requires, _ = requires.ResourceArray()
	}
	if recommends, err := r.Get(PropRecommends); err == nil {
		c.Recommends, _ = recommends.ResourceArray()
	}
	return c, nil
}
