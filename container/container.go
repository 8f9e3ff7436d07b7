package container

// Binary format constants.
const (
	Magic   uint32 = 0x434D5357 // "WSMC" little-endian
	Version uint32 = 1
)

// Section identifiers.
const (
	SectionResource   byte = 0
	SectionIdentity   byte = 1
	SectionReferences byte = 2
	SectionCode       byte = 3
)

// Container is a parsed binary module container.
type Container struct {
	// Identity section.
	Name        string
	VersionText string
	Fingerprint [16]byte

	// References records the raw names of modules this module depends on.
	References []string

	// Code is the opaque native-code blob. The compiler core never
	// interprets it.
	Code []byte

	// Resources is the embedded resource table in file order.
	Resources []Resource

	// A parsed references or code section that happens to be empty must
	// survive a re-encode; a nil slice cannot carry that distinction.
	hasReferences bool
	hasCode       bool
}

// Resource is a named blob embedded in a container.
type Resource struct {
	Name string
	Data []byte
}

// Resource returns the named resource's bytes, or false when absent.
func (c *Container) Resource(name string) ([]byte, bool) {
	for _, r := range c.Resources {
		if r.Name == name {
			return r.Data, true
		}
	}
	return nil, false
}

// SetResource replaces the named resource in place, or appends it when the
// container does not carry one yet.
func (c *Container) SetResource(name string, data []byte) {
	for i, r := range c.Resources {
		if r.Name == name {
			c.Resources[i].Data = data
			return
		}
	}
	c.Resources = append(c.Resources, Resource{Name: name, Data: data})
}

// DeleteResource removes the named resource. It reports whether a resource
// was present.
func (c *Container) DeleteResource(name string) bool {
	for i, r := range c.Resources {
		if r.Name == name {
			c.Resources = append(c.Resources[:i], c.Resources[i+1:]...)
			return true
		}
	}
	return false
}
