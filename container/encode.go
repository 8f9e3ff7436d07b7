package container

import (
	"github.com/websharper/wsc/internal/binary"
)

// Encode encodes the container to its binary format.
func (c *Container) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	// Identity section
	sec := binary.NewWriter()
	sec.WriteName(c.Name)
	sec.WriteName(c.VersionText)
	sec.WriteBytes(c.Fingerprint[:])
	writeSection(w, SectionIdentity, sec.Bytes())

	// References section
	if c.hasReferences || len(c.References) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(c.References)))
		for _, ref := range c.References {
			sec.WriteName(ref)
		}
		writeSection(w, SectionReferences, sec.Bytes())
	}

	// Code section
	if c.hasCode || len(c.Code) > 0 {
		writeSection(w, SectionCode, c.Code)
	}

	// Resource sections, in table order
	for _, r := range c.Resources {
		sec := binary.NewWriter()
		sec.WriteName(r.Name)
		sec.WriteBytes(r.Data)
		writeSection(w, SectionResource, sec.Bytes())
	}

	return w.Bytes()
}

func writeSection(w *binary.Writer, id byte, data []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(data)
}
