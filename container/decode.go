package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/websharper/wsc/internal/binary"
)

// Parsing errors returned by Parse.
var (
	ErrInvalidMagic    = errors.New("invalid container magic number")
	ErrInvalidVersion  = errors.New("unsupported container format version")
	ErrMissingIdentity = errors.New("container has no identity section")
)

// Parse parses a binary module container.
func Parse(data []byte) (*Container, error) {
	r := binary.NewReader(bytes.NewReader(data))

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	c := &Container{}
	seenIdentity := false

	// Structural sections must appear in increasing id order, at most once.
	// Resource sections (id 0) may appear anywhere, repeatedly.
	var lastStructural byte

	for {
		sectionID, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, r.WrapError("section header", err)
		}

		if sectionID != SectionResource {
			if sectionID <= lastStructural {
				return nil, fmt.Errorf("section %d appears out of order", sectionID)
			}
			if sectionID > SectionCode {
				return nil, fmt.Errorf("unknown section id %d", sectionID)
			}
			lastStructural = sectionID
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}

		sectionData, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		sr := binary.NewReader(bytes.NewReader(sectionData))

		switch sectionID {
		case SectionResource:
			if err := parseResourceSection(sr, c); err != nil {
				return nil, fmt.Errorf("resource section: %w", err)
			}
		case SectionIdentity:
			if err := parseIdentitySection(sr, c); err != nil {
				return nil, fmt.Errorf("identity section: %w", err)
			}
			seenIdentity = true
		case SectionReferences:
			if err := parseReferencesSection(sr, c); err != nil {
				return nil, fmt.Errorf("references section: %w", err)
			}
			c.hasReferences = true
		case SectionCode:
			c.Code = sectionData
			c.hasCode = true
		}
	}

	if !seenIdentity {
		return nil, ErrMissingIdentity
	}
	return c, nil
}

func parseIdentitySection(r *binary.Reader, c *Container) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("empty module name")
	}
	version, err := r.ReadName()
	if err != nil {
		return err
	}
	fp, err := r.ReadBytes(16)
	if err != nil {
		return err
	}
	c.Name = name
	c.VersionText = version
	copy(c.Fingerprint[:], fp)
	return nil
}

func parseReferencesSection(r *binary.Reader, c *Container) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		c.References = append(c.References, name)
	}
	return nil
}

func parseResourceSection(r *binary.Reader, c *Container) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	data, err := r.ReadRemaining()
	if err != nil {
		return err
	}
	c.Resources = append(c.Resources, Resource{Name: name, Data: data})
	return nil
}
