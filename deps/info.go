package deps

import (
	"bytes"
	"fmt"

	"github.com/websharper/wsc"
	"github.com/websharper/wsc/internal/binary"
)

// infoFormatVersion is the dependency metadata blob format version.
const infoFormatVersion = 1

// Node encoding tags. Tag 0 is the only variant today; decoding rejects
// unknown tags so future kinds fail loudly on old readers.
const tagAssemblyNode byte = 0

// WebResource declares a web resource a module serves: a named embedded
// resource with a content kind, e.g. {"styles.css", "text/css"}.
type WebResource struct {
	Name string
	Kind string
}

// Info is one module's dependency metadata record.
type Info struct {
	Name      wsc.Name
	Requires  []Node
	Resources []WebResource
}

// Encode serializes the record for the dependency metadata artifact.
func (i *Info) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32(infoFormatVersion)
	w.WriteName(i.Name.Raw())
	w.WriteName(i.Name.Version)

	w.WriteU32(uint32(len(i.Requires)))
	for _, n := range i.Requires {
		w.Byte(tagAssemblyNode)
		w.WriteName(n.Assembly)
	}

	w.WriteU32(uint32(len(i.Resources)))
	for _, r := range i.Resources {
		w.WriteName(r.Name)
		w.WriteName(r.Kind)
	}
	return w.Bytes()
}

// DecodeInfo parses a dependency metadata blob.
func DecodeInfo(data []byte) (*Info, error) {
	r := binary.NewReader(bytes.NewReader(data))

	version, err := r.ReadU32()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != infoFormatVersion {
		return nil, fmt.Errorf("unsupported dependency metadata version %d", version)
	}

	info := &Info{}
	if info.Name.Name, err = r.ReadName(); err != nil {
		return nil, r.WrapError("name", err)
	}
	if info.Name.Version, err = r.ReadName(); err != nil {
		return nil, r.WrapError("version", err)
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, r.WrapError("requires", err)
	}
	for i := uint32(0); i < count; i++ {
		tag, err := r.ReadByte()
		if err != nil {
			return nil, r.WrapError("requires", err)
		}
		if tag != tagAssemblyNode {
			return nil, fmt.Errorf("unknown dependency node tag %d", tag)
		}
		name, err := r.ReadName()
		if err != nil {
			return nil, r.WrapError("requires", err)
		}
		info.Requires = append(info.Requires, Node{Assembly: name, Mode: CompiledAssembly})
	}

	count, err = r.ReadU32()
	if err != nil {
		return nil, r.WrapError("resources", err)
	}
	for i := uint32(0); i < count; i++ {
		var wr WebResource
		if wr.Name, err = r.ReadName(); err != nil {
			return nil, r.WrapError("resources", err)
		}
		if wr.Kind, err = r.ReadName(); err != nil {
			return nil, r.WrapError("resources", err)
		}
		info.Resources = append(info.Resources, wr)
	}

	return info, nil
}

// RuntimeInfo is the runtime identity record, persisted under its own
// fixed artifact name alongside the dependency metadata.
type RuntimeInfo struct {
	Name        wsc.Name
	Fingerprint [16]byte
}

// Encode serializes the runtime identity record.
func (ri *RuntimeInfo) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32(infoFormatVersion)
	w.WriteName(ri.Name.Raw())
	w.WriteName(ri.Name.Version)
	w.WriteBytes(ri.Fingerprint[:])
	return w.Bytes()
}

// DecodeRuntimeInfo parses a runtime identity blob.
func DecodeRuntimeInfo(data []byte) (*RuntimeInfo, error) {
	r := binary.NewReader(bytes.NewReader(data))

	version, err := r.ReadU32()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != infoFormatVersion {
		return nil, fmt.Errorf("unsupported runtime metadata version %d", version)
	}

	ri := &RuntimeInfo{}
	if ri.Name.Name, err = r.ReadName(); err != nil {
		return nil, r.WrapError("name", err)
	}
	if ri.Name.Version, err = r.ReadName(); err != nil {
		return nil, r.WrapError("version", err)
	}
	fp, err := r.ReadBytes(16)
	if err != nil {
		return nil, r.WrapError("fingerprint", err)
	}
	copy(ri.Fingerprint[:], fp)
	return ri, nil
}
