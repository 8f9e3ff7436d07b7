package deps

import (
	"go.uber.org/zap"

	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/errors"
)

// Registry is the merged metadata view of an ordered module set: the
// compiler metadata records, the runtime identity records, and the
// identity-indexed module map.
type Registry struct {
	infos      []*Info
	runtime    []*RuntimeInfo
	modules    map[string]*assembly.Assembly
	infoByName map[string]*Info
	order      []string
}

// Build merges the dependency metadata of the given modules, a pure
// function of its input order. Deduplication is by raw module name with
// the first occurrence winning; reordering the input can change which
// duplicate survives, so callers pass explicit references before
// transitively discovered ones.
//
// A module whose metadata artifact fails to decode contributes only its
// container to the registry; the failure is logged, not propagated.
func Build(modules []*assembly.Assembly) *Registry {
	r := &Registry{
		modules:    make(map[string]*assembly.Assembly),
		infoByName: make(map[string]*Info),
	}

	for _, a := range modules {
		name := a.Raw()
		if _, seen := r.modules[name]; seen {
			continue
		}
		r.modules[name] = a
		r.order = append(r.order, name)

		if raw, ok := a.Artifact(assembly.Metadata); ok {
			info, err := DecodeInfo(raw)
			if err != nil {
				Logger().Warn("metadata artifact failed to decode",
					zap.String("module", name),
					zap.Error(err))
			} else {
				r.infos = append(r.infos, info)
				r.infoByName[name] = info
			}
		}

		if raw, ok := a.Artifact(assembly.RuntimeMetadata); ok {
			ri, err := DecodeRuntimeInfo(raw)
			if err != nil {
				Logger().Warn("runtime metadata artifact failed to decode",
					zap.String("module", name),
					zap.Error(err))
			} else {
				r.runtime = append(r.runtime, ri)
			}
		}
	}

	return r
}

// Merge returns a new registry view extending r with additional metadata
// records, without touching r. Deduplication follows the same rule as
// Build: records already present win over the ones being merged in. A nil
// receiver merges into an empty registry.
func (r *Registry) Merge(infos ...*Info) *Registry {
	m := &Registry{
		modules:    make(map[string]*assembly.Assembly),
		infoByName: make(map[string]*Info),
	}
	if r != nil {
		for k, v := range r.modules {
			m.modules[k] = v
		}
		for k, v := range r.infoByName {
			m.infoByName[k] = v
		}
		m.infos = append(m.infos, r.infos...)
		m.runtime = append(m.runtime, r.runtime...)
		m.order = append(m.order, r.order...)
	}

	for _, info := range infos {
		name := info.Name.Raw()
		if _, seen := m.infoByName[name]; seen {
			continue
		}
		m.infos = append(m.infos, info)
		m.infoByName[name] = info
		if _, known := m.modules[name]; !known {
			m.order = append(m.order, name)
		}
	}
	return m
}

// Size returns the number of distinct modules in the registry.
func (r *Registry) Size() int {
	return len(r.order)
}

// Assembly returns the module registered under a raw name.
func (r *Registry) Assembly(name string) (*assembly.Assembly, bool) {
	a, ok := r.modules[name]
	return a, ok
}

// Info returns the dependency metadata of a module, when it carries any.
func (r *Registry) Info(name string) (*Info, bool) {
	i, ok := r.infoByName[name]
	return i, ok
}

// Infos returns the merged compiler metadata records in input order.
func (r *Registry) Infos() []*Info {
	return r.infos
}

// RuntimeInfos returns the runtime identity records in input order.
func (r *Registry) RuntimeInfos() []*RuntimeInfo {
	return r.runtime
}

// Modules returns the deduplicated raw module names in input order.
func (r *Registry) Modules() []string {
	return append([]string(nil), r.order...)
}

// traversal colors for cycle detection
const (
	colorWhite = iota
	colorGray
	colorBlack
)

// Closure computes the dependency closure reachable from the roots.
// The output order is the emission contract: depth-first post-order per
// root, roots in the order given, prerequisites always before dependents,
// no duplicates. Declared dependencies forming a cycle are rejected with
// a CycleError; a node with no metadata record simply has no edges.
func (r *Registry) Closure(roots []Node) ([]Node, error) {
	color := make(map[Node]int)
	var out []Node
	var stack []Node

	var visit func(n Node) error
	visit = func(n Node) error {
		switch color[n] {
		case colorBlack:
			return nil
		case colorGray:
			return cycleFrom(stack, n)
		}
		color[n] = colorGray
		stack = append(stack, n)

		if info, ok := r.infoByName[n.Assembly]; ok {
			for _, req := range info.Requires {
				if err := visit(req); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[n] = colorBlack
		out = append(out, n)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// cycleFrom slices the current traversal stack from the re-entered node
// onward, producing the cycle path in traversal order.
func cycleFrom(stack []Node, entry Node) error {
	for i, n := range stack {
		if n == entry {
			cycle := make([]string, 0, len(stack)-i)
			for _, c := range stack[i:] {
				cycle = append(cycle, c.String())
			}
			return &errors.CycleError{Nodes: cycle}
		}
	}
	return &errors.CycleError{Nodes: []string{entry.String()}}
}
