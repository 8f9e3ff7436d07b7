package deps

import (
	"fmt"
)

// Mode is the form a depended-upon module is consumed in.
type Mode int

const (
	// CompiledAssembly is the only mode today: the module's compiled
	// script artifacts.
	CompiledAssembly Mode = iota
)

func (m Mode) String() string {
	switch m {
	case CompiledAssembly:
		return "compiled-assembly"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Node identifies a requirement in the dependency graph. Nodes are values:
// equality and hashing are by the (assembly, mode) tuple.
type Node struct {
	Assembly string
	Mode     Mode
}

func (n Node) String() string {
	return n.Assembly + " [" + n.Mode.String() + "]"
}
