package compiler

import "fmt"

// MemberID identifies one member of the semantic module tree: a type plus
// an optional member name (empty for type-level annotations).
type MemberID struct {
	Type   string
	Member string
}

func (id MemberID) String() string {
	if id.Member == "" {
		return id.Type
	}
	return id.Type + "." + id.Member
}

// AnnotationKind enumerates the compilation annotation variants.
type AnnotationKind int

const (
	// Inline substitutes the member's body with a script template expanded
	// at every call site.
	Inline AnnotationKind = iota
	// Direct substitutes the member's body with a script template compiled
	// into a single function.
	Direct
	// Macro delegates the member's translation to a named macro.
	Macro
	// Generated delegates the member's body to a named generator.
	Generated
	// Stub marks a member as implemented externally; no body is emitted.
	Stub
	// Remote marks a member as a remote endpoint invocation.
	Remote
	// Constant replaces every reference to the member with a literal.
	Constant
)

func (k AnnotationKind) String() string {
	switch k {
	case Inline:
		return "inline"
	case Direct:
		return "direct"
	case Macro:
		return "macro"
	case Generated:
		return "generated"
	case Stub:
		return "stub"
	case Remote:
		return "remote"
	case Constant:
		return "constant"
	default:
		return fmt.Sprintf("AnnotationKind(%d)", int(k))
	}
}

// Annotation is one tagged compilation annotation. Template is set for
// Inline and Direct, Ref for Macro and Generated, Value for Constant;
// Stub and Remote carry no payload.
type Annotation struct {
	Kind     AnnotationKind
	Template string
	Ref      string
	Value    string
}

// Annotations is the side table of compilation annotations for one module,
// produced by the Reflector. Validator and Analyzer consult it instead of
// re-inspecting the module binary.
type Annotations map[MemberID]Annotation

// Lookup returns the annotation attached to a member.
func (a Annotations) Lookup(id MemberID) (Annotation, bool) {
	ann, ok := a[id]
	return ann, ok
}
