package bundle

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/deps"
)

// Mode selects which rendering channel a bundle traversal targets. Modes
// are mutually exclusive per render pass.
type Mode int

const (
	CSS Mode = iota
	HtmlHeaders
	HtmlHeadersScript
	JavaScript
	MinifiedJavaScript
	TypeScript
)

func (m Mode) String() string {
	switch m {
	case CSS:
		return "css"
	case HtmlHeaders:
		return "html-headers"
	case HtmlHeadersScript:
		return "html-headers-script"
	case JavaScript:
		return "javascript"
	case MinifiedJavaScript:
		return "minified-javascript"
	case TypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

// bootstrap is the runtime activation call appended after all dependency
// content in script-producing modes.
const bootstrap = "WebSharper.Runtime.Start();"

// Bundle is an immutable aggregation of module references with lazily
// rendered output artifacts.
type Bundle struct {
	store     *assembly.Store
	refs      []*assembly.Assembly
	extraDirs []string
	settings  map[string]string

	artifacts map[Mode]*Artifact
}

// New creates an empty bundle over a store.
func New(store *assembly.Store) *Bundle {
	return build(store, nil, nil, nil)
}

func build(store *assembly.Store, refs []*assembly.Assembly, extraDirs []string, settings map[string]string) *Bundle {
	b := &Bundle{
		store:     store,
		refs:      refs,
		extraDirs: extraDirs,
		settings:  settings,
	}
	b.artifacts = map[Mode]*Artifact{
		CSS:                newArtifact(CSS.String(), func() (string, error) { return b.render(CSS) }),
		HtmlHeaders:        newArtifact(HtmlHeaders.String(), func() (string, error) { return b.render(HtmlHeaders) }),
		HtmlHeadersScript:  newArtifact(HtmlHeadersScript.String(), b.renderHeadersScript),
		JavaScript:         newArtifact(JavaScript.String(), func() (string, error) { return b.render(JavaScript) }),
		MinifiedJavaScript: newArtifact(MinifiedJavaScript.String(), func() (string, error) { return b.render(MinifiedJavaScript) }),
		TypeScript:         newArtifact(TypeScript.String(), func() (string, error) { return b.render(TypeScript) }),
	}
	return b
}

// References returns the bundled assemblies in reference order.
func (b *Bundle) References() []*assembly.Assembly {
	return append([]*assembly.Assembly(nil), b.refs...)
}

// WithModule loads a module file and prepends it to the reference set.
// The new bundle's search scope is widened with the file's directory.
func (b *Bundle) WithModule(path string) (*Bundle, error) {
	a, err := b.store.LoadFile(path)
	if err != nil {
		return nil, err
	}

	refs := append([]*assembly.Assembly{a}, b.refs...)
	dirs := b.extraDirs
	if dir := filepath.Dir(path); !containsDir(dirs, dir) {
		dirs = append([]string{dir}, dirs...)
	}
	return build(b.store, refs, dirs, b.settings), nil
}

// WithSettings attaches runtime configuration settings served to the
// rendering context's setting capability.
func (b *Bundle) WithSettings(settings map[string]string) *Bundle {
	return build(b.store, b.refs, b.extraDirs, settings)
}

// WithTransitiveReferences resolves the reference graph transitively,
// producing a complete, duplicate-free, dependency-respecting reference
// order. References that cannot be located are excluded from the edge set
// rather than failing the resolution; optional and foreign references are
// common. Back-edges in the file-level reference graph are skipped, which
// breaks reference cycles deterministically (the metadata-level closure
// still rejects declared dependency cycles).
func (b *Bundle) WithTransitiveReferences() (*Bundle, error) {
	loaded := make(map[string]*assembly.Assembly)
	for _, a := range b.refs {
		loaded[a.Raw()] = a
	}

	visited := make(map[string]bool)
	var ordered []*assembly.Assembly

	var visit func(a *assembly.Assembly) error
	visit = func(a *assembly.Assembly) error {
		if visited[a.Raw()] {
			return nil
		}
		visited[a.Raw()] = true

		for _, ref := range a.References() {
			dep, ok := loaded[ref]
			if !ok {
				path, found := b.store.ResolveReference(ref, b.extraDirs)
				if !found {
					Logger().Debug("reference not resolved, excluding from edge set",
						zap.String("module", a.Raw()),
						zap.String("reference", ref))
					continue
				}
				var err error
				dep, err = b.store.LoadFile(path)
				if err != nil {
					return err
				}
				loaded[ref] = dep
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		ordered = append(ordered, a)
		return nil
	}

	for _, a := range b.refs {
		if err := visit(a); err != nil {
			return nil, err
		}
	}

	return build(b.store, ordered, b.extraDirs, b.settings), nil
}

// Artifact accessors; each is memoized per bundle instance.

func (b *Bundle) CSS() *Artifact                { return b.artifacts[CSS] }
func (b *Bundle) HtmlHeaders() *Artifact        { return b.artifacts[HtmlHeaders] }
func (b *Bundle) HtmlHeadersScript() *Artifact  { return b.artifacts[HtmlHeadersScript] }
func (b *Bundle) JavaScript() *Artifact         { return b.artifacts[JavaScript] }
func (b *Bundle) MinifiedJavaScript() *Artifact { return b.artifacts[MinifiedJavaScript] }
func (b *Bundle) TypeScript() *Artifact         { return b.artifacts[TypeScript] }

// ByMode returns the artifact for a mode.
func (b *Bundle) ByMode(m Mode) *Artifact {
	return b.artifacts[m]
}

// render is the single routine behind every mode.
func (b *Bundle) render(mode Mode) (string, error) {
	reg := deps.Build(b.refs)

	roots := make([]deps.Node, 0, len(b.refs))
	for _, a := range b.refs {
		roots = append(roots, deps.Node{Assembly: a.Raw(), Mode: deps.CompiledAssembly})
	}
	closure, err := reg.Closure(roots)
	if err != nil {
		return "", err
	}

	ctx := b.contextFor(mode, reg)

	var sb strings.Builder
	for _, r := range reg.Renderers(closure) {
		if err := r.Render(ctx, &sb); err != nil {
			return "", err
		}
	}

	switch mode {
	case JavaScript, MinifiedJavaScript:
		sb.WriteString(bootstrap)
		sb.WriteByte('\n')
	case HtmlHeaders:
		sb.WriteString("<script>")
		sb.WriteString(bootstrap)
		sb.WriteString("</script>\n")
	}

	return sb.String(), nil
}

// renderHeadersScript re-wraps the HTML header markup as a script that
// injects it via document.write, for inclusion from a plain script tag.
func (b *Bundle) renderHeadersScript() (string, error) {
	headers, err := b.HtmlHeaders().Content()
	if err != nil {
		return "", err
	}
	return "document.write(\"" + escapeScriptString(headers) + "\");\n", nil
}

func escapeScriptString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '/':
			// Guard against closing the surrounding script element.
			sb.WriteString(`\/`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func containsDir(dirs []string, dir string) bool {
	for _, d := range dirs {
		if d == dir {
			return true
		}
	}
	return false
}
