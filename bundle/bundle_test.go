package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/websharper/wsc"
	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/container"
	"github.com/websharper/wsc/deps"
)

// moduleSpec describes one on-disk test module.
type moduleSpec struct {
	name      string
	refs      []string
	requires  []string
	script    string
	minified  string
	decls     string
	resources []container.Resource
	webRes    []deps.WebResource
}

func writeModule(t *testing.T, dir string, spec moduleSpec) string {
	t.Helper()

	c := &container.Container{
		Name:        spec.name,
		VersionText: "1.0.0.0",
		References:  spec.refs,
	}
	copy(c.Fingerprint[:], spec.name)

	var requires []deps.Node
	for _, r := range spec.requires {
		requires = append(requires, deps.Node{Assembly: r, Mode: deps.CompiledAssembly})
	}
	info := &deps.Info{
		Name:      wsc.Name{Name: spec.name, Version: "1.0.0.0"},
		Requires:  requires,
		Resources: spec.webRes,
	}
	c.SetResource(assembly.Metadata.ResourceName(), info.Encode())

	ri := &deps.RuntimeInfo{Name: info.Name, Fingerprint: c.Fingerprint}
	c.SetResource(assembly.RuntimeMetadata.ResourceName(), ri.Encode())

	if spec.script != "" {
		c.SetResource(assembly.ReadableScript.ResourceName(), []byte(spec.script))
	}
	if spec.minified != "" {
		c.SetResource(assembly.CompressedScript.ResourceName(), []byte(spec.minified))
	}
	if spec.decls != "" {
		c.SetResource(assembly.Declarations.ResourceName(), []byte(spec.decls))
	}
	for _, r := range spec.resources {
		c.SetResource(r.Name, r.Data)
	}

	path := filepath.Join(dir, spec.name+assembly.Ext)
	if err := os.WriteFile(path, c.Encode(), 0o644); err != nil {
		t.Fatalf("write module %s: %v", spec.name, err)
	}
	return path
}

func TestTransitiveBundleOrder(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, moduleSpec{
		name:     "Lib.Core",
		script:   "var Core = {};\n",
		minified: "var Core={};\n",
	})
	pathApp := writeModule(t, dir, moduleSpec{
		name:     "App.Main",
		refs:     []string{"Lib.Core"},
		requires: []string{"Lib.Core"},
		script:   "App.run(Core);\n",
		minified: "App.run(Core);\n",
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}
	b, err = b.WithTransitiveReferences()
	if err != nil {
		t.Fatalf("WithTransitiveReferences: %v", err)
	}

	js, err := b.JavaScript().Content()
	if err != nil {
		t.Fatalf("JavaScript: %v", err)
	}

	want := "var Core = {};\nApp.run(Core);\nWebSharper.Runtime.Start();\n"
	if js != want {
		t.Errorf("javascript output mismatch:\ngot:  %q\nwant: %q", js, want)
	}

	refs := b.References()
	if len(refs) != 2 || refs[0].Raw() != "Lib.Core" || refs[1].Raw() != "App.Main" {
		names := make([]string, 0, len(refs))
		for _, r := range refs {
			names = append(names, r.Raw())
		}
		t.Errorf("reference order = %v, want [Lib.Core App.Main]", names)
	}
}

func TestUnresolvedReferenceExcluded(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name:     "App.Main",
		refs:     []string{"System.Runtime", "App.Main"},
		script:   "App.run();\n",
		minified: "App.run();\n",
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}
	b, err = b.WithTransitiveReferences()
	if err != nil {
		t.Fatalf("WithTransitiveReferences: %v", err)
	}

	// The foreign reference is excluded; the self-edge is a back-edge and
	// is skipped rather than rejected.
	refs := b.References()
	if len(refs) != 1 || refs[0].Raw() != "App.Main" {
		t.Fatalf("unexpected references: %d", len(refs))
	}

	if _, err := b.JavaScript().Content(); err != nil {
		t.Errorf("JavaScript: %v", err)
	}
}

func TestModeExclusivity(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name:     "App.Main",
		script:   "App.run();\n",
		minified: "App.run()\n",
		decls:    "declare module App;\n",
		resources: []container.Resource{
			{Name: "styles.css", Data: []byte("body { margin: 0 }\n")},
		},
		webRes: []deps.WebResource{{Name: "styles.css", Kind: "text/css"}},
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}

	css, err := b.CSS().Content()
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}
	if !strings.Contains(css, "body { margin: 0 }") {
		t.Errorf("css output missing style content: %q", css)
	}
	if strings.Contains(css, "App.run") || strings.Contains(css, "Runtime.Start") {
		t.Errorf("css output leaked script content: %q", css)
	}

	js, err := b.JavaScript().Content()
	if err != nil {
		t.Fatalf("JavaScript: %v", err)
	}
	if strings.Contains(js, "margin") {
		t.Errorf("javascript output leaked style content: %q", js)
	}
	if !strings.Contains(js, "App.run();") {
		t.Errorf("javascript output missing readable script: %q", js)
	}

	min, err := b.MinifiedJavaScript().Content()
	if err != nil {
		t.Fatalf("MinifiedJavaScript: %v", err)
	}
	if !strings.Contains(min, "App.run()\n") {
		t.Errorf("minified output missing compressed script: %q", min)
	}

	dts, err := b.TypeScript().Content()
	if err != nil {
		t.Fatalf("TypeScript: %v", err)
	}
	if dts != "declare module App;\n" {
		t.Errorf("typescript output = %q", dts)
	}
}

func TestScriptFidelityFallback(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name:   "App.Main",
		script: "App.run();\n",
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}

	min, err := b.MinifiedJavaScript().Content()
	if err != nil {
		t.Fatalf("MinifiedJavaScript: %v", err)
	}
	if !strings.Contains(min, "App.run();") {
		t.Errorf("minified mode did not fall back to readable script: %q", min)
	}
}

func TestSettingsExpansion(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name: "App.Main",
		resources: []container.Resource{
			{Name: "theme.css", Data: []byte("body { color: ${theme.color} }\n")},
		},
		webRes: []deps.WebResource{{Name: "theme.css", Kind: "text/css"}},
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}
	b = b.WithSettings(map[string]string{"theme.color": "teal"})

	css, err := b.CSS().Content()
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}
	if !strings.Contains(css, "color: teal") {
		t.Errorf("setting placeholder not expanded: %q", css)
	}
}

func TestHtmlHeadersAndScriptWrapper(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name: "App.Main",
		resources: []container.Resource{
			{Name: "styles.css", Data: []byte("p { margin: 0 }")},
		},
		webRes: []deps.WebResource{{Name: "styles.css", Kind: "text/css"}},
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}

	headers, err := b.HtmlHeaders().Content()
	if err != nil {
		t.Fatalf("HtmlHeaders: %v", err)
	}
	if !strings.Contains(headers, "<style>p { margin: 0 }</style>") {
		t.Errorf("headers missing style element: %q", headers)
	}
	if !strings.Contains(headers, "<script>WebSharper.Runtime.Start();</script>") {
		t.Errorf("headers missing bootstrap: %q", headers)
	}

	script, err := b.HtmlHeadersScript().Content()
	if err != nil {
		t.Fatalf("HtmlHeadersScript: %v", err)
	}
	if !strings.HasPrefix(script, `document.write("`) {
		t.Errorf("wrapper missing document.write: %q", script)
	}
	if strings.Contains(script, "</script>") {
		t.Errorf("wrapper leaves unescaped closing script tag: %q", script)
	}
	if !strings.Contains(script, `<\/style>`) {
		t.Errorf("wrapper missing escaped markup: %q", script)
	}
}

func TestArtifactsMemoized(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name:     "App.Main",
		script:   "App.run();\n",
		minified: "App.run();\n",
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}

	if b.JavaScript() != b.JavaScript() {
		t.Fatal("accessor returned distinct artifact instances")
	}

	first, err := b.JavaScript().Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	second, err := b.JavaScript().Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if first != second {
		t.Error("memoized content differs between calls")
	}
}

func TestArtifactWriteFile(t *testing.T) {
	dir := t.TempDir()
	pathApp := writeModule(t, dir, moduleSpec{
		name:     "App.Main",
		script:   "App.run();\n",
		minified: "App.run();\n",
	})

	store := assembly.NewStore(dir)
	b, err := New(store).WithModule(pathApp)
	if err != nil {
		t.Fatalf("WithModule: %v", err)
	}

	out := filepath.Join(dir, "bundle.js")
	if err := b.JavaScript().WriteFile(out); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content, _ := b.JavaScript().Content()
	if string(data) != content {
		t.Error("written file differs from artifact content")
	}
}
