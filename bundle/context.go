package bundle

import (
	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/deps"
	"github.com/websharper/wsc/res"
)

// contextFor wires a fresh rendering context for one mode. Mode
// exclusivity lives entirely here: each mode installs only the
// capabilities it serves, and a node asking through a missing capability
// is declined, never failed.
func (b *Bundle) contextFor(mode Mode, reg *deps.Registry) *res.Context {
	ctx := &res.Context{Debug: mode == JavaScript}

	if b.settings != nil {
		ctx.GetSetting = func(key string) (string, bool) {
			v, ok := b.settings[key]
			return v, ok
		}
	}

	switch mode {
	case CSS, HtmlHeaders:
		// Style channels serve style-sheet resources only; HtmlHeaders
		// additionally wraps them in link-equivalent inline markup.
		ctx.GetWebResource = func(module, name string) (res.Content, bool) {
			content, ok := lookupResource(reg, module, name)
			if !ok || content.Kind != "text/css" {
				return res.Content{}, false
			}
			if mode == HtmlHeaders {
				content.Text = "<style>" + content.Text + "</style>"
			}
			return content, true
		}

	case JavaScript, MinifiedJavaScript:
		preferred := assembly.CompressedScript
		fallback := assembly.ReadableScript
		if mode == JavaScript {
			preferred, fallback = fallback, preferred
		}
		ctx.GetScript = func(_ bool, module string) (string, bool) {
			a, ok := reg.Assembly(module)
			if !ok {
				return "", false
			}
			if s, ok := a.Text(preferred); ok {
				return s, true
			}
			// A module built with only one script fidelity still bundles.
			return a.Text(fallback)
		}
		ctx.GetWebResource = func(module, name string) (res.Content, bool) {
			content, ok := lookupResource(reg, module, name)
			if !ok || !isScriptKind(content.Kind) {
				return res.Content{}, false
			}
			return content, true
		}

	case TypeScript:
		ctx.GetScript = func(_ bool, module string) (string, bool) {
			a, ok := reg.Assembly(module)
			if !ok {
				return "", false
			}
			return a.Text(assembly.Declarations)
		}
	}

	return ctx
}

// lookupResource resolves a declared web resource's payload and declared
// content kind from the registry.
func lookupResource(reg *deps.Registry, module, name string) (res.Content, bool) {
	info, ok := reg.Info(module)
	if !ok {
		return res.Content{}, false
	}
	kind := ""
	for _, wr := range info.Resources {
		if wr.Name == name {
			kind = wr.Kind
			break
		}
	}
	if kind == "" {
		return res.Content{}, false
	}

	a, ok := reg.Assembly(module)
	if !ok {
		return res.Content{}, false
	}
	data, ok := a.WebResource(name)
	if !ok {
		return res.Content{}, false
	}
	return res.Content{Text: string(data), Kind: kind, Name: name}, true
}

func isScriptKind(kind string) bool {
	switch kind {
	case "text/javascript", "application/javascript", "module":
		return true
	}
	return false
}
