package deps

import (
	"io"
	"strings"

	"github.com/websharper/wsc/res"
)

// Renderers binds each node to its metadata record so it can render
// through a rendering context without knowing the concrete registry.
// Nodes without a metadata record render only what the context's script
// capability serves them.
func (r *Registry) Renderers(nodes []Node) []res.Renderable {
	out := make([]res.Renderable, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &nodeRenderer{node: n, info: r.infoByName[n.Assembly]})
	}
	return out
}

// nodeRenderer renders one dependency node. It is mode-agnostic: it asks
// the context for everything it might emit and skips whatever the context
// declines.
type nodeRenderer struct {
	node Node
	info *Info
}

func (nr *nodeRenderer) Render(ctx *res.Context, w io.Writer) error {
	if script, ok := ctx.Script(nr.node.Assembly); ok {
		if err := res.WriteString(w, script); err != nil {
			return err
		}
		if !strings.HasSuffix(script, "\n") {
			if err := res.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	if nr.info == nil {
		return nil
	}
	for _, wr := range nr.info.Resources {
		content, ok := ctx.WebResource(nr.node.Assembly, wr.Name)
		if !ok {
			continue
		}
		// Identical content shared by several nodes expands once per pass.
		text, err := ctx.Memo(content, func() (string, error) {
			return expandSettings(content.Text, ctx), nil
		})
		if err != nil {
			return err
		}
		if err := res.WriteString(w, text); err != nil {
			return err
		}
		if !strings.HasSuffix(text, "\n") {
			if err := res.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandSettings substitutes ${key} placeholders with runtime settings
// resolved through the context. Unset placeholders pass through verbatim.
func expandSettings(text string, ctx *res.Context) string {
	if !strings.Contains(text, "${") {
		return text
	}

	var b strings.Builder
	for {
		start := strings.Index(text, "${")
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		end := strings.Index(text[start:], "}")
		if end < 0 {
			b.WriteString(text)
			return b.String()
		}
		end += start

		b.WriteString(text[:start])
		key := text[start+2 : end]
		if value, ok := ctx.Setting(key); ok {
			b.WriteString(value)
		} else {
			b.WriteString(text[start : end+1])
		}
		text = text[end+1:]
	}
}
