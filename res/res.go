// Package res defines the resource rendering protocol.
//
// A dependency node renders itself by calling back into a Context carrying
// the small set of capabilities it may need: resolve a module's script
// text, resolve a web resource's content, resolve a runtime setting. Each
// capability may decline, which means "nothing to emit for this node in
// this mode", a normal outcome and never an error. Node implementations are
// mode-agnostic; mode selection happens entirely in how the Context is
// wired (a style-only context leaves every non-style capability nil).
//
// Render results for identical Content values are memoized per Context,
// so a resource shared by many nodes is resolved and encoded once per
// render pass. A Context must not be shared across render passes.
package res

import (
	"io"
)

// Content identifies a web resource's resolved payload. Two Content
// values are equal iff all three fields match, which makes Content the
// render-result cache key.
type Content struct {
	Text string
	Kind string
	Name string
}

// Context is the capability object a node renders through.
// Nil capabilities always decline.
type Context struct {
	// Debug selects readable script payloads over minified ones.
	Debug bool

	// GetScript resolves a module's script payload by raw module name.
	GetScript func(debug bool, module string) (string, bool)

	// GetWebResource resolves a web resource's content and content kind
	// by owning module and resource name.
	GetWebResource func(module, name string) (Content, bool)

	// GetSetting resolves a named runtime configuration setting.
	GetSetting func(key string) (string, bool)

	memo map[Content]string
}

// Script resolves the current module script payload, or declines.
func (c *Context) Script(module string) (string, bool) {
	if c.GetScript == nil {
		return "", false
	}
	return c.GetScript(c.Debug, module)
}

// WebResource resolves a web resource, or declines.
func (c *Context) WebResource(module, name string) (Content, bool) {
	if c.GetWebResource == nil {
		return Content{}, false
	}
	return c.GetWebResource(module, name)
}

// Setting resolves a runtime setting, or declines.
func (c *Context) Setting(key string) (string, bool) {
	if c.GetSetting == nil {
		return "", false
	}
	return c.GetSetting(key)
}

// Memo returns the cached render result for content, computing and
// caching it on first use. Errors are returned without being cached, so
// a failed computation is retried on the next call.
func (c *Context) Memo(content Content, f func() (string, error)) (string, error) {
	if c.memo == nil {
		c.memo = make(map[Content]string)
	}
	if s, ok := c.memo[content]; ok {
		return s, nil
	}
	s, err := f()
	if err != nil {
		return "", err
	}
	c.memo[content] = s
	return s, nil
}

// Renderable is anything that can emit itself through a Context into an
// output sink. Failures abort the whole render pass.
type Renderable interface {
	Render(ctx *Context, w io.Writer) error
}

// WriteString writes s to w, surfacing short writes as errors.
func WriteString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
