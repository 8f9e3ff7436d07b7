package bundle

import (
	"io"
	"os"
	"sync"

	"github.com/websharper/wsc/errors"
	"github.com/websharper/wsc/res"
)

// Artifact is a pull-based, re-readable bundle output. The render runs at
// most once; the memoized text (or error) serves every later read.
type Artifact struct {
	name   string
	render func() (string, error)

	once sync.Once
	text string
	err  error
}

func newArtifact(name string, render func() (string, error)) *Artifact {
	return &Artifact{name: name, render: render}
}

// Name returns the artifact's mode name, for logging and diagnostics.
func (a *Artifact) Name() string {
	return a.name
}

// Content renders the artifact on first use and returns the memoized text.
func (a *Artifact) Content() (string, error) {
	a.once.Do(func() {
		a.text, a.err = a.render()
	})
	return a.text, a.err
}

// WriteTo writes the artifact text to a stream.
func (a *Artifact) WriteTo(w io.Writer) error {
	text, err := a.Content()
	if err != nil {
		return err
	}
	return res.WriteString(w, text)
}

// WriteFile writes the artifact to a file, always UTF-8 with no byte
// order mark.
func (a *Artifact) WriteFile(path string) error {
	text, err := a.Content()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindEncoding, err, "write bundle file")
	}
	return nil
}
