// Package config loads bundler configuration from HCL files.
//
// A configuration file supplies the module search paths, the runtime
// settings served to resource rendering, and output preferences. Setting
// values are HCL expressions evaluated against a small context exposing
// the process environment, so a file can say
//
//	settings = {
//	  "api.endpoint" = env.API_ENDPOINT
//	}
//
// without baking deployment values into the file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/websharper/wsc/errors"
)

// Config is the resolved bundler configuration.
type Config struct {
	// SearchPaths are the module store's search directories, probed in
	// order during reference resolution.
	SearchPaths []string

	// Settings are the runtime settings served to the rendering context.
	Settings map[string]string

	// Debug selects readable script output over minified.
	Debug bool

	// Output is the directory bundle artifacts are written to.
	Output string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Output: "."}
}

// fileConfig mirrors the HCL file structure for decoding.
type fileConfig struct {
	SearchPaths []string          `hcl:"search_paths,optional"`
	Settings    map[string]string `hcl:"settings,optional"`
	Debug       bool              `hcl:"debug,optional"`
	Output      string            `hcl:"output,optional"`
}

// LoadFile parses and evaluates a configuration file.
func LoadFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, diags,
			fmt.Sprintf("parse configuration file %s", path))
	}
	return decode(file)
}

// Load parses and evaluates configuration source, with filename used only
// in diagnostics.
func Load(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, diags,
			fmt.Sprintf("parse configuration %s", filename))
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	diags := gohcl.DecodeBody(file.Body, evalContext(), &fc)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, diags,
			"decode configuration")
	}

	c := Default()
	c.SearchPaths = fc.SearchPaths
	c.Settings = fc.Settings
	c.Debug = fc.Debug
	if fc.Output != "" {
		c.Output = fc.Output
	}
	return c, nil
}

// evalContext exposes the process environment as the env object, so
// setting expressions can reference deployment values.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
