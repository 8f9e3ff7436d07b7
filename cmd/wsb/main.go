package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/websharper/wsc/assembly"
	"github.com/websharper/wsc/bundle"
	"github.com/websharper/wsc/config"
	"github.com/websharper/wsc/deps"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to HCL configuration file")
		outDir      = flag.String("out", "", "Output directory (overrides configuration)")
		mode        = flag.String("mode", "all", "Artifacts to write: js, min, css, html, html-js, dts, all")
		settingsStr = flag.String("set", "", "Runtime settings (KEY=VAL,KEY2=VAL2)")
		list        = flag.Bool("list", false, "List resolved module references and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: wsb [flags] <module.wsm> [more.wsm ...]")
		fmt.Fprintln(os.Stderr, "       wsb -list <module.wsm>")
		fmt.Fprintln(os.Stderr, "       wsb -i <module.wsm>  (interactive mode)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		assembly.SetLogger(logger)
		deps.SetLogger(logger)
		bundle.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(flag.Args(), *configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(flag.Args(), *configFile, *outDir, *mode, *settingsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadBundle builds the resolved bundle shared by batch and interactive
// modes.
func loadBundle(modules []string, configFile, settingsStr string) (*bundle.Bundle, *config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFile(configFile); err != nil {
			return nil, nil, err
		}
	}

	settings := make(map[string]string)
	for k, v := range cfg.Settings {
		settings[k] = v
	}
	if settingsStr != "" {
		for _, kv := range strings.Split(settingsStr, ",") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				settings[parts[0]] = parts[1]
			}
		}
	}

	store := assembly.NewStore(cfg.SearchPaths...)
	b := bundle.New(store)

	// WithModule prepends, so walk the arguments backwards to keep the
	// command-line order in the reference set.
	for i := len(modules) - 1; i >= 0; i-- {
		var err error
		if b, err = b.WithModule(modules[i]); err != nil {
			return nil, nil, err
		}
	}

	b, err := b.WithTransitiveReferences()
	if err != nil {
		return nil, nil, err
	}
	if len(settings) > 0 {
		b = b.WithSettings(settings)
	}
	return b, cfg, nil
}

func run(modules []string, configFile, outDir, mode, settingsStr string, listOnly bool) error {
	b, cfg, err := loadBundle(modules, configFile, settingsStr)
	if err != nil {
		return err
	}

	if listOnly {
		fmt.Printf("Resolved modules:\n")
		for _, a := range b.References() {
			marker := ""
			if a.Symbols() != nil {
				marker = " [symbols]"
			}
			fmt.Printf("  %s (%s)%s\n", a.Raw(), a.Name().Version, marker)
		}
		return nil
	}

	if outDir == "" {
		outDir = cfg.Output
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	type output struct {
		selector string
		file     string
		artifact *bundle.Artifact
	}
	outputs := []output{
		{"js", "bundle.js", b.JavaScript()},
		{"min", "bundle.min.js", b.MinifiedJavaScript()},
		{"css", "bundle.css", b.CSS()},
		{"html", "bundle.head.html", b.HtmlHeaders()},
		{"html-js", "bundle.head.js", b.HtmlHeadersScript()},
		{"dts", "bundle.d.ts", b.TypeScript()},
	}

	matched := false
	for _, o := range outputs {
		if mode != "all" && mode != o.selector {
			continue
		}
		matched = true
		path := filepath.Join(outDir, o.file)
		if err := o.artifact.WriteFile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	if !matched {
		return fmt.Errorf("unknown mode %q", mode)
	}
	return nil
}
