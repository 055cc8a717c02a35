package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/viant/afs"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/timeax/fortiplugin-bundle-adapter/bundler"
	"github.com/timeax/fortiplugin-bundle-adapter/inject"
	"github.com/timeax/fortiplugin-bundle-adapter/transform"
)

func main() {
	var (
		ids         = flag.String("ids", "", "Injected import ids (comma-separated)")
		prefixes    = flag.String("prefixes", "", "Injected import id prefixes (comma-separated)")
		manifest    = flag.String("manifest", "", "Entry manifest JSON with {\"entries\": {name: path}}")
		runtimeKey  = flag.String("key", "", "Dependency-map key in the factory argument (default imports)")
		depsParam   = flag.String("param", "", "Factory parameter name (default deps)")
		factoryName = flag.String("factory", "", "Factory function name (default __bundleFactory)")
		policy      = flag.String("policy", "skip", "Missing-default policy: skip, return-null, throw")
		dryRun      = flag.Bool("dry", false, "Print rewritten output instead of writing in place")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI preview")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 && *manifest == "" {
		fmt.Fprintln(os.Stderr, "Usage: rewrite -ids react,react/jsx-runtime [flags] <file.js> [...]")
		fmt.Fprintln(os.Stderr, "       rewrite -ids ... -manifest entries.json")
		fmt.Fprintln(os.Stderr, "       rewrite -ids ... -i <file.js> [...]  (interactive mode)")
		os.Exit(1)
	}

	cfg := transform.DefaultConfig(inject.Rules{
		IDs:      splitList(*ids),
		Prefixes: splitList(*prefixes),
	})
	if *runtimeKey != "" {
		cfg.RuntimeKey = *runtimeKey
	}
	if *depsParam != "" {
		cfg.DepsParam = *depsParam
	}
	if *factoryName != "" {
		cfg.FactoryName = *factoryName
	}
	cfg.OnMissingDefault = transform.MissingDefaultPolicy(*policy)

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			transform.SetLogger(log)
			bundler.SetLogger(log)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(files, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(files, *manifest, cfg, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(files []string, manifestURL string, cfg transform.Config, dryRun bool) error {
	ctx := context.Background()
	fs := afs.New()

	if manifestURL != "" {
		entries, err := bundler.LoadEntryManifest(ctx, fs, manifestURL)
		if err != nil {
			return err
		}
		files = append(files, entries.Paths()...)
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to rewrite")
	}

	if dryRun {
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			out, err := transform.Rewrite(src, cfg)
			if err != nil {
				return err
			}
			if len(files) > 1 {
				fmt.Printf("--- %s ---\n", file)
			}
			os.Stdout.Write(out)
		}
		return nil
	}

	if err := bundler.RewriteOutputs(ctx, fs, cfg, files); err != nil {
		return err
	}
	fmt.Printf("Rewrote %d file(s)\n", len(files))
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
