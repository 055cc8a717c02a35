package bundler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/timeax/fortiplugin-bundle-adapter/inject"
	"github.com/timeax/fortiplugin-bundle-adapter/transform"
)

func TestExternals(t *testing.T) {
	rules := inject.Rules{IDs: []string{"react", "lib", "react", ""}}
	got := Externals(rules)
	want := []string{"react", "lib"}
	if len(got) != len(want) {
		t.Fatalf("Externals() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Externals()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadEntryManifest(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	const url = "mem://localhost/build/manifest.json"

	manifest := `{"entries": {"widget": "/dist/widget.js", "panel": "/dist/panel.js"}}`
	if err := fs.Upload(ctx, url, file.DefaultFileOsMode, strings.NewReader(manifest)); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	entries, err := LoadEntryManifest(ctx, fs, url)
	if err != nil {
		t.Fatalf("LoadEntryManifest() error: %v", err)
	}
	if entries["widget"] != "/dist/widget.js" || entries["panel"] != "/dist/panel.js" {
		t.Errorf("entries = %v", entries)
	}

	paths := entries.Paths()
	if len(paths) != 2 || paths[0] != "/dist/panel.js" || paths[1] != "/dist/widget.js" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestLoadEntryManifestInvalid(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"entries":`},
		{"no entries", `{"outputs": {}}`},
		{"entries not object", `{"entries": []}`},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := fmt.Sprintf("mem://localhost/bad/%d.json", i)
			if err := fs.Upload(ctx, url, file.DefaultFileOsMode, strings.NewReader(tt.body)); err != nil {
				t.Fatalf("Upload() error: %v", err)
			}
			if _, err := LoadEntryManifest(ctx, fs, url); err == nil {
				t.Fatal("LoadEntryManifest() accepted an invalid manifest")
			}
		})
	}
}

func TestRewriteOutputs(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	cfg := transform.DefaultConfig(inject.Rules{IDs: []string{"lib"}})

	var paths []string
	for i := 0; i < 8; i++ {
		url := fmt.Sprintf("mem://localhost/out/chunk%d.js", i)
		src := fmt.Sprintf("import { h } from \"lib\";\nexport default function C%d() { return h; }\n", i)
		if err := fs.Upload(ctx, url, file.DefaultFileOsMode, strings.NewReader(src)); err != nil {
			t.Fatalf("Upload() error: %v", err)
		}
		paths = append(paths, url)
	}

	if err := RewriteOutputs(ctx, fs, cfg, paths); err != nil {
		t.Fatalf("RewriteOutputs() error: %v", err)
	}
	for _, url := range paths {
		data, err := fs.DownloadWithURL(ctx, url)
		if err != nil {
			t.Fatalf("DownloadWithURL(%s) error: %v", url, err)
		}
		if !bytes.Contains(data, []byte("__bundleFactory")) {
			t.Errorf("%s was not rewritten:\n%s", url, data)
		}
	}
}

func TestRewriteOutputsKeepsGoingOnError(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	cfg := transform.DefaultConfig(inject.Rules{})

	bad := "mem://localhost/partial/bad.js"
	good := "mem://localhost/partial/good.js"
	if err := fs.Upload(ctx, bad, file.DefaultFileOsMode, strings.NewReader("export default \"unterminated\n")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if err := fs.Upload(ctx, good, file.DefaultFileOsMode, strings.NewReader("export default function App() {}\n")); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if err := RewriteOutputs(ctx, fs, cfg, []string{bad, good}); err == nil {
		t.Fatal("RewriteOutputs() swallowed the parse failure")
	}
	data, err := fs.DownloadWithURL(ctx, good)
	if err != nil {
		t.Fatalf("DownloadWithURL() error: %v", err)
	}
	if !bytes.Contains(data, []byte("__bundleFactory")) {
		t.Errorf("healthy chunk was not rewritten:\n%s", data)
	}
}
