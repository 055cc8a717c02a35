// Package bundler is the glue between the transform and the surrounding
// build tool: the external-id list the bundler must not bundle, the entry
// manifest the discovery step produces, and the batch in-place rewrite of
// emitted chunks.
package bundler

import (
	"context"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/viant/afs"

	"github.com/timeax/fortiplugin-bundle-adapter/errors"
	"github.com/timeax/fortiplugin-bundle-adapter/inject"
)

// Externals returns the exact ids the surrounding bundler must mark as
// external before bundling. Prefix rules are not expanded here; the bundler
// applies inject.Rules.Prefixes with its own prefix matching.
func Externals(rules inject.Rules) []string {
	return inject.NewMatcher(rules).IDs()
}

// EntryMap maps a logical entry name to the absolute path of its emitted
// chunk.
type EntryMap map[string]string

// Paths returns the entry paths sorted by entry name.
func (m EntryMap) Paths() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = m[name]
	}
	return paths
}

// LoadEntryManifest reads a discovery manifest of the shape
// {"entries": {"name": "/abs/path.js", ...}} from URL.
func LoadEntryManifest(ctx context.Context, fs afs.Service, URL string) (EntryMap, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.IO(errors.PhaseBundle, URL, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.PhaseBundle, errors.KindInvalidInput).
			File(URL).
			Detail("manifest is not valid JSON").
			Build()
	}

	entries := gjson.GetBytes(data, "entries")
	if !entries.Exists() || !entries.IsObject() {
		return nil, errors.New(errors.PhaseBundle, errors.KindInvalidInput).
			File(URL).
			Detail("manifest has no entries object").
			Build()
	}

	out := make(EntryMap)
	entries.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String && value.Str != "" {
			out[key.String()] = value.Str
		}
		return true
	})
	return out, nil
}
