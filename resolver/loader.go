package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/timeax/fortiplugin-bundle-adapter/errors"
)

// ModuleLoader loads a factory module by file reference. How a reference maps
// to a module is host policy: an in-process registry, a script engine, an
// asset pipeline.
type ModuleLoader interface {
	Load(ctx context.Context, fileRef string) (any, error)
}

// RegistryLoader is an in-memory ModuleLoader for hosts that preload their
// factory modules. Safe for concurrent use.
type RegistryLoader struct {
	mu      sync.RWMutex
	modules map[string]any
}

// NewRegistryLoader returns an empty registry.
func NewRegistryLoader() *RegistryLoader {
	return &RegistryLoader{modules: make(map[string]any)}
}

// Register binds a module value to a file reference, replacing any previous
// binding.
func (l *RegistryLoader) Register(fileRef string, module any) {
	l.mu.Lock()
	l.modules[fileRef] = module
	l.mu.Unlock()
}

// Load implements ModuleLoader.
func (l *RegistryLoader) Load(_ context.Context, fileRef string) (any, error) {
	l.mu.RLock()
	module, ok := l.modules[fileRef]
	l.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(errors.PhaseResolve, "module", fileRef)
	}
	return module, nil
}

// ModuleFetcher fetches a host component library by URL.
type ModuleFetcher interface {
	Fetch(ctx context.Context, id, url string) (any, error)
}

// HTTPFetcher fetches JSON module payloads over HTTP. An object payload
// becomes a map-shaped module; any other payload becomes its decoded value.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Fetch implements ModuleFetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, id, url string) (any, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("module payload is not valid JSON")
	}
	return gjson.ParseBytes(body).Value(), nil
}
