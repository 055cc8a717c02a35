package resolver

import (
	"context"

	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
)

// Config is one layer of resolver configuration. HostProps here override
// Env.HostProps at render time.
type Config struct {
	Env       Environment
	Options   Options
	HostProps bundleadapter.Props

	// Loader and Fetcher supply modules. Loader is required for Resolve;
	// Fetcher only when host modules are configured.
	Loader  ModuleLoader
	Fetcher ModuleFetcher
}

func mergeConfig(base, over Config) Config {
	out := Config{
		Env:       mergeEnvironment(base.Env, over.Env),
		Options:   mergeOptions(base.Options, over.Options),
		HostProps: mergeProps(base.HostProps, over.HostProps),
		Loader:    base.Loader,
		Fetcher:   base.Fetcher,
	}
	if over.Loader != nil {
		out.Loader = over.Loader
	}
	if over.Fetcher != nil {
		out.Fetcher = over.Fetcher
	}
	return out
}

// Composer is an immutable snapshot of resolver configuration. With derives
// new snapshots; siblings derived from one base never observe each other's
// overrides.
type Composer struct {
	cfg Config
}

// New creates a composer from a base configuration.
func New(cfg Config) *Composer {
	return &Composer{cfg: cfg}
}

// With returns a new composer layered over this one. The receiver is never
// mutated.
func (c *Composer) With(overrides Config) *Composer {
	return &Composer{cfg: mergeConfig(c.cfg, overrides)}
}

// Config returns a copy of the composer's effective configuration.
func (c *Composer) Config() Config {
	return mergeConfig(c.cfg, Config{})
}

// Resolve merges any per-call overrides onto the composer's configuration
// and resolves fileRef into a render handle.
func (c *Composer) Resolve(ctx context.Context, fileRef string, overrides ...Config) (*RenderHandle, error) {
	cfg := c.cfg
	for _, over := range overrides {
		cfg = mergeConfig(cfg, over)
	}
	r := &Resolver{Loader: cfg.Loader, Fetcher: cfg.Fetcher}
	return r.Resolve(ctx, fileRef, cfg.Env, cfg.Options, cfg.HostProps)
}

// Embed binds an embedding primitive to this composer.
func (c *Composer) Embed() *Embedding {
	return &Embedding{composer: c}
}
