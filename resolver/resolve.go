package resolver

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
	"github.com/timeax/fortiplugin-bundle-adapter/errors"
)

// Resolver loads factory modules and turns them into render handles.
type Resolver struct {
	Loader  ModuleLoader
	Fetcher ModuleFetcher
}

// Resolve loads the module at fileRef, builds the dependency map from env,
// resolves the configured export into a component, and returns a bound render
// handle. hostPropsOverride wins over env.HostProps on key collision.
func (r *Resolver) Resolve(ctx context.Context, fileRef string, env Environment, opts Options, hostPropsOverride bundleadapter.Props) (*RenderHandle, error) {
	opts = opts.withDefaults()
	if r.Loader == nil {
		return nil, errors.InvalidInput(errors.PhaseResolve, "no module loader configured")
	}
	if env.RenderingLibrary == nil || env.ElementFactory == nil {
		return nil, errors.InvalidInput(errors.PhaseResolve,
			"environment requires a rendering library and an element factory")
	}

	resolutionID := uuid.NewString()
	log := Logger().With(
		zap.String("resolution_id", resolutionID),
		zap.String("file", fileRef))

	module, err := r.Loader.Load(ctx, fileRef)
	if err != nil {
		return nil, err
	}

	export, err := pickExport(module, opts.ExportName, fileRef)
	if err != nil {
		return nil, err
	}

	deps, err := r.buildDependencyMap(ctx, env, opts, log)
	if err != nil {
		return nil, err
	}

	arg := map[string]any{opts.RuntimeKey: deps}
	for k, v := range env.Extra {
		arg[k] = v
	}

	d := detect(ctx, export, arg, opts, fileRef)
	if d.state == detectFailed {
		return nil, d.err
	}

	hostProps := mergeProps(env.HostProps, hostPropsOverride)
	log.Debug("resolved plugin",
		zap.String("export", opts.ExportName),
		zap.Bool("was_factory", d.state == calledFactory),
		zap.Int("dependencies", len(deps)))

	return &RenderHandle{
		Component:    d.component,
		Module:       module,
		ExportName:   opts.ExportName,
		WasFactory:   d.state == calledFactory,
		FileRef:      fileRef,
		Dependencies: deps,
		HostProps:    hostProps,
		ResolutionID: resolutionID,
		creator:      env.ElementFactory,
		cloner:       env.RenderingLibrary,
	}, nil
}

// pickExport selects the export under name. Map-shaped modules expose exports
// as keys; a bare module value satisfies the "default" name itself.
func pickExport(module any, name string, fileRef string) (any, error) {
	if m, ok := bundleadapter.AsMap(module); ok {
		if v, exists := m[name]; exists {
			return v, nil
		}
		available := make([]string, 0, len(m))
		for k := range m {
			available = append(available, k)
		}
		return nil, errors.ExportNotFound(fileRef, name, available)
	}
	if name == "default" && module != nil {
		return module, nil
	}
	return nil, errors.ExportNotFound(fileRef, name, nil)
}

// buildDependencyMap seeds the map with the two required environment modules,
// overlays env.Imports, then fetches host modules in declaration order. The
// map is built fresh per resolution; fetched entries are never written back
// to the environment.
func (r *Resolver) buildDependencyMap(ctx context.Context, env Environment, opts Options, log *zap.Logger) (bundleadapter.DependencyMap, error) {
	deps := bundleadapter.DependencyMap{
		opts.RenderingLibraryID: env.RenderingLibrary,
		opts.ElementFactoryID:   env.ElementFactory,
	}
	for id, mod := range env.Imports {
		deps[id] = mod
	}

	for _, hm := range env.HostModules {
		if _, exists := deps[hm.ID]; exists && !hm.Override {
			continue
		}
		if r.Fetcher == nil {
			return nil, errors.DependencyFetch(hm.ID, hm.URL,
				errors.InvalidInput(errors.PhaseFetch, "no module fetcher configured"))
		}
		mod, err := r.Fetcher.Fetch(ctx, hm.ID, hm.URL)
		if err != nil {
			return nil, errors.DependencyFetch(hm.ID, hm.URL, err)
		}
		deps[hm.ID] = mod
		log.Debug("fetched host module",
			zap.String("id", hm.ID),
			zap.String("url", hm.URL))
	}
	return deps, nil
}
