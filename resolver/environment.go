package resolver

import (
	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
)

// Mode selects how the resolver treats a callable export.
type Mode string

const (
	// ModeAuto calls the export and rolls back to treating it as a plain
	// component when the call fails or does not yield one.
	ModeAuto Mode = "auto"
	// ModeFactory requires the export to be a factory; call failures are
	// hard errors.
	ModeFactory Mode = "factory"
	// ModeComponent never calls the export, even when callable.
	ModeComponent Mode = "component"
)

// HostModule names a component library the host serves by URL. Entries are
// fetched in declaration order. An entry whose id already exists in the
// dependency map is skipped unless Override is set.
type HostModule struct {
	ID       string
	URL      string
	Override bool
}

// Environment is the host-supplied dependency environment. It is read-only
// from the resolver's perspective; one environment serves many resolutions.
type Environment struct {
	// RenderingLibrary and ElementFactory are required. They seed the
	// dependency map under Options.RenderingLibraryID and
	// Options.ElementFactoryID.
	RenderingLibrary any
	ElementFactory   any

	// Imports is merged into the dependency map over the two seeds.
	Imports bundleadapter.DependencyMap

	// HostModules are fetched lazily, per resolution, in order.
	HostModules []HostModule

	// HostProps win over caller props on every render from this
	// environment.
	HostProps bundleadapter.Props

	// Extra travels alongside the import map in the factory argument.
	Extra map[string]any
}

// Options tunes one resolution.
type Options struct {
	// ExportName is the module export to resolve. Defaults to "default".
	ExportName string

	// Mode defaults to ModeAuto.
	Mode Mode

	// RuntimeKey is the factory-argument key carrying the dependency map.
	// Defaults to "imports"; must match the transform configuration.
	RuntimeKey string

	// RenderingLibraryID and ElementFactoryID are the dependency-map ids
	// for the two required environment modules. Default to "react" and
	// "react/jsx-runtime".
	RenderingLibraryID string
	ElementFactoryID   string

	// UnwrapReturnedDefault applies the default-unwrap rule to factory
	// call results. Nil means enabled.
	UnwrapReturnedDefault *bool
}

func (o Options) withDefaults() Options {
	if o.ExportName == "" {
		o.ExportName = "default"
	}
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if o.RuntimeKey == "" {
		o.RuntimeKey = "imports"
	}
	if o.RenderingLibraryID == "" {
		o.RenderingLibraryID = "react"
	}
	if o.ElementFactoryID == "" {
		o.ElementFactoryID = "react/jsx-runtime"
	}
	return o
}

func (o Options) unwrapReturnedDefault() bool {
	return o.UnwrapReturnedDefault == nil || *o.UnwrapReturnedDefault
}

// mergeEnvironment layers over onto base without mutating either. Maps are
// deep-merged; HostModules merge by id, base order first.
func mergeEnvironment(base, over Environment) Environment {
	out := Environment{
		RenderingLibrary: base.RenderingLibrary,
		ElementFactory:   base.ElementFactory,
		Imports:          mergeAnyMap(base.Imports, over.Imports),
		HostProps:        mergeProps(base.HostProps, over.HostProps),
		Extra:            mergeAnyMap(base.Extra, over.Extra),
	}
	if over.RenderingLibrary != nil {
		out.RenderingLibrary = over.RenderingLibrary
	}
	if over.ElementFactory != nil {
		out.ElementFactory = over.ElementFactory
	}
	out.HostModules = mergeHostModules(base.HostModules, over.HostModules)
	return out
}

func mergeHostModules(base, over []HostModule) []HostModule {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make([]HostModule, 0, len(base)+len(over))
	index := make(map[string]int, len(base))
	for _, hm := range base {
		index[hm.ID] = len(out)
		out = append(out, hm)
	}
	for _, hm := range over {
		if i, ok := index[hm.ID]; ok {
			out[i] = hm
			continue
		}
		index[hm.ID] = len(out)
		out = append(out, hm)
	}
	return out
}

func mergeOptions(base, over Options) Options {
	out := base
	if over.ExportName != "" {
		out.ExportName = over.ExportName
	}
	if over.Mode != "" {
		out.Mode = over.Mode
	}
	if over.RuntimeKey != "" {
		out.RuntimeKey = over.RuntimeKey
	}
	if over.RenderingLibraryID != "" {
		out.RenderingLibraryID = over.RenderingLibraryID
	}
	if over.ElementFactoryID != "" {
		out.ElementFactoryID = over.ElementFactoryID
	}
	if over.UnwrapReturnedDefault != nil {
		out.UnwrapReturnedDefault = over.UnwrapReturnedDefault
	}
	return out
}

func mergeAnyMap[M ~map[string]any](base, over M) M {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(M, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeProps(base, over bundleadapter.Props) bundleadapter.Props {
	return mergeAnyMap(base, over)
}
