package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
	"github.com/timeax/fortiplugin-bundle-adapter/errors"
)

type fakeComponent struct {
	name string
}

type settled struct {
	v   any
	err error
}

func (s settled) Await(context.Context) (any, error) {
	return s.v, s.err
}

func testEnv() Environment {
	return Environment{
		RenderingLibrary: bundleadapter.StdLibrary{},
		ElementFactory:   bundleadapter.StdLibrary{},
	}
}

func testResolver(modules map[string]any) *Resolver {
	loader := NewRegistryLoader()
	for ref, mod := range modules {
		loader.Register(ref, mod)
	}
	return &Resolver{Loader: loader}
}

func TestResolveComponentDirect(t *testing.T) {
	comp := fakeComponent{name: "app"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": comp},
	})

	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if h.WasFactory {
		t.Error("WasFactory = true for a non-callable export")
	}
	if h.Component != comp {
		t.Errorf("Component = %v, want %v", h.Component, comp)
	}
}

func TestResolveFactoryAuto(t *testing.T) {
	comp := fakeComponent{name: "made"}
	var gotArg map[string]any
	factory := func(arg map[string]any) any {
		gotArg = arg
		return comp
	}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": factory},
	})

	env := testEnv()
	env.Imports = bundleadapter.DependencyMap{"lib": "lib-module"}
	env.Extra = map[string]any{"host": "forti"}

	h, err := r.Resolve(context.Background(), "app.js", env, Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !h.WasFactory {
		t.Error("WasFactory = false for a called factory")
	}
	if h.Component != comp {
		t.Errorf("Component = %v, want %v", h.Component, comp)
	}

	deps, ok := gotArg["imports"].(bundleadapter.DependencyMap)
	if !ok {
		t.Fatalf("factory argument has no imports map: %v", gotArg)
	}
	if deps["lib"] != "lib-module" {
		t.Errorf("deps[lib] = %v", deps["lib"])
	}
	if _, ok := deps["react"]; !ok {
		t.Error("deps missing the rendering library seed")
	}
	if _, ok := deps["react/jsx-runtime"]; !ok {
		t.Error("deps missing the element factory seed")
	}
	if gotArg["host"] != "forti" {
		t.Errorf("extra value not in factory argument: %v", gotArg)
	}
}

func TestResolveAutoFailureFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		export any
	}{
		{"returns error", func(map[string]any) (any, error) {
			return nil, stderrors.New("boom")
		}},
		{"panics", func(map[string]any) any {
			panic("boom")
		}},
		{"returns nil", func(map[string]any) any {
			return nil
		}},
		{"returns element", func(map[string]any) any {
			return bundleadapter.NewElement("div", nil)
		}},
		{"awaitable error", func(map[string]any) any {
			return settled{err: stderrors.New("late boom")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testResolver(map[string]any{
				"app.js": map[string]any{"default": tt.export},
			})
			h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
			if err != nil {
				t.Fatalf("auto mode must not fail: %v", err)
			}
			if h.WasFactory {
				t.Error("WasFactory = true after rollback")
			}
		})
	}
}

func TestResolveFactoryModePropagates(t *testing.T) {
	r := testResolver(map[string]any{
		"bad.js": map[string]any{"default": func(map[string]any) (any, error) {
			return nil, stderrors.New("boom")
		}},
		"nil.js": map[string]any{"default": func(map[string]any) any {
			return nil
		}},
	})
	for _, ref := range []string{"bad.js", "nil.js"} {
		_, err := r.Resolve(context.Background(), ref, testEnv(), Options{Mode: ModeFactory}, nil)
		var want *errors.FactoryInvocationError
		if !stderrors.As(err, &want) {
			t.Errorf("Resolve(%s) error = %v, want FactoryInvocationError", ref, err)
		}
	}
}

func TestResolveModeComponentNeverCalls(t *testing.T) {
	called := false
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": func(map[string]any) any {
			called = true
			return fakeComponent{}
		}},
	})
	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{Mode: ModeComponent}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if called {
		t.Error("component mode invoked the export")
	}
	if h.WasFactory {
		t.Error("WasFactory = true in component mode")
	}
}

func TestResolveTaggedFactoryAlwaysCalled(t *testing.T) {
	comp := fakeComponent{name: "tagged"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": Factory(func(map[string]any) (any, error) {
			return comp, nil
		})},
	})
	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{Mode: ModeComponent}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !h.WasFactory || h.Component != comp {
		t.Errorf("tagged factory not called: wasFactory=%v component=%v", h.WasFactory, h.Component)
	}
}

func TestResolveUnwrapReturnedDefault(t *testing.T) {
	comp := fakeComponent{name: "inner"}
	module := map[string]any{"default": func(map[string]any) any {
		return map[string]any{"default": comp}
	}}
	r := testResolver(map[string]any{"app.js": module})

	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if h.Component != comp {
		t.Errorf("Component = %v, want unwrapped %v", h.Component, comp)
	}

	off := false
	h, err = r.Resolve(context.Background(), "app.js", testEnv(),
		Options{UnwrapReturnedDefault: &off}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, ok := h.Component.(map[string]any); !ok {
		t.Errorf("Component = %v, want the raw map", h.Component)
	}
}

func TestResolveAwaitableResult(t *testing.T) {
	comp := fakeComponent{name: "async"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": func(map[string]any) any {
			return settled{v: comp}
		}},
	})
	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !h.WasFactory || h.Component != comp {
		t.Errorf("awaitable not settled: wasFactory=%v component=%v", h.WasFactory, h.Component)
	}
}

func TestResolveContextAwareFactory(t *testing.T) {
	comp := fakeComponent{name: "ctx"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": func(ctx context.Context, arg map[string]any) (any, error) {
			if ctx == nil || arg == nil {
				return nil, stderrors.New("missing inputs")
			}
			return comp, nil
		}},
	})
	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{Mode: ModeFactory}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if h.Component != comp {
		t.Errorf("Component = %v", h.Component)
	}
}

func TestResolveExportNotFound(t *testing.T) {
	r := testResolver(map[string]any{
		"app.js": map[string]any{"named": 1, "other": 2},
	})
	_, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	var want *errors.ExportNotFoundError
	if !stderrors.As(err, &want) {
		t.Fatalf("Resolve() error = %v, want ExportNotFoundError", err)
	}
	if len(want.Available) != 2 || want.Available[0] != "named" || want.Available[1] != "other" {
		t.Errorf("Available = %v", want.Available)
	}
}

func TestResolveBareModuleSatisfiesDefault(t *testing.T) {
	comp := fakeComponent{name: "bare"}
	r := testResolver(map[string]any{"app.js": comp})
	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if h.Component != comp {
		t.Errorf("Component = %v", h.Component)
	}
}

type recordingFetcher struct {
	calls   []string
	modules map[string]any
	fail    map[string]error
}

func (f *recordingFetcher) Fetch(_ context.Context, id, url string) (any, error) {
	f.calls = append(f.calls, id)
	if err := f.fail[id]; err != nil {
		return nil, err
	}
	return f.modules[id], nil
}

func TestResolveHostModules(t *testing.T) {
	fetcher := &recordingFetcher{modules: map[string]any{
		"charts": "charts-module",
		"grid":   "grid-module",
		"lib":    "fetched-lib",
	}}
	comp := fakeComponent{name: "app"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": comp},
	})
	r.Fetcher = fetcher

	env := testEnv()
	env.Imports = bundleadapter.DependencyMap{"lib": "explicit-lib"}
	env.HostModules = []HostModule{
		{ID: "charts", URL: "https://host/charts"},
		{ID: "lib", URL: "https://host/lib"}, // present, no override
		{ID: "grid", URL: "https://host/grid"},
	}

	h, err := r.Resolve(context.Background(), "app.js", env, Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(fetcher.calls) != 2 || fetcher.calls[0] != "charts" || fetcher.calls[1] != "grid" {
		t.Errorf("fetch calls = %v, want [charts grid] in order", fetcher.calls)
	}
	if h.Dependencies["lib"] != "explicit-lib" {
		t.Errorf("explicit import overridden: %v", h.Dependencies["lib"])
	}
	if h.Dependencies["charts"] != "charts-module" || h.Dependencies["grid"] != "grid-module" {
		t.Errorf("fetched modules missing: %v", h.Dependencies)
	}

	// The fetch cache is per call: a second resolution fetches again and
	// the environment stays untouched.
	if _, err := r.Resolve(context.Background(), "app.js", env, Options{}, nil); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(fetcher.calls) != 4 {
		t.Errorf("fetch calls after second resolve = %d, want 4", len(fetcher.calls))
	}
	if _, ok := env.Imports["charts"]; ok {
		t.Error("resolution wrote a fetched module back into the environment")
	}

	// Override forces the fetch even when the id is present.
	env.HostModules[1].Override = true
	h, err = r.Resolve(context.Background(), "app.js", env, Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if h.Dependencies["lib"] != "fetched-lib" {
		t.Errorf("override ignored: %v", h.Dependencies["lib"])
	}
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := &recordingFetcher{fail: map[string]error{"charts": fmt.Errorf("410 gone")}}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": fakeComponent{}},
	})
	r.Fetcher = fetcher

	env := testEnv()
	env.HostModules = []HostModule{{ID: "charts", URL: "https://host/charts"}}

	_, err := r.Resolve(context.Background(), "app.js", env, Options{}, nil)
	var want *errors.DependencyFetchError
	if !stderrors.As(err, &want) {
		t.Fatalf("Resolve() error = %v, want DependencyFetchError", err)
	}
	if want.ID != "charts" || want.URL != "https://host/charts" {
		t.Errorf("error id/url = %q %q", want.ID, want.URL)
	}
}

func TestResolveRequiresEnvironment(t *testing.T) {
	r := testResolver(map[string]any{"app.js": fakeComponent{}})
	if _, err := r.Resolve(context.Background(), "app.js", Environment{}, Options{}, nil); err == nil {
		t.Fatal("Resolve() accepted an empty environment")
	}
}

func TestRenderPropMerge(t *testing.T) {
	comp := fakeComponent{name: "app"}
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": comp},
	})
	env := testEnv()
	env.HostProps = bundleadapter.Props{"b": 3}

	h, err := r.Resolve(context.Background(), "app.js", env, Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	el := h.Render(bundleadapter.Props{"a": 1, "b": 2})
	if el.Type != comp {
		t.Errorf("element type = %v", el.Type)
	}
	if el.Props["a"] != 1 || el.Props["b"] != 3 {
		t.Errorf("props = %v, want host props to win", el.Props)
	}
}

func TestRenderHostPropsOverride(t *testing.T) {
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": fakeComponent{}},
	})
	env := testEnv()
	env.HostProps = bundleadapter.Props{"theme": "light", "locale": "en"}

	h, err := r.Resolve(context.Background(), "app.js", env, Options{},
		bundleadapter.Props{"theme": "dark"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	el := h.Render(nil)
	if el.Props["theme"] != "dark" || el.Props["locale"] != "en" {
		t.Errorf("props = %v", el.Props)
	}
}

func TestRenderClonesElementComponent(t *testing.T) {
	base := bundleadapter.NewElement("div", bundleadapter.Props{"id": "x", "a": 1}, "child")
	r := testResolver(map[string]any{
		"app.js": map[string]any{"default": base},
	})

	h, err := r.Resolve(context.Background(), "app.js", testEnv(), Options{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	el := h.Render(bundleadapter.Props{"a": 2})
	if el == base {
		t.Fatal("element component was not cloned")
	}
	if el.Type != "div" || el.Props["id"] != "x" || el.Props["a"] != 2 {
		t.Errorf("clone = %+v", el)
	}
	if len(el.Children) != 1 || el.Children[0] != "child" {
		t.Errorf("children not carried: %v", el.Children)
	}
}
