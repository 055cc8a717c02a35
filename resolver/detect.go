package resolver

import (
	"context"
	"fmt"
	"reflect"

	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
	"github.com/timeax/fortiplugin-bundle-adapter/errors"
)

// Factory tags a module export as a dependency factory. Tagged exports are
// always called, regardless of mode.
type Factory func(deps map[string]any) (any, error)

// Awaitable is implemented by factory results that settle asynchronously.
// The resolver awaits them before classifying the result.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// detectState is the detection outcome for one export.
type detectState int

const (
	componentDirect detectState = iota
	calledFactory
	detectFailed
)

type detection struct {
	state     detectState
	component any
	err       error
}

// detect resolves the component-vs-factory question for a picked export.
// The state machine has three terminal states; the only recoverable
// transition is a failed call attempt in auto mode, which lands on
// componentDirect with the original export.
func detect(ctx context.Context, export any, arg map[string]any, opts Options, fileRef string) detection {
	fn, callable := asCallable(export)
	_, tagged := export.(Factory)

	if !callable {
		return detection{state: componentDirect, component: export}
	}
	if opts.Mode == ModeComponent && !tagged {
		return detection{state: componentDirect, component: export}
	}

	result, err := invoke(ctx, fn, arg)
	if err == nil {
		if aw, ok := result.(Awaitable); ok {
			result, err = aw.Await(ctx)
		}
	}
	if err != nil {
		if opts.Mode == ModeFactory {
			return detection{state: detectFailed,
				err: errors.FactoryInvocation(fileRef, opts.ExportName, err, "factory call failed")}
		}
		// Auto-mode safety net: the export was not a factory after all.
		return detection{state: componentDirect, component: export}
	}

	if opts.unwrapReturnedDefault() {
		result = bundleadapter.Unwrap(result)
	}

	if result == nil || bundleadapter.IsElement(result) {
		if opts.Mode == ModeFactory {
			return detection{state: detectFailed,
				err: errors.FactoryInvocation(fileRef, opts.ExportName, nil,
					"factory call did not return a component export")}
		}
		return detection{state: componentDirect, component: export}
	}

	return detection{state: calledFactory, component: result}
}

func asCallable(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	return rv, rv.Kind() == reflect.Func && !rv.IsNil()
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// invoke calls a factory function with the argument object. Supported shapes:
// an optional leading context.Context, an optional parameter assignable from
// map[string]any, and an optional trailing error result. Panics are reported
// as errors.
func invoke(ctx context.Context, fn reflect.Value, arg map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("factory panicked: %v", r)
		}
	}()

	t := fn.Type()
	var in []reflect.Value

	next := 0
	if t.NumIn() > next && t.In(next) == ctxType {
		in = append(in, reflect.ValueOf(ctx))
		next++
	}
	if t.NumIn() > next {
		pt := t.In(next)
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("unsupported factory parameter type %s", pt)
		}
		in = append(in, av)
		next++
	}
	if t.NumIn() > next && !(t.IsVariadic() && next == t.NumIn()-1) {
		return nil, fmt.Errorf("unsupported factory signature %s", t)
	}

	out := fn.Call(in)
	if n := len(out); n > 0 && t.Out(n-1) == errType {
		if e := out[n-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) > 0 {
		return out[0].Interface(), nil
	}
	return nil, nil
}
