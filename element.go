package bundleadapter

// Props holds the properties applied to a rendered element.
type Props map[string]any

// DependencyMap maps an import id to the module value the host supplies for it.
type DependencyMap map[string]any

// Element is a renderable element value: the output of a render function and
// the unit the host's rendering library ultimately consumes.
type Element struct {
	Type     any
	Props    Props
	Children []any
}

// NewElement constructs an element from a component type and props.
func NewElement(typ any, props Props, children ...any) *Element {
	return &Element{Type: typ, Props: props, Children: children}
}

// IsElement reports whether v is already a renderable element value.
func IsElement(v any) bool {
	_, ok := v.(*Element)
	return ok
}

// CloneElement returns a copy of el with overrides merged over its props.
// Children are carried over unchanged.
func CloneElement(el *Element, overrides Props) *Element {
	props := make(Props, len(el.Props)+len(overrides))
	for k, v := range el.Props {
		props[k] = v
	}
	for k, v := range overrides {
		props[k] = v
	}
	return &Element{Type: el.Type, Props: props, Children: el.Children}
}

// AsMap exposes a module value as an export map when it has one.
// Covers the map-shaped aliases used across the library.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case DependencyMap:
		return m, true
	case Props:
		return m, true
	}
	return nil, false
}

// Unwrap applies the default-unwrap rule: a non-nil map-shaped module with a
// "default" entry unwraps to that entry, anything else unwraps to itself.
// This normalizes namespace-style modules against direct component values.
func Unwrap(v any) any {
	if m, ok := AsMap(v); ok && m != nil {
		if d, exists := m["default"]; exists {
			return d
		}
	}
	return v
}

// ElementCreator is implemented by element-factory modules that construct
// elements themselves instead of using the built-in Element type.
type ElementCreator interface {
	CreateElement(typ any, props Props, children ...any) *Element
}

// ElementCloner is implemented by rendering-library modules that clone
// existing elements themselves.
type ElementCloner interface {
	CloneElement(el *Element, overrides Props) *Element
}

// StdLibrary is the built-in rendering library module. Hosts that do not
// bring their own library can place it in the dependency environment.
type StdLibrary struct{}

// CreateElement implements ElementCreator.
func (StdLibrary) CreateElement(typ any, props Props, children ...any) *Element {
	return NewElement(typ, props, children...)
}

// CloneElement implements ElementCloner.
func (StdLibrary) CloneElement(el *Element, overrides Props) *Element {
	return CloneElement(el, overrides)
}

// IsElement reports whether v is an element value.
func (StdLibrary) IsElement(v any) bool {
	return IsElement(v)
}
