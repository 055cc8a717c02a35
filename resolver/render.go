package resolver

import (
	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
)

// RenderHandle is a resolved plugin bound to its dependency map and host
// props, with the resolution metadata exposed for introspection.
type RenderHandle struct {
	Component    any
	Module       any
	ExportName   string
	WasFactory   bool
	FileRef      string
	Dependencies bundleadapter.DependencyMap
	HostProps    bundleadapter.Props
	ResolutionID string

	creator any // element-factory module
	cloner  any // rendering-library module
}

// Render materializes an element from the resolved component. Caller props
// merge under host props; host props win on key collision. A component that
// is itself an element is cloned with the merged props instead of wrapped.
func (h *RenderHandle) Render(callerProps bundleadapter.Props) *bundleadapter.Element {
	props := mergeProps(callerProps, h.HostProps)

	if el, ok := h.Component.(*bundleadapter.Element); ok {
		if c, ok := h.cloner.(bundleadapter.ElementCloner); ok {
			return c.CloneElement(el, props)
		}
		return bundleadapter.CloneElement(el, props)
	}

	if c, ok := h.creator.(bundleadapter.ElementCreator); ok {
		return c.CreateElement(h.Component, props)
	}
	return bundleadapter.NewElement(h.Component, props)
}
