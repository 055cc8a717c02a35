package transform

import (
	"github.com/timeax/fortiplugin-bundle-adapter/errors"
	"github.com/timeax/fortiplugin-bundle-adapter/inject"
)

// MissingDefaultPolicy selects what happens when a module has no
// default-export-producing construct.
type MissingDefaultPolicy string

const (
	// PolicySkip leaves the file untouched, byte for byte.
	PolicySkip MissingDefaultPolicy = "skip"
	// PolicyReturnNull rewrites the file; the factory returns null.
	PolicyReturnNull MissingDefaultPolicy = "return-null"
	// PolicyThrow fails the transform with an error naming the file.
	PolicyThrow MissingDefaultPolicy = "throw"
)

// Config controls one rewrite run.
type Config struct {
	// Rules decides which import ids are removed from the module and
	// supplied through the dependency map instead.
	Rules inject.Rules

	// RuntimeKey is the key under which the dependency map travels in the
	// factory's argument object. Defaults to "imports".
	RuntimeKey string

	// DepsParam is the factory's parameter name. Defaults to "deps".
	DepsParam string

	// OnMissingDefault selects the policy for modules without a default
	// export. Defaults to PolicySkip.
	OnMissingDefault MissingDefaultPolicy

	// FactoryName is the name of the exported factory function. Defaults
	// to "__bundleFactory".
	FactoryName string

	// SingleExportFallback enables the minified-build heuristic: when a
	// module has no default export anywhere and a named export statement
	// carries exactly one specifier, that binding becomes the default via
	// its .default property. DefaultConfig enables it; a zero Config does
	// not.
	SingleExportFallback bool
}

// DefaultConfig returns a Config with every knob at its default.
func DefaultConfig(rules inject.Rules) Config {
	return Config{
		Rules:                rules,
		RuntimeKey:           "imports",
		DepsParam:            "deps",
		OnMissingDefault:     PolicySkip,
		FactoryName:          "__bundleFactory",
		SingleExportFallback: true,
	}
}

func (c Config) withDefaults() Config {
	if c.RuntimeKey == "" {
		c.RuntimeKey = "imports"
	}
	if c.DepsParam == "" {
		c.DepsParam = "deps"
	}
	if c.OnMissingDefault == "" {
		c.OnMissingDefault = PolicySkip
	}
	if c.FactoryName == "" {
		c.FactoryName = "__bundleFactory"
	}
	return c
}

func (c Config) validate() error {
	switch c.OnMissingDefault {
	case PolicySkip, PolicyReturnNull, PolicyThrow:
	default:
		return errors.InvalidInput(errors.PhaseTransform,
			"unknown missing-default policy "+string(c.OnMissingDefault))
	}
	// The wrapper body declares these itself.
	if c.DepsParam == depsName || c.DepsParam == unwrapName {
		return errors.InvalidInput(errors.PhaseTransform,
			"deps parameter name "+c.DepsParam+" collides with an internal binding")
	}
	return nil
}
