package skelly

import (
	"github.com/aretw0/skelly/pkg/actor"
	"github.com/aretw0/skelly/pkg/registry"
)

// Version is the library version reported by the CLI and HTTP API.
const Version = "0.3.0"

// Re-exported configuration so that simple consumers only import this package.
type (
	Config = actor.Config
	Actor  = actor.Actor
	Option = actor.Option
)

var (
	WithLogger         = actor.WithLogger
	WithLifecycleHooks = actor.WithLifecycleHooks
	WithValidation     = actor.WithValidation
	DefaultConfig      = actor.DefaultConfig
)

// DefaultRegistry returns a fresh registry with the built-in tracker layouts.
func DefaultRegistry() *registry.Registry {
	return registry.Default()
}

// NewHuman builds a human actor against the built-in tracker layouts.
// Use actor.NewHuman directly to supply a custom registry.
func NewHuman(name string, cfg Config, opts ...Option) (*Actor, error) {
	return actor.NewHuman(name, cfg, registry.Default(), opts...)
}
