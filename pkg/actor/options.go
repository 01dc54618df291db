package actor

import (
	"log/slog"

	"github.com/aretw0/skelly/pkg/domain"
)

// Option defines a functional option for configuring an Actor.
type Option func(*Actor)

// WithProfile sets the region profile (default: Human).
func WithProfile(p Profile) Option {
	return func(a *Actor) {
		a.profile = p
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Actor) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Actor) {
		a.hooks = hooks
	}
}

// WithValidation toggles the splitter's disjointness assertion (default: on).
func WithValidation(enabled bool) Option {
	return func(a *Actor) {
		a.validate = enabled
	}
}
