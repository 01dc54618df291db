package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/registry"
)

// BuildRegistry returns the default registry extended with the layouts in
// paths. Every loaded layout is validated; a file layout may replace a
// built-in one of the same kind.
func BuildRegistry(paths []string) (*registry.Registry, error) {
	reg := registry.Default()
	var errs []error
	for _, path := range paths {
		layouts, err := file.LoadLayouts(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		for _, l := range layouts {
			if err := l.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: tracker %q: %w", path, l.Kind, err))
				continue
			}
			reg.Register(l)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}
