package registry

import (
	"fmt"
	"slices"

	"github.com/aretw0/skelly/pkg/domain"
)

// RegionLayout maps one region's landmark names onto the raw landmark axis.
// Indices[i] is the raw position of Landmarks[i].
type RegionLayout struct {
	Name      domain.AspectName `json:"name" yaml:"name" mapstructure:"name"`
	Landmarks []string          `json:"landmarks" yaml:"landmarks" mapstructure:"landmarks"`
	Indices   []int             `json:"indices" yaml:"indices" mapstructure:"indices"`
}

// TrackerLayout is the static description of what a tracker emits.
type TrackerLayout struct {
	Kind    string         `json:"kind" yaml:"kind" mapstructure:"kind"`
	Dims    int            `json:"dims" yaml:"dims" mapstructure:"dims"`
	Regions []RegionLayout `json:"regions" yaml:"regions" mapstructure:"regions"`
}

// Range returns the contiguous indices [start, end).
func Range(start, end int) []int {
	if end <= start {
		return nil
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// TotalLandmarks is the expected length of the raw landmark axis.
func (l TrackerLayout) TotalLandmarks() int {
	total := 0
	for _, r := range l.Regions {
		total += len(r.Indices)
	}
	return total
}

// Region returns the layout of the named region.
func (l TrackerLayout) Region(name domain.AspectName) (RegionLayout, bool) {
	for _, r := range l.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return RegionLayout{}, false
}

// Validate reports every problem in the layout at once.
// The returned error is a *domain.AggregateError of *domain.ConfigurationError.
func (l TrackerLayout) Validate() error {
	var errs []error
	fail := func(region domain.AspectName, format string, args ...any) {
		errs = append(errs, &domain.ConfigurationError{
			Tracker: l.Kind,
			Region:  string(region),
			Reason:  fmt.Sprintf(format, args...),
		})
	}

	if l.Kind == "" {
		fail("", "tracker kind is empty")
	}
	if l.Dims != 2 && l.Dims != 3 {
		fail("", "dims must be 2 or 3, got %d", l.Dims)
	}
	if _, ok := l.Region(domain.AspectBody); !ok {
		fail(domain.AspectBody, "layout has no body region")
	}

	total := l.TotalLandmarks()
	owner := make(map[int]domain.AspectName, total)
	seen := make(map[domain.AspectName]bool, len(l.Regions))

	for _, r := range l.Regions {
		if !r.Name.Valid() {
			fail(r.Name, "unknown region name")
		}
		if seen[r.Name] {
			fail(r.Name, "region declared twice")
		}
		seen[r.Name] = true

		if len(r.Indices) == 0 {
			fail(r.Name, "region maps to no landmarks")
		}
		if len(r.Landmarks) != len(r.Indices) {
			fail(r.Name, "%d landmark names but %d indices", len(r.Landmarks), len(r.Indices))
		}
		if _, err := domain.NewAnatomicalStructure(string(r.Name), r.Landmarks); err != nil && len(r.Landmarks) > 0 {
			errs = append(errs, err)
		}

		for _, idx := range r.Indices {
			if idx < 0 || idx >= total {
				fail(r.Name, "index %d outside [0, %d)", idx, total)
				continue
			}
			if prev, taken := owner[idx]; taken {
				fail(r.Name, "index %d already used by region %q", idx, prev)
				continue
			}
			owner[idx] = r.Name
		}
	}

	if len(errs) > 0 {
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

// Structures builds one anatomical structure per region.
func (l TrackerLayout) Structures() (map[domain.AspectName]*domain.AnatomicalStructure, error) {
	out := make(map[domain.AspectName]*domain.AnatomicalStructure, len(l.Regions))
	for _, r := range l.Regions {
		s, err := domain.NewAnatomicalStructure(string(r.Name), r.Landmarks)
		if err != nil {
			return nil, err
		}
		out[r.Name] = s
	}
	return out, nil
}

func (l TrackerLayout) clone() TrackerLayout {
	regions := make([]RegionLayout, len(l.Regions))
	for i, r := range l.Regions {
		regions[i] = RegionLayout{
			Name:      r.Name,
			Landmarks: slices.Clone(r.Landmarks),
			Indices:   slices.Clone(r.Indices),
		}
	}
	l.Regions = regions
	return l
}
