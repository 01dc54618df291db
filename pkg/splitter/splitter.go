// Package splitter partitions raw tracker arrays along the landmark axis.
//
// A Splitter is configured once with an ordered list of regions, each owning an
// explicit list of raw landmark indices. Split copies those landmarks, in the
// given index order, into one sub-array per region. Frame and dimension axes are
// untouched, so slice position i of a region always holds raw landmark Indices[i].
package splitter

import (
	"fmt"
	"slices"

	"github.com/aretw0/skelly/pkg/domain"
)

// Region is one named partition of the landmark axis.
type Region struct {
	Name    domain.AspectName
	Indices []int
}

// Slice is the portion of a raw array belonging to one region.
type Slice struct {
	Name   domain.AspectName
	Points domain.TrackedPoints
}

// ErrorSlice is the portion of a reprojection error array belonging to one region.
type ErrorSlice struct {
	Name   domain.AspectName
	Errors domain.ReprojectionError
}

// Splitter slices raw arrays into per-region sub-arrays.
type Splitter struct {
	regions  []Region
	total    int
	validate bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithValidation toggles the disjointness assertion done at construction.
// Enabled by default. Index bounds are always checked.
func WithValidation(enabled bool) Option {
	return func(s *Splitter) {
		s.validate = enabled
	}
}

// New builds a Splitter. Every region must own at least one index.
func New(regions []Region, opts ...Option) (*Splitter, error) {
	s := &Splitter{validate: true}
	for _, opt := range opts {
		opt(s)
	}

	if len(regions) == 0 {
		return nil, &domain.ConfigurationError{Reason: "splitter has no regions"}
	}

	s.regions = make([]Region, len(regions))
	for i, r := range regions {
		if len(r.Indices) == 0 {
			return nil, &domain.ConfigurationError{Region: string(r.Name), Reason: "region maps to no landmarks"}
		}
		s.regions[i] = Region{Name: r.Name, Indices: slices.Clone(r.Indices)}
		s.total += len(r.Indices)
	}

	if err := s.checkBounds(); err != nil {
		return nil, err
	}
	if s.validate {
		if err := s.checkDisjoint(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Splitter) checkBounds() error {
	for _, r := range s.regions {
		for _, idx := range r.Indices {
			if idx < 0 || idx >= s.total {
				return &domain.ConfigurationError{Region: string(r.Name), Reason: fmt.Sprintf("index %d outside [0, %d)", idx, s.total)}
			}
		}
	}
	return nil
}

func (s *Splitter) checkDisjoint() error {
	owner := make(map[int]domain.AspectName, s.total)
	for _, r := range s.regions {
		for _, idx := range r.Indices {
			if prev, taken := owner[idx]; taken {
				return &domain.ConfigurationError{Region: string(r.Name), Reason: fmt.Sprintf("index %d overlaps region %q", idx, prev)}
			}
			owner[idx] = r.Name
		}
	}
	return nil
}

// Total is the landmark-axis length the splitter expects.
func (s *Splitter) Total() int { return s.total }

// Regions returns the configured regions in registration order.
func (s *Splitter) Regions() []Region {
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = Region{Name: r.Name, Indices: slices.Clone(r.Indices)}
	}
	return out
}

// Split returns one slice per region, in registration order.
func (s *Splitter) Split(raw domain.TrackedPoints) ([]Slice, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if raw.Landmarks != s.total {
		return nil, &domain.ShapeMismatchError{Axis: "landmarks", Got: raw.Landmarks, Want: s.total}
	}

	out := make([]Slice, len(s.regions))
	for i, r := range s.regions {
		sub := domain.NewTrackedPoints(raw.Frames, len(r.Indices), raw.Dims)
		for f := 0; f < raw.Frames; f++ {
			for j, idx := range r.Indices {
				src := (f*raw.Landmarks + idx) * raw.Dims
				dst := (f*sub.Landmarks + j) * sub.Dims
				copy(sub.Data[dst:dst+sub.Dims], raw.Data[src:src+raw.Dims])
			}
		}
		out[i] = Slice{Name: r.Name, Points: sub}
	}
	return out, nil
}

// SplitErrors returns one reprojection error slice per region, in registration order.
func (s *Splitter) SplitErrors(raw domain.ReprojectionError) ([]ErrorSlice, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if raw.Landmarks != s.total {
		return nil, &domain.ShapeMismatchError{Axis: "landmarks", Got: raw.Landmarks, Want: s.total}
	}

	out := make([]ErrorSlice, len(s.regions))
	for i, r := range s.regions {
		sub := domain.NewReprojectionError(raw.Frames, len(r.Indices))
		for f := 0; f < raw.Frames; f++ {
			for j, idx := range r.Indices {
				sub.Data[f*sub.Landmarks+j] = raw.Data[f*raw.Landmarks+idx]
			}
		}
		out[i] = ErrorSlice{Name: r.Name, Errors: sub}
	}
	return out, nil
}

// Concat joins slices along the landmark axis, in the order given.
// All slices must share frame count and dims.
func Concat(parts []Slice) (domain.TrackedPoints, error) {
	if len(parts) == 0 {
		return domain.TrackedPoints{}, fmt.Errorf("%w: nothing to concatenate", domain.ErrShapeMismatch)
	}
	frames, dims := parts[0].Points.Frames, parts[0].Points.Dims
	total := 0
	for _, p := range parts {
		if p.Points.Frames != frames {
			return domain.TrackedPoints{}, &domain.ShapeMismatchError{Region: string(p.Name), Axis: "frames", Got: p.Points.Frames, Want: frames}
		}
		if p.Points.Dims != dims {
			return domain.TrackedPoints{}, &domain.ShapeMismatchError{Region: string(p.Name), Axis: "dims", Got: p.Points.Dims, Want: dims}
		}
		total += p.Points.Landmarks
	}

	out := domain.NewTrackedPoints(frames, total, dims)
	for f := 0; f < frames; f++ {
		offset := 0
		for _, p := range parts {
			n := p.Points.Landmarks * dims
			src := f * n
			dst := (f*total + offset) * dims
			copy(out.Data[dst:dst+n], p.Points.Data[src:src+n])
			offset += p.Points.Landmarks
		}
	}
	return out, nil
}

// Join is the inverse of Split: it scatters each region's slice back to its
// raw indices. Unlike Concat it is exact for non-contiguous layouts.
func (s *Splitter) Join(parts []Slice) (domain.TrackedPoints, error) {
	if len(parts) != len(s.regions) {
		return domain.TrackedPoints{}, fmt.Errorf("%w: got %d slices, want %d", domain.ErrShapeMismatch, len(parts), len(s.regions))
	}
	frames, dims := parts[0].Points.Frames, parts[0].Points.Dims
	out := domain.NewTrackedPoints(frames, s.total, dims)

	for i, r := range s.regions {
		p := parts[i]
		if p.Name != r.Name {
			return domain.TrackedPoints{}, fmt.Errorf("%w: slice %d is %q, want %q", domain.ErrShapeMismatch, i, p.Name, r.Name)
		}
		if p.Points.Landmarks != len(r.Indices) {
			return domain.TrackedPoints{}, &domain.ShapeMismatchError{Region: string(r.Name), Axis: "landmarks", Got: p.Points.Landmarks, Want: len(r.Indices)}
		}
		if p.Points.Frames != frames || p.Points.Dims != dims {
			return domain.TrackedPoints{}, &domain.ShapeMismatchError{Region: string(r.Name), Axis: "frames", Got: p.Points.Frames, Want: frames}
		}
		for f := 0; f < frames; f++ {
			for j, idx := range r.Indices {
				src := (f*p.Points.Landmarks + j) * dims
				dst := (f*s.total + idx) * dims
				copy(out.Data[dst:dst+dims], p.Points.Data[src:src+dims])
			}
		}
	}
	return out, nil
}
