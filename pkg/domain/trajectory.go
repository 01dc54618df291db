package domain

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"
)

// TrajectoryContainer associates each landmark of a structure with its
// per-frame coordinates and, optionally, per-frame reprojection error.
// Frame count and dimension are fixed for the lifetime of a container;
// new data means a new container.
type TrajectoryContainer struct {
	landmarks []string
	index     map[string]int
	points    TrackedPoints
	errors    *ReprojectionError
}

// NewTrajectoryContainer binds landmark i of points to landmarks[i].
// The array is copied.
func NewTrajectoryContainer(landmarks []string, points TrackedPoints) (*TrajectoryContainer, error) {
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if points.Landmarks != len(landmarks) {
		return nil, &ShapeMismatchError{Axis: "landmarks", Got: points.Landmarks, Want: len(landmarks)}
	}

	index := make(map[string]int, len(landmarks))
	for i, lm := range landmarks {
		if _, dup := index[lm]; dup {
			return nil, fmt.Errorf("%w: landmark %q repeated", ErrConfiguration, lm)
		}
		index[lm] = i
	}

	return &TrajectoryContainer{
		landmarks: slices.Clone(landmarks),
		index:     index,
		points:    points.Clone(),
	}, nil
}

// WithReprojectionError returns a copy of c carrying errs.
// Frame and landmark counts must match.
func (c *TrajectoryContainer) WithReprojectionError(errs ReprojectionError) (*TrajectoryContainer, error) {
	if err := errs.Validate(); err != nil {
		return nil, err
	}
	if errs.Landmarks != len(c.landmarks) {
		return nil, &ShapeMismatchError{Axis: "landmarks", Got: errs.Landmarks, Want: len(c.landmarks)}
	}
	if errs.Frames != c.points.Frames {
		return nil, &ShapeMismatchError{Axis: "frames", Got: errs.Frames, Want: c.points.Frames}
	}
	cp := errs.Clone()
	next := *c
	next.errors = &cp
	return &next, nil
}

// Landmarks returns the landmark names in slice order.
func (c *TrajectoryContainer) Landmarks() []string { return slices.Clone(c.landmarks) }

// Frames returns the number of frames.
func (c *TrajectoryContainer) Frames() int { return c.points.Frames }

// Dims returns the coordinate dimension (2 or 3).
func (c *TrajectoryContainer) Dims() int { return c.points.Dims }

// HasErrors reports whether reprojection error is attached.
func (c *TrajectoryContainer) HasErrors() bool { return c.errors != nil }

// Points returns a copy of the underlying (frames × landmarks × dims) array.
func (c *TrajectoryContainer) Points() TrackedPoints { return c.points.Clone() }

// Trajectory returns the per-frame coordinates of one landmark.
func (c *TrajectoryContainer) Trajectory(landmark string) ([][]float64, error) {
	i, ok := c.index[landmark]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLandmarkNotFound, landmark)
	}
	out := make([][]float64, c.points.Frames)
	for f := range out {
		out[f] = c.points.Point(f, i)
	}
	return out, nil
}

// Point returns the coordinates of one landmark at one frame.
func (c *TrajectoryContainer) Point(landmark string, frame int) ([]float64, error) {
	i, ok := c.index[landmark]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLandmarkNotFound, landmark)
	}
	if frame < 0 || frame >= c.points.Frames {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", frame, c.points.Frames)
	}
	return c.points.Point(frame, i), nil
}

// Vectors returns the trajectory of a landmark as 3D vectors.
// It fails for 2D containers.
func (c *TrajectoryContainer) Vectors(landmark string) ([]r3.Vector, error) {
	if c.points.Dims != 3 {
		return nil, fmt.Errorf("vectors require 3D data, container has %d dims", c.points.Dims)
	}
	traj, err := c.Trajectory(landmark)
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vector, len(traj))
	for f, p := range traj {
		out[f] = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
	}
	return out, nil
}

// Errors returns the per-frame reprojection error of one landmark.
// The second result is false if no error is attached.
func (c *TrajectoryContainer) Errors(landmark string) ([]float64, bool, error) {
	i, ok := c.index[landmark]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrLandmarkNotFound, landmark)
	}
	if c.errors == nil {
		return nil, false, nil
	}
	out := make([]float64, c.errors.Frames)
	for f := range out {
		out[f] = c.errors.At(f, i)
	}
	return out, true, nil
}

// ReprojectionError returns a copy of the attached error array, if any.
func (c *TrajectoryContainer) ReprojectionError() (ReprojectionError, bool) {
	if c.errors == nil {
		return ReprojectionError{}, false
	}
	return c.errors.Clone(), true
}

// MeanErrors returns the mean reprojection error per landmark, keyed by name.
// Returns nil when no error is attached or there are no frames.
func (c *TrajectoryContainer) MeanErrors() map[string]float64 {
	if c.errors == nil || c.errors.Frames == 0 {
		return nil
	}
	out := make(map[string]float64, len(c.landmarks))
	column := make([]float64, c.errors.Frames)
	for i, lm := range c.landmarks {
		for f := range column {
			column[f] = c.errors.At(f, i)
		}
		out[lm] = stat.Mean(column, nil)
	}
	return out
}
