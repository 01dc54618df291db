package domain

import (
	"fmt"
	"math"
	"slices"
)

// TrackedPoints is a row-major (frames × landmarks × dims) coordinate array.
type TrackedPoints struct {
	Frames    int       `json:"frames"`
	Landmarks int       `json:"landmarks"`
	Dims      int       `json:"dims"`
	Data      []float64 `json:"data"`
}

// NewTrackedPoints allocates a zeroed array of the given shape.
func NewTrackedPoints(frames, landmarks, dims int) TrackedPoints {
	return TrackedPoints{
		Frames:    frames,
		Landmarks: landmarks,
		Dims:      dims,
		Data:      make([]float64, frames*landmarks*dims),
	}
}

// Validate checks axis lengths against the backing slice.
func (p TrackedPoints) Validate() error {
	if p.Frames < 0 || p.Landmarks < 0 {
		return fmt.Errorf("%w: negative axis length (frames=%d, landmarks=%d)", ErrShapeMismatch, p.Frames, p.Landmarks)
	}
	if p.Dims != 2 && p.Dims != 3 {
		return fmt.Errorf("%w: dims must be 2 or 3, got %d", ErrShapeMismatch, p.Dims)
	}
	if !fits(p.Frames, p.Landmarks, p.Dims) {
		return fmt.Errorf("%w: axes %d×%d×%d overflow", ErrShapeMismatch, p.Frames, p.Landmarks, p.Dims)
	}
	if want := p.Frames * p.Landmarks * p.Dims; len(p.Data) != want {
		return &ShapeMismatchError{Axis: "data", Got: len(p.Data), Want: want}
	}
	return nil
}

func (p TrackedPoints) offset(frame, landmark int) int {
	return (frame*p.Landmarks + landmark) * p.Dims
}

// At returns one coordinate component.
func (p TrackedPoints) At(frame, landmark, dim int) float64 {
	return p.Data[p.offset(frame, landmark)+dim]
}

// Set writes one coordinate component.
func (p TrackedPoints) Set(frame, landmark, dim int, v float64) {
	p.Data[p.offset(frame, landmark)+dim] = v
}

// Point returns a copy of the coordinates of one landmark in one frame.
func (p TrackedPoints) Point(frame, landmark int) []float64 {
	off := p.offset(frame, landmark)
	return slices.Clone(p.Data[off : off+p.Dims])
}

// Clone returns a deep copy.
func (p TrackedPoints) Clone() TrackedPoints {
	p.Data = slices.Clone(p.Data)
	return p
}

// ReprojectionError is a row-major (frames × landmarks) array of scalars.
type ReprojectionError struct {
	Frames    int       `json:"frames"`
	Landmarks int       `json:"landmarks"`
	Data      []float64 `json:"data"`
}

// NewReprojectionError allocates a zeroed array of the given shape.
func NewReprojectionError(frames, landmarks int) ReprojectionError {
	return ReprojectionError{
		Frames:    frames,
		Landmarks: landmarks,
		Data:      make([]float64, frames*landmarks),
	}
}

// Validate checks axis lengths against the backing slice.
func (e ReprojectionError) Validate() error {
	if e.Frames < 0 || e.Landmarks < 0 {
		return fmt.Errorf("%w: negative axis length (frames=%d, landmarks=%d)", ErrShapeMismatch, e.Frames, e.Landmarks)
	}
	if !fits(e.Frames, e.Landmarks) {
		return fmt.Errorf("%w: axes %d×%d overflow", ErrShapeMismatch, e.Frames, e.Landmarks)
	}
	if want := e.Frames * e.Landmarks; len(e.Data) != want {
		return &ShapeMismatchError{Axis: "data", Got: len(e.Data), Want: want}
	}
	return nil
}

// At returns the error of one landmark in one frame.
func (e ReprojectionError) At(frame, landmark int) float64 {
	return e.Data[frame*e.Landmarks+landmark]
}

// Set writes the error of one landmark in one frame.
func (e ReprojectionError) Set(frame, landmark int, v float64) {
	e.Data[frame*e.Landmarks+landmark] = v
}

// Clone returns a deep copy.
func (e ReprojectionError) Clone() ReprojectionError {
	e.Data = slices.Clone(e.Data)
	return e
}

// fits reports whether the product of non-negative axis lengths fits in an int.
func fits(axes ...int) bool {
	n := 1
	for _, a := range axes {
		if a == 0 {
			return true
		}
		if n > math.MaxInt/a {
			return false
		}
		n *= a
	}
	return true
}
