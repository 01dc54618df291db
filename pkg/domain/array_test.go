package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackedPoints_Validate(t *testing.T) {
	assert.NoError(t, NewTrackedPoints(2, 3, 3).Validate())
	assert.NoError(t, NewTrackedPoints(0, 3, 2).Validate(), "zero frames is a valid shape")

	var shape *ShapeMismatchError
	err := TrackedPoints{Frames: 2, Landmarks: 3, Dims: 3, Data: make([]float64, 17)}.Validate()
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, "data", shape.Axis)
	assert.Equal(t, 18, shape.Want)

	assert.ErrorIs(t, NewTrackedPoints(1, 1, 4).Validate(), ErrShapeMismatch)
	assert.ErrorIs(t, TrackedPoints{Frames: -1, Landmarks: 1, Dims: 3}.Validate(), ErrShapeMismatch)

	t.Run("axis product overflow", func(t *testing.T) {
		huge := TrackedPoints{Frames: math.MaxInt/8 + 1, Landmarks: 4, Dims: 2}
		assert.ErrorIs(t, huge.Validate(), ErrShapeMismatch)
		assert.ErrorIs(t, TrackedPoints{Frames: 2, Landmarks: math.MaxInt/2 + 1, Dims: 3}.Validate(), ErrShapeMismatch)
		assert.ErrorIs(t, ReprojectionError{Frames: math.MaxInt/4 + 1, Landmarks: 4}.Validate(), ErrShapeMismatch)
		assert.NoError(t, TrackedPoints{Frames: 0, Landmarks: math.MaxInt, Dims: 3}.Validate(), "zero frames holds no data")
	})
}

func TestTrackedPoints_Access(t *testing.T) {
	p := NewTrackedPoints(2, 2, 3)
	p.Set(1, 0, 2, 7)
	assert.Equal(t, 7.0, p.At(1, 0, 2))
	assert.Equal(t, []float64{0, 0, 7}, p.Point(1, 0))
	assert.Equal(t, 7.0, p.Data[(1*2+0)*3+2], "row-major layout")

	c := p.Clone()
	c.Set(1, 0, 2, 9)
	assert.Equal(t, 7.0, p.At(1, 0, 2))

	pt := p.Point(1, 0)
	pt[2] = 100
	assert.Equal(t, 7.0, p.At(1, 0, 2))
}

func TestReprojectionError_Access(t *testing.T) {
	e := NewReprojectionError(2, 3)
	require.NoError(t, e.Validate())
	e.Set(1, 2, 0.5)
	assert.Equal(t, 0.5, e.At(1, 2))
	assert.Equal(t, 0.5, e.Data[5])

	c := e.Clone()
	c.Set(1, 2, 1)
	assert.Equal(t, 0.5, e.At(1, 2))

	assert.ErrorIs(t, ReprojectionError{Frames: 1, Landmarks: 2, Data: []float64{1}}.Validate(), ErrShapeMismatch)
}
