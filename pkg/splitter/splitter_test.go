package splitter

import (
	"math"
	"testing"

	"github.com/aretw0/skelly/internal/testutils"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contiguous() []Region {
	return []Region{
		{Name: domain.AspectBody, Indices: []int{0, 1, 2}},
		{Name: domain.AspectFace, Indices: []int{3, 4}},
		{Name: domain.AspectLeftHand, Indices: []int{5}},
	}
}

func TestNew(t *testing.T) {
	s, err := New(contiguous())
	require.NoError(t, err)
	assert.Equal(t, 6, s.Total())

	_, err = New(nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New([]Region{{Name: domain.AspectBody}})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "empty region")

	overlapping := []Region{
		{Name: domain.AspectBody, Indices: []int{0, 1}},
		{Name: domain.AspectFace, Indices: []int{1}},
	}
	_, err = New(overlapping)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	outOfRange := []Region{{Name: domain.AspectBody, Indices: []int{0, 5}}}
	_, err = New(outOfRange)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = New(overlapping, WithValidation(false))
	assert.NoError(t, err, "validation disabled")

	_, err = New(outOfRange, WithValidation(false))
	assert.ErrorIs(t, err, domain.ErrConfiguration, "bounds are checked without validation")

	_, err = New([]Region{{Name: domain.AspectBody, Indices: []int{-1, 0}}}, WithValidation(false))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNew_CopiesRegions(t *testing.T) {
	regions := contiguous()
	s, err := New(regions)
	require.NoError(t, err)

	regions[0].Indices[0] = 5
	out := s.Regions()
	out[1].Indices[0] = 0
	assert.Equal(t, contiguous(), s.Regions())
}

func TestSplit_Order(t *testing.T) {
	s, err := New(contiguous())
	require.NoError(t, err)

	raw := testutils.Ramp(2, 6, 3)
	parts, err := s.Split(raw)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	assert.Equal(t, domain.AspectBody, parts[0].Name)
	assert.Equal(t, domain.AspectFace, parts[1].Name)
	assert.Equal(t, domain.AspectLeftHand, parts[2].Name)

	for _, p := range parts {
		assert.Equal(t, 2, p.Points.Frames)
		assert.Equal(t, 3, p.Points.Dims)
	}
	assert.Equal(t, raw.Point(1, 3), parts[1].Points.Point(1, 0))
	assert.Equal(t, raw.Point(0, 5), parts[2].Points.Point(0, 0))
}

func TestSplit_NonContiguous(t *testing.T) {
	s, err := New([]Region{
		{Name: domain.AspectBody, Indices: []int{2, 0}},
		{Name: domain.AspectFace, Indices: []int{1}},
	})
	require.NoError(t, err)

	raw := testutils.Ramp(1, 3, 2)
	parts, err := s.Split(raw)
	require.NoError(t, err)

	assert.Equal(t, raw.Point(0, 2), parts[0].Points.Point(0, 0), "slice position follows index order")
	assert.Equal(t, raw.Point(0, 0), parts[0].Points.Point(0, 1))

	joined, err := s.Join(parts)
	require.NoError(t, err)
	assert.Equal(t, raw, joined)
}

func TestSplit_RoundTrip(t *testing.T) {
	s, err := New(contiguous())
	require.NoError(t, err)

	raw := testutils.Ramp(4, 6, 3)
	parts, err := s.Split(raw)
	require.NoError(t, err)

	concat, err := Concat(parts)
	require.NoError(t, err)
	assert.Equal(t, raw, concat)

	joined, err := s.Join(parts)
	require.NoError(t, err)
	assert.Equal(t, raw, joined)
}

func TestSplit_DoesNotAlias(t *testing.T) {
	s, _ := New(contiguous())
	raw := testutils.Ramp(1, 6, 3)
	parts, err := s.Split(raw)
	require.NoError(t, err)

	parts[0].Points.Data[0] = -1
	assert.Equal(t, 0.0, raw.Data[0])
}

func TestSplit_ZeroFrames(t *testing.T) {
	s, _ := New(contiguous())
	parts, err := s.Split(domain.NewTrackedPoints(0, 6, 3))
	require.NoError(t, err)
	for _, p := range parts {
		assert.Equal(t, 0, p.Points.Frames)
		assert.Empty(t, p.Points.Data)
	}
}

func TestSplit_ShapeMismatch(t *testing.T) {
	s, _ := New(contiguous())

	_, err := s.Split(testutils.Ramp(2, 5, 3))
	var shape *domain.ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "landmarks", shape.Axis)
	assert.Equal(t, 5, shape.Got)
	assert.Equal(t, 6, shape.Want)

	bad := testutils.Ramp(1, 6, 3)
	bad.Data = bad.Data[:5]
	_, err = s.Split(bad)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	huge := domain.TrackedPoints{Frames: math.MaxInt/8 + 1, Landmarks: 6, Dims: 3}
	assert.NotPanics(t, func() {
		_, err = s.Split(huge)
	})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestSplitErrors(t *testing.T) {
	s, _ := New([]Region{
		{Name: domain.AspectBody, Indices: []int{0, 2}},
		{Name: domain.AspectFace, Indices: []int{1}},
	})

	raw := domain.ReprojectionError{Frames: 2, Landmarks: 3, Data: []float64{0, 1, 2, 10, 11, 12}}
	parts, err := s.SplitErrors(raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 10, 12}, parts[0].Errors.Data)
	assert.Equal(t, []float64{1, 11}, parts[1].Errors.Data)

	_, err = s.SplitErrors(domain.NewReprojectionError(2, 4))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestConcat_Mismatch(t *testing.T) {
	_, err := Concat(nil)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = Concat([]Slice{
		{Name: domain.AspectBody, Points: testutils.Ramp(2, 1, 3)},
		{Name: domain.AspectFace, Points: testutils.Ramp(3, 1, 3)},
	})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = Concat([]Slice{
		{Name: domain.AspectBody, Points: testutils.Ramp(2, 1, 3)},
		{Name: domain.AspectFace, Points: testutils.Ramp(2, 1, 2)},
	})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestJoin_Mismatch(t *testing.T) {
	s, _ := New(contiguous())
	parts, _ := s.Split(testutils.Ramp(1, 6, 3))

	_, err := s.Join(parts[:2])
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	swapped := []Slice{parts[1], parts[0], parts[2]}
	_, err = s.Join(swapped)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}
