package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Tracker: "openpose", Err: ErrUnknownTracker}
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, ErrUnknownTracker))
	assert.Equal(t, `configuration error: tracker "openpose": unknown tracker kind`, err.Error())

	err = &ConfigurationError{Tracker: "t", Region: "face", Reason: "overlap"}
	assert.Equal(t, `configuration error: tracker "t": region "face": overlap`, err.Error())
}

func TestShapeMismatchError(t *testing.T) {
	err := fmt.Errorf("ingest: %w", &ShapeMismatchError{Axis: "landmarks", Got: 500, Want: 543})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "landmarks axis has length 500, want 543")

	var shape *ShapeMismatchError
	assert.True(t, errors.As(err, &shape))
	assert.Equal(t, 543, shape.Want)
}

func TestAggregateError(t *testing.T) {
	a := &ConfigurationError{Reason: "a"}
	b := &ShapeMismatchError{Axis: "dims", Got: 4, Want: 3}
	err := error(&AggregateError{Errors: []error{a, b}})

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "2 errors")
	assert.Equal(t, []error{a, b}, Errors(err))
	assert.Nil(t, Errors(errors.New("plain")))

	single := &AggregateError{Errors: []error{a}}
	assert.Equal(t, a.Error(), single.Error())
}
