package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the root of every tracker/registry configuration failure.
var ErrConfiguration = errors.New("configuration error")

// ErrUnknownTracker is returned when no layout is registered for a tracker kind.
var ErrUnknownTracker = errors.New("unknown tracker kind")

// ErrShapeMismatch is returned when an array does not match the expected layout.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrStructureConflict is returned when an aspect is given a second, different structure.
var ErrStructureConflict = errors.New("aspect already has a different structure")

// ErrLandmarkNotFound is returned when a landmark name is not part of a structure.
var ErrLandmarkNotFound = errors.New("landmark not found")

// ErrSnapshotNotFound is returned when a snapshot cannot be found in a store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ConfigurationError describes a malformed tracker layout or actor configuration.
// It matches ErrConfiguration with errors.Is.
type ConfigurationError struct {
	Tracker string // Tracker kind, if known
	Region  string // Region name, if the problem is region-scoped
	Reason  string
	Err     error // Optional cause (e.g. ErrUnknownTracker)
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Tracker != "" {
		fmt.Fprintf(&b, ": tracker %q", e.Tracker)
	}
	if e.Region != "" {
		fmt.Fprintf(&b, ": region %q", e.Region)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ShapeMismatchError reports an array axis whose length disagrees with the layout.
// It matches ErrShapeMismatch with errors.Is.
type ShapeMismatchError struct {
	Region string // Empty for whole-array checks
	Axis   string // "frames", "landmarks", "dims" or "data"
	Got    int
	Want   int
}

func (e *ShapeMismatchError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("shape mismatch: %s axis has length %d, want %d", e.Axis, e.Got, e.Want)
	}
	return fmt.Sprintf("shape mismatch: region %q: %s axis has length %d, want %d", e.Region, e.Axis, e.Got, e.Want)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// AggregateError collects multiple failures found in a single validation pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Errors returns all collected errors if err is an AggregateError, otherwise nil.
func Errors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
