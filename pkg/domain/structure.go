package domain

import (
	"fmt"
	"slices"
)

// AnatomicalStructure is the ordered set of landmark names for one region.
// Position i in a region's slice of the raw array always belongs to Landmarks()[i].
// It is immutable once built.
type AnatomicalStructure struct {
	name      string
	landmarks []string
	index     map[string]int
}

// NewAnatomicalStructure builds a structure from an ordered landmark list.
// The list is copied; names must be non-empty and unique.
func NewAnatomicalStructure(name string, landmarks []string) (*AnatomicalStructure, error) {
	if name == "" {
		return nil, &ConfigurationError{Reason: "structure name is empty"}
	}
	if len(landmarks) == 0 {
		return nil, &ConfigurationError{Region: name, Reason: "structure has no landmarks"}
	}

	index := make(map[string]int, len(landmarks))
	for i, lm := range landmarks {
		if lm == "" {
			return nil, &ConfigurationError{Region: name, Reason: fmt.Sprintf("landmark %d has an empty name", i)}
		}
		if prev, dup := index[lm]; dup {
			return nil, &ConfigurationError{Region: name, Reason: fmt.Sprintf("landmark %q repeated at positions %d and %d", lm, prev, i)}
		}
		index[lm] = i
	}

	return &AnatomicalStructure{
		name:      name,
		landmarks: slices.Clone(landmarks),
		index:     index,
	}, nil
}

// Name returns the region identifier.
func (s *AnatomicalStructure) Name() string { return s.name }

// Landmarks returns a copy of the ordered landmark names.
func (s *AnatomicalStructure) Landmarks() []string { return slices.Clone(s.landmarks) }

// Len returns the number of landmarks.
func (s *AnatomicalStructure) Len() int { return len(s.landmarks) }

// IndexOf returns the position of a landmark within the structure.
func (s *AnatomicalStructure) IndexOf(landmark string) (int, bool) {
	i, ok := s.index[landmark]
	return i, ok
}

// Equal reports whether both structures have the same name and landmark order.
func (s *AnatomicalStructure) Equal(other *AnatomicalStructure) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.name == other.name && slices.Equal(s.landmarks, other.landmarks)
}
