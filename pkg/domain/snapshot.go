package domain

import "time"

// AspectSnapshot is the serializable form of an Aspect.
type AspectSnapshot struct {
	Name              AspectName         `json:"name"`
	Landmarks         []string           `json:"landmarks"`
	Metadata          map[string]any     `json:"metadata,omitempty"`
	Points            *TrackedPoints     `json:"points,omitempty"`
	ReprojectionError *ReprojectionError `json:"reprojection_error,omitempty"`
}

// ActorSnapshot is the serializable form of an actor and all of its aspects.
type ActorSnapshot struct {
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Tracker   string           `json:"tracker"`
	BatchID   string           `json:"batch_id,omitempty"`
	Aspects   []AspectSnapshot `json:"aspects"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Aspect returns the snapshot of the named aspect, if present.
func (s *ActorSnapshot) Aspect(name AspectName) (AspectSnapshot, bool) {
	for _, a := range s.Aspects {
		if a.Name == name {
			return a, true
		}
	}
	return AspectSnapshot{}, false
}
