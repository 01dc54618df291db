package domain

// Metadata keys attached to every aspect built by an actor.
const (
	// KeyTrackerType names the tracker kind that produced the aspect's data.
	KeyTrackerType = "tracker_type"

	// KeyActorType names the profile of the owning actor (e.g. "human").
	KeyActorType = "actor_type"
)
