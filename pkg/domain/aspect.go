package domain

import (
	"fmt"
	"maps"
)

// Aspect bundles one anatomical structure with its metadata and trajectories.
// Trajectories are absent until the first successful SetTrajectories.
type Aspect struct {
	name         AspectName
	structure    *AnatomicalStructure
	metadata     map[string]any
	trajectories *TrajectoryContainer

	// pendingErrors holds reprojection error received before any trajectories.
	pendingErrors *ReprojectionError
}

// NewAspect creates an aspect with the given structure and metadata.
func NewAspect(name AspectName, structure *AnatomicalStructure, metadata map[string]any) (*Aspect, error) {
	if !name.Valid() {
		return nil, &ConfigurationError{Region: string(name), Reason: "unknown aspect name"}
	}
	a := &Aspect{
		name:     name,
		metadata: make(map[string]any),
	}
	if structure != nil {
		if err := a.AttachStructure(structure); err != nil {
			return nil, err
		}
	}
	a.AttachMetadata(metadata)
	return a, nil
}

// Name returns the region name.
func (a *Aspect) Name() AspectName { return a.name }

// Structure returns the attached structure, or nil.
func (a *Aspect) Structure() *AnatomicalStructure { return a.structure }

// AttachStructure sets the aspect's structure. Re-attaching an equal structure
// is a no-op; a different one fails with ErrStructureConflict.
func (a *Aspect) AttachStructure(s *AnatomicalStructure) error {
	if s == nil {
		return &ConfigurationError{Region: string(a.name), Reason: "nil structure"}
	}
	if a.structure != nil {
		if a.structure.Equal(s) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrStructureConflict, a.name)
	}
	a.structure = s
	return nil
}

// AttachMetadata merges m into the aspect metadata. Later keys win.
func (a *Aspect) AttachMetadata(m map[string]any) {
	maps.Copy(a.metadata, m)
}

// Metadata returns a copy of the aspect metadata.
func (a *Aspect) Metadata() map[string]any {
	return maps.Clone(a.metadata)
}

// Trajectories returns the current container, if any.
func (a *Aspect) Trajectories() (*TrajectoryContainer, bool) {
	return a.trajectories, a.trajectories != nil
}

// BuildTrajectories validates points against the aspect's structure and returns
// a container without attaching it. Used to stage multi-aspect updates.
func (a *Aspect) BuildTrajectories(points TrackedPoints) (*TrajectoryContainer, error) {
	if a.structure == nil {
		return nil, &ConfigurationError{Region: string(a.name), Reason: "no structure attached"}
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if points.Landmarks != a.structure.Len() {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "landmarks", Got: points.Landmarks, Want: a.structure.Len()}
	}
	c, err := NewTrajectoryContainer(a.structure.landmarks, points)
	if err != nil {
		return nil, err
	}
	if a.pendingErrors != nil && a.pendingErrors.Frames == c.Frames() {
		return c.WithReprojectionError(*a.pendingErrors)
	}
	return c, nil
}

// CommitTrajectories replaces the current container with one produced by
// BuildTrajectories on this aspect, and clears any pending error. A pending
// error whose frame count did not match the new trajectories is discarded.
func (a *Aspect) CommitTrajectories(c *TrajectoryContainer) {
	a.trajectories = c
	a.pendingErrors = nil
}

// SetTrajectories builds and attaches a new container from a
// (frames × len(structure) × dims) array, replacing any previous one.
// A pending reprojection error is attached when its frame count matches and
// dropped otherwise.
func (a *Aspect) SetTrajectories(points TrackedPoints) error {
	c, err := a.BuildTrajectories(points)
	if err != nil {
		return err
	}
	a.CommitTrajectories(c)
	return nil
}

// StageReprojectionError validates errs against the aspect and returns the
// container that would result. The container is nil if the error would be
// held pending instead.
func (a *Aspect) StageReprojectionError(errs ReprojectionError) (*TrajectoryContainer, error) {
	if a.structure == nil {
		return nil, &ConfigurationError{Region: string(a.name), Reason: "no structure attached"}
	}
	if err := errs.Validate(); err != nil {
		return nil, err
	}
	if errs.Landmarks != a.structure.Len() {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "landmarks", Got: errs.Landmarks, Want: a.structure.Len()}
	}
	if a.trajectories == nil {
		return nil, nil
	}
	if errs.Frames != a.trajectories.Frames() {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "frames", Got: errs.Frames, Want: a.trajectories.Frames()}
	}
	return a.trajectories.WithReprojectionError(errs)
}

// CommitReprojectionError applies the result of StageReprojectionError.
func (a *Aspect) CommitReprojectionError(c *TrajectoryContainer, errs ReprojectionError) {
	if c != nil {
		a.trajectories = c
		return
	}
	cp := errs.Clone()
	a.pendingErrors = &cp
}

// SetReprojectionError attaches per-landmark, per-frame error. Without
// trajectories the error is held until SetTrajectories is called.
func (a *Aspect) SetReprojectionError(errs ReprojectionError) error {
	c, err := a.StageReprojectionError(errs)
	if err != nil {
		return err
	}
	a.CommitReprojectionError(c, errs)
	return nil
}

// HasPendingReprojectionError reports whether error is waiting for trajectories.
func (a *Aspect) HasPendingReprojectionError() bool {
	return a.pendingErrors != nil
}

// PendingReprojectionFrames returns the frame count of the pending error, if any.
func (a *Aspect) PendingReprojectionFrames() (int, bool) {
	if a.pendingErrors == nil {
		return 0, false
	}
	return a.pendingErrors.Frames, true
}

// BuildTrajectoriesWithError is BuildTrajectories followed by attaching errs,
// ignoring any pending error. Used to stage points and error from one batch.
func (a *Aspect) BuildTrajectoriesWithError(points TrackedPoints, errs ReprojectionError) (*TrajectoryContainer, error) {
	if a.structure == nil {
		return nil, &ConfigurationError{Region: string(a.name), Reason: "no structure attached"}
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if points.Landmarks != a.structure.Len() {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "landmarks", Got: points.Landmarks, Want: a.structure.Len()}
	}
	if err := errs.Validate(); err != nil {
		return nil, err
	}
	if errs.Landmarks != a.structure.Len() {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "landmarks", Got: errs.Landmarks, Want: a.structure.Len()}
	}
	if errs.Frames != points.Frames {
		return nil, &ShapeMismatchError{Region: string(a.name), Axis: "frames", Got: errs.Frames, Want: points.Frames}
	}
	c, err := NewTrajectoryContainer(a.structure.landmarks, points)
	if err != nil {
		return nil, err
	}
	return c.WithReprojectionError(errs)
}

// Snapshot returns a serializable copy of the aspect.
func (a *Aspect) Snapshot() AspectSnapshot {
	snap := AspectSnapshot{
		Name:     a.name,
		Metadata: a.Metadata(),
	}
	if a.structure != nil {
		snap.Landmarks = a.structure.Landmarks()
	}
	if a.trajectories != nil {
		pts := a.trajectories.Points()
		snap.Points = &pts
		if errs, ok := a.trajectories.ReprojectionError(); ok {
			snap.ReprojectionError = &errs
		}
	}
	return snap
}
