package actor

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/aretw0/skelly/pkg/splitter"
	"github.com/google/uuid"
)

// Actor is a named owner of a fixed, ordered set of aspects.
type Actor struct {
	name     string
	config   Config
	profile  Profile
	layout   registry.TrackerLayout
	splitter *splitter.Splitter

	aspects []*domain.Aspect
	byName  map[domain.AspectName]*domain.Aspect

	batchID   string
	updatedAt time.Time

	validate bool
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// New builds an actor from cfg using the layouts in reg.
// Every configuration problem is reported here, never at ingest time.
func New(name string, cfg Config, reg *registry.Registry, opts ...Option) (*Actor, error) {
	a := &Actor{
		name:     name,
		config:   cfg,
		profile:  Human,
		validate: true,
		byName:   make(map[domain.AspectName]*domain.Aspect),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.logger = a.logger.With("actor", name)

	if name == "" {
		return nil, &domain.ConfigurationError{Reason: "actor name is empty"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, &domain.ConfigurationError{Tracker: cfg.TrackerKind, Reason: "no registry provided"}
	}

	layout, err := reg.Lookup(cfg.TrackerKind)
	if err != nil {
		return nil, err
	}
	if err := a.checkLayout(layout); err != nil {
		return nil, err
	}
	a.layout = layout

	regions := make([]splitter.Region, len(layout.Regions))
	for i, r := range layout.Regions {
		regions[i] = splitter.Region{Name: r.Name, Indices: r.Indices}
	}
	a.splitter, err = splitter.New(regions, splitter.WithValidation(a.validate))
	if err != nil {
		return nil, fmt.Errorf("tracker %s: %w", layout.Kind, err)
	}

	structures, err := layout.Structures()
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		domain.KeyTrackerType: layout.Kind,
		domain.KeyActorType:   a.profile.Type,
	}
	for _, region := range a.profile.Enabled(cfg) {
		structure, ok := structures[region]
		if !ok {
			return nil, &domain.ConfigurationError{
				Tracker: layout.Kind,
				Region:  string(region),
				Reason:  "region enabled by configuration but not provided by tracker",
			}
		}
		aspect, err := domain.NewAspect(region, structure, metadata)
		if err != nil {
			return nil, err
		}
		a.aspects = append(a.aspects, aspect)
		a.byName[region] = aspect
	}
	if _, ok := a.byName[domain.AspectBody]; !ok {
		return nil, &domain.ConfigurationError{Tracker: layout.Kind, Region: string(domain.AspectBody), Reason: "profile has no body region"}
	}

	a.logger.Debug("actor initialized",
		"tracker", layout.Kind,
		"profile", a.profile.Type,
		"aspects", a.AspectNames(),
		"landmarks", a.splitter.Total(),
	)
	return a, nil
}

// NewHuman builds an actor with the Human profile.
func NewHuman(name string, cfg Config, reg *registry.Registry, opts ...Option) (*Actor, error) {
	return New(name, cfg, reg, append([]Option{WithProfile(Human)}, opts...)...)
}

// checkLayout runs the full layout validation in validation mode. Otherwise
// only overlap detection is skipped.
func (a *Actor) checkLayout(layout registry.TrackerLayout) error {
	if a.validate {
		return layout.Validate()
	}
	if layout.Dims != 2 && layout.Dims != 3 {
		return &domain.ConfigurationError{Tracker: layout.Kind, Reason: fmt.Sprintf("dims must be 2 or 3, got %d", layout.Dims)}
	}
	total := layout.TotalLandmarks()
	for _, r := range layout.Regions {
		if len(r.Indices) == 0 {
			return &domain.ConfigurationError{Tracker: layout.Kind, Region: string(r.Name), Reason: "region maps to no landmarks"}
		}
		for _, idx := range r.Indices {
			if idx < 0 || idx >= total {
				return &domain.ConfigurationError{Tracker: layout.Kind, Region: string(r.Name), Reason: fmt.Sprintf("index %d outside [0, %d)", idx, total)}
			}
		}
		if len(r.Landmarks) != len(r.Indices) {
			return &domain.ConfigurationError{
				Tracker: layout.Kind,
				Region:  string(r.Name),
				Reason:  fmt.Sprintf("%d landmark names but %d indices", len(r.Landmarks), len(r.Indices)),
			}
		}
	}
	return nil
}

// Name returns the actor name.
func (a *Actor) Name() string { return a.name }

// Type returns the profile type (e.g. "human").
func (a *Actor) Type() string { return a.profile.Type }

// Config returns the configuration the actor was built with.
func (a *Actor) Config() Config { return a.config }

// Tracker returns the tracker kind.
func (a *Actor) Tracker() string { return a.layout.Kind }

// Layout returns a copy of the tracker layout in use.
func (a *Actor) Layout() registry.TrackerLayout {
	layout := a.layout
	layout.Regions = append([]registry.RegionLayout(nil), a.layout.Regions...)
	return layout
}

// ExpectedLandmarks is the landmark-axis length Ingest accepts.
func (a *Actor) ExpectedLandmarks() int { return a.splitter.Total() }

// BatchID identifies the last successful ingest, or "" before any.
func (a *Actor) BatchID() string { return a.batchID }

// Aspects returns the aspects in anatomical order.
func (a *Actor) Aspects() []*domain.Aspect {
	return append([]*domain.Aspect(nil), a.aspects...)
}

// AspectNames returns the configured region names in anatomical order.
func (a *Actor) AspectNames() []domain.AspectName {
	out := make([]domain.AspectName, len(a.aspects))
	for i, asp := range a.aspects {
		out[i] = asp.Name()
	}
	return out
}

// Aspect returns the named aspect if it was configured.
func (a *Actor) Aspect(name domain.AspectName) (*domain.Aspect, bool) {
	asp, ok := a.byName[name]
	return asp, ok
}

// Body returns the body aspect, which is always present.
func (a *Actor) Body() *domain.Aspect { return a.byName[domain.AspectBody] }

// Face returns the face aspect if configured.
func (a *Actor) Face() (*domain.Aspect, bool) { return a.Aspect(domain.AspectFace) }

// LeftHand returns the left hand aspect if configured.
func (a *Actor) LeftHand() (*domain.Aspect, bool) { return a.Aspect(domain.AspectLeftHand) }

// RightHand returns the right hand aspect if configured.
func (a *Actor) RightHand() (*domain.Aspect, bool) { return a.Aspect(domain.AspectRightHand) }

// Ingest splits a raw (frames × ExpectedLandmarks() × dims) array and replaces
// the trajectories of every configured aspect. Each call is a complete batch:
// a reprojection error held pending from an earlier call is attached only when
// its frame count matches, and is dropped with a warning otherwise.
// On error no aspect changes.
func (a *Actor) Ingest(points domain.TrackedPoints) error {
	return a.ingest(points, nil)
}

// IngestWithErrors ingests points and their reprojection error as one batch.
// Both arrays are validated and staged before anything is committed, so on
// error no aspect changes. Any pending error is replaced.
func (a *Actor) IngestWithErrors(points domain.TrackedPoints, errs domain.ReprojectionError) error {
	return a.ingest(points, &errs)
}

func (a *Actor) ingest(points domain.TrackedPoints, errs *domain.ReprojectionError) error {
	ev := a.newEvent(domain.EventIngest, points.Frames, points.Landmarks)

	if points.Dims != a.layout.Dims {
		return a.reject(ev, &domain.ShapeMismatchError{Axis: "dims", Got: points.Dims, Want: a.layout.Dims})
	}
	parts, err := a.splitter.Split(points)
	if err != nil {
		return a.reject(ev, err)
	}
	bySlice := make(map[domain.AspectName]domain.TrackedPoints, len(parts))
	for _, p := range parts {
		bySlice[p.Name] = p.Points
	}

	var errSlice map[domain.AspectName]domain.ReprojectionError
	if errs != nil {
		if errs.Frames != points.Frames {
			return a.reject(ev, &domain.ShapeMismatchError{Axis: "frames", Got: errs.Frames, Want: points.Frames})
		}
		eparts, err := a.splitter.SplitErrors(*errs)
		if err != nil {
			return a.reject(ev, err)
		}
		errSlice = make(map[domain.AspectName]domain.ReprojectionError, len(eparts))
		for _, p := range eparts {
			errSlice[p.Name] = p.Errors
		}
	}

	staged := make([]*domain.TrajectoryContainer, len(a.aspects))
	for i, asp := range a.aspects {
		var c *domain.TrajectoryContainer
		if errs != nil {
			c, err = asp.BuildTrajectoriesWithError(bySlice[asp.Name()], errSlice[asp.Name()])
		} else {
			c, err = asp.BuildTrajectories(bySlice[asp.Name()])
		}
		if err != nil {
			return a.reject(ev, err)
		}
		staged[i] = c
	}
	for i, asp := range a.aspects {
		if frames, ok := asp.PendingReprojectionFrames(); ok && !staged[i].HasErrors() {
			a.logger.Warn("dropping stale reprojection error",
				"aspect", asp.Name(),
				"pending_frames", frames,
				"frames", points.Frames,
			)
		}
		asp.CommitTrajectories(staged[i])
	}

	a.batchID = ev.BatchID
	a.updatedAt = ev.Timestamp
	a.accept(ev)
	return nil
}

// IngestReprojectionError splits a (frames × ExpectedLandmarks()) error array
// across the configured aspects. Frame counts must match ingested trajectories;
// aspects without trajectories hold the error until the next Ingest.
// On error no aspect changes.
func (a *Actor) IngestReprojectionError(errs domain.ReprojectionError) error {
	ev := a.newEvent(domain.EventIngestError, errs.Frames, errs.Landmarks)

	parts, err := a.splitter.SplitErrors(errs)
	if err != nil {
		return a.reject(ev, err)
	}

	bySlice := make(map[domain.AspectName]domain.ReprojectionError, len(parts))
	for _, p := range parts {
		bySlice[p.Name] = p.Errors
	}

	staged := make([]*domain.TrajectoryContainer, len(a.aspects))
	for i, asp := range a.aspects {
		c, err := asp.StageReprojectionError(bySlice[asp.Name()])
		if err != nil {
			return a.reject(ev, err)
		}
		staged[i] = c
	}
	for i, asp := range a.aspects {
		asp.CommitReprojectionError(staged[i], bySlice[asp.Name()])
	}

	a.updatedAt = ev.Timestamp
	a.accept(ev)
	return nil
}

// Snapshot returns a serializable copy of the actor.
func (a *Actor) Snapshot() domain.ActorSnapshot {
	snap := domain.ActorSnapshot{
		Name:      a.name,
		Type:      a.profile.Type,
		Tracker:   a.layout.Kind,
		BatchID:   a.batchID,
		Aspects:   make([]domain.AspectSnapshot, len(a.aspects)),
		UpdatedAt: a.updatedAt,
	}
	for i, asp := range a.aspects {
		snap.Aspects[i] = asp.Snapshot()
	}
	return snap
}

// Restore loads trajectories from a snapshot taken of an actor with the same
// tracker. Aspects without data in the snapshot are left untouched; aspects in
// the snapshot that this actor does not own are ignored. On error nothing changes.
func (a *Actor) Restore(snap domain.ActorSnapshot) error {
	if snap.Tracker != a.layout.Kind {
		return &domain.ConfigurationError{
			Tracker: a.layout.Kind,
			Reason:  fmt.Sprintf("snapshot was taken with tracker %q", snap.Tracker),
		}
	}

	type stagedAspect struct {
		aspect    *domain.Aspect
		container *domain.TrajectoryContainer
	}
	var staged []stagedAspect

	for _, asp := range a.aspects {
		as, ok := snap.Aspect(asp.Name())
		if !ok || as.Points == nil {
			continue
		}
		c, err := asp.BuildTrajectories(*as.Points)
		if err != nil {
			return err
		}
		if as.ReprojectionError != nil {
			if c, err = c.WithReprojectionError(*as.ReprojectionError); err != nil {
				return err
			}
		}
		staged = append(staged, stagedAspect{aspect: asp, container: c})
	}

	for _, s := range staged {
		s.aspect.CommitTrajectories(s.container)
	}
	a.batchID = snap.BatchID
	a.updatedAt = snap.UpdatedAt
	a.logger.Debug("actor restored", "batch", snap.BatchID, "aspects", len(staged))
	return nil
}

func (a *Actor) newEvent(kind domain.EventType, frames, landmarks int) *domain.IngestEvent {
	return &domain.IngestEvent{
		Timestamp: time.Now(),
		Type:      kind,
		BatchID:   uuid.NewString(),
		Actor:     a.name,
		Tracker:   a.layout.Kind,
		Frames:    frames,
		Landmarks: landmarks,
		Aspects:   a.AspectNames(),
	}
}

func (a *Actor) accept(ev *domain.IngestEvent) {
	a.logger.Debug("ingest accepted",
		"type", ev.Type,
		"batch", ev.BatchID,
		"frames", ev.Frames,
		"landmarks", ev.Landmarks,
	)
	if a.hooks.OnIngest != nil {
		a.hooks.OnIngest(ev)
	}
}

func (a *Actor) reject(ev *domain.IngestEvent, err error) error {
	ev.Err = err
	a.logger.Warn("ingest rejected",
		"type", ev.Type,
		"batch", ev.BatchID,
		"frames", ev.Frames,
		"landmarks", ev.Landmarks,
		"error", err,
	)
	if a.hooks.OnReject != nil {
		a.hooks.OnReject(ev)
	}
	return err
}
