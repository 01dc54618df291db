package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/skelly/pkg/actor"
	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/adapters/memory"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/ports"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
)

// maxBodyBytes bounds ingest payloads. A 543-landmark 3D frame is ~40KB of JSON.
const maxBodyBytes = 256 << 20

const lockTTL = 30 * time.Second

// Server exposes a tracker registry and a set of named actors over HTTP.
type Server struct {
	registry *registry.Registry
	store    ports.SnapshotStore
	locker   ports.Locker
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	mu     sync.RWMutex
	actors map[string]*actor.Actor
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists a snapshot after every successful ingest and restores
// actors from it on creation.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLocker replaces the in-process ingest lock, e.g. with a Redis lock
// shared by several replicas.
func WithLocker(l ports.Locker) Option {
	return func(s *Server) { s.locker = l }
}

// WithLogger sets the server logger. It is also handed to every actor.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithLifecycleHooks sets the hooks passed to every actor the server creates.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) { s.hooks = hooks }
}

// NewServer creates a server over reg.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		locker:   memory.NewLocker(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		actors:   make(map[string]*actor.Actor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Route("/trackers", func(r chi.Router) {
		r.Get("/", s.ListTrackers)
		r.Get("/{kind}", s.GetTracker)
	})
	r.Route("/actors", func(r chi.Router) {
		r.Get("/", s.ListActors)
		r.Post("/", s.CreateActor)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetActor)
			r.Delete("/", s.DeleteActor)
			r.Get("/aspects/{aspect}", s.GetAspect)
			r.Post("/ingest", s.Ingest)
		})
	})
	return r
}

// NewHandler is a shortcut for NewServer(reg, opts...).Handler().
func NewHandler(reg *registry.Registry, opts ...Option) http.Handler {
	return NewServer(reg, opts...).Handler()
}

// -- Payloads --

// TrackerSummary describes one registered tracker.
type TrackerSummary struct {
	Kind      string          `json:"kind"`
	Dims      int             `json:"dims"`
	Landmarks int             `json:"landmarks"`
	Regions   []RegionSummary `json:"regions"`
}

// RegionSummary describes one region of a tracker.
type RegionSummary struct {
	Name      domain.AspectName `json:"name"`
	Landmarks int               `json:"landmarks"`
}

// CreateActorRequest is the body of POST /actors.
// Config is decoded over actor.DefaultConfig, so omitted keys keep defaults.
type CreateActorRequest struct {
	Name   string         `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

// ActorSummary is the representation of an actor.
type ActorSummary struct {
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Tracker           string          `json:"tracker"`
	ExpectedLandmarks int             `json:"expected_landmarks"`
	BatchID           string          `json:"batch_id,omitempty"`
	Aspects           []AspectSummary `json:"aspects"`
}

// AspectSummary describes one configured aspect without its data.
type AspectSummary struct {
	Name                     domain.AspectName `json:"name"`
	Landmarks                int               `json:"landmarks"`
	Frames                   int               `json:"frames"`
	HasTrajectories          bool              `json:"has_trajectories"`
	HasReprojectionError     bool              `json:"has_reprojection_error"`
	PendingReprojectionError bool              `json:"pending_reprojection_error"`
}

// IngestRequest is the body of POST /actors/{name}/ingest. Arrays are either
// nested ([frame][landmark][dim]) or objects with flat data.
type IngestRequest struct {
	Points            json.RawMessage `json:"points,omitempty"`
	ReprojectionError json.RawMessage `json:"reprojection_error,omitempty"`
}

// IngestResponse reports the outcome of an ingest.
type IngestResponse struct {
	Actor   string `json:"actor"`
	BatchID string `json:"batch_id"`
	Frames  int    `json:"frames"`
	Saved   bool   `json:"saved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// -- Handlers --

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTrackers handles GET /trackers.
func (s *Server) ListTrackers(w http.ResponseWriter, r *http.Request) {
	kinds := s.registry.Kinds()
	out := make([]TrackerSummary, 0, len(kinds))
	for _, kind := range kinds {
		layout, err := s.registry.Lookup(kind)
		if err != nil {
			continue
		}
		out = append(out, summarizeTracker(layout))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetTracker handles GET /trackers/{kind}.
func (s *Server) GetTracker(w http.ResponseWriter, r *http.Request) {
	layout, err := s.registry.Lookup(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layout)
}

// ListActors handles GET /actors.
func (s *Server) ListActors(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.actors))
	for name := range s.actors {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	s.writeJSON(w, http.StatusOK, names)
}

// CreateActor handles POST /actors.
func (s *Server) CreateActor(w http.ResponseWriter, r *http.Request) {
	var body CreateActorRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	cfg, err := decodeConfig(body.Config)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := actor.NewHuman(body.Name, cfg, s.registry,
		actor.WithLogger(s.logger),
		actor.WithLifecycleHooks(s.hooks),
	)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if s.store != nil {
		snap, err := s.store.Load(r.Context(), body.Name)
		switch {
		case err == nil:
			if err := a.Restore(snap); err != nil {
				s.logger.Warn("snapshot not restored", "actor", body.Name, "error", err)
			}
		case !errors.Is(err, domain.ErrSnapshotNotFound):
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	s.mu.Lock()
	if _, exists := s.actors[body.Name]; exists {
		s.mu.Unlock()
		s.writeError(w, http.StatusConflict, fmt.Errorf("actor %q already exists", body.Name))
		return
	}
	s.actors[body.Name] = a
	s.mu.Unlock()

	s.logger.Info("actor created", "actor", body.Name, "tracker", a.Tracker(), "aspects", a.AspectNames())
	s.writeJSON(w, http.StatusCreated, summarizeActor(a))
}

// GetActor handles GET /actors/{name}.
func (s *Server) GetActor(w http.ResponseWriter, r *http.Request) {
	a, unlock, err := s.acquire(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	summary := summarizeActor(a)
	unlock()
	s.writeJSON(w, http.StatusOK, summary)
}

// DeleteActor handles DELETE /actors/{name}. The stored snapshot is kept.
func (s *Server) DeleteActor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	_, ok := s.actors[name]
	delete(s.actors, name)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("actor %q not found", name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAspect handles GET /actors/{name}/aspects/{aspect}.
func (s *Server) GetAspect(w http.ResponseWriter, r *http.Request) {
	a, unlock, err := s.acquire(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	name := domain.AspectName(chi.URLParam(r, "aspect"))
	asp, ok := a.Aspect(name)
	if !ok {
		unlock()
		s.writeError(w, http.StatusNotFound, fmt.Errorf("aspect %q not configured", name))
		return
	}
	snap := asp.Snapshot()
	unlock()
	s.writeJSON(w, http.StatusOK, snap)
}

// Ingest handles POST /actors/{name}/ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var body IngestRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(body.Points) == 0 && len(body.ReprojectionError) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("nothing to ingest"))
		return
	}

	var (
		points    domain.TrackedPoints
		errs      domain.ReprojectionError
		hasPoints = len(body.Points) > 0
		hasErrors = len(body.ReprojectionError) > 0
		err       error
	)
	if hasPoints {
		if points, err = file.ParseTrackedPoints(body.Points); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if hasErrors {
		if errs, err = file.ParseReprojectionError(body.ReprojectionError); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	a, unlock, err := s.acquire(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	defer unlock()

	// Points and error from one request form a single batch.
	frames := points.Frames
	switch {
	case hasPoints && hasErrors:
		err = a.IngestWithErrors(points, errs)
	case hasPoints:
		err = a.Ingest(points)
	default:
		frames = errs.Frames
		err = a.IngestReprojectionError(errs)
	}
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := IngestResponse{Actor: a.Name(), BatchID: a.BatchID(), Frames: frames}
	if s.store != nil {
		if err := s.store.Save(r.Context(), a.Snapshot()); err != nil {
			s.logger.Error("snapshot save failed", "actor", a.Name(), "error", err)
		} else {
			resp.Saved = true
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// -- Helpers --

// acquire looks up an actor and takes its ingest lock.
func (s *Server) acquire(ctx context.Context, name string) (*actor.Actor, func(), error) {
	s.mu.RLock()
	a, ok := s.actors[name]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("%w: actor %q", errNotFound, name)
	}
	release, err := s.locker.Lock(ctx, "actor:"+name, lockTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errBusy, err)
	}
	return a, func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release actor lock", "actor", name, "error", err)
		}
	}, nil
}

var (
	errNotFound = errors.New("not found")
	errBusy     = errors.New("actor busy")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrShapeMismatch), errors.Is(err, domain.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeConfig(raw map[string]any) (actor.Config, error) {
	cfg := actor.DefaultConfig()
	if raw == nil {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return cfg, nil
}

func summarizeTracker(layout registry.TrackerLayout) TrackerSummary {
	out := TrackerSummary{
		Kind:      layout.Kind,
		Dims:      layout.Dims,
		Landmarks: layout.TotalLandmarks(),
		Regions:   make([]RegionSummary, len(layout.Regions)),
	}
	for i, r := range layout.Regions {
		out.Regions[i] = RegionSummary{Name: r.Name, Landmarks: len(r.Indices)}
	}
	return out
}

func summarizeActor(a *actor.Actor) ActorSummary {
	out := ActorSummary{
		Name:              a.Name(),
		Type:              a.Type(),
		Tracker:           a.Tracker(),
		ExpectedLandmarks: a.ExpectedLandmarks(),
		BatchID:           a.BatchID(),
	}
	for _, asp := range a.Aspects() {
		sum := AspectSummary{
			Name:                     asp.Name(),
			Landmarks:                asp.Structure().Len(),
			PendingReprojectionError: asp.HasPendingReprojectionError(),
		}
		if c, ok := asp.Trajectories(); ok {
			sum.HasTrajectories = true
			sum.Frames = c.Frames()
			sum.HasReprojectionError = c.HasErrors()
		}
		out.Aspects = append(out.Aspects, sum)
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
