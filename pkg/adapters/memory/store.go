package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/skelly/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.ActorSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.ActorSnapshot),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, snap domain.ActorSnapshot) error {
	copied := cloneSnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.Name] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, actor string) (domain.ActorSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[actor]
	if !ok {
		return domain.ActorSnapshot{}, domain.ErrSnapshotNotFound
	}

	// Copy on read so callers can't mutate store state through shared slices
	return cloneSnapshot(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, actor)
	return nil
}

// List returns stored actor names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func cloneSnapshot(snap domain.ActorSnapshot) domain.ActorSnapshot {
	out := snap
	out.Aspects = make([]domain.AspectSnapshot, len(snap.Aspects))
	for i, a := range snap.Aspects {
		c := a
		c.Landmarks = append([]string(nil), a.Landmarks...)
		if a.Metadata != nil {
			c.Metadata = make(map[string]any, len(a.Metadata))
			for k, v := range a.Metadata {
				c.Metadata[k] = v
			}
		}
		if a.Points != nil {
			p := a.Points.Clone()
			c.Points = &p
		}
		if a.ReprojectionError != nil {
			e := a.ReprojectionError.Clone()
			c.ReprojectionError = &e
		}
		out.Aspects[i] = c
	}
	return out
}
