package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/skelly/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-actor-" + time.Now().Format("20060102150405")

	points := domain.NewTrackedPoints(2, 3, 3)
	for i := range points.Data {
		points.Data[i] = float64(i) + 0.5
	}
	errs := domain.NewReprojectionError(2, 3)
	for i := range errs.Data {
		errs.Data[i] = float64(i) / 10
	}

	snap := domain.ActorSnapshot{
		Name:    name,
		Type:    "human",
		Tracker: "test",
		BatchID: "batch-1",
		Aspects: []domain.AspectSnapshot{
			{
				Name:              domain.AspectBody,
				Landmarks:         []string{"a", "b", "c"},
				Metadata:          map[string]any{domain.KeyTrackerType: "test"},
				Points:            &points,
				ReprojectionError: &errs,
			},
			{
				Name:      domain.AspectFace,
				Landmarks: []string{"f0"},
			},
		},
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, snap), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")

		assert.Equal(t, snap.Name, loaded.Name)
		assert.Equal(t, snap.Tracker, loaded.Tracker)
		assert.Equal(t, snap.BatchID, loaded.BatchID)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
		require.Len(t, loaded.Aspects, 2)

		body, ok := loaded.Aspect(domain.AspectBody)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b", "c"}, body.Landmarks)
		require.NotNil(t, body.Points)
		assert.Equal(t, points.Data, body.Points.Data)
		require.NotNil(t, body.ReprojectionError)
		assert.Equal(t, errs.Data, body.ReprojectionError.Data)
		assert.Equal(t, "test", body.Metadata[domain.KeyTrackerType])

		face, ok := loaded.Aspect(domain.AspectFace)
		require.True(t, ok)
		assert.Nil(t, face.Points)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		next := snap
		next.BatchID = "batch-2"
		require.NoError(t, store.Save(ctx, next))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "batch-2", loaded.BatchID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-actor")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, name)

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})
}
