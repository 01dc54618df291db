package actor_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/skelly/pkg/actor"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFrames builds a (frames × landmarks × 3) array where landmark l of frame f
// is (f, l, -l).
func rawFrames(frames, landmarks int) domain.TrackedPoints {
	p := domain.NewTrackedPoints(frames, landmarks, 3)
	for f := 0; f < frames; f++ {
		for l := 0; l < landmarks; l++ {
			p.Set(f, l, 0, float64(f))
			p.Set(f, l, 1, float64(l))
			p.Set(f, l, 2, -float64(l))
		}
	}
	return p
}

func rawErrors(frames, landmarks int) domain.ReprojectionError {
	e := domain.NewReprojectionError(frames, landmarks)
	for f := 0; f < frames; f++ {
		for l := 0; l < landmarks; l++ {
			e.Set(f, l, float64(l)/1000)
		}
	}
	return e
}

func newActor(t *testing.T, cfg actor.Config, opts ...actor.Option) *actor.Actor {
	t.Helper()
	a, err := actor.NewHuman("subject", cfg, registry.Default(), opts...)
	require.NoError(t, err)
	return a
}

func TestNewHuman_FullConfig(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())

	assert.Equal(t, "human", a.Type())
	assert.Equal(t, registry.MediaPipeKind, a.Tracker())
	assert.Equal(t, 543, a.ExpectedLandmarks())
	assert.Equal(t, []domain.AspectName{
		domain.AspectBody, domain.AspectFace, domain.AspectLeftHand, domain.AspectRightHand,
	}, a.AspectNames())

	assert.Equal(t, 33, a.Body().Structure().Len())
	face, ok := a.Face()
	require.True(t, ok)
	assert.Equal(t, 468, face.Structure().Len())

	md := a.Body().Metadata()
	assert.Equal(t, registry.MediaPipeKind, md[domain.KeyTrackerType])
	assert.Equal(t, "human", md[domain.KeyActorType])
}

func TestNewHuman_BodyOnly(t *testing.T) {
	a := newActor(t, actor.Config{TrackerKind: registry.MediaPipeKind})

	assert.Equal(t, []domain.AspectName{domain.AspectBody}, a.AspectNames())
	face, ok := a.Face()
	assert.False(t, ok)
	assert.Nil(t, face)
	_, ok = a.LeftHand()
	assert.False(t, ok)
	_, ok = a.RightHand()
	assert.False(t, ok)
	assert.Equal(t, 543, a.ExpectedLandmarks(), "raw arrays still carry every tracker region")
}

func TestNewHuman_ConfigErrors(t *testing.T) {
	reg := registry.Default()

	_, err := actor.NewHuman("subject", actor.Config{TrackerKind: "openpose"}, reg)
	assert.ErrorIs(t, err, domain.ErrUnknownTracker)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = actor.NewHuman("subject", actor.Config{}, reg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = actor.NewHuman("", actor.DefaultConfig(), reg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = actor.NewHuman("subject", actor.DefaultConfig(), nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewHuman_LayoutErrors(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(registry.TrackerLayout{
		Kind: "overlapping",
		Dims: 3,
		Regions: []registry.RegionLayout{
			{Name: domain.AspectBody, Landmarks: []string{"a", "b"}, Indices: []int{0, 1}},
			{Name: domain.AspectFace, Landmarks: []string{"c"}, Indices: []int{1}},
		},
	})
	reg.Register(registry.TrackerLayout{
		Kind: "faceless",
		Dims: 3,
		Regions: []registry.RegionLayout{
			{Name: domain.AspectBody, Landmarks: []string{"a"}, Indices: []int{0}},
		},
	})

	_, err := actor.NewHuman("subject", actor.Config{TrackerKind: "overlapping"}, reg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = actor.NewHuman("subject", actor.Config{TrackerKind: "overlapping"}, reg, actor.WithValidation(false))
	assert.NoError(t, err, "overlap is tolerated without validation")

	reg.Register(registry.TrackerLayout{
		Kind: "sparse",
		Dims: 3,
		Regions: []registry.RegionLayout{
			{Name: domain.AspectBody, Landmarks: []string{"a", "b"}, Indices: []int{0, 7}},
		},
	})
	_, err = actor.NewHuman("subject", actor.Config{TrackerKind: "sparse"}, reg, actor.WithValidation(false))
	assert.ErrorIs(t, err, domain.ErrConfiguration, "bounds are checked without validation")

	_, err = actor.NewHuman("subject", actor.Config{TrackerKind: "faceless", IncludeFace: true}, reg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	a, err := actor.NewHuman("subject", actor.Config{TrackerKind: "faceless"}, reg)
	require.NoError(t, err)
	assert.Equal(t, 1, a.ExpectedLandmarks())
}

func TestIngest_FullConfig(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())
	require.NoError(t, a.Ingest(rawFrames(10, 543)))
	assert.NotEmpty(t, a.BatchID())

	want := map[domain.AspectName]int{
		domain.AspectBody:      0,
		domain.AspectFace:      33,
		domain.AspectLeftHand:  501,
		domain.AspectRightHand: 522,
	}
	for _, asp := range a.Aspects() {
		c, ok := asp.Trajectories()
		require.True(t, ok, asp.Name())
		assert.Equal(t, 10, c.Frames())

		first := asp.Structure().Landmarks()[0]
		pt, err := c.Point(first, 7)
		require.NoError(t, err)
		start := float64(want[asp.Name()])
		assert.Equal(t, []float64{7, start, -start}, pt, asp.Name())
	}

	right, _ := a.RightHand()
	c, _ := right.Trajectories()
	pt, err := c.Point("right_hand_pinky_tip", 0)
	require.NoError(t, err)
	assert.Equal(t, 542.0, pt[1])
}

func TestIngest_BodyOnlyDiscardsOtherRegions(t *testing.T) {
	a := newActor(t, actor.Config{TrackerKind: registry.MediaPipeKind})
	require.NoError(t, a.Ingest(rawFrames(5, 543)))

	c, ok := a.Body().Trajectories()
	require.True(t, ok)
	assert.Equal(t, 5, c.Frames())
	assert.Len(t, c.Landmarks(), 33)

	snap := a.Snapshot()
	assert.Len(t, snap.Aspects, 1)
}

func TestIngest_WrongLandmarkCountIsAtomic(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())
	require.NoError(t, a.Ingest(rawFrames(3, 543)))
	batch := a.BatchID()

	err := a.Ingest(rawFrames(10, 500))
	var shape *domain.ShapeMismatchError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 500, shape.Got)
	assert.Equal(t, 543, shape.Want)

	assert.Equal(t, batch, a.BatchID())
	for _, asp := range a.Aspects() {
		c, _ := asp.Trajectories()
		assert.Equal(t, 3, c.Frames(), asp.Name())
	}

	err = a.Ingest(domain.TrackedPoints{Frames: 1, Landmarks: 543, Dims: 2, Data: make([]float64, 543*2)})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch, "dims must match the tracker")
}

func TestIngest_Replaces(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())
	require.NoError(t, a.Ingest(rawFrames(10, 543)))
	first := a.BatchID()
	require.NoError(t, a.Ingest(rawFrames(4, 543)))

	assert.NotEqual(t, first, a.BatchID())
	for _, asp := range a.Aspects() {
		c, _ := asp.Trajectories()
		assert.Equal(t, 4, c.Frames(), "no accumulation across ingests")
	}
}

func TestIngest_ZeroFrames(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())
	require.NoError(t, a.Ingest(rawFrames(0, 543)))
	c, ok := a.Body().Trajectories()
	require.True(t, ok)
	assert.Equal(t, 0, c.Frames())
}

func TestIngestReprojectionError(t *testing.T) {
	t.Run("after trajectories", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.Ingest(rawFrames(2, 543)))
		require.NoError(t, a.IngestReprojectionError(rawErrors(2, 543)))

		left, _ := a.LeftHand()
		c, _ := left.Trajectories()
		vals, ok, err := c.Errors("left_hand_wrist")
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 0.501, vals[1], 1e-12)
	})

	t.Run("frame mismatch is atomic", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.Ingest(rawFrames(2, 543)))
		err := a.IngestReprojectionError(rawErrors(3, 543))
		assert.ErrorIs(t, err, domain.ErrShapeMismatch)
		for _, asp := range a.Aspects() {
			c, _ := asp.Trajectories()
			assert.False(t, c.HasErrors(), asp.Name())
		}
	})

	t.Run("before trajectories is held", func(t *testing.T) {
		a := newActor(t, actor.Config{TrackerKind: registry.MediaPipeKind, IncludeHands: true})
		require.NoError(t, a.IngestReprojectionError(rawErrors(2, 543)))
		assert.True(t, a.Body().HasPendingReprojectionError())

		require.NoError(t, a.Ingest(rawFrames(2, 543)))
		assert.False(t, a.Body().HasPendingReprojectionError())
		c, _ := a.Body().Trajectories()
		assert.True(t, c.HasErrors())
	})

	t.Run("stale held error is dropped by a new batch", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		a := newActor(t, actor.DefaultConfig(), actor.WithLogger(logger))
		require.NoError(t, a.IngestReprojectionError(rawErrors(5, 543)))

		require.NoError(t, a.Ingest(rawFrames(10, 543)))
		for _, asp := range a.Aspects() {
			c, ok := asp.Trajectories()
			require.True(t, ok, asp.Name())
			assert.Equal(t, 10, c.Frames(), asp.Name())
			assert.False(t, c.HasErrors(), asp.Name())
			assert.False(t, asp.HasPendingReprojectionError(), asp.Name())
		}
		assert.Contains(t, logs.String(), "dropping stale reprojection error")
	})

	t.Run("wrong landmark count", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		assert.ErrorIs(t, a.IngestReprojectionError(rawErrors(2, 542)), domain.ErrShapeMismatch)
		assert.False(t, a.Body().HasPendingReprojectionError())
	})
}

func TestIngestWithErrors(t *testing.T) {
	t.Run("points and error commit together", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.IngestWithErrors(rawFrames(4, 543), rawErrors(4, 543)))
		for _, asp := range a.Aspects() {
			c, ok := asp.Trajectories()
			require.True(t, ok, asp.Name())
			assert.Equal(t, 4, c.Frames(), asp.Name())
			assert.True(t, c.HasErrors(), asp.Name())
		}
		lh, _ := a.LeftHand()
		c, _ := lh.Trajectories()
		vals, _, err := c.Errors("left_hand_wrist")
		require.NoError(t, err)
		assert.InDelta(t, 0.501, vals[0], 1e-12)
	})

	t.Run("frame mismatch changes nothing", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.Ingest(rawFrames(2, 543)))
		batch := a.BatchID()

		err := a.IngestWithErrors(rawFrames(4, 543), rawErrors(3, 543))
		assert.ErrorIs(t, err, domain.ErrShapeMismatch)
		assert.Equal(t, batch, a.BatchID())
		for _, asp := range a.Aspects() {
			c, _ := asp.Trajectories()
			assert.Equal(t, 2, c.Frames(), asp.Name())
		}
	})

	t.Run("error landmark mismatch changes nothing", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.Ingest(rawFrames(2, 543)))
		assert.ErrorIs(t, a.IngestWithErrors(rawFrames(4, 543), rawErrors(4, 500)), domain.ErrShapeMismatch)
		c, _ := a.Body().Trajectories()
		assert.Equal(t, 2, c.Frames())
	})

	t.Run("replaces a held error", func(t *testing.T) {
		a := newActor(t, actor.DefaultConfig())
		require.NoError(t, a.IngestReprojectionError(rawErrors(2, 543)))
		require.NoError(t, a.IngestWithErrors(rawFrames(3, 543), rawErrors(3, 543)))
		assert.False(t, a.Body().HasPendingReprojectionError())
		c, _ := a.Body().Trajectories()
		assert.True(t, c.HasErrors())
	})
}

func TestLifecycleHooks(t *testing.T) {
	var accepted, rejected []*domain.IngestEvent
	hooks := domain.LifecycleHooks{
		OnIngest: func(e *domain.IngestEvent) { accepted = append(accepted, e) },
		OnReject: func(e *domain.IngestEvent) { rejected = append(rejected, e) },
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := newActor(t, actor.DefaultConfig(), actor.WithLifecycleHooks(hooks), actor.WithLogger(logger))
	require.NoError(t, a.Ingest(rawFrames(3, 543)))
	require.Error(t, a.Ingest(rawFrames(3, 500)))
	require.NoError(t, a.IngestReprojectionError(rawErrors(3, 543)))

	require.Len(t, accepted, 2)
	assert.Equal(t, domain.EventIngest, accepted[0].Type)
	assert.Equal(t, "subject", accepted[0].Actor)
	assert.Equal(t, 3, accepted[0].Frames)
	assert.Equal(t, a.BatchID(), accepted[0].BatchID)
	assert.Equal(t, domain.EventIngestError, accepted[1].Type)

	require.Len(t, rejected, 1)
	assert.Equal(t, 500, rejected[0].Landmarks)
	assert.ErrorIs(t, rejected[0].Err, domain.ErrShapeMismatch)

	assert.Contains(t, logs.String(), "ingest rejected")
	assert.Contains(t, logs.String(), "actor=subject")
}

func TestSnapshotRestore(t *testing.T) {
	a := newActor(t, actor.DefaultConfig())
	require.NoError(t, a.Ingest(rawFrames(3, 543)))
	require.NoError(t, a.IngestReprojectionError(rawErrors(3, 543)))
	snap := a.Snapshot()

	assert.Equal(t, "subject", snap.Name)
	assert.Equal(t, a.BatchID(), snap.BatchID)
	require.Len(t, snap.Aspects, 4)

	b := newActor(t, actor.Config{TrackerKind: registry.MediaPipeKind, IncludeFace: true})
	require.NoError(t, b.Restore(snap))
	assert.Equal(t, snap.BatchID, b.BatchID())

	face, _ := b.Face()
	c, ok := face.Trajectories()
	require.True(t, ok)
	assert.Equal(t, 3, c.Frames())
	assert.True(t, c.HasErrors())

	t.Run("tracker mismatch", func(t *testing.T) {
		other := snap
		other.Tracker = "openpose"
		assert.ErrorIs(t, b.Restore(other), domain.ErrConfiguration)
	})

	t.Run("bad aspect data is atomic", func(t *testing.T) {
		c := newActor(t, actor.DefaultConfig())
		broken := a.Snapshot()
		pts := domain.NewTrackedPoints(3, 20, 3)
		broken.Aspects[3].Points = &pts
		assert.ErrorIs(t, c.Restore(broken), domain.ErrShapeMismatch)
		_, ok := c.Body().Trajectories()
		assert.False(t, ok)
		assert.Empty(t, c.BatchID())
	})
}
