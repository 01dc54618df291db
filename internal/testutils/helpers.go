package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/stretchr/testify/require"
)

// TinyKind is the tracker kind of TinyLayout.
const TinyKind = "tiny"

// TinyLayoutYAML is TinyLayout as a layout file.
const TinyLayoutYAML = `
kind: tiny
dims: 3
regions:
  - name: body
    landmarks: [hip, knee]
    indices: [0, 1]
  - name: face
    landmarks: [nose_tip]
    indices: [2]
  - name: left_hand
    landmarks: [left_wrist]
    indices: [3]
  - name: right_hand
    landmarks: [right_wrist]
    indices: [4]
`

// TinyLayout is a five-landmark 3D tracker with one or two landmarks per region,
// small enough to write payloads by hand.
func TinyLayout() registry.TrackerLayout {
	return registry.TrackerLayout{
		Kind: TinyKind,
		Dims: 3,
		Regions: []registry.RegionLayout{
			{Name: domain.AspectBody, Landmarks: []string{"hip", "knee"}, Indices: []int{0, 1}},
			{Name: domain.AspectFace, Landmarks: []string{"nose_tip"}, Indices: []int{2}},
			{Name: domain.AspectLeftHand, Landmarks: []string{"left_wrist"}, Indices: []int{3}},
			{Name: domain.AspectRightHand, Landmarks: []string{"right_wrist"}, Indices: []int{4}},
		},
	}
}

// TinyRegistry returns the default registry plus TinyLayout.
func TinyRegistry() *registry.Registry {
	reg := registry.Default()
	reg.Register(TinyLayout())
	return reg
}

// Ramp returns a (frames × landmarks × dims) array whose flat data is 0, 1, 2, ...
func Ramp(frames, landmarks, dims int) domain.TrackedPoints {
	p := domain.NewTrackedPoints(frames, landmarks, dims)
	for i := range p.Data {
		p.Data[i] = float64(i)
	}
	return p
}

// WriteFile writes contents to dir/name and returns the path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644), "Failed to write %s", name)
	return path
}
