package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openPoseYAML = `
kind: openpose
dims: 2
regions:
  - name: body
    range: [0, 25]
    landmark_prefix: body_
  - name: left_hand
    range: [25, 46]
    landmark_prefix: lh_
  - name: right_hand
    range: [46, 67]
    landmark_prefix: rh_
`

func TestParseLayouts_YAMLSingle(t *testing.T) {
	layouts, err := file.ParseLayouts([]byte(openPoseYAML), "yaml")
	require.NoError(t, err)
	require.Len(t, layouts, 1)

	l := layouts[0]
	assert.Equal(t, "openpose", l.Kind)
	assert.Equal(t, 2, l.Dims)
	assert.Equal(t, 67, l.TotalLandmarks())
	require.NoError(t, l.Validate())

	body, ok := l.Region(domain.AspectBody)
	require.True(t, ok)
	assert.Equal(t, "body_0", body.Landmarks[0])
	assert.Equal(t, "body_24", body.Landmarks[24])
	assert.Equal(t, registry.Range(0, 25), body.Indices)
}

func TestParseLayouts_JSONMulti(t *testing.T) {
	doc := `{"trackers": [
		{"kind": "tiny", "dims": "3", "regions": [
			{"name": "body", "landmarks": ["a", "b"], "indices": [1, 0]}
		]},
		{"kind": "tiny2d", "dims": 2, "regions": [
			{"name": "body", "landmarks": ["a"], "indices": [0]}
		]}
	]}`
	layouts, err := file.ParseLayouts([]byte(doc), "json")
	require.NoError(t, err)
	require.Len(t, layouts, 2)
	assert.Equal(t, 3, layouts[0].Dims, "weakly typed dims")
	assert.Equal(t, []int{1, 0}, layouts[0].Regions[0].Indices)
	assert.Equal(t, "tiny2d", layouts[1].Kind)
}

func TestParseLayouts_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "kind: x\ndims: 3\ncolour: red\n"},
		{"indices and range", "kind: x\ndims: 3\nregions:\n  - name: body\n    indices: [0]\n    range: [0, 1]\n"},
		{"bad range", "kind: x\ndims: 3\nregions:\n  - name: body\n    range: [0]\n"},
		{"landmarks and prefix", "kind: x\ndims: 3\nregions:\n  - name: body\n    range: [0, 1]\n    landmarks: [a]\n    landmark_prefix: p\n"},
		{"empty", ""},
		{"malformed", "kind: [x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.ParseLayouts([]byte(tt.doc), "yaml")
			assert.Error(t, err)
		})
	}
}

func TestLoadLayouts_DetectsFormat(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "openpose.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(openPoseYAML), 0644))

	layouts, err := file.LoadLayouts(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "openpose", layouts[0].Kind)

	jsonPath := filepath.Join(dir, "tiny.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"kind":"tiny","dims":3,"regions":[{"name":"body","landmarks":["a"],"indices":[0]}]}`), 0644))
	layouts, err = file.LoadLayouts(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "tiny", layouts[0].Kind)

	_, err = file.LoadLayouts(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
