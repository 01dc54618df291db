package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/domain"
	"github.com/aretw0/skelly/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_DefaultPath(t *testing.T) {
	s := file.NewStore("")
	assert.Equal(t, filepath.Join(".skelly", "snapshots"), s.BasePath)
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	s := file.NewStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		err := s.Save(ctx, domain.ActorSnapshot{Name: name})
		assert.Error(t, err, "name %q", name)
	}
}

func TestFileStore_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, domain.ActorSnapshot{Name: "alice", Tracker: "mediapipe"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-bob-123.json"), []byte("{}"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	s := file.NewStore(filepath.Join(t.TempDir(), "absent"))
	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
