package objstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furrow/furrow/pkg/config"
)

func TestLocalStoragePutGet(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"kind":"succession"}`)
	require.NoError(t, s.Put(ctx, "plans/bed1/plan1.json", data))

	got, err := s.Get(ctx, "plans/bed1/plan1.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))

	// Keys map onto the directory layout.
	_, err = os.Stat(filepath.Join(dir, "plans", "bed1", "plan1.json"))
	assert.NoError(t, err)
}

func TestLocalStorageOverwrite(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "catalog/crops.yaml", []byte("v1")))
	require.NoError(t, s.Put(ctx, "catalog/crops.yaml", []byte("v2")))

	got, err := s.Get(ctx, "catalog/crops.yaml")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	_, err := s.Get(context.Background(), "catalog/missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../outside.json", "a/../../outside.json"} {
		assert.Error(t, s.Put(ctx, key, []byte("x")), "key %q", key)
	}
	// A leading slash is relative to the root.
	require.NoError(t, s.Put(ctx, "/rooted.json", []byte("x")))
	_, err := s.Get(ctx, "rooted.json")
	assert.NoError(t, err)
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "a.json", joinKey("", "a.json"))
	assert.Equal(t, "furrow/a.json", joinKey("furrow", "a.json"))
	assert.Equal(t, "furrow/a.json", joinKey("furrow/", "a.json"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("plans/x.json"))
	assert.Equal(t, "application/yaml", contentType("catalog/crops.YAML"))
	assert.Equal(t, "application/octet-stream", contentType("blob"))
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(context.Background(), config.StorageConfig{Backend: config.BackendLocal, LocalDir: dir})
	require.NoError(t, err)
	ls, ok := c.(*LocalStorage)
	require.True(t, ok)
	assert.Equal(t, dir, ls.BaseDir)

	_, err = Open(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestS3ConfigCarriesPrefix(t *testing.T) {
	got := s3Config(config.StorageConfig{
		Backend:  config.BackendS3,
		Bucket:   "garden-blobs",
		Region:   "eu-west-1",
		Endpoint: "http://localhost:9000",
		Prefix:   "furrow/prod",
	})
	assert.Equal(t, S3Config{
		Bucket:   "garden-blobs",
		Region:   "eu-west-1",
		Endpoint: "http://localhost:9000",
		Prefix:   "furrow/prod",
	}, got)
	assert.Equal(t, "furrow/prod/plans/b/p.json", joinKey(got.Prefix, "plans/b/p.json"))
}
