package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-api/internal/config"
)

// fakeS3 is a minimal path-style object store good enough for the SDK.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Disk(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	disk, err := NewS3Disk(ctx, config.StorageConfig{
		S3Bucket:   "recipes",
		S3Region:   "us-east-1",
		S3Key:      "key",
		S3Secret:   "secret",
		S3Endpoint: srv.URL,
		S3URL:      "https://cdn.example.com/",
	})
	require.NoError(t, err)

	require.NoError(t, disk.Put(ctx, "uploads/recipe/a.png", []byte("png"), "image/png"))
	fake.mu.Lock()
	assert.Contains(t, string(fake.objects["/recipes/uploads/recipe/a.png"]), "png")
	fake.mu.Unlock()

	ok, err := disk.Exists(ctx, "uploads/recipe/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, disk.Delete(ctx, "uploads/recipe/a.png"))
	ok, err = disk.Exists(ctx, "uploads/recipe/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "https://cdn.example.com/uploads/recipe/a.png", disk.URL("uploads/recipe/a.png"))
}

func TestS3Disk_DefaultURL(t *testing.T) {
	disk, err := NewS3Disk(context.Background(), config.StorageConfig{
		S3Bucket: "recipes", S3Region: "eu-west-1", S3Key: "k", S3Secret: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://recipes.s3.eu-west-1.amazonaws.com/uploads/x.jpg", disk.URL("uploads/x.jpg"))
}
