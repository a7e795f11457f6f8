package gcs

import (
	"bytes"
	"context"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newClient(t *testing.T) *storage.Client {
	t.Helper()
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(nil, Config{Bucket: "b"})
	require.Error(t, err)

	_, err = New(newClient(t), Config{})
	require.Error(t, err)

	store, err := New(newClient(t), Config{Bucket: "runtime-artifacts"})
	require.NoError(t, err)
	assert.Equal(t, "runtime-artifacts", store.bucket)
}

func TestPutObjectRequiresPath(t *testing.T) {
	t.Parallel()

	store, err := New(newClient(t), Config{Bucket: "runtime-artifacts"})
	require.NoError(t, err)
	_, err = store.PutObject(context.Background(), "", "text/plain", bytes.NewReader([]byte("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}
