package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStorePutObject(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	uri, err := store.PutObject(context.Background(), "jobs/a/logs.txt", "text/plain", bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, "memory://jobs/a/logs.txt", uri)
	assert.Equal(t, 1, store.Len())

	data, ok := store.Object("jobs/a/logs.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	// Callers get a copy.
	data[0] = 'J'
	again, _ := store.Object("jobs/a/logs.txt")
	assert.Equal(t, "hello", string(again))

	_, ok = store.Object("missing")
	assert.False(t, ok)
}
