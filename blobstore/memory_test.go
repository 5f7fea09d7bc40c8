package blobstore

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "a.pcd", data))

	blob, err := store.Open(ctx, "a.pcd")
	require.NoError(t, err)
	require.Equal(t, int64(10), blob.Size())

	buf := make([]byte, 4)
	n, err := blob.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	require.Equal(t, "3456", string(buf[:n]))

	// Read past end
	n, err = blob.ReadAt(ctx, buf, 8)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	// Negative offset is an error, not a panic.
	_, err = blob.ReadAt(ctx, buf, -1)
	require.Error(t, err)

	require.NoError(t, store.Delete(ctx, "a.pcd"))
	_, err = store.Open(ctx, "a.pcd")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CopyOnOpen(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("immutable")
	require.NoError(t, store.Put(ctx, "b", data))

	// Mutating the caller's slice after Put must not change the stored blob.
	data[0] = 'X'

	got, err := ReadAll(ctx, store, "b")
	require.NoError(t, err)
	require.Equal(t, "immutable", string(got))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, store.Put(ctx, "shared", []byte("payload")))
			_, err := ReadAll(ctx, store, "shared")
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"shared"}, names)
}
