package cloud

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cloudalign/blobstore"
	"github.com/hupe1980/cloudalign/resource"
)

func TestFromStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	pc := New(samplePoints())

	for _, name := range []string{
		"capture.pcd",
		"capture.pcd.zst",
		"capture.pcd.lz4",
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteBlob(ctx, store, name, pc, true))

			got, err := FromStore(store, name)(ctx)
			require.NoError(t, err)
			require.Equal(t, pc.Len(), got.Len())
			for i := range pc.Points {
				assert.InDelta(t, pc.Points[i].X, got.Points[i].X, 1e-5)
				assert.InDelta(t, pc.Points[i].Y, got.Points[i].Y, 1e-5)
				assert.InDelta(t, pc.Points[i].Z, got.Points[i].Z, 1e-5)
			}
		})
	}
}

func TestFromStore_RateLimitedReads(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	pc := New(samplePoints())
	require.NoError(t, WriteBlob(ctx, store, "limited.pcd", pc, true))

	// A generous limit must not get in the way.
	fast := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 30})
	got, err := FromStore(store, "limited.pcd", WithResourceController(fast))(ctx)
	require.NoError(t, err)
	require.Equal(t, pc.Len(), got.Len())

	// The limiter sits in the read path: a canceled context surfaces from
	// the very first gated read.
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	slow := resource.NewController(resource.Config{IOLimitBytesPerSec: 1})
	_, err = FromStore(store, "limited.pcd", WithResourceController(slow))(canceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFromStore_MissingBlob(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, err := FromStore(store, "nope.pcd")(context.Background())
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestFromStore_FreshResultPerInvocation(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	pc := New(samplePoints())
	require.NoError(t, WriteBlob(ctx, store, "c.pcd", pc, false))

	loader := FromStore(store, "c.pcd")
	first, err := loader(ctx)
	require.NoError(t, err)
	second, err := loader(ctx)
	require.NoError(t, err)

	// Each invocation re-reads: mutating one result must not leak into the
	// next.
	first.Points[0] = r3.Vector{X: 999}
	assert.NotEqual(t, first.Points[0], second.Points[0])
}

func TestStaticAndFailing(t *testing.T) {
	ctx := context.Background()

	pc := New(samplePoints())
	got, err := Static(pc)(ctx)
	require.NoError(t, err)
	assert.Equal(t, pc, got)

	_, err = Static(New(nil))(ctx)
	require.Error(t, err, "static loader still validates")

	_, err = Failing("sonar head flooded")(ctx)
	require.ErrorContains(t, err, "sonar head flooded")
}
