package cloud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/cloudalign/blobstore"
	"github.com/hupe1980/cloudalign/resource"
)

type loaderOptions struct {
	resources *resource.Controller
}

// LoaderOption configures a store-backed Loader.
type LoaderOption func(*loaderOptions)

// WithResourceController applies the controller's I/O rate limit to the blob
// reads the loader performs.
func WithResourceController(rc *resource.Controller) LoaderOption {
	return func(o *loaderOptions) { o.resources = rc }
}

// FromStore returns a Loader that reads a PCD blob from the store on every
// invocation. Compression is selected by extension: ".zst" (zstd) and ".lz4"
// are decompressed transparently; anything else is read as plain PCD.
func FromStore(store blobstore.Store, name string, optFns ...LoaderOption) Loader {
	var o loaderOptions
	for _, fn := range optFns {
		fn(&o)
	}
	return func(ctx context.Context) (*PointCloud, error) {
		blob, err := store.Open(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("cloud: open %q: %w", name, err)
		}
		defer blob.Close()

		r, err := blob.Reader(ctx)
		if err != nil {
			return nil, fmt.Errorf("cloud: read %q: %w", name, err)
		}
		defer r.Close()

		var src io.Reader = r
		if o.resources != nil {
			src = resource.NewRateLimitedReader(ctx, r, o.resources)
		}

		dr, closeFn, err := decompressor(src, name)
		if err != nil {
			return nil, fmt.Errorf("cloud: decompress %q: %w", name, err)
		}
		defer closeFn()

		pc, err := ReadPCD(dr)
		if err != nil {
			return nil, fmt.Errorf("cloud: decode %q: %w", name, err)
		}
		if err := pc.Validate(); err != nil {
			return nil, fmt.Errorf("cloud: %q: %w", name, err)
		}
		return pc, nil
	}
}

// decompressor wraps r according to the blob name's extension.
func decompressor(r io.Reader, name string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(name, ".lz4"):
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}

// WriteBlob encodes the cloud as PCD and stores it under name, compressing
// with zstd or lz4 when the name carries the matching extension.
func WriteBlob(ctx context.Context, store blobstore.Store, name string, pc *PointCloud, asBinary bool) error {
	var plain bytes.Buffer
	if err := WritePCD(&plain, pc, asBinary); err != nil {
		return err
	}
	raw := plain.Bytes()

	switch {
	case strings.HasSuffix(name, ".zst"):
		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return err
		}
		if _, err := zw.Write(raw); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		raw = buf.Bytes()
	case strings.HasSuffix(name, ".lz4"):
		var buf bytes.Buffer
		lw := lz4.NewWriter(&buf)
		if _, err := lw.Write(raw); err != nil {
			lw.Close()
			return err
		}
		if err := lw.Close(); err != nil {
			return err
		}
		raw = buf.Bytes()
	}

	return store.Put(ctx, name, raw)
}
