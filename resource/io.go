package resource

import (
	"context"
	"io"
)

// RateLimitedReader wraps an io.Reader so every read consults the
// controller's I/O limiter. Reads reserve budget for the full buffer size:
// the true read size is not known up front, and blob reads are chunked by
// the buffered decoders anyway.
type RateLimitedReader struct {
	r  io.Reader
	rc *Controller

	ctx context.Context
}

// NewRateLimitedReader creates a RateLimitedReader. A nil controller (or one
// without an I/O limit) imposes no limit.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{r: r, rc: rc, ctx: ctx}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if err := r.rc.WaitIO(r.ctx, int64(len(p))); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
