// Package resource bounds the I/O side of a batch run: concurrent point-cloud
// loads and aggregate read throughput.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for a batch run.
type Config struct {
	// MaxConcurrentLoads caps how many point-cloud loads run at once.
	// If 0, defaults to 1.
	MaxConcurrentLoads int64

	// IOLimitBytesPerSec caps aggregate blob read throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller gates point-cloud loads. A nil *Controller is valid and imposes
// no limits.
type Controller struct {
	loadSem   *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a controller from the config.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentLoads <= 0 {
		cfg.MaxConcurrentLoads = 1
	}
	c := &Controller{
		loadSem: semaphore.NewWeighted(cfg.MaxConcurrentLoads),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireLoad reserves a load slot, blocking until one is free or ctx is
// canceled.
func (c *Controller) AcquireLoad(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.loadSem.Acquire(ctx, 1)
}

// ReleaseLoad returns a load slot.
func (c *Controller) ReleaseLoad() {
	if c == nil {
		return
	}
	c.loadSem.Release(1)
}

// WaitIO blocks until the limiter permits reading n bytes.
func (c *Controller) WaitIO(ctx context.Context, n int64) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	burst := int64(c.ioLimiter.Burst())
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, int(chunk)); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
