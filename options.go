package cloudalign

import (
	"github.com/hupe1980/cloudalign/resource"
	"github.com/hupe1980/cloudalign/transform"
)

type options struct {
	concurrency      int
	logger           *Logger
	progress         ProgressFunc
	metricsCollector MetricsCollector
	resources        *resource.Controller
	visualizer       Visualizer
	initialEstimate  transform.Rigid
}

// Option configures a Registrar.
type Option func(*options)

// WithConcurrency sets how many registration jobs may run at once.
//
// Jobs are independent (no data dependency between pairs), so they
// parallelize freely; loading is I/O bound and ICP refinement is CPU bound.
// Values <= 1 run the batch sequentially. Output order is identical either
// way: results are returned in schedule order.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithProgress sets the progress sink, invoked exactly once per scheduled
// pair (success or failure) with a monotonically non-decreasing completion
// fraction. This is the hook a surrounding UI or CLI uses for percent
// reporting; pass it explicitly rather than holding process-wide state.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithMetricsCollector configures a metrics collector for monitoring batch
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController gates point-cloud loads through the given
// controller's concurrent-load slots. Pass the same controller to
// cloud.WithResourceController so the loaders' blob reads honor its I/O
// rate limit too.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithVisualizer registers a rendering hook invoked after every successful
// pair with (target, source, transform, title). Purely a pass-through: the
// batch outcome never depends on it.
func WithVisualizer(v Visualizer) Option {
	return func(o *options) {
		o.visualizer = v
	}
}

// WithInitialEstimate seeds every pair's pipeline with the given transform
// instead of identity. Useful when dead-reckoning navigation provides a
// rough relative pose.
func WithInitialEstimate(t transform.Rigid) Option {
	return func(o *options) {
		o.initialEstimate = t
	}
}
