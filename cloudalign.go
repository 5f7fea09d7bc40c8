package cloudalign

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/pipeline"
)

// Registrar executes pairwise point-cloud registration batches against a
// configured pipeline. A Registrar is immutable after construction and safe
// for concurrent use.
type Registrar struct {
	pipe *pipeline.Pipeline
	opts options
}

// New creates a Registrar over the given pipeline.
func New(pipe *pipeline.Pipeline, optFns ...Option) (*Registrar, error) {
	if pipe == nil {
		return nil, pipeline.ErrNoStages
	}
	o := options{
		concurrency:      1,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Registrar{pipe: pipe, opts: o}, nil
}

// pairOutcome is one job's slot in the batch, kept in schedule order.
type pairOutcome struct {
	result *model.PairResult // nil on failure
	err    error             // nil on success
}

// RegisterBatch runs the pipeline over every scheduled index.
//
// Per-pair failures (missing loader, load error, stage error) are isolated:
// the pair is reported to the progress sink and excluded from the returned
// slice, and the batch carries on. The returned results are in schedule
// order regardless of concurrency, with exactly one entry per succeeded
// pair.
//
// The batch as a whole fails only when its preconditions do: no indices, or
// fewer than two distinct groups named by them (ErrTooFewGroups). On context
// cancellation the results completed so far are returned together with
// ctx.Err(); nothing is lost.
func (r *Registrar) RegisterBatch(ctx context.Context, loaders map[model.GroupKey]cloud.Loader, indices []model.Index) ([]model.PairResult, error) {
	if err := validateSchedule(indices); err != nil {
		return nil, err
	}

	batchStart := time.Now()
	total := len(indices)
	outcomes := make([]pairOutcome, total)

	// The progress sink sees pairs in completion order but with a
	// non-decreasing fraction; one mutex serializes sink calls and the
	// completion counter.
	var progressMu sync.Mutex
	completed := 0
	report := func(idx model.Index, err error) {
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		if r.opts.progress != nil {
			r.opts.progress(Progress{
				Index:     idx,
				Err:       err,
				Completed: completed,
				Total:     total,
				Fraction:  float64(completed) / float64(total),
			})
		}
	}

	runJob := func(jobCtx context.Context, pos int) {
		idx := indices[pos]
		plog := r.opts.logger.WithPair(idx)
		res, err := r.registerPair(jobCtx, loaders, idx)
		if err != nil {
			outcomes[pos] = pairOutcome{err: err}
			plog.LogPair(jobCtx, nil, err)
		} else {
			outcomes[pos] = pairOutcome{result: res}
			plog.LogPair(jobCtx, res.Result, nil)
		}
		report(idx, err)
	}

	if r.opts.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.opts.concurrency)
		for pos := range indices {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return nil // abandoned; slot stays empty
				}
				runJob(gctx, pos)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for pos := range indices {
			if ctx.Err() != nil {
				break
			}
			runJob(ctx, pos)
		}
	}

	results := make([]model.PairResult, 0, total)
	failed := 0
	for _, o := range outcomes {
		switch {
		case o.result != nil:
			results = append(results, *o.result)
		case o.err != nil:
			failed++
		}
	}

	r.opts.logger.LogBatch(ctx, total, failed)
	r.opts.metricsCollector.RecordBatch(total, failed, time.Since(batchStart))

	// Cooperative cancellation: surface ctx.Err alongside what completed.
	return results, ctx.Err()
}

// registerPair loads both clouds and runs the pipeline for one index.
func (r *Registrar) registerPair(ctx context.Context, loaders map[model.GroupKey]cloud.Loader, idx model.Index) (*model.PairResult, error) {
	start := time.Now()
	res, err := r.registerPairInner(ctx, loaders, idx)
	elapsed := time.Since(start)
	r.opts.metricsCollector.RecordPair(elapsed, err)
	if err != nil {
		return nil, err
	}
	res.Elapsed = elapsed
	return res, nil
}

func (r *Registrar) registerPairInner(ctx context.Context, loaders map[model.GroupKey]cloud.Loader, idx model.Index) (*model.PairResult, error) {
	source, err := r.load(ctx, loaders, idx.Source)
	if err != nil {
		return nil, err
	}
	target, err := r.load(ctx, loaders, idx.Target)
	if err != nil {
		return nil, err
	}

	result, stage, err := r.pipe.Run(ctx, source, target, r.opts.initialEstimate)
	if err != nil {
		return nil, err
	}

	if r.opts.visualizer != nil {
		// Pure hand-off while both clouds are still in scope; rendering
		// cannot affect the batch outcome.
		title := idx.Source.String() + " onto " + idx.Target.String()
		r.opts.visualizer.Visualize(target, source, result.Transform, title)
	}

	return &model.PairResult{
		Index:  idx,
		Result: result,
		Stage:  stage,
	}, nil
}

// load resolves and invokes one group's loader under the resource
// controller's load gate.
func (r *Registrar) load(ctx context.Context, loaders map[model.GroupKey]cloud.Loader, g model.GroupID) (*cloud.PointCloud, error) {
	loader, ok := loaders[g.Key]
	if !ok {
		return nil, &UnknownGroupError{Group: g}
	}

	if err := r.opts.resources.AcquireLoad(ctx); err != nil {
		return nil, &LoadError{Group: g, cause: err}
	}
	defer r.opts.resources.ReleaseLoad()

	pc, err := loader(ctx)
	if err != nil {
		return nil, &LoadError{Group: g, cause: err}
	}
	return pc, nil
}

// validateSchedule checks batch preconditions: at least one index naming at
// least two distinct groups.
func validateSchedule(indices []model.Index) error {
	if len(indices) == 0 {
		return ErrTooFewGroups
	}
	groups := make(map[model.GroupKey]struct{}, 2*len(indices))
	for _, idx := range indices {
		groups[idx.Source.Key] = struct{}{}
		groups[idx.Target.Key] = struct{}{}
		if len(groups) >= 2 {
			return nil
		}
	}
	return ErrTooFewGroups
}
