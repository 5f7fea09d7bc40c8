// Package pipeline chains registration stages into a multi-stage refinement
// procedure: each stage consumes a source/target cloud pair plus the previous
// stage's transform estimate and produces a refined result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

// ErrNoStages is returned when constructing a pipeline without stages.
var ErrNoStages = errors.New("pipeline: at least one stage required")

// Stage is one refinement step in a multi-stage registration procedure.
//
// Implementations must hold no mutable shared state between invocations: a
// configured pipeline is shared across concurrent registration jobs.
type Stage interface {
	// Align registers source onto target starting from estimate and returns
	// a refined result. A stage that cannot produce a result (e.g. too few
	// correspondences) returns an error; it must not return a partial or
	// garbage result.
	Align(ctx context.Context, source, target *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error)
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc func(ctx context.Context, source, target *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error)

// Align calls f.
func (f StageFunc) Align(ctx context.Context, source, target *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error) {
	return f(ctx, source, target, estimate)
}

// StageError reports which stage of a pipeline failed and why.
type StageError struct {
	// Stage is the zero-based index of the failing stage.
	Stage int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %d failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline is an ordered sequence of registration stages. It is configured
// once and is reentrant: Run may be invoked concurrently for different pairs
// as long as its stages are stateless between invocations.
type Pipeline struct {
	stages []Stage
}

// New creates a pipeline over the given stages, applied strictly in order.
func New(stages ...Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	return &Pipeline{stages: append([]Stage(nil), stages...)}, nil
}

// NumStages returns the number of configured stages.
func (p *Pipeline) NumStages() int { return len(p.stages) }

// Run registers source onto target. The first stage receives init (pass
// transform.Identity() when no prior estimate exists); every later stage
// receives the previous stage's transform. The final stage's result is the
// pipeline's result, returned together with the index of the stage that
// produced it.
//
// On stage failure the remaining stages are skipped and a *StageError is
// returned; no partial result is substituted.
func (p *Pipeline) Run(ctx context.Context, source, target *cloud.PointCloud, init transform.Rigid) (*model.RegistrationResult, int, error) {
	estimate := init
	if estimate.IsZero() {
		estimate = transform.Identity()
	}

	var result *model.RegistrationResult
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, i, &StageError{Stage: i, Err: err}
		}
		r, err := stage.Align(ctx, source, target, estimate)
		if err != nil {
			return nil, i, &StageError{Stage: i, Err: err}
		}
		result = r
		estimate = r.Transform
	}
	return result, len(p.stages) - 1, nil
}
