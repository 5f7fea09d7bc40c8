package align

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

// Defaults for ICP. Distances are in the unit of the input clouds (metres
// for our survey exports).
const (
	DefaultMaxDistance   = 1.0
	DefaultMaxIterations = 50
	DefaultTolerance     = 1e-6
	DefaultMinMatches    = 3
)

// ErrInsufficientMatches is wrapped into the error returned when too few
// correspondences survive the distance gate.
type ErrInsufficientMatches struct {
	Got  int
	Want int
}

func (e *ErrInsufficientMatches) Error() string {
	return fmt.Sprintf("align: insufficient correspondences: %d < %d", e.Got, e.Want)
}

// ICP is a fine registration stage: point-to-point iterative closest point
// with a distance-gated correspondence search and a least-squares rigid
// re-fit per iteration.
type ICP struct {
	// MaxDistance gates correspondences; pairs further apart are ignored.
	// If 0, DefaultMaxDistance is used.
	MaxDistance float64

	// MaxIterations bounds the refinement loop. If 0, DefaultMaxIterations.
	MaxIterations int

	// Tolerance stops iteration once the RMSE improvement falls below it.
	// If 0, DefaultTolerance.
	Tolerance float64

	// MinMatches is the minimum surviving correspondence count; below it the
	// stage fails. If 0, DefaultMinMatches.
	MinMatches int
}

// Align implements pipeline.Stage.
func (s ICP) Align(ctx context.Context, source, target *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error) {
	maxDist := s.MaxDistance
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	minMatches := s.MinMatches
	if minMatches <= 0 {
		minMatches = DefaultMinMatches
	}
	if estimate.IsZero() {
		estimate = transform.Identity()
	}

	idx := newNNIndex(target.Points, maxDist)

	current := estimate
	prevRMSE := math.Inf(1)
	var last correspondences

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		moved := source.Transform(current)
		last = correspond(moved, idx, maxDist)
		if len(last.matches) < minMatches {
			return nil, &ErrInsufficientMatches{Got: len(last.matches), Want: minMatches}
		}

		// Re-fit against the original source points so errors do not
		// accumulate across iterations.
		src := make([]r3.Vector, len(last.matches))
		dst := make([]r3.Vector, len(last.matches))
		for k, m := range last.matches {
			src[k] = source.Points[m.Source]
			dst[k] = target.Points[m.Target]
		}
		refit, err := transform.Estimate(src, dst)
		if err != nil {
			return nil, fmt.Errorf("align: refit: %w", err)
		}
		current = refit

		if prevRMSE-last.rmse < tol {
			break
		}
		prevRMSE = last.rmse
	}

	// Final metrics under the converged transform.
	last = correspond(source.Transform(current), idx, maxDist)
	if len(last.matches) < minMatches {
		return nil, &ErrInsufficientMatches{Got: len(last.matches), Want: minMatches}
	}

	return &model.RegistrationResult{
		Transform:  current,
		Fitness:    last.fitness(source.Len()),
		InlierRMSE: last.rmse,
		Matches:    last.matches,
	}, nil
}
