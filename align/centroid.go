package align

import (
	"context"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

// Centroid is a coarse stage that shifts the source cloud so its centroid
// coincides with the target's. It never fails and is meant as the first
// stage in front of ICP, replacing a missing initial estimate.
type Centroid struct {
	// MaxDistance is the correspondence gate used to score the coarse
	// result. If 0, DefaultMaxDistance is used.
	MaxDistance float64
}

// Align implements pipeline.Stage.
func (s Centroid) Align(_ context.Context, source, target *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error) {
	maxDist := s.MaxDistance
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}
	if estimate.IsZero() {
		estimate = transform.Identity()
	}

	moved := source.Transform(estimate)
	shift := target.Centroid().Sub(moved.Centroid())
	t := transform.Translate(shift).Compose(estimate)

	// Score the coarse alignment so downstream consumers see honest metrics
	// even when the pipeline stops here.
	idx := newNNIndex(target.Points, maxDist)
	c := correspond(source.Transform(t), idx, maxDist)

	return &model.RegistrationResult{
		Transform:  t,
		Fitness:    c.fitness(source.Len()),
		InlierRMSE: c.rmse,
		Matches:    c.matches,
	}, nil
}
