package cloudalign

import (
	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

// Progress reports the completion of one scheduled pair.
type Progress struct {
	// Index identifies the pair.
	Index model.Index

	// Err is nil when the pair succeeded; otherwise the isolated failure
	// (*UnknownGroupError, *LoadError or *pipeline.StageError).
	Err error

	// Completed and Total count pairs across the whole batch.
	Completed int
	Total     int

	// Fraction is Completed/Total, monotonically non-decreasing in [0, 1]
	// across progress calls of one batch.
	Fraction float64
}

// Succeeded reports whether the pair produced a result.
func (p Progress) Succeeded() bool { return p.Err == nil }

// ProgressFunc is the progress sink contract. It is called sequentially
// (never concurrently) even when the batch itself runs concurrent jobs.
type ProgressFunc func(Progress)

// Visualizer receives successful registrations for optional rendering.
type Visualizer interface {
	// Visualize hands off one registered pair. Implementations render the
	// source cloud under the transform on top of the target cloud; errors
	// and outcomes of rendering are the implementation's own business.
	Visualize(target, source *cloud.PointCloud, t transform.Rigid, title string)
}
