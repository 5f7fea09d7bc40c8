package model

import (
	"fmt"
	"time"

	"github.com/hupe1980/cloudalign/transform"
)

// GroupKey is the stable identifier for a survey group (a named collection
// of cameras/points). It is unique within a run and is the addressing unit
// for point clouds: loader maps and referenced results are keyed by it.
type GroupKey int

// GroupID identifies a survey group together with its human-readable label.
//
// Identity is carried by Key alone; Label exists for logging and reports.
// Two GroupIDs with the same Key refer to the same group even if their
// labels differ.
type GroupID struct {
	Key   GroupKey
	Label string
}

// Equal reports whether g and o address the same group.
func (g GroupID) Equal(o GroupID) bool { return g.Key == o.Key }

// String returns a string representation of the GroupID.
func (g GroupID) String() string {
	if g.Label == "" {
		return fmt.Sprintf("group(%d)", g.Key)
	}
	return fmt.Sprintf("group(%d:%s)", g.Key, g.Label)
}

// Index is an ordered registration pair: register Source onto Target.
// Direction matters: the source cloud is transformed, the target is fixed.
type Index struct {
	Source GroupID
	Target GroupID
}

// String returns a string representation of the Index.
func (i Index) String() string {
	return fmt.Sprintf("%d->%d", i.Source.Key, i.Target.Key)
}

// PointMatch is a single correspondence between a source point index and a
// target point index.
type PointMatch struct {
	Source int
	Target int
}

// RegistrationResult is the outcome of registering one source cloud onto one
// target cloud. It is produced once and never mutated afterwards.
type RegistrationResult struct {
	// Transform maps the source frame into the target frame.
	Transform transform.Rigid

	// Fitness is the fraction of source points with an inlier
	// correspondence, in [0, 1].
	Fitness float64

	// InlierRMSE is the root-mean-square residual distance among inlier
	// correspondences, >= 0.
	InlierRMSE float64

	// Matches is the set of matched point index pairs backing the metrics.
	Matches []PointMatch
}

// PairResult wraps a RegistrationResult with the index it was computed for
// and provenance: which pipeline stage produced the final result and how long
// the pair took end to end (load + pipeline).
type PairResult struct {
	Index   Index
	Result  *RegistrationResult
	Stage   int
	Elapsed time.Duration
}
