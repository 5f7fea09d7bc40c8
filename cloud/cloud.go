// Package cloud defines the point-cloud representation consumed by the
// registration core, the deferred Loader contract, and PCD blob I/O.
package cloud

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/cloudalign/transform"
)

// PointCloud is a set of 3-D points with optional per-point normals.
//
// Clouds are treated as immutable by the registration core: stages derive
// transformed copies instead of mutating inputs, so one cloud may back
// several concurrent jobs.
type PointCloud struct {
	Points  []r3.Vector
	Normals []r3.Vector // nil or same length as Points
}

// New creates a PointCloud over the given points. The slice is taken over,
// not copied.
func New(points []r3.Vector) *PointCloud {
	return &PointCloud{Points: points}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return len(pc.Points) }

// Centroid returns the mean of all points. The zero vector for an empty
// cloud.
func (pc *PointCloud) Centroid() r3.Vector {
	if len(pc.Points) == 0 {
		return r3.Vector{}
	}
	var c r3.Vector
	for _, p := range pc.Points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pc.Points)))
}

// Transform returns a new cloud with every point (and normal) mapped through
// t. The receiver is left untouched.
func (pc *PointCloud) Transform(t transform.Rigid) *PointCloud {
	out := &PointCloud{Points: t.ApplyAll(pc.Points)}
	if pc.Normals != nil {
		out.Normals = make([]r3.Vector, len(pc.Normals))
		for i, n := range pc.Normals {
			out.Normals[i] = t.RotateVec(n)
		}
	}
	return out
}

// Validate checks structural invariants (normals length, non-empty).
func (pc *PointCloud) Validate() error {
	if len(pc.Points) == 0 {
		return fmt.Errorf("cloud: empty point cloud")
	}
	if pc.Normals != nil && len(pc.Normals) != len(pc.Points) {
		return fmt.Errorf("cloud: %d normals for %d points", len(pc.Normals), len(pc.Points))
	}
	return nil
}

// Loader is a deferred point-cloud load bound to one group. Each invocation
// yields a fresh result: success with a cloud, or failure with a reason.
//
// A Loader is owned by the job that invokes it; loaders themselves must be
// safe to call from any goroutine since the batch executor may run jobs
// concurrently.
type Loader func(ctx context.Context) (*PointCloud, error)

// Static returns a Loader that always yields the given cloud.
func Static(pc *PointCloud) Loader {
	return func(context.Context) (*PointCloud, error) {
		if err := pc.Validate(); err != nil {
			return nil, err
		}
		return pc, nil
	}
}

// Failing returns a Loader that always fails with the given reason.
// Useful for tests and for marking groups known to be missing.
func Failing(reason string) Loader {
	return func(context.Context) (*PointCloud, error) {
		return nil, fmt.Errorf("cloud: %s", reason)
	}
}
