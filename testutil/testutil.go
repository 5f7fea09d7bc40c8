// Package testutil provides deterministic generators for registration tests:
// seeded random point clouds and rigid transforms.
package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/transform"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformCloud generates a cloud of n points uniformly distributed in the
// axis-aligned box [0, extent)^3.
func (r *RNG) UniformCloud(n int, extent float64) *cloud.PointCloud {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]r3.Vector, n)
	for i := range pts {
		pts[i] = r3.Vector{
			X: r.rand.Float64() * extent,
			Y: r.rand.Float64() * extent,
			Z: r.rand.Float64() * extent,
		}
	}
	return cloud.New(pts)
}

// Jitter returns a copy of pc with every point perturbed by uniform noise in
// [-eps, eps) per axis. Useful for simulating sensor noise.
func (r *RNG) Jitter(pc *cloud.PointCloud, eps float64) *cloud.PointCloud {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]r3.Vector, pc.Len())
	for i, p := range pc.Points {
		pts[i] = r3.Vector{
			X: p.X + (r.rand.Float64()*2-1)*eps,
			Y: p.Y + (r.rand.Float64()*2-1)*eps,
			Z: p.Z + (r.rand.Float64()*2-1)*eps,
		}
	}
	return cloud.New(pts)
}

// RandomRigid generates a rigid transform with a rotation about Z of up to
// maxRad and a translation of up to maxShift per axis.
func (r *RNG) RandomRigid(maxRad, maxShift float64) transform.Rigid {
	r.mu.Lock()
	defer r.mu.Unlock()

	rot := transform.RotateZ((r.rand.Float64()*2 - 1) * maxRad)
	shift := transform.Translate(r3.Vector{
		X: (r.rand.Float64()*2 - 1) * maxShift,
		Y: (r.rand.Float64()*2 - 1) * maxShift,
		Z: (r.rand.Float64()*2 - 1) * maxShift,
	})
	return shift.Compose(rot)
}

// GridCloud generates a deterministic nxnxn lattice with the given spacing,
// handy when a test needs structure instead of noise.
func GridCloud(n int, spacing float64) *cloud.PointCloud {
	pts := make([]r3.Vector, 0, n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				pts = append(pts, r3.Vector{
					X: float64(i) * spacing,
					Y: float64(j) * spacing,
					Z: float64(k) * spacing,
				})
			}
		}
	}
	return cloud.New(pts)
}

// NearlyEqual reports |a-b| <= tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
