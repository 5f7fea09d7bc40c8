package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Rigid is a 4x4 homogeneous rigid (or similarity) transform mapping points
// from a source frame into a target frame.
//
// The zero value is NOT a valid transform; use Identity or one of the
// constructors.
type Rigid struct {
	m *mat.Dense // 4x4, never mutated after construction
}

// Identity returns the identity transform.
func Identity() Rigid {
	return Rigid{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// FromMatrix builds a Rigid from a 4x4 matrix. The data is copied.
// It returns an error if m is not 4x4 or its last row is not (0 0 0 1).
func FromMatrix(m mat.Matrix) (Rigid, error) {
	r, c := m.Dims()
	if r != 4 || c != 4 {
		return Rigid{}, fmt.Errorf("transform: expected 4x4 matrix, got %dx%d", r, c)
	}
	const eps = 1e-9
	if math.Abs(m.At(3, 0)) > eps || math.Abs(m.At(3, 1)) > eps ||
		math.Abs(m.At(3, 2)) > eps || math.Abs(m.At(3, 3)-1) > eps {
		return Rigid{}, fmt.Errorf("transform: last row must be (0 0 0 1)")
	}
	d := mat.NewDense(4, 4, nil)
	d.Copy(m)
	return Rigid{m: d}, nil
}

// FromParts builds a Rigid from a 3x3 rotation and a translation vector.
// The rotation data is copied; it is the caller's responsibility that rot is
// orthonormal.
func FromParts(rot mat.Matrix, t r3.Vector) (Rigid, error) {
	r, c := rot.Dims()
	if r != 3 || c != 3 {
		return Rigid{}, fmt.Errorf("transform: expected 3x3 rotation, got %dx%d", r, c)
	}
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, rot.At(i, j))
		}
	}
	d.Set(0, 3, t.X)
	d.Set(1, 3, t.Y)
	d.Set(2, 3, t.Z)
	d.Set(3, 3, 1)
	return Rigid{m: d}, nil
}

// Translate returns a pure translation transform.
func Translate(t r3.Vector) Rigid {
	return Rigid{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, t.X,
		0, 1, 0, t.Y,
		0, 0, 1, t.Z,
		0, 0, 0, 1,
	})}
}

// RotateZ returns a rotation about the Z axis by rad radians.
func RotateZ(rad float64) Rigid {
	s, c := math.Sin(rad), math.Cos(rad)
	return Rigid{m: mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// IsZero reports whether r is the zero value (no matrix attached).
func (r Rigid) IsZero() bool { return r.m == nil }

// Mat returns a copy of the underlying 4x4 matrix.
func (r Rigid) Mat() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	d.Copy(r.mat())
	return d
}

// mat returns the backing matrix, treating the zero value as identity.
func (r Rigid) mat() *mat.Dense {
	if r.m == nil {
		return Identity().m
	}
	return r.m
}

// Compose returns the transform that first applies o, then r.
// In matrix terms: r.Compose(o) == r * o.
func (r Rigid) Compose(o Rigid) Rigid {
	d := mat.NewDense(4, 4, nil)
	d.Mul(r.mat(), o.mat())
	return Rigid{m: d}
}

// Inverse returns the inverse transform. For a proper rigid transform this is
// the exact analytic inverse (transposed rotation, rotated-back translation).
func (r Rigid) Inverse() Rigid {
	m := r.mat()
	d := mat.NewDense(4, 4, nil)
	// R^T
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m.At(j, i))
		}
	}
	// -R^T * t
	tx, ty, tz := m.At(0, 3), m.At(1, 3), m.At(2, 3)
	for i := 0; i < 3; i++ {
		d.Set(i, 3, -(d.At(i, 0)*tx + d.At(i, 1)*ty + d.At(i, 2)*tz))
	}
	d.Set(3, 3, 1)
	return Rigid{m: d}
}

// Apply maps a single point from the source frame into the target frame.
func (r Rigid) Apply(p r3.Vector) r3.Vector {
	m := r.mat()
	return r3.Vector{
		X: m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)*p.Z + m.At(0, 3),
		Y: m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)*p.Z + m.At(1, 3),
		Z: m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)*p.Z + m.At(2, 3),
	}
}

// ApplyAll maps every point in pts, returning a new slice.
func (r Rigid) ApplyAll(pts []r3.Vector) []r3.Vector {
	out := make([]r3.Vector, len(pts))
	for i, p := range pts {
		out[i] = r.Apply(p)
	}
	return out
}

// RotateVec rotates a direction vector (no translation): used for normals.
func (r Rigid) RotateVec(v r3.Vector) r3.Vector {
	m := r.mat()
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// Translation returns the translation component.
func (r Rigid) Translation() r3.Vector {
	m := r.mat()
	return r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// Rotation returns a copy of the 3x3 rotation component.
func (r Rigid) Rotation() *mat.Dense {
	m := r.mat()
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m.At(i, j))
		}
	}
	return d
}

// Equal reports whether the two transforms are element-wise equal within tol.
func (r Rigid) Equal(o Rigid, tol float64) bool {
	a, b := r.mat(), o.mat()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

// String returns a compact representation of the transform.
func (r Rigid) String() string {
	t := r.Translation()
	return fmt.Sprintf("Rigid(t=[%.4g %.4g %.4g])", t.X, t.Y, t.Z)
}
