package transform

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when the correspondence geometry does not
// constrain a rigid transform (e.g. all points collinear).
var ErrDegenerate = errors.New("transform: degenerate point configuration")

// Estimate computes the least-squares rigid transform mapping src[i] onto
// dst[i] (Kabsch/Umeyama, no scaling). It requires at least three
// correspondences and src/dst of equal length.
func Estimate(src, dst []r3.Vector) (Rigid, error) {
	if len(src) != len(dst) {
		return Rigid{}, fmt.Errorf("transform: correspondence length mismatch: %d vs %d", len(src), len(dst))
	}
	if len(src) < 3 {
		return Rigid{}, fmt.Errorf("transform: need at least 3 correspondences, got %d", len(src))
	}

	muS := centroid(src)
	muD := centroid(dst)

	// Cross-covariance H = sum (s - muS)(d - muD)^T.
	h := mat.NewDense(3, 3, nil)
	for k := range src {
		s := src[k].Sub(muS)
		d := dst[k].Sub(muD)
		sv := [3]float64{s.X, s.Y, s.Z}
		dv := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				h.Set(i, j, h.At(i, j)+sv[i]*dv[j])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Rigid{}, ErrDegenerate
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// R = V * U^T, with a reflection fix when det < 0.
	var rot mat.Dense
	rot.Mul(&v, u.T())
	if mat.Det(&rot) < 0 {
		// Flip the axis of least variance.
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		rot.Mul(&v, u.T())
	}

	rms := r3.Vector{X: muS.X, Y: muS.Y, Z: muS.Z}
	rotated := r3.Vector{
		X: rot.At(0, 0)*rms.X + rot.At(0, 1)*rms.Y + rot.At(0, 2)*rms.Z,
		Y: rot.At(1, 0)*rms.X + rot.At(1, 1)*rms.Y + rot.At(1, 2)*rms.Z,
		Z: rot.At(2, 0)*rms.X + rot.At(2, 1)*rms.Y + rot.At(2, 2)*rms.Z,
	}
	t := muD.Sub(rotated)

	return FromParts(&rot, t)
}

func centroid(pts []r3.Vector) r3.Vector {
	var c r3.Vector
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pts)))
}
