package align

import (
	"math"

	"github.com/golang/geo/r3"
)

// nnIndex is a voxel-hash nearest-neighbour index over a fixed point set.
// Cell size equals the search radius, so a query only has to visit the 27
// cells around the query point.
type nnIndex struct {
	cell   float64
	points []r3.Vector
	grid   map[[3]int32][]int32
}

func newNNIndex(points []r3.Vector, radius float64) *nnIndex {
	if radius <= 0 {
		radius = 1
	}
	idx := &nnIndex{
		cell:   radius,
		points: points,
		grid:   make(map[[3]int32][]int32, len(points)),
	}
	for i, p := range points {
		c := idx.cellOf(p)
		idx.grid[c] = append(idx.grid[c], int32(i))
	}
	return idx
}

func (idx *nnIndex) cellOf(p r3.Vector) [3]int32 {
	return [3]int32{
		int32(math.Floor(p.X / idx.cell)),
		int32(math.Floor(p.Y / idx.cell)),
		int32(math.Floor(p.Z / idx.cell)),
	}
}

// nearest returns the index of the closest point within radius of q.
func (idx *nnIndex) nearest(q r3.Vector) (int, float64, bool) {
	c := idx.cellOf(q)
	best := -1
	bestD2 := idx.cell * idx.cell
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				key := [3]int32{c[0] + dx, c[1] + dy, c[2] + dz}
				for _, i := range idx.grid[key] {
					d := q.Sub(idx.points[i])
					d2 := d.Norm2()
					if d2 < bestD2 {
						bestD2 = d2
						best = int(i)
					}
				}
			}
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, math.Sqrt(bestD2), true
}
