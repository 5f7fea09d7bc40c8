package align

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
)

// correspondences holds one iteration's matched pairs plus summary metrics.
type correspondences struct {
	matches []model.PointMatch
	inliers *roaring.Bitmap // matched source indices
	rmse    float64
}

// correspond matches every transformed source point to its nearest target
// point within maxDist.
func correspond(src *cloud.PointCloud, tgt *nnIndex, maxDist float64) correspondences {
	c := correspondences{inliers: roaring.New()}
	var sumSq float64
	for i, p := range src.Points {
		j, dist, ok := tgt.nearest(p)
		if !ok || dist > maxDist {
			continue
		}
		c.matches = append(c.matches, model.PointMatch{Source: i, Target: j})
		c.inliers.Add(uint32(i))
		sumSq += dist * dist
	}
	if len(c.matches) > 0 {
		c.rmse = math.Sqrt(sumSq / float64(len(c.matches)))
	}
	return c
}

// fitness returns the inlier fraction relative to the source size.
func (c correspondences) fitness(sourceLen int) float64 {
	if sourceLen == 0 {
		return 0
	}
	return float64(c.inliers.GetCardinality()) / float64(sourceLen)
}
