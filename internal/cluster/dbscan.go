package cluster

import (
	"fmt"
	"math"
)

// Label values used during DBSCAN expansion.
const (
	labelNoise      = -1
	labelUnassigned = -2
)

// DensityClusterer implements DBSCAN over Euclidean distance. Two faces
// end up in the same cluster when they are density-reachable: connected
// through core points that have at least MinSamples neighbors (self
// included) within Eps. Points outside every dense region are labeled -1.
//
// The result is deterministic for identical input: points are visited in
// input order and clusters are expanded breadth-first, so cluster ids are
// assigned in order of each cluster's first point.
type DensityClusterer struct {
	Eps        float64 // neighborhood radius, non-negative
	MinSamples int     // minimum neighborhood size for a core point
}

// NewDensityClusterer creates a DBSCAN clusterer with the given
// parameters, substituting defaults for out-of-range values.
func NewDensityClusterer(eps float64, minSamples int) *DensityClusterer {
	if eps < 0 {
		eps = DefaultEps
	}
	if minSamples < 1 {
		minSamples = DefaultMinSamples
	}
	return &DensityClusterer{Eps: eps, MinSamples: minSamples}
}

func (c *DensityClusterer) Name() string {
	return fmt.Sprintf("dbscan(eps=%g, min_samples=%d)", c.Eps, c.MinSamples)
}

// Labels runs DBSCAN and returns one label per embedding. All embeddings
// must share the same dimension; mixed dimensions are a caller bug and
// fail with an error rather than producing bogus distances.
func (c *DensityClusterer) Labels(embeddings [][]float32) ([]int, error) {
	n := len(embeddings)
	if n == 0 {
		return nil, nil
	}

	dim := len(embeddings[0])
	for i, emb := range embeddings {
		if len(emb) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimensions: index 0 has %d, index %d has %d", dim, i, len(emb))
		}
	}

	epsSq := c.Eps * c.Eps
	neighbors := func(i int) []int {
		var result []int
		for j := range n {
			if euclideanSq(embeddings[i], embeddings[j]) <= epsSq {
				result = append(result, j)
			}
		}
		return result
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = labelUnassigned
	}

	nextID := 0
	for i := range n {
		if labels[i] != labelUnassigned {
			continue
		}

		seeds := neighbors(i)
		if len(seeds) < c.MinSamples {
			labels[i] = labelNoise
			continue
		}

		id := nextID
		nextID++
		labels[i] = id

		// Breadth-first expansion of the density-connected region.
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if labels[j] == labelNoise {
				labels[j] = id // noise becomes a border point
			}
			if labels[j] != labelUnassigned {
				continue
			}
			labels[j] = id

			reach := neighbors(j)
			if len(reach) >= c.MinSamples {
				seeds = append(seeds, reach...)
			}
		}
	}

	return labels, nil
}

// euclideanSq returns the squared Euclidean distance between two vectors
// of equal length.
func euclideanSq(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// Euclidean returns the Euclidean distance between two vectors. Vectors
// of different lengths have maximal distance.
func Euclidean(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return math.Sqrt(euclideanSq(a, b))
}
