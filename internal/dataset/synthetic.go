package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Separable generates a linearly separable two-class dataset.
// Points are drawn from N(0, I) and labelled by the side of a random
// hyperplane through the origin; each point is then pushed margin units
// away from the plane so the classes never touch.
func Separable(n, features int, margin float64, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	normal := make([]float64, features)
	for i := range normal {
		normal[i] = rng.NormFloat64()
	}
	floats.Scale(1/floats.Norm(normal, 2), normal)

	ds := &Dataset{
		Inputs:     make([][]float64, n),
		Labels:     make([]int, n),
		NumClasses: 2,
	}
	for i := 0; i < n; i++ {
		x := make([]float64, features)
		for j := range x {
			x[j] = rng.NormFloat64()
		}
		side := 1.0
		label := 1
		if floats.Dot(x, normal) < 0 {
			side, label = -1, 0
		}
		floats.AddScaled(x, side*margin, normal)
		ds.Inputs[i] = x
		ds.Labels[i] = label
	}
	return ds
}

// Blobs generates a multi-class dataset of Gaussian clusters.
// Cluster centres lie on a sphere of the given radius; each point is its
// centre plus N(0, spread²) noise.
func Blobs(n, features, classes int, radius, spread float64, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	centres := make([][]float64, classes)
	for c := range centres {
		centre := make([]float64, features)
		for j := range centre {
			centre[j] = rng.NormFloat64()
		}
		norm := floats.Norm(centre, 2)
		if norm == 0 || math.IsNaN(norm) {
			centre[0], norm = 1, 1
		}
		floats.Scale(radius/norm, centre)
		centres[c] = centre
	}

	ds := &Dataset{
		Inputs:     make([][]float64, n),
		Labels:     make([]int, n),
		NumClasses: classes,
	}
	for i := 0; i < n; i++ {
		label := i % classes
		x := make([]float64, features)
		for j := range x {
			x[j] = centres[label][j] + rng.NormFloat64()*spread
		}
		ds.Inputs[i] = x
		ds.Labels[i] = label
	}
	ds.Shuffle(rng)
	return ds
}
