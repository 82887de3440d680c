// Copyright 2025, Kerby Shedden and the Flute contributors.

package score

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CutoffCalling computes the selection cutoff for a score difference
// distribution: the 0.68 quantile of the absolute values, multiplied
// by scale.  The result is deterministic for identical inputs.  The
// cutoff is always applied symmetrically as +cutoff and -cutoff.
func CutoffCalling(d []float64, scale float64) float64 {

	if len(d) == 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}

	v := make([]float64, len(d))
	for i, x := range d {
		v[i] = math.Abs(x)
	}
	sort.Float64s(v)

	return stat.Quantile(0.68, stat.Empirical, v, nil) * scale
}

// AutoScale derives the cutoff multiplier from the gene count, one
// decimal of n/20000 with a floor of 0.1.  Used when the caller asked
// for an automatic scale instead of giving a number.
func AutoScale(n int) float64 {

	s := math.Round(float64(n)/20000*10) / 10
	if s < 0.1 {
		s = 0.1
	}

	return s
}
