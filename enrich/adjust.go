// Copyright 2025, Kerby Shedden and the Flute contributors.

package enrich

import (
	"fmt"
	"math"
	"sort"
)

// Adjust applies a multiple testing adjustment to a slice of
// p-values.  Supported methods: holm, hochberg, hommel, bonferroni,
// BH, BY, fdr (an alias of BH), and none.  The input is not modified.
func Adjust(p []float64, method string) ([]float64, error) {

	m := len(p)
	if m == 0 {
		return nil, nil
	}

	switch method {
	case "none":
		return append([]float64(nil), p...), nil
	case "bonferroni":
		q := make([]float64, m)
		for i, x := range p {
			q[i] = math.Min(1, x*float64(m))
		}
		return q, nil
	case "holm":
		return holm(p), nil
	case "hochberg":
		return hochberg(p), nil
	case "hommel":
		return hommel(p), nil
	case "BH", "fdr":
		return bh(p, nil), nil
	case "BY":
		c := 0.0
		for i := 1; i <= m; i++ {
			c += 1 / float64(i)
		}
		return bh(p, &c), nil
	}

	return nil, fmt.Errorf("enrich: unknown adjustment method %q", method)
}

func ascending(p []float64) []int {
	ord := make([]int, len(p))
	for i := range ord {
		ord[i] = i
	}
	sort.Slice(ord, func(a, b int) bool { return p[ord[a]] < p[ord[b]] })
	return ord
}

// holm is the step-down Bonferroni procedure.
func holm(p []float64) []float64 {

	m := len(p)
	ord := ascending(p)
	q := make([]float64, m)
	running := 0.0
	for k, i := range ord {
		v := float64(m-k) * p[i]
		if v > running {
			running = v
		}
		q[i] = math.Min(1, running)
	}

	return q
}

// hochberg is the step-up counterpart of holm.
func hochberg(p []float64) []float64 {

	m := len(p)
	ord := ascending(p)
	q := make([]float64, m)
	running := math.Inf(1)
	for k := m - 1; k >= 0; k-- {
		i := ord[k]
		v := float64(m-k) * p[i]
		if v < running {
			running = v
		}
		q[i] = math.Min(1, running)
	}

	return q
}

// hommel implements Hommel's step procedure, mirroring the reference
// statistical environment's p.adjust.
func hommel(p []float64) []float64 {

	n := len(p)
	if n == 1 {
		return []float64{math.Min(1, p[0])}
	}

	ord := ascending(p)
	ps := make([]float64, n)
	for k, i := range ord {
		ps[k] = p[i]
	}

	mn := math.Inf(1)
	for k := 0; k < n; k++ {
		if v := float64(n) * ps[k] / float64(k+1); v < mn {
			mn = v
		}
	}
	q := make([]float64, n)
	pa := make([]float64, n)
	for k := 0; k < n; k++ {
		q[k] = mn
		pa[k] = mn
	}

	for m := n - 1; m >= 2; m-- {

		// Tail indices n-m+1 .. n-1; denominators 2 .. m.
		q1 := math.Inf(1)
		for k := n - m + 1; k < n; k++ {
			if v := float64(m) * ps[k] / float64(k-(n-m)+1); v < q1 {
				q1 = v
			}
		}

		for k := 0; k <= n-m; k++ {
			q[k] = math.Min(float64(m)*ps[k], q1)
		}
		for k := n - m + 1; k < n; k++ {
			q[k] = q[n-m]
		}
		for k := 0; k < n; k++ {
			if q[k] > pa[k] {
				pa[k] = q[k]
			}
		}
	}

	out := make([]float64, n)
	for k, i := range ord {
		out[i] = math.Min(1, math.Max(pa[k], ps[k]))
	}

	return out
}

// bh is the Benjamini-Hochberg procedure; a non-nil c applies the
// Benjamini-Yekutieli correction factor.
func bh(p []float64, c *float64) []float64 {

	m := len(p)
	ord := ascending(p)
	q := make([]float64, m)
	running := math.Inf(1)
	for k := m - 1; k >= 0; k-- {
		i := ord[k]
		v := float64(m) / float64(k+1) * p[i]
		if c != nil {
			v *= *c
		}
		if v < running {
			running = v
		}
		q[i] = math.Min(1, running)
	}

	return q
}
