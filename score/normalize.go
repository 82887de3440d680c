// Copyright 2025, Kerby Shedden and the Flute contributors.

package score

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Method selects a normalization variant of the beta score table.
type Method string

const (
	// Negative centers each sample on the median beta of the
	// negative control genes.
	Negative Method = "negative"

	// CellCycle rescales each sample so the typical magnitude of
	// the core essential genes is equal across samples.
	CellCycle Method = "cell_cycle"

	// Loess removes the trend of the score difference over the
	// average score by a local linear fit.
	Loess Method = "loess"
)

// NormalizationError indicates that a normalization pass could not be
// completed.  All downstream stages depend on the normalized tables,
// so this error is fatal to a run.
type NormalizationError struct {
	Method Method
	Msg    string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("score: %s normalization failed: %s", e.Method, e.Msg)
}

// NormalizeOptions carries the reference gene lists used by the
// normalization methods.  Empty lists fall back to the built-in
// references (or, for Negative, to the full gene set).
type NormalizeOptions struct {
	NegCtrlGenes   []string
	EssentialGenes []string

	// LoessSpan is the fraction of genes in each local fit
	// window.  Zero means 0.3.
	LoessSpan float64
}

// Normalize derives a new table from t using the given method.  The
// input table is not modified, and the per-gene averages and Diff are
// recomputed from the normalized replicate columns.
func (t *Table) Normalize(method Method, opts NormalizeOptions) (*Table, error) {

	switch method {
	case Negative:
		return t.normalizeNegative(opts)
	case CellCycle:
		return t.normalizeCellCycle(opts)
	case Loess:
		return t.normalizeLoess(opts)
	}

	return nil, &NormalizationError{Method: method, Msg: "unknown method"}
}

func (t *Table) normalizeNegative(opts NormalizeOptions) (*Table, error) {

	ref := t.Index(opts.NegCtrlGenes)
	if len(ref) == 0 {
		// No usable negative control list, center on all genes.
		ref = make([]int, len(t.Genes))
		for i := range ref {
			ref[i] = i
		}
	}

	u := t.clone()
	for j := range u.CtrlNames {
		m := columnMedian(u.CtrlBeta, j, ref)
		for i := range u.Genes {
			u.CtrlBeta[i][j] -= m
		}
	}
	for j := range u.TreatNames {
		m := columnMedian(u.TreatBeta, j, ref)
		for i := range u.Genes {
			u.TreatBeta[i][j] -= m
		}
	}
	u.derive()

	return u, nil
}

func (t *Table) normalizeCellCycle(opts NormalizeOptions) (*Table, error) {

	essential := opts.EssentialGenes
	if len(essential) == 0 {
		essential = CoreEssentialGenes
	}
	ref := t.Index(essential)
	if len(ref) < 3 {
		return nil, &NormalizationError{Method: CellCycle,
			Msg: fmt.Sprintf("only %d essential reference genes found in input", len(ref))}
	}

	// Per-column typical essential magnitude.
	nc := len(t.CtrlNames)
	nt := len(t.TreatNames)
	mags := make([]float64, 0, nc+nt)
	for j := 0; j < nc; j++ {
		mags = append(mags, columnAbsMedian(t.CtrlBeta, j, ref))
	}
	for j := 0; j < nt; j++ {
		mags = append(mags, columnAbsMedian(t.TreatBeta, j, ref))
	}
	target := mean(mags)
	if target == 0 {
		return nil, &NormalizationError{Method: CellCycle, Msg: "essential reference genes have zero beta"}
	}

	u := t.clone()
	for j := 0; j < nc; j++ {
		if mags[j] == 0 {
			return nil, &NormalizationError{Method: CellCycle,
				Msg: fmt.Sprintf("control column %s has zero essential magnitude", t.CtrlNames[j])}
		}
		s := target / mags[j]
		for i := range u.Genes {
			u.CtrlBeta[i][j] *= s
		}
	}
	for j := 0; j < nt; j++ {
		if mags[nc+j] == 0 {
			return nil, &NormalizationError{Method: CellCycle,
				Msg: fmt.Sprintf("treatment column %s has zero essential magnitude", t.TreatNames[j])}
		}
		s := target / mags[nc+j]
		for i := range u.Genes {
			u.TreatBeta[i][j] *= s
		}
	}
	u.derive()

	return u, nil
}

func (t *Table) normalizeLoess(opts NormalizeOptions) (*Table, error) {

	n := len(t.Genes)
	if n < 10 {
		return nil, &NormalizationError{Method: Loess, Msg: "too few genes for a local fit"}
	}

	span := opts.LoessSpan
	if span <= 0 {
		span = 0.3
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = (t.Control[i] + t.Treatment[i]) / 2
	}

	trend := loessFit(x, t.Diff, span)

	// Remove the trend from the treatment side only, so the
	// difference loses the trend while the controls are left
	// untouched.
	u := t.clone()
	for i := range u.Genes {
		for j := range u.TreatNames {
			u.TreatBeta[i][j] -= trend[i]
		}
	}
	u.derive()

	return u, nil
}

// loessFit computes a tricube weighted local linear fit of y on x,
// evaluated at every x.  Deterministic for identical inputs.
func loessFit(x, y []float64, span float64) []float64 {

	n := len(x)
	k := int(math.Ceil(span * float64(n)))
	if k < 3 {
		k = 3
	}
	if k > n {
		k = n
	}

	// Order of points by x, for nearest neighbor windows.
	ord := make([]int, n)
	for i := range ord {
		ord[i] = i
	}
	sort.Slice(ord, func(a, b int) bool { return x[ord[a]] < x[ord[b]] })
	rank := make([]int, n)
	for r, i := range ord {
		rank[i] = r
	}

	fit := make([]float64, n)
	for i := 0; i < n; i++ {

		// Window of k nearest neighbors in x-order around i.
		lo := rank[i] - k/2
		if lo < 0 {
			lo = 0
		}
		hi := lo + k
		if hi > n {
			hi = n
			lo = hi - k
		}

		dmax := 0.0
		for r := lo; r < hi; r++ {
			d := math.Abs(x[ord[r]] - x[i])
			if d > dmax {
				dmax = d
			}
		}

		// Weighted least squares line through the window.
		var sw, swx, swy, swxx, swxy float64
		for r := lo; r < hi; r++ {
			j := ord[r]
			w := 1.0
			if dmax > 0 {
				u := math.Abs(x[j]-x[i]) / dmax
				w = math.Pow(1-u*u*u, 3)
			}
			sw += w
			swx += w * x[j]
			swy += w * y[j]
			swxx += w * x[j] * x[j]
			swxy += w * x[j] * y[j]
		}

		den := sw*swxx - swx*swx
		if sw == 0 || math.Abs(den) < 1e-12 {
			fit[i] = swy / math.Max(sw, 1e-12)
			continue
		}
		beta := (sw*swxy - swx*swy) / den
		alpha := (swy - beta*swx) / sw
		fit[i] = alpha + beta*x[i]
	}

	return fit
}

func columnMedian(col [][]float64, j int, rows []int) float64 {

	v := make([]float64, 0, len(rows))
	for _, i := range rows {
		v = append(v, col[i][j])
	}
	sort.Float64s(v)

	return stat.Quantile(0.5, stat.Empirical, v, nil)
}

func columnAbsMedian(col [][]float64, j int, rows []int) float64 {

	v := make([]float64, 0, len(rows))
	for _, i := range rows {
		v = append(v, math.Abs(col[i][j]))
	}
	sort.Float64s(v)

	return stat.Quantile(0.5, stat.Empirical, v, nil)
}
