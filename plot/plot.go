// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package plot builds the charts of the analysis report.  Each
// builder takes a score table (or a derived slice of it) and returns
// a configured chart; the pipeline both writes the chart to its stage
// subdirectory and appends it to the combined report document.

package plot

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Size is the pixel geometry of one chart panel.  The report uses a
// half page panel for two column grids and a third page panel when
// the loess variant adds a column.
type Size struct {
	Width  string
	Height string
}

var (
	// HalfPage is the panel size of the two column report grid.
	HalfPage = Size{Width: "560px", Height: "420px"}

	// ThirdPage is the panel size of the three column report
	// grid used when loess normalization is active.
	ThirdPage = Size{Width: "380px", Height: "320px"}
)

type renderer interface {
	Render(w io.Writer) error
}

// WriteChart writes a chart as a standalone HTML file.
func WriteChart(filename string, c renderer) error {

	fid, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fid.Close()

	return c.Render(fid)
}

// kde evaluates a Gaussian kernel density estimate of x on a grid of
// points spanning the data, using the Silverman bandwidth.
func kde(x []float64, points int) ([]float64, []float64) {

	if len(x) == 0 || points < 2 {
		return nil, nil
	}

	s := append([]float64(nil), x...)
	sort.Float64s(s)
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	sd := stat.StdDev(s, nil)
	if sd == 0 {
		sd = 1
	}
	bw := 1.06 * sd * math.Pow(float64(len(s)), -0.2)
	kern := distuv.Normal{Mu: 0, Sigma: bw}

	pad := 3 * bw
	lo -= pad
	hi += pad

	xs := make([]float64, points)
	ys := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := 0; i < points; i++ {
		g := lo + float64(i)*step
		var d float64
		for _, v := range s {
			d += kern.Prob(g - v)
		}
		xs[i] = g
		ys[i] = d / float64(len(s))
	}

	return xs, ys
}

// fiveNum computes the five number box plot summary of x.
func fiveNum(x []float64) []float64 {

	s := append([]float64(nil), x...)
	sort.Float64s(s)

	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, s, nil) }

	return []float64{s[0], q(0.25), q(0.5), q(0.75), s[len(s)-1]}
}

// xyPairs converts parallel x/y slices into scatter series data, with
// an optional name per point.
func xyPairs(x, y []float64, names []string) []opts.ScatterData {

	data := make([]opts.ScatterData, 0, len(x))
	for i := range x {
		d := opts.ScatterData{Value: []interface{}{x[i], y[i]}, SymbolSize: 5}
		if names != nil {
			d.Name = names[i]
		}
		data = append(data, d)
	}

	return data
}

// linePairs converts parallel x/y slices into line series data.
func linePairs(x, y []float64) []opts.LineData {

	data := make([]opts.LineData, 0, len(x))
	for i := range x {
		data = append(data, opts.LineData{Value: []interface{}{x[i], y[i]}})
	}

	return data
}
