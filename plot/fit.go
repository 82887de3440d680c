// Copyright 2025, Kerby Shedden and the Flute contributors.

package plot

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/kshedden/flute/score"
)

// MAPlot draws the mean-difference plot of a table: the averaged
// score on the horizontal axis against the treatment minus control
// difference.
func MAPlot(t *score.Table, title string, size Size) *charts.Scatter {

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "(Control + Treatment) / 2", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment - Control", Type: "value"}),
	)

	a := make([]float64, len(t.Genes))
	for i := range t.Genes {
		a[i] = (t.Control[i] + t.Treatment[i]) / 2
	}

	sc.AddSeries("genes", xyPairs(a, t.Diff, t.Genes))

	return sc
}

// LinearFitPlot fits a linear trend of treatment on control scores
// over the given gene subset (all genes when ix is nil), draws the
// points and the fitted line, and returns the fitted slope.  The
// slope estimates the relative cell cycle time between conditions.
func LinearFitPlot(t *score.Table, ix []int, title string, size Size) (*charts.Scatter, float64) {

	if ix == nil {
		ix = make([]int, len(t.Genes))
		for i := range ix {
			ix[i] = i
		}
	}

	x := make([]float64, 0, len(ix))
	y := make([]float64, 0, len(ix))
	names := make([]string, 0, len(ix))
	for _, i := range ix {
		x = append(x, t.Control[i])
		y = append(y, t.Treatment[i])
		names = append(names, t.Genes[i])
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("slope = %.3f", beta),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Control beta", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment beta", Type: "value"}),
	)
	sc.AddSeries("genes", xyPairs(x, y, names))

	// Fitted line over the x range.
	xs := append([]float64(nil), x...)
	sort.Float64s(xs)
	if len(xs) >= 2 {
		fx := []float64{xs[0], xs[len(xs)-1]}
		fy := []float64{alpha + beta*fx[0], alpha + beta*fx[1]}
		ln := charts.NewLine()
		ln.AddSeries("fit", linePairs(fx, fy))
		sc.Overlap(ln)
	}

	return sc, beta
}
