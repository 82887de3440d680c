// Copyright 2025, Kerby Shedden and the Flute contributors.

package plot

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kshedden/flute/score"
)

// ViolinPlot summarizes the per-sample beta score distributions of a
// table as box panels, one per replicate column.
func ViolinPlot(t *score.Table, title string, size Size) *charts.BoxPlot {

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Beta score"}),
	)

	var labels []string
	var data []opts.BoxPlotData
	for j, name := range t.CtrlNames {
		col := make([]float64, len(t.Genes))
		for i := range t.Genes {
			col[i] = t.CtrlBeta[i][j]
		}
		labels = append(labels, name)
		data = append(data, opts.BoxPlotData{Name: name, Value: fiveNum(col)})
	}
	for j, name := range t.TreatNames {
		col := make([]float64, len(t.Genes))
		for i := range t.Genes {
			col[i] = t.TreatBeta[i][j]
		}
		labels = append(labels, name)
		data = append(data, opts.BoxPlotData{Name: name, Value: fiveNum(col)})
	}

	bp.SetXAxis(labels).AddSeries("beta", data)

	return bp
}

// DensityPlot draws the kernel density of the averaged control and
// treatment scores, over the full gene set and the core essential
// subset.
func DensityPlot(t *score.Table, essential []string, title string, size Size) *charts.Line {

	ln := charts.NewLine()
	ln.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Beta score", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Density", Type: "value"}),
	)

	add := func(name string, v []float64) {
		if len(v) == 0 {
			return
		}
		xs, ys := kde(v, 128)
		ln.AddSeries(name, linePairs(xs, ys))
	}

	add("Control", t.Control)
	add("Treatment", t.Treatment)

	ix := t.Index(essential)
	if len(ix) > 0 {
		ec := make([]float64, 0, len(ix))
		et := make([]float64, 0, len(ix))
		for _, i := range ix {
			ec = append(ec, t.Control[i])
			et = append(et, t.Treatment[i])
		}
		add("Control (essential)", ec)
		add("Treatment (essential)", et)
	}

	return ln
}

// DensityDiffPlot draws the kernel density of the treatment minus
// control differences, full set and essential subset.
func DensityDiffPlot(t *score.Table, essential []string, title string, size Size) *charts.Line {

	ln := charts.NewLine()
	ln.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Treatment - Control", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Density", Type: "value"}),
	)

	xs, ys := kde(t.Diff, 128)
	ln.AddSeries("All genes", linePairs(xs, ys))

	ix := t.Index(essential)
	if len(ix) > 0 {
		ed := make([]float64, 0, len(ix))
		for _, i := range ix {
			ed = append(ed, t.Diff[i])
		}
		xs, ys = kde(ed, 128)
		ln.AddSeries("Essential genes", linePairs(xs, ys))
	}

	return ln
}
