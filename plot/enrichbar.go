// Copyright 2025, Kerby Shedden and the Flute contributors.

package plot

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kshedden/flute/enrich"
)

// maxBarTerms caps the number of bars on one enrichment panel.
const maxBarTerms = 15

// EnrichBar draws the enriched terms of one result list as a
// horizontal bar chart of -log10 adjusted p-values.
func EnrichBar(res []enrich.Result, title string, size Size) *charts.Bar {

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: ""}),
		charts.WithXAxisOpts(opts.XAxis{Name: "-log10(adj. p)"}),
	)

	n := len(res)
	if n > maxBarTerms {
		n = maxBarTerms
	}

	// Most significant at the top after axis reversal.
	var names []string
	var data []opts.BarData
	for i := n - 1; i >= 0; i-- {
		r := res[i]
		p := r.AdjP
		if p <= 0 {
			p = 1e-300
		}
		names = append(names, r.Name)
		data = append(data, opts.BarData{Value: -math.Log10(p)})
	}

	bar.SetXAxis(names).AddSeries("terms", data)
	bar.XYReversal()

	return bar
}

// GSEACurve draws the running enrichment sum of the strongest GSEA
// hit over the ranked gene list.
func GSEACurve(running []float64, name string, size Size) *charts.Line {

	ln := charts.NewLine()
	ln.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: "GSEA: " + name}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Rank", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Enrichment score", Type: "value"}),
	)

	x := make([]float64, len(running))
	for i := range running {
		x[i] = float64(i + 1)
	}
	ln.AddSeries(name, linePairs(x, running))

	return ln
}
