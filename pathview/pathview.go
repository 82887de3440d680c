// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package pathview renders per-pathway diagrams: one chart per
// enriched pathway showing the score differences of the pathway's
// genes in the current table.

package pathview

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kshedden/flute/enrich"
	"github.com/kshedden/flute/score"
)

// topPathways is the number of pathways rendered per enrichment
// bundle unless the run asks for all of them.
const topPathways = 4

// Render draws one diagram per enriched pathway in res into dir,
// which is created on first use.  File names carry the group label
// and the normalization suffix.  Returns the number of diagrams
// written.  An empty result list renders nothing and is not an
// error.
func Render(t *score.Table, res []enrich.Result, group, suffix string, renderAll bool, dir string) (int, error) {

	if len(res) == 0 {
		return 0, nil
	}

	n := len(res)
	if !renderAll && n > topPathways {
		n = topPathways
	}

	// The diagram directories appear only when a diagram is
	// actually rendered.
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	written := 0
	for _, r := range res[:n] {

		bar := diagram(t, r)
		fname := fmt.Sprintf("%s_%s%s.html", sanitize(r.ID), sanitize(group), suffix)
		fid, err := os.Create(path.Join(dir, fname))
		if err != nil {
			return written, err
		}
		err = bar.Render(fid)
		fid.Close()
		if err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

// diagram builds the per-gene score chart for one pathway.
func diagram(t *score.Table, r enrich.Result) *charts.Bar {

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "560px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    r.Name,
			Subtitle: fmt.Sprintf("%s, %d/%d genes, adj. p = %.2e", r.ID, r.Overlap, r.SetSize, r.AdjP),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment - Control"}),
	)

	diff := make(map[string]float64, len(t.Genes))
	for i, g := range t.Genes {
		diff[strings.ToUpper(g)] = t.Diff[i]
	}

	var names []string
	var data []opts.BarData
	for _, g := range r.Genes {
		if d, ok := diff[strings.ToUpper(g)]; ok {
			names = append(names, g)
			data = append(data, opts.BarData{Value: d})
		}
	}

	bar.SetXAxis(names).AddSeries("diff", data)

	return bar
}

func sanitize(s string) string {

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, s)
}
