// Copyright 2025, Kerby Shedden and the Flute contributors.

package plot

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kshedden/flute/score"
)

// TwoGroupScatter draws the control versus treatment scatter with the
// two selection groups colored, the symmetric cutoff applied on the
// difference axis.
func TwoGroupScatter(t *score.Table, groups score.TwoGroups, title string, size Size) *charts.Scatter {

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Control beta", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment beta", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	inA := memberSet(groups.GroupA)
	inB := memberSet(groups.GroupB)

	var ax, ay, bx, by, nx, ny []float64
	var an, bn, nn []string
	for i, g := range t.Genes {
		switch {
		case inA[strings.ToUpper(g)]:
			ax = append(ax, t.Control[i])
			ay = append(ay, t.Treatment[i])
			an = append(an, g)
		case inB[strings.ToUpper(g)]:
			bx = append(bx, t.Control[i])
			by = append(by, t.Treatment[i])
			bn = append(bn, g)
		default:
			nx = append(nx, t.Control[i])
			ny = append(ny, t.Treatment[i])
			nn = append(nn, g)
		}
	}

	sc.AddSeries("Group A", xyPairs(ax, ay, an))
	sc.AddSeries("Group B", xyPairs(bx, by, bn))
	sc.AddSeries("Other", xyPairs(nx, ny, nn))

	return sc
}

// RankPlot draws the difference scores in rank order and labels the
// top, bottom, and interest genes.
func RankPlot(t *score.Table, top, bottom int, interest []string, title string, size Size) *charts.Scatter {

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Rank", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment - Control", Type: "value"}),
	)

	ord := make([]int, len(t.Genes))
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool { return t.Diff[ord[a]] < t.Diff[ord[b]] })

	want := memberSet(interest)

	var x, y, lx, ly []float64
	var ln []string
	for r, i := range ord {
		rank := float64(r + 1)
		labeled := r < bottom || r >= len(ord)-top || want[strings.ToUpper(t.Genes[i])]
		if labeled {
			lx = append(lx, rank)
			ly = append(ly, t.Diff[i])
			ln = append(ln, t.Genes[i])
		} else {
			x = append(x, rank)
			y = append(y, t.Diff[i])
		}
	}

	sc.AddSeries("genes", xyPairs(x, y, nil))

	show := true
	sc.AddSeries("labeled", xyPairs(lx, ly, ln),
		charts.WithLabelOpts(opts.Label{Show: &show, Formatter: "{b}", Position: "right"}))

	return sc
}

// NineSquareScatter draws the joint control/treatment scatter with
// the four labeled quadrant groups colored.
func NineSquareScatter(t *score.Table, sg score.SquareGroups, title string, size Size) *charts.Scatter {

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Control beta", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Treatment beta", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	member := make(map[string]int)
	for q, genes := range sg {
		for _, g := range genes {
			member[g] = q
		}
	}

	series := map[int]string{1: "Group 1", 2: "Group 2", 3: "Group 3", 4: "Group 4"}
	for q := 1; q <= 4; q++ {
		var x, y []float64
		var names []string
		for i, g := range t.Genes {
			if member[g] == q {
				x = append(x, t.Control[i])
				y = append(y, t.Treatment[i])
				names = append(names, g)
			}
		}
		sc.AddSeries(series[q], xyPairs(x, y, names))
	}

	var x, y []float64
	var names []string
	for i, g := range t.Genes {
		if member[g] == 0 {
			x = append(x, t.Control[i])
			y = append(y, t.Treatment[i])
			names = append(names, g)
		}
	}
	sc.AddSeries("Unselected", xyPairs(x, y, names))

	return sc
}

// memberSet keys genes by upper-cased id so membership checks match
// the case-insensitive handling used elsewhere for gene names.
func memberSet(genes []string) map[string]bool {

	m := make(map[string]bool, len(genes))
	for _, g := range genes {
		m[strings.ToUpper(g)] = true
	}

	return m
}
