// Copyright 2025, Kerby Shedden and the Flute contributors.

package enrich

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// EnrichmentError indicates that an enrichment call for one gene
// group failed.  The pipeline treats it as recoverable: the group's
// results are absent and the run continues.
type EnrichmentError struct {
	Group string
	Msg   string
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich: group %s: %s", e.Group, e.Msg)
}

// Result is one enriched gene set: the overlap with the query group,
// the raw and adjusted p-values, and the overlapping genes (used as
// input to pathway diagram rendering).
type Result struct {
	ID      string
	Name    string
	SetSize int
	Overlap int
	PValue  float64
	AdjP    float64
	Genes   []string
}

// Bundle is the full enrichment output for one (variant, group)
// combination.
type Bundle struct {
	Variant string
	Group   string

	Pathway  []Result
	Category []Result
	GSEA     []Result
}

// Empty reports whether the bundle carries no enriched pathway terms
// usable for diagram rendering.
func (b *Bundle) Empty() bool {
	return b == nil || len(b.Pathway) == 0
}

// Options are the shared parameters of the enrichment tests.
type Options struct {
	PvalueCutoff float64
	AdjustMethod string
}

// ORT runs a hypergeometric over-representation test of the gene
// group against each set in the collection.  Genes absent from the
// database universe are screened out first.  Results are sorted by
// adjusted p-value and truncated at the cutoff.
func (db *Database) ORT(genes []string, sets []GeneSet, opts Options) ([]Result, error) {

	query := db.ScreenGenes(genes)
	if len(query) == 0 {
		return nil, nil
	}

	in := make(map[string]bool, len(query))
	for _, g := range query {
		in[strings.ToUpper(g)] = true
	}

	N := db.UniverseSize()
	n := len(in)

	var res []Result
	var pv []float64
	for _, s := range sets {
		var hits []string
		for _, g := range s.Genes {
			if in[strings.ToUpper(g)] {
				hits = append(hits, g)
			}
		}
		if len(hits) == 0 {
			continue
		}
		p := hyperUpperTail(N, len(s.Genes), n, len(hits))
		res = append(res, Result{
			ID:      s.ID,
			Name:    s.Name,
			SetSize: len(s.Genes),
			Overlap: len(hits),
			PValue:  p,
			Genes:   hits,
		})
		pv = append(pv, p)
	}

	adj, err := Adjust(pv, opts.AdjustMethod)
	if err != nil {
		return nil, err
	}
	for i := range res {
		res[i].AdjP = adj[i]
	}

	sort.SliceStable(res, func(a, b int) bool { return res[a].AdjP < res[b].AdjP })

	var kept []Result
	for _, r := range res {
		if r.AdjP <= opts.PvalueCutoff {
			kept = append(kept, r)
		}
	}

	return kept, nil
}

// hyperUpperTail is P(X >= k) for a hypergeometric draw of n from a
// population of N containing K successes, computed in log space.
func hyperUpperTail(N, K, n, k int) float64 {

	if k <= 0 {
		return 1
	}
	hi := K
	if n < K {
		hi = n
	}

	var p float64
	for x := k; x <= hi; x++ {
		p += math.Exp(lchoose(K, x) + lchoose(N-K, n-x) - lchoose(N, n))
	}
	if p > 1 {
		p = 1
	}

	return p
}

func lchoose(n, k int) float64 {

	if k < 0 || k > n {
		return math.Inf(-1)
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))

	return a - b - c
}
