// Copyright 2025, Kerby Shedden and the Flute contributors.

package score

// TwoGroups is the symmetric split of genes by the difference cutoff.
// GroupA holds genes with Diff above +cutoff (positive selection in
// treatment), GroupB genes with Diff below -cutoff.
type TwoGroups struct {
	GroupA []string
	GroupB []string
}

// SplitTwoGroups partitions the genes of t by the given cutoff,
// applied as +cutoff and -cutoff on Diff.
func SplitTwoGroups(t *Table, cutoff float64) TwoGroups {

	var tg TwoGroups
	for i, g := range t.Genes {
		switch {
		case t.Diff[i] > cutoff:
			tg.GroupA = append(tg.GroupA, g)
		case t.Diff[i] < -cutoff:
			tg.GroupB = append(tg.GroupB, g)
		}
	}

	return tg
}

// SquareGroups maps the labeled nine-square quadrant index (1-4) to
// the genes assigned to it.  The quadrants partition the labeled
// genes: no gene appears under two indices.
//
// The quadrant layout over (Control, Treatment):
//
//	1: |Control| <= c, Treatment >  t   (treatment specific positive)
//	2: |Control| <= c, Treatment < -t   (treatment specific negative)
//	3: Control  < -c,  |Treatment| <= t (control specific negative)
//	4: Control  >  c,  |Treatment| <= t (control specific positive)
//
// Genes in the center cell or the corner cells carry no label.
type SquareGroups map[int][]string

// NineSquare assigns each gene of t to a labeled nine-square
// quadrant, using the cutoffs on the control and treatment axes.
func NineSquare(t *Table, ctrlCut, treatCut float64) SquareGroups {

	sg := make(SquareGroups)
	for i, g := range t.Genes {
		c, tr := t.Control[i], t.Treatment[i]
		switch {
		case c >= -ctrlCut && c <= ctrlCut && tr > treatCut:
			sg[1] = append(sg[1], g)
		case c >= -ctrlCut && c <= ctrlCut && tr < -treatCut:
			sg[2] = append(sg[2], g)
		case c < -ctrlCut && tr >= -treatCut && tr <= treatCut:
			sg[3] = append(sg[3], g)
		case c > ctrlCut && tr >= -treatCut && tr <= treatCut:
			sg[4] = append(sg[4], g)
		}
	}

	return sg
}

// Union returns the concatenation of the given quadrant groups, in
// quadrant order.  The quadrants are disjoint, so no deduplication is
// needed.
func (sg SquareGroups) Union(quadrants []int) []string {

	var genes []string
	for _, q := range quadrants {
		genes = append(genes, sg[q]...)
	}

	return genes
}
