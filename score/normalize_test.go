// Copyright 2025, Kerby Shedden and the Flute contributors.

package score

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// testTable builds a deterministic table with two control and two
// treatment replicates.  The first nEss genes carry strongly negative
// scores, mimicking essential genes; the remainder sit near zero.
func testTable(t *testing.T, n, nEss int) *Table {
	t.Helper()

	genes := make([]string, n)
	ctrl := make([][]float64, n)
	treat := make([][]float64, n)
	for i := 0; i < n; i++ {
		genes[i] = fmt.Sprintf("G%04d", i)
		base := 0.01 * float64(i%7)
		if i < nEss {
			base = -1.5 + 0.02*float64(i)
		}
		ctrl[i] = []float64{base, base + 0.1}
		treat[i] = []float64{base + 0.3, base + 0.2}
	}

	tbl, err := NewTable(genes, []string{"c1", "c2"}, []string{"t1", "t2"}, ctrl, treat)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func essNames(tbl *Table, nEss int) []string {
	return append([]string(nil), tbl.Genes[:nEss]...)
}

func TestNormalizeDiffIdentity(t *testing.T) {

	tbl := testTable(t, 60, 20)
	opts := NormalizeOptions{
		NegCtrlGenes:   tbl.Genes[40:],
		EssentialGenes: essNames(tbl, 20),
	}

	for _, method := range []Method{Negative, CellCycle, Loess} {
		u, err := tbl.Normalize(method, opts)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if !u.checkDiff() {
			t.Errorf("%s: Diff does not equal Treatment minus Control", method)
		}
	}
}

func TestNormalizeInputUnchanged(t *testing.T) {

	tbl := testTable(t, 40, 10)
	before := append([]float64(nil), tbl.Diff...)

	opts := NormalizeOptions{EssentialGenes: essNames(tbl, 10)}
	for _, method := range []Method{Negative, CellCycle, Loess} {
		if _, err := tbl.Normalize(method, opts); err != nil {
			t.Fatalf("%s: %v", method, err)
		}
	}

	for i := range before {
		if tbl.Diff[i] != before[i] {
			t.Fatal("normalization mutated the input table")
		}
	}
}

func TestNormalizeNegativeCentering(t *testing.T) {

	tbl := testTable(t, 50, 10)
	neg := tbl.Genes[30:]

	u, err := tbl.Normalize(Negative, NormalizeOptions{NegCtrlGenes: neg})
	if err != nil {
		t.Fatal(err)
	}

	// After centering, the median beta of the negative control
	// genes is zero in every column.
	ref := u.Index(neg)
	for j := range u.CtrlNames {
		if m := columnMedian(u.CtrlBeta, j, ref); math.Abs(m) > 1e-9 {
			t.Errorf("control column %d: median %v after centering", j, m)
		}
	}
	for j := range u.TreatNames {
		if m := columnMedian(u.TreatBeta, j, ref); math.Abs(m) > 1e-9 {
			t.Errorf("treatment column %d: median %v after centering", j, m)
		}
	}
}

func TestNormalizeCellCycleEqualizes(t *testing.T) {

	tbl := testTable(t, 50, 15)
	ess := essNames(tbl, 15)

	u, err := tbl.Normalize(CellCycle, NormalizeOptions{EssentialGenes: ess})
	if err != nil {
		t.Fatal(err)
	}

	ref := u.Index(ess)
	var mags []float64
	for j := range u.CtrlNames {
		mags = append(mags, columnAbsMedian(u.CtrlBeta, j, ref))
	}
	for j := range u.TreatNames {
		mags = append(mags, columnAbsMedian(u.TreatBeta, j, ref))
	}
	for _, m := range mags[1:] {
		if math.Abs(m-mags[0]) > 1e-9 {
			t.Errorf("essential magnitudes not equalized: %v", mags)
		}
	}
}

func TestNormalizeCellCycleTooFewRefs(t *testing.T) {

	tbl := testTable(t, 30, 5)

	_, err := tbl.Normalize(CellCycle, NormalizeOptions{EssentialGenes: []string{"G0000", "G0001"}})
	if err == nil {
		t.Fatal("expected an error with two reference genes")
	}
	var ne *NormalizationError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NormalizationError, got %T", err)
	}
	if ne.Method != CellCycle {
		t.Errorf("error method: got %q", ne.Method)
	}
}

func TestNormalizeLoessControlsUntouched(t *testing.T) {

	tbl := testTable(t, 80, 25)

	u, err := tbl.Normalize(Loess, NormalizeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range tbl.Genes {
		for j := range tbl.CtrlNames {
			if u.CtrlBeta[i][j] != tbl.CtrlBeta[i][j] {
				t.Fatal("loess modified a control column")
			}
		}
	}
}

func TestNormalizeLoessRemovesTrend(t *testing.T) {

	// Build a table whose Diff is an exact linear function of the
	// average score.  A local linear fit recovers it, so the
	// normalized Diff collapses to near zero.
	n := 100
	genes := make([]string, n)
	ctrl := make([][]float64, n)
	treat := make([][]float64, n)
	for i := 0; i < n; i++ {
		genes[i] = fmt.Sprintf("G%04d", i)
		c := -2.0 + 0.04*float64(i)
		d := 0.5 + 0.2*c
		ctrl[i] = []float64{c}
		treat[i] = []float64{c + d}
	}
	tbl, err := NewTable(genes, []string{"c1"}, []string{"t1"}, ctrl, treat)
	if err != nil {
		t.Fatal(err)
	}

	u, err := tbl.Normalize(Loess, NormalizeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range u.Genes {
		if math.Abs(u.Diff[i]) > 0.05 {
			t.Fatalf("trend not removed at gene %d: residual %v", i, u.Diff[i])
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {

	tbl := testTable(t, 70, 20)
	opts := NormalizeOptions{EssentialGenes: essNames(tbl, 20)}

	for _, method := range []Method{Negative, CellCycle, Loess} {
		a, err := tbl.Normalize(method, opts)
		if err != nil {
			t.Fatal(err)
		}
		b, err := tbl.Normalize(method, opts)
		if err != nil {
			t.Fatal(err)
		}
		for i := range a.Genes {
			if a.Diff[i] != b.Diff[i] {
				t.Fatalf("%s: repeat runs disagree at gene %d", method, i)
			}
		}
	}
}

func TestNormalizeUnknownMethod(t *testing.T) {

	tbl := testTable(t, 20, 5)
	if _, err := tbl.Normalize(Method("median"), NormalizeOptions{}); err == nil {
		t.Fatal("expected an error for an unknown method")
	}
}
