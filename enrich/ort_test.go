// Copyright 2025, Kerby Shedden and the Flute contributors.

package enrich

import (
	"math"
	"testing"
)

// ortFixture is a hand checkable database: two disjoint 5-gene sets,
// so the universe holds 10 genes.
func ortFixture() *Database {
	p1 := GeneSet{ID: "hsa00001", Name: "First", Genes: []string{"A", "B", "C", "D", "E"}}
	p2 := GeneSet{ID: "hsa00002", Name: "Second", Genes: []string{"F", "G", "H", "I", "J"}}
	return NewDatabase("hsa", []GeneSet{p1, p2}, nil)
}

func TestORTHandComputed(t *testing.T) {

	db := ortFixture()
	opts := Options{PvalueCutoff: 1.0, AdjustMethod: "none"}

	// Query of 4 genes, 3 in the first set.  The upper tail of the
	// hypergeometric with N=10, K=5, n=4, k=3 is 55/210.
	res, err := db.ORT([]string{"A", "B", "C", "F"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("result count: got %d, want 2", len(res))
	}

	first := res[0]
	if first.ID != "hsa00001" {
		t.Fatalf("top result: got %s", first.ID)
	}
	if first.Overlap != 3 || first.SetSize != 5 {
		t.Errorf("top result overlap/size: got %d/%d", first.Overlap, first.SetSize)
	}
	want := 55.0 / 210.0
	if math.Abs(first.PValue-want) > 1e-12 {
		t.Errorf("p-value: got %v, want %v", first.PValue, want)
	}

	// The second set overlaps one gene: P(X >= 1) = 1 - 5/210.
	second := res[1]
	want2 := 1 - 5.0/210.0
	if math.Abs(second.PValue-want2) > 1e-12 {
		t.Errorf("second p-value: got %v, want %v", second.PValue, want2)
	}
}

func TestORTScreensUnknownGenes(t *testing.T) {

	db := ortFixture()
	opts := Options{PvalueCutoff: 1.0, AdjustMethod: "none"}

	// Genes outside the universe do not change the query size.
	res, err := db.ORT([]string{"A", "B", "C", "F", "NOSUCHGENE1", "NOSUCHGENE2"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) == 0 {
		t.Fatal("no results")
	}
	want := 55.0 / 210.0
	if math.Abs(res[0].PValue-want) > 1e-9 {
		t.Errorf("p-value with stray genes: got %v, want %v", res[0].PValue, want)
	}
}

func TestORTCutoffTruncates(t *testing.T) {

	db := ortFixture()
	opts := Options{PvalueCutoff: 0.5, AdjustMethod: "none"}

	res, err := db.ORT([]string{"A", "B", "C", "F"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].ID != "hsa00001" {
		t.Errorf("truncated results: got %v", res)
	}
}

func TestORTEmptyQuery(t *testing.T) {

	db := ortFixture()
	opts := Options{PvalueCutoff: 1.0, AdjustMethod: "BH"}

	res, err := db.ORT(nil, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("empty query: got %v", res)
	}

	res, err = db.ORT([]string{"NOSUCHGENE"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("fully screened query: got %v", res)
	}
}

func TestORTCaseInsensitive(t *testing.T) {

	db := ortFixture()
	opts := Options{PvalueCutoff: 1.0, AdjustMethod: "none"}

	upper, err := db.ORT([]string{"A", "B", "C"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	lower, err := db.ORT([]string{"a", "b", "c"}, db.Pathways, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(upper) != len(lower) {
		t.Fatalf("case sensitivity changed results: %d vs %d", len(upper), len(lower))
	}
	for i := range upper {
		if math.Abs(upper[i].PValue-lower[i].PValue) > 1e-12 {
			t.Errorf("case sensitivity changed p-values at %d", i)
		}
	}
}

func TestHyperUpperTail(t *testing.T) {

	tests := []struct {
		N, K, n, k int
		want       float64
	}{
		{10, 5, 4, 3, 55.0 / 210.0},
		{10, 5, 4, 0, 1},
		{10, 5, 4, 4, 5.0 / 210.0},
		{10, 5, 4, 5, 0},
	}

	for _, tc := range tests {
		got := hyperUpperTail(tc.N, tc.K, tc.n, tc.k)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("hyperUpperTail(%d,%d,%d,%d) = %v, want %v", tc.N, tc.K, tc.n, tc.k, got, tc.want)
		}
	}
}

func TestBundleEmpty(t *testing.T) {

	var b *Bundle
	if !b.Empty() {
		t.Error("nil bundle should be empty")
	}
	if !(&Bundle{Category: []Result{{}}}).Empty() {
		t.Error("bundle without pathway results should be empty")
	}
	if (&Bundle{Pathway: []Result{{}}}).Empty() {
		t.Error("bundle with pathway results should not be empty")
	}
}
