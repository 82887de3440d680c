// Copyright 2025, Kerby Shedden and the Flute contributors.

package pathview

import (
	"os"
	"path"
	"testing"

	"github.com/kshedden/flute/enrich"
	"github.com/kshedden/flute/score"
)

func renderTable(t *testing.T) *score.Table {
	t.Helper()

	genes := []string{"A", "B", "C", "D"}
	ctrl := [][]float64{{-1}, {-0.5}, {0}, {0.5}}
	treat := [][]float64{{0}, {0.5}, {1}, {1.5}}
	tbl, err := score.NewTable(genes, []string{"c1"}, []string{"t1"}, ctrl, treat)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func renderResults(n int) []enrich.Result {
	var res []enrich.Result
	for i := 0; i < n; i++ {
		res = append(res, enrich.Result{
			ID:      "hsa0000" + string(rune('1'+i)),
			Name:    "Pathway",
			SetSize: 4,
			Overlap: 2,
			AdjP:    0.01,
			Genes:   []string{"A", "B"},
		})
	}
	return res
}

func TestRenderTop(t *testing.T) {

	dir := path.Join(t.TempDir(), "diagrams")
	tbl := renderTable(t)

	// Six enriched pathways, only the top ones render by default.
	n, err := Render(tbl, renderResults(6), "GroupA", "_negative_normalized", false, dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("rendered %d diagrams, want 4", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("file count: got %d, want 4", len(entries))
	}
	want := "hsa00001_GroupA_negative_normalized.html"
	found := false
	for _, e := range entries {
		if e.Name() == want {
			found = true
		}
	}
	if !found {
		t.Errorf("missing %s among %v", want, entries)
	}
}

func TestRenderAll(t *testing.T) {

	dir := path.Join(t.TempDir(), "diagrams")
	n, err := Render(renderTable(t), renderResults(6), "GroupA", "", true, dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("rendered %d diagrams, want 6", n)
	}
}

func TestRenderEmpty(t *testing.T) {

	dir := path.Join(t.TempDir(), "diagrams")
	n, err := Render(renderTable(t), nil, "GroupA", "", false, dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rendered %d diagrams, want 0", n)
	}

	// The directory only appears on the first rendered diagram.
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("diagram directory created without diagrams")
	}
}

func TestSanitize(t *testing.T) {

	tests := []struct {
		in   string
		want string
	}{
		{"hsa04110", "hsa04110"},
		{"a/b\\c:d e", "a-b-c-d-e"},
		{"Group13", "Group13"},
	}

	for _, tc := range tests {
		if got := sanitize(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
