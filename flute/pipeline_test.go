// Copyright 2025, Kerby Shedden and the Flute contributors.

package flute

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/kshedden/flute/score"
	"github.com/kshedden/flute/utils"
)

// screenTable builds a deterministic gene summary with a strong
// selection structure: 30 ribosome genes depleted in control and
// rescued in treatment, 30 other essential genes depleted throughout,
// and 40 nonessential genes dropping only in treatment.
func screenTable(t *testing.T) *score.Table {
	t.Helper()

	var genes []string
	var base, shift []float64

	for i, g := range score.CoreEssentialGenes[:30] {
		genes = append(genes, g)
		base = append(base, -1.2+0.001*float64(i%5))
		shift = append(shift, 1.0)
	}
	for i, g := range score.CoreEssentialGenes[30:60] {
		genes = append(genes, g)
		base = append(base, -2.0+0.001*float64(i%5))
		shift = append(shift, 1.5)
	}
	for i, g := range score.NonessentialGenes {
		genes = append(genes, g)
		base = append(base, 0.001*float64(i%5))
		shift = append(shift, -0.8)
	}

	ctrl := make([][]float64, len(genes))
	treat := make([][]float64, len(genes))
	for i := range genes {
		ctrl[i] = []float64{base[i], base[i] + 0.02}
		treat[i] = []float64{base[i] + shift[i], base[i] + shift[i] + 0.02}
	}

	tbl, err := score.NewTable(genes, []string{"c1", "c2"}, []string{"t1", "t2"}, ctrl, treat)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// syntheticTable builds a table of invented gene ids that match no
// gene set, so every enrichment query screens to nothing.
func syntheticTable(t *testing.T) *score.Table {
	t.Helper()

	n := 100
	genes := make([]string, n)
	ctrl := make([][]float64, n)
	treat := make([][]float64, n)
	for i := 0; i < n; i++ {
		genes[i] = fmt.Sprintf("SYN%03d", i)
		c := -1.0 + 0.02*float64(i)
		d := 0.3 - 0.006*float64(i)
		ctrl[i] = []float64{c, c + 0.01}
		treat[i] = []float64{c + d, c + d + 0.01}
	}

	tbl, err := score.NewTable(genes, []string{"c1", "c2"}, []string{"t1", "t2"}, ctrl, treat)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func testConfig(t *testing.T, dir string) *utils.Config {
	t.Helper()

	return &utils.Config{
		GeneSummaryFile: "unused",
		CtrlNames:       []string{"c1", "c2"},
		TreatNames:      []string{"t1", "t2"},
		Organism:        "hsa",
		OutputPrefix:    path.Join(dir, "demo"),
		WorkspaceDir:    dir,
		Top:             10,
		Bottom:          10,
		PvalueCutoff:    0.05,
		AdjustMethod:    "BH",
		ScaleCutoff:     0.5,
		MaxEnrichProcs:  2,
	}
}

// listDir returns the entry names of a directory, or nil if it does
// not exist.
func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunSelectionScreen(t *testing.T) {

	dir := t.TempDir()
	config := testConfig(t, dir)

	tree, err := Run(context.Background(), config, screenTable(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	// The report lands inside the results root.
	fi, err := os.Stat(tree.ReportPath)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("report is empty")
	}
	if path.Dir(tree.ReportPath) != tree.Root {
		t.Errorf("report outside results root: %s", tree.ReportPath)
	}

	// Every stage directory exists and received output.
	for _, d := range setupDirs {
		names := listDir(t, tree.Dir(d))
		if names == nil {
			t.Errorf("missing stage directory %s", d)
			continue
		}
		if len(names) == 0 {
			t.Errorf("stage directory %s is empty", d)
		}
	}

	// Strong selection produces enriched pathways, so the diagram
	// directories appear and hold files.
	for _, d := range []string{DirPathview, DirSquarePathview} {
		names := listDir(t, tree.Dir(d))
		if len(names) == 0 {
			t.Errorf("no pathway diagrams under %s", d)
		}
	}

	// The workspace was cleaned up.
	if _, err := os.Stat(tree.Workspace); !os.IsNotExist(err) {
		t.Errorf("workspace not removed: %s", tree.Workspace)
	}
}

func TestRunNoEnrichableGenes(t *testing.T) {

	dir := t.TempDir()
	config := testConfig(t, dir)

	// The synthetic ids match no reference list, so the essential
	// reference must come from a positive control file.
	posFile := path.Join(dir, "pos.txt")
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "SYN%03d\n", i)
	}
	if err := os.WriteFile(posFile, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	config.PosControlFile = posFile

	tree, err := Run(context.Background(), config, syntheticTable(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Exactly the seven stage directories plus the report file.
	names := listDir(t, tree.Root)
	var dirs, files int
	for _, name := range names {
		fi, err := os.Stat(path.Join(tree.Root, name))
		if err != nil {
			t.Fatal(err)
		}
		if fi.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	if dirs != 7 {
		t.Errorf("directory count: got %d, want 7 (%v)", dirs, names)
	}
	if files != 1 {
		t.Errorf("file count: got %d, want 1 (%v)", files, names)
	}

	// No enrichment, so no files in the enrichment directories and
	// no diagram directories at all.
	for _, d := range []string{DirEnrich, DirSquareEnrich} {
		if n := listDir(t, tree.Dir(d)); len(n) != 0 {
			t.Errorf("unexpected files under %s: %v", d, n)
		}
	}
	for _, d := range []string{DirPathview, DirSquarePathview} {
		if n := listDir(t, tree.Dir(d)); n != nil {
			t.Errorf("diagram directory %s should not exist", d)
		}
	}

	// The plot stages still ran for both variants.
	for _, d := range []string{DirDistribution, DirMA, DirLinear, DirScatter, DirSquareScatter} {
		if n := listDir(t, tree.Dir(d)); len(n) == 0 {
			t.Errorf("stage directory %s is empty", d)
		}
	}
}

func TestRunLoessArtifacts(t *testing.T) {

	dir := t.TempDir()
	config := testConfig(t, dir)

	tree, err := Run(context.Background(), config, screenTable(t), nil)
	if err != nil {
		t.Fatal(err)
	}

	// With loess disabled, no loess tagged artifact exists anywhere
	// in the results tree.
	var loessFiles []string
	walk := func(root string) {
		entries, err := os.ReadDir(root)
		if err != nil {
			return
		}
		for _, e := range entries {
			p := path.Join(root, e.Name())
			if e.IsDir() {
				continue
			}
			if strings.Contains(e.Name(), VariantLoess.Suffix()) {
				loessFiles = append(loessFiles, p)
			}
		}
	}
	walk(tree.Root)
	for _, d := range setupDirs {
		walk(tree.Dir(d))
	}
	if len(loessFiles) != 0 {
		t.Errorf("loess artifacts without the loess flag: %v", loessFiles)
	}

	// With loess enabled, the distribution stage writes a third set
	// of panels.
	config2 := testConfig(t, t.TempDir())
	config2.LoessEnabled = true

	tree2, err := Run(context.Background(), config2, screenTable(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, name := range listDir(t, tree2.Dir(DirDistribution)) {
		if strings.Contains(name, VariantLoess.Suffix()) {
			found = true
		}
	}
	if !found {
		t.Error("no loess artifacts with the loess flag set")
	}
}

func TestRunDerivedTablesDeterministic(t *testing.T) {

	readDerived := func(variant Variant) []byte {
		dir := t.TempDir()
		config := testConfig(t, dir)
		config.NoCleanTmp = true

		tree, err := Run(context.Background(), config, screenTable(t), nil)
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(path.Join(tree.Workspace, string(variant)+"_beta.txt.sz"))
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	for _, v := range []Variant{VariantNegative, VariantCellCycle} {
		a := readDerived(v)
		b := readDerived(v)
		if !bytes.Equal(a, b) {
			t.Errorf("derived %s tables differ between identical runs", v)
		}
	}
}

func TestRunLoessFlagIndependence(t *testing.T) {

	// Enabling loess must not perturb the other derived tables.
	derive := func(loess bool) []byte {
		dir := t.TempDir()
		config := testConfig(t, dir)
		config.NoCleanTmp = true
		config.LoessEnabled = loess

		tree, err := Run(context.Background(), config, screenTable(t), nil)
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(path.Join(tree.Workspace, string(VariantNegative)+"_beta.txt.sz"))
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	if !bytes.Equal(derive(false), derive(true)) {
		t.Error("negative table depends on the loess flag")
	}
}

func TestRunPosControlGeneList(t *testing.T) {

	// The essential reference can be supplied as a gene list in the
	// configuration instead of a file.
	dir := t.TempDir()
	config := testConfig(t, dir)
	for i := 0; i < 20; i++ {
		config.PosControlGenes = append(config.PosControlGenes, fmt.Sprintf("SYN%03d", i))
	}

	if _, err := Run(context.Background(), config, syntheticTable(t), nil); err != nil {
		t.Fatal(err)
	}

	// Without any usable essential reference the same input cannot
	// be normalized.
	config2 := testConfig(t, t.TempDir())
	if _, err := Run(context.Background(), config2, syntheticTable(t), nil); err == nil {
		t.Error("expected a failure without essential reference genes")
	}
}

func TestRunUnknownEnrichMethod(t *testing.T) {

	dir := t.TempDir()
	config := testConfig(t, dir)
	config.EnrichMethod = "bogus"

	_, err := Run(context.Background(), config, screenTable(t), nil)
	if err == nil {
		t.Fatal("expected an error")
	}

	// The failure happened before any output path was created.
	if _, err := os.Stat(config.OutputPrefix + "_Flute_Results"); !os.IsNotExist(err) {
		t.Error("results root created despite a pre-flight failure")
	}
}

func TestRunCanceled(t *testing.T) {

	dir := t.TempDir()
	config := testConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, config, screenTable(t), nil); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}
