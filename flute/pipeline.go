// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package flute orchestrates the downstream analysis of a CRISPR
// screen gene summary: normalization of the gene level beta scores,
// distribution and selection plots, pathway and functional category
// enrichment of the selected gene groups, pathway diagrams, and the
// combined report document.
//
// The pipeline is a fixed sequence of stages.  Stage outputs are
// fully materialized before the next stage begins, and every stage
// runs once per active normalization variant, reading only tables
// and groups derived earlier for that same variant.

package flute

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kshedden/flute/enrich"
	"github.com/kshedden/flute/pathview"
	"github.com/kshedden/flute/plot"
	"github.com/kshedden/flute/report"
	"github.com/kshedden/flute/score"
	"github.com/kshedden/flute/utils"
)

// comboKey identifies one (variant, group) enrichment combination.
type comboKey struct {
	variant Variant
	group   string
}

// Pipeline carries the state threaded through the stages of one run.
type Pipeline struct {
	config   *utils.Config
	logger   *log.Logger
	organism string

	raw      *score.Table
	variants []Variant
	tables   map[Variant]*score.Table

	essentials []string
	negCtrls   []string

	db   *enrich.Database
	doc  *report.Document
	tree *ArtifactTree
	size plot.Size

	cutoffs   map[Variant]float64
	twoGroups map[Variant]score.TwoGroups
	squares   map[Variant]score.SquareGroups

	bundles       map[comboKey]*enrich.Bundle
	squareBundles map[comboKey]*enrich.Bundle

	useGSEA bool
}

// Run executes the full pipeline.  table may be nil, in which case
// the gene summary is read from the configured file.  logger may be
// nil, in which case a run log is opened inside the workspace.  The
// report document is closed on every exit path.
func Run(ctx context.Context, config *utils.Config, table *score.Table, logger *log.Logger) (*ArtifactTree, error) {

	// Pre-flight checks run before any output path is touched.
	organism, err := utils.ResolveOrganism(config.Organism)
	if err != nil {
		return nil, err
	}

	if table == nil {
		table, err = score.ReadGeneSummary(config.GeneSummaryFile, config.CtrlNames, config.TreatNames)
		if err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		config:        config,
		organism:      organism,
		raw:           table,
		variants:      activeVariants(config.LoessEnabled),
		tables:        make(map[Variant]*score.Table),
		cutoffs:       make(map[Variant]float64),
		twoGroups:     make(map[Variant]score.TwoGroups),
		squares:       make(map[Variant]score.SquareGroups),
		bundles:       make(map[comboKey]*enrich.Bundle),
		squareBundles: make(map[comboKey]*enrich.Bundle),
	}

	// A third panel column when loess triples the grids.
	if config.LoessEnabled {
		p.size = plot.ThirdPage
	} else {
		p.size = plot.HalfPage
	}

	if err := p.setupReferences(); err != nil {
		return nil, err
	}
	if err := p.setupDatabase(); err != nil {
		return nil, err
	}

	ws, err := makeWorkspace(config)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !config.NoCleanTmp {
			if err := os.RemoveAll(ws); err != nil && p.logger != nil {
				p.logger.Printf("Cannot remove workspace %s: %v, continuing anyway", ws, err)
			}
		}
	}()

	p.logger = logger
	if p.logger == nil {
		fid, err := os.Create(path.Join(ws, "flute.log"))
		if err != nil {
			return nil, &FileSystemError{Path: ws, Err: err}
		}
		defer fid.Close()
		p.logger = log.New(fid, "", log.Ltime)
	}
	saveConfig(config, ws, p.logger)

	p.tree, err = newArtifactTree(config.OutputPrefix)
	if err != nil {
		return nil, err
	}
	p.tree.Workspace = ws

	p.doc = report.Open(p.tree.ReportPath)
	defer p.doc.Close()

	p.logger.Printf("Storing results in %s", p.tree.Root)
	p.logger.Printf("Storing derived tables in %s", ws)

	stages := []struct {
		name string
		run  func() error
	}{
		{"deriveVariants", p.deriveVariants},
		{"distribution", p.distributionStage},
		{"maPlot", p.maStage},
		{"linearFit", p.linearFitStage},
		{"twoGroupScatter", p.twoGroupScatterStage},
		{"twoGroupEnrich", p.twoGroupEnrichStage},
		{"twoGroupPathview", p.twoGroupPathviewStage},
		{"nineSquare", p.nineSquareStage},
		{"nineSquareEnrich", p.nineSquareEnrichStage},
		{"nineSquarePathview", p.nineSquarePathviewStage},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			p.logger.Printf("Run canceled before %s", st.name)
			return nil, err
		}
		p.logger.Printf("Starting %s", st.name)
		if err := st.run(); err != nil {
			return nil, err
		}
		p.logger.Printf("%s done", st.name)
	}

	if err := p.doc.Close(); err != nil {
		return nil, &FileSystemError{Path: p.tree.ReportPath, Err: err}
	}
	p.logger.Printf("All done, report at %s", p.tree.ReportPath)

	return p.tree, nil
}

// setupReferences assembles the reference gene lists, folding any
// configured positive controls into the essential reference.
func (p *Pipeline) setupReferences() error {

	p.essentials = append([]string(nil), score.CoreEssentialGenes...)
	p.negCtrls = append([]string(nil), score.NonessentialGenes...)

	p.essentials = append(p.essentials, p.config.PosControlGenes...)
	if p.config.PosControlFile != "" {
		genes, err := readGeneList(p.config.PosControlFile)
		if err != nil {
			return err
		}
		p.essentials = append(p.essentials, genes...)
	}

	return nil
}

func (p *Pipeline) setupDatabase() error {

	if p.config.GeneSetFile != "" {
		sets, err := enrich.LoadGMT(p.config.GeneSetFile)
		if err != nil {
			return err
		}
		db := enrich.DefaultDatabase(p.organism)
		p.db = enrich.NewDatabase(p.organism, sets, db.Categories)
	} else {
		p.db = enrich.DefaultDatabase(p.organism)
	}

	switch strings.ToUpper(p.config.EnrichMethod) {
	case "", "ORT", "HGT", "1", "5":
		// Hypergeometric over-representation, the default.
	case "GSEA", "2":
		p.useGSEA = true
	case "DAVID", "3", "GOSTATS", "4":
		// No local counterpart; fall back to the
		// over-representation test.
	default:
		return fmt.Errorf("flute: unknown enrichment method %q", p.config.EnrichMethod)
	}
	if p.config.GseaEnabled {
		p.useGSEA = true
	}

	return nil
}

// deriveVariants computes the normalized tables, one per active
// variant, each independently derived from the raw input, and writes
// each derived table into the workspace.
func (p *Pipeline) deriveVariants() error {

	if p.raw.Duplicates > 0 {
		p.logger.Printf("Input repeated %d gene ids, keeping the last row of each", p.raw.Duplicates)
	}

	opts := score.NormalizeOptions{
		NegCtrlGenes:   p.negCtrls,
		EssentialGenes: p.essentials,
	}

	for _, v := range p.variants {
		t, err := p.raw.Normalize(v.Method(), opts)
		if err != nil {
			return err
		}
		p.tables[v] = t

		fname := path.Join(p.tree.Workspace, string(v)+"_beta.txt.sz")
		if err := t.WriteSnappy(fname); err != nil {
			return &FileSystemError{Path: fname, Err: err}
		}
		p.logger.Printf("Derived %s table with %d genes", v, len(t.Genes))
	}

	return nil
}

func (p *Pipeline) distributionStage() error {

	dir := p.tree.Dir(DirDistribution)
	for _, v := range p.variants {
		t := p.tables[v]

		violin := plot.ViolinPlot(t, "Beta score distribution ("+string(v)+")", p.size)
		density := plot.DensityPlot(t, p.essentials, "Beta score density ("+string(v)+")", p.size)
		diff := plot.DensityDiffPlot(t, p.essentials, "Score difference density ("+string(v)+")", p.size)

		if err := p.writeChart(path.Join(dir, "violin"+v.Suffix()+".html"), violin); err != nil {
			return err
		}
		if err := p.writeChart(path.Join(dir, "density"+v.Suffix()+".html"), density); err != nil {
			return err
		}
		if err := p.writeChart(path.Join(dir, "density_diff"+v.Suffix()+".html"), diff); err != nil {
			return err
		}
		p.doc.AddPanels(violin, density, diff)
	}

	return nil
}

func (p *Pipeline) maStage() error {

	dir := p.tree.Dir(DirMA)
	for _, v := range p.variants {
		ma := plot.MAPlot(p.tables[v], "MA plot ("+string(v)+")", p.size)
		if err := p.writeChart(path.Join(dir, "ma"+v.Suffix()+".html"), ma); err != nil {
			return err
		}
		p.doc.AddPanels(ma)
	}

	return nil
}

func (p *Pipeline) linearFitStage() error {

	dir := p.tree.Dir(DirLinear)
	for _, v := range p.variants {
		t := p.tables[v]

		full, slope := plot.LinearFitPlot(t, nil, "Linear fit, all genes ("+string(v)+")", p.size)
		if err := p.writeChart(path.Join(dir, "linear_fit"+v.Suffix()+".html"), full); err != nil {
			return err
		}

		ess, eslope := plot.LinearFitPlot(t, t.Index(p.essentials), "Linear fit, essential genes ("+string(v)+")", p.size)
		if err := p.writeChart(path.Join(dir, "linear_fit_essential"+v.Suffix()+".html"), ess); err != nil {
			return err
		}

		p.doc.AddPanels(full, ess)
		p.logger.Printf("Cell cycle slope for %s: all=%.3f essential=%.3f", v, slope, eslope)
	}

	return nil
}

// scaleParam resolves the cutoff multiplier for a variant's table.
func (p *Pipeline) scaleParam(t *score.Table) float64 {

	if p.config.AutoScale {
		return score.AutoScale(len(t.Genes))
	}

	return p.config.ScaleCutoff
}

func (p *Pipeline) twoGroupScatterStage() error {

	dir := p.tree.Dir(DirScatter)
	for _, v := range p.variants {
		t := p.tables[v]

		// The cutoff is recomputed per variant from that
		// variant's own difference distribution.
		cutoff := score.CutoffCalling(t.Diff, p.scaleParam(t))
		p.cutoffs[v] = cutoff
		p.twoGroups[v] = score.SplitTwoGroups(t, cutoff)
		p.logger.Printf("Cutoff for %s: %.4f (A=%d, B=%d)", v, cutoff,
			len(p.twoGroups[v].GroupA), len(p.twoGroups[v].GroupB))

		scatter := plot.TwoGroupScatter(t, p.twoGroups[v], "Positive and negative selection ("+string(v)+")", p.size)
		rank := plot.RankPlot(t, p.config.Top, p.config.Bottom, p.config.InterestGenes,
			"Rank of score differences ("+string(v)+")", p.size)

		if err := p.writeChart(path.Join(dir, "scatter"+v.Suffix()+".html"), scatter); err != nil {
			return err
		}
		if err := p.writeChart(path.Join(dir, "rank"+v.Suffix()+".html"), rank); err != nil {
			return err
		}
		p.doc.AddPanels(scatter, rank)
	}

	return nil
}

// enrichCombo runs the enrichment tests for one gene group.
func (p *Pipeline) enrichCombo(v Variant, group string, genes []string) (*enrich.Bundle, error) {

	opts := enrich.Options{
		PvalueCutoff: p.config.PvalueCutoff,
		AdjustMethod: p.config.AdjustMethod,
	}

	b := &enrich.Bundle{Variant: string(v), Group: group}

	pw, err := p.db.ORT(genes, p.db.Pathways, opts)
	if err != nil {
		return nil, &enrich.EnrichmentError{Group: group, Msg: err.Error()}
	}
	b.Pathway = pw

	cat, err := p.db.ORT(genes, p.db.Categories, opts)
	if err != nil {
		return nil, &enrich.EnrichmentError{Group: group, Msg: err.Error()}
	}
	b.Category = cat

	return b, nil
}

// runCombos executes the per-combination enrichment calls, fanned
// out across workers.  Each combination fails independently: a
// failed combination leaves a nil bundle and is logged, the rest of
// the run continues.
func (p *Pipeline) runCombos(jobs []comboKey, genes map[comboKey][]string, out map[comboKey]*enrich.Bundle) {

	var g errgroup.Group
	limit := p.config.MaxEnrichProcs
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	type slot struct {
		key    comboKey
		bundle *enrich.Bundle
		err    error
	}
	slots := make([]slot, len(jobs))

	for i, key := range jobs {
		i, key := i, key
		g.Go(func() error {
			b, err := p.enrichCombo(key.variant, key.group, genes[key])
			slots[i] = slot{key: key, bundle: b, err: err}
			return nil
		})
	}
	// Workers never return errors; failures ride in the slots.
	_ = g.Wait()

	for _, s := range slots {
		if s.err != nil {
			p.logger.Printf("Enrichment failed for %s/%s: %v, skipping", s.key.variant, s.key.group, s.err)
			continue
		}
		out[s.key] = s.bundle
	}
}

// appendBundlePanels writes the enrichment charts of one bundle and
// appends them to the report.
func (p *Pipeline) appendBundlePanels(dir string, v Variant, group string, b *enrich.Bundle) error {

	if b == nil {
		return nil
	}

	if len(b.Pathway) > 0 {
		bar := plot.EnrichBar(b.Pathway, fmt.Sprintf("Pathways: %s (%s)", group, v), p.size)
		name := path.Join(dir, "pathway_"+group+v.Suffix()+".html")
		if err := p.writeChart(name, bar); err != nil {
			return err
		}
		p.doc.AddPanels(bar)
	}
	if len(b.Category) > 0 {
		bar := plot.EnrichBar(b.Category, fmt.Sprintf("Functional categories: %s (%s)", group, v), p.size)
		name := path.Join(dir, "category_"+group+v.Suffix()+".html")
		if err := p.writeChart(name, bar); err != nil {
			return err
		}
		p.doc.AddPanels(bar)
	}

	return nil
}

func (p *Pipeline) twoGroupEnrichStage() error {

	dir := p.tree.Dir(DirEnrich)

	var jobs []comboKey
	genes := make(map[comboKey][]string)
	for _, v := range p.variants {
		tg := p.twoGroups[v]
		for _, gr := range []struct {
			name  string
			genes []string
		}{{"GroupA", tg.GroupA}, {"GroupB", tg.GroupB}} {
			key := comboKey{variant: v, group: gr.name}
			jobs = append(jobs, key)
			genes[key] = gr.genes
		}
	}

	p.runCombos(jobs, genes, p.bundles)

	// Appends happen in deterministic order after the fan-out.
	for _, key := range jobs {
		if err := p.appendBundlePanels(dir, key.variant, key.group, p.bundles[key]); err != nil {
			return err
		}
	}

	if p.useGSEA {
		if err := p.gseaPanels(dir); err != nil {
			return err
		}
	}

	return nil
}

// gseaPanels runs the rank based enrichment once per variant over
// the full difference-ranked gene list.  GSEA panels are separate
// report pages, never merged into the per-group grids.
func (p *Pipeline) gseaPanels(dir string) error {

	opts := enrich.Options{
		PvalueCutoff: p.config.PvalueCutoff,
		AdjustMethod: p.config.AdjustMethod,
	}

	for _, v := range p.variants {
		t := p.tables[v]

		ranked := make([]enrich.RankedGene, len(t.Genes))
		for i, g := range t.Genes {
			ranked[i] = enrich.RankedGene{Gene: g, Score: t.Diff[i]}
		}

		res, err := p.db.GSEA(ranked, p.db.Pathways, opts)
		if err != nil {
			p.logger.Printf("GSEA failed for %s: %v, skipping", v, err)
			continue
		}
		if len(res) == 0 {
			p.logger.Printf("GSEA found nothing for %s", v)
			continue
		}

		bar := plot.EnrichBar(res, fmt.Sprintf("GSEA pathways (%s)", v), p.size)
		if err := p.writeChart(path.Join(dir, "gsea"+v.Suffix()+".html"), bar); err != nil {
			return err
		}
		p.doc.AddPanels(bar)

		// Running sum curve of the strongest hit.
		for _, set := range p.db.Pathways {
			if set.ID != res[0].ID {
				continue
			}
			running := enrich.RunningSum(ranked, set)
			if running == nil {
				break
			}
			curve := plot.GSEACurve(running, res[0].Name, p.size)
			if err := p.writeChart(path.Join(dir, "gsea_curve"+v.Suffix()+".html"), curve); err != nil {
				return err
			}
			p.doc.AddPanels(curve)
			break
		}
	}

	return nil
}

// renderPathviews renders diagrams for every combination with a
// non-empty enrichment result.  Empty or missing bundles are skipped
// silently; render failures are logged per combination and do not
// stop the run.
func (p *Pipeline) renderPathviews(order []comboKey, bundles map[comboKey]*enrich.Bundle, dirName string) {

	dir := p.tree.Dir(dirName)
	for _, key := range order {
		b := bundles[key]
		if b.Empty() {
			continue
		}
		t := p.tables[key.variant]
		n, err := pathview.Render(t, b.Pathway, key.group, key.variant.Suffix(),
			p.config.RenderAllPathways, dir)
		if err != nil {
			perr := &PathwayRenderError{Variant: key.variant, Group: key.group, Err: err}
			p.logger.Printf("%v, skipping", perr)
			continue
		}
		p.logger.Printf("Rendered %d pathway diagrams for %s/%s", n, key.variant, key.group)
	}
}

func (p *Pipeline) twoGroupPathviewStage() error {

	var order []comboKey
	for _, v := range p.variants {
		for _, group := range []string{"GroupA", "GroupB"} {
			order = append(order, comboKey{variant: v, group: group})
		}
	}
	p.renderPathviews(order, p.bundles, DirPathview)

	return nil
}

func (p *Pipeline) nineSquareStage() error {

	dir := p.tree.Dir(DirSquareScatter)
	for _, v := range p.variants {
		t := p.tables[v]

		scale := p.scaleParam(t)
		ctrlCut := score.CutoffCalling(t.Control, scale)
		treatCut := score.CutoffCalling(t.Treatment, scale)
		p.squares[v] = score.NineSquare(t, ctrlCut, treatCut)
		p.logger.Printf("Nine-square cutoffs for %s: ctrl=%.4f treat=%.4f", v, ctrlCut, treatCut)

		sq := plot.NineSquareScatter(t, p.squares[v], "Nine-square selection ("+string(v)+")", p.size)
		if err := p.writeChart(path.Join(dir, "square"+v.Suffix()+".html"), sq); err != nil {
			return err
		}
		p.doc.AddPanels(sq)
	}

	return nil
}

// squareCombos enumerates the nine-square enrichment combinations of
// one run: the four labeled quadrants, then the fixed unions.
func (p *Pipeline) squareCombos() ([]comboKey, map[comboKey][]string) {

	var jobs []comboKey
	genes := make(map[comboKey][]string)
	for _, v := range p.variants {
		sg := p.squares[v]
		for q := 1; q <= 4; q++ {
			key := comboKey{variant: v, group: fmt.Sprintf("Group%d", q)}
			jobs = append(jobs, key)
			genes[key] = sg[q]
		}
		for _, u := range SquareUnions {
			key := comboKey{variant: v, group: u.Name}
			jobs = append(jobs, key)
			genes[key] = sg.Union(u.Quadrants)
		}
	}

	return jobs, genes
}

func (p *Pipeline) nineSquareEnrichStage() error {

	jobs, genes := p.squareCombos()
	p.runCombos(jobs, genes, p.squareBundles)

	dir := p.tree.Dir(DirSquareEnrich)
	for _, key := range jobs {
		if err := p.appendBundlePanels(dir, key.variant, key.group, p.squareBundles[key]); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) nineSquarePathviewStage() error {

	order, _ := p.squareCombos()
	p.renderPathviews(order, p.squareBundles, DirSquarePathview)

	return nil
}

type chartRenderer interface {
	Render(w io.Writer) error
}

// writeChart writes one chart file, wrapping failures as fatal
// filesystem errors.
func (p *Pipeline) writeChart(filename string, c chartRenderer) error {

	if err := plot.WriteChart(filename, c); err != nil {
		return &FileSystemError{Path: filename, Err: err}
	}

	return nil
}

// makeWorkspace creates the per-run workspace directory, keyed by a
// generated unique id.
func makeWorkspace(config *utils.Config) (string, error) {

	xuid, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	ws := path.Join(config.WorkspaceDir, "flute_tmp", xuid.String())
	if err := os.MkdirAll(ws, 0755); err != nil {
		return "", &FileSystemError{Path: ws, Err: err}
	}

	return ws, nil
}

// saveConfig snapshots the resolved configuration into the workspace
// for troubleshooting.
func saveConfig(config *utils.Config, ws string, logger *log.Logger) {

	fid, err := os.Create(path.Join(ws, "config.json"))
	if err != nil {
		logger.Printf("Cannot save config snapshot: %v, continuing anyway", err)
		return
	}
	defer fid.Close()

	enc := json.NewEncoder(fid)
	if err := enc.Encode(config); err != nil {
		logger.Printf("Cannot save config snapshot: %v, continuing anyway", err)
	}
}

// readGeneList reads a plain list of gene ids, one per line.
func readGeneList(filename string) ([]string, error) {

	fid, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	var genes []string
	scanner := bufio.NewScanner(fid)
	for scanner.Scan() {
		g := strings.TrimSpace(scanner.Text())
		if g != "" {
			genes = append(genes, g)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return genes, nil
}
