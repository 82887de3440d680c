// Copyright 2025, Kerby Shedden and the Flute contributors.

// Flute is the downstream analysis and reporting pipeline for CRISPR
// screen results produced by a gene essentiality MLE tool.  Given a
// gene level summary table of beta scores under control and
// treatment conditions, Flute normalizes the scores, visualizes the
// score distributions, identifies differentially selected genes,
// runs pathway and functional category enrichment, and renders a
// combined multi-page report with plots and pathway diagrams.
//
// Flute can be invoked either using a configuration file in JSON or
// TOML format, or using command-line flags.  A typical invocation
// using flags is:
//
// flute --GeneSummaryFile=gene_summary.txt --CtrlNames=day0_r1,day0_r2
//    --TreatNames=day21_r1,day21_r2 --Organism=human --OutputPrefix=demo
//
// To use a configuration file, create a file with the flag
// information, e.g.
//
//	{"GeneSummaryFile": "gene_summary.txt", "Organism": "hsa", ...}
//
// and provide its path when invoking Flute:
//
// flute --ConfigFileName=config.json
//
// See utils/config.go for the full set of configuration parameters.
//
// Results are written under {prefix}_Flute_Results, with the
// combined report in {prefix}_Flute.mle_summary.html.  Derived
// tables and logs go into a per-run workspace directory that is
// removed after a successful run unless --NoCleanTmp is given.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/profile"

	"github.com/kshedden/flute/flute"
	"github.com/kshedden/flute/utils"
)

var (
	config *utils.Config
)

func handleArgs() bool {

	ConfigFileName := flag.String("ConfigFileName", "", "JSON or TOML file containing configuration parameters")
	GeneSummaryFile := flag.String("GeneSummaryFile", "", "Gene summary file from the upstream MLE tool")
	CtrlNames := flag.String("CtrlNames", "", "Comma separated control beta score column names")
	TreatNames := flag.String("TreatNames", "", "Comma separated treatment beta score column names")
	Organism := flag.String("Organism", "", "Species name or code (e.g. 'human' or 'hsa')")
	OutputPrefix := flag.String("OutputPrefix", "", "Prefix for all output files and directories")
	Top := flag.Int("Top", 0, "Number of top ranked genes labeled in rank plots")
	Bottom := flag.Int("Bottom", 0, "Number of bottom ranked genes labeled in rank plots")
	InterestGenes := flag.String("InterestGenes", "", "Comma separated genes always labeled in plots")
	PvalueCutoff := flag.Float64("PvalueCutoff", 0, "Adjusted p-value cutoff for enrichment results")
	AdjustMethod := flag.String("AdjustMethod", "", "Multiple testing adjustment (holm, hochberg, hommel, bonferroni, BH, BY, fdr, none)")
	EnrichMethod := flag.String("EnrichMethod", "", "Enrichment test (ORT, GSEA, DAVID, GOstats, HGT, or 1-5)")
	GseaEnabled := flag.Bool("GseaEnabled", false, "Also run gene set enrichment analysis")
	PosControlFile := flag.String("PosControlFile", "", "File of known positive control genes, one per line")
	PosControlGenes := flag.String("PosControlGenes", "", "Comma separated known positive control genes")
	ScaleCutoff := flag.Float64("ScaleCutoff", 0, "Multiplier applied to the called selection cutoff")
	AutoScale := flag.Bool("AutoScale", false, "Derive the cutoff multiplier from the gene count")
	LoessEnabled := flag.Bool("LoessEnabled", false, "Also derive and analyze the loess normalization variant")
	RenderAllPathways := flag.Bool("RenderAllPathways", false, "Render diagrams for all enriched pathways, not only top hits")
	GeneSetFile := flag.String("GeneSetFile", "", "GMT file of gene sets replacing the built-in pathway collection")
	WorkspaceDir := flag.String("WorkspaceDir", "", "Directory for the per-run workspace")
	MaxEnrichProcs := flag.Int("MaxEnrichProcs", 0, "Number of enrichment calls run concurrently")
	NoCleanTmp := flag.Bool("NoCleanTmp", false, "Do not delete the per-run workspace on completion")
	Profile := flag.Bool("Profile", false, "Write a CPU profile for this run")

	flag.Parse()

	if *ConfigFileName != "" {
		var err error
		config, err = utils.ReadConfig(*ConfigFileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	} else {
		config = new(utils.Config)
	}

	if *GeneSummaryFile != "" {
		config.GeneSummaryFile = *GeneSummaryFile
	}
	if *CtrlNames != "" {
		config.CtrlNames = splitNames(*CtrlNames)
	}
	if *TreatNames != "" {
		config.TreatNames = splitNames(*TreatNames)
	}
	if *Organism != "" {
		config.Organism = *Organism
	}
	if *OutputPrefix != "" {
		config.OutputPrefix = *OutputPrefix
	}
	if *Top != 0 {
		config.Top = *Top
	}
	if *Bottom != 0 {
		config.Bottom = *Bottom
	}
	if *InterestGenes != "" {
		config.InterestGenes = splitNames(*InterestGenes)
	}
	if *PvalueCutoff != 0 {
		config.PvalueCutoff = *PvalueCutoff
	}
	if *AdjustMethod != "" {
		config.AdjustMethod = *AdjustMethod
	}
	if *EnrichMethod != "" {
		config.EnrichMethod = *EnrichMethod
	}
	if *GseaEnabled {
		config.GseaEnabled = true
	}
	if *PosControlFile != "" {
		config.PosControlFile = *PosControlFile
	}
	if *PosControlGenes != "" {
		config.PosControlGenes = splitNames(*PosControlGenes)
	}
	if *ScaleCutoff != 0 {
		config.ScaleCutoff = *ScaleCutoff
	}
	if *AutoScale {
		config.AutoScale = true
	}
	if *LoessEnabled {
		config.LoessEnabled = true
	}
	if *RenderAllPathways {
		config.RenderAllPathways = true
	}
	if *GeneSetFile != "" {
		config.GeneSetFile = *GeneSetFile
	}
	if *WorkspaceDir != "" {
		config.WorkspaceDir = *WorkspaceDir
	}
	if *MaxEnrichProcs != 0 {
		config.MaxEnrichProcs = *MaxEnrichProcs
	}
	if *NoCleanTmp {
		config.NoCleanTmp = true
	}

	return *Profile
}

func splitNames(s string) []string {

	var names []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			names = append(names, tok)
		}
	}

	return names
}

func main() {

	prof := handleArgs()

	if msg := utils.CheckConfig(config); msg != "" {
		os.Stderr.WriteString(msg + "\n\n")
		os.Exit(1)
	}

	if prof {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := flute.Run(ctx, config, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flute: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Results in %s\n", tree.Root)
	fmt.Printf("Report at %s\n", tree.ReportPath)
}
