// Copyright 2025, Kerby Shedden and the Flute contributors.

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {

	// The name of the gene summary file produced by the upstream
	// MLE tool.  A tab delimited file with a Gene column and one
	// beta score column per sample.  Files ending in .sz are
	// snappy compressed.
	GeneSummaryFile string

	// The names of the control beta score columns, in order.
	CtrlNames []string

	// The names of the treatment beta score columns, in order.
	TreatNames []string

	// The species of the screen, either a common name (e.g.
	// "human") or a canonical code (e.g. "hsa").
	Organism string

	// All output file and directory names begin with this prefix.
	OutputPrefix string

	// The number of top ranked genes labeled in the rank plots.
	Top int

	// The number of bottom ranked genes labeled in the rank
	// plots.
	Bottom int

	// Genes that are always labeled in the scatter and rank
	// plots, regardless of rank.
	InterestGenes []string

	// Enrichment results with adjusted p-values above this cutoff
	// are dropped.
	PvalueCutoff float64

	// The multiple testing adjustment applied to enrichment
	// p-values.  One of holm, hochberg, hommel, bonferroni, BH,
	// BY, fdr, none.
	AdjustMethod string

	// The enrichment test to run.  One of ORT, GSEA, DAVID,
	// GOstats, HGT, or the corresponding number 1-5.  DAVID and
	// GOstats are accepted for compatibility and fall back to
	// ORT.
	EnrichMethod string

	// If true, gene set enrichment analysis is run in addition to
	// the over-representation tests.
	GseaEnabled bool

	// An optional file containing known positive control genes,
	// one per line.
	PosControlFile string

	// Known positive control genes given directly in the
	// configuration.  Merged with the contents of PosControlFile.
	PosControlGenes []string

	// Multiplier applied to the cutoff called from each variant's
	// score distribution.
	ScaleCutoff float64

	// If true, the cutoff multiplier is derived from the number
	// of genes in the input rather than taken from ScaleCutoff.
	AutoScale bool

	// If true, the loess normalization variant is derived,
	// plotted, and enriched alongside the two standard variants.
	LoessEnabled bool

	// If true, pathway diagrams are rendered for every enriched
	// pathway rather than only the top hits.
	RenderAllPathways bool

	// An optional GMT file of gene sets used in place of the
	// built-in pathway collection.
	GeneSetFile string

	// The directory under which the per-run workspace is created.
	// Defaults to the current directory.
	WorkspaceDir string

	// The number of enrichment calls run concurrently.  Zero
	// means run everything sequentially.
	MaxEnrichProcs int

	// If true, the per-run workspace holding logs and derived
	// tables is not removed on completion.
	NoCleanTmp bool
}

// ReadConfig reads configuration parameters from a JSON or TOML file,
// selected by the file extension.
func ReadConfig(filename string) (*Config, error) {

	config := new(Config)

	if strings.HasSuffix(filename, ".toml") {
		if _, err := toml.DecodeFile(filename, config); err != nil {
			return nil, fmt.Errorf("utils: cannot read config %s: %v", filename, err)
		}
		return config, nil
	}

	fid, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fid.Close()
	dec := json.NewDecoder(fid)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("utils: cannot read config %s: %v", filename, err)
	}

	return config, nil
}

// CheckConfig fills in defaulted fields and returns a message
// describing the first fatal problem with the configuration, or an
// empty string if the configuration is usable.
func CheckConfig(config *Config) string {

	if config.GeneSummaryFile == "" {
		return "GeneSummaryFile not provided, run 'flute --help' for more information."
	}
	if len(config.CtrlNames) == 0 {
		return "CtrlNames not provided, run 'flute --help' for more information."
	}
	if len(config.TreatNames) == 0 {
		return "TreatNames not provided, run 'flute --help' for more information."
	}
	if config.Organism == "" {
		config.Organism = "hsa"
	}
	if config.OutputPrefix == "" {
		config.OutputPrefix = "flute"
	}
	if config.Top == 0 {
		config.Top = 10
	}
	if config.Bottom == 0 {
		config.Bottom = 10
	}
	if config.PvalueCutoff == 0 {
		config.PvalueCutoff = 0.05
	}
	if config.AdjustMethod == "" {
		config.AdjustMethod = "BH"
	}
	if config.EnrichMethod == "" {
		config.EnrichMethod = "ORT"
	}
	if config.ScaleCutoff == 0 && !config.AutoScale {
		config.ScaleCutoff = 1
	}
	if config.WorkspaceDir == "" {
		config.WorkspaceDir = "."
	}

	return ""
}
