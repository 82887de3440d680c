// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package score holds the gene level beta score table produced by the
// upstream MLE tool, and the derivations made from it: per-condition
// averages, treatment minus control differences, normalized variants
// of the table, selection cutoffs, and gene group splits.

package score

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/snappy"
)

// InputFormatError indicates that the gene summary input is missing a
// required column or contains no usable rows.
type InputFormatError struct {
	Msg string
}

func (e *InputFormatError) Error() string {
	return "score: " + e.Msg
}

// Table is a gene level beta score table.  CtrlBeta and TreatBeta
// hold one value per gene per replicate; Control, Treatment and Diff
// are the derived per-gene summaries, with Diff always equal to
// Treatment minus Control.  A Table is never mutated after it is
// built; normalization returns a new Table.
type Table struct {
	Genes []string

	CtrlNames  []string
	TreatNames []string

	CtrlBeta  [][]float64
	TreatBeta [][]float64

	Control   []float64
	Treatment []float64
	Diff      []float64

	// Duplicates counts input rows that repeated an earlier gene
	// id and replaced it.
	Duplicates int
}

// NewTable builds a derived table from replicate columns.  The outer
// index of ctrlBeta and treatBeta is the gene, matching genes.
func NewTable(genes []string, ctrlNames, treatNames []string, ctrlBeta, treatBeta [][]float64) (*Table, error) {

	if len(genes) == 0 {
		return nil, &InputFormatError{Msg: "no genes in input"}
	}
	if len(ctrlBeta) != len(genes) || len(treatBeta) != len(genes) {
		return nil, &InputFormatError{Msg: "beta columns do not match gene count"}
	}

	t := &Table{
		Genes:      genes,
		CtrlNames:  ctrlNames,
		TreatNames: treatNames,
		CtrlBeta:   ctrlBeta,
		TreatBeta:  treatBeta,
	}
	t.derive()

	return t, nil
}

// derive recomputes the per-gene averages and differences from the
// replicate columns.
func (t *Table) derive() {

	n := len(t.Genes)
	t.Control = make([]float64, n)
	t.Treatment = make([]float64, n)
	t.Diff = make([]float64, n)

	for i := 0; i < n; i++ {
		t.Control[i] = mean(t.CtrlBeta[i])
		t.Treatment[i] = mean(t.TreatBeta[i])
		t.Diff[i] = t.Treatment[i] - t.Control[i]
	}
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

// Index returns the row positions of the given genes, matching
// case-insensitively.  Genes absent from the table are skipped.
func (t *Table) Index(genes []string) []int {

	pos := make(map[string]int, len(t.Genes))
	for i, g := range t.Genes {
		pos[strings.ToUpper(g)] = i
	}

	var ix []int
	for _, g := range genes {
		if i, ok := pos[strings.ToUpper(g)]; ok {
			ix = append(ix, i)
		}
	}
	sort.Ints(ix)

	return ix
}

// clone returns a deep copy of the replicate columns, ready for a
// normalization pass.
func (t *Table) clone() *Table {

	u := &Table{
		Genes:      t.Genes,
		CtrlNames:  t.CtrlNames,
		TreatNames: t.TreatNames,
		CtrlBeta:   make([][]float64, len(t.CtrlBeta)),
		TreatBeta:  make([][]float64, len(t.TreatBeta)),
	}
	for i := range t.CtrlBeta {
		u.CtrlBeta[i] = append([]float64(nil), t.CtrlBeta[i]...)
		u.TreatBeta[i] = append([]float64(nil), t.TreatBeta[i]...)
	}

	return u
}

// ReadGeneSummary reads a tab delimited gene summary file and builds
// the derived table for the named control and treatment columns.
// Files ending in .sz are snappy compressed.
func ReadGeneSummary(filename string, ctrlNames, treatNames []string) (*Table, error) {

	fid, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	var rdr io.Reader = fid
	if strings.HasSuffix(filename, ".sz") {
		rdr = snappy.NewReader(fid)
	}

	return ParseGeneSummary(rdr, ctrlNames, treatNames)
}

// ParseGeneSummary reads a tab delimited gene summary table from rdr.
// The table must contain a Gene column and one beta score column per
// name in ctrlNames and treatNames.
func ParseGeneSummary(rdr io.Reader, ctrlNames, treatNames []string) (*Table, error) {

	if len(ctrlNames) == 0 || len(treatNames) == 0 {
		return nil, &InputFormatError{Msg: "no control or treatment columns requested"}
	}

	cr := csv.NewReader(bufio.NewReader(rdr))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		return nil, &InputFormatError{Msg: fmt.Sprintf("cannot read header: %v", err)}
	}

	col := make(map[string]int)
	for i, name := range head {
		col[strings.TrimSpace(name)] = i
	}

	genecol, ok := col["Gene"]
	if !ok {
		return nil, &InputFormatError{Msg: "missing required column Gene"}
	}

	locate := func(names []string) ([]int, error) {
		var ix []int
		for _, name := range names {
			j, ok := col[name]
			if !ok {
				// The upstream tool tags beta columns as sample|beta.
				j, ok = col[name+"|beta"]
			}
			if !ok {
				return nil, &InputFormatError{Msg: fmt.Sprintf("missing required column %s", name)}
			}
			ix = append(ix, j)
		}
		return ix, nil
	}

	ctrlIx, err := locate(ctrlNames)
	if err != nil {
		return nil, err
	}
	treatIx, err := locate(treatNames)
	if err != nil {
		return nil, err
	}

	var genes []string
	var ctrlBeta, treatBeta [][]float64
	seen := make(map[string]int)
	dups := 0

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputFormatError{Msg: fmt.Sprintf("malformed row: %v", err)}
		}

		if genecol >= len(rec) {
			return nil, &InputFormatError{Msg: fmt.Sprintf("row with %d fields lacks the Gene column", len(rec))}
		}
		gene := strings.TrimSpace(rec[genecol])
		if gene == "" {
			continue
		}

		parse := func(ix []int) ([]float64, error) {
			v := make([]float64, len(ix))
			for k, j := range ix {
				if j >= len(rec) {
					return nil, &InputFormatError{Msg: fmt.Sprintf("row for gene %s is truncated", gene)}
				}
				x, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
				if err != nil {
					return nil, &InputFormatError{Msg: fmt.Sprintf("non-numeric beta for gene %s: %q", gene, rec[j])}
				}
				v[k] = x
			}
			return v, nil
		}

		cv, err := parse(ctrlIx)
		if err != nil {
			return nil, err
		}
		tv, err := parse(treatIx)
		if err != nil {
			return nil, err
		}

		// Duplicated gene ids: the last row wins.
		if i, ok := seen[gene]; ok {
			ctrlBeta[i] = cv
			treatBeta[i] = tv
			dups++
			continue
		}
		seen[gene] = len(genes)
		genes = append(genes, gene)
		ctrlBeta = append(ctrlBeta, cv)
		treatBeta = append(treatBeta, tv)
	}

	t, err := NewTable(genes, ctrlNames, treatNames, ctrlBeta, treatBeta)
	if err != nil {
		return nil, err
	}
	t.Duplicates = dups

	return t, nil
}

// WriteSnappy writes the derived table as a snappy compressed tab
// delimited file, for post hoc inspection of a run.
func (t *Table) WriteSnappy(filename string) error {

	fid, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fid.Close()

	wtr := snappy.NewBufferedWriter(fid)
	defer wtr.Close()

	if _, err := io.WriteString(wtr, "Gene\tControl\tTreatment\tDiff\n"); err != nil {
		return err
	}
	for i, g := range t.Genes {
		line := fmt.Sprintf("%s\t%g\t%g\t%g\n", g, t.Control[i], t.Treatment[i], t.Diff[i])
		if _, err := io.WriteString(wtr, line); err != nil {
			return err
		}
	}

	return nil
}

// checkDiff confirms the Diff identity after a normalization pass.
// It exists to make the invariant testable, not because the identity
// can fail in normal operation.
func (t *Table) checkDiff() bool {

	for i := range t.Genes {
		if math.Abs(t.Diff[i]-(t.Treatment[i]-t.Control[i])) > 1e-12 {
			return false
		}
	}

	return true
}
