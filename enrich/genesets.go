// Copyright 2025, Kerby Shedden and the Flute contributors.

// Package enrich runs pathway and functional category enrichment
// tests on gene groups selected by the pipeline: hypergeometric
// over-representation tests, rank based gene set enrichment, and the
// standard multiple testing adjustments.

package enrich

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/willf/bloom"
)

// GeneSet is one named collection of genes, either a pathway or a
// functional category.
type GeneSet struct {
	ID    string
	Name  string
	Genes []string
}

// Database holds the gene set collections for one organism, plus a
// Bloom filter sketch of every gene id appearing in any set.  Input
// genes outside the sketch cannot contribute to any test and are
// dropped before testing.
type Database struct {
	Organism   string
	Pathways   []GeneSet
	Categories []GeneSet

	sketch   *bloom.BloomFilter
	universe int
}

// LoadGMT reads gene sets from a GMT file: one set per line, tab
// separated, set id, description, then genes.
func LoadGMT(filename string) ([]GeneSet, error) {

	fid, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	var sets []GeneSet
	scanner := bufio.NewScanner(fid)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("enrich: malformed GMT line: %q", line)
		}
		genes := make([]string, 0, len(fields)-2)
		for _, g := range fields[2:] {
			g = strings.TrimSpace(g)
			if g != "" {
				genes = append(genes, strings.ToUpper(g))
			}
		}
		sets = append(sets, GeneSet{ID: fields[0], Name: fields[1], Genes: genes})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

// NewDatabase builds a database from explicit pathway and category
// collections.
func NewDatabase(organism string, pathways, categories []GeneSet) *Database {

	db := &Database{
		Organism:   organism,
		Pathways:   pathways,
		Categories: categories,
	}
	db.buildSketch()

	return db
}

// DefaultDatabase returns the built-in gene set collections, with
// pathway ids prefixed by the organism code.
func DefaultDatabase(organism string) *Database {

	var pathways []GeneSet
	for _, p := range builtinPathways {
		pathways = append(pathways, GeneSet{
			ID:    organism + p.num,
			Name:  p.name,
			Genes: p.genes,
		})
	}

	var categories []GeneSet
	for _, c := range builtinCategories {
		categories = append(categories, GeneSet{ID: c.num, Name: c.name, Genes: c.genes})
	}

	return NewDatabase(organism, pathways, categories)
}

func (db *Database) buildSketch() {

	seen := make(map[string]bool)
	for _, coll := range [][]GeneSet{db.Pathways, db.Categories} {
		for _, s := range coll {
			for _, g := range s.Genes {
				seen[strings.ToUpper(g)] = true
			}
		}
	}

	n := uint(len(seen))
	if n < 64 {
		n = 64
	}
	db.sketch = bloom.NewWithEstimates(n, 0.001)
	for g := range seen {
		db.sketch.Add([]byte(g))
	}
	db.universe = len(seen)
}

// UniverseSize is the number of distinct genes appearing in any set.
func (db *Database) UniverseSize() int {
	return db.universe
}

// ScreenGenes drops input genes that appear in no gene set, using the
// Bloom sketch.  The sketch can pass a rare stray gene, which then
// simply fails to overlap any set; it can never drop a covered gene.
func (db *Database) ScreenGenes(genes []string) []string {

	var kept []string
	for _, g := range genes {
		if db.sketch.Test([]byte(strings.ToUpper(g))) {
			kept = append(kept, g)
		}
	}

	return kept
}
