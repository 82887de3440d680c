// Copyright 2025, Kerby Shedden and the Flute contributors.

package utils

import (
	"fmt"
	"strings"
)

// UnknownOrganismError indicates that a species name or code could
// not be resolved to a canonical organism code.
type UnknownOrganismError struct {
	Name string
}

func (e *UnknownOrganismError) Error() string {
	return fmt.Sprintf("utils: unknown organism %q", e.Name)
}

// organisms maps species names and aliases to canonical three letter
// codes.  The canonical codes map to themselves.
var organisms = map[string]string{
	"hsa":              "hsa",
	"human":            "hsa",
	"homo sapiens":     "hsa",
	"mmu":              "mmu",
	"mouse":            "mmu",
	"mus musculus":     "mmu",
	"rno":              "rno",
	"rat":              "rno",
	"dme":              "dme",
	"fly":              "dme",
	"fruitfly":         "dme",
	"dre":              "dre",
	"zebrafish":        "dre",
	"cel":              "cel",
	"worm":             "cel",
	"sce":              "sce",
	"yeast":            "sce",
	"bovine":           "bta",
	"bta":              "bta",
	"pig":              "ssc",
	"ssc":              "ssc",
	"chicken":          "gga",
	"gga":              "gga",
	"canine":           "cfa",
	"cfa":              "cfa",
	"rhesus":           "mcc",
	"mcc":              "mcc",
	"chimpanzee":       "ptr",
	"ptr":              "ptr",
	"arabidopsis":      "ath",
	"ath":              "ath",
	"escherichia coli": "eco",
	"eco":              "eco",
}

// ResolveOrganism maps a species name or code to the canonical
// organism code used throughout the pipeline.
func ResolveOrganism(name string) (string, error) {

	code, ok := organisms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &UnknownOrganismError{Name: name}
	}

	return code, nil
}
