// Copyright 2025, Kerby Shedden and the Flute contributors.

package flute

import "github.com/kshedden/flute/score"

// Variant identifies one normalization variant of the beta score
// table.  Every analysis stage runs once per active variant, writing
// method-tagged files, and variants never read each other's outputs.
type Variant string

const (
	VariantNegative  Variant = "negative"
	VariantCellCycle Variant = "cell_cycle"
	VariantLoess     Variant = "loess"
)

// Suffix is the file name tag of the variant's artifacts.
func (v Variant) Suffix() string {

	switch v {
	case VariantNegative:
		return "_negative_normalized"
	case VariantCellCycle:
		return "_essential_normalized"
	case VariantLoess:
		return "_loess_normalized"
	}

	return "_" + string(v)
}

// Method is the score normalization method backing the variant.
func (v Variant) Method() score.Method {

	switch v {
	case VariantNegative:
		return score.Negative
	case VariantCellCycle:
		return score.CellCycle
	case VariantLoess:
		return score.Loess
	}

	return score.Method(v)
}

// activeVariants returns the variants of a run: the two standard
// variants, plus loess when enabled.
func activeVariants(loess bool) []Variant {

	vs := []Variant{VariantNegative, VariantCellCycle}
	if loess {
		vs = append(vs, VariantLoess)
	}

	return vs
}

// SquareUnion is one named union of nine-square quadrant groups.
type SquareUnion struct {
	Name      string
	Quadrants []int
}

// SquareUnions is the fixed enumeration of quadrant subsets that are
// enriched in addition to the four individual quadrants.
var SquareUnions = []SquareUnion{
	{Name: "Group13", Quadrants: []int{1, 3}},
	{Name: "Group14", Quadrants: []int{1, 4}},
	{Name: "Group23", Quadrants: []int{2, 3}},
	{Name: "Group24", Quadrants: []int{2, 4}},
	{Name: "Group1234", Quadrants: []int{1, 2, 3, 4}},
}
