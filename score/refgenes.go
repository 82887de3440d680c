// Copyright 2025, Kerby Shedden and the Flute contributors.

package score

// CoreEssentialGenes is the built-in core essential reference list
// (human symbols), used by the cell cycle normalization and by the
// essential-subset panels of the distribution and linear fit stages.
// Matching against a table is case insensitive, which also covers the
// mouse orthologs of these symbols.
var CoreEssentialGenes = []string{
	"RPL3", "RPL4", "RPL5", "RPL6", "RPL7", "RPL8", "RPL9", "RPL10A",
	"RPL11", "RPL13", "RPL14", "RPL15", "RPL18", "RPL23", "RPL30",
	"RPS2", "RPS3", "RPS4X", "RPS5", "RPS6", "RPS7", "RPS8", "RPS9",
	"RPS11", "RPS13", "RPS15A", "RPS16", "RPS18", "RPS19", "RPS27A",
	"POLR2A", "POLR2B", "POLR2D", "POLR2L", "POLR1B",
	"PSMA1", "PSMA3", "PSMB2", "PSMB3", "PSMC2", "PSMC4", "PSMD1",
	"EIF3A", "EIF3B", "EIF4A3", "EIF5B", "EEF1A1", "EEF2",
	"SNRPD1", "SNRPB", "SF3B1", "SF3B2", "SF3A3", "PRPF19", "PRPF31",
	"CDC5L", "CDC20", "CDK1", "CDK9", "PLK1", "AURKB", "KIF11",
	"RAN", "RANGAP1", "XPO1", "NUP93", "NUP98",
	"U2AF1", "HSPA9", "HSPE1", "RUVBL1", "RUVBL2",
	"TUBB", "TUBA1B", "ACTB", "ACTR2", "ANAPC4", "COPB1", "COPZ1",
	"ARCN1", "DDX21", "DDX41", "RRM1", "PCNA", "POLA1", "PRIM1",
	"RPA1", "RPA2", "MCM2", "MCM3", "MCM4", "MCM6", "MCM7", "ORC6",
}

// NonessentialGenes is the built-in negative control reference list
// (human symbols), used for median centering when no negative control
// list is supplied in the run configuration.
var NonessentialGenes = []string{
	"OR1A1", "OR2A25", "OR2T4", "OR4C13", "OR5AC2", "OR6C70",
	"OR8B12", "OR10G9", "OR11H1", "OR13C2", "OR51B6", "OR52N4",
	"TAS2R9", "TAS2R13", "TAS2R39", "TAS1R2",
	"KRTAP4-8", "KRTAP9-4", "KRTAP10-1", "KRTAP12-2", "KRT33A",
	"DEFB119", "DEFB127", "DEFB132",
	"GJA8", "GJB4", "CRYGB", "CRYGC",
	"MAGEB2", "MAGEC3", "PAGE2", "XAGE2", "SPANXN2",
	"PRAMEF4", "PRAMEF12", "TRIM48", "TRIM60",
	"CSN2", "CSN3", "LALBA", "PRB1", "PRB4", "SMR3A",
}
