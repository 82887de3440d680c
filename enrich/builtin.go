// Copyright 2025, Kerby Shedden and the Flute contributors.

package enrich

type builtinSet struct {
	num   string
	name  string
	genes []string
}

// builtinPathways is the default pathway collection used when no GMT
// file is configured.  The numeric ids follow the upstream pathway
// database and are prefixed with the organism code at load time.
var builtinPathways = []builtinSet{
	{"03010", "Ribosome", []string{
		"RPL3", "RPL4", "RPL5", "RPL6", "RPL7", "RPL8", "RPL9", "RPL10A",
		"RPL11", "RPL13", "RPL14", "RPL15", "RPL18", "RPL23", "RPL30",
		"RPS2", "RPS3", "RPS4X", "RPS5", "RPS6", "RPS7", "RPS8", "RPS9",
		"RPS11", "RPS13", "RPS15A", "RPS16", "RPS18", "RPS19", "RPS27A"}},
	{"03040", "Spliceosome", []string{
		"SNRPD1", "SNRPB", "SF3B1", "SF3B2", "SF3A3", "PRPF19", "PRPF31",
		"CDC5L", "U2AF1", "EIF4A3", "DDX41", "HSPA9"}},
	{"03050", "Proteasome", []string{
		"PSMA1", "PSMA3", "PSMB2", "PSMB3", "PSMC2", "PSMC4", "PSMD1"}},
	{"04110", "Cell cycle", []string{
		"CDK1", "CDC20", "PLK1", "AURKB", "PCNA", "ORC6", "ANAPC4",
		"MCM2", "MCM3", "MCM4", "MCM6", "MCM7", "TP53", "RB1", "CCND1",
		"CCNE1", "CDK4", "CDK6", "E2F1", "WEE1", "CHEK1", "CHEK2"}},
	{"03030", "DNA replication", []string{
		"PCNA", "POLA1", "PRIM1", "RPA1", "RPA2", "RRM1",
		"MCM2", "MCM3", "MCM4", "MCM6", "MCM7"}},
	{"03013", "Nucleocytoplasmic transport", []string{
		"RAN", "RANGAP1", "XPO1", "NUP93", "NUP98", "EIF5B"}},
	{"03008", "Ribosome biogenesis", []string{
		"DDX21", "RUVBL1", "RUVBL2", "XPO1", "RAN", "HSPE1"}},
	{"04115", "p53 signaling pathway", []string{
		"TP53", "MDM2", "CDKN1A", "CHEK1", "CHEK2", "CCND1", "CCNE1",
		"BAX", "BBC3", "PMAIP1", "GADD45A"}},
	{"03420", "Nucleotide excision repair", []string{
		"RPA1", "RPA2", "PCNA", "POLA1", "ERCC1", "ERCC2", "XPA", "XPC"}},
	{"04740", "Olfactory transduction", []string{
		"OR1A1", "OR2A25", "OR2T4", "OR4C13", "OR5AC2", "OR6C70",
		"OR8B12", "OR10G9", "OR11H1", "OR13C2", "OR51B6", "OR52N4"}},
	{"04742", "Taste transduction", []string{
		"TAS2R9", "TAS2R13", "TAS2R39", "TAS1R2"}},
	{"04151", "PI3K-Akt signaling pathway", []string{
		"PIK3CA", "PIK3CB", "AKT1", "AKT2", "MTOR", "PTEN", "RICTOR",
		"RPTOR", "TSC1", "TSC2", "RHEB", "FOXO3", "GSK3B", "CCND1"}},
	{"04150", "mTOR signaling pathway", []string{
		"MTOR", "RICTOR", "RPTOR", "TSC1", "TSC2", "RHEB", "AKT1",
		"EIF4EBP1", "RPS6KB1", "ULK1", "DEPTOR"}},
	{"04310", "Wnt signaling pathway", []string{
		"CTNNB1", "APC", "AXIN1", "GSK3B", "TCF7L2", "LRP6", "WNT3A",
		"DVL1", "CSNK1A1"}},
}

// builtinCategories is the default functional category collection, a
// slim set of broad process terms.
var builtinCategories = []builtinSet{
	{"GO:0006412", "translation", []string{
		"RPL3", "RPL4", "RPL5", "RPL6", "RPL7", "RPL8", "RPL9", "RPL10A",
		"RPL11", "RPL13", "RPL14", "RPL15", "RPL18", "RPL23", "RPL30",
		"RPS2", "RPS3", "RPS4X", "RPS5", "RPS6", "RPS7", "RPS8", "RPS9",
		"RPS11", "RPS13", "RPS15A", "RPS16", "RPS18", "RPS19", "RPS27A",
		"EIF3A", "EIF3B", "EIF4A3", "EIF5B", "EEF1A1", "EEF2"}},
	{"GO:0000398", "mRNA splicing", []string{
		"SNRPD1", "SNRPB", "SF3B1", "SF3B2", "SF3A3", "PRPF19",
		"PRPF31", "CDC5L", "U2AF1"}},
	{"GO:0051301", "cell division", []string{
		"CDK1", "CDC20", "PLK1", "AURKB", "KIF11", "ANAPC4", "WEE1",
		"CDK4", "CDK6", "CCND1", "CCNE1"}},
	{"GO:0006260", "DNA replication", []string{
		"PCNA", "POLA1", "PRIM1", "RPA1", "RPA2", "RRM1", "ORC6",
		"MCM2", "MCM3", "MCM4", "MCM6", "MCM7"}},
	{"GO:0006511", "protein catabolic process", []string{
		"PSMA1", "PSMA3", "PSMB2", "PSMB3", "PSMC2", "PSMC4", "PSMD1"}},
	{"GO:0006913", "nucleocytoplasmic transport", []string{
		"RAN", "RANGAP1", "XPO1", "NUP93", "NUP98"}},
	{"GO:0007606", "sensory perception of chemical stimulus", []string{
		"OR1A1", "OR2A25", "OR2T4", "OR4C13", "OR5AC2", "OR6C70",
		"OR8B12", "OR10G9", "OR11H1", "OR13C2", "OR51B6", "OR52N4",
		"TAS2R9", "TAS2R13", "TAS2R39", "TAS1R2"}},
	{"GO:0007010", "cytoskeleton organization", []string{
		"TUBB", "TUBA1B", "ACTB", "ACTR2", "KIF11"}},
	{"GO:0042981", "regulation of apoptotic process", []string{
		"TP53", "BAX", "BBC3", "PMAIP1", "MDM2", "AKT1", "FOXO3"}},
}
