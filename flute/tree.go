// Copyright 2025, Kerby Shedden and the Flute contributors.

package flute

import (
	"os"
	"path"
)

// Names of the stage subdirectories under the results root.  The
// Pathview directories are created lazily, on the first successfully
// rendered diagram; everything else exists from pipeline start.
const (
	DirDistribution   = "Distribution_of_BetaScores"
	DirMA             = "MAplot"
	DirLinear         = "Linear_Fitting_of_BetaScores"
	DirScatter        = "Scatter_Treat_Ctrl"
	DirEnrich         = "Enrichment_Treat-Ctrl"
	DirPathview       = "Pathview_Treat_Ctrl"
	DirSquareScatter  = "Scatter_9Square"
	DirSquareEnrich   = "Enrichment_9Square"
	DirSquarePathview = "Pathview_9Square"
)

var setupDirs = []string{
	DirDistribution,
	DirMA,
	DirLinear,
	DirScatter,
	DirEnrich,
	DirSquareScatter,
	DirSquareEnrich,
}

// ArtifactTree is the output directory layout of one run.
type ArtifactTree struct {
	// Root is the {prefix}_Flute_Results directory.
	Root string

	// ReportPath is the combined report document.
	ReportPath string

	// Workspace holds the run log and the derived score tables;
	// removed after the run unless the configuration keeps it.
	Workspace string
}

// newArtifactTree creates the results root and the stage
// subdirectories.  Directory creation is idempotent; pre-existing
// directories are not errors.
func newArtifactTree(prefix string) (*ArtifactTree, error) {

	root := prefix + "_Flute_Results"
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, &FileSystemError{Path: root, Err: err}
	}
	for _, d := range setupDirs {
		p := path.Join(root, d)
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, &FileSystemError{Path: p, Err: err}
		}
	}

	return &ArtifactTree{
		Root:       root,
		ReportPath: path.Join(root, path.Base(prefix)+"_Flute.mle_summary.html"),
	}, nil
}

// Dir returns the absolute path of a named stage subdirectory.
func (at *ArtifactTree) Dir(name string) string {
	return path.Join(at.Root, name)
}
