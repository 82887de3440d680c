// Copyright 2025, Kerby Shedden and the Flute contributors.

package flute

import "fmt"

// FileSystemError indicates a directory or file write failure.
// Fatal: a silently partial report is worse than aborting.
type FileSystemError struct {
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("flute: filesystem failure at %s: %v", e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// PathwayRenderError indicates that diagram rendering failed for one
// (variant, group) combination.  Recoverable: the combination's
// diagrams are absent and the run continues.
type PathwayRenderError struct {
	Variant Variant
	Group   string
	Err     error
}

func (e *PathwayRenderError) Error() string {
	return fmt.Sprintf("flute: pathway rendering failed for %s/%s: %v", e.Variant, e.Group, e.Err)
}

func (e *PathwayRenderError) Unwrap() error {
	return e.Err
}
