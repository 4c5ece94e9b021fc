// Package pipeline orchestrates the keymap-diagram reconciliation run.
//
// A run has two passes over the input diagram directory. The first pass
// parses every mappable old diagram and builds the global signature→content
// pool; the second reconciles each diagram against the new keymap and
// writes the result. The pool is complete before any resolution reads it,
// so per-file work in the second pass is independent and order-free.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	summary, err := runner.Run(ctx, pipeline.Options{
//	    OldKeymap: "reference.keymap",
//	    NewKeymap: "config/glove80.keymap",
//	    LayoutsIn: "kle-layouts-reference",
//	    LayoutsOut: "kle_layouts",
//	})
package pipeline

import (
	"fmt"

	"github.com/inonprince/zmk-glorious-lefty/pkg/reconcile"
)

// Options configures a reconciliation run. All four paths are required.
type Options struct {
	// OldKeymap is the reference keymap the input diagrams were drawn for.
	OldKeymap string

	// NewKeymap is the working-copy keymap the output diagrams must track.
	NewKeymap string

	// LayoutsIn is the directory holding the reference KLE JSON files.
	LayoutsIn string

	// LayoutsOut is the directory updated KLE JSON files are written to.
	LayoutsOut string
}

// Validate checks that every required option is set.
func (o *Options) Validate() error {
	switch {
	case o.OldKeymap == "":
		return fmt.Errorf("old keymap path is required")
	case o.NewKeymap == "":
		return fmt.Errorf("new keymap path is required")
	case o.LayoutsIn == "":
		return fmt.Errorf("input layout directory is required")
	case o.LayoutsOut == "":
		return fmt.Errorf("output layout directory is required")
	}
	return nil
}

// FileResult is the outcome of processing one diagram file.
type FileResult struct {
	// Name is the diagram's base filename.
	Name string

	// Layer is the logical layer the file mapped to, if any.
	Layer string

	// Skipped explains why the file produced no output (unknown layer,
	// layer missing from the new keymap). Empty for processed files.
	Skipped string

	// Err is set when the file failed outright (unparseable input). Other
	// files are unaffected.
	Err error

	// Stats and Warnings are populated for successfully processed files.
	Stats    reconcile.Stats
	Warnings []string
}

// Processed reports whether the file produced an output diagram.
func (fr *FileResult) Processed() bool {
	return fr.Skipped == "" && fr.Err == nil
}

// Summary aggregates a whole run.
type Summary struct {
	Files []FileResult

	// PoolSize is the number of distinct signatures recovered into the
	// global pool.
	PoolSize int

	// LayerNamesDiffer is set when the old and new keymaps declare
	// different layer-name sequences.
	LayerNamesDiffer bool
}

// Processed returns how many files produced an output diagram.
func (s *Summary) Processed() int {
	n := 0
	for i := range s.Files {
		if s.Files[i].Processed() {
			n++
		}
	}
	return n
}
