package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/inonprince/zmk-glorious-lefty/pkg/errors"
	"github.com/inonprince/zmk-glorious-lefty/pkg/glove80"
	"github.com/inonprince/zmk-glorious-lefty/pkg/keymap"
	"github.com/inonprince/zmk-glorious-lefty/pkg/kle"
	"github.com/inonprince/zmk-glorious-lefty/pkg/reconcile"
)

// Runner executes reconciliation runs. It is stateless apart from its
// logger; the same Runner can serve multiple runs with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes the full reconciliation: load both keymaps, build the global
// pool from every mappable old diagram, then reconcile and write each
// diagram. Per-file failures are recorded in the summary and do not abort
// the run; only missing inputs or an unwritable output directory do.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}

	oldMap, err := keymap.Load(opts.OldKeymap)
	if err != nil {
		return nil, err
	}
	newMap, err := keymap.Load(opts.NewKeymap)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	oldNames := oldMap.LayerNames()
	if !slices.Equal(oldNames, newMap.LayerNames()) {
		summary.LayerNamesDiffer = true
		r.Logger.Warn("layer names differ between old and new keymaps")
	}

	files, err := layoutFiles(opts.LayoutsIn)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.LayoutsOut, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating %s", opts.LayoutsOut)
	}

	pool := r.buildPool(files, oldMap)
	summary.PoolSize = pool.Len()
	kpLabels := pool.KeycodeLabels()
	r.Logger.Debug("built global content pool", "signatures", pool.Len())

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Files = append(summary.Files, r.processFile(path, opts.LayoutsOut, oldMap, newMap, pool, kpLabels))
	}

	return summary, nil
}

// buildPool runs the first pass: recover signature→content pairs from every
// old diagram that maps to a layer of the old keymap. The pool must be
// complete before any file is reconciled; this is the run's only barrier.
func (r *Runner) buildPool(files []string, oldMap *keymap.Keymap) *reconcile.Pool {
	pool := reconcile.NewPool()
	oldNames := oldMap.LayerNames()

	for _, path := range files {
		name := keymap.LayerFromFilename(stem(path), oldNames)
		layer, ok := oldMap.Layer(name)
		if !ok {
			continue
		}

		layout, err := parseFile(path)
		if err != nil {
			// Reported during the second pass; the pool just goes without
			// this file's content.
			r.Logger.Debug("pool pass skipping unparseable file", "file", filepath.Base(path), "err", err)
			continue
		}

		indexToKey, _ := glove80.MapIndices(layout)
		for _, idx := range sortedKeys(indexToKey) {
			if idx >= len(layer.Slots) {
				continue
			}
			slot := layer.Slots[idx]
			pool.Add(slot.Signature, slot.Tokens, reconcile.ContentOf(indexToKey[idx]), reconcile.Source{
				File: filepath.Base(path),
				Slot: idx,
			})
		}
	}

	return pool
}

// processFile reconciles one diagram and writes the result.
func (r *Runner) processFile(path, outDir string, oldMap, newMap *keymap.Keymap, pool *reconcile.Pool, kpLabels map[string]string) FileResult {
	result := FileResult{Name: filepath.Base(path)}

	layerName := keymap.LayerFromFilename(stem(path), oldMap.LayerNames())
	oldLayer, ok := oldMap.Layer(layerName)
	if !ok {
		result.Skipped = "unknown layer"
		return result
	}
	result.Layer = layerName

	newLayer, ok := newMap.Layer(layerName)
	if !ok {
		result.Skipped = "layer missing in new keymap"
		return result
	}

	layout, err := parseFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	report := reconcile.UpdateLayout(layout, oldLayer, newLayer, pool, kpLabels)
	result.Stats = report.Stats
	result.Warnings = report.Warnings

	data, err := kle.Marshal(layout)
	if err != nil {
		result.Err = errors.Wrap(errors.ErrCodeInternal, err, "serializing %s", result.Name)
		return result
	}
	outPath := filepath.Join(outDir, result.Name)
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		result.Err = errors.Wrap(errors.ErrCodeInternal, err, "writing %s", outPath)
		return result
	}

	return result
}

func parseFile(path string) (*kle.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	layout, err := kle.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return layout, nil
}

// layoutFiles lists the KLE JSON files in dir, sorted by name so runs are
// deterministic.
func layoutFiles(dir string) ([]string, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeDirNotFound, "layout directory %s not found", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "listing %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortedKeys(m map[int]*kle.Key) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
