// Package reconcile relocates visual key content between keymap revisions.
//
// Given the old and new logical slots of one layer plus the content
// recovered from the old diagram, the resolver decides, slot by slot, where
// the new diagram's content comes from. Resolution is strictly prioritized:
// content paired in-layer by signature (unchanged or moved) beats the
// cross-file global pool, which beats freshly synthesized labels. Geometry
// never moves; only legend and style do.
//
// Duplicate signatures pair positionally: the i-th old occurrence goes to
// the i-th new occurrence. True intent among duplicates is unrecoverable
// from content alone, so encounter order is the documented policy.
package reconcile

import (
	"sort"

	"github.com/inonprince/zmk-glorious-lefty/pkg/glove80"
	"github.com/inonprince/zmk-glorious-lefty/pkg/keymap"
	"github.com/inonprince/zmk-glorious-lefty/pkg/kle"
)

// Kind classifies how one slot's content was resolved.
type Kind int

const (
	// Unchanged content was paired in-layer at the same index.
	Unchanged Kind = iota
	// Moved content was paired in-layer at a different index.
	Moved
	// FromGlobal content was copied from the cross-file pool.
	FromGlobal
	// Generated content was synthesized from the binding alone.
	Generated
)

// Outcome records the resolution of one slot.
type Outcome struct {
	Kind      Kind
	FromIndex int    // old slot index content moved from (Moved only)
	Source    Source // pool provenance (FromGlobal only)
}

// Stats aggregates per-file outcome counts for the summary report.
type Stats struct {
	Updated      int // keys whose content was (re)written
	Moved        int // in-layer pairings with a different old index
	Reused       int // in-layer pairings, including moves
	FromGlobal   int // slots filled from the global pool
	Generated    int // slots filled by label synthesis
	MissingInKLE int // logical slots with no mapped visual key
}

// Report is the result of reconciling one diagram file.
type Report struct {
	Stats    Stats
	Warnings []string
	Outcomes map[int]Outcome
}

// buildMoveMap pairs old and new slot indices by signature, preserving
// encounter order: for each signature, the i-th old occurrence pairs with
// the i-th new occurrence. Surplus old occurrences are dropped; surplus new
// occurrences stay unpaired and fall through to the global pool.
func buildMoveMap(oldSigs, newSigs []string) map[int]int {
	oldPositions := make(map[string][]int)
	for idx, sig := range oldSigs {
		oldPositions[sig] = append(oldPositions[sig], idx)
	}

	newPositions := make(map[string][]int)
	for idx, sig := range newSigs {
		newPositions[sig] = append(newPositions[sig], idx)
	}

	moveMap := make(map[int]int)
	for sig, newIdxs := range newPositions {
		oldIdxs := oldPositions[sig]
		for i, newIdx := range newIdxs {
			if i >= len(oldIdxs) {
				break
			}
			moveMap[newIdx] = oldIdxs[i]
		}
	}
	return moveMap
}

// UpdateLayout rewrites a diagram's key content to track the new layer.
//
// The layout's keys are mutated in place (label and style only); old slot
// data and the pool are never written. Every mapped slot resolves to exactly
// one outcome in priority order: in-layer pairing, global pool, synthesis.
func UpdateLayout(layout *kle.Layout, oldLayer, newLayer keymap.Layer, pool *Pool, kpLabels map[string]string) *Report {
	indexToKey, warnings := glove80.MapIndices(layout)

	oldSigs := layerSignatures(oldLayer)
	newSigs := layerSignatures(newLayer)
	moveMap := buildMoveMap(oldSigs, newSigs)

	oldContent := make(map[int]Content, len(indexToKey))
	for idx, key := range indexToKey {
		oldContent[idx] = ContentOf(key)
	}

	report := &Report{
		Warnings: warnings,
		Outcomes: make(map[int]Outcome, len(indexToKey)),
	}
	report.Stats.MissingInKLE = glove80.NumKeys - len(indexToKey)

	for _, idx := range sortedIndices(indexToKey) {
		if idx >= len(newLayer.Slots) {
			continue
		}
		key := indexToKey[idx]
		newSlot := newLayer.Slots[idx]

		content, outcome := resolve(idx, newSlot, moveMap, oldContent, pool, kpLabels)

		switch outcome.Kind {
		case Unchanged:
			report.Stats.Reused++
		case Moved:
			report.Stats.Reused++
			report.Stats.Moved++
		case FromGlobal:
			report.Stats.FromGlobal++
		case Generated:
			report.Stats.Generated++
		}

		key.Label = content.Label
		key.Style = cloneStyle(content.Style)

		// A slot whose binding changed from empty to real must not keep the
		// template's ghost flag.
		if !newSlot.IsEmpty() {
			if g, ok := key.Style["g"].(bool); ok && g {
				key.Style["g"] = false
			}
		}

		report.Outcomes[idx] = outcome
		report.Stats.Updated++
	}

	return report
}

// resolve picks content for one slot, trying each source in priority order.
func resolve(idx int, slot keymap.Slot, moveMap map[int]int, oldContent map[int]Content, pool *Pool, kpLabels map[string]string) (Content, Outcome) {
	if srcIdx, ok := moveMap[idx]; ok {
		if content, ok := oldContent[srcIdx]; ok {
			if srcIdx == idx {
				return content, Outcome{Kind: Unchanged}
			}
			return content, Outcome{Kind: Moved, FromIndex: srcIdx}
		}
	}

	if content, src, ok := pool.Lookup(slot.Signature); ok {
		return content, Outcome{Kind: FromGlobal, Source: src}
	}

	// Synthesis starts from the template's own style at this slot, never
	// from style carried over from some other key.
	content := Content{Label: SynthesizeLabel(slot.Tokens, kpLabels)}
	if old, ok := oldContent[idx]; ok {
		content.Style = cloneStyle(old.Style)
	} else {
		content.Style = map[string]any{}
	}
	return content, Outcome{Kind: Generated}
}

func layerSignatures(layer keymap.Layer) []string {
	sigs := make([]string, len(layer.Slots))
	for i, slot := range layer.Slots {
		sigs[i] = slot.Signature
	}
	return sigs
}

func sortedIndices(m map[int]*kle.Key) []int {
	out := make([]int, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
