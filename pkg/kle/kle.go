// Package kle implements parsing and serialization of keyboard-layout-editor
// (KLE) JSON exports.
//
// A KLE document is a JSON array whose elements are either metadata (any
// non-array value, e.g. the board-name object) or a row: an array mixing
// property objects and legend strings. Property objects mutate an implicit
// cursor — position deltas, key size, rotation, and style — and each legend
// string emits one key snapshotting the cursor at that moment.
//
// Style properties fall into two classes. Most persist until explicitly
// overwritten; a small fixed set applies to a single key only and reverts
// afterwards (see oneShotProps). The parser resolves all of this into
// absolute per-key state so that downstream code never has to reason about
// cursor carryover, and the serializer re-derives deltas fresh so keys can
// be restyled or their content swapped without corrupting neighbors.
package kle

// oneShotProps are KLE style properties that apply to a single key only and
// must not persist across keys. `d` (decal) and `n` (nub) are the known
// culprits that leak visibly when carried over; `l` and `i` behave the same.
var oneShotProps = map[string]bool{
	"d": true,
	"n": true,
	"l": true,
	"i": true,
}

// Key is one rendered key with fully resolved absolute geometry and the
// complete style in effect when its legend was emitted.
type Key struct {
	Label string

	// Absolute position and size in key units.
	X, Y float64
	W, H float64

	// Rotation in degrees around the rotation origin (RX, RY).
	R, RX, RY float64

	// Secondary rectangle for non-rectangular keys (e.g. ISO enter).
	X2, Y2 float64
	W2, H2 float64

	// Style holds every style property active for this key, persistent and
	// one-shot alike.
	Style map[string]any
}

// Element is one top-level entry of a layout document, preserving the
// original ordering of metadata relative to rows.
type Element struct {
	// Meta holds a metadata element verbatim. Nil for row elements.
	Meta any

	// Row indexes into Layout.Rows when Meta is nil.
	Row int
}

// Layout is a parsed KLE document.
type Layout struct {
	Rows     [][]*Key
	Elements []Element
}

// Keys returns every key in document order.
func (l *Layout) Keys() []*Key {
	var keys []*Key
	for _, row := range l.Rows {
		keys = append(keys, row...)
	}
	return keys
}
