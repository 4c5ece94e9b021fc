package kle

import (
	"encoding/json"

	"github.com/inonprince/zmk-glorious-lefty/pkg/errors"
)

// cursor is the parse-time state machine. It is threaded through the row
// loop as a value owned by Parse; each row starts from the previous row's
// explicit end state, never from package-level state.
type cursor struct {
	x, y           float64
	w, h           float64
	x2, y2, w2, h2 float64
	r, rx, ry      float64
	style          map[string]any
	oneShot        map[string]any
}

func newCursor() *cursor {
	return &cursor{
		w: 1, h: 1, w2: 1, h2: 1,
		style:   map[string]any{},
		oneShot: map[string]any{},
	}
}

// resetKeySize reverts the per-key geometry fields to their defaults after a
// key is emitted. Position and rotation are not touched.
func (c *cursor) resetKeySize() {
	c.w, c.h = 1, 1
	c.x2, c.y2, c.w2, c.h2 = 0, 0, 1, 1
}

func (c *cursor) resetOneShot() {
	c.oneShot = map[string]any{}
}

// geometryProps are the property names consumed as geometry rather than
// style.
var geometryProps = map[string]bool{
	"x": true, "y": true, "w": true, "h": true,
	"x2": true, "y2": true, "w2": true, "h2": true,
	"r": true, "rx": true, "ry": true,
}

// Parse decodes raw KLE JSON into a Layout.
//
// Structurally invalid input (not a JSON array, or a row entry that is
// neither a property object nor a legend string) is fatal for the document.
func Parse(data []byte) (*Layout, error) {
	var doc []any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout is not valid JSON")
	}

	layout := &Layout{}
	state := newCursor()
	firstRow := true

	for _, elem := range doc {
		raw, ok := elem.([]any)
		if !ok {
			layout.Elements = append(layout.Elements, Element{Meta: elem})
			continue
		}

		layout.Elements = append(layout.Elements, Element{Row: len(layout.Rows)})

		state.x = 0
		if firstRow {
			state.y = 0
			firstRow = false
		} else {
			state.y++
		}

		row, err := parseRow(raw, state)
		if err != nil {
			return nil, err
		}
		layout.Rows = append(layout.Rows, row)
	}

	return layout, nil
}

// parseRow consumes one row, mutating state as it goes. A row with only
// property objects yields no keys but still leaves its trailing state for
// the next row.
func parseRow(raw []any, state *cursor) ([]*Key, error) {
	var row []*Key

	for _, item := range raw {
		switch v := item.(type) {
		case map[string]any:
			applyProps(v, state)
		case string:
			row = append(row, emitKey(v, state))
		default:
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"row entry must be an object or string, got %T", item)
		}
	}

	return row, nil
}

// applyProps folds one property object into the cursor.
func applyProps(props map[string]any, state *cursor) {
	if hasAny(props, "r", "rx", "ry") {
		if v, ok := num(props["r"]); ok {
			state.r = v
		}
		if v, ok := num(props["rx"]); ok {
			state.rx = v
		}
		if v, ok := num(props["ry"]); ok {
			state.ry = v
		}
		// Rotation resets the cursor to the rotation origin.
		state.x = state.rx
		state.y = state.ry
	}

	if v, ok := num(props["x"]); ok {
		state.x += v
	}
	if v, ok := num(props["y"]); ok {
		state.y += v
	}
	if v, ok := num(props["w"]); ok {
		state.w = v
	}
	if v, ok := num(props["h"]); ok {
		state.h = v
	}
	if v, ok := num(props["x2"]); ok {
		state.x2 = v
	}
	if v, ok := num(props["y2"]); ok {
		state.y2 = v
	}
	if v, ok := num(props["w2"]); ok {
		state.w2 = v
	}
	if v, ok := num(props["h2"]); ok {
		state.h2 = v
	}

	for name, value := range props {
		if geometryProps[name] {
			continue
		}
		if oneShotProps[name] {
			state.oneShot[name] = value
		} else {
			state.style[name] = value
		}
	}

	// In KLE, setting `f` resets the per-label font array `fa`.
	if _, hasF := props["f"]; hasF {
		if _, hasFA := props["fa"]; !hasFA {
			delete(state.style, "fa")
		}
	}
}

// emitKey snapshots the cursor into a Key, then advances it past the key.
// The empty string is a real legend occupying a slot, not a placeholder.
func emitKey(label string, state *cursor) *Key {
	style := make(map[string]any, len(state.style)+len(state.oneShot))
	for k, v := range state.style {
		style[k] = v
	}
	for k, v := range state.oneShot {
		style[k] = v
	}

	key := &Key{
		Label: label,
		X:     state.x, Y: state.y,
		W: state.w, H: state.h,
		R: state.r, RX: state.rx, RY: state.ry,
		X2: state.x2, Y2: state.y2,
		W2: state.w2, H2: state.h2,
		Style: style,
	}

	state.x += state.w
	state.resetKeySize()
	state.resetOneShot()
	return key
}

func hasAny(props map[string]any, names ...string) bool {
	for _, name := range names {
		if _, ok := props[name]; ok {
			return true
		}
	}
	return false
}

// num extracts a numeric property value. KLE files generated by hand may
// carry integers or floats; encoding/json gives us float64 for both.
func num(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
