package kle

import (
	"encoding/json"
	"math"
)

// eps is the tolerance for treating re-derived geometry deltas as zero.
const eps = 1e-6

func nearZero(v float64) bool { return math.Abs(v) < eps }

// Serialize converts a Layout back into the raw KLE structure.
//
// Deltas are computed fresh from each key's absolute geometry rather than
// replayed from parse-time state: reconciliation may have moved content
// between keys, and every key carries its full explicit style, so the output
// never depends on what a reader's cursor happens to hold. Metadata elements
// are emitted verbatim in their original positions.
//
// Re-parsing the output yields the same keys (legend, absolute geometry,
// style) as the input, though the literal delta encoding may differ from the
// original author's.
func Serialize(layout *Layout) []any {
	output := make([]any, 0, len(layout.Elements))

	var state struct {
		x, y      float64
		r, rx, ry float64
	}
	firstRow := true

	for _, elem := range layout.Elements {
		if elem.Meta != nil {
			output = append(output, elem.Meta)
			continue
		}

		row := layout.Rows[elem.Row]

		state.x = 0
		if firstRow {
			state.y = 0
			firstRow = false
		} else {
			state.y++
		}

		rowItems := make([]any, 0, len(row)*2)

		for _, key := range row {
			if !nearZero(key.R-state.r) || !nearZero(key.RX-state.rx) || !nearZero(key.RY-state.ry) {
				rot := map[string]any{}
				if !nearZero(key.R - state.r) {
					rot["r"] = key.R
				}
				if !nearZero(key.RX - state.rx) {
					rot["rx"] = key.RX
				}
				if !nearZero(key.RY - state.ry) {
					rot["ry"] = key.RY
				}
				rowItems = append(rowItems, rot)
				state.r, state.rx, state.ry = key.R, key.RX, key.RY
				state.x = state.rx
				state.y = state.ry
			}

			props := make(map[string]any, len(key.Style)+4)
			for k, v := range key.Style {
				props[k] = v
			}

			if dx := key.X - state.x; !nearZero(dx) {
				props["x"] = dx
			}
			if dy := key.Y - state.y; !nearZero(dy) {
				props["y"] = dy
			}
			if !nearZero(key.W - 1) {
				props["w"] = key.W
			}
			if !nearZero(key.H - 1) {
				props["h"] = key.H
			}
			if !nearZero(key.X2) {
				props["x2"] = key.X2
			}
			if !nearZero(key.Y2) {
				props["y2"] = key.Y2
			}
			if !nearZero(key.W2 - 1) {
				props["w2"] = key.W2
			}
			if !nearZero(key.H2 - 1) {
				props["h2"] = key.H2
			}

			if len(props) > 0 {
				rowItems = append(rowItems, props)
			}
			rowItems = append(rowItems, key.Label)

			state.x = key.X + key.W
			state.y = key.Y
		}

		output = append(output, rowItems)
	}

	return output
}

// Marshal serializes a Layout to indented JSON, matching the formatting of
// hand-managed KLE exports.
func Marshal(layout *Layout) ([]byte, error) {
	return json.MarshalIndent(Serialize(layout), "", "  ")
}
