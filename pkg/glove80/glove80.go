// Package glove80 maps visual key positions in a Glove80 diagram to logical
// keymap slot indices.
//
// The mapping is purely geometric: legends and styles are never inspected,
// so the same mapper applies to any diagram sharing the physical template.
// Main-matrix keys resolve by row and by nearest match against fixed left-
// and right-hand column anchors; the rotated thumb-cluster keys resolve by
// side and rotation bucket instead.
package glove80

// NumKeys is the number of logical slots per layer on the Glove80.
const NumKeys = 80

// unmapped marks a (row, column) position with no logical slot, such as the
// outer columns of the short top and bottom rows.
const unmapped = -1

// rowSlots maps a main-matrix row (floor of absolute y) to the slot indices
// of its left- and right-hand columns, outermost first.
var rowSlots = map[int]struct{ left, right [6]int }{
	1: {left: [6]int{0, 1, 2, 3, 4, unmapped}, right: [6]int{unmapped, 5, 6, 7, 8, 9}},
	2: {left: [6]int{10, 11, 12, 13, 14, 15}, right: [6]int{16, 17, 18, 19, 20, 21}},
	3: {left: [6]int{22, 23, 24, 25, 26, 27}, right: [6]int{28, 29, 30, 31, 32, 33}},
	4: {left: [6]int{34, 35, 36, 37, 38, 39}, right: [6]int{40, 41, 42, 43, 44, 45}},
	5: {left: [6]int{46, 47, 48, 49, 50, 51}, right: [6]int{58, 59, 60, 61, 62, 63}},
	6: {left: [6]int{64, 65, 66, 67, 68, unmapped}, right: [6]int{unmapped, 75, 76, 77, 78, 79}},
}

// Column anchor x-coordinates for the two key clusters.
var (
	xLeft  = [6]float64{1, 2, 3, 4, 5, 6}
	xRight = [6]float64{14.25, 15.25, 16.25, 17.25, 18.25, 19.25}
)

// anchorTolerance is the maximum distance between a key's x position and a
// column anchor for the two to be considered the same column.
const anchorTolerance = 0.02

// thumbGroup identifies one rotated thumb pair by side and rotation-
// magnitude bucket (degrees, one of 25, 35, 45).
type thumbGroup struct {
	side   string // "L" for positive rotation, "R" for negative
	bucket int
}

// thumbSlots maps each thumb group to the slot indices of its top and
// bottom key, ordered by absolute y.
var thumbSlots = map[thumbGroup]struct{ top, bottom int }{
	{"L", 25}: {52, 69},
	{"L", 35}: {53, 70},
	{"L", 45}: {54, 71},
	{"R", 25}: {57, 74},
	{"R", 35}: {56, 73},
	{"R", 45}: {55, 72},
}

// placeholderLabels are thumb-overlay legends that occupy a position
// visually but never map to a logical slot.
var placeholderLabels = map[string]bool{
	"T1": true, "T2": true, "T3": true,
	"T4": true, "T5": true, "T6": true,
}
