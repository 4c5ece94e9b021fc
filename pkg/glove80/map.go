package glove80

import (
	"fmt"
	"math"
	"sort"

	"github.com/inonprince/zmk-glorious-lefty/pkg/kle"
)

const eps = 1e-6

// MapIndices assigns each key of a parsed diagram its logical slot index.
//
// Keys with zero rotation resolve through the row/column anchor tables;
// rotated keys resolve through the thumb-cluster tables. Keys whose
// geometry matches no table entry are simply absent from the result, and
// thumb groups that do not contain exactly two non-placeholder keys are
// skipped entirely with a warning rather than guessed at.
func MapIndices(layout *kle.Layout) (map[int]*kle.Key, []string) {
	mapped := make(map[int]*kle.Key)
	var warnings []string

	allKeys := layout.Keys()

	for _, key := range allKeys {
		if math.Abs(key.R) > eps {
			continue
		}
		slots, ok := rowSlots[int(math.Floor(key.Y+eps))]
		if !ok {
			continue
		}
		idx := unmapped
		if col := findAnchor(key.X, xLeft); col >= 0 {
			idx = slots.left[col]
		} else if col := findAnchor(key.X, xRight); col >= 0 {
			idx = slots.right[col]
		}
		if idx == unmapped {
			continue
		}
		mapped[idx] = key
	}

	groups := make(map[thumbGroup][]*kle.Key)
	for _, key := range allKeys {
		if math.Abs(key.R) <= eps || placeholderLabels[key.Label] {
			continue
		}
		bucket := int(math.Round(key.R/5)) * 5
		if bucket == 0 {
			continue
		}
		group := thumbGroup{side: "L", bucket: bucket}
		if bucket < 0 {
			group = thumbGroup{side: "R", bucket: -bucket}
		}
		groups[group] = append(groups[group], key)
	}

	for _, group := range sortedGroups(groups) {
		keys := groups[group]
		if len(keys) != 2 {
			warnings = append(warnings,
				fmt.Sprintf("thumb group (%s, %d) expected 2 keys, found %d", group.side, group.bucket, len(keys)))
			continue
		}
		slots, ok := thumbSlots[group]
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("thumb group (%s, %d) not in index map", group.side, group.bucket))
			continue
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Y < keys[j].Y })
		mapped[slots.top] = keys[0]
		mapped[slots.bottom] = keys[1]
	}

	return mapped, warnings
}

// findAnchor returns the index of the anchor within tolerance of x, or -1.
func findAnchor(x float64, anchors [6]float64) int {
	for i, pos := range anchors {
		if math.Abs(x-pos) < anchorTolerance {
			return i
		}
	}
	return -1
}

// sortedGroups orders thumb groups by side then bucket so warnings come out
// deterministically.
func sortedGroups(groups map[thumbGroup][]*kle.Key) []thumbGroup {
	out := make([]thumbGroup, 0, len(groups))
	for g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].side != out[j].side {
			return out[i].side < out[j].side
		}
		return out[i].bucket < out[j].bucket
	})
	return out
}
