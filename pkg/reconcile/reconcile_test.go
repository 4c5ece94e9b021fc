package reconcile

import (
	"strings"
	"testing"

	"github.com/inonprince/zmk-glorious-lefty/pkg/keymap"
	"github.com/inonprince/zmk-glorious-lefty/pkg/kle"
)

// testLayout builds a diagram whose first three keys map to logical slots
// 0, 1, 2 (row 1 of the left hand).
func testLayout(labels ...string) *kle.Layout {
	row := make([]*kle.Key, len(labels))
	for i, label := range labels {
		row[i] = &kle.Key{
			Label: label,
			X:     float64(i + 1), Y: 1,
			W: 1, H: 1,
			Style: map[string]any{},
		}
	}
	return &kle.Layout{Rows: [][]*kle.Key{row}, Elements: []kle.Element{{Row: 0}}}
}

// layerOf builds a layer from devicetree-style binding strings.
func layerOf(bindings ...string) keymap.Layer {
	layer := keymap.Layer{Name: "Test"}
	for _, b := range bindings {
		layer.Slots = append(layer.Slots, keymap.Slot{
			Signature: b,
			Tokens:    strings.Fields(b),
		})
	}
	return layer
}

func TestBuildMoveMap_Swap(t *testing.T) {
	moveMap := buildMoveMap([]string{"A", "B", "C"}, []string{"B", "A", "C"})

	want := map[int]int{0: 1, 1: 0, 2: 2}
	for newIdx, oldIdx := range want {
		if moveMap[newIdx] != oldIdx {
			t.Errorf("moveMap[%d] = %d, want %d", newIdx, moveMap[newIdx], oldIdx)
		}
	}
}

func TestBuildMoveMap_DuplicatesPairPositionally(t *testing.T) {
	moveMap := buildMoveMap([]string{"S", "X", "S"}, []string{"S", "S", "S"})

	if moveMap[0] != 0 || moveMap[1] != 2 {
		t.Errorf("moveMap = %v, want first two S occurrences paired in order", moveMap)
	}
	if _, ok := moveMap[2]; ok {
		t.Error("surplus new occurrence should stay unpaired")
	}
}

func TestUpdateLayout_MoveDetection(t *testing.T) {
	layout := testLayout("A", "B", "C")
	old := layerOf("&kp A", "&kp B", "&kp C")
	updated := layerOf("&kp B", "&kp A", "&kp C")

	report := UpdateLayout(layout, old, updated, NewPool(), nil)

	if report.Stats.Moved != 2 || report.Stats.Reused != 3 || report.Stats.Generated != 0 {
		t.Errorf("stats = %+v, want moved=2 reused=3 generated=0", report.Stats)
	}
	if report.Outcomes[0].Kind != Moved || report.Outcomes[0].FromIndex != 1 {
		t.Errorf("slot 0 outcome = %+v, want moved from 1", report.Outcomes[0])
	}
	if report.Outcomes[1].Kind != Moved || report.Outcomes[1].FromIndex != 0 {
		t.Errorf("slot 1 outcome = %+v, want moved from 0", report.Outcomes[1])
	}
	if report.Outcomes[2].Kind != Unchanged {
		t.Errorf("slot 2 outcome = %+v, want unchanged", report.Outcomes[2])
	}

	keys := layout.Keys()
	if keys[0].Label != "B" || keys[1].Label != "A" || keys[2].Label != "C" {
		t.Errorf("labels = %q %q %q, want B A C", keys[0].Label, keys[1].Label, keys[2].Label)
	}
}

func TestUpdateLayout_ConcreteScenario(t *testing.T) {
	// Old layer [&kp A, &kp B, &none] with legends [A, B, ""]; new layer
	// [&kp B, &kp A, &kp C]. B and A swap; C has no source anywhere and is
	// synthesized from its keycode.
	layout := testLayout("A", "B", "")
	old := layerOf("&kp A", "&kp B", "&none")
	updated := layerOf("&kp B", "&kp A", "&kp C")

	report := UpdateLayout(layout, old, updated, NewPool(), nil)

	keys := layout.Keys()
	if keys[0].Label != "B" {
		t.Errorf("slot 0 label = %q, want B (moved from old slot 1)", keys[0].Label)
	}
	if keys[1].Label != "A" {
		t.Errorf("slot 1 label = %q, want A (moved from old slot 0)", keys[1].Label)
	}
	if keys[2].Label != "C" {
		t.Errorf("slot 2 label = %q, want generated C", keys[2].Label)
	}
	if report.Outcomes[2].Kind != Generated {
		t.Errorf("slot 2 outcome = %+v, want generated", report.Outcomes[2])
	}
	if report.Stats.Moved != 2 || report.Stats.Generated != 1 {
		t.Errorf("stats = %+v, want moved=2 generated=1", report.Stats)
	}
}

func TestUpdateLayout_GlobalFallback(t *testing.T) {
	layout := testLayout("A", "B", "C")
	old := layerOf("&kp A", "&kp B", "&kp C")
	updated := layerOf("&kp A", "&kp B", "&kp X")

	pool := NewPool()
	pool.Add("&kp X", []string{"&kp", "X"}, Content{Label: "X!", Style: map[string]any{"c": "#00f"}},
		Source{File: "other-layer-diagram.json", Slot: 12})

	report := UpdateLayout(layout, old, updated, pool, nil)

	if report.Outcomes[2].Kind != FromGlobal {
		t.Fatalf("slot 2 outcome = %+v, want from-global", report.Outcomes[2])
	}
	if report.Outcomes[2].Source.File != "other-layer-diagram.json" || report.Outcomes[2].Source.Slot != 12 {
		t.Errorf("source = %+v, want other-layer-diagram.json slot 12", report.Outcomes[2].Source)
	}
	keys := layout.Keys()
	if keys[2].Label != "X!" || keys[2].Style["c"] != "#00f" {
		t.Errorf("slot 2 content = %q %v, want pooled label and style", keys[2].Label, keys[2].Style)
	}
	if report.Stats.FromGlobal != 1 || report.Stats.Generated != 0 {
		t.Errorf("stats = %+v, want from_global=1 generated=0", report.Stats)
	}
}

func TestUpdateLayout_PriorityOrder(t *testing.T) {
	// Slot 0's signature is resolvable in-layer AND from the pool: the
	// in-layer pairing must win. Slot 2 is resolvable from the pool AND by
	// synthesis: the pool must win.
	layout := testLayout("local", "B", "C")
	old := layerOf("&kp A", "&kp B", "&kp C")
	updated := layerOf("&kp A", "&kp B", "&kp Z")

	pool := NewPool()
	pool.Add("&kp A", []string{"&kp", "A"}, Content{Label: "pooled-A"}, Source{File: "x.json"})
	pool.Add("&kp Z", []string{"&kp", "Z"}, Content{Label: "pooled-Z"}, Source{File: "x.json"})

	report := UpdateLayout(layout, old, updated, pool, nil)

	keys := layout.Keys()
	if keys[0].Label != "local" {
		t.Errorf("slot 0 label = %q, want in-layer content over pool", keys[0].Label)
	}
	if report.Outcomes[0].Kind != Unchanged {
		t.Errorf("slot 0 outcome = %+v, want unchanged", report.Outcomes[0])
	}
	if keys[2].Label != "pooled-Z" {
		t.Errorf("slot 2 label = %q, want pool content over synthesis", keys[2].Label)
	}
	if report.Outcomes[2].Kind != FromGlobal {
		t.Errorf("slot 2 outcome = %+v, want from-global", report.Outcomes[2])
	}
}

func TestUpdateLayout_UnGhostsRealBindings(t *testing.T) {
	layout := testLayout("A", "")
	layout.Keys()[1].Style["g"] = true
	old := layerOf("&kp A", "&none")
	updated := layerOf("&kp A", "&kp B")

	UpdateLayout(layout, old, updated, NewPool(), nil)

	key := layout.Keys()[1]
	if key.Label != "B" {
		t.Errorf("label = %q, want generated B", key.Label)
	}
	if g, _ := key.Style["g"].(bool); g {
		t.Error("ghost flag survived on a slot whose binding became real")
	}
}

func TestUpdateLayout_GhostKeptForEmptyBindings(t *testing.T) {
	layout := testLayout("")
	layout.Keys()[0].Style["g"] = true
	old := layerOf("&none")
	updated := layerOf("&none")

	UpdateLayout(layout, old, updated, NewPool(), nil)

	if g, _ := layout.Keys()[0].Style["g"].(bool); !g {
		t.Error("ghost flag should survive while the binding stays empty")
	}
}

func TestUpdateLayout_MissingInKLE(t *testing.T) {
	layout := testLayout("A", "B", "C")
	old := layerOf("&kp A", "&kp B", "&kp C")

	report := UpdateLayout(layout, old, old, NewPool(), nil)

	if report.Stats.MissingInKLE != 77 {
		t.Errorf("missing_in_kle = %d, want 77 (80 slots, 3 mapped)", report.Stats.MissingInKLE)
	}
	if report.Stats.Updated != 3 {
		t.Errorf("updated = %d, want 3", report.Stats.Updated)
	}
}

func TestUpdateLayout_DoesNotMutateOldData(t *testing.T) {
	layout := testLayout("A")
	old := layerOf("&kp A")
	updated := layerOf("&kp B")

	pool := NewPool()
	pool.Add("&kp B", []string{"&kp", "B"}, Content{Label: "B", Style: map[string]any{"c": "#fff"}}, Source{})

	UpdateLayout(layout, old, updated, pool, nil)
	layout.Keys()[0].Style["c"] = "mutated"

	content, _, _ := pool.Lookup("&kp B")
	if content.Style["c"] != "#fff" {
		t.Error("resolving aliased pooled style into the layout")
	}
	if old.Slots[0].Signature != "&kp A" {
		t.Error("old layer mutated")
	}
}

func TestUpdateLayout_ShortNewLayer(t *testing.T) {
	// A new layer with fewer slots than the diagram maps: out-of-range
	// slots are left alone rather than panicking.
	layout := testLayout("A", "B", "C")
	old := layerOf("&kp A", "&kp B", "&kp C")
	updated := layerOf("&kp A")

	report := UpdateLayout(layout, old, updated, NewPool(), nil)
	if report.Stats.Updated != 1 {
		t.Errorf("updated = %d, want 1", report.Stats.Updated)
	}
	if layout.Keys()[2].Label != "C" {
		t.Error("out-of-range slot content changed")
	}
}
