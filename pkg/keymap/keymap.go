// Package keymap loads ZMK keymap snapshots into an ordered logical-slot
// model.
//
// Two source formats reduce to the same model: the layout editor's JSON
// export (layer_names + layers of binding objects) and the devicetree
// .keymap file ZMK actually compiles. Either way a layer is an ordered list
// of slots, one per physical key position, and every slot carries a
// content-addressed signature used to match bindings across old/new keymaps
// and across diagram files. Signatures are pure normalizations of the
// binding content; nothing in the matching logic compares identities.
package keymap

import (
	"path/filepath"
	"strings"
)

// Slot is one binding position in one layer.
type Slot struct {
	// Signature is the normalized fingerprint of the binding: compact
	// sorted-key JSON for JSON keymaps, the whitespace-joined token sequence
	// for devicetree keymaps. Slots are compared only by signature equality.
	Signature string

	// Tokens is the binding as behavior head plus parameters, e.g.
	// ["&kp", "ESC"]. Used for label synthesis, never for matching.
	Tokens []string
}

// Layer is a named ordered sequence of slots.
type Layer struct {
	Name  string
	Slots []Slot
}

// Keymap is an ordered set of layers from one keymap snapshot.
type Keymap struct {
	Layers []Layer
}

// LayerNames returns the declared layer names in order.
func (k *Keymap) LayerNames() []string {
	names := make([]string, len(k.Layers))
	for i, layer := range k.Layers {
		names[i] = layer.Name
	}
	return names
}

// Layer returns the layer with the given name.
func (k *Keymap) Layer(name string) (Layer, bool) {
	for _, layer := range k.Layers {
		if layer.Name == name {
			return layer, true
		}
	}
	return Layer{}, false
}

// Load reads a keymap snapshot, picking the parser by file extension:
// ".json" is treated as a layout-editor export, anything else as a
// devicetree .keymap file.
func Load(path string) (*Keymap, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadDevicetree(path)
}

// IsEmpty reports whether the slot is a no-op binding (&none or &trans)
// that renders as an empty key.
func (s Slot) IsEmpty() bool {
	if len(s.Tokens) == 0 {
		return true
	}
	head := s.Tokens[0]
	return head == "&none" || head == "&trans"
}
