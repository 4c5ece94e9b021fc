package keymap

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/inonprince/zmk-glorious-lefty/pkg/errors"
)

// jsonSnapshot mirrors the layout editor's keymap export: parallel arrays of
// layer names and layers, each layer an ordered list of binding objects.
type jsonSnapshot struct {
	LayerNames []string           `json:"layer_names"`
	Layers     [][]map[string]any `json:"layers"`
}

// LoadJSON reads a layout-editor JSON keymap export.
//
// Each binding object carries a behavior "value" (e.g. "&kp") and optional
// "params". The slot signature is the binding re-marshalled as compact JSON,
// which canonicalizes key order; structurally equal bindings always produce
// equal signatures regardless of how the export spelled them.
func LoadJSON(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading keymap %s", path)
	}

	var snap jsonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "parsing keymap %s", path)
	}

	km := &Keymap{}
	for i, name := range snap.LayerNames {
		layer := Layer{Name: name}
		if i < len(snap.Layers) {
			for _, binding := range snap.Layers[i] {
				slot, err := jsonSlot(binding)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "layer %s", name)
				}
				layer.Slots = append(layer.Slots, slot)
			}
		}
		km.Layers = append(km.Layers, layer)
	}
	return km, nil
}

// jsonSlot converts one binding object into a Slot.
func jsonSlot(binding map[string]any) (Slot, error) {
	sig, err := json.Marshal(binding)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		Signature: string(sig),
		Tokens:    bindingTokens(binding),
	}, nil
}

// bindingTokens flattens a binding object into the token form the label
// synthesizer understands. Custom bindings embed a raw behavior expression
// in their first parameter; that expression is tokenized by whitespace so
// "&kp _C(A)" and a devicetree "&kp _C(A)" produce identical tokens.
func bindingTokens(binding map[string]any) []string {
	value, _ := binding["value"].(string)
	params, _ := binding["params"].([]any)

	if value == "Custom" && len(params) > 0 {
		if expr, ok := paramValue(params[0]); ok && strings.TrimSpace(expr) != "" {
			return strings.Fields(expr)
		}
		return []string{"Custom"}
	}

	tokens := []string{value}
	for _, p := range params {
		if v, ok := paramValue(p); ok {
			tokens = append(tokens, v)
		}
	}
	return tokens
}

func paramValue(p any) (string, bool) {
	obj, ok := p.(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := obj["value"].(string)
	return v, ok
}
