package reconcile

import (
	"regexp"
	"strings"
)

// fallbackKeycodeLabels translates common ZMK keycodes into the legend
// strings the reference diagrams use, for bindings never seen in any old
// diagram.
var fallbackKeycodeLabels = map[string]string{
	"ESC":       "Escape",
	"RET":       "Enter",
	"ENTER":     "Enter",
	"BSPC":      "Back space",
	"BACKSPACE": "Back space",
	"DEL":       "Delete",
	"DELETE":    "Delete",
	"SPACE":     "Space",
	"TAB":       "Tab",
}

// shortcutLabels substitutes human-readable descriptions for the held-Ctrl
// shortcut bindings used on the cursor layer.
var shortcutLabels = map[string]string{
	"&kp _C(A)": "Select all",
	"&kp _C(S)": "Save",
	"&kp _C(N)": "New",
	"&kp _C(W)": "Close",
	"&kp _C(Q)": "Quit",
}

// ctrlWrapRe matches the _C(KEYCODE) held-Ctrl wrapper.
var ctrlWrapRe = regexp.MustCompile(`^_C\((\w+)\)$`)

// KeycodeLabel resolves a keycode to a legend: observed author terminology
// first, then the fixed fallback table, then the raw keycode itself.
func KeycodeLabel(keycode string, kpLabels map[string]string) string {
	keycode = strings.TrimSpace(keycode)
	if label, ok := kpLabels[keycode]; ok {
		return label
	}
	if label, ok := fallbackKeycodeLabels[keycode]; ok {
		return label
	}
	return keycode
}

// cleanLayerName strips the LAYER_ prefix devicetree bindings carry on layer
// arguments.
func cleanLayerName(token string) string {
	return strings.TrimPrefix(token, "LAYER_")
}

// SynthesizeLabel produces a legend for a binding with no recoverable
// content anywhere. The layer-aware composites use the four-blank-line
// template that puts the primary action on the top line and the layer name
// on the bottom. Anything unrecognized falls through to the binding's own
// token text so nothing is silently dropped.
func SynthesizeLabel(tokens []string, kpLabels map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	joined := strings.Join(tokens, " ")
	if label, ok := shortcutLabels[joined]; ok {
		return label
	}

	switch head := tokens[0]; {
	case head == "&none" || head == "&trans":
		return ""
	case head == "&kp" && len(tokens) >= 2:
		if m := ctrlWrapRe.FindStringSubmatch(tokens[1]); m != nil {
			return "Ctrl " + KeycodeLabel(m[1], kpLabels)
		}
		return KeycodeLabel(tokens[1], kpLabels)
	case head == "&mo" && len(tokens) >= 2:
		return "\n\n\n\n" + cleanLayerName(tokens[1])
	case head == "&tog" && len(tokens) >= 2:
		return "Toggle\n\n\n\n" + cleanLayerName(tokens[1])
	case head == "&sk" && len(tokens) >= 2:
		mod := tokens[1]
		return "sticky\n\n\n\n" + mod + "\n\n" + mod
	case (head == "&thumb" || head == "&space") && len(tokens) >= 3:
		layer := cleanLayerName(tokens[1])
		key := KeycodeLabel(strings.Trim(tokens[2], "(),"), kpLabels)
		return key + "\n\n\n\n" + layer
	}
	return joined
}
