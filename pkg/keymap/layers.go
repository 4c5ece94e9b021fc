package keymap

import "strings"

// defaultBaseLayer is the layer a bare "base-layer-diagram" file maps to
// when the keymap declares it. Falls back to the first declared layer.
const defaultBaseLayer = "Dvorak"

// normalizeLayerName lowers a layer name and folds underscores to hyphens so
// "Lower_Case" matches a "lower-case-layer-diagram" filename.
func normalizeLayerName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// LayerFromFilename maps a diagram file's stem (filename without extension)
// to a declared layer name. It returns "" when the stem cannot be mapped;
// callers skip such files rather than failing.
//
// Recognized shapes, in order:
//   - "base-layer-diagram-<x>": case-insensitive match of <x> against the
//     declared names, else <x> itself (the caller's membership check then
//     decides whether to skip).
//   - "base-layer-diagram": the default base layer if declared, else the
//     first declared layer.
//   - "<name>-layer-diagram", "<name>-diagram", or "<name>": normalized
//     match against the declared names.
func LayerFromFilename(stem string, layerNames []string) string {
	if suffix, ok := strings.CutPrefix(stem, "base-layer-diagram-"); ok {
		for _, name := range layerNames {
			if strings.EqualFold(name, suffix) {
				return name
			}
		}
		return suffix
	}
	if stem == "base-layer-diagram" {
		for _, name := range layerNames {
			if name == defaultBaseLayer {
				return name
			}
		}
		if len(layerNames) > 0 {
			return layerNames[0]
		}
		return ""
	}

	base := stem
	if b, ok := strings.CutSuffix(stem, "-layer-diagram"); ok {
		base = b
	} else if b, ok := strings.CutSuffix(stem, "-diagram"); ok {
		base = b
	}

	baseNorm := strings.ToLower(base)
	for _, name := range layerNames {
		if normalizeLayerName(name) == baseNorm {
			return name
		}
	}
	return ""
}
