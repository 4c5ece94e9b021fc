package keymap

import (
	"os"
	"regexp"
	"strings"

	"github.com/inonprince/zmk-glorious-lefty/pkg/errors"
)

var (
	commentBlockRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	commentLineRe  = regexp.MustCompile(`(?m)//.*?$`)
	keymapBlockRe  = regexp.MustCompile(`\bkeymap\b\s*\{`)
	layerBlockRe   = regexp.MustCompile(`\blayer_([A-Za-z0-9_]+)\b\s*\{`)
	bindingsRe     = regexp.MustCompile(`\bbindings\b\s*=\s*<`)
)

// LoadDevicetree reads a ZMK devicetree .keymap file.
//
// Only the keymap { ... } block is interpreted: each layer_<name> node
// yields one layer, and its bindings = < ... >; cell list is tokenized into
// slots. The slot signature is the binding's tokens joined by single
// spaces, so formatting differences in the source never affect matching.
func LoadDevicetree(path string) (*Keymap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading keymap %s", path)
	}

	text := stripComments(string(raw))
	block, err := extractKeymapBlock(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "parsing keymap %s", path)
	}

	km := &Keymap{}
	for idx := 0; ; {
		loc := layerBlockRe.FindStringSubmatchIndex(block[idx:])
		if loc == nil {
			break
		}
		name := block[idx+loc[2] : idx+loc[3]]
		body, end, err := extractBraceBlock(block, idx+loc[1]-1)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidKeymap, err, "layer %s in %s", name, path)
		}
		idx = end + 1

		layer := Layer{Name: name}
		for _, tokens := range extractBindings(body) {
			layer.Slots = append(layer.Slots, Slot{
				Signature: strings.Join(tokens, " "),
				Tokens:    tokens,
			})
		}
		km.Layers = append(km.Layers, layer)
	}

	return km, nil
}

func stripComments(text string) string {
	text = commentBlockRe.ReplaceAllString(text, "")
	return commentLineRe.ReplaceAllString(text, "")
}

// extractKeymapBlock returns the body of the top-level keymap { ... } node.
func extractKeymapBlock(text string) (string, error) {
	loc := keymapBlockRe.FindStringIndex(text)
	if loc == nil {
		return "", errors.New(errors.ErrCodeInvalidKeymap, "no keymap { ... } block found")
	}
	body, _, err := extractBraceBlock(text, loc[1]-1)
	return body, err
}

// extractBraceBlock returns the contents between the brace at startBrace and
// its matching close brace, skipping braces inside string literals. The
// second return value is the index of the closing brace.
func extractBraceBlock(text string, startBrace int) (string, int, error) {
	depth := 0
	inString := false
	for i := startBrace; i < len(text); i++ {
		ch := text[i]
		if ch == '"' && (i == 0 || text[i-1] != '\\') {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[startBrace+1 : i], i, nil
			}
		}
	}
	return "", 0, errors.New(errors.ErrCodeInvalidKeymap, "unmatched brace")
}

// extractBindings tokenizes the bindings cell list of one layer body.
// Tokens are grouped into bindings at each &-prefixed behavior head, so
// "&kp ESC &mo LAYER_Fn" yields [&kp ESC] and [&mo LAYER_Fn].
func extractBindings(body string) [][]string {
	loc := bindingsRe.FindStringIndex(body)
	if loc == nil {
		return nil
	}
	start := loc[1]
	end := strings.Index(body[start:], ">;")
	if end == -1 {
		end = strings.Index(body[start:], ">")
	}
	if end == -1 {
		return nil
	}

	var bindings [][]string
	var current []string
	for _, tok := range strings.Fields(body[start : start+end]) {
		if strings.HasPrefix(tok, "&") {
			if len(current) > 0 {
				bindings = append(bindings, current)
			}
			current = []string{tok}
		} else if len(current) == 0 {
			current = []string{tok}
		} else {
			current = append(current, tok)
		}
	}
	if len(current) > 0 {
		bindings = append(bindings, current)
	}
	return bindings
}
