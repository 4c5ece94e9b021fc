package reconcile

import "testing"

func TestSynthesizeLabel(t *testing.T) {
	kp := map[string]string{"QUOT": "'"}

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"empty binding", nil, ""},
		{"none", []string{"&none"}, ""},
		{"trans", []string{"&trans"}, ""},
		{"kp from observed legends", []string{"&kp", "QUOT"}, "'"},
		{"kp fallback table", []string{"&kp", "ESC"}, "Escape"},
		{"kp raw keycode", []string{"&kp", "F13"}, "F13"},
		{"momentary layer", []string{"&mo", "LAYER_Fn"}, "\n\n\n\nFn"},
		{"toggle layer", []string{"&tog", "LAYER_Mouse"}, "Toggle\n\n\n\nMouse"},
		{"sticky", []string{"&sk", "LSHFT"}, "sticky\n\n\n\nLSHFT\n\nLSHFT"},
		{"thumb composite", []string{"&thumb", "LAYER_Cursor", "RET"}, "Enter\n\n\n\nCursor"},
		{"space composite", []string{"&space", "LAYER_Symbol", "SPACE"}, "Space\n\n\n\nSymbol"},
		{"thumb with punctuation", []string{"&thumb", "LAYER_Fn", "(TAB),"}, "Tab\n\n\n\nFn"},
		{"shortcut", []string{"&kp", "_C(A)"}, "Select all"},
		{"shortcut save", []string{"&kp", "_C(S)"}, "Save"},
		{"unrecognized ctrl wrap", []string{"&kp", "_C(Z)"}, "Ctrl Z"},
		{"unknown shape", []string{"&bt", "BT_CLR"}, "&bt BT_CLR"},
		{"bare token", []string{"Custom"}, "Custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SynthesizeLabel(tt.tokens, kp); got != tt.want {
				t.Errorf("SynthesizeLabel(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestKeycodeLabel_Priority(t *testing.T) {
	// Observed author terminology beats the fixed table.
	kp := map[string]string{"ESC": "Esc ⎋"}
	if got := KeycodeLabel("ESC", kp); got != "Esc ⎋" {
		t.Errorf("KeycodeLabel(ESC) = %q, want observed legend", got)
	}
	if got := KeycodeLabel("ESC", nil); got != "Escape" {
		t.Errorf("KeycodeLabel(ESC) = %q, want fallback Escape", got)
	}
	if got := KeycodeLabel("WEIRD", nil); got != "WEIRD" {
		t.Errorf("KeycodeLabel(WEIRD) = %q, want raw keycode", got)
	}
}
