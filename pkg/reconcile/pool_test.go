package reconcile

import (
	"testing"

	"github.com/inonprince/zmk-glorious-lefty/pkg/kle"
)

func TestPool_FirstSeenWins(t *testing.T) {
	pool := NewPool()
	pool.Add("&kp A", []string{"&kp", "A"}, Content{Label: "A"}, Source{File: "base.json", Slot: 3})
	pool.Add("&kp A", []string{"&kp", "A"}, Content{Label: "shadowed"}, Source{File: "fn.json", Slot: 7})

	content, src, ok := pool.Lookup("&kp A")
	if !ok {
		t.Fatal("signature missing from pool")
	}
	if content.Label != "A" {
		t.Errorf("label = %q, want first-seen %q", content.Label, "A")
	}
	if src.File != "base.json" || src.Slot != 3 {
		t.Errorf("source = %+v, want base.json slot 3", src)
	}
	if pool.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pool.Len())
	}
}

func TestPool_LookupMiss(t *testing.T) {
	pool := NewPool()
	if _, _, ok := pool.Lookup("&kp Z"); ok {
		t.Error("Lookup on empty pool reported a hit")
	}
}

func TestPool_KeycodeLabels(t *testing.T) {
	pool := NewPool()
	pool.Add("&kp QUOT", []string{"&kp", "QUOT"}, Content{Label: "'"}, Source{})
	pool.Add("&kp ESC", []string{"&kp", "ESC"}, Content{Label: "Esc"}, Source{})
	pool.Add("&mo LAYER_Fn", []string{"&mo", "LAYER_Fn"}, Content{Label: "Fn"}, Source{})
	pool.Add("&kp", []string{"&kp"}, Content{Label: "broken"}, Source{})

	labels := pool.KeycodeLabels()
	if labels["QUOT"] != "'" || labels["ESC"] != "Esc" {
		t.Errorf("labels = %v, want QUOT and ESC from pool content", labels)
	}
	if len(labels) != 2 {
		t.Errorf("labels = %v, want exactly the two &kp bindings", labels)
	}
}

func TestContentOf_CopiesStyle(t *testing.T) {
	key := &kle.Key{Label: "A", Style: map[string]any{"c": "#fff"}}
	content := ContentOf(key)
	key.Style["c"] = "#000"
	if content.Style["c"] != "#fff" {
		t.Error("ContentOf aliased the key's style map")
	}
}
