package reconcile

import "github.com/inonprince/zmk-glorious-lefty/pkg/kle"

// Content is the movable visual payload of one key: its legend and the full
// explicit style. Geometry is never part of content; it belongs to the
// physical template and stays put.
type Content struct {
	Label string
	Style map[string]any
}

// ContentOf snapshots a key's label and style. The style map is copied so
// later mutation of the key cannot alias pooled content.
func ContentOf(key *kle.Key) Content {
	return Content{Label: key.Label, Style: cloneStyle(key.Style)}
}

func cloneStyle(style map[string]any) map[string]any {
	out := make(map[string]any, len(style))
	for k, v := range style {
		out[k] = v
	}
	return out
}

// Source records where pooled content was recovered from, for reporting.
type Source struct {
	File string
	Slot int
}

// Pool is the cross-file signature-to-content mapping recovered from all
// old diagrams. It is built in a single pass before any resolution begins
// and is read-only afterwards; first-seen content wins on signature
// collisions.
type Pool struct {
	content map[string]Content
	tokens  map[string][]string
	source  map[string]Source
	order   []string // insertion order, for deterministic derived maps
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		content: make(map[string]Content),
		tokens:  make(map[string][]string),
		source:  make(map[string]Source),
	}
}

// Add records content for a signature unless the signature is already
// present.
func (p *Pool) Add(sig string, tokens []string, content Content, src Source) {
	if _, ok := p.content[sig]; ok {
		return
	}
	p.content[sig] = content
	p.tokens[sig] = tokens
	p.source[sig] = src
	p.order = append(p.order, sig)
}

// Lookup returns the pooled content for a signature.
func (p *Pool) Lookup(sig string) (Content, Source, bool) {
	c, ok := p.content[sig]
	if !ok {
		return Content{}, Source{}, false
	}
	return c, p.source[sig], true
}

// Len returns the number of distinct signatures in the pool.
func (p *Pool) Len() int { return len(p.order) }

// KeycodeLabels derives a keycode-to-legend map from every plain &kp binding
// in the pool, preferring the author's own terminology over any fixed
// fallback. First-seen legend wins per keycode, in pool insertion order.
func (p *Pool) KeycodeLabels() map[string]string {
	labels := make(map[string]string)
	for _, sig := range p.order {
		tokens := p.tokens[sig]
		if len(tokens) < 2 || tokens[0] != "&kp" {
			continue
		}
		if _, ok := labels[tokens[1]]; !ok {
			labels[tokens[1]] = p.content[sig].Label
		}
	}
	return labels
}
