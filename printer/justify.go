package printer

import "github.com/AlexStarov/escpos-jobprint/util"

// Tracker keeps the justification state of one build and hands out the
// ESC a n bytes needed to bring the printer in line with it.
type Tracker struct {
	current Justification
	emitted Justification
	known   bool
}

// NewTracker starts at Left. Unless explicit is set the printer's power-on
// Left counts as already emitted.
func NewTracker(explicit bool) *Tracker {
	return &Tracker{current: Left, emitted: Left, known: !explicit}
}

// Current is the justification content is printed with.
func (t *Tracker) Current() Justification { return t.current }

// Set switches to j, returning the control code only when j differs from the current state.
func (t *Tracker) Set(j Justification) []byte {
	if j == t.current {
		return nil
	}
	t.current = j
	return t.emit()
}

// Ensure runs before a content element and returns the control code only
// when the active justification differs from the last one emitted.
func (t *Tracker) Ensure() []byte {
	if t.known && t.emitted == t.current {
		return nil
	}
	return t.emit()
}

func (t *Tracker) emit() []byte {
	t.emitted = t.current
	t.known = true
	return []byte{util.ESC, 'a', byte(t.current)}
}
