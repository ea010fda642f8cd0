package render

import (
	"github.com/PerekhodovAnton/Tg-Music-Generator/midifile"
)

// Note is one scheduled note: a key sounding from Start to End seconds.
type Note struct {
	Key   uint8
	Start float64
	End   float64
}

// Duration returns the note length in seconds.
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// fallbackSpan is used when a file yields no notes at all, so a
// degenerate file still renders a short silent track instead of failing.
const fallbackSpan = 60.0

// Schedule folds a merged event stream into discrete notes and returns
// them with the overall span (latest note end, or fallbackSpan if there
// are no notes).
//
// Pairing is FIFO per key: each note-on pushes its onset time onto that
// key's queue, and each release (note-off, or note-on with velocity 0)
// pops the oldest onset. This is what lets the same key sound several
// overlapping times - fast retriggers - without crossing pairs. A
// release with no open onset is ignored, as are notes still open at the
// end of the stream and notes with no positive duration.
func Schedule(events []midifile.Event, clock *Clock) ([]Note, float64) {
	open := make(map[uint8][]float64)
	var notes []Note

	for _, ev := range events {
		now := clock.Advance(ev.Delta)

		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			open[key] = append(open[key], now)

		case ev.Message.GetNoteEnd(&ch, &key):
			pending := open[key]
			if len(pending) == 0 {
				continue // release without a matching onset
			}
			start := pending[0]
			open[key] = pending[1:]
			if now <= start {
				continue // nothing to render
			}
			notes = append(notes, Note{Key: key, Start: start, End: now})
		}
	}

	span := 0.0
	for _, n := range notes {
		if n.End > span {
			span = n.End
		}
	}
	if len(notes) == 0 {
		span = fallbackSpan
	}
	return notes, span
}
