package render

import "math"

// Track accumulates rendered note segments for one source into a single
// mono buffer by overlap-add: segments that share time simply sum, which
// is what makes chords and overlapping retriggers come out polyphonic.
// A Track is owned by the mixing pass that builds it and is never
// written concurrently.
type Track struct {
	buf  []float64
	rate int
}

// NewTrack pre-sizes the buffer for the expected span plus one second of
// guard room. Later notes can still grow it past that.
func NewTrack(span float64, rate int) *Track {
	n := int(float64(rate) * (span + 1))
	if n < 0 {
		n = 0
	}
	return &Track{buf: make([]float64, n), rate: rate}
}

// Place adds seg into the buffer starting at the given time in seconds,
// zero-extending the buffer if the segment runs past the current end.
func (t *Track) Place(start float64, seg []float64) {
	from := int(math.Round(start * float64(t.rate)))
	if from < 0 {
		from = 0
	}
	if end := from + len(seg); end > len(t.buf) {
		t.buf = append(t.buf, make([]float64, end-len(t.buf))...)
	}
	for i, v := range seg {
		t.buf[from+i] += v
	}
}

// Finish peak-normalizes the buffer and returns it along with its
// duration in seconds.
func (t *Track) Finish() ([]float64, float64) {
	normalize(t.buf)
	return t.buf, float64(len(t.buf)) / float64(t.rate)
}

// normalize scales buf in place so its peak magnitude is exactly 1. A
// fully silent buffer is left untouched.
func normalize(buf []float64) {
	var peak float64
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range buf {
		buf[i] /= peak
	}
}
