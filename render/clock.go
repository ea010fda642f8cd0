// Package render is the core of the renderer: it turns a merged MIDI
// event stream into scheduled notes, renders each note from a reference
// sample, and mixes the results into normalized track and master buffers.
package render

// Clock converts MIDI tick deltas into an absolute timeline using one
// fixed tempo for the whole file. Tempo change events embedded in the
// file are deliberately never applied: the configured tempo is
// authoritative, so the same file always renders with the same timing.
type Clock struct {
	secPerTick float64
	now        float64
}

// NewClock creates a clock for the given MIDI resolution and tempo.
func NewClock(ticksPerBeat uint32, tempoBPM float64) *Clock {
	return &Clock{secPerTick: 60 / (tempoBPM * float64(ticksPerBeat))}
}

// Advance moves the clock by delta ticks and returns the new absolute
// time in seconds.
func (c *Clock) Advance(delta uint32) float64 {
	c.now += float64(delta) * c.secPerTick
	return c.now
}

// Now returns the current absolute time in seconds.
func (c *Clock) Now() float64 {
	return c.now
}
