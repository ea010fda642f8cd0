// Package midifile loads standard MIDI files and flattens their tracks
// into a single time-ordered event stream ready for note scheduling.
package midifile

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is one MIDI message with its tick delta from the previous event.
type Event struct {
	Delta   uint32
	Message smf.Message
}

// File is a decoded MIDI file.
type File struct {
	TicksPerBeat uint32
	Tracks       [][]Event
}

// Load reads and decodes the MIDI file at path. Only metric (ticks per
// beat) time division is supported; SMPTE-timed files are rejected.
func Load(path string) (*File, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi %s: %w", path, err)
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("midi %s: unsupported time format %s", path, s.TimeFormat)
	}

	f := &File{TicksPerBeat: ticks.Ticks4th()}
	for _, tr := range s.Tracks {
		events := make([]Event, 0, len(tr))
		for _, ev := range tr {
			events = append(events, Event{Delta: ev.Delta, Message: ev.Message})
		}
		f.Tracks = append(f.Tracks, events)
	}
	return f, nil
}

// Merged flattens all tracks into one stream ordered by absolute tick,
// with deltas recomputed against the merged order. Events from different
// tracks at the same tick keep their track order, which is all that
// matters: simultaneous events land at the same absolute time either way.
func (f *File) Merged() []Event {
	type absEvent struct {
		tick    uint64
		message smf.Message
	}

	var all []absEvent
	for _, track := range f.Tracks {
		var tick uint64
		for _, ev := range track {
			tick += uint64(ev.Delta)
			all = append(all, absEvent{tick: tick, message: ev.Message})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].tick < all[j].tick
	})

	merged := make([]Event, len(all))
	var prev uint64
	for i, ev := range all {
		merged[i] = Event{Delta: uint32(ev.tick - prev), Message: ev.message}
		prev = ev.tick
	}
	return merged
}
