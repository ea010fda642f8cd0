package render_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/PerekhodovAnton/Tg-Music-Generator/midifile"
	"github.com/PerekhodovAnton/Tg-Music-Generator/render"
)

func ev(delta uint32, msg midi.Message) midifile.Event {
	return midifile.Event{Delta: delta, Message: smf.Message(msg)}
}

// 480 ticks/beat at 120 BPM: one tick is 1/960 s.
func testClock() *render.Clock {
	return render.NewClock(480, 120)
}

func TestScheduleSingleNote(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		ev(480, midi.NoteOff(0, 60)),
	}

	notes, span := render.Schedule(events, testClock())
	require.Len(t, notes, 1)
	require.Equal(t, uint8(60), notes[0].Key)
	require.InDelta(t, 0.0, notes[0].Start, 1e-9)
	require.InDelta(t, 0.5, notes[0].End, 1e-9)
	require.InDelta(t, 0.5, span, 1e-9)
}

func TestScheduleOverlappingRetriggersPairFIFO(t *testing.T) {
	// Two note-ons at ticks 0 and 100, two note-offs at ticks 200 and
	// 300. The first onset must close with the first release.
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 64, 100)),
		ev(100, midi.NoteOn(0, 64, 100)),
		ev(100, midi.NoteOff(0, 64)),
		ev(100, midi.NoteOff(0, 64)),
	}

	notes, _ := render.Schedule(events, testClock())
	require.Len(t, notes, 2)
	require.InDelta(t, 0.0, notes[0].Start, 1e-9)
	require.InDelta(t, 200.0/960, notes[0].End, 1e-9)
	require.InDelta(t, 100.0/960, notes[1].Start, 1e-9)
	require.InDelta(t, 300.0/960, notes[1].End, 1e-9)
}

func TestScheduleManyRetriggersNeverCross(t *testing.T) {
	const n = 5
	var events []midifile.Event
	for i := 0; i < n; i++ {
		events = append(events, ev(10, midi.NoteOn(0, 72, 90)))
	}
	for i := 0; i < n; i++ {
		events = append(events, ev(10, midi.NoteOff(0, 72)))
	}

	notes, _ := render.Schedule(events, testClock())
	require.Len(t, notes, n)
	for i := 1; i < n; i++ {
		require.Greater(t, notes[i].Start, notes[i-1].Start)
		require.Greater(t, notes[i].End, notes[i-1].End)
	}
}

func TestScheduleOrphanReleaseIgnored(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOff(0, 60)),
		ev(0, midi.NoteOn(0, 62, 100)),
		ev(100, midi.NoteOff(0, 62)),
	}

	notes, _ := render.Schedule(events, testClock())
	require.Len(t, notes, 1)
	require.Equal(t, uint8(62), notes[0].Key)
}

func TestScheduleZeroVelocityNoteOnIsRelease(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 72, 100)),
		ev(480, midi.NoteOn(0, 72, 0)),
	}

	notes, _ := render.Schedule(events, testClock())
	require.Len(t, notes, 1)
	require.InDelta(t, 0.5, notes[0].End, 1e-9)
}

func TestScheduleOpenNotesDropped(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
	}

	notes, span := render.Schedule(events, testClock())
	require.Empty(t, notes)
	require.Equal(t, 60.0, span) // fallback span for empty output
}

func TestScheduleZeroDurationDropped(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		ev(0, midi.NoteOff(0, 60)),
	}

	notes, _ := render.Schedule(events, testClock())
	require.Empty(t, notes)
}

func TestScheduleOtherEventsAdvanceClockOnly(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		ev(240, midi.ControlChange(0, 1, 64)),
		ev(240, midi.NoteOff(0, 60)),
	}

	notes, _ := render.Schedule(events, testClock())
	require.Len(t, notes, 1)
	require.InDelta(t, 0.5, notes[0].End, 1e-9)
}

func TestScheduleIgnoresTempoChanges(t *testing.T) {
	// A tempo meta event mid-note must not bend the clock: the
	// configured BPM governs the whole stream.
	plain := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		ev(480, midi.NoteOff(0, 60)),
	}
	withTempo := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		{Delta: 240, Message: smf.MetaTempo(240)},
		{Delta: 240, Message: smf.Message(midi.NoteOff(0, 60))},
	}

	want, wantSpan := render.Schedule(plain, testClock())
	got, gotSpan := render.Schedule(withTempo, testClock())
	require.Equal(t, want, got)
	require.Equal(t, wantSpan, gotSpan)
	require.InDelta(t, 0.5, got[0].End, 1e-9)
}

func TestScheduleIgnoresTempoChangesFromFile(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(240))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(240, smf.MetaTempo(60))
	tr.Add(240, midi.NoteOff(0, 60))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(t.TempDir(), "tempo.mid")
	require.NoError(t, s.WriteFile(path))

	f, err := midifile.Load(path)
	require.NoError(t, err)

	notes, span := render.Schedule(f.Merged(), render.NewClock(f.TicksPerBeat, 120))
	require.Len(t, notes, 1)
	require.InDelta(t, 0.5, notes[0].End, 1e-9)
	require.InDelta(t, 0.5, span, 1e-9)
}

func TestScheduleIndependentPitchQueues(t *testing.T) {
	events := []midifile.Event{
		ev(0, midi.NoteOn(0, 60, 100)),
		ev(0, midi.NoteOn(0, 64, 100)),
		ev(480, midi.NoteOff(0, 64)),
		ev(480, midi.NoteOff(0, 60)),
	}

	notes, span := render.Schedule(events, testClock())
	require.Len(t, notes, 2)
	require.Equal(t, uint8(64), notes[0].Key)
	require.InDelta(t, 0.5, notes[0].End, 1e-9)
	require.Equal(t, uint8(60), notes[1].Key)
	require.InDelta(t, 1.0, notes[1].End, 1e-9)
	require.InDelta(t, 1.0, span, 1e-9)
}
