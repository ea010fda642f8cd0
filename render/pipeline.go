package render

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/PerekhodovAnton/Tg-Music-Generator/audiofile"
	"github.com/PerekhodovAnton/Tg-Music-Generator/config"
	"github.com/PerekhodovAnton/Tg-Music-Generator/debug"
	"github.com/PerekhodovAnton/Tg-Music-Generator/midifile"
)

// Progress reports how far a source's note rendering has come.
type Progress struct {
	Source string
	Done   int
	Total  int
}

// Renderer runs the full pipeline: per source, schedule notes, render
// them against the source's sample, and mix into a track; then mix all
// tracks into one master buffer.
type Renderer struct {
	SampleRate int
	Workers    int             // parallel note renders per source; <= 0 means NumCPU
	Progress   chan<- Progress // optional; sends are non-blocking and may be dropped
}

// RenderAll renders every source and mixes the tracks into one master
// buffer. Any source failure aborts the whole run: a missing or broken
// source would silently change the intended mix, so partial output is
// never produced.
func (r *Renderer) RenderAll(sources []config.Source) ([]float64, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to render")
	}

	tracks := make([][]float64, 0, len(sources))
	for _, src := range sources {
		log.Info("processing source",
			"midi", src.MIDIPath, "sample", src.SamplePath,
			"tempo", src.TempoBPM, "basePitch", src.Pitch())

		buf, dur, err := r.RenderSource(src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.MIDIPath, err)
		}
		log.Info("source rendered", "midi", src.MIDIPath, "duration", fmt.Sprintf("%.2fs", dur))
		tracks = append(tracks, buf)
	}

	return MixDown(tracks), nil
}

// RenderSource renders one MIDI file with its sample into a normalized
// track buffer, returning the buffer and its duration in seconds.
func (r *Renderer) RenderSource(src config.Source) ([]float64, float64, error) {
	sample, err := audiofile.LoadSample(src.SamplePath, r.SampleRate, src.Pitch())
	if err != nil {
		return nil, 0, err
	}

	file, err := midifile.Load(src.MIDIPath)
	if err != nil {
		return nil, 0, err
	}

	clock := NewClock(file.TicksPerBeat, float64(src.TempoBPM))
	notes, span := Schedule(file.Merged(), clock)
	debug.Log("schedule", "%s: %d notes, span %.3fs, %d ticks/beat",
		src.MIDIPath, len(notes), span, file.TicksPerBeat)

	segments, err := r.renderNotes(src.MIDIPath, notes, sample)
	if err != nil {
		return nil, 0, err
	}

	// Placement happens after all workers are done, so the buffer is
	// only ever touched from this goroutine.
	track := NewTrack(span, r.SampleRate)
	for i, seg := range segments {
		if seg == nil {
			continue
		}
		track.Place(notes[i].Start, seg)
	}

	buf, dur := track.Finish()
	return buf, dur, nil
}

// renderNotes renders every note on a bounded worker pool. Each note is
// independent of the others, so order of computation doesn't matter;
// results land in a slice indexed by note. The first render error aborts
// the source - a track with silently missing notes is worse than no
// track.
func (r *Renderer) renderNotes(source string, notes []Note, sample *audiofile.Sample) ([][]float64, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(notes) {
		workers = len(notes)
	}
	if workers < 1 {
		workers = 1
	}

	segments := make([][]float64, len(notes))
	errs := make([]error, len(notes))
	jobs := make(chan int)
	var done int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				n := notes[i]
				seg, err := RenderNote(n, sample)
				if err != nil {
					errs[i] = fmt.Errorf("note key %d at %.3fs: %w", n.Key, n.Start, err)
					debug.Log("render", "%s: FAILED key %d at %.3fs: %v", source, n.Key, n.Start, err)
				} else {
					segments[i] = seg
					debug.Log("render", "%s: key %d %.3fs-%.3fs -> %d samples",
						source, n.Key, n.Start, n.End, len(seg))
				}
				r.report(source, int(atomic.AddInt64(&done, 1)), len(notes))
			}
		}()
	}

	for i := range notes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return segments, nil
}

func (r *Renderer) report(source string, done, total int) {
	if r.Progress == nil {
		return
	}
	select {
	case r.Progress <- Progress{Source: source, Done: done, Total: total}:
	default:
	}
}
