package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/PerekhodovAnton/Tg-Music-Generator/midifile"
	"github.com/PerekhodovAnton/Tg-Music-Generator/render"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	path := os.Args[1]
	tempo := 120
	if len(os.Args) > 2 {
		t, err := strconv.Atoi(os.Args[2])
		if err != nil || t <= 0 {
			fmt.Fprintf(os.Stderr, "bad tempo %q\n", os.Args[2])
			os.Exit(1)
		}
		tempo = t
	}

	file, err := midifile.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(path)
	fmt.Printf("  ticks/beat:  %d\n", file.TicksPerBeat)
	fmt.Printf("  tracks:      %d\n", len(file.Tracks))

	clock := render.NewClock(file.TicksPerBeat, float64(tempo))
	notes, span := render.Schedule(file.Merged(), clock)

	fmt.Printf("  notes:       %d\n", len(notes))
	fmt.Printf("  span:        %.2fs at %d BPM\n", span, tempo)
	if len(notes) == 0 {
		return
	}

	lo, hi := notes[0].Key, notes[0].Key
	for _, n := range notes {
		if n.Key < lo {
			lo = n.Key
		}
		if n.Key > hi {
			hi = n.Key
		}
	}
	fmt.Printf("  pitch range: %d (%s) to %d (%s)\n", lo, noteName(lo), hi, noteName(hi))
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(key uint8) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], int(key)/12-1)
}

func usage() {
	fmt.Println("midiinfo - inspect a MIDI file as the renderer sees it")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  midiinfo <file.mid> [tempo]")
	fmt.Println("")
	fmt.Println("Prints resolution, track count, scheduled note count and")
	fmt.Println("total span at the given fixed tempo (default 120 BPM).")
}
