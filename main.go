package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/PerekhodovAnton/Tg-Music-Generator/audiofile"
	"github.com/PerekhodovAnton/Tg-Music-Generator/config"
	"github.com/PerekhodovAnton/Tg-Music-Generator/debug"
	"github.com/PerekhodovAnton/Tg-Music-Generator/render"
	"github.com/PerekhodovAnton/Tg-Music-Generator/tui"
)

func main() {
	configPath := flag.String("config", "sources.json", "render project file")
	output := flag.String("o", "", "output file, .wav or .mp3 (overrides config)")
	rate := flag.Int("rate", 0, "output sample rate (overrides config)")
	workers := flag.Int("workers", 0, "parallel note renders per source (0 = all CPUs)")
	quiet := flag.Bool("quiet", false, "plain log output, no progress UI")
	trace := flag.String("trace", "", "write a per-note render trace to this file")
	flag.Parse()

	log.SetReportTimestamp(false)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *rate > 0 {
		cfg.SampleRate = *rate
	}

	if *trace != "" {
		if err := debug.Enable(*trace); err != nil {
			log.Fatal("open trace file", "err", err)
		}
		defer debug.Disable()
	}

	renderer := &render.Renderer{SampleRate: cfg.SampleRate, Workers: *workers}

	if !*quiet && isatty.IsTerminal(os.Stdout.Fd()) {
		if err := runTUI(renderer, cfg); err != nil {
			log.Fatal("render failed", "err", err)
		}
		return
	}

	master, err := renderer.RenderAll(cfg.Sources)
	if err != nil {
		log.Fatal("render failed", "err", err)
	}
	if err := audiofile.Export(cfg.Output, master, cfg.SampleRate, cfg.Bitrate); err != nil {
		log.Fatal("export failed", "err", err)
	}
	log.Info("final mix saved", "path", cfg.Output)
}

// runTUI runs the pipeline behind a progress display. The pipeline runs
// in its own goroutine and reports back through the progress channel and
// a final DoneMsg.
func runTUI(r *render.Renderer, cfg *config.Config) error {
	// Pipeline log lines would tear the progress display.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	progress := make(chan render.Progress, 64)
	r.Progress = progress

	names := make([]string, len(cfg.Sources))
	for i, src := range cfg.Sources {
		names[i] = src.MIDIPath
	}
	p := tea.NewProgram(tui.NewModel(names))

	go func() {
		for ev := range progress {
			p.Send(tui.ProgressMsg(ev))
		}
	}()

	go func() {
		master, err := r.RenderAll(cfg.Sources)
		if err == nil {
			err = audiofile.Export(cfg.Output, master, cfg.SampleRate, cfg.Bitrate)
		}
		close(progress)
		p.Send(tui.DoneMsg{Err: err, Output: cfg.Output})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(tui.Model)
	if m.Aborted() {
		return fmt.Errorf("aborted")
	}
	return m.Err()
}
