// Package audiofile handles the audio file boundaries of the renderer:
// loading reference samples and writing the finished mix.
package audiofile

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Sample is a decoded reference recording. Data is mono, already at the
// render sample rate, and shared read-only across all note renders of a
// source.
type Sample struct {
	Data      []float64
	Rate      int
	BasePitch uint8
}

// Duration returns the natural length of the sample in seconds.
func (s *Sample) Duration() float64 {
	return float64(len(s.Data)) / float64(s.Rate)
}

// LoadSample decodes the WAV file at path, resamples it to rate and
// downmixes it to mono. basePitch is the MIDI note the recording
// represents.
func LoadSample(path string, rate int, basePitch uint8) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode sample %s: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != beep.SampleRate(rate) {
		src = beep.Resample(4, format.SampleRate, beep.SampleRate(rate), stream)
	}

	var data []float64
	frames := make([][2]float64, 512)
	for {
		n, ok := src.Stream(frames)
		for _, fr := range frames[:n] {
			data = append(data, (fr[0]+fr[1])/2)
		}
		if !ok {
			break
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("sample %s: no audio data", path)
	}

	return &Sample{Data: data, Rate: rate, BasePitch: basePitch}, nil
}
