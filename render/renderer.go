package render

import (
	"fmt"
	"math"

	"github.com/PerekhodovAnton/Tg-Music-Generator/audiofile"
	"github.com/PerekhodovAnton/Tg-Music-Generator/dsp"
)

// RenderNote produces the audio segment for one note: the source's
// sample transposed to the note's key and fitted to the note's exact
// duration. The segment always has exactly round(duration*rate) samples,
// regardless of how the stretch algorithm rounds internally. A note with
// no positive duration returns a nil segment and no error.
func RenderNote(n Note, sample *audiofile.Sample) ([]float64, error) {
	dur := n.Duration()
	if dur <= 0 {
		return nil, nil
	}

	offset := int(n.Key) - int(sample.BasePitch)
	shifted, err := dsp.PitchShift(sample.Data, sample.Rate, offset)
	if err != nil {
		return nil, fmt.Errorf("pitch shift %+d semitones: %w", offset, err)
	}

	target := int(math.Round(dur * float64(sample.Rate)))
	if target == 0 {
		return nil, nil
	}

	natural := float64(len(shifted)) / float64(sample.Rate)
	if natural > dur {
		return shifted[:target], nil
	}

	stretched, err := dsp.TimeStretch(shifted, natural/dur)
	if err != nil {
		return nil, fmt.Errorf("time stretch ratio %.4f: %w", natural/dur, err)
	}
	return fitLength(stretched, target), nil
}

// fitLength trims or zero-pads buf to exactly n samples.
func fitLength(buf []float64, n int) []float64 {
	if len(buf) >= n {
		return buf[:n]
	}
	return append(buf, make([]float64, n-len(buf))...)
}
