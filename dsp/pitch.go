package dsp

import (
	"math"
)

// PitchShift transposes buf by the given number of semitones without
// changing its duration. It stretches the signal by the inverse of the
// pitch factor, then resamples the result back to the original length.
// A zero offset returns an unmodified copy. rate is the sample rate of
// buf; the transform itself is rate-independent but callers pass it so
// the contract matches the other collaborators.
func PitchShift(buf []float64, rate int, semitones int) ([]float64, error) {
	if semitones == 0 {
		out := make([]float64, len(buf))
		copy(out, buf)
		return out, nil
	}

	factor := math.Pow(2, float64(semitones)/12)

	stretched, err := TimeStretch(buf, 1/factor)
	if err != nil {
		return nil, err
	}
	return Resample(stretched, factor)
}
