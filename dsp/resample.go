// Package dsp provides the pure signal transforms used when fitting a
// recorded sample to a note: time stretching, pitch shifting and linear
// resampling. All functions treat their input as read-only and return a
// fresh buffer.
package dsp

import (
	"fmt"
	"math"
)

// Resample reads buf at the given playback factor using linear
// interpolation. factor > 1 speeds up (shorter output, higher pitch),
// factor < 1 slows down.
func Resample(buf []float64, factor float64) ([]float64, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("resample: empty buffer")
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("resample: invalid factor %g", factor)
	}
	if factor == 1 {
		out := make([]float64, len(buf))
		copy(out, buf)
		return out, nil
	}

	n := int(math.Round(float64(len(buf)) / factor))
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * factor
		idx := int(pos)
		if idx >= len(buf)-1 {
			out[i] = buf[len(buf)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = buf[idx]*(1-frac) + buf[idx+1]*frac
	}
	return out, nil
}
