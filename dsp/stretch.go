package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
)

// STFT parameters for the phase vocoder. 75% overlap on the synthesis side.
const (
	frameSize    = 2048
	synthesisHop = frameSize / 4
)

// TimeStretch changes the duration of buf without changing its pitch.
// ratio = originalLength/targetLength: ratio > 1 shortens, ratio < 1 lengthens.
// Output length is round(len(buf)/ratio).
func TimeStretch(buf []float64, ratio float64) ([]float64, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("time stretch: empty buffer")
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("time stretch: invalid ratio %g", ratio)
	}

	target := int(math.Round(float64(len(buf)) / ratio))
	if target == 0 {
		return []float64{}, nil
	}
	if ratio == 1 {
		out := make([]float64, len(buf))
		copy(out, buf)
		return out, nil
	}

	// Pad short inputs up to one frame so the STFT always has material.
	in := buf
	if len(in) < frameSize {
		in = make([]float64, frameSize)
		copy(in, buf)
	}

	// Enough analysis frames to cover the whole input; frames that read
	// past the end are zero-padded by the copy loop below.
	analysisHop := float64(synthesisHop) * ratio
	numFrames := int(math.Ceil(float64(len(in)) / analysisHop))
	if numFrames < 1 {
		numFrames = 1
	}

	window := hannWindow(frameSize)
	out := make([]float64, (numFrames-1)*synthesisHop+frameSize)
	norm := make([]float64, len(out))

	prevPhase := make([]float64, frameSize)
	phaseAcc := make([]float64, frameSize)
	frame := make([]float64, frameSize)
	spectrum := make([]complex128, frameSize)

	for i := 0; i < numFrames; i++ {
		pos := int(math.Round(float64(i) * analysisHop))
		for j := 0; j < frameSize; j++ {
			if pos+j < len(in) {
				frame[j] = in[pos+j] * window[j]
			} else {
				frame[j] = 0
			}
		}

		bins := fft.FFTReal(frame)

		for k := 0; k < frameSize; k++ {
			mag := cmplx.Abs(bins[k])
			phase := cmplx.Phase(bins[k])

			// Expected phase advance of bin k over one analysis hop.
			omega := 2 * math.Pi * float64(k) / frameSize * analysisHop
			if i == 0 {
				phaseAcc[k] = phase
			} else {
				deviation := wrapPhase(phase - prevPhase[k] - omega)
				trueAdvance := (omega + deviation) / analysisHop
				phaseAcc[k] = wrapPhase(phaseAcc[k] + trueAdvance*float64(synthesisHop))
			}
			prevPhase[k] = phase
			spectrum[k] = cmplx.Rect(mag, phaseAcc[k])
		}

		resynth := fft.IFFT(spectrum)
		base := i * synthesisHop
		for j := 0; j < frameSize; j++ {
			out[base+j] += real(resynth[j]) * window[j]
			norm[base+j] += window[j] * window[j]
		}
	}

	// Compensate the overlapped window energy.
	for i := range out {
		if norm[i] > 1e-9 {
			out[i] /= norm[i]
		}
	}

	if target > len(out) {
		out = append(out, make([]float64, target-len(out))...)
	}
	return out[:target], nil
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// wrapPhase maps an angle into (-pi, pi].
func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}
