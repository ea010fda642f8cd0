package render_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PerekhodovAnton/Tg-Music-Generator/render"
)

func peak(buf []float64) float64 {
	var p float64
	for _, v := range buf {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}

func TestTrackOverlapAddsSamples(t *testing.T) {
	tr := render.NewTrack(0, 10) // one guard second: 10 samples

	tr.Place(0, []float64{0.5, 0.5})
	tr.Place(0.1, []float64{0.5, 0.5}) // starts at sample 1

	buf, dur := tr.Finish()
	require.Len(t, buf, 10)
	require.InDelta(t, 1.0, dur, 1e-9)

	// Overlapped middle sample summed to the peak, then normalized to 1.
	require.InDelta(t, 0.5, buf[0], 1e-9)
	require.InDelta(t, 1.0, buf[1], 1e-9)
	require.InDelta(t, 0.5, buf[2], 1e-9)
	require.InDelta(t, 1.0, peak(buf), 1e-9)
}

func TestTrackGrowsForLateNotes(t *testing.T) {
	tr := render.NewTrack(0, 10)

	tr.Place(2.0, []float64{1, 1, 1, 1, 1})

	buf, dur := tr.Finish()
	require.Len(t, buf, 25)
	require.InDelta(t, 2.5, dur, 1e-9)
	require.Equal(t, 0.0, buf[19])
	require.Equal(t, 1.0, buf[20])
}

func TestTrackSilentBufferUntouched(t *testing.T) {
	tr := render.NewTrack(1, 10)

	buf, _ := tr.Finish()
	require.Len(t, buf, 20)
	require.Equal(t, 0.0, peak(buf))
}

func TestMixDownPadsShorterTracks(t *testing.T) {
	// 5.0s and 3.0s tracks at 10 Hz.
	long := make([]float64, 50)
	short := make([]float64, 30)
	for i := range long {
		long[i] = 0.5
	}
	for i := range short {
		short[i] = 0.25
	}

	master := render.MixDown([][]float64{long, short})
	require.Len(t, master, 50)

	// Overlap sums to 0.75 and normalizes to 1; the tail only carries
	// the longer track.
	require.InDelta(t, 1.0, master[29], 1e-9)
	require.InDelta(t, 0.5/0.75, master[30], 1e-9)
	require.InDelta(t, 1.0, peak(master), 1e-9)
}

func TestMixDownSilentStaysSilent(t *testing.T) {
	master := render.MixDown([][]float64{make([]float64, 40), make([]float64, 20)})
	require.Len(t, master, 40)
	require.Equal(t, 0.0, peak(master))
}

func TestMixDownEmptyInput(t *testing.T) {
	require.Empty(t, render.MixDown(nil))
}
