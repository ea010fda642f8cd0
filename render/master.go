package render

// MixDown combines track buffers into one master buffer: every track is
// zero-padded to the longest one, all are summed sample by sample, and
// the result is peak-normalized (silent input stays silent).
func MixDown(tracks [][]float64) []float64 {
	var maxLen int
	for _, t := range tracks {
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}

	master := make([]float64, maxLen)
	for _, t := range tracks {
		for i, v := range t {
			master[i] += v
		}
	}

	normalize(master)
	return master
}
