package audiofile

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes buf as a 16-bit mono PCM WAV file. Samples are clipped
// to [-1, 1] before quantization; the mixer normalizes, so clipping only
// guards against stray floating-point overshoot.
func WriteWAV(path string, buf []float64, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		SourceBitDepth: 16,
		Data:           make([]int, len(buf)),
	}
	for i, v := range buf {
		v = math.Max(-1, math.Min(1, v))
		intBuf.Data[i] = int(math.Round(v * 32767))
	}

	if err := enc.Write(intBuf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}

// Export writes buf to path. WAV paths are written directly; an .mp3
// path is written as a temporary WAV first and transcoded with ffmpeg at
// the given bitrate (e.g. "192k").
func Export(path string, buf []float64, rate int, bitrate string) error {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return WriteWAV(path, buf, rate)
	}

	tmp, err := os.CreateTemp("", "render-*.wav")
	if err != nil {
		return fmt.Errorf("temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := WriteWAV(tmpPath, buf, rate); err != nil {
		return err
	}

	cmd := exec.Command("ffmpeg", "-y", "-loglevel", "error", "-i", tmpPath, "-b:a", bitrate, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg transcode to %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
