// Package audio plays the one-shot cue that marks a completed sweep.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the playback rate of the shared audio context.
const SampleRate = 44100

// Cue is a fire-and-forget sound. PlayOnce must not block; overlapping
// calls may overlap in playback.
type Cue interface {
	PlayOnce()
}

// Nop is a silent Cue.
type Nop struct{}

func (Nop) PlayOnce() {}

var (
	contextOnce sync.Once
	sharedCtx   *audio.Context
)

// ebiten allows one audio context per process.
func audioContext() *audio.Context {
	contextOnce.Do(func() {
		sharedCtx = audio.NewContext(SampleRate)
	})
	return sharedCtx
}

// Beeper plays a short PCM clip, either decoded from a WAV file or a
// synthesized tone.
type Beeper struct {
	ctx *audio.Context
	pcm []byte
}

// NewBeeper loads the WAV file at path. An empty path, a missing file or
// one that does not decode falls back to a synthesized tone with a warning.
func NewBeeper(path string, log *slog.Logger) *Beeper {
	pcm := Tone(880, 0.12, SampleRate)
	if path != "" {
		decoded, err := LoadWAV(path)
		if err != nil {
			log.Warn("beep file unusable, using synthesized tone", "path", path, "error", err)
		} else {
			pcm = decoded
		}
	}
	return &Beeper{ctx: audioContext(), pcm: pcm}
}

// PlayOnce starts a new player for the clip and returns immediately.
func (b *Beeper) PlayOnce() {
	p := b.ctx.NewPlayerFromBytes(b.pcm)
	p.Play()
}

// LoadWAV decodes a WAV file into 16-bit stereo PCM at SampleRate.
func LoadWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open beep file: %w", err)
	}
	defer f.Close()

	stream, err := wav.DecodeWithSampleRate(SampleRate, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%s holds no samples", path)
	}
	return pcm, nil
}

// Tone synthesizes a sine beep as 16-bit little-endian stereo PCM. The
// first and last 5 ms are ramped to avoid clicks.
func Tone(freq, seconds float64, rate int) []byte {
	n := int(seconds * float64(rate))
	ramp := max(1, rate/200)

	var buf bytes.Buffer
	buf.Grow(n * 4)
	for i := 0; i < n; i++ {
		env := 1.0
		if i < ramp {
			env = float64(i) / float64(ramp)
		} else if n-1-i < ramp {
			env = float64(n-1-i) / float64(ramp)
		}
		v := int16(0.3 * env * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		_ = binary.Write(&buf, binary.LittleEndian, [2]int16{v, v})
	}
	return buf.Bytes()
}
