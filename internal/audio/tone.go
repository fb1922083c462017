package audio

import (
	"math"

	goaudio "github.com/go-audio/audio"
)

// ToneGenerator produces a continuous sine wave in fixed-size buffers.
type ToneGenerator struct {
	format    Format
	frequency float64
	amplitude float64
	phase     float64
}

// NewToneGenerator returns a generator at frequency Hz and amplitude in [0,1].
func NewToneGenerator(format Format, frequency, amplitude float64) *ToneGenerator {
	return &ToneGenerator{
		format:    format,
		frequency: frequency,
		amplitude: math.Max(0, math.Min(1, amplitude)),
	}
}

// Next returns the next frames PCM frames as an interleaved buffer.
func (g *ToneGenerator) Next(frames int) *goaudio.IntBuffer {
	channels := g.format.Channels
	peak := float64(int64(1)<<(g.format.BitDepth-1)-1) * g.amplitude
	step := 2 * math.Pi * g.frequency / float64(g.format.SampleRate)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		sample := int(math.Round(math.Sin(g.phase) * peak))
		for c := 0; c < channels; c++ {
			data[i*channels+c] = sample
		}
		g.phase += step
		if g.phase >= 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  g.format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: g.format.BitDepth,
	}
}
