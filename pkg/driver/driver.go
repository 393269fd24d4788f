// Package driver connects a block renderer to an audio device. The device
// callback is the audio thread: it calls Source.Process and nothing else.
package driver

import (
	"errors"
	"time"

	"github.com/tphakala/simd/f32"
)

// ErrUnavailable is returned by drivers compiled out of this build.
var ErrUnavailable = errors.New("audio driver not available in this build")

// Source renders mono audio. host.Host implements it.
type Source interface {
	Process(dst []float32)
}

// Driver plays a Source until closed.
type Driver interface {
	Start() error
	Close() error
}

// Options configure a device stream.
type Options struct {
	SampleRate int
	Channels   int // 1 or 2; mono is copied to both sides
	// Frames is the device buffer size. Zero lets the driver choose.
	Frames int
}

// Normalize fills in defaults.
func (o Options) Normalize() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = 44100
	}
	if o.Channels != 2 {
		o.Channels = 1
	}
	if o.Frames < 0 {
		o.Frames = 0
	}
	return o
}

// Latency returns the device buffer duration.
func (o Options) Latency() time.Duration {
	if o.SampleRate <= 0 {
		return 0
	}
	return time.Duration(o.Frames) * time.Second / time.Duration(o.SampleRate)
}

// Renderer pulls mono blocks from a Source into device buffers. Its scratch
// space grows only when the device asks for more frames than ever before.
type Renderer struct {
	src      Source
	channels int
	mono     []float32
}

// NewRenderer creates a renderer for a device with the given channel count.
func NewRenderer(src Source, channels int, frames int) *Renderer {
	if channels != 2 {
		channels = 1
	}
	return &Renderer{src: src, channels: channels, mono: make([]float32, frames)}
}

// Channels returns the device channel count.
func (r *Renderer) Channels() int {
	return r.channels
}

// Render fills out, which holds interleaved frames.
func (r *Renderer) Render(out []float32) {
	if r.channels == 1 {
		r.src.Process(out)
		return
	}
	frames := len(out) / 2
	if len(r.mono) < frames {
		r.mono = make([]float32, frames)
	}
	mono := r.mono[:frames]
	r.src.Process(mono)
	f32.Interleave2(out[:2*frames], mono, mono)
}
