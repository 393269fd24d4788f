//go:build portaudio

// Package portaudio plays a driver.Source on the default PortAudio output
// device.
package portaudio

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"

	"github.com/justyntemme/synthgraph/pkg/driver"
)

// Stream is an open default output stream.
type Stream struct {
	stream *pa.Stream
	render *driver.Renderer
}

// New initializes PortAudio and opens the default output device.
func New(src driver.Source, opts driver.Options) (*Stream, error) {
	opts = opts.Normalize()
	if opts.Frames == 0 {
		opts.Frames = 256
	}
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	s := &Stream{render: driver.NewRenderer(src, opts.Channels, opts.Frames)}
	stream, err := pa.OpenDefaultStream(0, opts.Channels, float64(opts.SampleRate), opts.Frames, s.callback)
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("portaudio: open default stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

// callback receives interleaved frames.
func (s *Stream) callback(out []float32) {
	s.render.Render(out)
}

// Start begins playback.
func (s *Stream) Start() error {
	return s.stream.Start()
}

// Close stops the stream and terminates PortAudio.
func (s *Stream) Close() error {
	err := s.stream.Close()
	if terr := pa.Terminate(); err == nil {
		err = terr
	}
	return err
}
