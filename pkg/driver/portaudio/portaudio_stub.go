//go:build !portaudio

// Package portaudio plays a driver.Source on the default PortAudio output
// device. Build with -tags portaudio to enable it.
package portaudio

import "github.com/justyntemme/synthgraph/pkg/driver"

// Stream is unavailable without the portaudio build tag.
type Stream struct{}

// New reports driver.ErrUnavailable.
func New(src driver.Source, opts driver.Options) (*Stream, error) {
	return nil, driver.ErrUnavailable
}

func (s *Stream) Start() error { return driver.ErrUnavailable }
func (s *Stream) Close() error { return nil }
