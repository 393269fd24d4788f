//go:build !headless

// Package oto plays a driver.Source through the system mixer using oto.
package oto

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/synthgraph/pkg/driver"
)

// Player streams float32 samples to oto. oto calls Read from its own
// goroutine, which becomes the audio thread.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	render *driver.Renderer
	buf    []float32

	mu      sync.Mutex // setup and control only
	started bool
}

// New opens the oto context. Only one context may exist per process.
func New(src driver.Source, opts driver.Options) (*Player, error) {
	opts = opts.Normalize()
	if opts.Frames == 0 {
		opts.Frames = 1024
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: opts.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.Latency(),
	})
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready

	p := &Player{
		ctx:    ctx,
		render: driver.NewRenderer(src, opts.Channels, opts.Frames),
		buf:    make([]float32, opts.Frames*opts.Channels),
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read implements io.Reader for oto.
func (p *Player) Read(b []byte) (int, error) {
	n := len(b) / 4
	if n == 0 {
		return 0, nil
	}
	// Whole frames only.
	n -= n % p.render.Channels()
	if len(p.buf) < n {
		p.buf = make([]float32, n)
	}
	samples := p.buf[:n]
	p.render.Render(samples)
	return copy(b, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), n*4)), nil
}

// Start begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		p.player.Play()
		p.started = true
	}
	return nil
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
