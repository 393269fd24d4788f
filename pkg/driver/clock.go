package driver

import (
	"sync"
	"time"
)

// Clock drives a Source in real time without a device, discarding the
// audio. It stands in for a sound card on headless machines.
type Clock struct {
	render *Renderer
	buf    []float32
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewClock creates a clock that renders opts.Frames frames per tick.
func NewClock(src Source, opts Options) *Clock {
	opts = opts.Normalize()
	if opts.Frames == 0 {
		opts.Frames = 512
	}
	return &Clock{
		render: NewRenderer(src, opts.Channels, opts.Frames),
		buf:    make([]float32, opts.Frames*opts.Channels),
		period: opts.Latency(),
	}
}

// Start begins ticking. Starting a running clock does nothing.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
	return nil
}

func (c *Clock) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.render.Render(c.buf)
		}
	}
}

// Close stops the clock and waits for the last block.
func (c *Clock) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	<-c.done
	c.stop, c.done = nil, nil
	return nil
}
