// Package delay provides delay line implementations for audio effects
package delay

// Line is a circular delay line with fractional reads. The buffer is
// allocated once with Allocate; reads beyond the allocated length are clamped.
type Line struct {
	buffer   []float32
	writePos int
}

// New creates a delay line holding up to maxSamples of history.
func New(maxSamples int) *Line {
	d := &Line{}
	d.Allocate(maxSamples)
	return d
}

// NewSeconds creates a delay line holding maxSeconds at sampleRate. A
// non-positive duration gives a pass-through line.
func NewSeconds(maxSeconds, sampleRate float64) *Line {
	if !(maxSeconds > 0) {
		return New(0)
	}
	return New(int(maxSeconds*sampleRate) + 1)
}

// Allocate sizes the buffer for maxSamples of delay. A non-positive size
// leaves the line as a pass-through.
func (d *Line) Allocate(maxSamples int) {
	if maxSamples <= 0 {
		d.buffer = nil
		d.writePos = 0
		return
	}
	// the newest sample plus two guard samples for the Hermite neighbours
	d.buffer = make([]float32, maxSamples+3)
	d.writePos = 0
}

// MaxDelay returns the longest readable delay in samples.
func (d *Line) MaxDelay() float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	return float64(len(d.buffer) - 3)
}

// Reset clears the delay buffer
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Write adds a sample to the delay line
func (d *Line) Write(sample float32) {
	if len(d.buffer) == 0 {
		return
	}
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

func (d *Line) clamp(delaySamples float64) float64 {
	if delaySamples != delaySamples || delaySamples < 0 {
		return 0
	}
	if m := d.MaxDelay(); delaySamples > m {
		return m
	}
	return delaySamples
}

func (d *Line) at(i int) float32 {
	n := len(d.buffer)
	i %= n
	if i < 0 {
		i += n
	}
	return d.buffer[i]
}

// Read gets a delayed sample with linear interpolation. A delay of 0 returns
// the most recently written sample.
func (d *Line) Read(delaySamples float64) float32 {
	if len(d.buffer) == 0 {
		return 0
	}
	delaySamples = d.clamp(delaySamples)
	pos := float64(d.writePos-1) - delaySamples
	base := int(pos)
	if pos < 0 && float64(base) != pos {
		base--
	}
	frac := float32(pos - float64(base))
	s1 := d.at(base)
	s2 := d.at(base + 1)
	return s1 + (s2-s1)*frac
}

// ReadHermite gets a delayed sample with 4-point Hermite interpolation.
func (d *Line) ReadHermite(delaySamples float64) float32 {
	if len(d.buffer) == 0 {
		return 0
	}
	delaySamples = d.clamp(delaySamples)
	pos := float64(d.writePos-1) - delaySamples
	base := int(pos)
	if pos < 0 && float64(base) != pos {
		base--
	}
	frac := pos - float64(base)
	y0 := float64(d.at(base - 1))
	y1 := float64(d.at(base))
	y2 := float64(d.at(base + 1))
	y3 := float64(d.at(base + 2))
	return float32(hermite(y0, y1, y2, y3, frac))
}

// hermite mirrors interpolation.Hermite; it is inlined here to keep the hot
// read path free of cross-package calls.
func hermite(y0, y1, y2, y3, frac float64) float64 {
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)
	return ((c3*frac+c2)*frac+c1)*frac + y1
}

// Process writes and reads in one operation. A zero-length line returns the
// input unchanged.
func (d *Line) Process(input float32, delaySamples float64) float32 {
	if len(d.buffer) == 0 {
		return input
	}
	d.Write(input)
	return d.Read(delaySamples)
}

// ProcessBuffer processes a buffer with fixed delay - no allocations
func (d *Line) ProcessBuffer(buffer []float32, delaySamples float64) {
	for i := range buffer {
		buffer[i] = d.Process(buffer[i], delaySamples)
	}
}

// AllpassDelay implements a Schroeder allpass used for diffusion.
type AllpassDelay struct {
	Line
	feedback float32
}

// NewAllpass creates a new allpass delay
func NewAllpass(maxSamples int) *AllpassDelay {
	return &AllpassDelay{
		Line:     *New(maxSamples),
		feedback: 0.5,
	}
}

// SetFeedback sets the allpass feedback coefficient
func (a *AllpassDelay) SetFeedback(feedback float32) {
	a.feedback = feedback
}

// Process runs the allpass filter
func (a *AllpassDelay) Process(input float32, delaySamples float64) float32 {
	if len(a.buffer) == 0 {
		return input
	}
	// read before write: the stored signal is delayed by delaySamples
	delayed := a.Read(delaySamples - 1)
	v := input + delayed*a.feedback
	a.Write(v)
	return delayed - a.feedback*v
}

// Comb is a feed-forward comb, y = x + gain·x[n−d].
type Comb struct {
	Line
	gain float32
}

// NewComb creates a feed-forward comb.
func NewComb(maxSamples int) *Comb {
	return &Comb{Line: *New(maxSamples)}
}

// SetGain sets the delayed-path gain.
func (c *Comb) SetGain(g float32) {
	c.gain = g
}

// Process runs the comb.
func (c *Comb) Process(input float32, delaySamples float64) float32 {
	if len(c.buffer) == 0 {
		return input
	}
	delayed := c.Read(delaySamples - 1)
	c.Write(input)
	return input + c.gain*delayed
}
