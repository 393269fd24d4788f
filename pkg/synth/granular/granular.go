// Package granular implements a live granular processor: incoming audio is
// recorded into a circular buffer and replayed as overlapping windowed
// grains, as a pitch-shifting looping delay or as a diffused octave-up
// shimmer.
package granular

import (
	"math"
	"math/rand"

	"github.com/justyntemme/synthgraph/pkg/dsp/delay"
	"github.com/justyntemme/synthgraph/pkg/dsp/distortion"
	"github.com/justyntemme/synthgraph/pkg/dsp/mix"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
)

// Mode selects the playback algorithm.
type Mode int

const (
	Granular Mode = iota
	LoopingDelay
	Shimmer
	NumModes
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Granular:
		return "granular"
	case LoopingDelay:
		return "looping-delay"
	case Shimmer:
		return "shimmer"
	default:
		return "unknown"
	}
}

const (
	// BufferSize is the length of the recording buffer in samples.
	BufferSize = 1 << 17
	// MaxGrains is the size of the fixed grain pool.
	MaxGrains = 32
	// DefaultSmoothing is the per-block smoothing coefficient.
	DefaultSmoothing = 0.1

	minGrainSeconds = 0.01
	maxGrainSeconds = 0.5
	maxFeedback     = 0.95
	shimmerShift    = 12
)

// Params are the smoothed controls. Pitch is in semitones, everything else
// is 0-1.
type Params struct {
	Position float64
	Size     float64
	Pitch    float64
	Density  float64
	Texture  float64
	Feedback float64
	DryWet   float64
}

// DefaultParams returns a gentle cloud.
func DefaultParams() Params {
	return Params{
		Position: 0.2,
		Size:     0.4,
		Pitch:    0,
		Density:  0.4,
		Texture:  0.3,
		Feedback: 0.2,
		DryWet:   0.5,
	}
}

func (p Params) clamped() Params {
	return Params{
		Position: utility.Clamp(p.Position, 0, 1),
		Size:     utility.Clamp(p.Size, 0, 1),
		Pitch:    utility.Clamp(p.Pitch, -24, 24),
		Density:  utility.Clamp(p.Density, 0, 1),
		Texture:  utility.Clamp(p.Texture, 0, 1),
		Feedback: utility.Clamp(p.Feedback, 0, 1),
		DryWet:   utility.Clamp(p.DryWet, 0, 1),
	}
}

type grain struct {
	active bool
	delay  float64 // distance behind the write head
	rate   float64
	length int
	age    int
	taper  float64
	gain   float64
}

// Engine is one granular processor. Not safe for concurrent use.
type Engine struct {
	sampleRate float64
	mode       Mode

	target   Params
	smoothed Params
	filters  [7]param.OnePole
	primed   bool

	mix      param.Interpolator
	feedback param.Interpolator
	lastMix  float64
	lastFb   float64
	started  bool

	buffer    *delay.Line
	grains    [MaxGrains]grain
	countdown float64
	rng       *rand.Rand

	frozen  bool
	trigger bool

	diffusers [4]*delay.AllpassDelay
	dc        *utility.DCBlocker
	fbSample  float64
}

var diffuserLengths = [4]float64{142, 107, 379, 277}

// New creates an engine. seed fixes the grain randomization.
func New(sampleRate float64, seed int64) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		target:     DefaultParams(),
		buffer:     delay.New(BufferSize),
		rng:        rand.New(rand.NewSource(seed)),
		dc:         utility.NewDCBlocker(10, sampleRate),
	}
	for i := range e.filters {
		e.filters[i].SetCoefficient(DefaultSmoothing)
	}
	for i, n := range diffuserLengths {
		e.diffusers[i] = delay.NewAllpass(int(n) + 1)
		e.diffusers[i].SetFeedback(0.6)
	}
	return e
}

// SetMode switches the playback algorithm. Running grains finish.
func (e *Engine) SetMode(m Mode) {
	if m >= 0 && m < NumModes {
		e.mode = m
	}
}

// Mode returns the playback algorithm.
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetParams sets the smoothing targets.
func (e *Engine) SetParams(p Params) {
	e.target = p
}

// SetSmoothing changes the per-block smoothing coefficient.
func (e *Engine) SetSmoothing(c float64) {
	for i := range e.filters {
		e.filters[i].SetCoefficient(c)
	}
}

// SetFreeze stops or resumes recording.
func (e *Engine) SetFreeze(on bool) {
	e.frozen = on
}

// Frozen reports whether recording is stopped.
func (e *Engine) Frozen() bool {
	return e.frozen
}

// Trigger starts a grain at the next block regardless of the clock.
func (e *Engine) Trigger() {
	e.trigger = true
}

// Smoothed returns the current smoothed parameters.
func (e *Engine) Smoothed() Params {
	return e.smoothed
}

// ActiveGrains returns the number of sounding grains.
func (e *Engine) ActiveGrains() int {
	n := 0
	for i := range e.grains {
		if e.grains[i].active {
			n++
		}
	}
	return n
}

// UpdateSmoothing moves every smoothed parameter one step toward its target.
// The first call snaps to the targets.
func (e *Engine) UpdateSmoothing() Params {
	t := e.target.clamped()
	targets := [7]float64{t.Position, t.Size, t.Pitch, t.Density, t.Texture, t.Feedback, t.DryWet}
	var v [7]float64
	for i := range e.filters {
		if !e.primed {
			e.filters[i].Immediate(targets[i])
			v[i] = targets[i]
			continue
		}
		v[i] = e.filters[i].Process(targets[i])
	}
	e.primed = true
	e.smoothed = Params{
		Position: v[0],
		Size:     v[1],
		Pitch:    v[2],
		Density:  v[3],
		Texture:  v[4],
		Feedback: v[5],
		DryWet:   v[6],
	}
	return e.smoothed
}

// Reset clears the buffer and every grain.
func (e *Engine) Reset() {
	e.buffer.Reset()
	for i := range e.grains {
		e.grains[i].active = false
	}
	for _, d := range e.diffusers {
		d.Reset()
	}
	e.dc.Reset()
	e.fbSample = 0
	e.countdown = 0
}

// Window returns the grain envelope at u in [0, 1]. A taper of 1 is a Hann
// window; smaller tapers flatten the top into a Tukey window.
func Window(u, taper float64) float64 {
	if u <= 0 || u >= 1 {
		return 0
	}
	taper = utility.Clamp(taper, 0.01, 1)
	half := taper / 2
	switch {
	case u < half:
		return 0.5 * (1 - math.Cos(math.Pi*u/half))
	case u > 1-half:
		return 0.5 * (1 - math.Cos(math.Pi*(1-u)/half))
	}
	return 1
}

func (e *Engine) grainLength(size float64) int {
	sec := minGrainSeconds * math.Pow(maxGrainSeconds/minGrainSeconds, size)
	return int(sec * e.sampleRate)
}

// spawn starts a grain reading from position, returning false when the pool
// is exhausted.
func (e *Engine) spawn(p Params, pitch, position, gain float64) bool {
	for i := range e.grains {
		g := &e.grains[i]
		if g.active {
			continue
		}
		rate := math.Exp2(pitch / 12)
		// Keep the read head inside the recording for the whole grain, frozen
		// or not. Fast grains are shortened until both ends fit.
		maxDelay := e.buffer.MaxDelay()
		length := min(e.grainLength(p.Size), int((maxDelay-8)/(rate+1)))
		lo := float64(length)*rate + 4
		hi := maxDelay - float64(length) - 4
		d := utility.Clamp(position*hi, lo, hi)
		*g = grain{
			active: true,
			delay:  d,
			rate:   rate,
			length: length,
			taper:  1 - 0.8*p.Texture,
			gain:   gain,
		}
		return true
	}
	return false
}

// Process renders len(out) samples from in. in may be nil.
func (e *Engine) Process(in, out []float32) {
	n := len(out)
	if n == 0 {
		return
	}
	p := e.UpdateSmoothing()
	if !e.started {
		e.lastMix, e.lastFb = p.DryWet, p.Feedback*maxFeedback
		e.started = true
	}
	e.mix.Init(e.lastMix, p.DryWet, n)
	e.feedback.Init(e.lastFb, p.Feedback*maxFeedback, n)
	e.lastMix, e.lastFb = p.DryWet, p.Feedback*maxFeedback

	pitch := p.Pitch
	if e.mode == Shimmer {
		pitch += shimmerShift
	}
	length := e.grainLength(p.Size)

	// Grains per second and the resulting overlap.
	var interval float64
	var gain float64
	switch e.mode {
	case Granular:
		rate := 1 + 99*p.Density*p.Density
		interval = e.sampleRate / rate
		overlap := float64(length) / interval
		gain = 1 / math.Sqrt(math.Max(1, overlap))
	default:
		// Two heads half a grain apart sum to unity under Hann windows.
		interval = float64(length) / 2
		gain = 1
	}

	if e.trigger {
		e.trigger = false
		e.countdown = 0
	}

	for i := range out {
		var x float64
		if in != nil {
			x = float64(in[i])
		}

		e.countdown--
		if e.countdown <= 0 {
			pos := p.Position
			gp := p
			if e.mode != Granular {
				gp.Texture = 0
			} else if p.Density > 0.5 {
				pos += (e.rng.Float64() - 0.5) * 0.1 * p.Texture
			}
			e.spawn(gp, pitch, pos, gain)
			next := interval
			if e.mode == Granular && p.Density > 0.5 {
				next *= 0.5 + e.rng.Float64()
			}
			e.countdown += next
			if e.countdown < 1 {
				e.countdown = 1
			}
		}

		wet := 0.0
		for k := range e.grains {
			g := &e.grains[k]
			if !g.active {
				continue
			}
			u := float64(g.age) / float64(g.length)
			wet += g.gain * Window(u, g.taper) * float64(e.buffer.ReadHermite(g.delay))
			g.age++
			g.delay -= g.rate
			if !e.frozen {
				g.delay++
			}
			if g.age >= g.length {
				g.active = false
			}
		}

		if e.mode == Shimmer {
			s := float32(wet)
			for j, d := range e.diffusers {
				s = d.Process(s, diffuserLengths[j])
			}
			wet = float64(s)
		}

		if !e.frozen {
			fb := distortion.Saturate(e.fbSample * e.feedback.Next())
			e.buffer.Write(float32(x + fb))
		} else {
			e.feedback.Next()
		}
		e.fbSample = float64(e.dc.Process(float32(wet)))

		out[i] = mix.DryWet(float32(x), float32(wet), float32(e.mix.Next()))
	}
}
