// Package resonator implements a physically modeled resonator with three
// topologies: a modal filter bank, a plucked string and a set of coupled
// sympathetic strings.
package resonator

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/mix"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
)

// Mode selects the resonator topology.
type Mode int

const (
	Modal Mode = iota
	String
	Sympathetic
	NumModes
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Modal:
		return "modal"
	case String:
		return "string"
	case Sympathetic:
		return "sympathetic"
	default:
		return "unknown"
	}
}

// Frequency limits in Hz.
const (
	MinFrequency = 20.0
	MaxFrequency = 4000.0
)

// Params are the resonator controls. All but Frequency are 0-1.
type Params struct {
	Frequency  float64 // fundamental in Hz
	Structure  float64 // partial spacing, dispersion or chord
	Brightness float64 // high frequency content
	Damping    float64 // decay rate
	Position   float64 // excitation point
	Mix        float64 // dry/wet
}

// DefaultParams returns a mid-range setting.
func DefaultParams() Params {
	return Params{
		Frequency:  110,
		Structure:  0.5,
		Brightness: 0.5,
		Damping:    0.5,
		Position:   0.25,
		Mix:        1,
	}
}

func (p Params) clamped() Params {
	return Params{
		Frequency:  utility.Clamp(p.Frequency, MinFrequency, MaxFrequency),
		Structure:  utility.Clamp(p.Structure, 0, 1),
		Brightness: utility.Clamp(p.Brightness, 0, 1),
		Damping:    utility.Clamp(p.Damping, 0, 1),
		Position:   utility.Clamp(p.Position, 0.02, 0.98),
		Mix:        utility.Clamp(p.Mix, 0, 1),
	}
}

// DecayTime returns the amplitude time constant in seconds for a damping
// setting.
func DecayTime(damping float64) float64 {
	d := 1 - utility.Clamp(damping, 0, 1)
	return 0.01 + 1.5*d*d
}

// Resonator renders one resonator voice. It is not safe for concurrent use;
// the owning plugin feeds it a parameter snapshot once per block.
type Resonator struct {
	sampleRate float64
	mode       Mode

	target  Params
	current Params
	primed  bool
	mix     param.Interpolator

	strike float64

	modal   modalBank
	strings [numStrings]*pluckedString
	coupled sympathetic
}

// New creates a resonator in Modal mode.
func New(sampleRate float64) *Resonator {
	r := &Resonator{
		sampleRate: sampleRate,
		target:     DefaultParams(),
	}
	for i := range r.strings {
		r.strings[i] = newPluckedString(sampleRate, int64(i+1))
	}
	r.coupled.strings = r.strings
	return r
}

// SetMode switches topology. The new topology starts from rest; fading the
// mix around the switch is the caller's job.
func (r *Resonator) SetMode(m Mode) {
	if m < 0 || m >= NumModes || m == r.mode {
		return
	}
	r.mode = m
	r.Reset()
}

// Mode returns the active topology.
func (r *Resonator) Mode() Mode {
	return r.mode
}

// SetParams sets the targets for the next block.
func (r *Resonator) SetParams(p Params) {
	r.target = p
}

// Params returns the last applied parameters.
func (r *Resonator) Params() Params {
	return r.current
}

// Strike excites the resonator at the start of the next block.
func (r *Resonator) Strike(level float64) {
	if level > r.strike {
		r.strike = level
	}
}

// Reset silences every topology.
func (r *Resonator) Reset() {
	r.modal.reset()
	for _, s := range r.strings {
		s.reset()
	}
	r.strike = 0
}

// Process renders len(out) samples. in is the excitation and may be nil.
func (r *Resonator) Process(in, out []float32) {
	n := len(out)
	if n == 0 {
		return
	}
	p := r.target.clamped()
	if !r.primed {
		r.current = p
		r.primed = true
	}
	r.mix.Init(r.current.Mix, p.Mix, n)

	strike := r.strike
	r.strike = 0

	switch r.mode {
	case Modal:
		r.modal.update(p, r.sampleRate)
		r.modal.process(in, out, strike)
	case String:
		s := r.strings[0]
		s.update(p.Frequency, p, r.sampleRate, n)
		if strike > 0 {
			s.pluck(strike)
		}
		for i := range out {
			x := 0.0
			if in != nil {
				x = float64(in[i])
			}
			out[i] = float32(s.tick(x * s.inputGain))
		}
	case Sympathetic:
		r.coupled.update(p, r.sampleRate, n)
		r.coupled.process(in, out, strike)
	}

	for i := range out {
		m := float32(r.mix.Next())
		var dry float32
		if in != nil {
			dry = in[i]
		}
		out[i] = mix.DryWet(dry, out[i], m)
	}
	r.current = p
}

// phaseDelayOnePole returns the phase delay in samples of
// y += g·(x − y) at normalized angular frequency w.
func phaseDelayOnePole(g, w float64) float64 {
	b := 1 - g
	phase := -math.Atan2(b*math.Sin(w), 1-b*math.Cos(w))
	return -phase / w
}

// magnitudeOnePole returns |H| of the same filter at w.
func magnitudeOnePole(g, w float64) float64 {
	b := 1 - g
	re := 1 - b*math.Cos(w)
	im := b * math.Sin(w)
	return g / math.Hypot(re, im)
}

// phaseDelayAllPass returns the phase delay in samples of the first-order
// all-pass (a + z⁻¹)/(1 + a·z⁻¹) at w.
func phaseDelayAllPass(a, w float64) float64 {
	num := math.Atan2(-math.Sin(w), a+math.Cos(w))
	den := math.Atan2(-a*math.Sin(w), 1+a*math.Cos(w))
	return -(num - den) / w
}
