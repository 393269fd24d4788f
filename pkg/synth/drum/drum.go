// Package drum models kick, snare and hi-hat voices as an excitation pulse
// ringing one or two band-pass modes, a tone-filtered click and, for snare
// and hi-hat, a decaying noise burst. The sum passes through a rational
// saturator so the output never reaches unity.
package drum

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/distortion"
	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
)

// Kind selects the drum model.
type Kind int

const (
	Kick Kind = iota
	Snare
	HiHat
	NumKinds
)

// String returns the model name.
func (k Kind) String() string {
	switch k {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case HiHat:
		return "hihat"
	default:
		return "unknown"
	}
}

// Params are normalized 0-1 voice controls.
type Params struct {
	Frequency float64
	Tone      float64
	Decay     float64
	Snappy    float64 // noise level, unused by the kick
}

// DefaultParams returns a neutral setting.
func DefaultParams() Params {
	return Params{Frequency: 0.5, Tone: 0.5, Decay: 0.5, Snappy: 0.5}
}

func (p Params) clamped() Params {
	return Params{
		Frequency: utility.Clamp(p.Frequency, 0, 1),
		Tone:      utility.Clamp(p.Tone, 0, 1),
		Decay:     utility.Clamp(p.Decay, 0, 1),
		Snappy:    utility.Clamp(p.Snappy, 0, 1),
	}
}

type model struct {
	minHz, octaves float64
	minTau, tau    float64
	ratios         [2]float64
	gains          [2]float64
	modes          int
	click          float64
	noise          float64
	noiseTap       filter.Tap
	noiseHz        float64
}

var models = [NumKinds]model{
	Kick: {
		minHz: 30, octaves: 3,
		minTau: 0.02, tau: 0.5,
		ratios: [2]float64{1, 0}, gains: [2]float64{0.8, 0}, modes: 1,
		click: 1.5,
	},
	Snare: {
		minHz: 100, octaves: 2,
		minTau: 0.01, tau: 0.25,
		ratios: [2]float64{1, 1.47}, gains: [2]float64{0.6, 0.35}, modes: 2,
		click: 0.8, noise: 0.9, noiseTap: filter.Bandpass, noiseHz: 4000,
	},
	HiHat: {
		minHz: 2000, octaves: 2,
		minTau: 0.005, tau: 0.15,
		ratios: [2]float64{1, 1.41}, gains: [2]float64{0.25, 0.2}, modes: 2,
		click: 0.3, noise: 1.2, noiseTap: filter.Highpass, noiseHz: 6000,
	},
}

// clickSamples is the length of the click pulse.
const clickSamples = 8

// DecayXt warps decay so the control feels linear.
func DecayXt(decay float64) float64 {
	decay = utility.Clamp(decay, 0, 1)
	return decay * (1 + decay*(decay-1))
}

// DecayTime returns the 1/e time constant in seconds of the body modes.
func DecayTime(kind Kind, decay float64) float64 {
	if kind < 0 || kind >= NumKinds {
		kind = Kick
	}
	m := models[kind]
	return m.minTau + m.tau*DecayXt(decay)
}

// Frequency returns the fundamental in Hz for a normalized frequency.
func Frequency(kind Kind, f float64) float64 {
	if kind < 0 || kind >= NumKinds {
		kind = Kick
	}
	m := models[kind]
	return m.minHz * math.Exp2(utility.Clamp(f, 0, 1)*m.octaves)
}

// Saturate is the output curve, |Saturate(x)| < 1.
func Saturate(x float64) float64 {
	return distortion.Saturate(x)
}

type mode struct {
	svf  filter.SVF
	gain float64
}

// Voice renders one drum. Not safe for concurrent use.
type Voice struct {
	kind       Kind
	model      model
	sampleRate float64

	target  Params
	applied Params
	valid   bool

	modes [2]mode

	click      filter.OnePole
	clickLeft  int
	clickLevel float64

	noise       *utility.NoiseGenerator
	noiseFilter filter.SVF
	noiseEnv    *envelope.Decay

	pending float64
	active  bool
}

// New creates a voice of the given kind. seed fixes the noise sequence.
func New(kind Kind, sampleRate float64, seed int64) *Voice {
	if kind < 0 || kind >= NumKinds {
		kind = Kick
	}
	v := &Voice{
		kind:       kind,
		model:      models[kind],
		sampleRate: sampleRate,
		target:     DefaultParams(),
		noise:      utility.NewNoiseGenerator(utility.WhiteNoise, seed),
		noiseEnv:   envelope.NewDecay(sampleRate, 0.1),
	}
	v.update(v.target.clamped())
	return v
}

// Kind returns the drum model.
func (v *Voice) Kind() Kind {
	return v.kind
}

// SetParams sets the parameters applied at the next block.
func (v *Voice) SetParams(p Params) {
	v.target = p
}

// Trigger fires the voice at the start of the next block. Several triggers
// within one block collapse into the loudest.
func (v *Voice) Trigger(accent float64) {
	accent = utility.Clamp(accent, 0, 1)
	if accent > v.pending {
		v.pending = accent
	}
}

// Active reports whether the last block produced sound.
func (v *Voice) Active() bool {
	return v.active
}

// Reset silences the voice.
func (v *Voice) Reset() {
	for i := range v.modes {
		v.modes[i].svf.Reset()
	}
	v.click.Reset()
	v.clickLeft = 0
	v.noiseFilter.Reset()
	v.noiseEnv.Trigger(0)
	v.pending = 0
	v.active = false
}

// update recomputes coefficients once per block.
func (v *Voice) update(p Params) {
	if v.valid && p == v.applied {
		return
	}
	v.applied = p
	v.valid = true
	m := v.model

	hz := Frequency(v.kind, p.Frequency)
	tau := DecayTime(v.kind, p.Decay)
	for i := 0; i < m.modes; i++ {
		f := hz * m.ratios[i] / v.sampleRate
		w := 2 * math.Pi * hz * m.ratios[i]
		// r = 2/(τω) gives an amplitude time constant of τ.
		q := tau * w / 2
		v.modes[i].svf.Set(f, q)
		v.modes[i].gain = m.gains[i]
	}

	v.click.SetCutoff(0.01 * math.Exp2(p.Tone*5.5))
	if m.noise > 0 {
		noiseHz := m.noiseHz * math.Exp2(p.Tone-0.5)
		v.noiseFilter.Set(noiseHz/v.sampleRate, 0.8)
		v.noiseEnv.SetTime(0.5 * tau)
	}
}

// Process renders len(out) samples.
func (v *Voice) Process(out []float32) {
	if len(out) == 0 {
		return
	}
	v.update(v.target.clamped())
	m := v.model

	accent := v.pending
	v.pending = 0
	if accent > 0 {
		v.clickLeft = clickSamples
		v.clickLevel = accent * m.click
		if m.noise > 0 {
			v.noiseEnv.Trigger(accent * m.noise * v.applied.Snappy)
		}
	}

	peak := 0.0
	for i := range out {
		x := 0.0
		for k := 0; k < m.modes; k++ {
			md := &v.modes[k]
			in := 0.0
			if accent > 0 {
				// An impulse of level/(2g) rings the band-pass at about level.
				in = accent * md.gain / (2 * md.svf.G())
			}
			x += md.svf.TickTap(in, filter.Bandpass)
		}
		accent = 0

		pulse := 0.0
		if v.clickLeft > 0 {
			pulse = v.clickLevel
			v.clickLeft--
		}
		x += v.click.Tick(pulse)

		if m.noise > 0 {
			if env := v.noiseEnv.Next(); env > 0 {
				n := v.noiseFilter.TickTap(float64(v.noise.Next()), m.noiseTap)
				x += env * n
			}
		}

		y := Saturate(x)
		out[i] = float32(y)
		if a := math.Abs(y); a > peak {
			peak = a
		}
	}
	v.active = peak > 1e-5
}
