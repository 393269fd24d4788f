package resonator

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/delay"
	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
	"github.com/justyntemme/synthgraph/pkg/dsp/interpolation"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
)

const numStrings = 4

// maxLoopGain keeps the loop strictly below unity at DC.
const maxLoopGain = 0.9995

// pluckedString is a Karplus-Strong loop: a fractional delay line closed
// through a brightness low-pass and a dispersion all-pass.
type pluckedString struct {
	line   *delay.Line
	pickup *delay.Comb
	damp   filter.OnePole
	disp   interpolation.AllPass
	noise  *utility.NoiseGenerator

	delay     param.Interpolator
	readDelay float64
	period    float64
	loopGain  float64
	inputGain float64
	position  float64

	burst      int
	burstLevel float64
	last       float64
	primed     bool
}

func newPluckedString(sampleRate float64, seed int64) *pluckedString {
	maxSamples := int(sampleRate/MinFrequency) + 8
	return &pluckedString{
		line:   delay.New(maxSamples),
		pickup: delay.NewComb(maxSamples),
		noise:  utility.NewNoiseGenerator(utility.WhiteNoise, seed),
	}
}

// update recomputes the loop for a fundamental of hz. The read position
// ramps across the block so pitch changes stay click free.
func (s *pluckedString) update(hz float64, p Params, sampleRate float64, frames int) {
	hz = utility.Clamp(hz, MinFrequency, sampleRate/4)
	period := sampleRate / hz
	w := 2 * math.Pi * hz / sampleRate

	cutoff := math.Min(0.45, (2+40*p.Brightness*p.Brightness)*hz/sampleRate)
	s.damp.SetCutoff(cutoff)
	g := s.damp.Coefficient()

	s.disp.SetCoefficient(0.7 * p.Structure)
	a := 0.7 * p.Structure
	if a > 0.99 {
		a = 0.99
	}

	// The line is read before the write, so Read(d) is d+1 samples old.
	d := period - 1 - phaseDelayOnePole(g, w) - phaseDelayAllPass(a, w)
	if d < 0 {
		d = 0
	}
	if limit := s.line.MaxDelay(); d > limit {
		d = limit
	}
	if !s.primed {
		s.readDelay = d
		s.primed = true
	}
	s.delay.Init(s.readDelay, d, frames)
	s.readDelay = d
	s.period = period

	tau := DecayTime(p.Damping) * sampleRate
	loop := math.Exp(-period/tau) / magnitudeOnePole(g, w)
	s.loopGain = math.Min(maxLoopGain, loop)
	s.inputGain = 1 - s.loopGain
	s.position = p.Position
}

// pluck starts a one-period noise burst.
func (s *pluckedString) pluck(level float64) {
	s.burst = int(s.period)
	s.burstLevel = level
}

func (s *pluckedString) tick(x float64) float64 {
	if s.burst > 0 {
		x += s.burstLevel * float64(s.noise.Next())
		s.burst--
	}
	// Exciting at a fraction of the length cancels the matching harmonics.
	x = 0.5 * float64(s.pickup.Process(float32(x), s.position*s.period))

	d := s.delay.Next()
	y := float64(s.line.ReadHermite(d))
	fb := s.disp.Process(s.damp.Tick(y)) * s.loopGain
	s.line.Write(float32(x + fb))
	s.last = y
	return y
}

func (s *pluckedString) reset() {
	s.line.Reset()
	s.pickup.Reset()
	s.damp.Reset()
	s.disp.Reset()
	s.burst = 0
	s.last = 0
	s.primed = false
}

// Chords lists the sympathetic string ratios selected by structure.
var Chords = [...][numStrings]float64{
	{1, 2, 3, 4},
	{1, 1.5, 2, 3},
	{1, 1.25, 1.5, 2},
	{1, 1.2, 1.5, 2},
	{1, 4.0 / 3, 16.0 / 9, 2},
}

// ChordIndex maps structure to an entry of Chords.
func ChordIndex(structure float64) int {
	i := int(math.Round(utility.Clamp(structure, 0, 1) * float64(len(Chords)-1)))
	return i
}

// couplingGain sets how much of its neighbours each string hears. It stays
// below 1/(numStrings-1) so the coupled loops remain stable.
const couplingGain = 0.15

type sympathetic struct {
	strings [numStrings]*pluckedString
}

func (c *sympathetic) update(p Params, sampleRate float64, frames int) {
	chord := Chords[ChordIndex(p.Structure)]
	// Dispersion would detune the chord, so the strings stay harmonic.
	q := p
	q.Structure = 0
	for i, s := range c.strings {
		s.update(p.Frequency*chord[i], q, sampleRate, frames)
	}
}

func (c *sympathetic) process(in, out []float32, strike float64) {
	if strike > 0 {
		c.strings[0].pluck(strike)
	}
	for i := range out {
		x := 0.0
		if in != nil {
			x = float64(in[i])
		}
		total := 0.0
		for _, s := range c.strings {
			total += s.last
		}
		sum := 0.0
		for _, s := range c.strings {
			others := total - s.last
			sum += s.tick(s.inputGain * (x + couplingGain*others))
		}
		out[i] = float32(0.5 * sum)
	}
}
