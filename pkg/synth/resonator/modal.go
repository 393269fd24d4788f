package resonator

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
)

// NumPartials is the size of the modal filter bank.
const NumPartials = 24

type partial struct {
	svf     filter.SVF
	amp     float64
	norm    float64 // 1/Q: unity gain at the centre frequency
	impulse float64 // strike height for a unit ring
}

type modalBank struct {
	partials [NumPartials]partial
	gain     float64
	applied  Params
	valid    bool
}

// PartialRatio returns the frequency ratio of partial n (1-based) for a
// structure setting. 0.5 is harmonic; lower compresses and higher stretches
// the series.
func PartialRatio(n int, structure float64) float64 {
	stretch := 0.5 * (structure - 0.5)
	return math.Pow(float64(n), 1+stretch)
}

// PartialAmplitude returns the excitation weight of partial n.
func PartialAmplitude(n int, position, brightness float64) float64 {
	return math.Abs(math.Sin(math.Pi*float64(n)*position)) *
		math.Pow(float64(n), -2*(1-brightness))
}

func (b *modalBank) update(p Params, sampleRate float64) {
	if b.valid && p.Frequency == b.applied.Frequency && p.Structure == b.applied.Structure &&
		p.Brightness == b.applied.Brightness && p.Damping == b.applied.Damping &&
		p.Position == b.applied.Position {
		return
	}
	b.applied = p
	b.valid = true

	tau := DecayTime(p.Damping)
	sum := 0.0
	for i := range b.partials {
		n := i + 1
		pt := &b.partials[i]
		hz := p.Frequency * PartialRatio(n, p.Structure)
		f := hz / sampleRate
		if f >= 0.45 {
			pt.amp = 0
			continue
		}
		// Dark settings shorten the upper partials.
		tauN := tau / (1 + 0.15*float64(n-1)*(1-p.Brightness))
		q := math.Max(0.5, math.Min(1e5, math.Pi*hz*tauN))
		pt.svf.Set(f, q)
		pt.amp = PartialAmplitude(n, p.Position, p.Brightness)
		pt.norm = 1 / q
		pt.impulse = q / (2 * pt.svf.G())
		sum += pt.amp
	}
	b.gain = 1 / math.Max(1, sum)
}

func (b *modalBank) process(in, out []float32, strike float64) {
	for i := range out {
		x := 0.0
		if in != nil {
			x = float64(in[i])
		}
		y := 0.0
		for k := range b.partials {
			pt := &b.partials[k]
			if pt.amp == 0 {
				continue
			}
			e := x
			if strike > 0 {
				e += strike * pt.impulse
			}
			y += pt.amp * pt.norm * pt.svf.TickTap(e, filter.Bandpass)
		}
		strike = 0
		out[i] = float32(y * b.gain)
	}
}

func (b *modalBank) reset() {
	for i := range b.partials {
		b.partials[i].svf.Reset()
	}
}
