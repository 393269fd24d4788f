package native

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// Filter is the native engine.Filter, a zero-delay-feedback SVF.
type Filter struct {
	engine.Node
	svf  *filter.SVF
	mode filter.Tap

	// morph >= 0 blends the taps instead of reading mode.
	morph float64

	cutoff    float64
	resonance float64

	in, cutoffIn *engine.Input
}

// NewFilter creates a low-pass at a quarter of the sample rate.
func NewFilter(cfg engine.Config) *Filter {
	f := &Filter{
		svf:       filter.NewSVF(0.25, 0.707),
		cutoff:    0.25,
		resonance: 0.707,
		morph:     -1,
	}
	f.InitNode(cfg.BlockSize, "in", "cutoff")
	f.in = f.Input("in")
	f.cutoffIn = f.Input("cutoff")
	return f
}

func (f *Filter) SetCutoff(c float64)        { f.cutoff = c }
func (f *Filter) SetResonance(q float64)     { f.resonance = q }
func (f *Filter) SetMode(mode filter.Tap)    { f.mode, f.morph = mode, -1 }
func (f *Filter) Reset()                     { f.svf.Reset() }
func (f *Filter) In() *engine.Input          { return f.in }
func (f *Filter) Cutoff() *engine.Input      { return f.cutoffIn }
func (f *Filter) Cost() float64              { return costFilter }
func (f *Filter) Active() bool               { return f.in.Connected() }
func (f *Filter) State() (cutoff, q float64) { return f.svf.Cutoff(), f.svf.Resonance() }

// SetMorph blends low-pass (0), band-pass (0.5) and high-pass (1) until the
// next SetMode.
func (f *Filter) SetMorph(m float64) {
	if math.IsNaN(m) {
		m = 0
	}
	f.morph = math.Max(0, math.Min(1, m))
}

// Process renders one block.
func (f *Filter) Process(frames int) {
	out := f.Output().Buffer()[:frames]
	in := f.in.Read(frames)
	mod := f.cutoffIn.Read(frames)

	if mod == nil && (f.svf.Cutoff() != f.cutoff || f.svf.Resonance() != f.resonance) {
		f.svf.Set(f.cutoff, f.resonance)
	}
	for i := range out {
		if mod != nil {
			f.svf.Set(f.cutoff+float64(mod[i]), f.resonance)
		}
		x := 0.0
		if in != nil {
			x = float64(in[i])
		}
		if f.morph >= 0 {
			out[i] = float32(f.svf.TickMorph(x, f.morph))
		} else {
			out[i] = float32(f.svf.TickTap(x, f.mode))
		}
	}
}
