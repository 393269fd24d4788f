package native

import (
	"github.com/justyntemme/synthgraph/pkg/dsp/delay"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// Delay is the native engine.Delay, a feedback delay with dry/wet mix.
type Delay struct {
	engine.Node
	line       *delay.Line
	sampleRate float64

	time     float64
	feedback float64
	mix      float64

	in, timeIn *engine.Input
}

// NewDelay creates a delay of up to maxSeconds. A non-positive maximum makes
// a pass-through.
func NewDelay(cfg engine.Config, maxSeconds float64) *Delay {
	d := &Delay{
		line:       delay.NewSeconds(maxSeconds, cfg.SampleRate),
		sampleRate: cfg.SampleRate,
		time:       maxSeconds / 2,
		mix:        0.5,
	}
	d.InitNode(cfg.BlockSize, "in", "time")
	d.in = d.Input("in")
	d.timeIn = d.Input("time")
	return d
}

func (d *Delay) SetTime(seconds float64) { d.time = seconds }
func (d *Delay) SetMix(mix float64)      { d.mix = utility.Clamp(mix, 0, 1) }
func (d *Delay) Reset()                  { d.line.Reset() }
func (d *Delay) In() *engine.Input       { return d.in }
func (d *Delay) Time() *engine.Input     { return d.timeIn }
func (d *Delay) Cost() float64           { return costDelay }
func (d *Delay) Active() bool            { return d.in.Connected() }

// SetFeedback sets the feedback gain, limited to ±0.98.
func (d *Delay) SetFeedback(fb float64) {
	d.feedback = utility.Clamp(fb, -0.98, 0.98)
}

// Process renders one block.
func (d *Delay) Process(frames int) {
	out := d.Output().Buffer()[:frames]
	in := d.in.Read(frames)
	mod := d.timeIn.Read(frames)

	if d.line.MaxDelay() == 0 {
		if in == nil {
			clear(out)
		} else {
			copy(out, in)
		}
		return
	}

	fb := float32(d.feedback)
	wetGain := float32(d.mix)
	dryGain := 1 - wetGain
	for i := range out {
		t := d.time
		if mod != nil {
			t += float64(mod[i])
		}
		var x float32
		if in != nil {
			x = in[i]
		}
		// The write below happens after the read, so one sample of the delay
		// is already spent.
		wet := d.line.Read(t*d.sampleRate - 1)
		d.line.Write(x + fb*wet)
		out[i] = x*dryGain + wet*wetGain
	}
}
