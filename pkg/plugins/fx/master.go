package fx

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/analysis"
	"github.com/justyntemme/synthgraph/pkg/dsp/distortion"
	"github.com/justyntemme/synthgraph/pkg/dsp/dynamics"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
)

// MasterURI is the master bus plugin address.
const MasterURI = "master"

const (
	limiterCost  = 1.0
	peakHalfLife = 0.3
	holdSeconds  = 2.0
	holdDecay    = 12.0 // dB per second once the hold expires
)

// limiter drives the bus into a waveshaper, runs the brick-wall limiter and
// holds the peak of the result.
type limiter struct {
	engine.Node
	shaper *distortion.Waveshaper
	drive  float64 // dB, 0 bypasses the shaper
	lim    *dynamics.Limiter
	meter  *analysis.PeakMeter
	hold   atomic.Uint64
	in     *engine.Input
}

func (l *limiter) Process(frames int) {
	out := l.Output().Buffer()[:frames]
	in := l.in.Read(frames)
	switch {
	case in == nil:
		clear(out)
	case l.drive > 0:
		copy(out, in)
		l.shaper.ProcessBuffer(out)
		l.lim.ProcessBuffer(out, out)
	default:
		l.lim.ProcessBuffer(in, out)
	}
	l.meter.Process(out)
	l.hold.Store(math.Float64bits(l.meter.Hold()))
}

func (l *limiter) Cost() float64 { return limiterCost }
func (l *limiter) Active() bool  { return l.in.Connected() }

// Master optionally drives everything routed into it through a waveshaper,
// limits it and meters the result. Route
// sources to its input and its output to the engine master.
type Master struct {
	*plugin.Base

	ceiling *param.Parameter
	release *param.Parameter
	drive   *param.Parameter
	shape   *param.Parameter
	peak    *param.Parameter
	hold    *param.Parameter
	gr      *param.Parameter

	lim   *limiter
	meter engine.PeakFollower
}

// NewMaster creates the master plugin.
func NewMaster() *Master {
	p := &Master{Base: plugin.NewBase(plugin.Info{
		URI:      MasterURI,
		Name:     "Master",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryFx,
	})}
	p.AudioInput("in", "In")
	p.AudioOutput("out", "Out")
	p.ceiling = p.Float("ceiling", "Ceiling").Range(-24, 0).Default(-0.3).Unit("dB").Clamp().Bind()
	p.release = p.Float("release", "Release").Range(0.001, 1).Default(0.05).
		Unit("s").Formatter(param.SecondsFormatter).Bind()
	p.drive = p.Float("drive", "Drive").Range(0, 24).Unit("dB").Clamp().Bind()
	p.shape = p.Int("shape", "Drive Shape").Range(0, float64(distortion.CurveFoldback)).
		Default(float64(distortion.CurveSoftClip)).Bind()
	p.peak = p.Float("peak", "Peak").Range(0, 4).ReadOnly().Bind()
	p.hold = p.Float("hold", "Peak Hold").Range(0, 4).ReadOnly().Bind()
	p.gr = p.Float("gr", "Gain Reduction").Range(0, 96).Unit("dB").ReadOnly().Bind()
	return p
}

// Initialize implements plugin.Plugin.
func (p *Master) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	p.lim = &limiter{
		shaper: distortion.NewWaveshaper(distortion.CurveSoftClip),
		lim:    dynamics.NewLimiter(cfg.SampleRate),
		meter:  analysis.NewPeakMeter(cfg.SampleRate),
	}
	p.lim.meter.SetHoldTime(holdSeconds)
	p.lim.meter.SetDecayRate(holdDecay)
	p.lim.InitNode(cfg.BlockSize, "in")
	p.lim.in = p.lim.Input("in")

	w := plugin.NewWiring(e)
	w.Add(p.lim)
	p.meter = w.PeakFollower(peakHalfLife)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", MasterURI, err)
	}
	w.Connect(p.lim.Output(), p.meter.In())
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", MasterURI, err)
	}
	p.BindInput("in", p.lim.in)
	p.BindOutput("out", p.meter.Output())
	return nil
}

// Peak returns the decaying output peak. Safe from any goroutine.
func (p *Master) Peak() float64 {
	if p.meter == nil {
		return 0
	}
	return p.meter.Peak()
}

// Hold returns the highest output peak of the last two seconds. Safe from
// any goroutine.
func (p *Master) Hold() float64 {
	if p.lim == nil {
		return 0
	}
	return math.Float64frombits(p.lim.hold.Load())
}

// Latency returns the limiter lookahead in samples.
func (p *Master) Latency() int {
	return p.lim.lim.LatencySamples()
}

// OnStop implements plugin.Plugin.
func (p *Master) OnStop() {
	if p.lim != nil {
		p.lim.lim.Reset()
		p.lim.meter.Reset()
		p.lim.hold.Store(0)
	}
}

// Run implements plugin.Plugin. The meter controls report the previous
// block.
func (p *Master) Run(frames int) {
	p.peak.Store(p.meter.Peak())
	p.hold.Store(p.Hold())
	p.gr.Store(p.lim.lim.GainReduction())
	p.lim.lim.SetThreshold(p.ceiling.Value())
	p.lim.lim.SetRelease(p.release.Value())
	p.lim.drive = p.drive.Value()
	p.lim.shaper.SetCurveType(distortion.CurveType(p.shape.Value()))
	p.lim.shaper.SetDrive(dsp.DbToLinear(p.lim.drive))
}
