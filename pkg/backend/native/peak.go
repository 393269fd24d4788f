package native

import (
	"github.com/justyntemme/synthgraph/pkg/dsp/analysis"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// PeakFollower is the native engine.PeakFollower.
type PeakFollower struct {
	engine.Node
	pf *analysis.PeakFollower
	in *engine.Input
}

// NewPeakFollower creates a follower with the given half-life in seconds.
func NewPeakFollower(cfg engine.Config, halfLife float64) *PeakFollower {
	p := &PeakFollower{pf: analysis.NewPeakFollower(cfg.SampleRate, halfLife)}
	p.InitNode(cfg.BlockSize, "in")
	p.in = p.Input("in")
	return p
}

func (p *PeakFollower) In() *engine.Input { return p.in }
func (p *PeakFollower) Cost() float64     { return costPeakFollower }
func (p *PeakFollower) Active() bool      { return p.in.Connected() }

// Peak returns the published peak. Safe from any goroutine.
func (p *PeakFollower) Peak() float64 {
	return p.pf.Peak()
}

// Process passes the input through and updates the peak.
func (p *PeakFollower) Process(frames int) {
	out := p.Output().Buffer()[:frames]
	in := p.in.Read(frames)
	if in == nil {
		clear(out)
		p.pf.Process(out, nil)
		return
	}
	copy(out, in)
	p.pf.Process(in, nil)
}
