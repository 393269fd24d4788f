// Package fx holds the effect plugins: a feedback delay and the master bus
// limiter with its meter.
package fx

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
)

// DelayURI is the delay plugin address.
const DelayURI = "delay"

// MaxDelayTime is the longest delay in seconds.
const MaxDelayTime = 2.0

// Delay is a feedback delay on the factory delay unit.
type Delay struct {
	*plugin.Base

	time     *param.Parameter
	feedback *param.Parameter
	mix      *param.Parameter

	line engine.Delay
}

// NewDelay creates the delay plugin.
func NewDelay() *Delay {
	p := &Delay{Base: plugin.NewBase(plugin.Info{
		URI:      DelayURI,
		Name:     "Delay",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryFx,
	})}
	p.AudioInput("in", "In")
	p.AudioOutput("out", "Out")
	p.time = p.Float("time", "Time").Range(0.001, MaxDelayTime).Default(0.25).
		Unit("s").Formatter(param.SecondsFormatter).Clamp().Bind()
	p.feedback = p.Float("feedback", "Feedback").Range(-0.98, 0.98).Default(0.35).
		Formatter(param.PercentFormatter).Clamp().Bind()
	p.mix = p.Float("mix", "Mix").Default(0.3).Formatter(param.PercentFormatter).Bind()
	return p
}

// Initialize implements plugin.Plugin.
func (p *Delay) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	w := plugin.NewWiring(e)
	p.line = w.Delay(MaxDelayTime)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", DelayURI, err)
	}
	p.BindInput("in", p.line.In())
	p.BindOutput("out", p.line.Output())
	return nil
}

// OnStop implements plugin.Plugin.
func (p *Delay) OnStop() {
	if p.line != nil {
		p.line.Reset()
	}
}

// Run implements plugin.Plugin.
func (p *Delay) Run(frames int) {
	p.line.SetTime(p.time.Value())
	p.line.SetFeedback(p.feedback.Value())
	p.line.SetMix(p.mix.Value())
}
