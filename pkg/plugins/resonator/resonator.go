// Package resonator exposes the physically modeled resonator as a plugin.
// The audio input excites the resonator; the strike trigger plucks or hits
// it internally.
package resonator

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/synth/resonator"
)

// URI is the plugin address.
const URI = "resonator"

const (
	cost         = 8.0
	silenceFloor = 1e-6
)

type unit struct {
	engine.Node
	res    *resonator.Resonator
	in     *engine.Input
	active bool
}

func (u *unit) Process(frames int) {
	out := u.Output().Buffer()[:frames]
	u.res.Process(u.in.Read(frames), out)
	u.active = dsp.Peak(out) > silenceFloor
}

func (u *unit) Cost() float64 { return cost }
func (u *unit) Active() bool  { return u.active }

// Plugin wraps a resonator.
type Plugin struct {
	*plugin.Base

	mode       *param.Parameter
	frequency  *param.Parameter
	structure  *param.Parameter
	brightness *param.Parameter
	damping    *param.Parameter
	position   *param.Parameter
	mix        *param.Parameter
	accent     *param.Parameter
	strike     *plugin.Edge

	unit *unit
}

// New creates the resonator plugin.
func New() *Plugin {
	p := &Plugin{Base: plugin.NewBase(plugin.Info{
		URI:      URI,
		Name:     "Resonator",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryInstrument,
	})}
	d := resonator.DefaultParams()
	p.AudioInput("in", "Excitation")
	p.AudioOutput("out", "Out")
	p.mode = p.Int("mode", "Mode").Range(0, float64(resonator.NumModes-1)).Bind()
	p.frequency = p.Float("frequency", "Frequency").
		Range(resonator.MinFrequency, resonator.MaxFrequency).Default(d.Frequency).
		Unit("Hz").Formatter(param.FrequencyFormatter).Clamp().Bind()
	p.structure = p.Float("structure", "Structure").Default(d.Structure).Bind()
	p.brightness = p.Float("brightness", "Brightness").Default(d.Brightness).Bind()
	p.damping = p.Float("damping", "Damping").Default(d.Damping).Bind()
	p.position = p.Float("position", "Position").Default(d.Position).Bind()
	p.mix = p.Float("mix", "Mix").Default(d.Mix).Formatter(param.PercentFormatter).Bind()
	p.accent = p.Float("accent", "Accent").Default(1).Bind()
	p.strike = plugin.NewEdge(p.Trigger("strike", "Strike").Bind())
	return p
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	u := &unit{res: resonator.New(cfg.SampleRate)}
	u.InitNode(cfg.BlockSize, "in")
	u.in = u.Input("in")
	p.unit = u

	w := plugin.NewWiring(e)
	w.Add(u)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", URI, err)
	}
	p.BindInput("in", u.in)
	p.BindOutput("out", u.Output())
	return nil
}

// Run implements plugin.Plugin.
func (p *Plugin) Run(frames int) {
	r := p.unit.res
	r.SetMode(resonator.Mode(p.mode.Value()))
	r.SetParams(resonator.Params{
		Frequency:  p.frequency.Value(),
		Structure:  p.structure.Value(),
		Brightness: p.brightness.Value(),
		Damping:    p.damping.Value(),
		Position:   p.position.Value(),
		Mix:        p.mix.Value(),
	})
	if p.strike.Fired() > 0 {
		r.Strike(p.accent.Value())
	}
}
