// Package wavetable exposes the morphing wavetable oscillator as a plugin
// with a clean output and a bit-crushed aux output.
package wavetable

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/synth/wavetable"
)

// URI is the plugin address.
const URI = "wavetable"

const cost = 4.0

type unit struct {
	engine.Node
	osc   *wavetable.Engine
	pitch *engine.Input
	aux   *engine.Tap
}

func (u *unit) Process(frames int) {
	var aux []float32
	if u.aux != nil {
		aux = u.aux.Buffer()[:frames]
	}
	u.osc.Process(u.pitch.Read(frames), u.Output().Buffer()[:frames], aux)
}

func (u *unit) Cost() float64 { return cost }
func (u *unit) Active() bool  { return true }

// Plugin wraps one wavetable oscillator.
type Plugin struct {
	*plugin.Base

	frequency *param.Parameter
	x, y, z   *param.Parameter
	crush     *param.Parameter
	level     *param.Parameter

	unit *unit
}

// New creates the wavetable plugin.
func New() *Plugin {
	p := &Plugin{Base: plugin.NewBase(plugin.Info{
		URI:      URI,
		Name:     "Wavetable",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryInstrument,
	})}
	d := wavetable.DefaultParams()
	p.AudioInput("pitch", "Pitch")
	p.AudioOutput("out", "Out")
	p.AudioOutput("aux", "Aux")
	p.frequency = p.Float("frequency", "Frequency").
		Range(wavetable.MinFrequency, wavetable.MaxFrequency).Default(d.Frequency).
		Unit("Hz").Formatter(param.FrequencyFormatter).Clamp().Bind()
	p.x = p.Float("x", "X").Range(0, wavetable.MaxAxis).Default(d.X).Clamp().Bind()
	p.y = p.Float("y", "Y").Range(0, wavetable.MaxAxis).Default(d.Y).Clamp().Bind()
	p.z = p.Float("z", "Z").Range(0, wavetable.MaxAxis).Default(d.Z).Clamp().Bind()
	p.crush = p.Float("crush", "Crush").Default(d.Crush).Formatter(param.PercentFormatter).Bind()
	p.level = p.Float("level", "Level").Default(d.Level).Formatter(param.PercentFormatter).Bind()
	return p
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	u := &unit{osc: wavetable.New(cfg.SampleRate, nil)}
	u.InitNode(cfg.BlockSize, "pitch")
	u.pitch = u.Input("pitch")
	p.unit = u

	w := plugin.NewWiring(e)
	w.Add(u)
	u.aux = w.Tap(u)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", URI, err)
	}
	p.BindInput("pitch", u.pitch)
	p.BindOutput("out", u.Output())
	p.BindOutput("aux", u.aux.Output())
	return nil
}

// Run implements plugin.Plugin.
func (p *Plugin) Run(frames int) {
	p.unit.osc.SetParams(wavetable.Params{
		Frequency: p.frequency.Value(),
		X:         p.x.Value(),
		Y:         p.y.Value(),
		Z:         p.z.Value(),
		Crush:     p.crush.Value(),
		Level:     p.level.Value(),
	})
}
