// Package granular exposes the granular processor as a plugin.
package granular

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/synth/granular"
)

// URI is the plugin address.
const URI = "granular"

const (
	baseCost  = 2.0
	grainCost = 0.4
	seed      = 7
)

type unit struct {
	engine.Node
	proc *granular.Engine
	in   *engine.Input
}

func (u *unit) Process(frames int) {
	u.proc.Process(u.in.Read(frames), u.Output().Buffer()[:frames])
}

// Cost grows with the number of sounding grains.
func (u *unit) Cost() float64 {
	return baseCost + grainCost*float64(u.proc.ActiveGrains())
}

func (u *unit) Active() bool { return true }

// Plugin wraps a granular processor.
type Plugin struct {
	*plugin.Base

	mode     *param.Parameter
	position *param.Parameter
	size     *param.Parameter
	pitch    *param.Parameter
	density  *param.Parameter
	texture  *param.Parameter
	feedback *param.Parameter
	drywet   *param.Parameter
	freeze   *param.Parameter
	trigger  *plugin.Edge

	unit *unit
}

// New creates the granular plugin.
func New() *Plugin {
	p := &Plugin{Base: plugin.NewBase(plugin.Info{
		URI:      URI,
		Name:     "Granular",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryFx,
	})}
	d := granular.DefaultParams()
	p.AudioInput("in", "In")
	p.AudioOutput("out", "Out")
	p.mode = p.Int("mode", "Mode").Range(0, float64(granular.NumModes-1)).Bind()
	p.position = p.Float("position", "Position").Default(d.Position).Bind()
	p.size = p.Float("size", "Size").Default(d.Size).Bind()
	p.pitch = p.Float("pitch", "Pitch").Range(-24, 24).Default(d.Pitch).
		Unit("st").Formatter(param.SemitoneFormatter).Clamp().Bind()
	p.density = p.Float("density", "Density").Default(d.Density).Bind()
	p.texture = p.Float("texture", "Texture").Default(d.Texture).Bind()
	p.feedback = p.Float("feedback", "Feedback").Default(d.Feedback).Formatter(param.PercentFormatter).Bind()
	p.drywet = p.Float("drywet", "Dry/Wet").Default(d.DryWet).Formatter(param.PercentFormatter).Bind()
	p.freeze = p.Bool("freeze", "Freeze").Bind()
	p.trigger = plugin.NewEdge(p.Trigger("trigger", "Trigger").Bind())
	return p
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	u := &unit{proc: granular.New(cfg.SampleRate, seed)}
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
	g := p.unit.proc
	g.SetMode(granular.Mode(p.mode.Value()))
	g.SetFreeze(p.freeze.Value() >= 0.5)
	g.SetParams(granular.Params{
		Position: p.position.Value(),
		Size:     p.size.Value(),
		Pitch:    p.pitch.Value(),
		Density:  p.density.Value(),
		Texture:  p.texture.Value(),
		Feedback: p.feedback.Value(),
		DryWet:   p.drywet.Value(),
	})
	if p.trigger.Fired() > 0 {
		g.Trigger()
	}
}
