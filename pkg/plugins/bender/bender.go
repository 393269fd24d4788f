// Package bender exposes the pitch bender as a modulation plugin. The main
// output carries pitch in octaves; timbre, wobble and audio are taps of the
// same unit.
package bender

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/synth/bender"
)

// URI is the plugin address.
const URI = "bender"

const (
	cost = 1.0
	seed = 11
)

type unit struct {
	engine.Node
	bend   *bender.Engine
	timbre *engine.Tap
	wobble *engine.Tap
	audio  *engine.Tap
}

func (u *unit) Process(frames int) {
	u.bend.Process(
		u.Output().Buffer()[:frames],
		u.timbre.Buffer()[:frames],
		u.wobble.Buffer()[:frames],
		u.audio.Buffer()[:frames],
	)
}

func (u *unit) Cost() float64 { return cost }
func (u *unit) Active() bool  { return u.bend.State() != bender.Idle }

// Plugin wraps one bender.
type Plugin struct {
	*plugin.Base

	bend    *param.Parameter
	rng     *param.Parameter
	wobble  *param.Parameter
	tension *param.Parameter
	spring  *param.Parameter

	state *param.Parameter
	ratio *param.Parameter

	unit *unit
}

// New creates the bender plugin.
func New() *Plugin {
	p := &Plugin{Base: plugin.NewBase(plugin.Info{
		URI:      URI,
		Name:     "Bender",
		Version:  "1.0.0",
		Vendor:   "synthgraph",
		Category: plugin.CategoryModulator,
	})}
	d := bender.DefaultParams()
	p.AudioOutput("pitch", "Pitch")
	p.AudioOutput("timbre", "Timbre")
	p.AudioOutput("wobble", "Wobble")
	p.AudioOutput("audio", "Audio")
	p.bend = p.Float("bend", "Bend").Range(-1, 1).Default(d.Bend).Clamp().Bind()
	p.rng = p.Float("range", "Range").Range(0, 24).Default(d.Range).
		Unit("st").Formatter(param.SemitoneFormatter).Bind()
	p.wobble = p.Float("wobble", "Wobble").Default(d.Wobble).Bind()
	p.tension = p.Float("tension", "Tension").Default(d.Tension).Bind()
	p.spring = p.Float("spring", "Spring").Default(d.Spring).Bind()
	p.state = p.Int("state", "State").Range(0, float64(bender.Released)).ReadOnly().Bind()
	p.ratio = p.Float("ratio", "Ratio").Range(0, 16).Default(1).ReadOnly().Bind()
	return p
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	u := &unit{bend: bender.New(cfg.SampleRate, seed)}
	u.InitNode(cfg.BlockSize)
	p.unit = u

	w := plugin.NewWiring(e)
	w.Add(u)
	u.timbre = w.Tap(u)
	u.wobble = w.Tap(u)
	u.audio = w.Tap(u)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", URI, err)
	}
	p.BindOutput("pitch", u.Output())
	p.BindOutput("timbre", u.timbre.Output())
	p.BindOutput("wobble", u.wobble.Output())
	p.BindOutput("audio", u.audio.Output())
	return nil
}

// State returns the gesture state after the last rendered block.
func (p *Plugin) State() bender.State {
	return bender.State(p.state.Value())
}

// Run implements plugin.Plugin. The read-only controls report the state
// left by the previous block.
func (p *Plugin) Run(frames int) {
	b := p.unit.bend
	p.state.Store(float64(b.State()))
	p.ratio.Store(b.Ratio())
	b.SetParams(bender.Params{
		Bend:    p.bend.Value(),
		Range:   p.rng.Value(),
		Wobble:  p.wobble.Value(),
		Tension: p.tension.Value(),
		Spring:  p.spring.Value(),
	})
}
