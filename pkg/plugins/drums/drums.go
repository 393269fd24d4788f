// Package drums exposes the drum voice models as kick, snare and hi-hat
// plugins.
package drums

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	"github.com/justyntemme/synthgraph/pkg/synth/drum"
)

// Plugin URIs.
const (
	KickURI  = "kick"
	SnareURI = "snare"
	HiHatURI = "hihat"
)

const cost = 1.5

// unit renders a drum voice into the engine graph.
type unit struct {
	engine.Node
	voice *drum.Voice
}

func (u *unit) Process(frames int) {
	u.voice.Process(u.Output().Buffer()[:frames])
}

func (u *unit) Cost() float64 { return cost }
func (u *unit) Active() bool  { return u.voice.Active() }

// Plugin is one drum voice.
type Plugin struct {
	*plugin.Base
	kind drum.Kind
	seed int64

	frequency *param.Parameter
	tone      *param.Parameter
	decay     *param.Parameter
	snappy    *param.Parameter
	accent    *param.Parameter
	trigger   *plugin.Edge

	unit *unit
}

// New creates a drum plugin of the given kind.
func New(kind drum.Kind) *Plugin {
	var info plugin.Info
	switch kind {
	case drum.Snare:
		info = plugin.Info{URI: SnareURI, Name: "Snare"}
	case drum.HiHat:
		info = plugin.Info{URI: HiHatURI, Name: "Hi-Hat"}
	default:
		kind = drum.Kick
		info = plugin.Info{URI: KickURI, Name: "Kick"}
	}
	info.Version = "1.0.0"
	info.Vendor = "synthgraph"
	info.Category = plugin.CategoryDrum

	p := &Plugin{Base: plugin.NewBase(info), kind: kind, seed: int64(kind) + 1}
	d := drum.DefaultParams()
	p.AudioOutput("out", "Out")
	p.frequency = p.Float("frequency", "Frequency").Default(d.Frequency).
		Formatter(func(v float64) string { return param.FrequencyFormatter(drum.Frequency(kind, v)) }).Bind()
	p.tone = p.Float("tone", "Tone").Default(d.Tone).Bind()
	p.decay = p.Float("decay", "Decay").Default(d.Decay).Bind()
	if kind != drum.Kick {
		p.snappy = p.Float("snappy", "Snappy").Default(d.Snappy).Bind()
	}
	p.accent = p.Float("accent", "Accent").Default(1).Bind()
	p.trigger = plugin.NewEdge(p.Trigger("trigger", "Trigger").Bind())
	return p
}

// NewKick creates the kick plugin.
func NewKick() *Plugin { return New(drum.Kick) }

// NewSnare creates the snare plugin.
func NewSnare() *Plugin { return New(drum.Snare) }

// NewHiHat creates the hi-hat plugin.
func NewHiHat() *Plugin { return New(drum.HiHat) }

// Kind returns the drum model.
func (p *Plugin) Kind() drum.Kind {
	return p.kind
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	p.unit = &unit{voice: drum.New(p.kind, cfg.SampleRate, p.seed)}
	p.unit.InitNode(cfg.BlockSize)

	w := plugin.NewWiring(e)
	w.Add(p.unit)
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", p.URI(), err)
	}
	p.BindOutput("out", p.unit.Output())
	return nil
}

// Run implements plugin.Plugin.
func (p *Plugin) Run(frames int) {
	params := drum.Params{
		Frequency: p.frequency.Value(),
		Tone:      p.tone.Value(),
		Decay:     p.decay.Value(),
	}
	if p.snappy != nil {
		params.Snappy = p.snappy.Value()
	}
	v := p.unit.voice
	v.SetParams(params)
	if p.trigger.Fired() > 0 {
		v.Trigger(p.accent.Value())
	}
}
