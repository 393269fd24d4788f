package plugin

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

// control is the typed accessor pair behind one control port.
type control struct {
	index int
	param *param.Parameter
	set   func(port.Value) bool
	get   func() port.Value
}

// Base provides core functionality for all plugins: the port list, the
// control registry and the connector maps. Embed *Base and override the
// lifecycle methods that need work.
type Base struct {
	info     Info
	params   *param.Registry
	ports    []port.Port
	controls map[string]*control

	inputs  map[string]*engine.Input
	outputs map[string]*engine.Output
	engine  *engine.Engine
}

// NewBase creates a new plugin base
func NewBase(info Info) *Base {
	return &Base{
		info:     info,
		params:   param.NewRegistry(),
		controls: make(map[string]*control),
		inputs:   make(map[string]*engine.Input),
		outputs:  make(map[string]*engine.Output),
	}
}

// Info returns the plugin metadata.
func (b *Base) Info() Info {
	return b.info
}

// URI returns the plugin address.
func (b *Base) URI() string {
	return b.info.URI
}

// Parameters returns the parameter registry backing the control ports.
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// Ports returns the port list in declaration order.
func (b *Base) Ports() []port.Port {
	return b.ports
}

// SetPortValue implements Plugin.
func (b *Base) SetPortValue(symbol string, value port.Value) bool {
	c, ok := b.controls[symbol]
	if !ok || !b.ports[c.index].Accepts(value) {
		return false
	}
	return c.set(value)
}

// PortValue implements Plugin.
func (b *Base) PortValue(symbol string) (port.Value, bool) {
	c, ok := b.controls[symbol]
	if !ok {
		return port.Value{}, false
	}
	return c.get(), true
}

// ConnectPort implements Plugin. Block based plugins have nothing to bind.
func (b *Base) ConnectPort(index int, data []float32) {}

// OnStart implements Plugin.
func (b *Base) OnStart() {}

// OnStop implements Plugin.
func (b *Base) OnStop() {}

// Run implements Plugin.
func (b *Base) Run(frames int) {}

// Inputs returns the named input connectors bound in Initialize.
func (b *Base) Inputs() map[string]*engine.Input {
	return b.inputs
}

// Outputs returns the named output connectors bound in Initialize.
func (b *Base) Outputs() map[string]*engine.Output {
	return b.outputs
}

// Engine returns the engine passed to Attach.
func (b *Base) Engine() *engine.Engine {
	return b.engine
}

// Attach records the shared engine. Plugins call it first in Initialize.
func (b *Base) Attach(e *engine.Engine) error {
	if e == nil {
		return fmt.Errorf("plugin %s: %w", b.info.URI, ErrNoEngine)
	}
	b.engine = e
	return nil
}

// AudioInput declares an audio input port.
func (b *Base) AudioInput(symbol, name string) {
	b.addPort(port.Port{Symbol: symbol, Name: name, Kind: port.AudioInput})
}

// AudioOutput declares an audio output port.
func (b *Base) AudioOutput(symbol, name string) {
	b.addPort(port.Port{Symbol: symbol, Name: name, Kind: port.AudioOutput})
}

// BindInput attaches an engine input to a declared audio input port.
func (b *Base) BindInput(symbol string, in *engine.Input) {
	b.inputs[symbol] = in
}

// BindOutput attaches an engine output to a declared audio output port.
func (b *Base) BindOutput(symbol string, out *engine.Output) {
	b.outputs[symbol] = out
}

func (b *Base) addPort(p port.Port) int {
	for _, existing := range b.ports {
		if existing.Symbol == p.Symbol {
			panic(fmt.Sprintf("plugin %s: duplicate port %q", b.info.URI, p.Symbol))
		}
	}
	p.Index = len(b.ports)
	b.ports = append(b.ports, p)
	return p.Index
}
