package plugin

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/port"
)

// ControlBuilder declares one control port. Finish with Bind.
type ControlBuilder struct {
	base *Base
	typ  port.Type
	pb   *param.Builder

	min, max float64
	clamp    bool
	trigger  bool
	readOnly bool
}

// Float starts a float control with a 0-1 range.
func (b *Base) Float(symbol, name string) *ControlBuilder {
	return &ControlBuilder{base: b, typ: port.Float, pb: param.New(symbol, name), max: 1}
}

// Int starts an integer control. Its range defines the step count.
func (b *Base) Int(symbol, name string) *ControlBuilder {
	return &ControlBuilder{base: b, typ: port.Int, pb: param.New(symbol, name), max: 1}
}

// Bool starts an on/off control.
func (b *Base) Bool(symbol, name string) *ControlBuilder {
	c := &ControlBuilder{base: b, typ: port.Bool, pb: param.New(symbol, name), max: 1}
	c.pb.Toggle()
	return c
}

// Trigger starts an edge control. Writing true counts one edge; writing
// false is accepted and ignored. Read edges with an Edge.
func (b *Base) Trigger(symbol, name string) *ControlBuilder {
	c := &ControlBuilder{base: b, typ: port.Bool, pb: param.New(symbol, name), trigger: true}
	c.pb.Range(0, math.MaxFloat64).Trigger()
	return c
}

// Range sets the min and max values
func (c *ControlBuilder) Range(min, max float64) *ControlBuilder {
	c.min, c.max = min, max
	c.pb.Range(min, max)
	return c
}

// Default sets the default value.
func (c *ControlBuilder) Default(v float64) *ControlBuilder {
	c.pb.Default(v)
	return c
}

// Unit sets the display unit.
func (c *ControlBuilder) Unit(unit string) *ControlBuilder {
	c.pb.Unit(unit)
	return c
}

// Formatter sets the display formatter.
func (c *ControlBuilder) Formatter(format func(float64) string) *ControlBuilder {
	c.pb.Formatter(format)
	return c
}

// Clamp makes out-of-range writes clamp instead of fail.
func (c *ControlBuilder) Clamp() *ControlBuilder {
	c.clamp = true
	c.pb.Clamped()
	return c
}

// ReadOnly makes a monitoring control that only the plugin writes.
func (c *ControlBuilder) ReadOnly() *ControlBuilder {
	c.readOnly = true
	c.pb.ReadOnly()
	return c
}

// Bind registers the control and returns its parameter. The audio thread
// reads the parameter directly; external writers go through SetPortValue.
func (c *ControlBuilder) Bind() *param.Parameter {
	if c.typ == port.Int && c.max > c.min {
		c.pb.Steps(int32(math.Round(c.max - c.min)))
	}
	p := c.pb.Build()
	if err := c.base.params.Add(p); err != nil {
		panic("plugin " + c.base.info.URI + ": " + err.Error())
	}

	def := port.FromNumber(c.typ, p.Default)
	if c.trigger {
		def = port.BoolValue(false)
	}
	idx := c.base.addPort(port.Port{
		Symbol:    p.Symbol,
		Name:      p.Name,
		Kind:      port.Control,
		Type:      c.typ,
		Default:   def,
		Min:       p.Min,
		Max:       p.Max,
		AutoClamp: c.clamp,
		Trigger:   c.trigger,
		ReadOnly:  c.readOnly,
	})

	ctl := &control{index: idx, param: p}
	typ := c.typ
	switch {
	case c.readOnly:
		ctl.set = func(port.Value) bool { return false }
		ctl.get = func() port.Value { return port.FromNumber(typ, p.Value()) }
	case c.trigger:
		ctl.set = func(v port.Value) bool {
			if on, _ := v.Bool(); on {
				p.Add(1)
			}
			return true
		}
		ctl.get = func() port.Value { return port.BoolValue(false) }
	case typ == port.Float:
		ctl.set = func(v port.Value) bool {
			f, _ := v.Float()
			return p.Set(f)
		}
		ctl.get = func() port.Value { return port.FloatValue(p.Value()) }
	case typ == port.Int:
		ctl.set = func(v port.Value) bool {
			n, _ := v.Int()
			return p.Set(float64(n))
		}
		ctl.get = func() port.Value { return port.IntValue(int64(math.Round(p.Value()))) }
	default:
		ctl.set = func(v port.Value) bool {
			on, _ := v.Bool()
			if on {
				p.Store(1)
			} else {
				p.Store(0)
			}
			return true
		}
		ctl.get = func() port.Value { return port.BoolValue(p.Value() >= 0.5) }
	}
	c.base.controls[p.Symbol] = ctl
	return p
}

// Edge counts trigger writes between blocks so that two triggers arriving
// in the same block are not merged into one level.
type Edge struct {
	param *param.Parameter
	seen  float64
}

// NewEdge watches a trigger parameter.
func NewEdge(p *param.Parameter) *Edge {
	return &Edge{param: p, seen: p.Value()}
}

// Fired returns the number of triggers since the last call.
func (e *Edge) Fired() int {
	v := e.param.Value()
	n := int(v - e.seen)
	e.seen = v
	if n < 0 {
		return 0
	}
	return n
}
