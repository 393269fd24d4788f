package native

import "github.com/justyntemme/synthgraph/pkg/framework/engine"

// VCA is the native engine.VCA. With nothing on its CV input it is a plain
// gain stage, which also makes it a summing bus.
type VCA struct {
	engine.Node
	level  float64
	in, cv *engine.Input
}

// NewVCA creates a unity gain VCA.
func NewVCA(cfg engine.Config) *VCA {
	v := &VCA{level: 1}
	v.InitNode(cfg.BlockSize, "in", "cv")
	v.in = v.Input("in")
	v.cv = v.Input("cv")
	return v
}

func (v *VCA) SetLevel(level float64) { v.level = level }
func (v *VCA) In() *engine.Input      { return v.in }
func (v *VCA) CV() *engine.Input      { return v.cv }
func (v *VCA) Cost() float64          { return costVCA }
func (v *VCA) Active() bool           { return v.in.Connected() }

// Process renders one block.
func (v *VCA) Process(frames int) {
	out := v.Output().Buffer()[:frames]
	in := v.in.Read(frames)
	if in == nil {
		clear(out)
		return
	}
	cv := v.cv.Read(frames)
	g := float32(v.level)
	if cv == nil {
		for i, x := range in {
			out[i] = x * g
		}
		return
	}
	for i, x := range in {
		out[i] = x * g * cv[i]
	}
}
