package engine

import "github.com/justyntemme/synthgraph/pkg/dsp"

// Unit is the smallest schedulable primitive: zero or more inputs and exactly
// one output, processed once per block in graph order.
//
// Implementations embed Node, which supplies the connectors and seals the
// interface to this package's bookkeeping.
type Unit interface {
	// Process renders frames samples into the output buffer. It runs on the
	// audio thread and must not allocate, block or panic.
	Process(frames int)
	Output() *Output
	Inputs() []*Input
	// Cost is the advisory CPU weight in percent while Active.
	Cost() float64
	Active() bool

	base() *Node
}

// Output is the block buffer a unit renders into.
type Output struct {
	node *Node
	buf  []float32
}

// Buffer returns the whole block buffer.
func (o *Output) Buffer() []float32 {
	return o.buf
}

// Input is a named connector. Every connected output is summed into it.
type Input struct {
	name    string
	node    *Node
	sources []*Output
	sum     []float32
}

// Name returns the connector name.
func (in *Input) Name() string {
	return in.name
}

// Connected reports whether at least one output feeds this input.
func (in *Input) Connected() bool {
	return len(in.sources) > 0
}

// Read returns the summed signal of all sources for the current block, or nil
// when nothing is connected. The slice is only valid until the next block.
func (in *Input) Read(frames int) []float32 {
	switch len(in.sources) {
	case 0:
		return nil
	case 1:
		return in.sources[0].buf[:frames]
	}
	s := in.sum[:frames]
	copy(s, in.sources[0].buf[:frames])
	for _, src := range in.sources[1:] {
		dsp.Add(s, src.buf[:frames])
	}
	return s
}

// Node carries the connectors of a unit. Embed it and call InitNode from the
// unit constructor.
type Node struct {
	out    Output
	inputs []*Input
	eng    *Engine
}

// InitNode allocates the output buffer and the named inputs.
func (n *Node) InitNode(blockSize int, inputs ...string) {
	if blockSize < 1 {
		blockSize = 1
	}
	n.out = Output{node: n, buf: make([]float32, blockSize)}
	n.inputs = make([]*Input, len(inputs))
	for i, name := range inputs {
		n.inputs[i] = &Input{name: name, node: n}
	}
}

// Output returns the unit output.
func (n *Node) Output() *Output {
	return &n.out
}

// Inputs returns the unit inputs in declaration order.
func (n *Node) Inputs() []*Input {
	return n.inputs
}

// Input returns the named input, or nil.
func (n *Node) Input(name string) *Input {
	for _, in := range n.inputs {
		if in.name == name {
			return in
		}
	}
	return nil
}

// Engine returns the engine the unit is registered with, or nil.
func (n *Node) Engine() *Engine {
	return n.eng
}

func (n *Node) base() *Node {
	return n
}
