package engine

// Tap is an extra output of a unit that renders several signals at once.
// The owner writes into the tap's buffer from its own Process; the tap's
// input is fed by the owner only so that every reader is ordered after it.
type Tap struct {
	Node
	owner Unit
	after *Input
}

// NewTap creates a tap for owner. Register it and connect owner's output to
// After before Start.
func NewTap(cfg Config, owner Unit) *Tap {
	t := &Tap{owner: owner}
	t.InitNode(cfg.BlockSize, "after")
	t.after = t.Input("after")
	return t
}

// After is the ordering input.
func (t *Tap) After() *Input {
	return t.after
}

// Buffer returns the block buffer the owner writes into.
func (t *Tap) Buffer() []float32 {
	return t.out.buf
}

// Process does nothing; the owner has already rendered the block.
func (t *Tap) Process(frames int) {}

// Cost is zero; the owner accounts for the work.
func (t *Tap) Cost() float64 { return 0 }

// Active follows the owner.
func (t *Tap) Active() bool { return t.owner.Active() }
