package native

import (
	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// Envelope is the native engine.Envelope.
type Envelope struct {
	engine.Node
	env    *envelope.DAHDSR
	gateIn *engine.Input
}

// NewEnvelope creates an envelope with the default times.
func NewEnvelope(cfg engine.Config) *Envelope {
	e := &Envelope{env: envelope.New(cfg.SampleRate)}
	e.InitNode(cfg.BlockSize, "gate")
	e.gateIn = e.Input("gate")
	return e
}

func (e *Envelope) SetTimes(t envelope.Times) { e.env.SetTimes(t) }
func (e *Envelope) Trigger()                  { e.env.Trigger() }
func (e *Envelope) Release()                  { e.env.Release() }
func (e *Envelope) Reset()                    { e.env.Reset() }
func (e *Envelope) Gate() *engine.Input       { return e.gateIn }
func (e *Envelope) Cost() float64             { return costEnvelope }
func (e *Envelope) Active() bool              { return e.env.IsActive() }

// Level returns the last rendered envelope value.
func (e *Envelope) Level() float64 {
	return e.env.Value()
}

// Stage returns the current envelope stage.
func (e *Envelope) Stage() envelope.Stage {
	return e.env.Stage()
}

// Process renders one block.
func (e *Envelope) Process(frames int) {
	e.env.ProcessGated(e.Output().Buffer()[:frames], e.gateIn.Read(frames))
}
