package plugin

import (
	"fmt"

	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// Wiring creates, registers and connects units, keeping the first error.
// Constructors return nil only when the engine has no factory, so check Err
// after creating units and before using them.
type Wiring struct {
	e   *engine.Engine
	err error
}

// NewWiring starts wiring into e.
func NewWiring(e *engine.Engine) *Wiring {
	return &Wiring{e: e}
}

// Err returns the first error encountered.
func (w *Wiring) Err() error {
	return w.err
}

func (w *Wiring) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Add registers units.
func (w *Wiring) Add(units ...engine.Unit) {
	for _, u := range units {
		if w.err != nil {
			return
		}
		w.fail(w.e.AddUnit(u))
	}
}

// Connect sums out into in.
func (w *Wiring) Connect(out *engine.Output, in *engine.Input) {
	if w.err != nil {
		return
	}
	if err := w.e.Connect(out, in); err != nil {
		name := "<nil>"
		if in != nil {
			name = in.Name()
		}
		w.fail(fmt.Errorf("connect to %s: %w", name, err))
	}
}

// Oscillator creates and registers a factory oscillator.
func (w *Wiring) Oscillator() engine.Oscillator {
	u, err := w.e.NewOscillator()
	w.fail(err)
	return u
}

// Filter creates and registers a factory filter.
func (w *Wiring) Filter() engine.Filter {
	u, err := w.e.NewFilter()
	w.fail(err)
	return u
}

// Envelope creates and registers a factory envelope.
func (w *Wiring) Envelope() engine.Envelope {
	u, err := w.e.NewEnvelope()
	w.fail(err)
	return u
}

// Delay creates and registers a factory delay.
func (w *Wiring) Delay(maxSeconds float64) engine.Delay {
	u, err := w.e.NewDelay(maxSeconds)
	w.fail(err)
	return u
}

// VCA creates and registers a factory VCA.
func (w *Wiring) VCA() engine.VCA {
	u, err := w.e.NewVCA()
	w.fail(err)
	return u
}

// PeakFollower creates and registers a factory peak follower.
func (w *Wiring) PeakFollower(halfLife float64) engine.PeakFollower {
	u, err := w.e.NewPeakFollower(halfLife)
	w.fail(err)
	return u
}

// Tap creates a secondary output for owner and orders it after owner.
func (w *Wiring) Tap(owner engine.Unit) *engine.Tap {
	t := engine.NewTap(w.e.Config(), owner)
	w.Add(t)
	w.Connect(owner.Output(), t.After())
	return t
}
