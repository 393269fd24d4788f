// Package native implements the engine's primitive units in pure Go on top
// of the pkg/dsp building blocks.
package native

import "github.com/justyntemme/synthgraph/pkg/framework/engine"

// Advisory cost per active unit, in percent of one core at 44.1 kHz.
const (
	costOscillator   = 0.5
	costFilter       = 0.4
	costEnvelope     = 0.1
	costDelay        = 0.3
	costVCA          = 0.05
	costPeakFollower = 0.05
)

// Factory creates native units.
type Factory struct{}

// NewFactory returns the native unit factory.
func NewFactory() Factory {
	return Factory{}
}

// NewOscillator implements engine.Factory.
func (Factory) NewOscillator(cfg engine.Config) engine.Oscillator {
	return NewOscillator(cfg)
}

// NewFilter implements engine.Factory.
func (Factory) NewFilter(cfg engine.Config) engine.Filter {
	return NewFilter(cfg)
}

// NewEnvelope implements engine.Factory.
func (Factory) NewEnvelope(cfg engine.Config) engine.Envelope {
	return NewEnvelope(cfg)
}

// NewDelay implements engine.Factory.
func (Factory) NewDelay(cfg engine.Config, maxSeconds float64) engine.Delay {
	return NewDelay(cfg, maxSeconds)
}

// NewVCA implements engine.Factory.
func (Factory) NewVCA(cfg engine.Config) engine.VCA {
	return NewVCA(cfg)
}

// NewPeakFollower implements engine.Factory.
func (Factory) NewPeakFollower(cfg engine.Config, halfLife float64) engine.PeakFollower {
	return NewPeakFollower(cfg, halfLife)
}

var _ engine.Factory = Factory{}
