package native

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/oscillator"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// Oscillator is the native engine.Oscillator.
type Oscillator struct {
	engine.Node
	osc *oscillator.Oscillator

	frequency float64
	amplitude float64

	freqIn, pitchIn, ampIn *engine.Input
}

// NewOscillator creates a 440 Hz sine at unit amplitude.
func NewOscillator(cfg engine.Config) *Oscillator {
	o := &Oscillator{
		osc:       oscillator.New(cfg.SampleRate),
		frequency: 440,
		amplitude: 1,
	}
	o.InitNode(cfg.BlockSize, "frequency", "pitch", "amplitude")
	o.freqIn = o.Input("frequency")
	o.pitchIn = o.Input("pitch")
	o.ampIn = o.Input("amplitude")
	return o
}

func (o *Oscillator) SetWaveform(w oscillator.Waveform) { o.osc.SetWaveform(w) }
func (o *Oscillator) SetFrequency(hz float64)           { o.frequency = hz }
func (o *Oscillator) SetAmplitude(a float64)            { o.amplitude = a }
func (o *Oscillator) Reset()                            { o.osc.Reset() }
func (o *Oscillator) Frequency() *engine.Input          { return o.freqIn }
func (o *Oscillator) Pitch() *engine.Input              { return o.pitchIn }
func (o *Oscillator) Amplitude() *engine.Input          { return o.ampIn }
func (o *Oscillator) Cost() float64                     { return costOscillator }

// Active reports whether the oscillator can be heard.
func (o *Oscillator) Active() bool {
	return o.amplitude != 0
}

// Process renders one block.
func (o *Oscillator) Process(frames int) {
	out := o.Output().Buffer()[:frames]
	freq := o.freqIn.Read(frames)
	pitch := o.pitchIn.Read(frames)
	amp := o.ampIn.Read(frames)

	modulated := freq != nil || pitch != nil
	if !modulated {
		o.osc.SetFrequency(o.frequency)
	}
	for i := range out {
		if modulated {
			f := o.frequency
			if freq != nil {
				f = float64(freq[i])
			}
			if pitch != nil {
				f *= math.Exp2(float64(pitch[i]))
			}
			o.osc.SetFrequency(f)
		}
		a := o.amplitude
		if amp != nil {
			a *= float64(amp[i])
		}
		out[i] = float32(o.osc.Next() * a)
	}
}
