// Package bender turns a bipolar bend gesture into modulation outputs and
// two audible side effects: a tension drone while the gesture is held and a
// spring transient when it snaps back to centre.
package bender

import (
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/dsp/modulation"
	"github.com/justyntemme/synthgraph/pkg/dsp/oscillator"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
)

// State is the gesture state.
type State int

const (
	Idle State = iota
	Bending
	Released
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Bending:
		return "bending"
	case Released:
		return "released"
	}
	return "unknown"
}

// Threshold is the |bend| above which a gesture counts as held.
const Threshold = 0.05

const (
	droneBaseHz  = 55.0
	springBaseHz = 90.0
	springSweep  = 300.0
	springTau    = 0.25
	maxWobbleHz  = 8.0
)

// Params are the bender controls.
type Params struct {
	Bend    float64 // -1..1
	Range   float64 // semitones at full bend
	Wobble  float64 // 0-1 wobble depth
	Tension float64 // 0-1 drone level
	Spring  float64 // 0-1 spring level
}

// DefaultParams returns a two semitone bend with both side effects on.
func DefaultParams() Params {
	return Params{Range: 2, Wobble: 0.5, Tension: 0.5, Spring: 0.7}
}

// TensionCurve shapes the bend so that the last part of the travel moves
// furthest.
func TensionCurve(bend float64) float64 {
	return bend * (1 + 0.5*math.Abs(bend))
}

// PitchOctaves returns the pitch offset in octaves for a bend and range.
func PitchOctaves(bend, rangeSemitones float64) float64 {
	return TensionCurve(bend) * rangeSemitones / 12
}

// Engine renders one bender. Not safe for concurrent use.
type Engine struct {
	sampleRate float64
	target     Params
	state      State

	pitch    float64
	timbre   float64
	primed   bool
	gesture  float64 // largest |bend| of the current gesture
	tensions int
	springs  int

	wobble  *modulation.LFO
	drone   *oscillator.Oscillator
	droneEn *envelope.AR
	spring  *oscillator.Oscillator
	springE *envelope.Decay
}

// New creates a bender. seed fixes the wobble sequence.
func New(sampleRate float64, seed int64) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		target:     DefaultParams(),
		wobble:     modulation.NewLFO(sampleRate, seed),
		drone:      oscillator.New(sampleRate),
		droneEn:    envelope.NewAR(sampleRate),
		spring:     oscillator.New(sampleRate),
		springE:    envelope.NewDecay(sampleRate, springTau),
	}
	e.wobble.SetWaveform(modulation.WaveformSmoothRandom)
	e.drone.SetWaveform(oscillator.Triangle)
	e.droneEn.SetAttack(0.05)
	e.droneEn.SetRelease(0.2)
	e.spring.SetWaveform(oscillator.Sine)
	return e
}

// SetParams sets the gesture for the next block.
func (e *Engine) SetParams(p Params) {
	e.target = p
}

// State returns the gesture state.
func (e *Engine) State() State {
	return e.state
}

// Pitch returns the pitch offset in octaves at the end of the last block.
func (e *Engine) Pitch() float64 {
	return e.pitch
}

// Ratio returns the frequency ratio at the end of the last block.
func (e *Engine) Ratio() float64 {
	return math.Exp2(e.pitch)
}

// TensionCount returns how many times the drone has been armed.
func (e *Engine) TensionCount() int {
	return e.tensions
}

// SpringCount returns how many times the spring has been armed.
func (e *Engine) SpringCount() int {
	return e.springs
}

// Reset returns to idle and silences both side effects.
func (e *Engine) Reset() {
	e.state = Idle
	e.gesture = 0
	e.droneEn.Release()
	e.springE.Trigger(0)
	e.wobble.Reset()
	e.primed = false
}

// step advances the state machine once per block.
func (e *Engine) step(a float64, p Params) {
	switch {
	case a > Threshold && e.state != Bending:
		e.state = Bending
		e.gesture = a
		e.tensions++
		e.droneEn.Trigger(a * p.Tension)
	case a <= Threshold && e.state == Bending:
		e.state = Released
		e.springs++
		e.droneEn.Release()
		e.springE.Trigger(e.gesture * p.Spring)
		e.spring.Reset()
		e.gesture = 0
	case e.state == Bending:
		e.gesture = math.Max(e.gesture, a)
		e.droneEn.SetLevel(a * p.Tension)
	case e.state == Released && e.springE.Value() == 0:
		e.state = Idle
	}
}

// Process renders one block. Any output may be nil. pitch is in octaves,
// timbre and wobble are modulation signals and audio carries the drone and
// spring.
func (e *Engine) Process(pitch, timbre, wobble, audio []float32) {
	n := max(len(pitch), len(timbre), len(wobble), len(audio))
	if n == 0 {
		return
	}
	p := e.target
	bend := utility.Clamp(p.Bend, -1, 1)
	rng := utility.Clamp(p.Range, 0, 24)
	a := math.Abs(bend)

	e.step(a, p)

	target := PitchOctaves(bend, rng)
	tt := math.Abs(TensionCurve(bend)) / 1.5
	if !e.primed {
		e.pitch, e.timbre = target, tt
		e.primed = true
	}
	start, startTimbre := e.pitch, e.timbre

	e.wobble.SetFrequency(0.5 + maxWobbleHz*a)
	e.wobble.SetDepth(utility.Clamp(p.Wobble, 0, 1) * a)
	e.drone.SetFrequency(droneBaseHz * math.Exp2(target))

	for i := 0; i < n; i++ {
		// Ramp so the last sample of the block lands on the target.
		frac := float64(i+1) / float64(n)
		if pitch != nil {
			v := start + (target-start)*frac
			if i == n-1 {
				v = target
			}
			pitch[i] = float32(v)
		}
		if timbre != nil {
			timbre[i] = float32(startTimbre + (tt-startTimbre)*frac)
		}
		w := e.wobble.Process()
		if wobble != nil {
			wobble[i] = float32(w)
		}

		s := e.springE.Next()
		e.spring.SetFrequency(springBaseHz + springSweep*s)
		y := 0.5*e.drone.Next()*e.droneEn.Next() + 0.5*e.spring.Next()*s
		if audio != nil {
			audio[i] = float32(y)
		}
	}
	e.pitch, e.timbre = target, tt
}
