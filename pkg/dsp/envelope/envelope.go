// Package envelope provides envelope generators for audio synthesis
package envelope

import "math"

// Stage represents the current envelope stage
type Stage int

const (
	// StageIdle represents envelope idle state
	StageIdle Stage = iota
	// StageDelay waits before the attack starts
	StageDelay
	// StageAttack represents envelope attack phase
	StageAttack
	// StageHold keeps the peak level
	StageHold
	// StageDecay represents envelope decay phase
	StageDecay
	// StageSustain represents envelope sustain phase
	StageSustain
	// StageRelease represents envelope release phase
	StageRelease
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageDelay:
		return "delay"
	case StageAttack:
		return "attack"
	case StageHold:
		return "hold"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	}
	return "unknown"
}

const (
	minStageTime = 0.001
	settleLevel  = 0.001
)

// Times holds DAHDSR segment times in seconds and the sustain level.
type Times struct {
	Delay   float64
	Attack  float64
	Hold    float64
	Decay   float64
	Sustain float64
	Release float64
}

// DefaultTimes returns a short percussive-to-pad middle ground.
func DefaultTimes() Times {
	return Times{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.3}
}

// DAHDSR is a delay-attack-hold-decay-sustain-release envelope. The attack
// is linear and decay and release are exponential. Every segment starts from
// the current level, so retriggering and stage changes are continuous.
type DAHDSR struct {
	sampleRate float64
	times      Times

	delaySamples int
	holdSamples  int
	attackInc    float64
	decayCoef    float64
	releaseCoef  float64

	stage   Stage
	value   float64
	counter int
	gate    bool
}

// New creates a new DAHDSR envelope
func New(sampleRate float64) *DAHDSR {
	env := &DAHDSR{sampleRate: sampleRate}
	env.SetTimes(DefaultTimes())
	return env
}

// SetTimes updates all segment times. Attack, decay and release have a 1 ms
// floor and sustain is clamped to 0-1.
func (e *DAHDSR) SetTimes(t Times) {
	t.Delay = math.Max(0, t.Delay)
	t.Hold = math.Max(0, t.Hold)
	t.Attack = math.Max(minStageTime, t.Attack)
	t.Decay = math.Max(minStageTime, t.Decay)
	t.Release = math.Max(minStageTime, t.Release)
	t.Sustain = math.Max(0, math.Min(1, t.Sustain))
	e.times = t

	e.delaySamples = int(t.Delay * e.sampleRate)
	e.holdSamples = int(t.Hold * e.sampleRate)
	e.attackInc = 1 / (t.Attack * e.sampleRate)
	e.decayCoef = calcCoef(t.Decay, e.sampleRate)
	e.releaseCoef = calcCoef(t.Release, e.sampleRate)
}

// Times returns the clamped segment times.
func (e *DAHDSR) Times() Times {
	return e.times
}

// calcCoef returns the per-sample factor for an exponential segment that
// falls to -60 dB over timeSeconds.
func calcCoef(timeSeconds, sampleRate float64) float64 {
	if timeSeconds <= 0.0 {
		return 0.0
	}
	return math.Exp(-6.908 / (timeSeconds * sampleRate))
}

// Trigger starts the envelope (note on)
func (e *DAHDSR) Trigger() {
	e.gate = true
	e.counter = 0
	if e.delaySamples > 0 {
		e.stage = StageDelay
		return
	}
	e.stage = StageAttack
}

// Release starts the release stage (note off)
func (e *DAHDSR) Release() {
	e.gate = false
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// SetGate triggers on a rising gate and releases on a falling one.
func (e *DAHDSR) SetGate(on bool) {
	if on == e.gate {
		return
	}
	if on {
		e.Trigger()
	} else {
		e.Release()
	}
}

// Reset immediately returns the envelope to idle
func (e *DAHDSR) Reset() {
	e.stage = StageIdle
	e.value = 0.0
	e.counter = 0
	e.gate = false
}

// IsActive returns true if the envelope is generating output
func (e *DAHDSR) IsActive() bool {
	return e.stage != StageIdle
}

// Stage returns the current envelope stage
func (e *DAHDSR) Stage() Stage {
	return e.stage
}

// Value returns the last generated level.
func (e *DAHDSR) Value() float64 {
	return e.value
}

// Next generates the next envelope value
func (e *DAHDSR) Next() float64 {
	switch e.stage {
	case StageDelay:
		// hold the current level so a retrigger during release stays smooth
		e.counter++
		if e.counter >= e.delaySamples {
			e.stage = StageAttack
		}

	case StageAttack:
		e.value += e.attackInc
		if e.value >= 1.0 {
			e.value = 1.0
			e.counter = 0
			if e.holdSamples > 0 {
				e.stage = StageHold
			} else {
				e.stage = StageDecay
			}
		}

	case StageHold:
		e.counter++
		if e.counter >= e.holdSamples {
			e.stage = StageDecay
		}

	case StageDecay:
		s := e.times.Sustain
		e.value = s + (e.value-s)*e.decayCoef
		if e.value-s <= settleLevel {
			e.value = s
			e.stage = StageSustain
		}

	case StageSustain:
		e.value = e.times.Sustain

	case StageRelease:
		e.value *= e.releaseCoef
		if e.value <= settleLevel {
			e.value = 0.0
			e.stage = StageIdle
		}

	case StageIdle:
		e.value = 0.0
	}

	return e.value
}

// Process fills buffer with envelope values - no allocations
func (e *DAHDSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(e.Next())
	}
}

// ProcessGated fills buffer while following a gate signal; samples at or
// above 0.5 are high. A nil gate leaves the gate unchanged.
func (e *DAHDSR) ProcessGated(buffer, gate []float32) {
	if gate == nil {
		e.Process(buffer)
		return
	}
	for i := range buffer {
		e.SetGate(gate[i] >= 0.5)
		buffer[i] = float32(e.Next())
	}
}

// Decay is a one-shot exponential decay used for percussive transients.
type Decay struct {
	sampleRate float64
	coef       float64
	value      float64
}

// NewDecay creates a decay that falls to 1/e over tau seconds.
func NewDecay(sampleRate, tau float64) *Decay {
	d := &Decay{sampleRate: sampleRate}
	d.SetTime(tau)
	return d
}

// SetTime sets the 1/e time constant in seconds.
func (d *Decay) SetTime(tau float64) {
	tau = math.Max(1/d.sampleRate, tau)
	d.coef = math.Exp(-1 / (tau * d.sampleRate))
}

// Trigger restarts the decay from level.
func (d *Decay) Trigger(level float64) {
	d.value = level
}

// Next returns the current level and advances.
func (d *Decay) Next() float64 {
	v := d.value
	d.value *= d.coef
	if d.value < 1e-6 {
		d.value = 0
	}
	return v
}

// Value returns the current level.
func (d *Decay) Value() float64 {
	return d.value
}

// AR implements a simple exponential Attack-Release envelope used for
// sustained side effects that follow a held gesture.
type AR struct {
	sampleRate  float64
	attackCoef  float64
	releaseCoef float64
	active      bool
	value       float64
	target      float64
}

// NewAR creates a new AR envelope
func NewAR(sampleRate float64) *AR {
	env := &AR{sampleRate: sampleRate}
	env.SetAttack(0.01)
	env.SetRelease(0.1)
	return env
}

// SetAttack sets the attack time in seconds
func (e *AR) SetAttack(seconds float64) {
	e.attackCoef = calcCoef(math.Max(minStageTime, seconds), e.sampleRate)
}

// SetRelease sets the release time in seconds
func (e *AR) SetRelease(seconds float64) {
	e.releaseCoef = calcCoef(math.Max(minStageTime, seconds), e.sampleRate)
}

// Trigger starts the attack phase toward level.
func (e *AR) Trigger(level float64) {
	e.active = true
	e.target = level
}

// SetLevel moves the attack target while the envelope is held.
func (e *AR) SetLevel(level float64) {
	if e.active {
		e.target = level
	}
}

// Release starts the release phase
func (e *AR) Release() {
	e.active = false
	e.target = 0.0
}

// Active reports whether the gate is held.
func (e *AR) Active() bool {
	return e.active
}

// Next generates the next envelope value
func (e *AR) Next() float64 {
	if e.active {
		e.value = e.target + (e.value-e.target)*e.attackCoef
	} else {
		e.value = e.target + (e.value-e.target)*e.releaseCoef
	}
	return e.value
}

// Value returns the current level.
func (e *AR) Value() float64 {
	return e.value
}
