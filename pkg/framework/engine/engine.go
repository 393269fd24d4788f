// Package engine owns the audio unit graph: registration, connections,
// execution order and block rendering.
package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/utility"
	"github.com/justyntemme/synthgraph/pkg/framework/debug"
)

// Runner is called once per block before any unit is processed. Plugins use
// it to consume control changes.
type Runner interface {
	Run(frames int)
}

// Starter and Stopper are optional Runner hooks. They are called on the
// audio thread at the first block boundary after Start or Stop, before any
// Run, so they may touch state the units own.
type Starter interface {
	OnStart()
}

// Stopper is the Stop counterpart of Starter.
type Stopper interface {
	OnStop()
}

// Engine is one running synthesizer. Build the graph, call Start, then call
// Render from the audio thread.
type Engine struct {
	cfg     Config
	factory Factory
	log     *debug.Logger

	units   []Unit
	runners []Runner
	master  Node

	schedule atomic.Pointer[[]Unit]
	running  atomic.Bool
	starting atomic.Bool
	stopping atomic.Bool
	gain     atomic.Uint64
	load     atomic.Uint64
	timer    *debug.BlockTimer
}

// New creates an engine. factory may be nil for graphs built entirely from
// custom units.
func New(cfg Config, factory Factory) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		factory: factory,
		log:     debug.Default().Named("engine"),
		timer:   debug.NewBlockTimer(cfg.SampleRate, cfg.BlockSize),
	}
	e.master.InitNode(cfg.BlockSize, "master")
	e.master.eng = e
	e.gain.Store(math.Float64bits(1))
	empty := []Unit{}
	e.schedule.Store(&empty)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Factory returns the unit factory, or nil.
func (e *Engine) Factory() Factory {
	return e.factory
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 {
	return e.cfg.SampleRate
}

// BlockSize returns the block size in frames.
func (e *Engine) BlockSize() int {
	return e.cfg.BlockSize
}

// Master returns the master bus input. Everything connected to it is summed
// into Render's output.
func (e *Engine) Master() *Input {
	return e.master.inputs[0]
}

// SetMasterGain sets the linear gain applied to the master bus.
func (e *Engine) SetMasterGain(g float64) {
	if math.IsNaN(g) || g < 0 {
		g = 0
	}
	e.gain.Store(math.Float64bits(g))
}

// Units returns the registered units in registration order.
func (e *Engine) Units() []Unit {
	return e.units
}

// AddUnit registers u for block scheduling. Registering the same unit twice
// is a no-op.
func (e *Engine) AddUnit(u Unit) error {
	n := u.base()
	if n.eng == e {
		return nil
	}
	if n.eng != nil {
		return ErrForeignUnit
	}
	if e.running.Load() {
		return ErrRunning
	}
	if e.cfg.MaxUnits > 0 && len(e.units) >= e.cfg.MaxUnits {
		return fmt.Errorf("%w: limit %d", ErrTooManyUnits, e.cfg.MaxUnits)
	}
	if len(n.out.buf) < e.cfg.BlockSize {
		return fmt.Errorf("%w: unit buffer %d shorter than block size %d",
			ErrInvalidConfig, len(n.out.buf), e.cfg.BlockSize)
	}
	n.eng = e
	e.units = append(e.units, u)
	return nil
}

// AddRunner registers r to be called at the start of every block.
func (e *Engine) AddRunner(r Runner) error {
	if e.running.Load() {
		return ErrRunning
	}
	e.runners = append(e.runners, r)
	return nil
}

// Connect sums out into in. Connecting the same pair twice is a no-op.
func (e *Engine) Connect(out *Output, in *Input) error {
	if out == nil || in == nil {
		return fmt.Errorf("%w: nil connector", ErrForeignUnit)
	}
	if e.running.Load() {
		return ErrRunning
	}
	if out.node == nil || out.node.eng != e || out.node == &e.master {
		return fmt.Errorf("%w: output", ErrForeignUnit)
	}
	if in.node == nil || in.node.eng != e {
		return fmt.Errorf("%w: input %q", ErrForeignUnit, in.name)
	}
	for _, src := range in.sources {
		if src == out {
			return nil
		}
	}
	in.sources = append(in.sources, out)
	if len(in.sources) == 2 {
		in.sum = make([]float32, e.cfg.BlockSize)
	}
	return nil
}

// Start computes the execution order and begins rendering at the next block.
func (e *Engine) Start() error {
	if e.running.Load() {
		return nil
	}
	order := e.sortUnits()
	e.schedule.Store(&order)
	e.starting.Store(true)
	e.running.Store(true)
	e.log.Info("started: %d units, %d runners, %.0f Hz, %d frames",
		len(order), len(e.runners), e.cfg.SampleRate, e.cfg.BlockSize)
	return nil
}

// Stop silences the output from the next block on. Stopper hooks run on the
// audio thread at that block boundary, or before the first block after a
// restart if nothing renders in between.
func (e *Engine) Stop() {
	if e.running.Swap(false) {
		e.stopping.Store(true)
		e.log.Info("stopped")
	}
}

// Running reports whether the engine renders audio.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Render fills dst with the master bus, processing as many blocks as needed.
// It writes silence while stopped.
func (e *Engine) Render(dst []float32) {
	bs := e.cfg.BlockSize
	for len(dst) > 0 {
		n := len(dst)
		if n > bs {
			n = bs
		}
		e.renderBlock(dst[:n])
		dst = dst[n:]
	}
}

func (e *Engine) renderBlock(dst []float32) {
	if e.stopping.Swap(false) {
		for _, r := range e.runners {
			if s, ok := r.(Stopper); ok {
				s.OnStop()
			}
		}
	}
	if !e.running.Load() {
		dsp.Clear(dst)
		e.load.Store(0)
		return
	}
	frames := len(dst)

	e.timer.Begin()
	if e.starting.Swap(false) {
		for _, r := range e.runners {
			if s, ok := r.(Starter); ok {
				s.OnStart()
			}
		}
	}
	for _, r := range e.runners {
		r.Run(frames)
	}

	load := 0.0
	for _, u := range *e.schedule.Load() {
		u.Process(frames)
		utility.Sanitize(u.Output().buf[:frames])
		if u.Active() {
			load += u.Cost()
		}
	}

	if m := e.Master().Read(frames); m != nil {
		dsp.Scale(dst, m, float32(math.Float64frombits(e.gain.Load())))
		utility.Sanitize(dst)
	} else {
		dsp.Clear(dst)
	}
	e.load.Store(math.Float64bits(math.Min(load, 100)))
	e.timer.End()
}

// EstimatedLoad returns the summed cost of the active units in percent,
// clamped to 100. It is advisory.
func (e *Engine) EstimatedLoad() float64 {
	return math.Float64frombits(e.load.Load())
}

// MeasuredLoad returns the wall time of the last block as a percentage of
// its real-time budget.
func (e *Engine) MeasuredLoad() float64 {
	return e.timer.Load()
}

// Timer exposes the block timer.
func (e *Engine) Timer() *debug.BlockTimer {
	return e.timer
}
