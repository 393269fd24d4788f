// Package voice is a polyphonic subtractive instrument built only from
// factory units. Each voice is an oscillator into a lowpass filter into a
// VCA driven by its own envelope; the voice allocator assigns notes.
package voice

import (
	"fmt"
	"math"

	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/dsp/oscillator"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
	"github.com/justyntemme/synthgraph/pkg/framework/event"
	"github.com/justyntemme/synthgraph/pkg/framework/param"
	"github.com/justyntemme/synthgraph/pkg/framework/plugin"
	alloc "github.com/justyntemme/synthgraph/pkg/framework/voice"
)

// URI is the plugin address.
const URI = "voice"

const (
	// Polyphony is the size of the voice pool.
	Polyphony = 8
	// QueueSize bounds the notes pending for the next block.
	QueueSize = 128
)

// synthVoice is one oscillator-filter-VCA chain.
type synthVoice struct {
	osc  engine.Oscillator
	filt engine.Filter
	env  engine.Envelope
	vca  engine.VCA

	freq     *param.Smoother
	note     uint8
	velocity float32
	age      int64
}

func noteHz(note uint8, cents float64) float64 {
	return 440 * math.Exp2((float64(note)-69)/12+cents/1200)
}

func (v *synthVoice) IsActive() bool     { return v.env.Active() }
func (v *synthVoice) Note() uint8        { return v.note }
func (v *synthVoice) Amplitude() float64 { return v.env.Level() }
func (v *synthVoice) Age() int64         { return v.age }

func (v *synthVoice) Trigger(note uint8, velocity float32, detune float64) {
	hz := noteHz(note, detune)
	if v.env.Active() {
		v.freq.SetTarget(hz)
	} else {
		v.freq.Reset(hz)
		v.osc.Reset()
	}
	v.note = note
	v.velocity = velocity
	v.age = 0
	v.osc.SetAmplitude(float64(velocity))
	v.env.Trigger()
}

func (v *synthVoice) Glide(note uint8) {
	v.note = note
	v.freq.SetTarget(noteHz(note, 0))
}

func (v *synthVoice) Release() {
	v.env.Release()
}

func (v *synthVoice) Stop() {
	v.env.Reset()
	v.osc.SetAmplitude(0)
}

// tick advances glide by one block and parks the oscillator once the
// envelope has finished.
func (v *synthVoice) tick(frames int) {
	if !v.env.Active() {
		v.osc.SetAmplitude(0)
		return
	}
	v.age += int64(frames)
	v.osc.SetFrequency(v.freq.Next())
}

// Plugin is the polyphonic instrument.
type Plugin struct {
	*plugin.Base

	waveform  *param.Parameter
	cutoff    *param.Parameter
	resonance *param.Parameter
	morph     *param.Parameter
	attack    *param.Parameter
	decay     *param.Parameter
	sustain   *param.Parameter
	release   *param.Parameter
	level     *param.Parameter
	polyphony *param.Parameter
	mode      *param.Parameter
	detune    *param.Parameter
	glide     *param.Parameter
	hold      *param.Parameter
	active    *param.Parameter

	queue  *event.Queue
	events []event.Event

	voices []*synthVoice
	alloc  *alloc.Allocator
	bus    engine.VCA

	sampleRate float64
	blockRate  float64
	times      envelope.Times
	glideTime  float64
	held       bool
}

// New creates the voice plugin.
func New() *Plugin {
	p := &Plugin{
		Base: plugin.NewBase(plugin.Info{
			URI:      URI,
			Name:     "Voice",
			Version:  "1.0.0",
			Vendor:   "synthgraph",
			Category: plugin.CategoryInstrument,
		}),
		queue:     event.NewQueue(QueueSize),
		events:    make([]event.Event, 0, QueueSize),
		glideTime: -1,
	}
	d := envelope.DefaultTimes()
	p.AudioOutput("out", "Out")
	p.waveform = p.Int("waveform", "Waveform").Range(0, float64(oscillator.BLEPSquare)).
		Default(float64(oscillator.BLEPSaw)).Bind()
	p.cutoff = p.Float("cutoff", "Cutoff").Range(20, 20000).Default(2000).
		Unit("Hz").Formatter(param.FrequencyFormatter).Clamp().Bind()
	p.resonance = p.Float("resonance", "Resonance").Range(0.5, 20).Default(0.707).Clamp().Bind()
	p.morph = p.Float("morph", "Filter Morph").Formatter(param.PercentFormatter).Clamp().Bind()
	p.attack = p.Float("attack", "Attack").Range(0, 5).Default(d.Attack).
		Unit("s").Formatter(param.SecondsFormatter).Bind()
	p.decay = p.Float("decay", "Decay").Range(0, 5).Default(d.Decay).
		Unit("s").Formatter(param.SecondsFormatter).Bind()
	p.sustain = p.Float("sustain", "Sustain").Default(d.Sustain).Formatter(param.PercentFormatter).Bind()
	p.release = p.Float("release", "Release").Range(0, 10).Default(d.Release).
		Unit("s").Formatter(param.SecondsFormatter).Bind()
	p.level = p.Float("level", "Level").Default(0.5).Formatter(param.PercentFormatter).Bind()
	p.polyphony = p.Int("voices", "Voices").Range(1, Polyphony).Default(Polyphony).Bind()
	p.mode = p.Int("mode", "Mode").Range(0, float64(alloc.ModeUnison)).Bind()
	p.detune = p.Float("detune", "Unison Detune").Range(0, 100).Default(10).Unit("ct").Bind()
	p.glide = p.Float("glide", "Glide").Range(0, 2).Unit("s").Formatter(param.SecondsFormatter).Bind()
	p.hold = p.Bool("hold", "Hold").Bind()
	p.active = p.Int("active", "Active Voices").Range(0, Polyphony).ReadOnly().Bind()
	return p
}

// Initialize implements plugin.Plugin.
func (p *Plugin) Initialize(e *engine.Engine) error {
	if err := p.Attach(e); err != nil {
		return err
	}
	cfg := e.Config()
	p.sampleRate = cfg.SampleRate
	p.blockRate = cfg.SampleRate / float64(cfg.BlockSize)

	w := plugin.NewWiring(e)
	p.bus = w.VCA()
	p.voices = make([]*synthVoice, Polyphony)
	for i := range p.voices {
		p.voices[i] = &synthVoice{
			osc:  w.Oscillator(),
			filt: w.Filter(),
			env:  w.Envelope(),
			vca:  w.VCA(),
			freq: param.NewSmoother(param.LogarithmicSmoothing, 1),
		}
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", URI, err)
	}

	pool := make([]alloc.Voice, len(p.voices))
	for i, v := range p.voices {
		v.osc.SetAmplitude(0)
		w.Connect(v.osc.Output(), v.filt.In())
		w.Connect(v.filt.Output(), v.vca.In())
		w.Connect(v.env.Output(), v.vca.CV())
		w.Connect(v.vca.Output(), p.bus.In())
		pool[i] = v
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("plugin %s: %w", URI, err)
	}
	p.alloc = alloc.NewAllocator(pool)
	p.BindOutput("out", p.bus.Output())
	return nil
}

// NoteOn queues a note for the next block. It is safe from any goroutine
// and returns false when the queue is full.
func (p *Plugin) NoteOn(note uint8, velocity float32) bool {
	return p.queue.Push(event.NoteOn(note, velocity))
}

// NoteOff queues a note release.
func (p *Plugin) NoteOff(note uint8) bool {
	return p.queue.Push(event.NoteOff(note))
}

// AllNotesOff queues a release of every note.
func (p *Plugin) AllNotesOff() bool {
	return p.queue.Push(event.AllNotesOff())
}

// Dropped returns the number of notes lost to a full queue.
func (p *Plugin) Dropped() uint64 {
	return p.queue.Dropped()
}

// OnStop implements plugin.Plugin.
func (p *Plugin) OnStop() {
	p.queue.Clear()
	if p.alloc != nil {
		p.alloc.Reset()
	}
}

// Run implements plugin.Plugin. Notes take effect at the start of the block
// in which they are drained.
func (p *Plugin) Run(frames int) {
	times := envelope.Times{
		Attack:  p.attack.Value(),
		Decay:   p.decay.Value(),
		Sustain: p.sustain.Value(),
		Release: p.release.Value(),
	}
	glide := p.glide.Value()
	wave := oscillator.Waveform(p.waveform.Value())
	cutoff := p.cutoff.Value() / p.sampleRate
	q := p.resonance.Value()
	morph := p.morph.Value()
	for _, v := range p.voices {
		if times != p.times {
			v.env.SetTimes(times)
		}
		if glide != p.glideTime {
			v.freq.SetTime(p.blockRate, glide*1000)
		}
		v.osc.SetWaveform(wave)
		v.filt.SetCutoff(cutoff)
		v.filt.SetResonance(q)
		v.filt.SetMorph(morph)
	}
	p.times, p.glideTime = times, glide

	p.alloc.SetMode(alloc.AllocationMode(p.mode.Value()))
	p.alloc.SetMaxVoices(int(p.polyphony.Value()))
	p.alloc.SetUnisonDetune(p.detune.Value())
	if held := p.hold.Value() >= 0.5; held != p.held {
		p.alloc.SetSustainPedal(held)
		p.held = held
	}

	p.events = p.queue.Drain(p.events)
	for _, e := range p.events {
		p.alloc.ProcessEvent(e)
	}

	for _, v := range p.voices {
		v.tick(frames)
	}
	p.bus.SetLevel(p.level.Value())
	p.active.Store(float64(p.alloc.ActiveVoiceCount()))
}
