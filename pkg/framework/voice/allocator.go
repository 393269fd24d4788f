// Package voice assigns notes to a fixed pool of voices.
package voice

import (
	"math/bits"

	"github.com/justyntemme/synthgraph/pkg/framework/event"
)

// MaxVoices is the largest pool an Allocator manages.
const MaxVoices = 64

// AllocationMode defines how voices are allocated
type AllocationMode int

const (
	// Poly mode - each note gets its own voice
	ModePoly AllocationMode = iota
	// Mono mode - only one voice active at a time
	ModeMono
	// Legato mode - mono with no retriggering on overlapping notes
	ModeLegato
	// Unison mode - all voices play the same note
	ModeUnison
)

// String returns the mode name.
func (m AllocationMode) String() string {
	switch m {
	case ModePoly:
		return "poly"
	case ModeMono:
		return "mono"
	case ModeLegato:
		return "legato"
	case ModeUnison:
		return "unison"
	default:
		return "unknown"
	}
}

// StealingMode defines how voices are stolen when all are in use
type StealingMode int

const (
	// StealOldest steals the oldest playing voice
	StealOldest StealingMode = iota
	// StealQuietest steals the voice with lowest amplitude
	StealQuietest
	// StealHighest steals the highest pitched voice
	StealHighest
	// StealLowest steals the lowest pitched voice
	StealLowest
	// StealNone doesn't steal - new notes are ignored when full
	StealNone
)

// Voice is one sounding unit of a polyphonic instrument. All methods run on
// the audio thread.
type Voice interface {
	// IsActive returns true if the voice is currently playing
	IsActive() bool
	// Note returns the note number this voice is playing
	Note() uint8
	// Amplitude returns the current amplitude (for steal quietest)
	Amplitude() float64
	// Age returns how long this voice has been playing (in samples)
	Age() int64
	// Trigger starts a note, detuned by cents.
	Trigger(note uint8, velocity float32, detune float64)
	// Glide moves to another note without retriggering.
	Glide(note uint8)
	// Release starts the release of the note.
	Release()
	// Stop immediately silences the voice.
	Stop()
}

// Allocator manages voice allocation for polyphonic synthesis. It keeps its
// bookkeeping in fixed arrays so note handling never allocates.
type Allocator struct {
	voices       []Voice
	mode         AllocationMode
	stealingMode StealingMode
	maxVoices    int

	noteToVoice   [128]uint64 // bit i set: voice i plays the note
	lastTriggered int         // For round-robin allocation

	sustainPedal   bool
	sustainedNotes [128]bool

	unisonDetune float64

	// Mono/Legato held-note stack, most recent last.
	held     [16]uint8
	numHeld  int
	velocity float32
}

// NewAllocator creates a new voice allocator. Pools larger than MaxVoices
// are truncated.
func NewAllocator(voices []Voice) *Allocator {
	if len(voices) > MaxVoices {
		voices = voices[:MaxVoices]
	}
	return &Allocator{
		voices:       voices,
		mode:         ModePoly,
		stealingMode: StealOldest,
		maxVoices:    len(voices),
	}
}

// SetMode sets the allocation mode
func (a *Allocator) SetMode(mode AllocationMode) {
	if mode == a.mode {
		return
	}
	a.mode = mode
	// Reset all voices when changing mode
	a.Reset()
}

// Mode returns the allocation mode.
func (a *Allocator) Mode() AllocationMode {
	return a.mode
}

// SetStealingMode sets the voice stealing mode
func (a *Allocator) SetStealingMode(mode StealingMode) {
	a.stealingMode = mode
}

// SetMaxVoices sets the maximum number of active voices
func (a *Allocator) SetMaxVoices(max int) {
	if max > len(a.voices) {
		max = len(a.voices)
	}
	if max < 1 {
		max = 1
	}
	for i := max; i < a.maxVoices; i++ {
		a.stop(i)
	}
	a.maxVoices = max
}

// SetUnisonDetune sets the total detune spread for unison mode (in cents)
func (a *Allocator) SetUnisonDetune(cents float64) {
	a.unisonDetune = cents
}

// ProcessEvent handles a note event
func (a *Allocator) ProcessEvent(e event.Event) {
	switch e.Type {
	case event.TypeNoteOn:
		if e.Velocity > 0 {
			a.NoteOn(e.Note, e.Velocity)
		} else {
			// Note on with velocity 0 is treated as note off
			a.NoteOff(e.Note)
		}
	case event.TypeNoteOff:
		a.NoteOff(e.Note)
	case event.TypeAllNotesOff:
		a.AllNotesOff()
	}
}

// NoteOn handles a note on event
func (a *Allocator) NoteOn(note uint8, velocity float32) {
	note &= 0x7f
	a.sustainedNotes[note] = false
	switch a.mode {
	case ModePoly:
		a.noteOnPoly(note, velocity)
	case ModeMono:
		a.noteOnMono(note, velocity)
	case ModeLegato:
		a.noteOnLegato(note, velocity)
	case ModeUnison:
		a.noteOnUnison(note, velocity)
	}
}

// NoteOff handles a note off event
func (a *Allocator) NoteOff(note uint8) {
	note &= 0x7f
	if a.sustainPedal {
		// Mark note as sustained instead of releasing
		a.sustainedNotes[note] = true
		return
	}

	switch a.mode {
	case ModePoly:
		a.noteOffPoly(note)
	case ModeMono, ModeLegato:
		a.noteOffMono(note)
	case ModeUnison:
		a.noteOffUnison(note)
	}
}

// AllNotesOff releases every voice.
func (a *Allocator) AllNotesOff() {
	for i := 0; i < a.maxVoices; i++ {
		if a.voices[i].IsActive() {
			a.voices[i].Release()
		}
	}
	a.noteToVoice = [128]uint64{}
	a.sustainedNotes = [128]bool{}
	a.numHeld = 0
}

// SetSustainPedal sets the sustain pedal state
func (a *Allocator) SetSustainPedal(on bool) {
	a.sustainPedal = on
	if !on {
		// Release all sustained notes
		for note, sustained := range a.sustainedNotes {
			if sustained {
				a.sustainedNotes[note] = false
				a.NoteOff(uint8(note))
			}
		}
	}
}

// Reset stops all voices and clears allocations
func (a *Allocator) Reset() {
	for _, voice := range a.voices {
		voice.Stop()
	}
	a.noteToVoice = [128]uint64{}
	a.sustainedNotes = [128]bool{}
	a.sustainPedal = false
	a.numHeld = 0
}

// ActiveVoiceCount returns the number of active voices
func (a *Allocator) ActiveVoiceCount() int {
	count := 0
	for _, voice := range a.voices[:a.maxVoices] {
		if voice.IsActive() {
			count++
		}
	}
	return count
}

// VoicesFor returns a bit set of the voices assigned to note.
func (a *Allocator) VoicesFor(note uint8) uint64 {
	return a.noteToVoice[note&0x7f]
}

func (a *Allocator) stop(idx int) {
	v := a.voices[idx]
	if v.IsActive() {
		a.unassign(idx)
	}
	v.Stop()
}

func (a *Allocator) unassign(idx int) {
	mask := ^(uint64(1) << uint(idx))
	for n := range a.noteToVoice {
		a.noteToVoice[n] &= mask
	}
}

// noteOnPoly handles poly mode note on
func (a *Allocator) noteOnPoly(note uint8, velocity float32) {
	// Check if note is already playing
	if set := a.noteToVoice[note]; set != 0 {
		// Retrigger the note on existing voice(s)
		for set != 0 {
			idx := bits.TrailingZeros64(set)
			set &= set - 1
			a.voices[idx].Trigger(note, velocity, 0)
		}
		return
	}

	// Find a free voice
	voiceIdx := a.findFreeVoice()
	if voiceIdx == -1 {
		// No free voice, try stealing
		voiceIdx = a.stealVoice()
		if voiceIdx == -1 {
			// Couldn't steal a voice
			return
		}
	}

	// Allocate the voice
	a.unassign(voiceIdx)
	a.voices[voiceIdx].Trigger(note, velocity, 0)
	a.noteToVoice[note] = uint64(1) << uint(voiceIdx)
}

// noteOffPoly handles poly mode note off
func (a *Allocator) noteOffPoly(note uint8) {
	set := a.noteToVoice[note]
	for set != 0 {
		idx := bits.TrailingZeros64(set)
		set &= set - 1
		a.voices[idx].Release()
	}
	a.noteToVoice[note] = 0
}

func (a *Allocator) push(note uint8) {
	a.remove(note)
	if a.numHeld == len(a.held) {
		copy(a.held[:], a.held[1:])
		a.numHeld--
	}
	a.held[a.numHeld] = note
	a.numHeld++
}

func (a *Allocator) remove(note uint8) bool {
	for i := 0; i < a.numHeld; i++ {
		if a.held[i] == note {
			copy(a.held[i:], a.held[i+1:a.numHeld])
			a.numHeld--
			return true
		}
	}
	return false
}

func (a *Allocator) current() (uint8, bool) {
	if a.numHeld == 0 {
		return 0, false
	}
	return a.held[a.numHeld-1], true
}

// noteOnMono handles mono mode note on
func (a *Allocator) noteOnMono(note uint8, velocity float32) {
	a.push(note)
	a.velocity = velocity
	a.noteToVoice = [128]uint64{}
	a.voices[0].Trigger(note, velocity, 0)
	a.noteToVoice[note] = 1
}

// noteOnLegato handles legato mode note on
func (a *Allocator) noteOnLegato(note uint8, velocity float32) {
	if _, playing := a.current(); !playing || !a.voices[0].IsActive() {
		// First note, trigger normally
		a.noteOnMono(note, velocity)
		return
	}
	// Legato transition - change pitch without retriggering
	a.push(note)
	a.noteToVoice = [128]uint64{}
	a.voices[0].Glide(note)
	a.noteToVoice[note] = 1
}

// noteOffMono handles mono/legato mode note off. Releasing the sounding
// note returns to the most recent note still held.
func (a *Allocator) noteOffMono(note uint8) {
	top, _ := a.current()
	if !a.remove(note) {
		return
	}
	if note != top {
		return
	}
	a.noteToVoice[note] = 0
	if prev, ok := a.current(); ok {
		if a.mode == ModeLegato {
			a.voices[0].Glide(prev)
		} else {
			a.voices[0].Trigger(prev, a.velocity, 0)
		}
		a.noteToVoice[prev] = 1
		return
	}
	a.voices[0].Release()
}

// noteOnUnison handles unison mode note on
func (a *Allocator) noteOnUnison(note uint8, velocity float32) {
	// Trigger all available voices with the same note, spread across the
	// detune range.
	a.noteToVoice = [128]uint64{}
	for i := 0; i < a.maxVoices; i++ {
		a.voices[i].Trigger(note, velocity, a.unisonOffset(i))
	}
	a.noteToVoice[note] = (uint64(1) << uint(a.maxVoices)) - 1
	if a.maxVoices == 64 {
		a.noteToVoice[note] = ^uint64(0)
	}
	a.push(note)
}

func (a *Allocator) unisonOffset(i int) float64 {
	if a.maxVoices < 2 {
		return 0
	}
	return a.unisonDetune * (float64(i)/float64(a.maxVoices-1) - 0.5)
}

// noteOffUnison handles unison mode note off
func (a *Allocator) noteOffUnison(note uint8) {
	top, _ := a.current()
	if !a.remove(note) || note != top {
		return
	}
	a.noteToVoice[note] = 0
	for i := 0; i < a.maxVoices; i++ {
		a.voices[i].Release()
	}
	a.numHeld = 0
}

// findFreeVoice finds an inactive voice
func (a *Allocator) findFreeVoice() int {
	// Use round-robin to distribute voices evenly
	start := a.lastTriggered
	for i := 0; i < a.maxVoices; i++ {
		idx := (start + i + 1) % a.maxVoices
		if !a.voices[idx].IsActive() {
			a.lastTriggered = idx
			return idx
		}
	}
	return -1
}

// stealVoice steals a voice based on the stealing mode
func (a *Allocator) stealVoice() int {
	if a.stealingMode == StealNone {
		return -1
	}

	var bestIdx = -1
	var bestValue float64

	for i := 0; i < a.maxVoices; i++ {
		if !a.voices[i].IsActive() {
			continue
		}

		switch a.stealingMode {
		case StealOldest:
			age := float64(a.voices[i].Age())
			if bestIdx == -1 || age > bestValue {
				bestIdx = i
				bestValue = age
			}
		case StealQuietest:
			amp := a.voices[i].Amplitude()
			if bestIdx == -1 || amp < bestValue {
				bestIdx = i
				bestValue = amp
			}
		case StealHighest:
			note := float64(a.voices[i].Note())
			if bestIdx == -1 || note > bestValue {
				bestIdx = i
				bestValue = note
			}
		case StealLowest:
			note := float64(a.voices[i].Note())
			if bestIdx == -1 || note < bestValue {
				bestIdx = i
				bestValue = note
			}
		}
	}

	if bestIdx != -1 {
		a.stop(bestIdx)
	}

	return bestIdx
}
