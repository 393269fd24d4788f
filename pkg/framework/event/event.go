// Package event carries note events from control goroutines to the audio
// thread.
package event

import "fmt"

// Type identifies an event.
type Type uint8

const (
	TypeNoteOff Type = iota
	TypeNoteOn
	TypeAllNotesOff
)

// Event is a note event. Offset is the frame within the next block at which
// it takes effect.
type Event struct {
	Type     Type
	Note     uint8
	Velocity float32
	Offset   int32
}

// NoteOn creates a note-on event. Velocity is 0-1.
func NoteOn(note uint8, velocity float32) Event {
	return Event{Type: TypeNoteOn, Note: note, Velocity: velocity}
}

// NoteOff creates a note-off event.
func NoteOff(note uint8) Event {
	return Event{Type: TypeNoteOff, Note: note}
}

// AllNotesOff releases every sounding note.
func AllNotesOff() Event {
	return Event{Type: TypeAllNotesOff}
}

func (e Event) String() string {
	switch e.Type {
	case TypeNoteOn:
		return fmt.Sprintf("NoteOn{note:%d, vel:%.2f, offset:%d}", e.Note, e.Velocity, e.Offset)
	case TypeNoteOff:
		return fmt.Sprintf("NoteOff{note:%d, offset:%d}", e.Note, e.Offset)
	case TypeAllNotesOff:
		return fmt.Sprintf("AllNotesOff{offset:%d}", e.Offset)
	default:
		return fmt.Sprintf("Event{type:%d}", e.Type)
	}
}
