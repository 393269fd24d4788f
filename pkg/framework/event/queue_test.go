package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue(8)
	for _, e := range []Event{
		{Type: TypeNoteOn, Note: 60, Offset: 10},
		{Type: TypeNoteOn, Note: 62, Offset: 0},
		{Type: TypeNoteOff, Note: 60, Offset: 10},
		{Type: TypeNoteOn, Note: 64, Offset: 5},
	} {
		require.True(t, q.Push(e))
	}

	got := q.Drain(make([]Event, 0, 8))
	require.Len(t, got, 4)
	assert.Equal(t, uint8(62), got[0].Note)
	assert.Equal(t, uint8(64), got[1].Note)
	assert.Equal(t, TypeNoteOn, got[2].Type, "ties keep arrival order")
	assert.Equal(t, TypeNoteOff, got[3].Type)
	assert.Zero(t, q.Len())
}

func TestQueueBounded(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Push(NoteOn(1, 1)))
	assert.True(t, q.Push(NoteOn(2, 1)))
	assert.False(t, q.Push(NoteOn(3, 1)))
	assert.Equal(t, uint64(1), q.Dropped())

	// A short destination leaves the remainder for the next block.
	got := q.Drain(make([]Event, 0, 1))
	require.Len(t, got, 1)
	assert.Equal(t, uint8(1), got[0].Note)
	assert.Equal(t, 1, q.Len())

	q.Clear()
	assert.Zero(t, q.Len())
}

func TestQueueDrainDoesNotWait(t *testing.T) {
	q := NewQueue(4)
	q.Push(NoteOn(1, 1))

	q.mu.Lock()
	got := q.Drain(make([]Event, 0, 4))
	q.mu.Unlock()
	assert.Empty(t, got)
	assert.Equal(t, 1, q.Len())
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue(1024)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n uint8) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(NoteOn(n, 0.5))
			}
		}(uint8(i))
	}

	dst := make([]Event, 0, 64)
	total := 0
	for total < 400 {
		total += len(q.Drain(dst))
		if total < 400 && q.Len() == 0 {
			wg.Wait()
		}
	}
	wg.Wait()
	assert.Equal(t, 400, total)
}

func TestDrainDoesNotAllocate(t *testing.T) {
	q := NewQueue(16)
	dst := make([]Event, 0, 16)
	allocs := testing.AllocsPerRun(100, func() {
		q.Push(NoteOn(60, 1))
		q.Push(NoteOff(60))
		dst = q.Drain(dst)
	})
	assert.Zero(t, allocs)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "NoteOn{note:60, vel:1.00, offset:0}", NoteOn(60, 1).String())
	assert.Equal(t, "NoteOff{note:60, offset:0}", NoteOff(60).String())
	assert.Equal(t, "AllNotesOff{offset:0}", AllNotesOff().String())
}
