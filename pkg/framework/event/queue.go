package event

import (
	"sync"
	"sync/atomic"
)

// Queue is a bounded event queue. Writers on any goroutine push; the audio
// thread drains once per block. The lock is held only to copy events and
// Drain never waits for it.
type Queue struct {
	mu      sync.Mutex
	events  []Event
	dropped atomic.Uint64
}

// NewQueue creates a queue holding up to capacity events.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{events: make([]Event, 0, capacity)}
}

// Push appends e. It returns false and counts a drop when the queue is full.
func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == cap(q.events) {
		q.dropped.Add(1)
		return false
	}
	q.events = append(q.events, e)
	return true
}

// Drain moves up to cap(dst) events into dst, ordered by Offset with ties in
// arrival order. If a writer holds the lock nothing is drained; those events
// arrive with the next block.
func (q *Queue) Drain(dst []Event) []Event {
	dst = dst[:0]
	if !q.mu.TryLock() {
		return dst
	}
	n := len(q.events)
	if n > cap(dst) {
		n = cap(dst)
	}
	dst = append(dst, q.events[:n]...)
	rest := copy(q.events, q.events[n:])
	q.events = q.events[:rest]
	q.mu.Unlock()

	sortByOffset(dst)
	return dst
}

// sortByOffset is a stable insertion sort; blocks carry few events.
func sortByOffset(events []Event) {
	for i := 1; i < len(events); i++ {
		e := events[i]
		j := i - 1
		for j >= 0 && events[j].Offset > e.Offset {
			events[j+1] = events[j]
			j--
		}
		events[j+1] = e
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns the number of events rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Clear discards all queued events.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = q.events[:0]
}
