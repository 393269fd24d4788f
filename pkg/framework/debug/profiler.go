package debug

import (
	"sync/atomic"
	"time"
)

// BlockTimer measures how long each audio block takes to render. All methods
// are lock free and allocation free so the audio thread may call Begin/End
// directly; readers poll the results from any goroutine.
type BlockTimer struct {
	enabled atomic.Bool

	blockDuration time.Duration

	start atomic.Int64 // monotonic nanoseconds of the current block
	last  atomic.Int64 // nanoseconds spent in the last block
	peak  atomic.Int64
	avg   atomic.Uint64 // float64 bits of the smoothed load in percent
	count atomic.Uint64
}

// epoch anchors BlockTimer readings to the monotonic clock.
var epoch = time.Now()

// NewBlockTimer creates a timer for blocks of blockSize frames at sampleRate.
func NewBlockTimer(sampleRate float64, blockSize int) *BlockTimer {
	t := &BlockTimer{}
	if sampleRate > 0 && blockSize > 0 {
		t.blockDuration = time.Duration(float64(blockSize) / sampleRate * float64(time.Second))
	}
	t.enabled.Store(true)
	return t
}

// SetEnabled enables or disables timing.
func (t *BlockTimer) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// Begin marks the start of a block.
func (t *BlockTimer) Begin() {
	if !t.enabled.Load() {
		return
	}
	t.start.Store(int64(time.Since(epoch)))
}

// End marks the end of the block started by the last Begin.
func (t *BlockTimer) End() {
	if !t.enabled.Load() {
		return
	}
	elapsed := int64(time.Since(epoch)) - t.start.Load()
	if elapsed < 0 {
		elapsed = 0
	}
	t.last.Store(elapsed)
	if elapsed > t.peak.Load() {
		t.peak.Store(elapsed)
	}

	load := t.loadOf(elapsed)
	prev := float64frombits(t.avg.Load())
	if t.count.Add(1) == 1 {
		prev = load
	}
	// Roughly a 50-block moving average.
	t.avg.Store(float64bits(prev + 0.02*(load-prev)))
}

func (t *BlockTimer) loadOf(elapsed int64) float64 {
	if t.blockDuration <= 0 {
		return 0
	}
	return 100 * float64(elapsed) / float64(t.blockDuration)
}

// Last returns the wall time of the most recent block.
func (t *BlockTimer) Last() time.Duration {
	return time.Duration(t.last.Load())
}

// Peak returns the longest block seen since the last Reset.
func (t *BlockTimer) Peak() time.Duration {
	return time.Duration(t.peak.Load())
}

// Blocks returns the number of timed blocks.
func (t *BlockTimer) Blocks() uint64 {
	return t.count.Load()
}

// Load returns the last block's wall time as a percentage of its real-time
// budget.
func (t *BlockTimer) Load() float64 {
	return t.loadOf(t.last.Load())
}

// AverageLoad returns the smoothed load percentage.
func (t *BlockTimer) AverageLoad() float64 {
	return float64frombits(t.avg.Load())
}

// Reset clears all statistics.
func (t *BlockTimer) Reset() {
	t.last.Store(0)
	t.peak.Store(0)
	t.avg.Store(0)
	t.count.Store(0)
}
