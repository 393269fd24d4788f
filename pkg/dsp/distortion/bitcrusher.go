package distortion

import (
	"math"
)

// Bitcrusher reduces bit depth and holds samples to lower the effective
// sample rate.
type Bitcrusher struct {
	bitDepth         float64
	sampleRateReduce float64
	mix              float64

	levels float64

	holdCounter float64
	lastSample  float64
}

// NewBitcrusher creates a bitcrusher that passes 16-bit audio unchanged.
func NewBitcrusher() *Bitcrusher {
	b := &Bitcrusher{sampleRateReduce: 1, mix: 1}
	b.SetBitDepth(16)
	return b
}

// SetBitDepth sets the quantizer resolution, 1-32 bits.
func (b *Bitcrusher) SetBitDepth(bits float64) {
	b.bitDepth = math.Max(1.0, math.Min(32.0, bits))
	b.levels = math.Exp2(b.bitDepth)
}

// BitDepth returns the clamped resolution.
func (b *Bitcrusher) BitDepth() float64 {
	return b.bitDepth
}

// SetSampleRateReduction holds each sample for factor samples, 1-100.
func (b *Bitcrusher) SetSampleRateReduction(factor float64) {
	b.sampleRateReduce = math.Max(1.0, math.Min(100.0, factor))
}

// SetMix sets the dry/wet mix.
func (b *Bitcrusher) SetMix(mix float64) {
	b.mix = math.Max(0.0, math.Min(1.0, mix))
}

// Process crushes one sample.
func (b *Bitcrusher) Process(input float64) float64 {
	processed := input
	if b.sampleRateReduce > 1.0 {
		if b.holdCounter == 0 {
			b.lastSample = input
		}
		b.holdCounter++
		if b.holdCounter >= b.sampleRateReduce {
			b.holdCounter = 0
		}
		processed = b.lastSample
	}
	if b.bitDepth < 32.0 {
		processed = math.Round(processed*0.5*b.levels) / b.levels * 2.0
		processed = math.Max(-1.0, math.Min(1.0, processed))
	}
	return processed*b.mix + input*(1.0-b.mix)
}

// ProcessBuffer crushes input into output.
func (b *Bitcrusher) ProcessBuffer(input, output []float32) {
	for i, x := range input {
		output[i] = float32(b.Process(float64(x)))
	}
}

// Reset clears the sample-hold state.
func (b *Bitcrusher) Reset() {
	b.holdCounter = 0
	b.lastSample = 0
}
