// Package utility provides common DSP utility functions and processors.
package utility

import (
	"math/rand"
)

// NoiseType represents different types of noise.
type NoiseType int

const (
	// WhiteNoise has equal energy at all frequencies
	WhiteNoise NoiseType = iota
	// PinkNoise has equal energy per octave (1/f spectrum)
	PinkNoise
	// BrownNoise has 1/f² spectrum (Brownian noise)
	BrownNoise
)

// NoiseGenerator generates seeded, reproducible noise. Every instance owns
// its random source, so two generators never share state across voices.
type NoiseGenerator struct {
	noiseType NoiseType

	pinkRows       [16]float32
	pinkRunningSum float32
	pinkIndex      int

	brownState float32

	rand *rand.Rand
}

// NewNoiseGenerator creates a noise generator with a fixed seed.
func NewNoiseGenerator(noiseType NoiseType, seed int64) *NoiseGenerator {
	gen := &NoiseGenerator{
		noiseType: noiseType,
		rand:      rand.New(rand.NewSource(seed)),
	}
	gen.Reset()
	return gen
}

// Float returns a uniform value in [0, 1).
func (n *NoiseGenerator) Float() float64 {
	return n.rand.Float64()
}

// Next generates the next noise sample.
func (n *NoiseGenerator) Next() float32 {
	switch n.noiseType {
	case PinkNoise:
		return n.generatePink()
	case BrownNoise:
		return n.generateBrown()
	}
	return n.randomFloat()
}

// Generate fills buffer with noise.
func (n *NoiseGenerator) Generate(buffer []float32) {
	for i := range buffer {
		buffer[i] = n.Next()
	}
}

// Reset clears the colouring filters.
func (n *NoiseGenerator) Reset() {
	n.brownState = 0
	n.pinkIndex = 0
	n.pinkRunningSum = 0
	for i := range n.pinkRows {
		n.pinkRows[i] = n.randomFloat()
		n.pinkRunningSum += n.pinkRows[i]
	}
}

func (n *NoiseGenerator) randomFloat() float32 {
	return float32(n.rand.Float64()*2.0 - 1.0)
}

// generatePink uses the Voss-McCartney algorithm.
func (n *NoiseGenerator) generatePink() float32 {
	n.pinkIndex = (n.pinkIndex + 1) & 0xffff
	if n.pinkIndex != 0 {
		numZeros := 0
		for temp := n.pinkIndex; temp&1 == 0; temp >>= 1 {
			numZeros++
		}
		n.pinkRunningSum -= n.pinkRows[numZeros]
		n.pinkRows[numZeros] = n.randomFloat()
		n.pinkRunningSum += n.pinkRows[numZeros]
	}
	return clamp1((n.pinkRunningSum + n.randomFloat()) / 6)
}

// generateBrown integrates white noise with a leak.
func (n *NoiseGenerator) generateBrown() float32 {
	n.brownState += n.randomFloat() * 0.0625
	n.brownState *= 0.997
	n.brownState = clamp1(n.brownState)
	return n.brownState
}

func clamp1(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
