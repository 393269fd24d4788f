// Package analysis provides the level metering used by the monitoring taps.
//
// Level Metering:
//   - PeakFollower: exponential peak envelope with a configurable half-life.
//     Readable from any goroutine while the audio thread updates it.
//   - BlockRMS: RMS of a block computed with a SIMD dot product.
//   - PeakMeter: peak with hold, for the command-line status line.
//
// Meters never modify the signal they observe.
package analysis
