package debug

import (
	"fmt"
	"math"
)

// AnalysisResult summarises a rendered buffer.
type AnalysisResult struct {
	Peak           float32
	PeakIndex      int
	RMS            float32
	DC             float32
	ClippedSamples int
	NaNCount       int
	InfCount       int
	ZeroCrossings  int
	Silent         bool
}

// Thresholds used by Analyze.
const (
	ClipThreshold    = 0.999
	SilenceThreshold = 1e-4
	DCThreshold      = 0.01
)

// Analyze computes peak, RMS, DC and error counts of buffer. Non-finite
// samples are counted and excluded from the statistics.
func Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{PeakIndex: -1}
	if len(buffer) == 0 {
		result.Silent = true
		return result
	}

	var sum, sumSquares float64
	finite := 0
	var last float32

	for i, sample := range buffer {
		x := float64(sample)
		if math.IsNaN(x) {
			result.NaNCount++
			continue
		}
		if math.IsInf(x, 0) {
			result.InfCount++
			continue
		}
		finite++

		abs := float32(math.Abs(x))
		if abs > result.Peak {
			result.Peak = abs
			result.PeakIndex = i
		}
		if abs >= ClipThreshold {
			result.ClippedSamples++
		}
		if i > 0 && (last < 0) != (sample < 0) {
			result.ZeroCrossings++
		}
		last = sample

		sum += x
		sumSquares += x * x
	}

	if finite > 0 {
		result.RMS = float32(math.Sqrt(sumSquares / float64(finite)))
		result.DC = float32(sum / float64(finite))
	}
	result.Silent = result.RMS < SilenceThreshold
	return result
}

// CheckBuffer returns human readable problems found in buffer.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string
	r := Analyze(buffer)

	if r.NaNCount > 0 || r.InfCount > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d NaN and %d Inf samples", name, r.NaNCount, r.InfCount))
	}
	if r.ClippedSamples > 0 {
		issues = append(issues, fmt.Sprintf("%s: %d samples at or above full scale", name, r.ClippedSamples))
	}
	if math.Abs(float64(r.DC)) > DCThreshold {
		issues = append(issues, fmt.Sprintf("%s: DC offset %.4f", name, r.DC))
	}
	return issues
}

// LogBufferStats logs statistics about a buffer at debug level and any
// problems CheckBuffer finds as warnings.
func (l *Logger) LogBufferStats(buffer []float32, name string) {
	r := Analyze(buffer)
	l.Debug("%s: %d samples, peak %.3f at %d, rms %.3f, dc %.5f", name, len(buffer), r.Peak, r.PeakIndex, r.RMS, r.DC)
	for _, issue := range CheckBuffer(buffer, name) {
		l.Warn("%s", issue)
	}
}
