package param

import (
	"fmt"
	"math"
)

// Display formatters for plain parameter values. Formatting is for the
// command-line tools and logs only; the control surface exchanges raw values.

// FrequencyFormatter formats frequency values with Hz/kHz.
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// PercentFormatter formats a 0-1 amount as a percentage.
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value*100)
}

// SecondsFormatter formats a duration given in seconds.
func SecondsFormatter(seconds float64) string {
	switch {
	case seconds < 0.001:
		return fmt.Sprintf("%.0f µs", seconds*1e6)
	case seconds < 1:
		return fmt.Sprintf("%.1f ms", seconds*1000)
	}
	return fmt.Sprintf("%.2f s", seconds)
}

// SemitoneFormatter formats a pitch offset in semitones.
func SemitoneFormatter(st float64) string {
	return fmt.Sprintf("%+.1f st", st)
}

// BipolarFormatter formats a -1..1 value, showing "center" near zero.
func BipolarFormatter(v float64) string {
	if math.Abs(v) < 0.005 {
		return "center"
	}
	return fmt.Sprintf("%+.2f", v)
}

// ToggleFormatter formats a boolean parameter.
func ToggleFormatter(v float64) string {
	if v >= 0.5 {
		return "on"
	}
	return "off"
}
