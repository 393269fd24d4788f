// Package interpolation provides fractional-sample interpolation used by the
// delay lines and wavetable lookups.
package interpolation

// Linear performs linear interpolation between two samples.
// frac is the fractional position between y0 and y1 (0.0 to 1.0).
func Linear(y0, y1, frac float64) float64 {
	return y0 + (y1-y0)*frac
}

// Hermite performs 4-point, 3rd-order Hermite interpolation.
// frac is the fractional position between y1 and y2 (0.0 to 1.0).
func Hermite(y0, y1, y2, y3, frac float64) float64 {
	c0 := y1
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)

	return ((c3*frac+c2)*frac+c1)*frac + c0
}

// HermiteWrap reads a periodic table at a fractional index with Hermite
// interpolation, wrapping neighbours around the table ends.
func HermiteWrap(table []float32, pos float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	i := int(pos)
	frac := pos - float64(i)
	i %= n
	if i < 0 {
		i += n
	}
	im1 := i - 1
	if im1 < 0 {
		im1 += n
	}
	ip1 := i + 1
	if ip1 >= n {
		ip1 -= n
	}
	ip2 := ip1 + 1
	if ip2 >= n {
		ip2 -= n
	}
	return Hermite(float64(table[im1]), float64(table[i]), float64(table[ip1]), float64(table[ip2]), frac)
}

// AllPass is a first-order all-pass fractional delay.
type AllPass struct {
	a      float64
	x1, y1 float64
}

// SetDelay sets the fractional delay in samples, effective range 0.1-2.
func (ap *AllPass) SetDelay(d float64) {
	if d < 0.1 {
		d = 0.1
	}
	ap.a = (1 - d) / (1 + d)
}

// SetCoefficient sets the all-pass coefficient directly, clamped to ±0.99.
func (ap *AllPass) SetCoefficient(a float64) {
	if a > 0.99 {
		a = 0.99
	} else if a < -0.99 {
		a = -0.99
	}
	ap.a = a
}

// Process runs one sample.
func (ap *AllPass) Process(input float64) float64 {
	y := ap.a*input + ap.x1 - ap.a*ap.y1
	ap.x1 = input
	ap.y1 = y
	return y
}

// Reset clears the state.
func (ap *AllPass) Reset() {
	ap.x1 = 0
	ap.y1 = 0
}
