package wavetable

import (
	"math"
	"sync"

	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/justyntemme/synthgraph/pkg/dsp/interpolation"
)

// Terrain dimensions.
const (
	Columns   = 8
	Rows      = 8
	Banks     = 4
	TableSize = 1024
	Harmonics = 64

	// MaxAxis is the upper bound of every axis. z runs over 8 virtual
	// banks, the upper four mirroring the lower.
	MaxAxis = 7.0
)

// Bank holds every table of the terrain, pre-integrated so the engine can
// differentiate them back at playback. A Bank is immutable once built and
// may be shared by any number of engines.
type Bank struct {
	tables [Banks][Columns][Rows][]float32
	peak   float64
}

// BankIndex maps a virtual bank 0-7 onto the four physical banks.
func BankIndex(z int) int {
	if z < Banks {
		return z
	}
	return 2*Banks - 1 - z
}

// NewBank synthesizes the terrain.
func NewBank() *Bank {
	b := &Bank{}
	fft := fourier.NewFFT(TableSize)
	coeff := make([]complex128, TableSize/2+1)
	wave := make([]float64, TableSize)
	integ := make([]float64, TableSize)
	amps := make([]float64, Harmonics+1)

	for bank := 0; bank < Banks; bank++ {
		for x := 0; x < Columns; x++ {
			for y := 0; y < Rows; y++ {
				spectrum(amps, bank, float64(x)/(Columns-1), float64(y)/(Rows-1))

				// sin(2πkφ) has coefficient -iA/2 in gonum's unnormalized
				// inverse; its integral -A/(2πk)·cos(2πkφ) has -A/(4πk).
				clear(coeff)
				for k := 1; k <= Harmonics; k++ {
					coeff[k] = complex(0, -amps[k]/2)
				}
				wave = fft.Sequence(wave, coeff)

				clear(coeff)
				for k := 1; k <= Harmonics; k++ {
					coeff[k] = complex(-amps[k]/(4*math.Pi*float64(k)), 0)
				}
				integ = fft.Sequence(integ, coeff)

				peak := 0.0
				for _, v := range wave {
					peak = math.Max(peak, math.Abs(v))
				}
				if peak > 0 {
					f64.Scale(integ, integ, 0.9/peak)
				}

				t := make([]float32, TableSize)
				for i, v := range integ {
					t[i] = float32(v)
				}
				// Remove the rounding DC so the differentiator has no offset.
				mean := f32.Sum(t) / TableSize
				for i := range t {
					t[i] -= mean
					b.peak = math.Max(b.peak, math.Abs(float64(t[i])))
				}
				b.tables[bank][x][y] = t
			}
		}
	}
	return b
}

var defaultBank = sync.OnceValue(NewBank)

// DefaultBank returns the process-wide shared terrain, built on first use.
func DefaultBank() *Bank {
	return defaultBank()
}

// Table returns the integrated table at a grid point.
func (b *Bank) Table(bank, x, y int) []float32 {
	return b.tables[bank][x][y]
}

// Peak returns the largest magnitude stored in any table.
func (b *Bank) Peak() float64 {
	return b.peak
}

// spectrum fills amps[1:] with the harmonic amplitudes of one grid point.
// xs and ys are the normalized column and row.
func spectrum(amps []float64, bank int, xs, ys float64) {
	clear(amps)
	for k := 1; k < len(amps); k++ {
		fk := float64(k)
		switch bank {
		case 0:
			// Saw to square across x, darker toward low y.
			a := 1 / fk
			if k%2 == 0 {
				a *= 1 - xs
			}
			amps[k] = a * math.Exp(-(fk-1)*0.3*(1-ys))
		case 1:
			// A single formant whose centre moves with y and width with x.
			centre := 1 + ys*20
			width := 1 + xs*6
			d := (fk - centre) / width
			amps[k] = math.Exp(-0.5*d*d) + 0.3/fk*math.Exp(-(fk-1)*0.2)
		case 2:
			// Sparse, slightly stretched partials.
			for m := 1; m <= 8; m++ {
				if int(math.Round(math.Pow(float64(m), 1+xs))) == k {
					amps[k] += math.Exp(-float64(m)*0.4*(1-ys)) / float64(m)
				}
			}
		case 3:
			// Pulse wave narrowing across x.
			width := 0.5 - 0.45*xs
			amps[k] = math.Sin(math.Pi*fk*width) / fk * math.Exp(-(fk-1)*0.2*(1-ys))
		}
	}
}

// Lookup returns the integrated terrain at (x, y, z) and a phase in [0, 1),
// trilinearly blending the eight surrounding tables. Axes are clamped to
// [0, MaxAxis].
func (b *Bank) Lookup(x, y, z, phase float64) float64 {
	x0, fx := cell(x)
	y0, fy := cell(y)
	z0, fz := cell(z)
	pos := phase * TableSize

	var c [2]float64
	for dz := 0; dz < 2; dz++ {
		bank := BankIndex(z0 + dz)
		var r [2]float64
		for dy := 0; dy < 2; dy++ {
			a := interpolation.HermiteWrap(b.tables[bank][x0][y0+dy], pos)
			bb := interpolation.HermiteWrap(b.tables[bank][x0+1][y0+dy], pos)
			r[dy] = a + (bb-a)*fx
		}
		c[dz] = r[0] + (r[1]-r[0])*fy
	}
	return c[0] + (c[1]-c[0])*fz
}

// cell splits an axis value into a lower grid index and fraction so that
// index+1 stays on the grid.
func cell(v float64) (int, float64) {
	if v != v || v < 0 {
		v = 0
	} else if v > MaxAxis {
		v = MaxAxis
	}
	i := int(v)
	if i > int(MaxAxis)-1 {
		i = int(MaxAxis) - 1
	}
	return i, v - float64(i)
}
