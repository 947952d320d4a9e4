// Package spectrum provides a one-dimensional binned container with guard
// cells for underflow and overflow and an associated exposure.
package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrBinningMismatch indicates two spectra with different binning were combined.
	ErrBinningMismatch = errors.New("spectrum binning mismatch")
	// ErrUninitialized indicates an operation on an uninitialized spectrum.
	ErrUninitialized = errors.New("spectrum is uninitialized")
)

// Spectrum stores NBins()+2 cells; cell 0 and the last cell are guards.
// The zero value is the uninitialized sentinel.
type Spectrum struct {
	bins     Binning
	values   []float64
	pot      float64
	livetime float64
}

// Uninitialized returns a spectrum with zero dimensions.
func Uninitialized() Spectrum { return Spectrum{} }

// New returns an all-zero spectrum on b with the given exposure.
func New(b Binning, pot, livetime float64) Spectrum {
	return Spectrum{
		bins:     b,
		values:   make([]float64, b.NBins()+2),
		pot:      pot,
		livetime: livetime,
	}
}

// FromValues builds a spectrum from a full cell array including guards.
func FromValues(b Binning, values []float64, pot, livetime float64) (Spectrum, error) {
	if len(values) != b.NBins()+2 {
		return Spectrum{}, fmt.Errorf("%w: %d cells for %d bins", ErrBinningMismatch, len(values), b.NBins())
	}
	s := New(b, pot, livetime)
	copy(s.values, values)
	return s, nil
}

// FromInterior builds a spectrum from interior bin contents; guards are zero.
func FromInterior(b Binning, interior []float64, pot, livetime float64) (Spectrum, error) {
	if len(interior) != b.NBins() {
		return Spectrum{}, fmt.Errorf("%w: %d values for %d bins", ErrBinningMismatch, len(interior), b.NBins())
	}
	s := New(b, pot, livetime)
	copy(s.values[1:], interior)
	return s, nil
}

// NDimensions is 0 for an uninitialized spectrum and 1 otherwise.
func (s Spectrum) NDimensions() int {
	if s.values == nil {
		return 0
	}
	return 1
}

func (s Spectrum) Binning() Binning { return s.bins }
func (s Spectrum) POT() float64 { return s.pot }
func (s Spectrum) Livetime() float64 { return s.livetime }

// Fill adds weight w to the cell containing x.
func (s *Spectrum) Fill(x, w float64) {
	if s.values == nil {
		return
	}
	s.values[s.bins.Cell(x)] += w
}

// Values returns a copy of all cells, guards included.
func (s Spectrum) Values() []float64 { return append([]float64(nil), s.values...) }

// Array returns all cells scaled to the requested exposure. A spectrum
// without exposure is returned unscaled.
func (s Spectrum) Array(pot float64) []float64 {
	out := s.Values()
	if s.pot <= 0 || pot == s.pot {
		return out
	}
	scale := pot / s.pot
	for i := range out {
		out[i] *= scale
	}
	return out
}

// Interior returns the cells scaled to pot with both guards dropped.
func (s Spectrum) Interior(pot float64) []float64 {
	arr := s.Array(pot)
	if len(arr) < 2 {
		return nil
	}
	return arr[1 : len(arr)-1]
}

// Add returns s+o. o is scaled to the exposure of s when both carry one.
func (s Spectrum) Add(o Spectrum) (Spectrum, error) {
	if s.values == nil || o.values == nil {
		return Spectrum{}, ErrUninitialized
	}
	if !s.bins.Equal(o.bins) {
		return Spectrum{}, ErrBinningMismatch
	}
	out := New(s.bins, s.pot, s.livetime)
	if out.pot <= 0 {
		out.pot = o.pot
	}
	if out.livetime <= 0 {
		out.livetime = o.livetime
	}
	other := o.values
	if s.pot > 0 && o.pot > 0 && s.pot != o.pot {
		other = o.Array(s.pot)
	}
	for i := range out.values {
		out.values[i] = s.values[i] + other[i]
	}
	return out, nil
}

// Integral sums the interior bins at the spectrum's own exposure.
func (s Spectrum) Integral() float64 {
	var sum float64
	for _, v := range s.Interior(s.pot) {
		sum += v
	}
	return sum
}
