package spectrum

import (
	"fmt"
	"sort"

	"github.com/sbenjam1n/pisces/internal/truth"
)

// Binning is an ordered set of bin edges.
type Binning struct {
	edges []float64
}

// Simple returns n equal-width bins spanning [lo, hi).
func Simple(n int, lo, hi float64) (Binning, error) {
	if n <= 0 {
		return Binning{}, fmt.Errorf("binning needs at least one bin, got %d", n)
	}
	if hi <= lo {
		return Binning{}, fmt.Errorf("binning range [%g, %g) is empty", lo, hi)
	}
	edges := make([]float64, n+1)
	width := (hi - lo) / float64(n)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[n] = hi
	return Binning{edges: edges}, nil
}

// Custom returns a binning with the given strictly increasing edges.
func Custom(edges []float64) (Binning, error) {
	if len(edges) < 2 {
		return Binning{}, fmt.Errorf("binning needs at least two edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return Binning{}, fmt.Errorf("binning edges not increasing at index %d", i)
		}
	}
	return Binning{edges: append([]float64(nil), edges...)}, nil
}

// NBins returns the number of interior bins.
func (b Binning) NBins() int {
	if len(b.edges) == 0 {
		return 0
	}
	return len(b.edges) - 1
}

// Edges returns a copy of the bin edges.
func (b Binning) Edges() []float64 { return append([]float64(nil), b.edges...) }

// Equal reports whether both binnings have identical edges.
func (b Binning) Equal(o Binning) bool {
	if len(b.edges) != len(o.edges) {
		return false
	}
	for i := range b.edges {
		if b.edges[i] != o.edges[i] {
			return false
		}
	}
	return true
}

// Cell returns the storage index for x: 0 for underflow, NBins()+1 for
// overflow, otherwise 1..NBins().
func (b Binning) Cell(x float64) int {
	n := b.NBins()
	if n == 0 || x < b.edges[0] {
		return 0
	}
	if x >= b.edges[n] {
		return n + 1
	}
	return sort.Search(n, func(i int) bool { return b.edges[i+1] > x }) + 1
}

// Axis pairs an observable with its binning and a display label.
type Axis struct {
	Label string
	Var   truth.Var
	Bins  Binning
}

// IsSet reports whether the axis has a variable and at least one bin.
// The label is cosmetic.
func (a Axis) IsSet() bool {
	return !a.Var.IsZero() && a.Bins.NBins() > 0
}
