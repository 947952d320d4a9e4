// Package predict defines the prediction-provider boundary consumed by
// samples, along with a table-driven provider and an oscillation-weight
// calculator.
package predict

import (
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
)

// Flavors selects flavor transitions. Values combine as a bit mask.
type Flavors uint8

const (
	NuEToNuE Flavors = 1 << iota
	NuEToNuMu
	NuEToNuTau
	NuMuToNuE
	NuMuToNuMu
	NuMuToNuTau

	AllFlavors = NuEToNuE | NuEToNuMu | NuEToNuTau | NuMuToNuE | NuMuToNuMu | NuMuToNuTau
)

var flavorNames = map[Flavors]string{
	NuEToNuE:    "nuetonue",
	NuEToNuMu:   "nuetonumu",
	NuEToNuTau:  "nuetonutau",
	NuMuToNuE:   "numutonue",
	NuMuToNuMu:  "numutonumu",
	NuMuToNuTau: "numutonutau",
	AllFlavors:  "any",
}

func (f Flavors) String() string {
	if n, ok := flavorNames[f]; ok {
		return n
	}
	return "mixed"
}

// ParseFlavors resolves a single transition name such as "numutonue".
func ParseFlavors(name string) (Flavors, bool) {
	for f, n := range flavorNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// Current selects the interaction current.
type Current uint8

const (
	CC Current = 1 << iota
	NC

	BothCurrents = CC | NC
)

func (c Current) String() string {
	switch c {
	case CC:
		return "cc"
	case NC:
		return "nc"
	case BothCurrents:
		return "both"
	}
	return "unknown"
}

// Sign selects neutrinos, antineutrinos, or both.
type Sign uint8

const (
	Nu Sign = 1 << iota
	AntiNu

	BothSigns = Nu | AntiNu
)

func (s Sign) String() string {
	switch s {
	case Nu:
		return "nu"
	case AntiNu:
		return "nubar"
	case BothSigns:
		return "both"
	}
	return "unknown"
}

// Calculator supplies the oscillation weight for a flavor transition.
type Calculator interface {
	Weight(f Flavors, s Sign) float64
}

// Provider turns a calculator state and an optional shift set into spectra.
// Implementations must be deterministic for fixed inputs.
type Provider interface {
	Predict(calc Calculator) spectrum.Spectrum
	PredictComponent(calc Calculator, f Flavors, c Current, s Sign) spectrum.Spectrum
	PredictSyst(calc Calculator, shifts syst.Shifts) spectrum.Spectrum
	PredictComponentSyst(calc Calculator, shifts syst.Shifts, f Flavors, c Current, s Sign) spectrum.Spectrum
}

// FixedCalc weights each transition by a constant. Transitions without an
// entry get weight 1.
type FixedCalc map[Flavors]float64

// Weight implements Calculator.
func (fc FixedCalc) Weight(f Flavors, _ Sign) float64 {
	if w, ok := fc[f]; ok {
		return w
	}
	return 1
}
