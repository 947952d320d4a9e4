package predict

import (
	"sync"

	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
)

// Shared lets several samples reference one provider. Calls are serialized.
type Shared struct {
	mu sync.Mutex
	p  Provider
}

// Share wraps p for use by more than one sample.
func Share(p Provider) *Shared { return &Shared{p: p} }

func (s *Shared) Predict(calc Calculator) spectrum.Spectrum {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Predict(calc)
}

func (s *Shared) PredictComponent(calc Calculator, f Flavors, c Current, sg Sign) spectrum.Spectrum {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.PredictComponent(calc, f, c, sg)
}

func (s *Shared) PredictSyst(calc Calculator, shifts syst.Shifts) spectrum.Spectrum {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.PredictSyst(calc, shifts)
}

func (s *Shared) PredictComponentSyst(calc Calculator, shifts syst.Shifts, f Flavors, c Current, sg Sign) spectrum.Spectrum {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.PredictComponentSyst(calc, shifts, f, c, sg)
}
