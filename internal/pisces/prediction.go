package pisces

import (
	"fmt"

	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
)

// AllChannels returns the oscillation channels for the sample's detector.
func (s *Sample) AllChannels() []OscChannel { return AllChannels(s.IsFD()) }

// IsSignal reports whether c is signal for this sample: any neutral-current
// channel for an NC selection, numu disappearance for a numu selection, and
// nue appearance for the nue selection.
func (s *Sample) IsSignal(c OscChannel) bool {
	switch {
	case s.IsNC():
		return c.Curr() == predict.NC
	case s.IsNumu():
		return c.Curr() == predict.CC && c.Flav() == predict.NuMuToNuMu
	case s.IsNue():
		return c.Curr() == predict.CC && c.Flav() == predict.NuMuToNuE
	}
	panic(fmt.Sprintf("sample %s: selection has no signal definition", s.Tag()))
}

// SignalChannels returns the signal channels in enumeration order.
func (s *Sample) SignalChannels() []OscChannel { return s.partition(true) }

// BackgroundChannels returns the background channels in enumeration order.
func (s *Sample) BackgroundChannels() []OscChannel { return s.partition(false) }

func (s *Sample) partition(signal bool) []OscChannel {
	var out []OscChannel
	for _, c := range s.AllChannels() {
		if s.IsSignal(c) == signal {
			out = append(out, c)
		}
	}
	return out
}

func (s *Sample) provider() (predict.Provider, error) {
	if s.pred == nil {
		return nil, s.notSet("prediction")
	}
	return s.pred, nil
}

// Predict returns the total prediction under shifts.
func (s *Sample) Predict(calc predict.Calculator, shifts syst.Shifts) (spectrum.Spectrum, error) {
	p, err := s.provider()
	if err != nil {
		return spectrum.Uninitialized(), err
	}
	return p.PredictSyst(calc, s.Shifts(shifts)), nil
}

// PredictComponent returns one flavor/current/sign component under shifts.
func (s *Sample) PredictComponent(calc predict.Calculator, f predict.Flavors, c predict.Current, sg predict.Sign, shifts syst.Shifts) (spectrum.Spectrum, error) {
	p, err := s.provider()
	if err != nil {
		return spectrum.Uninitialized(), err
	}
	return p.PredictComponentSyst(calc, s.Shifts(shifts), f, c, sg), nil
}

// PredictChannel returns the prediction for a single channel under shifts.
func (s *Sample) PredictChannel(c OscChannel, calc predict.Calculator, shifts syst.Shifts) (spectrum.Spectrum, error) {
	return s.PredictComponent(calc, c.Flav(), c.Curr(), c.Sign(), shifts)
}

// PredictSignal sums the signal channel predictions.
func (s *Sample) PredictSignal(calc predict.Calculator, shifts syst.Shifts) (spectrum.Spectrum, error) {
	return s.sumChannels(s.SignalChannels(), calc, shifts)
}

// PredictBackground sums the background channel predictions.
func (s *Sample) PredictBackground(calc predict.Calculator, shifts syst.Shifts) (spectrum.Spectrum, error) {
	return s.sumChannels(s.BackgroundChannels(), calc, shifts)
}

// sumChannels adds channel predictions into a call-local total. The total
// starts uninitialized and takes the first channel's spectrum as is, so no
// empty spectrum of the right shape is needed up front. With no channels
// the result stays uninitialized.
func (s *Sample) sumChannels(cs []OscChannel, calc predict.Calculator, shifts syst.Shifts) (spectrum.Spectrum, error) {
	p, err := s.provider()
	if err != nil {
		return spectrum.Uninitialized(), err
	}
	redirected := s.Shifts(shifts)
	total := spectrum.Uninitialized()
	for _, c := range cs {
		spec := p.PredictComponentSyst(calc, redirected, c.Flav(), c.Curr(), c.Sign())
		if total.NDimensions() == 0 {
			total = spec
			continue
		}
		if total, err = total.Add(spec); err != nil {
			return spectrum.Uninitialized(), fmt.Errorf("sample %s: add channel %s: %w", s.Tag(), c.Name(), err)
		}
	}
	return total, nil
}

// Predict returns the channel's interior bins for sample s, scaled to the
// sample's exposure. Shifts are redirected through the sample first.
func (c OscChannel) Predict(s *Sample, calc predict.Calculator, shifts syst.Shifts) ([]float64, error) {
	spec, err := s.PredictChannel(c, calc, shifts)
	if err != nil {
		return nil, err
	}
	pot, err := s.POT()
	if err != nil {
		return nil, err
	}
	return spec.Interior(pot), nil
}
