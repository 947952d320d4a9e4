package pisces

import (
	"fmt"

	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
	"github.com/sbenjam1n/pisces/internal/truth"
)

const unsetExposure = -1

// Sample is one analysis sample: its category, analysis configuration,
// prediction, optional data and cosmic spectra, and systematic aliases.
// A Sample is not safe for concurrent mutation.
type Sample struct {
	Category

	axis     spectrum.Axis
	cut      truth.Cut
	pot      float64
	livetime float64

	pred   predict.Provider
	data   spectrum.Spectrum
	cosmic spectrum.Spectrum

	systs Redirector
	aux   bool
}

// NewSample creates an unconfigured sample.
func NewSample(c Category) *Sample {
	return &Sample{
		Category: c,
		pot:      unsetExposure,
		livetime: unsetExposure,
	}
}

// SampleFromID creates an unconfigured sample from a packed identity.
func SampleFromID(id uint32) (*Sample, error) {
	c, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return NewSample(c), nil
}

// AllSamples returns one unconfigured sample per category.
func AllSamples() []*Sample {
	cats := AllCategories()
	out := make([]*Sample, len(cats))
	for i, c := range cats {
		out[i] = NewSample(c)
	}
	return out
}

func (s *Sample) notSet(what string) error {
	return fmt.Errorf("sample %s: %s %w", s.Tag(), what, ErrNotConfigured)
}

func (s *Sample) SetAxis(a spectrum.Axis) { s.axis = a }
func (s *Sample) SetCut(c truth.Cut) { s.cut = c }
func (s *Sample) SetAuxiliary(v bool) { s.aux = v }
func (s *Sample) IsAuxiliary() bool { return s.aux }

// SetPOT sets the explicit exposure. It is rejected while data is attached.
func (s *Sample) SetPOT(pot float64) error {
	if s.HasData() {
		return fmt.Errorf("sample %s: set POT: %w", s.Tag(), ErrExposureFromData)
	}
	s.pot = pot
	return nil
}

// SetLivetime sets the explicit livetime. It is rejected while data is attached.
func (s *Sample) SetLivetime(lt float64) error {
	if s.HasData() {
		return fmt.Errorf("sample %s: set livetime: %w", s.Tag(), ErrExposureFromData)
	}
	s.livetime = lt
	return nil
}

// HasExplicitExposure reports whether POT or livetime was set directly.
func (s *Sample) HasExplicitExposure() bool {
	return s.pot != unsetExposure || s.livetime != unsetExposure
}

// SetPrediction hands p to the sample. The caller must not use p afterwards;
// use SetSharedPrediction to reference one provider from several samples.
func (s *Sample) SetPrediction(p predict.Provider) { s.pred = p }

// SetSharedPrediction attaches a provider that other samples may also use.
func (s *Sample) SetSharedPrediction(p *predict.Shared) {
	if p == nil {
		s.pred = nil
		return
	}
	s.pred = p
}

// SetData attaches observed data. Its exposure takes precedence over any
// explicit POT and livetime.
func (s *Sample) SetData(d spectrum.Spectrum) { s.data = d }

func (s *Sample) SetCosmic(c spectrum.Spectrum) { s.cosmic = c }

// SetSystAlias routes shifts of key onto val; a nil val drops key.
func (s *Sample) SetSystAlias(key, val *syst.Syst) { s.systs.Alias(key, val) }

func (s *Sample) HasPrediction() bool { return s.pred != nil }
func (s *Sample) HasData() bool { return s.data.NDimensions() > 0 }
func (s *Sample) HasCosmic() bool { return s.cosmic.NDimensions() > 0 }

func (s *Sample) ResetPrediction() { s.pred = nil }
func (s *Sample) ResetData() { s.data = spectrum.Uninitialized() }
func (s *Sample) ResetCosmic() { s.cosmic = spectrum.Uninitialized() }

// Axis returns the analysis axis.
func (s *Sample) Axis() (spectrum.Axis, error) {
	if !s.axis.IsSet() {
		return spectrum.Axis{}, s.notSet("axis")
	}
	return s.axis, nil
}

// Binning returns the binning of the analysis axis.
func (s *Sample) Binning() (spectrum.Binning, error) {
	a, err := s.Axis()
	return a.Bins, err
}

// Var returns the variable of the analysis axis.
func (s *Sample) Var() (truth.Var, error) {
	a, err := s.Axis()
	return a.Var, err
}

// Cut returns the selection cut.
func (s *Sample) Cut() (truth.Cut, error) {
	if s.cut.IsZero() || s.cut.IsNoCut() {
		return truth.Cut{}, s.notSet("cut")
	}
	return s.cut, nil
}

// POT returns the exposure, preferring attached data.
func (s *Sample) POT() (float64, error) {
	if s.HasData() {
		return s.data.POT(), nil
	}
	if s.pot == unsetExposure {
		return 0, s.notSet("POT")
	}
	return s.pot, nil
}

// Livetime returns the livetime, preferring attached data.
func (s *Sample) Livetime() (float64, error) {
	if s.HasData() {
		return s.data.Livetime(), nil
	}
	if s.livetime == unsetExposure {
		return 0, s.notSet("livetime")
	}
	return s.livetime, nil
}

// Data returns the observed spectrum.
func (s *Sample) Data() (spectrum.Spectrum, error) {
	if !s.HasData() {
		return spectrum.Uninitialized(), s.notSet("data spectrum")
	}
	return s.data, nil
}

// Cosmic returns the cosmic background spectrum.
func (s *Sample) Cosmic() (spectrum.Spectrum, error) {
	if !s.HasCosmic() {
		return spectrum.Uninitialized(), s.notSet("cosmic spectrum")
	}
	return s.cosmic, nil
}

// NewSpectrum builds a spectrum on the sample's binning and exposure from
// interior bin contents.
func (s *Sample) NewSpectrum(interior []float64) (spectrum.Spectrum, error) {
	b, err := s.Binning()
	if err != nil {
		return spectrum.Uninitialized(), err
	}
	pot, err := s.POT()
	if err != nil {
		return spectrum.Uninitialized(), err
	}
	lt, err := s.Livetime()
	if err != nil {
		lt = 0
	}
	return spectrum.FromInterior(b, interior, pot, lt)
}

// Shifts rewrites a shift set through the sample's systematic aliases.
func (s *Sample) Shifts(shifts syst.Shifts) syst.Shifts { return s.systs.Redirect(shifts) }

// Systs filters a parameter list through the sample's systematic aliases.
func (s *Sample) Systs(params []*syst.Syst) []*syst.Syst { return s.systs.Filter(params) }

// ID is the packed identity of the sample's category.
func (s *Sample) ID() uint32 { return s.Category.ID() }

// Less orders samples by descending ID.
func (s *Sample) Less(o *Sample) bool { return o.ID() < s.ID() }

// Equal reports whether both samples share a category.
func (s *Sample) Equal(o *Sample) bool { return o.ID() == s.ID() }

// SamplesEnsembleID encodes the categories of samples, in order.
func SamplesEnsembleID(samples []*Sample) (string, error) {
	cats := make([]Category, len(samples))
	for i, s := range samples {
		cats[i] = s.Category
	}
	return EnsembleID(cats)
}

// SamplesFromEnsembleID creates unconfigured samples from an ensemble token.
func SamplesFromEnsembleID(token string) ([]*Sample, error) {
	cats, err := ParseEnsembleID(token)
	if err != nil {
		return nil, err
	}
	out := make([]*Sample, len(cats))
	for i, c := range cats {
		out[i] = NewSample(c)
	}
	return out, nil
}
