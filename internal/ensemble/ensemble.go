// Package ensemble builds configured samples from a YAML ensemble file.
package ensemble

import (
	"fmt"
	"os"
	"sort"

	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
	"github.com/sbenjam1n/pisces/internal/truth"
	"gopkg.in/yaml.v3"
)

// File is the on-disk ensemble definition.
type File struct {
	Systs   []string     `yaml:"systs"`
	Samples []SampleSpec `yaml:"samples"`
}

// SampleSpec configures one sample.
type SampleSpec struct {
	Selection  string                   `yaml:"selection"`
	Polarity   string                   `yaml:"polarity"`
	Detector   string                   `yaml:"detector"`
	Axis       *AxisSpec                `yaml:"axis,omitempty"`
	Cut        string                   `yaml:"cut,omitempty"`
	POT        *float64                 `yaml:"pot,omitempty"`
	Livetime   *float64                 `yaml:"livetime,omitempty"`
	Auxiliary  bool                     `yaml:"auxiliary,omitempty"`
	Aliases    map[string]*string       `yaml:"aliases,omitempty"` // null target drops the syst
	Components map[string]ComponentSpec `yaml:"components,omitempty"`
	Data       *SpectrumSpec            `yaml:"data,omitempty"`
	Cosmic     *SpectrumSpec            `yaml:"cosmic,omitempty"`
}

// AxisSpec is either bins/min/max or explicit edges.
type AxisSpec struct {
	Label string    `yaml:"label"`
	Var   string    `yaml:"var"`
	Bins  int       `yaml:"bins,omitempty"`
	Min   float64   `yaml:"min,omitempty"`
	Max   float64   `yaml:"max,omitempty"`
	Edges []float64 `yaml:"edges,omitempty"`
}

// ComponentSpec is the nominal prediction of one channel and its
// per-bin response to each systematic.
type ComponentSpec struct {
	Nominal []float64            `yaml:"nominal"`
	Slopes  map[string][]float64 `yaml:"slopes,omitempty"`
}

// SpectrumSpec is an interior-bin spectrum with its exposure.
type SpectrumSpec struct {
	Values   []float64 `yaml:"values"`
	POT      float64   `yaml:"pot"`
	Livetime float64   `yaml:"livetime"`
}

// Ensemble is an ordered set of configured samples.
type Ensemble struct {
	Systs   *syst.Registry
	Samples []*pisces.Sample
}

// Load reads and builds an ensemble file.
func Load(path string) (*Ensemble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ensemble file: %w", err)
	}
	return Parse(data)
}

// Parse builds an ensemble from YAML.
func Parse(data []byte) (*Ensemble, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ensemble file: %w", err)
	}
	return Build(f)
}

// Build configures samples from a parsed file.
func Build(f File) (*Ensemble, error) {
	e := &Ensemble{Systs: syst.NewRegistry()}
	for _, name := range f.Systs {
		e.Systs.Get(name)
	}

	seen := make(map[uint32]bool)
	for i, spec := range f.Samples {
		s, err := e.buildSample(spec)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if seen[s.ID()] {
			return nil, fmt.Errorf("sample %d: duplicate category %s", i, s.Tag())
		}
		seen[s.ID()] = true
		e.Samples = append(e.Samples, s)
	}
	return e, nil
}

func (e *Ensemble) syst(name string) (*syst.Syst, error) {
	p, ok := e.Systs.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("undeclared systematic %q", name)
	}
	return p, nil
}

func (e *Ensemble) buildSample(spec SampleSpec) (*pisces.Sample, error) {
	var cat pisces.Category
	var err error
	if cat.Selection, err = pisces.ParseSelection(spec.Selection); err != nil {
		return nil, err
	}
	if cat.Polarity, err = pisces.ParsePolarity(spec.Polarity); err != nil {
		return nil, err
	}
	if cat.Detector, err = pisces.ParseDetector(spec.Detector); err != nil {
		return nil, err
	}
	s := pisces.NewSample(cat)
	s.SetAuxiliary(spec.Auxiliary)

	if spec.Axis != nil {
		axis, err := buildAxis(*spec.Axis)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cat.Tag(), err)
		}
		s.SetAxis(axis)
	}
	if spec.Cut != "" {
		c, ok := truth.LookupCut(spec.Cut)
		if !ok {
			return nil, fmt.Errorf("%s: unknown cut %q", cat.Tag(), spec.Cut)
		}
		s.SetCut(c)
	}
	if spec.POT != nil {
		if err := s.SetPOT(*spec.POT); err != nil {
			return nil, err
		}
	}
	if spec.Livetime != nil {
		if err := s.SetLivetime(*spec.Livetime); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(spec.Aliases))
	for k := range spec.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		from, err := e.syst(k)
		if err != nil {
			return nil, fmt.Errorf("%s: alias: %w", cat.Tag(), err)
		}
		var to *syst.Syst
		if target := spec.Aliases[k]; target != nil {
			if to, err = e.syst(*target); err != nil {
				return nil, fmt.Errorf("%s: alias %s: %w", cat.Tag(), k, err)
			}
		}
		s.SetSystAlias(from, to)
	}

	if len(spec.Components) > 0 {
		tbl, err := e.buildTable(s, spec.Components)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cat.Tag(), err)
		}
		s.SetPrediction(tbl)
	}

	for _, attach := range []struct {
		what string
		spec *SpectrumSpec
		set  func(spectrum.Spectrum)
	}{
		{"data", spec.Data, s.SetData},
		{"cosmic", spec.Cosmic, s.SetCosmic},
	} {
		if attach.spec == nil {
			continue
		}
		b, err := s.Binning()
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", cat.Tag(), attach.what, err)
		}
		sp, err := spectrum.FromInterior(b, attach.spec.Values, attach.spec.POT, attach.spec.Livetime)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", cat.Tag(), attach.what, err)
		}
		attach.set(sp)
	}
	return s, nil
}

func buildAxis(a AxisSpec) (spectrum.Axis, error) {
	v, ok := truth.LookupVar(a.Var)
	if !ok {
		return spectrum.Axis{}, fmt.Errorf("unknown variable %q", a.Var)
	}
	var b spectrum.Binning
	var err error
	if len(a.Edges) > 0 {
		b, err = spectrum.Custom(a.Edges)
	} else {
		b, err = spectrum.Simple(a.Bins, a.Min, a.Max)
	}
	if err != nil {
		return spectrum.Axis{}, err
	}
	label := a.Label
	if label == "" {
		label = a.Var
	}
	return spectrum.Axis{Label: label, Var: v, Bins: b}, nil
}

func (e *Ensemble) buildTable(s *pisces.Sample, comps map[string]ComponentSpec) (*predict.Table, error) {
	b, err := s.Binning()
	if err != nil {
		return nil, fmt.Errorf("components: %w", err)
	}
	pot, err := s.POT()
	if err != nil {
		pot = 0
	}

	names := make([]string, 0, len(comps))
	for n := range comps {
		names = append(names, n)
	}
	sort.Strings(names)

	tbl, err := predict.NewTable()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		ch, err := pisces.NewOscChannel(n)
		if err != nil {
			return nil, err
		}
		spec := comps[n]
		nom, err := spectrum.FromInterior(b, spec.Nominal, pot, 0)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", n, err)
		}
		slopes := make(map[*syst.Syst][]float64, len(spec.Slopes))
		for sn, v := range spec.Slopes {
			p, err := e.syst(sn)
			if err != nil {
				return nil, fmt.Errorf("component %s: %w", n, err)
			}
			slopes[p] = v
		}
		if err := tbl.Add(predict.Component{
			Flav: ch.Flav(), Curr: ch.Curr(), Sign: ch.Sign(),
			Nominal: nom, Slopes: slopes,
		}); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// Lookup returns the configured sample with the given identity.
func (e *Ensemble) Lookup(id uint32) (*pisces.Sample, bool) {
	for _, s := range e.Samples {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Select resolves an ensemble token against the configured samples,
// preserving the token's order.
func (e *Ensemble) Select(token string) ([]*pisces.Sample, error) {
	cats, err := pisces.ParseEnsembleID(token)
	if err != nil {
		return nil, err
	}
	out := make([]*pisces.Sample, 0, len(cats))
	for _, c := range cats {
		s, ok := e.Lookup(c.ID())
		if !ok {
			return nil, fmt.Errorf("sample %s is not configured", c.Tag())
		}
		out = append(out, s)
	}
	return out, nil
}

// ID is the ensemble token of all configured samples.
func (e *Ensemble) ID() (string, error) {
	return pisces.SamplesEnsembleID(e.Samples)
}

// Calculator converts transition weights keyed by name into a calculator.
func Calculator(weights map[string]float64) (predict.FixedCalc, error) {
	calc := make(predict.FixedCalc, len(weights))
	for name, w := range weights {
		f, ok := predict.ParseFlavors(name)
		if !ok {
			return nil, fmt.Errorf("unknown flavor transition %q", name)
		}
		calc[f] = w
	}
	return calc, nil
}

// Shifts converts shift values keyed by systematic name.
func (e *Ensemble) Shifts(values map[string]float64) (syst.Shifts, error) {
	out := syst.Shifts{}
	for name, v := range values {
		p, err := e.syst(name)
		if err != nil {
			return nil, err
		}
		out.Set(p, v)
	}
	return out, nil
}
