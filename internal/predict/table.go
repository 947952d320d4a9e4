package predict

import (
	"fmt"

	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
)

// Component is one pre-computed contribution to a Table.
type Component struct {
	Flav    Flavors
	Curr    Current
	Sign    Sign
	Nominal spectrum.Spectrum
	// Slopes holds the per-interior-bin response to a one-sigma shift.
	Slopes map[*syst.Syst][]float64
}

// Table predicts by summing fixed components. CC components are weighted
// by the calculator; NC components are not.
type Table struct {
	bins  spectrum.Binning
	pot   float64
	comps []Component
}

// NewTable validates that all components share a binning.
func NewTable(comps ...Component) (*Table, error) {
	t := &Table{}
	for _, c := range comps {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add appends a component.
func (t *Table) Add(c Component) error {
	if c.Nominal.NDimensions() == 0 {
		return fmt.Errorf("component %s/%s/%s: %w", c.Flav, c.Curr, c.Sign, spectrum.ErrUninitialized)
	}
	b := c.Nominal.Binning()
	if len(t.comps) > 0 && !t.bins.Equal(b) {
		return fmt.Errorf("component %s/%s/%s: %w", c.Flav, c.Curr, c.Sign, spectrum.ErrBinningMismatch)
	}
	for p, slope := range c.Slopes {
		if len(slope) != b.NBins() {
			return fmt.Errorf("component %s/%s/%s slope %s: %d values for %d bins",
				c.Flav, c.Curr, c.Sign, p.Name(), len(slope), b.NBins())
		}
	}
	if len(t.comps) == 0 {
		t.bins = b
		t.pot = c.Nominal.POT()
	}
	t.comps = append(t.comps, c)
	return nil
}

// Len returns the number of components.
func (t *Table) Len() int { return len(t.comps) }

func (t *Table) Predict(calc Calculator) spectrum.Spectrum {
	return t.PredictComponentSyst(calc, syst.NoShift, AllFlavors, BothCurrents, BothSigns)
}

func (t *Table) PredictComponent(calc Calculator, f Flavors, c Current, s Sign) spectrum.Spectrum {
	return t.PredictComponentSyst(calc, syst.NoShift, f, c, s)
}

func (t *Table) PredictSyst(calc Calculator, shifts syst.Shifts) spectrum.Spectrum {
	return t.PredictComponentSyst(calc, shifts, AllFlavors, BothCurrents, BothSigns)
}

// PredictComponentSyst sums the matching components. An empty table
// predicts the uninitialized spectrum.
func (t *Table) PredictComponentSyst(calc Calculator, shifts syst.Shifts, f Flavors, c Current, s Sign) spectrum.Spectrum {
	if len(t.comps) == 0 {
		return spectrum.Uninitialized()
	}
	total := make([]float64, t.bins.NBins()+2)
	livetime := 0.0
	active := shifts.Active()
	for _, comp := range t.comps {
		if comp.Flav&f == 0 || comp.Curr&c == 0 || comp.Sign&s == 0 {
			continue
		}
		w := 1.0
		if comp.Curr == CC && calc != nil {
			w = calc.Weight(comp.Flav, comp.Sign)
		}
		vals := comp.Nominal.Array(t.pot)
		for _, p := range active {
			slope, ok := comp.Slopes[p]
			if !ok {
				continue
			}
			x := shifts.Get(p)
			for i, v := range slope {
				vals[i+1] += x * v
			}
		}
		for i, v := range vals {
			total[i] += v * w
		}
		if livetime <= 0 {
			livetime = comp.Nominal.Livetime()
		}
	}
	out, err := spectrum.FromValues(t.bins, total, t.pot, livetime)
	if err != nil {
		// Add guarantees every component shares t.bins.
		panic(fmt.Sprintf("predict: table binning: %v", err))
	}
	return out
}
