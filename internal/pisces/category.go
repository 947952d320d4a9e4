// Package pisces classifies analysis samples and oscillation channels and
// composes per-channel predictions into signal and background totals.
package pisces

import (
	"fmt"
	"strings"
)

// Selection is the analysis category a sample was selected into.
type Selection uint8

const (
	CCNumu Selection = iota
	CCNumuQ1
	CCNumuQ2
	CCNumuQ3
	CCNumuQ4
	CCNue
	NCOld
	NCRes10
	NCRes20
	NCRes30

	numSelections = int(NCRes30) + 1
)

// Polarity is the horn-current configuration of the beam.
type Polarity uint8

const (
	FHC Polarity = iota
	RHC

	numPolarities = int(RHC) + 1
)

// Detector is the detector a sample was recorded in.
type Detector uint8

const (
	NearDet Detector = iota
	FarDet

	numDetectors = int(FarDet) + 1
)

type names struct{ tag, label string }

var selNames = [numSelections]names{
	CCNumu:   {"numusel", `CC $\nu_{\mu}$`},
	CCNumuQ1: {"numuq1sel", `CC $\nu_{\mu}$ Q1`},
	CCNumuQ2: {"numuq2sel", `CC $\nu_{\mu}$ Q2`},
	CCNumuQ3: {"numuq3sel", `CC $\nu_{\mu}$ Q3`},
	CCNumuQ4: {"numuq4sel", `CC $\nu_{\mu}$ Q4`},
	CCNue:    {"nuesel", `CC $\nu_{e}$`},
	NCOld:    {"ncoldsel", "NC (old)"},
	NCRes10:  {"ncres10sel", "NC (10% res)"},
	NCRes20:  {"ncres20sel", "NC (20% res)"},
	NCRes30:  {"ncres30sel", "NC (30% res)"},
}

var polNames = [numPolarities]names{
	FHC: {"fhc", "FHC"},
	RHC: {"rhc", "RHC"},
}

var detNames = [numDetectors]names{
	NearDet: {"neardet", "ND"},
	FarDet:  {"fardet", "FD"},
}

func (s Selection) String() string {
	if int(s) < numSelections {
		return selNames[s].tag
	}
	return fmt.Sprintf("selection(%d)", uint8(s))
}

func (p Polarity) String() string {
	if int(p) < numPolarities {
		return polNames[p].tag
	}
	return fmt.Sprintf("polarity(%d)", uint8(p))
}

func (d Detector) String() string {
	if int(d) < numDetectors {
		return detNames[d].tag
	}
	return fmt.Sprintf("detector(%d)", uint8(d))
}

// ParseSelection resolves a selection tag such as "numusel".
func ParseSelection(tag string) (Selection, error) {
	for i, n := range selNames {
		if n.tag == tag {
			return Selection(i), nil
		}
	}
	return 0, fmt.Errorf("unknown selection %q", tag)
}

// ParsePolarity resolves "fhc" or "rhc".
func ParsePolarity(tag string) (Polarity, error) {
	for i, n := range polNames {
		if n.tag == tag {
			return Polarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown polarity %q", tag)
}

// ParseDetector resolves "neardet" or "fardet".
func ParseDetector(tag string) (Detector, error) {
	for i, n := range detNames {
		if n.tag == tag {
			return Detector(i), nil
		}
	}
	return 0, fmt.Errorf("unknown detector %q", tag)
}

// Category is the categorical identity of a sample.
type Category struct {
	Selection Selection
	Polarity  Polarity
	Detector  Detector
}

// Valid reports whether every field is a known enumeration value.
func (c Category) Valid() bool {
	return int(c.Selection) < numSelections &&
		int(c.Polarity) < numPolarities &&
		int(c.Detector) < numDetectors
}

// Tag is the canonical short name, e.g. "numusel_fhc_fardet".
func (c Category) Tag() string {
	return c.Selection.String() + "_" + c.Polarity.String() + "_" + c.Detector.String()
}

// Name is the space-separated short name.
func (c Category) Name() string {
	return c.Selection.String() + " " + c.Polarity.String() + " " + c.Detector.String()
}

// LatexName is the human-readable label.
func (c Category) LatexName() string {
	if !c.Valid() {
		return c.Name()
	}
	return selNames[c.Selection].label + " " + polNames[c.Polarity].label + " " + detNames[c.Detector].label
}

func (c Category) String() string { return c.Tag() }

// ParseTag is the inverse of Tag.
func ParseTag(tag string) (Category, error) {
	var c Category
	parts := strings.Split(tag, "_")
	if len(parts) != 3 {
		return c, fmt.Errorf("sample tag %q: want <selection>_<polarity>_<detector>", tag)
	}
	var err error
	if c.Selection, err = ParseSelection(parts[0]); err != nil {
		return c, err
	}
	if c.Polarity, err = ParsePolarity(parts[1]); err != nil {
		return c, err
	}
	if c.Detector, err = ParseDetector(parts[2]); err != nil {
		return c, err
	}
	return c, nil
}

func (c Category) IsNC() bool {
	switch c.Selection {
	case NCOld, NCRes10, NCRes20, NCRes30:
		return true
	}
	return false
}

func (c Category) IsNumu() bool {
	switch c.Selection {
	case CCNumu, CCNumuQ1, CCNumuQ2, CCNumuQ3, CCNumuQ4:
		return true
	}
	return false
}

func (c Category) IsNue() bool { return c.Selection == CCNue }
func (c Category) IsFHC() bool { return c.Polarity == FHC }
func (c Category) IsRHC() bool { return c.Polarity == RHC }
func (c Category) IsND() bool { return c.Detector == NearDet }
func (c Category) IsFD() bool { return c.Detector == FarDet }

// AllCategories enumerates every category in selection, polarity, detector order.
func AllCategories() []Category {
	out := make([]Category, 0, numSelections*numPolarities*numDetectors)
	for s := 0; s < numSelections; s++ {
		for p := 0; p < numPolarities; p++ {
			for d := 0; d < numDetectors; d++ {
				out = append(out, Category{Selection(s), Polarity(p), Detector(d)})
			}
		}
	}
	return out
}
