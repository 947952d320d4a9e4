package validator

import (
	"fmt"

	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/syst"
)

// Result is the outcome of running a validation tier on one sample.
type Result struct {
	Sample  string   `json:"sample"`
	Tier    int      `json:"tier"`
	Passed  bool     `json:"passed"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

// Detail describes a single check result.
type Detail struct {
	Check    string `json:"check"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
	Fix      string `json:"fix,omitempty"` // set for every failed check
}

// Failure codes.
const (
	CodeOK = iota
	CodeNotConfigured
	CodeExposureConflict
	CodeNoPrediction
	CodeBinningMismatch
	CodeNoSignal
)

// Validate runs Tier 0 and, if it passes, Tier 1 on a sample.
func Validate(s *pisces.Sample) *Result {
	if result := Tier0Configuration(s); !result.Passed {
		return result
	}
	return Tier1Prediction(s)
}

// ValidateAll validates every sample in order.
func ValidateAll(samples []*pisces.Sample) []*Result {
	out := make([]*Result, len(samples))
	for i, s := range samples {
		out[i] = Validate(s)
	}
	return out
}

func (r *Result) fail(code int, d Detail) {
	if r.Passed {
		r.Passed = false
		r.Code = code
	}
	d.Passed = false
	r.Details = append(r.Details, d)
}

// Tier0Configuration checks that axis, cut and exposure are set and that
// exposure comes from a single source.
func Tier0Configuration(s *pisces.Sample) *Result {
	result := &Result{Sample: s.Tag(), Tier: 0, Passed: true, Code: CodeOK}

	if _, err := s.Axis(); err != nil {
		result.fail(CodeNotConfigured, Detail{
			Check:    "axis_set",
			Expected: "analysis axis with variable and binning",
			Got:      err.Error(),
			Fix:      fmt.Sprintf("Add an axis block (var, bins/min/max or edges) to sample %s.", s.Tag()),
		})
	}
	if _, err := s.Cut(); err != nil {
		result.fail(CodeNotConfigured, Detail{
			Check:    "cut_set",
			Expected: "selection cut",
			Got:      err.Error(),
			Fix:      fmt.Sprintf("Set cut on sample %s to one of the named truth cuts.", s.Tag()),
		})
	}
	if _, err := s.POT(); err != nil {
		result.fail(CodeNotConfigured, Detail{
			Check:    "pot_set",
			Expected: "POT from data or explicit value",
			Got:      err.Error(),
			Fix:      fmt.Sprintf("Set pot on sample %s or attach a data spectrum.", s.Tag()),
		})
	}
	if _, err := s.Livetime(); err != nil {
		result.fail(CodeNotConfigured, Detail{
			Check:    "livetime_set",
			Expected: "livetime from data or explicit value",
			Got:      err.Error(),
			Fix:      fmt.Sprintf("Set livetime on sample %s (0 if no cosmic component) or attach a data spectrum.", s.Tag()),
		})
	}
	if s.HasData() && s.HasExplicitExposure() {
		result.fail(CodeExposureConflict, Detail{
			Check:    "single_exposure_source",
			Expected: "exposure from data only",
			Got:      "explicit pot/livetime set alongside data",
			Fix:      fmt.Sprintf("Remove pot and livetime from sample %s; the data spectrum's exposure is used.", s.Tag()),
		})
	}

	if !result.Passed {
		result.Message = fmt.Sprintf("Sample %s is not fully configured", s.Tag())
	}
	return result
}

// Tier1Prediction checks the attached prediction against the sample's
// binning and that the sample has at least one signal channel.
func Tier1Prediction(s *pisces.Sample) *Result {
	result := &Result{Sample: s.Tag(), Tier: 1, Passed: true, Code: CodeOK}

	if !s.HasPrediction() {
		result.fail(CodeNoPrediction, Detail{
			Check:    "prediction_set",
			Expected: "prediction provider attached",
			Got:      "none",
			Fix:      fmt.Sprintf("Add a components block to sample %s.", s.Tag()),
		})
		result.Message = fmt.Sprintf("Sample %s has no prediction", s.Tag())
		return result
	}

	b, _ := s.Binning()
	nominal, err := s.Predict(nil, syst.NoShift)
	if err != nil {
		result.fail(CodeNoPrediction, Detail{Check: "prediction_set", Got: err.Error(), Fix: "Attach a prediction provider."})
	} else if !nominal.Binning().Equal(b) {
		result.fail(CodeBinningMismatch, Detail{
			Check:    "prediction_binning",
			Expected: fmt.Sprintf("%d bins %v", b.NBins(), b.Edges()),
			Got:      fmt.Sprintf("%d bins %v", nominal.Binning().NBins(), nominal.Binning().Edges()),
			Fix:      fmt.Sprintf("Rebuild the prediction for sample %s on the axis binning.", s.Tag()),
		})
	}

	if len(s.SignalChannels()) == 0 {
		result.fail(CodeNoSignal, Detail{
			Check:    "signal_channels",
			Expected: "at least one signal channel",
			Got:      "none at this detector",
			Fix:      fmt.Sprintf("Mark sample %s auxiliary or drop it from the ensemble.", s.Tag()),
		})
	}

	if !result.Passed {
		result.Message = fmt.Sprintf("Sample %s prediction check failed", s.Tag())
	}
	return result
}
