package validator

import (
	"testing"

	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/truth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configured(t *testing.T, c pisces.Category, predBins int) *pisces.Sample {
	t.Helper()
	b, err := spectrum.Simple(2, 0, 2)
	require.NoError(t, err)
	s := pisces.NewSample(c)
	s.SetAxis(spectrum.Axis{Label: "E", Var: truth.RecoEnergy, Bins: b})
	s.SetCut(truth.IsSig)
	require.NoError(t, s.SetPOT(1))
	require.NoError(t, s.SetLivetime(0))

	pb, err := spectrum.Simple(predBins, 0, 2)
	require.NoError(t, err)
	nom := spectrum.New(pb, 1, 0)
	tbl, err := predict.NewTable(predict.Component{Flav: predict.AllFlavors, Curr: predict.NC, Sign: predict.BothSigns, Nominal: nom})
	require.NoError(t, err)
	s.SetPrediction(tbl)
	return s
}

func TestValidatePasses(t *testing.T) {
	s := configured(t, pisces.Category{Selection: pisces.CCNue, Detector: pisces.FarDet}, 2)
	r := Validate(s)
	assert.True(t, r.Passed, r.Details)
	assert.Equal(t, 1, r.Tier)
	assert.Equal(t, CodeOK, r.Code)
}

func TestTier0ReportsEveryMissingField(t *testing.T) {
	s := pisces.NewSample(pisces.Category{Selection: pisces.CCNumu})
	r := Validate(s)

	assert.False(t, r.Passed)
	assert.Equal(t, 0, r.Tier)
	assert.Equal(t, CodeNotConfigured, r.Code)

	checks := map[string]bool{}
	for _, d := range r.Details {
		checks[d.Check] = true
		assert.NotEmpty(t, d.Fix, d.Check)
		assert.False(t, d.Passed)
	}
	assert.Equal(t, map[string]bool{"axis_set": true, "cut_set": true, "pot_set": true, "livetime_set": true}, checks)
}

func TestTier0ExposureConflict(t *testing.T) {
	s := configured(t, pisces.Category{Selection: pisces.CCNue, Detector: pisces.FarDet}, 2)
	b, _ := s.Binning()
	s.SetData(spectrum.New(b, 5, 1))

	r := Validate(s)
	assert.False(t, r.Passed)
	assert.Equal(t, CodeExposureConflict, r.Code)
}

func TestTier1(t *testing.T) {
	noPred := configured(t, pisces.Category{Selection: pisces.CCNue, Detector: pisces.FarDet}, 2)
	noPred.ResetPrediction()
	r := Validate(noPred)
	assert.Equal(t, CodeNoPrediction, r.Code)

	mismatch := configured(t, pisces.Category{Selection: pisces.CCNue, Detector: pisces.FarDet}, 3)
	r = Validate(mismatch)
	assert.Equal(t, CodeBinningMismatch, r.Code)

	nearNue := configured(t, pisces.Category{Selection: pisces.CCNue, Detector: pisces.NearDet}, 2)
	r = Validate(nearNue)
	assert.Equal(t, CodeNoSignal, r.Code)
	require.Len(t, r.Details, 1)
	assert.Equal(t, "signal_channels", r.Details[0].Check)
}

func TestValidateAll(t *testing.T) {
	rs := ValidateAll([]*pisces.Sample{
		configured(t, pisces.Category{Selection: pisces.NCOld}, 2),
		pisces.NewSample(pisces.Category{Selection: pisces.NCOld, Detector: pisces.FarDet}),
	})
	require.Len(t, rs, 2)
	assert.True(t, rs[0].Passed)
	assert.False(t, rs[1].Passed)
	assert.Equal(t, "ncoldsel_fhc_fardet", rs[1].Sample)
}
