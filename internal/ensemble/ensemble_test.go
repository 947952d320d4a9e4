package ensemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/syst"
	"github.com/sbenjam1n/pisces/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = `
systs: [xsec_ma, flux_norm, flux_norm_fd, nd_only]
samples:
  - selection: nuesel
    polarity: fhc
    detector: fardet
    axis: {label: "Reco E (GeV)", var: reco_energy, bins: 2, min: 0, max: 4}
    cut: is_sig
    pot: 1.0e21
    livetime: 0
    aliases:
      flux_norm: flux_norm_fd
      nd_only: null
    components:
      cc_nu_numutonue: {nominal: [4, 8], slopes: {xsec_ma: [1, 1]}}
      cc_nu_numutonumu: {nominal: [1, 1]}
      nc: {nominal: [2, 2], slopes: {flux_norm_fd: [1, 0]}}
  - selection: numusel
    polarity: rhc
    detector: neardet
    axis: {var: true_energy, edges: [0, 1, 3]}
    cut: is_numu_cc
    auxiliary: true
    data: {values: [5, 6], pot: 2.0e20, livetime: 10}
`

func TestParse(t *testing.T) {
	e, err := Parse([]byte(testFile))
	require.NoError(t, err)
	require.Len(t, e.Samples, 2)

	nue := e.Samples[0]
	assert.Equal(t, "nuesel_fhc_fardet", nue.Tag())
	assert.True(t, nue.HasPrediction())
	assert.False(t, nue.IsAuxiliary())

	axis, err := nue.Axis()
	require.NoError(t, err)
	assert.Equal(t, "Reco E (GeV)", axis.Label)

	numu := e.Samples[1]
	assert.True(t, numu.IsAuxiliary())
	assert.False(t, numu.HasPrediction())
	pot, err := numu.POT()
	require.NoError(t, err)
	assert.Equal(t, 2.0e20, pot)
	axis, err = numu.Axis()
	require.NoError(t, err)
	assert.Equal(t, "true_energy", axis.Label)
	assert.Equal(t, []float64{0, 1, 3}, axis.Bins.Edges())

	token, err := e.ID()
	require.NoError(t, err)
	assert.Equal(t, "id_81_4", token)
}

func TestPredictFromFile(t *testing.T) {
	e, err := Parse([]byte(testFile))
	require.NoError(t, err)
	nue := e.Samples[0]

	calc, err := Calculator(map[string]float64{"numutonue": 0.5})
	require.NoError(t, err)

	sig, err := nue.PredictSignal(calc, syst.NoShift)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, sig.Interior(1e21))

	shifts, err := e.Shifts(map[string]float64{"flux_norm": 2, "nd_only": 5, "xsec_ma": 2})
	require.NoError(t, err)

	sig, err = nue.PredictSignal(calc, shifts)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, sig.Interior(1e21))

	bkg, err := nue.PredictBackground(calc, shifts)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3}, bkg.Interior(1e21))
}

func TestSelect(t *testing.T) {
	e, err := Parse([]byte(testFile))
	require.NoError(t, err)

	got, err := e.Select("id_4_81")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "numusel_rhc_neardet", got[0].Tag())
	assert.Equal(t, "nuesel_fhc_fardet", got[1].Tag())

	_, err = e.Select("id_0")
	assert.Error(t, err)
	_, err = e.Select("nope")
	assert.ErrorIs(t, err, pisces.ErrMalformedEnsembleID)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad selection", "samples: [{selection: x, polarity: fhc, detector: fardet}]"},
		{"bad polarity", "samples: [{selection: nuesel, polarity: x, detector: fardet}]"},
		{"bad detector", "samples: [{selection: nuesel, polarity: fhc, detector: x}]"},
		{"bad cut", "samples: [{selection: nuesel, polarity: fhc, detector: fardet, cut: x}]"},
		{"bad var", "samples: [{selection: nuesel, polarity: fhc, detector: fardet, axis: {var: x, bins: 1, min: 0, max: 1}}]"},
		{"bad binning", "samples: [{selection: nuesel, polarity: fhc, detector: fardet, axis: {var: true_energy, bins: 0}}]"},
		{"undeclared alias", "samples: [{selection: nuesel, polarity: fhc, detector: fardet, aliases: {x: null}}]"},
		{"components without axis", "samples: [{selection: nuesel, polarity: fhc, detector: fardet, components: {nc: {nominal: [1]}}}]"},
		{"unknown channel", `samples: [{selection: nuesel, polarity: fhc, detector: fardet,
  axis: {var: true_energy, bins: 1, min: 0, max: 1}, components: {bogus: {nominal: [1]}}}]`},
		{"wrong bin count", `samples: [{selection: nuesel, polarity: fhc, detector: fardet,
  axis: {var: true_energy, bins: 1, min: 0, max: 1}, components: {nc: {nominal: [1, 2]}}}]`},
		{"duplicate", `samples:
  - {selection: nuesel, polarity: fhc, detector: fardet}
  - {selection: nuesel, polarity: fhc, detector: fardet}`},
		{"not yaml", "samples: [[["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ensemble.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testFile), 0644))

	e, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, e.Samples, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCalculator(t *testing.T) {
	calc, err := Calculator(map[string]float64{"numutonumu": 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.25, calc.Weight(predict.NuMuToNuMu, predict.Nu))
	assert.Equal(t, 1.0, calc.Weight(predict.NuEToNuE, predict.Nu))

	_, err = Calculator(map[string]float64{"bogus": 1})
	assert.Error(t, err)
}

func TestExampleEnsembleFile(t *testing.T) {
	e, err := Load(filepath.Join("..", "..", "ensemble.yaml"))
	require.NoError(t, err)

	token, err := e.ID()
	require.NoError(t, err)
	assert.Equal(t, "id_0_81", token)

	for _, r := range validator.ValidateAll(e.Samples) {
		assert.True(t, r.Passed, "%s: %s %+v", r.Sample, r.Message, r.Details)
	}
}
