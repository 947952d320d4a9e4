package pisces

import (
	"testing"

	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/truth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNameResolution(t *testing.T) {
	for f := 0; f < nFlavors; f++ {
		for s := 0; s < nSigns; s++ {
			name := CCName(f, s)
			c, err := NewOscChannel(name)
			require.NoError(t, err, name)

			parity := 1
			if s == 1 {
				parity = -1
			}
			assert.Equal(t, name, c.Name())
			assert.Equal(t, flavours[f], c.Flav(), name)
			assert.Equal(t, predict.CC, c.Curr(), name)
			assert.Equal(t, signs[s], c.Sign(), name)
			assert.Equal(t, swapConfigs[f], c.Config(), name)
			assert.Equal(t, parity*initFlav[f], c.From(), name)
			assert.Equal(t, parity*finalFlav[f], c.To(), name)
		}
	}
}

func TestChannelExamples(t *testing.T) {
	tests := []struct {
		name   string
		flav   predict.Flavors
		curr   predict.Current
		sign   predict.Sign
		config SwapConfig
		from   int
		to     int
	}{
		{"cc_nu_numutonue", predict.NuMuToNuE, predict.CC, predict.Nu, NueSwap, 14, 12},
		{"cc_nubar_numutonue", predict.NuMuToNuE, predict.CC, predict.AntiNu, NueSwap, -14, -12},
		{"cc_nu_nuetonue", predict.NuEToNuE, predict.CC, predict.Nu, NonSwap, 12, 12},
		{"cc_nubar_numutonutau", predict.NuMuToNuTau, predict.CC, predict.AntiNu, NuTauSwap, -14, -16},
		{"nc", predict.AllFlavors, predict.NC, predict.BothSigns, NonSwap, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewOscChannel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.flav, c.Flav())
			assert.Equal(t, tt.curr, c.Curr())
			assert.Equal(t, tt.sign, c.Sign())
			assert.Equal(t, tt.config, c.Config())
			assert.Equal(t, tt.from, c.From())
			assert.Equal(t, tt.to, c.To())
		})
	}
}

func TestUnknownChannel(t *testing.T) {
	for _, name := range []string{"bogus", "", "cc_nu_numutonumu ", "CC_NU_NUETONUE", "cc_both_nuetonue"} {
		_, err := NewOscChannel(name)
		assert.ErrorIs(t, err, ErrUnknownChannel, "name %q", name)
	}
	assert.Panics(t, func() { MustOscChannel("bogus") })
	assert.NotPanics(t, func() { MustOscChannel("nc") })
}

func TestChannelTruthCuts(t *testing.T) {
	appearance := truth.Event{PDG: 12, PDGOrig: 14, IsCC: true}
	antiAppearance := truth.Event{PDG: -12, PDGOrig: -14, IsCC: true}
	nc := truth.Event{PDG: 14, PDGOrig: 14}

	nu := MustOscChannel("cc_nu_numutonue")
	nubar := MustOscChannel("cc_nubar_numutonue")
	ncChan := MustOscChannel("nc")

	assert.True(t, nu.TruthCut().Pass(&appearance))
	assert.False(t, nu.TruthCut().Pass(&antiAppearance))
	assert.True(t, nubar.TruthCut().Pass(&antiAppearance))
	assert.False(t, nubar.TruthCut().Pass(&appearance))
	assert.False(t, nu.TruthCut().Pass(&nc))
	assert.True(t, ncChan.TruthCut().Pass(&nc))
	assert.False(t, ncChan.TruthCut().Pass(&appearance))
}

func TestAllChannels(t *testing.T) {
	tests := []struct {
		far  bool
		want int
	}{
		{false, 5},
		{true, 13},
	}
	for _, tt := range tests {
		cs := AllChannels(tt.far)
		require.Len(t, cs, tt.want)

		ncCount := 0
		for _, c := range cs {
			if c.IsNC() {
				ncCount++
			}
		}
		assert.Equal(t, 1, ncCount)
		assert.Equal(t, "nc", cs[len(cs)-1].Name())
	}

	near := AllChannels(false)
	names := make([]string, len(near))
	for i, c := range near {
		names[i] = c.Name()
	}
	assert.Equal(t, []string{
		"cc_nu_nuetonue", "cc_nubar_nuetonue",
		"cc_nu_numutonumu", "cc_nubar_numutonumu",
		"nc",
	}, names)
}

func TestChannelOrdering(t *testing.T) {
	cs := AllChannels(true)
	SortChannels(cs)
	for i := 1; i < len(cs); i++ {
		assert.True(t, cs[i-1].Less(cs[i]), "%s < %s", cs[i-1], cs[i])
	}
	assert.Equal(t, "cc_nu_nuetonue", cs[0].Name())
	assert.Equal(t, "nc", cs[len(cs)-1].Name())
}
