package pisces

import (
	"fmt"
	"sort"

	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/truth"
)

// SwapConfig selects which simulated sample supplies a channel's events.
type SwapConfig uint8

const (
	NonSwap SwapConfig = iota
	NueSwap
	NuTauSwap
)

func (c SwapConfig) String() string {
	switch c {
	case NonSwap:
		return "nonswap"
	case NueSwap:
		return "fluxswap"
	case NuTauSwap:
		return "tauswap"
	}
	return fmt.Sprintf("swap(%d)", uint8(c))
}

// Number of flavor transitions and signs in the charged-current vocabulary.
// Near-detector samples use only the first nNearFlavors transitions.
const (
	nFlavors     = 6
	nSigns       = 2
	nNearFlavors = 2
)

// Channel taxonomy, indexed by flavor transition.
var (
	flavNames = [nFlavors]string{
		"nuetonue",
		"numutonumu",
		"nuetonumu",
		"nuetonutau",
		"numutonue",
		"numutonutau",
	}
	flavours = [nFlavors]predict.Flavors{
		predict.NuEToNuE,
		predict.NuMuToNuMu,
		predict.NuEToNuMu,
		predict.NuEToNuTau,
		predict.NuMuToNuE,
		predict.NuMuToNuTau,
	}
	swapConfigs = [nFlavors]SwapConfig{
		NonSwap,
		NonSwap,
		NueSwap,
		NuTauSwap,
		NueSwap,
		NuTauSwap,
	}
	flavCuts = [nFlavors]truth.Cut{
		truth.IsBeamNue,
		truth.IsNumuCC,
		truth.IsNumuApp,
		truth.IsTauFromE,
		truth.IsSig,
		truth.IsTauFromMu,
	}
	initFlav  = [nFlavors]int{truth.PDGNuE, truth.PDGNuMu, truth.PDGNuE, truth.PDGNuE, truth.PDGNuMu, truth.PDGNuMu}
	finalFlav = [nFlavors]int{truth.PDGNuE, truth.PDGNuMu, truth.PDGNuMu, truth.PDGNuTau, truth.PDGNuE, truth.PDGNuTau}

	signNames = [nSigns]string{"nu", "nubar"}
	signs     = [nSigns]predict.Sign{predict.Nu, predict.AntiNu}
	signCuts  = [nSigns]truth.Cut{truth.IsNu, truth.IsAntiNu}
)

// CCName is the canonical name of a charged-current channel.
func CCName(flav, sign int) string {
	return "cc_" + signNames[sign] + "_" + flavNames[flav]
}

// NCName is the canonical name of the neutral-current channel.
func NCName() string { return "nc" }

// OscChannel describes one oscillation channel. Values are immutable.
type OscChannel struct {
	name   string
	flav   predict.Flavors
	curr   predict.Current
	sign   predict.Sign
	cut    truth.Cut
	config SwapConfig
	from   int
	to     int
}

// channels is the complete vocabulary keyed by canonical name.
var channels = buildChannels()

func buildChannels() map[string]OscChannel {
	m := make(map[string]OscChannel, nFlavors*nSigns+1)
	for f := 0; f < nFlavors; f++ {
		for s := 0; s < nSigns; s++ {
			parity := 1
			if s == 1 {
				parity = -1
			}
			name := CCName(f, s)
			m[name] = OscChannel{
				name:   name,
				flav:   flavours[f],
				curr:   predict.CC,
				sign:   signs[s],
				cut:    flavCuts[f].And(signCuts[s]),
				config: swapConfigs[f],
				from:   parity * initFlav[f],
				to:     parity * finalFlav[f],
			}
		}
	}
	m[NCName()] = OscChannel{
		name:   NCName(),
		flav:   predict.AllFlavors,
		curr:   predict.NC,
		sign:   predict.BothSigns,
		cut:    truth.IsNC,
		config: NonSwap,
		from:   truth.PDGNuE,
		to:     0,
	}
	return m
}

// NewOscChannel resolves a canonical channel name.
func NewOscChannel(name string) (OscChannel, error) {
	c, ok := channels[name]
	if !ok {
		return OscChannel{}, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}
	return c, nil
}

// MustOscChannel is like NewOscChannel but panics on an unknown name.
func MustOscChannel(name string) OscChannel {
	c, err := NewOscChannel(name)
	if err != nil {
		panic(err)
	}
	return c
}

func (c OscChannel) Name() string { return c.name }
func (c OscChannel) Flav() predict.Flavors { return c.flav }
func (c OscChannel) Curr() predict.Current { return c.curr }
func (c OscChannel) Sign() predict.Sign { return c.sign }
func (c OscChannel) TruthCut() truth.Cut { return c.cut }
func (c OscChannel) Config() SwapConfig { return c.config }
func (c OscChannel) From() int { return c.from }
func (c OscChannel) To() int { return c.to }
func (c OscChannel) String() string { return c.name }
func (c OscChannel) Less(o OscChannel) bool { return c.name < o.name }
func (c OscChannel) IsCC() bool { return c.curr == predict.CC }
func (c OscChannel) IsNC() bool { return c.curr == predict.NC }

// SortChannels orders channels by name.
func SortChannels(cs []OscChannel) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}

// AllChannels enumerates the channels of a detector: every charged-current
// flavor transition and sign at the far detector, only the two
// disappearance transitions at the near detector, then the neutral current.
func AllChannels(farDetector bool) []OscChannel {
	n := nNearFlavors
	if farDetector {
		n = nFlavors
	}
	out := make([]OscChannel, 0, n*nSigns+1)
	for f := 0; f < n; f++ {
		for s := 0; s < nSigns; s++ {
			out = append(out, channels[CCName(f, s)])
		}
	}
	return append(out, channels[NCName()])
}
