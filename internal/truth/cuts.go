package truth

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func ccTransition(from, to int) func(*Event) bool {
	return func(ev *Event) bool {
		return ev.IsCC && abs(ev.PDGOrig) == from && abs(ev.PDG) == to
	}
}

// Truth cuts selecting each oscillation channel.
var (
	NoCut = NewCut("none", func(*Event) bool { return true })

	IsNC     = NewCut("is_nc", func(ev *Event) bool { return !ev.IsCC })
	IsAntiNu = NewCut("is_antinu", func(ev *Event) bool { return ev.PDG < 0 })
	IsNu     = IsAntiNu.Not()

	IsBeamNue   = NewCut("is_beam_nue", ccTransition(PDGNuE, PDGNuE))
	IsNumuCC    = NewCut("is_numu_cc", func(ev *Event) bool { return ev.IsCC && abs(ev.PDG) == PDGNuMu })
	IsNumuApp   = NewCut("is_numu_app", ccTransition(PDGNuE, PDGNuMu))
	IsTauFromE  = NewCut("is_tau_from_e", ccTransition(PDGNuE, PDGNuTau))
	IsSig       = NewCut("is_sig", ccTransition(PDGNuMu, PDGNuE))
	IsTauFromMu = NewCut("is_tau_from_mu", ccTransition(PDGNuMu, PDGNuTau))
)

// IsNoCut reports whether c is the pass-everything cut.
func (c Cut) IsNoCut() bool { return c.name == NoCut.name }

// Observables available to analysis axes.
var (
	TrueEnergy = NewVar("true_energy", func(ev *Event) float64 { return ev.Energy })
	RecoEnergy = NewVar("reco_energy", func(ev *Event) float64 { return ev.RecoEnergy })
)

var namedCuts = map[string]Cut{
	NoCut.Name():       NoCut,
	IsNC.Name():        IsNC,
	IsAntiNu.Name():    IsAntiNu,
	IsBeamNue.Name():   IsBeamNue,
	IsNumuCC.Name():    IsNumuCC,
	IsNumuApp.Name():   IsNumuApp,
	IsTauFromE.Name():  IsTauFromE,
	IsSig.Name():       IsSig,
	IsTauFromMu.Name(): IsTauFromMu,
}

var namedVars = map[string]Var{
	TrueEnergy.Name(): TrueEnergy,
	RecoEnergy.Name(): RecoEnergy,
}

// LookupCut returns the predefined cut registered under name.
func LookupCut(name string) (Cut, bool) {
	c, ok := namedCuts[name]
	return c, ok
}

// LookupVar returns the predefined variable registered under name.
func LookupVar(name string) (Var, bool) {
	v, ok := namedVars[name]
	return v, ok
}
