// Package truth holds the truth-level event record and the predicates and
// observables evaluated against it.
package truth

// PDG codes for the neutrino flavors. Antiparticles carry the negated code.
const (
	PDGNuE   = 12
	PDGNuMu  = 14
	PDGNuTau = 16
)

// Event is the truth record of one simulated neutrino interaction.
type Event struct {
	PDG        int     // final-state neutrino code, negative for antineutrinos
	PDGOrig    int     // neutrino code at production, before oscillation
	IsCC       bool    // charged-current interaction
	Energy     float64 // true neutrino energy (GeV)
	RecoEnergy float64 // reconstructed energy (GeV)
}

// Cut is a named boolean predicate over an Event. The zero Cut is unset.
type Cut struct {
	name string
	fn   func(*Event) bool
}

// NewCut returns a cut with the given name.
func NewCut(name string, fn func(*Event) bool) Cut {
	return Cut{name: name, fn: fn}
}

// Name returns the cut's name.
func (c Cut) Name() string { return c.name }

// IsZero reports whether the cut was never assigned.
func (c Cut) IsZero() bool { return c.fn == nil }

// Pass evaluates the cut. An unset cut passes nothing.
func (c Cut) Pass(ev *Event) bool {
	if c.fn == nil {
		return false
	}
	return c.fn(ev)
}

// And returns the conjunction of c and other.
func (c Cut) And(other Cut) Cut {
	a, b := c.fn, other.fn
	return Cut{
		name: "(" + c.name + " && " + other.name + ")",
		fn: func(ev *Event) bool {
			return a != nil && b != nil && a(ev) && b(ev)
		},
	}
}

// Not returns the negation of c.
func (c Cut) Not() Cut {
	a := c.fn
	return Cut{
		name: "!" + c.name,
		fn: func(ev *Event) bool {
			return a != nil && !a(ev)
		},
	}
}

// Var is a named scalar observable of an Event.
type Var struct {
	name string
	fn   func(*Event) float64
}

// NewVar returns a variable with the given name.
func NewVar(name string, fn func(*Event) float64) Var {
	return Var{name: name, fn: fn}
}

// Name returns the variable's name.
func (v Var) Name() string { return v.name }

// IsZero reports whether the variable was never assigned.
func (v Var) IsZero() bool { return v.fn == nil }

// Value evaluates the variable. An unset variable evaluates to zero.
func (v Var) Value(ev *Event) float64 {
	if v.fn == nil {
		return 0
	}
	return v.fn(ev)
}
