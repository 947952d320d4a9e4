// Package syst models nuisance parameters and sets of shifts applied to them.
package syst

import (
	"sort"
	"sync"
)

// Syst is a nuisance-parameter handle. Handles are compared by identity.
type Syst struct {
	name  string
	latex string
}

// Name returns the handle's short name.
func (s *Syst) Name() string { return s.name }

// LatexName returns the display label.
func (s *Syst) LatexName() string { return s.latex }

func (s *Syst) String() string { return s.name }

// Registry hands out one handle per name.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Syst
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Syst)}
}

// Get returns the handle registered under name, creating it on first use.
func (r *Registry) Get(name string) *Syst {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byName[name]; ok {
		return s
	}
	s := &Syst{name: name, latex: name}
	r.byName[name] = s
	return s
}

// Lookup returns the handle registered under name, if any.
func (r *Registry) Lookup(name string) (*Syst, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byName[name]
	return s, ok
}

// All returns every registered handle ordered by name.
func (r *Registry) All() []*Syst {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Syst, 0, len(r.byName))
	for _, s := range r.byName {
		out = append(out, s)
	}
	sortByName(out)
	return out
}

// Shifts maps nuisance parameters to shift values in units of sigma.
// The nil Shifts is the nominal (no shift) set.
type Shifts map[*Syst]float64

// NoShift is the nominal shift set.
var NoShift Shifts

// Set assigns a shift, overwriting any previous value. Setting zero removes
// the parameter from the active set. A nil set is allocated on first use.
func (s *Shifts) Set(p *Syst, v float64) {
	if v == 0 {
		delete(*s, p)
		return
	}
	if *s == nil {
		*s = Shifts{}
	}
	(*s)[p] = v
}

// Get returns the shift for p, zero when inactive.
func (s Shifts) Get(p *Syst) float64 { return s[p] }

// Active returns the shifted parameters ordered by name.
func (s Shifts) Active() []*Syst {
	out := make([]*Syst, 0, len(s))
	for p, v := range s {
		if v != 0 {
			out = append(out, p)
		}
	}
	sortByName(out)
	return out
}

// IsNominal reports whether no parameter is shifted.
func (s Shifts) IsNominal() bool { return len(s.Active()) == 0 }

func sortByName(ss []*Syst) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].name < ss[j].name })
}
