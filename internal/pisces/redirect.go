package pisces

import "github.com/sbenjam1n/pisces/internal/syst"

// Redirector renames or drops nuisance parameters for one sample. A key
// mapped to nil is dropped; unmapped parameters pass through.
type Redirector struct {
	aliases map[*syst.Syst]*syst.Syst
}

// Alias routes shifts of from onto to. A nil to drops from.
func (r *Redirector) Alias(from, to *syst.Syst) {
	if r.aliases == nil {
		r.aliases = make(map[*syst.Syst]*syst.Syst)
	}
	r.aliases[from] = to
}

// Drop makes the sample insensitive to p.
func (r *Redirector) Drop(p *syst.Syst) { r.Alias(p, nil) }

// Len returns the number of mapped parameters.
func (r *Redirector) Len() int { return len(r.aliases) }

// Target returns where p is routed and whether it survives.
func (r *Redirector) Target(p *syst.Syst) (*syst.Syst, bool) {
	to, mapped := r.aliases[p]
	if !mapped {
		return p, true
	}
	return to, to != nil
}

// Redirect rewrites a shift set. Parameters are visited in name order, so
// when two inputs land on the same alias the later name wins.
func (r *Redirector) Redirect(shifts syst.Shifts) syst.Shifts {
	out := syst.Shifts{}
	for _, p := range shifts.Active() {
		if to, ok := r.Target(p); ok {
			out.Set(to, shifts.Get(p))
		}
	}
	return out
}

// Filter applies the same substitution to a list of parameters.
func (r *Redirector) Filter(params []*syst.Syst) []*syst.Syst {
	out := make([]*syst.Syst, 0, len(params))
	for _, p := range params {
		if to, ok := r.Target(p); ok {
			out = append(out, to)
		}
	}
	return out
}
