package pisces

import (
	"testing"

	"github.com/sbenjam1n/pisces/internal/syst"
	"github.com/stretchr/testify/assert"
)

func TestRedirect(t *testing.T) {
	reg := syst.NewRegistry()
	a, b, c, d := reg.Get("a"), reg.Get("b"), reg.Get("c"), reg.Get("d")

	var r Redirector
	r.Alias(a, b)
	r.Drop(c)

	in := syst.Shifts{a: 1.0, c: 2.0, d: 3.0}
	assert.Equal(t, syst.Shifts{b: 1.0, d: 3.0}, r.Redirect(in))
	assert.Equal(t, 2, r.Len())

	assert.Equal(t, []*syst.Syst{b, d}, r.Filter([]*syst.Syst{a, c, d}))
}

func TestRedirectMergesOntoAlias(t *testing.T) {
	reg := syst.NewRegistry()
	a, b := reg.Get("a"), reg.Get("b")

	var r Redirector
	r.Alias(a, b)

	got := r.Redirect(syst.Shifts{a: 1.5, b: -0.5})
	assert.Equal(t, syst.Shifts{b: -0.5}, got)
}

func TestRedirectEmpty(t *testing.T) {
	reg := syst.NewRegistry()
	a := reg.Get("a")

	var r Redirector
	assert.Equal(t, syst.Shifts{a: 2}, r.Redirect(syst.Shifts{a: 2}))
	assert.Empty(t, r.Redirect(syst.NoShift))
	assert.Empty(t, r.Filter(nil))
}
